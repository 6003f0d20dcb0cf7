package session

import "time"

const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Message represents a single chat message.
// A zero Timestamp means the message carries no time.
type Message struct {
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}

// HasTimestamp reports whether the message carries a time.
func (m Message) HasTimestamp() bool {
	return !m.Timestamp.IsZero()
}

package backend

// Endpoint paths relative to the backend base URL
const (
	ChatStreamPath  = "/chat/stream"
	HistoryPathFmt  = "/session/%s/history"
	DataLinePrefix  = "data: "
	ContentTypeJSON = "application/json"
)

// ChatRequest represents the request body for the streaming chat endpoint.
// SessionID is sent as null until the backend has assigned one.
type ChatRequest struct {
	Message   string  `json:"message"`
	SessionID *string `json:"session_id"`
}

// Frame is one JSON payload carried on a "data: " line of the chat stream.
// Every field is optional; an empty string means the field was absent or
// falsy. Values that are not strings arrive rendered as text.
type Frame struct {
	Chunk     string `json:"chunk,omitempty"`
	SessionID string `json:"session_id,omitempty"`
	Error     string `json:"error,omitempty"`
}

package backend

// HistoryResponse represents the response from the session history endpoint
type HistoryResponse struct {
	Messages []HistoryMessage `json:"messages"`
}

// HistoryMessage is a stored message as the backend returns it.
// Timestamp is an ISO 8601 string, or empty.
type HistoryMessage struct {
	Role      string `json:"role"`
	Content   string `json:"content"`
	Timestamp string `json:"timestamp,omitempty"`
}

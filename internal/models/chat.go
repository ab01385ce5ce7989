package models

// HistoryPart is one text fragment of a conversation turn.
type HistoryPart struct {
	Text string `json:"text"`
}

// HistoryEntry represents a single turn in a conversation.
// Role is "user" or "model"; part order is chronological.
type HistoryEntry struct {
	Role  string        `json:"role"`
	Parts []HistoryPart `json:"parts"`
}

// ChatRequest is the payload sent to the chat endpoint.
type ChatRequest struct {
	Message string         `json:"message"`
	History []HistoryEntry `json:"history"`
}

// ChatResponse carries the model reply plus the updated conversation history.
// The caller resends History on the next request; the server keeps no state.
type ChatResponse struct {
	Response string         `json:"response"`
	History  []HistoryEntry `json:"history"`
}

// ErrorResponse is the body of every non-2xx reply.
type ErrorResponse struct {
	Detail string `json:"detail"`
}

// HealthResponse is the static descriptor returned by GET /.
type HealthResponse struct {
	Message string `json:"message"`
	Version string `json:"version"`
	Model   string `json:"model"`
}

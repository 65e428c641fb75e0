package server

// ChatRequest is the body of POST /chat.
type ChatRequest struct {
	Message   string `json:"message" validate:"required"`
	SessionID string `json:"session_id" validate:"omitempty,max=128,printascii"`
}

type ChatResponse struct {
	Response  string `json:"response"`
	SessionID string `json:"session_id"`
}

type HistoryMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type HistoryResponse struct {
	SessionID string           `json:"session_id"`
	Messages  []HistoryMessage `json:"messages"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}

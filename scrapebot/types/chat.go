package types

type ChatRequest struct {
	SessionID string `json:"session_id,omitempty"`
	Provider  string `json:"provider,omitempty"`
	Message   string `json:"message"`
}

type ChatResponse struct {
	SessionID string `json:"session_id"`
	Response  string `json:"response"`
}

type TokenRequest struct {
	ClientID string `json:"client_id"`
}

package domain

// ChatMessage is one turn of a chat conversation.
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ChatRequest is a chat-completion request. Either Prompt or Messages
// must be set; Prompt is shorthand for a single user message.
type ChatRequest struct {
	Prompt      string        `json:"prompt,omitempty"`
	Messages    []ChatMessage `json:"messages,omitempty"`
	Model       string        `json:"model,omitempty"`
	Temperature *float32      `json:"temperature,omitempty"`
}

// ChatResponse is the model's reply.
type ChatResponse struct {
	Model      string `json:"model"`
	Content    string `json:"content"`
	TokensUsed int    `json:"tokensUsed,omitempty"`
}

// ModelInfo describes one model available upstream.
type ModelInfo struct {
	ID      string `json:"id"`
	OwnedBy string `json:"ownedBy,omitempty"`
}

// AIStatus reports whether the chat-completion API is configured.
type AIStatus struct {
	Available    bool   `json:"available"`
	BaseURL      string `json:"baseUrl,omitempty"`
	DefaultModel string `json:"defaultModel,omitempty"`
	Message      string `json:"message"`
}

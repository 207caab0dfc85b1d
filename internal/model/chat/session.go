package chat

import "time"

// SessionRecord captures a completed provider-backed exchange.
type SessionRecord struct {
	Messages     []PromptMessage `json:"messages"`
	LastResponse string          `json:"last_response"`
	CreatedAt    time.Time       `json:"created_at"`
}

// ConversationResponse is the body of GET /conversation/{id}.
type ConversationResponse struct {
	ConversationID string          `json:"conversation_id"`
	Messages       []PromptMessage `json:"messages"`
}

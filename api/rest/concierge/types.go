package concierge

import (
	"context"

	"codeberg.org/olkkari/server/internal/concierge"
	"codeberg.org/olkkari/server/internal/llm"
)

type Chatter interface {
	Chat(ctx context.Context, req concierge.ChatRequest) (*concierge.ChatResponse, error)
}

type ChatRequest struct {
	Message        string        `json:"message" binding:"required,max=2000"`
	History        []llm.Message `json:"history" binding:"max=100"`
	ConversationID string        `json:"conversation_id"`
}

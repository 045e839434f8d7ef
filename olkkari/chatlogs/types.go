package chatlogs

import (
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// handles chat log persistence
type Repository struct {
	db *pgxpool.Pool
}

// one concierge exchange
type Entry struct {
	ID             int64     `json:"id"`
	ConversationID string    `json:"conversation_id"`
	UserID         *string   `json:"user_id"`
	Message        string    `json:"message"`
	Reply          string    `json:"reply"`
	Model          string    `json:"model"`
	InputTokens    int       `json:"input_tokens"`
	OutputTokens   int       `json:"output_tokens"`
	CreatedAt      time.Time `json:"created_at"`
}

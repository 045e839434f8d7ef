package chatlogs

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// creates a new chat log repository
func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{db: db}
}

// stores one exchange; ID and CreatedAt are filled in
func (r *Repository) Insert(ctx context.Context, entry *Entry) error {
	return r.db.QueryRow(
		ctx,
		queryInsert,
		entry.ConversationID,
		entry.UserID,
		entry.Message,
		entry.Reply,
		entry.Model,
		entry.InputTokens,
		entry.OutputTokens,
	).Scan(&entry.ID, &entry.CreatedAt)
}

// lists the exchanges of a conversation, oldest first
func (r *Repository) ListConversation(ctx context.Context, conversationID string, limit int) ([]Entry, error) {
	rows, err := r.db.Query(ctx, queryListConversation, conversationID, limit)
	if err != nil {
		return nil, err
	}

	return pgx.CollectRows(rows, pgx.RowToStructByPos[Entry])
}

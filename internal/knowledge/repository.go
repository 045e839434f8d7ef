package knowledge

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pgvector/pgvector-go"
)

// creates a new knowledge repository
func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{db: db}
}

// inserts or replaces the row for category. a nil embedding clears it.
func (r *Repository) Upsert(ctx context.Context, category, content string, embedding []float32) error {
	var vec *pgvector.Vector
	if len(embedding) > 0 {
		v := pgvector.NewVector(embedding)
		vec = &v
	}

	if _, err := r.db.Exec(ctx, queryUpsert, category, content, vec); err != nil {
		return fmt.Errorf("failed to upsert knowledge %q: %w", category, err)
	}

	return nil
}

// most recently updated rows
func (r *Repository) List(ctx context.Context, limit int) ([]Entry, error) {
	return r.query(ctx, queryList, limit)
}

// nearest rows by embedding
func (r *Repository) SearchVector(ctx context.Context, embedding []float32, limit int) ([]Entry, error) {
	return r.query(ctx, querySearchVector, pgvector.NewVector(embedding), limit)
}

// rows matching a full-text query
func (r *Repository) SearchText(ctx context.Context, query string, limit int) ([]Entry, error) {
	return r.query(ctx, querySearchText, query, limit)
}

// rows still missing an embedding, oldest first
func (r *Repository) ListUnembedded(ctx context.Context, limit int) ([]Entry, error) {
	return r.query(ctx, queryListUnembedded, limit)
}

func (r *Repository) SetEmbedding(ctx context.Context, id int64, embedding []float32) error {
	if _, err := r.db.Exec(ctx, querySetEmbedding, id, pgvector.NewVector(embedding)); err != nil {
		return fmt.Errorf("failed to set embedding for knowledge %d: %w", id, err)
	}

	return nil
}

func (r *Repository) query(ctx context.Context, query string, args ...any) ([]Entry, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to execute knowledge query: %w", err)
	}

	entries, err := pgx.CollectRows(rows, pgx.RowToStructByPos[Entry])
	if err != nil {
		return nil, fmt.Errorf("failed to scan knowledge rows: %w", err)
	}

	return entries, nil
}

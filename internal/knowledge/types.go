package knowledge

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// one knowledge_base row; Score is set by searches
type Entry struct {
	ID        int64     `json:"id"`
	Category  string    `json:"category"`
	Content   string    `json:"content"`
	UpdatedAt time.Time `json:"updated_at"`
	Score     float64   `json:"score,omitempty"`
}

// storage operations the Base needs
type Backend interface {
	Upsert(ctx context.Context, category, content string, embedding []float32) error
	List(ctx context.Context, limit int) ([]Entry, error)
	SearchVector(ctx context.Context, embedding []float32, limit int) ([]Entry, error)
	SearchText(ctx context.Context, query string, limit int) ([]Entry, error)
}

// generates embeddings for stored and queried text
type Embedder interface {
	GenerateEmbedding(ctx context.Context, text string) ([]float32, error)
}

// implements Backend on Postgres with pgvector
type Repository struct {
	db *pgxpool.Pool
}

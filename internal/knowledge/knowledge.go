package knowledge

import (
	"context"
	"fmt"
	"strings"

	"codeberg.org/olkkari/server/internal/logger"
)

const defaultLimit = 5

// house knowledge used to ground concierge answers. embeddings are used
// when an embedder is configured; full-text search always runs.
type Base struct {
	backend  Backend
	embedder Embedder
}

// creates a knowledge base. embedder may be nil.
func NewBase(backend Backend, embedder Embedder) *Base {
	return &Base{backend: backend, embedder: embedder}
}

// stores content under category, embedding it when possible
func (b *Base) Put(ctx context.Context, category, content string) error {
	category = strings.TrimSpace(category)
	if category == "" {
		return fmt.Errorf("category is required")
	}

	var embedding []float32

	if b.embedder != nil {
		var err error
		embedding, err = b.embedder.GenerateEmbedding(ctx, category+": "+content)
		if err != nil {
			logger.WarnErr(err, "failed to embed knowledge, storing without vector", "category", category)
			embedding = nil
		}
	}

	return b.backend.Upsert(ctx, category, content, embedding)
}

// returns up to limit entries relevant to query: vector hits first, then
// text hits, deduplicated. falls back to the latest entries when nothing
// matches.
func (b *Base) Relevant(ctx context.Context, query string, limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = defaultLimit
	}

	var results []Entry

	if b.embedder != nil && strings.TrimSpace(query) != "" {
		embedding, err := b.embedder.GenerateEmbedding(ctx, query)
		if err != nil {
			logger.WarnErr(err, "failed to embed knowledge query, using text search only")
		} else {
			vectorHits, err := b.backend.SearchVector(ctx, embedding, limit)
			if err != nil {
				return nil, err
			}
			results = vectorHits
		}
	}

	if strings.TrimSpace(query) != "" && len(results) < limit {
		textHits, err := b.backend.SearchText(ctx, query, limit)
		if err != nil {
			return nil, err
		}
		results = merge(results, textHits, limit)
	}

	if len(results) == 0 {
		return b.backend.List(ctx, limit)
	}

	return results, nil
}

// latest entries regardless of query
func (b *Base) Latest(ctx context.Context, limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = defaultLimit
	}

	return b.backend.List(ctx, limit)
}

func merge(primary, secondary []Entry, limit int) []Entry {
	seen := make(map[int64]bool, len(primary))
	out := make([]Entry, 0, limit)

	for _, list := range [][]Entry{primary, secondary} {
		for _, e := range list {
			if len(out) >= limit {
				return out
			}

			if seen[e.ID] {
				continue
			}

			seen[e.ID] = true
			out = append(out, e)
		}
	}

	return out
}

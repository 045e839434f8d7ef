package knowledge

import (
	"context"
	"fmt"

	"codeberg.org/olkkari/server/internal/logger"
)

const defaultBatchSize = 32

type BackfillStore interface {
	ListUnembedded(ctx context.Context, limit int) ([]Entry, error)
	SetEmbedding(ctx context.Context, id int64, embedding []float32) error
}

type BatchEmbedder interface {
	GenerateEmbeddings(ctx context.Context, texts []string) ([][]float32, error)
}

// embeds rows written while no embedder was available. with dryRun only
// the first batch is counted.
func Backfill(ctx context.Context, store BackfillStore, embedder BatchEmbedder, batchSize int, dryRun bool) (int, error) {
	if batchSize <= 0 {
		batchSize = defaultBatchSize
	}

	total := 0

	for {
		entries, err := store.ListUnembedded(ctx, batchSize)
		if err != nil {
			return total, err
		}

		if len(entries) == 0 {
			return total, nil
		}

		if dryRun {
			return len(entries), nil
		}

		texts := make([]string, len(entries))
		for i, e := range entries {
			texts[i] = e.Category + ": " + e.Content
		}

		embeddings, err := embedder.GenerateEmbeddings(ctx, texts)
		if err != nil {
			return total, fmt.Errorf("failed to embed knowledge batch: %w", err)
		}

		if len(embeddings) != len(entries) {
			return total, fmt.Errorf("embedder returned %d vectors for %d rows", len(embeddings), len(entries))
		}

		for i, e := range entries {
			if err := store.SetEmbedding(ctx, e.ID, embeddings[i]); err != nil {
				return total, err
			}
		}

		total += len(entries)
		logger.Info("embedded knowledge batch", "rows", len(entries), "total", total)

		if len(entries) < batchSize {
			return total, nil
		}
	}
}

package main

import (
	"context"
	"fmt"

	"codeberg.org/olkkari/server/internal/config"
	"codeberg.org/olkkari/server/internal/knowledge"
	"codeberg.org/olkkari/server/internal/llm"
	"codeberg.org/olkkari/server/internal/logger"
	"github.com/jackc/pgx/v5/pgxpool"
)

// embeds knowledge rows stored while no embedder was configured
func EmbedKnowledge(cfg *config.Config, db *pgxpool.Pool, flags config.Flags) error {
	if cfg.OpenAIKey == "" {
		return fmt.Errorf("OPENAI_API_KEY is required to embed knowledge")
	}

	ctx, cancel := context.WithTimeout(context.Background(), flags.Timeout)
	defer cancel()

	embedder := llm.NewOpenAIEmbedder(llm.OpenAIConfig{APIKey: cfg.OpenAIKey})

	n, err := knowledge.Backfill(ctx, knowledge.NewRepository(db), embedder, 0, flags.DryRun)
	if err != nil {
		return err
	}

	if flags.DryRun {
		logger.Info("rows missing embeddings", "count", n)
		return nil
	}

	logger.Info("knowledge embeddings backfilled", "rows", n)

	return nil
}

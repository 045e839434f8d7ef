package main

import (
	"context"
	"fmt"

	"codeberg.org/olkkari/server/internal/config"
	"codeberg.org/olkkari/server/internal/knowledge"
	"codeberg.org/olkkari/server/internal/llm"
	"codeberg.org/olkkari/server/internal/logger"
	"codeberg.org/olkkari/server/internal/sitesync"
	"github.com/jackc/pgx/v5/pgxpool"
)

// fetches the public website and upserts its summary rows
func SyncSite(cfg *config.Config, db *pgxpool.Pool, flags config.Flags) error {
	ctx, cancel := context.WithTimeout(context.Background(), flags.Timeout)
	defer cancel()

	var embedder knowledge.Embedder
	if cfg.OpenAIKey != "" {
		embedder = llm.NewOpenAIEmbedder(llm.OpenAIConfig{APIKey: cfg.OpenAIKey})
	}

	base := knowledge.NewBase(knowledge.NewRepository(db), embedder)
	syncer := sitesync.New(base, flags.Timeout)

	result, err := syncer.Sync(ctx, flags.URL, flags.DryRun)
	if err != nil {
		return err
	}

	for _, u := range result.Updates {
		fmt.Printf("[%s]\n%s\n\n", u.Category, u.Content)
	}

	if len(result.Failed) > 0 {
		logger.Warn("some rows were not stored", "failed", result.Failed)
	}

	logger.Info("website sync complete",
		"url", result.URL,
		"rows", len(result.Updates)-len(result.Failed),
		"dry_run", flags.DryRun,
	)

	return nil
}

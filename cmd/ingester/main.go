package main

import (
	"context"
	"fmt"
	"os"

	"codeberg.org/olkkari/server/internal/config"
	"codeberg.org/olkkari/server/internal/logger"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Println("Usage: ingester <command> [options]")
		fmt.Println("Commands:")
		fmt.Println("  site   - summarize the public website into the knowledge base")
		fmt.Println("  embed  - embed knowledge rows that are missing vectors")
		fmt.Println("\nOptions:")
		fmt.Println("  --url <url>         - website to summarize (site)")
		fmt.Println("  --dry-run           - report without writing")
		fmt.Println("  --timeout <dur>     - overall timeout")
		os.Exit(1)
	}

	command := os.Args[1]

	cfg, err := config.LoadEnvironmentVariables()
	if err != nil {
		logger.Fatal("failed to load configuration", "error", err)
	}

	ctx := context.Background()

	poolConfig, err := pgxpool.ParseConfig(cfg.SupabaseConnString)
	if err != nil {
		logger.Fatal("failed to parse database config", "error", err)
	}

	poolConfig.ConnConfig.DefaultQueryExecMode = pgx.QueryExecModeSimpleProtocol

	db, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		logger.Fatal("failed to create database pool", "error", err)
	}

	defer db.Close()

	if err := db.Ping(ctx); err != nil {
		logger.Fatal("failed to ping database", "error", err)
	}

	logger.Info("connected to database")

	switch command {
	case "site":
		if err := SyncSite(cfg, db, config.ParseSiteFlags()); err != nil {
			logger.Fatal("failed to sync website", "error", err)
		}

	case "embed":
		if err := EmbedKnowledge(cfg, db, config.ParseEmbedFlags()); err != nil {
			logger.Fatal("failed to embed knowledge", "error", err)
		}

	default:
		fmt.Printf("Unknown command: %s\n", command)
		os.Exit(1)
	}
}

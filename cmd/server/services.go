package main

import (
	"fmt"
	"time"

	"codeberg.org/olkkari/server/internal/concierge"
	"codeberg.org/olkkari/server/internal/config"
	"codeberg.org/olkkari/server/internal/knowledge"
	"codeberg.org/olkkari/server/internal/llm"
	"codeberg.org/olkkari/server/internal/logger"
	"codeberg.org/olkkari/server/internal/mailer"
	"codeberg.org/olkkari/server/internal/receipts"
	"codeberg.org/olkkari/server/internal/sitesync"
	"codeberg.org/olkkari/server/internal/supabase"
	"codeberg.org/olkkari/server/olkkari/bookings"
	"codeberg.org/olkkari/server/olkkari/catalog"
	"codeberg.org/olkkari/server/olkkari/chatlogs"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
)

const (
	imageFetchTimeout = 20 * time.Second
	siteSyncTimeout   = 30 * time.Second
)

// creates and configures all service clients
func InitializeServices(cfg *config.Config, db *pgxpool.Pool, rdb *redis.Client, bookingRepo *bookings.Repository) (*Services, error) {
	llmConfig, err := llm.ConfigFromEnv(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to configure LLM: %w", err)
	}

	llmClients, err := llm.New(llmConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create LLM clients: %w", err)
	}

	if llmClients.Embedder == nil {
		logger.Warn("no embedding key configured, knowledge search falls back to full text")
	}

	receiptDeps := receipts.Dependencies{
		Bookings:  bookingRepo,
		Images:    receipts.NewHTTPFetcher(imageFetchTimeout),
		Extractor: receipts.NewVisionExtractor(llmClients.Vision),
	}

	if cfg.HasObjectStorage() {
		receiptDeps.Objects = receipts.NewS3Store(cfg.Storage)
	} else {
		logger.Warn("object storage credentials missing, receipt images are kept in memory")
		mem := receipts.NewMemoryStore(cfg.Storage.PublicBaseURL + "/" + cfg.Storage.Bucket)
		receiptDeps.Objects = mem
		receiptDeps.Images = mem
	}

	if rdb != nil {
		receiptDeps.Locks = receipts.NewRedisLockStore(rdb)
	}

	var embedder knowledge.Embedder
	if llmClients.Embedder != nil {
		embedder = llmClients.Embedder
	}

	knowledgeBase := knowledge.NewBase(knowledge.NewRepository(db), embedder)

	return &Services{
		LLM:       llmClients,
		Auth:      supabase.New(cfg.SupabaseURL, cfg.SupabaseAnonKey),
		Receipts:  receipts.NewPipeline(receiptDeps),
		Knowledge: knowledgeBase,
		Concierge: concierge.New(
			llmClients.Chat,
			catalog.NewRepository(db),
			knowledgeBase,
			chatlogs.NewRepository(db),
		),
		Mailer:   mailer.New(cfg.Mail, appURL(cfg)),
		SiteSync: sitesync.New(knowledgeBase, siteSyncTimeout),
	}, nil
}

// where members land after sign-in; the first allowed frontend origin
func appURL(cfg *config.Config) string {
	if len(cfg.Frontend.AllowedOrigins) > 0 {
		return cfg.Frontend.AllowedOrigins[0]
	}

	return cfg.WebsiteURL
}

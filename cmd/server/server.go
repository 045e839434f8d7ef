package main

import (
	"context"
	"fmt"
	"time"

	"codeberg.org/olkkari/server/internal/config"
	"codeberg.org/olkkari/server/internal/identity"
	"codeberg.org/olkkari/server/internal/logger"
	"codeberg.org/olkkari/server/internal/ratelimit"
	ws "codeberg.org/olkkari/server/internal/websocket"
	"codeberg.org/olkkari/server/olkkari/bookings"
	"codeberg.org/olkkari/server/olkkari/catalog"
	"codeberg.org/olkkari/server/olkkari/chatlogs"
	"codeberg.org/olkkari/server/olkkari/profiles"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
)

// creates and configures a new server instance with all dependencies
func NewServer(cfg *config.Config) (*Server, error) {
	ctx := context.Background()

	poolConfig, err := pgxpool.ParseConfig(cfg.SupabaseConnString)
	if err != nil {
		return nil, fmt.Errorf("failed to parse database config: %w", err)
	}

	// supabase pooler allows few connections
	poolConfig.MaxConns = 5
	poolConfig.MinConns = 1
	poolConfig.MaxConnLifetime = 30 * time.Minute
	poolConfig.MaxConnIdleTime = 5 * time.Minute
	poolConfig.HealthCheckPeriod = 1 * time.Minute

	// pgbouncer in transaction mode does not support prepared statements
	poolConfig.ConnConfig.DefaultQueryExecMode = pgx.QueryExecModeSimpleProtocol

	db, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create database pool: %w", err)
	}

	if err := db.Ping(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	rdb, err := connectRedis(ctx, cfg.RedisURL)
	if err != nil {
		db.Close()
		return nil, err
	}

	profileRepo := profiles.NewRepository(db)
	bookingRepo := bookings.NewRepository(db)

	services, err := InitializeServices(cfg, db, rdb, bookingRepo)
	if err != nil {
		closeRedis(rdb)
		db.Close()
		return nil, fmt.Errorf("failed to initialize services: %w", err)
	}

	limiter := ratelimit.NewMemory()
	if rdb != nil {
		if limiter, err = ratelimit.NewRedis(rdb); err != nil {
			closeRedis(rdb)
			db.Close()
			return nil, err
		}
	}

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	server := &Server{
		db:          db,
		redis:       rdb,
		config:      cfg,
		profileRepo: profileRepo,
		bookingRepo: bookingRepo,
		catalogRepo: catalog.NewRepository(db),
		chatLogRepo: chatlogs.NewRepository(db),
		resolver:    identity.NewResolver(profileRepo),
		services:    services,
		limiter:     limiter,
		hub:         ws.NewHub(),
		router:      gin.Default(),
	}

	go server.hub.Run()

	RegisterRoutes(server.router, server)

	logger.Info("server initialized",
		"mail", services.Mailer.Provider(),
		"redis", rdb != nil,
		"object_storage", cfg.HasObjectStorage(),
	)

	return server, nil
}

// connects to redis when url is set. without it locks and rate limits
// stay in process.
func connectRedis(ctx context.Context, url string) (*redis.Client, error) {
	if url == "" {
		logger.Warn("REDIS_URL not set, using in-process locks and rate limits")
		return nil, nil
	}

	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis url: %w", err)
	}

	client := redis.NewClient(opts)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		client.Close() //nolint:errcheck,gosec // best-effort cleanup on init failure
		return nil, fmt.Errorf("failed to ping redis: %w", err)
	}

	return client, nil
}

func closeRedis(client *redis.Client) {
	if client != nil {
		client.Close() //nolint:errcheck,gosec // best-effort cleanup
	}
}

// releases pooled connections
func (s *Server) Close() {
	s.hub.Shutdown()
	closeRedis(s.redis)
	s.db.Close()
}

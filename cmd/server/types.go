package main

import (
	"codeberg.org/olkkari/server/internal/concierge"
	"codeberg.org/olkkari/server/internal/config"
	"codeberg.org/olkkari/server/internal/identity"
	"codeberg.org/olkkari/server/internal/knowledge"
	"codeberg.org/olkkari/server/internal/llm"
	"codeberg.org/olkkari/server/internal/mailer"
	"codeberg.org/olkkari/server/internal/ratelimit"
	"codeberg.org/olkkari/server/internal/receipts"
	"codeberg.org/olkkari/server/internal/sitesync"
	"codeberg.org/olkkari/server/internal/supabase"
	ws "codeberg.org/olkkari/server/internal/websocket"
	"codeberg.org/olkkari/server/olkkari/bookings"
	"codeberg.org/olkkari/server/olkkari/catalog"
	"codeberg.org/olkkari/server/olkkari/chatlogs"
	"codeberg.org/olkkari/server/olkkari/profiles"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
)

// holds all dependencies and state for the API server
type Server struct {
	db     *pgxpool.Pool
	redis  *redis.Client // nil when REDIS_URL is unset
	config *config.Config

	profileRepo *profiles.Repository
	bookingRepo *bookings.Repository
	catalogRepo *catalog.Repository
	chatLogRepo *chatlogs.Repository

	resolver *identity.Resolver
	services *Services
	limiter  *ratelimit.Limiter
	hub      *ws.Hub
	router   *gin.Engine
}

// holds all external service clients
type Services struct {
	LLM       *llm.Clients
	Auth      *supabase.Client
	Receipts  *receipts.Pipeline
	Knowledge *knowledge.Base
	Concierge *concierge.Concierge
	Mailer    *mailer.Mailer
	SiteSync  *sitesync.Syncer
}

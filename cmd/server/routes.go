package main

import (
	"context"
	"time"

	"codeberg.org/olkkari/server/api/rest/admin"
	"codeberg.org/olkkari/server/api/rest/auth"
	"codeberg.org/olkkari/server/api/rest/bookings"
	"codeberg.org/olkkari/server/api/rest/catalog"
	"codeberg.org/olkkari/server/api/rest/concierge"
	"codeberg.org/olkkari/server/api/rest/health"
	"codeberg.org/olkkari/server/api/rest/profiles"
	"codeberg.org/olkkari/server/api/websocket"
	"codeberg.org/olkkari/server/internal/ratelimit"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// sets up all API routes and middleware
func RegisterRoutes(router *gin.Engine, server *Server) {
	router.Use(CORSMiddleware(server.config.Frontend.AllowedOrigins))
	router.GET("/health", health.Handler(server.healthChecks()))

	v1 := router.Group("/api/v1")

	{
		v1.GET("/ping", health.PingHandler)

		auth.RegisterRoutes(v1, auth.Deps{
			Provider:     server.services.Auth,
			Profiles:     server.profileRepo,
			Resolver:     server.resolver,
			MagicLinkURL: server.config.Frontend.MagicLinkURL,
		}, server.limiter.MustMiddleware(ratelimit.Auth))

		profiles.RegisterRoutes(v1, server.profileRepo)
		catalog.RegisterRoutes(v1, server.catalogRepo)

		concierge.RegisterRoutes(v1, server.services.Concierge,
			server.limiter.MustMiddleware(ratelimit.Concierge))

		bookings.RegisterRoutes(v1, bookings.Deps{
			Store:    server.bookingRepo,
			Receipts: server.services.Receipts,
			Notifier: server.services.Mailer,
			Events:   server.hub,
			Resolver: server.resolver,
		}, server.limiter.MustMiddleware(ratelimit.Receipts))

		admin.RegisterRoutes(v1, admin.Deps{
			Bookings: server.bookingRepo,
			Members:  server.profileRepo,
			Mailer:   server.services.Mailer,
			Syncer:   server.services.SiteSync,
			Events:   server.hub,
			Resolver: server.resolver,
			SiteURL:  server.config.WebsiteURL,
		})

		websocket.RegisterRoutes(v1, server.hub, server.resolver)
	}
}

// allows the configured frontend origins to call the API with bearer tokens
func CORSMiddleware(origins []string) gin.HandlerFunc {
	return cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length", "X-RateLimit-Limit", "X-RateLimit-Remaining", "X-RateLimit-Reset"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	})
}

func (s *Server) healthChecks() map[string]health.Check {
	checks := map[string]health.Check{
		"database": func(ctx context.Context) error {
			return s.db.Ping(ctx)
		},
	}

	if s.redis != nil {
		checks["redis"] = func(ctx context.Context) error {
			return s.redis.Ping(ctx).Err()
		}
	}

	return checks
}

package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"codeberg.org/olkkari/server/internal/config"
	"codeberg.org/olkkari/server/internal/logger"
)

// @title Olkkari API
// @version 1.0
// @description Member companion for Ravinteli Olkkari
// @description
// @description Features:
// @description - Member sign-in, onboarding and approval
// @description - Table bookings with receipt capture and extraction
// @description - Menu, wine, event, art and chef catalog
// @description - AI concierge with house knowledge
// @description - Host tools: approvals, bookings, email, website sync

// @contact.name Olkkari
// @contact.url https://codeberg.org/olkkari/server

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Supabase access token. Format: Bearer {token}

func main() {
	cfg, err := config.LoadEnvironmentVariables()
	if err != nil {
		logger.Fatal("failed to load configuration", "error", err)
	}

	logger.SetDefault(logger.New(cfg.Environment, os.Getenv("LOG_LEVEL")))
	logger.Info("starting olkkari server", "environment", cfg.Environment)

	srv, err := NewServer(cfg)
	if err != nil {
		logger.Fatal("failed to create server", "error", err)
	}

	httpServer := &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.Port),
		Handler: srv.router,
		// receipt uploads and concierge replies can be slow
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 90 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("server listening", "port", cfg.Port)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("server failed to start", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(ctx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
	}

	srv.Close()

	logger.Info("server stopped")
}

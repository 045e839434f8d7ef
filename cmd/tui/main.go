package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"codeberg.org/olkkari/server/internal/authstate"
	"codeberg.org/olkkari/server/internal/config"
	"codeberg.org/olkkari/server/internal/identity"
	"codeberg.org/olkkari/server/internal/logger"
	"codeberg.org/olkkari/server/internal/tui"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/term"
)

func main() {
	flags := config.ParseTUIFlags(os.Args[1:])

	if !term.IsTerminal(os.Stdout.Fd()) {
		fmt.Println("olkkari needs an interactive terminal")
		os.Exit(1)
	}

	logFile, err := os.OpenFile(flags.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		fmt.Printf("failed to open log file: %v\n", err)
		os.Exit(1)
	}
	defer logFile.Close() //nolint:errcheck

	logger.SetDefault(slog.New(slog.NewTextHandler(logFile, &slog.HandlerOptions{Level: slog.LevelDebug})).
		With("service", "olkkari-tui"))

	client := tui.NewClient(flags.APIEndpoint)
	sessions := tui.NewSessionStore(client, tui.DefaultSessionPath())
	client.UseToken(sessions.AccessToken)

	store := authstate.NewStore(sessions, identity.NewResolver(client))
	defer store.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	store.Start(ctx)

	app := tui.NewApp(store, sessions, client)
	p := tea.NewProgram(app, tea.WithAltScreen(), tea.WithMouseCellMotion())

	if _, err := p.Run(); err != nil {
		logger.ErrorErr(err, "tui exited")
		fmt.Printf("error running olkkari: %v\n", err)
		os.Exit(1) //nolint:gocritic // deferred cleanup is best-effort
	}
}

package config

import (
	"flag"
	"os"
	"time"
)

// parses CLI flags for the site subcommand
func ParseSiteFlags() Flags {
	args := os.Args[2:]

	fs := flag.NewFlagSet("site", flag.ExitOnError)
	url := fs.String("url", getenv("WEBSITE_URL", defaultWebsiteURL), "public website to summarize")
	dryRun := fs.Bool("dry-run", false, "print extracted entries without writing them")
	timeout := fs.Duration("timeout", 30*time.Second, "overall timeout")
	fs.Parse(args) //nolint:errcheck,gosec // G104: ExitOnError flag set handles errors

	return Flags{URL: *url, DryRun: *dryRun, Timeout: *timeout}
}

// parses CLI flags for the embed subcommand
func ParseEmbedFlags() Flags {
	args := os.Args[2:]

	fs := flag.NewFlagSet("embed", flag.ExitOnError)
	dryRun := fs.Bool("dry-run", false, "count rows without embedding")
	timeout := fs.Duration("timeout", 5*time.Minute, "overall timeout")
	fs.Parse(args) //nolint:errcheck,gosec // G104: ExitOnError flag set handles errors

	return Flags{DryRun: *dryRun, Timeout: *timeout}
}

// parses flags for the terminal client
func ParseTUIFlags(args []string) TUIFlags {
	fs := flag.NewFlagSet("olkkari", flag.ExitOnError)
	endpoint := fs.String("api", getenv("OLKKARI_API_ENDPOINT", "http://localhost:8080"), "server base URL")
	logFile := fs.String("log", getenv("OLKKARI_LOG_FILE", "olkkari-tui.log"), "log file (the terminal is owned by the UI)")
	fs.Parse(args) //nolint:errcheck,gosec // G104: ExitOnError flag set handles errors

	return TUIFlags{APIEndpoint: *endpoint, LogFile: *logFile}
}

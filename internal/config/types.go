package config

import "time"

type Config struct {
	Environment string
	Port        string

	// supabase
	SupabaseConnString string
	SupabaseURL        string
	SupabaseAnonKey    string
	JWTSecret          string

	// optional services
	RedisURL     string
	GeminiKey    string
	AnthropicKey string
	OpenAIKey    string

	Storage  StorageConfig
	Mail     MailConfig
	Frontend FrontendConfig

	WebsiteURL string
}

// S3-compatible bucket holding receipt images
type StorageConfig struct {
	Endpoint      string
	Region        string
	AccessKeyID   string
	SecretKey     string
	Bucket        string
	PublicBaseURL string
}

type MailConfig struct {
	SMTPHost     string
	SMTPPort     int
	SMTPUser     string
	SMTPPassword string
	FromName     string

	OneSignalAppID  string
	OneSignalAPIKey string
}

type FrontendConfig struct {
	AllowedOrigins []string
	MagicLinkURL   string
}

// flags shared by the ingester subcommands
type Flags struct {
	URL     string
	DryRun  bool
	Timeout time.Duration
}

// flags for the terminal client
type TUIFlags struct {
	APIEndpoint string
	LogFile     string
}

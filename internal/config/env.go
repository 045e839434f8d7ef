package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

const (
	defaultWebsiteURL = "https://ravinteliolkkari.fi/"
	defaultPort       = "8080"
	defaultBucket     = "receipts"
)

// loads configuration from environment variables
func LoadEnvironmentVariables() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		_ = err // not an error - production environments may not have .env file
	}

	cfg := &Config{
		Environment:        getenv("ENVIRONMENT", "development"),
		Port:               getenv("PORT", defaultPort),
		SupabaseConnString: os.Getenv("SUPABASE_CONNECTION_STRING"),
		SupabaseURL:        strings.TrimRight(os.Getenv("SUPABASE_URL"), "/"),
		SupabaseAnonKey:    os.Getenv("SUPABASE_ANON_KEY"),
		JWTSecret:          os.Getenv("JWT_SECRET"),
		RedisURL:           os.Getenv("REDIS_URL"),
		GeminiKey:          os.Getenv("GEMINI_API_KEY"),
		AnthropicKey:       os.Getenv("ANTHROPIC_API_KEY"),
		OpenAIKey:          os.Getenv("OPENAI_API_KEY"),
		WebsiteURL:         getenv("WEBSITE_URL", defaultWebsiteURL),
	}

	if cfg.SupabaseConnString == "" {
		return nil, fmt.Errorf("SUPABASE_CONNECTION_STRING environment variable is required")
	}

	if cfg.SupabaseURL == "" {
		return nil, fmt.Errorf("SUPABASE_URL environment variable is required")
	}

	if cfg.SupabaseAnonKey == "" {
		return nil, fmt.Errorf("SUPABASE_ANON_KEY environment variable is required")
	}

	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET environment variable is required")
	}

	if cfg.GeminiKey == "" && cfg.AnthropicKey == "" {
		return nil, fmt.Errorf("GEMINI_API_KEY or ANTHROPIC_API_KEY environment variable is required")
	}

	cfg.Storage = StorageConfig{
		Endpoint:      getenv("STORAGE_S3_ENDPOINT", cfg.SupabaseURL+"/storage/v1/s3"),
		Region:        getenv("STORAGE_S3_REGION", "eu-central-1"),
		AccessKeyID:   os.Getenv("STORAGE_S3_ACCESS_KEY_ID"),
		SecretKey:     os.Getenv("STORAGE_S3_SECRET_ACCESS_KEY"),
		Bucket:        getenv("STORAGE_BUCKET", defaultBucket),
		PublicBaseURL: getenv("STORAGE_PUBLIC_URL", cfg.SupabaseURL+"/storage/v1/object/public"),
	}

	smtpPort, err := strconv.Atoi(getenv("SMTP_PORT", "587"))
	if err != nil {
		return nil, fmt.Errorf("SMTP_PORT must be a number: %w", err)
	}

	cfg.Mail = MailConfig{
		SMTPHost:        getenv("SMTP_HOST", "smtp.gmail.com"),
		SMTPPort:        smtpPort,
		SMTPUser:        os.Getenv("SMTP_USER"),
		SMTPPassword:    os.Getenv("SMTP_PASSWORD"),
		FromName:        getenv("MAIL_FROM_NAME", "Ravinteli Olkkari"),
		OneSignalAppID:  os.Getenv("ONESIGNAL_APP_ID"),
		OneSignalAPIKey: os.Getenv("ONESIGNAL_API_KEY"),
	}

	cfg.Frontend = FrontendConfig{
		AllowedOrigins: splitList(getenv("ALLOWED_ORIGINS", "http://localhost:3000")),
		MagicLinkURL:   getenv("MAGIC_LINK_REDIRECT_URL", "http://localhost:3000/onboarding"),
	}

	return cfg, nil
}

// reports whether S3 credentials were provided
func (c *Config) HasObjectStorage() bool {
	return c.Storage.AccessKeyID != "" && c.Storage.SecretKey != ""
}

func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}

	return fallback
}

func splitList(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))

	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}

	return out
}

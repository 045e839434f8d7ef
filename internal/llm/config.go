package llm

import (
	"fmt"
	"os"
	"strconv"

	"codeberg.org/olkkari/server/internal/config"
)

const (
	defaultGeminiModel    = "gemini-2.0-flash"
	defaultAnthropicModel = "claude-3-5-haiku-20241022"
	defaultChatMaxTokens  = 1024
	defaultChatTemp       = 0.7
)

// builds LLM configuration from the loaded app config plus model overrides
func ConfigFromEnv(base *config.Config) (*Config, error) {
	provider := Provider(os.Getenv("LLM_PROVIDER"))
	if provider == "" {
		provider = ProviderGemini
		if base.GeminiKey == "" {
			provider = ProviderAnthropic
		}
	}

	cfg := &Config{
		Provider:       provider,
		APIKey:         getAPIKeyForProvider(provider, base),
		Model:          os.Getenv("LLM_MODEL"),
		VisionModel:    os.Getenv("LLM_VISION_MODEL"),
		EmbedderAPIKey: base.OpenAIKey,
		EmbedderModel:  os.Getenv("EMBEDDER_MODEL"),
		MaxTokens:      defaultChatMaxTokens,
		Temperature:    defaultChatTemp,
	}

	if cfg.APIKey == "" {
		return nil, fmt.Errorf("no API key configured for provider %s", provider)
	}

	if cfg.Model == "" {
		cfg.Model = defaultModelFor(provider)
	}

	if maxTokensStr := os.Getenv("LLM_MAX_TOKENS"); maxTokensStr != "" {
		if val, err := strconv.Atoi(maxTokensStr); err == nil {
			cfg.MaxTokens = val
		}
	}

	if tempStr := os.Getenv("LLM_TEMPERATURE"); tempStr != "" {
		if val, err := strconv.ParseFloat(tempStr, 32); err == nil {
			cfg.Temperature = float32(val)
		}
	}

	return cfg, nil
}

// returns the appropriate API key for the given provider
func getAPIKeyForProvider(provider Provider, base *config.Config) string {
	switch provider {
	case ProviderGemini:
		return base.GeminiKey
	case ProviderOpenAI:
		return base.OpenAIKey
	default:
		return base.AnthropicKey
	}
}

func defaultModelFor(provider Provider) string {
	if provider == ProviderAnthropic {
		return defaultAnthropicModel
	}

	return defaultGeminiModel
}

package llm

import (
	"fmt"
)

// the model clients the server needs
type Clients struct {
	Chat   TextGenerator
	Vision VisionGenerator
	// nil when no embedding key is configured
	Embedder Embedder
}

// creates the clients for the configured provider
func New(config *Config) (*Clients, error) {
	if config == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}

	visionModel := config.VisionModel
	if visionModel == "" {
		visionModel = config.Model
	}

	clients := &Clients{}

	switch config.Provider {
	case ProviderGemini:
		clients.Chat = NewGeminiClient(GeminiConfig{
			APIKey:      config.APIKey,
			Model:       config.Model,
			MaxTokens:   config.MaxTokens,
			Temperature: config.Temperature,
		})
		clients.Vision = NewGeminiClient(GeminiConfig{
			APIKey:      config.APIKey,
			Model:       visionModel,
			MaxTokens:   config.MaxTokens,
			Temperature: 0.1,
		})

	case ProviderAnthropic:
		clients.Chat = NewAnthropicClient(AnthropicConfig{
			APIKey:      config.APIKey,
			Model:       config.Model,
			MaxTokens:   config.MaxTokens,
			Temperature: config.Temperature,
		})
		clients.Vision = NewAnthropicClient(AnthropicConfig{
			APIKey:      config.APIKey,
			Model:       visionModel,
			MaxTokens:   config.MaxTokens,
			Temperature: 0.1,
		})

	default:
		return nil, fmt.Errorf("unsupported provider: %s", config.Provider)
	}

	if config.EmbedderAPIKey != "" {
		clients.Embedder = NewOpenAIEmbedder(OpenAIConfig{
			APIKey: config.EmbedderAPIKey,
			Model:  config.EmbedderModel,
		})
	}

	return clients, nil
}

package llm

import (
	"context"
	"fmt"
)

// represents different LLM providers
type Provider string

const (
	ProviderGemini    Provider = "gemini"
	ProviderAnthropic Provider = "anthropic"
	ProviderOpenAI    Provider = "openai"
)

// generates chat replies
type TextGenerator interface {
	GenerateText(ctx context.Context, req TextGenerationRequest) (*TextGenerationResponse, error)
}

// answers a prompt about an image
type VisionGenerator interface {
	GenerateWithImage(ctx context.Context, prompt string, image []byte, mimeType string) (string, error)
}

// generates embeddings from text
type Embedder interface {
	GenerateEmbedding(ctx context.Context, text string) ([]float32, error)
	GenerateEmbeddings(ctx context.Context, texts []string) ([][]float32, error)
}

// chat roles; "assistant" is mapped to each provider's own name
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type TextGenerationRequest struct {
	SystemPrompt string
	Messages     []Message
	MaxTokens    int
}

type TextGenerationResponse struct {
	Text  string
	Usage Usage
}

type Usage struct {
	InputTokens  int
	OutputTokens int
}

// non-200 answer from a provider
type APIError struct {
	Provider   Provider
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s API request failed with status %d: %s", e.Provider, e.StatusCode, e.Body)
}

// holds configuration for LLM initialization
type Config struct {
	// chat and receipt vision
	Provider Provider
	APIKey   string
	Model    string // e.g., "gemini-2.0-flash"

	// vision model, defaults to Model
	VisionModel string

	// optional; no embedder is built without a key
	EmbedderAPIKey string
	EmbedderModel  string // e.g., "text-embedding-3-small"

	MaxTokens   int
	Temperature float32
}

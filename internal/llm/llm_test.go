package llm

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"codeberg.org/olkkari/server/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"
)

func newTestGemini(t *testing.T, handler http.HandlerFunc) *GeminiClient {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	c := NewGeminiClient(GeminiConfig{APIKey: "test-key", Model: "gemini-2.0-flash", BaseURL: srv.URL})
	c.httpClient = srv.Client()
	c.limiter = rate.NewLimiter(rate.Inf, 0)
	return c
}

func TestGemini_GenerateWithImage(t *testing.T) {
	var got geminiRequest

	c := newTestGemini(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1beta/models/gemini-2.0-flash:generateContent", r.URL.Path)
		assert.Equal(t, "test-key", r.Header.Get("x-goog-api-key"))
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"candidates":[{"content":{"parts":[{"text":"` + "```json" + `\n{\"vendor\":\"x\"}\n` + "```" + `"}]}}]}`)) //nolint:errcheck
	})

	text, err := c.GenerateWithImage(context.Background(), "read this", []byte{1, 2, 3}, "image/png")

	require.NoError(t, err)
	assert.Contains(t, text, `{"vendor":"x"}`)

	require.Len(t, got.Contents, 1)
	require.Len(t, got.Contents[0].Parts, 2)
	assert.Equal(t, "read this", got.Contents[0].Parts[0].Text)
	require.NotNil(t, got.Contents[0].Parts[1].InlineData)
	assert.Equal(t, "image/png", got.Contents[0].Parts[1].InlineData.MimeType)
	assert.Equal(t, base64.StdEncoding.EncodeToString([]byte{1, 2, 3}), got.Contents[0].Parts[1].InlineData.Data)
}

func TestGemini_GenerateTextMapsRoles(t *testing.T) {
	var got geminiRequest

	c := newTestGemini(t, func(w http.ResponseWriter, r *http.Request) {
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Write([]byte(`{"candidates":[{"content":{"parts":[{"text":"Tervetuloa"},{"text":"!"}]}}],"usageMetadata":{"promptTokenCount":12,"candidatesTokenCount":3}}`)) //nolint:errcheck
	})

	resp, err := c.GenerateText(context.Background(), TextGenerationRequest{
		SystemPrompt: "be kind",
		Messages: []Message{
			{Role: RoleUser, Content: "hei"},
			{Role: RoleAssistant, Content: "moi"},
			{Role: RoleUser, Content: "table for two?"},
		},
	})

	require.NoError(t, err)
	assert.Equal(t, "Tervetuloa!", resp.Text)
	assert.Equal(t, 12, resp.Usage.InputTokens)
	assert.Equal(t, 3, resp.Usage.OutputTokens)

	require.NotNil(t, got.SystemInstruction)
	assert.Equal(t, "be kind", got.SystemInstruction.Parts[0].Text)
	require.Len(t, got.Contents, 3)
	assert.Equal(t, "user", got.Contents[0].Role)
	assert.Equal(t, "model", got.Contents[1].Role)
}

func TestGemini_ErrorStatus(t *testing.T) {
	c := newTestGemini(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
		w.Write([]byte(`{"error":{"message":"overloaded"}}`)) //nolint:errcheck
	})

	_, err := c.GenerateWithImage(context.Background(), "p", []byte{1}, "image/jpeg")

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusServiceUnavailable, apiErr.StatusCode)
	assert.Equal(t, ProviderGemini, apiErr.Provider)
}

func TestGemini_NoCandidates(t *testing.T) {
	c := newTestGemini(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"candidates":[]}`)) //nolint:errcheck
	})

	_, err := c.GenerateText(context.Background(), TextGenerationRequest{Messages: []Message{{Role: RoleUser, Content: "hi"}}})
	assert.Error(t, err)
}

func TestAnthropic_GenerateWithImage(t *testing.T) {
	var got map[string]any

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/messages", r.URL.Path)
		assert.Equal(t, "test-key", r.Header.Get("x-api-key"))
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Write([]byte(`{"content":[{"type":"text","text":" {\"vendor\":\"x\"} "}],"usage":{"input_tokens":1,"output_tokens":1}}`)) //nolint:errcheck
	}))
	defer srv.Close()

	c := NewAnthropicClient(AnthropicConfig{APIKey: "test-key", Model: "claude", BaseURL: srv.URL})

	text, err := c.GenerateWithImage(context.Background(), "read this", []byte{9}, "image/jpeg")

	require.NoError(t, err)
	assert.Equal(t, `{"vendor":"x"}`, text)

	messages := got["messages"].([]any)
	blocks := messages[0].(map[string]any)["content"].([]any)
	assert.Equal(t, "image", blocks[0].(map[string]any)["type"])
	assert.Equal(t, "text", blocks[1].(map[string]any)["type"])
}

func TestOpenAIEmbedder_OrdersByIndex(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer sk-test", r.Header.Get("Authorization"))
		w.Write([]byte(`{"data":[{"index":1,"embedding":[0.2]},{"index":0,"embedding":[0.1]}]}`)) //nolint:errcheck
	}))
	defer srv.Close()

	e := NewOpenAIEmbedder(OpenAIConfig{APIKey: "sk-test", BaseURL: srv.URL})

	embeddings, err := e.GenerateEmbeddings(context.Background(), []string{"a", "b"})

	require.NoError(t, err)
	assert.Equal(t, [][]float32{{0.1}, {0.2}}, embeddings)
}

func TestNew_ProviderSelection(t *testing.T) {
	clients, err := New(&Config{Provider: ProviderGemini, APIKey: "k", Model: "gemini-2.0-flash"})
	require.NoError(t, err)
	assert.IsType(t, &GeminiClient{}, clients.Chat)
	assert.Nil(t, clients.Embedder)

	clients, err = New(&Config{Provider: ProviderAnthropic, APIKey: "k", Model: "claude", EmbedderAPIKey: "sk"})
	require.NoError(t, err)
	assert.IsType(t, &AnthropicClient{}, clients.Vision)
	assert.NotNil(t, clients.Embedder)

	_, err = New(&Config{Provider: "mystery"})
	assert.Error(t, err)
}

func TestConfigFromEnv_DefaultsToGemini(t *testing.T) {
	t.Setenv("LLM_PROVIDER", "")
	t.Setenv("LLM_MODEL", "")

	cfg, err := ConfigFromEnv(&config.Config{GeminiKey: "g", AnthropicKey: "a"})
	require.NoError(t, err)
	assert.Equal(t, ProviderGemini, cfg.Provider)
	assert.Equal(t, "g", cfg.APIKey)
	assert.Equal(t, defaultGeminiModel, cfg.Model)

	cfg, err = ConfigFromEnv(&config.Config{AnthropicKey: "a"})
	require.NoError(t, err)
	assert.Equal(t, ProviderAnthropic, cfg.Provider)
}

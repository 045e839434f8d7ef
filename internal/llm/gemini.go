package llm

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"golang.org/x/time/rate"
)

const geminiBaseURL = "https://generativelanguage.googleapis.com"

// shared HTTP client for Gemini API calls
var geminiHTTPClient = &http.Client{
	Timeout: 60 * time.Second,
	Transport: &http.Transport{
		MaxIdleConns:        100,
		MaxIdleConnsPerHost: 10,
		IdleConnTimeout:     90 * time.Second,
		TLSHandshakeTimeout: 10 * time.Second,
	},
}

// free tier allows roughly 15 requests per minute per model
var geminiRateLimiter = rate.NewLimiter(rate.Every(4*time.Second), 5)

type geminiRequest struct {
	Contents          []geminiContent         `json:"contents"`
	SystemInstruction *geminiContent          `json:"systemInstruction,omitempty"`
	GenerationConfig  *geminiGenerationConfig `json:"generationConfig,omitempty"`
}

type geminiContent struct {
	Role  string       `json:"role,omitempty"`
	Parts []geminiPart `json:"parts"`
}

type geminiPart struct {
	Text       string            `json:"text,omitempty"`
	InlineData *geminiInlineData `json:"inline_data,omitempty"`
}

type geminiInlineData struct {
	MimeType string `json:"mime_type"`
	Data     string `json:"data"`
}

type geminiGenerationConfig struct {
	Temperature     float32 `json:"temperature"`
	MaxOutputTokens int     `json:"maxOutputTokens,omitempty"`
}

type geminiResponse struct {
	Candidates []struct {
		Content      geminiContent `json:"content"`
		FinishReason string        `json:"finishReason"`
	} `json:"candidates"`
	UsageMetadata struct {
		PromptTokenCount     int `json:"promptTokenCount"`
		CandidatesTokenCount int `json:"candidatesTokenCount"`
	} `json:"usageMetadata"`
}

type GeminiConfig struct {
	APIKey      string
	Model       string // e.g., "gemini-2.0-flash"
	MaxTokens   int
	Temperature float32
	BaseURL     string // overrides the API host, used in tests
}

type GeminiClient struct {
	config     GeminiConfig
	httpClient *http.Client
	limiter    *rate.Limiter
}

func NewGeminiClient(config GeminiConfig) *GeminiClient {
	if config.Model == "" {
		config.Model = defaultGeminiModel
	}

	if config.BaseURL == "" {
		config.BaseURL = geminiBaseURL
	}

	return &GeminiClient{
		config:     config,
		httpClient: geminiHTTPClient,
		limiter:    geminiRateLimiter,
	}
}

func (c *GeminiClient) Model() string {
	return c.config.Model
}

func (c *GeminiClient) GenerateText(ctx context.Context, req TextGenerationRequest) (*TextGenerationResponse, error) {
	contents := make([]geminiContent, 0, len(req.Messages))

	for _, msg := range req.Messages {
		role := RoleUser
		if msg.Role == RoleAssistant {
			role = "model"
		}

		contents = append(contents, geminiContent{
			Role:  role,
			Parts: []geminiPart{{Text: msg.Content}},
		})
	}

	maxTokens := req.MaxTokens
	if maxTokens == 0 {
		maxTokens = c.config.MaxTokens
	}

	body := geminiRequest{
		Contents: contents,
		GenerationConfig: &geminiGenerationConfig{
			Temperature:     c.config.Temperature,
			MaxOutputTokens: maxTokens,
		},
	}

	if req.SystemPrompt != "" {
		body.SystemInstruction = &geminiContent{Parts: []geminiPart{{Text: req.SystemPrompt}}}
	}

	resp, err := c.send(ctx, body)
	if err != nil {
		return nil, err
	}

	return &TextGenerationResponse{
		Text: resp.text(),
		Usage: Usage{
			InputTokens:  resp.UsageMetadata.PromptTokenCount,
			OutputTokens: resp.UsageMetadata.CandidatesTokenCount,
		},
	}, nil
}

func (c *GeminiClient) GenerateWithImage(ctx context.Context, prompt string, image []byte, mimeType string) (string, error) {
	resp, err := c.send(ctx, geminiRequest{
		Contents: []geminiContent{{
			Role: RoleUser,
			Parts: []geminiPart{
				{Text: prompt},
				{InlineData: &geminiInlineData{
					MimeType: mimeType,
					Data:     base64.StdEncoding.EncodeToString(image),
				}},
			},
		}},
		GenerationConfig: &geminiGenerationConfig{
			Temperature:     c.config.Temperature,
			MaxOutputTokens: c.config.MaxTokens,
		},
	})
	if err != nil {
		return "", err
	}

	return resp.text(), nil
}

func (c *GeminiClient) send(ctx context.Context, body geminiRequest) (*geminiResponse, error) {
	jsonData, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	url := fmt.Sprintf("%s/v1beta/models/%s:generateContent", c.config.BaseURL, c.config.Model)

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("x-goog-api-key", c.config.APIKey)

	// rate limiting
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter error: %w", err)
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}

	defer resp.Body.Close() //nolint:errcheck

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 4096)) //nolint:errcheck
		return nil, &APIError{Provider: ProviderGemini, StatusCode: resp.StatusCode, Body: string(respBody)}
	}

	var apiResp geminiResponse
	if err := json.NewDecoder(resp.Body).Decode(&apiResp); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	if len(apiResp.Candidates) == 0 || len(apiResp.Candidates[0].Content.Parts) == 0 {
		return nil, fmt.Errorf("no content in response")
	}

	return &apiResp, nil
}

// joins the text parts of the first candidate
func (r *geminiResponse) text() string {
	var sb strings.Builder

	for _, part := range r.Candidates[0].Content.Parts {
		sb.WriteString(part.Text)
	}

	return strings.TrimSpace(sb.String())
}

package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// OpenAIConfig holds configuration for the OpenAI client.
type OpenAIConfig struct {
	// Key returns the current API key, or empty when unconfigured. Read on
	// every call so runtime key rotation takes effect without a restart.
	Key func() string

	BaseURL string        // default: https://api.openai.com
	Timeout time.Duration // default: 60s
	Models  map[Tier]string
}

// OpenAIClient implements Provider using the OpenAI chat completions API.
type OpenAIClient struct {
	cfg            OpenAIConfig
	client         *http.Client
	circuitBreaker *CircuitBreaker
}

// NewOpenAIClient creates an OpenAI client with the given configuration.
func NewOpenAIClient(cfg OpenAIConfig) *OpenAIClient {
	if cfg.Key == nil {
		cfg.Key = func() string { return "" }
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://api.openai.com"
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 60 * time.Second
	}
	if cfg.Models == nil {
		cfg.Models = map[Tier]string{
			TierFast:     "gpt-4o-mini",
			TierStandard: "gpt-4o",
			TierPowerful: "gpt-4o",
		}
	}
	return &OpenAIClient{
		cfg: cfg,
		client: &http.Client{
			Timeout: cfg.Timeout,
		},
		circuitBreaker: NewCircuitBreaker("openai"),
	}
}

// Name returns "openai".
func (c *OpenAIClient) Name() string { return "openai" }

// Available reports whether an API key is configured.
func (c *OpenAIClient) Available() bool { return c.cfg.Key() != "" }

// Model resolves a tier to the configured model identifier.
func (c *OpenAIClient) Model(tier Tier) string { return c.cfg.Models[tier] }

// openAIChatRequest is the request body for POST /v1/chat/completions.
type openAIChatRequest struct {
	Model       string          `json:"model"`
	Messages    []openAIMessage `json:"messages"`
	MaxTokens   int             `json:"max_tokens"`
	Temperature float64         `json:"temperature"`
}

type openAIMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// openAIChatResponse is the response body from POST /v1/chat/completions.
type openAIChatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// Generate sends one chat completion and returns the response text. The
// system instruction travels as the leading system message.
func (c *OpenAIClient) Generate(ctx context.Context, system string, messages []Message, model string, maxTokens int, temperature float64) (string, error) {
	return c.circuitBreaker.Execute(ctx, func() (string, error) {
		return c.generate(ctx, system, messages, model, maxTokens, temperature)
	})
}

func (c *OpenAIClient) generate(ctx context.Context, system string, messages []Message, model string, maxTokens int, temperature float64) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.cfg.Timeout)
	defer cancel()

	chatMessages := make([]openAIMessage, 0, len(messages)+1)
	chatMessages = append(chatMessages, openAIMessage{Role: "system", Content: system})
	for _, m := range messages {
		chatMessages = append(chatMessages, openAIMessage{Role: m.Role, Content: m.Content})
	}

	reqBody := openAIChatRequest{
		Model:       model,
		Messages:    chatMessages,
		MaxTokens:   maxTokens,
		Temperature: temperature,
	}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", c.cfg.BaseURL+"/v1/chat/completions", bytes.NewReader(jsonData))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.cfg.Key())

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to send request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("openai returned status %d: %s", resp.StatusCode, string(body))
	}

	var respData openAIChatResponse
	if err := json.NewDecoder(resp.Body).Decode(&respData); err != nil {
		return "", fmt.Errorf("failed to decode response: %w", err)
	}

	if len(respData.Choices) == 0 {
		return "", fmt.Errorf("openai returned no choices")
	}

	return respData.Choices[0].Message.Content, nil
}

// Compile-time assertion.
var _ Provider = (*OpenAIClient)(nil)

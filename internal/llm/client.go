package llm

import (
	"context"
	"fmt"
	"net/http"

	"trading-agents-go/internal/config"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
)

const defaultBaseURL = "https://api.openai.com/v1"

// Completer is the opaque chat-completion capability the orchestrator
// delegates reasoning to. Implementations return the raw model text; schema
// validation happens in the agents package.
type Completer interface {
	Complete(ctx context.Context, system, user string) (string, error)
}

// Client is a chat-completions client for any OpenAI-compatible backend.
type Client struct {
	client      *resty.Client
	apiKey      string
	model       string
	temperature float64
	logger      *zap.Logger
}

var _ Completer = (*Client)(nil)

// NewClient creates a new chat completion client. When no API key is
// configured callers should fall back to the noop completer instead.
func NewClient(cfg *config.LLM, logger *zap.Logger) *Client {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = defaultBaseURL
	}

	return &Client{
		client:      resty.New().SetBaseURL(baseURL),
		apiKey:      cfg.ApiKey,
		model:       cfg.Model,
		temperature: cfg.Temperature,
		logger:      logger,
	}
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model          string          `json:"model"`
	Messages       []chatMessage   `json:"messages"`
	Temperature    float64         `json:"temperature"`
	ResponseFormat *responseFormat `json:"response_format,omitempty"`
}

type responseFormat struct {
	Type string `json:"type"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error"`
}

// Complete sends one chat completion request and returns the model text.
// JSON mode is requested because every agent expects a structured object back.
func (c *Client) Complete(ctx context.Context, system, user string) (string, error) {
	if c.apiKey == "" {
		return "", fmt.Errorf("llm: no api key configured")
	}

	c.logger.Debug("Requesting chat completion", zap.String("model", c.model))

	var result chatResponse
	resp, err := c.client.R().
		SetContext(ctx).
		SetAuthToken(c.apiKey).
		SetBody(chatRequest{
			Model: c.model,
			Messages: []chatMessage{
				{Role: "system", Content: system},
				{Role: "user", Content: user},
			},
			Temperature:    c.temperature,
			ResponseFormat: &responseFormat{Type: "json_object"},
		}).
		SetResult(&result).
		Post("/chat/completions")
	if err != nil {
		return "", fmt.Errorf("chat completion request failed: %w", err)
	}

	if resp.StatusCode() == http.StatusTooManyRequests {
		return "", fmt.Errorf("chat completion rate limited")
	}
	if resp.IsError() {
		if result.Error != nil {
			return "", fmt.Errorf("chat completion failed: %s", result.Error.Message)
		}
		return "", fmt.Errorf("chat completion returned status %s", resp.Status())
	}
	if len(result.Choices) == 0 {
		return "", fmt.Errorf("chat completion returned no choices")
	}

	return result.Choices[0].Message.Content, nil
}

// Package llm calls an OpenAI-compatible chat-completions endpoint to turn
// a prompt into an answer. Failures come back as errors; the service layer
// renders them into user-facing strings.
package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/pkg/errors"

	"georag/internal/domain"
)

// Client is a chat-completions client with a fixed model and sampling
// parameters. The credential is resolved per call so an explicitly supplied
// key can override the environment.
type Client struct {
	baseURL     string
	model       string
	maxTokens   int
	temperature float64
	apiKeyEnv   string
	client      *http.Client
}

// Config configures the chat-completions client. Zero values fall back to
// the defaults the application ships with.
type Config struct {
	BaseURL     string
	Model       string
	MaxTokens   int
	Temperature float64
	APIKeyEnv   string
	Timeout     time.Duration
}

// NewClient creates a chat-completions client.
func NewClient(cfg Config) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://api.openai.com/v1"
	}
	if cfg.Model == "" {
		cfg.Model = "gpt-3.5-turbo"
	}
	if cfg.MaxTokens == 0 {
		cfg.MaxTokens = 256
	}
	if cfg.Temperature == 0 {
		cfg.Temperature = 0.2
	}
	if cfg.APIKeyEnv == "" {
		cfg.APIKeyEnv = "OPENAI_API_KEY"
	}
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 60 * time.Second
	}
	return &Client{
		baseURL:     cfg.BaseURL,
		model:       cfg.Model,
		maxTokens:   cfg.MaxTokens,
		temperature: cfg.Temperature,
		apiKeyEnv:   cfg.APIKeyEnv,
		client:      &http.Client{Timeout: timeout},
	}
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	MaxTokens   int           `json:"max_tokens"`
	Temperature float64       `json:"temperature"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Complete sends the prompt as a single user message and returns the trimmed
// completion text. An empty apiKey falls back to the configured environment
// variable; if neither yields a credential, domain.ErrMissingAPIKey is
// returned.
func (c *Client) Complete(ctx context.Context, prompt, apiKey string) (string, error) {
	if apiKey == "" {
		apiKey = os.Getenv(c.apiKeyEnv)
	}
	if apiKey == "" {
		return "", domain.ErrMissingAPIKey
	}

	body := chatRequest{
		Model:       c.model,
		Messages:    []chatMessage{{Role: "user", Content: prompt}},
		MaxTokens:   c.maxTokens,
		Temperature: c.temperature,
	}
	data, err := json.Marshal(body)
	if err != nil {
		return "", errors.Wrap(err, "marshal chat request")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(data))
	if err != nil {
		return "", errors.Wrap(err, "build chat request")
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+apiKey)

	resp, err := c.client.Do(req)
	if err != nil {
		return "", errors.Wrap(err, "chat request")
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", errors.Wrap(err, "read chat response")
	}
	if resp.StatusCode >= 300 {
		return "", errors.New(apiErrorDetail(resp.Status, payload))
	}

	var out struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.Unmarshal(payload, &out); err != nil {
		return "", errors.Wrap(err, "decode chat response")
	}
	if len(out.Choices) == 0 {
		return "", errors.New("no completion returned")
	}
	return strings.TrimSpace(out.Choices[0].Message.Content), nil
}

// apiErrorDetail prefers the API's own error message over the bare HTTP
// status when one is present in the body.
func apiErrorDetail(status string, payload []byte) string {
	var out struct {
		Error struct {
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.Unmarshal(payload, &out); err == nil && out.Error.Message != "" {
		return out.Error.Message
	}
	return status
}

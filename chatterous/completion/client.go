// Package completion wraps the external text-completion service. The service
// is optional: without an API key the bot starts normally and the commands
// that need it degrade to a "not configured" reply.
package completion

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sashabaranov/go-openai"
)

var ErrNotConfigured = errors.New("completion service not configured")

const (
	defaultTimeout   = 25 * time.Second
	maxResponseChars = 1900
	systemPrompt     = "You are a friendly helpful assistant. Keep it concise and warm."
)

type Config struct {
	APIKey  string `toml:"api_key"`
	BaseURL string `toml:"base_url"`
	Model   string `toml:"model"`
	Timeout int    `toml:"timeout_seconds"`
}

type Client struct {
	api     *openai.Client
	model   string
	timeout time.Duration
}

// New returns nil when no API key is configured; callers treat a nil client
// as the feature being disabled.
func New(cfg Config) *Client {
	if cfg.APIKey == "" {
		return nil
	}

	apiCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		apiCfg.BaseURL = cfg.BaseURL
	}

	timeout := defaultTimeout
	if cfg.Timeout > 0 {
		timeout = time.Duration(cfg.Timeout) * time.Second
	}

	return &Client{
		api:     openai.NewClientWithConfig(apiCfg),
		model:   cfg.Model,
		timeout: timeout,
	}
}

// Ask sends the prompt to the completion service and returns the reply text,
// truncated to fit a single message. The call is bounded by the configured
// timeout regardless of the caller's context.
func (c *Client) Ask(ctx context.Context, prompt string) (string, error) {
	if c == nil {
		return "", ErrNotConfigured
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	resp, err := c.api.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       c.model,
		MaxTokens:   400,
		Temperature: 0.8,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
	})
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return "", fmt.Errorf("completion service timed out after %s", c.timeout)
		}
		return "", fmt.Errorf("completion request failed: %w", err)
	}

	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("completion service returned no choices")
	}

	out := strings.TrimSpace(resp.Choices[0].Message.Content)
	if len(out) > maxResponseChars {
		out = out[:maxResponseChars] + "..."
	}
	return out, nil
}

package genai

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/sheltersync/sheltersync-backend/pkg/config"
	genaisdk "google.golang.org/genai"
)

// TextGenerator is the surface services depend on; the concrete client talks
// to the Gemini API.
type TextGenerator interface {
	GenerateText(ctx context.Context, prompt string) (string, error)
}

// Client wraps the Gemini SDK for single-turn text generation.
type Client struct {
	client  *genaisdk.Client
	model   string
	timeout time.Duration
}

// NewClient builds a Gemini client from configuration.
func NewClient(ctx context.Context, cfg config.GeminiConfig) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("gemini api key is required")
	}
	model := cfg.Model
	if model == "" {
		model = "gemini-3-flash-preview"
	}

	client, err := genaisdk.NewClient(ctx, &genaisdk.ClientConfig{
		APIKey: cfg.APIKey,
	})
	if err != nil {
		return nil, fmt.Errorf("creating gemini client: %w", err)
	}

	return &Client{
		client:  client,
		model:   model,
		timeout: cfg.RequestTimeout,
	}, nil
}

// GenerateText runs a single-turn prompt and returns the trimmed response text.
func (c *Client) GenerateText(ctx context.Context, prompt string) (string, error) {
	if strings.TrimSpace(prompt) == "" {
		return "", fmt.Errorf("prompt is required")
	}

	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	contents := []*genaisdk.Content{
		genaisdk.NewContentFromText(prompt, genaisdk.RoleUser),
	}

	result, err := c.client.Models.GenerateContent(ctx, c.model, contents, nil)
	if err != nil {
		return "", fmt.Errorf("gemini generate: %w", err)
	}

	text := strings.TrimSpace(result.Text())
	if text == "" {
		return "", fmt.Errorf("gemini returned empty response")
	}
	return text, nil
}

// Model returns the configured model identifier.
func (c *Client) Model() string {
	return c.model
}

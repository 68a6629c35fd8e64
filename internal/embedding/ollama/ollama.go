// Package ollama provides an embedding provider backed by a local Ollama server.
package ollama

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/ollama/ollama/api"
)

// Default configuration values.
const (
	DefaultBaseURL    = "http://localhost:11434"
	DefaultModel      = "nomic-embed-text"
	DefaultTimeout    = 30 * time.Second
	DefaultMaxRetries = 2
)

// Config holds configuration for the Ollama embedding provider.
type Config struct {
	BaseURL string
	Model   string
	Timeout time.Duration
	// MaxRetries bounds retries per text. Zero selects DefaultMaxRetries,
	// negative disables retries.
	MaxRetries int
}

// Client generates embeddings with Ollama, one request per text.
type Client struct {
	client     *api.Client
	model      string
	maxRetries int
	sleep      func(ctx context.Context, d time.Duration) error
}

// NewClient creates a new Ollama embedding client.
func NewClient(cfg Config) (*Client, error) {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}
	retries := cfg.MaxRetries
	switch {
	case retries == 0:
		retries = DefaultMaxRetries
	case retries < 0:
		retries = 0
	}
	base, err := url.Parse(cfg.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid ollama URL %q: %w", cfg.BaseURL, err)
	}
	return &Client{
		client:     api.NewClient(base, &http.Client{Timeout: cfg.Timeout}),
		model:      cfg.Model,
		maxRetries: retries,
		sleep:      sleepContext,
	}, nil
}

// Name returns the identifier of this embedder implementation.
func (c *Client) Name() string { return "ollama" }

// EmbedTexts returns one embedding per input text, in input order.
func (c *Client) EmbedTexts(ctx context.Context, texts []string) ([][]float64, error) {
	out := make([][]float64, 0, len(texts))
	for i, text := range texts {
		v, err := c.embed(ctx, text)
		if err != nil {
			return nil, fmt.Errorf("text %d: %w", i, err)
		}
		out = append(out, v)
	}
	return out, nil
}

func (c *Client) embed(ctx context.Context, text string) ([]float64, error) {
	req := &api.EmbeddingRequest{Model: c.model, Prompt: text}
	for attempt := 0; ; attempt++ {
		resp, err := c.client.Embeddings(ctx, req)
		if err == nil {
			if len(resp.Embedding) == 0 {
				return nil, errors.New("ollama returned an empty embedding")
			}
			return resp.Embedding, nil
		}
		if attempt >= c.maxRetries || !retryable(ctx, err) {
			return nil, fmt.Errorf("ollama embeddings failed: %w", err)
		}
		if err := c.sleep(ctx, retryDelay(attempt)); err != nil {
			return nil, err
		}
	}
}

func retryable(ctx context.Context, err error) bool {
	if ctx.Err() != nil {
		return false
	}
	var statusErr api.StatusError
	if errors.As(err, &statusErr) {
		return statusErr.StatusCode == http.StatusTooManyRequests || statusErr.StatusCode >= 500
	}
	return true
}

func retryDelay(attempt int) time.Duration {
	d := time.Second << attempt
	if d > 8*time.Second || d <= 0 {
		d = 8 * time.Second
	}
	return d
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

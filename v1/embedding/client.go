package embedding

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/Aleph-Alpha/vectorshard/v1/logger"
	"github.com/Aleph-Alpha/vectorshard/v1/retry"
)

// Client computes embeddings through an OpenAI-compatible /embeddings
// endpoint. It is safe for concurrent use.
type Client struct {
	cfg        Config
	baseURL    string
	token      string
	httpClient *http.Client
	logger     logger.Logger
	retryOpts  []retry.Option
}

// NewClient validates cfg and prepares the HTTP client. No request is made.
func NewClient(cfg Config, log logger.Logger) (*Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	cfg = cfg.withDefaults()

	c := &Client{
		cfg:        cfg,
		baseURL:    strings.TrimRight(cfg.Endpoint, "/"),
		token:      cfg.ResolveToken(),
		httpClient: &http.Client{Timeout: cfg.Timeout},
		logger:     log,
	}
	c.retryOpts = []retry.Option{
		retry.WithRetryable(isRetryable),
		retry.WithNotify(func(attempt int, err error, next time.Duration) {
			c.logger.Warn("[Embedding] request failed, retrying", err, map[string]interface{}{
				"attempt": attempt,
				"backoff": next.String(),
			})
		}),
	}
	return c, nil
}

// Embed returns one vector per text, in input order. Texts are sent in
// batches of BatchSize; each batch is retried on its own.
func (c *Client) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	out := make([][]float32, 0, len(texts))
	for start := 0; start < len(texts); start += c.cfg.BatchSize {
		end := min(start+c.cfg.BatchSize, len(texts))
		batch := texts[start:end]

		vectors, err := retry.DoWithData(ctx, c.cfg.Retry, func(ctx context.Context) ([][]float32, error) {
			return c.create(ctx, batch)
		}, c.retryOpts...)
		if err != nil {
			return nil, fmt.Errorf("embedding: batch %d-%d: %w", start, end, err)
		}
		out = append(out, vectors...)
	}

	c.logger.Debug("[Embedding] embedded texts", nil, map[string]interface{}{
		"count": len(texts),
		"model": c.cfg.Model,
	})
	return out, nil
}

// EmbedOne embeds a single text, typically a query.
func (c *Client) EmbedOne(ctx context.Context, text string) ([]float32, error) {
	vectors, err := c.Embed(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	return vectors[0], nil
}

// Dimension is the vector length every result has.
func (c *Client) Dimension() int {
	return c.cfg.Dimension
}

// Close releases idle HTTP connections.
func (c *Client) Close() error {
	c.httpClient.CloseIdleConnections()
	return nil
}

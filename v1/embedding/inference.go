package embedding

import (
	"context"
	"errors"
	"fmt"
)

// ErrDimensionMismatch is returned when the service answers with vectors
// of a length other than the configured dimension.
var ErrDimensionMismatch = errors.New("embedding: dimension mismatch")

type embeddingsRequest struct {
	Model string   `json:"model"`
	Input []string `json:"input"`
}

type embeddingsResponse struct {
	Data []struct {
		Index     int       `json:"index"`
		Embedding []float32 `json:"embedding"`
	} `json:"data"`
}

// create performs one /embeddings call for texts.
func (c *Client) create(ctx context.Context, texts []string) ([][]float32, error) {
	var parsed embeddingsResponse
	req := embeddingsRequest{Model: c.cfg.Model, Input: texts}
	if err := c.postJSON(ctx, c.baseURL+"/embeddings", req, &parsed); err != nil {
		return nil, err
	}

	if len(parsed.Data) != len(texts) {
		return nil, fmt.Errorf("embedding: expected %d vectors, got %d", len(texts), len(parsed.Data))
	}

	// The service may answer out of order; index is authoritative.
	out := make([][]float32, len(texts))
	for _, d := range parsed.Data {
		if d.Index < 0 || d.Index >= len(texts) || out[d.Index] != nil {
			return nil, fmt.Errorf("embedding: invalid result index %d", d.Index)
		}
		if len(d.Embedding) != c.cfg.Dimension {
			return nil, fmt.Errorf("%w: want %d, got %d", ErrDimensionMismatch, c.cfg.Dimension, len(d.Embedding))
		}
		out[d.Index] = d.Embedding
	}
	return out, nil
}

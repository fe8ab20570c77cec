// Package embedding computes text embeddings through an OpenAI-compatible
// inference service.
//
// A client is constructed from Config:
//
//	client, err := embedding.NewClient(cfg, log)
//
// and embeds texts in batches:
//
//	vectors, err := client.Embed(ctx, []string{"a", "b", "c"})
//
// Each batch is one POST {endpoint}/embeddings request carrying the model
// name and the input texts. Throttling (429), server errors and network
// failures are retried through the retry package; other HTTP errors are
// returned as *StatusError. Every returned vector has the configured
// dimension, otherwise ErrDimensionMismatch is returned.
package embedding

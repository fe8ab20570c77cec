package ingest

import (
	"context"
	"fmt"
	"strings"

	"github.com/Aleph-Alpha/vectorshard/v1/logger"
	"github.com/Aleph-Alpha/vectorshard/v1/registry"
	"github.com/Aleph-Alpha/vectorshard/v1/vectordb"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Resolver finds the placement of an existing namespace.
type Resolver interface {
	LookupByNamespace(ctx context.Context, namespace string) (registry.Placement, error)
}

// UsageTracker counts queries per document and day.
type UsageTracker interface {
	Track(ctx context.Context, document string) error
}

// QueryResult is one matching chunk.
type QueryResult struct {
	Text       string  `json:"text"`
	Page       int     `json:"page"`
	ChunkIndex int     `json:"chunkIndex"`
	Score      float32 `json:"score"`
}

// Querier answers similarity queries within one namespace.
type Querier struct {
	cfg      Config
	resolver Resolver
	projects vectordb.Projects
	embedder Embedder
	usage    UsageTracker
	logger   logger.Logger
	tracer   trace.Tracer
}

// NewQuerier builds a Querier. usage may be nil.
func NewQuerier(cfg Config, resolver Resolver, projects vectordb.Projects, embedder Embedder, usage UsageTracker, log logger.Logger) *Querier {
	return &Querier{
		cfg:      cfg,
		resolver: resolver,
		projects: projects,
		embedder: embedder,
		usage:    usage,
		logger:   log,
		tracer:   otel.Tracer("vectorshard/ingest"),
	}
}

// Query returns the topK chunks of namespace closest to text. topK <= 0
// means the configured default. An unknown namespace yields
// registry.ErrNotFound.
func (q *Querier) Query(ctx context.Context, namespace, text string, topK int) (results []QueryResult, err error) {
	ctx, span := q.tracer.Start(ctx, "ingest.Query", trace.WithAttributes(
		attribute.String("namespace", namespace),
	))
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()

	if namespace == "" {
		return nil, fmt.Errorf("%w: namespace must not be empty", ErrInvalidInput)
	}
	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("%w: query must not be empty", ErrInvalidInput)
	}
	if topK <= 0 {
		topK = q.cfg.DefaultTopK
	}

	if q.usage != nil {
		if err := q.usage.Track(ctx, namespace); err != nil {
			q.logger.WarnWithContext(ctx, "usage tracking failed", err, map[string]interface{}{
				"namespace": namespace,
			})
		}
	}

	placement, err := q.resolver.LookupByNamespace(ctx, namespace)
	if err != nil {
		return nil, err
	}
	backend, err := q.projects.Get(placement.Project)
	if err != nil {
		return nil, err
	}

	vector, err := q.embedder.EmbedOne(ctx, text)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}

	matches, err := backend.Query(ctx, vectordb.QueryRequest{
		Index:     placement.IndexName,
		Namespace: namespace,
		Vector:    vector,
		TopK:      topK,
	})
	if err != nil {
		return nil, fmt.Errorf("query index %s: %w", placement.IndexName, err)
	}

	results = make([]QueryResult, 0, len(matches))
	for _, m := range matches {
		r := QueryResult{Text: m.Text, Score: m.Score, Page: -1, ChunkIndex: -1}
		if n, ok := asInt(m.Metadata["page"]); ok {
			r.Page = n
		}
		if n, ok := asInt(m.Metadata["chunk_index"]); ok {
			r.ChunkIndex = n
		}
		results = append(results, r)
	}

	q.logger.DebugWithContext(ctx, "query answered", nil, map[string]interface{}{
		"namespace": namespace,
		"index":     placement.IndexName,
		"matches":   len(results),
	})
	return results, nil
}

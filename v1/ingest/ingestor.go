package ingest

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/Aleph-Alpha/vectorshard/v1/logger"
	"github.com/Aleph-Alpha/vectorshard/v1/registry"
	"github.com/Aleph-Alpha/vectorshard/v1/retry"
	"github.com/Aleph-Alpha/vectorshard/v1/vectordb"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"
)

// Placer assigns a namespace to an index.
type Placer interface {
	Place(ctx context.Context, namespace string) (registry.Placement, error)
}

// Embedder turns texts into vectors, one per text in order.
type Embedder interface {
	Embed(ctx context.Context, texts []string) ([][]float32, error)
	EmbedOne(ctx context.Context, text string) ([]float32, error)
}

// ColumnEnsurer adds the per-document trending column.
type ColumnEnsurer interface {
	Ensure(ctx context.Context, column string) error
}

// Archiver keeps a copy of the source document.
type Archiver interface {
	ArchiveSource(ctx context.Context, namespace string, r io.Reader, size int64) (string, error)
}

// Result summarizes one ingested document.
type Result struct {
	Placement  registry.Placement `json:"placement"`
	Pages      int                `json:"pages"`
	Chunks     int                `json:"chunks"`
	ArchiveKey string             `json:"archiveKey,omitempty"`
}

// Ingestor drives fetch, split, place, embed and upsert for one document.
type Ingestor struct {
	cfg      Config
	placer   Placer
	projects vectordb.Projects
	embedder Embedder
	fetcher  Fetcher
	loader   Loader
	splitter Splitter
	trending ColumnEnsurer
	archive  Archiver
	logger   logger.Logger
	tracer   trace.Tracer
	retry    []retry.Option
}

type IngestorOption func(*Ingestor)

// WithTrending registers each new namespace as a trending column.
func WithTrending(t ColumnEnsurer) IngestorOption {
	return func(i *Ingestor) { i.trending = t }
}

// WithArchive stores the fetched document before indexing.
func WithArchive(a Archiver) IngestorOption {
	return func(i *Ingestor) { i.archive = a }
}

func WithFetcher(f Fetcher) IngestorOption {
	return func(i *Ingestor) { i.fetcher = f }
}

func WithLoader(l Loader) IngestorOption {
	return func(i *Ingestor) { i.loader = l }
}

// WithUpsertRetryOptions is appended to the upsert retry, e.g. a fake timer.
func WithUpsertRetryOptions(opts ...retry.Option) IngestorOption {
	return func(i *Ingestor) { i.retry = append(i.retry, opts...) }
}

func NewIngestor(cfg Config, placer Placer, projects vectordb.Projects, embedder Embedder, log logger.Logger, opts ...IngestorOption) (*Ingestor, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	i := &Ingestor{
		cfg:      cfg,
		placer:   placer,
		projects: projects,
		embedder: embedder,
		fetcher:  NewHTTPFetcher(cfg),
		loader:   PDFLoader{},
		splitter: NewSplitter(cfg),
		logger:   log,
		tracer:   otel.Tracer("vectorshard/ingest"),
	}
	i.retry = []retry.Option{
		retry.WithRetryable(vectordb.IsTransient),
		retry.WithNotify(func(attempt int, err error, next time.Duration) {
			i.logger.Warn("upsert failed, retrying", err, map[string]interface{}{
				"attempt": attempt,
				"backoff": next.String(),
			})
		}),
	}
	for _, opt := range opts {
		opt(i)
	}
	return i, nil
}

// Process indexes the document at link under namespace.
//
// The document is fetched and split before a placement is requested, so a
// broken link or an empty document never consumes index capacity.
// Re-processing a namespace overwrites its chunks in place.
func (i *Ingestor) Process(ctx context.Context, link, namespace string) (res Result, err error) {
	ctx, span := i.tracer.Start(ctx, "ingest.Process", trace.WithAttributes(
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
		return Result{}, fmt.Errorf("%w: namespace must not be empty", ErrInvalidInput)
	}

	data, err := i.fetcher.Fetch(ctx, link)
	if err != nil {
		return Result{}, err
	}

	pages, err := i.loader.Load(ctx, data)
	if err != nil {
		return Result{}, err
	}
	chunks, err := i.splitter.Split(pages)
	if err != nil {
		return Result{}, err
	}
	if len(chunks) == 0 {
		return Result{}, ErrNoChunks
	}

	placement, err := i.placer.Place(ctx, namespace)
	if err != nil {
		return Result{}, err
	}
	fields := map[string]interface{}{
		"namespace": namespace,
		"index":     placement.IndexName,
		"project":   placement.Project,
	}

	i.ensureTrending(ctx, namespace)

	res = Result{Placement: placement, Pages: len(pages), Chunks: len(chunks)}
	if i.archive != nil {
		key, err := i.archive.ArchiveSource(ctx, namespace, bytes.NewReader(data), int64(len(data)))
		if err != nil {
			i.logger.WarnWithContext(ctx, "failed to archive source document", err, fields)
		}
		res.ArchiveKey = key
	}

	backend, err := i.projects.Get(placement.Project)
	if err != nil {
		return Result{}, err
	}
	if err := i.index(ctx, backend, placement, chunks); err != nil {
		i.logger.ErrorWithContext(ctx, "failed to index document", err, fields)
		return Result{}, err
	}

	i.logger.InfoWithContext(ctx, "document indexed", nil, map[string]interface{}{
		"namespace": namespace,
		"index":     placement.IndexName,
		"project":   placement.Project,
		"pages":     len(pages),
		"chunks":    len(chunks),
	})
	return res, nil
}

// index embeds and upserts chunks in batches, Parallelism at a time.
func (i *Ingestor) index(ctx context.Context, backend vectordb.Backend, p registry.Placement, chunks []Chunk) error {
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(i.cfg.Parallelism)

	for start := 0; start < len(chunks); start += i.cfg.EmbedBatchSize {
		batch := chunks[start:min(start+i.cfg.EmbedBatchSize, len(chunks))]
		g.Go(func() error {
			texts := make([]string, len(batch))
			for j, c := range batch {
				texts[j] = c.Text
			}
			vectors, err := i.embedder.Embed(ctx, texts)
			if err != nil {
				return fmt.Errorf("embed chunks %d-%d: %w", batch[0].Index, batch[len(batch)-1].Index, err)
			}
			if len(vectors) != len(batch) {
				return fmt.Errorf("embed chunks: expected %d vectors, got %d", len(batch), len(vectors))
			}

			records := make([]vectordb.Record, len(batch))
			for j, c := range batch {
				records[j] = vectordb.Record{
					ID:     strconv.Itoa(c.Index),
					Vector: vectors[j],
					Text:   c.Text,
					Metadata: map[string]any{
						"page":        c.Page,
						"chunk_index": c.Index,
						"start_index": c.StartIndex,
					},
				}
			}
			return retry.Do(ctx, i.cfg.Retry, func(ctx context.Context) error {
				return backend.Upsert(ctx, p.IndexName, p.Namespace, records)
			}, i.retry...)
		})
	}
	return g.Wait()
}

func (i *Ingestor) ensureTrending(ctx context.Context, namespace string) {
	if i.trending == nil {
		return
	}
	err := i.trending.Ensure(ctx, namespace)
	switch {
	case err == nil:
	case errors.Is(err, registry.ErrColumnExists):
		i.logger.DebugWithContext(ctx, "trending column already present", nil, map[string]interface{}{
			"namespace": namespace,
		})
	default:
		i.logger.WarnWithContext(ctx, "failed to add trending column", err, map[string]interface{}{
			"namespace": namespace,
		})
	}
}

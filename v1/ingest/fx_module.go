package ingest

import (
	"github.com/Aleph-Alpha/vectorshard/v1/allocator"
	"github.com/Aleph-Alpha/vectorshard/v1/embedding"
	"github.com/Aleph-Alpha/vectorshard/v1/logger"
	"github.com/Aleph-Alpha/vectorshard/v1/minio"
	"github.com/Aleph-Alpha/vectorshard/v1/registry"
	"github.com/Aleph-Alpha/vectorshard/v1/vectordb"
	"go.uber.org/fx"
)

// FXModule provides *Ingestor and *Querier.
var FXModule = fx.Module("ingest",
	fx.Provide(
		NewIngestorWithDI,
		NewQuerierWithDI,
	),
)

type IngestorParams struct {
	fx.In

	Config    Config
	Allocator *allocator.Allocator
	Projects  vectordb.Projects
	Embedder  *embedding.Client
	Trending  *registry.TrendingColumns
	Archive   *minio.MinioClient `optional:"true"`
	Logger    logger.Logger
}

func NewIngestorWithDI(p IngestorParams) (*Ingestor, error) {
	opts := []IngestorOption{WithTrending(p.Trending)}
	if p.Archive != nil && p.Archive.Enabled() {
		opts = append(opts, WithArchive(p.Archive))
	}
	return NewIngestor(p.Config, p.Allocator, p.Projects, p.Embedder, p.Logger, opts...)
}

type QuerierParams struct {
	fx.In

	Config   Config
	Registry *registry.Registry
	Projects vectordb.Projects
	Embedder *embedding.Client
	Usage    *registry.UsageTracker
	Logger   logger.Logger
}

func NewQuerierWithDI(p QuerierParams) *Querier {
	return NewQuerier(p.Config, p.Registry, p.Projects, p.Embedder, p.Usage, p.Logger)
}

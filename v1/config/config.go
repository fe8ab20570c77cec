package config

import (
	"errors"
	"fmt"

	"github.com/Aleph-Alpha/vectorshard/v1/allocator"
	"github.com/Aleph-Alpha/vectorshard/v1/database"
	"github.com/Aleph-Alpha/vectorshard/v1/embedding"
	"github.com/Aleph-Alpha/vectorshard/v1/ingest"
	"github.com/Aleph-Alpha/vectorshard/v1/logger"
	"github.com/Aleph-Alpha/vectorshard/v1/metrics"
	"github.com/Aleph-Alpha/vectorshard/v1/minio"
	"github.com/Aleph-Alpha/vectorshard/v1/pool"
	"github.com/Aleph-Alpha/vectorshard/v1/qdrant"
	"github.com/Aleph-Alpha/vectorshard/v1/redis"
	"github.com/Aleph-Alpha/vectorshard/v1/registry"
	"github.com/Aleph-Alpha/vectorshard/v1/server"
	"github.com/Aleph-Alpha/vectorshard/v1/tracer"
	"github.com/Aleph-Alpha/vectorshard/v1/vectordb"
)

// Config is the whole service configuration, one section per package.
type Config struct {
	Logger    logger.Config    `yaml:"logger" koanf:"logger"`
	Database  database.Config  `yaml:"database" koanf:"database"`
	Registry  registry.Config  `yaml:"registry" koanf:"registry"`
	Redis     redis.Config     `yaml:"redis" koanf:"redis"`
	Qdrant    qdrant.Config    `yaml:"qdrant" koanf:"qdrant"`
	Allocator allocator.Config `yaml:"allocator" koanf:"allocator"`
	Embedding embedding.Config `yaml:"embedding" koanf:"embedding"`
	Ingest    ingest.Config    `yaml:"ingest" koanf:"ingest"`
	Minio     minio.Config     `yaml:"minio" koanf:"minio"`
	Metrics   metrics.Config   `yaml:"metrics" koanf:"metrics"`
	Tracer    tracer.Config    `yaml:"tracer" koanf:"tracer"`
	Server    server.Config    `yaml:"server" koanf:"server"`
}

// Default returns every section at its package default. The database
// section defaults to MariaDB on localhost.
func Default() Config {
	return Config{
		Logger:    logger.Config{Level: logger.Info, ServiceName: "vectorshard"},
		Database:  database.Config{Type: database.TypeMariaDB, Pool: pool.DefaultConfig()},
		Registry:  registry.DefaultConfig(),
		Redis:     redis.DefaultConfig(),
		Qdrant:    qdrant.DefaultConfig(),
		Allocator: allocator.DefaultConfig(),
		Embedding: embedding.DefaultConfig(),
		Ingest:    ingest.DefaultConfig(),
		Minio:     minio.DefaultConfig(),
		Metrics:   metrics.DefaultConfig(),
		Tracer:    tracer.DefaultConfig(),
		Server:    server.DefaultConfig(),
	}
}

// Validate checks every section and the settings that must agree across
// sections. All problems are reported together.
func (c Config) Validate() error {
	var errs []error
	add := func(section string, err error) {
		if err == nil {
			return
		}
		if !vectordb.IsInvalidConfiguration(err) {
			err = fmt.Errorf("%w: %w", vectordb.ErrInvalidConfiguration, err)
		}
		errs = append(errs, fmt.Errorf("%s: %w", section, err))
	}

	add("database", c.Database.Validate())
	add("registry", c.Registry.Validate())
	add("qdrant", c.Qdrant.Validate())
	add("allocator", c.Allocator.Validate())
	add("embedding", c.Embedding.Validate())
	add("ingest", c.Ingest.Validate())
	add("minio", c.Minio.Validate())
	add("server", c.Server.Validate())

	if c.Qdrant.IndexPrefix != "" && c.Qdrant.IndexPrefix != c.Allocator.IndexPrefix {
		add("allocator", fmt.Errorf("index_prefix %q differs from qdrant index_prefix %q",
			c.Allocator.IndexPrefix, c.Qdrant.IndexPrefix))
	}
	if c.Embedding.Dimension != c.Allocator.Dimension {
		add("embedding", fmt.Errorf("dimension %d differs from allocator dimension %d",
			c.Embedding.Dimension, c.Allocator.Dimension))
	}
	// namespace counts are capped at the facet limit
	if limit := c.Qdrant.FacetLimit; limit != 0 && c.Allocator.NamespacesPerIndex > 0 &&
		limit < uint64(c.Allocator.NamespacesPerIndex) {
		add("qdrant", fmt.Errorf("facet_limit %d is below allocator namespaces_per_index %d",
			limit, c.Allocator.NamespacesPerIndex))
	}

	return errors.Join(errs...)
}

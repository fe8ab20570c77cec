package config

import "go.uber.org/fx"

// Supply puts cfg and each of its sections into the container, so every
// package module can depend on its own Config type.
func Supply(cfg *Config) fx.Option {
	return fx.Supply(
		cfg,
		cfg.Logger,
		cfg.Database,
		cfg.Registry,
		cfg.Redis,
		cfg.Qdrant,
		cfg.Allocator,
		cfg.Embedding,
		cfg.Ingest,
		cfg.Minio,
		cfg.Metrics,
		cfg.Tracer,
		cfg.Server,
	)
}

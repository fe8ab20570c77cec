// Command vectorshard serves the document ingestion and query API.
//
// Usage:
//
//	vectorshard -config /etc/vectorshard/config.yaml
//
// Every setting can be overridden with VECTORSHARD_ environment variables,
// see package config.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/Aleph-Alpha/vectorshard/v1/allocator"
	"github.com/Aleph-Alpha/vectorshard/v1/config"
	"github.com/Aleph-Alpha/vectorshard/v1/database"
	"github.com/Aleph-Alpha/vectorshard/v1/embedding"
	"github.com/Aleph-Alpha/vectorshard/v1/ingest"
	"github.com/Aleph-Alpha/vectorshard/v1/logger"
	"github.com/Aleph-Alpha/vectorshard/v1/metrics"
	"github.com/Aleph-Alpha/vectorshard/v1/minio"
	"github.com/Aleph-Alpha/vectorshard/v1/qdrant"
	"github.com/Aleph-Alpha/vectorshard/v1/redis"
	"github.com/Aleph-Alpha/vectorshard/v1/registry"
	"github.com/Aleph-Alpha/vectorshard/v1/server"
	"github.com/Aleph-Alpha/vectorshard/v1/tracer"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
)

func main() {
	path := flag.String("config", os.Getenv("VECTORSHARD_CONFIG"), "path to the YAML configuration file")
	flag.Parse()

	cfg, err := config.Load(*path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "invalid configuration: %v\n", err)
		os.Exit(2)
	}

	fx.New(options(cfg)...).Run()
}

func options(cfg *config.Config) []fx.Option {
	opts := []fx.Option{
		config.Supply(cfg),
		fx.WithLogger(func(l *logger.LoggerClient) fxevent.Logger {
			return &fxevent.ZapLogger{Logger: l.Zap}
		}),
		logger.FXModule,
		tracer.FXModule,
		metrics.FXModule,
		database.FXModule,
		registry.FXModule,
		qdrant.FXModule,
		allocator.FXModule,
		embedding.FXModule,
		minio.FXModule,
		ingest.FXModule,
		server.FXModule,
	}
	if cfg.Redis.Enabled {
		opts = append(opts, redis.FXModule)
	}
	return opts
}

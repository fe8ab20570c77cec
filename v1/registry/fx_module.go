package registry

import (
	"context"

	"github.com/Aleph-Alpha/vectorshard/v1/database"
	"github.com/Aleph-Alpha/vectorshard/v1/logger"
	"github.com/Aleph-Alpha/vectorshard/v1/pool"
	"go.uber.org/fx"
)

// FXModule provides *Registry, *UsageTracker and *TrendingColumns over the
// database connection pool and migrates the schema on start when configured.
var FXModule = fx.Module("registry",
	fx.Provide(
		func(p *pool.Pool[*database.Conn]) ConnPool { return p },
		NewRegistryWithDI,
		NewUsageTrackerWithDI,
		NewTrendingColumnsWithDI,
	),
	fx.Invoke(RegisterMigrationLifecycle),
)

type RegistryParams struct {
	fx.In

	Pool   ConnPool
	Logger logger.Logger
	Cache  Cache `optional:"true"`
}

func NewRegistryWithDI(params RegistryParams) *Registry {
	var opts []Option
	if params.Cache != nil {
		opts = append(opts, WithCache(params.Cache))
	}
	return New(params.Pool, params.Logger, opts...)
}

type TablesParams struct {
	fx.In

	Config Config
	Pool   ConnPool
	Logger logger.Logger
}

func NewUsageTrackerWithDI(params TablesParams) (*UsageTracker, error) {
	return NewUsageTracker(params.Pool, params.Config.UsageTimezone, params.Logger)
}

func NewTrendingColumnsWithDI(params TablesParams) (*TrendingColumns, error) {
	return NewTrendingColumns(params.Pool, params.Config.TrendingTable, params.Logger)
}

// RegisterMigrationLifecycle runs Migrate on start when AutoMigrate is set.
// A failed migration aborts start-up.
func RegisterMigrationLifecycle(lc fx.Lifecycle, params TablesParams) {
	if !params.Config.AutoMigrate {
		return
	}
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			if err := Migrate(ctx, params.Pool, params.Config.TrendingTable); err != nil {
				return err
			}
			params.Logger.Info("registry schema is up to date", nil)
			return nil
		},
	})
}

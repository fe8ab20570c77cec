package database

import (
	"github.com/Aleph-Alpha/vectorshard/v1/logger"
	"github.com/Aleph-Alpha/vectorshard/v1/pool"
	"go.uber.org/fx"
)

// FXModule provides the registry connection pool and ties its idle monitor
// and shutdown to the application lifecycle. It needs a database.Config and a
// logger.Logger; a pool.Observer is used when present.
var FXModule = fx.Module("database",
	fx.Provide(NewPoolWithDI),
	fx.Invoke(RegisterPoolLifecycle),
)

type PoolParams struct {
	fx.In

	Config   Config
	Logger   logger.Logger
	Observer pool.Observer `optional:"true"`
}

// NewPoolWithDI validates the configuration and builds the pool. No
// connection is made until the first Acquire.
func NewPoolWithDI(params PoolParams) (*pool.Pool[*Conn], error) {
	if err := params.Config.Validate(); err != nil {
		return nil, err
	}
	return NewPool(params.Config, params.Logger, params.Observer), nil
}

// NewPool builds the registry connection pool for cfg.
func NewPool(cfg Config, log logger.Logger, observer pool.Observer) *pool.Pool[*Conn] {
	poolCfg := cfg.Pool
	if poolCfg.ProbeAddress == "" {
		poolCfg.ProbeAddress = cfg.address()
	}

	opts := []pool.Option[*Conn]{
		pool.WithBrokenCheck[*Conn](IsBadConnection),
	}
	if observer != nil {
		opts = append(opts, pool.WithObserver[*Conn](observer))
	}
	return pool.New(poolCfg, NewDialer(cfg).Dial, log, opts...)
}

func RegisterPoolLifecycle(lc fx.Lifecycle, p *pool.Pool[*Conn]) {
	pool.RegisterLifecycle(lc, p)
}

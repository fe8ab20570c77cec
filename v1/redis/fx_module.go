package redis

import (
	"context"

	"github.com/Aleph-Alpha/vectorshard/v1/logger"
	"github.com/Aleph-Alpha/vectorshard/v1/registry"
	"go.uber.org/fx"
)

// FXModule provides the Redis client and exposes the placement cache as
// registry.Cache. Include it only when the cache is enabled.
var FXModule = fx.Module("redis",
	fx.Provide(
		NewClientWithDI,
		fx.Annotate(
			NewPlacementCache,
			fx.As(new(registry.Cache)),
		),
	),
	fx.Invoke(RegisterRedisLifecycle),
)

type RedisParams struct {
	fx.In

	Config Config
	Logger logger.Logger
}

func NewClientWithDI(params RedisParams) (*RedisClient, error) {
	return NewClient(params.Config, params.Logger)
}

// RegisterRedisLifecycle pings on start (a failure is only logged, the
// registry works without its cache) and closes the client on stop.
func RegisterRedisLifecycle(lc fx.Lifecycle, client *RedisClient) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			if err := client.Ping(ctx); err != nil {
				client.logger.Warn("redis not reachable at start-up, placement cache will miss", err)
			}
			return nil
		},
		OnStop: func(ctx context.Context) error {
			return client.Close()
		},
	})
}

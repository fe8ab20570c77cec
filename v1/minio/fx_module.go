package minio

import (
	"context"
	"sync"

	"github.com/Aleph-Alpha/vectorshard/v1/logger"
	"go.uber.org/fx"
)

var FXModule = fx.Module("minio",
	fx.Provide(
		NewClient,
	),
	fx.Invoke(RegisterLifecycle),
)

// RegisterLifecycle runs the connection monitor between start and stop.
func RegisterLifecycle(lc fx.Lifecycle, mi *MinioClient, log logger.Logger) {
	if !mi.Enabled() {
		return
	}

	wg := &sync.WaitGroup{}
	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			wg.Add(1)
			go func() {
				defer wg.Done()
				mi.monitorConnection(context.Background(), connectionHealthCheckInterval)
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			log.Info("closing minio client...", nil)
			mi.GracefulShutdown()
			wg.Wait()
			return nil
		},
	})
}

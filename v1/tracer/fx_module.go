package tracer

import (
	"context"

	"github.com/Aleph-Alpha/vectorshard/v1/logger"
	"go.uber.org/fx"
)

// FXModule installs the tracer provider and flushes it on shutdown.
var FXModule = fx.Module("tracer",
	fx.Provide(
		NewClient,
	),
	fx.Invoke(RegisterTracerLifecycle),
)

func RegisterTracerLifecycle(lc fx.Lifecycle, tracer *Tracer, log logger.Logger) {
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			if tracer.tracer == nil {
				return nil
			}
			log.Info("shutting down tracer", nil)
			return tracer.Shutdown(ctx)
		},
	})
}

package server

import (
	"context"

	"github.com/Aleph-Alpha/vectorshard/v1/ingest"
	"github.com/Aleph-Alpha/vectorshard/v1/logger"
	"github.com/Aleph-Alpha/vectorshard/v1/metrics"
	"go.uber.org/fx"
)

// FXModule serves the API between application start and stop.
var FXModule = fx.Module("server",
	fx.Provide(NewServerWithDI),
	fx.Invoke(RegisterServerLifecycle),
)

type ServerParams struct {
	fx.In

	Config   Config
	Ingestor *ingest.Ingestor
	Querier  *ingest.Querier
	Metrics  *metrics.Metrics `optional:"true"`
	Logger   logger.Logger
}

func NewServerWithDI(p ServerParams) (*Server, error) {
	var observer RequestObserver
	if p.Metrics != nil {
		observer = p.Metrics
	}
	return New(p.Config, p.Ingestor, p.Querier, observer, p.Logger)
}

// RegisterServerLifecycle starts listening in the background on start and
// drains in-flight requests on stop. A listener failure shuts the
// application down.
func RegisterServerLifecycle(lc fx.Lifecycle, shutdowner fx.Shutdowner, s *Server) {
	done := make(chan struct{})
	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			go func() {
				defer close(done)
				if err := s.Start(); err != nil {
					s.logger.Error("http server failed", err)
					_ = shutdowner.Shutdown(fx.ExitCode(1))
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			ctx, cancel := context.WithTimeout(ctx, s.cfg.ShutdownTimeout)
			defer cancel()
			err := s.Shutdown(ctx)
			<-done
			return err
		},
	})
}

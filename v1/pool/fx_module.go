package pool

import (
	"context"
	"sync"

	"go.uber.org/fx"
)

// RegisterLifecycle starts the idle monitor of p with the application and
// closes p on stop. Packages that provide a concrete pool invoke it.
func RegisterLifecycle[R Resource](lc fx.Lifecycle, p *Pool[R]) {
	wg := &sync.WaitGroup{}
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			wg.Add(1)
			go func() {
				defer wg.Done()
				// the start context expires once OnStart returns
				p.MonitorIdle(context.Background())
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			err := p.Close()
			wg.Wait()
			return err
		},
	})
}

package pool

import (
	"context"
	"time"
)

// MonitorIdle periodically pings idle resources and disposes those that no
// longer answer. It returns when ctx is done or the pool is closed.
func (p *Pool[R]) MonitorIdle(ctx context.Context) {
	ticker := time.NewTicker(p.cfg.IdleCheckInterval)
	defer ticker.Stop()

	for {
		select {
		case <-p.shutdownSignal:
			p.logger.Info("stopping idle monitor due to shutdown signal", nil)
			return
		case <-ctx.Done():
			return
		case <-ticker.C:
			p.checkIdle(ctx)
		}
	}
}

// checkIdle takes the idle set out of the pool, pings each entry without
// holding the lock and puts the healthy ones back.
func (p *Pool[R]) checkIdle(ctx context.Context) {
	p.mu.Lock()
	idle := p.idle
	p.idle = nil
	p.mu.Unlock()

	disposed := 0
	for _, r := range idle {
		pingCtx, cancel := context.WithTimeout(ctx, p.cfg.PingTimeout)
		err := r.Ping(pingCtx)
		cancel()
		if err != nil {
			disposed++
			p.dispose(r)
			continue
		}
		p.Release(r, nil)
	}
	if disposed > 0 {
		p.logger.Warn("disposed unhealthy idle resources", nil, map[string]interface{}{
			"disposed": disposed,
			"checked":  len(idle),
		})
	}
}

package pool

import (
	"context"
	"fmt"
	"net"
	"sync"
	"time"

	"github.com/Aleph-Alpha/vectorshard/v1/logger"
	"github.com/Aleph-Alpha/vectorshard/v1/retry"
)

// Resource is anything the pool can hand out: a live handle that can be
// probed with a round-trip and disposed.
type Resource interface {
	Ping(ctx context.Context) error
	Close() error
}

// Dialer establishes a new resource.
type Dialer[R Resource] func(ctx context.Context) (R, error)

// Observer receives pool events; used for metrics.
type Observer interface {
	ObserveDial(success bool)
	ObserveIdle(n int)
}

// Pool hands out resources of type R, reusing up to MaxIdle released ones.
//
// A resource is owned by exactly one caller between Acquire and Release.
// Dialing happens outside the lock, so concurrent Acquire calls on an empty
// pool dial in parallel.
type Pool[R Resource] struct {
	cfg    Config
	dial   Dialer[R]
	logger logger.Logger

	retryOpts []retry.Option
	observer  Observer
	isBroken  func(error) bool

	mu     sync.Mutex
	idle   []R
	closed bool

	// probed is set once a probe window has ended or a resource was
	// established; later Acquire calls dial without probing.
	probed bool

	shutdownSignal    chan struct{}
	closeShutdownOnce sync.Once
}

// Option customizes a Pool.
type Option[R Resource] func(*Pool[R])

// WithRetryOptions passes options (timer, notify) to every dial retry loop.
func WithRetryOptions[R Resource](opts ...retry.Option) Option[R] {
	return func(p *Pool[R]) {
		p.retryOpts = append(p.retryOpts, opts...)
	}
}

// WithObserver attaches an event observer.
func WithObserver[R Resource](o Observer) Option[R] {
	return func(p *Pool[R]) {
		p.observer = o
	}
}

// WithBrokenCheck sets the predicate Release uses to decide that the error
// returned by the last operation left the resource unusable.
func WithBrokenCheck[R Resource](fn func(error) bool) Option[R] {
	return func(p *Pool[R]) {
		p.isBroken = fn
	}
}

// New creates an empty pool. No resource is dialed until the first Acquire.
func New[R Resource](cfg Config, dial Dialer[R], log logger.Logger, opts ...Option[R]) *Pool[R] {
	p := &Pool[R]{
		cfg:            cfg.withDefaults(),
		dial:           dial,
		logger:         log,
		isBroken:       func(error) bool { return false },
		probed:         cfg.ProbeAddress == "",
		shutdownSignal: make(chan struct{}),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Acquire returns an idle resource or establishes a new one. Establishing is
// retried with exponential backoff; when the budget is spent the error wraps
// ErrUnavailable and the last dial failure.
func (p *Pool[R]) Acquire(ctx context.Context) (R, error) {
	var zero R

	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return zero, ErrClosed
	}
	if n := len(p.idle); n > 0 {
		r := p.idle[n-1]
		p.idle = p.idle[:n-1]
		p.observeIdle(n - 1)
		p.mu.Unlock()
		return r, nil
	}
	needProbe := !p.probed
	p.mu.Unlock()

	if needProbe {
		p.waitForAddress(ctx)
	}

	r, err := retry.DoWithData(ctx, p.cfg.Retry, p.establish, p.dialRetryOptions()...)
	if err != nil {
		p.logger.ErrorWithContext(ctx, "failed to establish pooled resource", err, map[string]interface{}{
			"max_attempts": p.cfg.Retry.MaxAttempts,
		})
		return zero, fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	p.markProbed()
	return r, nil
}

// establish dials once and validates the result with a round-trip.
func (p *Pool[R]) establish(ctx context.Context) (R, error) {
	var zero R

	r, err := p.dial(ctx)
	if err != nil {
		p.observeDial(false)
		return zero, err
	}

	pingCtx, cancel := context.WithTimeout(ctx, p.cfg.PingTimeout)
	defer cancel()
	if err := r.Ping(pingCtx); err != nil {
		p.observeDial(false)
		p.dispose(r)
		return zero, fmt.Errorf("liveness probe failed: %w", err)
	}

	p.observeDial(true)
	return r, nil
}

func (p *Pool[R]) dialRetryOptions() []retry.Option {
	notify := retry.WithNotify(func(attempt int, err error, next time.Duration) {
		p.logger.Warn("pooled resource dial failed, retrying", err, map[string]interface{}{
			"attempt":      attempt,
			"max_attempts": p.cfg.Retry.MaxAttempts,
			"next_delay":   next.String(),
		})
	})
	return append([]retry.Option{notify}, p.retryOpts...)
}

// waitForAddress probes ProbeAddress until it accepts TCP connections or
// ProbeTimeout elapses. A failed probe is logged and the dial attempts
// proceed; they report the real error. The window is spent only once, a
// cancelled ctx leaves it for the next caller.
func (p *Pool[R]) waitForAddress(ctx context.Context) {
	deadline := time.Now().Add(p.cfg.ProbeTimeout)
	ticker := time.NewTicker(p.cfg.ProbeInterval)
	defer ticker.Stop()

	for {
		conn, err := net.DialTimeout("tcp", p.cfg.ProbeAddress, p.cfg.ProbeInterval)
		if err == nil {
			_ = conn.Close()
			p.markProbed()
			return
		}
		if time.Now().After(deadline) {
			p.logger.Warn("datastore port not reachable within probe window", err, map[string]interface{}{
				"address": p.cfg.ProbeAddress,
				"timeout": p.cfg.ProbeTimeout.String(),
			})
			p.markProbed()
			return
		}
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

func (p *Pool[R]) markProbed() {
	p.mu.Lock()
	p.probed = true
	p.mu.Unlock()
}

// Release returns r to the pool. cause is the error of the last operation
// performed with r (nil on success); if it marks r as broken, or the idle
// set is full, or the pool is closed, r is closed instead.
func (p *Pool[R]) Release(r R, cause error) {
	if cause != nil && p.isBroken(cause) {
		p.logger.Debug("disposing broken pooled resource", cause)
		p.dispose(r)
		return
	}

	p.mu.Lock()
	if p.closed || len(p.idle) >= p.cfg.MaxIdle {
		p.mu.Unlock()
		p.dispose(r)
		return
	}
	p.idle = append(p.idle, r)
	p.observeIdle(len(p.idle))
	p.mu.Unlock()
}

// Idle returns the current size of the idle set.
func (p *Pool[R]) Idle() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.idle)
}

// Close disposes every idle resource. Resources still checked out are closed
// when released.
func (p *Pool[R]) Close() error {
	p.closeShutdownOnce.Do(func() {
		close(p.shutdownSignal)
	})

	p.mu.Lock()
	idle := p.idle
	p.idle = nil
	p.closed = true
	p.mu.Unlock()

	var firstErr error
	for _, r := range idle {
		if err := r.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

func (p *Pool[R]) dispose(r R) {
	if err := r.Close(); err != nil {
		p.logger.Warn("error closing pooled resource", err)
	}
}

func (p *Pool[R]) observeDial(ok bool) {
	if p.observer != nil {
		p.observer.ObserveDial(ok)
	}
}

func (p *Pool[R]) observeIdle(n int) {
	if p.observer != nil {
		p.observer.ObserveIdle(n)
	}
}

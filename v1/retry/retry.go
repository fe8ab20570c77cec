package retry

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/cenkalti/backoff/v4"
)

// Config parameterizes an exponential retry: attempt n (0-based) is followed
// by a wait of BaseDelay × Factor^n, capped at MaxDelay. The loop stops after
// MaxAttempts attempts or once the next wait would exceed MaxElapsed.
type Config struct {
	MaxAttempts int           `yaml:"max_attempts" koanf:"max_attempts"`
	BaseDelay   time.Duration `yaml:"base_delay" koanf:"base_delay"`
	Factor      float64       `yaml:"factor" koanf:"factor"`
	MaxDelay    time.Duration `yaml:"max_delay" koanf:"max_delay"`

	// MaxElapsed bounds the total time spent in the loop; zero disables the bound.
	MaxElapsed time.Duration `yaml:"max_elapsed" koanf:"max_elapsed"`
}

// DefaultConfig mirrors the connection retry of the registry datastore:
// three attempts starting at two seconds and doubling.
func DefaultConfig() Config {
	return Config{
		MaxAttempts: 3,
		BaseDelay:   2 * time.Second,
		Factor:      2,
		MaxDelay:    30 * time.Second,
		MaxElapsed:  2 * time.Minute,
	}
}

// Validate reports a configuration that could never make progress.
func (c Config) Validate() error {
	if c.MaxAttempts < 1 {
		return fmt.Errorf("retry: max_attempts must be at least 1, got %d", c.MaxAttempts)
	}
	if c.BaseDelay < 0 || c.MaxDelay < 0 || c.MaxElapsed < 0 {
		return errors.New("retry: delays must not be negative")
	}
	if c.Factor != 0 && c.Factor < 1 {
		return fmt.Errorf("retry: factor must be >= 1, got %v", c.Factor)
	}
	return nil
}

func (c Config) normalized() Config {
	if c.MaxAttempts < 1 {
		c.MaxAttempts = 1
	}
	if c.Factor < 1 {
		c.Factor = 1
	}
	if c.MaxDelay <= 0 {
		// backoff's own default cap is 60s; keep the schedule uncapped instead
		c.MaxDelay = time.Duration(math.MaxInt64)
	}
	return c
}

// Delays returns the waits between consecutive attempts, len MaxAttempts-1.
// It steps the interval the same way the underlying backoff does.
func (c Config) Delays() []time.Duration {
	c = c.normalized()
	delays := make([]time.Duration, 0, c.MaxAttempts-1)
	current := c.BaseDelay
	for n := 0; n < c.MaxAttempts-1; n++ {
		delays = append(delays, min(current, c.MaxDelay))
		if float64(current) >= float64(c.MaxDelay)/c.Factor {
			current = c.MaxDelay
		} else {
			current = time.Duration(float64(current) * c.Factor)
		}
	}
	return delays
}

// Total is the worst-case time spent waiting between attempts.
func (c Config) Total() time.Duration {
	var total time.Duration
	for _, d := range c.Delays() {
		total += d
	}
	if c.MaxElapsed > 0 && total > c.MaxElapsed {
		return c.MaxElapsed
	}
	return total
}

func (c Config) backOff(ctx context.Context) backoff.BackOff {
	c = c.normalized()
	exp := backoff.NewExponentialBackOff(
		backoff.WithInitialInterval(c.BaseDelay),
		backoff.WithRandomizationFactor(0),
		backoff.WithMultiplier(c.Factor),
		backoff.WithMaxInterval(c.MaxDelay),
		backoff.WithMaxElapsedTime(c.MaxElapsed),
	)
	return backoff.WithContext(backoff.WithMaxRetries(exp, uint64(c.MaxAttempts-1)), ctx)
}

// Do runs op until it succeeds, returns a non-retryable error, or the
// attempt/elapsed budget is spent. Exhaustion is reported as *ExhaustedError
// wrapping the last error; a non-retryable error is returned unchanged.
func Do(ctx context.Context, cfg Config, op func(ctx context.Context) error, opts ...Option) error {
	_, err := DoWithData(ctx, cfg, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, op(ctx)
	}, opts...)
	return err
}

// DoWithData is Do for operations that produce a value.
func DoWithData[T any](ctx context.Context, cfg Config, op func(ctx context.Context) (T, error), opts ...Option) (T, error) {
	o := newOptions(opts)

	var (
		attempt int
		lastErr error
	)
	operation := func() (T, error) {
		attempt++
		res, err := op(ctx)
		if err == nil {
			return res, nil
		}
		lastErr = err
		if !o.retryable(err) {
			return res, backoff.Permanent(err)
		}
		return res, err
	}
	notify := func(err error, next time.Duration) {
		if o.notify != nil {
			o.notify(attempt, err, next)
		}
	}

	res, err := backoff.RetryNotifyWithTimerAndData(operation, cfg.backOff(ctx), notify, o.timer)
	switch {
	case err == nil:
		return res, nil
	case lastErr == nil:
		// context was already done before the first attempt
		return res, err
	case !o.retryable(lastErr):
		return res, err
	case ctx.Err() != nil && errors.Is(err, ctx.Err()):
		return res, fmt.Errorf("%w (after %d attempts, last error: %w)", err, attempt, lastErr)
	default:
		return res, &ExhaustedError{Attempts: attempt, Err: lastErr}
	}
}

// ExhaustedError is returned when every permitted attempt failed.
type ExhaustedError struct {
	Attempts int
	Err      error
}

func (e *ExhaustedError) Error() string {
	return fmt.Sprintf("gave up after %d attempts: %v", e.Attempts, e.Err)
}

func (e *ExhaustedError) Unwrap() error {
	return e.Err
}

// IsExhausted reports whether err came from a spent retry budget.
func IsExhausted(err error) bool {
	var ex *ExhaustedError
	return errors.As(err, &ex)
}

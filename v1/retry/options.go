package retry

import (
	"time"

	"github.com/cenkalti/backoff/v4"
)

// Option customizes a single Do/DoWithData call.
type Option func(*options)

type options struct {
	retryable func(error) bool
	notify    func(attempt int, err error, next time.Duration)
	timer     backoff.Timer
}

func newOptions(opts []Option) *options {
	o := &options{retryable: func(error) bool { return true }}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// WithRetryable limits retries to errors for which pred returns true.
func WithRetryable(pred func(error) bool) Option {
	return func(o *options) {
		if pred != nil {
			o.retryable = pred
		}
	}
}

// WithNotify is called after every failed attempt that will be retried,
// with the 1-based attempt number and the wait before the next one.
func WithNotify(fn func(attempt int, err error, next time.Duration)) Option {
	return func(o *options) {
		o.notify = fn
	}
}

// WithTimer replaces the wall-clock timer used between attempts.
func WithTimer(t backoff.Timer) Option {
	return func(o *options) {
		o.timer = t
	}
}

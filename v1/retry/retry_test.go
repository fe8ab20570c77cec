package retry

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeTimer fires immediately and records every requested wait.
type fakeTimer struct {
	mu     sync.Mutex
	waits  []time.Duration
	fireCh chan time.Time
}

func newFakeTimer() *fakeTimer {
	return &fakeTimer{fireCh: make(chan time.Time, 1)}
}

func (f *fakeTimer) Start(d time.Duration) {
	f.mu.Lock()
	f.waits = append(f.waits, d)
	f.mu.Unlock()
	f.fireCh <- time.Now()
}

func (f *fakeTimer) Stop() {}

func (f *fakeTimer) C() <-chan time.Time { return f.fireCh }

func (f *fakeTimer) Waits() []time.Duration {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]time.Duration(nil), f.waits...)
}

var errFlaky = errors.New("flaky")

func TestDoSucceedsAfterTransientFailures(t *testing.T) {
	timer := newFakeTimer()
	cfg := Config{MaxAttempts: 5, BaseDelay: 100 * time.Millisecond, Factor: 2}

	calls := 0
	err := Do(context.Background(), cfg, func(ctx context.Context) error {
		calls++
		if calls < 3 {
			return errFlaky
		}
		return nil
	}, WithTimer(timer))

	require.NoError(t, err)
	assert.Equal(t, 3, calls)
	assert.Equal(t, []time.Duration{100 * time.Millisecond, 200 * time.Millisecond}, timer.Waits())
}

func TestDoExhaustsExactlyMaxAttempts(t *testing.T) {
	timer := newFakeTimer()
	cfg := Config{MaxAttempts: 4, BaseDelay: 10 * time.Millisecond, Factor: 3}

	var notified []int
	calls := 0
	err := Do(context.Background(), cfg, func(ctx context.Context) error {
		calls++
		return errFlaky
	}, WithTimer(timer), WithNotify(func(attempt int, err error, next time.Duration) {
		notified = append(notified, attempt)
	}))

	require.Error(t, err)
	assert.True(t, IsExhausted(err))
	assert.ErrorIs(t, err, errFlaky)
	assert.Equal(t, 4, calls)
	assert.Equal(t, []int{1, 2, 3}, notified)

	waits := timer.Waits()
	assert.Equal(t, cfg.Delays(), waits)
	for i := 1; i < len(waits); i++ {
		assert.Greater(t, waits[i], waits[i-1])
	}
}

func TestDoStopsOnNonRetryableError(t *testing.T) {
	permanent := errors.New("bad request")
	calls := 0
	err := Do(context.Background(), Config{MaxAttempts: 5, BaseDelay: time.Millisecond, Factor: 2},
		func(ctx context.Context) error {
			calls++
			return permanent
		},
		WithTimer(newFakeTimer()),
		WithRetryable(func(err error) bool { return !errors.Is(err, permanent) }),
	)

	assert.Equal(t, 1, calls)
	assert.Same(t, permanent, err)
	assert.False(t, IsExhausted(err))
}

func TestDoWithDataReturnsValue(t *testing.T) {
	calls := 0
	v, err := DoWithData(context.Background(), Config{MaxAttempts: 2, Factor: 2}, func(ctx context.Context) (string, error) {
		calls++
		if calls == 1 {
			return "", errFlaky
		}
		return "index-1a2b3c4d", nil
	}, WithTimer(newFakeTimer()))

	require.NoError(t, err)
	assert.Equal(t, "index-1a2b3c4d", v)
}

func TestDoHonoursCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := Do(ctx, Config{MaxAttempts: 3, BaseDelay: time.Hour, Factor: 2}, func(ctx context.Context) error {
		return errFlaky
	})

	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestConfigDelaysAndTotal(t *testing.T) {
	cfg := Config{MaxAttempts: 5, BaseDelay: time.Second, Factor: 2, MaxDelay: 5 * time.Second}
	assert.Equal(t, []time.Duration{time.Second, 2 * time.Second, 4 * time.Second, 5 * time.Second}, cfg.Delays())
	assert.Equal(t, 12*time.Second, cfg.Total())

	cfg.MaxElapsed = 3 * time.Second
	assert.Equal(t, 3*time.Second, cfg.Total())

	assert.Empty(t, Config{MaxAttempts: 1}.Delays())
}

func TestConfigValidate(t *testing.T) {
	assert.NoError(t, DefaultConfig().Validate())
	assert.Error(t, Config{MaxAttempts: 0}.Validate())
	assert.Error(t, Config{MaxAttempts: 1, Factor: 0.5}.Validate())
	assert.Error(t, Config{MaxAttempts: 1, BaseDelay: -time.Second}.Validate())
}

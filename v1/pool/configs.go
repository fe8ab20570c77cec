package pool

import (
	"fmt"
	"time"

	"github.com/Aleph-Alpha/vectorshard/v1/retry"
)

const (
	defaultMaxIdle           = 5
	defaultProbeInterval     = time.Second
	defaultProbeTimeout      = 30 * time.Second
	defaultPingTimeout       = 5 * time.Second
	defaultIdleCheckInterval = 10 * time.Second
)

// Config controls acquisition retries, the idle set and liveness checks.
type Config struct {
	// MaxIdle is the number of released resources kept for reuse.
	MaxIdle int `yaml:"max_idle" koanf:"max_idle"`

	// Retry bounds the dial attempts of a single Acquire.
	Retry retry.Config `yaml:"retry" koanf:"retry"`

	// ProbeAddress, when set, is TCP-probed before the first dial until it
	// accepts a connection or ProbeTimeout elapses.
	ProbeAddress  string        `yaml:"probe_address" koanf:"probe_address"`
	ProbeTimeout  time.Duration `yaml:"probe_timeout" koanf:"probe_timeout"`
	ProbeInterval time.Duration `yaml:"probe_interval" koanf:"probe_interval"`

	// PingTimeout bounds the round-trip that validates a new resource.
	PingTimeout time.Duration `yaml:"ping_timeout" koanf:"ping_timeout"`

	// IdleCheckInterval is the period of the idle liveness monitor.
	IdleCheckInterval time.Duration `yaml:"idle_check_interval" koanf:"idle_check_interval"`
}

// DefaultConfig returns five idle slots and the default retry policy.
func DefaultConfig() Config {
	return Config{
		MaxIdle:           defaultMaxIdle,
		Retry:             retry.DefaultConfig(),
		ProbeTimeout:      defaultProbeTimeout,
		ProbeInterval:     defaultProbeInterval,
		PingTimeout:       defaultPingTimeout,
		IdleCheckInterval: defaultIdleCheckInterval,
	}
}

func (c Config) Validate() error {
	if c.MaxIdle < 0 {
		return fmt.Errorf("pool: max_idle must not be negative, got %d", c.MaxIdle)
	}
	return c.Retry.Validate()
}

func (c Config) withDefaults() Config {
	if c.ProbeInterval <= 0 {
		c.ProbeInterval = defaultProbeInterval
	}
	if c.ProbeTimeout <= 0 {
		c.ProbeTimeout = defaultProbeTimeout
	}
	if c.PingTimeout <= 0 {
		c.PingTimeout = defaultPingTimeout
	}
	if c.IdleCheckInterval <= 0 {
		c.IdleCheckInterval = defaultIdleCheckInterval
	}
	if c.Retry.MaxAttempts < 1 {
		c.Retry.MaxAttempts = 1
	}
	return c
}

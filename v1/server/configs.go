package server

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/Aleph-Alpha/vectorshard/v1/vectordb"
)

// Config of the HTTP API.
type Config struct {
	Address string `yaml:"address" koanf:"address"`

	// Accepted values of the x-api-key header.
	APIKeys []string `yaml:"api_keys" koanf:"api_keys"`

	// Name of an environment variable holding comma-separated keys, merged
	// with APIKeys.
	APIKeysEnv string `yaml:"api_keys_env" koanf:"api_keys_env"`

	ReadTimeout     time.Duration `yaml:"read_timeout" koanf:"read_timeout"`
	WriteTimeout    time.Duration `yaml:"write_timeout" koanf:"write_timeout"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" koanf:"shutdown_timeout"`

	// Maximum request body, e.g. "1M".
	BodyLimit string `yaml:"body_limit" koanf:"body_limit"`
}

func DefaultConfig() Config {
	return Config{
		Address:         ":5000",
		APIKeysEnv:      "API_KEYS",
		ReadTimeout:     30 * time.Second,
		WriteTimeout:    5 * time.Minute,
		ShutdownTimeout: 30 * time.Second,
		BodyLimit:       "1M",
	}
}

// ResolveAPIKeys returns the configured keys, trimmed and deduplicated.
func (c Config) ResolveAPIKeys() map[string]struct{} {
	keys := make(map[string]struct{})
	add := func(k string) {
		if k = strings.TrimSpace(k); k != "" {
			keys[k] = struct{}{}
		}
	}
	for _, k := range c.APIKeys {
		add(k)
	}
	if c.APIKeysEnv != "" {
		for _, k := range strings.Split(os.Getenv(c.APIKeysEnv), ",") {
			add(k)
		}
	}
	return keys
}

func (c Config) Validate() error {
	if c.Address == "" {
		return fmt.Errorf("%w: server address is required", vectordb.ErrInvalidConfiguration)
	}
	if len(c.ResolveAPIKeys()) == 0 {
		return fmt.Errorf("%w: no API keys configured", vectordb.ErrInvalidConfiguration)
	}
	return nil
}

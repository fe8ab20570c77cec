package embedding

import (
	"fmt"
	"os"
	"time"

	"github.com/Aleph-Alpha/vectorshard/v1/retry"
	"github.com/Aleph-Alpha/vectorshard/v1/vectordb"
)

// Config points the client at an OpenAI-compatible inference service.
//
// Endpoint is the root of the service (no /embeddings appended); the client
// appends the path itself.
type Config struct {
	Endpoint string `yaml:"endpoint" koanf:"endpoint"`

	// Inline bearer token. Prefer TokenEnv.
	Token string `yaml:"token" koanf:"token"`

	// Name of the environment variable holding the bearer token.
	TokenEnv string `yaml:"token_env" koanf:"token_env"`

	Model string `yaml:"model" koanf:"model"`

	// Expected vector length. Responses of any other length are rejected.
	Dimension int `yaml:"dimension" koanf:"dimension"`

	// Texts per request.
	BatchSize int `yaml:"batch_size" koanf:"batch_size"`

	// HTTP timeout for a single request.
	Timeout time.Duration `yaml:"timeout" koanf:"timeout"`

	Retry retry.Config `yaml:"retry" koanf:"retry"`
}

const (
	DefaultBatchSize = 64
	DefaultTimeout   = 30 * time.Second
)

func DefaultConfig() Config {
	return Config{
		TokenEnv:  "EMBEDDING_SERVICE_TOKEN",
		Dimension: 768,
		BatchSize: DefaultBatchSize,
		Timeout:   DefaultTimeout,
		Retry:     retry.DefaultConfig(),
	}
}

// ResolveToken returns the inline token or the one named by TokenEnv.
// An empty result is allowed for services without authentication.
func (c Config) ResolveToken() string {
	if c.Token != "" {
		return c.Token
	}
	if c.TokenEnv != "" {
		return os.Getenv(c.TokenEnv)
	}
	return ""
}

// Validate ensures required fields are present.
func (c Config) Validate() error {
	if c.Endpoint == "" {
		return fmt.Errorf("%w: embedding endpoint is required", vectordb.ErrInvalidConfiguration)
	}
	if c.Model == "" {
		return fmt.Errorf("%w: embedding model is required", vectordb.ErrInvalidConfiguration)
	}
	if c.Dimension <= 0 {
		return fmt.Errorf("%w: embedding dimension must be positive, got %d", vectordb.ErrInvalidConfiguration, c.Dimension)
	}
	if c.BatchSize < 0 {
		return fmt.Errorf("%w: embedding batch size must not be negative", vectordb.ErrInvalidConfiguration)
	}
	if err := c.Retry.Validate(); err != nil {
		return fmt.Errorf("%w: embedding retry: %w", vectordb.ErrInvalidConfiguration, err)
	}
	return nil
}

func (c Config) withDefaults() Config {
	if c.BatchSize == 0 {
		c.BatchSize = DefaultBatchSize
	}
	if c.Timeout <= 0 {
		c.Timeout = DefaultTimeout
	}
	return c
}

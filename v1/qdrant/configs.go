package qdrant

import (
	"fmt"
	"os"
	"time"

	"github.com/Aleph-Alpha/vectorshard/v1/vectordb"
)

// Config holds the settings shared by every project connection and the
// ordered list of projects.
//
// Example (YAML):
//
//	qdrant:
//	  index_prefix: "index-"
//	  projects:
//	    - name: primary
//	      endpoint: qdrant-a.internal
//	      api_key_env: QDRANT_PRIMARY_KEY
//	    - name: overflow
//	      endpoint: qdrant-b.internal
//	      api_key_env: QDRANT_OVERFLOW_KEY
type Config struct {
	// Projects are consulted by the allocator in this order.
	Projects []ProjectConfig `yaml:"projects" koanf:"projects"`

	// Only collections whose name starts with IndexPrefix are listed as
	// indexes, so unrelated collections on the same cluster are ignored.
	IndexPrefix string `yaml:"index_prefix" koanf:"index_prefix"`

	// Upper bound on distinct namespaces counted per index.
	FacetLimit uint64 `yaml:"facet_limit" koanf:"facet_limit"`

	// Per-call timeout.
	Timeout time.Duration `yaml:"timeout" koanf:"timeout"`

	// Health check timeout used when a project connection is opened.
	ConnectTimeout time.Duration `yaml:"connect_timeout" koanf:"connect_timeout"`

	// Whether to perform version compatibility checks between client and server.
	CheckCompatibility bool `yaml:"check_compatibility" koanf:"check_compatibility"`
}

// ProjectConfig is one Qdrant deployment (one credential).
type ProjectConfig struct {
	// Tag stored in the registry next to each placement.
	Name string `yaml:"name" koanf:"name"`

	// Hostname of the Qdrant server, e.g. "localhost".
	Endpoint string `yaml:"endpoint" koanf:"endpoint"`

	// gRPC port of the Qdrant server. Defaults to 6334.
	Port int `yaml:"port" koanf:"port"`

	// Inline API key. Prefer APIKeyEnv.
	APIKey string `yaml:"api_key" koanf:"api_key"`

	// Name of the environment variable holding the API key.
	APIKeyEnv string `yaml:"api_key_env" koanf:"api_key_env"`

	// Anonymous allows a project without credential (local clusters).
	Anonymous bool `yaml:"anonymous" koanf:"anonymous"`

	UseTLS bool `yaml:"use_tls" koanf:"use_tls"`
}

const (
	DefaultPort        = 6334
	DefaultIndexPrefix = "index-"
	DefaultFacetLimit  = 100000
)

// DefaultConfig provides sensible defaults; projects must still be supplied.
func DefaultConfig() Config {
	return Config{
		IndexPrefix:        DefaultIndexPrefix,
		FacetLimit:         DefaultFacetLimit,
		Timeout:            10 * time.Second,
		ConnectTimeout:     3 * time.Second,
		CheckCompatibility: true,
	}
}

func (c Config) withDefaults() Config {
	d := DefaultConfig()
	if c.IndexPrefix == "" {
		c.IndexPrefix = d.IndexPrefix
	}
	if c.FacetLimit == 0 {
		c.FacetLimit = d.FacetLimit
	}
	if c.Timeout <= 0 {
		c.Timeout = d.Timeout
	}
	if c.ConnectTimeout <= 0 {
		c.ConnectTimeout = d.ConnectTimeout
	}
	return c
}

// ResolveAPIKey returns the inline key, or the value of APIKeyEnv.
// A project without a usable credential is a configuration error unless it
// is marked Anonymous.
func (p ProjectConfig) ResolveAPIKey() (string, error) {
	if p.APIKey != "" {
		return p.APIKey, nil
	}
	if p.APIKeyEnv != "" {
		if key := os.Getenv(p.APIKeyEnv); key != "" {
			return key, nil
		}
		if !p.Anonymous {
			return "", fmt.Errorf("%w: project %q: environment variable %s is empty",
				vectordb.ErrInvalidConfiguration, p.Name, p.APIKeyEnv)
		}
	}
	if p.Anonymous {
		return "", nil
	}
	return "", fmt.Errorf("%w: project %q has no api key", vectordb.ErrInvalidConfiguration, p.Name)
}

// Validate checks the project list without touching the network.
func (c Config) Validate() error {
	if len(c.Projects) == 0 {
		return fmt.Errorf("%w: at least one qdrant project is required", vectordb.ErrInvalidConfiguration)
	}
	seen := make(map[string]struct{}, len(c.Projects))
	for i, p := range c.Projects {
		if p.Name == "" {
			return fmt.Errorf("%w: project %d has no name", vectordb.ErrInvalidConfiguration, i)
		}
		if _, dup := seen[p.Name]; dup {
			return fmt.Errorf("%w: duplicate project %q", vectordb.ErrInvalidConfiguration, p.Name)
		}
		seen[p.Name] = struct{}{}
		if p.Endpoint == "" {
			return fmt.Errorf("%w: project %q has no endpoint", vectordb.ErrInvalidConfiguration, p.Name)
		}
		if _, err := p.ResolveAPIKey(); err != nil {
			return err
		}
	}
	return nil
}

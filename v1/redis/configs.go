package redis

import "time"

const (
	DefaultHost        = "localhost"
	DefaultPort        = 6379
	DefaultDialTimeout = 5 * time.Second
	DefaultReadTimeout = 3 * time.Second
	DefaultKeyPrefix   = "vectorshard:placement:"
	DefaultTTL         = 24 * time.Hour
)

// Config configures the placement cache connection.
type Config struct {
	// Enabled switches the cache on; without it lookups go straight to the registry.
	Enabled bool `yaml:"enabled" koanf:"enabled"`

	Host     string `yaml:"host" koanf:"host"`
	Port     int    `yaml:"port" koanf:"port"`
	Username string `yaml:"username" koanf:"username"`
	Password string `yaml:"password" koanf:"password"`
	DB       int    `yaml:"db" koanf:"db"`

	PoolSize     int           `yaml:"pool_size" koanf:"pool_size"`
	DialTimeout  time.Duration `yaml:"dial_timeout" koanf:"dial_timeout"`
	ReadTimeout  time.Duration `yaml:"read_timeout" koanf:"read_timeout"`
	WriteTimeout time.Duration `yaml:"write_timeout" koanf:"write_timeout"`

	TLS TLSConfig `yaml:"tls" koanf:"tls"`

	// KeyPrefix namespaces the cache keys.
	KeyPrefix string `yaml:"key_prefix" koanf:"key_prefix"`

	// TTL of a cached placement. Placements never change, the TTL only bounds memory.
	TTL time.Duration `yaml:"ttl" koanf:"ttl"`
}

type TLSConfig struct {
	Enabled            bool   `yaml:"enabled" koanf:"enabled"`
	CACertPath         string `yaml:"ca_cert_path" koanf:"ca_cert_path"`
	InsecureSkipVerify bool   `yaml:"insecure_skip_verify" koanf:"insecure_skip_verify"`
	ServerName         string `yaml:"server_name" koanf:"server_name"`
}

func DefaultConfig() Config {
	return Config{}.withDefaults()
}

func (c Config) withDefaults() Config {
	if c.Host == "" {
		c.Host = DefaultHost
	}
	if c.Port == 0 {
		c.Port = DefaultPort
	}
	if c.DialTimeout == 0 {
		c.DialTimeout = DefaultDialTimeout
	}
	if c.ReadTimeout == 0 {
		c.ReadTimeout = DefaultReadTimeout
	}
	if c.KeyPrefix == "" {
		c.KeyPrefix = DefaultKeyPrefix
	}
	if c.TTL == 0 {
		c.TTL = DefaultTTL
	}
	return c
}

package database

import (
	"fmt"
	"time"

	"github.com/Aleph-Alpha/vectorshard/v1/mariadb"
	"github.com/Aleph-Alpha/vectorshard/v1/pool"
	"github.com/Aleph-Alpha/vectorshard/v1/postgres"
)

const (
	TypeMariaDB  = "mariadb"
	TypePostgres = "postgres"
)

// Config selects and configures the registry datastore.
//
// Exactly one of MariaDB or Postgres must be set, matching Type.
type Config struct {
	Type string `yaml:"type" koanf:"type"`

	MariaDB  *mariadb.Config  `yaml:"mariadb" koanf:"mariadb"`
	Postgres *postgres.Config `yaml:"postgres" koanf:"postgres"`

	// ConnMaxLifetime recycles the underlying connection of a pooled handle.
	ConnMaxLifetime time.Duration `yaml:"conn_max_lifetime" koanf:"conn_max_lifetime"`

	// Pool configures the handle pool; ProbeAddress defaults to the server address.
	Pool pool.Config `yaml:"pool" koanf:"pool"`
}

// MariaDBConfig is a convenience constructor for a MariaDB-backed registry.
func MariaDBConfig(cfg mariadb.Config) Config {
	return Config{
		Type:    TypeMariaDB,
		MariaDB: &cfg,
		Pool:    pool.DefaultConfig(),
	}
}

// PostgresConfig is a convenience constructor for a PostgreSQL-backed registry.
func PostgresConfig(cfg postgres.Config) Config {
	return Config{
		Type:     TypePostgres,
		Postgres: &cfg,
		Pool:     pool.DefaultConfig(),
	}
}

func (c Config) Validate() error {
	switch c.Type {
	case TypeMariaDB:
		if c.MariaDB == nil {
			return fmt.Errorf("mariadb config is required when type=mariadb")
		}
		if err := c.MariaDB.Validate(); err != nil {
			return err
		}
	case TypePostgres:
		if c.Postgres == nil {
			return fmt.Errorf("postgres config is required when type=postgres")
		}
		if err := c.Postgres.Validate(); err != nil {
			return err
		}
	default:
		return fmt.Errorf("unsupported database type: %q (must be 'postgres' or 'mariadb')", c.Type)
	}
	return c.Pool.Validate()
}

// address is the host:port the pool probes before dialing.
func (c Config) address() string {
	switch c.Type {
	case TypeMariaDB:
		return c.MariaDB.Connection.Address()
	case TypePostgres:
		return c.Postgres.Connection.Address()
	}
	return ""
}

package postgres

import (
	"fmt"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// DSN builds the keyword/value connection string for cfg.
func DSN(cfg Config) string {
	sslMode := cfg.Connection.SSLMode
	if sslMode == "" {
		sslMode = "disable"
	}
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		cfg.Connection.Host,
		cfg.Connection.Port,
		cfg.Connection.User,
		cfg.Connection.Password,
		cfg.Connection.DbName,
		sslMode)
}

// Dialector returns the gorm dialector (pgx underneath) for cfg.
func Dialector(cfg Config) gorm.Dialector {
	return postgres.Open(DSN(cfg))
}

func (c Config) Validate() error {
	switch {
	case c.Connection.Host == "":
		return fmt.Errorf("postgres: host is required")
	case c.Connection.Port == "":
		return fmt.Errorf("postgres: port is required")
	case c.Connection.User == "":
		return fmt.Errorf("postgres: user is required")
	case c.Connection.DbName == "":
		return fmt.Errorf("postgres: db_name is required")
	}
	return nil
}

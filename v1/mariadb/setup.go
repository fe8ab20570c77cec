package mariadb

import (
	"fmt"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

// DSN builds the go-sql-driver data source name for cfg.
// Format: username:password@tcp(host:port)/dbname?param=value
func DSN(cfg Config) string {
	charset := cfg.Connection.Charset
	if charset == "" {
		charset = "utf8mb4"
	}

	parseTime := "True"
	if !cfg.Connection.ParseTime {
		parseTime = "False"
	}

	loc := cfg.Connection.Loc
	if loc == "" {
		loc = "Local"
	}

	dsn := fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=%s&parseTime=%s&loc=%s",
		cfg.Connection.User,
		cfg.Connection.Password,
		cfg.Connection.Host,
		cfg.Connection.Port,
		cfg.Connection.DbName,
		charset,
		parseTime,
		loc,
	)

	if cfg.Connection.TLS != "" {
		dsn += "&tls=" + cfg.Connection.TLS
	}
	if cfg.Connection.Timeout != "" {
		dsn += "&timeout=" + cfg.Connection.Timeout
	}
	if cfg.Connection.ReadTimeout != "" {
		dsn += "&readTimeout=" + cfg.Connection.ReadTimeout
	}
	if cfg.Connection.WriteTimeout != "" {
		dsn += "&writeTimeout=" + cfg.Connection.WriteTimeout
	}
	return dsn
}

// Dialector returns the gorm dialector for cfg.
func Dialector(cfg Config) gorm.Dialector {
	return mysql.Open(DSN(cfg))
}

// Validate checks the fields without which no connection can be made.
func (c Config) Validate() error {
	switch {
	case c.Connection.Host == "":
		return fmt.Errorf("mariadb: host is required")
	case c.Connection.Port == "":
		return fmt.Errorf("mariadb: port is required")
	case c.Connection.User == "":
		return fmt.Errorf("mariadb: user is required")
	case c.Connection.DbName == "":
		return fmt.Errorf("mariadb: db_name is required")
	}
	return nil
}

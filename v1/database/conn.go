package database

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Aleph-Alpha/vectorshard/v1/mariadb"
	"github.com/Aleph-Alpha/vectorshard/v1/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// Conn is one pooled registry handle: a gorm session over a database/sql
// pool capped at a single open connection.
type Conn struct {
	db    *gorm.DB
	sqlDB *sql.DB
}

// NewConn wraps an opened gorm.DB. Tests use it with sqlmock-backed dialectors.
func NewConn(db *gorm.DB) (*Conn, error) {
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database instance: %w", err)
	}
	return &Conn{db: db, sqlDB: sqlDB}, nil
}

// DB returns a gorm session bound to ctx.
func (c *Conn) DB(ctx context.Context) *gorm.DB {
	return c.db.WithContext(ctx)
}

// Ping verifies the handle with a round-trip.
func (c *Conn) Ping(ctx context.Context) error {
	if err := c.sqlDB.PingContext(ctx); err != nil {
		return fmt.Errorf("database ping failed: %w", err)
	}
	if err := c.db.WithContext(ctx).Exec("SELECT 1").Error; err != nil {
		return fmt.Errorf("database probe query failed: %w", err)
	}
	return nil
}

func (c *Conn) Close() error {
	return c.sqlDB.Close()
}

// Dialer opens new Conns for the pool.
type Dialer struct {
	cfg Config
}

func NewDialer(cfg Config) *Dialer {
	return &Dialer{cfg: cfg}
}

func (d *Dialer) dialector() (gorm.Dialector, error) {
	switch d.cfg.Type {
	case TypeMariaDB:
		return mariadb.Dialector(*d.cfg.MariaDB), nil
	case TypePostgres:
		return postgres.Dialector(*d.cfg.Postgres), nil
	default:
		return nil, fmt.Errorf("unsupported database type: %q", d.cfg.Type)
	}
}

// Dial opens a new single-connection handle. gorm pings on open.
func (d *Dialer) Dial(ctx context.Context) (*Conn, error) {
	dialector, err := d.dialector()
	if err != nil {
		return nil, err
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		TranslateError:         true,
		SkipDefaultTransaction: true,
		Logger:                 gormlogger.Discard,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to %s database: %w", d.cfg.Type, err)
	}

	conn, err := NewConn(db)
	if err != nil {
		return nil, err
	}

	conn.sqlDB.SetMaxOpenConns(1)
	conn.sqlDB.SetMaxIdleConns(1)
	if d.cfg.ConnMaxLifetime > 0 {
		conn.sqlDB.SetConnMaxLifetime(d.cfg.ConnMaxLifetime)
	}
	return conn, nil
}

package postgres

import (
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
)

func TestDSNDefaultsSSLMode(t *testing.T) {
	cfg := Config{Connection: Connection{Host: "pg", Port: "5432", User: "u", Password: "p", DbName: "d"}}
	assert.Equal(t, "host=pg port=5432 user=u password=p dbname=d sslmode=disable", DSN(cfg))
	assert.NoError(t, cfg.Validate())

	cfg.Connection.Port = ""
	assert.Error(t, cfg.Validate())
}

func TestErrorClassification(t *testing.T) {
	dup := fmt.Errorf("insert: %w", &pgconn.PgError{Code: "23505"})
	col := &pgconn.PgError{Code: "42701"}

	assert.True(t, IsDuplicateKey(dup))
	assert.False(t, IsDuplicateKey(col))
	assert.True(t, IsDuplicateColumn(col))
	assert.False(t, IsDuplicateColumn(nil))
}

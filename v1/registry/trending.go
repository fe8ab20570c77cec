package registry

import (
	"context"
	"errors"
	"fmt"

	"github.com/Aleph-Alpha/vectorshard/v1/database"
	"github.com/Aleph-Alpha/vectorshard/v1/logger"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// TrendingColumns adds one counter column per document to the trending table.
type TrendingColumns struct {
	pool   ConnPool
	table  string
	logger logger.Logger
}

// NewTrendingColumns validates table against the identifier allow-list.
func NewTrendingColumns(p ConnPool, table string, log logger.Logger) (*TrendingColumns, error) {
	if table == "" {
		table = DefaultTrendingTable
	}
	if !ValidIdentifier(table) {
		return nil, fmt.Errorf("%w: table %q", ErrInvalidIdentifier, table)
	}
	return &TrendingColumns{pool: p, table: table, logger: log}, nil
}

// Ensure adds column as INT NOT NULL DEFAULT 0. The name is checked against
// the allow-list before it reaches SQL; an existing column yields ErrColumnExists.
func (t *TrendingColumns) Ensure(ctx context.Context, column string) error {
	if !ValidIdentifier(column) {
		return fmt.Errorf("%w: column %q", ErrInvalidIdentifier, column)
	}

	_, err := withConn(ctx, t.pool, func(db *gorm.DB) (struct{}, error) {
		return struct{}{}, db.Exec("ALTER TABLE ? ADD COLUMN ? INT NOT NULL DEFAULT 0",
			clause.Table{Name: t.table}, clause.Column{Name: column}).Error
	})
	switch {
	case err == nil:
		t.logger.InfoWithContext(ctx, "added trending column", nil, map[string]interface{}{
			"table":  t.table,
			"column": column,
		})
		return nil
	case errors.Is(database.TranslateError(err), database.ErrDuplicateColumn):
		return fmt.Errorf("%w: %s.%s", ErrColumnExists, t.table, column)
	default:
		return datastoreError("add trending column", err)
	}
}

package registry

import (
	"context"
	"fmt"
	"regexp"

	"github.com/Aleph-Alpha/vectorshard/v1/database"
	"github.com/Aleph-Alpha/vectorshard/v1/pool"
	"gorm.io/gorm"
)

// ConnPool is the part of the connection pool the registry needs.
type ConnPool interface {
	Acquire(ctx context.Context) (*database.Conn, error)
	Release(conn *database.Conn, cause error)
}

// withConn runs fn on a pooled handle and always releases it, passing fn's
// error so broken handles are dropped.
func withConn[T any](ctx context.Context, p ConnPool, fn func(db *gorm.DB) (T, error)) (T, error) {
	var zero T

	conn, err := p.Acquire(ctx)
	if err != nil {
		return zero, err
	}
	res, err := fn(conn.DB(ctx))
	p.Release(conn, err)
	return res, err
}

// datastoreError classifies err for callers: pool exhaustion passes through,
// everything else is wrapped with ErrDatastore.
func datastoreError(op string, err error) error {
	if pool.IsUnavailable(err) {
		return fmt.Errorf("%s: %w", op, err)
	}
	return fmt.Errorf("%w: %s: %w", ErrDatastore, op, err)
}

var identifierPattern = regexp.MustCompile(`^[A-Za-z0-9_]+$`)

// ValidIdentifier reports whether s may be spliced into a schema statement.
func ValidIdentifier(s string) bool {
	return identifierPattern.MatchString(s)
}

package postgres

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

// SQLSTATE codes the registry cares about.
const (
	uniqueViolation = "23505"
	duplicateColumn = "42701"
)

func sqlState(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code
	}
	return ""
}

// IsDuplicateKey reports a unique or primary key violation.
func IsDuplicateKey(err error) bool {
	return sqlState(err) == uniqueViolation
}

// IsDuplicateColumn reports an ALTER TABLE ... ADD COLUMN for a column that exists.
func IsDuplicateColumn(err error) bool {
	return sqlState(err) == duplicateColumn
}

// IsBadConnection reports errors raised before the statement reached the server,
// which pgconn marks safe to retry on a fresh connection.
func IsBadConnection(err error) bool {
	return pgconn.SafeToRetry(err)
}

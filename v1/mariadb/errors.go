package mariadb

import (
	"errors"

	"github.com/go-sql-driver/mysql"
)

// Server error numbers the registry cares about.
const (
	errDupFieldName = 1060
	errDupEntry     = 1062
)

func errorNumber(err error) (uint16, bool) {
	var myErr *mysql.MySQLError
	if errors.As(err, &myErr) {
		return myErr.Number, true
	}
	return 0, false
}

// IsDuplicateKey reports a unique or primary key violation.
func IsDuplicateKey(err error) bool {
	n, ok := errorNumber(err)
	return ok && n == errDupEntry
}

// IsDuplicateColumn reports an ALTER TABLE ... ADD COLUMN for a column that exists.
func IsDuplicateColumn(err error) bool {
	n, ok := errorNumber(err)
	return ok && n == errDupFieldName
}

// IsBadConnection reports driver errors after which the connection must not be reused.
func IsBadConnection(err error) bool {
	return errors.Is(err, mysql.ErrInvalidConn)
}

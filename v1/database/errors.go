package database

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"io"
	"net"

	"github.com/Aleph-Alpha/vectorshard/v1/mariadb"
	"github.com/Aleph-Alpha/vectorshard/v1/postgres"
	"gorm.io/gorm"
)

var (
	ErrRecordNotFound  = errors.New("record not found")
	ErrDuplicateKey    = errors.New("duplicate key violation")
	ErrDuplicateColumn = errors.New("duplicate column")
)

// TranslateError maps gorm and driver errors of either dialect onto the
// package sentinels, keeping the driver error in the chain.
func TranslateError(err error) error {
	if err == nil {
		return nil
	}

	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return errors.Join(ErrRecordNotFound, err)
	case errors.Is(err, gorm.ErrDuplicatedKey), mariadb.IsDuplicateKey(err), postgres.IsDuplicateKey(err):
		return errors.Join(ErrDuplicateKey, err)
	case mariadb.IsDuplicateColumn(err), postgres.IsDuplicateColumn(err):
		return errors.Join(ErrDuplicateColumn, err)
	}
	return err
}

// IsBadConnection reports whether the handle that produced err must be
// disposed rather than returned to the pool.
func IsBadConnection(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, driver.ErrBadConn) || errors.Is(err, sql.ErrConnDone) ||
		errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		return true
	}
	// a context deadline in the middle of a statement leaves the session in
	// an unknown state
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}
	return mariadb.IsBadConnection(err) || postgres.IsBadConnection(err)
}

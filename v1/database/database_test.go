package database

import (
	"context"
	"database/sql/driver"
	"errors"
	"fmt"
	"testing"

	"github.com/Aleph-Alpha/vectorshard/v1/mariadb"
	"github.com/Aleph-Alpha/vectorshard/v1/postgres"
	"github.com/DATA-DOG/go-sqlmock"
	mysqldriver "github.com/go-sql-driver/mysql"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

func newMockConn(t *testing.T) (*Conn, sqlmock.Sqlmock) {
	t.Helper()
	sqlDB, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	require.NoError(t, err)

	db, err := gorm.Open(mysql.New(mysql.Config{Conn: sqlDB, SkipInitializeWithVersion: true}), &gorm.Config{
		TranslateError:         true,
		SkipDefaultTransaction: true,
		DisableAutomaticPing:   true,
	})
	require.NoError(t, err)

	conn, err := NewConn(db)
	require.NoError(t, err)
	return conn, mock
}

func TestConnPing(t *testing.T) {
	conn, mock := newMockConn(t)

	mock.ExpectPing()
	mock.ExpectExec("SELECT 1").WillReturnResult(sqlmock.NewResult(0, 0))
	require.NoError(t, conn.Ping(context.Background()))

	mock.ExpectPing()
	mock.ExpectExec("SELECT 1").WillReturnError(errors.New("server has gone away"))
	err := conn.Ping(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "probe query failed")

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTranslateError(t *testing.T) {
	assert.NoError(t, TranslateError(nil))
	assert.ErrorIs(t, TranslateError(gorm.ErrDuplicatedKey), ErrDuplicateKey)
	assert.ErrorIs(t, TranslateError(&mysqldriver.MySQLError{Number: 1062}), ErrDuplicateKey)
	assert.ErrorIs(t, TranslateError(&pgconn.PgError{Code: "23505"}), ErrDuplicateKey)
	assert.ErrorIs(t, TranslateError(&mysqldriver.MySQLError{Number: 1060}), ErrDuplicateColumn)
	assert.ErrorIs(t, TranslateError(&pgconn.PgError{Code: "42701"}), ErrDuplicateColumn)
	assert.ErrorIs(t, TranslateError(fmt.Errorf("find: %w", gorm.ErrRecordNotFound)), ErrRecordNotFound)

	other := errors.New("syntax error")
	assert.Same(t, other, TranslateError(other))
}

func TestIsBadConnection(t *testing.T) {
	assert.False(t, IsBadConnection(nil))
	assert.True(t, IsBadConnection(fmt.Errorf("exec: %w", driver.ErrBadConn)))
	assert.True(t, IsBadConnection(mysqldriver.ErrInvalidConn))
	assert.True(t, IsBadConnection(context.DeadlineExceeded))
	assert.False(t, IsBadConnection(&mysqldriver.MySQLError{Number: 1062}))
}

func TestConfigValidate(t *testing.T) {
	maria := mariadb.Config{Connection: mariadb.Connection{Host: "h", Port: "3306", User: "u", DbName: "d"}}
	cfg := MariaDBConfig(maria)
	require.NoError(t, cfg.Validate())
	assert.Equal(t, "h:3306", cfg.address())

	pg := PostgresConfig(postgres.Config{Connection: postgres.Connection{Host: "p", Port: "5432", User: "u", DbName: "d"}})
	require.NoError(t, pg.Validate())
	assert.Equal(t, "p:5432", pg.address())

	assert.Error(t, Config{Type: "sqlite"}.Validate())
	assert.Error(t, Config{Type: TypeMariaDB}.Validate())
	assert.Error(t, Config{Type: TypePostgres}.Validate())
}

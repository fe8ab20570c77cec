// Package postgres builds gorm connections (pgx underneath) to PostgreSQL
// for the registry datastore. IsDuplicateKey and IsDuplicateColumn match
// SQLSTATE 23505 and 42701.
package postgres

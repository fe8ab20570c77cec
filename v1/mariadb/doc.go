// Package mariadb builds gorm connections to MariaDB or MySQL for the
// registry datastore and classifies the server errors the registry reacts
// to (duplicate key 1062, duplicate column 1060, dead connections).
//
// DSN defaults to utf8mb4 and local time; TLS and timeouts are appended
// only when configured.
package mariadb

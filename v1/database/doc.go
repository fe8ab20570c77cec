// Package database opens registry datastore handles for MariaDB/MySQL or
// PostgreSQL through gorm and pools them with package pool.
//
// Each pooled *Conn owns a single server connection, so a handle checked out
// of the pool is never shared between two statements running concurrently:
//
//	p := database.NewPool(cfg, log, nil)
//	conn, err := p.Acquire(ctx)
//	if err != nil {
//		return err // wraps pool.ErrUnavailable
//	}
//	err = conn.DB(ctx).Exec("SELECT 1").Error
//	p.Release(conn, err)
//
// TranslateError normalizes duplicate-key and duplicate-column errors of both
// dialects; IsBadConnection tells the pool when a handle must be discarded.
package database

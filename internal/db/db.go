// Package db owns the inventory's PostgreSQL handle: the connection pool,
// the embedded schema migrations and the transaction helpers used by the
// registry and the loan ledger.
package db

import (
	"context"
	"database/sql"
	"time"

	"github.com/cockroachdb/errors"
	_ "github.com/lib/pq"
)

// Pool sizes the connection pool. Zero values keep database/sql defaults.
// Every checkout and return holds a connection for one short transaction,
// so MaxOpen bounds how many loans can be in flight at once.
type Pool struct {
	MaxOpen     int
	MaxIdle     int
	MaxLifetime time.Duration
}

// Connect opens the inventory database at databaseURL (a postgres:// URL, see
// config.DatabaseURL) and waits for it to answer a ping.
func Connect(ctx context.Context, databaseURL string, pool Pool) (*sql.DB, error) {
	conn, err := sql.Open("postgres", databaseURL)
	if err != nil {
		return nil, errors.Wrap(err, "open inventory database")
	}
	if pool.MaxOpen > 0 {
		conn.SetMaxOpenConns(pool.MaxOpen)
	}
	if pool.MaxIdle > 0 {
		conn.SetMaxIdleConns(pool.MaxIdle)
	}
	if pool.MaxLifetime > 0 {
		conn.SetConnMaxLifetime(pool.MaxLifetime)
	}

	if err := conn.PingContext(ctx); err != nil {
		conn.Close()
		return nil, errors.Wrap(err, "ping inventory database")
	}
	return conn, nil
}

package store

import (
	"context"
	"database/sql"
	"time"
)

// GET_LOCK is held by the session, so both calls must go through the same
// *sql.Conn.

func getLock(ctx context.Context, conn *sql.Conn, key string, timeout time.Duration) (bool, error) {
	var res sql.NullInt64
	if err := conn.QueryRowContext(ctx, "SELECT GET_LOCK(?, ?)", key, int(timeout.Seconds())).Scan(&res); err != nil {
		return false, err
	}
	return res.Valid && res.Int64 == 1, nil
}

func releaseLock(ctx context.Context, conn *sql.Conn, key string) error {
	_, err := conn.ExecContext(ctx, "SELECT RELEASE_LOCK(?)", key)
	return err
}

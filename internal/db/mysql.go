// Package db opens the MySQL connection used to load cleaned batches and
// inspects the target schema.
package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/go-sql-driver/mysql"

	"pdclean/internal/config"
)

// DSN builds the driver connection string for cfg. Sessions run in UTC.
func DSN(cfg *config.Config) (string, error) {
	mc := mysql.NewConfig()
	mc.User = cfg.MySQLUser
	mc.Passwd = cfg.MySQLPassword
	mc.Net = "tcp"
	mc.Addr = fmt.Sprintf("%s:%d", cfg.MySQLHost, cfg.MySQLPort)
	mc.DBName = cfg.MySQLDB
	mc.ParseTime = true
	mc.Loc = time.UTC
	mc.Timeout = cfg.ConnectTimeout
	mc.ReadTimeout = cfg.QueryTimeout
	mc.WriteTimeout = cfg.QueryTimeout
	mc.Params = map[string]string{"time_zone": "'+00:00'"}
	if err := mc.Apply(mysql.Charset("utf8mb4", "utf8mb4_unicode_ci")); err != nil {
		return "", err
	}
	return mc.FormatDSN(), nil
}

func Open(cfg *config.Config) (*sql.DB, error) {
	dsn, err := DSN(cfg)
	if err != nil {
		return nil, err
	}
	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, err
	}

	db.SetMaxOpenConns(20)
	db.SetMaxIdleConns(10)
	db.SetConnMaxLifetime(2 * time.Hour)

	ctx, cancel := context.WithTimeout(context.Background(), cfg.QueryTimeout)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

// CurrentSchema returns the database selected on the connection.
func CurrentSchema(ctx context.Context, conn *sql.DB) (string, error) {
	var s sql.NullString
	if err := conn.QueryRowContext(ctx, "SELECT DATABASE()").Scan(&s); err != nil {
		return "", err
	}
	if !s.Valid || s.String == "" {
		return "", errors.New("no database selected")
	}
	return s.String, nil
}

// TableColumns lists the columns of schema.table in ordinal order. A missing
// table yields an empty slice.
func TableColumns(ctx context.Context, conn *sql.DB, schema, table string) ([]string, error) {
	const q = `
		SELECT COLUMN_NAME
		FROM information_schema.columns
		WHERE table_schema = ? AND table_name = ?
		ORDER BY ORDINAL_POSITION
	`
	rows, err := conn.QueryContext(ctx, q, schema, table)
	if err != nil {
		return nil, fmt.Errorf("column list query failed: %w", err)
	}
	defer rows.Close()

	var cols []string
	for rows.Next() {
		var c string
		if err := rows.Scan(&c); err != nil {
			return nil, fmt.Errorf("scan column failed: %w", err)
		}
		cols = append(cols, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows err: %w", err)
	}
	return cols, nil
}

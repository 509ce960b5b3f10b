// Package store loads a cleaned batch into an existing MySQL table.
//
// A load is all-or-nothing: it holds a named lock for the table, checks that
// every batch column exists in the target, and inserts in chunks inside one
// transaction.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"pdclean/internal/db"
	"pdclean/internal/table"
)

var (
	ErrNoTable        = errors.New("store: target table not found")
	ErrMissingColumns = errors.New("store: target table lacks columns")
	ErrLocked         = errors.New("store: table is locked by another load")
)

type Options struct {
	Table       string
	Chunk       int
	LockTimeout time.Duration
	// Replace deletes existing rows in the same transaction before inserting.
	Replace bool
}

// Execer is satisfied by *sql.DB, *sql.Conn and *sql.Tx.
type Execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// Load writes b into opt.Table and returns the number of rows inserted.
func Load(ctx context.Context, pool *sql.DB, b *table.Batch, opt Options) (int, error) {
	if opt.Table == "" {
		return 0, errors.New("store: no target table")
	}
	schema, err := db.CurrentSchema(ctx, pool)
	if err != nil {
		return 0, fmt.Errorf("store: %w", err)
	}
	have, err := db.TableColumns(ctx, pool, schema, opt.Table)
	if err != nil {
		return 0, fmt.Errorf("store: %w", err)
	}
	if err := CheckColumns(opt.Table, have, b.Names()); err != nil {
		return 0, err
	}

	conn, err := pool.Conn(ctx)
	if err != nil {
		return 0, fmt.Errorf("store: %w", err)
	}
	defer conn.Close()

	key := "pdclean:" + schema + "." + opt.Table
	ok, err := getLock(ctx, conn, key, opt.LockTimeout)
	if err != nil {
		return 0, fmt.Errorf("store: lock: %w", err)
	}
	if !ok {
		return 0, fmt.Errorf("%w: %s", ErrLocked, opt.Table)
	}
	defer func() {
		// release even when ctx is already done
		_ = releaseLock(context.Background(), conn, key)
	}()

	tx, err := conn.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("store: begin: %w", err)
	}
	if opt.Replace {
		if _, err := tx.ExecContext(ctx, "DELETE FROM "+quoteIdent(opt.Table)); err != nil {
			tx.Rollback()
			return 0, fmt.Errorf("store: clear %s: %w", opt.Table, err)
		}
	}
	n, err := Insert(ctx, tx, opt.Table, b, opt.Chunk)
	if err != nil {
		tx.Rollback()
		return 0, err
	}
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("store: commit: %w", err)
	}
	return n, nil
}

// CheckColumns reports batch columns absent from the target's column list.
func CheckColumns(tbl string, have, want []string) error {
	if len(have) == 0 {
		return fmt.Errorf("%w: %s", ErrNoTable, tbl)
	}
	set := make(map[string]bool, len(have))
	for _, c := range have {
		set[strings.ToLower(c)] = true
	}
	var missing []string
	for _, c := range want {
		if !set[strings.ToLower(c)] {
			missing = append(missing, c)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: %s: %s", ErrMissingColumns, tbl, strings.Join(missing, ", "))
	}
	return nil
}

// Insert writes b in multi-row INSERT statements of at most chunk rows.
func Insert(ctx context.Context, ex Execer, tbl string, b *table.Batch, chunk int) (int, error) {
	if b.Rows() == 0 || len(b.Names()) == 0 {
		return 0, nil
	}
	if chunk <= 0 {
		chunk = 2000
	}
	cols := b.Names()
	for i := 0; i < b.Rows(); i += chunk {
		j := min(i+chunk, b.Rows())
		query := InsertQuery(tbl, cols, j-i)
		if _, err := ex.ExecContext(ctx, query, Args(b, i, j)...); err != nil {
			return i, fmt.Errorf("store: insert rows %d-%d: %w", i+1, j, err)
		}
	}
	return b.Rows(), nil
}

// InsertQuery builds "INSERT INTO `t` (`a`,`b`) VALUES (?,?),(?,?)".
func InsertQuery(tbl string, cols []string, rows int) string {
	quoted := make([]string, len(cols))
	for i, c := range cols {
		quoted[i] = quoteIdent(c)
	}
	pl := "(" + strings.TrimRight(strings.Repeat("?,", len(cols)), ",") + ")"
	valPlace := strings.TrimRight(strings.Repeat(pl+",", rows), ",")
	return fmt.Sprintf("INSERT INTO %s (%s) VALUES %s", quoteIdent(tbl), strings.Join(quoted, ","), valPlace)
}

// Args flattens rows [from, to) into driver arguments: null as NULL, integral
// numbers as int64.
func Args(b *table.Batch, from, to int) []any {
	cols := b.Columns()
	args := make([]any, 0, (to-from)*len(cols))
	for i := from; i < to; i++ {
		for _, c := range cols {
			args = append(args, driverValue(c.Values[i]))
		}
	}
	return args
}

func driverValue(v table.Value) any {
	switch v.Kind() {
	case table.Null:
		return nil
	case table.Number:
		if n, ok := v.Int(); ok {
			return n
		}
		return v.Float()
	case table.Bool:
		return v.Bool()
	default:
		return v.String()
	}
}

func quoteIdent(s string) string {
	return "`" + strings.ReplaceAll(s, "`", "``") + "`"
}

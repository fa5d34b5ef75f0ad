package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/rezkam/newsdesk/internal/application/auth"
	"github.com/rezkam/newsdesk/internal/application/content"
)

// Store provides a database/sql implementation of the repository interfaces.
//
// This store implements:
// - application/content.Repository (items and faceted listing)
// - application/auth.Repository (API key operations)
//
// The same queries run against PostgreSQL (pgx stdlib driver) and SQLite
// (modernc driver). Queries are written with "?" placeholders and rebound
// for the active dialect.
type Store struct {
	db      *sql.DB
	dialect dialect
}

// Compile-time verification that Store implements all repository interfaces.
var (
	_ content.Repository = (*Store)(nil)
	_ auth.Repository    = (*Store)(nil)
)

// NewStore wraps an already opened database. Migrations are not run.
func NewStore(db *sql.DB, driver Driver) *Store {
	return &Store{db: db, dialect: dialectFor(driver)}
}

// DB returns the underlying database handle.
func (s *Store) DB() *sql.DB {
	return s.db
}

// Close closes the database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

type dialect struct {
	driver Driver
}

func dialectFor(driver Driver) dialect {
	return dialect{driver: driver}
}

// rebind rewrites "?" placeholders into "$n" for PostgreSQL.
func (d dialect) rebind(query string) string {
	if d.driver != DriverPostgres {
		return query
	}
	var b strings.Builder
	b.Grow(len(query) + 8)
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// readTxOptions returns the options for consistent multi-statement reads.
// SQLite transactions are already serializable.
func (d dialect) readTxOptions() *sql.TxOptions {
	if d.driver != DriverPostgres {
		return nil
	}
	return &sql.TxOptions{Isolation: sql.LevelRepeatableRead, ReadOnly: true}
}

// finalizeTx rolls back on error and commits on success.
func finalizeTx(ctx context.Context, tx *sql.Tx, err *error) {
	if *err != nil {
		if rbErr := tx.Rollback(); rbErr != nil && !errors.Is(rbErr, sql.ErrTxDone) {
			slog.ErrorContext(ctx, "rollback failed",
				"original_error", *err,
				"rollback_error", rbErr)
			*err = fmt.Errorf("transaction failed: %w (rollback error: %v)", *err, rbErr)
		}
		return
	}
	if *err = tx.Commit(); *err != nil {
		slog.ErrorContext(ctx, "transaction commit failed", "error", *err)
	}
}

// inReadTx runs fn inside a read transaction.
func (s *Store) inReadTx(ctx context.Context, operation string, fn func(tx *sql.Tx) error) (err error) {
	start := time.Now()

	tx, err := s.db.BeginTx(ctx, s.dialect.readTxOptions())
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
		finalizeTx(ctx, tx, &err)
		if err == nil {
			slog.DebugContext(ctx, "transaction completed",
				"operation", operation,
				"duration_ms", time.Since(start).Milliseconds())
		}
	}()

	return fn(tx)
}

// sqliteTimeLayout is fixed width so that text comparison orders timestamps.
const sqliteTimeLayout = "2006-01-02 15:04:05.000000-07:00"

// dbTime normalizes timestamps to the precision both dialects store.
func dbTime(t time.Time) time.Time {
	return t.UTC().Truncate(time.Microsecond)
}

// timeArg converts a timestamp into a query argument for the dialect.
func (d dialect) timeArg(t time.Time) any {
	if d.driver == DriverSQLite {
		return dbTime(t).Format(sqliteTimeLayout)
	}
	return dbTime(t)
}

func (d dialect) nullTimeArg(t *time.Time) any {
	if t == nil {
		return nil
	}
	return d.timeArg(*t)
}

func timePtr(t sql.NullTime) *time.Time {
	if !t.Valid {
		return nil
	}
	v := t.Time.UTC()
	return &v
}

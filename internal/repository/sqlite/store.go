// Package sqlite implements the user and todo stores over an embedded SQLite database.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/checkmark/checkmark/internal/migrations"
	msqlite "modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

// Store implements user and todo persistence over SQLite.
//
// The pool is limited to one connection, so every statement inside a
// transaction must go through that transaction.
type Store struct {
	db *sql.DB
}

// toMicros normalizes timestamps into microsecond precision for storage.
func toMicros(t time.Time) int64 {
	return t.UTC().UnixMicro()
}

// fromMicros restores a stored timestamp as UTC.
func fromMicros(v int64) time.Time {
	return time.UnixMicro(v).UTC()
}

// DSN turns a sqlite://<path> or file:<path> URL into a driver DSN with
// foreign keys and a busy timeout enabled.
func DSN(databaseURL string) (string, error) {
	path := strings.TrimPrefix(databaseURL, "sqlite://")
	if strings.TrimSpace(path) == "" {
		return "", errors.New("sqlite path is required")
	}

	sep := "?"
	if strings.Contains(path, "?") {
		sep = "&"
	}
	return path + sep + "_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)", nil
}

// Open opens the SQLite database named by databaseURL.
// Migrations are applied separately with Migrate.
func Open(ctx context.Context, databaseURL string) (*Store, error) {
	dsn, err := DSN(databaseURL)
	if err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}

	return &Store{db: db}, nil
}

// Migrate applies pending schema migrations.
func (s *Store) Migrate(ctx context.Context) error {
	return migrations.Up(ctx, s.db, migrations.SQLite)
}

// DB returns the raw database handle.
func (s *Store) DB() *sql.DB {
	return s.db
}

// Ping checks database connectivity.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Close releases the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

func isUniqueViolation(err error) bool {
	var sqliteErr *msqlite.Error
	if errors.As(err, &sqliteErr) {
		return sqliteErr.Code() == sqlite3.SQLITE_CONSTRAINT_UNIQUE
	}
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}

func nullString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

func stringPtr(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	v := ns.String
	return &v
}

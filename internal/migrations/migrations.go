// Package migrations holds the embedded schema migrations for each supported database.
package migrations

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"io/fs"

	_ "github.com/lib/pq"
	"github.com/pressly/goose/v3"
)

//go:embed postgres/*.sql sqlite/*.sql
var files embed.FS

// Supported dialects.
const (
	Postgres = goose.DialectPostgres
	SQLite   = goose.DialectSQLite3
)

// NewProvider returns a goose provider over the migrations for dialect.
func NewProvider(db *sql.DB, dialect goose.Dialect) (*goose.Provider, error) {
	var dir string
	switch dialect {
	case Postgres:
		dir = "postgres"
	case SQLite:
		dir = "sqlite"
	default:
		return nil, fmt.Errorf("unsupported migration dialect %q", dialect)
	}

	sub, err := fs.Sub(files, dir)
	if err != nil {
		return nil, fmt.Errorf("open %s migrations: %w", dir, err)
	}

	provider, err := goose.NewProvider(dialect, db, sub)
	if err != nil {
		return nil, fmt.Errorf("create migration provider: %w", err)
	}
	return provider, nil
}

// Up applies all pending migrations.
func Up(ctx context.Context, db *sql.DB, dialect goose.Dialect) error {
	provider, err := NewProvider(db, dialect)
	if err != nil {
		return err
	}
	if _, err := provider.Up(ctx); err != nil {
		return fmt.Errorf("apply migrations: %w", err)
	}
	return nil
}

// Reset rolls back every migration and applies them again.
// Only intended for tests and local development.
func Reset(ctx context.Context, db *sql.DB, dialect goose.Dialect) error {
	provider, err := NewProvider(db, dialect)
	if err != nil {
		return err
	}
	if _, err := provider.DownTo(ctx, 0); err != nil {
		return fmt.Errorf("roll back migrations: %w", err)
	}
	if _, err := provider.Up(ctx); err != nil {
		return fmt.Errorf("apply migrations: %w", err)
	}
	return nil
}

// OpenPostgres opens a database/sql handle for running migrations against PostgreSQL.
func OpenPostgres(ctx context.Context, databaseURL string) (*sql.DB, error) {
	db, err := sql.Open("postgres", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	return db, nil
}

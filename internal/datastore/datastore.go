// Package datastore opens the backend selected by DATABASE_URL.
package datastore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/pressly/goose/v3"

	"github.com/checkmark/checkmark/internal/config"
	"github.com/checkmark/checkmark/internal/migrations"
	"github.com/checkmark/checkmark/internal/repository"
	"github.com/checkmark/checkmark/internal/repository/sqlite"
	"github.com/checkmark/checkmark/internal/service"
)

// Store is implemented by both the PostgreSQL repository and the SQLite store.
type Store interface {
	service.UserStore
	service.TodoStore
	Ping(ctx context.Context) error
}

// Options tune the connection pool and startup migrations.
type Options struct {
	MaxConns int32
	MinConns int32
	Migrate  bool
}

// Handle is an open datastore.
type Handle struct {
	Store
	Driver string
	close  func() error
}

// Close releases the underlying pool or database file.
func (h *Handle) Close() error {
	return h.close()
}

// Open connects to databaseURL and, when opts.Migrate is set, applies
// pending migrations before returning.
func Open(ctx context.Context, databaseURL string, opts Options) (*Handle, error) {
	driver, err := config.DatabaseDriver(databaseURL)
	if err != nil {
		return nil, err
	}

	switch driver {
	case config.DriverPostgres:
		if opts.Migrate {
			if err := migratePostgres(ctx, databaseURL); err != nil {
				return nil, err
			}
		}
		repo, err := repository.New(ctx, databaseURL, opts.MaxConns, opts.MinConns)
		if err != nil {
			return nil, err
		}
		return &Handle{
			Store:  repo,
			Driver: driver,
			close: func() error {
				repo.Close()
				return nil
			},
		}, nil

	default:
		store, err := sqlite.Open(ctx, databaseURL)
		if err != nil {
			return nil, err
		}
		if opts.Migrate {
			if err := store.Migrate(ctx); err != nil {
				return nil, errors.Join(err, store.Close())
			}
		}
		return &Handle{
			Store:  store,
			Driver: driver,
			close:  store.Close,
		}, nil
	}
}

// OpenSQL opens a database/sql handle and the matching goose dialect for
// running migrations against databaseURL.
func OpenSQL(ctx context.Context, databaseURL string) (*sql.DB, goose.Dialect, error) {
	driver, err := config.DatabaseDriver(databaseURL)
	if err != nil {
		return nil, "", err
	}

	if driver == config.DriverPostgres {
		db, err := migrations.OpenPostgres(ctx, databaseURL)
		if err != nil {
			return nil, "", err
		}
		return db, migrations.Postgres, nil
	}

	store, err := sqlite.Open(ctx, databaseURL)
	if err != nil {
		return nil, "", err
	}
	return store.DB(), migrations.SQLite, nil
}

func migratePostgres(ctx context.Context, databaseURL string) error {
	db, err := migrations.OpenPostgres(ctx, databaseURL)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := migrations.Up(ctx, db, migrations.Postgres); err != nil {
		return fmt.Errorf("migrate postgres: %w", err)
	}
	return nil
}

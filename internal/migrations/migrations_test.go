package migrations

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/pressly/goose/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"
)

func openSQLite(t *testing.T) *sql.DB {
	t.Helper()
	path := filepath.Join(t.TempDir(), "migrations.db")
	db, err := sql.Open("sqlite", "file:"+path+"?_pragma=foreign_keys(1)")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })
	return db
}

func tableExists(t *testing.T, db *sql.DB, name string) bool {
	t.Helper()
	var n int
	err := db.QueryRow(`SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name = ?`, name).Scan(&n)
	require.NoError(t, err)
	return n == 1
}

func TestUp_SQLite(t *testing.T) {
	ctx := context.Background()
	db := openSQLite(t)

	require.NoError(t, Up(ctx, db, SQLite))
	assert.True(t, tableExists(t, db, "users"))
	assert.True(t, tableExists(t, db, "todos"))

	// Applying again is a no-op.
	require.NoError(t, Up(ctx, db, SQLite))

	provider, err := NewProvider(db, SQLite)
	require.NoError(t, err)
	version, err := provider.GetDBVersion(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), version)
}

func TestReset_SQLite(t *testing.T) {
	ctx := context.Background()
	db := openSQLite(t)

	require.NoError(t, Up(ctx, db, SQLite))
	_, err := db.Exec(`INSERT INTO users (id, email, password_hash, created_at, updated_at) VALUES ('u1', 'a@x.com', 'h', 0, 0)`)
	require.NoError(t, err)

	require.NoError(t, Reset(ctx, db, SQLite))

	var n int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM users`).Scan(&n))
	assert.Zero(t, n)
}

func TestSQLiteSchema_Constraints(t *testing.T) {
	ctx := context.Background()
	db := openSQLite(t)
	require.NoError(t, Up(ctx, db, SQLite))

	_, err := db.Exec(`INSERT INTO users (id, email, password_hash, created_at, updated_at) VALUES ('u1', 'a@x.com', 'h', 0, 0)`)
	require.NoError(t, err)

	_, err = db.Exec(`INSERT INTO users (id, email, password_hash, created_at, updated_at) VALUES ('u2', 'a@x.com', 'h', 0, 0)`)
	assert.Error(t, err, "duplicate email must be rejected")

	_, err = db.Exec(`INSERT INTO todos (title, user_id, created_at, updated_at) VALUES ('t', 'nobody', 0, 0)`)
	assert.Error(t, err, "todo owner must exist")

	_, err = db.Exec(`INSERT INTO todos (title, user_id, created_at, updated_at) VALUES ('', 'u1', 0, 0)`)
	assert.Error(t, err, "empty title must be rejected")

	_, err = db.Exec(`INSERT INTO todos (title, user_id, created_at, updated_at) VALUES ('t', 'u1', 0, 0)`)
	require.NoError(t, err)
}

func TestNewProvider_UnsupportedDialect(t *testing.T) {
	db := openSQLite(t)
	_, err := NewProvider(db, goose.DialectMySQL)
	assert.Error(t, err)
}

package main

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/checkmark/checkmark/internal/datastore"
	"github.com/checkmark/checkmark/internal/migrations"
)

func TestRunCommand_SQLite(t *testing.T) {
	ctx := context.Background()

	db, dialect, err := datastore.OpenSQL(ctx, "sqlite://"+filepath.Join(t.TempDir(), "migrate.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	provider, err := migrations.NewProvider(db, dialect)
	require.NoError(t, err)

	var out bytes.Buffer
	require.NoError(t, runCommand(ctx, provider, "up", &out))
	assert.Contains(t, out.String(), "00001_users.sql")
	assert.Contains(t, out.String(), "00002_todos.sql")

	out.Reset()
	require.NoError(t, runCommand(ctx, provider, "up", &out))
	assert.Contains(t, out.String(), "no pending migrations")

	out.Reset()
	require.NoError(t, runCommand(ctx, provider, "version", &out))
	assert.Equal(t, "2", strings.TrimSpace(out.String()))

	out.Reset()
	require.NoError(t, runCommand(ctx, provider, "down", &out))
	assert.Contains(t, out.String(), "00002_todos.sql")

	out.Reset()
	require.NoError(t, runCommand(ctx, provider, "status", &out))
	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[0], "applied")
	assert.Contains(t, lines[1], "pending")

	out.Reset()
	require.NoError(t, runCommand(ctx, provider, "reset", &out))
	out.Reset()
	require.NoError(t, runCommand(ctx, provider, "version", &out))
	assert.Equal(t, "2", strings.TrimSpace(out.String()))
}

func TestRunCommand_Unknown(t *testing.T) {
	ctx := context.Background()

	db, dialect, err := datastore.OpenSQL(ctx, "sqlite://"+filepath.Join(t.TempDir(), "unknown.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	provider, err := migrations.NewProvider(db, dialect)
	require.NoError(t, err)

	err = runCommand(ctx, provider, "sideways", &bytes.Buffer{})
	assert.ErrorContains(t, err, "unknown command")
}

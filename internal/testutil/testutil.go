// Package testutil holds helpers shared by package tests.
package testutil

import (
	"context"
	"fmt"
	"os"
	"sync/atomic"
	"testing"
	"time"

	"github.com/checkmark/checkmark/internal/migrations"
	"github.com/checkmark/checkmark/internal/model"
	"github.com/jackc/pgx/v5/pgxpool"
)

// RequireEnv returns an environment variable or skips the test if missing.
func RequireEnv(t testing.TB, key string) string {
	t.Helper()
	value := os.Getenv(key)
	if value == "" {
		t.Skipf("%s not set", key)
	}
	return value
}

const advisoryLockID int64 = 420420

// AcquireDBLock grabs a global advisory lock to serialize DB tests.
func AcquireDBLock(ctx context.Context, pool *pgxpool.Pool) (func() error, error) {
	conn, err := pool.Acquire(ctx)
	if err != nil {
		return nil, fmt.Errorf("acquire connection: %w", err)
	}

	if _, err := conn.Exec(ctx, "SELECT pg_advisory_lock($1)", advisoryLockID); err != nil {
		conn.Release()
		return nil, fmt.Errorf("acquire advisory lock: %w", err)
	}

	unlock := func() error {
		defer conn.Release()
		if _, err := conn.Exec(ctx, "SELECT pg_advisory_unlock($1)", advisoryLockID); err != nil {
			return fmt.Errorf("release advisory lock: %w", err)
		}
		return nil
	}

	return unlock, nil
}

// ResetPostgresSchema rolls back every migration and applies them again.
func ResetPostgresSchema(ctx context.Context, databaseURL string) error {
	db, err := migrations.OpenPostgres(ctx, databaseURL)
	if err != nil {
		return err
	}
	defer db.Close()

	return migrations.Reset(ctx, db, migrations.Postgres)
}

var seq atomic.Int64

// UniqueID generates a unique ID for tests.
func UniqueID(prefix string) string {
	return fmt.Sprintf("%s-%d-%d", prefix, time.Now().UnixNano(), seq.Add(1))
}

// UniqueEmail generates a unique email address for tests.
func UniqueEmail(prefix string) string {
	return UniqueID(prefix) + "@example.com"
}

// NewTestUser creates a test user with sensible defaults.
// The password hash is a placeholder and does not verify.
func NewTestUser(t testing.TB, email string) *model.User {
	t.Helper()
	now := time.Now().UTC().Truncate(time.Microsecond)
	return &model.User{
		ID:           UniqueID("user"),
		Email:        email,
		PasswordHash: "$argon2id$v=19$m=1024,t=1,p=1$c2FsdA$aGFzaA",
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

// NewTestTodo creates a todo owned by userID with sensible defaults.
func NewTestTodo(t testing.TB, userID, title string) *model.Todo {
	t.Helper()
	now := time.Now().UTC().Truncate(time.Microsecond)
	return &model.Todo{
		Title:     title,
		UserID:    userID,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

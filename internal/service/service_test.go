package service

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/checkmark/checkmark/internal/auth"
	"github.com/checkmark/checkmark/internal/metrics"
	"github.com/checkmark/checkmark/internal/repository/sqlite"
	"github.com/stretchr/testify/require"
)

const testSecret = "0123456789abcdef0123456789abcdef"

type testEnv struct {
	store   *sqlite.Store
	tokens  *auth.TokenService
	metrics *metrics.InMemoryRecorder
	auth    *AuthService
	todos   *TodoService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	ctx := context.Background()

	store, err := sqlite.Open(ctx, "sqlite://"+filepath.Join(t.TempDir(), "service.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	require.NoError(t, store.Migrate(ctx))

	hasher := auth.NewHasher(auth.HashParams{MemoryKiB: 1024, Iterations: 1, Parallelism: 1})
	tokens := auth.NewTokenService(testSecret, time.Hour, "checkmark")
	recorder := metrics.NewInMemory()

	return &testEnv{
		store:   store,
		tokens:  tokens,
		metrics: recorder,
		auth:    NewAuthService(store, hasher, tokens, recorder),
		todos:   NewTodoService(store, recorder),
	}
}

func (e *testEnv) register(t *testing.T, email, password string) *AuthResult {
	t.Helper()
	res, err := e.auth.Register(context.Background(), RegisterInput{Email: email, Password: password})
	require.NoError(t, err)
	return res
}

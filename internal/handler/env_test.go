package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/checkmark/checkmark/internal/auth"
	"github.com/checkmark/checkmark/internal/handler/dto"
	"github.com/checkmark/checkmark/internal/metrics"
	"github.com/checkmark/checkmark/internal/middleware"
	"github.com/checkmark/checkmark/internal/repository/sqlite"
	"github.com/checkmark/checkmark/internal/service"
)

const testSecret = "0123456789abcdef0123456789abcdef"

// testAPI wires the auth and todo handlers onto a SQLite store.
type testAPI struct {
	router  http.Handler
	tokens  *auth.TokenService
	metrics *metrics.InMemoryRecorder
}

func newTestAPI(t *testing.T) *testAPI {
	t.Helper()
	ctx := context.Background()

	store, err := sqlite.Open(ctx, "sqlite://"+filepath.Join(t.TempDir(), "handler.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	if err := store.Migrate(ctx); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	logger := discardLogger()
	recorder := metrics.NewInMemory()
	hasher := auth.NewHasher(auth.HashParams{MemoryKiB: 1024, Iterations: 1, Parallelism: 1})
	tokens := auth.NewTokenService(testSecret, time.Hour, "checkmark")

	authHandler := NewAuthHandler(service.NewAuthService(store, hasher, tokens, recorder), logger)
	todoHandler := NewTodoHandler(service.NewTodoService(store, recorder), logger)

	r := chi.NewRouter()
	r.Post("/auth/register", authHandler.Register)
	r.Post("/auth/login", authHandler.Login)
	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireAuth(middleware.AuthConfig{
			Logger:        logger,
			Authenticator: auth.NewAuthenticator(tokens),
			Metrics:       recorder,
		}))
		r.Get("/todos", todoHandler.List)
		r.Post("/todos", todoHandler.Create)
		r.Get("/todos/{id}", todoHandler.Get)
		r.Put("/todos/{id}", todoHandler.Update)
		r.Delete("/todos/{id}", todoHandler.Delete)
	})

	return &testAPI{router: r, tokens: tokens, metrics: recorder}
}

func (a *testAPI) do(t *testing.T, method, path, token, body string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	a.router.ServeHTTP(rec, req)
	return rec
}

// register creates an account and returns its access token.
func (a *testAPI) register(t *testing.T, email, password string) string {
	t.Helper()

	rec := a.do(t, http.MethodPost, "/auth/register", "", `{"email":"`+email+`","password":"`+password+`"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("register %s: status %d, body %s", email, rec.Code, rec.Body.String())
	}

	var resp dto.TokenResponse
	decodeBody(t, rec, &resp)
	return resp.AccessToken
}

func (a *testAPI) createTodo(t *testing.T, token, body string) dto.TodoResponse {
	t.Helper()

	rec := a.do(t, http.MethodPost, "/todos", token, body)
	if rec.Code != http.StatusOK {
		t.Fatalf("create todo: status %d, body %s", rec.Code, rec.Body.String())
	}

	var todo dto.TodoResponse
	decodeBody(t, rec, &todo)
	return todo
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder, dst any) {
	t.Helper()
	if err := json.NewDecoder(rec.Body).Decode(dst); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
}

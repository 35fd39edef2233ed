package server

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/checkmark/checkmark/internal/auth"
	"github.com/checkmark/checkmark/internal/handler"
	"github.com/checkmark/checkmark/internal/metrics"
	"github.com/checkmark/checkmark/internal/middleware"
	"github.com/checkmark/checkmark/internal/service"
)

// RouterConfig holds everything the HTTP routes depend on.
type RouterConfig struct {
	Logger *slog.Logger

	AuthService *service.AuthService
	TodoService *service.TodoService
	Tokens      auth.TokenVerifier

	// Datastore names the readiness check; DB is pinged by /readyz.
	Datastore string
	DB        handler.HealthChecker

	Metrics     metrics.Recorder
	Snapshotter metrics.Snapshotter // nil disables /metrics

	IsDevelopment      bool
	CORSAllowedOrigins []string
	MaxRequestBodySize int64
}

// NewRouter configures the chi router with all routes and middleware.
func NewRouter(cfg RouterConfig) http.Handler {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	h := handler.New()
	healthHandler := handler.NewHealthHandler(cfg.Datastore, cfg.DB, logger)
	authHandler := handler.NewAuthHandler(cfg.AuthService, logger)
	todoHandler := handler.NewTodoHandler(cfg.TodoService, logger)

	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger(logger))
	r.Use(middleware.Recoverer(logger))
	r.Use(middleware.Security(middleware.SecurityConfig{IsDevelopment: cfg.IsDevelopment}))

	corsCfg := middleware.DefaultCORSConfig()
	corsCfg.AllowedOrigins = cfg.CORSAllowedOrigins
	r.Use(middleware.CORS(corsCfg))

	if cfg.MaxRequestBodySize > 0 {
		r.Use(middleware.MaxBodySize(cfg.MaxRequestBodySize))
	}

	// Health endpoints (no auth required)
	r.Get("/healthz", healthHandler.Healthz)
	r.Get("/health", healthHandler.Healthz)
	r.Get("/readyz", healthHandler.Readyz)

	// Root info endpoint
	r.Get("/", h.Hello)

	if cfg.Snapshotter != nil {
		r.Get("/metrics", handler.NewMetricsHandler(cfg.Snapshotter).Metrics)
	}

	r.Route("/auth", func(r chi.Router) {
		r.Post("/register", authHandler.Register)
		r.Post("/login", authHandler.Login)
	})

	authCfg := middleware.AuthConfig{
		Logger:        logger,
		Authenticator: auth.NewAuthenticator(cfg.Tokens),
		Metrics:       cfg.Metrics,
	}

	r.Route("/todos", func(r chi.Router) {
		r.Use(middleware.RequireAuth(authCfg))

		r.Get("/", todoHandler.List)
		r.Post("/", todoHandler.Create)
		r.Get("/{id}", todoHandler.Get)
		r.Put("/{id}", todoHandler.Update)
		r.Delete("/{id}", todoHandler.Delete)
	})

	// 404 and 405 handlers
	r.NotFound(h.NotFound)
	r.MethodNotAllowed(h.MethodNotAllowed)

	return r
}

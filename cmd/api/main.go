// Package main is the entrypoint for the Checkmark API server.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"os/signal"
	"regexp"
	"strings"
	"syscall"

	"github.com/checkmark/checkmark/internal/auth"
	"github.com/checkmark/checkmark/internal/config"
	"github.com/checkmark/checkmark/internal/datastore"
	"github.com/checkmark/checkmark/internal/metrics"
	"github.com/checkmark/checkmark/internal/server"
	"github.com/checkmark/checkmark/internal/service"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	// Initialize logger
	logger := initLogger(cfg)

	if err := run(ctx, cfg, logger); err != nil {
		logger.Error("server error", slog.String("error", sanitizeError(err, cfg.DatabaseURL)))
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	store, err := datastore.Open(ctx, cfg.DatabaseURL, datastore.Options{
		MaxConns: cfg.DBMaxConns,
		MinConns: cfg.DBMinConns,
		Migrate:  cfg.MigrateOnStart,
	})
	if err != nil {
		logger.Error(
			"failed to connect to database",
			slog.String("error", sanitizeError(err, cfg.DatabaseURL)),
			slog.String("database_url", redactURL(cfg.DatabaseURL)),
		)
		return fmt.Errorf("open datastore: %w", err)
	}
	logger.Info("connected to database", "driver", store.Driver, "migrated", cfg.MigrateOnStart)

	// Initialize services
	var recorder metrics.Recorder = metrics.NewNoop()
	var snapshotter metrics.Snapshotter
	if cfg.MetricsEnabled {
		inMemory := metrics.NewInMemory()
		recorder, snapshotter = inMemory, inMemory
	}

	hasher := auth.NewHasher(auth.HashParams{
		MemoryKiB:   cfg.PasswordHashMemoryKiB,
		Iterations:  cfg.PasswordHashIterations,
		Parallelism: cfg.PasswordHashParallelism,
	})
	tokens := auth.NewTokenService(cfg.JWTSecret, cfg.TokenTTL, cfg.TokenIssuer)

	router := server.NewRouter(server.RouterConfig{
		Logger:             logger,
		AuthService:        service.NewAuthService(store, hasher, tokens, recorder),
		TodoService:        service.NewTodoService(store, recorder),
		Tokens:             tokens,
		Datastore:          store.Driver,
		DB:                 store,
		Metrics:            recorder,
		Snapshotter:        snapshotter,
		IsDevelopment:      cfg.IsDevelopment(),
		CORSAllowedOrigins: cfg.GetCORSAllowedOrigins(),
		MaxRequestBodySize: cfg.MaxRequestBodySize,
	})

	// Create and run server
	srv := server.New(router, server.Options{
		Port:            cfg.AppPort,
		ReadTimeout:     cfg.ReadTimeout,
		WriteTimeout:    cfg.WriteTimeout,
		ShutdownTimeout: cfg.ShutdownTimeout,
	}, logger)
	srv.OnShutdown(store.Driver, func(context.Context) error {
		return store.Close()
	})

	logger.Info("starting server",
		"port", cfg.AppPort,
		"env", cfg.AppEnv,
		"token_ttl", cfg.TokenTTL.String(),
		"metrics_enabled", cfg.MetricsEnabled,
	)

	return srv.Run(ctx)
}

// initLogger initializes the slog logger based on configuration.
func initLogger(cfg *config.Config) *slog.Logger {
	var h slog.Handler

	level := parseLogLevel(cfg.LogLevel)

	opts := &slog.HandlerOptions{
		Level: level,
	}

	if cfg.LogFormat == "json" {
		h = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		h = slog.NewTextHandler(os.Stdout, opts)
	}

	logger := slog.New(h)
	slog.SetDefault(logger)

	return logger
}

// parseLogLevel converts string log level to slog.Level.
func parseLogLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

var passwordPattern = regexp.MustCompile(`(?i)password=[^\s&]+`)

func redactURL(raw string) string {
	if raw == "" {
		return ""
	}

	parsed, err := url.Parse(raw)
	if err != nil {
		return "[redacted]"
	}

	if parsed.User != nil {
		username := parsed.User.Username()
		if username == "" {
			parsed.User = url.User("redacted")
		} else {
			parsed.User = url.User(username)
		}
	}

	return parsed.String()
}

func sanitizeError(err error, secrets ...string) string {
	if err == nil {
		return ""
	}

	msg := err.Error()
	for _, secret := range secrets {
		if secret == "" {
			continue
		}
		redacted := redactURL(secret)
		if redacted == "" {
			redacted = "[redacted]"
		}
		msg = strings.ReplaceAll(msg, secret, redacted)
	}

	return passwordPattern.ReplaceAllString(msg, "password=redacted")
}

package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/checkmark/checkmark/internal/auth"
	"github.com/checkmark/checkmark/internal/datastore"
	"github.com/checkmark/checkmark/internal/service"
)

type output struct {
	UserID      string    `json:"user_id"`
	Email       string    `json:"email"`
	Created     bool      `json:"created"`
	AccessToken string    `json:"access_token"`
	ExpiresAt   time.Time `json:"expires_at"`
}

func main() {
	var (
		databaseURL = flag.String("database-url", os.Getenv("DATABASE_URL"), "postgres:// or sqlite:// connection string")
		jwtSecret   = flag.String("jwt-secret", os.Getenv("JWT_SECRET"), "HMAC secret used by the API server")
		issuer      = flag.String("issuer", "checkmark", "Token issuer")
		ttl         = flag.Duration("ttl", 24*time.Hour, "Token lifetime")
		email       = flag.String("email", "dev@checkmark.local", "User email")
		password    = flag.String("password", os.Getenv("CHECKMARK_PASSWORD"), "User password")
		name        = flag.String("name", "", "Display name")
		format      = flag.String("format", "plain", "Output format: plain or json")
	)
	flag.Parse()

	if *databaseURL == "" {
		fmt.Fprintln(os.Stderr, "DATABASE_URL is required")
		os.Exit(1)
	}
	if *jwtSecret == "" || *password == "" {
		fmt.Fprintln(os.Stderr, "JWT_SECRET and a password are required")
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	store, err := datastore.Open(ctx, *databaseURL, datastore.Options{MaxConns: 2, MinConns: 1, Migrate: true})
	if err != nil {
		fmt.Fprintln(os.Stderr, "connect database:", err)
		os.Exit(1)
	}
	defer store.Close()

	tokens := auth.NewTokenService(*jwtSecret, *ttl, *issuer)
	svc := service.NewAuthService(store, auth.NewHasher(auth.DefaultHashParams()), tokens, nil)

	res, created, err := ensureUser(ctx, svc, *email, *password, *name)
	if err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		os.Exit(1)
	}

	out := output{
		UserID:      res.UserID,
		Email:       res.Email,
		Created:     created,
		AccessToken: res.AccessToken,
		ExpiresAt:   res.ExpiresAt,
	}

	switch strings.ToLower(*format) {
	case "plain":
		fmt.Println(out.AccessToken)
	case "json":
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		_ = enc.Encode(out)
	default:
		fmt.Fprintln(os.Stderr, "invalid format; use plain or json")
		os.Exit(1)
	}
}

// ensureUser registers the account, or logs in when the email already exists.
func ensureUser(ctx context.Context, svc *service.AuthService, email, password, name string) (*service.AuthResult, bool, error) {
	res, err := svc.Register(ctx, service.RegisterInput{Email: email, Password: password, Name: name})
	if err == nil {
		return res, true, nil
	}
	if !errors.Is(err, service.ErrEmailTaken) {
		return nil, false, fmt.Errorf("register user: %w", err)
	}

	res, err = svc.Login(ctx, service.LoginInput{Email: email, Password: password})
	if err != nil {
		return nil, false, fmt.Errorf("email %s already registered: %w", email, err)
	}
	return res, false, nil
}

// Package main is a CLI for applying and inspecting schema migrations.
//
// Usage:
//
//	migrate [-database-url URL] up|down|status|version|reset
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/caarlos0/env/v10"
	"github.com/pressly/goose/v3"

	"github.com/checkmark/checkmark/internal/datastore"
	"github.com/checkmark/checkmark/internal/migrations"
)

type cliConfig struct {
	DatabaseURL string        `env:"DATABASE_URL"`
	Timeout     time.Duration `env:"MIGRATE_TIMEOUT" envDefault:"1m"`
}

func main() {
	cfg := cliConfig{}
	if err := env.Parse(&cfg); err != nil {
		fmt.Fprintln(os.Stderr, "parse config:", err)
		os.Exit(1)
	}

	flag.StringVar(&cfg.DatabaseURL, "database-url", cfg.DatabaseURL, "postgres:// or sqlite:// connection string")
	flag.Usage = func() {
		fmt.Fprintln(flag.CommandLine.Output(), "usage: migrate [-database-url URL] up|down|status|version|reset")
		flag.PrintDefaults()
	}
	flag.Parse()

	if flag.NArg() != 1 {
		flag.Usage()
		os.Exit(2)
	}
	if cfg.DatabaseURL == "" {
		fmt.Fprintln(os.Stderr, "DATABASE_URL is required")
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Timeout)
	defer cancel()

	db, dialect, err := datastore.OpenSQL(ctx, cfg.DatabaseURL)
	if err != nil {
		fmt.Fprintln(os.Stderr, "connect database:", err)
		os.Exit(1)
	}
	defer db.Close()

	provider, err := migrations.NewProvider(db, dialect)
	if err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		os.Exit(1)
	}

	if err := runCommand(ctx, provider, flag.Arg(0), os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		os.Exit(1)
	}
}

func runCommand(ctx context.Context, provider *goose.Provider, command string, out io.Writer) error {
	switch command {
	case "up":
		results, err := provider.Up(ctx)
		if err != nil {
			return fmt.Errorf("apply migrations: %w", err)
		}
		printResults(out, results)
		if len(results) == 0 {
			fmt.Fprintln(out, "no pending migrations")
		}
	case "down":
		result, err := provider.Down(ctx)
		if err != nil {
			return fmt.Errorf("roll back migration: %w", err)
		}
		printResults(out, []*goose.MigrationResult{result})
	case "reset":
		if _, err := provider.DownTo(ctx, 0); err != nil {
			return fmt.Errorf("roll back migrations: %w", err)
		}
		results, err := provider.Up(ctx)
		if err != nil {
			return fmt.Errorf("apply migrations: %w", err)
		}
		printResults(out, results)
	case "status":
		statuses, err := provider.Status(ctx)
		if err != nil {
			return fmt.Errorf("migration status: %w", err)
		}
		for _, st := range statuses {
			applied := "-"
			if !st.AppliedAt.IsZero() {
				applied = st.AppliedAt.UTC().Format(time.RFC3339)
			}
			fmt.Fprintf(out, "%05d  %-8s  %s  %s\n", st.Source.Version, st.State, applied, st.Source.Path)
		}
	case "version":
		version, err := provider.GetDBVersion(ctx)
		if err != nil {
			return fmt.Errorf("read version: %w", err)
		}
		fmt.Fprintln(out, version)
	default:
		return fmt.Errorf("unknown command %q", command)
	}
	return nil
}

func printResults(out io.Writer, results []*goose.MigrationResult) {
	for _, r := range results {
		if r == nil || r.Source == nil {
			continue
		}
		fmt.Fprintf(out, "%-4s %05d  %s  (%s)\n", r.Direction, r.Source.Version, r.Source.Path, r.Duration.Round(time.Millisecond))
	}
}

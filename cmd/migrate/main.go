// cmd/migrate/main.go
package main

import (
	"context"
	"log/slog"
	"os"
	"time"

	"walletwhisper/internal/config"
	"walletwhisper/internal/logging"
	"walletwhisper/internal/storage/postgres"
)

func main() {
	cfg := config.MustLoad()
	logging.Setup(logging.NewConfig(cfg.LogLevel, cfg.LogJSON))

	if !cfg.JournalEnabled() {
		slog.Error("DATABASE_URL not set")
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	pool, err := postgres.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		slog.Error("database unavailable", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	if err := postgres.Migrate(ctx, cfg.DatabaseURL); err != nil {
		slog.Error("migrations failed", "error", err)
		os.Exit(1)
	}
	slog.Info("migrations applied")

	since := time.Now().Add(-24 * time.Hour)
	counts, err := postgres.NewStorage(pool).CountByOutcome(ctx, since)
	if err != nil {
		slog.Error("journal summary failed", "error", err)
		return
	}
	args := []any{"since", since.Format(time.RFC3339)}
	for outcome, n := range counts {
		args = append(args, string(outcome), n)
	}
	slog.Info("journal summary", args...)
}

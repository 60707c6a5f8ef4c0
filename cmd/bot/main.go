// cmd/bot/main.go
package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"walletwhisper/internal/config"
	"walletwhisper/internal/logging"
	"walletwhisper/internal/parser"
	"walletwhisper/internal/storage"
	"walletwhisper/internal/storage/postgres"
	"walletwhisper/internal/telegram"
)

// Long-polling bot for running without a public URL.
func main() {
	cfg := config.MustLoad()
	logging.Setup(logging.NewConfig(cfg.LogLevel, cfg.LogJSON))

	if cfg.TelegramBotToken == "" {
		slog.Error("TELEGRAM_BOT_TOKEN not set")
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var journal storage.JournalStorage = storage.NopJournal{}
	if cfg.JournalEnabled() {
		pool, err := postgres.Connect(ctx, cfg.DatabaseURL)
		if err != nil {
			slog.Error("database unavailable", "error", err)
			os.Exit(1)
		}
		defer pool.Close()
		journal = postgres.NewStorage(pool)
	}

	bot, err := tgbotapi.NewBotAPI(cfg.TelegramBotToken)
	if err != nil {
		slog.Error("telegram bot init failed", "error", err)
		os.Exit(1)
	}
	// polling and webhooks are mutually exclusive
	if _, err := bot.Request(tgbotapi.DeleteWebhookConfig{}); err != nil {
		slog.Warn("could not remove webhook", "error", err)
	}
	slog.Info("bot started", "username", bot.Self.UserName)

	responder := telegram.NewResponder(parser.NewCommandParser(), bot, journal, cfg.TelegramAllowedUsers)
	if err := telegram.Poll(ctx, bot, responder); err != nil {
		slog.Error("polling stopped", "error", err)
		os.Exit(1)
	}
	slog.Info("bot stopped")
}

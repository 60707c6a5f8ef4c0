// cmd/api/main.go
package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"walletwhisper/internal/auth"
	"walletwhisper/internal/config"
	"walletwhisper/internal/logging"
	"walletwhisper/internal/parser"
	"walletwhisper/internal/server"
	"walletwhisper/internal/storage"
	"walletwhisper/internal/storage/postgres"
	"walletwhisper/internal/telegram"
)

func main() {
	cfg := config.MustLoad()
	logging.Setup(logging.NewConfig(cfg.LogLevel, cfg.LogJSON))

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
		if err := postgres.Migrate(ctx, cfg.DatabaseURL); err != nil {
			slog.Error("migrations failed", "error", err)
			os.Exit(1)
		}
		journal = postgres.NewStorage(pool)
		slog.Info("command journal enabled")
	}

	commandParser := parser.NewCommandParser()
	tokens := auth.NewTokenService(cfg.APIKey, cfg.JWTExpiresIn)

	deps := server.Deps{
		Parser:   commandParser,
		Journal:  journal,
		Verifier: auth.NewKeyVerifier(cfg.APIKey, tokens),
		Tokens:   tokens,
	}

	if cfg.TelegramWebhookEnabled() {
		bot, err := tgbotapi.NewBotAPI(cfg.TelegramBotToken)
		if err != nil {
			slog.Error("telegram bot init failed", "error", err)
			os.Exit(1)
		}
		if err := telegram.RegisterWebhook(ctx, bot, cfg.TelegramWebhookURL, cfg.TelegramWebhookSecret); err != nil {
			slog.Error("telegram webhook registration failed", "error", err)
			os.Exit(1)
		}
		responder := telegram.NewResponder(commandParser, bot, journal, cfg.TelegramAllowedUsers)
		deps.Webhook = telegram.NewWebhookHandler(responder, cfg.TelegramWebhookSecret)
	}

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	srv := server.NewHTTPServer(cfg.Addr(), server.NewRouter(deps))
	if err := server.Run(ctx, srv, cfg.ShutdownTimeout); err != nil {
		slog.Error("server error", "error", err)
		os.Exit(1)
	}
}

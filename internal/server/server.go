// Package server assembles the gin router and runs the HTTP server until shutdown.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/sync/errgroup"

	"walletwhisper/internal/auth"
	"walletwhisper/internal/handler"
	"walletwhisper/internal/middleware"
	"walletwhisper/internal/storage"
	"walletwhisper/internal/telegram"
)

type Deps struct {
	Parser   handler.Parser
	Journal  storage.JournalStorage
	Verifier *auth.KeyVerifier
	Tokens   *auth.TokenService
	// Webhook is optional; /telegram is only mounted when it is set.
	Webhook *telegram.WebhookHandler
}

func NewRouter(d Deps) *gin.Engine {
	router := gin.New()
	router.Use(middleware.RequestID(), middleware.Logger(), middleware.Recovery())

	authMiddleware := middleware.NewAuthMiddleware(d.Verifier)
	commandHandler := handler.NewCommandHandler(d.Parser, d.Journal)
	keyHandler := handler.NewKeyHandler(d.Tokens)

	api := router.Group("/api")
	{
		api.GET("/health", handler.Health)
		api.POST("/command", authMiddleware.RequireAPIKey(), commandHandler.Command)
		api.POST("/keys", authMiddleware.RequireMasterKey(), keyHandler.IssueKey)
	}

	if d.Webhook != nil {
		router.POST("/telegram", d.Webhook.Handle)
	}

	return router
}

func NewHTTPServer(addr string, h http.Handler) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           h,
		ReadTimeout:       10 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      10 * time.Second,
		IdleTimeout:       60 * time.Second,
		MaxHeaderBytes:    1 << 16,
	}
}

// Run serves until ctx is cancelled, then shuts down within shutdownTimeout.
func Run(ctx context.Context, srv *http.Server, shutdownTimeout time.Duration) error {
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		slog.Info("server started", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		slog.Info("shutting down server", "timeout", shutdownTimeout)
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return err
	}
	slog.Info("server stopped gracefully")
	return nil
}

package telegram

import (
	"context"
	"crypto/subtle"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/avast/retry-go"
	"github.com/gin-gonic/gin"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// SecretTokenHeader carries the secret_token given to setWebhook.
const SecretTokenHeader = "X-Telegram-Bot-Api-Secret-Token"

type WebhookHandler struct {
	responder *Responder
	secret    string
}

func NewWebhookHandler(responder *Responder, secret string) *WebhookHandler {
	return &WebhookHandler{responder: responder, secret: secret}
}

// Handle always answers 200 for well-formed updates so Telegram does not redeliver them.
// Without a configured secret every call is refused.
func (h *WebhookHandler) Handle(c *gin.Context) {
	if h.secret == "" {
		slog.Error("telegram webhook called but no secret is configured", "client_ip", c.ClientIP())
		c.AbortWithStatus(http.StatusUnauthorized)
		return
	}
	if subtle.ConstantTimeCompare([]byte(c.GetHeader(SecretTokenHeader)), []byte(h.secret)) != 1 {
		slog.Warn("telegram webhook call with bad secret", "client_ip", c.ClientIP())
		c.AbortWithStatus(http.StatusUnauthorized)
		return
	}

	var update tgbotapi.Update
	if err := c.ShouldBindJSON(&update); err != nil {
		slog.Error("telegram update parse failed", "error", err)
		c.Status(http.StatusBadRequest)
		return
	}

	if err := h.responder.Handle(c.Request.Context(), update); err != nil {
		slog.Error("telegram update failed", "error", err, "update_id", update.UpdateID)
	}
	c.Status(http.StatusOK)
}

// RegisterWebhook points Telegram at url, retrying transient API errors.
func RegisterWebhook(ctx context.Context, bot *tgbotapi.BotAPI, url, secret string) error {
	params := tgbotapi.Params{"url": url, "secret_token": secret}

	err := retry.Do(
		func() error {
			_, err := bot.MakeRequest("setWebhook", params)
			return err
		},
		retry.Context(ctx),
		retry.Attempts(3),
		retry.Delay(2*time.Second),
		retry.LastErrorOnly(true),
		retry.OnRetry(func(n uint, err error) {
			slog.Warn("setWebhook failed, retrying", "attempt", n+1, "error", err)
		}),
	)
	if err != nil {
		return fmt.Errorf("set webhook: %w", err)
	}
	slog.Info("telegram webhook registered", "url", url)
	return nil
}

// UpdateSource is the long-polling half of *tgbotapi.BotAPI.
type UpdateSource interface {
	GetUpdatesChan(config tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel
	StopReceivingUpdates()
}

// Poll answers updates until ctx is cancelled or the channel closes.
func Poll(ctx context.Context, source UpdateSource, responder *Responder) error {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60
	updates := source.GetUpdatesChan(u)
	defer source.StopReceivingUpdates()

	for {
		select {
		case <-ctx.Done():
			return nil
		case update, ok := <-updates:
			if !ok {
				return nil
			}
			if err := responder.Handle(ctx, update); err != nil {
				slog.Error("telegram update failed", "error", err, "update_id", update.UpdateID)
			}
		}
	}
}

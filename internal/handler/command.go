// internal/handler/command.go
package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"walletwhisper/internal/domain"
	"walletwhisper/internal/middleware"
	"walletwhisper/internal/reply"
	"walletwhisper/internal/storage"
	val "walletwhisper/internal/validator"
)

type Parser interface {
	Parse(message string) (domain.Command, error)
}

type CommandHandler struct {
	parser  Parser
	journal storage.JournalStorage
}

func NewCommandHandler(parser Parser, journal storage.JournalStorage) *CommandHandler {
	if journal == nil {
		journal = storage.NopJournal{}
	}
	return &CommandHandler{parser: parser, journal: journal}
}

// Command godoc
// @Summary Run a chat command
// @Description Classify a free-text message ("add 25 groceries", "balance", "last") and acknowledge it
// @Tags commands
// @Accept json
// @Produce json
// @Param X-API-Key header string true "API key"
// @Param request body CommandRequest true "Message"
// @Success 200 {object} Response
// @Failure 400 {object} Response
// @Failure 401 {object} Response
// @Failure 403 {object} Response
// @Failure 500 {object} Response
// @Router /api/command [post]
func (h *CommandHandler) Command(c *gin.Context) {
	received := time.Now()

	var req CommandRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse("Invalid request format"))
		return
	}
	if err := val.Struct(req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse(err.Error()))
		return
	}

	requestID := middleware.GetRequestID(c)
	entry := domain.JournalEntry{
		RequestID:  requestID,
		Source:     domain.SourceHTTP,
		ReceivedAt: received,
	}

	cmd, err := h.parser.Parse(*req.Message)
	switch {
	case err == nil:
		entry.Kind = cmd.Kind()
		entry.Outcome = domain.OutcomeSuccess
		h.record(c.Request.Context(), entry)

		slog.Info("command handled", "kind", cmd.Kind(), "request_id", requestID)
		c.JSON(http.StatusOK, successResponse(reply.Text(cmd)))

	case errors.Is(err, domain.ErrInvalidCommandFormat):
		entry.Outcome = domain.OutcomeInvalidCommand
		h.record(c.Request.Context(), entry)

		slog.Debug("command not recognised", "error", err, "request_id", requestID)
		c.JSON(http.StatusBadRequest, errorResponse(reply.InvalidCommand))

	default:
		entry.Outcome = domain.OutcomeError
		h.record(c.Request.Context(), entry)

		// details stay in the log, the caller gets an opaque message
		slog.Error("command failed", "error", err, "request_id", requestID)
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, errorResponse("Internal server error"))
	}
}

func (h *CommandHandler) record(ctx context.Context, entry domain.JournalEntry) {
	if err := h.journal.RecordCommand(ctx, entry); err != nil {
		slog.Error("journal write failed", "error", err, "request_id", entry.RequestID)
	}
}

// Health godoc
// @Summary Liveness probe
// @Produce json
// @Success 200 {object} map[string]string{"status":"healthy"}
// @Router /api/health [get]
func Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "healthy"})
}

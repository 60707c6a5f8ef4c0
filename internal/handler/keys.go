package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"walletwhisper/internal/auth"
	"walletwhisper/internal/middleware"
)

type KeyHandler struct {
	tokens *auth.TokenService
}

func NewKeyHandler(tokens *auth.TokenService) *KeyHandler {
	return &KeyHandler{tokens: tokens}
}

// IssueKey godoc
// @Summary Issue a scoped API key
// @Description Mint an expiring key that can only run commands. Requires the master key.
// @Tags keys
// @Accept json
// @Produce json
// @Param X-API-Key header string true "Master API key"
// @Param request body IssueKeyRequest false "Key lifetime"
// @Success 200 {object} IssueKeyResponse
// @Failure 400 {object} Response
// @Failure 401 {object} Response
// @Failure 403 {object} Response
// @Router /api/keys [post]
func (h *KeyHandler) IssueKey(c *gin.Context) {
	var req IssueKeyRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, errorResponse("Invalid request format"))
			return
		}
	}

	var ttl time.Duration
	if req.TTL != "" {
		d, err := time.ParseDuration(req.TTL)
		if err != nil {
			c.JSON(http.StatusBadRequest, errorResponse("ttl must be a duration such as 1h or 30m"))
			return
		}
		ttl = d
	}

	token, key, err := h.tokens.GenerateToken(ttl)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidTTL) {
			c.JSON(http.StatusBadRequest, errorResponse(err.Error()))
			return
		}
		slog.Error("issue key failed", "error", err, "request_id", middleware.GetRequestID(c))
		c.JSON(http.StatusInternalServerError, errorResponse("Internal server error"))
		return
	}

	c.JSON(http.StatusOK, IssueKeyResponse{
		Status:    statusSuccess,
		Key:       token,
		KeyID:     key.ID,
		ExpiresAt: key.ExpiresAt.UTC().Format(time.RFC3339),
	})
}

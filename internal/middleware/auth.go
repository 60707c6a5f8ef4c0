// internal/middleware/auth.go
package middleware

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"walletwhisper/internal/auth"
)

const (
	APIKeyHeader = "X-API-Key"
	principalKey = "principal"
)

type AuthMiddleware struct {
	verifier *auth.KeyVerifier
}

func NewAuthMiddleware(v *auth.KeyVerifier) *AuthMiddleware {
	return &AuthMiddleware{verifier: v}
}

// RequireAPIKey accepts the master key or a scoped key.
// It aborts before the handler runs, so the body is never read for rejected requests.
func (m *AuthMiddleware) RequireAPIKey() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := m.authenticate(c); ok {
			c.Next()
		}
	}
}

// RequireMasterKey rejects scoped keys with 403.
func (m *AuthMiddleware) RequireMasterKey() gin.HandlerFunc {
	return func(c *gin.Context) {
		p, ok := m.authenticate(c)
		if !ok {
			return
		}
		if p.Kind != auth.KeyMaster {
			slog.Warn("scoped key used on master-only route", "key_id", p.KeyID, "path", c.Request.URL.Path, "request_id", GetRequestID(c))
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"status": "error", "message": "Master API key required"})
			return
		}
		c.Next()
	}
}

func (m *AuthMiddleware) authenticate(c *gin.Context) (auth.Principal, bool) {
	p, err := m.verifier.Verify(c.GetHeader(APIKeyHeader))
	switch {
	case err == nil:
		c.Set(principalKey, p)
		return p, true
	case errors.Is(err, auth.ErrMissingKey):
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"status": "error", "message": "API key required"})
	default:
		slog.Warn("API key rejected", "client_ip", c.ClientIP(), "request_id", GetRequestID(c))
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"status": "error", "message": "Invalid API key"})
	}
	return auth.Principal{}, false
}

// GetPrincipal returns the principal stored by the auth middleware.
func GetPrincipal(c *gin.Context) (auth.Principal, bool) {
	v, ok := c.Get(principalKey)
	if !ok {
		return auth.Principal{}, false
	}
	p, ok := v.(auth.Principal)
	return p, ok
}

// internal/auth/jwt.go
package auth

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const (
	issuer       = "walletwhisper"
	commandScope = "command"

	MinKeyTTL = time.Minute
	MaxKeyTTL = 30 * 24 * time.Hour
)

var ErrInvalidTTL = fmt.Errorf("key lifetime must be between %s and %s", MinKeyTTL, MaxKeyTTL)

// ScopedKey describes an issued key. The key itself is never stored.
type ScopedKey struct {
	ID        string
	ExpiresAt time.Time
}

// TokenService issues and checks HS256 keys signed with the master API key.
// Scoped keys can only run commands.
type TokenService struct {
	secretKey []byte
	expiresIn time.Duration
	now       func() time.Time
}

func NewTokenService(secret string, expiresIn time.Duration) *TokenService {
	return &TokenService{
		secretKey: []byte(secret),
		expiresIn: expiresIn,
		now:       time.Now,
	}
}

// GenerateToken issues a scoped key. ttl == 0 uses the configured lifetime.
func (s *TokenService) GenerateToken(ttl time.Duration) (string, ScopedKey, error) {
	if ttl == 0 {
		ttl = s.expiresIn
	}
	if ttl < MinKeyTTL || ttl > MaxKeyTTL {
		return "", ScopedKey{}, ErrInvalidTTL
	}

	now := s.now()
	key := ScopedKey{
		ID:        uuid.NewString(),
		ExpiresAt: now.Add(ttl).Truncate(time.Second),
	}
	claims := jwt.RegisteredClaims{
		Issuer:    issuer,
		Subject:   commandScope,
		ID:        key.ID,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(key.ExpiresAt),
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secretKey)
	if err != nil {
		return "", ScopedKey{}, fmt.Errorf("sign key: %w", err)
	}
	slog.Info("scoped key issued", "key_id", key.ID, "expires_at", key.ExpiresAt.Format(time.RFC3339))
	return token, key, nil
}

// ParseToken verifies signature, issuer, scope and expiry.
func (s *TokenService) ParseToken(tokenStr string) (ScopedKey, error) {
	claims := &jwt.RegisteredClaims{}
	_, err := jwt.ParseWithClaims(tokenStr, claims,
		func(token *jwt.Token) (interface{}, error) {
			return s.secretKey, nil
		},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(issuer),
		jwt.WithSubject(commandScope),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		return ScopedKey{}, err
	}
	if claims.ID == "" {
		return ScopedKey{}, errors.New("key id missing")
	}
	return ScopedKey{ID: claims.ID, ExpiresAt: claims.ExpiresAt.Time}, nil
}

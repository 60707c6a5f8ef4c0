package auth

import (
	"crypto/subtle"
	"errors"
	"log/slog"
	"strings"
)

var (
	ErrMissingKey = errors.New("api key required")
	ErrInvalidKey = errors.New("invalid api key")
)

type KeyKind string

const (
	KeyMaster KeyKind = "master"
	KeyScoped KeyKind = "scoped"
)

// Principal is who presented the key.
type Principal struct {
	Kind  KeyKind
	KeyID string
}

type KeyVerifier struct {
	master []byte
	tokens *TokenService
}

// NewKeyVerifier accepts the master key and, when tokens is not nil, scoped keys signed by it.
func NewKeyVerifier(masterKey string, tokens *TokenService) *KeyVerifier {
	return &KeyVerifier{master: []byte(masterKey), tokens: tokens}
}

// Verify compares against the master key in constant time, then tries the value as a scoped key.
func (v *KeyVerifier) Verify(presented string) (Principal, error) {
	// blank counts as missing, but the key itself is compared verbatim
	if strings.TrimSpace(presented) == "" {
		return Principal{}, ErrMissingKey
	}

	if subtle.ConstantTimeCompare([]byte(presented), v.master) == 1 {
		return Principal{Kind: KeyMaster}, nil
	}

	if v.tokens != nil && strings.Count(presented, ".") == 2 {
		key, err := v.tokens.ParseToken(presented)
		if err == nil {
			return Principal{Kind: KeyScoped, KeyID: key.ID}, nil
		}
		slog.Debug("scoped key rejected", "error", err)
	}

	return Principal{}, ErrInvalidKey
}

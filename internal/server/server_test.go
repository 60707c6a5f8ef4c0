package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"walletwhisper/internal/auth"
	"walletwhisper/internal/domain"
	"walletwhisper/internal/middleware"
	"walletwhisper/internal/parser"
)

const masterKey = "router-test-master-key"

func init() {
	gin.SetMode(gin.TestMode)
}

// spyParser counts calls before delegating to the real parser.
type spyParser struct {
	calls atomic.Int32
	inner *parser.CommandParser
}

func (s *spyParser) Parse(msg string) (domain.Command, error) {
	s.calls.Add(1)
	return s.inner.Parse(msg)
}

func newTestRouter(t *testing.T) (*gin.Engine, *spyParser, *auth.TokenService) {
	t.Helper()
	tokens := auth.NewTokenService(masterKey, time.Hour)
	spy := &spyParser{inner: parser.NewCommandParser()}
	r := NewRouter(Deps{
		Parser:   spy,
		Verifier: auth.NewKeyVerifier(masterKey, tokens),
		Tokens:   tokens,
	})
	return r, spy, tokens
}

func do(r http.Handler, method, path, key, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if key != "" {
		req.Header.Set(middleware.APIKeyHeader, key)
	}
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)
	return rr
}

func TestRouter_CommandAuth(t *testing.T) {
	tests := []struct {
		name      string
		key       string
		wantCode  int
		wantParse bool
	}{
		{name: "no key", wantCode: http.StatusUnauthorized},
		{name: "wrong key", key: "nope", wantCode: http.StatusForbidden},
		{name: "forged token", key: "a.b.c", wantCode: http.StatusForbidden},
		{name: "master key", key: masterKey, wantCode: http.StatusOK, wantParse: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, spy, _ := newTestRouter(t)
			rr := do(r, http.MethodPost, "/api/command", tt.key, `{"message":"balance"}`)

			if rr.Code != tt.wantCode {
				t.Fatalf("expected %d, got %d (%s)", tt.wantCode, rr.Code, rr.Body.String())
			}
			if parsed := spy.calls.Load() > 0; parsed != tt.wantParse {
				t.Errorf("parser invoked = %v, want %v", parsed, tt.wantParse)
			}
			if rr.Header().Get(middleware.RequestIDHeader) == "" {
				t.Error("missing request id header")
			}
		})
	}
}

func TestRouter_ScopedKey(t *testing.T) {
	r, spy, tokens := newTestRouter(t)
	key, _, err := tokens.GenerateToken(0)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	if rr := do(r, http.MethodPost, "/api/command", key, `{"message":"add 2 milk"}`); rr.Code != http.StatusOK {
		t.Fatalf("scoped key on /api/command: expected 200, got %d", rr.Code)
	}
	if spy.calls.Load() != 1 {
		t.Errorf("expected one parse, got %d", spy.calls.Load())
	}

	if rr := do(r, http.MethodPost, "/api/keys", key, ""); rr.Code != http.StatusForbidden {
		t.Errorf("scoped key must not mint keys, got %d", rr.Code)
	}
}

func TestRouter_IssueKeyRoundTrip(t *testing.T) {
	r, _, _ := newTestRouter(t)

	rr := do(r, http.MethodPost, "/api/keys", masterKey, `{"ttl":"10m"}`)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d (%s)", rr.Code, rr.Body.String())
	}
	var issued struct {
		Key string `json:"key"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &issued); err != nil {
		t.Fatalf("decode: %v", err)
	}

	if rr := do(r, http.MethodPost, "/api/command", issued.Key, `{"message":"last"}`); rr.Code != http.StatusOK {
		t.Errorf("issued key rejected: %d", rr.Code)
	}
}

func TestRouter_HealthNeedsNoKey(t *testing.T) {
	r, _, _ := newTestRouter(t)
	if rr := do(r, http.MethodGet, "/api/health", "", ""); rr.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", rr.Code)
	}
}

func TestRouter_TelegramNotMountedWithoutBot(t *testing.T) {
	r, _, _ := newTestRouter(t)
	if rr := do(r, http.MethodPost, "/telegram", "", `{}`); rr.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", rr.Code)
	}
}

func TestRun_StopsOnCancel(t *testing.T) {
	srv := NewHTTPServer("127.0.0.1:0", http.NotFoundHandler())
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() { done <- Run(ctx, srv, time.Second) }()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Errorf("expected clean shutdown, got %v", err)
		}
	case <-time.After(3 * time.Second):
		t.Fatal("server did not stop")
	}
}

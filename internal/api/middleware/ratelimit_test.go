package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/moderncrm/crm-api/internal/core/domain"
	"github.com/moderncrm/crm-api/internal/core/ports"
	"github.com/moderncrm/crm-api/internal/infrastructure/ratelimit"
)

type failingStore struct{}

func (failingStore) Allow(context.Context, string, int, time.Duration, time.Time) (ports.RateDecision, error) {
	return ports.RateDecision{}, errors.New("redis down")
}

func serve(mw echo.MiddlewareFunc, ip string) (*httptest.ResponseRecorder, bool, error) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/api/customers", nil)
	req.Header.Set(echo.HeaderXRealIP, ip)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	called := false
	err := mw(func(c echo.Context) error {
		called = true
		return c.NoContent(http.StatusOK)
	})(c)
	return rec, called, err
}

func TestRateLimit_RejectsAfterLimit(t *testing.T) {
	now := time.Date(2024, 3, 21, 12, 0, 0, 0, time.UTC)
	mw := RateLimit(RateLimitConfig{
		Store:  ratelimit.NewMemoryStore(),
		Limit:  2,
		Window: time.Minute,
		Logger: zerolog.Nop(),
		Now:    func() time.Time { return now },
	})

	for i := 0; i < 2; i++ {
		rec, called, err := serve(mw, "10.0.0.1")
		if err != nil || !called {
			t.Fatalf("request %d should pass: %v", i+1, err)
		}
		if rec.Header().Get("X-RateLimit-Limit") != "2" {
			t.Fatalf("missing limit header")
		}
	}

	rec, called, err := serve(mw, "10.0.0.1")
	if called {
		t.Fatalf("third request must not reach the handler")
	}
	if !errors.Is(err, domain.ErrRateLimited) {
		t.Fatalf("expected ErrRateLimited, got %v", err)
	}
	if rec.Header().Get("Retry-After") != "60" {
		t.Fatalf("unexpected Retry-After %q", rec.Header().Get("Retry-After"))
	}
	if rec.Header().Get("X-RateLimit-Remaining") != "0" {
		t.Fatalf("unexpected remaining %q", rec.Header().Get("X-RateLimit-Remaining"))
	}

	if _, called, err := serve(mw, "10.0.0.2"); err != nil || !called {
		t.Fatalf("another client must not be limited")
	}
}

func TestRateLimit_Skipper(t *testing.T) {
	mw := RateLimit(RateLimitConfig{
		Store:   failingStore{},
		Limit:   1,
		Window:  time.Minute,
		Skipper: func(echo.Context) bool { return true },
	})
	if _, called, err := serve(mw, "10.0.0.1"); err != nil || !called {
		t.Fatalf("skipped request should pass")
	}
}

func TestRateLimit_FailsOpen(t *testing.T) {
	mw := RateLimit(RateLimitConfig{Store: failingStore{}, Limit: 1, Window: time.Minute, Logger: zerolog.Nop()})
	if _, called, err := serve(mw, "10.0.0.1"); err != nil || !called {
		t.Fatalf("store failure should let the request through")
	}
}

func TestRetrySeconds(t *testing.T) {
	if retrySeconds(1500*time.Millisecond) != 2 {
		t.Fatalf("expected rounding up")
	}
	if retrySeconds(0) != 1 {
		t.Fatalf("expected at least 1 second")
	}
}

package middleware

import (
	"math"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/moderncrm/crm-api/internal/core/domain"
	"github.com/moderncrm/crm-api/internal/core/ports"
	"github.com/moderncrm/crm-api/internal/pkg/metrics"
)

// RateLimitConfig configures RateLimit.
type RateLimitConfig struct {
	Store  ports.RateLimitStore
	Limit  int
	Window time.Duration
	// Skipper excludes requests from limiting, e.g. health probes.
	Skipper func(c echo.Context) bool
	Logger  zerolog.Logger
	Now     func() time.Time
}

// RateLimit admits at most Limit requests per client IP within a sliding
// Window. A store failure lets the request through.
func RateLimit(cfg RateLimitConfig) echo.MiddlewareFunc {
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	limit := strconv.Itoa(cfg.Limit)

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if cfg.Skipper != nil && cfg.Skipper(c) {
				return next(c)
			}

			ip := c.RealIP()
			decision, err := cfg.Store.Allow(c.Request().Context(), ip, cfg.Limit, cfg.Window, cfg.Now())
			if err != nil {
				cfg.Logger.Warn().Err(err).Str("ip", ip).Msg("rate limit store unavailable, allowing request")
				return next(c)
			}

			h := c.Response().Header()
			h.Set("X-RateLimit-Limit", limit)
			h.Set("X-RateLimit-Remaining", strconv.Itoa(decision.Remaining))

			if !decision.Allowed {
				metrics.RateLimitedTotal.Inc()
				h.Set(echo.HeaderRetryAfter, strconv.Itoa(retrySeconds(decision.RetryAfter)))
				return domain.ErrRateLimited
			}
			return next(c)
		}
	}
}

func retrySeconds(d time.Duration) int {
	s := int(math.Ceil(d.Seconds()))
	if s < 1 {
		return 1
	}
	return s
}

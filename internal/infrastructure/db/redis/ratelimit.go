package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/moderncrm/crm-api/internal/core/ports"
)

const rateLimitPrefix = "ratelimit:"

// slidingWindow trims entries at or before now-window, then admits the
// request if fewer than limit remain. Runs atomically inside Redis so every
// API replica shares one view of the window.
//
// KEYS[1] key, ARGV: now (ms), window (ms), limit, member
// returns {allowed, remaining, retry_after_ms}
var slidingWindow = redis.NewScript(`
local key = KEYS[1]
local now = tonumber(ARGV[1])
local window = tonumber(ARGV[2])
local limit = tonumber(ARGV[3])

redis.call('ZREMRANGEBYSCORE', key, '-inf', now - window)
local count = redis.call('ZCARD', key)
if count < limit then
  redis.call('ZADD', key, now, ARGV[4])
  redis.call('PEXPIRE', key, window)
  return {1, limit - count - 1, 0}
end

local oldest = redis.call('ZRANGE', key, 0, 0, 'WITHSCORES')
local retry = window
if oldest[2] then
  retry = tonumber(oldest[2]) + window - now
end
return {0, 0, retry}
`)

// RateLimitStore is a sliding-log limiter kept in a Redis sorted set per key.
type RateLimitStore struct {
	client redis.Scripter
}

// NewRateLimitStore wraps the given Redis client.
func NewRateLimitStore(client redis.Scripter) *RateLimitStore {
	return &RateLimitStore{client: client}
}

func (s *RateLimitStore) Allow(ctx context.Context, key string, limit int, window time.Duration, now time.Time) (ports.RateDecision, error) {
	res, err := slidingWindow.Run(ctx, s.client,
		[]string{rateLimitPrefix + key},
		now.UnixMilli(), window.Milliseconds(), limit, uuid.NewString(),
	).Int64Slice()
	if err != nil {
		return ports.RateDecision{}, fmt.Errorf("rate limit: %w", err)
	}
	if len(res) != 3 {
		return ports.RateDecision{}, fmt.Errorf("rate limit: unexpected script reply %v", res)
	}
	return ports.RateDecision{
		Allowed:    res[0] == 1,
		Remaining:  int(res[1]),
		RetryAfter: time.Duration(res[2]) * time.Millisecond,
	}, nil
}

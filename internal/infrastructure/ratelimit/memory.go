// Package ratelimit holds the in-process rate limit store used when no
// Redis is configured.
package ratelimit

import (
	"context"
	"sync"
	"time"

	"github.com/moderncrm/crm-api/internal/core/ports"
)

// MemoryStore is a sliding-log limiter: it keeps the timestamp of every
// admitted request per key and counts those still inside the window.
type MemoryStore struct {
	mu   sync.Mutex
	logs map[string]*requestLog
}

type requestLog struct {
	hits   []time.Time
	window time.Duration
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{logs: make(map[string]*requestLog)}
}

// Allow admits the request when fewer than limit requests were admitted for
// key in (now-window, now]. Rejected requests are not logged.
func (s *MemoryStore) Allow(_ context.Context, key string, limit int, window time.Duration, now time.Time) (ports.RateDecision, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	l, ok := s.logs[key]
	if !ok {
		l = &requestLog{}
		s.logs[key] = l
	}
	l.window = window
	l.prune(now)

	if len(l.hits) >= limit {
		retry := l.hits[0].Add(window).Sub(now)
		return ports.RateDecision{Allowed: false, Remaining: 0, RetryAfter: retry}, nil
	}
	l.hits = append(l.hits, now)
	return ports.RateDecision{Allowed: true, Remaining: limit - len(l.hits)}, nil
}

// Sweep drops keys with no requests left inside their window.
func (s *MemoryStore) Sweep(now time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for key, l := range s.logs {
		l.prune(now)
		if len(l.hits) == 0 {
			delete(s.logs, key)
		}
	}
}

// RunSweeper calls Sweep every interval until ctx is done.
func (s *MemoryStore) RunSweeper(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			s.Sweep(now)
		}
	}
}

func (s *MemoryStore) keys() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.logs)
}

func (l *requestLog) prune(now time.Time) {
	cutoff := now.Add(-l.window)
	i := 0
	for i < len(l.hits) && !l.hits[i].After(cutoff) {
		i++
	}
	if i > 0 {
		l.hits = append(l.hits[:0], l.hits[i:]...)
	}
}

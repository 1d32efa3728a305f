// Package ratelimit bounds outbound AI generation requests with a fixed
// window counter. Bursts at window boundaries are accepted: up to twice the
// limit can pass within one window length straddling a reset.
package ratelimit

import (
	"sync"
	"time"

	"github.com/pkordes/trip-planner/internal/domain"
)

const (
	// DefaultLimit is the number of generation requests allowed per window.
	DefaultLimit = 10
	// DefaultWindow is the length of one counting window.
	DefaultWindow = 60 * time.Second
)

// Limiter is a fixed-window request counter. It is safe for concurrent use;
// the check and the increment happen under one lock.
type Limiter struct {
	mu          sync.Mutex
	limit       int
	window      time.Duration
	now         func() time.Time
	count       int
	windowStart time.Time
}

// New returns a Limiter allowing limit calls per window. Non-positive values
// fall back to the defaults; a nil now uses time.Now.
func New(limit int, window time.Duration, now func() time.Time) *Limiter {
	if limit <= 0 {
		limit = DefaultLimit
	}
	if window <= 0 {
		window = DefaultWindow
	}
	if now == nil {
		now = time.Now
	}
	return &Limiter{limit: limit, window: window, now: now}
}

// Allow consumes one slot. When the current window is exhausted it returns a
// *domain.RateLimitError carrying the time until the window resets; in that
// case nothing is consumed.
func (l *Limiter) Allow() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	if now.Sub(l.windowStart) > l.window {
		l.count = 0
		l.windowStart = now
	}
	if l.count >= l.limit {
		return &domain.RateLimitError{RetryAfter: l.window - now.Sub(l.windowStart)}
	}
	l.count++
	return nil
}

// Remaining reports how many slots are left in the current window without
// consuming any.
func (l *Limiter) Remaining() int {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.now().Sub(l.windowStart) > l.window {
		return l.limit
	}
	return l.limit - l.count
}

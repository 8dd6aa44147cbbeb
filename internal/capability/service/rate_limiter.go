package service

import (
	"sync"
	"time"
)

// windowLength is the fixed rate-limit window. Windows are aligned to the
// first call for a key, not wall-clock minutes; this is coarse by design
// since the bound is advisory rate control, not exact quota accounting.
const windowLength = 60 * time.Second

// rateWindow tracks call volume for one key within the current window.
type rateWindow struct {
	count       int
	windowStart time.Time
}

// fixedWindowRateLimiter implements RateLimiter with a fixed 60-second window
// per key. Shared across all callers of one validator instance; every mutation
// happens under the mutex so concurrent calls cannot both observe "under limit".
type fixedWindowRateLimiter struct {
	mu      sync.Mutex
	windows map[string]*rateWindow
	now     func() time.Time
}

// NewRateLimiter creates a new fixed-window RateLimiter.
func NewRateLimiter() RateLimiter {
	return &fixedWindowRateLimiter{
		windows: make(map[string]*rateWindow),
		now:     time.Now,
	}
}

// TryAcquire consumes one unit of quota for the key.
//
// On the first call for a key, or when the current window has elapsed, the
// window resets (count = 1) and the call is allowed. Otherwise the call is
// allowed while the count is below the limit. A non-positive limit disables
// rate limiting for the key.
func (r *fixedWindowRateLimiter) TryAcquire(key string, limit int) bool {
	if limit <= 0 {
		return true
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	window, ok := r.windows[key]
	if !ok || now.Sub(window.windowStart) > windowLength {
		r.windows[key] = &rateWindow{count: 1, windowStart: now}
		return true
	}

	if window.count < limit {
		window.count++
		return true
	}

	return false
}

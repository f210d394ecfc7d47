package registry

import (
	"context"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// DefaultBackoff applies after a 429 without a usable Retry-After header.
const DefaultBackoff = 5 * time.Second

// RateLimiter throttles requests to one registry with a token bucket and
// honours back-off periods reported by the registry.
type RateLimiter struct {
	mu      sync.Mutex
	limiter *rate.Limiter
	retryAt time.Time
}

// NewRateLimiter allows rps sustained requests per second with bursts of burst.
// A non-positive rps disables throttling.
func NewRateLimiter(rps float64, burst int) *RateLimiter {
	limit := rate.Limit(rps)
	if rps <= 0 {
		limit = rate.Inf
	}
	if burst < 1 {
		burst = 1
	}
	return &RateLimiter{limiter: rate.NewLimiter(limit, burst)}
}

// Wait blocks until a request may be sent, first sitting out any back-off.
func (r *RateLimiter) Wait(ctx context.Context) error {
	r.mu.Lock()
	retryAt := r.retryAt
	r.mu.Unlock()

	if wait := time.Until(retryAt); wait > 0 {
		timer := time.NewTimer(wait)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-timer.C:
		}
	}

	return r.limiter.Wait(ctx)
}

// Backoff delays every request until d from now. Negative d means DefaultBackoff.
func (r *RateLimiter) Backoff(d time.Duration) {
	if d < 0 {
		d = DefaultBackoff
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if until := time.Now().Add(d); until.After(r.retryAt) {
		r.retryAt = until
	}
}

// Pending returns the remaining back-off, or 0.
func (r *RateLimiter) Pending() time.Duration {
	r.mu.Lock()
	defer r.mu.Unlock()

	if wait := time.Until(r.retryAt); wait > 0 {
		return wait
	}
	return 0
}

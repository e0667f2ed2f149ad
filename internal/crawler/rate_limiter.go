package crawler

import (
	"context"
	"time"

	"golang.org/x/time/rate"
)

// RateLimiter enforces one global cadence for fetch starts: after a
// permitted start, the next Wait returns no sooner than interval later.
// Timing comes from time.Now's monotonic reading, so wall-clock jumps do
// not shorten or stretch the gap.
type RateLimiter struct {
	limiter *rate.Limiter
}

// NewRateLimiter creates a limiter with the given minimum interval.
// A non-positive interval disables throttling.
func NewRateLimiter(interval time.Duration) *RateLimiter {
	limit := rate.Inf
	if interval > 0 {
		limit = rate.Every(interval)
	}

	return &RateLimiter{limiter: rate.NewLimiter(limit, 1)}
}

// Wait blocks until the next fetch may start or ctx is done
func (r *RateLimiter) Wait(ctx context.Context) error {
	return r.limiter.Wait(ctx)
}

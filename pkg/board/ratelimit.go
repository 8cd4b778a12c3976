package board

import (
	"golang.org/x/time/rate"
)

// NewRateLimiter returns a token bucket limiter allowing rps requests per second
// with the given burst. It satisfies RateLimiter.
func NewRateLimiter(rps float64, burst int) *rate.Limiter {
	if burst < 1 {
		burst = 1
	}
	limit := rate.Limit(rps)
	if rps <= 0 {
		limit = rate.Inf
	}
	return rate.NewLimiter(limit, burst)
}

var _ RateLimiter = (*rate.Limiter)(nil)

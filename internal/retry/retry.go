// Package retry runs operations with exponential backoff and classifies the
// errors they fail with.
package retry

import (
	"context"
	"math"
	"time"

	"github.com/eshaffer321/board-go/internal/types"
)

const (
	defaultMaxRetries = 3
	defaultBaseDelay  = time.Second
	defaultMultiplier = 2.0
)

// Policy configures a single Do call
type Policy struct {
	// MaxRetries is the number of retries after the first attempt
	MaxRetries int

	// BaseDelay is the wait before the first retry
	BaseDelay time.Duration

	// Multiplier grows the delay after every retry
	Multiplier float64

	// OnRetry observes each retry before the backoff wait
	OnRetry func(attempt, maxRetries int, err error)
}

// DefaultPolicy returns the general purpose policy: 3 retries, 1s base, doubling
func DefaultPolicy() Policy {
	return Policy{
		MaxRetries: defaultMaxRetries,
		BaseDelay:  defaultBaseDelay,
		Multiplier: defaultMultiplier,
	}
}

// GetPolicy returns the policy applied to idempotent GET requests
func GetPolicy() Policy {
	return Policy{
		MaxRetries: 2,
		BaseDelay:  500 * time.Millisecond,
		Multiplier: 2,
	}
}

func (p Policy) normalize() Policy {
	if p.MaxRetries < 0 {
		p.MaxRetries = 0
	}
	if p.BaseDelay <= 0 {
		p.BaseDelay = defaultBaseDelay
	}
	if p.Multiplier <= 1 {
		p.Multiplier = defaultMultiplier
	}
	return p
}

// Backoff returns the wait after the given zero-based failed attempt
func Backoff(p Policy, attempt int) time.Duration {
	p = p.normalize()
	if attempt < 0 {
		attempt = 0
	}
	d := float64(p.BaseDelay) * math.Pow(p.Multiplier, float64(attempt))
	if d > float64(math.MaxInt64) {
		return time.Duration(math.MaxInt64)
	}
	return time.Duration(d)
}

// Sleep waits for d or until ctx is done
func Sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// sleep is swapped in tests
var sleep = Sleep

// Do runs op until it succeeds, fails with a client error other than 429, or the
// policy is exhausted.
// The last error is returned on exhaustion.
func Do(ctx context.Context, op func(ctx context.Context) error, p Policy) error {
	p = p.normalize()

	var lastErr error
	for attempt := 0; attempt <= p.MaxRetries; attempt++ {
		err := op(ctx)
		if err == nil {
			return nil
		}
		lastErr = err

		if IsClientError(err) && !IsRateLimited(err) {
			return err
		}
		if ctx.Err() != nil {
			return err
		}
		if attempt == p.MaxRetries {
			break
		}

		if p.OnRetry != nil {
			p.OnRetry(attempt+1, p.MaxRetries, err)
		}
		if err := sleep(ctx, Backoff(p, attempt)); err != nil {
			return lastErr
		}
	}
	return lastErr
}

// DoValue is Do for operations that produce a value
func DoValue[T any](ctx context.Context, op func(ctx context.Context) (T, error), p Policy) (T, error) {
	var result T
	err := Do(ctx, func(ctx context.Context) error {
		v, err := op(ctx)
		if err != nil {
			return err
		}
		result = v
		return nil
	}, p)
	return result, err
}

// Safe runs fn and returns fallback instead of an error
func Safe[T any](ctx context.Context, fn func(ctx context.Context) (T, error), fallback T, logger types.Logger) T {
	v, err := fn(ctx)
	if err != nil {
		types.OrNop(logger).Error("safe execute failed", "error", err)
		return fallback
	}
	return v
}

// Package fetch provides decorators for category fetchers.
package fetch

import (
	"context"
	"fmt"

	"golang.org/x/time/rate"

	"github.com/custodia-labs/quickfind/internal/core/domain"
	"github.com/custodia-labs/quickfind/internal/core/ports/driven"
)

// Ensure RateLimiter implements the interface.
var _ driven.CategoryFetcher = (*RateLimiter)(nil)

// RateLimiter throttles a category fetcher with a token bucket. A waiting
// fetch gives up when its context ends; the wait counts against any fetch
// timeout the caller applied.
type RateLimiter struct {
	next    driven.CategoryFetcher
	limiter *rate.Limiter
}

// RateLimited wraps next with a limit of rps requests per second and the
// given burst. A non-positive rps disables throttling.
func RateLimited(next driven.CategoryFetcher, rps float64, burst int) *RateLimiter {
	if burst <= 0 {
		burst = 1
	}
	return &RateLimiter{
		next:    next,
		limiter: rate.NewLimiter(limitFor(rps), burst),
	}
}

// Fetch waits for a token, then delegates.
func (r *RateLimiter) Fetch(ctx context.Context, text string, limit, offset int) ([]domain.Item, error) {
	if err := r.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit: %w", err)
	}
	return r.next.Fetch(ctx, text, limit, offset)
}

// SetRate changes the sustained rate. A non-positive rps disables throttling.
func (r *RateLimiter) SetRate(rps float64) {
	r.limiter.SetLimit(limitFor(rps))
}

// Wrap decorates every fetcher in fetchers with its own limiter.
func Wrap(fetchers map[domain.Category]driven.CategoryFetcher, rps float64, burst int) map[domain.Category]*RateLimiter {
	out := make(map[domain.Category]*RateLimiter, len(fetchers))
	for c, f := range fetchers {
		out[c] = RateLimited(f, rps, burst)
	}
	return out
}

func limitFor(rps float64) rate.Limit {
	if rps <= 0 {
		return rate.Inf
	}
	return rate.Limit(rps)
}

package ratelimit

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/amishk599/jobfeed/internal/model"
)

// Endpoint keys used by RateLimitedSource.
const (
	EndpointFeed   = "feed"
	EndpointDetail = "detail"
)

// Limiter enforces a minimum gap between requests that share a key.
type Limiter struct {
	mu       sync.Mutex
	next     map[string]time.Time // earliest start of the next request, per key
	minDelay time.Duration
}

// NewLimiter creates a limiter that spaces requests with the same key at
// least minDelay apart. A zero minDelay never blocks.
func NewLimiter(minDelay time.Duration) *Limiter {
	return &Limiter{
		next:     make(map[string]time.Time),
		minDelay: minDelay,
	}
}

// Wait blocks until the caller may issue a request for key. The slot is
// reserved under the lock, so concurrent callers queue up behind each other.
// Returns an error if the context is cancelled while waiting.
func (l *Limiter) Wait(ctx context.Context, key string) error {
	l.mu.Lock()
	now := time.Now()
	start := now
	if next, ok := l.next[key]; ok && next.After(now) {
		start = next
	}
	l.next[key] = start.Add(l.minDelay)
	l.mu.Unlock()

	wait := start.Sub(now)
	if wait <= 0 {
		return nil
	}

	timer := time.NewTimer(wait)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return fmt.Errorf("rate limiter wait for %s: %w", key, ctx.Err())
	case <-timer.C:
		return nil
	}
}

// Ensure RateLimitedSource implements model.FeedSource.
var _ model.FeedSource = (*RateLimitedSource)(nil)

// RateLimitedSource is a decorator that spaces out requests per endpoint
// before delegating to the wrapped FeedSource.
type RateLimitedSource struct {
	inner   model.FeedSource
	limiter *Limiter
}

// NewRateLimitedSource wraps a FeedSource with per-endpoint rate limiting.
func NewRateLimitedSource(inner model.FeedSource, limiter *Limiter) *RateLimitedSource {
	return &RateLimitedSource{
		inner:   inner,
		limiter: limiter,
	}
}

// FetchFeed waits for the feed endpoint slot, then delegates.
func (s *RateLimitedSource) FetchFeed(ctx context.Context) ([]model.RawJob, error) {
	if err := s.limiter.Wait(ctx, EndpointFeed); err != nil {
		return nil, err
	}
	return s.inner.FetchFeed(ctx)
}

// FetchJob waits for the detail endpoint slot, then delegates.
func (s *RateLimitedSource) FetchJob(ctx context.Context, id string) (model.RawJob, error) {
	if err := s.limiter.Wait(ctx, EndpointDetail); err != nil {
		return model.RawJob{}, err
	}
	return s.inner.FetchJob(ctx, id)
}

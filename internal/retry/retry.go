package retry

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand"
	"time"

	"github.com/amishk599/jobfeed/internal/model"
)

// Ensure RetrySource implements model.FeedSource.
var _ model.FeedSource = (*RetrySource)(nil)

// RetrySource is a decorator that retries transient failures with exponential
// backoff and jitter before giving up on the wrapped FeedSource.
type RetrySource struct {
	inner      model.FeedSource
	maxRetries int
	baseDelay  time.Duration
	logger     *slog.Logger
}

// NewRetrySource wraps a FeedSource with retry logic.
// maxRetries is the number of additional attempts after the first failure.
// baseDelay is the delay before the first retry, doubled on each subsequent retry.
func NewRetrySource(inner model.FeedSource, maxRetries int, baseDelay time.Duration, logger *slog.Logger) *RetrySource {
	return &RetrySource{
		inner:      inner,
		maxRetries: maxRetries,
		baseDelay:  baseDelay,
		logger:     logger,
	}
}

// FetchFeed fetches the bulk listing, retrying on transient errors.
func (s *RetrySource) FetchFeed(ctx context.Context) ([]model.RawJob, error) {
	return do(ctx, s, "feed", func() ([]model.RawJob, error) {
		return s.inner.FetchFeed(ctx)
	})
}

// FetchJob fetches one record, retrying on transient errors.
func (s *RetrySource) FetchJob(ctx context.Context, id string) (model.RawJob, error) {
	return do(ctx, s, "job "+id, func() (model.RawJob, error) {
		return s.inner.FetchJob(ctx, id)
	})
}

func do[T any](ctx context.Context, s *RetrySource, op string, call func() (T, error)) (T, error) {
	var zero T
	v, err := call()
	if err == nil {
		return v, nil
	}
	if !isRetryable(err) {
		return zero, err
	}

	lastErr := err
	for attempt := 1; attempt <= s.maxRetries; attempt++ {
		delay := s.backoffDelay(attempt, lastErr)

		s.logger.Warn("retrying after transient error",
			"op", op,
			"attempt", attempt,
			"max_retries", s.maxRetries,
			"delay", delay,
			"error", lastErr,
		)

		select {
		case <-ctx.Done():
			return zero, fmt.Errorf("retry cancelled: %w", ctx.Err())
		case <-time.After(delay):
		}

		v, err = call()
		if err == nil {
			return v, nil
		}
		if !isRetryable(err) {
			return zero, err
		}
		lastErr = err
	}

	return zero, lastErr
}

// backoffDelay computes the delay for a given attempt with ±30% jitter.
// If the error includes a Retry-After duration (HTTP 429), that takes precedence.
func (s *RetrySource) backoffDelay(attempt int, err error) time.Duration {
	var httpErr *model.HTTPError
	if errors.As(err, &httpErr) && httpErr.RetryAfter > 0 {
		return httpErr.RetryAfter
	}

	// Exponential: baseDelay * 2^(attempt-1)
	delay := s.baseDelay
	for i := 1; i < attempt; i++ {
		delay *= 2
	}

	jitter := float64(delay) * 0.3
	return time.Duration(float64(delay) + (rand.Float64()*2-1)*jitter)
}

// isRetryable returns true if the error represents a transient failure worth retrying.
func isRetryable(err error) bool {
	if err == nil {
		return false
	}

	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}

	// A malformed payload or a missing job will not fix itself.
	var decErr *model.DecodeError
	if errors.As(err, &decErr) || errors.Is(err, model.ErrJobNotFound) {
		return false
	}

	// The scraper behind the feed reports a failed run as success=false; the
	// next run usually succeeds.
	if errors.Is(err, model.ErrSourceRejected) {
		return true
	}

	var httpErr *model.HTTPError
	if errors.As(err, &httpErr) {
		// 429 and 5xx are transient; any other 4xx is not.
		return httpErr.StatusCode == 429 || httpErr.StatusCode >= 500
	}

	// Network errors.
	return true
}

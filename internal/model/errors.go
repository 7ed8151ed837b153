package model

import (
	"errors"
	"fmt"
	"time"
)

var (
	// ErrFeedUnavailable is returned by the loader when the remote fetch
	// failed and no cached snapshot exists at all.
	ErrFeedUnavailable = errors.New("feed unavailable")

	// ErrSourceRejected means the source answered with success=false.
	ErrSourceRejected = errors.New("source reported success=false")

	// ErrJobNotFound means a detail lookup returned no record.
	ErrJobNotFound = errors.New("job not found")
)

// HTTPError wraps an HTTP status code so retry logic can inspect it.
type HTTPError struct {
	StatusCode int
	RetryAfter time.Duration // from Retry-After header, zero if absent
	Err        error
}

func (e *HTTPError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("HTTP %d: %v", e.StatusCode, e.Err)
	}
	return fmt.Sprintf("HTTP %d", e.StatusCode)
}

func (e *HTTPError) Unwrap() error {
	return e.Err
}

// DecodeError means the payload did not match the expected envelope.
type DecodeError struct {
	Err error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode feed payload: %v", e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

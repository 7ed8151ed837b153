// Package cache persists the last good feed snapshot in a key/value medium
// that survives process restarts.
package cache

import "context"

// KV is the persistent medium behind a Store. SetAll must replace every
// given key atomically so readers never see half of a write.
type KV interface {
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	SetAll(ctx context.Context, entries map[string]string) error
	Close() error
}

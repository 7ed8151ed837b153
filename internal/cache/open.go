package cache

import (
	"context"
	"fmt"
)

// Supported cache backends.
const (
	BackendSQLite = "sqlite"
	BackendRedis  = "redis"
	BackendNone   = "none"
)

// OpenKV opens the medium named by backend. path is used by sqlite and
// redisURL by redis.
func OpenKV(ctx context.Context, backend, path, redisURL string) (KV, error) {
	switch backend {
	case BackendSQLite, "":
		return NewSQLiteKV(path)
	case BackendRedis:
		return NewRedisKV(ctx, redisURL)
	case BackendNone:
		return NewNopKV(), nil
	default:
		return nil, fmt.Errorf("unknown cache backend %q", backend)
	}
}

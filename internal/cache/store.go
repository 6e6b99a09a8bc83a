// Package cache holds precomputed dashboard aggregates per gym. Entries are
// JSON values with an explicit TTL; a cache is only ever an optimisation and
// every reader must be able to recompute on a miss.
package cache

import (
	"context"
	"time"
)

type Store interface {
	// Get decodes the value under key into dest and reports whether it was
	// present.
	Get(ctx context.Context, key string, dest interface{}) (bool, error)
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
}

package cache

import (
	"context"
	"time"

	"github.com/Abduqodir7007/fitness-crm/internal/logger"
)

type Result string

const (
	ResultHit   Result = "hit"
	ResultMiss  Result = "miss"
	ResultError Result = "error"
)

// GetOrCompute returns the cached value under key or computes and stores it.
// Cache failures are logged with fields and never returned: a read error
// falls through to compute and a write error still returns the computed
// value. Only compute errors reach the caller.
func GetOrCompute[T any](
	ctx context.Context,
	store Store,
	key string,
	ttl time.Duration,
	compute func(ctx context.Context) (T, error),
	fields ...any,
) (T, Result, error) {
	result := ResultMiss

	if store != nil {
		var cached T
		ok, err := store.Get(ctx, key, &cached)
		switch {
		case err != nil:
			result = ResultError
			logger.WithError(err).Warn("cache read failed", append([]any{"key", key}, fields...)...)
		case ok:
			return cached, ResultHit, nil
		}
	}

	value, err := compute(ctx)
	if err != nil {
		var zero T
		return zero, result, err
	}

	if store != nil {
		if err := store.Set(ctx, key, value, ttl); err != nil {
			result = ResultError
			logger.WithError(err).Warn("cache write failed", append([]any{"key", key}, fields...)...)
		}
	}

	return value, result, nil
}

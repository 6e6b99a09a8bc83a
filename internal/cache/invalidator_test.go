package cache

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInvalidator(t *testing.T) {
	ctx := context.Background()
	store := NewMemory(fixedNow())
	keys := NewKeys("crm")
	gymA, gymB := uuid.New(), uuid.New()

	require.NoError(t, store.Set(ctx, keys.WeeklyVisits(gymA), 1, time.Hour))
	require.NoError(t, store.Set(ctx, keys.MonthlyProfit(gymA), 1, time.Hour))
	require.NoError(t, store.Set(ctx, keys.WeeklyVisits(gymB), 1, time.Hour))

	NewInvalidator(store, keys).Invalidate(ctx, gymA)

	var v int
	ok, _ := store.Get(ctx, keys.WeeklyVisits(gymA), &v)
	assert.False(t, ok)
	ok, _ = store.Get(ctx, keys.MonthlyProfit(gymA), &v)
	assert.False(t, ok)
	ok, _ = store.Get(ctx, keys.WeeklyVisits(gymB), &v)
	assert.True(t, ok, "other gyms keep their entries")

	// outage is swallowed
	NewInvalidator(&failingStore{}, keys).Invalidate(ctx, gymA)
}

package dashboard

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Abduqodir7007/fitness-crm/internal/analytics"
	"github.com/Abduqodir7007/fitness-crm/internal/cache"
	"github.com/Abduqodir7007/fitness-crm/internal/clock"
	"github.com/Abduqodir7007/fitness-crm/internal/metrics"
	"github.com/Abduqodir7007/fitness-crm/internal/subscription"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockAnalytics struct {
	mock.Mock
}

func (m *MockAnalytics) UserStats(ctx context.Context, tenantID uuid.UUID) (*analytics.UserStats, error) {
	args := m.Called(ctx, tenantID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*analytics.UserStats), args.Error(1)
}

func (m *MockAnalytics) SubscriptionStats(ctx context.Context, tenantID uuid.UUID) (*analytics.SubscriptionStats, error) {
	args := m.Called(ctx, tenantID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*analytics.SubscriptionStats), args.Error(1)
}

func (m *MockAnalytics) ProfitWindow(ctx context.Context, tenantID uuid.UUID, start, end time.Time) (int64, error) {
	args := m.Called(ctx, tenantID, start, end)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockAnalytics) ProfitSummary(ctx context.Context, tenantID uuid.UUID) (*analytics.ProfitSummary, error) {
	args := m.Called(ctx, tenantID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*analytics.ProfitSummary), args.Error(1)
}

func (m *MockAnalytics) UpcomingExpirations(ctx context.Context, tenantID uuid.UUID, offsets []int) ([]analytics.Expiring, error) {
	args := m.Called(ctx, tenantID, offsets)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]analytics.Expiring), args.Error(1)
}

func (m *MockAnalytics) MonthlyProfitSeries(ctx context.Context, tenantID uuid.UUID, monthsBack int) ([]analytics.MonthProfit, error) {
	args := m.Called(ctx, tenantID, monthsBack)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]analytics.MonthProfit), args.Error(1)
}

func (m *MockAnalytics) DailyPassCounts(ctx context.Context, tenantID uuid.UUID, start, end time.Time) ([]analytics.DayCount, error) {
	args := m.Called(ctx, tenantID, start, end)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]analytics.DayCount), args.Error(1)
}

func (m *MockAnalytics) WeeklyVisits(ctx context.Context, tenantID uuid.UUID) ([]analytics.DayCount, error) {
	args := m.Called(ctx, tenantID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]analytics.DayCount), args.Error(1)
}

type MockPayments struct {
	mock.Mock
}

func (m *MockPayments) PaymentHistory(ctx context.Context, tenantID uuid.UUID, limit, offset int) ([]subscription.PaymentRecord, error) {
	args := m.Called(ctx, tenantID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]subscription.PaymentRecord), args.Error(1)
}

// brokenStore fails every read and write.
type brokenStore struct{}

func (brokenStore) Get(context.Context, string, interface{}) (bool, error) {
	return false, errors.New("redis: connection refused")
}

func (brokenStore) Set(context.Context, string, interface{}, time.Duration) error {
	return errors.New("redis: connection refused")
}

func (brokenStore) Delete(context.Context, ...string) error {
	return errors.New("redis: connection refused")
}

func newTestService(store cache.Store) (Service, *MockAnalytics, *MockPayments, *clock.Fake) {
	a := new(MockAnalytics)
	p := new(MockPayments)
	clk := clock.NewFake(time.Date(2024, time.May, 10, 14, 0, 0, 0, time.UTC))
	if store == nil {
		store = cache.NewMemory(clk)
	}
	svc := NewService(a, store, cache.NewKeys("test"), p, clk, 24*time.Hour)
	return svc, a, p, clk
}

func week() []analytics.DayCount {
	return []analytics.DayCount{
		{Day: "2024-05-03", Count: 1},
		{Day: "2024-05-04", Count: 0},
		{Day: "2024-05-05", Count: 3},
		{Day: "2024-05-06", Count: 0},
		{Day: "2024-05-07", Count: 2},
		{Day: "2024-05-08", Count: 0},
		{Day: "2024-05-09", Count: 4},
	}
}

func TestService_WeeklyClients(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()

	t.Run("second call is served from cache", func(t *testing.T) {
		svc, a, _, _ := newTestService(nil)
		a.On("WeeklyVisits", mock.Anything, tenantID).Return(week(), nil).Once()

		first, err := svc.WeeklyClients(ctx, tenantID)
		require.NoError(t, err)
		second, err := svc.WeeklyClients(ctx, tenantID)
		require.NoError(t, err)

		assert.Equal(t, first, second)
		assert.Len(t, second, 7)
		a.AssertNumberOfCalls(t, "WeeklyVisits", 1)
	})

	t.Run("entry expires at midnight", func(t *testing.T) {
		svc, a, _, clk := newTestService(nil)
		a.On("WeeklyVisits", mock.Anything, tenantID).Return(week(), nil)

		_, err := svc.WeeklyClients(ctx, tenantID)
		require.NoError(t, err)

		clk.Advance(9*time.Hour + 59*time.Minute)
		_, err = svc.WeeklyClients(ctx, tenantID)
		require.NoError(t, err)
		a.AssertNumberOfCalls(t, "WeeklyVisits", 1)

		clk.Advance(2 * time.Minute)
		_, err = svc.WeeklyClients(ctx, tenantID)
		require.NoError(t, err)
		a.AssertNumberOfCalls(t, "WeeklyVisits", 2)
	})

	t.Run("cache outage still returns the series", func(t *testing.T) {
		svc, a, _, _ := newTestService(brokenStore{})
		a.On("WeeklyVisits", mock.Anything, tenantID).Return(week(), nil)

		got, err := svc.WeeklyClients(ctx, tenantID)
		require.NoError(t, err)
		assert.Equal(t, week(), got)
	})

	t.Run("compute error is returned", func(t *testing.T) {
		svc, a, _, _ := newTestService(nil)
		a.On("WeeklyVisits", mock.Anything, tenantID).Return(nil, errors.New("db down"))

		_, err := svc.WeeklyClients(ctx, tenantID)
		assert.Error(t, err)
	})

	t.Run("tenants do not share entries", func(t *testing.T) {
		svc, a, _, _ := newTestService(nil)
		other := uuid.New()
		a.On("WeeklyVisits", mock.Anything, tenantID).Return(week(), nil).Once()
		a.On("WeeklyVisits", mock.Anything, other).Return([]analytics.DayCount{}, nil).Once()

		_, err := svc.WeeklyClients(ctx, tenantID)
		require.NoError(t, err)
		got, err := svc.WeeklyClients(ctx, other)
		require.NoError(t, err)

		assert.Empty(t, got)
		a.AssertExpectations(t)
	})
}

func TestService_CacheLookupsLabelledByView(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()
	clk := clock.NewFake(time.Date(2024, time.May, 10, 14, 0, 0, 0, time.UTC))
	a := new(MockAnalytics)
	a.On("WeeklyVisits", mock.Anything, tenantID).Return(week(), nil)

	store := cache.NewMemory(clk)
	keys := cache.NewKeys("test")
	svc := NewService(a, store, keys, new(MockPayments), clk, 24*time.Hour)

	misses := testutil.ToFloat64(metrics.DashboardCacheTotal.WithLabelValues(cache.ViewWeeklyVisits, string(cache.ResultMiss)))
	hits := testutil.ToFloat64(metrics.DashboardCacheTotal.WithLabelValues(cache.ViewWeeklyVisits, string(cache.ResultHit)))

	_, err := svc.WeeklyClients(ctx, tenantID)
	require.NoError(t, err)
	_, err = svc.WeeklyClients(ctx, tenantID)
	require.NoError(t, err)

	assert.Equal(t, misses+1, testutil.ToFloat64(metrics.DashboardCacheTotal.WithLabelValues(cache.ViewWeeklyVisits, string(cache.ResultMiss))))
	assert.Equal(t, hits+1, testutil.ToFloat64(metrics.DashboardCacheTotal.WithLabelValues(cache.ViewWeeklyVisits, string(cache.ResultHit))))

	var cached []analytics.DayCount
	ok, err := store.Get(ctx, keys.WeeklyVisits(tenantID), &cached)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Contains(t, keys.WeeklyVisits(tenantID), ":"+cache.ViewWeeklyVisits+":")
}

func TestService_MonthlyProfit(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()
	series := []analytics.MonthProfit{
		{Month: "2023-12", Profit: 0},
		{Month: "2024-01", Profit: 500000},
		{Month: "2024-02", Profit: 0},
		{Month: "2024-03", Profit: 250000},
		{Month: "2024-04", Profit: 100000},
	}

	svc, a, _, clk := newTestService(nil)
	a.On("MonthlyProfitSeries", mock.Anything, tenantID, analytics.DefaultMonthsBack).Return(series, nil)

	got, err := svc.MonthlyProfit(ctx, tenantID)
	require.NoError(t, err)
	assert.Equal(t, series, got)

	// capped at 24h even though the month ends later
	clk.Advance(23 * time.Hour)
	_, err = svc.MonthlyProfit(ctx, tenantID)
	require.NoError(t, err)
	a.AssertNumberOfCalls(t, "MonthlyProfitSeries", 1)

	clk.Advance(2 * time.Hour)
	_, err = svc.MonthlyProfit(ctx, tenantID)
	require.NoError(t, err)
	a.AssertNumberOfCalls(t, "MonthlyProfitSeries", 2)
}

func TestService_InvalidateForcesRecompute(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()
	clk := clock.NewFake(time.Date(2024, time.May, 10, 14, 0, 0, 0, time.UTC))
	store := cache.NewMemory(clk)
	keys := cache.NewKeys("test")
	a := new(MockAnalytics)

	svc := NewService(a, store, keys, new(MockPayments), clk, time.Hour)

	before := []analytics.MonthProfit{{Month: "2024-04", Profit: 100000}}
	after := []analytics.MonthProfit{{Month: "2024-04", Profit: 250000}}
	a.On("MonthlyProfitSeries", mock.Anything, tenantID, analytics.DefaultMonthsBack).Return(before, nil).Once()
	a.On("MonthlyProfitSeries", mock.Anything, tenantID, analytics.DefaultMonthsBack).Return(after, nil).Once()

	got, err := svc.MonthlyProfit(ctx, tenantID)
	require.NoError(t, err)
	assert.Equal(t, before, got)

	// the ledger holds its own invalidator over the same store
	cache.NewInvalidator(store, keys).Invalidate(ctx, tenantID)

	got, err = svc.MonthlyProfit(ctx, tenantID)
	require.NoError(t, err)
	assert.Equal(t, after, got)
	a.AssertExpectations(t)
}

func TestService_Passthrough(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()
	svc, a, p, _ := newTestService(nil)

	a.On("UserStats", mock.Anything, tenantID).Return(&analytics.UserStats{TotalActiveUsers: 4}, nil)
	a.On("UpcomingExpirations", mock.Anything, tenantID, analytics.DefaultExpiryOffsets).
		Return([]analytics.Expiring{{FirstName: "Aziz", DaysLeft: 1, Status: analytics.StatusEndingSoon}}, nil)
	p.On("PaymentHistory", mock.Anything, tenantID, 20, 40).Return([]subscription.PaymentRecord{{FirstName: "Aziz"}}, nil)

	stats, err := svc.UserStats(ctx, tenantID)
	require.NoError(t, err)
	assert.Equal(t, 4, stats.TotalActiveUsers)

	notes, err := svc.Notifications(ctx, tenantID)
	require.NoError(t, err)
	assert.Len(t, notes, 1)

	history, err := svc.PaymentHistory(ctx, tenantID, 20, 40)
	require.NoError(t, err)
	assert.Equal(t, "Aziz", history[0].FirstName)
}

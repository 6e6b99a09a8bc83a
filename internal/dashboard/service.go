package dashboard

import (
	"context"
	"time"

	"github.com/Abduqodir7007/fitness-crm/internal/analytics"
	"github.com/Abduqodir7007/fitness-crm/internal/cache"
	"github.com/Abduqodir7007/fitness-crm/internal/clock"
	"github.com/Abduqodir7007/fitness-crm/internal/metrics"
	"github.com/Abduqodir7007/fitness-crm/internal/subscription"

	"github.com/google/uuid"
)

// PaymentSource lists recent payments of a gym.
type PaymentSource interface {
	PaymentHistory(ctx context.Context, tenantID uuid.UUID, limit, offset int) ([]subscription.PaymentRecord, error)
}

type Service interface {
	WeeklyClients(ctx context.Context, tenantID uuid.UUID) ([]analytics.DayCount, error)
	MonthlyProfit(ctx context.Context, tenantID uuid.UUID) ([]analytics.MonthProfit, error)
	UserStats(ctx context.Context, tenantID uuid.UUID) (*analytics.UserStats, error)
	SubscriptionStats(ctx context.Context, tenantID uuid.UUID) (*analytics.SubscriptionStats, error)
	Profit(ctx context.Context, tenantID uuid.UUID) (*analytics.ProfitSummary, error)
	Notifications(ctx context.Context, tenantID uuid.UUID) ([]analytics.Expiring, error)
	PaymentHistory(ctx context.Context, tenantID uuid.UUID, limit, offset int) ([]subscription.PaymentRecord, error)
	Invalidate(ctx context.Context, tenantID uuid.UUID)
}

type service struct {
	analytics   analytics.Service
	store       cache.Store
	keys        cache.Keys
	invalidator *cache.Invalidator
	payments    PaymentSource
	clock       clock.Clock
	monthlyTTL  cache.TTLPolicy
}

// NewService wires the dashboard. store may be nil, in which case every view
// is computed on each request. monthlyTTL caps the month-end expiry of the
// monthly series.
func NewService(
	analyticsService analytics.Service,
	store cache.Store,
	keys cache.Keys,
	payments PaymentSource,
	clk clock.Clock,
	monthlyTTL time.Duration,
) Service {
	return &service{
		analytics:   analyticsService,
		store:       store,
		keys:        keys,
		invalidator: cache.NewInvalidator(store, keys),
		payments:    payments,
		clock:       clk,
		monthlyTTL:  cache.Capped(cache.UntilMonthEnd, monthlyTTL),
	}
}

// WeeklyClients serves the seven-day visit series ending yesterday. The
// cached copy expires at the next midnight so the window moves exactly once
// per day.
func (s *service) WeeklyClients(ctx context.Context, tenantID uuid.UUID) ([]analytics.DayCount, error) {
	series, res, err := cache.GetOrCompute(ctx, s.store, s.keys.WeeklyVisits(tenantID),
		cache.UntilMidnight(s.clock.Now()),
		func(ctx context.Context) ([]analytics.DayCount, error) {
			return s.analytics.WeeklyVisits(ctx, tenantID)
		},
		"tenant_id", tenantID,
	)
	metrics.RecordCacheLookup(cache.ViewWeeklyVisits, string(res))
	return series, err
}

func (s *service) MonthlyProfit(ctx context.Context, tenantID uuid.UUID) ([]analytics.MonthProfit, error) {
	series, res, err := cache.GetOrCompute(ctx, s.store, s.keys.MonthlyProfit(tenantID),
		s.monthlyTTL(s.clock.Now()),
		func(ctx context.Context) ([]analytics.MonthProfit, error) {
			return s.analytics.MonthlyProfitSeries(ctx, tenantID, analytics.DefaultMonthsBack)
		},
		"tenant_id", tenantID,
	)
	metrics.RecordCacheLookup(cache.ViewMonthlyProfit, string(res))
	return series, err
}

func (s *service) UserStats(ctx context.Context, tenantID uuid.UUID) (*analytics.UserStats, error) {
	return s.analytics.UserStats(ctx, tenantID)
}

func (s *service) SubscriptionStats(ctx context.Context, tenantID uuid.UUID) (*analytics.SubscriptionStats, error) {
	return s.analytics.SubscriptionStats(ctx, tenantID)
}

func (s *service) Profit(ctx context.Context, tenantID uuid.UUID) (*analytics.ProfitSummary, error) {
	return s.analytics.ProfitSummary(ctx, tenantID)
}

func (s *service) Notifications(ctx context.Context, tenantID uuid.UUID) ([]analytics.Expiring, error) {
	return s.analytics.UpcomingExpirations(ctx, tenantID, analytics.DefaultExpiryOffsets)
}

func (s *service) PaymentHistory(ctx context.Context, tenantID uuid.UUID, limit, offset int) ([]subscription.PaymentRecord, error) {
	return s.payments.PaymentHistory(ctx, tenantID, limit, offset)
}

func (s *service) Invalidate(ctx context.Context, tenantID uuid.UUID) {
	s.invalidator.Invalidate(ctx, tenantID)
}

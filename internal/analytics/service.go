package analytics

import (
	"context"
	"time"

	"github.com/Abduqodir7007/fitness-crm/internal/apperr"
	"github.com/Abduqodir7007/fitness-crm/internal/clock"

	"github.com/google/uuid"
)

const (
	WeekDays          = 7
	DefaultMonthsBack = 5
)

// DefaultExpiryOffsets are the days ahead checked for expiring subscriptions.
var DefaultExpiryOffsets = []int{1, 2, 3}

type Service interface {
	UserStats(ctx context.Context, tenantID uuid.UUID) (*UserStats, error)
	SubscriptionStats(ctx context.Context, tenantID uuid.UUID) (*SubscriptionStats, error)
	ProfitWindow(ctx context.Context, tenantID uuid.UUID, start, end time.Time) (int64, error)
	ProfitSummary(ctx context.Context, tenantID uuid.UUID) (*ProfitSummary, error)
	UpcomingExpirations(ctx context.Context, tenantID uuid.UUID, offsets []int) ([]Expiring, error)
	MonthlyProfitSeries(ctx context.Context, tenantID uuid.UUID, monthsBack int) ([]MonthProfit, error)
	DailyPassCounts(ctx context.Context, tenantID uuid.UUID, start, end time.Time) ([]DayCount, error)
	WeeklyVisits(ctx context.Context, tenantID uuid.UUID) ([]DayCount, error)
}

type service struct {
	repo  Repository
	clock clock.Clock
}

func NewService(repo Repository, clk clock.Clock) Service {
	return &service{
		repo:  repo,
		clock: clk,
	}
}

func (s *service) UserStats(ctx context.Context, tenantID uuid.UUID) (*UserStats, error) {
	clients, err := s.repo.CountActiveClients(ctx, tenantID)
	if err != nil {
		return nil, apperr.Wrap("user stats", err)
	}
	trainers, err := s.repo.CountTrainers(ctx, tenantID)
	if err != nil {
		return nil, apperr.Wrap("user stats", err)
	}
	present, err := s.repo.CountAttendance(ctx, tenantID, clock.Today(s.clock))
	if err != nil {
		return nil, apperr.Wrap("user stats", err)
	}

	return &UserStats{
		TotalActiveUsers: clients,
		TotalTrainers:    trainers,
		TodayAttendance:  present,
	}, nil
}

func (s *service) SubscriptionStats(ctx context.Context, tenantID uuid.UUID) (*SubscriptionStats, error) {
	byType, err := s.repo.ActiveSubscriptionsByType(ctx, tenantID, clock.Today(s.clock))
	if err != nil {
		return nil, apperr.Wrap("subscription stats", err)
	}

	// Total is the sum of the grouped rows, never a separate count.
	total := 0
	for _, row := range byType {
		total += row.Count
	}

	return &SubscriptionStats{
		TotalActiveSubscriptions: total,
		ByType:                   withPercentages(byType, total),
	}, nil
}

// withPercentages sets floor(100*count/total) on every row, or 0 when there
// are no active subscriptions.
func withPercentages(rows []TypeCount, total int) []TypeCount {
	for i := range rows {
		if total <= 0 {
			rows[i].Percentage = 0
			continue
		}
		rows[i].Percentage = 100 * rows[i].Count / total
	}
	return rows
}

func (s *service) ProfitWindow(ctx context.Context, tenantID uuid.UUID, start, end time.Time) (int64, error) {
	if end.Before(start) {
		return 0, apperr.Validation("profit window end is before its start")
	}

	sum, err := s.repo.SumPayments(ctx, tenantID, clock.BeginningOfDay(start), clock.BeginningOfDay(end))
	return sum, apperr.Wrap("profit window", err)
}

func (s *service) ProfitSummary(ctx context.Context, tenantID uuid.UUID) (*ProfitSummary, error) {
	today := clock.Today(s.clock)

	daily, err := s.ProfitWindow(ctx, tenantID, today, today)
	if err != nil {
		return nil, err
	}
	weekly, err := s.ProfitWindow(ctx, tenantID, today.AddDate(0, 0, -(WeekDays-1)), today)
	if err != nil {
		return nil, err
	}
	monthly, err := s.ProfitWindow(ctx, tenantID, clock.BeginningOfMonth(today), today)
	if err != nil {
		return nil, err
	}

	return &ProfitSummary{
		DailyProfit:   daily,
		WeeklyProfit:  weekly,
		MonthlyProfit: monthly,
	}, nil
}

func (s *service) UpcomingExpirations(ctx context.Context, tenantID uuid.UUID, offsets []int) ([]Expiring, error) {
	if len(offsets) == 0 {
		offsets = DefaultExpiryOffsets
	}

	today := clock.Today(s.clock)
	days := make([]time.Time, len(offsets))
	for i, off := range offsets {
		days[i] = today.AddDate(0, 0, off)
	}

	rows, err := s.repo.SubscriptionsEndingOn(ctx, tenantID, days)
	if err != nil {
		return nil, apperr.Wrap("upcoming expirations", err)
	}

	for i := range rows {
		rows[i].DaysLeft = clock.DaysBetween(today, rows[i].EndDate)
		rows[i].Status = expiryStatus(rows[i].DaysLeft)
	}

	return rows, nil
}

// expiryStatus keeps the "ended" branch for zero or negative offsets even
// though the default offsets never produce it.
func expiryStatus(daysLeft int) string {
	if daysLeft <= 0 {
		return StatusEnded
	}
	return StatusEndingSoon
}

// MonthlyProfitSeries sums payments per calendar month from the first day of
// the month monthsBack months ago through the last day of the previous
// month. Every month in the window is present and the result is ordered by
// its YYYY-MM key.
func (s *service) MonthlyProfitSeries(ctx context.Context, tenantID uuid.UUID, monthsBack int) ([]MonthProfit, error) {
	if monthsBack <= 0 {
		monthsBack = DefaultMonthsBack
	}

	thisMonth := clock.BeginningOfMonth(s.clock.Now())
	start := thisMonth.AddDate(0, -monthsBack, 0)
	end := thisMonth.AddDate(0, 0, -1)

	rows, err := s.repo.PaymentsByMonth(ctx, tenantID, start, end)
	if err != nil {
		return nil, apperr.Wrap("monthly profit", err)
	}

	return fillMonths(start, monthsBack, rows), nil
}

func fillMonths(start time.Time, n int, rows []MonthProfit) []MonthProfit {
	byMonth := make(map[string]int64, len(rows))
	for _, r := range rows {
		byMonth[r.Month] += r.Profit
	}

	out := make([]MonthProfit, 0, n)
	for i := 0; i < n; i++ {
		key := clock.MonthKey(start.AddDate(0, i, 0))
		out = append(out, MonthProfit{Month: key, Profit: byMonth[key]})
	}
	return out
}

func (s *service) DailyPassCounts(ctx context.Context, tenantID uuid.UUID, start, end time.Time) ([]DayCount, error) {
	rows, err := s.repo.DailyPassCounts(ctx, tenantID, clock.BeginningOfDay(start), clock.BeginningOfDay(end))
	return rows, apperr.Wrap("daily pass counts", err)
}

// WeeklyVisits returns day pass counts for the seven days ending yesterday,
// one entry per day, oldest first.
func (s *service) WeeklyVisits(ctx context.Context, tenantID uuid.UUID) ([]DayCount, error) {
	today := clock.Today(s.clock)
	start := today.AddDate(0, 0, -WeekDays)
	end := today.AddDate(0, 0, -1)

	rows, err := s.DailyPassCounts(ctx, tenantID, start, end)
	if err != nil {
		return nil, err
	}

	return fillDays(start, WeekDays, rows), nil
}

func fillDays(start time.Time, n int, rows []DayCount) []DayCount {
	byDay := make(map[string]int, len(rows))
	for _, r := range rows {
		byDay[r.Day] += r.Count
	}

	out := make([]DayCount, 0, n)
	for i := 0; i < n; i++ {
		key := clock.DateKey(start.AddDate(0, 0, i))
		out = append(out, DayCount{Day: key, Count: byDay[key]})
	}
	return out
}

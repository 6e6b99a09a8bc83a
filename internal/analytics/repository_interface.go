package analytics

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Repository runs the read-side aggregate queries. Every query is filtered
// by gym.
type Repository interface {
	CountActiveClients(ctx context.Context, tenantID uuid.UUID) (int, error)
	CountTrainers(ctx context.Context, tenantID uuid.UUID) (int, error)
	CountAttendance(ctx context.Context, tenantID uuid.UUID, date time.Time) (int, error)
	ActiveSubscriptionsByType(ctx context.Context, tenantID uuid.UUID, today time.Time) ([]TypeCount, error)
	SumPayments(ctx context.Context, tenantID uuid.UUID, start, end time.Time) (int64, error)
	SubscriptionsEndingOn(ctx context.Context, tenantID uuid.UUID, days []time.Time) ([]Expiring, error)
	PaymentsByMonth(ctx context.Context, tenantID uuid.UUID, start, end time.Time) ([]MonthProfit, error)
	DailyPassCounts(ctx context.Context, tenantID uuid.UUID, start, end time.Time) ([]DayCount, error)
}

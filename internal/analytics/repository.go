package analytics

import (
	"context"
	"fmt"
	"time"

	"github.com/Abduqodir7007/fitness-crm/internal/clock"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

func (r *repository) count(ctx context.Context, op, query string, args ...interface{}) (int, error) {
	var n int
	if err := r.db.GetContext(ctx, &n, query, args...); err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return n, nil
}

func (r *repository) CountActiveClients(ctx context.Context, tenantID uuid.UUID) (int, error) {
	return r.count(ctx, "count clients", `
		SELECT COUNT(*) FROM users
		WHERE gym_id = $1 AND is_active = true AND role = 'client' AND is_superuser = false
	`, tenantID)
}

func (r *repository) CountTrainers(ctx context.Context, tenantID uuid.UUID) (int, error) {
	return r.count(ctx, "count trainers", `
		SELECT COUNT(*) FROM users
		WHERE gym_id = $1 AND is_active = true AND role = 'trainer'
	`, tenantID)
}

func (r *repository) CountAttendance(ctx context.Context, tenantID uuid.UUID, date time.Time) (int, error) {
	return r.count(ctx, "count attendance",
		`SELECT COUNT(*) FROM attendance WHERE gym_id = $1 AND date = $2`,
		tenantID, date,
	)
}

func (r *repository) ActiveSubscriptionsByType(ctx context.Context, tenantID uuid.UUID, today time.Time) ([]TypeCount, error) {
	query := `
		SELECT p.type, COUNT(s.id) AS count
		FROM subscriptions s
		JOIN subscription_plans p ON p.id = s.plan_id
		WHERE s.gym_id = $1 AND s.is_active = true AND s.end_date >= $2
		GROUP BY p.type
		ORDER BY count DESC, p.type ASC
	`

	rows := []TypeCount{}
	if err := r.db.SelectContext(ctx, &rows, query, tenantID, today); err != nil {
		return nil, fmt.Errorf("subscriptions by type: %w", err)
	}

	return rows, nil
}

// SumPayments sums payments dated in [start, end], both ends inclusive.
func (r *repository) SumPayments(ctx context.Context, tenantID uuid.UUID, start, end time.Time) (int64, error) {
	query := `
		SELECT COALESCE(SUM(amount), 0)
		FROM payments
		WHERE gym_id = $1 AND payment_date BETWEEN $2 AND $3
	`

	var total int64
	if err := r.db.GetContext(ctx, &total, query, tenantID, start, end); err != nil {
		return 0, fmt.Errorf("sum payments: %w", err)
	}

	return total, nil
}

func (r *repository) SubscriptionsEndingOn(ctx context.Context, tenantID uuid.UUID, days []time.Time) ([]Expiring, error) {
	rows := []Expiring{}
	if len(days) == 0 {
		return rows, nil
	}

	keys := make([]string, len(days))
	for i, d := range days {
		keys[i] = clock.DateKey(d)
	}

	query, args, err := sqlx.In(`
		SELECT s.user_id, u.first_name, u.last_name, u.phone_number, s.end_date
		FROM subscriptions s
		JOIN users u ON u.id = s.user_id
		WHERE s.gym_id = ? AND s.is_active = true AND s.end_date IN (?)
		ORDER BY s.end_date ASC, u.last_name ASC
	`, tenantID, keys)
	if err != nil {
		return nil, fmt.Errorf("build expirations query: %w", err)
	}

	if err := r.db.SelectContext(ctx, &rows, r.db.Rebind(query), args...); err != nil {
		return nil, fmt.Errorf("list expirations: %w", err)
	}

	return rows, nil
}

func (r *repository) PaymentsByMonth(ctx context.Context, tenantID uuid.UUID, start, end time.Time) ([]MonthProfit, error) {
	query := `
		SELECT to_char(payment_date, 'YYYY-MM') AS month, SUM(amount) AS profit
		FROM payments
		WHERE gym_id = $1 AND payment_date BETWEEN $2 AND $3
		GROUP BY month
		ORDER BY month ASC
	`

	rows := []MonthProfit{}
	if err := r.db.SelectContext(ctx, &rows, query, tenantID, start, end); err != nil {
		return nil, fmt.Errorf("payments by month: %w", err)
	}

	return rows, nil
}

func (r *repository) DailyPassCounts(ctx context.Context, tenantID uuid.UUID, start, end time.Time) ([]DayCount, error) {
	query := `
		SELECT to_char(subscription_date, 'YYYY-MM-DD') AS day, COUNT(*) AS count
		FROM daily_passes
		WHERE gym_id = $1 AND subscription_date BETWEEN $2 AND $3
		GROUP BY day
		ORDER BY day ASC
	`

	rows := []DayCount{}
	if err := r.db.SelectContext(ctx, &rows, query, tenantID, start, end); err != nil {
		return nil, fmt.Errorf("daily pass counts: %w", err)
	}

	return rows, nil
}

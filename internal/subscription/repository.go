package subscription

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Abduqodir7007/fitness-crm/internal/clock"
	"github.com/Abduqodir7007/fitness-crm/internal/db"
	"github.com/Abduqodir7007/fitness-crm/internal/plan"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

// ActiveQuery reports whether a user holds an active subscription or a day
// pass for the given date. Arguments: gym id, user id, date.
const ActiveQuery = `
	SELECT EXISTS(
		SELECT 1 FROM subscriptions
		WHERE gym_id = $1 AND user_id = $2 AND is_active = true AND end_date >= $3
	) OR EXISTS(
		SELECT 1 FROM daily_passes
		WHERE gym_id = $1 AND user_id = $2 AND subscription_date = $3
	)
`

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

// CreateSubscription locks the user row, checks the active slot, loads the
// plan and writes the subscription and its payment in one transaction.
func (r *repository) CreateSubscription(ctx context.Context, p AssignParams) (*Assignment, error) {
	var out *Assignment
	day := clock.CalendarDate(p.Today)

	err := db.WithTx(ctx, r.db, func(tx *sqlx.Tx) error {
		if err := claimSlot(ctx, tx, p.TenantID, p.UserID, day); err != nil {
			return err
		}

		var pl plan.Plan
		err := tx.GetContext(ctx, &pl, `
			SELECT id, gym_id, type, price, duration_days, is_active, created_at
			FROM subscription_plans
			WHERE id = $1 AND gym_id = $2 AND is_active = true
		`, p.PlanID, p.TenantID)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return plan.ErrPlanNotFound
			}
			return fmt.Errorf("load plan: %w", err)
		}

		sub := Subscription{
			ID:            uuid.New(),
			TenantID:      p.TenantID,
			UserID:        p.UserID,
			PlanID:        pl.ID,
			TrainerID:     p.TrainerID,
			PaymentMethod: p.PaymentMethod,
			StartDate:     day,
			EndDate:       day.AddDate(0, 0, pl.DurationDays),
			IsActive:      true,
		}
		err = tx.QueryRowxContext(ctx, `
			INSERT INTO subscriptions (id, gym_id, user_id, plan_id, trainer_id, payment_method, start_date, end_date, is_active)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, true)
			RETURNING created_at
		`, sub.ID, sub.TenantID, sub.UserID, sub.PlanID, sub.TrainerID, sub.PaymentMethod, sub.StartDate, sub.EndDate).Scan(&sub.CreatedAt)
		if err != nil {
			return fmt.Errorf("insert subscription: %w", err)
		}

		pay, err := insertPayment(ctx, tx, p.TenantID, p.UserID, pl.Price, p.PaymentMethod, SourceSubscription, day)
		if err != nil {
			return err
		}

		out = &Assignment{Subscription: &sub, Payment: *pay}
		return nil
	})
	if err != nil {
		if db.IsUniqueViolation(err) {
			return nil, ErrActiveSubscriptionExists
		}
		return nil, err
	}

	return out, nil
}

func (r *repository) CreateDailyPass(ctx context.Context, p DailyPassParams) (*Assignment, error) {
	var out *Assignment
	day := clock.CalendarDate(p.Today)

	err := db.WithTx(ctx, r.db, func(tx *sqlx.Tx) error {
		if err := claimSlot(ctx, tx, p.TenantID, p.UserID, day); err != nil {
			return err
		}

		pass := DailyPass{
			ID:               uuid.New(),
			TenantID:         p.TenantID,
			UserID:           p.UserID,
			SubscriptionDate: day,
			Amount:           p.Amount,
		}
		err := tx.QueryRowxContext(ctx, `
			INSERT INTO daily_passes (id, gym_id, user_id, subscription_date, amount)
			VALUES ($1, $2, $3, $4, $5)
			RETURNING created_at
		`, pass.ID, pass.TenantID, pass.UserID, pass.SubscriptionDate, pass.Amount).Scan(&pass.CreatedAt)
		if err != nil {
			return fmt.Errorf("insert daily pass: %w", err)
		}

		pay, err := insertPayment(ctx, tx, p.TenantID, p.UserID, p.Amount, p.PaymentMethod, SourceDailyPass, day)
		if err != nil {
			return err
		}

		out = &Assignment{DailyPass: &pass, Payment: *pay}
		return nil
	})
	if err != nil {
		if db.IsUniqueViolation(err) {
			return nil, ErrActiveSubscriptionExists
		}
		return nil, err
	}

	return out, nil
}

// claimSlot serialises assignments for one user on the user row, releases
// subscriptions that ended before today and fails when the user is still
// active.
func claimSlot(ctx context.Context, tx *sqlx.Tx, tenantID, userID uuid.UUID, today time.Time) error {
	var id uuid.UUID
	err := tx.GetContext(ctx, &id,
		`SELECT id FROM users WHERE id = $1 AND gym_id = $2 FOR UPDATE`,
		userID, tenantID,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrUserNotFound
		}
		return fmt.Errorf("lock user: %w", err)
	}

	_, err = tx.ExecContext(ctx, `
		UPDATE subscriptions SET is_active = false
		WHERE gym_id = $1 AND user_id = $2 AND is_active = true AND end_date < $3
	`, tenantID, userID, today)
	if err != nil {
		return fmt.Errorf("release expired: %w", err)
	}

	active, err := db.Exists(ctx, tx, ActiveQuery, tenantID, userID, today)
	if err != nil {
		return fmt.Errorf("check active: %w", err)
	}
	if active {
		return ErrActiveSubscriptionExists
	}
	return nil
}

func insertPayment(ctx context.Context, tx *sqlx.Tx, tenantID, userID uuid.UUID, amount int64, method, source string, today time.Time) (*Payment, error) {
	pay := Payment{
		ID:            uuid.New(),
		TenantID:      tenantID,
		UserID:        &userID,
		Amount:        amount,
		PaymentDate:   today,
		PaymentMethod: method,
		Source:        source,
	}
	err := tx.QueryRowxContext(ctx, `
		INSERT INTO payments (id, gym_id, user_id, amount, payment_date, payment_method, source)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING created_at
	`, pay.ID, pay.TenantID, userID, pay.Amount, pay.PaymentDate, pay.PaymentMethod, pay.Source).Scan(&pay.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("insert payment: %w", err)
	}
	return &pay, nil
}

func (r *repository) IsTrainer(ctx context.Context, tenantID, userID uuid.UUID) (bool, error) {
	ok, err := db.Exists(ctx, r.db, `
		SELECT EXISTS(
			SELECT 1 FROM users
			WHERE id = $1 AND gym_id = $2 AND role = 'trainer' AND is_active = true
		)
	`, userID, tenantID)
	if err != nil {
		return false, fmt.Errorf("check trainer: %w", err)
	}
	return ok, nil
}

func (r *repository) IsActiveSubscriber(ctx context.Context, tenantID, userID uuid.UUID, today time.Time) (bool, error) {
	ok, err := db.Exists(ctx, r.db, ActiveQuery, tenantID, userID, today)
	if err != nil {
		return false, fmt.Errorf("check active: %w", err)
	}
	return ok, nil
}

func (r *repository) ListForUser(ctx context.Context, tenantID, userID uuid.UUID) ([]SubscriptionDetail, error) {
	query := `
		SELECT s.id, s.gym_id, s.user_id, s.plan_id, s.trainer_id, s.payment_method,
		       s.start_date, s.end_date, s.is_active, s.created_at,
		       p.type AS plan_type, p.price AS plan_price
		FROM subscriptions s
		JOIN subscription_plans p ON p.id = s.plan_id
		WHERE s.gym_id = $1 AND s.user_id = $2
		ORDER BY s.start_date DESC, s.created_at DESC
	`

	subs := []SubscriptionDetail{}
	if err := r.db.SelectContext(ctx, &subs, query, tenantID, userID); err != nil {
		return nil, fmt.Errorf("list subscriptions: %w", err)
	}

	return subs, nil
}

// ExpireOverdue flips subscriptions that ended before today. It returns the
// distinct gyms that had one and the number of rows flipped.
func (r *repository) ExpireOverdue(ctx context.Context, today time.Time) ([]uuid.UUID, int, error) {
	var rows []uuid.UUID
	err := r.db.SelectContext(ctx, &rows, `
		UPDATE subscriptions SET is_active = false
		WHERE is_active = true AND end_date < $1
		RETURNING gym_id
	`, today)
	if err != nil {
		return nil, 0, fmt.Errorf("expire subscriptions: %w", err)
	}

	seen := make(map[uuid.UUID]struct{}, len(rows))
	tenants := make([]uuid.UUID, 0, len(rows))
	for _, id := range rows {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		tenants = append(tenants, id)
	}

	return tenants, len(rows), nil
}

func (r *repository) PaymentHistory(ctx context.Context, tenantID uuid.UUID, limit, offset int) ([]PaymentRecord, error) {
	query := `
		SELECT p.id, p.gym_id, p.user_id, p.amount, p.payment_date, p.payment_method, p.source, p.created_at,
		       COALESCE(u.first_name, '') AS first_name, COALESCE(u.last_name, '') AS last_name
		FROM payments p
		LEFT JOIN users u ON u.id = p.user_id
		WHERE p.gym_id = $1
		ORDER BY p.payment_date DESC, p.created_at DESC
		LIMIT $2 OFFSET $3
	`

	payments := []PaymentRecord{}
	if err := r.db.SelectContext(ctx, &payments, query, tenantID, limit, offset); err != nil {
		return nil, fmt.Errorf("payment history: %w", err)
	}

	return payments, nil
}

package plan

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Abduqodir7007/fitness-crm/internal/db"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, p *Plan) (*Plan, error) {
	query := `
		INSERT INTO subscription_plans (id, gym_id, type, price, duration_days)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, gym_id, type, price, duration_days, is_active, created_at
	`

	var created Plan
	err := r.db.QueryRowxContext(ctx, query, p.ID, p.TenantID, p.Type, p.Price, p.DurationDays).StructScan(&created)
	if err != nil {
		return nil, fmt.Errorf("insert plan: %w", err)
	}

	return &created, nil
}

func (r *repository) ListActive(ctx context.Context, tenantID uuid.UUID) ([]Plan, error) {
	query := `
		SELECT id, gym_id, type, price, duration_days, is_active, created_at
		FROM subscription_plans
		WHERE gym_id = $1 AND is_active = true
		ORDER BY price ASC
	`

	plans := []Plan{}
	if err := r.db.SelectContext(ctx, &plans, query, tenantID); err != nil {
		return nil, fmt.Errorf("list plans: %w", err)
	}

	return plans, nil
}

func (r *repository) GetActive(ctx context.Context, tenantID, id uuid.UUID) (*Plan, error) {
	query := `
		SELECT id, gym_id, type, price, duration_days, is_active, created_at
		FROM subscription_plans
		WHERE id = $1 AND gym_id = $2 AND is_active = true
	`

	var p Plan
	err := r.db.GetContext(ctx, &p, query, id, tenantID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrPlanNotFound
		}
		return nil, fmt.Errorf("get plan: %w", err)
	}

	return &p, nil
}

func (r *repository) Deactivate(ctx context.Context, tenantID, id uuid.UUID) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE subscription_plans SET is_active = false WHERE id = $1 AND gym_id = $2`,
		id, tenantID,
	)
	if err != nil {
		return fmt.Errorf("deactivate plan: %w", err)
	}

	return requireRow(res)
}

func (r *repository) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	inUse, err := db.Exists(ctx, r.db,
		`SELECT EXISTS(SELECT 1 FROM subscriptions WHERE plan_id = $1)`, id)
	if err != nil {
		return fmt.Errorf("check plan references: %w", err)
	}
	if inUse {
		return ErrPlanInUse
	}

	res, err := r.db.ExecContext(ctx,
		`DELETE FROM subscription_plans WHERE id = $1 AND gym_id = $2`,
		id, tenantID,
	)
	if err != nil {
		if db.IsForeignKeyViolation(err) {
			return ErrPlanInUse
		}
		return fmt.Errorf("delete plan: %w", err)
	}

	return requireRow(res)
}

func requireRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrPlanNotFound
	}
	return nil
}

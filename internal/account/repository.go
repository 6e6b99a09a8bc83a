package account

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Abduqodir7007/fitness-crm/internal/db"
	"github.com/Abduqodir7007/fitness-crm/internal/subscription"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

const accountColumns = `id, first_name, last_name, phone_number, role, password_hash, gender,
	date_of_birth, is_active, is_superuser, gym_id, created_at`

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, a *Account) (*Account, error) {
	query := `
		INSERT INTO users (id, first_name, last_name, phone_number, role, password_hash,
			gender, date_of_birth, is_superuser, gym_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING ` + accountColumns

	var created Account
	err := r.db.QueryRowxContext(ctx, query,
		a.ID, a.FirstName, a.LastName, a.PhoneNumber, a.Role, a.PasswordHash,
		a.Gender, a.DateOfBirth, a.IsSuperuser, a.TenantID,
	).StructScan(&created)
	if err != nil {
		if db.IsUniqueViolation(err) {
			return nil, ErrPhoneExists
		}
		return nil, fmt.Errorf("insert user: %w", err)
	}

	return &created, nil
}

func (r *repository) PhoneExists(ctx context.Context, phone string) (bool, error) {
	return db.Exists(ctx, r.db, `SELECT EXISTS(SELECT 1 FROM users WHERE phone_number = $1)`, phone)
}

func (r *repository) FindByPhone(ctx context.Context, phone string) (*Account, error) {
	return r.getOne(ctx, `SELECT `+accountColumns+` FROM users WHERE phone_number = $1`, phone)
}

func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*Account, error) {
	return r.getOne(ctx, `SELECT `+accountColumns+` FROM users WHERE id = $1`, id)
}

func (r *repository) Get(ctx context.Context, tenantID, id uuid.UUID) (*Account, error) {
	return r.getOne(ctx, `SELECT `+accountColumns+` FROM users WHERE id = $1 AND gym_id = $2`, id, tenantID)
}

func (r *repository) getOne(ctx context.Context, query string, args ...interface{}) (*Account, error) {
	var a Account
	if err := r.db.GetContext(ctx, &a, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrAccountNotFound
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	return &a, nil
}

func (r *repository) ListByRole(ctx context.Context, tenantID uuid.UUID, role string) ([]Account, error) {
	query := `SELECT ` + accountColumns + `
		FROM users
		WHERE gym_id = $1 AND role = $2 AND is_active = true
		ORDER BY first_name, last_name`

	accounts := []Account{}
	if err := r.db.SelectContext(ctx, &accounts, query, tenantID, role); err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return accounts, nil
}

// Delete removes a user unless they are active on today. It takes the same
// user row lock as subscription assignment.
func (r *repository) Delete(ctx context.Context, tenantID, id uuid.UUID, today time.Time) error {
	return db.WithTx(ctx, r.db, func(tx *sqlx.Tx) error {
		var locked uuid.UUID
		err := tx.GetContext(ctx, &locked,
			`SELECT id FROM users WHERE id = $1 AND gym_id = $2 FOR UPDATE`,
			id, tenantID,
		)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return ErrAccountNotFound
			}
			return fmt.Errorf("lock user: %w", err)
		}

		active, err := db.Exists(ctx, tx, subscription.ActiveQuery, tenantID, id, today)
		if err != nil {
			return fmt.Errorf("check active: %w", err)
		}
		if active {
			return ErrHasActiveSubscription
		}

		res, err := tx.ExecContext(ctx, `DELETE FROM users WHERE id = $1 AND gym_id = $2`, id, tenantID)
		if err != nil {
			return fmt.Errorf("delete user: %w", err)
		}
		return requireRow(res)
	})
}

func (r *repository) UpdatePassword(ctx context.Context, tenantID, id uuid.UUID, passwordHash string) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE users SET password_hash = $1 WHERE id = $2 AND gym_id = $3`,
		passwordHash, id, tenantID,
	)
	if err != nil {
		return fmt.Errorf("update password: %w", err)
	}
	return requireRow(res)
}

func requireRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrAccountNotFound
	}
	return nil
}

package tenant

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Abduqodir7007/fitness-crm/internal/account"
	"github.com/Abduqodir7007/fitness-crm/internal/db"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

const tenantColumns = `id, name, address, is_active, marketplace_enabled, created_at`

const insertUser = `
	INSERT INTO users (id, first_name, last_name, phone_number, role, password_hash,
		gender, is_superuser, gym_id)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

func (r *repository) CreateWithAdmin(ctx context.Context, t *Tenant, admin *account.Account) (*Tenant, error) {
	var created Tenant
	err := db.WithTx(ctx, r.db, func(tx *sqlx.Tx) error {
		err := tx.QueryRowxContext(ctx,
			`INSERT INTO gyms (id, name, address)
			 VALUES ($1, $2, $3)
			 RETURNING `+tenantColumns,
			t.ID, t.Name, t.Address,
		).StructScan(&created)
		if err != nil {
			return fmt.Errorf("insert gym: %w", err)
		}

		_, err = tx.ExecContext(ctx, insertUser,
			admin.ID, admin.FirstName, admin.LastName, admin.PhoneNumber, admin.Role,
			admin.PasswordHash, admin.Gender, false, created.ID,
		)
		if err != nil {
			if db.IsUniqueViolation(err) {
				return ErrAdminPhoneExists
			}
			return fmt.Errorf("insert gym admin: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &created, nil
}

func (r *repository) CreateSuperuser(ctx context.Context, a *account.Account) error {
	_, err := r.db.ExecContext(ctx, insertUser,
		a.ID, a.FirstName, a.LastName, a.PhoneNumber, a.Role,
		a.PasswordHash, a.Gender, true, nil,
	)
	if err != nil {
		if db.IsUniqueViolation(err) {
			return ErrAdminPhoneExists
		}
		return fmt.Errorf("insert superuser: %w", err)
	}
	return nil
}

func (r *repository) PhoneExists(ctx context.Context, phone string) (bool, error) {
	return db.Exists(ctx, r.db, `SELECT EXISTS(SELECT 1 FROM users WHERE phone_number = $1)`, phone)
}

func (r *repository) SuperuserExists(ctx context.Context) (bool, error) {
	return db.Exists(ctx, r.db, `SELECT EXISTS(SELECT 1 FROM users WHERE is_superuser = true)`)
}

func (r *repository) List(ctx context.Context) ([]TenantWithAdmin, error) {
	query := `
		SELECT g.id, g.name, g.address, g.is_active, g.marketplace_enabled, g.created_at,
			u.id AS admin_id, u.first_name AS admin_first_name,
			u.last_name AS admin_last_name, u.phone_number AS admin_phone_number
		FROM gyms g
		LEFT JOIN users u ON u.gym_id = g.id AND u.role = 'admin'
		ORDER BY g.created_at DESC
	`

	gyms := []TenantWithAdmin{}
	if err := r.db.SelectContext(ctx, &gyms, query); err != nil {
		return nil, fmt.Errorf("list gyms: %w", err)
	}
	return gyms, nil
}

func (r *repository) ListActiveIDs(ctx context.Context) ([]uuid.UUID, error) {
	ids := []uuid.UUID{}
	if err := r.db.SelectContext(ctx, &ids, `SELECT id FROM gyms WHERE is_active = true`); err != nil {
		return nil, fmt.Errorf("list active gyms: %w", err)
	}
	return ids, nil
}

func (r *repository) Get(ctx context.Context, id uuid.UUID) (*Tenant, error) {
	return r.getOne(ctx, `SELECT `+tenantColumns+` FROM gyms WHERE id = $1`, id)
}

func (r *repository) ToggleActive(ctx context.Context, id uuid.UUID) (*Tenant, error) {
	return r.getOne(ctx,
		`UPDATE gyms SET is_active = NOT is_active WHERE id = $1 RETURNING `+tenantColumns, id)
}

func (r *repository) SetMarketplace(ctx context.Context, id uuid.UUID, enabled bool) (*Tenant, error) {
	return r.getOne(ctx,
		`UPDATE gyms SET marketplace_enabled = $2 WHERE id = $1 RETURNING `+tenantColumns, id, enabled)
}

func (r *repository) getOne(ctx context.Context, query string, args ...interface{}) (*Tenant, error) {
	var t Tenant
	if err := r.db.QueryRowxContext(ctx, query, args...).StructScan(&t); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTenantNotFound
		}
		return nil, fmt.Errorf("query gym: %w", err)
	}
	return &t, nil
}

func (r *repository) Delete(ctx context.Context, id uuid.UUID) error {
	return db.WithTx(ctx, r.db, func(tx *sqlx.Tx) error {
		if _, err := tx.ExecContext(ctx,
			`DELETE FROM users WHERE gym_id = $1 AND role = 'admin'`, id); err != nil {
			return fmt.Errorf("delete gym admin: %w", err)
		}

		res, err := tx.ExecContext(ctx, `DELETE FROM gyms WHERE id = $1`, id)
		if err != nil {
			return fmt.Errorf("delete gym: %w", err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return err
		}
		if n == 0 {
			return ErrTenantNotFound
		}
		return nil
	})
}

func (r *repository) CountActiveAdmins(ctx context.Context) (int, error) {
	var n int
	err := r.db.GetContext(ctx, &n,
		`SELECT COUNT(*) FROM users WHERE role = 'admin' AND is_active = true`)
	if err != nil {
		return 0, fmt.Errorf("count admins: %w", err)
	}
	return n, nil
}

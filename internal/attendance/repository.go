package attendance

import (
	"context"
	"fmt"
	"time"

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

func (r *repository) UserInTenant(ctx context.Context, tenantID, userID uuid.UUID) (bool, error) {
	ok, err := db.Exists(ctx, r.db,
		`SELECT EXISTS(SELECT 1 FROM users WHERE id = $1 AND gym_id = $2)`,
		userID, tenantID,
	)
	if err != nil {
		return false, fmt.Errorf("check user: %w", err)
	}
	return ok, nil
}

func (r *repository) HasCheckedIn(ctx context.Context, tenantID, userID uuid.UUID, date time.Time) (bool, error) {
	ok, err := db.Exists(ctx, r.db,
		`SELECT EXISTS(SELECT 1 FROM attendance WHERE gym_id = $1 AND user_id = $2 AND date = $3)`,
		tenantID, userID, date,
	)
	if err != nil {
		return false, fmt.Errorf("check attendance: %w", err)
	}
	return ok, nil
}

// Create inserts the mark; the (gym_id, user_id, date) unique constraint
// rejects a concurrent duplicate with ErrAlreadyCheckedIn.
func (r *repository) Create(ctx context.Context, a *Attendance) (*Attendance, error) {
	query := `
		INSERT INTO attendance (id, gym_id, user_id, date)
		VALUES ($1, $2, $3, $4)
		RETURNING id, gym_id, user_id, date, created_at
	`

	var created Attendance
	err := r.db.QueryRowxContext(ctx, query, a.ID, a.TenantID, a.UserID, a.Date).StructScan(&created)
	if err != nil {
		if db.IsUniqueViolation(err) {
			return nil, ErrAlreadyCheckedIn
		}
		return nil, fmt.Errorf("insert attendance: %w", err)
	}

	return &created, nil
}

func (r *repository) ListByDate(ctx context.Context, tenantID uuid.UUID, date time.Time) ([]AttendanceWithUser, error) {
	query := `
		SELECT a.id, a.gym_id, a.user_id, a.date, a.created_at,
		       u.first_name, u.last_name, u.phone_number
		FROM attendance a
		JOIN users u ON u.id = a.user_id
		WHERE a.gym_id = $1 AND a.date = $2
		ORDER BY a.created_at ASC
	`

	rows := []AttendanceWithUser{}
	if err := r.db.SelectContext(ctx, &rows, query, tenantID, date); err != nil {
		return nil, fmt.Errorf("list attendance: %w", err)
	}

	return rows, nil
}

func (r *repository) ListForUser(ctx context.Context, tenantID, userID uuid.UUID, from, to time.Time) ([]Attendance, error) {
	query := `
		SELECT id, gym_id, user_id, date, created_at
		FROM attendance
		WHERE gym_id = $1 AND user_id = $2 AND date BETWEEN $3 AND $4
		ORDER BY date DESC
	`

	rows := []Attendance{}
	if err := r.db.SelectContext(ctx, &rows, query, tenantID, userID, from, to); err != nil {
		return nil, fmt.Errorf("list user attendance: %w", err)
	}

	return rows, nil
}

package attendance

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type Repository interface {
	UserInTenant(ctx context.Context, tenantID, userID uuid.UUID) (bool, error)
	HasCheckedIn(ctx context.Context, tenantID, userID uuid.UUID, date time.Time) (bool, error)
	Create(ctx context.Context, a *Attendance) (*Attendance, error)
	ListByDate(ctx context.Context, tenantID uuid.UUID, date time.Time) ([]AttendanceWithUser, error)
	ListForUser(ctx context.Context, tenantID, userID uuid.UUID, from, to time.Time) ([]Attendance, error)
}

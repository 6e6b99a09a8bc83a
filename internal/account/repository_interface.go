package account

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type Repository interface {
	Create(ctx context.Context, a *Account) (*Account, error)
	PhoneExists(ctx context.Context, phone string) (bool, error)
	FindByPhone(ctx context.Context, phone string) (*Account, error)
	FindByID(ctx context.Context, id uuid.UUID) (*Account, error)
	Get(ctx context.Context, tenantID, id uuid.UUID) (*Account, error)
	ListByRole(ctx context.Context, tenantID uuid.UUID, role string) ([]Account, error)
	Delete(ctx context.Context, tenantID, id uuid.UUID, today time.Time) error
	UpdatePassword(ctx context.Context, tenantID, id uuid.UUID, passwordHash string) error
}

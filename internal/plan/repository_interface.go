package plan

import (
	"context"

	"github.com/google/uuid"
)

type Repository interface {
	Create(ctx context.Context, p *Plan) (*Plan, error)
	ListActive(ctx context.Context, tenantID uuid.UUID) ([]Plan, error)
	GetActive(ctx context.Context, tenantID, id uuid.UUID) (*Plan, error)
	Deactivate(ctx context.Context, tenantID, id uuid.UUID) error
	Delete(ctx context.Context, tenantID, id uuid.UUID) error
}

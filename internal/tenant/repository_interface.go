package tenant

import (
	"context"

	"github.com/Abduqodir7007/fitness-crm/internal/account"

	"github.com/google/uuid"
)

type Repository interface {
	CreateWithAdmin(ctx context.Context, t *Tenant, admin *account.Account) (*Tenant, error)
	CreateSuperuser(ctx context.Context, a *account.Account) error
	PhoneExists(ctx context.Context, phone string) (bool, error)
	SuperuserExists(ctx context.Context) (bool, error)
	List(ctx context.Context) ([]TenantWithAdmin, error)
	ListActiveIDs(ctx context.Context) ([]uuid.UUID, error)
	Get(ctx context.Context, id uuid.UUID) (*Tenant, error)
	ToggleActive(ctx context.Context, id uuid.UUID) (*Tenant, error)
	SetMarketplace(ctx context.Context, id uuid.UUID, enabled bool) (*Tenant, error)
	Delete(ctx context.Context, id uuid.UUID) error
	CountActiveAdmins(ctx context.Context) (int, error)
}

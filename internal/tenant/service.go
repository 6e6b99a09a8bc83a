package tenant

import (
	"context"
	"errors"
	"strings"

	"github.com/Abduqodir7007/fitness-crm/internal/account"
	"github.com/Abduqodir7007/fitness-crm/internal/apperr"
	"github.com/Abduqodir7007/fitness-crm/internal/auth"
	"github.com/Abduqodir7007/fitness-crm/internal/logger"

	"github.com/google/uuid"
)

var (
	ErrTenantNotFound    = apperr.NotFound("gym")
	ErrAdminPhoneExists  = apperr.Conflict("phone number already registered")
	ErrSuperuserExists   = apperr.Conflict("super admin already exists")
	ErrBootstrapDisabled = errors.New("super admin bootstrap is disabled")
)

type Service interface {
	CreateWithAdmin(ctx context.Context, req CreateGymRequest) (*CreateGymResponse, error)
	List(ctx context.Context) ([]TenantWithAdmin, error)
	ListActiveIDs(ctx context.Context) ([]uuid.UUID, error)
	Get(ctx context.Context, id uuid.UUID) (*Tenant, error)
	ToggleActive(ctx context.Context, id uuid.UUID) (*Tenant, error)
	SetMarketplace(ctx context.Context, id uuid.UUID, enabled bool) (*Tenant, error)
	Delete(ctx context.Context, id uuid.UUID) error
	CountActiveAdmins(ctx context.Context) (int, error)
	BootstrapSuperAdmin(ctx context.Context, req AdminInput) (uuid.UUID, error)
}

type service struct {
	repo           Repository
	allowBootstrap bool
}

func NewService(repo Repository, allowBootstrap bool) Service {
	return &service{
		repo:           repo,
		allowBootstrap: allowBootstrap,
	}
}

func (s *service) CreateWithAdmin(ctx context.Context, req CreateGymRequest) (*CreateGymResponse, error) {
	name := strings.TrimSpace(req.Name)
	if len(name) < 2 {
		return nil, apperr.Validation("gym name must be at least 2 characters")
	}

	admin, err := s.newAdmin(ctx, req.Admin, auth.RoleAdmin)
	if err != nil {
		return nil, err
	}

	t, err := s.repo.CreateWithAdmin(ctx, &Tenant{
		ID:      uuid.New(),
		Name:    name,
		Address: strings.TrimSpace(req.Address),
	}, admin)
	if err != nil {
		return nil, apperr.Wrap("create gym", err)
	}

	logger.Info("gym created", "gym_id", t.ID, "admin_id", admin.ID)
	return &CreateGymResponse{Gym: *t, AdminID: admin.ID}, nil
}

func (s *service) newAdmin(ctx context.Context, in AdminInput, role string) (*account.Account, error) {
	admin, err := account.NewAccount(account.CreateAccountRequest{
		FirstName:   in.FirstName,
		LastName:    in.LastName,
		PhoneNumber: in.PhoneNumber,
		Password:    in.Password,
		Role:        role,
	})
	if err != nil {
		return nil, err
	}

	exists, err := s.repo.PhoneExists(ctx, admin.PhoneNumber)
	if err != nil {
		return nil, apperr.Wrap("check phone", err)
	}
	if exists {
		return nil, ErrAdminPhoneExists
	}
	return admin, nil
}

func (s *service) List(ctx context.Context) ([]TenantWithAdmin, error) {
	gyms, err := s.repo.List(ctx)
	return gyms, apperr.Wrap("list gyms", err)
}

func (s *service) ListActiveIDs(ctx context.Context) ([]uuid.UUID, error) {
	ids, err := s.repo.ListActiveIDs(ctx)
	return ids, apperr.Wrap("list active gyms", err)
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*Tenant, error) {
	t, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, apperr.Wrap("get gym", err)
	}
	return t, nil
}

func (s *service) ToggleActive(ctx context.Context, id uuid.UUID) (*Tenant, error) {
	t, err := s.repo.ToggleActive(ctx, id)
	if err != nil {
		return nil, apperr.Wrap("toggle gym", err)
	}

	logger.Info("gym status changed", "gym_id", id, "is_active", t.IsActive)
	return t, nil
}

func (s *service) SetMarketplace(ctx context.Context, id uuid.UUID, enabled bool) (*Tenant, error) {
	t, err := s.repo.SetMarketplace(ctx, id, enabled)
	if err != nil {
		return nil, apperr.Wrap("set marketplace", err)
	}
	return t, nil
}

func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return apperr.Wrap("delete gym", err)
	}

	logger.Info("gym deleted", "gym_id", id)
	return nil
}

func (s *service) CountActiveAdmins(ctx context.Context) (int, error) {
	n, err := s.repo.CountActiveAdmins(ctx)
	return n, apperr.Wrap("count admins", err)
}

// BootstrapSuperAdmin creates the first tenant-less superuser.
func (s *service) BootstrapSuperAdmin(ctx context.Context, req AdminInput) (uuid.UUID, error) {
	if !s.allowBootstrap {
		return uuid.Nil, ErrBootstrapDisabled
	}

	exists, err := s.repo.SuperuserExists(ctx)
	if err != nil {
		return uuid.Nil, apperr.Wrap("check superuser", err)
	}
	if exists {
		return uuid.Nil, ErrSuperuserExists
	}

	admin, err := s.newAdmin(ctx, req, auth.RoleSuperAdmin)
	if err != nil {
		return uuid.Nil, err
	}
	admin.IsSuperuser = true

	if err := s.repo.CreateSuperuser(ctx, admin); err != nil {
		return uuid.Nil, apperr.Wrap("create superuser", err)
	}

	logger.Warn("super admin bootstrapped", "user_id", admin.ID)
	return admin.ID, nil
}

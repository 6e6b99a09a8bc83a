package plan

import (
	"context"
	"strings"

	"github.com/Abduqodir7007/fitness-crm/internal/apperr"
	"github.com/Abduqodir7007/fitness-crm/internal/logger"

	"github.com/google/uuid"
)

var (
	ErrPlanNotFound = apperr.NotFound("plan")
	ErrPlanInUse    = apperr.Conflict("plan is referenced by subscriptions")
)

type Service interface {
	Create(ctx context.Context, tenantID uuid.UUID, req CreatePlanRequest) (*Plan, error)
	ListActive(ctx context.Context, tenantID uuid.UUID) ([]Plan, error)
	GetActive(ctx context.Context, tenantID, id uuid.UUID) (*Plan, error)
	Deactivate(ctx context.Context, tenantID, id uuid.UUID) error
	Delete(ctx context.Context, tenantID, id uuid.UUID) error
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{
		repo: repo,
	}
}

func (s *service) Create(ctx context.Context, tenantID uuid.UUID, req CreatePlanRequest) (*Plan, error) {
	planType := strings.TrimSpace(req.Type)
	if len(planType) < 2 {
		return nil, apperr.Validation("plan type must be at least 2 characters")
	}
	if req.Price <= 0 {
		return nil, apperr.Validation("price must be positive")
	}
	if req.DurationDays <= 0 {
		return nil, apperr.Validation("duration_days must be positive")
	}

	p, err := s.repo.Create(ctx, &Plan{
		ID:           uuid.New(),
		TenantID:     tenantID,
		Type:         planType,
		Price:        req.Price,
		DurationDays: req.DurationDays,
	})
	if err != nil {
		return nil, apperr.Wrap("create plan", err)
	}

	logger.Info("subscription plan created", "gym_id", tenantID, "plan_id", p.ID, "type", p.Type)
	return p, nil
}

func (s *service) ListActive(ctx context.Context, tenantID uuid.UUID) ([]Plan, error) {
	plans, err := s.repo.ListActive(ctx, tenantID)
	return plans, apperr.Wrap("list plans", err)
}

func (s *service) GetActive(ctx context.Context, tenantID, id uuid.UUID) (*Plan, error) {
	p, err := s.repo.GetActive(ctx, tenantID, id)
	if err != nil {
		return nil, apperr.Wrap("get plan", err)
	}
	return p, nil
}

func (s *service) Deactivate(ctx context.Context, tenantID, id uuid.UUID) error {
	return apperr.Wrap("deactivate plan", s.repo.Deactivate(ctx, tenantID, id))
}

func (s *service) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	return apperr.Wrap("delete plan", s.repo.Delete(ctx, tenantID, id))
}

package subscription

import (
	"context"
	"errors"

	"github.com/Abduqodir7007/fitness-crm/internal/apperr"
	"github.com/Abduqodir7007/fitness-crm/internal/clock"
	"github.com/Abduqodir7007/fitness-crm/internal/logger"
	"github.com/Abduqodir7007/fitness-crm/internal/metrics"

	"github.com/google/uuid"
)

var (
	ErrActiveSubscriptionExists = apperr.Conflict("active subscription exists")
	ErrUserNotFound             = apperr.NotFound("user")
	ErrTrainerNotFound          = apperr.NotFound("trainer")
	ErrInvalidPaymentMethod     = apperr.Validation("payment_method must be one of cash, card, transfer")
	ErrInvalidAmount            = apperr.Validation("amount must be greater than 0")
)

// CacheInvalidator drops cached dashboard aggregates of a gym.
type CacheInvalidator interface {
	Invalidate(ctx context.Context, tenantID uuid.UUID)
}

type Service interface {
	AssignSubscription(ctx context.Context, tenantID uuid.UUID, req AssignRequest) (*Assignment, error)
	AssignDailyPass(ctx context.Context, tenantID uuid.UUID, req DailyPassRequest) (*Assignment, error)
	IsActiveSubscriber(ctx context.Context, tenantID, userID uuid.UUID) (bool, error)
	ListForUser(ctx context.Context, tenantID, userID uuid.UUID) ([]SubscriptionDetail, error)
	ExpireOverdue(ctx context.Context) ([]uuid.UUID, error)
	PaymentHistory(ctx context.Context, tenantID uuid.UUID, limit, offset int) ([]PaymentRecord, error)
}

type service struct {
	repo  Repository
	clock clock.Clock
	cache CacheInvalidator
}

func NewService(repo Repository, clk clock.Clock, cache CacheInvalidator) Service {
	return &service{
		repo:  repo,
		clock: clk,
		cache: cache,
	}
}

func (s *service) AssignSubscription(ctx context.Context, tenantID uuid.UUID, req AssignRequest) (*Assignment, error) {
	if !validPaymentMethod(req.PaymentMethod) {
		return nil, ErrInvalidPaymentMethod
	}
	if req.UserID == uuid.Nil {
		return nil, ErrUserNotFound
	}

	if req.TrainerID != nil {
		ok, err := s.repo.IsTrainer(ctx, tenantID, *req.TrainerID)
		if err != nil {
			return nil, apperr.Wrap("check trainer", err)
		}
		if !ok {
			return nil, ErrTrainerNotFound
		}
	}

	a, err := s.repo.CreateSubscription(ctx, AssignParams{
		TenantID:      tenantID,
		UserID:        req.UserID,
		PlanID:        req.PlanID,
		TrainerID:     req.TrainerID,
		PaymentMethod: req.PaymentMethod,
		Today:         clock.Today(s.clock),
	})
	if err != nil {
		if errors.Is(err, ErrActiveSubscriptionExists) {
			metrics.RecordAssignmentConflict(SourceSubscription)
		}
		return nil, apperr.Wrap("assign subscription", err)
	}

	s.invalidate(ctx, tenantID)
	metrics.RecordAssignment(SourceSubscription, req.PaymentMethod, a.Payment.Amount)
	logger.Info("subscription assigned",
		"gym_id", tenantID,
		"user_id", req.UserID,
		"plan_id", req.PlanID,
		"end_date", clock.DateKey(a.Subscription.EndDate),
	)

	return a, nil
}

func (s *service) AssignDailyPass(ctx context.Context, tenantID uuid.UUID, req DailyPassRequest) (*Assignment, error) {
	if !validPaymentMethod(req.PaymentMethod) {
		return nil, ErrInvalidPaymentMethod
	}
	if req.Amount <= 0 {
		return nil, ErrInvalidAmount
	}
	if req.UserID == uuid.Nil {
		return nil, ErrUserNotFound
	}

	a, err := s.repo.CreateDailyPass(ctx, DailyPassParams{
		TenantID:      tenantID,
		UserID:        req.UserID,
		Amount:        req.Amount,
		PaymentMethod: req.PaymentMethod,
		Today:         clock.Today(s.clock),
	})
	if err != nil {
		if errors.Is(err, ErrActiveSubscriptionExists) {
			metrics.RecordAssignmentConflict(SourceDailyPass)
		}
		return nil, apperr.Wrap("assign daily pass", err)
	}

	s.invalidate(ctx, tenantID)
	metrics.RecordAssignment(SourceDailyPass, req.PaymentMethod, req.Amount)
	logger.Info("daily pass assigned", "gym_id", tenantID, "user_id", req.UserID, "amount", req.Amount)

	return a, nil
}

func (s *service) IsActiveSubscriber(ctx context.Context, tenantID, userID uuid.UUID) (bool, error) {
	ok, err := s.repo.IsActiveSubscriber(ctx, tenantID, userID, clock.Today(s.clock))
	return ok, apperr.Wrap("check active subscriber", err)
}

func (s *service) ListForUser(ctx context.Context, tenantID, userID uuid.UUID) ([]SubscriptionDetail, error) {
	subs, err := s.repo.ListForUser(ctx, tenantID, userID)
	if err != nil {
		return nil, apperr.Wrap("list subscriptions", err)
	}

	today := clock.Today(s.clock)
	for i := range subs {
		subs[i].DaysLeft = clock.DaysBetween(today, subs[i].EndDate)
		if subs[i].IsActive && subs[i].DaysLeft >= 0 {
			subs[i].Status = StatusActive
		} else {
			subs[i].Status = StatusExpired
		}
	}

	return subs, nil
}

func (s *service) ExpireOverdue(ctx context.Context) ([]uuid.UUID, error) {
	tenants, n, err := s.repo.ExpireOverdue(ctx, clock.Today(s.clock))
	if err != nil {
		return nil, apperr.Wrap("expire subscriptions", err)
	}

	metrics.RecordExpired(n)
	if n > 0 {
		logger.Info("expired subscriptions released", "count", n, "gyms", len(tenants))
	}
	return tenants, nil
}

func (s *service) PaymentHistory(ctx context.Context, tenantID uuid.UUID, limit, offset int) ([]PaymentRecord, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}

	payments, err := s.repo.PaymentHistory(ctx, tenantID, limit, offset)
	return payments, apperr.Wrap("payment history", err)
}

func (s *service) invalidate(ctx context.Context, tenantID uuid.UUID) {
	if s.cache == nil {
		return
	}
	s.cache.Invalidate(ctx, tenantID)
}

package subscription

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type Repository interface {
	CreateSubscription(ctx context.Context, p AssignParams) (*Assignment, error)
	CreateDailyPass(ctx context.Context, p DailyPassParams) (*Assignment, error)
	IsTrainer(ctx context.Context, tenantID, userID uuid.UUID) (bool, error)
	IsActiveSubscriber(ctx context.Context, tenantID, userID uuid.UUID, today time.Time) (bool, error)
	ListForUser(ctx context.Context, tenantID, userID uuid.UUID) ([]SubscriptionDetail, error)
	ExpireOverdue(ctx context.Context, today time.Time) ([]uuid.UUID, int, error)
	PaymentHistory(ctx context.Context, tenantID uuid.UUID, limit, offset int) ([]PaymentRecord, error)
}

package subscription

import (
	"time"

	"github.com/google/uuid"
)

const (
	PaymentCash     = "cash"
	PaymentCard     = "card"
	PaymentTransfer = "transfer"

	SourceSubscription = "subscription"
	SourceDailyPass    = "daily_pass"

	StatusActive  = "active"
	StatusExpired = "expired"
)

type Subscription struct {
	ID            uuid.UUID  `db:"id" json:"id"`
	TenantID      uuid.UUID  `db:"gym_id" json:"gym_id"`
	UserID        uuid.UUID  `db:"user_id" json:"user_id"`
	PlanID        uuid.UUID  `db:"plan_id" json:"plan_id"`
	TrainerID     *uuid.UUID `db:"trainer_id" json:"trainer_id,omitempty"`
	PaymentMethod string     `db:"payment_method" json:"payment_method"`
	StartDate     time.Time  `db:"start_date" json:"start_date"`
	EndDate       time.Time  `db:"end_date" json:"end_date"`
	IsActive      bool       `db:"is_active" json:"is_active"`
	CreatedAt     time.Time  `db:"created_at" json:"created_at"`
}

type DailyPass struct {
	ID               uuid.UUID `db:"id" json:"id"`
	TenantID         uuid.UUID `db:"gym_id" json:"gym_id"`
	UserID           uuid.UUID `db:"user_id" json:"user_id"`
	SubscriptionDate time.Time `db:"subscription_date" json:"subscription_date"`
	Amount           int64     `db:"amount" json:"amount"`
	CreatedAt        time.Time `db:"created_at" json:"created_at"`
}

type Payment struct {
	ID            uuid.UUID  `db:"id" json:"id"`
	TenantID      uuid.UUID  `db:"gym_id" json:"gym_id"`
	UserID        *uuid.UUID `db:"user_id" json:"user_id,omitempty"`
	Amount        int64      `db:"amount" json:"amount"`
	PaymentDate   time.Time  `db:"payment_date" json:"payment_date"`
	PaymentMethod string     `db:"payment_method" json:"payment_method"`
	Source        string     `db:"source" json:"source"`
	CreatedAt     time.Time  `db:"created_at" json:"created_at"`
}

// PaymentRecord is a payment joined with the payer's name.
type PaymentRecord struct {
	Payment
	FirstName string `db:"first_name" json:"first_name"`
	LastName  string `db:"last_name" json:"last_name"`
}

// SubscriptionDetail is a subscription with its plan terms and the remaining
// days counted against today.
type SubscriptionDetail struct {
	Subscription
	PlanType  string `db:"plan_type" json:"plan_type"`
	PlanPrice int64  `db:"plan_price" json:"plan_price"`
	DaysLeft  int    `db:"-" json:"days_left"`
	Status    string `db:"-" json:"status"`
}

// Assignment is the result of a committed assignment: the subscription or the
// day pass together with the payment recorded for it.
type Assignment struct {
	Subscription *Subscription `json:"subscription,omitempty"`
	DailyPass    *DailyPass    `json:"daily_pass,omitempty"`
	Payment      Payment       `json:"payment"`
}

type AssignParams struct {
	TenantID      uuid.UUID
	UserID        uuid.UUID
	PlanID        uuid.UUID
	TrainerID     *uuid.UUID
	PaymentMethod string
	Today         time.Time
}

type DailyPassParams struct {
	TenantID      uuid.UUID
	UserID        uuid.UUID
	Amount        int64
	PaymentMethod string
	Today         time.Time
}

type AssignRequest struct {
	UserID        uuid.UUID  `json:"user_id" binding:"required"`
	PlanID        uuid.UUID  `json:"plan_id" binding:"required"`
	PaymentMethod string     `json:"payment_method" binding:"required,oneof=cash card transfer"`
	TrainerID     *uuid.UUID `json:"trainer_id,omitempty"`
}

type DailyPassRequest struct {
	UserID        uuid.UUID `json:"user_id" binding:"required"`
	Amount        int64     `json:"amount" binding:"required,gt=0"`
	PaymentMethod string    `json:"payment_method" binding:"required,oneof=cash card transfer"`
}

type ActiveStatusResponse struct {
	UserID   uuid.UUID `json:"user_id"`
	IsActive bool      `json:"is_active"`
}

func validPaymentMethod(m string) bool {
	switch m {
	case PaymentCash, PaymentCard, PaymentTransfer:
		return true
	}
	return false
}

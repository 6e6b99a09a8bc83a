package plan

import (
	"time"

	"github.com/google/uuid"
)

type Plan struct {
	ID           uuid.UUID `db:"id" json:"id"`
	TenantID     uuid.UUID `db:"gym_id" json:"gym_id"`
	Type         string    `db:"type" json:"type"`
	Price        int64     `db:"price" json:"price"`
	DurationDays int       `db:"duration_days" json:"duration_days"`
	IsActive     bool      `db:"is_active" json:"is_active"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}

type CreatePlanRequest struct {
	Type         string `json:"type" binding:"required,min=2,max=100"`
	Price        int64  `json:"price" binding:"required,gt=0"`
	DurationDays int    `json:"duration_days" binding:"required,gt=0,lte=366"`
}

package tenant

import (
	"time"

	"github.com/google/uuid"
)

type Tenant struct {
	ID                 uuid.UUID `db:"id" json:"id"`
	Name               string    `db:"name" json:"name"`
	Address            string    `db:"address" json:"address"`
	IsActive           bool      `db:"is_active" json:"is_active"`
	MarketplaceEnabled bool      `db:"marketplace_enabled" json:"marketplace_enabled"`
	CreatedAt          time.Time `db:"created_at" json:"created_at"`
}

type Admin struct {
	ID          *uuid.UUID `db:"admin_id" json:"id,omitempty"`
	FirstName   *string    `db:"admin_first_name" json:"first_name,omitempty"`
	LastName    *string    `db:"admin_last_name" json:"last_name,omitempty"`
	PhoneNumber *string    `db:"admin_phone_number" json:"phone_number,omitempty"`
}

type TenantWithAdmin struct {
	Tenant
	Admin `json:"admin"`
}

type AdminInput struct {
	FirstName   string `json:"first_name" binding:"required,min=2,max=100"`
	LastName    string `json:"last_name" binding:"required,min=2,max=100"`
	PhoneNumber string `json:"phone_number" binding:"required,phone"`
	Password    string `json:"password" binding:"required,min=6,max=60"`
}

type CreateGymRequest struct {
	Name    string     `json:"name" binding:"required,min=2,max=255"`
	Address string     `json:"address" binding:"max=255"`
	Admin   AdminInput `json:"admin"`
}

type MarketplaceRequest struct {
	Enabled *bool `json:"enabled" binding:"required"`
}

type CreateGymResponse struct {
	Gym     Tenant    `json:"gym"`
	AdminID uuid.UUID `json:"admin_id"`
}

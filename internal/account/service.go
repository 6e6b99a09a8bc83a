package account

import (
	"context"
	"errors"
	"strings"
	"time"
	"unicode"

	"github.com/Abduqodir7007/fitness-crm/internal/apperr"
	"github.com/Abduqodir7007/fitness-crm/internal/auth"
	"github.com/Abduqodir7007/fitness-crm/internal/clock"
	"github.com/Abduqodir7007/fitness-crm/internal/logger"

	"github.com/google/uuid"
)

var (
	ErrAccountNotFound       = apperr.NotFound("user")
	ErrPhoneExists           = apperr.Conflict("phone number already registered")
	ErrHasActiveSubscription = apperr.Conflict("cannot delete a user with an active subscription")
	ErrInvalidCredentials    = errors.New("invalid credentials")
)

type Service interface {
	Create(ctx context.Context, tenantID uuid.UUID, req CreateAccountRequest) (*Account, error)
	Get(ctx context.Context, tenantID, id uuid.UUID) (*Account, error)
	GetSelf(ctx context.Context, id uuid.UUID) (*Account, error)
	Login(ctx context.Context, req LoginRequest) (*LoginResponse, error)
	Refresh(ctx context.Context, refreshToken string) (string, error)
	ListTrainers(ctx context.Context, tenantID uuid.UUID) ([]Account, error)
	Delete(ctx context.Context, tenantID, id uuid.UUID) error
	ChangePassword(ctx context.Context, tenantID, id uuid.UUID, password string) error
}

type service struct {
	repo          Repository
	clock         clock.Clock
	accessSecret  string
	refreshSecret string
}

func NewService(repo Repository, clk clock.Clock, accessSecret, refreshSecret string) Service {
	return &service{
		repo:          repo,
		clock:         clk,
		accessSecret:  accessSecret,
		refreshSecret: refreshSecret,
	}
}

func (s *service) Create(ctx context.Context, tenantID uuid.UUID, req CreateAccountRequest) (*Account, error) {
	a, err := NewAccount(req)
	if err != nil {
		return nil, err
	}
	a.TenantID = &tenantID

	exists, err := s.repo.PhoneExists(ctx, a.PhoneNumber)
	if err != nil {
		return nil, apperr.Wrap("check phone", err)
	}
	if exists {
		return nil, ErrPhoneExists
	}

	created, err := s.repo.Create(ctx, a)
	if err != nil {
		return nil, apperr.Wrap("create user", err)
	}

	logger.Info("user created", "gym_id", tenantID, "user_id", created.ID, "role", created.Role)
	return created, nil
}

// NewAccount builds an unsaved account from an enumerated request, applying
// defaults and hashing the password.
func NewAccount(req CreateAccountRequest) (*Account, error) {
	first, err := normalizeName(req.FirstName, "first_name")
	if err != nil {
		return nil, err
	}
	last, err := normalizeName(req.LastName, "last_name")
	if err != nil {
		return nil, err
	}
	if n := len(req.Password); n < 6 || n > 60 {
		return nil, apperr.Validation("password must be between 6 and 60 characters")
	}

	role := req.Role
	if role == "" {
		role = auth.RoleClient
	}
	gender := req.Gender
	if gender == "" {
		gender = GenderMale
	}

	var dob *time.Time
	if req.DateOfBirth != "" {
		d, err := time.Parse("2006-01-02", req.DateOfBirth)
		if err != nil {
			return nil, apperr.Validation("date_of_birth must be YYYY-MM-DD")
		}
		dob = &d
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, apperr.Wrap("hash password", err)
	}

	return &Account{
		ID:           uuid.New(),
		FirstName:    first,
		LastName:     last,
		PhoneNumber:  strings.TrimSpace(req.PhoneNumber),
		Role:         role,
		PasswordHash: hash,
		Gender:       gender,
		DateOfBirth:  dob,
		IsActive:     true,
	}, nil
}

func normalizeName(name, field string) (string, error) {
	runes := []rune(strings.ToLower(strings.TrimSpace(name)))
	if len(runes) < 2 {
		return "", apperr.Validation(field + " must be at least 2 characters")
	}
	runes[0] = unicode.ToUpper(runes[0])
	return string(runes), nil
}

func (s *service) Get(ctx context.Context, tenantID, id uuid.UUID) (*Account, error) {
	a, err := s.repo.Get(ctx, tenantID, id)
	if err != nil {
		return nil, apperr.Wrap("get user", err)
	}
	return a, nil
}

// GetSelf loads the caller's own account, which may be tenant-less.
func (s *service) GetSelf(ctx context.Context, id uuid.UUID) (*Account, error) {
	a, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, apperr.Wrap("get user", err)
	}
	return a, nil
}

func (s *service) Login(ctx context.Context, req LoginRequest) (*LoginResponse, error) {
	a, err := s.repo.FindByPhone(ctx, strings.TrimSpace(req.PhoneNumber))
	if err != nil {
		if errors.Is(err, ErrAccountNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, apperr.Wrap("find user", err)
	}

	if !a.IsActive || !auth.CheckPassword(a.PasswordHash, req.Password) {
		return nil, ErrInvalidCredentials
	}

	accessToken, refreshToken, err := auth.GenerateTokens(identityOf(a), s.accessSecret, s.refreshSecret)
	if err != nil {
		return nil, err
	}

	return &LoginResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		TokenType:    "bearer",
		User:         *a,
	}, nil
}

func (s *service) Refresh(ctx context.Context, refreshToken string) (string, error) {
	_, claims, err := auth.RefreshAccessToken(refreshToken, s.refreshSecret, s.accessSecret)
	if err != nil {
		return "", err
	}

	// Reload so role changes and deactivation take effect on refresh.
	a, err := s.repo.FindByID(ctx, claims.UserID)
	if err != nil {
		return "", apperr.Wrap("find user", err)
	}
	if !a.IsActive {
		return "", ErrInvalidCredentials
	}

	return auth.GenerateAccessToken(identityOf(a), s.accessSecret)
}

func identityOf(a *Account) auth.Identity {
	id := auth.Identity{
		UserID:      a.ID,
		Phone:       a.PhoneNumber,
		Role:        a.Role,
		IsSuperuser: a.IsSuperuser,
	}
	if a.TenantID != nil {
		id.TenantID = *a.TenantID
	}
	return id
}

func (s *service) ListTrainers(ctx context.Context, tenantID uuid.UUID) ([]Account, error) {
	trainers, err := s.repo.ListByRole(ctx, tenantID, auth.RoleTrainer)
	return trainers, apperr.Wrap("list trainers", err)
}

func (s *service) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, tenantID, id, clock.Today(s.clock)); err != nil {
		return apperr.Wrap("delete user", err)
	}

	logger.Info("user deleted", "gym_id", tenantID, "user_id", id)
	return nil
}

func (s *service) ChangePassword(ctx context.Context, tenantID, id uuid.UUID, password string) error {
	if n := len(password); n < 6 || n > 60 {
		return apperr.Validation("password must be between 6 and 60 characters")
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return apperr.Wrap("hash password", err)
	}

	return apperr.Wrap("update password", s.repo.UpdatePassword(ctx, tenantID, id, hash))
}

package account

import (
	"context"
	"testing"
	"time"

	"github.com/Abduqodir7007/fitness-crm/internal/apperr"
	"github.com/Abduqodir7007/fitness-crm/internal/auth"
	"github.com/Abduqodir7007/fitness-crm/internal/clock"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockRepository is a mock implementation of Repository
type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) Create(ctx context.Context, a *Account) (*Account, error) {
	args := m.Called(ctx, a)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Account), args.Error(1)
}

func (m *MockRepository) PhoneExists(ctx context.Context, phone string) (bool, error) {
	args := m.Called(ctx, phone)
	return args.Bool(0), args.Error(1)
}

func (m *MockRepository) FindByPhone(ctx context.Context, phone string) (*Account, error) {
	args := m.Called(ctx, phone)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Account), args.Error(1)
}

func (m *MockRepository) FindByID(ctx context.Context, id uuid.UUID) (*Account, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Account), args.Error(1)
}

func (m *MockRepository) Get(ctx context.Context, tenantID, id uuid.UUID) (*Account, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Account), args.Error(1)
}

func (m *MockRepository) ListByRole(ctx context.Context, tenantID uuid.UUID, role string) ([]Account, error) {
	args := m.Called(ctx, tenantID, role)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]Account), args.Error(1)
}

func (m *MockRepository) Delete(ctx context.Context, tenantID, id uuid.UUID, today time.Time) error {
	return m.Called(ctx, tenantID, id, today).Error(0)
}

func (m *MockRepository) UpdatePassword(ctx context.Context, tenantID, id uuid.UUID, passwordHash string) error {
	return m.Called(ctx, tenantID, id, passwordHash).Error(0)
}

func testClock() *clock.Fake {
	return clock.NewFake(time.Date(2024, time.May, 10, 14, 0, 0, 0, time.UTC))
}

func validRequest() CreateAccountRequest {
	return CreateAccountRequest{
		FirstName:   "  aLI ",
		LastName:    "valiyev",
		PhoneNumber: "+998901234567",
		Password:    "secret123",
	}
}

func TestNewAccount(t *testing.T) {
	t.Run("defaults and normalisation", func(t *testing.T) {
		a, err := NewAccount(validRequest())
		require.NoError(t, err)

		assert.Equal(t, "Ali", a.FirstName)
		assert.Equal(t, "Valiyev", a.LastName)
		assert.Equal(t, auth.RoleClient, a.Role)
		assert.Equal(t, GenderMale, a.Gender)
		assert.True(t, auth.CheckPassword(a.PasswordHash, "secret123"))
		assert.NotEqual(t, uuid.Nil, a.ID)
	})

	t.Run("short name", func(t *testing.T) {
		req := validRequest()
		req.FirstName = " a "
		_, err := NewAccount(req)
		assert.ErrorIs(t, err, apperr.ErrValidation)
	})

	t.Run("short password", func(t *testing.T) {
		req := validRequest()
		req.Password = "123"
		_, err := NewAccount(req)
		assert.ErrorIs(t, err, apperr.ErrValidation)
	})

	t.Run("date of birth", func(t *testing.T) {
		req := validRequest()
		req.DateOfBirth = "1999-02-03"
		a, err := NewAccount(req)
		require.NoError(t, err)
		assert.Equal(t, "1999-02-03", a.DateOfBirth.Format("2006-01-02"))
	})
}

func TestService_Create(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()

	t.Run("phone taken", func(t *testing.T) {
		repo := new(MockRepository)
		repo.On("PhoneExists", ctx, "+998901234567").Return(true, nil)

		_, err := NewService(repo, testClock(), "a", "r").Create(ctx, tenantID, validRequest())
		assert.ErrorIs(t, err, ErrPhoneExists)
		assert.ErrorIs(t, err, apperr.ErrConflict)
		repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("created in caller's gym", func(t *testing.T) {
		repo := new(MockRepository)
		repo.On("PhoneExists", ctx, "+998901234567").Return(false, nil)
		repo.On("Create", ctx, mock.MatchedBy(func(a *Account) bool {
			return a.TenantID != nil && *a.TenantID == tenantID
		})).Return(&Account{ID: uuid.New(), TenantID: &tenantID}, nil)

		a, err := NewService(repo, testClock(), "a", "r").Create(ctx, tenantID, validRequest())
		require.NoError(t, err)
		assert.Equal(t, tenantID, *a.TenantID)
		repo.AssertExpectations(t)
	})
}

func TestService_DeleteBlockedByActiveSubscription(t *testing.T) {
	ctx := context.Background()
	tenantID, userID := uuid.New(), uuid.New()
	clk := testClock()

	repo := new(MockRepository)
	repo.On("Delete", ctx, tenantID, userID, clock.Today(clk)).Return(ErrHasActiveSubscription)

	err := NewService(repo, clk, "a", "r").Delete(ctx, tenantID, userID)
	assert.ErrorIs(t, err, ErrHasActiveSubscription)
	assert.ErrorIs(t, err, apperr.ErrConflict)
	assert.Equal(t, "cannot delete a user with an active subscription", err.Error())
}

func TestService_Delete(t *testing.T) {
	ctx := context.Background()
	tenantID, userID := uuid.New(), uuid.New()
	clk := testClock()

	repo := new(MockRepository)
	repo.On("Delete", ctx, tenantID, userID, clock.Today(clk)).Return(nil)

	require.NoError(t, NewService(repo, clk, "a", "r").Delete(ctx, tenantID, userID))
	repo.AssertExpectations(t)
}

func TestService_Login(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()
	hash, err := auth.HashPassword("secret123")
	require.NoError(t, err)

	acc := &Account{ID: uuid.New(), PhoneNumber: "+998901234567", Role: auth.RoleAdmin, PasswordHash: hash, IsActive: true, TenantID: &tenantID}

	t.Run("success", func(t *testing.T) {
		repo := new(MockRepository)
		repo.On("FindByPhone", ctx, "+998901234567").Return(acc, nil)

		resp, err := NewService(repo, testClock(), "access", "refresh").Login(ctx, LoginRequest{PhoneNumber: "+998901234567", Password: "secret123"})
		require.NoError(t, err)

		claims, err := auth.ValidateToken(resp.AccessToken, "access")
		require.NoError(t, err)
		assert.Equal(t, tenantID, claims.TenantID)
		assert.Equal(t, auth.RoleAdmin, claims.Role)
	})

	t.Run("wrong password", func(t *testing.T) {
		repo := new(MockRepository)
		repo.On("FindByPhone", ctx, "+998901234567").Return(acc, nil)

		_, err := NewService(repo, testClock(), "access", "refresh").Login(ctx, LoginRequest{PhoneNumber: "+998901234567", Password: "nope"})
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("unknown phone", func(t *testing.T) {
		repo := new(MockRepository)
		repo.On("FindByPhone", ctx, "+998900000000").Return(nil, ErrAccountNotFound)

		_, err := NewService(repo, testClock(), "access", "refresh").Login(ctx, LoginRequest{PhoneNumber: "+998900000000", Password: "x"})
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})
}

func TestService_Refresh(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()
	acc := &Account{ID: uuid.New(), Role: auth.RoleTrainer, IsActive: true, TenantID: &tenantID}

	refresh, err := auth.GenerateRefreshToken(auth.Identity{UserID: acc.ID, Role: auth.RoleClient, TenantID: tenantID}, "refresh")
	require.NoError(t, err)

	repo := new(MockRepository)
	repo.On("FindByID", ctx, acc.ID).Return(acc, nil)

	token, err := NewService(repo, testClock(), "access", "refresh").Refresh(ctx, refresh)
	require.NoError(t, err)

	claims, err := auth.ValidateToken(token, "access")
	require.NoError(t, err)
	assert.Equal(t, auth.RoleTrainer, claims.Role)
}

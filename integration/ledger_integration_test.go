package integration_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/Abduqodir7007/fitness-crm/internal/account"
	"github.com/Abduqodir7007/fitness-crm/internal/apperr"
	"github.com/Abduqodir7007/fitness-crm/internal/attendance"
	"github.com/Abduqodir7007/fitness-crm/internal/subscription"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConcurrentAssign_Integration(t *testing.T) {
	database := setupTestDB(t)
	ctx := context.Background()
	clk := testClock()

	gym := seedGym(t, database, "Iron Temple")
	ledger := subscription.NewService(subscription.NewRepository(database), clk, nil)
	accounts := account.NewService(account.NewRepository(database), clk, "secret", "secret")
	userID := seedClient(t, accounts, gym.TenantID, "Aziz")

	const attempts = 8
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		succeeded int
		conflicts int
	)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := ledger.AssignSubscription(ctx, gym.TenantID, subscription.AssignRequest{
				UserID:        userID,
				PlanID:        gym.PlanID,
				PaymentMethod: subscription.PaymentCash,
			})
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				succeeded++
			case errors.Is(err, apperr.ErrConflict):
				conflicts++
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, succeeded)
	assert.Equal(t, attempts-1, conflicts)

	var payments int
	require.NoError(t, database.Get(&payments, `SELECT COUNT(*) FROM payments WHERE gym_id = $1`, gym.TenantID))
	assert.Equal(t, 1, payments)
}

func TestDeleteRacingAssign_Integration(t *testing.T) {
	database := setupTestDB(t)
	ctx := context.Background()
	clk := testClock()

	gym := seedGym(t, database, "Iron Temple")
	ledger := subscription.NewService(subscription.NewRepository(database), clk, nil)
	accounts := account.NewService(account.NewRepository(database), clk, "secret", "secret")

	for i := 0; i < 10; i++ {
		userID := seedClient(t, accounts, gym.TenantID, "Aziz")

		var (
			wg        sync.WaitGroup
			assignErr error
			deleteErr error
		)
		wg.Add(2)
		go func() {
			defer wg.Done()
			_, assignErr = ledger.AssignSubscription(ctx, gym.TenantID, subscription.AssignRequest{
				UserID: userID, PlanID: gym.PlanID, PaymentMethod: subscription.PaymentCash,
			})
		}()
		go func() {
			defer wg.Done()
			deleteErr = accounts.Delete(ctx, gym.TenantID, userID)
		}()
		wg.Wait()

		if assignErr == nil {
			assert.True(t, errors.Is(deleteErr, apperr.ErrConflict), "delete after a committed assignment must fail, got %v", deleteErr)
			active, err := ledger.IsActiveSubscriber(ctx, gym.TenantID, userID)
			require.NoError(t, err)
			assert.True(t, active)
		} else {
			assert.True(t, errors.Is(assignErr, apperr.ErrNotFound), "got %v", assignErr)
			assert.NoError(t, deleteErr)
		}
	}

	var orphaned int
	require.NoError(t, database.Get(&orphaned, `SELECT COUNT(*) FROM payments WHERE gym_id = $1 AND user_id IS NULL`, gym.TenantID))
	assert.Zero(t, orphaned)
}

func TestAssignAfterExpiry_Integration(t *testing.T) {
	database := setupTestDB(t)
	ctx := context.Background()
	clk := testClock()

	gym := seedGym(t, database, "Iron Temple")
	ledger := subscription.NewService(subscription.NewRepository(database), clk, nil)
	accounts := account.NewService(account.NewRepository(database), clk, "secret", "secret")
	userID := seedClient(t, accounts, gym.TenantID, "Aziz")

	first, err := ledger.AssignSubscription(ctx, gym.TenantID, subscription.AssignRequest{
		UserID: userID, PlanID: gym.PlanID, PaymentMethod: subscription.PaymentCard,
	})
	require.NoError(t, err)
	assert.Equal(t, "2024-06-09", first.Subscription.EndDate.Format("2006-01-02"))

	active, err := ledger.IsActiveSubscriber(ctx, gym.TenantID, userID)
	require.NoError(t, err)
	assert.True(t, active)

	err = accounts.Delete(ctx, gym.TenantID, userID)
	assert.True(t, errors.Is(err, apperr.ErrConflict), "deleting an active member must fail, got %v", err)

	clk.Advance(31 * 24 * time.Hour)

	active, err = ledger.IsActiveSubscriber(ctx, gym.TenantID, userID)
	require.NoError(t, err)
	assert.False(t, active)

	second, err := ledger.AssignSubscription(ctx, gym.TenantID, subscription.AssignRequest{
		UserID: userID, PlanID: gym.PlanID, PaymentMethod: subscription.PaymentCash,
	})
	require.NoError(t, err)
	assert.NotEqual(t, first.Subscription.ID, second.Subscription.ID)
}

func TestTenantIsolation_Integration(t *testing.T) {
	database := setupTestDB(t)
	ctx := context.Background()
	clk := testClock()

	gymA := seedGym(t, database, "Gym A")
	gymB := seedGym(t, database, "Gym B")
	ledger := subscription.NewService(subscription.NewRepository(database), clk, nil)
	accounts := account.NewService(account.NewRepository(database), clk, "secret", "secret")
	userA := seedClient(t, accounts, gymA.TenantID, "Aziz")

	_, err := ledger.AssignSubscription(ctx, gymB.TenantID, subscription.AssignRequest{
		UserID: userA, PlanID: gymB.PlanID, PaymentMethod: subscription.PaymentCash,
	})
	assert.True(t, errors.Is(err, apperr.ErrNotFound), "got %v", err)

	_, err = ledger.AssignSubscription(ctx, gymA.TenantID, subscription.AssignRequest{
		UserID: userA, PlanID: gymB.PlanID, PaymentMethod: subscription.PaymentCash,
	})
	assert.True(t, errors.Is(err, apperr.ErrNotFound), "got %v", err)

	_, err = accounts.Get(ctx, gymB.TenantID, userA)
	assert.True(t, errors.Is(err, apperr.ErrNotFound), "got %v", err)
}

func TestCheckIn_Integration(t *testing.T) {
	database := setupTestDB(t)
	ctx := context.Background()
	clk := testClock()

	gym := seedGym(t, database, "Iron Temple")
	_ = subscription.NewService(subscription.NewRepository(database), clk, nil)
	accounts := account.NewService(account.NewRepository(database), clk, "secret", "secret")
	userID := seedClient(t, accounts, gym.TenantID, "Aziz")
	checkIns := attendance.NewService(attendance.NewRepository(database), clk)

	_, err := checkIns.CheckIn(ctx, gym.TenantID, userID)
	require.NoError(t, err)

	_, err = checkIns.CheckIn(ctx, gym.TenantID, userID)
	assert.ErrorIs(t, err, attendance.ErrAlreadyCheckedIn)

	clk.Advance(24 * time.Hour)
	_, err = checkIns.CheckIn(ctx, gym.TenantID, userID)
	require.NoError(t, err)

	rows, err := checkIns.ListByDate(ctx, gym.TenantID, nil)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "Aziz", rows[0].FirstName)
}

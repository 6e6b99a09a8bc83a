package integration_test

import (
	"context"
	"testing"
	"time"

	"github.com/Abduqodir7007/fitness-crm/internal/account"
	"github.com/Abduqodir7007/fitness-crm/internal/analytics"
	"github.com/Abduqodir7007/fitness-crm/internal/cache"
	"github.com/Abduqodir7007/fitness-crm/internal/dashboard"
	"github.com/Abduqodir7007/fitness-crm/internal/scheduler"
	"github.com/Abduqodir7007/fitness-crm/internal/subscription"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDashboardFollowsLedger_Integration(t *testing.T) {
	database := setupTestDB(t)
	ctx := context.Background()
	clk := testClock()

	store := cache.NewMemory(clk)
	keys := cache.NewKeys("it")
	ledger := subscription.NewService(subscription.NewRepository(database), clk, cache.NewInvalidator(store, keys))
	accounts := account.NewService(account.NewRepository(database), clk, "secret", "secret")
	stats := analytics.NewService(analytics.NewRepository(database), clk)
	dash := dashboard.NewService(stats, store, keys, ledger, clk, 24*time.Hour)

	gym := seedGym(t, database, "Iron Temple")
	aziz := seedClient(t, accounts, gym.TenantID, "Aziz")
	laylo := seedClient(t, accounts, gym.TenantID, "Laylo")

	week, err := dash.WeeklyClients(ctx, gym.TenantID)
	require.NoError(t, err)
	require.Len(t, week, analytics.WeekDays)
	assert.Equal(t, "2024-05-09", week[6].Day)

	_, err = ledger.AssignSubscription(ctx, gym.TenantID, subscription.AssignRequest{
		UserID: aziz, PlanID: gym.PlanID, PaymentMethod: subscription.PaymentCash,
	})
	require.NoError(t, err)
	_, err = ledger.AssignDailyPass(ctx, gym.TenantID, subscription.DailyPassRequest{
		UserID: laylo, Amount: 20000, PaymentMethod: subscription.PaymentCard,
	})
	require.NoError(t, err)

	profit, err := dash.Profit(ctx, gym.TenantID)
	require.NoError(t, err)
	assert.Equal(t, int64(320000), profit.DailyProfit)
	assert.Equal(t, int64(320000), profit.MonthlyProfit)

	subs, err := dash.SubscriptionStats(ctx, gym.TenantID)
	require.NoError(t, err)
	assert.Equal(t, 1, subs.TotalActiveSubscriptions)

	history, err := dash.PaymentHistory(ctx, gym.TenantID, 10, 0)
	require.NoError(t, err)
	assert.Len(t, history, 2)

	// the day pass shows up in tomorrow's weekly window
	clk.Advance(24 * time.Hour)
	week, err = dash.WeeklyClients(ctx, gym.TenantID)
	require.NoError(t, err)
	assert.Equal(t, "2024-05-10", week[6].Day)
	assert.Equal(t, 1, week[6].Count)
}

func TestExpirySweep_Integration(t *testing.T) {
	database := setupTestDB(t)
	ctx := context.Background()
	clk := testClock()

	store := cache.NewMemory(clk)
	keys := cache.NewKeys("it")
	ledger := subscription.NewService(subscription.NewRepository(database), clk, cache.NewInvalidator(store, keys))
	accounts := account.NewService(account.NewRepository(database), clk, "secret", "secret")
	stats := analytics.NewService(analytics.NewRepository(database), clk)
	dash := dashboard.NewService(stats, store, keys, ledger, clk, 24*time.Hour)

	gym := seedGym(t, database, "Iron Temple")
	aziz := seedClient(t, accounts, gym.TenantID, "Aziz")

	_, err := ledger.AssignSubscription(ctx, gym.TenantID, subscription.AssignRequest{
		UserID: aziz, PlanID: gym.PlanID, PaymentMethod: subscription.PaymentCash,
	})
	require.NoError(t, err)

	clk.Advance(28 * 24 * time.Hour)
	expiring, err := dash.Notifications(ctx, gym.TenantID)
	require.NoError(t, err)
	require.Len(t, expiring, 1)
	assert.Equal(t, 2, expiring[0].DaysLeft)
	assert.Equal(t, analytics.StatusEndingSoon, expiring[0].Status)

	clk.Advance(3 * 24 * time.Hour)
	jobs := scheduler.New(time.UTC, scheduler.Deps{Ledger: ledger, Cache: dash})
	require.NoError(t, jobs.SweepExpired(ctx))

	var stillActive int
	require.NoError(t, database.Get(&stillActive,
		`SELECT COUNT(*) FROM subscriptions WHERE gym_id = $1 AND is_active = true`, gym.TenantID))
	assert.Equal(t, 0, stillActive)
}

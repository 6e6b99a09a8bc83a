package integration_test

import (
	"context"
	"fmt"
	"math/rand"
	"os"
	"testing"
	"time"

	"github.com/Abduqodir7007/fitness-crm/internal/account"
	"github.com/Abduqodir7007/fitness-crm/internal/clock"
	"github.com/Abduqodir7007/fitness-crm/internal/db"
	"github.com/Abduqodir7007/fitness-crm/internal/plan"
	"github.com/Abduqodir7007/fitness-crm/internal/tenant"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/stretchr/testify/require"
)

// setupTestDB connects to TEST_DSN, applies migrations and empties every
// table. Tests are skipped when no database is reachable.
func setupTestDB(t *testing.T) *sqlx.DB {
	t.Helper()
	if testing.Short() {
		t.Skip("Skipping integration test")
	}

	dsn := os.Getenv("TEST_DSN")
	if dsn == "" {
		t.Skip("Skipping integration tests: TEST_DSN is not set")
	}

	database, err := sqlx.Connect("postgres", dsn)
	if err != nil {
		t.Skipf("Skipping integration tests: cannot connect to test database: %v", err)
	}
	t.Cleanup(func() { database.Close() })

	require.NoError(t, db.RunMigrations(database, "../migrations"))
	cleanDatabase(t, database)
	return database
}

func cleanDatabase(t *testing.T, database *sqlx.DB) {
	tables := []string{
		"attendance",
		"payments",
		"daily_passes",
		"subscriptions",
		"subscription_plans",
		"users",
		"gyms",
	}

	for _, table := range tables {
		_, err := database.Exec(fmt.Sprintf("DELETE FROM %s", table))
		require.NoError(t, err, "Failed to clean table "+table)
	}
}

func testClock() *clock.Fake {
	return clock.NewFake(time.Date(2024, time.May, 10, 14, 0, 0, 0, time.UTC))
}

func randomPhone() string {
	return fmt.Sprintf("+99890%07d", rand.Intn(10_000_000))
}

type fixture struct {
	TenantID uuid.UUID
	AdminID  uuid.UUID
	PlanID   uuid.UUID
}

// seedGym creates a gym with its admin and one 30 day plan.
func seedGym(t *testing.T, database *sqlx.DB, name string) fixture {
	t.Helper()
	ctx := context.Background()

	resp, err := tenant.NewService(tenant.NewRepository(database), false).CreateWithAdmin(ctx, tenant.CreateGymRequest{
		Name: name,
		Admin: tenant.AdminInput{
			FirstName:   "Admin",
			LastName:    name,
			PhoneNumber: randomPhone(),
			Password:    "password123",
		},
	})
	require.NoError(t, err)

	p, err := plan.NewService(plan.NewRepository(database)).Create(ctx, resp.Gym.ID, plan.CreatePlanRequest{
		Type:         "monthly",
		Price:        300000,
		DurationDays: 30,
	})
	require.NoError(t, err)

	return fixture{TenantID: resp.Gym.ID, AdminID: resp.AdminID, PlanID: p.ID}
}

func seedClient(t *testing.T, svc account.Service, tenantID uuid.UUID, firstName string) uuid.UUID {
	t.Helper()

	acc, err := svc.Create(context.Background(), tenantID, account.CreateAccountRequest{
		FirstName:   firstName,
		LastName:    "Client",
		PhoneNumber: randomPhone(),
		Password:    "password123",
	})
	require.NoError(t, err)
	return acc.ID
}

package analytics

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupAnalyticsMock(t *testing.T) (Repository, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	// postgres bind type so sqlx.Rebind produces $n placeholders
	return NewRepository(sqlx.NewDb(db, "postgres")), mock
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestCountActiveClients_TenantScoped(t *testing.T) {
	repo, mock := setupAnalyticsMock(t)
	gymA, gymB := uuid.New(), uuid.New()
	query := regexp.QuoteMeta("WHERE gym_id = $1 AND is_active = true AND role = 'client' AND is_superuser = false")

	mock.ExpectQuery(query).WithArgs(gymA).WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(3))
	mock.ExpectQuery(query).WithArgs(gymB).WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	a, err := repo.CountActiveClients(context.Background(), gymA)
	require.NoError(t, err)
	b, err := repo.CountActiveClients(context.Background(), gymB)
	require.NoError(t, err)

	assert.Equal(t, 3, a)
	assert.Equal(t, 1, b)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSumPayments_EmptyWindowIsZero(t *testing.T) {
	repo, mock := setupAnalyticsMock(t)
	tenantID := uuid.New()
	start, end := day(2024, time.May, 1), day(2024, time.May, 10)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT COALESCE(SUM(amount), 0) FROM payments WHERE gym_id = $1 AND payment_date BETWEEN $2 AND $3")).
		WithArgs(tenantID, start, end).
		WillReturnRows(sqlmock.NewRows([]string{"coalesce"}).AddRow(0))

	sum, err := repo.SumPayments(context.Background(), tenantID, start, end)
	require.NoError(t, err)
	assert.Equal(t, int64(0), sum)
}

func TestSubscriptionsEndingOn(t *testing.T) {
	repo, mock := setupAnalyticsMock(t)
	tenantID := uuid.New()
	days := []time.Time{day(2024, time.May, 11), day(2024, time.May, 12), day(2024, time.May, 13)}

	mock.ExpectQuery(regexp.QuoteMeta("WHERE s.gym_id = $1 AND s.is_active = true AND s.end_date IN ($2, $3, $4)")).
		WithArgs(tenantID.String(), "2024-05-11", "2024-05-12", "2024-05-13").
		WillReturnRows(sqlmock.NewRows([]string{"user_id", "first_name", "last_name", "phone_number", "end_date"}).
			AddRow(uuid.NewString(), "Aziz", "Rahimov", "+998901112233", days[0]))

	rows, err := repo.SubscriptionsEndingOn(context.Background(), tenantID, days)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "Rahimov", rows[0].LastName)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSubscriptionsEndingOn_NoDays(t *testing.T) {
	repo, mock := setupAnalyticsMock(t)

	rows, err := repo.SubscriptionsEndingOn(context.Background(), uuid.New(), nil)
	require.NoError(t, err)
	assert.Empty(t, rows)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPaymentsByMonth(t *testing.T) {
	repo, mock := setupAnalyticsMock(t)
	tenantID := uuid.New()
	start, end := day(2024, time.November, 1), day(2025, time.January, 31)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT to_char(payment_date, 'YYYY-MM') AS month, SUM(amount) AS profit")).
		WithArgs(tenantID, start, end).
		WillReturnRows(sqlmock.NewRows([]string{"month", "profit"}).
			AddRow("2024-11", 100000).
			AddRow("2025-01", 50000))

	rows, err := repo.PaymentsByMonth(context.Background(), tenantID, start, end)
	require.NoError(t, err)
	assert.Equal(t, []MonthProfit{{Month: "2024-11", Profit: 100000}, {Month: "2025-01", Profit: 50000}}, rows)
}

func TestDailyPassCounts(t *testing.T) {
	repo, mock := setupAnalyticsMock(t)
	tenantID := uuid.New()
	start, end := day(2024, time.May, 3), day(2024, time.May, 9)

	mock.ExpectQuery(regexp.QuoteMeta("FROM daily_passes WHERE gym_id = $1 AND subscription_date BETWEEN $2 AND $3")).
		WithArgs(tenantID, start, end).
		WillReturnRows(sqlmock.NewRows([]string{"day", "count"}).AddRow("2024-05-04", 2))

	rows, err := repo.DailyPassCounts(context.Background(), tenantID, start, end)
	require.NoError(t, err)
	assert.Equal(t, []DayCount{{Day: "2024-05-04", Count: 2}}, rows)
}

package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campustransit/transit-api/internal/models"
)

func newDashboardMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

func TestDashboardRepositoryBusCounts(t *testing.T) {
	db, mock, cleanup := newDashboardMock(t)
	defer cleanup()
	repo := NewDashboardRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("FROM buses")).
		WillReturnRows(sqlmock.NewRows([]string{"total", "active"}).AddRow(12, 9))

	counts, err := repo.BusCounts(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 12, counts.Total)
	assert.Equal(t, 9, counts.Active)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDashboardRepositoryRevenueByPeriodFiltersCompleted(t *testing.T) {
	db, mock, cleanup := newDashboardMock(t)
	defer cleanup()
	repo := NewDashboardRepository(db)
	now := time.Date(2024, 5, 20, 12, 0, 0, 0, time.UTC)

	rows := sqlmock.NewRows([]string{"period", "label", "revenue_total", "count"}).
		AddRow("2024-04", "Apr 2024", 1500.0, 3).
		AddRow("2024-05", "May 2024", 800.5, 2)
	mock.ExpectQuery(regexp.QuoteMeta("WHERE status = 'completed' AND payment_date >= ? AND payment_date <= ?")).
		WithArgs(models.PeriodMonthly.WindowStart(now), now).
		WillReturnRows(rows)

	buckets, err := repo.RevenueByPeriod(context.Background(), models.PeriodMonthly, now)
	require.NoError(t, err)
	require.Len(t, buckets, 2)
	assert.Equal(t, "Apr 2024", buckets[0].Label)
	assert.Equal(t, 1500.0, buckets[0].Revenue)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDashboardRepositoryUpcomingSchedules(t *testing.T) {
	db, mock, cleanup := newDashboardMock(t)
	defer cleanup()
	repo := NewDashboardRepository(db)
	now := time.Date(2024, 5, 20, 8, 0, 0, 0, time.UTC)

	rows := sqlmock.NewRows([]string{
		"id", "bus_id", "route_id", "departure_time", "arrival_time", "fare", "status",
		"created_at", "updated_at", "bus_number", "route_name", "start_location", "end_location",
	}).AddRow("sch-1", "bus-1", "route-1", now.Add(time.Hour), now.Add(2*time.Hour), 2.5, "scheduled",
		now, now, "TR-01", "Campus Loop", "Main Gate", "Science Hall")
	mock.ExpectQuery(regexp.QuoteMeta("WHERE s.departure_time > ? AND s.status = 'scheduled'")).
		WithArgs(now, 5).
		WillReturnRows(rows)

	schedules, err := repo.UpcomingSchedules(context.Background(), now, 5)
	require.NoError(t, err)
	require.Len(t, schedules, 1)
	assert.Equal(t, "TR-01", schedules[0].BusNumber)
	assert.True(t, schedules[0].DepartureTime.After(now))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDashboardRepositoryMaintenanceNeededWindow(t *testing.T) {
	db, mock, cleanup := newDashboardMock(t)
	defer cleanup()
	repo := NewDashboardRepository(db)
	now := time.Date(2024, 5, 20, 0, 0, 0, 0, time.UTC)
	due := now.AddDate(0, 0, 3)

	rows := sqlmock.NewRows([]string{"id", "bus_number", "bus_nickname", "status", "last_maintenance_date", "next_maintenance_date"}).
		AddRow("bus-1", "TR-01", "Big Blue", "active", nil, due)
	mock.ExpectQuery(regexp.QuoteMeta("AND next_maintenance_date <= ?")).
		WithArgs(now, now.AddDate(0, 0, 7)).
		WillReturnRows(rows)

	entries, err := repo.MaintenanceNeeded(context.Background(), now, 7)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	require.NotNil(t, entries[0].NextMaintenanceDate)
	assert.Equal(t, due, *entries[0].NextMaintenanceDate)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDashboardRepositoryPaymentStatusCounts(t *testing.T) {
	db, mock, cleanup := newDashboardMock(t)
	defer cleanup()
	repo := NewDashboardRepository(db)

	rows := sqlmock.NewRows([]string{"status", "count"}).
		AddRow("completed", 40).
		AddRow("pending", 10)
	mock.ExpectQuery(regexp.QuoteMeta("FROM payments GROUP BY status")).WillReturnRows(rows)

	counts, err := repo.PaymentStatusCounts(context.Background())
	require.NoError(t, err)
	require.Len(t, counts, 2)
	assert.Equal(t, models.PaymentStatusCompleted, counts[0].Status)
	assert.Equal(t, 40, counts[0].Count)
	assert.NoError(t, mock.ExpectationsWereMet())
}

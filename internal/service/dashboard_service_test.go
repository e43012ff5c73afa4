package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campustransit/transit-api/internal/models"
)

type fakeDashboardRepo struct {
	buses        models.EntityCount
	routes       models.EntityCount
	schedules    models.EntityCount
	students     models.EntityCount
	statusCounts []models.PaymentStatusCount
	revenue      []models.RevenueBucket
	methods      []models.PaymentMethodShare
	recent       []models.PaymentDetail
	upcoming     []models.ScheduleDetail
	needed       []models.MaintenanceEntry
	nextVisits   []models.MaintenanceEntry
	history      []models.MaintenanceEntry

	busErr     error
	revenueErr error

	revenuePeriod models.Period
	upcomingNow   time.Time
	upcomingLimit int
	windowDays    int
}

func (f *fakeDashboardRepo) BusCounts(context.Context) (models.EntityCount, error) {
	return f.buses, f.busErr
}

func (f *fakeDashboardRepo) RouteCounts(context.Context) (models.EntityCount, error) {
	return f.routes, nil
}

func (f *fakeDashboardRepo) ScheduleCounts(context.Context) (models.EntityCount, error) {
	return f.schedules, nil
}

func (f *fakeDashboardRepo) StudentCounts(context.Context) (models.EntityCount, error) {
	return f.students, nil
}

func (f *fakeDashboardRepo) PaymentStatusCounts(context.Context) ([]models.PaymentStatusCount, error) {
	return f.statusCounts, nil
}

func (f *fakeDashboardRepo) RevenueByPeriod(_ context.Context, period models.Period, _ time.Time) ([]models.RevenueBucket, error) {
	f.revenuePeriod = period
	return f.revenue, f.revenueErr
}

func (f *fakeDashboardRepo) PaymentMethodShares(context.Context, time.Time) ([]models.PaymentMethodShare, error) {
	return f.methods, nil
}

func (f *fakeDashboardRepo) RecentPayments(context.Context, int) ([]models.PaymentDetail, error) {
	return f.recent, nil
}

func (f *fakeDashboardRepo) UpcomingSchedules(_ context.Context, now time.Time, limit int) ([]models.ScheduleDetail, error) {
	f.upcomingNow = now
	f.upcomingLimit = limit
	return f.upcoming, nil
}

func (f *fakeDashboardRepo) MaintenanceNeeded(_ context.Context, _ time.Time, days int) ([]models.MaintenanceEntry, error) {
	f.windowDays = days
	return f.needed, nil
}

func (f *fakeDashboardRepo) UpcomingMaintenance(context.Context, time.Time, int) ([]models.MaintenanceEntry, error) {
	return f.nextVisits, nil
}

func (f *fakeDashboardRepo) MaintenanceHistory(context.Context, time.Time, int) ([]models.MaintenanceEntry, error) {
	return f.history, nil
}

func newDashboardService(repo *fakeDashboardRepo) *DashboardService {
	svc := NewDashboardService(DashboardServiceParams{Repo: repo})
	svc.now = func() time.Time { return time.Date(2024, 5, 20, 12, 0, 0, 0, time.UTC) }
	return svc
}

func TestDashboardStatsComposesOverview(t *testing.T) {
	repo := &fakeDashboardRepo{
		buses:     models.EntityCount{Total: 12, Active: 9},
		routes:    models.EntityCount{Total: 6, Active: 5},
		schedules: models.EntityCount{Total: 30, Active: 14},
		students:  models.EntityCount{Total: 400, Active: 380},
		statusCounts: []models.PaymentStatusCount{
			{Status: models.PaymentStatusCompleted, Count: 60},
			{Status: models.PaymentStatusPending, Count: 20},
			{Status: models.PaymentStatusFailed, Count: 20},
		},
	}
	svc := newDashboardService(repo)

	payload, cached, err := svc.Stats(context.Background())
	require.NoError(t, err)
	assert.False(t, cached)
	assert.Equal(t, 12, payload.Overview.Buses.Total)
	assert.Equal(t, 100, payload.Overview.Payments.Total)
	assert.Equal(t, 60, payload.Overview.Payments.Completed)
	assert.Equal(t, 20, payload.Overview.Payments.Pending)
	assert.InDelta(t, 20.0, payload.Overview.Payments.PendingPercent, 0.001)
	assert.NotNil(t, payload.RecentPayments)
	assert.NotNil(t, payload.UpcomingSchedules)
}

func TestDashboardStatsActiveNeverExceedsTotal(t *testing.T) {
	repo := &fakeDashboardRepo{
		buses: models.EntityCount{Total: 3, Active: 3},
	}
	svc := newDashboardService(repo)

	payload, _, err := svc.Stats(context.Background())
	require.NoError(t, err)
	assert.LessOrEqual(t, payload.Overview.Buses.Active, payload.Overview.Buses.Total)
}

func TestDashboardStatsFailsWhenAnyQueryFails(t *testing.T) {
	repo := &fakeDashboardRepo{busErr: errors.New("connection reset")}
	svc := newDashboardService(repo)

	payload, cached, err := svc.Stats(context.Background())
	assert.Error(t, err)
	assert.False(t, cached)
	assert.Nil(t, payload)
}

func TestDashboardStatsPassesUpcomingLimit(t *testing.T) {
	repo := &fakeDashboardRepo{}
	svc := newDashboardService(repo)

	_, _, err := svc.Stats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 5, repo.upcomingLimit)
	assert.Equal(t, time.Date(2024, 5, 20, 12, 0, 0, 0, time.UTC), repo.upcomingNow)
}

func TestDashboardRevenueFallsBackToMonthly(t *testing.T) {
	repo := &fakeDashboardRepo{
		revenue: []models.RevenueBucket{{Period: "2024-05", Label: "May 2024", Revenue: 120, Count: 4}},
	}
	svc := newDashboardService(repo)

	payload, _, err := svc.Revenue(context.Background(), "yearly")
	require.NoError(t, err)
	assert.Equal(t, "monthly", payload.Period)
	assert.Equal(t, models.PeriodMonthly, repo.revenuePeriod)
}

func TestDashboardRevenueKeepsKnownPeriod(t *testing.T) {
	repo := &fakeDashboardRepo{}
	svc := newDashboardService(repo)

	payload, _, err := svc.Revenue(context.Background(), "daily")
	require.NoError(t, err)
	assert.Equal(t, "daily", payload.Period)
	assert.NotNil(t, payload.Revenue)
	assert.NotNil(t, payload.Methods)
}

func TestDashboardRevenueFailsOnQueryError(t *testing.T) {
	repo := &fakeDashboardRepo{revenueErr: errors.New("timeout")}
	svc := newDashboardService(repo)

	payload, _, err := svc.Revenue(context.Background(), "monthly")
	assert.Error(t, err)
	assert.Nil(t, payload)
}

func TestDashboardMaintenanceUsesConfiguredWindow(t *testing.T) {
	due := time.Date(2024, 5, 23, 0, 0, 0, 0, time.UTC)
	repo := &fakeDashboardRepo{
		needed: []models.MaintenanceEntry{{BusID: "bus-1", BusNumber: "TR-01", NextMaintenanceDate: &due}},
	}
	svc := newDashboardService(repo)

	payload, _, err := svc.Maintenance(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 7, repo.windowDays)
	require.Len(t, payload.MaintenanceNeeded, 1)
	assert.Equal(t, "TR-01", payload.MaintenanceNeeded[0].BusNumber)
	assert.NotNil(t, payload.UpcomingMaintenance)
	assert.NotNil(t, payload.MaintenanceHistory)
}

package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/campustransit/transit-api/internal/dto"
	"github.com/campustransit/transit-api/internal/models"
)

type dashboardStatsRepository interface {
	BusCounts(ctx context.Context) (models.EntityCount, error)
	RouteCounts(ctx context.Context) (models.EntityCount, error)
	ScheduleCounts(ctx context.Context) (models.EntityCount, error)
	StudentCounts(ctx context.Context) (models.EntityCount, error)
	PaymentStatusCounts(ctx context.Context) ([]models.PaymentStatusCount, error)
	RevenueByPeriod(ctx context.Context, period models.Period, now time.Time) ([]models.RevenueBucket, error)
	PaymentMethodShares(ctx context.Context, since time.Time) ([]models.PaymentMethodShare, error)
	RecentPayments(ctx context.Context, limit int) ([]models.PaymentDetail, error)
	UpcomingSchedules(ctx context.Context, now time.Time, limit int) ([]models.ScheduleDetail, error)
	MaintenanceNeeded(ctx context.Context, now time.Time, days int) ([]models.MaintenanceEntry, error)
	UpcomingMaintenance(ctx context.Context, now time.Time, limit int) ([]models.MaintenanceEntry, error)
	MaintenanceHistory(ctx context.Context, now time.Time, limit int) ([]models.MaintenanceEntry, error)
}

// DashboardServiceConfig tunes dashboard behaviour.
type DashboardServiceConfig struct {
	CacheTTL        time.Duration
	QueryTimeout    time.Duration
	RecentLimit     int
	UpcomingLimit   int
	MaintenanceDays int
}

// DashboardService composes the statistics payloads served to the admin
// dashboard. Sub-queries for one payload run concurrently under a shared
// deadline; any failure fails the whole request rather than returning a
// partial payload.
type DashboardService struct {
	repo   dashboardStatsRepository
	cache  *CacheService
	logger *zap.Logger
	now    func() time.Time
	cfg    DashboardServiceConfig
}

// DashboardServiceParams groups constructor dependencies.
type DashboardServiceParams struct {
	Repo   dashboardStatsRepository
	Cache  *CacheService
	Logger *zap.Logger
	Config DashboardServiceConfig
}

// NewDashboardService constructs a DashboardService with sane defaults.
func NewDashboardService(params DashboardServiceParams) *DashboardService {
	cfg := params.Config
	if cfg.CacheTTL <= 0 {
		cfg.CacheTTL = 5 * time.Minute
	}
	if cfg.QueryTimeout <= 0 {
		cfg.QueryTimeout = 5 * time.Second
	}
	if cfg.RecentLimit <= 0 {
		cfg.RecentLimit = 5
	}
	if cfg.UpcomingLimit <= 0 {
		cfg.UpcomingLimit = 5
	}
	if cfg.MaintenanceDays <= 0 {
		cfg.MaintenanceDays = 7
	}
	logger := params.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DashboardService{
		repo:   params.Repo,
		cache:  params.Cache,
		logger: logger,
		now:    time.Now,
		cfg:    cfg,
	}
}

// Stats returns the composite dashboard payload and indicates cache
// utilisation.
func (s *DashboardService) Stats(ctx context.Context) (*dto.DashboardStatsResponse, bool, error) {
	const cacheKey = "dash:stats"
	var cached dto.DashboardStatsResponse
	if hit, err := s.cache.Get(ctx, cacheKey, &cached); err == nil && hit {
		return &cached, true, nil
	}

	ctx, cancel := context.WithTimeout(ctx, s.cfg.QueryTimeout)
	defer cancel()
	now := s.now().UTC()

	var (
		buses, routes, schedules, students models.EntityCount
		statusCounts                       []models.PaymentStatusCount
		recent                             []models.PaymentDetail
		upcoming                           []models.ScheduleDetail
	)
	err := s.gather(ctx,
		func(ctx context.Context) (err error) {
			buses, err = s.repo.BusCounts(ctx)
			return err
		},
		func(ctx context.Context) (err error) {
			routes, err = s.repo.RouteCounts(ctx)
			return err
		},
		func(ctx context.Context) (err error) {
			schedules, err = s.repo.ScheduleCounts(ctx)
			return err
		},
		func(ctx context.Context) (err error) {
			students, err = s.repo.StudentCounts(ctx)
			return err
		},
		func(ctx context.Context) (err error) {
			statusCounts, err = s.repo.PaymentStatusCounts(ctx)
			return err
		},
		func(ctx context.Context) (err error) {
			recent, err = s.repo.RecentPayments(ctx, s.cfg.RecentLimit)
			return err
		},
		func(ctx context.Context) (err error) {
			upcoming, err = s.repo.UpcomingSchedules(ctx, now, s.cfg.UpcomingLimit)
			return err
		},
	)
	if err != nil {
		return nil, false, err
	}

	payload := &dto.DashboardStatsResponse{
		Overview: dto.DashboardOverview{
			Buses:     buses,
			Routes:    routes,
			Schedules: schedules,
			Students:  students,
			Payments:  buildPaymentOverview(statusCounts),
		},
		RecentPayments:    emptyWhenNil(recent),
		UpcomingSchedules: emptyWhenNil(upcoming),
	}
	s.persistCache(ctx, cacheKey, payload)
	return payload, false, nil
}

// Revenue returns the bucketed revenue series for the requested period.
// Unknown period keywords fall back to monthly.
func (s *DashboardService) Revenue(ctx context.Context, rawPeriod string) (*dto.RevenueResponse, bool, error) {
	period := models.ResolvePeriod(rawPeriod)
	cacheKey := fmt.Sprintf("dash:revenue:%s", period)
	var cached dto.RevenueResponse
	if hit, err := s.cache.Get(ctx, cacheKey, &cached); err == nil && hit {
		return &cached, true, nil
	}

	ctx, cancel := context.WithTimeout(ctx, s.cfg.QueryTimeout)
	defer cancel()
	now := s.now().UTC()

	var (
		buckets []models.RevenueBucket
		methods []models.PaymentMethodShare
	)
	err := s.gather(ctx,
		func(ctx context.Context) (err error) {
			buckets, err = s.repo.RevenueByPeriod(ctx, period, now)
			return err
		},
		func(ctx context.Context) (err error) {
			methods, err = s.repo.PaymentMethodShares(ctx, period.WindowStart(now))
			return err
		},
	)
	if err != nil {
		return nil, false, err
	}

	payload := &dto.RevenueResponse{
		Period:  string(period),
		Revenue: emptyWhenNil(buckets),
		Methods: emptyWhenNil(methods),
	}
	s.persistCache(ctx, cacheKey, payload)
	return payload, false, nil
}

// Maintenance returns the fleet maintenance panels.
func (s *DashboardService) Maintenance(ctx context.Context) (*dto.MaintenanceResponse, bool, error) {
	const cacheKey = "dash:maintenance"
	var cached dto.MaintenanceResponse
	if hit, err := s.cache.Get(ctx, cacheKey, &cached); err == nil && hit {
		return &cached, true, nil
	}

	ctx, cancel := context.WithTimeout(ctx, s.cfg.QueryTimeout)
	defer cancel()
	now := s.now().UTC()

	var needed, upcoming, history []models.MaintenanceEntry
	err := s.gather(ctx,
		func(ctx context.Context) (err error) {
			needed, err = s.repo.MaintenanceNeeded(ctx, now, s.cfg.MaintenanceDays)
			return err
		},
		func(ctx context.Context) (err error) {
			upcoming, err = s.repo.UpcomingMaintenance(ctx, now, s.cfg.UpcomingLimit)
			return err
		},
		func(ctx context.Context) (err error) {
			history, err = s.repo.MaintenanceHistory(ctx, now, s.cfg.UpcomingLimit)
			return err
		},
	)
	if err != nil {
		return nil, false, err
	}

	payload := &dto.MaintenanceResponse{
		MaintenanceNeeded:   emptyWhenNil(needed),
		UpcomingMaintenance: emptyWhenNil(upcoming),
		MaintenanceHistory:  emptyWhenNil(history),
	}
	s.persistCache(ctx, cacheKey, payload)
	return payload, false, nil
}

// InvalidateStats drops every cached dashboard payload. Write paths call
// this after mutating the tables the aggregates read.
func (s *DashboardService) InvalidateStats(ctx context.Context) {
	s.cache.Invalidate(ctx, "dash:*")
}

// gather runs the tasks concurrently and returns the first error, if any.
// The shared context carries the query deadline; a slow aggregate cancels
// its siblings through the deadline rather than running unbounded.
func (s *DashboardService) gather(ctx context.Context, tasks ...func(context.Context) error) error {
	errCh := make(chan error, len(tasks))
	for _, task := range tasks {
		go func(task func(context.Context) error) {
			errCh <- task(ctx)
		}(task)
	}
	var firstErr error
	for range tasks {
		if err := <-errCh; err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

func (s *DashboardService) persistCache(ctx context.Context, key string, value interface{}) {
	if err := s.cache.Set(ctx, key, value, s.cfg.CacheTTL); err != nil {
		s.logger.Warn("dashboard cache write failed", zap.String("key", key), zap.Error(err))
	}
}

// buildPaymentOverview folds raw status tallies into the overview shape and
// derives the pending ratio at the boundary.
func buildPaymentOverview(counts []models.PaymentStatusCount) dto.PaymentOverview {
	var overview dto.PaymentOverview
	for _, c := range counts {
		overview.Total += c.Count
		switch c.Status {
		case models.PaymentStatusCompleted:
			overview.Completed += c.Count
		case models.PaymentStatusPending:
			overview.Pending += c.Count
		}
	}
	if overview.Total > 0 {
		overview.PendingPercent = float64(overview.Pending) / float64(overview.Total) * 100
	}
	return overview
}

// emptyWhenNil keeps list fields serialising as [] instead of null.
func emptyWhenNil[T any](items []T) []T {
	if items == nil {
		return []T{}
	}
	return items
}

package service

import (
	"context"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/campustransit/transit-api/internal/dto"
	"github.com/campustransit/transit-api/internal/models"
	appErrors "github.com/campustransit/transit-api/pkg/errors"
)

type busLocationRepository interface {
	Insert(ctx context.Context, location models.BusLocation) error
	Latest(ctx context.Context, busID string) (models.BusLocation, error)
	Active(ctx context.Context, since time.Time) ([]models.ActiveBusLocation, error)
	History(ctx context.Context, busID string, from, to time.Time) ([]models.BusLocation, error)
	ActivitySeries(ctx context.Context, period models.Period, now time.Time) ([]models.LocationActivityBucket, error)
	DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}

// BusLocationServiceConfig tunes live tracking behaviour.
type BusLocationServiceConfig struct {
	ActiveWindow     time.Duration
	HistoryRetention time.Duration
}

// BusLocationService ingests GPS pings and serves live tracking reads.
type BusLocationService struct {
	repo      busLocationRepository
	buses     busFinder
	validator *validator.Validate
	metrics   *MetricsService
	logger    *zap.Logger
	now       func() time.Time
	cfg       BusLocationServiceConfig
}

// BusLocationServiceParams groups constructor dependencies.
type BusLocationServiceParams struct {
	Repo      busLocationRepository
	Buses     busFinder
	Validator *validator.Validate
	Metrics   *MetricsService
	Logger    *zap.Logger
	Config    BusLocationServiceConfig
}

// NewBusLocationService constructs a BusLocationService.
func NewBusLocationService(params BusLocationServiceParams) *BusLocationService {
	cfg := params.Config
	if cfg.ActiveWindow <= 0 {
		cfg.ActiveWindow = 5 * time.Minute
	}
	if cfg.HistoryRetention <= 0 {
		cfg.HistoryRetention = 30 * 24 * time.Hour
	}
	validate := params.Validator
	if validate == nil {
		validate = validator.New()
	}
	logger := params.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &BusLocationService{
		repo:      params.Repo,
		buses:     params.Buses,
		validator: validate,
		metrics:   params.Metrics,
		logger:    logger,
		now:       time.Now,
		cfg:       cfg,
	}
}

// Record ingests a GPS ping for an existing bus.
func (s *BusLocationService) Record(ctx context.Context, req dto.RecordLocationRequest) (*models.BusLocation, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid location payload")
	}
	if _, err := s.buses.FindByID(ctx, req.BusID); err != nil {
		if appErrors.FromError(err).Status == appErrors.ErrNotFound.Status {
			return nil, appErrors.Clone(appErrors.ErrValidation, "unknown bus: "+req.BusID)
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check bus")
	}

	now := s.now().UTC()
	recordedAt := now
	if req.RecordedAt != nil {
		recordedAt = req.RecordedAt.UTC()
		// A future-dated ping would pin the bus inside the active
		// window until that timestamp passes.
		if recordedAt.After(now) {
			recordedAt = now
		}
	}
	location := models.BusLocation{
		ID:         uuid.NewString(),
		BusID:      req.BusID,
		Latitude:   *req.Latitude,
		Longitude:  *req.Longitude,
		RecordedAt: recordedAt,
	}
	if err := s.repo.Insert(ctx, location); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to record location")
	}
	if s.metrics != nil {
		s.metrics.RecordLocationPing()
	}
	return &location, nil
}

// Latest returns the most recent ping for a bus.
func (s *BusLocationService) Latest(ctx context.Context, busID string) (*models.BusLocation, error) {
	location, err := s.repo.Latest(ctx, busID)
	if err != nil {
		return nil, appErrors.FromError(err)
	}
	return &location, nil
}

// Active returns every bus that reported inside the active window.
func (s *BusLocationService) Active(ctx context.Context) ([]models.ActiveBusLocation, error) {
	since := s.now().UTC().Add(-s.cfg.ActiveWindow)
	locations, err := s.repo.Active(ctx, since)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list active buses")
	}
	if locations == nil {
		locations = []models.ActiveBusLocation{}
	}
	return locations, nil
}

// History returns a bus's pings inside a bounded range.
func (s *BusLocationService) History(ctx context.Context, busID string, req dto.LocationHistoryRequest) ([]models.BusLocation, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid history range")
	}
	locations, err := s.repo.History(ctx, busID, req.From.UTC(), req.To.UTC())
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load history")
	}
	return locations, nil
}

// Analytics buckets tracking activity by the requested period, falling
// back to monthly for unknown keywords.
func (s *BusLocationService) Analytics(ctx context.Context, rawPeriod string) (*dto.LocationAnalyticsResponse, error) {
	period := models.ResolvePeriod(rawPeriod)
	buckets, err := s.repo.ActivitySeries(ctx, period, s.now().UTC())
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to build analytics")
	}
	if buckets == nil {
		buckets = []models.LocationActivityBucket{}
	}
	return &dto.LocationAnalyticsResponse{Period: string(period), Activity: buckets}, nil
}

// PruneHistory deletes pings older than the retention window. The jobs
// queue calls this on a schedule.
func (s *BusLocationService) PruneHistory(ctx context.Context) (int64, error) {
	cutoff := s.now().UTC().Add(-s.cfg.HistoryRetention)
	removed, err := s.repo.DeleteOlderThan(ctx, cutoff)
	if err != nil {
		return 0, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to prune history")
	}
	if removed > 0 {
		s.logger.Info("pruned location history", zap.Int64("rows", removed))
	}
	return removed, nil
}

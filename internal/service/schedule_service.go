package service

import (
	"context"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/campustransit/transit-api/internal/dto"
	"github.com/campustransit/transit-api/internal/models"
	appErrors "github.com/campustransit/transit-api/pkg/errors"
)

type scheduleRepository interface {
	List(ctx context.Context, filter models.ScheduleFilter) ([]models.ScheduleDetail, int, error)
	FindByID(ctx context.Context, id string) (models.ScheduleDetail, error)
	Create(ctx context.Context, schedule models.Schedule) error
	Update(ctx context.Context, schedule models.Schedule) error
	UpdateStatus(ctx context.Context, id string, status models.ScheduleStatus) error
	Delete(ctx context.Context, id string) error
}

type busFinder interface {
	FindByID(ctx context.Context, id string) (models.BusDetail, error)
}

type routeFinder interface {
	FindByID(ctx context.Context, id string) (models.RouteDetail, error)
}

// ScheduleService manages trips.
type ScheduleService struct {
	repo      scheduleRepository
	buses     busFinder
	routes    routeFinder
	validator *validator.Validate
	cache     *CacheService
	logger    *zap.Logger
}

// ScheduleServiceParams groups constructor dependencies.
type ScheduleServiceParams struct {
	Repo      scheduleRepository
	Buses     busFinder
	Routes    routeFinder
	Validator *validator.Validate
	Cache     *CacheService
	Logger    *zap.Logger
}

// NewScheduleService constructs a ScheduleService.
func NewScheduleService(params ScheduleServiceParams) *ScheduleService {
	validate := params.Validator
	if validate == nil {
		validate = validator.New()
	}
	logger := params.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ScheduleService{
		repo:      params.Repo,
		buses:     params.Buses,
		routes:    params.Routes,
		validator: validate,
		cache:     params.Cache,
		logger:    logger,
	}
}

// List returns schedules matching the filter with pagination metadata.
func (s *ScheduleService) List(ctx context.Context, filter models.ScheduleFilter) ([]models.ScheduleDetail, *models.Pagination, error) {
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 || filter.PageSize > 100 {
		filter.PageSize = 20
	}
	if filter.Status != "" && !filter.Status.Valid() {
		return nil, nil, appErrors.Clone(appErrors.ErrValidation, "unknown schedule status: "+string(filter.Status))
	}
	schedules, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list schedules")
	}
	return schedules, &models.Pagination{Page: filter.Page, PageSize: filter.PageSize, TotalCount: total}, nil
}

// Get loads a single schedule.
func (s *ScheduleService) Get(ctx context.Context, id string) (*models.ScheduleDetail, error) {
	schedule, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, appErrors.FromError(err)
	}
	return &schedule, nil
}

// Create plans a trip on an existing bus and route.
func (s *ScheduleService) Create(ctx context.Context, req dto.CreateScheduleRequest) (*models.ScheduleDetail, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid schedule payload")
	}
	if err := s.checkReferences(ctx, req.BusID, req.RouteID); err != nil {
		return nil, err
	}

	schedule := models.Schedule{
		ID:            uuid.NewString(),
		BusID:         req.BusID,
		RouteID:       req.RouteID,
		DepartureTime: req.DepartureTime,
		ArrivalTime:   req.ArrivalTime,
		Fare:          req.Fare,
		Status:        models.ScheduleStatusScheduled,
	}
	if err := s.repo.Create(ctx, schedule); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create schedule")
	}
	s.invalidateDashboards(ctx)
	return s.Get(ctx, schedule.ID)
}

// Update rewrites a trip.
func (s *ScheduleService) Update(ctx context.Context, id string, req dto.UpdateScheduleRequest) (*models.ScheduleDetail, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid schedule payload")
	}
	if err := s.checkReferences(ctx, req.BusID, req.RouteID); err != nil {
		return nil, err
	}

	schedule := models.Schedule{
		ID:            id,
		BusID:         req.BusID,
		RouteID:       req.RouteID,
		DepartureTime: req.DepartureTime,
		ArrivalTime:   req.ArrivalTime,
		Fare:          req.Fare,
		Status:        models.ScheduleStatus(req.Status),
	}
	if err := s.repo.Update(ctx, schedule); err != nil {
		return nil, appErrors.FromError(err)
	}
	s.invalidateDashboards(ctx)
	return s.Get(ctx, id)
}

// UpdateStatus advances a trip through its lifecycle.
func (s *ScheduleService) UpdateStatus(ctx context.Context, id string, req dto.UpdateScheduleStatusRequest) error {
	if err := s.validator.Struct(req); err != nil {
		return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid status payload")
	}
	if err := s.repo.UpdateStatus(ctx, id, models.ScheduleStatus(req.Status)); err != nil {
		return appErrors.FromError(err)
	}
	s.invalidateDashboards(ctx)
	return nil
}

// Delete removes a trip.
func (s *ScheduleService) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return appErrors.FromError(err)
	}
	s.invalidateDashboards(ctx)
	return nil
}

func (s *ScheduleService) checkReferences(ctx context.Context, busID, routeID string) error {
	if _, err := s.buses.FindByID(ctx, busID); err != nil {
		if appErrors.FromError(err).Status == appErrors.ErrNotFound.Status {
			return appErrors.Clone(appErrors.ErrValidation, "unknown bus: "+busID)
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check bus")
	}
	route, err := s.routes.FindByID(ctx, routeID)
	if err != nil {
		if appErrors.FromError(err).Status == appErrors.ErrNotFound.Status {
			return appErrors.Clone(appErrors.ErrValidation, "unknown route: "+routeID)
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check route")
	}
	if !route.Active {
		return appErrors.Clone(appErrors.ErrValidation, "route is inactive")
	}
	return nil
}

func (s *ScheduleService) invalidateDashboards(ctx context.Context) {
	if s.cache != nil {
		s.cache.Invalidate(ctx, "dash:*")
	}
}

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

type routeRepository interface {
	List(ctx context.Context, filter models.RouteFilter) ([]models.RouteDetail, int, error)
	FindByID(ctx context.Context, id string) (models.RouteDetail, error)
	Create(ctx context.Context, route models.Route) error
	Update(ctx context.Context, route models.Route) error
	SetActive(ctx context.Context, id string, active bool) error
	Delete(ctx context.Context, id string) error
	ListLocations(ctx context.Context) ([]models.Location, error)
	FindLocation(ctx context.Context, id string) (models.Location, error)
	CreateLocation(ctx context.Context, location models.Location) error
}

// RouteService manages routes and their endpoint locations.
type RouteService struct {
	repo      routeRepository
	validator *validator.Validate
	cache     *CacheService
	logger    *zap.Logger
}

// NewRouteService constructs a RouteService.
func NewRouteService(repo routeRepository, validate *validator.Validate, cache *CacheService, logger *zap.Logger) *RouteService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RouteService{repo: repo, validator: validate, cache: cache, logger: logger}
}

// List returns routes matching the filter with pagination metadata.
func (s *RouteService) List(ctx context.Context, filter models.RouteFilter) ([]models.RouteDetail, *models.Pagination, error) {
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 || filter.PageSize > 100 {
		filter.PageSize = 20
	}
	routes, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list routes")
	}
	return routes, &models.Pagination{Page: filter.Page, PageSize: filter.PageSize, TotalCount: total}, nil
}

// Get loads a single route.
func (s *RouteService) Get(ctx context.Context, id string) (*models.RouteDetail, error) {
	route, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, appErrors.FromError(err)
	}
	return &route, nil
}

// Create defines a new route between two existing locations.
func (s *RouteService) Create(ctx context.Context, req dto.CreateRouteRequest) (*models.RouteDetail, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid route payload")
	}
	if err := s.checkEndpoints(ctx, req.StartLocationID, req.EndLocationID); err != nil {
		return nil, err
	}

	route := models.Route{
		ID:              uuid.NewString(),
		RouteName:       req.RouteName,
		StartLocationID: req.StartLocationID,
		EndLocationID:   req.EndLocationID,
		Distance:        req.Distance,
		EstimatedTime:   req.EstimatedTime,
		Active:          true,
	}
	if err := s.repo.Create(ctx, route); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create route")
	}
	s.invalidateDashboards(ctx)
	return s.Get(ctx, route.ID)
}

// Update rewrites a route.
func (s *RouteService) Update(ctx context.Context, id string, req dto.UpdateRouteRequest) (*models.RouteDetail, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid route payload")
	}
	if err := s.checkEndpoints(ctx, req.StartLocationID, req.EndLocationID); err != nil {
		return nil, err
	}

	route := models.Route{
		ID:              id,
		RouteName:       req.RouteName,
		StartLocationID: req.StartLocationID,
		EndLocationID:   req.EndLocationID,
		Distance:        req.Distance,
		EstimatedTime:   req.EstimatedTime,
		Active:          *req.Active,
	}
	if err := s.repo.Update(ctx, route); err != nil {
		return nil, appErrors.FromError(err)
	}
	s.invalidateDashboards(ctx)
	return s.Get(ctx, id)
}

// SetActive toggles route availability.
func (s *RouteService) SetActive(ctx context.Context, id string, req dto.UpdateRouteActiveRequest) error {
	if err := s.validator.Struct(req); err != nil {
		return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid payload")
	}
	if err := s.repo.SetActive(ctx, id, *req.Active); err != nil {
		return appErrors.FromError(err)
	}
	s.invalidateDashboards(ctx)
	return nil
}

// Delete removes a route.
func (s *RouteService) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return appErrors.FromError(err)
	}
	s.invalidateDashboards(ctx)
	return nil
}

// ListLocations returns the location directory.
func (s *RouteService) ListLocations(ctx context.Context) ([]models.Location, error) {
	locations, err := s.repo.ListLocations(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list locations")
	}
	return locations, nil
}

// CreateLocation registers a stop, terminal or landmark.
func (s *RouteService) CreateLocation(ctx context.Context, req dto.CreateLocationRequest) (*models.Location, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid location payload")
	}
	location := models.Location{
		ID:        uuid.NewString(),
		Name:      req.Name,
		Latitude:  *req.Latitude,
		Longitude: *req.Longitude,
		Type:      models.LocationType(req.Type),
	}
	if err := s.repo.CreateLocation(ctx, location); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create location")
	}
	return &location, nil
}

func (s *RouteService) checkEndpoints(ctx context.Context, startID, endID string) error {
	for _, id := range []string{startID, endID} {
		if _, err := s.repo.FindLocation(ctx, id); err != nil {
			if appErrors.FromError(err).Status == appErrors.ErrNotFound.Status {
				return appErrors.Clone(appErrors.ErrValidation, "unknown location: "+id)
			}
			return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check location")
		}
	}
	return nil
}

func (s *RouteService) invalidateDashboards(ctx context.Context) {
	if s.cache != nil {
		s.cache.Invalidate(ctx, "dash:*")
	}
}

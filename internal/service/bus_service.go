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

type busRepository interface {
	List(ctx context.Context, filter models.BusFilter) ([]models.BusDetail, int, error)
	FindByID(ctx context.Context, id string) (models.BusDetail, error)
	ExistsByNumber(ctx context.Context, busNumber, excludeID string) (bool, error)
	Create(ctx context.Context, bus models.Bus) error
	Update(ctx context.Context, bus models.Bus) error
	UpdateStatus(ctx context.Context, id string, status models.BusStatus) error
	Delete(ctx context.Context, id string) error
}

// BusService manages the fleet.
type BusService struct {
	repo      busRepository
	validator *validator.Validate
	cache     *CacheService
	logger    *zap.Logger
}

// NewBusService constructs a BusService.
func NewBusService(repo busRepository, validate *validator.Validate, cache *CacheService, logger *zap.Logger) *BusService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &BusService{repo: repo, validator: validate, cache: cache, logger: logger}
}

// List returns buses matching the filter with pagination metadata.
func (s *BusService) List(ctx context.Context, filter models.BusFilter) ([]models.BusDetail, *models.Pagination, error) {
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 || filter.PageSize > 100 {
		filter.PageSize = 20
	}
	if filter.Status != "" && !filter.Status.Valid() {
		return nil, nil, appErrors.Clone(appErrors.ErrValidation, "unknown bus status: "+string(filter.Status))
	}
	buses, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list buses")
	}
	return buses, &models.Pagination{Page: filter.Page, PageSize: filter.PageSize, TotalCount: total}, nil
}

// Get loads a single bus.
func (s *BusService) Get(ctx context.Context, id string) (*models.BusDetail, error) {
	bus, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, appErrors.FromError(err)
	}
	return &bus, nil
}

// Create registers a new bus.
func (s *BusService) Create(ctx context.Context, req dto.CreateBusRequest) (*models.BusDetail, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid bus payload")
	}
	status := models.BusStatus(req.Status)
	if req.Status == "" {
		status = models.BusStatusActive
	}

	taken, err := s.repo.ExistsByNumber(ctx, req.BusNumber, "")
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check bus number")
	}
	if taken {
		return nil, appErrors.Clone(appErrors.ErrConflict, "bus number already registered")
	}

	bus := models.Bus{
		ID:                  uuid.NewString(),
		BusNumber:           req.BusNumber,
		BusNickname:         req.BusNickname,
		Capacity:            req.Capacity,
		Model:               req.Model,
		Status:              status,
		DriverID:            req.DriverID,
		LastMaintenanceDate: req.LastMaintenanceDate,
		NextMaintenanceDate: req.NextMaintenanceDate,
	}
	if err := s.repo.Create(ctx, bus); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create bus")
	}
	s.invalidateDashboards(ctx)
	return s.Get(ctx, bus.ID)
}

// Update rewrites a bus.
func (s *BusService) Update(ctx context.Context, id string, req dto.UpdateBusRequest) (*models.BusDetail, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid bus payload")
	}

	taken, err := s.repo.ExistsByNumber(ctx, req.BusNumber, id)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check bus number")
	}
	if taken {
		return nil, appErrors.Clone(appErrors.ErrConflict, "bus number already registered")
	}

	bus := models.Bus{
		ID:                  id,
		BusNumber:           req.BusNumber,
		BusNickname:         req.BusNickname,
		Capacity:            req.Capacity,
		Model:               req.Model,
		Status:              models.BusStatus(req.Status),
		DriverID:            req.DriverID,
		LastMaintenanceDate: req.LastMaintenanceDate,
		NextMaintenanceDate: req.NextMaintenanceDate,
	}
	if err := s.repo.Update(ctx, bus); err != nil {
		return nil, appErrors.FromError(err)
	}
	s.invalidateDashboards(ctx)
	return s.Get(ctx, id)
}

// UpdateStatus flips the lifecycle state of a bus.
func (s *BusService) UpdateStatus(ctx context.Context, id string, req dto.UpdateBusStatusRequest) error {
	if err := s.validator.Struct(req); err != nil {
		return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid status payload")
	}
	if err := s.repo.UpdateStatus(ctx, id, models.BusStatus(req.Status)); err != nil {
		return appErrors.FromError(err)
	}
	s.invalidateDashboards(ctx)
	return nil
}

// Delete removes a bus.
func (s *BusService) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return appErrors.FromError(err)
	}
	s.invalidateDashboards(ctx)
	return nil
}

func (s *BusService) invalidateDashboards(ctx context.Context) {
	if s.cache != nil {
		s.cache.Invalidate(ctx, "dash:*")
	}
}

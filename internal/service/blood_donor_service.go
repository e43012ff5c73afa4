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

type bloodDonorRepository interface {
	List(ctx context.Context) ([]models.BloodDonor, error)
	Search(ctx context.Context, criteria models.BloodDonorSearch) ([]models.BloodDonor, error)
	FindByID(ctx context.Context, id string) (models.BloodDonor, error)
	Create(ctx context.Context, donor models.BloodDonor) error
	Update(ctx context.Context, donor models.BloodDonor) error
	Deactivate(ctx context.Context, id string) error
}

// BloodDonorService manages the campus volunteer donor directory.
type BloodDonorService struct {
	repo      bloodDonorRepository
	validator *validator.Validate
	logger    *zap.Logger
}

// NewBloodDonorService constructs a BloodDonorService.
func NewBloodDonorService(repo bloodDonorRepository, validate *validator.Validate, logger *zap.Logger) *BloodDonorService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &BloodDonorService{repo: repo, validator: validate, logger: logger}
}

// List returns every active donor.
func (s *BloodDonorService) List(ctx context.Context) ([]models.BloodDonor, error) {
	donors, err := s.repo.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list donors")
	}
	return donors, nil
}

// Search returns active donors matching the criteria.
func (s *BloodDonorService) Search(ctx context.Context, criteria models.BloodDonorSearch) ([]models.BloodDonor, error) {
	donors, err := s.repo.Search(ctx, criteria)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to search donors")
	}
	return donors, nil
}

// Get loads a single active donor.
func (s *BloodDonorService) Get(ctx context.Context, id string) (*models.BloodDonor, error) {
	donor, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, appErrors.FromError(err)
	}
	return &donor, nil
}

// Create registers a donor.
func (s *BloodDonorService) Create(ctx context.Context, req dto.CreateBloodDonorRequest) (*models.BloodDonor, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid donor payload")
	}
	donor := models.BloodDonor{
		ID:         uuid.NewString(),
		Name:       req.Name,
		Email:      req.Email,
		Phone:      req.Phone,
		BloodGroup: req.BloodGroup,
		Active:     true,
	}
	if err := s.repo.Create(ctx, donor); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create donor")
	}
	return &donor, nil
}

// Update rewrites a donor record.
func (s *BloodDonorService) Update(ctx context.Context, id string, req dto.UpdateBloodDonorRequest) (*models.BloodDonor, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid donor payload")
	}
	donor := models.BloodDonor{
		ID:         id,
		Name:       req.Name,
		Email:      req.Email,
		Phone:      req.Phone,
		BloodGroup: req.BloodGroup,
		Active:     true,
	}
	if err := s.repo.Update(ctx, donor); err != nil {
		return nil, appErrors.FromError(err)
	}
	return s.Get(ctx, id)
}

// Delete soft-deletes a donor.
func (s *BloodDonorService) Delete(ctx context.Context, id string) error {
	if err := s.repo.Deactivate(ctx, id); err != nil {
		return appErrors.FromError(err)
	}
	return nil
}

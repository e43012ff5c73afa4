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

type paymentRepository interface {
	List(ctx context.Context, filter models.PaymentFilter) ([]models.PaymentDetail, int, error)
	ListForExport(ctx context.Context, from, to time.Time) ([]models.PaymentDetail, error)
	FindByID(ctx context.Context, id string) (models.PaymentDetail, error)
	Create(ctx context.Context, payment models.Payment) error
	Update(ctx context.Context, payment models.Payment) error
	UpdateStatus(ctx context.Context, id string, status models.PaymentStatus) error
	Delete(ctx context.Context, id string) error
}

type studentFinder interface {
	FindByID(ctx context.Context, id string) (models.Student, error)
}

// PaymentService manages payment records.
type PaymentService struct {
	repo      paymentRepository
	students  studentFinder
	validator *validator.Validate
	cache     *CacheService
	logger    *zap.Logger
	now       func() time.Time
}

// NewPaymentService constructs a PaymentService.
func NewPaymentService(repo paymentRepository, students studentFinder, validate *validator.Validate, cache *CacheService, logger *zap.Logger) *PaymentService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PaymentService{repo: repo, students: students, validator: validate, cache: cache, logger: logger, now: time.Now}
}

// List returns payments matching the filter with pagination metadata.
func (s *PaymentService) List(ctx context.Context, filter models.PaymentFilter) ([]models.PaymentDetail, *models.Pagination, error) {
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 || filter.PageSize > 100 {
		filter.PageSize = 20
	}
	if filter.Status != "" && !filter.Status.Valid() {
		return nil, nil, appErrors.Clone(appErrors.ErrValidation, "unknown payment status: "+string(filter.Status))
	}
	payments, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list payments")
	}
	return payments, &models.Pagination{Page: filter.Page, PageSize: filter.PageSize, TotalCount: total}, nil
}

// Get loads a single payment.
func (s *PaymentService) Get(ctx context.Context, id string) (*models.PaymentDetail, error) {
	payment, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, appErrors.FromError(err)
	}
	return &payment, nil
}

// Create records a payment for an existing student. New payments start as
// pending until verified.
func (s *PaymentService) Create(ctx context.Context, req dto.CreatePaymentRequest) (*models.PaymentDetail, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid payment payload")
	}
	if _, err := s.students.FindByID(ctx, req.StudentID); err != nil {
		if appErrors.FromError(err).Status == appErrors.ErrNotFound.Status {
			return nil, appErrors.Clone(appErrors.ErrValidation, "unknown student: "+req.StudentID)
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check student")
	}

	paymentDate := s.now().UTC()
	if req.PaymentDate != nil {
		paymentDate = req.PaymentDate.UTC()
	}
	payment := models.Payment{
		ID:            uuid.NewString(),
		StudentID:     req.StudentID,
		Amount:        req.Amount,
		PaymentDate:   paymentDate,
		PaymentMethod: req.PaymentMethod,
		PaymentType:   req.PaymentType,
		Status:        models.PaymentStatusPending,
		Description:   req.Description,
	}
	if err := s.repo.Create(ctx, payment); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create payment")
	}
	s.invalidateDashboards(ctx)
	return s.Get(ctx, payment.ID)
}

// Update rewrites a payment.
func (s *PaymentService) Update(ctx context.Context, id string, req dto.UpdatePaymentRequest) (*models.PaymentDetail, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid payment payload")
	}

	payment := models.Payment{
		ID:            id,
		StudentID:     req.StudentID,
		Amount:        req.Amount,
		PaymentDate:   req.PaymentDate,
		PaymentMethod: req.PaymentMethod,
		PaymentType:   req.PaymentType,
		Status:        models.PaymentStatus(req.Status),
		Description:   req.Description,
	}
	if err := s.repo.Update(ctx, payment); err != nil {
		return nil, appErrors.FromError(err)
	}
	s.invalidateDashboards(ctx)
	return s.Get(ctx, id)
}

// UpdateStatus verifies or rejects a payment.
func (s *PaymentService) UpdateStatus(ctx context.Context, id string, req dto.UpdatePaymentStatusRequest) error {
	if err := s.validator.Struct(req); err != nil {
		return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid status payload")
	}
	if err := s.repo.UpdateStatus(ctx, id, models.PaymentStatus(req.Status)); err != nil {
		return appErrors.FromError(err)
	}
	s.invalidateDashboards(ctx)
	return nil
}

// Delete removes a payment record.
func (s *PaymentService) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return appErrors.FromError(err)
	}
	s.invalidateDashboards(ctx)
	return nil
}

func (s *PaymentService) invalidateDashboards(ctx context.Context) {
	if s.cache != nil {
		s.cache.Invalidate(ctx, "dash:*")
	}
}

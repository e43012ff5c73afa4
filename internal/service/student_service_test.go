package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campustransit/transit-api/internal/dto"
	"github.com/campustransit/transit-api/internal/models"
	appErrors "github.com/campustransit/transit-api/pkg/errors"
)

type fakeStudentRepo struct {
	students map[string]models.Student
	summary  []models.StudentPaymentStatus
}

func (f *fakeStudentRepo) List(context.Context, models.StudentFilter) ([]models.Student, int, error) {
	out := make([]models.Student, 0, len(f.students))
	for _, s := range f.students {
		out = append(out, s)
	}
	return out, len(out), nil
}

func (f *fakeStudentRepo) ListRecent(context.Context, int) ([]models.Student, error) {
	return nil, nil
}

func (f *fakeStudentRepo) FindByID(_ context.Context, id string) (models.Student, error) {
	s, ok := f.students[id]
	if !ok {
		return models.Student{}, appErrors.ErrNotFound
	}
	return s, nil
}

func (f *fakeStudentRepo) ExistsByEmail(_ context.Context, email, excludeID string) (bool, error) {
	for _, s := range f.students {
		if s.Email == email && s.ID != excludeID {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeStudentRepo) Create(_ context.Context, student models.Student) error {
	f.students[student.ID] = student
	return nil
}

func (f *fakeStudentRepo) Update(_ context.Context, student models.Student) error {
	if _, ok := f.students[student.ID]; !ok {
		return appErrors.ErrNotFound
	}
	f.students[student.ID] = student
	return nil
}

func (f *fakeStudentRepo) UpdateStatus(_ context.Context, id string, status models.StudentStatus) error {
	s, ok := f.students[id]
	if !ok {
		return appErrors.ErrNotFound
	}
	s.Status = status
	f.students[id] = s
	return nil
}

func (f *fakeStudentRepo) Delete(_ context.Context, id string) error {
	if _, ok := f.students[id]; !ok {
		return appErrors.ErrNotFound
	}
	delete(f.students, id)
	return nil
}

func (f *fakeStudentRepo) PaymentStatus(context.Context, string) ([]models.StudentPaymentStatus, error) {
	return f.summary, nil
}

func validStudentRequest() dto.CreateStudentRequest {
	return dto.CreateStudentRequest{
		FirstName:        "Ada",
		LastName:         "Lovelace",
		Email:            "ada@example.com",
		Phone:            "555-0100",
		Address:          "12 Byron St",
		Grade:            "10",
		School:           "Somerville High",
		ParentName:       "Annabella Byron",
		ParentPhone:      "555-0102",
		EmergencyContact: "Annabella Byron",
		EmergencyPhone:   "555-0101",
	}
}

func TestStudentCreateStartsActive(t *testing.T) {
	repo := &fakeStudentRepo{students: map[string]models.Student{}}
	svc := NewStudentService(repo, nil, nil, nil)

	student, err := svc.Create(context.Background(), validStudentRequest())
	require.NoError(t, err)
	assert.Equal(t, models.StudentStatusActive, student.Status)
	assert.NotEmpty(t, student.ID)
}

func TestStudentCreateRejectsDuplicateEmail(t *testing.T) {
	repo := &fakeStudentRepo{students: map[string]models.Student{
		"stu-1": {ID: "stu-1", Email: "ada@example.com"},
	}}
	svc := NewStudentService(repo, nil, nil, nil)

	_, err := svc.Create(context.Background(), validStudentRequest())
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrConflict.Code, appErrors.FromError(err).Code)
}

func TestStudentCreateValidatesPayload(t *testing.T) {
	repo := &fakeStudentRepo{students: map[string]models.Student{}}
	svc := NewStudentService(repo, nil, nil, nil)

	req := validStudentRequest()
	req.Email = "not-an-email"
	_, err := svc.Create(context.Background(), req)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestStudentUpdateStatusUnknownID(t *testing.T) {
	repo := &fakeStudentRepo{students: map[string]models.Student{}}
	svc := NewStudentService(repo, nil, nil, nil)

	err := svc.UpdateStatus(context.Background(), "missing", dto.UpdateStudentStatusRequest{Status: "suspended"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestStudentPaymentStatusChecksExistence(t *testing.T) {
	repo := &fakeStudentRepo{
		students: map[string]models.Student{"stu-1": {ID: "stu-1"}},
		summary: []models.StudentPaymentStatus{
			{Status: models.PaymentStatusCompleted, Count: 3, TotalAmount: 75},
		},
	}
	svc := NewStudentService(repo, nil, nil, nil)

	summary, err := svc.PaymentStatus(context.Background(), "stu-1")
	require.NoError(t, err)
	require.Len(t, summary, 1)
	assert.Equal(t, 3, summary[0].Count)

	_, err = svc.PaymentStatus(context.Background(), "missing")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campustransit/transit-api/internal/dto"
	"github.com/campustransit/transit-api/internal/models"
	appErrors "github.com/campustransit/transit-api/pkg/errors"
)

type fakeExportLister struct {
	payments []models.PaymentDetail
}

func (f *fakeExportLister) ListForExport(context.Context, time.Time, time.Time) ([]models.PaymentDetail, error) {
	return f.payments, nil
}

func exportFixturePayments() []models.PaymentDetail {
	return []models.PaymentDetail{
		{
			Payment: models.Payment{
				ID:            "pay-1",
				StudentID:     "stu-1",
				Amount:        25.5,
				PaymentDate:   time.Date(2024, 5, 2, 10, 0, 0, 0, time.UTC),
				PaymentMethod: "card",
				PaymentType:   "monthly",
				Status:        models.PaymentStatusCompleted,
				Description:   "May pass",
			},
			FirstName: "Ada",
			LastName:  "Lovelace",
		},
	}
}

func TestExportPaymentsCSV(t *testing.T) {
	svc := NewExportService(&fakeExportLister{payments: exportFixturePayments()}, nil, nil)

	result, err := svc.Payments(context.Background(), dto.ExportPaymentsRequest{
		From:   time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC),
		To:     time.Date(2024, 5, 31, 0, 0, 0, 0, time.UTC),
		Format: "csv",
	})
	require.NoError(t, err)
	assert.Equal(t, "payments_20240501_20240531.csv", result.Filename)
	assert.Equal(t, "text/csv", result.ContentType)

	body := string(result.Content)
	assert.True(t, strings.HasPrefix(body, "Date,Student,Amount,Method,Type,Status,Description"))
	assert.Contains(t, body, "Ada Lovelace")
	assert.Contains(t, body, "25.50")
}

func TestExportPaymentsPDF(t *testing.T) {
	svc := NewExportService(&fakeExportLister{payments: exportFixturePayments()}, nil, nil)

	result, err := svc.Payments(context.Background(), dto.ExportPaymentsRequest{
		From:   time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC),
		To:     time.Date(2024, 5, 31, 0, 0, 0, 0, time.UTC),
		Format: "pdf",
	})
	require.NoError(t, err)
	assert.Equal(t, "application/pdf", result.ContentType)
	assert.True(t, strings.HasPrefix(string(result.Content), "%PDF"))
}

func TestExportPaymentsRejectsInvertedRange(t *testing.T) {
	svc := NewExportService(&fakeExportLister{}, nil, nil)

	_, err := svc.Payments(context.Background(), dto.ExportPaymentsRequest{
		From:   time.Date(2024, 5, 31, 0, 0, 0, 0, time.UTC),
		To:     time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC),
		Format: "csv",
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campustransit/transit-api/internal/dto"
	"github.com/campustransit/transit-api/internal/models"
	appErrors "github.com/campustransit/transit-api/pkg/errors"
)

type fakeLocationRepo struct {
	inserted []models.BusLocation
}

func (f *fakeLocationRepo) Insert(_ context.Context, location models.BusLocation) error {
	f.inserted = append(f.inserted, location)
	return nil
}

func (f *fakeLocationRepo) Latest(context.Context, string) (models.BusLocation, error) {
	return models.BusLocation{}, appErrors.ErrNotFound
}

func (f *fakeLocationRepo) Active(context.Context, time.Time) ([]models.ActiveBusLocation, error) {
	return nil, nil
}

func (f *fakeLocationRepo) History(context.Context, string, time.Time, time.Time) ([]models.BusLocation, error) {
	return nil, nil
}

func (f *fakeLocationRepo) ActivitySeries(context.Context, models.Period, time.Time) ([]models.LocationActivityBucket, error) {
	return nil, nil
}

func (f *fakeLocationRepo) DeleteOlderThan(context.Context, time.Time) (int64, error) {
	return 0, nil
}

type fakeBusFinder struct {
	known map[string]bool
}

func (f *fakeBusFinder) FindByID(_ context.Context, id string) (models.BusDetail, error) {
	if !f.known[id] {
		return models.BusDetail{}, appErrors.ErrNotFound
	}
	return models.BusDetail{Bus: models.Bus{ID: id}}, nil
}

func ptrFloat(v float64) *float64 { return &v }

func newTrackingService(repo *fakeLocationRepo, now time.Time) *BusLocationService {
	svc := NewBusLocationService(BusLocationServiceParams{
		Repo:  repo,
		Buses: &fakeBusFinder{known: map[string]bool{"bus-1": true}},
	})
	svc.now = func() time.Time { return now }
	return svc
}

func TestRecordAcceptsZeroCoordinates(t *testing.T) {
	repo := &fakeLocationRepo{}
	svc := newTrackingService(repo, time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC))

	location, err := svc.Record(context.Background(), dto.RecordLocationRequest{
		BusID:     "bus-1",
		Latitude:  ptrFloat(0),
		Longitude: ptrFloat(73.5),
	})
	require.NoError(t, err)
	assert.Equal(t, 0.0, location.Latitude)
	assert.Equal(t, 73.5, location.Longitude)
	require.Len(t, repo.inserted, 1)
}

func TestRecordRejectsOutOfRangeCoordinates(t *testing.T) {
	repo := &fakeLocationRepo{}
	svc := newTrackingService(repo, time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC))

	_, err := svc.Record(context.Background(), dto.RecordLocationRequest{
		BusID:     "bus-1",
		Latitude:  ptrFloat(91),
		Longitude: ptrFloat(0),
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestRecordClampsFutureTimestamp(t *testing.T) {
	now := time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)
	repo := &fakeLocationRepo{}
	svc := newTrackingService(repo, now)

	future := now.Add(48 * time.Hour)
	location, err := svc.Record(context.Background(), dto.RecordLocationRequest{
		BusID:      "bus-1",
		Latitude:   ptrFloat(12.97),
		Longitude:  ptrFloat(77.59),
		RecordedAt: &future,
	})
	require.NoError(t, err)
	assert.Equal(t, now, location.RecordedAt)
}

func TestRecordKeepsPastTimestamp(t *testing.T) {
	now := time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)
	repo := &fakeLocationRepo{}
	svc := newTrackingService(repo, now)

	past := now.Add(-30 * time.Second)
	location, err := svc.Record(context.Background(), dto.RecordLocationRequest{
		BusID:      "bus-1",
		Latitude:   ptrFloat(12.97),
		Longitude:  ptrFloat(77.59),
		RecordedAt: &past,
	})
	require.NoError(t, err)
	assert.Equal(t, past, location.RecordedAt)
}

func TestRecordUnknownBus(t *testing.T) {
	repo := &fakeLocationRepo{}
	svc := newTrackingService(repo, time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC))

	_, err := svc.Record(context.Background(), dto.RecordLocationRequest{
		BusID:     "bus-9",
		Latitude:  ptrFloat(1),
		Longitude: ptrFloat(1),
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

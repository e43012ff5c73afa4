package repository

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campustransit/transit-api/internal/models"
	appErrors "github.com/campustransit/transit-api/pkg/errors"
)

func newBusMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

func busDetailRows(now time.Time) *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "bus_number", "bus_nickname", "capacity", "model", "status", "driver_id",
		"last_maintenance_date", "next_maintenance_date", "created_at", "updated_at",
		"driver_name", "driver_phone",
	}).AddRow("bus-1", "TR-01", "Big Blue", 40, "Volvo 9700", "active", nil, nil, nil, now, now, nil, nil)
}

func TestBusRepositoryListFiltersByStatus(t *testing.T) {
	db, mock, cleanup := newBusMock(t)
	defer cleanup()
	repo := NewBusRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM buses b WHERE 1=1 AND b.status = ?")).
		WithArgs(models.BusStatusActive).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
	mock.ExpectQuery(regexp.QuoteMeta("LEFT JOIN users u ON b.driver_id = u.id")).
		WithArgs(models.BusStatusActive, 20, 0).
		WillReturnRows(busDetailRows(time.Now()))

	buses, total, err := repo.List(context.Background(), models.BusFilter{Status: models.BusStatusActive, Page: 1, PageSize: 20})
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	require.Len(t, buses, 1)
	assert.Equal(t, "TR-01", buses[0].BusNumber)
	assert.Nil(t, buses[0].DriverName)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBusRepositoryFindByIDNotFound(t *testing.T) {
	db, mock, cleanup := newBusMock(t)
	defer cleanup()
	repo := NewBusRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("WHERE b.id = ?")).
		WithArgs("missing").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.FindByID(context.Background(), "missing")
	assert.ErrorIs(t, err, appErrors.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBusRepositoryCreate(t *testing.T) {
	db, mock, cleanup := newBusMock(t)
	defer cleanup()
	repo := NewBusRepository(db)

	mock.ExpectExec("INSERT INTO buses").
		WithArgs(sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(),
			sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))

	err := repo.Create(context.Background(), models.Bus{
		ID: "bus-1", BusNumber: "TR-01", BusNickname: "Big Blue",
		Capacity: 40, Model: "Volvo 9700", Status: models.BusStatusActive,
	})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBusRepositoryUpdateStatusNotFound(t *testing.T) {
	db, mock, cleanup := newBusMock(t)
	defer cleanup()
	repo := NewBusRepository(db)

	mock.ExpectExec("UPDATE buses SET status").
		WithArgs(models.BusStatusMaintenance, "missing").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.UpdateStatus(context.Background(), "missing", models.BusStatusMaintenance)
	assert.ErrorIs(t, err, appErrors.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

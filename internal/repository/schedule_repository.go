package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/campustransit/transit-api/internal/models"
	appErrors "github.com/campustransit/transit-api/pkg/errors"
)

// ScheduleRepository persists trip schedules.
type ScheduleRepository struct {
	db *sqlx.DB
}

// NewScheduleRepository instantiates the repository.
func NewScheduleRepository(db *sqlx.DB) *ScheduleRepository {
	return &ScheduleRepository{db: db}
}

const scheduleDetailColumns = `s.id, s.bus_id, s.route_id, s.departure_time, s.arrival_time,
        s.fare, s.status, s.created_at, s.updated_at,
        b.bus_number, r.route_name,
        start_loc.name AS start_location, end_loc.name AS end_location`

const scheduleDetailJoins = ` FROM schedules s
        JOIN buses b ON s.bus_id = b.id
        JOIN routes r ON s.route_id = r.id
        JOIN locations start_loc ON r.start_location_id = start_loc.id
        JOIN locations end_loc ON r.end_location_id = end_loc.id`

// List returns schedules matching the filter with the total count. Date
// filtering matches the calendar day of departure.
func (r *ScheduleRepository) List(ctx context.Context, filter models.ScheduleFilter) ([]models.ScheduleDetail, int, error) {
	where := " WHERE 1=1"
	args := []interface{}{}
	if filter.RouteID != "" {
		where += " AND s.route_id = ?"
		args = append(args, filter.RouteID)
	}
	if filter.Status != "" {
		where += " AND s.status = ?"
		args = append(args, filter.Status)
	}
	if filter.Date != nil {
		where += " AND DATE(s.departure_time) = DATE(?)"
		args = append(args, *filter.Date)
	}

	var total int
	if err := r.db.GetContext(ctx, &total, "SELECT COUNT(*) FROM schedules s"+where, args...); err != nil {
		return nil, 0, fmt.Errorf("count schedules: %w", err)
	}

	query := `SELECT ` + scheduleDetailColumns + scheduleDetailJoins + where + `
        ORDER BY s.departure_time ASC
        LIMIT ? OFFSET ?`
	args = append(args, filter.PageSize, (filter.Page-1)*filter.PageSize)

	var schedules []models.ScheduleDetail
	if err := r.db.SelectContext(ctx, &schedules, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list schedules: %w", err)
	}
	return schedules, total, nil
}

// FindByID loads a schedule with bus and route context resolved.
func (r *ScheduleRepository) FindByID(ctx context.Context, id string) (models.ScheduleDetail, error) {
	query := `SELECT ` + scheduleDetailColumns + scheduleDetailJoins + ` WHERE s.id = ?`
	var schedule models.ScheduleDetail
	if err := r.db.GetContext(ctx, &schedule, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.ScheduleDetail{}, appErrors.ErrNotFound
		}
		return models.ScheduleDetail{}, fmt.Errorf("find schedule %s: %w", id, err)
	}
	return schedule, nil
}

// Create inserts a schedule row.
func (r *ScheduleRepository) Create(ctx context.Context, schedule models.Schedule) error {
	const query = `INSERT INTO schedules
        (id, bus_id, route_id, departure_time, arrival_time, fare, status, created_at, updated_at)
        VALUES (:id, :bus_id, :route_id, :departure_time, :arrival_time, :fare, :status, NOW(), NOW())`
	if _, err := r.db.NamedExecContext(ctx, query, schedule); err != nil {
		return fmt.Errorf("create schedule: %w", err)
	}
	return nil
}

// Update rewrites a schedule row.
func (r *ScheduleRepository) Update(ctx context.Context, schedule models.Schedule) error {
	const query = `UPDATE schedules SET
        bus_id = :bus_id, route_id = :route_id, departure_time = :departure_time,
        arrival_time = :arrival_time, fare = :fare, status = :status, updated_at = NOW()
        WHERE id = :id`
	result, err := r.db.NamedExecContext(ctx, query, schedule)
	if err != nil {
		return fmt.Errorf("update schedule %s: %w", schedule.ID, err)
	}
	return requireRowAffected(result)
}

// UpdateStatus advances a trip through its lifecycle.
func (r *ScheduleRepository) UpdateStatus(ctx context.Context, id string, status models.ScheduleStatus) error {
	result, err := r.db.ExecContext(ctx, `UPDATE schedules SET status = ?, updated_at = NOW() WHERE id = ?`, status, id)
	if err != nil {
		return fmt.Errorf("update schedule status %s: %w", id, err)
	}
	return requireRowAffected(result)
}

// Delete removes a schedule row.
func (r *ScheduleRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM schedules WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete schedule %s: %w", id, err)
	}
	return requireRowAffected(result)
}

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

// RouteRepository persists routes and their endpoint locations.
type RouteRepository struct {
	db *sqlx.DB
}

// NewRouteRepository instantiates the repository.
func NewRouteRepository(db *sqlx.DB) *RouteRepository {
	return &RouteRepository{db: db}
}

const routeDetailColumns = `r.id, r.route_name, r.start_location_id, r.end_location_id,
        r.distance, r.estimated_time, r.is_active, r.created_at, r.updated_at,
        start_loc.name AS start_location_name, start_loc.latitude AS start_latitude, start_loc.longitude AS start_longitude,
        end_loc.name AS end_location_name, end_loc.latitude AS end_latitude, end_loc.longitude AS end_longitude`

// List returns routes matching the filter with the total count.
func (r *RouteRepository) List(ctx context.Context, filter models.RouteFilter) ([]models.RouteDetail, int, error) {
	where := " WHERE 1=1"
	args := []interface{}{}
	if filter.Active != nil {
		where += " AND r.is_active = ?"
		args = append(args, *filter.Active)
	}
	if filter.Search != "" {
		where += " AND r.route_name LIKE ?"
		args = append(args, "%"+filter.Search+"%")
	}

	var total int
	if err := r.db.GetContext(ctx, &total, "SELECT COUNT(*) FROM routes r"+where, args...); err != nil {
		return nil, 0, fmt.Errorf("count routes: %w", err)
	}

	query := `SELECT ` + routeDetailColumns + `
        FROM routes r
        JOIN locations start_loc ON r.start_location_id = start_loc.id
        JOIN locations end_loc ON r.end_location_id = end_loc.id` + where + `
        ORDER BY r.route_name ASC
        LIMIT ? OFFSET ?`
	args = append(args, filter.PageSize, (filter.Page-1)*filter.PageSize)

	var routes []models.RouteDetail
	if err := r.db.SelectContext(ctx, &routes, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list routes: %w", err)
	}
	return routes, total, nil
}

// FindByID loads a route with both endpoint locations resolved.
func (r *RouteRepository) FindByID(ctx context.Context, id string) (models.RouteDetail, error) {
	query := `SELECT ` + routeDetailColumns + `
        FROM routes r
        JOIN locations start_loc ON r.start_location_id = start_loc.id
        JOIN locations end_loc ON r.end_location_id = end_loc.id
        WHERE r.id = ?`
	var route models.RouteDetail
	if err := r.db.GetContext(ctx, &route, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.RouteDetail{}, appErrors.ErrNotFound
		}
		return models.RouteDetail{}, fmt.Errorf("find route %s: %w", id, err)
	}
	return route, nil
}

// Create inserts a route row.
func (r *RouteRepository) Create(ctx context.Context, route models.Route) error {
	const query = `INSERT INTO routes
        (id, route_name, start_location_id, end_location_id, distance, estimated_time, is_active, created_at, updated_at)
        VALUES (:id, :route_name, :start_location_id, :end_location_id, :distance, :estimated_time, :is_active, NOW(), NOW())`
	if _, err := r.db.NamedExecContext(ctx, query, route); err != nil {
		return fmt.Errorf("create route: %w", err)
	}
	return nil
}

// Update rewrites a route row.
func (r *RouteRepository) Update(ctx context.Context, route models.Route) error {
	const query = `UPDATE routes SET
        route_name = :route_name, start_location_id = :start_location_id,
        end_location_id = :end_location_id, distance = :distance,
        estimated_time = :estimated_time, is_active = :is_active, updated_at = NOW()
        WHERE id = :id`
	result, err := r.db.NamedExecContext(ctx, query, route)
	if err != nil {
		return fmt.Errorf("update route %s: %w", route.ID, err)
	}
	return requireRowAffected(result)
}

// SetActive toggles route availability without touching other columns.
func (r *RouteRepository) SetActive(ctx context.Context, id string, active bool) error {
	result, err := r.db.ExecContext(ctx, `UPDATE routes SET is_active = ?, updated_at = NOW() WHERE id = ?`, active, id)
	if err != nil {
		return fmt.Errorf("set route active %s: %w", id, err)
	}
	return requireRowAffected(result)
}

// Delete removes a route row.
func (r *RouteRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM routes WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete route %s: %w", id, err)
	}
	return requireRowAffected(result)
}

// ListLocations returns every known stop, terminal and landmark.
func (r *RouteRepository) ListLocations(ctx context.Context) ([]models.Location, error) {
	const query = `SELECT id, name, latitude, longitude, type, created_at, updated_at
        FROM locations ORDER BY name ASC`
	var locations []models.Location
	if err := r.db.SelectContext(ctx, &locations, query); err != nil {
		return nil, fmt.Errorf("list locations: %w", err)
	}
	return locations, nil
}

// FindLocation loads a single location.
func (r *RouteRepository) FindLocation(ctx context.Context, id string) (models.Location, error) {
	const query = `SELECT id, name, latitude, longitude, type, created_at, updated_at
        FROM locations WHERE id = ?`
	var location models.Location
	if err := r.db.GetContext(ctx, &location, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Location{}, appErrors.ErrNotFound
		}
		return models.Location{}, fmt.Errorf("find location %s: %w", id, err)
	}
	return location, nil
}

// CreateLocation inserts a location row.
func (r *RouteRepository) CreateLocation(ctx context.Context, location models.Location) error {
	const query = `INSERT INTO locations (id, name, latitude, longitude, type, created_at, updated_at)
        VALUES (:id, :name, :latitude, :longitude, :type, NOW(), NOW())`
	if _, err := r.db.NamedExecContext(ctx, query, location); err != nil {
		return fmt.Errorf("create location: %w", err)
	}
	return nil
}

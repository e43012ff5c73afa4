package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/campustransit/transit-api/internal/models"
	appErrors "github.com/campustransit/transit-api/pkg/errors"
)

// BusLocationRepository persists GPS pings and serves the live-tracking
// and activity-analytics reads built on them.
type BusLocationRepository struct {
	db *sqlx.DB
}

// NewBusLocationRepository instantiates the repository.
func NewBusLocationRepository(db *sqlx.DB) *BusLocationRepository {
	return &BusLocationRepository{db: db}
}

// Insert records a single GPS ping.
func (r *BusLocationRepository) Insert(ctx context.Context, location models.BusLocation) error {
	const query = `INSERT INTO bus_locations (id, bus_id, latitude, longitude, recorded_at)
        VALUES (:id, :bus_id, :latitude, :longitude, :recorded_at)`
	if _, err := r.db.NamedExecContext(ctx, query, location); err != nil {
		return fmt.Errorf("insert bus location: %w", err)
	}
	return nil
}

// Latest returns the most recent ping for a bus.
func (r *BusLocationRepository) Latest(ctx context.Context, busID string) (models.BusLocation, error) {
	const query = `SELECT id, bus_id, latitude, longitude, recorded_at
        FROM bus_locations WHERE bus_id = ?
        ORDER BY recorded_at DESC LIMIT 1`
	var location models.BusLocation
	if err := r.db.GetContext(ctx, &location, query, busID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.BusLocation{}, appErrors.ErrNotFound
		}
		return models.BusLocation{}, fmt.Errorf("latest bus location %s: %w", busID, err)
	}
	return location, nil
}

// Active returns the newest ping per bus recorded after the cutoff,
// joined to the fleet so callers can label markers on a map.
func (r *BusLocationRepository) Active(ctx context.Context, since time.Time) ([]models.ActiveBusLocation, error) {
	const query = `SELECT bl.id, bl.bus_id, bl.latitude, bl.longitude, bl.recorded_at,
        b.bus_number, b.bus_nickname
        FROM bus_locations bl
        JOIN buses b ON bl.bus_id = b.id
        JOIN (
            SELECT bus_id, MAX(recorded_at) AS recorded_at
            FROM bus_locations
            WHERE recorded_at >= ?
            GROUP BY bus_id
        ) latest ON bl.bus_id = latest.bus_id AND bl.recorded_at = latest.recorded_at
        ORDER BY b.bus_number ASC`
	var locations []models.ActiveBusLocation
	if err := r.db.SelectContext(ctx, &locations, query, since); err != nil {
		return nil, fmt.Errorf("active bus locations: %w", err)
	}
	return locations, nil
}

// History returns a bus's pings inside a time range, oldest first.
func (r *BusLocationRepository) History(ctx context.Context, busID string, from, to time.Time) ([]models.BusLocation, error) {
	const query = `SELECT id, bus_id, latitude, longitude, recorded_at
        FROM bus_locations
        WHERE bus_id = ? AND recorded_at >= ? AND recorded_at <= ?
        ORDER BY recorded_at ASC`
	var locations []models.BusLocation
	if err := r.db.SelectContext(ctx, &locations, query, busID, from, to); err != nil {
		return nil, fmt.Errorf("bus location history %s: %w", busID, err)
	}
	return locations, nil
}

// ActivitySeries buckets ping volume by the resolved period, counting
// distinct reporting buses and total updates per bucket.
func (r *BusLocationRepository) ActivitySeries(ctx context.Context, period models.Period, now time.Time) ([]models.LocationActivityBucket, error) {
	query := fmt.Sprintf(`SELECT %s AS bucket,
        COUNT(DISTINCT bus_id) AS active_buses,
        COUNT(*) AS location_updates
        FROM bus_locations
        WHERE recorded_at >= ? AND recorded_at <= ?
        GROUP BY %s
        ORDER BY MIN(recorded_at)`,
		period.GroupExpr("recorded_at"),
		period.GroupExpr("recorded_at"),
	)
	var buckets []models.LocationActivityBucket
	if err := r.db.SelectContext(ctx, &buckets, query, period.WindowStart(now), now); err != nil {
		return nil, fmt.Errorf("location activity series: %w", err)
	}
	return buckets, nil
}

// DeleteOlderThan prunes pings recorded before the cutoff and reports how
// many rows went away.
func (r *BusLocationRepository) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	result, err := r.db.ExecContext(ctx, `DELETE FROM bus_locations WHERE recorded_at < ?`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("prune bus locations: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("rows affected: %w", err)
	}
	return rows, nil
}

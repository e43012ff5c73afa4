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

// BusRepository persists fleet records.
type BusRepository struct {
	db *sqlx.DB
}

// NewBusRepository instantiates the repository.
func NewBusRepository(db *sqlx.DB) *BusRepository {
	return &BusRepository{db: db}
}

// List returns buses matching the filter together with the total row count
// for pagination.
func (r *BusRepository) List(ctx context.Context, filter models.BusFilter) ([]models.BusDetail, int, error) {
	where := " WHERE 1=1"
	args := []interface{}{}
	if filter.Status != "" {
		where += " AND b.status = ?"
		args = append(args, filter.Status)
	}
	if filter.Search != "" {
		where += " AND (b.bus_number LIKE ? OR b.bus_nickname LIKE ?)"
		pattern := "%" + filter.Search + "%"
		args = append(args, pattern, pattern)
	}

	var total int
	countQuery := "SELECT COUNT(*) FROM buses b" + where
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count buses: %w", err)
	}

	query := `SELECT b.id, b.bus_number, b.bus_nickname, b.capacity, b.model, b.status,
        b.driver_id, b.last_maintenance_date, b.next_maintenance_date, b.created_at, b.updated_at,
        CONCAT(u.first_name, ' ', u.last_name) AS driver_name, u.phone AS driver_phone
        FROM buses b
        LEFT JOIN users u ON b.driver_id = u.id` + where + `
        ORDER BY b.bus_number ASC
        LIMIT ? OFFSET ?`
	args = append(args, filter.PageSize, (filter.Page-1)*filter.PageSize)

	var buses []models.BusDetail
	if err := r.db.SelectContext(ctx, &buses, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list buses: %w", err)
	}
	return buses, total, nil
}

// FindByID loads a single bus with its driver, if assigned.
func (r *BusRepository) FindByID(ctx context.Context, id string) (models.BusDetail, error) {
	const query = `SELECT b.id, b.bus_number, b.bus_nickname, b.capacity, b.model, b.status,
        b.driver_id, b.last_maintenance_date, b.next_maintenance_date, b.created_at, b.updated_at,
        CONCAT(u.first_name, ' ', u.last_name) AS driver_name, u.phone AS driver_phone
        FROM buses b
        LEFT JOIN users u ON b.driver_id = u.id
        WHERE b.id = ?`
	var bus models.BusDetail
	if err := r.db.GetContext(ctx, &bus, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.BusDetail{}, appErrors.ErrNotFound
		}
		return models.BusDetail{}, fmt.Errorf("find bus %s: %w", id, err)
	}
	return bus, nil
}

// ExistsByNumber reports whether another bus already carries the number.
func (r *BusRepository) ExistsByNumber(ctx context.Context, busNumber, excludeID string) (bool, error) {
	const query = `SELECT COUNT(*) FROM buses WHERE bus_number = ? AND id != ?`
	var count int
	if err := r.db.GetContext(ctx, &count, query, busNumber, excludeID); err != nil {
		return false, fmt.Errorf("check bus number: %w", err)
	}
	return count > 0, nil
}

// Create inserts a bus row.
func (r *BusRepository) Create(ctx context.Context, bus models.Bus) error {
	const query = `INSERT INTO buses
        (id, bus_number, bus_nickname, capacity, model, status, driver_id,
         last_maintenance_date, next_maintenance_date, created_at, updated_at)
        VALUES (:id, :bus_number, :bus_nickname, :capacity, :model, :status, :driver_id,
         :last_maintenance_date, :next_maintenance_date, NOW(), NOW())`
	if _, err := r.db.NamedExecContext(ctx, query, bus); err != nil {
		return fmt.Errorf("create bus: %w", err)
	}
	return nil
}

// Update rewrites the mutable columns of a bus row.
func (r *BusRepository) Update(ctx context.Context, bus models.Bus) error {
	const query = `UPDATE buses SET
        bus_number = :bus_number, bus_nickname = :bus_nickname, capacity = :capacity,
        model = :model, status = :status, driver_id = :driver_id,
        last_maintenance_date = :last_maintenance_date,
        next_maintenance_date = :next_maintenance_date, updated_at = NOW()
        WHERE id = :id`
	result, err := r.db.NamedExecContext(ctx, query, bus)
	if err != nil {
		return fmt.Errorf("update bus %s: %w", bus.ID, err)
	}
	return requireRowAffected(result)
}

// UpdateStatus flips only the status column.
func (r *BusRepository) UpdateStatus(ctx context.Context, id string, status models.BusStatus) error {
	const query = `UPDATE buses SET status = ?, updated_at = NOW() WHERE id = ?`
	result, err := r.db.ExecContext(ctx, query, status, id)
	if err != nil {
		return fmt.Errorf("update bus status %s: %w", id, err)
	}
	return requireRowAffected(result)
}

// Delete removes a bus row permanently.
func (r *BusRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM buses WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete bus %s: %w", id, err)
	}
	return requireRowAffected(result)
}

// requireRowAffected maps zero-row writes onto the not-found sentinel so
// services surface a 404 instead of a silent no-op.
func requireRowAffected(result sql.Result) error {
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if rows == 0 {
		return appErrors.ErrNotFound
	}
	return nil
}

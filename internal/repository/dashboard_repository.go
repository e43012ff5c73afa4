package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/campustransit/transit-api/internal/models"
)

// DashboardRepository exposes the aggregate queries backing the admin
// dashboard. All statements use bound parameters for caller-influenced
// values; sub-counts ride along in a single pass per table via
// SUM(CASE ...) instead of separate round trips.
type DashboardRepository struct {
	db *sqlx.DB
}

// NewDashboardRepository instantiates the repository.
func NewDashboardRepository(db *sqlx.DB) *DashboardRepository {
	return &DashboardRepository{db: db}
}

// BusCounts tallies total and active buses in one query.
func (r *DashboardRepository) BusCounts(ctx context.Context) (models.EntityCount, error) {
	const query = `SELECT COUNT(*) AS total,
        COALESCE(SUM(CASE WHEN status = 'active' THEN 1 ELSE 0 END), 0) AS active
        FROM buses`
	var counts models.EntityCount
	if err := r.db.GetContext(ctx, &counts, query); err != nil {
		return models.EntityCount{}, fmt.Errorf("count buses: %w", err)
	}
	return counts, nil
}

// RouteCounts tallies total and active routes in one query.
func (r *DashboardRepository) RouteCounts(ctx context.Context) (models.EntityCount, error) {
	const query = `SELECT COUNT(*) AS total,
        COALESCE(SUM(CASE WHEN is_active = TRUE THEN 1 ELSE 0 END), 0) AS active
        FROM routes`
	var counts models.EntityCount
	if err := r.db.GetContext(ctx, &counts, query); err != nil {
		return models.EntityCount{}, fmt.Errorf("count routes: %w", err)
	}
	return counts, nil
}

// ScheduleCounts tallies total schedules and those still to run.
func (r *DashboardRepository) ScheduleCounts(ctx context.Context) (models.EntityCount, error) {
	const query = `SELECT COUNT(*) AS total,
        COALESCE(SUM(CASE WHEN status IN ('scheduled', 'in-progress') THEN 1 ELSE 0 END), 0) AS active
        FROM schedules`
	var counts models.EntityCount
	if err := r.db.GetContext(ctx, &counts, query); err != nil {
		return models.EntityCount{}, fmt.Errorf("count schedules: %w", err)
	}
	return counts, nil
}

// StudentCounts tallies total and active students in one query.
func (r *DashboardRepository) StudentCounts(ctx context.Context) (models.EntityCount, error) {
	const query = `SELECT COUNT(*) AS total,
        COALESCE(SUM(CASE WHEN status = 'active' THEN 1 ELSE 0 END), 0) AS active
        FROM students`
	var counts models.EntityCount
	if err := r.db.GetContext(ctx, &counts, query); err != nil {
		return models.EntityCount{}, fmt.Errorf("count students: %w", err)
	}
	return counts, nil
}

// PaymentStatusCounts tallies payments per status in one pass.
func (r *DashboardRepository) PaymentStatusCounts(ctx context.Context) ([]models.PaymentStatusCount, error) {
	const query = `SELECT status, COUNT(*) AS count FROM payments GROUP BY status`
	var counts []models.PaymentStatusCount
	if err := r.db.SelectContext(ctx, &counts, query); err != nil {
		return nil, fmt.Errorf("count payments by status: %w", err)
	}
	return counts, nil
}

// RevenueByPeriod sums completed-payment amounts bucketed by the resolved
// period over its lookback window. Pending, failed and refunded rows never
// contribute to revenue totals. The window is bounded on both sides so a
// future-dated payment cannot add buckets past the current one. CAST keeps
// DECIMAL sums scanning as floats.
func (r *DashboardRepository) RevenueByPeriod(ctx context.Context, period models.Period, now time.Time) ([]models.RevenueBucket, error) {
	query := fmt.Sprintf(`SELECT %s AS period,
        %s AS label,
        CAST(COALESCE(SUM(amount), 0) AS DOUBLE) AS revenue_total,
        COUNT(*) AS count
        FROM payments
        WHERE status = 'completed' AND payment_date >= ? AND payment_date <= ?
        GROUP BY %s
        ORDER BY MIN(payment_date)`,
		period.GroupExpr("payment_date"),
		period.LabelExpr("payment_date"),
		period.GroupExpr("payment_date"),
	)
	var buckets []models.RevenueBucket
	if err := r.db.SelectContext(ctx, &buckets, query, period.WindowStart(now), now); err != nil {
		return nil, fmt.Errorf("revenue by period: %w", err)
	}
	return buckets, nil
}

// PaymentMethodShares breaks completed payments down by method since the
// provided lower bound.
func (r *DashboardRepository) PaymentMethodShares(ctx context.Context, since time.Time) ([]models.PaymentMethodShare, error) {
	const query = `SELECT payment_method,
        COUNT(*) AS count,
        CAST(COALESCE(SUM(amount), 0) AS DOUBLE) AS total
        FROM payments
        WHERE status = 'completed' AND payment_date >= ?
        GROUP BY payment_method
        ORDER BY total DESC`
	var shares []models.PaymentMethodShare
	if err := r.db.SelectContext(ctx, &shares, query, since); err != nil {
		return nil, fmt.Errorf("payment method shares: %w", err)
	}
	return shares, nil
}

// RecentPayments returns the newest payments joined to their students.
func (r *DashboardRepository) RecentPayments(ctx context.Context, limit int) ([]models.PaymentDetail, error) {
	const query = `SELECT p.id, p.student_id, p.amount, p.payment_date, p.payment_method,
        p.payment_type, p.status, p.description, p.created_at, p.updated_at,
        s.first_name, s.last_name
        FROM payments p
        JOIN students s ON p.student_id = s.id
        ORDER BY p.payment_date DESC
        LIMIT ?`
	var payments []models.PaymentDetail
	if err := r.db.SelectContext(ctx, &payments, query, limit); err != nil {
		return nil, fmt.Errorf("recent payments: %w", err)
	}
	return payments, nil
}

// UpcomingSchedules returns at most limit future departures, soonest first.
// Ordering is explicit so the payload is reproducible between requests.
func (r *DashboardRepository) UpcomingSchedules(ctx context.Context, now time.Time, limit int) ([]models.ScheduleDetail, error) {
	const query = `SELECT s.id, s.bus_id, s.route_id, s.departure_time, s.arrival_time,
        s.fare, s.status, s.created_at, s.updated_at,
        b.bus_number, r.route_name,
        start_loc.name AS start_location, end_loc.name AS end_location
        FROM schedules s
        JOIN buses b ON s.bus_id = b.id
        JOIN routes r ON s.route_id = r.id
        JOIN locations start_loc ON r.start_location_id = start_loc.id
        JOIN locations end_loc ON r.end_location_id = end_loc.id
        WHERE s.departure_time > ? AND s.status = 'scheduled'
        ORDER BY s.departure_time ASC
        LIMIT ?`
	var schedules []models.ScheduleDetail
	if err := r.db.SelectContext(ctx, &schedules, query, now, limit); err != nil {
		return nil, fmt.Errorf("upcoming schedules: %w", err)
	}
	return schedules, nil
}

// MaintenanceNeeded lists buses whose next maintenance falls inside the
// window of the given number of days from now.
func (r *DashboardRepository) MaintenanceNeeded(ctx context.Context, now time.Time, days int) ([]models.MaintenanceEntry, error) {
	const query = `SELECT id, bus_number, bus_nickname, status, last_maintenance_date, next_maintenance_date
        FROM buses
        WHERE next_maintenance_date IS NOT NULL
          AND next_maintenance_date >= ?
          AND next_maintenance_date <= ?
        ORDER BY next_maintenance_date ASC`
	var entries []models.MaintenanceEntry
	if err := r.db.SelectContext(ctx, &entries, query, now, now.AddDate(0, 0, days)); err != nil {
		return nil, fmt.Errorf("maintenance needed: %w", err)
	}
	return entries, nil
}

// UpcomingMaintenance lists the next scheduled maintenance visits.
func (r *DashboardRepository) UpcomingMaintenance(ctx context.Context, now time.Time, limit int) ([]models.MaintenanceEntry, error) {
	const query = `SELECT id, bus_number, bus_nickname, status, last_maintenance_date, next_maintenance_date
        FROM buses
        WHERE next_maintenance_date IS NOT NULL AND next_maintenance_date > ?
        ORDER BY next_maintenance_date ASC
        LIMIT ?`
	var entries []models.MaintenanceEntry
	if err := r.db.SelectContext(ctx, &entries, query, now, limit); err != nil {
		return nil, fmt.Errorf("upcoming maintenance: %w", err)
	}
	return entries, nil
}

// MaintenanceHistory lists the most recently serviced buses.
func (r *DashboardRepository) MaintenanceHistory(ctx context.Context, now time.Time, limit int) ([]models.MaintenanceEntry, error) {
	const query = `SELECT id, bus_number, bus_nickname, status, last_maintenance_date, next_maintenance_date
        FROM buses
        WHERE last_maintenance_date IS NOT NULL AND last_maintenance_date <= ?
        ORDER BY last_maintenance_date DESC
        LIMIT ?`
	var entries []models.MaintenanceEntry
	if err := r.db.SelectContext(ctx, &entries, query, now, limit); err != nil {
		return nil, fmt.Errorf("maintenance history: %w", err)
	}
	return entries, nil
}

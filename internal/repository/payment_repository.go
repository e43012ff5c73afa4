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

// PaymentRepository persists payment records.
type PaymentRepository struct {
	db *sqlx.DB
}

// NewPaymentRepository instantiates the repository.
func NewPaymentRepository(db *sqlx.DB) *PaymentRepository {
	return &PaymentRepository{db: db}
}

const paymentDetailColumns = `p.id, p.student_id, p.amount, p.payment_date, p.payment_method,
        p.payment_type, p.status, p.description, p.created_at, p.updated_at,
        s.first_name, s.last_name`

// List returns payments matching the filter with the total count.
func (r *PaymentRepository) List(ctx context.Context, filter models.PaymentFilter) ([]models.PaymentDetail, int, error) {
	where := " WHERE 1=1"
	args := []interface{}{}
	if filter.StudentID != "" {
		where += " AND p.student_id = ?"
		args = append(args, filter.StudentID)
	}
	if filter.Status != "" {
		where += " AND p.status = ?"
		args = append(args, filter.Status)
	}
	if filter.From != nil {
		where += " AND p.payment_date >= ?"
		args = append(args, *filter.From)
	}
	if filter.To != nil {
		where += " AND p.payment_date <= ?"
		args = append(args, *filter.To)
	}

	var total int
	if err := r.db.GetContext(ctx, &total, "SELECT COUNT(*) FROM payments p"+where, args...); err != nil {
		return nil, 0, fmt.Errorf("count payments: %w", err)
	}

	query := `SELECT ` + paymentDetailColumns + `
        FROM payments p
        JOIN students s ON p.student_id = s.id` + where + `
        ORDER BY p.payment_date DESC
        LIMIT ? OFFSET ?`
	args = append(args, filter.PageSize, (filter.Page-1)*filter.PageSize)

	var payments []models.PaymentDetail
	if err := r.db.SelectContext(ctx, &payments, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list payments: %w", err)
	}
	return payments, total, nil
}

// ListForExport streams every payment in a date range without pagination.
func (r *PaymentRepository) ListForExport(ctx context.Context, from, to time.Time) ([]models.PaymentDetail, error) {
	query := `SELECT ` + paymentDetailColumns + `
        FROM payments p
        JOIN students s ON p.student_id = s.id
        WHERE p.payment_date >= ? AND p.payment_date <= ?
        ORDER BY p.payment_date ASC`
	var payments []models.PaymentDetail
	if err := r.db.SelectContext(ctx, &payments, query, from, to); err != nil {
		return nil, fmt.Errorf("list payments for export: %w", err)
	}
	return payments, nil
}

// FindByID loads a payment with the paying student resolved.
func (r *PaymentRepository) FindByID(ctx context.Context, id string) (models.PaymentDetail, error) {
	query := `SELECT ` + paymentDetailColumns + `
        FROM payments p
        JOIN students s ON p.student_id = s.id
        WHERE p.id = ?`
	var payment models.PaymentDetail
	if err := r.db.GetContext(ctx, &payment, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.PaymentDetail{}, appErrors.ErrNotFound
		}
		return models.PaymentDetail{}, fmt.Errorf("find payment %s: %w", id, err)
	}
	return payment, nil
}

// Create inserts a payment row.
func (r *PaymentRepository) Create(ctx context.Context, payment models.Payment) error {
	const query = `INSERT INTO payments
        (id, student_id, amount, payment_date, payment_method, payment_type, status, description, created_at, updated_at)
        VALUES (:id, :student_id, :amount, :payment_date, :payment_method, :payment_type, :status, :description, NOW(), NOW())`
	if _, err := r.db.NamedExecContext(ctx, query, payment); err != nil {
		return fmt.Errorf("create payment: %w", err)
	}
	return nil
}

// Update rewrites a payment row.
func (r *PaymentRepository) Update(ctx context.Context, payment models.Payment) error {
	const query = `UPDATE payments SET
        student_id = :student_id, amount = :amount, payment_date = :payment_date,
        payment_method = :payment_method, payment_type = :payment_type,
        status = :status, description = :description, updated_at = NOW()
        WHERE id = :id`
	result, err := r.db.NamedExecContext(ctx, query, payment)
	if err != nil {
		return fmt.Errorf("update payment %s: %w", payment.ID, err)
	}
	return requireRowAffected(result)
}

// UpdateStatus moves a payment through its lifecycle, covering manual
// verification of pending transfers.
func (r *PaymentRepository) UpdateStatus(ctx context.Context, id string, status models.PaymentStatus) error {
	result, err := r.db.ExecContext(ctx, `UPDATE payments SET status = ?, updated_at = NOW() WHERE id = ?`, status, id)
	if err != nil {
		return fmt.Errorf("update payment status %s: %w", id, err)
	}
	return requireRowAffected(result)
}

// Delete removes a payment row.
func (r *PaymentRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM payments WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete payment %s: %w", id, err)
	}
	return requireRowAffected(result)
}

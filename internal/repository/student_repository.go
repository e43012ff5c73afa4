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

// StudentRepository persists rider records.
type StudentRepository struct {
	db *sqlx.DB
}

// NewStudentRepository instantiates the repository.
func NewStudentRepository(db *sqlx.DB) *StudentRepository {
	return &StudentRepository{db: db}
}

const studentColumns = `id, first_name, last_name, email, phone, address, grade, school,
        parent_name, parent_phone, emergency_contact, emergency_phone, status, created_at, updated_at`

// List returns students matching the filter with the total count.
func (r *StudentRepository) List(ctx context.Context, filter models.StudentFilter) ([]models.Student, int, error) {
	where := " WHERE 1=1"
	args := []interface{}{}
	if filter.Status != "" {
		where += " AND status = ?"
		args = append(args, filter.Status)
	}
	if filter.Search != "" {
		where += " AND (first_name LIKE ? OR last_name LIKE ? OR email LIKE ?)"
		pattern := "%" + filter.Search + "%"
		args = append(args, pattern, pattern, pattern)
	}

	var total int
	if err := r.db.GetContext(ctx, &total, "SELECT COUNT(*) FROM students"+where, args...); err != nil {
		return nil, 0, fmt.Errorf("count students: %w", err)
	}

	query := `SELECT ` + studentColumns + ` FROM students` + where + `
        ORDER BY last_name ASC, first_name ASC
        LIMIT ? OFFSET ?`
	args = append(args, filter.PageSize, (filter.Page-1)*filter.PageSize)

	var students []models.Student
	if err := r.db.SelectContext(ctx, &students, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list students: %w", err)
	}
	return students, total, nil
}

// ListRecent returns the newest registrations.
func (r *StudentRepository) ListRecent(ctx context.Context, limit int) ([]models.Student, error) {
	query := `SELECT ` + studentColumns + ` FROM students ORDER BY created_at DESC LIMIT ?`
	var students []models.Student
	if err := r.db.SelectContext(ctx, &students, query, limit); err != nil {
		return nil, fmt.Errorf("list recent students: %w", err)
	}
	return students, nil
}

// FindByID loads a single student.
func (r *StudentRepository) FindByID(ctx context.Context, id string) (models.Student, error) {
	query := `SELECT ` + studentColumns + ` FROM students WHERE id = ?`
	var student models.Student
	if err := r.db.GetContext(ctx, &student, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Student{}, appErrors.ErrNotFound
		}
		return models.Student{}, fmt.Errorf("find student %s: %w", id, err)
	}
	return student, nil
}

// ExistsByEmail reports whether another student already uses the address.
func (r *StudentRepository) ExistsByEmail(ctx context.Context, email, excludeID string) (bool, error) {
	var count int
	if err := r.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM students WHERE email = ? AND id != ?`, email, excludeID); err != nil {
		return false, fmt.Errorf("check student email: %w", err)
	}
	return count > 0, nil
}

// Create inserts a student row.
func (r *StudentRepository) Create(ctx context.Context, student models.Student) error {
	const query = `INSERT INTO students
        (id, first_name, last_name, email, phone, address, grade, school, parent_name, parent_phone,
         emergency_contact, emergency_phone, status, created_at, updated_at)
        VALUES (:id, :first_name, :last_name, :email, :phone, :address, :grade, :school, :parent_name, :parent_phone,
         :emergency_contact, :emergency_phone, :status, NOW(), NOW())`
	if _, err := r.db.NamedExecContext(ctx, query, student); err != nil {
		return fmt.Errorf("create student: %w", err)
	}
	return nil
}

// Update rewrites a student row.
func (r *StudentRepository) Update(ctx context.Context, student models.Student) error {
	const query = `UPDATE students SET
        first_name = :first_name, last_name = :last_name, email = :email,
        phone = :phone, address = :address, grade = :grade, school = :school,
        parent_name = :parent_name, parent_phone = :parent_phone,
        emergency_contact = :emergency_contact, emergency_phone = :emergency_phone,
        status = :status, updated_at = NOW()
        WHERE id = :id`
	result, err := r.db.NamedExecContext(ctx, query, student)
	if err != nil {
		return fmt.Errorf("update student %s: %w", student.ID, err)
	}
	return requireRowAffected(result)
}

// UpdateStatus flips only the status column.
func (r *StudentRepository) UpdateStatus(ctx context.Context, id string, status models.StudentStatus) error {
	result, err := r.db.ExecContext(ctx, `UPDATE students SET status = ?, updated_at = NOW() WHERE id = ?`, status, id)
	if err != nil {
		return fmt.Errorf("update student status %s: %w", id, err)
	}
	return requireRowAffected(result)
}

// Delete removes a student row.
func (r *StudentRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM students WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete student %s: %w", id, err)
	}
	return requireRowAffected(result)
}

// PaymentStatus summarises a student's payments grouped by status.
func (r *StudentRepository) PaymentStatus(ctx context.Context, studentID string) ([]models.StudentPaymentStatus, error) {
	const query = `SELECT status, COUNT(*) AS count,
        CAST(COALESCE(SUM(amount), 0) AS DOUBLE) AS total_amount
        FROM payments WHERE student_id = ?
        GROUP BY status`
	var summary []models.StudentPaymentStatus
	if err := r.db.SelectContext(ctx, &summary, query, studentID); err != nil {
		return nil, fmt.Errorf("student payment status %s: %w", studentID, err)
	}
	return summary, nil
}

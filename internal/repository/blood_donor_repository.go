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

// BloodDonorRepository persists the volunteer donor directory. Rows are
// soft-deleted; every read filters on is_active.
type BloodDonorRepository struct {
	db *sqlx.DB
}

// NewBloodDonorRepository instantiates the repository.
func NewBloodDonorRepository(db *sqlx.DB) *BloodDonorRepository {
	return &BloodDonorRepository{db: db}
}

const donorColumns = `id, name, email, phone, blood_group, is_active, created_at, updated_at`

// List returns every active donor.
func (r *BloodDonorRepository) List(ctx context.Context) ([]models.BloodDonor, error) {
	query := `SELECT ` + donorColumns + ` FROM blood_donors WHERE is_active = TRUE ORDER BY name ASC`
	var donors []models.BloodDonor
	if err := r.db.SelectContext(ctx, &donors, query); err != nil {
		return nil, fmt.Errorf("list blood donors: %w", err)
	}
	return donors, nil
}

// Search returns active donors matching any of the provided criteria.
// Blood group matches exactly; name and email match as substrings.
func (r *BloodDonorRepository) Search(ctx context.Context, criteria models.BloodDonorSearch) ([]models.BloodDonor, error) {
	where := " WHERE is_active = TRUE"
	args := []interface{}{}
	if criteria.BloodGroup != "" {
		where += " AND blood_group = ?"
		args = append(args, criteria.BloodGroup)
	}
	if criteria.Name != "" {
		where += " AND name LIKE ?"
		args = append(args, "%"+criteria.Name+"%")
	}
	if criteria.Email != "" {
		where += " AND email LIKE ?"
		args = append(args, "%"+criteria.Email+"%")
	}
	query := `SELECT ` + donorColumns + ` FROM blood_donors` + where + ` ORDER BY name ASC`
	var donors []models.BloodDonor
	if err := r.db.SelectContext(ctx, &donors, query, args...); err != nil {
		return nil, fmt.Errorf("search blood donors: %w", err)
	}
	return donors, nil
}

// FindByID loads an active donor.
func (r *BloodDonorRepository) FindByID(ctx context.Context, id string) (models.BloodDonor, error) {
	query := `SELECT ` + donorColumns + ` FROM blood_donors WHERE id = ? AND is_active = TRUE`
	var donor models.BloodDonor
	if err := r.db.GetContext(ctx, &donor, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.BloodDonor{}, appErrors.ErrNotFound
		}
		return models.BloodDonor{}, fmt.Errorf("find blood donor %s: %w", id, err)
	}
	return donor, nil
}

// Create inserts a donor row.
func (r *BloodDonorRepository) Create(ctx context.Context, donor models.BloodDonor) error {
	const query = `INSERT INTO blood_donors (id, name, email, phone, blood_group, is_active, created_at, updated_at)
        VALUES (:id, :name, :email, :phone, :blood_group, TRUE, NOW(), NOW())`
	if _, err := r.db.NamedExecContext(ctx, query, donor); err != nil {
		return fmt.Errorf("create blood donor: %w", err)
	}
	return nil
}

// Update rewrites an active donor row.
func (r *BloodDonorRepository) Update(ctx context.Context, donor models.BloodDonor) error {
	const query = `UPDATE blood_donors SET
        name = :name, email = :email, phone = :phone, blood_group = :blood_group, updated_at = NOW()
        WHERE id = :id AND is_active = TRUE`
	result, err := r.db.NamedExecContext(ctx, query, donor)
	if err != nil {
		return fmt.Errorf("update blood donor %s: %w", donor.ID, err)
	}
	return requireRowAffected(result)
}

// Deactivate soft-deletes a donor; the row stays for auditability.
func (r *BloodDonorRepository) Deactivate(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `UPDATE blood_donors SET is_active = FALSE, updated_at = NOW() WHERE id = ? AND is_active = TRUE`, id)
	if err != nil {
		return fmt.Errorf("deactivate blood donor %s: %w", id, err)
	}
	return requireRowAffected(result)
}

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

// UserRepository persists staff accounts, their issued tokens and the
// role directory.
type UserRepository struct {
	db *sqlx.DB
}

// NewUserRepository instantiates the repository.
func NewUserRepository(db *sqlx.DB) *UserRepository {
	return &UserRepository{db: db}
}

const userColumns = `u.id, u.first_name, u.last_name, u.username, u.email, u.password,
        u.phone, u.address, u.role_id, r.role_name, u.is_active, u.last_login,
        u.created_at, u.updated_at`

// FindByEmail loads a user by email with the role name resolved.
func (r *UserRepository) FindByEmail(ctx context.Context, email string) (models.User, error) {
	query := `SELECT ` + userColumns + `
        FROM users u JOIN roles r ON u.role_id = r.id
        WHERE u.email = ?`
	var user models.User
	if err := r.db.GetContext(ctx, &user, query, email); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.User{}, appErrors.ErrNotFound
		}
		return models.User{}, fmt.Errorf("find user by email: %w", err)
	}
	return user, nil
}

// FindByID loads a user by primary key with the role name resolved.
func (r *UserRepository) FindByID(ctx context.Context, id string) (models.User, error) {
	query := `SELECT ` + userColumns + `
        FROM users u JOIN roles r ON u.role_id = r.id
        WHERE u.id = ?`
	var user models.User
	if err := r.db.GetContext(ctx, &user, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.User{}, appErrors.ErrNotFound
		}
		return models.User{}, fmt.Errorf("find user %s: %w", id, err)
	}
	return user, nil
}

// ExistsByEmailOrUsername reports whether either identifier is taken.
func (r *UserRepository) ExistsByEmailOrUsername(ctx context.Context, email, username string) (bool, error) {
	var count int
	if err := r.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM users WHERE email = ? OR username = ?`, email, username); err != nil {
		return false, fmt.Errorf("check user identifiers: %w", err)
	}
	return count > 0, nil
}

// CountByRole returns how many accounts carry the given role name.
func (r *UserRepository) CountByRole(ctx context.Context, role models.UserRole) (int, error) {
	const query = `SELECT COUNT(*) FROM users u JOIN roles r ON u.role_id = r.id WHERE r.role_name = ?`
	var count int
	if err := r.db.GetContext(ctx, &count, query, role); err != nil {
		return 0, fmt.Errorf("count users by role: %w", err)
	}
	return count, nil
}

// Create inserts a user row.
func (r *UserRepository) Create(ctx context.Context, user models.User) error {
	const query = `INSERT INTO users
        (id, first_name, last_name, username, email, password, phone, address, role_id, is_active, created_at, updated_at)
        VALUES (:id, :first_name, :last_name, :username, :email, :password, :phone, :address, :role_id, :is_active, NOW(), NOW())`
	if _, err := r.db.NamedExecContext(ctx, query, user); err != nil {
		return fmt.Errorf("create user: %w", err)
	}
	return nil
}

// TouchLastLogin stamps a successful sign-in.
func (r *UserRepository) TouchLastLogin(ctx context.Context, id string, at time.Time) error {
	if _, err := r.db.ExecContext(ctx, `UPDATE users SET last_login = ?, updated_at = NOW() WHERE id = ?`, at, id); err != nil {
		return fmt.Errorf("touch last login %s: %w", id, err)
	}
	return nil
}

// ListRoles returns the full role directory.
func (r *UserRepository) ListRoles(ctx context.Context) ([]models.Role, error) {
	const query = `SELECT id, role_name, description FROM roles ORDER BY role_name ASC`
	var roles []models.Role
	if err := r.db.SelectContext(ctx, &roles, query); err != nil {
		return nil, fmt.Errorf("list roles: %w", err)
	}
	return roles, nil
}

// SaveToken records an issued JWT so sign-out can revoke it server side.
func (r *UserRepository) SaveToken(ctx context.Context, token models.UserToken) error {
	const query = `INSERT INTO user_tokens (id, user_id, token, is_active, expires_at, created_at)
        VALUES (:id, :user_id, :token, :is_active, :expires_at, NOW())`
	if _, err := r.db.NamedExecContext(ctx, query, token); err != nil {
		return fmt.Errorf("save token: %w", err)
	}
	return nil
}

// TokenActive reports whether the token is on record, unrevoked and
// unexpired at the given instant.
func (r *UserRepository) TokenActive(ctx context.Context, token string, now time.Time) (bool, error) {
	const query = `SELECT COUNT(*) FROM user_tokens
        WHERE token = ? AND is_active = TRUE AND expires_at > ?`
	var count int
	if err := r.db.GetContext(ctx, &count, query, token, now); err != nil {
		return false, fmt.Errorf("check token: %w", err)
	}
	return count > 0, nil
}

// RevokeToken deactivates a single token.
func (r *UserRepository) RevokeToken(ctx context.Context, token string) error {
	if _, err := r.db.ExecContext(ctx, `UPDATE user_tokens SET is_active = FALSE WHERE token = ?`, token); err != nil {
		return fmt.Errorf("revoke token: %w", err)
	}
	return nil
}

// DeactivateExpiredTokens flips is_active off for every token past its
// expiry and reports how many rows changed.
func (r *UserRepository) DeactivateExpiredTokens(ctx context.Context, now time.Time) (int64, error) {
	result, err := r.db.ExecContext(ctx, `UPDATE user_tokens SET is_active = FALSE WHERE is_active = TRUE AND expires_at <= ?`, now)
	if err != nil {
		return 0, fmt.Errorf("deactivate expired tokens: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("rows affected: %w", err)
	}
	return rows, nil
}

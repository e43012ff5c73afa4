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

func newUserMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

func TestUserRepositoryFindByEmail(t *testing.T) {
	db, mock, cleanup := newUserMock(t)
	defer cleanup()
	repo := NewUserRepository(db)
	now := time.Now()

	rows := sqlmock.NewRows([]string{
		"id", "first_name", "last_name", "username", "email", "password", "phone",
		"address", "role_id", "role_name", "is_active", "last_login", "created_at", "updated_at",
	}).AddRow("usr-1", "Grace", "Hopper", "ghopper", "grace@example.com", "$2a$10$hash", "555",
		"1 Pier St", "role-1", "admin", true, nil, now, now)
	mock.ExpectQuery(regexp.QuoteMeta("WHERE u.email = ?")).
		WithArgs("grace@example.com").
		WillReturnRows(rows)

	user, err := repo.FindByEmail(context.Background(), "grace@example.com")
	require.NoError(t, err)
	assert.Equal(t, models.RoleAdmin, user.RoleName)
	assert.True(t, user.Active)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepositoryFindByEmailNotFound(t *testing.T) {
	db, mock, cleanup := newUserMock(t)
	defer cleanup()
	repo := NewUserRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("WHERE u.email = ?")).
		WithArgs("nobody@example.com").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.FindByEmail(context.Background(), "nobody@example.com")
	assert.ErrorIs(t, err, appErrors.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepositoryTokenActive(t *testing.T) {
	db, mock, cleanup := newUserMock(t)
	defer cleanup()
	repo := NewUserRepository(db)
	now := time.Now()

	mock.ExpectQuery(regexp.QuoteMeta("FROM user_tokens")).
		WithArgs("jwt-value", now).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	active, err := repo.TokenActive(context.Background(), "jwt-value", now)
	require.NoError(t, err)
	assert.True(t, active)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepositoryDeactivateExpiredTokens(t *testing.T) {
	db, mock, cleanup := newUserMock(t)
	defer cleanup()
	repo := NewUserRepository(db)
	now := time.Now()

	mock.ExpectExec("UPDATE user_tokens SET is_active = FALSE WHERE is_active = TRUE").
		WithArgs(now).
		WillReturnResult(sqlmock.NewResult(0, 3))

	affected, err := repo.DeactivateExpiredTokens(context.Background(), now)
	require.NoError(t, err)
	assert.Equal(t, int64(3), affected)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepositoryListRoles(t *testing.T) {
	db, mock, cleanup := newUserMock(t)
	defer cleanup()
	repo := NewUserRepository(db)

	rows := sqlmock.NewRows([]string{"id", "role_name", "description"}).
		AddRow("role-1", "admin", "full access").
		AddRow("role-2", "driver", "fleet staff")
	mock.ExpectQuery(regexp.QuoteMeta("FROM roles")).WillReturnRows(rows)

	roles, err := repo.ListRoles(context.Background())
	require.NoError(t, err)
	require.Len(t, roles, 2)
	assert.Equal(t, "admin", roles[0].RoleName)
	assert.NoError(t, mock.ExpectationsWereMet())
}

package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/campustransit/transit-api/internal/models"
	appErrors "github.com/campustransit/transit-api/pkg/errors"
)

type fakeUserRepo struct {
	users      map[string]models.User
	roles      []models.Role
	adminCount int

	savedTokens   []models.UserToken
	revokedTokens []string
	tokenActive   bool
	created       []models.User
}

func (f *fakeUserRepo) FindByEmail(_ context.Context, email string) (models.User, error) {
	for _, u := range f.users {
		if u.Email == email {
			return u, nil
		}
	}
	return models.User{}, appErrors.ErrNotFound
}

func (f *fakeUserRepo) FindByID(_ context.Context, id string) (models.User, error) {
	u, ok := f.users[id]
	if !ok {
		return models.User{}, appErrors.ErrNotFound
	}
	return u, nil
}

func (f *fakeUserRepo) ExistsByEmailOrUsername(_ context.Context, email, username string) (bool, error) {
	for _, u := range f.users {
		if u.Email == email || u.Username == username {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeUserRepo) CountByRole(context.Context, models.UserRole) (int, error) {
	return f.adminCount, nil
}

func (f *fakeUserRepo) Create(_ context.Context, user models.User) error {
	f.created = append(f.created, user)
	return nil
}

func (f *fakeUserRepo) TouchLastLogin(context.Context, string, time.Time) error { return nil }

func (f *fakeUserRepo) ListRoles(context.Context) ([]models.Role, error) { return f.roles, nil }

func (f *fakeUserRepo) SaveToken(_ context.Context, token models.UserToken) error {
	f.savedTokens = append(f.savedTokens, token)
	return nil
}

func (f *fakeUserRepo) TokenActive(context.Context, string, time.Time) (bool, error) {
	return f.tokenActive, nil
}

func (f *fakeUserRepo) RevokeToken(_ context.Context, token string) error {
	f.revokedTokens = append(f.revokedTokens, token)
	return nil
}

func hashPassword(t *testing.T, plain string) string {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.MinCost)
	require.NoError(t, err)
	return string(hash)
}

func newAuthFixture(t *testing.T) (*AuthService, *fakeUserRepo) {
	repo := &fakeUserRepo{
		users: map[string]models.User{
			"usr-1": {
				ID:           "usr-1",
				Username:     "ghopper",
				Email:        "grace@example.com",
				PasswordHash: hashPassword(t, "s3cret"),
				RoleID:       "role-1",
				RoleName:     models.RoleAdmin,
				Active:       true,
			},
		},
		roles: []models.Role{
			{ID: "role-1", RoleName: "admin"},
			{ID: "role-2", RoleName: "student"},
			{ID: "role-3", RoleName: "driver"},
		},
		adminCount:  1,
		tokenActive: true,
	}
	svc := NewAuthService(repo, nil, nil, AuthConfig{TokenSecret: "test-secret", TokenExpiry: time.Hour, Issuer: "transit-api"})
	require.NoError(t, svc.LoadRoles(context.Background()))
	return svc, repo
}

func TestAuthLoginIssuesPersistedToken(t *testing.T) {
	svc, repo := newAuthFixture(t)

	resp, err := svc.Login(context.Background(), models.LoginRequest{Email: "grace@example.com", Password: "s3cret"})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.Token)
	assert.Equal(t, int64(3600), resp.ExpiresIn)
	assert.Equal(t, models.RoleAdmin, resp.User.Role)
	require.Len(t, repo.savedTokens, 1)
	assert.Equal(t, resp.Token, repo.savedTokens[0].Token)
	assert.True(t, repo.savedTokens[0].Active)
}

func TestAuthLoginWrongPassword(t *testing.T) {
	svc, _ := newAuthFixture(t)

	_, err := svc.Login(context.Background(), models.LoginRequest{Email: "grace@example.com", Password: "wrong"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrInvalidCredentials.Code, appErrors.FromError(err).Code)
}

func TestAuthLoginUnknownEmailSameError(t *testing.T) {
	svc, _ := newAuthFixture(t)

	_, err := svc.Login(context.Background(), models.LoginRequest{Email: "nobody@example.com", Password: "s3cret"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrInvalidCredentials.Code, appErrors.FromError(err).Code)
}

func TestAuthLoginInactiveAccount(t *testing.T) {
	svc, repo := newAuthFixture(t)
	user := repo.users["usr-1"]
	user.Active = false
	repo.users["usr-1"] = user

	_, err := svc.Login(context.Background(), models.LoginRequest{Email: "grace@example.com", Password: "s3cret"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrInactiveAccount.Code, appErrors.FromError(err).Code)
}

func TestAuthAuthenticateRoundTrip(t *testing.T) {
	svc, _ := newAuthFixture(t)

	resp, err := svc.Login(context.Background(), models.LoginRequest{Email: "grace@example.com", Password: "s3cret"})
	require.NoError(t, err)

	claims, err := svc.Authenticate(context.Background(), resp.Token)
	require.NoError(t, err)
	assert.Equal(t, "usr-1", claims.UserID)
	assert.Equal(t, models.RoleAdmin, claims.Role)
}

func TestAuthAuthenticateRejectsRevokedToken(t *testing.T) {
	svc, repo := newAuthFixture(t)

	resp, err := svc.Login(context.Background(), models.LoginRequest{Email: "grace@example.com", Password: "s3cret"})
	require.NoError(t, err)

	repo.tokenActive = false
	_, err = svc.Authenticate(context.Background(), resp.Token)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrUnauthorized.Code, appErrors.FromError(err).Code)
}

func TestAuthLogoutRevokesToken(t *testing.T) {
	svc, repo := newAuthFixture(t)

	require.NoError(t, svc.Logout(context.Background(), "jwt-value"))
	assert.Equal(t, []string{"jwt-value"}, repo.revokedTokens)
}

func TestAuthRegisterRequiresAdmin(t *testing.T) {
	svc, _ := newAuthFixture(t)

	_, err := svc.Register(context.Background(), models.RegisterRequest{
		FirstName: "Alan", LastName: "Turing", Username: "aturing",
		Email: "alan@example.com", Password: "enigma1", Role: "driver",
	}, models.RoleDriver)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrForbidden.Code, appErrors.FromError(err).Code)
}

func TestAuthRegisterFirstAdminBootstrap(t *testing.T) {
	svc, repo := newAuthFixture(t)
	repo.users = map[string]models.User{}
	repo.adminCount = 0

	info, err := svc.Register(context.Background(), models.RegisterRequest{
		FirstName: "Ada", LastName: "Lovelace", Username: "alovelace",
		Email: "ada@example.com", Password: "analyt1c", Role: "admin",
	}, "")
	require.NoError(t, err)
	assert.Equal(t, models.RoleAdmin, info.Role)
	require.Len(t, repo.created, 1)
	assert.True(t, repo.created[0].Active)
}

func TestAuthRegisterRejectsDuplicateEmail(t *testing.T) {
	svc, _ := newAuthFixture(t)

	_, err := svc.Register(context.Background(), models.RegisterRequest{
		FirstName: "Grace", LastName: "Hopper", Username: "ghopper2",
		Email: "grace@example.com", Password: "s3cret1", Role: "admin",
	}, models.RoleAdmin)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrConflict.Code, appErrors.FromError(err).Code)
}

func TestAuthRegisterUnknownRole(t *testing.T) {
	svc, _ := newAuthFixture(t)

	_, err := svc.Register(context.Background(), models.RegisterRequest{
		FirstName: "Alan", LastName: "Turing", Username: "aturing",
		Email: "alan@example.com", Password: "enigma1", Role: "superuser",
	}, models.RoleAdmin)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

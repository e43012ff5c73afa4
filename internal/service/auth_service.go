package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/campustransit/transit-api/internal/models"
	appErrors "github.com/campustransit/transit-api/pkg/errors"
)

type authUserRepository interface {
	FindByEmail(ctx context.Context, email string) (models.User, error)
	FindByID(ctx context.Context, id string) (models.User, error)
	ExistsByEmailOrUsername(ctx context.Context, email, username string) (bool, error)
	CountByRole(ctx context.Context, role models.UserRole) (int, error)
	Create(ctx context.Context, user models.User) error
	TouchLastLogin(ctx context.Context, id string, at time.Time) error
	ListRoles(ctx context.Context) ([]models.Role, error)
	SaveToken(ctx context.Context, token models.UserToken) error
	TokenActive(ctx context.Context, token string, now time.Time) (bool, error)
	RevokeToken(ctx context.Context, token string) error
}

// AuthConfig defines configuration for authentication flows.
type AuthConfig struct {
	TokenSecret string
	TokenExpiry time.Duration
	Issuer      string
	BcryptCost  int
}

// AuthService provides sign-in, sign-out and account provisioning. The
// role directory is loaded once at startup and read concurrently after
// that; it never mutates during request handling.
type AuthService struct {
	repo      authUserRepository
	validator *validator.Validate
	logger    *zap.Logger
	now       func() time.Time
	config    AuthConfig

	rolesOnce sync.Once
	rolesByID map[string]models.Role
	roles     map[models.UserRole]models.Role
}

// NewAuthService constructs an AuthService instance.
func NewAuthService(repo authUserRepository, validate *validator.Validate, logger *zap.Logger, config AuthConfig) *AuthService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	if config.TokenExpiry <= 0 {
		config.TokenExpiry = 24 * time.Hour
	}
	if config.BcryptCost <= 0 {
		config.BcryptCost = bcrypt.DefaultCost
	}
	return &AuthService{
		repo:      repo,
		validator: validate,
		logger:    logger,
		now:       time.Now,
		config:    config,
		rolesByID: map[string]models.Role{},
		roles:     map[models.UserRole]models.Role{},
	}
}

// LoadRoles reads the role directory into memory. Call it once during
// startup, before the router accepts traffic.
func (s *AuthService) LoadRoles(ctx context.Context) error {
	roles, err := s.repo.ListRoles(ctx)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load roles")
	}
	if len(roles) == 0 {
		return appErrors.Clone(appErrors.ErrInternal, "roles table is empty; seed it before starting the API")
	}
	byID := make(map[string]models.Role, len(roles))
	byName := make(map[models.UserRole]models.Role, len(roles))
	for _, role := range roles {
		byID[role.ID] = role
		byName[models.UserRole(role.RoleName)] = role
	}
	s.rolesOnce.Do(func() {
		s.rolesByID = byID
		s.roles = byName
	})
	return nil
}

// Roles returns the loaded role directory.
func (s *AuthService) Roles() []models.Role {
	roles := make([]models.Role, 0, len(s.rolesByID))
	for _, role := range s.rolesByID {
		roles = append(roles, role)
	}
	return roles
}

// Login authenticates a user and returns an issued token. Unknown emails
// and wrong passwords produce the same error so the endpoint does not
// reveal which accounts exist.
func (s *AuthService) Login(ctx context.Context, req models.LoginRequest) (*models.LoginResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid login payload")
	}

	user, err := s.repo.FindByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, appErrors.ErrNotFound) {
			return nil, appErrors.Clone(appErrors.ErrInvalidCredentials, "invalid email or password")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to fetch user")
	}
	if !user.Active {
		return nil, appErrors.Clone(appErrors.ErrInactiveAccount, "account is inactive")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, appErrors.Clone(appErrors.ErrInvalidCredentials, "invalid email or password")
	}

	now := s.now().UTC()
	expiresAt := now.Add(s.config.TokenExpiry)
	token, err := s.generateToken(user, now, expiresAt)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to sign token")
	}

	if err := s.repo.SaveToken(ctx, models.UserToken{
		ID:        uuid.NewString(),
		UserID:    user.ID,
		Token:     token,
		Active:    true,
		ExpiresAt: expiresAt,
		CreatedAt: now,
	}); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to persist token")
	}

	if err := s.repo.TouchLastLogin(ctx, user.ID, now); err != nil {
		s.logger.Warn("failed to update last login", zap.String("user_id", user.ID), zap.Error(err))
	}

	return &models.LoginResponse{
		Token:     token,
		ExpiresIn: int64(s.config.TokenExpiry.Seconds()),
		IssuedAt:  now,
		User: models.UserInfo{
			ID:       user.ID,
			Username: user.Username,
			Email:    user.Email,
			Role:     user.RoleName,
		},
	}, nil
}

// Logout revokes the presented token server side.
func (s *AuthService) Logout(ctx context.Context, token string) error {
	if token == "" {
		return appErrors.Clone(appErrors.ErrValidation, "token is required")
	}
	if err := s.repo.RevokeToken(ctx, token); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to revoke token")
	}
	return nil
}

// Register provisions an account. The first admin may be created without
// an authenticated caller; after that only admins may register users.
func (s *AuthService) Register(ctx context.Context, req models.RegisterRequest, actorRole models.UserRole) (*models.UserInfo, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid registration payload")
	}

	role, ok := s.roles[models.UserRole(req.Role)]
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrValidation, "unknown role: "+req.Role)
	}

	if actorRole != models.RoleAdmin {
		adminCount, err := s.repo.CountByRole(ctx, models.RoleAdmin)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to count admins")
		}
		if adminCount > 0 || models.UserRole(req.Role) != models.RoleAdmin {
			return nil, appErrors.Clone(appErrors.ErrForbidden, "only admins can register accounts")
		}
	}

	taken, err := s.repo.ExistsByEmailOrUsername(ctx, req.Email, req.Username)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check identifiers")
	}
	if taken {
		return nil, appErrors.Clone(appErrors.ErrConflict, "email or username already registered")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.config.BcryptCost)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to hash password")
	}

	user := models.User{
		ID:           uuid.NewString(),
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: string(hash),
		RoleID:       role.ID,
		RoleName:     models.UserRole(role.RoleName),
		Active:       true,
	}
	if err := s.repo.Create(ctx, user); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create user")
	}

	s.logger.Info("user registered",
		zap.String("user_id", user.ID),
		zap.String("role", string(user.RoleName)),
	)
	return &models.UserInfo{ID: user.ID, Username: user.Username, Email: user.Email, Role: user.RoleName}, nil
}

// Authenticate parses and verifies a bearer token, checking the server
// side revocation record as well as the signature and expiry.
func (s *AuthService) Authenticate(ctx context.Context, token string) (*models.JWTClaims, error) {
	claims := &models.JWTClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return []byte(s.config.TokenSecret), nil
	})
	if err != nil || !parsed.Valid {
		return nil, appErrors.Clone(appErrors.ErrUnauthorized, "invalid or expired token")
	}

	active, err := s.repo.TokenActive(ctx, token, s.now().UTC())
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check token")
	}
	if !active {
		return nil, appErrors.Clone(appErrors.ErrUnauthorized, "token has been revoked")
	}
	return claims, nil
}

// Profile returns the account behind a set of verified claims.
func (s *AuthService) Profile(ctx context.Context, userID string) (*models.UserInfo, error) {
	user, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, appErrors.ErrNotFound) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "user not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to fetch user")
	}
	return &models.UserInfo{ID: user.ID, Username: user.Username, Email: user.Email, Role: user.RoleName}, nil
}

func (s *AuthService) generateToken(user models.User, issuedAt, expiresAt time.Time) (string, error) {
	claims := models.JWTClaims{
		UserID: user.ID,
		Role:   user.RoleName,
		Email:  user.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    s.config.Issuer,
			Subject:   user.ID,
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			ID:        uuid.NewString(),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.config.TokenSecret))
}

package identity

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/shopmetrics/backend/internal/domain/identity"
	"github.com/shopmetrics/backend/internal/domain/shared"
	"github.com/shopmetrics/backend/internal/infrastructure/auth"
)

// ErrInvalidCredentials is returned for both unknown emails and wrong
// passwords so a caller cannot probe which accounts exist.
var ErrInvalidCredentials = shared.NewDomainError("INVALID_CREDENTIALS", "Invalid email or password")

// ErrUserInactive is returned when the account exists but has been disabled
var ErrUserInactive = shared.NewDomainError("USER_INACTIVE", "User account is disabled")

// AuthService handles dashboard authentication
type AuthService struct {
	users  identity.UserRepository
	jwt    *auth.JWTService
	logger *zap.Logger
}

// AuthOption configures an AuthService
type AuthOption func(*AuthService)

// WithAuthLogger sets the logger for the auth service
func WithAuthLogger(logger *zap.Logger) AuthOption {
	return func(s *AuthService) {
		s.logger = logger
	}
}

// NewAuthService creates a new authentication service
func NewAuthService(users identity.UserRepository, jwt *auth.JWTService, opts ...AuthOption) *AuthService {
	s := &AuthService{
		users:  users,
		jwt:    jwt,
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Login authenticates a user and issues a session token
func (s *AuthService) Login(ctx context.Context, req LoginRequest) (*LoginResponse, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		s.logger.Debug("login failed: user lookup", zap.String("email", email), zap.Error(err))
		return nil, ErrInvalidCredentials
	}
	if !user.CheckPassword(req.Password) {
		s.logger.Debug("login failed: password mismatch", zap.String("user_id", user.ID.String()))
		return nil, ErrInvalidCredentials
	}
	if !user.Active {
		return nil, ErrUserInactive
	}

	token, err := s.jwt.GenerateToken(auth.GenerateTokenInput{
		TenantID: user.TenantID,
		UserID:   user.ID,
		Email:    user.Email,
		Role:     string(user.Role),
	})
	if err != nil {
		s.logger.Error("failed to issue token", zap.String("user_id", user.ID.String()), zap.Error(err))
		return nil, err
	}

	s.logger.Info("user logged in",
		zap.String("user_id", user.ID.String()),
		zap.String("tenant_id", user.TenantID.String()),
	)

	return &LoginResponse{
		Token: *token,
		User:  toUserResponse(user),
	}, nil
}

// GetCurrentUser returns the profile of an authenticated user
func (s *AuthService) GetCurrentUser(ctx context.Context, userID uuid.UUID) (*UserResponse, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	resp := toUserResponse(user)
	return &resp, nil
}

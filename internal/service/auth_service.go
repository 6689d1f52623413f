package service

import (
	"context"
	"errors"

	"golang.org/x/crypto/bcrypt"

	"github.com/omsherikar/rgipt-student-portal/internal/audit"
	"github.com/omsherikar/rgipt-student-portal/internal/domain"
	"github.com/omsherikar/rgipt-student-portal/internal/repository"
	"github.com/omsherikar/rgipt-student-portal/pkg/jwt"
	"github.com/omsherikar/rgipt-student-portal/pkg/log"
)

var ErrInvalidCredentials = errors.New("invalid credentials")

type authService struct {
	users  repository.UserRepository
	tokens *jwt.Manager
}

func NewAuthService(users repository.UserRepository, tokens *jwt.Manager) AuthService {
	return &authService{
		users:  users,
		tokens: tokens,
	}
}

func (s *authService) Login(ctx context.Context, req *domain.LoginRequest) (*domain.AuthResponse, error) {
	l := log.Ctx(ctx)

	user, err := s.users.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			audit.Log(ctx, audit.ActionLoginFailed, "", "login failed: unknown email")
			return nil, ErrInvalidCredentials
		}
		l.Error().Err(err).Msg("failed to get user by email")
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		audit.Log(ctx, audit.ActionLoginFailed, user.ID, "login failed: wrong password")
		return nil, ErrInvalidCredentials
	}

	access, refresh, accessExp, _, err := s.tokens.GenerateTokenPair(user.ID, user.Email, user.Role)
	if err != nil {
		l.Error().Err(err).Str(log.FieldUserID, user.ID).Msg("failed to generate tokens")
		return nil, err
	}

	audit.Log(ctx, audit.ActionLogin, user.ID, "user logged in")

	return &domain.AuthResponse{
		User:         user.Summary(),
		AccessToken:  access,
		RefreshToken: refresh,
		ExpiresAt:    accessExp,
	}, nil
}

func (s *authService) Refresh(ctx context.Context, refreshToken string) (*domain.AuthResponse, error) {
	claims, err := s.tokens.ValidateToken(refreshToken)
	if err != nil {
		return nil, err
	}
	if claims.Type != "refresh" {
		return nil, jwt.ErrInvalidToken
	}

	user, err := s.users.GetByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, jwt.ErrInvalidToken
		}
		return nil, err
	}

	access, refresh, accessExp, _, err := s.tokens.GenerateTokenPair(user.ID, user.Email, user.Role)
	if err != nil {
		return nil, err
	}

	audit.Log(ctx, audit.ActionRefreshToken, user.ID, "tokens refreshed")

	return &domain.AuthResponse{
		User:         user.Summary(),
		AccessToken:  access,
		RefreshToken: refresh,
		ExpiresAt:    accessExp,
	}, nil
}

func (s *authService) Logout(ctx context.Context, userID string) {
	s.tokens.RevokeUserTokens(userID)
	audit.Log(ctx, audit.ActionLogout, userID, "user logged out")
}

func (s *authService) GetProfile(ctx context.Context, userID string) (*domain.UserSummary, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return user.Summary(), nil
}

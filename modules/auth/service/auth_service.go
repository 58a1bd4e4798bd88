package service

import (
	"context"
	"strings"
	"time"

	"interviewhub/core/cache"
	"interviewhub/core/constants"
	"interviewhub/core/errors"
	"interviewhub/core/logger"
	"interviewhub/core/params"
	"interviewhub/core/utils"
	"interviewhub/modules/auth/dto"
	"interviewhub/modules/auth/entity"
	"interviewhub/modules/auth/repository"

	"github.com/google/uuid"
)

// AuthService handles registration, login and token lifecycle.
type AuthService struct {
	repo  repository.AuthRepositoryInterface
	cache cache.Cache
}

type AuthServiceInterface interface {
	Register(ctx context.Context, req *dto.RegisterRequest) (*dto.AuthResponse, *errors.AppError)
	Login(ctx context.Context, req *dto.LoginRequest) (*dto.AuthResponse, *errors.AppError)
	Logout(ctx context.Context, token string) *errors.AppError
	Refresh(ctx context.Context, refreshToken string) (*dto.AuthResponse, *errors.AppError)
	Me(ctx context.Context, userID uuid.UUID) (*dto.UserResponse, *errors.AppError)
	ListInterviewers(ctx context.Context, p params.QueryParams) (*entity.PaginatedUserEntity, *errors.AppError)
	IsTokenBlacklisted(ctx context.Context, token string) (bool, error)
}

func NewAuthService(repo repository.AuthRepositoryInterface, cache cache.Cache) AuthServiceInterface {
	return &AuthService{repo: repo, cache: cache}
}

func (s *AuthService) Register(ctx context.Context, req *dto.RegisterRequest) (*dto.AuthResponse, *errors.AppError) {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if email == "" || req.Password == "" || req.FullName == "" {
		return nil, errors.NewAppError(errors.ErrInvalidInput, "Email, password and full name are required", nil)
	}

	role := req.Role
	if role == "" {
		role = constants.RoleCandidate
	}
	if role != constants.RoleCandidate && role != constants.RoleInterviewer {
		return nil, errors.NewAppError(errors.ErrInvalidInput, "Role must be CANDIDATE or INTERVIEWER", nil)
	}

	existing, err := s.repo.GetUserByEmail(ctx, email)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to check existing user", err)
	}
	if existing != nil {
		return nil, errors.NewAppError(errors.ErrAlreadyExists, "An account with this email already exists", nil)
	}

	hash, err := utils.HashPassword(req.Password)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to hash password", err)
	}

	user, err := s.repo.CreateUser(ctx, &entity.User{
		Email:        email,
		PasswordHash: hash,
		FullName:     req.FullName,
		Role:         role,
	})
	if err != nil {
		return nil, errors.NewAppError(errors.ErrCreateFailed, "Failed to create user", err)
	}

	return s.issueTokens(user)
}

func (s *AuthService) Login(ctx context.Context, req *dto.LoginRequest) (*dto.AuthResponse, *errors.AppError) {
	email := strings.ToLower(strings.TrimSpace(req.Email))

	attempts, err := s.cache.IncrementLoginAttempt(ctx, email)
	if err != nil {
		logger.Error("AuthService:Login:IncrementLoginAttempt", err)
	} else if attempts > constants.MaxLoginAttempts {
		return nil, errors.NewAppError(errors.ErrTooManyLoginAttempts,
			"Too many failed login attempts, try again later", nil)
	}

	user, err := s.repo.GetUserByEmail(ctx, email)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to load user", err)
	}
	if user == nil || !utils.ComparePassword(user.PasswordHash, req.Password) {
		return nil, errors.NewAppError(errors.ErrUnauthorized, "Invalid email or password", nil)
	}

	if err := s.cache.ResetLoginAttempts(ctx, email); err != nil {
		logger.Error("AuthService:Login:ResetLoginAttempts", err)
	}
	if err := s.repo.TouchLastLogin(ctx, user.ID); err != nil {
		logger.Error("AuthService:Login:TouchLastLogin", err)
	}

	return s.issueTokens(user)
}

// Logout blacklists the access token for its remaining lifetime.
func (s *AuthService) Logout(ctx context.Context, token string) *errors.AppError {
	claims, err := utils.ValidateAndParseToken(token)
	if err != nil {
		return errors.NewAppError(errors.ErrUnauthorized, "Invalid token", err)
	}

	ttl := time.Until(claims.ExpiresAt.Time)
	if ttl <= 0 {
		return nil
	}

	if err := s.cache.AddToTokenBlacklist(ctx, token, ttl); err != nil {
		return errors.NewAppError(errors.ErrInternalServer, "Failed to revoke token", err)
	}
	return nil
}

// Refresh exchanges a valid refresh token for a fresh token pair.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*dto.AuthResponse, *errors.AppError) {
	blacklisted, err := s.cache.IsTokenBlacklisted(ctx, refreshToken)
	if err == nil && blacklisted {
		return nil, errors.NewAppError(errors.ErrUnauthorized, "Token has been revoked", nil)
	}

	claims, err := utils.ValidateAndParseToken(refreshToken)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrUnauthorized, "Invalid refresh token", err)
	}
	if claims.Scope != constants.ScopeTokenRefresh {
		return nil, errors.NewAppError(errors.ErrInvalidTokenFormat, "Not a refresh token", nil)
	}

	user, err := s.repo.GetUserByID(ctx, claims.UserID)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to load user", err)
	}
	if user == nil {
		return nil, errors.NewAppError(errors.ErrUnauthorized, "Account no longer exists", nil)
	}

	return s.issueTokens(user)
}

func (s *AuthService) Me(ctx context.Context, userID uuid.UUID) (*dto.UserResponse, *errors.AppError) {
	user, err := s.repo.GetUserByID(ctx, userID)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to load user", err)
	}
	if user == nil {
		return nil, errors.NewAppError(errors.ErrNotFound, "User not found", nil)
	}
	return dto.ToUserResponse(user), nil
}

// ListInterviewers backs the admin's assignment picker.
func (s *AuthService) ListInterviewers(ctx context.Context, p params.QueryParams) (*entity.PaginatedUserEntity, *errors.AppError) {
	page, err := s.repo.ListUsersByRole(ctx, constants.RoleInterviewer, p)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to list interviewers", err)
	}
	return page, nil
}

func (s *AuthService) IsTokenBlacklisted(ctx context.Context, token string) (bool, error) {
	return s.cache.IsTokenBlacklisted(ctx, token)
}

func (s *AuthService) issueTokens(user *entity.User) (*dto.AuthResponse, *errors.AppError) {
	accessToken, err := utils.GenerateToken(user.ID, user.Role, constants.ScopeTokenAccess)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to issue access token", err)
	}
	refreshToken, err := utils.GenerateToken(user.ID, user.Role, constants.ScopeTokenRefresh)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to issue refresh token", err)
	}

	return &dto.AuthResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		User:         *dto.ToUserResponse(user),
	}, nil
}

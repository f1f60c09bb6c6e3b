package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/yigit/uniattend/internal/app/models"
	"github.com/yigit/uniattend/internal/app/models/dto"
	"github.com/yigit/uniattend/internal/app/repositories"
	"github.com/yigit/uniattend/internal/pkg/apperrors"
	"github.com/yigit/uniattend/internal/pkg/auth"
	"github.com/yigit/uniattend/internal/pkg/logger"
)

// AuthService handles registration, login and the caller's own profile
type AuthService struct {
	users    UserStore
	tokens   TokenIssuer
	accounts *accountCreator
	check    func(hash, password string) bool
}

// NewAuthService creates a new AuthService
func NewAuthService(users UserStore, tokens TokenIssuer) *AuthService {
	return &AuthService{
		users:    users,
		tokens:   tokens,
		accounts: newAccountCreator(users),
		check:    auth.CheckPassword,
	}
}

// Register creates an account and signs a token for it
func (s *AuthService) Register(ctx context.Context, req *dto.RegisterRequest) (*dto.AuthResponse, error) {
	user, err := s.accounts.create(ctx, req)
	if err != nil {
		return nil, err
	}
	return s.issue(user)
}

// Login verifies credentials. The requested user type must match the stored role.
func (s *AuthService) Login(ctx context.Context, req *dto.LoginRequest) (*dto.AuthResponse, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, apperrors.ErrResourceNotFound) {
			logger.Warn().Str("email", email).Msg("Login attempt for unknown email")
			return nil, apperrors.NewUnauthorizedError("Invalid credentials")
		}
		return nil, err
	}

	if user.Role != req.UserType {
		return nil, apperrors.NewUnauthorizedError("Invalid user type for this account")
	}

	if !s.check(user.Password, req.Password) {
		logger.Warn().Int64("userID", user.ID).Msg("Login attempt with wrong password")
		return nil, apperrors.NewUnauthorizedError("Invalid credentials")
	}

	logger.Info().Int64("userID", user.ID).Msg("User logged in")
	return s.issue(user)
}

func (s *AuthService) issue(user *models.User) (*dto.AuthResponse, error) {
	token, err := s.tokens.GenerateToken(user)
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}
	return &dto.AuthResponse{User: dto.NewUserResponse(user), Token: token}, nil
}

// Profile returns the caller's account
func (s *AuthService) Profile(ctx context.Context, userID int64) (*models.User, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, lookupErr(err, "User not found", "user", userID)
	}
	return user, nil
}

// UpdateProfile changes the caller's first and last name
func (s *AuthService) UpdateProfile(ctx context.Context, userID int64, req *dto.UpdateProfileRequest) (*models.User, error) {
	changes := repositories.UserChanges{
		FirstName: trimmed(req.FirstName),
		LastName:  trimmed(req.LastName),
	}

	user, err := s.users.Update(ctx, userID, changes)
	if err != nil {
		return nil, lookupErr(err, "User not found", "user", userID)
	}
	return user, nil
}

// ChangePassword replaces the caller's password after re-checking the current one
func (s *AuthService) ChangePassword(ctx context.Context, userID int64, req *dto.ChangePasswordRequest) error {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return lookupErr(err, "User not found", "user", userID)
	}

	if !s.check(user.Password, req.CurrentPassword) {
		return apperrors.NewBadRequestError("Current password is incorrect")
	}

	hash, err := s.accounts.hash(req.NewPassword)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	if err := s.users.UpdatePassword(ctx, userID, hash); err != nil {
		return lookupErr(err, "User not found", "user", userID)
	}

	logger.Info().Int64("userID", userID).Msg("Password changed")
	return nil
}

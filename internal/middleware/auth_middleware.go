package middleware

import (
	"context"
	"errors"

	"github.com/gin-gonic/gin"

	authz "github.com/yigit/uniattend/internal/app/auth"
	"github.com/yigit/uniattend/internal/app/models"
	"github.com/yigit/uniattend/internal/pkg/apperrors"
	"github.com/yigit/uniattend/internal/pkg/auth"
	"github.com/yigit/uniattend/internal/pkg/logger"
)

const identityKey = "identity"

// TokenValidator verifies access tokens
type TokenValidator interface {
	ValidateToken(token string) (*auth.Claims, error)
}

// UserLookup loads the account behind a token
type UserLookup interface {
	GetByID(ctx context.Context, id int64) (*models.User, error)
}

// AuthMiddleware authenticates requests with bearer tokens
type AuthMiddleware struct {
	tokens TokenValidator
	users  UserLookup
}

// NewAuthMiddleware creates a new AuthMiddleware
func NewAuthMiddleware(tokens TokenValidator, users UserLookup) *AuthMiddleware {
	return &AuthMiddleware{tokens: tokens, users: users}
}

// Authenticate resolves the caller from the Authorization header. The role
// is read from the stored account so role changes apply to existing tokens.
func (m *AuthMiddleware) Authenticate(c *gin.Context) error {
	header := c.GetHeader("Authorization")
	if header == "" {
		return apperrors.NewUnauthorizedError("Access denied. No token provided.")
	}

	token, err := auth.ExtractBearerToken(header)
	if err != nil {
		return apperrors.NewUnauthorizedError("Access denied. No token provided.")
	}

	claims, err := m.tokens.ValidateToken(token)
	if err != nil {
		if errors.Is(err, auth.ErrExpiredToken) {
			return apperrors.NewCustomError(apperrors.ErrTokenExpired, "Token expired")
		}
		logger.Debug().Err(err).Msg("Rejected access token")
		return apperrors.NewCustomError(apperrors.ErrTokenInvalid, "Invalid token.")
	}

	user, err := m.users.GetByID(c.Request.Context(), claims.UserID)
	if err != nil {
		if errors.Is(err, apperrors.ErrResourceNotFound) {
			return apperrors.NewUnauthorizedError("Invalid token. User not found.")
		}
		return err
	}

	c.Set(identityKey, authz.Identity{ID: user.ID, Email: user.Email, Role: user.Role})
	return nil
}

// Authorize admits callers whose role is in set. It must run after Authenticate.
func Authorize(set authz.RoleSet) Guard {
	return func(c *gin.Context) error {
		who, ok := CurrentIdentity(c)
		if !ok {
			return apperrors.NewUnauthorizedError("Access denied. User not authenticated.")
		}
		if !set.Permits(who.Role) {
			return apperrors.NewForbiddenError("Access denied. Insufficient permissions.")
		}
		return nil
	}
}

// CurrentIdentity returns the caller stored by Authenticate
func CurrentIdentity(c *gin.Context) (authz.Identity, bool) {
	v, exists := c.Get(identityKey)
	if !exists {
		return authz.Identity{}, false
	}
	who, ok := v.(authz.Identity)
	return who, ok
}

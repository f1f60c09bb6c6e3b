package middleware

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yigit/uniattend/internal/app/models/dto"
	"github.com/yigit/uniattend/internal/pkg/apperrors"
	"github.com/yigit/uniattend/internal/pkg/auth"
	"github.com/yigit/uniattend/internal/pkg/dberrors"
	"github.com/yigit/uniattend/internal/pkg/logger"
	"github.com/yigit/uniattend/internal/pkg/validation"
)

// HandleAPIError writes err as an error envelope with the matching status and aborts
func HandleAPIError(c *gin.Context, err error) {
	err = dberrors.Translate(err)
	status := statusOf(err)

	message, ok := apperrors.Message(err)
	if !ok {
		message = defaultMessage(status, err)
	}

	resp := dto.NewErrorResponse(message)
	if status == http.StatusInternalServerError {
		logger.Error().Err(err).
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Msg("Unhandled error")
		if gin.IsDebugging() {
			resp.Debug = err.Error()
		}
	}

	c.AbortWithStatusJSON(status, resp)
}

func statusOf(err error) int {
	switch {
	case errors.Is(err, apperrors.ErrResourceNotFound):
		return http.StatusNotFound
	case apperrors.Is(err, apperrors.ErrValidationFailed, apperrors.ErrBadRequest, apperrors.ErrConflict):
		// uniqueness violations are reported as bad requests
		return http.StatusBadRequest
	case apperrors.Is(err, apperrors.ErrUnauthorized,
		apperrors.ErrInvalidCredentials,
		apperrors.ErrTokenExpired,
		apperrors.ErrTokenInvalid,
		auth.ErrInvalidToken,
		auth.ErrExpiredToken,
		auth.ErrInvalidFormat):
		return http.StatusUnauthorized
	case errors.Is(err, apperrors.ErrPermissionDenied):
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}

func defaultMessage(status int, err error) string {
	switch status {
	case http.StatusNotFound:
		return "Resource not found"
	case http.StatusBadRequest:
		return "Bad request"
	case http.StatusUnauthorized:
		if apperrors.Is(err, apperrors.ErrTokenExpired, auth.ErrExpiredToken) {
			return "Token expired"
		}
		return "Invalid token"
	case http.StatusForbidden:
		return "Access denied"
	default:
		return "Internal Server Error"
	}
}

// BindJSON binds the request body into obj, writing a 400 and returning false on failure
func BindJSON(c *gin.Context, obj interface{}) bool {
	if err := c.ShouldBindJSON(obj); err != nil {
		HandleAPIError(c, apperrors.NewCustomError(apperrors.ErrValidationFailed, validation.Message(err)))
		return false
	}
	return true
}

// NotFound answers requests that matched no route
func NotFound(c *gin.Context) {
	c.JSON(http.StatusNotFound, dto.NewErrorResponse("Not Found - "+c.Request.URL.Path))
}

// Recovery converts panics into a 500 envelope
func Recovery() gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered interface{}) {
		HandleAPIError(c, fmt.Errorf("panic: %v", recovered))
	})
}

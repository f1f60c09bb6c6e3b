// Package controllers handles HTTP request handling
package controllers

import (
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	authz "github.com/yigit/uniattend/internal/app/auth"
	"github.com/yigit/uniattend/internal/app/models"
	"github.com/yigit/uniattend/internal/app/repositories"
	"github.com/yigit/uniattend/internal/middleware"
	"github.com/yigit/uniattend/internal/pkg/apperrors"
	"github.com/yigit/uniattend/internal/pkg/helpers"
)

// pathID parses a positive integer path parameter, writing a 400 on failure
func pathID(ctx *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(ctx.Param(name), 10, 64)
	if err != nil || id < 1 {
		middleware.HandleAPIError(ctx, apperrors.NewValidationError(name, "Invalid "+name+" parameter"))
		return 0, false
	}
	return id, true
}

// queryInt64 returns the optional integer query parameter key
func queryInt64(ctx *gin.Context, key string) (*int64, error) {
	raw := strings.TrimSpace(ctx.Query(key))
	if raw == "" {
		return nil, nil
	}
	n, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || n < 1 {
		return nil, apperrors.NewValidationError(key, key+" must be a positive integer")
	}
	return &n, nil
}

// queryString returns the optional non-blank query parameter key
func queryString(ctx *gin.Context, key string) *string {
	raw := strings.TrimSpace(ctx.Query(key))
	if raw == "" {
		return nil
	}
	return &raw
}

// pageParams reads page/limit, writing a 400 when they are out of range
func pageParams(ctx *gin.Context) (helpers.PageParams, bool) {
	p, err := helpers.ParsePaginationParams(ctx)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return helpers.PageParams{}, false
	}
	return p, true
}

// caller returns the authenticated identity, writing a 401 when absent
func caller(ctx *gin.Context) (authz.Identity, bool) {
	who, ok := middleware.CurrentIdentity(ctx)
	if !ok {
		middleware.HandleAPIError(ctx, apperrors.NewUnauthorizedError("Access denied. User not authenticated."))
	}
	return who, ok
}

// queryDate returns the optional YYYY-MM-DD query parameter key
func queryDate(ctx *gin.Context, key string) (*time.Time, error) {
	raw := strings.TrimSpace(ctx.Query(key))
	if raw == "" {
		return nil, nil
	}
	d, err := helpers.ParseDate(raw)
	if err != nil {
		return nil, apperrors.NewValidationError(key, key+" must be a date in YYYY-MM-DD format")
	}
	return &d, nil
}

// lessonFilter reads the sectionId, status, from and to parameters shared by lesson listings
func lessonFilter(ctx *gin.Context) (repositories.LessonFilter, error) {
	var (
		filter repositories.LessonFilter
		err    error
	)
	if filter.SectionID, err = queryInt64(ctx, "sectionId"); err != nil {
		return filter, err
	}
	if raw := queryString(ctx, "status"); raw != nil {
		status := models.LessonStatus(*raw)
		if !status.Valid() {
			return filter, apperrors.NewValidationError("status", "status must be one of scheduled, completed, cancelled")
		}
		filter.Status = &status
	}
	if filter.From, err = queryDate(ctx, "from"); err != nil {
		return filter, err
	}
	if filter.To, err = queryDate(ctx, "to"); err != nil {
		return filter, err
	}
	return filter, nil
}

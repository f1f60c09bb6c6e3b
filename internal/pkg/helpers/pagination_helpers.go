package helpers

import (
	"math"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/yigit/uniattend/internal/app/models/dto"
	"github.com/yigit/uniattend/internal/pkg/apperrors"
)

const (
	DefaultPageSize = 10
	MaxPageSize     = 100
	DefaultPage     = 1
)

// PageParams is a validated 1-based page request
type PageParams struct {
	Page  int
	Limit int
}

// Offset returns the number of rows to skip
func (p PageParams) Offset() uint64 {
	return uint64((p.Page - 1) * p.Limit)
}

// NewPageParams validates page and limit, falling back to defaults for zero values
func NewPageParams(page, limit int) (PageParams, error) {
	if page == 0 {
		page = DefaultPage
	}
	if limit == 0 {
		limit = DefaultPageSize
	}
	if page < 1 {
		return PageParams{}, apperrors.NewBadRequestError("Page must be a positive integer")
	}
	if limit < 1 || limit > MaxPageSize {
		return PageParams{}, apperrors.NewBadRequestError("Limit must be between 1 and 100")
	}
	return PageParams{Page: page, Limit: limit}, nil
}

// ParsePaginationParams extracts page/limit query parameters
func ParsePaginationParams(c *gin.Context) (PageParams, error) {
	page, err := queryInt(c, "page")
	if err != nil {
		return PageParams{}, apperrors.NewBadRequestError("Page must be a positive integer")
	}
	limit, err := queryInt(c, "limit")
	if err != nil {
		return PageParams{}, apperrors.NewBadRequestError("Limit must be between 1 and 100")
	}
	return NewPageParams(page, limit)
}

func queryInt(c *gin.Context, key string) (int, error) {
	raw, ok := c.GetQuery(key)
	if !ok || raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, err
	}
	if n == 0 {
		// explicit zero is out of range, not "use the default"
		return -1, nil
	}
	return n, nil
}

// NewPaginationInfo creates the pagination block of list responses
func NewPaginationInfo(total int64, p PageParams) dto.PaginationInfo {
	totalPages := 0
	if total > 0 {
		totalPages = int(math.Ceil(float64(total) / float64(p.Limit)))
	}

	return dto.PaginationInfo{
		Page:       p.Page,
		Limit:      p.Limit,
		Total:      total,
		TotalPages: totalPages,
		HasNext:    p.Page < totalPages,
		HasPrev:    p.Page > 1,
	}
}

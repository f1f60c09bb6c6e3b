package helpers

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yigit/uniattend/internal/app/models/dto"
	"github.com/yigit/uniattend/internal/pkg/apperrors"
)

func TestNewPaginationInfo(t *testing.T) {
	tests := []struct {
		name  string
		total int64
		page  PageParams
		want  dto.PaginationInfo
	}{
		{
			name:  "first of two pages",
			total: 15,
			page:  PageParams{Page: 1, Limit: 10},
			want:  dto.PaginationInfo{Page: 1, Limit: 10, Total: 15, TotalPages: 2, HasNext: true, HasPrev: false},
		},
		{
			name:  "short last page",
			total: 15,
			page:  PageParams{Page: 2, Limit: 10},
			want:  dto.PaginationInfo{Page: 2, Limit: 10, Total: 15, TotalPages: 2, HasNext: false, HasPrev: true},
		},
		{
			name:  "exact fit",
			total: 20,
			page:  PageParams{Page: 2, Limit: 10},
			want:  dto.PaginationInfo{Page: 2, Limit: 10, Total: 20, TotalPages: 2, HasNext: false, HasPrev: true},
		},
		{
			name:  "empty result",
			total: 0,
			page:  PageParams{Page: 1, Limit: 10},
			want:  dto.PaginationInfo{Page: 1, Limit: 10, Total: 0, TotalPages: 0, HasNext: false, HasPrev: false},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NewPaginationInfo(tt.total, tt.page))
		})
	}
}

func TestNewPageParamsDefaultsAndBounds(t *testing.T) {
	p, err := NewPageParams(0, 0)
	require.NoError(t, err)
	assert.Equal(t, PageParams{Page: DefaultPage, Limit: DefaultPageSize}, p)
	assert.Equal(t, uint64(0), p.Offset())

	p, err = NewPageParams(3, 25)
	require.NoError(t, err)
	assert.Equal(t, uint64(50), p.Offset())

	_, err = NewPageParams(-1, 10)
	assert.ErrorIs(t, err, apperrors.ErrBadRequest)

	_, err = NewPageParams(1, MaxPageSize+1)
	assert.ErrorIs(t, err, apperrors.ErrBadRequest)
}

package pagination_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/marcos-nsantos/presence-socket/internal/pkg/pagination"
)

func TestNewParams(t *testing.T) {
	tests := []struct {
		name            string
		page, perPage   int
		expectedPage    int
		expectedPerPage int
		expectedOffset  int
	}{
		{"defaults", 0, 0, 1, 20, 0},
		{"explicit", 3, 10, 3, 10, 20},
		{"capped", 1, 500, 1, 100, 0},
		{"negative", -2, -5, 1, 20, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := pagination.NewParams(tt.page, tt.perPage)
			assert.Equal(t, tt.expectedPage, p.Page)
			assert.Equal(t, tt.expectedPerPage, p.Limit())
			assert.Equal(t, tt.expectedOffset, p.Offset())
		})
	}
}

func TestNewInfo(t *testing.T) {
	info := pagination.NewInfo(pagination.Params{Page: 2, PerPage: 10}, 25)
	assert.Equal(t, 3, info.TotalPages)
	assert.True(t, info.HasNext)
	assert.True(t, info.HasPrev)

	exact := pagination.NewInfo(pagination.Params{Page: 2, PerPage: 10}, 20)
	assert.Equal(t, 2, exact.TotalPages)
	assert.False(t, exact.HasNext)

	empty := pagination.NewInfo(pagination.Params{Page: 1, PerPage: 20}, 0)
	assert.Equal(t, 1, empty.TotalPages)
	assert.False(t, empty.HasNext)
	assert.False(t, empty.HasPrev)
}

func TestNewInfo_UnnormalizedParams(t *testing.T) {
	var info *pagination.Info
	assert.NotPanics(t, func() {
		info = pagination.NewInfo(pagination.Params{}, 45)
	})

	assert.Equal(t, pagination.DefaultPage, info.Page)
	assert.Equal(t, pagination.DefaultPerPage, info.PerPage)
	assert.Equal(t, 3, info.TotalPages)
}

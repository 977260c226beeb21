package TaskBoard

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPaginate(t *testing.T) {
	tests := []struct {
		name                string
		total, page, limit  int
		wantPage, wantLimit int
		wantOffset, wantMax int
	}{
		{"first page", 120, 1, 50, 1, 50, 0, 3},
		{"offset is (page-1)*limit", 120, 3, 50, 3, 50, 100, 3},
		{"page beyond the end clamps to last", 120, 9, 50, 3, 50, 100, 3},
		{"page below one", 120, -4, 25, 1, 25, 0, 5},
		{"limit outside the allowed set", 120, 2, 33, 2, 25, 25, 5},
		{"empty list", 0, 5, 100, 1, 100, 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := Paginate(tt.total, tt.page, tt.limit, ManageTaskLimits)
			assert.Equal(t, tt.wantPage, p.Page)
			assert.Equal(t, tt.wantLimit, p.Limit)
			assert.Equal(t, tt.wantOffset, p.Offset)
			assert.Equal(t, tt.wantMax, p.TotalPages)
		})
	}
}

func TestPaginateIsDeterministic(t *testing.T) {
	a := Paginate(57, 1000, 20, FMSTaskLimits)
	b := Paginate(57, 1000, 20, FMSTaskLimits)
	assert.Equal(t, a, b)
	assert.Equal(t, 3, a.Page)

	lo, hi := a.Bounds(57)
	assert.Equal(t, 40, lo)
	assert.Equal(t, 57, hi)
}

package matching

import (
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
)

func intsUpTo(n int) []int {
	out := make([]int, n)
	for i := range out {
		out[i] = i + 1
	}
	return out
}

func TestPaginate(t *testing.T) {
	items := intsUpTo(25)

	tests := []struct {
		name      string
		page      int
		wantPage  int
		wantItems []int
		wantNext  bool
		wantPrev  bool
	}{
		{"first", 1, 1, intsUpTo(10), true, false},
		{"middle", 2, 2, []int{11, 12, 13, 14, 15, 16, 17, 18, 19, 20}, true, true},
		{"last", 3, 3, []int{21, 22, 23, 24, 25}, false, true},
		{"past the end clamps to last", 9, 3, []int{21, 22, 23, 24, 25}, false, true},
		{"zero goes to first", 0, 1, intsUpTo(10), true, false},
		{"negative goes to first", -4, 1, intsUpTo(10), true, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := Paginate(slices.Values(items), tt.page, DefaultPageSize)
			assert.Equal(t, tt.wantPage, p.Number)
			assert.Equal(t, tt.wantItems, p.Items)
			assert.Equal(t, 25, p.TotalItems)
			assert.Equal(t, 3, p.TotalPages)
			assert.Equal(t, tt.wantNext, p.HasNext)
			assert.Equal(t, tt.wantPrev, p.HasPrevious)
		})
	}
}

func TestPaginate_Empty(t *testing.T) {
	p := Paginate(slices.Values([]int(nil)), 3, 10)
	assert.Equal(t, 1, p.Number)
	assert.Equal(t, 1, p.TotalPages)
	assert.Empty(t, p.Items)
	assert.NotNil(t, p.Items)
	assert.False(t, p.HasNext)
}

func TestPaginate_DefaultSize(t *testing.T) {
	p := Paginate(slices.Values(intsUpTo(12)), 1, 0)
	assert.Equal(t, DefaultPageSize, p.Size)
	assert.Len(t, p.Items, 10)
}

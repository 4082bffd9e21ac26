package pagination

import (
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFromRequest_Defaults(t *testing.T) {
	req := httptest.NewRequest("GET", "/orders", nil)
	p := FromRequest(req)

	assert.Equal(t, 1, p.Page)
	assert.Equal(t, 20, p.PerPage)
	assert.Equal(t, 0, p.Offset)
}

func TestFromRequest_ExplicitValues(t *testing.T) {
	req := httptest.NewRequest("GET", "/orders?page=3&per_page=50", nil)
	p := FromRequest(req)

	assert.Equal(t, 3, p.Page)
	assert.Equal(t, 50, p.PerPage)
	assert.Equal(t, 100, p.Offset)
}

func TestFromRequest_PerPageCappedAt100(t *testing.T) {
	req := httptest.NewRequest("GET", "/orders?per_page=500", nil)
	p := FromRequest(req)

	assert.Equal(t, 20, p.PerPage, "oversized per_page falls back to the default")
}

func TestFromRequest_IgnoresInvalidValues(t *testing.T) {
	req := httptest.NewRequest("GET", "/orders?page=abc&per_page=-5", nil)
	p := FromRequest(req)

	assert.Equal(t, 1, p.Page)
	assert.Equal(t, 20, p.PerPage)
}

func TestNewResult(t *testing.T) {
	items := []string{"a", "b", "c"}
	result := NewResult(items, 45, Params{Page: 2, PerPage: 20})

	assert.Equal(t, items, result.Data)
	assert.Equal(t, 45, result.TotalCount)
	assert.Equal(t, 2, result.Page)
	assert.Equal(t, 3, result.TotalPages)
	assert.True(t, result.HasNext)
	assert.True(t, result.HasPrev)
}

func TestNewResult_LastPage(t *testing.T) {
	result := NewResult([]int{1}, 41, Params{Page: 3, PerPage: 20})

	assert.Equal(t, 3, result.TotalPages)
	assert.False(t, result.HasNext)
	assert.True(t, result.HasPrev)
}

func TestNewResult_NilDataBecomesEmptySlice(t *testing.T) {
	result := NewResult[int](nil, 0, Params{Page: 1, PerPage: 20})

	assert.NotNil(t, result.Data)
	assert.Empty(t, result.Data)
	assert.Equal(t, 0, result.TotalPages)
	assert.False(t, result.HasNext)
	assert.False(t, result.HasPrev)
}

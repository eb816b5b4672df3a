package listing

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeClampsBounds(t *testing.T) {
	q := Query{Page: 0, PageSize: 0}
	q.Normalize()
	assert.Equal(t, 1, q.Page)
	assert.Equal(t, DefaultPageSize, q.PageSize)

	q = Query{Page: -3, PageSize: 9999}
	q.Normalize()
	assert.Equal(t, 1, q.Page)
	assert.Equal(t, MaxPageSize, q.PageSize)
}

func TestNormalizeTrimsSearch(t *testing.T) {
	q := Query{Page: 1, PageSize: 20, Search: "   gpt-4   "}
	q.Normalize()
	assert.Equal(t, "gpt-4", q.Search)

	q = Query{Page: 1, PageSize: 20, Search: "   "}
	q.Normalize()
	assert.Empty(t, q.Search)
}

func TestOffset(t *testing.T) {
	q := Query{Page: 3, PageSize: 20}
	assert.Equal(t, 40, q.Offset())
}

func TestFilterSkipsEmptyValues(t *testing.T) {
	q := Query{Filters: map[string]string{"status": "active", "group": ""}}

	v, ok := q.Filter("status")
	assert.True(t, ok)
	assert.Equal(t, "active", v)

	_, ok = q.Filter("group")
	assert.False(t, ok)
	_, ok = q.Filter("missing")
	assert.False(t, ok)
}

func TestNewPageTotals(t *testing.T) {
	q := Query{Page: 2, PageSize: 20}
	p := NewPage([]int{1, 2, 3}, q, 57)
	assert.Equal(t, 2, p.Page)
	assert.Equal(t, 57, p.Total)
	assert.Equal(t, 3, p.TotalPages)

	empty := NewPage[int](nil, q, 0)
	assert.NotNil(t, empty.Items)
	assert.Empty(t, empty.Items)
	assert.Equal(t, 0, empty.TotalPages)
}

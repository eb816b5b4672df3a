// Package listing holds the server-side pagination contract shared by every
// collection endpoint: page/pageSize/search/filter query state in, a wire
// page with items and totals out.
package listing

import "strings"

// Page size bounds shared by every list endpoint.
const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// Query is one normalized list request.
type Query struct {
	Page     int
	PageSize int
	Search   string
	Filters  map[string]string
}

// Normalize clamps pagination bounds and trims the search text. An
// all-whitespace search is equivalent to no search.
func (q *Query) Normalize() {
	if q.Page < 1 {
		q.Page = 1
	}
	if q.PageSize < 1 {
		q.PageSize = DefaultPageSize
	}
	if q.PageSize > MaxPageSize {
		q.PageSize = MaxPageSize
	}
	q.Search = strings.TrimSpace(q.Search)
}

// Offset returns the SQL offset for the query.
func (q Query) Offset() int {
	return (q.Page - 1) * q.PageSize
}

// Filter returns the filter value for key, if set and non-empty.
func (q Query) Filter(key string) (string, bool) {
	v, ok := q.Filters[key]
	if !ok || v == "" {
		return "", false
	}
	return v, true
}

// PageResult is the wire shape every list endpoint returns.
type PageResult[T any] struct {
	Items      []T `json:"items"`
	Page       int `json:"page"`
	PageSize   int `json:"pageSize"`
	Total      int `json:"total"`
	TotalPages int `json:"totalPages"`
}

// NewPage assembles the wire page for a query and total row count.
func NewPage[T any](items []T, q Query, total int) PageResult[T] {
	if items == nil {
		items = []T{}
	}
	totalPages := 0
	if total > 0 {
		totalPages = (total + q.PageSize - 1) / q.PageSize
	}
	return PageResult[T]{
		Items:      items,
		Page:       q.Page,
		PageSize:   q.PageSize,
		Total:      total,
		TotalPages: totalPages,
	}
}

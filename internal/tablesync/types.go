// Package tablesync keeps a server-backed collection view in sync with its
// pagination, filter, and search state. A Controller owns that state for one
// view, derives a cache key from it, and fetches through a caller-supplied
// FetchFunc. Mutations bound to the same cache-key root invalidate every
// cached page of the collection on success.
package tablesync

import "context"

// Filters maps filter keys to scalar values. A nil value clears the key.
type Filters map[string]any

// Clone returns a shallow copy, dropping nil-valued keys.
func (f Filters) Clone() Filters {
	out := make(Filters, len(f))
	for k, v := range f {
		if v != nil {
			out[k] = v
		}
	}
	return out
}

// Page is one server page of a collection. It is replaced wholesale by the
// next successful fetch for the same key, never patched in place.
type Page[T any] struct {
	Items      []T `json:"items"`
	Page       int `json:"page"`
	PageSize   int `json:"pageSize"`
	Total      int `json:"total"`
	TotalPages int `json:"totalPages"`
}

// Pagination is the view-facing slice of a Page.
type Pagination struct {
	Page       int
	PageSize   int
	Total      int
	TotalPages int
}

// FetchFunc retrieves one page from the collaborating API layer. The merged
// filters include the committed search text under "search" when non-empty.
// Implementations must honor ctx cancellation and abort promptly; a cancelled
// fetch never updates displayed data.
type FetchFunc[T any] func(ctx context.Context, page, pageSize int, filters Filters) (Page[T], error)

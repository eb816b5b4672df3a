package postgres

import (
	"fmt"
	"strings"

	"aigate/internal/listing"
)

// listFilter accumulates WHERE conditions with positional args so every
// repository builds its list queries the same way: filters become equality
// conditions, search becomes an ILIKE across the collection's text columns.
type listFilter struct {
	conds []string
	args  []any
}

// add appends "column op $n" with the given value.
func (f *listFilter) add(column, op string, value any) {
	f.args = append(f.args, value)
	f.conds = append(f.conds, fmt.Sprintf("%s %s $%d", column, op, len(f.args)))
}

// search appends a case-insensitive substring match over columns. Empty
// search is a no-op, so whitespace-only input never reaches SQL.
func (f *listFilter) search(value string, columns ...string) {
	if value == "" || len(columns) == 0 {
		return
	}
	f.args = append(f.args, "%"+value+"%")
	n := len(f.args)
	parts := make([]string, len(columns))
	for i, c := range columns {
		parts[i] = fmt.Sprintf("%s ILIKE $%d", c, n)
	}
	f.conds = append(f.conds, "("+strings.Join(parts, " OR ")+")")
}

// clause renders the WHERE clause, or "" when unfiltered.
func (f *listFilter) clause() string {
	if len(f.conds) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(f.conds, " AND ")
}

// paged renders ORDER BY/LIMIT/OFFSET for the query and returns the full
// positional arg list for the page select.
func (f *listFilter) paged(q listing.Query, orderBy string) (string, []any) {
	args := append([]any(nil), f.args...)
	args = append(args, q.PageSize, q.Offset())
	tail := fmt.Sprintf(" ORDER BY %s LIMIT $%d OFFSET $%d", orderBy, len(args)-1, len(args))
	return tail, args
}

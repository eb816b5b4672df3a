package tablesync

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

// Key derives the deterministic cache identity for one
// (collection, page, pageSize, filters, search) combination. Equality is
// structural: two calls with value-equal inputs yield the same string no
// matter the map iteration order. Filter keys are namespaced so a filter
// named "page" cannot collide with the page field, and an all-whitespace
// search is equivalent to no search.
func Key(root string, page, pageSize int, filters Filters, search string) string {
	q := url.Values{}
	q.Set("page", strconv.Itoa(page))
	q.Set("pageSize", strconv.Itoa(pageSize))
	for k, v := range filters {
		if v == nil {
			continue
		}
		q.Set("f."+k, filterValue(v))
	}
	if s := strings.TrimSpace(search); s != "" {
		q.Set("search", s)
	}
	// url.Values.Encode sorts by key, which gives us the canonical order.
	return root + "?" + q.Encode()
}

// filterValue renders a filter value with a kind tag, so values of distinct
// types never collapse to one key: the string "1", the number 1, and true
// all encode differently.
func filterValue(v any) string {
	switch t := v.(type) {
	case string:
		return "s:" + t
	case bool:
		return "b:" + strconv.FormatBool(t)
	default:
		return "v:" + fmt.Sprintf("%v", t)
	}
}

// rootOf recovers the cache-key root from a derived key.
func rootOf(key string) string {
	if i := strings.IndexByte(key, '?'); i >= 0 {
		return key[:i]
	}
	return key
}

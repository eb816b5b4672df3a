package handlers

import (
	"net/http"
	"strconv"

	"aigate/internal/listing"
)

// listQuery reads the shared pagination params plus the named collection
// filters from the request. Unknown params are ignored.
func listQuery(r *http.Request, filterKeys ...string) listing.Query {
	vals := r.URL.Query()
	q := listing.Query{
		Search:  vals.Get("search"),
		Filters: map[string]string{},
	}
	if n, err := strconv.Atoi(vals.Get("page")); err == nil {
		q.Page = n
	}
	if n, err := strconv.Atoi(vals.Get("pageSize")); err == nil {
		q.PageSize = n
	}
	for _, key := range filterKeys {
		if v := vals.Get(key); v != "" {
			q.Filters[key] = v
		}
	}
	q.Normalize()
	return q
}

// pathID parses a numeric {id} path parameter.
func pathID(raw string) (int64, bool) {
	id, err := strconv.ParseInt(raw, 10, 64)
	return id, err == nil && id > 0
}

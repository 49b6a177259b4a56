package cache

import (
	"net/url"
	"strings"
)

// KeyFor builds a stable cache key from the API base, path and query params.
// The key is the fully-qualified request URL; params are sorted by name so
// the same logical request always maps to the same key.
func KeyFor(base, path string, params map[string]string) string {
	key := strings.TrimRight(base, "/") + "/" + strings.TrimLeft(path, "/")
	if len(params) == 0 {
		return key
	}

	q := url.Values{}
	for k, v := range params {
		q.Set(k, v)
	}
	// Encode sorts by key
	return key + "?" + q.Encode()
}

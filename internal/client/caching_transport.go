package client

import (
	"net/http"

	"github.com/gregjones/httpcache"
	"github.com/gregjones/httpcache/diskcache"
)

// NewCachingTransport wraps next with an HTTP cache for GET lookups such as
// sections and time slots. Only responses the backend marks cacheable are
// stored; creates, updates and deletes always go through.
func NewCachingTransport(cacheDir string, next http.RoundTripper) http.RoundTripper {
	var cache httpcache.Cache
	if cacheDir == "" {
		// Use in-memory cache if no cache directory specified
		cache = httpcache.NewMemoryCache()
	} else {
		// Use disk-based cache for persistence across runs
		cache = diskcache.New(cacheDir)
	}

	transport := httpcache.NewTransport(cache)
	transport.Transport = next

	return transport
}

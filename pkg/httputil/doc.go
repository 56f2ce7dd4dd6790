// Package httputil provides HTTP utilities for package registry clients.
//
// # Overview
//
// This package provides infrastructure used by the registry clients:
//
//   - [Cache]: File-based response caching on an afero filesystem
//   - [Retry]: Automatic retry with exponential backoff
//
// # Caching
//
// [Cache] stores registry responses under ~/.cache/composer/ with a
// configurable TTL, so repeated installs of the same package do not hit the
// registry again:
//
//	cache, err := httputil.NewCache("", 24*time.Hour)
//	var versions []packagist.VersionInfo
//	if ok, _ := cache.Get("packagist:monolog/monolog", &versions); !ok {
//	    versions = fetchFromAPI()
//	    cache.Set("packagist:monolog/monolog", versions)
//	}
//
// Cache keys should be namespaced by registry to avoid collisions.
//
// # Retry
//
// [Retry] re-runs a request for transient failures:
//
//   - Network errors
//   - 5xx server errors
//   - 429 rate limit responses (honoring Retry-After)
//
// The cache can be cleared via `composer cache clear` or by deleting
// the cache directory.
package httputil

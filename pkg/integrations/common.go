package integrations

import (
	"net/http"
	"strings"
	"time"

	apperrors "github.com/drupalprojects/composer/pkg/errors"
	"github.com/drupalprojects/composer/pkg/httputil"
)

const httpTimeout = 10 * time.Second

var (
	// ErrNotFound is returned when a package or resource doesn't exist in the registry.
	ErrNotFound = apperrors.New(apperrors.ErrCodeNotFound, "resource not found")

	// ErrNetwork is returned for HTTP failures (timeouts, connection errors, 5xx responses).
	ErrNetwork = apperrors.New(apperrors.ErrCodeNetwork, "network error")
)

// NewHTTPClient creates an HTTP client with a standard timeout for registry requests.
func NewHTTPClient() *http.Client {
	return &http.Client{Timeout: httpTimeout}
}

// NewCache creates a namespaced file cache with the given TTL in the default
// cache directory. See [httputil.NewCache] for details.
func NewCache(namespace string, ttl time.Duration) (*httputil.Cache, error) {
	c, err := httputil.NewCache("", ttl)
	if err != nil {
		return nil, err
	}
	return c.Namespace(namespace), nil
}

// NormalizePackageName converts a vendor/package name to its canonical
// lowercase form.
func NormalizePackageName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

var repoURLReplacer = strings.NewReplacer(
	"git@github.com:", "https://github.com/",
	"git://github.com/", "https://github.com/",
)

// NormalizeRepoURL converts various repository URL formats to a browsable
// HTTPS form for display. Handles git@, git://, and git+ prefixes, and removes
// .git suffixes. Returns empty string if raw is empty.
func NormalizeRepoURL(raw string) string {
	if raw == "" {
		return ""
	}
	s := strings.TrimSpace(raw)
	s = strings.TrimPrefix(s, "git+")
	s = repoURLReplacer.Replace(s)
	return strings.TrimSuffix(s, ".git")
}

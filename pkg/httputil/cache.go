package httputil

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/afero"
)

// ErrExpired is returned by [Cache.Get] when a cached entry exists but has
// exceeded its time-to-live (TTL).
//
// When you receive ErrExpired, the cached data still exists on disk but is
// considered stale. Callers should fetch fresh data from the source and
// update the cache with [Cache.Set].
var ErrExpired = errors.New("cache entry expired")

// Cache provides file-based caching of arbitrary JSON-marshalable data.
//
// Each cache entry is stored as a JSON file in the cache directory, with
// the filename derived from a SHA-256 hash of the cache key.
//
// Cache operations are not goroutine-safe. Multiple Cache instances (even in
// different processes) can share the same directory.
//
// Cache entries have a time-to-live (TTL) based on file modification time.
// A TTL of 0 means entries never expire.
//
// Use [Cache.Namespace] to create scoped views that automatically prefix
// keys:
//
//	packagist := cache.Namespace("packagist:")
//	packagist.Set("monolog/monolog", data)  // key becomes "packagist:monolog/monolog"
type Cache struct {
	fs     afero.Fs
	dir    string
	ttl    time.Duration
	prefix string
}

// NewCache creates a Cache on the OS filesystem that stores entries in dir
// with the given TTL. If dir is empty, ~/.cache/composer/ is used.
func NewCache(dir string, ttl time.Duration) (*Cache, error) {
	return NewCacheFs(afero.NewOsFs(), dir, ttl)
}

// NewCacheFs creates a Cache backed by fs. Tests pass afero.NewMemMapFs().
func NewCacheFs(fs afero.Fs, dir string, ttl time.Duration) (*Cache, error) {
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, err
		}
		dir = filepath.Join(home, ".cache", "composer")
	}
	if err := fs.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &Cache{fs: fs, dir: dir, ttl: ttl}, nil
}

// Dir returns the path to the cache directory.
func (c *Cache) Dir() string { return c.dir }

// TTL returns the time-to-live duration for cache entries.
// A TTL of 0 means cache entries never expire.
func (c *Cache) TTL() time.Duration { return c.ttl }

// Get retrieves a cached value by key and unmarshals it into v.
//
// Return values indicate distinct outcomes:
//   - (true, nil): Cache hit. The value was found, is fresh, and unmarshaled into v.
//   - (false, nil): Cache miss. No entry exists for this key. v is unchanged.
//   - (false, ErrExpired): Entry exists but exceeded its TTL. v is unchanged.
//   - (false, other error): I/O error, JSON unmarshal error, etc.
func (c *Cache) Get(key string, v any) (bool, error) {
	path := c.keyPath(c.prefix + key)
	info, err := c.fs.Stat(path)
	if os.IsNotExist(err) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if c.ttl > 0 && time.Since(info.ModTime()) > c.ttl {
		return false, ErrExpired
	}
	data, err := afero.ReadFile(c.fs, path)
	if err != nil {
		return false, err
	}
	return true, json.Unmarshal(data, v)
}

// Set stores a value in the cache under the given key, overwriting any
// existing entry and refreshing its TTL.
func (c *Cache) Set(key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return afero.WriteFile(c.fs, c.keyPath(c.prefix+key), data, 0o644)
}

// Clear removes every entry in the cache directory, including entries of
// other namespaces. The directory itself is recreated empty.
func (c *Cache) Clear() error {
	if err := c.fs.RemoveAll(c.dir); err != nil {
		return err
	}
	return c.fs.MkdirAll(c.dir, 0o755)
}

// Namespace returns a new Cache that automatically prefixes all keys with prefix.
// The returned Cache shares the same filesystem, directory and TTL.
// Namespace calls can be chained.
func (c *Cache) Namespace(prefix string) *Cache {
	return &Cache{
		fs:     c.fs,
		dir:    c.dir,
		ttl:    c.ttl,
		prefix: c.prefix + prefix,
	}
}

func (c *Cache) keyPath(key string) string {
	h := sha256.Sum256([]byte(key))
	return filepath.Join(c.dir, hex.EncodeToString(h[:]))
}

package packagist

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/drupalprojects/composer/pkg/buildinfo"
	apperrors "github.com/drupalprojects/composer/pkg/errors"
	"github.com/drupalprojects/composer/pkg/httputil"
	"github.com/drupalprojects/composer/pkg/integrations"
)

// DefaultURL is the public Packagist metadata endpoint.
const DefaultURL = "https://repo.packagist.org"

// minifiedFormat marks p2 responses whose versions only carry the keys that
// changed from the previous entry.
const minifiedFormat = "composer/2.0"

// unsetMarker removes a key inherited from the previous version entry.
const unsetMarker = "__unset"

// Reference locates a source checkout or dist archive of one version.
type Reference struct {
	Type      string `json:"type"`
	URL       string `json:"url"`
	Reference string `json:"reference"`
	Shasum    string `json:"shasum,omitempty"`
}

// VersionInfo holds the metadata of one published version of a package.
//
// Link maps are keyed by target package name with the pretty constraint as
// value. Missing optional data is left at its zero value.
type VersionInfo struct {
	Name              string            `json:"name"`
	Version           string            `json:"version"`
	VersionNormalized string            `json:"version_normalized,omitempty"`
	Type              string            `json:"type,omitempty"`
	Description       string            `json:"description,omitempty"`
	Homepage          string            `json:"homepage,omitempty"`
	License           []string          `json:"license,omitempty"`
	Keywords          []string          `json:"keywords,omitempty"`
	Bin               []string          `json:"bin,omitempty"`
	Time              string            `json:"time,omitempty"`
	Source            *Reference        `json:"source,omitempty"`
	Dist              *Reference        `json:"dist,omitempty"`
	Require           map[string]string `json:"require,omitempty"`
	RequireDev        map[string]string `json:"require-dev,omitempty"`
	Conflict          map[string]string `json:"conflict,omitempty"`
	Provide           map[string]string `json:"provide,omitempty"`
	Replace           map[string]string `json:"replace,omitempty"`
	Suggest           map[string]string `json:"suggest,omitempty"`
	Extra             map[string]any    `json:"extra,omitempty"`
}

// Client provides access to the Packagist metadata API.
// It handles HTTP requests with caching and automatic retries.
//
// All methods are safe for concurrent use by multiple goroutines.
type Client struct {
	*integrations.Client
	baseURL string
}

// NewClient creates a Packagist client for baseURL (DefaultURL when empty)
// with responses cached for cacheTTL in the default cache directory.
func NewClient(baseURL string, cacheTTL time.Duration) (*Client, error) {
	cache, err := integrations.NewCache("packagist:", cacheTTL)
	if err != nil {
		return nil, err
	}
	return NewClientWithCache(baseURL, cache)
}

// NewClientWithCache creates a Packagist client using the given cache.
// A nil cache disables caching.
func NewClientWithCache(baseURL string, cache *httputil.Cache) (*Client, error) {
	if baseURL == "" {
		baseURL = DefaultURL
	}
	if err := apperrors.ValidateURL(baseURL); err != nil {
		return nil, err
	}
	headers := map[string]string{"User-Agent": buildinfo.UserAgent()}
	return &Client{
		Client:  integrations.NewClient(cache, headers).WithCacheLabel("packagist"),
		baseURL: strings.TrimSuffix(baseURL, "/"),
	}, nil
}

// BaseURL returns the registry endpoint.
func (c *Client) BaseURL() string { return c.baseURL }

// FetchVersions retrieves every published version of a package, tagged
// releases first and then development branches.
//
// The pkg parameter must be in "vendor/package" format. If refresh is true,
// the cache is bypassed.
//
// Returns:
//   - the expanded version list on success
//   - an error with code PACKAGE_NOT_FOUND if the package doesn't exist
//   - [integrations.ErrNetwork] for HTTP failures (timeout, 5xx, etc.)
func (c *Client) FetchVersions(ctx context.Context, pkg string, refresh bool) ([]VersionInfo, error) {
	pkg = integrations.NormalizePackageName(pkg)
	if err := apperrors.ValidatePackageName(pkg); err != nil {
		return nil, err
	}

	var versions []VersionInfo
	err := c.Cached(ctx, pkg, refresh, &versions, func() error {
		return c.fetch(ctx, pkg, &versions)
	})
	if err != nil {
		return nil, err
	}
	return versions, nil
}

func (c *Client) fetch(ctx context.Context, pkg string, out *[]VersionInfo) error {
	tagged, err := c.fetchFile(ctx, pkg, pkg)
	if err != nil {
		if errors.Is(err, integrations.ErrNotFound) {
			return apperrors.Wrap(apperrors.ErrCodePackageNotFound, err, "package %s not found on %s", pkg, c.baseURL)
		}
		return err
	}

	// Development branches live in a separate file that may not exist.
	branches, err := c.fetchFile(ctx, pkg, pkg+"~dev")
	if err != nil && !errors.Is(err, integrations.ErrNotFound) {
		return err
	}

	all := append(tagged, branches...)
	if len(all) == 0 {
		return apperrors.New(apperrors.ErrCodePackageNotFound, "no versions found for %s", pkg)
	}
	*out = all
	return nil
}

func (c *Client) fetchFile(ctx context.Context, pkg, file string) ([]VersionInfo, error) {
	var data p2Response
	if err := c.Get(ctx, fmt.Sprintf("%s/p2/%s.json", c.baseURL, file), &data); err != nil {
		return nil, err
	}

	raw := data.Packages[pkg]
	if data.Minified == minifiedFormat {
		raw = Expand(raw)
	}

	versions := make([]VersionInfo, 0, len(raw))
	for _, entry := range raw {
		var v VersionInfo
		if err := v.decode(entry); err != nil {
			return nil, apperrors.Wrap(apperrors.ErrCodeNetwork, err, "invalid metadata for %s", pkg)
		}
		if v.Name == "" {
			v.Name = pkg
		}
		versions = append(versions, v)
	}
	return versions, nil
}

type p2Response struct {
	Minified string                                  `json:"minified"`
	Packages map[string][]map[string]json.RawMessage `json:"packages"`
}

// Expand restores full version entries from the minified p2 format, where
// each entry inherits every key of the previous one unless it overrides the
// key or sets it to "__unset".
func Expand(versions []map[string]json.RawMessage) []map[string]json.RawMessage {
	expanded := make([]map[string]json.RawMessage, 0, len(versions))
	var current map[string]json.RawMessage

	for _, entry := range versions {
		next := make(map[string]json.RawMessage, len(current)+len(entry))
		for k, v := range current {
			next[k] = v
		}
		for k, v := range entry {
			if isUnset(v) {
				delete(next, k)
				continue
			}
			next[k] = v
		}
		expanded = append(expanded, next)
		current = next
	}
	return expanded
}

func isUnset(raw json.RawMessage) bool {
	var s string
	return json.Unmarshal(raw, &s) == nil && s == unsetMarker
}

// decode tolerates the loose shapes found in registry data: a license given
// as a single string, and empty maps serialized as JSON arrays.
func (v *VersionInfo) decode(entry map[string]json.RawMessage) error {
	str := func(key string, dst *string) error {
		if raw, ok := entry[key]; ok && !isNull(raw) {
			return json.Unmarshal(raw, dst)
		}
		return nil
	}

	for key, dst := range map[string]*string{
		"name":               &v.Name,
		"version":            &v.Version,
		"version_normalized": &v.VersionNormalized,
		"type":               &v.Type,
		"description":        &v.Description,
		"homepage":           &v.Homepage,
		"time":               &v.Time,
	} {
		if err := str(key, dst); err != nil {
			return fmt.Errorf("field %s: %w", key, err)
		}
	}
	if v.Version == "" {
		return errors.New("version entry without version")
	}

	v.License = stringList(entry["license"])
	v.Keywords = stringList(entry["keywords"])
	v.Bin = stringList(entry["bin"])

	v.Require = stringMap(entry["require"])
	v.RequireDev = stringMap(entry["require-dev"])
	v.Conflict = stringMap(entry["conflict"])
	v.Provide = stringMap(entry["provide"])
	v.Replace = stringMap(entry["replace"])
	v.Suggest = stringMap(entry["suggest"])

	if raw, ok := entry["extra"]; ok && !isNull(raw) {
		var extra map[string]any
		if json.Unmarshal(raw, &extra) == nil && len(extra) > 0 {
			v.Extra = extra
		}
	}

	v.Source = reference(entry["source"])
	v.Dist = reference(entry["dist"])
	return nil
}

func isNull(raw json.RawMessage) bool {
	return len(raw) == 0 || string(raw) == "null"
}

func stringList(raw json.RawMessage) []string {
	if isNull(raw) {
		return nil
	}
	var list []string
	if json.Unmarshal(raw, &list) == nil {
		return list
	}
	var single string
	if json.Unmarshal(raw, &single) == nil && single != "" {
		return []string{single}
	}
	return nil
}

func stringMap(raw json.RawMessage) map[string]string {
	if isNull(raw) {
		return nil
	}
	var m map[string]string
	if json.Unmarshal(raw, &m) == nil {
		if len(m) == 0 {
			return nil
		}
		return m
	}
	var loose map[string]any
	if json.Unmarshal(raw, &loose) != nil {
		return nil
	}
	m = make(map[string]string, len(loose))
	for k, val := range loose {
		if s, ok := val.(string); ok {
			m[k] = s
		}
	}
	return m
}

func reference(raw json.RawMessage) *Reference {
	if isNull(raw) {
		return nil
	}
	var ref Reference
	if json.Unmarshal(raw, &ref) != nil || ref.Type == "" {
		return nil
	}
	return &ref
}

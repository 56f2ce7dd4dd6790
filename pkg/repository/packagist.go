package repository

import (
	"context"
	"strings"
	"sync"

	"github.com/drupalprojects/composer/pkg/integrations/packagist"
	"github.com/drupalprojects/composer/pkg/packages"
	"github.com/drupalprojects/composer/pkg/version"
)

// VersionFetcher retrieves the version records of a package.
// [*packagist.Client] implements it.
type VersionFetcher interface {
	FetchVersions(ctx context.Context, name string, refresh bool) ([]packagist.VersionInfo, error)
}

// Packagist is a lazily populated view of a remote registry. Each package's
// versions are fetched once and kept in a per-package ArrayRepository.
//
// Packagist is safe for concurrent use.
type Packagist struct {
	fetcher VersionFetcher
	loader  *Loader
	refresh bool

	mu    sync.Mutex
	repos map[string]*ArrayRepository
}

// NewPackagist creates a registry view. When refresh is true the first load
// of every package bypasses the HTTP cache.
func NewPackagist(fetcher VersionFetcher, loader *Loader, refresh bool) *Packagist {
	if loader == nil {
		loader = NewLoader(nil)
	}
	return &Packagist{
		fetcher: fetcher,
		loader:  loader,
		refresh: refresh,
		repos:   make(map[string]*ArrayRepository),
	}
}

// Load returns the repository holding every version of name.
func (p *Packagist) Load(ctx context.Context, name string) (*ArrayRepository, error) {
	name = strings.ToLower(strings.TrimSpace(name))

	p.mu.Lock()
	defer p.mu.Unlock()
	if repo, ok := p.repos[name]; ok {
		return repo, nil
	}

	infos, err := p.fetcher.FetchVersions(ctx, name, p.refresh)
	if err != nil {
		return nil, err
	}
	repo := &ArrayRepository{}
	for _, pkg := range p.loader.LoadAll(infos) {
		if err := repo.AddPackage(pkg); err != nil {
			return nil, err
		}
	}
	p.repos[name] = repo
	return repo, nil
}

// Find returns the best version of name satisfying constraint, or nil when
// the package exists but no version matches.
func (p *Packagist) Find(ctx context.Context, name string, constraint version.Constraint) (packages.Package, error) {
	repo, err := p.Load(ctx, name)
	if err != nil {
		return nil, err
	}
	return repo.Best(name, constraint), nil
}

// FindVersion returns the exact version of name, or nil when it is not
// published.
func (p *Packagist) FindVersion(ctx context.Context, name, v string) (packages.Package, error) {
	repo, err := p.Load(ctx, name)
	if err != nil {
		return nil, err
	}
	return repo.FindPackage(name, v), nil
}

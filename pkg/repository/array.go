// Package repository holds collections of packages and loads them from
// registry metadata.
//
// [ArrayRepository] owns the packages added to it: adding a package records
// the repository on the package, and a package can only ever be owned once.
// [Loader] turns Packagist version records into [packages.MemoryPackage]
// values, and [Packagist] fills an ArrayRepository from the registry on
// demand.
package repository

import (
	"slices"
	"strings"
	"sync"

	"github.com/drupalprojects/composer/pkg/packages"
	"github.com/drupalprojects/composer/pkg/version"
)

// ArrayRepository is an in-memory repository.
//
// All methods are safe for concurrent use.
type ArrayRepository struct {
	mu       sync.RWMutex
	packages []packages.Package
}

var _ packages.Repository = (*ArrayRepository)(nil)

// NewArrayRepository creates a repository holding pkgs.
func NewArrayRepository(pkgs ...packages.Package) (*ArrayRepository, error) {
	r := &ArrayRepository{}
	for _, p := range pkgs {
		if err := r.AddPackage(p); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// AddPackage takes ownership of p. It fails with a CONSISTENCY error when p
// already belongs to a repository.
func (r *ArrayRepository) AddPackage(p packages.Package) error {
	if err := p.SetRepository(r); err != nil {
		return err
	}
	r.mu.Lock()
	r.packages = append(r.packages, p)
	r.mu.Unlock()
	return nil
}

// RemovePackage drops p (or any alias of the same package) from the
// repository. The package keeps its repository reference.
func (r *ArrayRepository) RemovePackage(p packages.Package) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.packages = slices.DeleteFunc(r.packages, func(q packages.Package) bool {
		return q.UniqueName() == p.UniqueName() && packages.Equals(q, p)
	})
}

// HasPackage reports whether p is held by the repository.
func (r *ArrayRepository) HasPackage(p packages.Package) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, q := range r.packages {
		if q.UniqueName() == p.UniqueName() && packages.Equals(q, p) {
			return true
		}
	}
	return false
}

// Packages returns a snapshot of the held packages in insertion order.
func (r *ArrayRepository) Packages() []packages.Package {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return slices.Clone(r.packages)
}

// Count returns the number of held packages.
func (r *ArrayRepository) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.packages)
}

// FindPackage returns the package with the given name and version, or nil.
// The version may be pretty or normalized.
func (r *ArrayRepository) FindPackage(name, v string) packages.Package {
	normalized, err := version.Normalize(v)
	if err != nil {
		return nil
	}
	name = strings.ToLower(name)
	for _, p := range r.Packages() {
		if p.Name() == name && p.Version() == normalized {
			return p
		}
	}
	return nil
}

// FindPackages returns every package named name whose version satisfies
// constraint. A nil constraint matches all versions.
func (r *ArrayRepository) FindPackages(name string, constraint version.Constraint) []packages.Package {
	var out []packages.Package
	for _, p := range r.Packages() {
		if p.Matches(name, constraint) == packages.MatchExact {
			out = append(out, p)
		}
	}
	return out
}

// WhatProvides returns every package that satisfies the request, whether by
// name, provide or replace.
func (r *ArrayRepository) WhatProvides(name string, constraint version.Constraint) []packages.Package {
	var out []packages.Package
	for _, p := range r.Packages() {
		switch p.Matches(name, constraint) {
		case packages.MatchExact, packages.MatchProvide, packages.MatchReplace:
			out = append(out, p)
		}
	}
	return out
}

// Best returns the highest version among the packages named name that
// satisfy constraint, preferring releases over branches. It returns nil when
// nothing matches.
func (r *ArrayRepository) Best(name string, constraint version.Constraint) packages.Package {
	var best packages.Package
	for _, p := range r.FindPackages(name, constraint) {
		if best == nil || newer(p, best) {
			best = p
		}
	}
	return best
}

func newer(a, b packages.Package) bool {
	if version.IsBranch(a.Version()) != version.IsBranch(b.Version()) {
		return !version.IsBranch(a.Version())
	}
	if version.IsBranch(a.Version()) {
		return false
	}
	return version.Compare(a.Version(), b.Version(), ">")
}

// Package packages models installable packages and how they satisfy a
// name/version request.
//
// A package answers to its own name and, through provide and replace links, to
// the names of other packages. [Package.Matches] reports how a request was
// satisfied so a resolver can prefer real packages over virtual ones.
//
// Two implementations exist: [MemoryPackage], the concrete package loaded from
// a registry, and [AliasPackage], which presents an existing package under a
// different version (for example a branch aliased to "1.0.x-dev").
package packages

import (
	"time"

	"github.com/drupalprojects/composer/pkg/version"
)

// NoID is the identifier of a package that has not been numbered by a pool.
const NoID = -1

// InstallationSource records how a package was materialized on disk.
type InstallationSource string

const (
	NotInstalled        InstallationSource = ""
	InstalledFromSource InstallationSource = "source"
	InstalledFromDist   InstallationSource = "dist"
)

// MatchResult describes how a package satisfies a name/version request.
type MatchResult int

const (
	// MatchNameOnly: the name is the package's own but the version does not fit.
	MatchNameOnly MatchResult = -1
	MatchNone     MatchResult = 0
	MatchExact    MatchResult = 1
	MatchProvide  MatchResult = 2
	MatchReplace  MatchResult = 3
)

func (m MatchResult) String() string {
	switch m {
	case MatchNameOnly:
		return "name-only"
	case MatchExact:
		return "exact"
	case MatchProvide:
		return "provide"
	case MatchReplace:
		return "replace"
	}
	return "none"
}

// Repository is the owner of a set of packages.
type Repository interface {
	Packages() []Package
	HasPackage(Package) bool
}

// Package is the read side of a package plus the few mutable slots the
// installer needs (ID, installation source, owning repository).
type Package interface {
	// Identity
	Name() string
	PrettyName() string
	Names() []string
	ID() int
	SetID(int)
	Type() string

	// Version
	Version() string
	PrettyVersion() string
	Stability() version.Stability
	IsDev() bool

	// Acquisition
	InstallationSource() InstallationSource
	SetInstallationSource(InstallationSource)
	SourceType() string
	SourceURL() string
	SourceReference() string
	DistType() string
	DistURL() string
	DistReference() string
	DistSHA1Checksum() string

	// Relations
	Requires() []*Link
	DevRequires() []*Link
	Conflicts() []*Link
	Provides() []*Link
	Replaces() []*Link
	Suggests() map[string]string

	// Metadata
	Description() string
	Homepage() string
	License() []string
	Keywords() []string
	Binaries() []string
	Extra() map[string]any
	ReleaseDate() time.Time

	// Ownership
	Repository() Repository
	SetRepository(Repository) error

	Matches(name string, constraint version.Constraint) MatchResult
	UniqueName() string
	PrettyString() string
	String() string
	Clone() Package
}

// Equals reports whether a and b are the same package once aliases on either
// side are unwrapped.
func Equals(a, b Package) bool {
	return unwrap(a) == unwrap(b)
}

func unwrap(p Package) Package {
	for {
		alias, ok := p.(*AliasPackage)
		if !ok {
			return p
		}
		p = alias.AliasOf()
	}
}

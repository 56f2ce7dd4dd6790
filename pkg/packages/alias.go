package packages

import (
	"github.com/drupalprojects/composer/pkg/version"
)

// AliasPackage presents another package under a different version. Identity
// slots (ID, repository) and version data belong to the alias; everything
// else is read from the aliased package.
type AliasPackage struct {
	Package

	version       string
	prettyVersion string
	stability     version.Stability
	id            int
	repository    Repository
}

var _ Package = (*AliasPackage)(nil)

// NewAliasPackage aliases p as normalizedVersion/prettyVersion.
func NewAliasPackage(p Package, normalizedVersion, prettyVersion string) *AliasPackage {
	return &AliasPackage{
		Package:       p,
		version:       normalizedVersion,
		prettyVersion: prettyVersion,
		stability:     version.ParseStability(normalizedVersion),
		id:            NoID,
	}
}

// AliasOf returns the aliased package.
func (a *AliasPackage) AliasOf() Package { return a.Package }

func (a *AliasPackage) Version() string              { return a.version }
func (a *AliasPackage) PrettyVersion() string        { return a.prettyVersion }
func (a *AliasPackage) Stability() version.Stability { return a.stability }
func (a *AliasPackage) IsDev() bool                  { return a.stability == version.Dev }
func (a *AliasPackage) ID() int                      { return a.id }
func (a *AliasPackage) SetID(id int)                 { a.id = id }
func (a *AliasPackage) Repository() Repository       { return a.repository }

// SetRepository records the alias' own owning repository.
func (a *AliasPackage) SetRepository(r Repository) error {
	return setRepository(a, &a.repository, r)
}

// Names is recomputed so provide/replace lookups go through the alias.
func (a *AliasPackage) Names() []string { return names(a) }

// Matches evaluates the request against the alias version.
func (a *AliasPackage) Matches(name string, constraint version.Constraint) MatchResult {
	return matches(a, name, constraint)
}

func (a *AliasPackage) UniqueName() string   { return a.Name() + "-" + a.version }
func (a *AliasPackage) PrettyString() string { return a.PrettyName() + " " + a.prettyVersion }
func (a *AliasPackage) String() string {
	return a.UniqueName() + " (alias of " + a.Package.Version() + ")"
}

// Clone returns a detached alias of the same aliased package.
func (a *AliasPackage) Clone() Package {
	c := *a
	c.repository = nil
	c.id = NoID
	return &c
}

package packages

import (
	"maps"
	"slices"
	"strings"
	"time"

	"github.com/drupalprojects/composer/pkg/errors"
	"github.com/drupalprojects/composer/pkg/version"
)

// MemoryPackage is a package held entirely in memory, typically built by a
// registry loader.
type MemoryPackage struct {
	name          string
	prettyName    string
	id            int
	typ           string
	version       string
	prettyVersion string
	stability     version.Stability

	installationSource InstallationSource
	sourceType         string
	sourceURL          string
	sourceReference    string
	distType           string
	distURL            string
	distReference      string
	distSHA1Checksum   string

	requires    []*Link
	devRequires []*Link
	conflicts   []*Link
	provides    []*Link
	replaces    []*Link
	suggests    map[string]string

	description string
	homepage    string
	license     []string
	keywords    []string
	binaries    []string
	extra       map[string]any
	releaseDate time.Time

	repository Repository
}

var _ Package = (*MemoryPackage)(nil)

// NewMemoryPackage creates a package. normalizedVersion must already be
// normalized; prettyVersion is the form shown to users.
func NewMemoryPackage(name, normalizedVersion, prettyVersion string) *MemoryPackage {
	return &MemoryPackage{
		name:          strings.ToLower(name),
		prettyName:    name,
		id:            NoID,
		typ:           "library",
		version:       normalizedVersion,
		prettyVersion: prettyVersion,
		stability:     version.ParseStability(normalizedVersion),
	}
}

func (p *MemoryPackage) Name() string       { return p.name }
func (p *MemoryPackage) PrettyName() string { return p.prettyName }
func (p *MemoryPackage) ID() int            { return p.id }
func (p *MemoryPackage) SetID(id int)       { p.id = id }
func (p *MemoryPackage) Type() string       { return p.typ }
func (p *MemoryPackage) SetType(t string)   { p.typ = t }

// Names returns every name this package answers to: its own, then provided
// and replaced names, without duplicates.
func (p *MemoryPackage) Names() []string {
	return names(p)
}

func (p *MemoryPackage) Version() string              { return p.version }
func (p *MemoryPackage) PrettyVersion() string        { return p.prettyVersion }
func (p *MemoryPackage) Stability() version.Stability { return p.stability }
func (p *MemoryPackage) IsDev() bool                  { return p.stability == version.Dev }

func (p *MemoryPackage) InstallationSource() InstallationSource { return p.installationSource }
func (p *MemoryPackage) SetInstallationSource(s InstallationSource) {
	p.installationSource = s
}

func (p *MemoryPackage) SourceType() string      { return p.sourceType }
func (p *MemoryPackage) SourceURL() string       { return p.sourceURL }
func (p *MemoryPackage) SourceReference() string { return p.sourceReference }

// SetSource sets the VCS type, URL and reference used for source installs.
func (p *MemoryPackage) SetSource(typ, url, reference string) {
	p.sourceType, p.sourceURL, p.sourceReference = typ, url, reference
}

// SetSourceReference replaces the source reference, e.g. when a branch moves.
func (p *MemoryPackage) SetSourceReference(reference string) { p.sourceReference = reference }

func (p *MemoryPackage) DistType() string         { return p.distType }
func (p *MemoryPackage) DistURL() string          { return p.distURL }
func (p *MemoryPackage) DistReference() string    { return p.distReference }
func (p *MemoryPackage) DistSHA1Checksum() string { return p.distSHA1Checksum }

// SetDist sets the archive type, URL, reference and checksum used for dist installs.
func (p *MemoryPackage) SetDist(typ, url, reference, sha1 string) {
	p.distType, p.distURL, p.distReference, p.distSHA1Checksum = typ, url, reference, sha1
}

func (p *MemoryPackage) Requires() []*Link           { return p.requires }
func (p *MemoryPackage) DevRequires() []*Link        { return p.devRequires }
func (p *MemoryPackage) Conflicts() []*Link          { return p.conflicts }
func (p *MemoryPackage) Provides() []*Link           { return p.provides }
func (p *MemoryPackage) Replaces() []*Link           { return p.replaces }
func (p *MemoryPackage) Suggests() map[string]string { return p.suggests }

// SetLinks replaces the links of the given type.
func (p *MemoryPackage) SetLinks(typ LinkType, links []*Link) {
	switch typ {
	case Require:
		p.requires = links
	case DevRequire:
		p.devRequires = links
	case Conflict:
		p.conflicts = links
	case Provide:
		p.provides = links
	case Replace:
		p.replaces = links
	}
}

func (p *MemoryPackage) SetSuggests(s map[string]string) { p.suggests = s }

func (p *MemoryPackage) Description() string    { return p.description }
func (p *MemoryPackage) Homepage() string       { return p.homepage }
func (p *MemoryPackage) License() []string      { return p.license }
func (p *MemoryPackage) Keywords() []string     { return p.keywords }
func (p *MemoryPackage) Binaries() []string     { return p.binaries }
func (p *MemoryPackage) Extra() map[string]any  { return p.extra }
func (p *MemoryPackage) ReleaseDate() time.Time { return p.releaseDate }

func (p *MemoryPackage) SetDescription(d string)    { p.description = d }
func (p *MemoryPackage) SetHomepage(h string)       { p.homepage = h }
func (p *MemoryPackage) SetLicense(l []string)      { p.license = l }
func (p *MemoryPackage) SetKeywords(k []string)     { p.keywords = k }
func (p *MemoryPackage) SetBinaries(b []string)     { p.binaries = b }
func (p *MemoryPackage) SetExtra(e map[string]any)  { p.extra = e }
func (p *MemoryPackage) SetReleaseDate(t time.Time) { p.releaseDate = t }

func (p *MemoryPackage) Repository() Repository { return p.repository }

// SetRepository records the owning repository. A package belongs to at most
// one repository; a second assignment fails even for the same repository.
func (p *MemoryPackage) SetRepository(r Repository) error {
	return setRepository(p, &p.repository, r)
}

// Matches reports how this package satisfies a request for name at constraint.
func (p *MemoryPackage) Matches(name string, constraint version.Constraint) MatchResult {
	return matches(p, name, constraint)
}

func (p *MemoryPackage) UniqueName() string   { return p.name + "-" + p.version }
func (p *MemoryPackage) PrettyString() string { return p.prettyName + " " + p.prettyVersion }
func (p *MemoryPackage) String() string       { return p.UniqueName() }

// Clone returns a copy detached from its repository and pool numbering.
func (p *MemoryPackage) Clone() Package {
	c := *p
	c.repository = nil
	c.id = NoID
	c.requires = slices.Clone(p.requires)
	c.devRequires = slices.Clone(p.devRequires)
	c.conflicts = slices.Clone(p.conflicts)
	c.provides = slices.Clone(p.provides)
	c.replaces = slices.Clone(p.replaces)
	c.suggests = maps.Clone(p.suggests)
	c.license = slices.Clone(p.license)
	c.keywords = slices.Clone(p.keywords)
	c.binaries = slices.Clone(p.binaries)
	c.extra = maps.Clone(p.extra)
	return &c
}

func setRepository(p Package, slot *Repository, r Repository) error {
	if *slot != nil {
		return errors.New(errors.ErrCodeConsistency,
			"a package can only be added to one repository, %s already belongs to one", p.PrettyString())
	}
	*slot = r
	return nil
}

func names(p Package) []string {
	out := []string{p.Name()}
	seen := map[string]bool{p.Name(): true}
	for _, group := range [][]*Link{p.Provides(), p.Replaces()} {
		for _, l := range group {
			if !seen[l.Target()] {
				seen[l.Target()] = true
				out = append(out, l.Target())
			}
		}
	}
	return out
}

func matches(p Package, name string, constraint version.Constraint) MatchResult {
	name = strings.ToLower(name)
	if constraint == nil {
		constraint = version.Any()
	}

	if p.Name() == name {
		if constraint.Matches(version.Exact(p.Version())) {
			return MatchExact
		}
		return MatchNameOnly
	}

	for _, l := range p.Provides() {
		if l.Target() == name && constraint.Matches(l.Constraint()) {
			return MatchProvide
		}
	}

	for _, l := range p.Replaces() {
		if l.Target() == name && constraint.Matches(l.Constraint()) {
			return MatchReplace
		}
	}

	return MatchNone
}

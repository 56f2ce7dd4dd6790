package packages

import (
	"slices"
	"strings"
	"testing"

	"github.com/drupalprojects/composer/pkg/errors"
	"github.com/drupalprojects/composer/pkg/version"
)

type fakeRepository struct {
	pkgs []Package
}

func (r *fakeRepository) Packages() []Package { return r.pkgs }
func (r *fakeRepository) HasPackage(p Package) bool {
	return slices.ContainsFunc(r.pkgs, func(q Package) bool { return Equals(p, q) })
}

func link(t *testing.T, source, target string, typ LinkType, expr string) *Link {
	t.Helper()
	l, err := ParseLink(source, target, typ, expr)
	if err != nil {
		t.Fatalf("ParseLink(%q) error: %v", expr, err)
	}
	return l
}

func TestNewMemoryPackage(t *testing.T) {
	tests := []struct {
		name      string
		version   string
		stability version.Stability
	}{
		{"foo", "1-beta", version.Beta},
		{"node", "0.5.6", version.Stable},
		{"li3", "0.10", version.Stable},
		{"mongodb_odm", "1.0.0BETA3", version.Beta},
		{"DoctrineCommon", "2.2.0-DEV", version.Dev},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			norm := version.MustNormalize(tt.version)
			p := NewMemoryPackage(tt.name, norm, tt.version)

			if got, want := p.Name(), strings.ToLower(tt.name); got != want {
				t.Errorf("Name() = %q, want %q", got, want)
			}
			if p.PrettyName() != tt.name {
				t.Errorf("PrettyName() = %q, want %q", p.PrettyName(), tt.name)
			}
			if p.PrettyVersion() != tt.version {
				t.Errorf("PrettyVersion() = %q, want %q", p.PrettyVersion(), tt.version)
			}
			if p.Version() != norm {
				t.Errorf("Version() = %q, want %q", p.Version(), norm)
			}
			if got, want := p.String(), strings.ToLower(tt.name)+"-"+norm; got != want {
				t.Errorf("String() = %q, want %q", got, want)
			}
			if p.Stability() != tt.stability {
				t.Errorf("Stability() = %v, want %v", p.Stability(), tt.stability)
			}
			if p.IsDev() != (tt.stability == version.Dev) {
				t.Errorf("IsDev() = %v", p.IsDev())
			}
			if p.ID() != NoID {
				t.Errorf("ID() = %d, want %d", p.ID(), NoID)
			}
		})
	}
}

func TestMatches(t *testing.T) {
	p := NewMemoryPackage("acme/foo", "1.0.0", "1.0.0")
	p.SetLinks(Provide, []*Link{link(t, "acme/foo", "acme/bar", Provide, "1.0")})
	p.SetLinks(Replace, []*Link{link(t, "acme/foo", "acme/baz", Replace, "2.0")})

	tests := []struct {
		name       string
		request    string
		constraint string
		want       MatchResult
	}{
		{"own name exact", "acme/foo", "1.0", MatchExact},
		{"own name range", "acme/foo", ">=0.9", MatchExact},
		{"own name mixed case", "Acme/Foo", "1.0", MatchExact},
		{"own name wrong version", "acme/foo", "2.0", MatchNameOnly},
		{"provided", "acme/bar", "1.0", MatchProvide},
		{"provided wrong version", "acme/bar", "2.0", MatchNone},
		{"replaced", "acme/baz", "2.0", MatchReplace},
		{"replaced wrong version", "acme/baz", "1.0", MatchNone},
		{"unrelated", "acme/qux", "*", MatchNone},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := p.Matches(tt.request, version.MustParseConstraints(tt.constraint))
			if got != tt.want {
				t.Errorf("Matches(%q, %q) = %v, want %v", tt.request, tt.constraint, got, tt.want)
			}
		})
	}
}

func TestMatchesProvideBeforeReplace(t *testing.T) {
	p := NewMemoryPackage("acme/foo", "1.0.0", "1.0.0")
	p.SetLinks(Provide, []*Link{link(t, "acme/foo", "acme/bar", Provide, "*")})
	p.SetLinks(Replace, []*Link{link(t, "acme/foo", "acme/bar", Replace, "*")})

	if got := p.Matches("acme/bar", version.Any()); got != MatchProvide {
		t.Errorf("Matches() = %v, want %v", got, MatchProvide)
	}
}

func TestNames(t *testing.T) {
	p := NewMemoryPackage("acme/foo", "1.0.0", "1.0.0")
	p.SetLinks(Provide, []*Link{
		link(t, "acme/foo", "acme/bar", Provide, "1.0"),
		link(t, "acme/foo", "acme/foo", Provide, "1.0"),
	})
	p.SetLinks(Replace, []*Link{
		link(t, "acme/foo", "acme/bar", Replace, "1.0"),
		link(t, "acme/foo", "acme/baz", Replace, "1.0"),
	})

	want := []string{"acme/foo", "acme/bar", "acme/baz"}
	if got := p.Names(); !slices.Equal(got, want) {
		t.Errorf("Names() = %v, want %v", got, want)
	}
}

func TestSetRepository(t *testing.T) {
	p := NewMemoryPackage("acme/foo", "1.0.0", "1.0.0")
	repo := &fakeRepository{}

	if err := p.SetRepository(repo); err != nil {
		t.Fatalf("first SetRepository() error: %v", err)
	}
	if p.Repository() != repo {
		t.Error("Repository() not recorded")
	}

	for _, next := range []Repository{repo, &fakeRepository{}} {
		err := p.SetRepository(next)
		if !errors.Is(err, errors.ErrCodeConsistency) {
			t.Errorf("second SetRepository() error = %v, want %s", err, errors.ErrCodeConsistency)
		}
	}
	if p.Repository() != repo {
		t.Error("failed SetRepository() must not change the owner")
	}
}

func TestClone(t *testing.T) {
	p := NewMemoryPackage("acme/foo", "1.0.0", "1.0.0")
	p.SetID(7)
	p.SetLinks(Require, []*Link{link(t, "acme/foo", "acme/bar", Require, "^1.0")})
	if err := p.SetRepository(&fakeRepository{}); err != nil {
		t.Fatal(err)
	}

	c := p.Clone()
	if c.Repository() != nil {
		t.Error("clone should not belong to a repository")
	}
	if c.ID() != NoID {
		t.Errorf("clone ID() = %d, want %d", c.ID(), NoID)
	}
	if c.UniqueName() != p.UniqueName() {
		t.Errorf("clone UniqueName() = %q, want %q", c.UniqueName(), p.UniqueName())
	}
	if err := c.SetRepository(&fakeRepository{}); err != nil {
		t.Errorf("clone SetRepository() error: %v", err)
	}

	c.(*MemoryPackage).SetLinks(Require, nil)
	if len(p.Requires()) != 1 {
		t.Error("mutating the clone changed the original")
	}
}

func TestAliasPackage(t *testing.T) {
	base := NewMemoryPackage("acme/foo", "dev-master", "dev-master")
	base.SetSource("git", "https://github.com/acme/foo.git", "abc123")
	base.SetLinks(Provide, []*Link{link(t, "acme/foo", "acme/bar", Provide, "1.0")})

	alias := NewAliasPackage(base, version.MustNormalize("1.0.x-dev"), "1.0.x-dev")

	if alias.Version() != "1.0.9999999-dev" {
		t.Errorf("Version() = %q", alias.Version())
	}
	if alias.SourceReference() != "abc123" {
		t.Errorf("SourceReference() = %q, want delegated value", alias.SourceReference())
	}
	if !alias.IsDev() {
		t.Error("IsDev() = false, want true")
	}
	if got := alias.Matches("acme/foo", version.MustParseConstraints("1.0.*@dev")); got != MatchExact {
		t.Errorf("alias Matches(1.0.*) = %v, want %v", got, MatchExact)
	}
	if got := base.Matches("acme/foo", version.MustParseConstraints("1.0.*@dev")); got != MatchNameOnly {
		t.Errorf("base Matches(1.0.*) = %v, want %v", got, MatchNameOnly)
	}
	if got := alias.Matches("acme/bar", version.MustParseConstraints("1.0")); got != MatchProvide {
		t.Errorf("alias Matches(acme/bar) = %v, want %v", got, MatchProvide)
	}

	if err := base.SetRepository(&fakeRepository{}); err != nil {
		t.Fatal(err)
	}
	if err := alias.SetRepository(&fakeRepository{}); err != nil {
		t.Errorf("alias keeps its own repository slot, got %v", err)
	}
	alias.SetID(3)
	if base.ID() != NoID {
		t.Error("alias SetID() leaked into the aliased package")
	}
}

func TestEquals(t *testing.T) {
	a := NewMemoryPackage("acme/foo", "1.0.0", "1.0.0")
	b := NewMemoryPackage("acme/foo", "1.0.0", "1.0.0")
	alias := NewAliasPackage(a, "2.0.0", "2.0.0")
	aliasOfAlias := NewAliasPackage(alias, "3.0.0", "3.0.0")

	tests := []struct {
		name string
		x, y Package
		want bool
	}{
		{"same", a, a, true},
		{"distinct equal data", a, b, false},
		{"alias and target", alias, a, true},
		{"target and alias", a, alias, true},
		{"nested alias", aliasOfAlias, a, true},
		{"alias of other", alias, b, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Equals(tt.x, tt.y); got != tt.want {
				t.Errorf("Equals() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestLinkDescription(t *testing.T) {
	tests := []struct {
		typ  LinkType
		want string
	}{
		{Require, "requires"},
		{DevRequire, "requires (for development)"},
		{Conflict, "conflicts"},
		{Provide, "provides"},
		{Replace, "replaces"},
	}
	for _, tt := range tests {
		if got := tt.typ.Description(); got != tt.want {
			t.Errorf("%s.Description() = %q, want %q", tt.typ, got, tt.want)
		}
	}

	l := link(t, "Acme/Foo", "Acme/Bar", Require, "^1.0")
	if l.Source() != "acme/foo" || l.Target() != "acme/bar" {
		t.Errorf("link names not lowercased: %s", l)
	}
	if got := l.String(); got != "acme/foo requires acme/bar (^1.0)" {
		t.Errorf("String() = %q", got)
	}
}

func TestMatchResultString(t *testing.T) {
	want := map[MatchResult]string{
		MatchNameOnly: "name-only",
		MatchNone:     "none",
		MatchExact:    "exact",
		MatchProvide:  "provide",
		MatchReplace:  "replace",
	}
	for m, s := range want {
		if m.String() != s {
			t.Errorf("%d.String() = %q, want %q", int(m), m.String(), s)
		}
	}
}

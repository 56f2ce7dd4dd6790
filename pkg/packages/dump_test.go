package packages

import (
	"reflect"
	"testing"
	"time"
)

func TestDumpRequiredInformation(t *testing.T) {
	p := NewMemoryPackage("foo", "1.0.0", "1.0")
	p.SetType("")

	want := map[string]any{
		"name":               "foo",
		"version":            "1.0",
		"version_normalized": "1.0.0",
	}
	if got := Dump(p); !reflect.DeepEqual(got, want) {
		t.Errorf("Dump() = %v, want %v", got, want)
	}
}

func TestDumpKeys(t *testing.T) {
	base := func() *MemoryPackage { return NewMemoryPackage("acme/foo", "1.0.0", "1.0.0") }

	tests := []struct {
		key   string
		setup func(*MemoryPackage)
		want  any
	}{
		{"type", func(p *MemoryPackage) { p.SetType("library") }, "library"},
		{"time", func(p *MemoryPackage) {
			p.SetReleaseDate(time.Date(2012, 2, 1, 0, 0, 0, 0, time.UTC))
		}, "2012-02-01 00:00:00"},
		{"homepage", func(p *MemoryPackage) { p.SetHomepage("http://getcomposer.org") }, "http://getcomposer.org"},
		{"description", func(p *MemoryPackage) { p.SetDescription("Package Manager") }, "Package Manager"},
		{"keywords", func(p *MemoryPackage) {
			p.SetKeywords([]string{"package", "dependency", "autoload"})
		}, []string{"package", "dependency", "autoload"}},
		{"bin", func(p *MemoryPackage) { p.SetBinaries([]string{"bin/composer"}) }, []string{"bin/composer"}},
		{"license", func(p *MemoryPackage) { p.SetLicense([]string{"MIT"}) }, []string{"MIT"}},
		{"extra", func(p *MemoryPackage) {
			p.SetExtra(map[string]any{"class": `MyVendor\Installer`})
		}, map[string]any{"class": `MyVendor\Installer`}},
		{"require", func(p *MemoryPackage) {
			p.SetLinks(Require, []*Link{mustLink(Require, "foo/bar", "1.0.0")})
		}, map[string]string{"foo/bar": "1.0.0"}},
		{"require-dev", func(p *MemoryPackage) {
			p.SetLinks(DevRequire, []*Link{mustLink(DevRequire, "foo/bar", "1.0.0")})
		}, map[string]string{"foo/bar": "1.0.0"}},
		{"replace", func(p *MemoryPackage) {
			p.SetLinks(Replace, []*Link{mustLink(Replace, "foo/bar", "self.version")})
		}, map[string]string{"foo/bar": "self.version"}},
		{"suggest", func(p *MemoryPackage) {
			p.SetSuggests(map[string]string{"foo/bar": "very useful package"})
		}, map[string]string{"foo/bar": "very useful package"}},
		{"source", func(p *MemoryPackage) {
			p.SetSource("git", "https://github.com/acme/foo.git", "abc")
		}, map[string]any{"type": "git", "url": "https://github.com/acme/foo.git", "reference": "abc"}},
		{"dist", func(p *MemoryPackage) {
			p.SetDist("zip", "https://example.com/foo.zip", "abc", "deadbeef")
		}, map[string]any{"type": "zip", "url": "https://example.com/foo.zip", "reference": "abc", "shasum": "deadbeef"}},
		{"installation-source", func(p *MemoryPackage) {
			p.SetInstallationSource(InstalledFromSource)
		}, "source"},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			p := base()
			tt.setup(p)
			got, ok := Dump(p)[tt.key]
			if !ok {
				t.Fatalf("Dump() missing key %q", tt.key)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Dump()[%q] = %#v, want %#v", tt.key, got, tt.want)
			}
		})
	}
}

// mustLink keeps the pretty constraint verbatim even when it cannot be parsed,
// as registries do for "self.version".
func mustLink(typ LinkType, target, pretty string) *Link {
	return NewLink("acme/foo", target, nil, typ.Description(), pretty)
}

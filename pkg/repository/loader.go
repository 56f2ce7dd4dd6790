package repository

import (
	"maps"
	"slices"
	"time"

	"github.com/charmbracelet/log"

	"github.com/drupalprojects/composer/pkg/errors"
	"github.com/drupalprojects/composer/pkg/integrations/packagist"
	"github.com/drupalprojects/composer/pkg/packages"
	"github.com/drupalprojects/composer/pkg/version"
)

// releaseTimeLayouts are the timestamp formats found in registry metadata.
var releaseTimeLayouts = []string{time.RFC3339, "2006-01-02 15:04:05", "2006-01-02"}

// Loader converts registry version records into packages.
type Loader struct {
	Logger *log.Logger
}

// NewLoader creates a loader. A nil logger uses log.Default().
func NewLoader(logger *log.Logger) *Loader {
	if logger == nil {
		logger = log.Default()
	}
	return &Loader{Logger: logger}
}

// Load builds a package from one version record. Link constraints that
// cannot be parsed (such as "self.version") are kept with an any-version
// constraint and their original text.
func (l *Loader) Load(info packagist.VersionInfo) (*packages.MemoryPackage, error) {
	if info.Name == "" {
		return nil, errors.New(errors.ErrCodeInvalidPackage, "version record without package name")
	}
	normalized, err := normalizedVersion(info)
	if err != nil {
		return nil, err
	}

	p := packages.NewMemoryPackage(info.Name, normalized, info.Version)
	if info.Type != "" {
		p.SetType(info.Type)
	}
	if s := info.Source; s != nil {
		p.SetSource(s.Type, s.URL, s.Reference)
	}
	if d := info.Dist; d != nil {
		p.SetDist(d.Type, d.URL, d.Reference, d.Shasum)
	}

	p.SetDescription(info.Description)
	p.SetHomepage(info.Homepage)
	p.SetLicense(info.License)
	p.SetKeywords(info.Keywords)
	p.SetBinaries(info.Bin)
	p.SetExtra(info.Extra)
	p.SetSuggests(info.Suggest)
	if t, ok := parseReleaseTime(info.Time); ok {
		p.SetReleaseDate(t)
	}

	for typ, m := range map[packages.LinkType]map[string]string{
		packages.Require:    info.Require,
		packages.DevRequire: info.RequireDev,
		packages.Conflict:   info.Conflict,
		packages.Provide:    info.Provide,
		packages.Replace:    info.Replace,
	} {
		if len(m) > 0 {
			p.SetLinks(typ, l.links(p.PrettyName(), typ, m))
		}
	}
	return p, nil
}

// LoadAll builds every loadable record. Records with unusable versions are
// skipped and logged at debug level.
func (l *Loader) LoadAll(infos []packagist.VersionInfo) []*packages.MemoryPackage {
	out := make([]*packages.MemoryPackage, 0, len(infos))
	for _, info := range infos {
		p, err := l.Load(info)
		if err != nil {
			l.Logger.Debug("skipping version", "package", info.Name, "version", info.Version, "err", err)
			continue
		}
		out = append(out, p)
	}
	return out
}

// links builds the links of one type ordered by target name. Registry
// metadata arrives as JSON objects, so manifest order is not available and
// provide/replace matching runs over this sorted list.
func (l *Loader) links(source string, typ packages.LinkType, m map[string]string) []*packages.Link {
	links := make([]*packages.Link, 0, len(m))
	for _, target := range slices.Sorted(maps.Keys(m)) {
		expr := m[target]
		link, err := packages.ParseLink(source, target, typ, expr)
		if err != nil {
			l.Logger.Debug("unparsable link constraint", "source", source, "target", target, "constraint", expr)
			link = packages.NewLink(source, target, nil, typ.Description(), expr)
		}
		links = append(links, link)
	}
	return links
}

func normalizedVersion(info packagist.VersionInfo) (string, error) {
	if info.VersionNormalized != "" {
		if n, err := version.Normalize(info.VersionNormalized); err == nil {
			return n, nil
		}
	}
	n, err := version.Normalize(info.Version)
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeInvalidVersion, err, "invalid version %q of %s", info.Version, info.Name)
	}
	return n, nil
}

func parseReleaseTime(s string) (time.Time, bool) {
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range releaseTimeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), true
		}
	}
	return time.Time{}, false
}

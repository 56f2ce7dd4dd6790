package packages

// releaseDateLayout is the timestamp layout used by registry metadata.
const releaseDateLayout = "2006-01-02 15:04:05"

// Dump exports a package into the array form used by registries and lock
// data. Only name and both versions are always present; every other key is
// emitted when set.
func Dump(p Package) map[string]any {
	data := map[string]any{
		"name":               p.PrettyName(),
		"version":            p.PrettyVersion(),
		"version_normalized": p.Version(),
	}

	if t := p.Type(); t != "" {
		data["type"] = t
	}
	if s := p.InstallationSource(); s != NotInstalled {
		data["installation-source"] = string(s)
	}

	if p.SourceType() != "" {
		data["source"] = map[string]any{
			"type":      p.SourceType(),
			"url":       p.SourceURL(),
			"reference": p.SourceReference(),
		}
	}
	if p.DistType() != "" {
		data["dist"] = map[string]any{
			"type":      p.DistType(),
			"url":       p.DistURL(),
			"reference": p.DistReference(),
			"shasum":    p.DistSHA1Checksum(),
		}
	}

	if t := p.ReleaseDate(); !t.IsZero() {
		data["time"] = t.Format(releaseDateLayout)
	}
	if d := p.Description(); d != "" {
		data["description"] = d
	}
	if h := p.Homepage(); h != "" {
		data["homepage"] = h
	}
	if k := p.Keywords(); len(k) > 0 {
		data["keywords"] = k
	}
	if l := p.License(); len(l) > 0 {
		data["license"] = l
	}
	if b := p.Binaries(); len(b) > 0 {
		data["bin"] = b
	}
	if e := p.Extra(); len(e) > 0 {
		data["extra"] = e
	}
	if s := p.Suggests(); len(s) > 0 {
		data["suggest"] = s
	}

	for _, typ := range LinkTypes {
		links := linksOf(p, typ)
		if len(links) == 0 {
			continue
		}
		m := make(map[string]string, len(links))
		for _, l := range links {
			m[l.Target()] = l.PrettyConstraint()
		}
		data[string(typ)] = m
	}

	return data
}

func linksOf(p Package, typ LinkType) []*Link {
	switch typ {
	case Require:
		return p.Requires()
	case DevRequire:
		return p.DevRequires()
	case Conflict:
		return p.Conflicts()
	case Provide:
		return p.Provides()
	case Replace:
		return p.Replaces()
	}
	return nil
}

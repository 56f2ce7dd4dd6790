// Package version normalizes package versions and evaluates version
// constraints.
//
// Normalized versions take the form "major.minor.patch[.revision][-modifier[N]]"
// where a zero revision is omitted and the modifier is one of dev, alpha, beta,
// rc or patch. Branch versions keep their
// "dev-<branch>" form and only compare for equality. Numeric comparison is
// delegated to github.com/Masterminds/semver/v3; modifiers are ordered
// dev < alpha < beta < rc < (stable) < patch.
package version

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/Masterminds/semver/v3"

	"github.com/drupalprojects/composer/pkg/errors"
)

// BranchPrefix marks a version that tracks a branch rather than a release.
const BranchPrefix = "dev-"

// branchAliasNumber replaces "x" and "*" segments in numbered dev branches
// such as "1.0.x-dev", so they sort after every release of that series.
const branchAliasNumber = "9999999"

var (
	versionRegex = regexp.MustCompile(`(?i)^v?(\d+)(?:\.(\d+))?(?:\.(\d+))?(?:\.(\d+))?` +
		`(?:[._-]?(stable|beta|b|rc|alpha|a|patch|pl|p)(?:[.-]?(\d+))?)?([.-]?dev)?$`)
	devBranchRegex = regexp.MustCompile(`(?i)^v?(\d+)(?:\.(\d+|[x*]))?(?:\.(\d+|[x*]))?(?:\.[x*])?[.-]dev$`)
)

var modifierRank = map[string]int{
	"dev":   0,
	"alpha": 1,
	"beta":  2,
	"rc":    3,
	"":      4,
	"patch": 5,
}

// Version is a parsed, normalized version.
type Version struct {
	normalized string
	branch     bool
	core       *semver.Version
	revision   uint64
	modifier   string
	number     int
}

// IsBranch reports whether v is a "dev-<branch>" version.
func IsBranch(v string) bool {
	return strings.HasPrefix(strings.ToLower(v), BranchPrefix)
}

// Normalize converts a pretty version such as "v1.0", "1.0.0BETA3" or
// "2.2.0-DEV" into its canonical form. Branch names are kept as "dev-<name>".
func Normalize(v string) (string, error) {
	parsed, err := Parse(v)
	if err != nil {
		return "", err
	}
	return parsed.String(), nil
}

// MustNormalize is like Normalize but panics on invalid input.
// It is intended for tests and package literals.
func MustNormalize(v string) string {
	n, err := Normalize(v)
	if err != nil {
		panic(err)
	}
	return n
}

// Parse parses a pretty or normalized version.
func Parse(v string) (*Version, error) {
	v = strings.TrimSpace(v)
	if v == "" {
		return nil, errors.New(errors.ErrCodeInvalidVersion, "version cannot be empty")
	}

	if IsBranch(v) {
		name := v[len(BranchPrefix):]
		if name == "" {
			return nil, errors.New(errors.ErrCodeInvalidVersion, "invalid branch version %q", v)
		}
		return &Version{normalized: BranchPrefix + name, branch: true}, nil
	}

	if m := versionRegex.FindStringSubmatch(v); m != nil {
		return fromParts(v, m[1], m[2], m[3], m[4], m[5], m[6], m[7] != "")
	}

	if m := devBranchRegex.FindStringSubmatch(v); m != nil {
		parts := []string{m[1], m[2], m[3]}
		wild := false
		for i := range parts {
			if wild || parts[i] == "" || parts[i] == "x" || parts[i] == "X" || parts[i] == "*" {
				parts[i] = branchAliasNumber
				wild = true
			}
		}
		return fromParts(v, parts[0], parts[1], parts[2], "", "", "", true)
	}

	return nil, errors.New(errors.ErrCodeInvalidVersion, "invalid version string %q", v)
}

func fromParts(raw, major, minor, patch, fourth, modifier, number string, dev bool) (*Version, error) {
	nums := make([]uint64, 4)
	for i, s := range []string{major, minor, patch, fourth} {
		if s == "" {
			continue
		}
		n, err := strconv.ParseUint(s, 10, 64)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidVersion, err, "invalid version string %q", raw)
		}
		nums[i] = n
	}

	ver := &Version{core: semver.New(nums[0], nums[1], nums[2], "", ""), revision: nums[3]}

	switch strings.ToLower(modifier) {
	case "", "stable":
	case "b", "beta":
		ver.modifier = "beta"
	case "a", "alpha":
		ver.modifier = "alpha"
	case "rc":
		ver.modifier = "rc"
	case "p", "pl", "patch":
		ver.modifier = "patch"
	}
	if number != "" && ver.modifier != "" {
		n, err := strconv.Atoi(number)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidVersion, err, "invalid version string %q", raw)
		}
		ver.number = n
	}
	// A "-dev" suffix on a release series takes precedence over any modifier.
	if dev {
		ver.modifier = "dev"
		ver.number = 0
	}

	ver.normalized = ver.render()
	return ver, nil
}

func (v *Version) render() string {
	var sb strings.Builder
	sb.WriteString(v.core.String())
	if v.revision > 0 {
		sb.WriteByte('.')
		sb.WriteString(strconv.FormatUint(v.revision, 10))
	}
	if v.modifier != "" {
		sb.WriteByte('-')
		sb.WriteString(v.modifier)
		if v.number > 0 {
			sb.WriteString(strconv.Itoa(v.number))
		}
	}
	return sb.String()
}

// String returns the normalized form.
func (v *Version) String() string { return v.normalized }

// IsBranch reports whether the version tracks a named branch.
func (v *Version) IsBranch() bool { return v.branch }

// Stability returns the stability implied by the version.
func (v *Version) Stability() Stability { return ParseStability(v.normalized) }

// Compare orders two release versions and returns -1, 0 or +1. Branch
// versions are only equal to themselves; comparing a branch with anything else
// reports ok=false.
func (v *Version) Compare(o *Version) (cmp int, ok bool) {
	if v.branch || o.branch {
		if v.normalized == o.normalized {
			return 0, true
		}
		return 0, false
	}
	if c := v.core.Compare(o.core); c != 0 {
		return c, true
	}
	if v.revision != o.revision {
		if v.revision < o.revision {
			return -1, true
		}
		return 1, true
	}
	if a, b := modifierRank[v.modifier], modifierRank[o.modifier]; a != b {
		if a < b {
			return -1, true
		}
		return 1, true
	}
	switch {
	case v.number < o.number:
		return -1, true
	case v.number > o.number:
		return 1, true
	}
	return 0, true
}

// Compare parses and compares two normalized versions with the given operator
// (==, !=, <, <=, >, >=). Branch versions only support == and !=.
func Compare(a, b, operator string) bool {
	va, err := Parse(a)
	if err != nil {
		return false
	}
	vb, err := Parse(b)
	if err != nil {
		return false
	}

	c, ok := va.Compare(vb)
	if !ok {
		// Distinct versions where at least one is a branch.
		return operator == "!="
	}
	if va.branch || vb.branch {
		switch operator {
		case "==":
			return true
		case "!=":
			return false
		}
		return false
	}

	switch operator {
	case "==":
		return c == 0
	case "!=":
		return c != 0
	case "<":
		return c < 0
	case "<=":
		return c <= 0
	case ">":
		return c > 0
	case ">=":
		return c >= 0
	}
	return false
}

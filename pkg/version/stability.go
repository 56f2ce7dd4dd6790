package version

import (
	"regexp"
	"strings"

	"github.com/drupalprojects/composer/pkg/errors"
)

// Stability classifies how mature a release is. Lower values are more stable,
// so stabilities can be compared directly: Stable < RC < Beta < Alpha < Dev.
type Stability int

const (
	Stable Stability = 0
	RC     Stability = 5
	Beta   Stability = 10
	Alpha  Stability = 15
	Dev    Stability = 20
)

var stabilityNames = map[Stability]string{
	Stable: "stable",
	RC:     "RC",
	Beta:   "beta",
	Alpha:  "alpha",
	Dev:    "dev",
}

// String returns the conventional name of the stability.
func (s Stability) String() string {
	if name, ok := stabilityNames[s]; ok {
		return name
	}
	return "unknown"
}

// ParseStabilityName converts a stability name such as "beta" or "RC" back to
// its value. Matching is case-insensitive.
func ParseStabilityName(name string) (Stability, error) {
	for s, n := range stabilityNames {
		if strings.EqualFold(n, name) {
			return s, nil
		}
	}
	return Stable, errors.New(errors.ErrCodeInvalidVersion, "unknown stability %q", name)
}

var modifierRegex = regexp.MustCompile(`(?i)(?:[^a-z]|^)(stable|beta|b|rc|alpha|a|patch|pl|p)(?:[.-]?\d+)?$`)

// ParseStability derives the stability of a version string, pretty or
// normalized. Branches ("dev-*") and "-dev" suffixed versions are Dev.
func ParseStability(v string) Stability {
	lower := strings.ToLower(strings.TrimSpace(v))
	if strings.HasPrefix(lower, "dev-") || strings.HasSuffix(lower, "-dev") {
		return Dev
	}

	m := modifierRegex.FindStringSubmatch(lower)
	if m == nil {
		return Stable
	}
	switch m[1] {
	case "beta", "b":
		return Beta
	case "alpha", "a":
		return Alpha
	case "rc":
		return RC
	}
	return Stable
}

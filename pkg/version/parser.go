package version

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/drupalprojects/composer/pkg/errors"
)

var (
	operatorSpaceRegex = regexp.MustCompile(`(>=|<=|<>|!=|==|=|<|>|~|\^)\s+`)
	andSplitRegex      = regexp.MustCompile(`\s*,\s*|\s+`)
	orSplitRegex       = regexp.MustCompile(`\s*\|\|?\s*`)
	stabilityFlagRegex = regexp.MustCompile(`(?i)@(stable|rc|beta|alpha|dev)$`)

	wildcardRegex = regexp.MustCompile(`(?i)^v?(\d+)(?:\.(\d+))?(?:\.(\d+))?\.[x*]$`)
	tildeRegex    = regexp.MustCompile(`(?i)^~v?(\d+)(?:\.(\d+))?(?:\.(\d+))?$`)
	caretRegex    = regexp.MustCompile(`(?i)^\^v?(\d+)(?:\.(\d+))?(?:\.(\d+))?$`)
	operatorRegex = regexp.MustCompile(`^(<>|!=|>=?|<=?|==?)?(.+)$`)
)

// ParseConstraints parses a constraint expression such as ">=1.0 <2.0",
// "~1.2 || ^2.0", "1.0.*" or "dev-master".
func ParseConstraints(expr string) (Constraint, error) {
	expr = strings.TrimSpace(expr)
	if expr == "" || expr == "*" {
		return Any(), nil
	}
	expr = operatorSpaceRegex.ReplaceAllString(expr, "$1")

	orParts := orSplitRegex.Split(expr, -1)
	ors := make([]Constraint, 0, len(orParts))
	for _, part := range orParts {
		andParts := andSplitRegex.Split(strings.TrimSpace(part), -1)
		ands := make([]Constraint, 0, len(andParts))
		for _, single := range andParts {
			if single == "" {
				continue
			}
			cs, err := parseSingle(single)
			if err != nil {
				return nil, errors.Wrap(errors.ErrCodeInvalidConstraint, err, "could not parse version constraint %q", expr)
			}
			ands = append(ands, cs...)
		}
		switch len(ands) {
		case 0:
			return nil, errors.New(errors.ErrCodeInvalidConstraint, "empty constraint in %q", expr)
		case 1:
			ors = append(ors, ands[0])
		default:
			ors = append(ors, And(ands...))
		}
	}

	if len(ors) == 1 {
		return ors[0], nil
	}
	return Or(ors...), nil
}

// MustParseConstraints is like ParseConstraints but panics on invalid input.
func MustParseConstraints(expr string) Constraint {
	c, err := ParseConstraints(expr)
	if err != nil {
		panic(err)
	}
	return c
}

func parseSingle(s string) ([]Constraint, error) {
	s = stabilityFlagRegex.ReplaceAllString(s, "")
	if s == "" || s == "*" {
		return []Constraint{Any()}, nil
	}

	if m := wildcardRegex.FindStringSubmatch(s); m != nil {
		lower, upper := bounds(m[1:], lastSet(m[1:]))
		return []Constraint{NewConstraint(">=", lower), NewConstraint("<", upper)}, nil
	}

	if m := tildeRegex.FindStringSubmatch(s); m != nil {
		// ~1.2 allows 1.x from 1.2, ~1.2.3 allows 1.2.x from 1.2.3.
		pos := lastSet(m[1:]) - 1
		if pos < 0 {
			pos = 0
		}
		lower := devLower(m[1:])
		_, upper := bounds(m[1:], pos)
		return []Constraint{NewConstraint(">=", lower), NewConstraint("<", upper)}, nil
	}

	if m := caretRegex.FindStringSubmatch(s); m != nil {
		// ^ locks the first non-zero segment.
		pos := 0
		for pos < 2 && atoi(m[1+pos]) == 0 && m[2+pos] != "" {
			pos++
		}
		lower := devLower(m[1:])
		_, upper := bounds(m[1:], pos)
		return []Constraint{NewConstraint(">=", lower), NewConstraint("<", upper)}, nil
	}

	m := operatorRegex.FindStringSubmatch(s)
	if m == nil {
		return nil, errors.New(errors.ErrCodeInvalidConstraint, "invalid constraint %q", s)
	}
	v, err := Normalize(m[2])
	if err != nil {
		return nil, err
	}
	return []Constraint{NewConstraint(m[1], v)}, nil
}

// lastSet returns the index of the last non-empty numeric segment.
func lastSet(parts []string) int {
	last := 0
	for i, p := range parts[:3] {
		if p != "" {
			last = i
		}
	}
	return last
}

// bounds returns the "-dev" lower bound of the given segments and the "-dev"
// upper bound obtained by incrementing the segment at pos.
func bounds(parts []string, pos int) (lower, upper string) {
	lower = devLower(parts)
	nums := make([]int, 3)
	for i := 0; i <= pos && i < 3; i++ {
		nums[i] = atoi(parts[i])
	}
	nums[pos]++
	return lower, strconv.Itoa(nums[0]) + "." + strconv.Itoa(nums[1]) + "." + strconv.Itoa(nums[2]) + "-dev"
}

func devLower(parts []string) string {
	return strconv.Itoa(atoi(parts[0])) + "." + strconv.Itoa(atoi(parts[1])) + "." + strconv.Itoa(atoi(parts[2])) + "-dev"
}

func atoi(s string) int {
	n, _ := strconv.Atoi(s)
	return n
}

package version

import (
	"strings"
)

// Constraint restricts the set of acceptable versions of a package.
//
// Matches reports whether the provider constraint and this constraint can be
// satisfied by a common version. A concrete package version is expressed as
// an "==" constraint.
type Constraint interface {
	Matches(provider Constraint) bool
	String() string
}

// VersionConstraint is a single operator/version pair such as ">= 1.0.0".
type VersionConstraint struct {
	operator string
	version  string
}

// NewConstraint creates a constraint for an already normalized version.
// "=" is accepted as "==" and "<>" as "!=".
func NewConstraint(operator, normalizedVersion string) *VersionConstraint {
	switch operator {
	case "=", "":
		operator = "=="
	case "<>":
		operator = "!="
	}
	return &VersionConstraint{operator: operator, version: normalizedVersion}
}

// Exact is shorthand for the "==" constraint describing one concrete version.
func Exact(normalizedVersion string) *VersionConstraint {
	return NewConstraint("==", normalizedVersion)
}

// Operator returns the comparison operator.
func (c *VersionConstraint) Operator() string { return c.operator }

// Version returns the normalized version the operator applies to.
func (c *VersionConstraint) Version() string { return c.version }

// Matches implements Constraint. Two single constraints match when the
// intervals they describe intersect; anything else is asked to match c.
func (c *VersionConstraint) Matches(provider Constraint) bool {
	if p, ok := provider.(*VersionConstraint); ok {
		return c.matchSpecific(p)
	}
	return provider.Matches(c)
}

func (c *VersionConstraint) matchSpecific(provider *VersionConstraint) bool {
	noEq := strings.ReplaceAll(c.operator, "=", "")
	providerNoEq := strings.ReplaceAll(provider.operator, "=", "")

	// Inequalities pointing the same way always overlap.
	if c.operator != "==" && noEq == providerNoEq {
		return true
	}

	if Compare(provider.version, c.version, c.operator) {
		// Equal bounds only overlap if both sides include the bound.
		if provider.version == c.version && provider.operator == providerNoEq && c.operator != noEq {
			return false
		}
		return true
	}
	return false
}

func (c *VersionConstraint) String() string {
	return c.operator + " " + c.version
}

// MultiConstraint combines constraints conjunctively (all must match) or
// disjunctively (any may match).
type MultiConstraint struct {
	constraints []Constraint
	conjunctive bool
}

// And returns a constraint matching only when every member matches.
func And(constraints ...Constraint) *MultiConstraint {
	return &MultiConstraint{constraints: constraints, conjunctive: true}
}

// Or returns a constraint matching when any member matches.
func Or(constraints ...Constraint) *MultiConstraint {
	return &MultiConstraint{constraints: constraints}
}

// Constraints returns the members.
func (m *MultiConstraint) Constraints() []Constraint { return m.constraints }

// IsConjunctive reports whether all members must match.
func (m *MultiConstraint) IsConjunctive() bool { return m.conjunctive }

// Matches implements Constraint.
func (m *MultiConstraint) Matches(provider Constraint) bool {
	if !m.conjunctive {
		for _, c := range m.constraints {
			if c.Matches(provider) {
				return true
			}
		}
		return false
	}
	for _, c := range m.constraints {
		if !c.Matches(provider) {
			return false
		}
	}
	return true
}

func (m *MultiConstraint) String() string {
	parts := make([]string, len(m.constraints))
	for i, c := range m.constraints {
		parts[i] = c.String()
	}
	sep := " || "
	if m.conjunctive {
		sep = " "
	}
	return "[" + strings.Join(parts, sep) + "]"
}

// AnyConstraint matches every version.
type AnyConstraint struct{}

// Any returns the match-all constraint ("*").
func Any() AnyConstraint { return AnyConstraint{} }

// Matches implements Constraint.
func (AnyConstraint) Matches(Constraint) bool { return true }

func (AnyConstraint) String() string { return "*" }

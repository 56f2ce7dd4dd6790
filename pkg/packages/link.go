package packages

import (
	"fmt"
	"strings"

	"github.com/drupalprojects/composer/pkg/version"
)

// LinkType is the kind of relation a Link expresses.
type LinkType string

const (
	Require    LinkType = "require"
	DevRequire LinkType = "require-dev"
	Conflict   LinkType = "conflict"
	Provide    LinkType = "provide"
	Replace    LinkType = "replace"
)

// Description returns the verb used when the relation is displayed.
func (t LinkType) Description() string {
	switch t {
	case Require:
		return "requires"
	case DevRequire:
		return "requires (for development)"
	case Conflict:
		return "conflicts"
	case Provide:
		return "provides"
	case Replace:
		return "replaces"
	}
	return string(t)
}

// LinkTypes lists every relation in the order they are dumped.
var LinkTypes = []LinkType{Require, DevRequire, Conflict, Provide, Replace}

// Link is a directed relation from one package to a constrained target name.
type Link struct {
	source           string
	target           string
	constraint       version.Constraint
	description      string
	prettyConstraint string
}

// NewLink creates a link. Source and target names are lowercased; a nil
// constraint matches any version.
func NewLink(source, target string, constraint version.Constraint, description, prettyConstraint string) *Link {
	if constraint == nil {
		constraint = version.Any()
	}
	if prettyConstraint == "" {
		prettyConstraint = constraint.String()
	}
	return &Link{
		source:           strings.ToLower(source),
		target:           strings.ToLower(target),
		constraint:       constraint,
		description:      description,
		prettyConstraint: prettyConstraint,
	}
}

// ParseLink builds a link of the given type from a constraint expression.
func ParseLink(source, target string, typ LinkType, expr string) (*Link, error) {
	c, err := version.ParseConstraints(expr)
	if err != nil {
		return nil, err
	}
	return NewLink(source, target, c, typ.Description(), expr), nil
}

func (l *Link) Source() string                 { return l.source }
func (l *Link) Target() string                 { return l.target }
func (l *Link) Constraint() version.Constraint { return l.constraint }
func (l *Link) Description() string            { return l.description }
func (l *Link) PrettyConstraint() string       { return l.prettyConstraint }

func (l *Link) String() string {
	return fmt.Sprintf("%s %s %s (%s)", l.source, l.description, l.target, l.prettyConstraint)
}

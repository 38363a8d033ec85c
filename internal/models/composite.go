package models

import (
	"fmt"
	"regexp"
	"strings"
)

// CompositeName is the two-slot placeholder recording an unresolved
// two-classifier disagreement. Either side may be empty. It is serialized as
// "(p::<padloc>|d::<finder>)" only at the profile-row boundary; everything
// upstream works with the struct.
type CompositeName struct {
	Padloc string
	Finder string
}

var compositePattern = regexp.MustCompile(`^\(p::([^|]*)\|d::([^)]*)\)$`)

// Format serializes the placeholder. Downstream classification parses this
// exact bracket/pipe syntax, so the format is a contract.
func (c CompositeName) Format() string {
	return fmt.Sprintf("(p::%s|d::%s)", c.Padloc, c.Finder)
}

// ParseComposite splits a serialized placeholder back into its two sides.
// The second return is false for plain (non-composite) names.
func ParseComposite(name string) (CompositeName, bool) {
	m := compositePattern.FindStringSubmatch(name)
	if m == nil {
		return CompositeName{}, false
	}
	return CompositeName{
		Padloc: strings.TrimSpace(m[1]),
		Finder: strings.TrimSpace(m[2]),
	}, true
}

// IsComposite reports whether a final name uses the placeholder encoding.
func IsComposite(name string) bool {
	return strings.HasPrefix(name, "(p::") && strings.Contains(name, "|d::")
}

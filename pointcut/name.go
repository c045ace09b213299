package pointcut

import (
	"strings"

	"github.com/glimte/weave-go/contracts"
)

// NameMatch matches methods by name pattern. Patterns are either literal
// names or simple globs with a single leading or trailing star, e.g. "Get*",
// "*Balance", "Deposit".
type NameMatch struct {
	patterns []string
}

// NewNameMatch creates a pointcut matching any of the given name patterns on
// every type.
func NewNameMatch(patterns ...string) *NameMatch {
	return &NameMatch{patterns: patterns}
}

// MatchesType implements Pointcut; name matching is method-level only.
func (n *NameMatch) MatchesType(t *contracts.TypeInfo) bool {
	return true
}

// MatchesMethod implements Pointcut.
func (n *NameMatch) MatchesMethod(t *contracts.TypeInfo, m *contracts.Method) bool {
	return MatchesName(m.Name, n.patterns...)
}

// MatchesName reports whether name matches any of the given patterns. It is
// shared with the introduction guard, which uses the same pattern syntax for
// its allow/deny lists.
func MatchesName(name string, patterns ...string) bool {
	for _, p := range patterns {
		if matchPattern(name, p) {
			return true
		}
	}
	return false
}

func matchPattern(name, pattern string) bool {
	switch {
	case pattern == "*":
		return true
	case strings.HasPrefix(pattern, "*") && strings.HasSuffix(pattern, "*") && len(pattern) > 1:
		return strings.Contains(name, pattern[1:len(pattern)-1])
	case strings.HasPrefix(pattern, "*"):
		return strings.HasSuffix(name, pattern[1:])
	case strings.HasSuffix(pattern, "*"):
		return strings.HasPrefix(name, pattern[:len(pattern)-1])
	default:
		return name == pattern
	}
}

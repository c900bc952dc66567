package selectors

import (
	"regexp"
	"strings"
)

// RootPseudoClass is the only pseudo-class selector Normalize accepts.
const RootPseudoClass = ":root"

var (
	classSelectorPattern     = regexp.MustCompile(`^\.[A-Za-z_][A-Za-z0-9_-]*$`)
	idSelectorPattern        = regexp.MustCompile(`^#[A-Za-z_][A-Za-z0-9_-]*$`)
	attributeSelectorPattern = regexp.MustCompile(`^\[[A-Za-z0-9_-]+=[A-Za-z0-9_-]+\]$`)
	tagSelectorPattern       = regexp.MustCompile(`^[a-z][a-z0-9-]*$`)
	whitespaceRunPattern     = regexp.MustCompile(`\s+`)
)

// Normalize returns the canonical, valid and unique selectors among tokens in
// first-seen order. Invalid tokens are dropped silently.
func Normalize(tokens []string) []string {
	seen := make(map[string]struct{}, len(tokens))
	normalized := make([]string, 0, len(tokens))
	for _, token := range tokens {
		canonical, valid := Canonicalize(token)
		if !valid {
			continue
		}
		if _, duplicate := seen[canonical]; duplicate {
			continue
		}
		seen[canonical] = struct{}{}
		normalized = append(normalized, canonical)
	}
	return normalized
}

// Canonicalize trims token, collapses internal whitespace and validates it
// against the grammar selected by its first character.
func Canonicalize(token string) (string, bool) {
	trimmed := strings.TrimSpace(token)
	if trimmed == "" {
		return "", false
	}
	canonical := whitespaceRunPattern.ReplaceAllString(trimmed, " ")
	switch canonical[0] {
	case '.':
		return canonical, classSelectorPattern.MatchString(canonical)
	case '#':
		return canonical, idSelectorPattern.MatchString(canonical)
	case '[':
		return canonical, attributeSelectorPattern.MatchString(canonical)
	case ':':
		return canonical, canonical == RootPseudoClass
	default:
		return canonical, tagSelectorPattern.MatchString(canonical)
	}
}

// IsTag reports whether selector is a bare HTML tag selector.
func IsTag(selector string) bool {
	return tagSelectorPattern.MatchString(selector)
}

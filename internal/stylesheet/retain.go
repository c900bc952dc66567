package stylesheet

import (
	"strings"

	"go.uber.org/zap"
)

const themeAttributeName = "data-bs-theme"

var (
	preservedAtRules = map[string]struct{}{
		"font-face":           {},
		"keyframes":           {},
		"page":                {},
		"property":            {},
		"counter-style":       {},
		"font-feature-values": {},
		"font-palette-values": {},
		"viewport":            {},
	}
	groupingAtRules = map[string]struct{}{
		"media":          {},
		"supports":       {},
		"layer":          {},
		"container":      {},
		"document":       {},
		"scope":          {},
		"starting-style": {},
	}
	baselineTypes = map[string]struct{}{
		"html": {},
		"body": {},
	}
)

// Retain drops every rule with no surviving selector. A complex selector
// survives when each class, id, type and data-bs-theme attribute it names is
// in selectors. Grouping at-rules left empty are dropped with their rules.
func (sheet *Sheet) Retain(selectors []string) {
	keptSelectors := make(map[string]struct{}, len(selectors))
	for _, selector := range selectors {
		keptSelectors[selector] = struct{}{}
	}
	before := countRules(sheet.nodes)
	sheet.nodes = retainNodes(sheet.nodes, keptSelectors)
	sheet.logger.Debug("rules retained", zap.Int("before", before), zap.Int("after", countRules(sheet.nodes)))
}

func retainNodes(nodes []*node, keptSelectors map[string]struct{}) []*node {
	retained := nodes[:0]
	for _, current := range nodes {
		switch current.kind {
		case ruleNode:
			survivingSelectors := current.selectors[:0]
			for _, selectorTokens := range current.selectors {
				if selectorSurvives(joinSelector(selectorTokens, false), keptSelectors) {
					survivingSelectors = append(survivingSelectors, selectorTokens)
				}
			}
			if len(survivingSelectors) == 0 {
				continue
			}
			current.selectors = survivingSelectors
			current.children = retainNodes(current.children, keptSelectors)
		case blockNode:
			atRuleName := unprefixedAtRuleName(current.name)
			if _, preserved := preservedAtRules[atRuleName]; preserved {
				break
			}
			if _, grouping := groupingAtRules[atRuleName]; grouping {
				current.children = retainNodes(current.children, keptSelectors)
				if len(current.children) == 0 && len(current.declarations) == 0 && len(current.raw) == 0 {
					continue
				}
			}
		}
		retained = append(retained, current)
	}
	return retained
}

// unprefixedAtRuleName turns "@-webkit-keyframes" into "keyframes".
func unprefixedAtRuleName(name string) string {
	trimmed := strings.TrimPrefix(name, "@")
	if strings.HasPrefix(trimmed, "-") {
		if separator := strings.Index(trimmed[1:], "-"); separator >= 0 {
			return trimmed[separator+2:]
		}
	}
	return trimmed
}

func countRules(nodes []*node) int {
	count := 0
	for _, current := range nodes {
		if current.kind == ruleNode {
			count++
		}
		count += countRules(current.children)
	}
	return count
}

// selectorSurvives reports whether every tracked simple selector in the
// complex selector is kept.
func selectorSurvives(selector string, keptSelectors map[string]struct{}) bool {
	for _, requirement := range selectorRequirements(selector) {
		if _, kept := keptSelectors[requirement]; !kept {
			return false
		}
	}
	return true
}

// selectorRequirements lists the canonical simple selectors a complex
// selector depends on. Pseudo-classes, pseudo-elements and their arguments,
// the universal selector, html, body and untracked attributes add nothing.
func selectorRequirements(selector string) []string {
	var requirements []string
	position := 0
	for position < len(selector) {
		character := selector[position]
		switch {
		case character == '.':
			name, next := readIdentifier(selector, position+1)
			if name != "" {
				requirements = append(requirements, "."+name)
			}
			position = next
		case character == '#':
			name, next := readIdentifier(selector, position+1)
			if name != "" {
				requirements = append(requirements, "#"+name)
			}
			position = next
		case character == '[':
			end := strings.IndexByte(selector[position:], ']')
			if end < 0 {
				return requirements
			}
			if requirement, tracked := attributeRequirement(selector[position+1 : position+end]); tracked {
				requirements = append(requirements, requirement)
			}
			position += end + 1
		case character == ':':
			position = skipPseudo(selector, position)
		case isIdentifierStart(character):
			name, next := readIdentifier(selector, position)
			typeName := strings.ToLower(name)
			if _, baseline := baselineTypes[typeName]; !baseline {
				requirements = append(requirements, typeName)
			}
			position = next
		default:
			position++
		}
	}
	return requirements
}

// attributeRequirement returns "[data-bs-theme=value]" for a theme attribute
// matched against a value. Other attributes are not tracked.
func attributeRequirement(attribute string) (string, bool) {
	name, value, hasValue := strings.Cut(attribute, "=")
	name = strings.ToLower(strings.TrimSpace(name))
	if !hasValue || name != themeAttributeName {
		return "", false
	}
	value = strings.TrimSpace(value)
	value = strings.Trim(value, `"'`)
	return "[" + themeAttributeName + "=" + value + "]", true
}

// skipPseudo moves past ":name", "::name" and any parenthesised argument.
func skipPseudo(selector string, position int) int {
	for position < len(selector) && selector[position] == ':' {
		position++
	}
	_, position = readIdentifier(selector, position)
	if position < len(selector) && selector[position] == '(' {
		depth := 0
		for position < len(selector) {
			switch selector[position] {
			case '(':
				depth++
			case ')':
				depth--
			}
			position++
			if depth == 0 {
				break
			}
		}
	}
	return position
}

// readIdentifier reads a CSS identifier starting at position, resolving
// single-character escapes.
func readIdentifier(selector string, position int) (string, int) {
	var builder strings.Builder
	for position < len(selector) {
		character := selector[position]
		switch {
		case character == '\\' && position+1 < len(selector):
			builder.WriteByte(selector[position+1])
			position += 2
		case isIdentifierCharacter(character):
			builder.WriteByte(character)
			position++
		default:
			return builder.String(), position
		}
	}
	return builder.String(), position
}

func isIdentifierStart(character byte) bool {
	return character >= 'a' && character <= 'z' || character >= 'A' && character <= 'Z' || character == '_' || character >= 0x80
}

func isIdentifierCharacter(character byte) bool {
	return isIdentifierStart(character) || character >= '0' && character <= '9' || character == '-'
}

package selectors

import (
	"regexp"
	"strings"
)

const (
	classPrefix = "."
	idPrefix    = "#"

	themeAttributeName = "data-bs-theme"
)

var (
	identifierPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_-]*$`)

	templateCommentPattern    = regexp.MustCompile(`(?s)\{#.*?#\}`)
	templateSpanPattern       = regexp.MustCompile(`(?s)\{\{.*?\}\}|\{%.*?%\}`)
	quotedLiteralPattern      = regexp.MustCompile(`"([^"]*)"|'([^']*)'`)
	classAttributePattern     = regexp.MustCompile(`(?is)\bclass\s*=\s*(?:"([^"]*)"|'([^']*)')`)
	classNameAttributePattern = regexp.MustCompile(`(?is)\bclassName\s*=\s*(?:"([^"]*)"|'([^']*)')`)
	idAttributePattern        = regexp.MustCompile(`(?is)\bid\s*=\s*(?:"([^"]*)"|'([^']*)')`)
	themeAttributePattern     = regexp.MustCompile(`(?is)data-bs-theme\s*=\s*(?:"([A-Za-z0-9_-]+)"|'([A-Za-z0-9_-]+)'|([A-Za-z0-9_-]+))`)
	openTagPattern            = regexp.MustCompile(`(?i)<\s*([a-z][a-z0-9-]*)[^>]*>`)
	classListCallPattern      = regexp.MustCompile(`(?is)classList\.(?:add|toggle)\s*\(([^)]*)\)`)
	classListArgumentPattern  = regexp.MustCompile(`["']([A-Za-z0-9_-]+)["']`)
)

// extractionPass reads text and returns the text later passes should see
// together with the raw tokens it found.
type extractionPass func(text string) (string, []string)

// extractionPasses run in order. Template comments must disappear before any
// other pass and template spans must disappear after their literals are read,
// otherwise hidden or templated markup would surface as selectors.
var extractionPasses = []extractionPass{
	stripTemplateComments,
	extractTemplateLiterals,
	extractClassAttributes,
	extractClassNameAttributes,
	extractIDAttributes,
	extractThemeAttributes,
	extractOpenTags,
	extractClassListCalls,
}

// Extract returns the raw selector tokens found in content.
// Tokens may repeat; pass them through Normalize before use.
func Extract(content string) []string {
	workingText := content
	var tokens []string
	for _, pass := range extractionPasses {
		var passTokens []string
		workingText, passTokens = pass(workingText)
		tokens = append(tokens, passTokens...)
	}
	return tokens
}

// IsIdentifier reports whether value can follow "." or "#" in a selector.
func IsIdentifier(value string) bool {
	return identifierPattern.MatchString(value)
}

func stripTemplateComments(text string) (string, []string) {
	return templateCommentPattern.ReplaceAllString(text, " "), nil
}

func extractTemplateLiterals(text string) (string, []string) {
	var tokens []string
	for _, span := range templateSpanPattern.FindAllString(text, -1) {
		for _, literalMatch := range quotedLiteralPattern.FindAllStringSubmatch(span, -1) {
			literal := firstGroup(literalMatch)
			if IsIdentifier(literal) {
				tokens = append(tokens, classPrefix+literal)
			}
		}
	}
	return templateSpanPattern.ReplaceAllString(text, " "), tokens
}

func extractClassAttributes(text string) (string, []string) {
	return text, classListTokens(classAttributePattern, text)
}

func extractClassNameAttributes(text string) (string, []string) {
	return text, classListTokens(classNameAttributePattern, text)
}

func classListTokens(pattern *regexp.Regexp, text string) []string {
	var tokens []string
	for _, attributeMatch := range pattern.FindAllStringSubmatch(text, -1) {
		for _, className := range strings.Fields(firstGroup(attributeMatch)) {
			if IsIdentifier(className) {
				tokens = append(tokens, classPrefix+className)
			}
		}
	}
	return tokens
}

func extractIDAttributes(text string) (string, []string) {
	var tokens []string
	for _, attributeMatch := range idAttributePattern.FindAllStringSubmatch(text, -1) {
		idValue := strings.TrimSpace(firstGroup(attributeMatch))
		if IsIdentifier(idValue) {
			tokens = append(tokens, idPrefix+idValue)
		}
	}
	return text, tokens
}

func extractThemeAttributes(text string) (string, []string) {
	var tokens []string
	for _, attributeMatch := range themeAttributePattern.FindAllStringSubmatch(text, -1) {
		tokens = append(tokens, "["+themeAttributeName+"="+firstGroup(attributeMatch)+"]")
	}
	return text, tokens
}

func extractOpenTags(text string) (string, []string) {
	var tokens []string
	for _, tagMatch := range openTagPattern.FindAllStringSubmatch(text, -1) {
		tokens = append(tokens, strings.ToLower(tagMatch[1]))
	}
	return text, tokens
}

func extractClassListCalls(text string) (string, []string) {
	var tokens []string
	for _, callMatch := range classListCallPattern.FindAllStringSubmatch(text, -1) {
		for _, argumentMatch := range classListArgumentPattern.FindAllStringSubmatch(callMatch[1], -1) {
			if IsIdentifier(argumentMatch[1]) {
				tokens = append(tokens, classPrefix+argumentMatch[1])
			}
		}
	}
	return text, tokens
}

// firstGroup returns the first non-empty capture group of an alternation match.
func firstGroup(match []string) string {
	for _, group := range match[1:] {
		if group != "" {
			return group
		}
	}
	return ""
}

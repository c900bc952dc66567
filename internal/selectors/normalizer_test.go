package selectors_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/temirov/csskit/internal/selectors"
)

func TestNormalizeGrammar(t *testing.T) {
	testCases := []struct {
		name     string
		token    string
		expected string
		valid    bool
	}{
		{name: "class", token: ".card-1", expected: ".card-1", valid: true},
		{name: "class starting with digit", token: ".1bad", valid: false},
		{name: "class with space", token: ".bad name", valid: false},
		{name: "double dot", token: "..dbl", valid: false},
		{name: "id", token: "#main", expected: "#main", valid: true},
		{name: "id starting with digit", token: "#1x", valid: false},
		{name: "attribute", token: "[data-bs-theme=dark]", expected: "[data-bs-theme=dark]", valid: true},
		{name: "attribute without value", token: "[data-bs-theme]", valid: false},
		{name: "root", token: ":root", expected: ":root", valid: true},
		{name: "other pseudo class", token: ":hover", valid: false},
		{name: "tag", token: "h1", expected: "h1", valid: true},
		{name: "padded tag", token: " invalid ", expected: "invalid", valid: true},
		{name: "upper-case tag", token: "Div", valid: false},
		{name: "tag starting with digit", token: "1div", valid: false},
		{name: "punctuation", token: "!!!", valid: false},
		{name: "empty", token: "", valid: false},
		{name: "whitespace", token: " \t\n", valid: false},
		{name: "zero width prefix", token: "\u200b.a", valid: false},
	}
	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			canonical, valid := selectors.Canonicalize(testCase.token)
			require.Equal(t, testCase.valid, valid)
			if testCase.valid {
				assert.Equal(t, testCase.expected, canonical)
			}
		})
	}
}

func TestNormalizeDeduplicates(t *testing.T) {
	assert.Equal(t, []string{".a"}, selectors.Normalize([]string{"\u200b.a", ".a", ".a"}))
	assert.Equal(t, []string{".keep", "div"}, selectors.Normalize([]string{"  .keep  ", "div", ".keep", "div"}))
}

func TestNormalizeRejectsInvalid(t *testing.T) {
	assert.Empty(t, selectors.Normalize([]string{".1bad", "#1x", ":hover", "..dbl"}))
	assert.Empty(t, selectors.Normalize([]string{"", "  ", "1abc", "!!!"}))
}

func TestNormalizeIsIdempotent(t *testing.T) {
	tokens := []string{".a", "#id", "div", "[data-bs-theme=dark]", ":root", " invalid ", "1bad", ".bad name", ".a", "#id"}
	once := selectors.Normalize(tokens)
	assert.Equal(t, once, selectors.Normalize(once))
	assert.Equal(t, []string{".a", "#id", "div", "[data-bs-theme=dark]", ":root", "invalid"}, once)
}

func TestIsTag(t *testing.T) {
	assert.True(t, selectors.IsTag("body"))
	assert.True(t, selectors.IsTag("my-widget"))
	assert.False(t, selectors.IsTag(".body"))
	assert.False(t, selectors.IsTag(":root"))
}

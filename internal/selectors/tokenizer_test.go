package selectors_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/temirov/csskit/internal/selectors"
)

func TestExtractRecognizesEverySource(t *testing.T) {
	content := `{# twig comment #}
{{ "foo" }}
{% set x = 'bar' %}
<div class="cls1 cls2"></div>
<div id="id1"></div>
<div data-bs-theme="dark"></div>
<script>el.classList.add('x','y');</script>
<h1>Hello</h1>`

	tokens := selectors.Extract(content)

	for _, expected := range []string{".foo", ".bar", ".cls1", ".cls2", "#id1", "[data-bs-theme=dark]", "h1", ".x", ".y", "div", "script"} {
		assert.Contains(t, tokens, expected)
	}
}

func TestExtractPasses(t *testing.T) {
	testCases := []struct {
		name       string
		content    string
		expected   []string
		unexpected []string
	}{
		{
			name:       "comments hide classes",
			content:    `{# class="hidden" #}<div class="visible"></div>`,
			expected:   []string{".visible"},
			unexpected: []string{".hidden"},
		},
		{
			name:     "multiline comment",
			content:  "{# <span class=\"ghost\">\n</span> #}<p></p>",
			expected: []string{"p"},
			unexpected: []string{
				".ghost", "span",
			},
		},
		{
			name:     "template print literal",
			content:  `{{ "foo" }}`,
			expected: []string{".foo"},
		},
		{
			name:       "template literal must be identifier",
			content:    `{{ "foo bar" ~ 'baz' ~ "1up" }}`,
			expected:   []string{".baz"},
			unexpected: []string{".foo bar", ".1up", ".foo"},
		},
		{
			name:       "template spans are stripped before attribute scanning",
			content:    `{% if user %}<b>{% endif %}<div class="{{ 'active' }} card"></div>`,
			expected:   []string{".active", ".card", "b", "div"},
			unexpected: []string{".{{", ".}}"},
		},
		{
			name:     "single quoted class attribute across lines",
			content:  "<div class='btn\n   btn-primary'></div>",
			expected: []string{".btn", ".btn-primary"},
		},
		{
			name:       "invalid class tokens are dropped",
			content:    `<div class="ok 9lives w-50 $weird"></div>`,
			expected:   []string{".ok", ".w-50"},
			unexpected: []string{".9lives", ".$weird"},
		},
		{
			name:     "jsx className",
			content:  `<div className="c2 c3"></div>`,
			expected: []string{".c2", ".c3"},
		},
		{
			name:       "id must be identifier",
			content:    `<a id=" main "></a><a id="two words"></a><a id='_x'></a>`,
			expected:   []string{"#main", "#_x"},
			unexpected: []string{"#two words"},
		},
		{
			name:       "attribute names must match whole words",
			content:    `<a uuid="x" subclass="z" class="real"></a>`,
			expected:   []string{".real", "a"},
			unexpected: []string{"#x", ".z"},
		},
		{
			name:     "bare theme attribute",
			content:  `<section data-bs-theme=light>`,
			expected: []string{"[data-bs-theme=light]", "section"},
		},
		{
			name:     "tag names are lower-cased",
			content:  `<NAV><My-Widget data-x="1">`,
			expected: []string{"nav", "my-widget"},
		},
		{
			name:     "classList toggle with double quotes",
			content:  `classList.toggle("toggle-class")`,
			expected: []string{".toggle-class"},
		},
		{
			name:       "classList arguments must be identifiers",
			content:    `node.classList.add('is-open', "2col", flag)`,
			expected:   []string{".is-open"},
			unexpected: []string{".2col", ".flag"},
		},
	}
	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			tokens := selectors.Extract(testCase.content)
			for _, expected := range testCase.expected {
				assert.Contains(t, tokens, expected)
			}
			for _, unexpected := range testCase.unexpected {
				assert.NotContains(t, tokens, unexpected)
			}
		})
	}
}

func TestExtractEmptyContent(t *testing.T) {
	require.Empty(t, selectors.Extract(""))
}

func TestExtractedClassesSurviveNormalization(t *testing.T) {
	classNames := []string{"a", "_b", "c-1", "D_e-F", "x9"}
	content := `<div class="` + classNames[0]
	for _, className := range classNames[1:] {
		content += " " + className
	}
	content += `"></div>`

	normalized := selectors.Normalize(selectors.Extract(content))

	for _, className := range classNames {
		assert.Contains(t, normalized, "."+className)
	}
}

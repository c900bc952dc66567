package stylesheet

import (
	"strings"

	"github.com/tdewolff/parse/v2/css"
)

const indentUnit = "  "

type tightnessRule func(token css.Token) bool

// Whitespace next to a tight token is dropped when minifying.
var (
	selectorTight tightnessRule = func(token css.Token) bool {
		return token.TokenType == css.CommaToken || isDelim(token, ">", "+", "~")
	}
	valueTight tightnessRule = func(token css.Token) bool {
		return token.TokenType == css.CommaToken || isDelim(token, "!")
	}
	preludeTight tightnessRule = func(token css.Token) bool {
		return token.TokenType == css.CommaToken || token.TokenType == css.ColonToken
	}
	rawTight tightnessRule = func(token css.Token) bool {
		switch token.TokenType {
		case css.CommaToken, css.ColonToken, css.SemicolonToken, css.LeftBraceToken, css.RightBraceToken:
			return true
		}
		return false
	}
)

func isDelim(token css.Token, delimiters ...string) bool {
	if token.TokenType != css.DelimToken {
		return false
	}
	for _, delimiter := range delimiters {
		if string(token.Data) == delimiter {
			return true
		}
	}
	return false
}

// Render serializes the stylesheet. Minified output has no insignificant
// whitespace; readable output puts one declaration per line.
func (sheet *Sheet) Render(minify bool) (string, error) {
	var builder strings.Builder
	renderNodes(&builder, sheet.nodes, minify, 0)
	return builder.String(), nil
}

func renderNodes(builder *strings.Builder, nodes []*node, minify bool, depth int) {
	for _, current := range nodes {
		indentation := ""
		if !minify {
			indentation = strings.Repeat(indentUnit, depth)
		}
		switch current.kind {
		case commentNode:
			builder.WriteString(indentation)
			builder.WriteString(current.text)
			if !minify {
				builder.WriteString("\n")
			}
		case statementNode:
			builder.WriteString(indentation)
			builder.WriteString(atRuleHeader(current, minify))
			builder.WriteString(";")
			if !minify {
				builder.WriteString("\n")
			}
		case ruleNode:
			selectorSeparator := ", "
			if minify {
				selectorSeparator = ","
			}
			renderedSelectors := make([]string, 0, len(current.selectors))
			for _, selectorTokens := range current.selectors {
				renderedSelectors = append(renderedSelectors, joinSelector(selectorTokens, minify))
			}
			builder.WriteString(indentation)
			builder.WriteString(strings.Join(renderedSelectors, selectorSeparator))
			renderBlock(builder, current, minify, depth)
		case blockNode:
			builder.WriteString(indentation)
			builder.WriteString(atRuleHeader(current, minify))
			renderBlock(builder, current, minify, depth)
		}
	}
}

func renderBlock(builder *strings.Builder, current *node, minify bool, depth int) {
	if minify {
		builder.WriteString("{")
		renderedDeclarations := make([]string, 0, len(current.declarations))
		for _, item := range current.declarations {
			renderedDeclarations = append(renderedDeclarations, renderDeclaration(item, true))
		}
		builder.WriteString(strings.Join(renderedDeclarations, ";"))
		if len(current.raw) > 0 {
			builder.WriteString(joinTokens(current.raw, true, rawTight))
		}
		renderNodes(builder, current.children, true, depth+1)
		builder.WriteString("}")
		return
	}
	innerIndentation := strings.Repeat(indentUnit, depth+1)
	builder.WriteString(" {\n")
	for _, item := range current.declarations {
		builder.WriteString(innerIndentation)
		builder.WriteString(renderDeclaration(item, false))
		builder.WriteString(";\n")
	}
	if len(current.raw) > 0 {
		builder.WriteString(innerIndentation)
		builder.WriteString(joinTokens(current.raw, false, rawTight))
		builder.WriteString("\n")
	}
	renderNodes(builder, current.children, false, depth+1)
	builder.WriteString(strings.Repeat(indentUnit, depth))
	builder.WriteString("}\n")
}

func atRuleHeader(current *node, minify bool) string {
	prelude := joinTokens(current.prelude, minify, preludeTight)
	if prelude == "" {
		return current.name
	}
	return current.name + " " + prelude
}

func renderDeclaration(item declaration, minify bool) string {
	separator := ": "
	if minify {
		separator = ":"
	}
	var value string
	if item.custom {
		var builder strings.Builder
		for _, token := range item.value {
			builder.Write(token.Data)
		}
		value = strings.TrimSpace(builder.String())
	} else {
		value = joinTokens(item.value, minify, valueTight)
	}
	return item.property + separator + value
}

func joinSelector(tokens []css.Token, minify bool) string {
	return joinTokens(tokens, minify, selectorTight)
}

// joinTokens concatenates tokens, collapsing whitespace runs to one space and
// trimming both ends. When minifying, spaces touching a tight token vanish.
func joinTokens(tokens []css.Token, minify bool, tight tightnessRule) string {
	var builder strings.Builder
	var previous *css.Token
	pendingSpace := false
	for index := range tokens {
		token := tokens[index]
		switch token.TokenType {
		case css.WhitespaceToken:
			pendingSpace = previous != nil
			continue
		case css.CommentToken:
			continue
		}
		if pendingSpace && !(minify && (tight(*previous) || tight(token))) {
			builder.WriteByte(' ')
		}
		pendingSpace = false
		builder.Write(token.Data)
		previous = &tokens[index]
	}
	return builder.String()
}

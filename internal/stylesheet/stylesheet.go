// Package stylesheet implements the CSS purge backend: it parses a compiled
// stylesheet, drops the rules whose selectors reference nothing in a kept
// selector set and renders what remains.
package stylesheet

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strings"

	parse "github.com/tdewolff/parse/v2"
	"github.com/tdewolff/parse/v2/css"
	"go.uber.org/zap"

	"github.com/temirov/csskit/internal/purge"
	"github.com/temirov/csskit/internal/types"
)

const preservedCommentPrefix = "/*!"

type nodeKind int

const (
	ruleNode nodeKind = iota
	statementNode
	blockNode
	commentNode
)

type declaration struct {
	property string
	value    []css.Token
	custom   bool
}

// node is one item of a stylesheet. Rules carry selectors, at-rules carry a
// name and prelude, and both may hold declarations, nested nodes or, for
// at-rules the parser does not understand, the raw body tokens.
type node struct {
	kind         nodeKind
	name         string
	prelude      []css.Token
	selectors    [][]css.Token
	declarations []declaration
	children     []*node
	raw          []css.Token
	text         string
}

// Sheet is a parsed stylesheet.
type Sheet struct {
	nodes  []*node
	logger *zap.Logger
}

// Backend loads stylesheets from disk for the purge service.
type Backend struct {
	logger *zap.Logger
}

var _ purge.Backend = (*Backend)(nil)
var _ purge.Stylesheet = (*Sheet)(nil)

// NewBackend creates a Backend. A nil logger disables logging.
func NewBackend(logger *zap.Logger) *Backend {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Backend{logger: logger.Named("stylesheet")}
}

// Load reads and parses the stylesheet at path.
func (backend *Backend) Load(path string) (purge.Stylesheet, error) {
	content, readError := os.ReadFile(path)
	if readError != nil {
		if errors.Is(readError, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", types.ErrInputNotFound, path)
		}
		return nil, fmt.Errorf("read stylesheet %s: %w", path, readError)
	}
	sheet, parseError := Parse(content)
	if parseError != nil {
		return nil, fmt.Errorf("%s: %w", path, parseError)
	}
	sheet.logger = backend.logger
	backend.logger.Debug("stylesheet loaded", zap.String("path", path), zap.Int("bytes", len(content)), zap.Int("nodes", len(sheet.nodes)))
	return sheet, nil
}

// Parse builds a Sheet from CSS source. Ordinary comments are discarded;
// comments starting with "/*!" are kept.
func Parse(content []byte) (*Sheet, error) {
	parser := css.NewParser(parse.NewInput(bytes.NewReader(content)), false)
	body, parseError := parseBody(parser, true)
	if parseError != nil {
		return nil, parseError
	}
	return &Sheet{nodes: body.children, logger: zap.NewNop()}, nil
}

type blockBody struct {
	children     []*node
	declarations []declaration
	raw          []css.Token
}

// parseBody consumes grammar items until the block closes or the input ends.
func parseBody(parser *css.Parser, topLevel bool) (blockBody, error) {
	var body blockBody
	var pendingSelectors [][]css.Token
	for {
		grammarType, tokenType, data := parser.Next()
		switch grammarType {
		case css.ErrorGrammar:
			parserError := parser.Err()
			if parserError == nil {
				continue
			}
			if errors.Is(parserError, io.EOF) {
				return body, nil
			}
			return body, fmt.Errorf("%w: %v", types.ErrInvalidCSS, parserError)
		case css.EndRulesetGrammar, css.EndAtRuleGrammar:
			if !topLevel {
				return body, nil
			}
		case css.CommentGrammar:
			if strings.HasPrefix(string(data), preservedCommentPrefix) {
				body.children = append(body.children, &node{kind: commentNode, text: string(data)})
			}
		case css.AtRuleGrammar:
			body.children = append(body.children, &node{
				kind:    statementNode,
				name:    strings.ToLower(string(data)),
				prelude: copyTokens(parser.Values()),
			})
		case css.BeginAtRuleGrammar:
			atRule := &node{
				kind:    blockNode,
				name:    strings.ToLower(string(data)),
				prelude: copyTokens(parser.Values()),
			}
			nested, nestedError := parseBody(parser, false)
			if nestedError != nil {
				return body, nestedError
			}
			atRule.children = nested.children
			atRule.declarations = nested.declarations
			atRule.raw = nested.raw
			body.children = append(body.children, atRule)
		case css.QualifiedRuleGrammar:
			pendingSelectors = append(pendingSelectors, copyTokens(parser.Values()))
		case css.BeginRulesetGrammar:
			rule := &node{
				kind:      ruleNode,
				selectors: append(pendingSelectors, copyTokens(parser.Values())),
			}
			pendingSelectors = nil
			nested, nestedError := parseBody(parser, false)
			if nestedError != nil {
				return body, nestedError
			}
			rule.children = nested.children
			rule.declarations = nested.declarations
			body.children = append(body.children, rule)
		case css.DeclarationGrammar:
			body.declarations = append(body.declarations, declaration{
				property: string(data),
				value:    copyTokens(parser.Values()),
			})
		case css.CustomPropertyGrammar:
			body.declarations = append(body.declarations, declaration{
				property: string(data),
				value:    copyTokens(parser.Values()),
				custom:   true,
			})
		case css.TokenGrammar:
			body.raw = append(body.raw, css.Token{TokenType: tokenType, Data: bytes.Clone(data)})
		}
	}
}

// copyTokens detaches tokens from the parser buffer, which is reused between
// calls to Next.
func copyTokens(tokens []css.Token) []css.Token {
	copied := make([]css.Token, 0, len(tokens))
	for _, token := range tokens {
		copied = append(copied, css.Token{TokenType: token.TokenType, Data: bytes.Clone(token.Data)})
	}
	return copied
}

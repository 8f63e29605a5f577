// Package sexy reads and writes the S-expression datum syntax used for Ember
// tree interchange and for golden test assertions.
package sexy

import (
	"fmt"
	"strings"
	"unicode"
)

// NodeType represents the type of a Node
type NodeType int

const (
	NodeSymbol NodeType = iota
	NodeString
	NodeInteger
	NodeEllipsis
	NodeList
	NodeMap
	NodeArray
)

// Node represents any datum
type Node struct {
	Type NodeType

	// Atoms
	Text string // NodeSymbol, NodeString, NodeInteger

	// Collections
	Items []*Node  // NodeList, NodeArray, NodeMap values
	Keys  []string // NodeMap - parallel to Items

	// Metadata for NodeList - stored as parallel slices like maps
	MetaKeys  []string
	MetaItems []*Node

	// Position of the first character of the datum (1-based, 0 when built
	// by hand)
	Line int
	Col  int
}

func (n *Node) String() string {
	switch n.Type {
	case NodeSymbol, NodeInteger:
		return n.Text
	case NodeString:
		escaped := strings.ReplaceAll(n.Text, "\\", "\\\\")
		escaped = strings.ReplaceAll(escaped, "\"", "\\\"")
		return "\"" + escaped + "\""
	case NodeEllipsis:
		return "..."
	case NodeList:
		var parts []string
		for _, item := range n.Items {
			parts = append(parts, item.String())
		}
		if len(n.MetaKeys) > 0 {
			var metaParts []string
			for i, key := range n.MetaKeys {
				metaParts = append(metaParts, key+": "+n.MetaItems[i].String())
			}
			// Metadata goes right after a head symbol.
			at := 0
			if n.Head() != "" {
				at = 1
			}
			parts = append(parts[:at], append([]string{"^{" + strings.Join(metaParts, ", ") + "}"}, parts[at:]...)...)
		}
		return "(" + strings.Join(parts, " ") + ")"
	case NodeMap:
		var parts []string
		for i, key := range n.Keys {
			parts = append(parts, key+": "+n.Items[i].String())
		}
		return "{" + strings.Join(parts, ", ") + "}"
	case NodeArray:
		var parts []string
		for _, item := range n.Items {
			parts = append(parts, item.String())
		}
		return "[" + strings.Join(parts, " ") + "]"
	default:
		return fmt.Sprintf("UNKNOWN_NODE_TYPE_%d", n.Type)
	}
}

// Helper constructors for common node types
func NewSymbol(name string) *Node {
	return &Node{Type: NodeSymbol, Text: name}
}

func NewString(value string) *Node {
	return &Node{Type: NodeString, Text: value}
}

func NewInteger(text string) *Node {
	return &Node{Type: NodeInteger, Text: text}
}

func NewEllipsis() *Node {
	return &Node{Type: NodeEllipsis}
}

func NewList(items ...*Node) *Node {
	return &Node{Type: NodeList, Items: items}
}

func NewMap(keys []string, items []*Node) *Node {
	return &Node{Type: NodeMap, Keys: keys, Items: items}
}

func NewArray(items ...*Node) *Node {
	return &Node{Type: NodeArray, Items: items}
}

// IsAtom checks if the node is an atomic value
func (n *Node) IsAtom() bool {
	return n.Type == NodeSymbol || n.Type == NodeString || n.Type == NodeInteger || n.Type == NodeEllipsis
}

// IsSymbol reports whether n is the symbol text.
func (n *Node) IsSymbol(text string) bool {
	return n != nil && n.Type == NodeSymbol && n.Text == text
}

// Head returns the leading symbol of a list, or "".
func (n *Node) Head() string {
	if n == nil || n.Type != NodeList || len(n.Items) == 0 || n.Items[0].Type != NodeSymbol {
		return ""
	}
	return n.Items[0].Text
}

// Meta returns the metadata value stored under key on a list.
func (n *Node) Meta(key string) (*Node, bool) {
	for i, k := range n.MetaKeys {
		if k == key {
			return n.MetaItems[i], true
		}
	}
	return nil, false
}

// Lookup returns the map value stored under key.
func (n *Node) Lookup(key string) (*Node, bool) {
	for i, k := range n.Keys {
		if k == key {
			return n.Items[i], true
		}
	}
	return nil, false
}

type parser struct {
	lexer        *lexer
	currentToken token
	peekToken    token
}

// Parse parses the entire input and returns the top-level datum
func Parse(input string) (*Node, error) {
	p := &parser{lexer: newLexer(input)}
	p.nextToken()
	p.nextToken()

	result, err := p.ParseDatum()
	if len(p.lexer.errors) > 0 {
		// Lexer errors take priority because they might cause confusing parser errors.
		return nil, p.lexer.errors[0]
	}
	if err != nil {
		return nil, err
	}

	if p.currentToken.Type != tokenEOF {
		return nil, p.errorf("expected EOF but got %s", p.currentToken.Type)
	}

	return result, nil
}

func (p *parser) nextToken() {
	p.currentToken = p.peekToken
	p.peekToken = p.lexer.nextToken()
}

func (p *parser) errorf(format string, args ...any) error {
	return fmt.Errorf("%d:%d: %s", p.currentToken.Line, p.currentToken.Col, fmt.Sprintf(format, args...))
}

func (p *parser) atom(t NodeType) *Node {
	n := &Node{Type: t, Text: p.currentToken.Value, Line: p.currentToken.Line, Col: p.currentToken.Col}
	p.nextToken()
	return n
}

func (p *parser) ParseDatum() (*Node, error) {
	switch p.currentToken.Type {
	case tokenSymbol:
		return p.atom(NodeSymbol), nil
	case tokenString:
		return p.atom(NodeString), nil
	case tokenInteger:
		return p.atom(NodeInteger), nil
	case tokenEllipsis:
		return p.atom(NodeEllipsis), nil
	case tokenLParen:
		return p.parseList()
	case tokenLBrace:
		return p.parseMap()
	case tokenLBracket:
		return p.parseArray()
	default:
		return nil, p.errorf("unexpected token: %s", p.currentToken.Type)
	}
}

func (p *parser) parseList() (*Node, error) {
	list := &Node{Type: NodeList, Line: p.currentToken.Line, Col: p.currentToken.Col}
	p.nextToken() // consume '('

	for p.currentToken.Type != tokenRParen && p.currentToken.Type != tokenEOF {
		if p.currentToken.Type == tokenCaret {
			p.nextToken() // consume '^'
			if p.currentToken.Type != tokenLBrace {
				return nil, p.errorf("expected '{' after '^' but got %s", p.currentToken.Type)
			}
			meta, err := p.parseMap()
			if err != nil {
				return nil, err
			}
			// Later values win.
			for i, key := range meta.Keys {
				if _, ok := list.Meta(key); ok {
					for j, existing := range list.MetaKeys {
						if existing == key {
							list.MetaItems[j] = meta.Items[i]
						}
					}
					continue
				}
				list.MetaKeys = append(list.MetaKeys, key)
				list.MetaItems = append(list.MetaItems, meta.Items[i])
			}
			continue
		}
		item, err := p.ParseDatum()
		if err != nil {
			return nil, err
		}
		list.Items = append(list.Items, item)
	}

	if p.currentToken.Type != tokenRParen {
		return nil, p.errorf("expected ')' but got %s", p.currentToken.Type)
	}
	p.nextToken() // consume ')'
	return list, nil
}

func (p *parser) parseMap() (*Node, error) {
	m := &Node{Type: NodeMap, Line: p.currentToken.Line, Col: p.currentToken.Col}
	p.nextToken() // consume '{'

	for p.currentToken.Type != tokenRBrace && p.currentToken.Type != tokenEOF {
		if p.currentToken.Type != tokenSymbol {
			return nil, p.errorf("expected symbol for map key but got %s", p.currentToken.Type)
		}
		m.Keys = append(m.Keys, p.currentToken.Value)
		p.nextToken()

		if p.currentToken.Type != tokenColon {
			return nil, p.errorf("expected ':' after map key but got %s", p.currentToken.Type)
		}
		p.nextToken()

		value, err := p.ParseDatum()
		if err != nil {
			return nil, err
		}
		m.Items = append(m.Items, value)

		if p.currentToken.Type == tokenComma {
			p.nextToken()
		} else if p.currentToken.Type != tokenRBrace {
			return nil, p.errorf("expected ',' or '}' in map but got %s", p.currentToken.Type)
		}
	}

	if p.currentToken.Type != tokenRBrace {
		return nil, p.errorf("expected '}' but got %s", p.currentToken.Type)
	}
	p.nextToken() // consume '}'
	return m, nil
}

func (p *parser) parseArray() (*Node, error) {
	arr := &Node{Type: NodeArray, Line: p.currentToken.Line, Col: p.currentToken.Col}
	p.nextToken() // consume '['

	for p.currentToken.Type != tokenRBracket && p.currentToken.Type != tokenEOF {
		item, err := p.ParseDatum()
		if err != nil {
			return nil, err
		}
		arr.Items = append(arr.Items, item)
	}

	if p.currentToken.Type != tokenRBracket {
		return nil, p.errorf("expected ']' but got %s", p.currentToken.Type)
	}
	p.nextToken() // consume ']'
	return arr, nil
}

type tokenType int

const (
	tokenEOF tokenType = iota
	tokenSymbol
	tokenString
	tokenInteger
	tokenEllipsis
	tokenLParen
	tokenRParen
	tokenLBrace
	tokenRBrace
	tokenLBracket
	tokenRBracket
	tokenColon
	tokenComma
	tokenCaret
)

func (t tokenType) String() string {
	switch t {
	case tokenEOF:
		return "EOF"
	case tokenSymbol:
		return "symbol"
	case tokenString:
		return "string"
	case tokenInteger:
		return "integer"
	case tokenEllipsis:
		return "ellipsis"
	case tokenLParen:
		return "'('"
	case tokenRParen:
		return "')'"
	case tokenLBrace:
		return "'{'"
	case tokenRBrace:
		return "'}'"
	case tokenLBracket:
		return "'['"
	case tokenRBracket:
		return "']'"
	case tokenColon:
		return "':'"
	case tokenComma:
		return "','"
	case tokenCaret:
		return "'^'"
	default:
		return fmt.Sprintf("unknown token %d", int(t))
	}
}

type token struct {
	Type  tokenType
	Value string
	Line  int
	Col   int
}

type lexer struct {
	input    []rune
	position int
	current  rune
	line     int
	col      int
	errors   []error
}

func newLexer(input string) *lexer {
	l := &lexer{input: []rune(input), line: 1}
	l.readChar()
	return l
}

func (l *lexer) readChar() {
	if l.current == '\n' {
		l.line++
		l.col = 0
	}
	if l.position >= len(l.input) {
		l.current = 0
	} else {
		l.current = l.input[l.position]
	}
	l.position++
	l.col++
}

func (l *lexer) peekChar() rune {
	if l.position >= len(l.input) {
		return 0
	}
	return l.input[l.position]
}

func (l *lexer) errorf(format string, args ...any) {
	l.errors = append(l.errors, fmt.Errorf("%d:%d: %s", l.line, l.col, fmt.Sprintf(format, args...)))
}

func (l *lexer) skipWhitespace() {
	for unicode.IsSpace(l.current) {
		l.readChar()
	}
}

func (l *lexer) skipComment() {
	for l.current != '\n' && l.current != 0 {
		l.readChar()
	}
}

// readSymbol consumes a symbol. A "::" inside a symbol is part of it, so
// qualified names such as geo::Point read as one datum, while a single ':'
// still terminates a map key.
func (l *lexer) readSymbol() string {
	var b strings.Builder
	for {
		switch {
		case isSymbolChar(l.current):
			b.WriteRune(l.current)
			l.readChar()
		case l.current == ':' && l.peekChar() == ':':
			b.WriteString("::")
			l.readChar()
			l.readChar()
		default:
			return b.String()
		}
	}
}

func (l *lexer) readString() (string, bool) {
	var b strings.Builder
	l.readChar() // skip opening quote

	for l.current != '"' && l.current != 0 {
		if l.current == '\\' {
			l.readChar()
			switch l.current {
			case '"':
				b.WriteRune('"')
			case '\\':
				b.WriteRune('\\')
			case 'n':
				b.WriteRune('\n')
			case 't':
				b.WriteRune('\t')
			default:
				l.errorf("invalid escape sequence: \\%c", l.current)
				return "", false
			}
		} else {
			b.WriteRune(l.current)
		}
		l.readChar()
	}

	if l.current != '"' {
		l.errorf("unterminated string")
		return "", false
	}
	l.readChar() // skip closing quote
	return b.String(), true
}

func (l *lexer) readInteger() string {
	var b strings.Builder
	if l.current == '+' || l.current == '-' {
		b.WriteRune(l.current)
		l.readChar()
	}
	for unicode.IsDigit(l.current) {
		b.WriteRune(l.current)
		l.readChar()
	}
	return b.String()
}

func (l *lexer) nextToken() token {
	for {
		l.skipWhitespace()

		line, col := l.line, l.col
		single := func(t tokenType) token {
			value := string(l.current)
			l.readChar()
			return token{Type: t, Value: value, Line: line, Col: col}
		}

		switch l.current {
		case 0:
			return token{Type: tokenEOF, Line: line, Col: col}
		case ';':
			l.skipComment()
			continue
		case '(':
			return single(tokenLParen)
		case ')':
			return single(tokenRParen)
		case '{':
			return single(tokenLBrace)
		case '}':
			return single(tokenRBrace)
		case '[':
			return single(tokenLBracket)
		case ']':
			return single(tokenRBracket)
		case ':':
			return single(tokenColon)
		case ',':
			return single(tokenComma)
		case '^':
			return single(tokenCaret)
		case '"':
			str, ok := l.readString()
			if !ok {
				return token{Type: tokenEOF, Line: line, Col: col}
			}
			return token{Type: tokenString, Value: str, Line: line, Col: col}
		case '.':
			if l.peekChar() == '.' {
				l.readChar()
				if l.peekChar() == '.' {
					l.readChar()
					l.readChar()
					return token{Type: tokenEllipsis, Value: "...", Line: line, Col: col}
				}
			}
			l.errorf("unexpected character '.'")
			return token{Type: tokenEOF, Line: line, Col: col}
		default:
			if (l.current == '+' || l.current == '-') && unicode.IsDigit(l.peekChar()) || unicode.IsDigit(l.current) {
				return token{Type: tokenInteger, Value: l.readInteger(), Line: line, Col: col}
			}
			if isSymbolStart(l.current) {
				return token{Type: tokenSymbol, Value: l.readSymbol(), Line: line, Col: col}
			}
			l.errorf("unexpected character '%c'", l.current)
			return token{Type: tokenEOF, Line: line, Col: col}
		}
	}
}

const operatorChars = "+-*/%<>=!&|~"

func isSymbolStart(r rune) bool {
	return unicode.IsLetter(r) || r == '_' || strings.ContainsRune(operatorChars, r)
}

func isSymbolChar(r rune) bool {
	return isSymbolStart(r) || unicode.IsDigit(r)
}

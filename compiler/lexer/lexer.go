// Package lexer tokenizes IceType field-definition strings.
package lexer

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"github.com/syssam/icetype"
	"github.com/syssam/icetype/schema/field"
)

// TokenType represents the type of a lexical token.
type TokenType int

const (
	EOF TokenType = iota
	IDENTIFIER
	TYPE
	MODIFIER
	RELATION_OP
	NUMBER
	STRING
	LBRACKET // [
	RBRACKET // ]
	LBRACE   // {
	RBRACE   // }
	LPAREN   // (
	RPAREN   // )
	LANGLE   // <
	RANGLE   // >
	COMMA
	COLON
	EQUALS
	PIPE
	DOT
)

var tokenNames = [...]string{
	EOF:         "EOF",
	IDENTIFIER:  "IDENTIFIER",
	TYPE:        "TYPE",
	MODIFIER:    "MODIFIER",
	RELATION_OP: "RELATION_OP",
	NUMBER:      "NUMBER",
	STRING:      "STRING",
	LBRACKET:    "LBRACKET",
	RBRACKET:    "RBRACKET",
	LBRACE:      "LBRACE",
	RBRACE:      "RBRACE",
	LPAREN:      "LPAREN",
	RPAREN:      "RPAREN",
	LANGLE:      "LANGLE",
	RANGLE:      "RANGLE",
	COMMA:       "COMMA",
	COLON:       "COLON",
	EQUALS:      "EQUALS",
	PIPE:        "PIPE",
	DOT:         "DOT",
}

// String returns the name of the token type.
func (t TokenType) String() string {
	if t >= 0 && int(t) < len(tokenNames) {
		return tokenNames[t]
	}
	return "UNKNOWN"
}

// Token is a lexical token. Line is always 1 for single-field strings and
// Column is the 1-based character offset of the token start.
type Token struct {
	Type   TokenType
	Value  string
	Line   int
	Column int
}

// String returns a string representation of the token.
func (t Token) String() string {
	return fmt.Sprintf("Token{%s, %q, %d:%d}", t.Type, t.Value, t.Line, t.Column)
}

// Is reports whether the token has the given type.
func (t Token) Is(typ TokenType) bool { return t.Type == typ }

var single = map[rune]TokenType{
	'[': LBRACKET,
	']': RBRACKET,
	'{': LBRACE,
	'}': RBRACE,
	'(': LPAREN,
	')': RPAREN,
	',': COMMA,
	':': COLON,
	'=': EQUALS,
	'|': PIPE,
	'.': DOT,
	'!': MODIFIER,
	'#': MODIFIER,
	'?': MODIFIER,
}

// Lexer produces tokens from a single field-definition string. Once it
// returns EOF or an error it keeps returning the same result.
type Lexer struct {
	input   []rune
	pos     int
	line    int
	started bool
	done    *Token
	err     error
}

// New returns a lexer over input.
func New(input string) *Lexer {
	return &Lexer{input: []rune(input), line: 1}
}

// Tokenize lexes the whole input. The last token is always EOF.
func Tokenize(input string) ([]Token, error) {
	l := New(input)
	var tokens []Token
	for {
		tok, err := l.Next()
		if err != nil {
			return nil, err
		}
		tokens = append(tokens, tok)
		if tok.Type == EOF {
			return tokens, nil
		}
	}
}

// Next returns the next token.
func (l *Lexer) Next() (Token, error) {
	if l.err != nil {
		return Token{}, l.err
	}
	if l.done != nil {
		return *l.done, nil
	}
	if !l.started {
		l.started = true
		if strings.TrimSpace(string(l.input)) == "" {
			return l.fail(icetype.NewParseErrorAt(icetype.CodeEmptyType, l.line, 1, "", "type definition is empty"))
		}
	}
	l.skipWhitespace()
	if l.pos >= len(l.input) {
		tok := Token{Type: EOF, Line: l.line, Column: l.pos + 1}
		l.done = &tok
		return tok, nil
	}

	start := l.pos
	ch := l.input[l.pos]

	// Relation operators.
	if op, ok := l.relationOp(); ok {
		l.pos += 2
		return l.token(RELATION_OP, op, start), nil
	}
	switch {
	case ch == '<':
		l.pos++
		return l.token(LANGLE, "<", start), nil
	case ch == '>':
		l.pos++
		return l.token(RANGLE, ">", start), nil
	case ch == '"' || ch == '\'':
		return l.scanString()
	case unicode.IsDigit(ch) || (ch == '-' && unicode.IsDigit(l.peek(1))):
		return l.scanNumber(), nil
	case isIdentStart(ch):
		return l.scanIdent(), nil
	}
	if typ, ok := single[ch]; ok {
		l.pos++
		return l.token(typ, string(ch), start), nil
	}
	return l.fail(icetype.NewParseErrorAt(icetype.CodeUnexpectedCharacter, l.line, start+1, string(ch),
		fmt.Sprintf("unexpected character %q", ch)))
}

func (l *Lexer) relationOp() (string, bool) {
	if l.pos+1 >= len(l.input) {
		return "", false
	}
	op := string(l.input[l.pos : l.pos+2])
	switch op {
	case "->", "~>", "<-", "<~":
		return op, true
	}
	return "", false
}

func (l *Lexer) token(typ TokenType, value string, start int) Token {
	return Token{Type: typ, Value: value, Line: l.line, Column: start + 1}
}

func (l *Lexer) fail(err *icetype.ParseError) (Token, error) {
	l.err = err
	return Token{}, err
}

func (l *Lexer) skipWhitespace() {
	for l.pos < len(l.input) && unicode.IsSpace(l.input[l.pos]) {
		l.pos++
	}
}

func (l *Lexer) peek(offset int) rune {
	if pos := l.pos + offset; pos < len(l.input) {
		return l.input[pos]
	}
	return 0
}

func (l *Lexer) scanIdent() Token {
	start := l.pos
	for l.pos < len(l.input) && isIdentPart(l.input[l.pos]) {
		l.pos++
	}
	value := string(l.input[start:l.pos])
	if field.IsTypeName(value) {
		return l.token(TYPE, value, start)
	}
	return l.token(IDENTIFIER, value, start)
}

func (l *Lexer) scanNumber() Token {
	start := l.pos
	if l.input[l.pos] == '-' {
		l.pos++
	}
	for l.pos < len(l.input) && unicode.IsDigit(l.input[l.pos]) {
		l.pos++
	}
	if l.peek(0) == '.' && unicode.IsDigit(l.peek(1)) {
		l.pos++
		for l.pos < len(l.input) && unicode.IsDigit(l.input[l.pos]) {
			l.pos++
		}
	}
	return l.token(NUMBER, string(l.input[start:l.pos]), start)
}

// scanString scans a single- or double-quoted literal. Escapes follow Go
// string literal rules; a single-quoted literal may also escape \'.
func (l *Lexer) scanString() (Token, error) {
	start := l.pos
	quote := l.input[l.pos]
	l.pos++
	var body strings.Builder
	for {
		if l.pos >= len(l.input) {
			return l.fail(icetype.NewParseErrorAt(icetype.CodeUnterminatedString, l.line, start+1,
				string(l.input[start:]), "unterminated string literal"))
		}
		ch := l.input[l.pos]
		switch {
		case ch == '\\' && l.pos+1 < len(l.input):
			next := l.input[l.pos+1]
			if quote == '\'' && next == '\'' {
				body.WriteRune('\'')
			} else {
				body.WriteRune(ch)
				body.WriteRune(next)
			}
			l.pos += 2
			continue
		case ch == quote:
			l.pos++
		case ch == '"':
			body.WriteString(`\"`)
			l.pos++
			continue
		default:
			body.WriteRune(ch)
			l.pos++
			continue
		}
		break
	}
	value, err := strconv.Unquote(`"` + body.String() + `"`)
	if err != nil {
		return l.fail(icetype.NewParseErrorAt(icetype.CodeUnexpectedCharacter, l.line, start+1,
			string(l.input[start:l.pos]), "invalid escape sequence in string literal"))
	}
	return l.token(STRING, value, start), nil
}

func isIdentStart(ch rune) bool {
	return ch == '_' || unicode.IsLetter(ch)
}

func isIdentPart(ch rune) bool {
	return ch == '_' || unicode.IsLetter(ch) || unicode.IsDigit(ch)
}

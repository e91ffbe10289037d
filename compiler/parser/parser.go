// Package parser parses IceType field-definition strings into field and
// relation descriptors.
//
// A field string is either a type expression
//
//	TYPE[(params)][<generics>][[]][MODIFIER][ = DEFAULT]
//
// or a relation
//
//	OPERATOR TARGET[.INVERSE][[]]
package parser

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/syssam/icetype"
	"github.com/syssam/icetype/compiler/lexer"
	"github.com/syssam/icetype/schema/edge"
	"github.com/syssam/icetype/schema/field"
)

// ParsedType is the result of parsing one field string, before it is bound
// to a field name.
type ParsedType struct {
	Kind       field.TypeKind
	Modifier   field.Modifier
	IsArray    bool
	IsOptional bool
	IsUnique   bool
	IsIndexed  bool
	Default    *field.Default
	Relation   *edge.Descriptor
}

// Field binds the parsed type to a field name.
func (t *ParsedType) Field(name string) *field.Descriptor {
	return &field.Descriptor{
		Name:       name,
		Kind:       t.Kind,
		Modifier:   t.Modifier,
		IsArray:    t.IsArray,
		IsOptional: t.IsOptional,
		IsUnique:   t.IsUnique,
		IsIndexed:  t.IsIndexed,
		Default:    t.Default.Clone(),
		Relation:   t.Relation.Clone(),
	}
}

// ParseType parses a single field string.
func ParseType(input string) (*ParsedType, error) {
	tokens, err := lexer.Tokenize(input)
	if err != nil {
		return nil, err
	}
	p := &parser{tokens: tokens}
	if p.peek().Is(lexer.RELATION_OP) {
		rel, array, err := p.relation()
		if err != nil {
			return nil, err
		}
		return &ParsedType{
			Kind:     field.Reference{Name: rel.Target},
			IsArray:  array,
			Relation: rel,
		}, nil
	}
	return p.typ()
}

// ParseField parses a field string and names the result. Errors carry the
// field name as their path.
func ParseField(name, input string) (*field.Descriptor, error) {
	t, err := ParseType(input)
	if err != nil {
		return nil, withPath(err, name)
	}
	return t.Field(name), nil
}

// ParseRelation parses a relation string. The returned flag reports a
// trailing [] suffix.
func ParseRelation(input string) (*edge.Descriptor, bool, error) {
	if strings.TrimSpace(input) == "" {
		return nil, false, icetype.NewParseErrorAt(icetype.CodeEmptyRelation, 1, 1, "", "relation definition is empty")
	}
	tokens, err := lexer.Tokenize(input)
	if err != nil {
		return nil, false, err
	}
	p := &parser{tokens: tokens}
	return p.relation()
}

func withPath(err error, path string) error {
	var perr *icetype.ParseError
	if errors.As(err, &perr) {
		return perr.WithPath(path)
	}
	return err
}

type parser struct {
	tokens []lexer.Token
	pos    int
}

// peek returns the current token. The token stream always ends with EOF.
func (p *parser) peek() lexer.Token {
	return p.tokens[p.pos]
}

func (p *parser) next() lexer.Token {
	tok := p.tokens[p.pos]
	if p.pos < len(p.tokens)-1 {
		p.pos++
	}
	return tok
}

func (p *parser) errorf(code icetype.Code, tok lexer.Token, format string, args ...any) error {
	return icetype.NewParseErrorAt(code, tok.Line, tok.Column, tok.Value, fmt.Sprintf(format, args...))
}

func (p *parser) unexpected(tok lexer.Token, want string) error {
	if tok.Is(lexer.EOF) {
		return p.errorf(icetype.CodeUnexpectedToken, tok, "unexpected end of input, expected %s", want)
	}
	return p.errorf(icetype.CodeUnexpectedToken, tok, "unexpected %s %q, expected %s", tok.Type, tok.Value, want)
}

func (p *parser) expectEOF() error {
	if tok := p.peek(); !tok.Is(lexer.EOF) {
		return p.unexpected(tok, "end of input")
	}
	return nil
}

// relation parses OPERATOR TARGET['.' INVERSE]['[]'].
func (p *parser) relation() (*edge.Descriptor, bool, error) {
	tok := p.next()
	if !tok.Is(lexer.RELATION_OP) {
		return nil, false, p.errorf(icetype.CodeMissingRelationOperator, tok,
			"relation must start with one of %s", strings.Join(operatorNames(), ", "))
	}
	rel := &edge.Descriptor{Operator: edge.Operator(tok.Value)}
	target := p.next()
	if !isName(target) {
		return nil, false, p.errorf(icetype.CodeMissingTargetType, target,
			"relation operator %s must be followed by a target type", tok.Value)
	}
	rel.Target = target.Value
	if p.peek().Is(lexer.DOT) {
		p.next()
		inv := p.next()
		if !isName(inv) {
			return nil, false, p.unexpected(inv, "inverse field name")
		}
		rel.Inverse = inv.Value
	}
	array, err := p.arraySuffix()
	if err != nil {
		return nil, false, err
	}
	if err := p.expectEOF(); err != nil {
		return nil, false, err
	}
	return rel, array, nil
}

func operatorNames() []string {
	names := make([]string, len(edge.Operators))
	for i, op := range edge.Operators {
		names[i] = string(op)
	}
	return names
}

func isName(tok lexer.Token) bool {
	return tok.Is(lexer.IDENTIFIER) || tok.Is(lexer.TYPE)
}

func (p *parser) arraySuffix() (bool, error) {
	if !p.peek().Is(lexer.LBRACKET) {
		return false, nil
	}
	p.next()
	if tok := p.next(); !tok.Is(lexer.RBRACKET) {
		return false, p.unexpected(tok, `"]"`)
	}
	return true, nil
}

// typ parses a full type expression with its array suffix, modifiers and
// default value.
func (p *parser) typ() (*ParsedType, error) {
	if tok := p.peek(); tok.Is(lexer.MODIFIER) {
		return nil, p.errorf(icetype.CodeInvalidModifierPosition, tok, "modifier %q must follow the type", tok.Value)
	}
	kind, err := p.kind(false)
	if err != nil {
		return nil, err
	}
	t := &ParsedType{Kind: kind}
	if t.IsArray, err = p.arraySuffix(); err != nil {
		return nil, err
	}
	if err := p.modifiers(t); err != nil {
		return nil, err
	}
	if p.peek().Is(lexer.EQUALS) {
		p.next()
		if t.Default, err = p.defaultValue(); err != nil {
			return nil, err
		}
	}
	if err := p.expectEOF(); err != nil {
		return nil, err
	}
	return t, nil
}

// kind parses a base type. Inside generic arguments, names that are not
// type names, and generic keywords without arguments, resolve to
// references.
func (p *parser) kind(nested bool) (field.TypeKind, error) {
	tok := p.next()
	switch {
	case tok.Is(lexer.IDENTIFIER):
		switch next := p.peek(); {
		case next.Is(lexer.LPAREN):
			return nil, p.errorf(icetype.CodeUnknownParametricType, tok, "unknown parametric type %q", tok.Value)
		case next.Is(lexer.LANGLE):
			return nil, p.errorf(icetype.CodeUnknownGenericType, tok, "unknown generic type %q", tok.Value)
		case nested:
			return field.Reference{Name: tok.Value}, nil
		default:
			return nil, p.errorf(icetype.CodeUnknownType, tok, "unknown type %q", tok.Value)
		}
	case tok.Is(lexer.TYPE):
	default:
		return nil, p.unexpected(tok, "type name")
	}

	if t, ok := field.LookupPrimitive(tok.Value); ok {
		switch next := p.peek(); {
		case next.Is(lexer.LPAREN):
			return nil, p.errorf(icetype.CodeUnknownParametricType, tok, "%q does not take parameters", tok.Value)
		case next.Is(lexer.LANGLE):
			return nil, p.errorf(icetype.CodeUnknownGenericType, tok, "%q does not take type arguments", tok.Value)
		}
		return field.Of(t), nil
	}
	if k, ok := field.LookupParametric(tok.Value); ok {
		if p.peek().Is(lexer.LANGLE) {
			return nil, p.errorf(icetype.CodeUnknownGenericType, tok, "%q does not take type arguments", tok.Value)
		}
		return p.parametric(k, tok)
	}
	k, _ := field.LookupGeneric(tok.Value)
	if nested && !p.peek().Is(lexer.LANGLE) {
		// A generic keyword without arguments names a user type.
		return field.Reference{Name: tok.Value}, nil
	}
	return p.generic(k, tok)
}

// parametric parses the optional (n[,m]) suffix of a parametric type.
func (p *parser) parametric(k field.ParamKind, name lexer.Token) (field.TypeKind, error) {
	kind := field.Parametric{Kind: k}
	if !p.peek().Is(lexer.LPAREN) {
		return kind, nil
	}
	open := p.next()
	var params []int
	for !p.peek().Is(lexer.RPAREN) {
		if len(params) > 0 {
			if tok := p.next(); !tok.Is(lexer.COMMA) {
				return nil, p.unexpected(tok, `"," or ")"`)
			}
		}
		tok := p.next()
		if !tok.Is(lexer.NUMBER) {
			if tok.Is(lexer.EOF) {
				return nil, p.unexpected(tok, `")"`)
			}
			return nil, p.errorf(icetype.CodeInvalidParamValue, tok,
				"%s parameter must be a non-negative integer", k)
		}
		n, err := strconv.Atoi(tok.Value)
		if err != nil || n < 0 {
			return nil, p.errorf(icetype.CodeInvalidParamValue, tok,
				"%s parameter must be a non-negative integer", k)
		}
		params = append(params, n)
	}
	p.next()
	kind.Set = true
	switch {
	case k == field.Decimal && (len(params) == 1 || len(params) == 2):
		kind.Precision = params[0]
		if len(params) == 2 {
			kind.Scale = params[1]
		}
	case k != field.Decimal && len(params) == 1:
		kind.Length = params[0]
	default:
		want := "1"
		if k == field.Decimal {
			want = "1 or 2"
		}
		return nil, p.errorf(icetype.CodeInvalidParamCount, open,
			"%s takes %s parameters, got %d", name.Value, want, len(params))
	}
	return kind, nil
}

// bareName reports whether the current token is a lone name closing the
// argument list, as in struct<Date>. Type keywords count as names there.
func (p *parser) bareName() bool {
	tok := p.peek()
	if !tok.Is(lexer.IDENTIFIER) && !tok.Is(lexer.TYPE) {
		return false
	}
	return p.pos+1 < len(p.tokens) && p.tokens[p.pos+1].Is(lexer.RANGLE)
}

// generic parses <T[,U]> after a generic type name.
func (p *parser) generic(k field.GenericKind, name lexer.Token) (field.TypeKind, error) {
	code := icetype.CodeInvalidGenericParams
	if k == field.Map {
		code = icetype.CodeInvalidMapParams
	}
	if !p.peek().Is(lexer.LANGLE) {
		return nil, p.errorf(code, name, "%s requires %d type argument(s)", k, k.Arity())
	}
	p.next()
	var args []field.TypeKind
	for !p.peek().Is(lexer.RANGLE) {
		if len(args) > 0 {
			if tok := p.next(); !tok.Is(lexer.COMMA) {
				return nil, p.unexpected(tok, `"," or ">"`)
			}
		}
		if k.Named() && p.bareName() {
			args = append(args, field.Reference{Name: p.next().Value})
			continue
		}
		arg, err := p.kind(true)
		if err != nil {
			return nil, err
		}
		args = append(args, arg)
	}
	p.next()
	if len(args) != k.Arity() {
		return nil, p.errorf(code, name, "%s requires %d type argument(s), got %d", k, k.Arity(), len(args))
	}
	return field.Generic{Kind: k, Args: args}, nil
}

// modifiers applies the trailing modifier characters. Only "#" and "?" may
// be combined; validation reports that pair as a conflict.
func (p *parser) modifiers(t *ParsedType) error {
	var seen []field.Modifier
	for p.peek().Is(lexer.MODIFIER) {
		tok := p.next()
		m, _ := field.LookupModifier(tok.Value)
		if len(seen) == 2 || (len(seen) == 1 && !uniqueOptional(seen[0], m)) {
			return p.errorf(icetype.CodeInvalidModifierPosition, tok, "unexpected second modifier %q", tok.Value)
		}
		seen = append(seen, m)
	}
	if len(seen) > 0 && p.peek().Is(lexer.LBRACKET) {
		return p.errorf(icetype.CodeInvalidModifierPosition, p.peek(), "modifier must follow the array suffix")
	}
	d := &field.Descriptor{}
	for _, m := range seen {
		field.ApplyModifier(d, m)
	}
	t.Modifier, t.IsOptional, t.IsUnique, t.IsIndexed = d.Modifier, d.IsOptional, d.IsUnique, d.IsIndexed
	return nil
}

func uniqueOptional(a, b field.Modifier) bool {
	return (a == field.ModUnique && b == field.ModOptional) || (a == field.ModOptional && b == field.ModUnique)
}

// defaultValue parses the literal after "=". A bare name, optionally
// followed by "()", is a function default.
func (p *parser) defaultValue() (*field.Default, error) {
	tok := p.next()
	switch {
	case tok.Is(lexer.STRING):
		return field.StringDefault(tok.Value), nil
	case tok.Is(lexer.NUMBER):
		return field.NumberDefault(tok.Value), nil
	case isName(tok):
		switch strings.ToLower(tok.Value) {
		case "true":
			return field.BoolDefault(true), nil
		case "false":
			return field.BoolDefault(false), nil
		case "null":
			return field.NullDefault(), nil
		}
		if p.peek().Is(lexer.LPAREN) {
			p.next()
			if closing := p.next(); !closing.Is(lexer.RPAREN) {
				return nil, p.errorf(icetype.CodeInvalidDefaultValue, closing, "function default %s takes no arguments", tok.Value)
			}
		}
		return field.FuncDefault(tok.Value), nil
	case tok.Is(lexer.EOF):
		return nil, p.errorf(icetype.CodeInvalidDefaultValue, tok, "missing default value after \"=\"")
	default:
		return nil, p.errorf(icetype.CodeInvalidDefaultValue, tok, "invalid default value %q", tok.Value)
	}
}

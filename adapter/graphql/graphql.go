// Package graphql renders schemas as GraphQL SDL object types.
package graphql

import (
	"bytes"
	"fmt"
	"slices"

	"github.com/vektah/gqlparser/v2/ast"
	"github.com/vektah/gqlparser/v2/formatter"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/syssam/icetype/adapter"
	"github.com/syssam/icetype/schema"
	"github.com/syssam/icetype/schema/field"
)

// Name is the registry key of the adapter.
const Name = "graphql"

// Adapter is the GraphQL SDL adapter.
type Adapter struct{}

var _ adapter.Adapter = (*Adapter)(nil)

// New returns the GraphQL SDL adapter.
func New() *Adapter { return &Adapter{} }

// Name implements adapter.Adapter.
func (*Adapter) Name() string { return Name }

// Version implements adapter.Adapter.
func (*Adapter) Version() string { return "1.0.0" }

// Custom scalars used for types GraphQL has no built-in for.
const (
	ScalarBigInt   = "BigInt"
	ScalarDecimal  = "Decimal"
	ScalarDateTime = "DateTime"
	ScalarDate     = "Date"
	ScalarTime     = "Time"
	ScalarJSON     = "JSON"
	ScalarBytes    = "Bytes"
)

var scalars = map[field.Type]string{
	field.TypeString:      "String",
	field.TypeText:        "String",
	field.TypeInt:         "Int",
	field.TypeBigInt:      ScalarBigInt,
	field.TypeFloat:       "Float",
	field.TypeDouble:      "Float",
	field.TypeBoolean:     "Boolean",
	field.TypeUUID:        "ID",
	field.TypeTimestamp:   ScalarDateTime,
	field.TypeTimestampTZ: ScalarDateTime,
	field.TypeDate:        ScalarDate,
	field.TypeTime:        ScalarTime,
	field.TypeJSON:        ScalarJSON,
	field.TypeBinary:      ScalarBytes,
}

// typeName upper-cases the first letter of a type name and keeps the rest.
// A Caser holds state, so each call gets its own.
func typeName(name string) string {
	return cases.Title(language.Und, cases.NoLower).String(name)
}

// Transform implements adapter.Adapter. The result is an
// *ast.SchemaDocument holding the object type and the custom scalars and
// directives it uses.
func (*Adapter) Transform(s *schema.Schema, opts ...adapter.Option) (any, error) {
	cfg, err := adapter.NewConfig(opts...)
	if err != nil {
		return nil, err
	}
	g := &generator{used: make(map[string]bool)}
	def := &ast.Definition{Kind: ast.Object, Name: typeName(s.Name())}
	if cfg.SystemFields && !s.HasField("id") {
		def.Fields = append(def.Fields, &ast.FieldDefinition{Name: "id", Type: ast.NonNullNamedType("ID", nil)})
	}
	for _, f := range s.Fields() {
		fd, err := g.field(f)
		if err != nil {
			return nil, fmt.Errorf("graphql: %s.%s: %w", s.Name(), f.Name, err)
		}
		def.Fields = append(def.Fields, fd)
	}
	if cfg.SystemFields {
		def.Fields = append(def.Fields,
			&ast.FieldDefinition{Name: "version", Type: ast.NonNullNamedType("Int", nil)},
			&ast.FieldDefinition{Name: "createdAt", Type: g.named(ScalarDateTime, true)},
			&ast.FieldDefinition{Name: "updatedAt", Type: g.named(ScalarDateTime, true)},
		)
	}
	doc := &ast.SchemaDocument{}
	// The formatter dereferences the position of directive definitions.
	pos := &ast.Position{Src: &ast.Source{Name: s.Name()}}
	if g.unique {
		doc.Directives = append(doc.Directives, &ast.DirectiveDefinition{
			Position:  pos,
			Name:      "unique",
			Locations: []ast.DirectiveLocation{ast.LocationFieldDefinition},
		})
	}
	if g.relation {
		doc.Directives = append(doc.Directives, &ast.DirectiveDefinition{
			Position: pos,
			Name:     "relation",
			Arguments: ast.ArgumentDefinitionList{
				{Name: "op", Type: ast.NonNullNamedType("String", nil)},
				{Name: "inverse", Type: ast.NamedType("String", nil)},
			},
			Locations: []ast.DirectiveLocation{ast.LocationFieldDefinition},
		})
	}
	for _, name := range g.scalars() {
		doc.Definitions = append(doc.Definitions, &ast.Definition{Kind: ast.Scalar, Name: name})
	}
	doc.Definitions = append(doc.Definitions, def)
	cfg.Logger.Debug("graphql type built", "schema", s.Name(), "fields", len(def.Fields))
	return doc, nil
}

// Serialize implements adapter.Adapter.
func (*Adapter) Serialize(ir any) (string, error) {
	doc, ok := ir.(*ast.SchemaDocument)
	if !ok || doc == nil {
		return "", fmt.Errorf("graphql: unexpected representation %T", ir)
	}
	var buf bytes.Buffer
	formatter.NewFormatter(&buf, formatter.WithIndent("  ")).FormatSchemaDocument(doc)
	return buf.String(), nil
}

type generator struct {
	used     map[string]bool
	unique   bool
	relation bool
}

// scalars returns the custom scalars referenced so far, sorted.
func (g *generator) scalars() []string {
	names := make([]string, 0, len(g.used))
	for name := range g.used {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// named returns the named type and records custom scalars as used.
func (g *generator) named(name string, nonNull bool) *ast.Type {
	if _, ok := scalarNames[name]; ok {
		g.used[name] = true
	}
	if nonNull {
		return ast.NonNullNamedType(name, nil)
	}
	return ast.NamedType(name, nil)
}

var scalarNames = map[string]struct{}{
	ScalarBigInt:   {},
	ScalarDecimal:  {},
	ScalarDateTime: {},
	ScalarDate:     {},
	ScalarTime:     {},
	ScalarJSON:     {},
	ScalarBytes:    {},
}

func (g *generator) field(f *field.Descriptor) (*ast.FieldDefinition, error) {
	fd := &ast.FieldDefinition{Name: f.Name}
	if f.Default != nil {
		fd.Description = "Default: " + f.Default.String()
	}
	switch {
	case f.Relation != nil:
		fd.Type = g.wrap(ast.NamedType(typeName(f.Relation.Target), nil), f)
		args := ast.ArgumentList{{Name: "op", Value: &ast.Value{Kind: ast.StringValue, Raw: f.Relation.Operator.String()}}}
		if f.Relation.Inverse != "" {
			args = append(args, &ast.Argument{Name: "inverse", Value: &ast.Value{Kind: ast.StringValue, Raw: f.Relation.Inverse}})
		}
		fd.Directives = append(fd.Directives, &ast.Directive{Name: "relation", Arguments: args})
		g.relation = true
	default:
		t, err := g.kind(f.Kind)
		if err != nil {
			return nil, err
		}
		fd.Type = g.wrap(t, f)
	}
	if f.IsUnique {
		fd.Directives = append(fd.Directives, &ast.Directive{Name: "unique"})
		g.unique = true
	}
	return fd, nil
}

// wrap applies the array suffix and the required modifier. Array elements
// are never null.
func (g *generator) wrap(t *ast.Type, f *field.Descriptor) *ast.Type {
	if f.IsArray {
		t.NonNull = true
		t = ast.ListType(t, nil)
	}
	t.NonNull = f.IsRequired()
	return t
}

func (g *generator) kind(k field.TypeKind) (*ast.Type, error) {
	switch k := k.(type) {
	case field.Primitive:
		name, ok := scalars[k.Type]
		if !ok {
			return nil, fmt.Errorf("unsupported type %s", k)
		}
		return g.named(name, false), nil
	case field.Parametric:
		switch k.Kind {
		case field.Decimal:
			return g.named(ScalarDecimal, false), nil
		case field.Varchar, field.Char:
			return g.named("String", false), nil
		case field.Fixed:
			return g.named(ScalarBytes, false), nil
		}
	case field.Generic:
		switch k.Kind {
		case field.List:
			elem, err := g.kind(k.Args[0])
			if err != nil {
				return nil, err
			}
			elem.NonNull = true
			return ast.ListType(elem, nil), nil
		case field.Map:
			return g.named(ScalarJSON, false), nil
		default:
			return g.kind(k.Args[0])
		}
	case field.Reference:
		return ast.NamedType(typeName(k.Name), nil), nil
	}
	return nil, fmt.Errorf("unsupported type %v", k)
}

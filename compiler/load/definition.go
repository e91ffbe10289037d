// Package load turns raw schema definitions into the fixed Definition
// record consumed by the compiler.
package load

import (
	"slices"
	"sort"
	"strings"
)

// KeyType is the definition key holding the schema name.
const KeyType = "$type"

// Directive is one raw "$"-prefixed directive entry. Value holds a string,
// a number, a bool, a []any or a MapSlice.
type Directive struct {
	Key   string
	Value any
}

// FieldEntry is one raw field declaration.
type FieldEntry struct {
	Name string
	Def  string
}

// Definition is a raw schema definition with directive keys and field keys
// already separated. Both lists keep declaration order.
type Definition struct {
	TypeName   string
	Directives []Directive
	Fields     []FieldEntry
}

// Field returns the raw definition of the named field.
func (d *Definition) Field(name string) (string, bool) {
	for _, f := range d.Fields {
		if f.Name == name {
			return f.Def, true
		}
	}
	return "", false
}

// Directive returns the raw value of the named directive.
func (d *Definition) Directive(key string) (any, bool) {
	for _, dir := range d.Directives {
		if dir.Key == key {
			return dir.Value, true
		}
	}
	return nil, false
}

// MapItem is a single entry of a MapSlice.
type MapItem struct {
	Key   string
	Value any
}

// MapSlice is an ordered mapping.
type MapSlice []MapItem

// Get returns the value stored under key.
func (m MapSlice) Get(key string) (any, bool) {
	for _, item := range m {
		if item.Key == key {
			return item.Value, true
		}
	}
	return nil, false
}

// Keys returns the keys in order.
func (m MapSlice) Keys() []string {
	keys := make([]string, len(m))
	for i, item := range m {
		keys[i] = item.Key
	}
	return keys
}

// Builder builds definitions in code.
//
//	def := load.New("User").
//		Field("id", "uuid!").
//		Field("email", "string#").
//		Directive("$index", []string{"email"}).
//		Definition()
type Builder struct {
	def Definition
}

// New starts a definition for the named schema.
func New(name string) *Builder {
	return &Builder{def: Definition{TypeName: name}}
}

// Field appends a field declaration.
func (b *Builder) Field(name, def string) *Builder {
	b.def.Fields = append(b.def.Fields, FieldEntry{Name: name, Def: def})
	return b
}

// Directive appends a directive. Go maps are converted to MapSlice with
// sorted keys.
func (b *Builder) Directive(key string, value any) *Builder {
	b.def.Directives = append(b.def.Directives, Directive{Key: key, Value: Normalize(value)})
	return b
}

// Definition returns a copy of the built definition.
func (b *Builder) Definition() *Definition {
	return &Definition{
		TypeName:   b.def.TypeName,
		Directives: slices.Clone(b.def.Directives),
		Fields:     slices.Clone(b.def.Fields),
	}
}

// Normalize converts loosely typed Go values into the value shapes used by
// Directive: slices become []any and maps become MapSlice sorted by key.
func Normalize(v any) any {
	switch v := v.(type) {
	case []string:
		out := make([]any, len(v))
		for i, s := range v {
			out[i] = s
		}
		return out
	case []map[string]any:
		out := make([]any, len(v))
		for i, m := range v {
			out[i] = Normalize(m)
		}
		return out
	case []any:
		out := make([]any, len(v))
		for i, e := range v {
			out[i] = Normalize(e)
		}
		return out
	case map[string]string:
		m := make(MapSlice, 0, len(v))
		for k, s := range v {
			m = append(m, MapItem{Key: k, Value: s})
		}
		sortItems(m)
		return m
	case map[string]any:
		m := make(MapSlice, 0, len(v))
		for k, e := range v {
			m = append(m, MapItem{Key: k, Value: Normalize(e)})
		}
		sortItems(m)
		return m
	case MapSlice:
		out := make(MapSlice, len(v))
		for i, item := range v {
			out[i] = MapItem{Key: item.Key, Value: Normalize(item.Value)}
		}
		return out
	default:
		return v
	}
}

func sortItems(m MapSlice) {
	sort.Slice(m, func(i, j int) bool { return m[i].Key < m[j].Key })
}

func isDirectiveKey(key string) bool {
	return strings.HasPrefix(key, "$")
}

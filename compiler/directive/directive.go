// Package directive parses the raw "$"-prefixed directives of a schema
// definition. Only the shape of each value is checked here; references to
// fields and other schemas are checked by package validate.
package directive

import (
	"fmt"
	"math"

	"github.com/syssam/icetype"
	"github.com/syssam/icetype/compiler/load"
	"github.com/syssam/icetype/schema"
	"github.com/syssam/icetype/schema/edge"
	"github.com/syssam/icetype/schema/index"
)

// Parse converts raw directives into schema directives. It stops at the
// first malformed directive.
func Parse(raw []load.Directive) (schema.Directives, error) {
	var (
		dirs schema.Directives
		seen = make(map[string]bool, len(raw))
	)
	for _, d := range raw {
		if schema.IsSystemField(d.Key) {
			return schema.Directives{}, icetype.NewParseError(icetype.CodeReservedFieldName, d.Key,
				fmt.Sprintf("%s is a system field and cannot be declared", d.Key))
		}
		parse, ok := parsers[d.Key]
		if !ok {
			return schema.Directives{}, icetype.NewParseError(icetype.CodeUnknownDirective, d.Key,
				fmt.Sprintf("unknown directive %s", d.Key))
		}
		if seen[d.Key] {
			return schema.Directives{}, invalid(d.Key, "%s is declared more than once", d.Key)
		}
		seen[d.Key] = true
		if err := parse(&dirs, d.Value); err != nil {
			return schema.Directives{}, err
		}
	}
	return dirs, nil
}

var parsers = map[string]func(*schema.Directives, any) error{
	schema.DirectivePartitionBy: func(d *schema.Directives, v any) (err error) {
		d.PartitionBy, err = names(schema.DirectivePartitionBy, v)
		return err
	},
	schema.DirectiveFTS: func(d *schema.Directives, v any) (err error) {
		d.FTS, err = names(schema.DirectiveFTS, v)
		return err
	},
	schema.DirectiveIndex: func(d *schema.Directives, v any) (err error) {
		d.Indexes, err = indexes(v)
		return err
	},
	schema.DirectiveVector: func(d *schema.Directives, v any) (err error) {
		d.Vectors, err = vectors(v)
		return err
	},
	schema.DirectiveProjection: func(d *schema.Directives, v any) error {
		s, ok := v.(string)
		if !ok || !schema.Projection(s).Valid() {
			return invalid(schema.DirectiveProjection, "%s must be one of %q, %q or %q",
				schema.DirectiveProjection, schema.OLTP, schema.OLAP, schema.Both)
		}
		d.Projection = schema.Projection(s)
		return nil
	},
	schema.DirectiveFrom: func(d *schema.Directives, v any) error {
		s, ok := v.(string)
		if !ok || s == "" {
			return invalid(schema.DirectiveFrom, "%s must be a source entity name", schema.DirectiveFrom)
		}
		d.From = s
		return nil
	},
	schema.DirectiveExpand: func(d *schema.Directives, v any) error {
		list, ok := v.([]any)
		if !ok {
			return invalid(schema.DirectiveExpand, "%s must be an array of relation paths", schema.DirectiveExpand)
		}
		paths, err := stringList(schema.DirectiveExpand, list)
		if err != nil {
			return invalid(schema.DirectiveExpand, "%s must be an array of relation paths", schema.DirectiveExpand)
		}
		d.Expand = paths
		return nil
	},
	schema.DirectiveFlatten: func(d *schema.Directives, v any) error {
		m, err := stringMap(schema.DirectiveFlatten, v, "a mapping of output field to source path")
		if err != nil {
			return err
		}
		for _, item := range m {
			d.Flatten = append(d.Flatten, schema.FlattenRule{Output: item.Key, Source: item.Value.(string)})
		}
		return nil
	},
	schema.DirectiveOnDelete: func(d *schema.Directives, v any) error {
		m, err := stringMap(schema.DirectiveOnDelete, v, "a mapping of relation field to delete policy")
		if err != nil {
			return err
		}
		for _, item := range m {
			p := edge.DeletePolicy(item.Value.(string))
			if p == "" || !p.Valid() {
				return invalid(schema.DirectiveOnDelete, "%s: unknown delete policy %q", item.Key, p)
			}
			d.OnDelete = append(d.OnDelete, schema.OnDeleteRule{Field: item.Key, Policy: p})
		}
		return nil
	},
}

func invalid(key, format string, args ...any) *icetype.ParseError {
	return icetype.NewParseError(icetype.CodeInvalidDirective, key, fmt.Sprintf(format, args...))
}

// names accepts a single field name or a list of field names.
func names(key string, v any) ([]string, error) {
	switch v := v.(type) {
	case string:
		if v == "" {
			break
		}
		return []string{v}, nil
	case []any:
		if out, err := stringList(key, v); err == nil {
			return out, nil
		}
	}
	return nil, invalid(key, "%s must be a field name or an array of field names", key)
}

func stringList(key string, list []any) ([]string, error) {
	out := make([]string, 0, len(list))
	for _, e := range list {
		s, ok := e.(string)
		if !ok || s == "" {
			return nil, invalid(key, "%s entries must be non-empty strings, got %v", key, e)
		}
		out = append(out, s)
	}
	return out, nil
}

func stringMap(key string, v any, want string) (load.MapSlice, error) {
	m, ok := load.Normalize(v).(load.MapSlice)
	if !ok {
		return nil, invalid(key, "%s must be %s", key, want)
	}
	for _, item := range m {
		if s, ok := item.Value.(string); !ok || s == "" || item.Key == "" {
			return nil, invalid(key, "%s must be %s", key, want)
		}
	}
	return m, nil
}

// indexes accepts a list whose entries are a field name, a list of field
// names, or a mapping {fields, unique, name}.
func indexes(v any) ([]index.Descriptor, error) {
	const key = schema.DirectiveIndex
	list, ok := v.([]any)
	if !ok {
		return nil, invalid(key, "%s must be an array of index definitions", key)
	}
	out := make([]index.Descriptor, 0, len(list))
	for i, e := range list {
		switch e := e.(type) {
		case string, []any:
			fields, err := names(key, e)
			if err != nil {
				return nil, err
			}
			out = append(out, index.Descriptor{Fields: fields})
		case load.MapSlice:
			idx, err := indexOf(i, e)
			if err != nil {
				return nil, err
			}
			out = append(out, idx)
		default:
			return nil, invalid(key, "%s[%d] must be a field list or an index mapping", key, i)
		}
	}
	return out, nil
}

func indexOf(i int, m load.MapSlice) (index.Descriptor, error) {
	const key = schema.DirectiveIndex
	var idx index.Descriptor
	for _, item := range m {
		switch item.Key {
		case "fields":
			fields, err := names(key, item.Value)
			if err != nil {
				return idx, err
			}
			idx.Fields = fields
		case "unique":
			b, ok := item.Value.(bool)
			if !ok {
				return idx, invalid(key, "%s[%d].unique must be a boolean", key, i)
			}
			idx.Unique = b
		case "name":
			s, ok := item.Value.(string)
			if !ok {
				return idx, invalid(key, "%s[%d].name must be a string", key, i)
			}
			idx.Name = s
		default:
			return idx, invalid(key, "%s[%d]: unknown key %q", key, i, item.Key)
		}
	}
	if len(idx.Fields) == 0 {
		return idx, invalid(key, "%s[%d] must list at least one field", key, i)
	}
	return idx, nil
}

// vectors accepts a list of {field, dimensions, metric} mappings, or a
// single mapping.
func vectors(v any) ([]index.Vector, error) {
	const key = schema.DirectiveVector
	var list []any
	switch v := v.(type) {
	case []any:
		list = v
	case load.MapSlice:
		list = []any{v}
	default:
		return nil, invalid(key, "%s must be an array of vector definitions", key)
	}
	out := make([]index.Vector, 0, len(list))
	for i, e := range list {
		m, ok := e.(load.MapSlice)
		if !ok {
			return nil, invalid(key, "%s[%d] must be a mapping", key, i)
		}
		var vec index.Vector
		for _, item := range m {
			switch item.Key {
			case "field":
				s, ok := item.Value.(string)
				if !ok || s == "" {
					return nil, invalid(key, "%s[%d].field must be a field name", key, i)
				}
				vec.Field = s
			case "dimensions":
				n, ok := integer(item.Value)
				if !ok {
					return nil, invalid(key, "%s[%d].dimensions must be an integer", key, i)
				}
				vec.Dimensions = n
			case "metric":
				s, _ := item.Value.(string)
				if vec.Metric = index.Metric(s); s == "" || !vec.Metric.Valid() {
					return nil, invalid(key, "%s[%d].metric must be one of %q, %q or %q",
						key, i, index.Cosine, index.Euclidean, index.Dot)
				}
			default:
				return nil, invalid(key, "%s[%d]: unknown key %q", key, i, item.Key)
			}
		}
		if vec.Field == "" {
			return nil, invalid(key, "%s[%d] is missing field", key, i)
		}
		out = append(out, vec)
	}
	return out, nil
}

func integer(v any) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case int64:
		return int(n), true
	case uint64:
		if n > math.MaxInt32 {
			return 0, false
		}
		return int(n), true
	case float64:
		if n != math.Trunc(n) || math.IsInf(n, 0) {
			return 0, false
		}
		return int(n), true
	}
	return 0, false
}

package load

import (
	"fmt"
	"sort"

	"github.com/syssam/icetype"
)

// FromMap builds a definition from a Go map. Go maps carry no order, so
// field and directive keys are sorted.
func FromMap(m map[string]any) (*Definition, error) {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	items := make(MapSlice, len(keys))
	for i, k := range keys {
		items[i] = MapItem{Key: k, Value: Normalize(m[k])}
	}
	return FromMapSlice(items)
}

// FromMapSlice builds a definition from an ordered mapping.
func FromMapSlice(items MapSlice) (*Definition, error) {
	def := &Definition{}
	seen := make(map[string]bool, len(items))
	for _, item := range items {
		if seen[item.Key] {
			return nil, icetype.NewParseError(icetype.CodeDuplicateField, item.Key,
				fmt.Sprintf("key %q is declared more than once", item.Key))
		}
		seen[item.Key] = true
		switch {
		case item.Key == KeyType:
			name, ok := item.Value.(string)
			if !ok {
				return nil, icetype.NewParseError(icetype.CodeInvalidSchemaName, KeyType,
					fmt.Sprintf("%s must be a string, got %T", KeyType, item.Value))
			}
			def.TypeName = name
		case isDirectiveKey(item.Key):
			def.Directives = append(def.Directives, Directive{Key: item.Key, Value: Normalize(item.Value)})
		default:
			s, ok := item.Value.(string)
			if !ok {
				return nil, icetype.NewParseError(icetype.CodeInvalidFieldDefinition, item.Key,
					fmt.Sprintf("field definition must be a string, got %T", item.Value))
			}
			def.Fields = append(def.Fields, FieldEntry{Name: item.Key, Def: s})
		}
	}
	return def, nil
}

package schema

import (
	"fmt"
	"maps"
	"slices"

	"github.com/syssam/icetype"
)

// Registry resolves entity names to schemas. Implementations must not
// change while a validation that uses them is running.
type Registry interface {
	Lookup(name string) (*Schema, bool)
}

// MapRegistry is an immutable Registry backed by a map.
type MapRegistry struct {
	schemas map[string]*Schema
}

// NewRegistry returns a registry of the given schemas.
func NewRegistry(schemas ...*Schema) (*MapRegistry, error) {
	r := &MapRegistry{schemas: make(map[string]*Schema, len(schemas))}
	for _, s := range schemas {
		if _, ok := r.schemas[s.Name()]; ok {
			return nil, icetype.NewParseError(icetype.CodeDuplicateSchema, s.Name(), fmt.Sprintf("duplicate schema %q", s.Name()))
		}
		r.schemas[s.Name()] = s
	}
	return r, nil
}

// MustRegistry is like NewRegistry but panics on error.
func MustRegistry(schemas ...*Schema) *MapRegistry {
	r, err := NewRegistry(schemas...)
	if err != nil {
		panic(err)
	}
	return r
}

// Lookup implements Registry.
func (r *MapRegistry) Lookup(name string) (*Schema, bool) {
	if r == nil {
		return nil, false
	}
	s, ok := r.schemas[name]
	return s, ok
}

// Len returns the number of schemas.
func (r *MapRegistry) Len() int {
	if r == nil {
		return 0
	}
	return len(r.schemas)
}

// Names returns the registered names in sorted order.
func (r *MapRegistry) Names() []string {
	if r == nil {
		return nil
	}
	return slices.Sorted(maps.Keys(r.schemas))
}

// Schemas returns the registered schemas sorted by name.
func (r *MapRegistry) Schemas() []*Schema {
	names := r.Names()
	schemas := make([]*Schema, len(names))
	for i, n := range names {
		schemas[i] = r.schemas[n]
	}
	return schemas
}

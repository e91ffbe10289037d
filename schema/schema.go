package schema

import (
	"fmt"
	"slices"
	"time"
	"unicode"

	"github.com/google/uuid"

	"github.com/syssam/icetype"
	"github.com/syssam/icetype/schema/edge"
	"github.com/syssam/icetype/schema/field"
)

// Namespace is the UUID namespace schema identities are derived from.
var Namespace = uuid.MustParse("8f1c2b6e-4d0a-5f3e-9b7a-1c2d3e4f5a6b")

// System field names.
const (
	FieldID        = "$id"
	FieldType      = "$type"
	FieldVersion   = "$version"
	FieldCreatedAt = "$createdAt"
	FieldUpdatedAt = "$updatedAt"
)

// SystemFields lists the adapter-managed fields in column order.
var SystemFields = []string{FieldID, FieldType, FieldVersion, FieldCreatedAt, FieldUpdatedAt}

// IsSystemField reports whether name is a reserved system field.
func IsSystemField(name string) bool {
	return slices.Contains(SystemFields, name)
}

// Schema is an immutable IceType entity schema.
type Schema struct {
	id         uuid.UUID
	name       string
	fields     []*field.Descriptor
	positions  map[string]int
	directives Directives
	version    int
	createdAt  time.Time
	updatedAt  time.Time
}

// Option configures New.
type Option func(*options) error

type options struct {
	id        uuid.UUID
	version   int
	createdAt time.Time
	updatedAt time.Time
}

// WithVersion sets the schema version. Versions start at 1.
func WithVersion(v int) Option {
	return func(o *options) error {
		if v < 1 {
			return icetype.NewConfigError("Version", v, "version must be at least 1")
		}
		o.version = v
		return nil
	}
}

// WithTimestamps sets the creation and update timestamps.
func WithTimestamps(createdAt, updatedAt time.Time) Option {
	return func(o *options) error {
		if updatedAt.Before(createdAt) {
			return icetype.NewConfigError("Timestamps", updatedAt, "updatedAt precedes createdAt")
		}
		o.createdAt, o.updatedAt = createdAt, updatedAt
		return nil
	}
}

// WithID overrides the identity derived from the schema name.
func WithID(id uuid.UUID) Option {
	return func(o *options) error {
		if id == uuid.Nil {
			return icetype.NewConfigError("ID", nil, "id cannot be nil")
		}
		o.id = id
		return nil
	}
}

// New returns a new schema. Fields and directives are copied.
func New(name string, fields []*field.Descriptor, directives Directives, opts ...Option) (*Schema, error) {
	if err := ValidName(name); err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	o := &options{
		id:        IdentityOf(name),
		version:   1,
		createdAt: now,
		updatedAt: now,
	}
	for _, opt := range opts {
		if err := opt(o); err != nil {
			return nil, err
		}
	}
	s := &Schema{
		id:         o.id,
		name:       name,
		fields:     make([]*field.Descriptor, 0, len(fields)),
		positions:  make(map[string]int, len(fields)),
		directives: directives.Clone(),
		version:    o.version,
		createdAt:  o.createdAt,
		updatedAt:  o.updatedAt,
	}
	for _, fd := range fields {
		switch {
		case fd == nil || fd.Name == "":
			return nil, icetype.NewParseError(icetype.CodeInvalidFieldDefinition, name, "field without a name")
		case fd.Name[0] == '$':
			return nil, icetype.NewParseError(icetype.CodeReservedFieldName, fd.Name, fmt.Sprintf("field name %q is reserved", fd.Name))
		case fd.Kind == nil:
			return nil, icetype.NewParseError(icetype.CodeInvalidFieldDefinition, fd.Name, "field has no type")
		}
		if _, ok := s.positions[fd.Name]; ok {
			return nil, icetype.NewParseError(icetype.CodeDuplicateField, fd.Name, fmt.Sprintf("duplicate field %q in %s", fd.Name, name))
		}
		s.positions[fd.Name] = len(s.fields)
		s.fields = append(s.fields, fd.Clone())
	}
	return s, nil
}

// ValidName checks that name is a usable entity name.
func ValidName(name string) error {
	if name == "" {
		return icetype.NewParseError(icetype.CodeMissingSchemaName, "$type", "schema name is required")
	}
	for i, r := range name {
		switch {
		case r == '_' || unicode.IsLetter(r):
		case unicode.IsDigit(r) && i > 0:
		default:
			return icetype.NewParseError(icetype.CodeInvalidSchemaName, "$type", fmt.Sprintf("invalid schema name %q", name))
		}
	}
	return nil
}

// IdentityOf returns the deterministic identity of an entity name.
func IdentityOf(name string) uuid.UUID {
	return uuid.NewSHA1(Namespace, []byte(name))
}

// Next returns the next version of s with the given fields and directives.
// The identity and creation time carry over.
func (s *Schema) Next(fields []*field.Descriptor, directives Directives, at time.Time) (*Schema, error) {
	return New(s.name, fields, directives,
		WithID(s.id),
		WithVersion(s.version+1),
		WithTimestamps(s.createdAt, at),
	)
}

// ID returns the schema identity.
func (s *Schema) ID() uuid.UUID { return s.id }

// Name returns the entity name.
func (s *Schema) Name() string { return s.name }

// Version returns the schema version.
func (s *Schema) Version() int { return s.version }

// CreatedAt returns the creation time of the first version.
func (s *Schema) CreatedAt() time.Time { return s.createdAt }

// UpdatedAt returns the creation time of this version.
func (s *Schema) UpdatedAt() time.Time { return s.updatedAt }

// Fields returns a copy of the fields in declaration order.
func (s *Schema) Fields() []*field.Descriptor {
	fields := make([]*field.Descriptor, len(s.fields))
	for i, fd := range s.fields {
		fields[i] = fd.Clone()
	}
	return fields
}

// FieldNames returns the field names in declaration order.
func (s *Schema) FieldNames() []string {
	names := make([]string, len(s.fields))
	for i, fd := range s.fields {
		names[i] = fd.Name
	}
	return names
}

// Field returns a copy of the named field.
func (s *Schema) Field(name string) (*field.Descriptor, bool) {
	i, ok := s.positions[name]
	if !ok {
		return nil, false
	}
	return s.fields[i].Clone(), true
}

// HasField reports whether the schema declares the named field.
func (s *Schema) HasField(name string) bool {
	_, ok := s.positions[name]
	return ok
}

// Position returns the declaration index of the named field, or -1.
func (s *Schema) Position(name string) int {
	if i, ok := s.positions[name]; ok {
		return i
	}
	return -1
}

// Relations returns copies of the relation fields in declaration order.
func (s *Schema) Relations() []*field.Descriptor {
	var rels []*field.Descriptor
	for _, fd := range s.fields {
		if fd.Relation != nil {
			rels = append(rels, fd.Clone())
		}
	}
	return rels
}

// Relation returns a copy of the relation declared by the named field.
func (s *Schema) Relation(name string) (*edge.Descriptor, bool) {
	i, ok := s.positions[name]
	if !ok || s.fields[i].Relation == nil {
		return nil, false
	}
	return s.fields[i].Relation.Clone(), true
}

// Directives returns a copy of the schema directives.
func (s *Schema) Directives() Directives { return s.directives.Clone() }

// Equal reports whether two schemas are identical, metadata included.
func (s *Schema) Equal(o *Schema) bool {
	if s == nil || o == nil {
		return s == o
	}
	return s.id == o.id &&
		s.name == o.name &&
		s.version == o.version &&
		s.createdAt.Equal(o.createdAt) &&
		s.updatedAt.Equal(o.updatedAt) &&
		slices.EqualFunc(s.fields, o.fields, (*field.Descriptor).Equal) &&
		s.directives.Equal(o.directives)
}

// String returns a short description of the schema.
func (s *Schema) String() string {
	return fmt.Sprintf("%s@v%d(%d fields)", s.name, s.version, len(s.fields))
}

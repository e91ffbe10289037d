package compiler

import (
	"fmt"
	"strings"

	"github.com/syssam/icetype"
	"github.com/syssam/icetype/compiler/directive"
	"github.com/syssam/icetype/compiler/load"
	"github.com/syssam/icetype/compiler/parser"
	"github.com/syssam/icetype/schema"
	"github.com/syssam/icetype/schema/field"
)

// ParseSchema assembles a single schema at version 1.
func ParseSchema(def *load.Definition, opts ...Option) (*schema.Schema, error) {
	cfg, err := newConfig(opts)
	if err != nil {
		return nil, err
	}
	return parseSchema(def, cfg)
}

// ParseSchemas assembles every definition, stopping at the first error.
// Two definitions with the same name fail with DUPLICATE_SCHEMA.
func ParseSchemas(defs []*load.Definition, opts ...Option) ([]*schema.Schema, error) {
	cfg, err := newConfig(opts)
	if err != nil {
		return nil, err
	}
	seen := make(map[string]bool, len(defs))
	out := make([]*schema.Schema, 0, len(defs))
	for _, def := range defs {
		s, err := parseSchema(def, cfg)
		if err != nil {
			return nil, err
		}
		if seen[s.Name()] {
			return nil, icetype.NewParseError(icetype.CodeDuplicateSchema, s.Name(),
				fmt.Sprintf("schema %s is defined more than once", s.Name()))
		}
		seen[s.Name()] = true
		out = append(out, s)
	}
	return out, nil
}

// NextVersion assembles def as the successor of prev. The result keeps the
// identity and creation time of prev and bumps its version.
func NextVersion(prev *schema.Schema, def *load.Definition, opts ...Option) (*schema.Schema, error) {
	cfg, err := newConfig(opts)
	if err != nil {
		return nil, err
	}
	if def == nil || def.TypeName != prev.Name() {
		var got string
		if def != nil {
			got = def.TypeName
		}
		return nil, fmt.Errorf("%w: next version of %s defines %q", icetype.ErrEntityMismatch, prev.Name(), got)
	}
	fields, dirs, err := parseDefinition(def)
	if err != nil {
		return nil, err
	}
	s, err := prev.Next(fields, dirs, cfg.clock())
	if err != nil {
		return nil, err
	}
	cfg.logger.Debug("schema assembled", "schema", s.Name(), "fields", len(fields), "version", s.Version())
	return s, nil
}

func parseSchema(def *load.Definition, cfg *config) (*schema.Schema, error) {
	if def == nil || def.TypeName == "" {
		return nil, icetype.NewParseError(icetype.CodeMissingSchemaName, schema.FieldType, "schema definition has no $type")
	}
	if err := schema.ValidName(def.TypeName); err != nil {
		return nil, err
	}
	fields, dirs, err := parseDefinition(def)
	if err != nil {
		return nil, err
	}
	now := cfg.clock()
	s, err := schema.New(def.TypeName, fields, dirs, schema.WithTimestamps(now, now))
	if err != nil {
		return nil, err
	}
	cfg.logger.Debug("schema assembled", "schema", s.Name(), "fields", len(fields), "version", s.Version())
	return s, nil
}

// parseDefinition parses the fields of def in declaration order, then its
// directives, and returns the first error met.
func parseDefinition(def *load.Definition) ([]*field.Descriptor, schema.Directives, error) {
	fields, err := parseFields(def.TypeName, def.Fields)
	if err != nil {
		return nil, schema.Directives{}, err
	}
	dirs, err := directive.Parse(def.Directives)
	if err != nil {
		return nil, schema.Directives{}, err
	}
	applyOnDelete(fields, dirs)
	return fields, dirs, nil
}

// assemble builds a schema from raw field strings and parsed directives.
func assemble(name string, entries []load.FieldEntry, dirs schema.Directives, opts ...schema.Option) (*schema.Schema, error) {
	if err := schema.ValidName(name); err != nil {
		return nil, err
	}
	fields, err := parseFields(name, entries)
	if err != nil {
		return nil, err
	}
	applyOnDelete(fields, dirs)
	return schema.New(name, fields, dirs, opts...)
}

// parseFields parses the field strings in order.
func parseFields(name string, entries []load.FieldEntry) ([]*field.Descriptor, error) {
	fields := make([]*field.Descriptor, 0, len(entries))
	for _, e := range entries {
		if strings.HasPrefix(e.Name, "$") {
			return nil, icetype.NewParseError(icetype.CodeReservedFieldName, e.Name,
				fmt.Sprintf("field name %q in %s is reserved", e.Name, name))
		}
		fd, err := parser.ParseField(e.Name, e.Def)
		if err != nil {
			return nil, err
		}
		fields = append(fields, fd)
	}
	return fields, nil
}

// applyOnDelete sets the $onDelete policies on the relation fields they name.
func applyOnDelete(fields []*field.Descriptor, dirs schema.Directives) {
	for _, fd := range fields {
		if fd.Relation == nil {
			continue
		}
		if p, ok := dirs.OnDeletePolicy(fd.Name); ok {
			fd.Relation.OnDelete = p
		}
	}
}

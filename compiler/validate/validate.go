package validate

import (
	"fmt"
	"strings"

	"github.com/syssam/icetype"
	"github.com/syssam/icetype/schema"
	"github.com/syssam/icetype/schema/field"
)

// SchemaResult is the validation result of one registry entry.
type SchemaResult struct {
	Name string
	*Result
}

// ValidateRegistry validates every schema of reg against reg, in name order.
func ValidateRegistry(reg *schema.MapRegistry, opts ...Option) []*SchemaResult {
	names := reg.Names()
	out := make([]*SchemaResult, 0, len(names))
	for _, name := range names {
		s, _ := reg.Lookup(name)
		out = append(out, &SchemaResult{Name: name, Result: ValidateSchema(s, reg, opts...)})
	}
	return out
}

// ValidateSchema checks field modifiers and parameters, every directive
// reference and, for relations and projections, the referenced schemas in
// reg. A nil registry is treated as empty.
func ValidateSchema(s *schema.Schema, reg schema.Registry, opts ...Option) *Result {
	cfg := newConfig(opts)
	r := &Result{}
	if s == nil {
		r.errorf(icetype.CodeMissingSchemaName, "", "schema is nil")
		return r.finish(cfg)
	}
	v := &validator{s: s, reg: reg, r: r, dirs: s.Directives()}
	v.fields()
	v.directives()
	v.projection()
	return r.finish(cfg)
}

// ValidateProjection runs only the projection checks: $from, $expand and
// $flatten resolution.
func ValidateProjection(s *schema.Schema, reg schema.Registry, opts ...Option) *Result {
	cfg := newConfig(opts)
	r := &Result{}
	if s == nil {
		r.errorf(icetype.CodeMissingSchemaName, "", "schema is nil")
		return r.finish(cfg)
	}
	v := &validator{s: s, reg: reg, r: r, dirs: s.Directives()}
	v.projection()
	return r.finish(cfg)
}

type validator struct {
	s    *schema.Schema
	reg  schema.Registry
	r    *Result
	dirs schema.Directives
}

// lookup resolves an entity name. The schema under validation resolves to
// itself even when it is not registered.
func (v *validator) lookup(name string) (*schema.Schema, bool) {
	if v.reg != nil {
		if s, ok := v.reg.Lookup(name); ok && s != nil {
			return s, true
		}
	}
	if name == v.s.Name() {
		return v.s, true
	}
	return nil, false
}

func (v *validator) known(name string) bool {
	return v.s.HasField(name) || schema.IsSystemField(name)
}

func (v *validator) fields() {
	for _, f := range v.s.Fields() {
		if f.IsUnique && f.IsOptional {
			v.r.errorf(icetype.CodeConflictingModifiers, f.Name,
				"field cannot be both unique (#) and optional (?)")
		}
		v.kind(f.Name, f.Kind)
		if f.Default != nil && !defaultFits(f) {
			v.r.warnf(icetype.CodeInvalidDefault, f.Name,
				"default %s does not fit type %s", f.Default, typeString(f))
		}
		if f.Relation != nil {
			v.relation(f)
		}
	}
}

func (v *validator) kind(path string, k field.TypeKind) {
	switch k := k.(type) {
	case field.Parametric:
		if !k.Set {
			return
		}
		switch {
		case k.Kind == field.Decimal && k.Precision == 0:
			v.r.errorf(icetype.CodeInvalidDecimalParams, path, "decimal precision must be at least 1")
		case k.Kind == field.Decimal && k.Scale > k.Precision:
			v.r.errorf(icetype.CodeInvalidDecimalParams, path,
				"decimal scale %d exceeds precision %d", k.Scale, k.Precision)
		case k.Kind != field.Decimal && k.Length == 0:
			v.r.errorf(icetype.CodeInvalidLength, path, "%s length must be at least 1", k.Kind)
		}
	case field.Generic:
		for _, arg := range k.Args {
			v.kind(path, arg)
		}
	}
}

func (v *validator) relation(f *field.Descriptor) {
	rel := f.Relation
	if v.reg == nil {
		return
	}
	target, ok := v.lookup(rel.Target)
	if !ok {
		v.r.warnf(icetype.CodeUnknownRelationTarget, f.Name,
			"relation target %s is not a known schema", rel.Target)
		return
	}
	if rel.Inverse != "" && !target.HasField(rel.Inverse) {
		v.r.warnf(icetype.CodeUnknownInverseField, f.Name,
			"inverse field %s.%s does not exist", rel.Target, rel.Inverse)
	}
}

func (v *validator) directives() {
	for _, name := range v.dirs.PartitionBy {
		if !v.known(name) {
			v.r.errorf(icetype.CodeUnknownPartitionField, schema.DirectivePartitionBy,
				"unknown field %q", name)
		}
	}
	for i, idx := range v.dirs.Indexes {
		for _, name := range idx.Fields {
			if !v.known(name) {
				v.r.errorf(icetype.CodeUnknownIndexField, fmt.Sprintf("%s[%d]", schema.DirectiveIndex, i),
					"unknown field %q", name)
			}
		}
	}
	for _, name := range v.dirs.FTS {
		f, ok := v.s.Field(name)
		switch {
		case !ok && !schema.IsSystemField(name):
			v.r.errorf(icetype.CodeUnknownFTSField, schema.DirectiveFTS, "unknown field %q", name)
		case ok && !textual(f.Kind):
			v.r.warnf(icetype.CodeFTSNonTextField, schema.DirectiveFTS,
				"field %q has non-text type %s", name, typeString(f))
		}
	}
	for i, vec := range v.dirs.Vectors {
		path := fmt.Sprintf("%s[%d]", schema.DirectiveVector, i)
		if vec.Dimensions <= 0 {
			v.r.errorf(icetype.CodeInvalidVectorDimensions, path,
				"dimensions must be a positive integer, got %d", vec.Dimensions)
		}
		f, ok := v.s.Field(vec.Field)
		switch {
		case !ok:
			v.r.errorf(icetype.CodeUnknownVectorField, path, "unknown field %q", vec.Field)
		case !floatVector(f):
			v.r.warnf(icetype.CodeVectorFieldType, path,
				"field %q has type %s, expected a float or double list", vec.Field, typeString(f))
		}
	}
	for _, rule := range v.dirs.OnDelete {
		if f, ok := v.s.Field(rule.Field); !ok || !f.IsRelation() {
			v.r.errorf(icetype.CodeUnknownRelationField, schema.DirectiveOnDelete,
				"%q is not a relation field", rule.Field)
		}
	}
}

func (v *validator) projection() {
	d := v.dirs
	if !d.IsProjection() && (d.From != "" || len(d.Expand) > 0 || len(d.Flatten) > 0) {
		v.r.warnf(icetype.CodeProjectionWithoutSource, schema.DirectiveProjection,
			"projection directives are set but %s is missing", schema.DirectiveProjection)
	}
	root := v.s
	if d.From != "" {
		src, ok := v.lookup(d.From)
		if !ok {
			v.r.errorf(icetype.CodeUnknownSourceEntity, schema.DirectiveFrom,
				"source entity '%s' is not a known schema", d.From)
			return
		}
		root = src
	}
	for _, path := range d.Expand {
		if seg, reason := v.walk(root, path, true); reason != "" {
			v.r.errorf(icetype.CodeUnknownExpandPath, schema.DirectiveExpand,
				"cannot resolve expand path '%s': segment '%s' %s", path, seg, reason)
		}
	}
	for _, rule := range d.Flatten {
		if seg, reason := v.walk(root, rule.Source, false); reason != "" {
			v.r.errorf(icetype.CodeUnknownFlattenPath, schema.DirectiveFlatten+"."+rule.Output,
				"cannot resolve flatten path '%s': segment '%s' %s", rule.Source, seg, reason)
		}
	}
}

// walk resolves a dotted path hop by hop. Every segment but the last must
// be a relation whose target exists. The last segment may be a field or a
// relation when expanding, and must be a field when flattening. It returns
// the failing segment and the reason, or an empty reason on success.
func (v *validator) walk(root *schema.Schema, path string, expand bool) (string, string) {
	cur := root
	segs := strings.Split(path, ".")
	for i, seg := range segs {
		if seg == "" {
			return seg, "is empty"
		}
		f, ok := cur.Field(seg)
		last := i == len(segs)-1
		switch {
		case !ok && last && schema.IsSystemField(seg):
			return "", ""
		case !ok:
			return seg, fmt.Sprintf("is not declared on %s", cur.Name())
		case !f.IsRelation() && last:
			return "", ""
		case !f.IsRelation():
			return seg, fmt.Sprintf("is not a relation of %s", cur.Name())
		}
		target, ok := v.lookup(f.Relation.Target)
		if !ok {
			return seg, fmt.Sprintf("targets unknown schema %s", f.Relation.Target)
		}
		if last && !expand {
			return seg, "is a relation, not a field"
		}
		cur = target
	}
	return "", ""
}

package sqlddl

import (
	"fmt"
	"strings"

	atlas "ariga.io/atlas/sql/schema"
	"github.com/go-openapi/inflect"

	"github.com/syssam/icetype/dialect"
	"github.com/syssam/icetype/schema"
	"github.com/syssam/icetype/schema/edge"
	"github.com/syssam/icetype/schema/field"
	"github.com/syssam/icetype/schema/index"
)

// TableName returns the table name of an entity: the plural, snake-cased
// entity name.
func TableName(entity string) string {
	return inflect.Underscore(inflect.Pluralize(entity))
}

// ColumnName returns the column name of a field. Forward relations are
// stored as a foreign key column suffixed with _id.
func ColumnName(f *field.Descriptor) string {
	name := inflect.Underscore(f.Name)
	if ownsKey(f) {
		name += "_id"
	}
	return name
}

// systemColumns maps materialized system fields to column names. $type is
// implied by the table and has no column.
var systemColumns = map[string]string{
	schema.FieldID:        "id",
	schema.FieldVersion:   "version",
	schema.FieldCreatedAt: "created_at",
	schema.FieldUpdatedAt: "updated_at",
}

// ownsKey reports whether the field is stored as a foreign key on its own
// table. Back-references, fuzzy relations and to-many relations are not.
func ownsKey(f *field.Descriptor) bool {
	return f.Relation != nil && f.Relation.Operator == edge.Forward && !f.IsArray
}

// builder converts schemas to atlas tables for one dialect.
type builder struct {
	dialect string
	system  bool
}

// table builds the table of s. Column order is system id, user fields in
// declaration order, then the remaining system columns.
func (b builder) table(s *schema.Schema) (*atlas.Table, error) {
	t := atlas.NewTable(TableName(s.Name()))
	// columns maps field and system field names to columns.
	columns := make(map[string]*atlas.Column)
	var pk *atlas.Column
	if b.system && !s.HasField("id") {
		pk = atlas.NewColumn("id").SetType(primitiveType(b.dialect, field.TypeUUID))
		t.AddColumns(pk)
		columns[schema.FieldID] = pk
	}
	for _, f := range s.Fields() {
		if f.Relation != nil && !ownsKey(f) {
			continue
		}
		c, err := b.column(f)
		if err != nil {
			return nil, fmt.Errorf("sqlddl: %s.%s: %w", s.Name(), f.Name, err)
		}
		t.AddColumns(c)
		columns[f.Name] = c
		if f.Name == "id" {
			pk = c
		}
		if f.IsUnique {
			t.AddIndexes(atlas.NewUniqueIndex(t.Name + "_" + c.Name + "_key").AddColumns(c))
		}
		if ownsKey(f) {
			t.AddForeignKeys(b.foreignKey(t, c, f.Relation))
		}
	}
	if b.system {
		version := atlas.NewColumn("version").
			SetType(primitiveType(b.dialect, field.TypeInt)).
			SetDefault(&atlas.Literal{V: "1"})
		t.AddColumns(version)
		columns[schema.FieldVersion] = version
		for _, name := range []string{schema.FieldCreatedAt, schema.FieldUpdatedAt} {
			c := atlas.NewColumn(systemColumns[name]).
				SetType(primitiveType(b.dialect, b.timestamp())).
				SetDefault(&atlas.RawExpr{X: "CURRENT_TIMESTAMP"})
			t.AddColumns(c)
			columns[name] = c
		}
	}
	if pk != nil {
		pk.SetNull(false)
		t.SetPrimaryKey(atlas.NewPrimaryKey(pk))
	}
	for _, idx := range s.Directives().Indexes {
		i, err := b.index(t, columns, idx)
		if err != nil {
			return nil, fmt.Errorf("sqlddl: %s: %w", s.Name(), err)
		}
		t.AddIndexes(i)
	}
	return t, nil
}

func (b builder) timestamp() field.Type {
	if b.dialect == dialect.Postgres {
		return field.TypeTimestampTZ
	}
	return field.TypeTimestamp
}

// column builds the column of a scalar field or of the key of a forward
// relation. Unmarked fields are nullable.
func (b builder) column(f *field.Descriptor) (*atlas.Column, error) {
	c := atlas.NewColumn(ColumnName(f)).SetNull(!f.IsRequired())
	if f.Relation != nil {
		return c.SetType(primitiveType(b.dialect, field.TypeUUID)), nil
	}
	c.SetType(columnType(b.dialect, f))
	if f.Default != nil {
		x, err := b.defaultExpr(f.Default)
		if err != nil {
			return nil, err
		}
		if x != nil {
			c.SetDefault(x)
		}
	}
	return c, nil
}

// defaultExpr converts a default literal to a column default. A null
// default is the absence of a default.
func (b builder) defaultExpr(d *field.Default) (atlas.Expr, error) {
	switch d.Kind {
	case field.DefaultString:
		return &atlas.Literal{V: "'" + strings.ReplaceAll(d.Raw, "'", "''") + "'"}, nil
	case field.DefaultNumber, field.DefaultBool:
		return &atlas.Literal{V: d.Raw}, nil
	case field.DefaultNull:
		return nil, nil
	case field.DefaultFunc:
		return b.funcExpr(d.Raw), nil
	}
	return nil, fmt.Errorf("unsupported default %s", d)
}

func (b builder) funcExpr(name string) atlas.Expr {
	switch strings.ToLower(name) {
	case "now", "current_timestamp":
		return &atlas.RawExpr{X: "CURRENT_TIMESTAMP"}
	case "uuid", "gen_random_uuid":
		switch b.dialect {
		case dialect.Postgres:
			return &atlas.RawExpr{X: "gen_random_uuid()"}
		case dialect.MySQL:
			return &atlas.RawExpr{X: "(uuid())"}
		}
		return nil
	}
	return &atlas.RawExpr{X: name + "()"}
}

func (b builder) foreignKey(t *atlas.Table, c *atlas.Column, rel *edge.Descriptor) *atlas.ForeignKey {
	ref := atlas.NewTable(TableName(rel.Target))
	refID := atlas.NewColumn("id").SetType(primitiveType(b.dialect, field.TypeUUID))
	ref.AddColumns(refID)
	fk := atlas.NewForeignKey(t.Name + "_" + c.Name + "_fkey").
		SetTable(t).
		AddColumns(c).
		SetRefTable(ref).
		AddRefColumns(refID)
	switch rel.OnDelete {
	case edge.Cascade:
		fk.SetOnDelete(atlas.Cascade)
	case edge.SetNull:
		fk.SetOnDelete(atlas.SetNull)
	case edge.Restrict:
		fk.SetOnDelete(atlas.Restrict)
	}
	return fk
}

// IndexName returns the index name of an $index entry: its explicit name,
// or the table and columns joined with an _idx or _key suffix.
func IndexName(table string, idx index.Descriptor) string {
	if idx.Name != "" {
		return idx.Name
	}
	suffix := "_idx"
	if idx.Unique {
		suffix = "_key"
	}
	cols := make([]string, len(idx.Fields))
	for i, f := range idx.Fields {
		if c, ok := systemColumns[f]; ok {
			cols[i] = c
		} else {
			cols[i] = inflect.Underscore(f)
		}
	}
	return table + "_" + strings.Join(cols, "_") + suffix
}

func (b builder) index(t *atlas.Table, columns map[string]*atlas.Column, idx index.Descriptor) (*atlas.Index, error) {
	i := atlas.NewIndex(IndexName(t.Name, idx)).SetUnique(idx.Unique)
	for _, name := range idx.Fields {
		c, ok := columns[name]
		if !ok {
			return nil, fmt.Errorf("index %s: no column for field %q", i.Name, name)
		}
		i.AddColumns(c)
	}
	return i, nil
}

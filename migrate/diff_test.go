package migrate_test

import (
	"testing"

	"github.com/syssam/icetype"
	"github.com/syssam/icetype/compiler/parser"
	"github.com/syssam/icetype/migrate"
	"github.com/syssam/icetype/schema"
	"github.com/syssam/icetype/schema/field"
	"github.com/syssam/icetype/schema/index"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func build(t testing.TB, name string, dirs schema.Directives, defs ...string) *schema.Schema {
	t.Helper()
	fields := make([]*field.Descriptor, 0, len(defs)/2)
	for i := 0; i+1 < len(defs); i += 2 {
		fd, err := parser.ParseField(defs[i], defs[i+1])
		require.NoError(t, err)
		fields = append(fields, fd)
	}
	s, err := schema.New(name, fields, dirs)
	require.NoError(t, err)
	return s
}

func fieldNames(fields []*field.Descriptor) []string {
	names := make([]string, len(fields))
	for i, f := range fields {
		names[i] = f.Name
	}
	return names
}

func TestDiffAddedField(t *testing.T) {
	t.Parallel()

	v1 := build(t, "User", schema.Directives{}, "id", "uuid!", "name", "string")
	v2 := build(t, "User", schema.Directives{}, "id", "uuid!", "name", "string", "email", "string")
	d, err := migrate.DiffSchemas(v1, v2)
	require.NoError(t, err)
	assert.Equal(t, "User", d.Entity)
	assert.Equal(t, []string{"email"}, fieldNames(d.AddedFields))
	assert.Empty(t, d.RemovedFields)
	assert.Empty(t, d.ModifiedFields)
	assert.True(t, d.HasChanges())
	assert.False(t, d.IsBreaking())
}

func TestDiffIdentity(t *testing.T) {
	t.Parallel()

	s := build(t, "User", schema.Directives{Indexes: []index.Descriptor{index.Fields("email").Descriptor()}},
		"id", "uuid!", "email", "string#", "bio", "text? = ''")
	d, err := migrate.DiffSchemas(s, s)
	require.NoError(t, err)
	assert.False(t, d.HasChanges())
	assert.False(t, d.IsBreaking())
}

func TestDiffEntityMismatch(t *testing.T) {
	t.Parallel()

	_, err := migrate.DiffSchemas(build(t, "User", schema.Directives{}), build(t, "Post", schema.Directives{}))
	assert.ErrorIs(t, err, icetype.ErrEntityMismatch)
	_, err = migrate.DiffSchemas(nil, build(t, "Post", schema.Directives{}))
	assert.ErrorIs(t, err, icetype.ErrEntityMismatch)
}

func TestDiffModifiedFields(t *testing.T) {
	t.Parallel()

	tests := []struct {
		from, to string
		changes  []migrate.ChangeKind
		severity migrate.Severity
	}{
		{"int", "bigint", []migrate.ChangeKind{migrate.ChangeType}, migrate.Safe},
		{"bigint", "int", []migrate.ChangeKind{migrate.ChangeType}, migrate.Breaking},
		{"float", "double", []migrate.ChangeKind{migrate.ChangeType}, migrate.Safe},
		{"string", "text", []migrate.ChangeKind{migrate.ChangeType}, migrate.Safe},
		{"text", "string", []migrate.ChangeKind{migrate.ChangeType}, migrate.Safe},
		{"text", "varchar(10)", []migrate.ChangeKind{migrate.ChangeType}, migrate.Breaking},
		{"varchar(10)", "text", []migrate.ChangeKind{migrate.ChangeType}, migrate.Safe},
		{"char(2)", "text", []migrate.ChangeKind{migrate.ChangeType}, migrate.Safe},
		{"char(2)", "varchar(5)", []migrate.ChangeKind{migrate.ChangeType}, migrate.Safe},
		{"char(5)", "varchar(2)", []migrate.ChangeKind{migrate.ChangeType}, migrate.Breaking},
		{"timestamp", "timestamptz", []migrate.ChangeKind{migrate.ChangeType}, migrate.Safe},
		{"fixed(16)", "binary", []migrate.ChangeKind{migrate.ChangeType}, migrate.Safe},
		{"varchar(10)", "varchar(20)", []migrate.ChangeKind{migrate.ChangeLength}, migrate.Safe},
		{"varchar(20)", "varchar(10)", []migrate.ChangeKind{migrate.ChangeLength}, migrate.Breaking},
		{"decimal(10,2)", "decimal(12,2)", []migrate.ChangeKind{migrate.ChangePrecision}, migrate.Safe},
		{"decimal(10,2)", "decimal(10,3)", []migrate.ChangeKind{migrate.ChangeScale}, migrate.Breaking},
		{"decimal(10,2)", "decimal(8,2)", []migrate.ChangeKind{migrate.ChangePrecision}, migrate.Breaking},
		{"list<int>", "list<string>", []migrate.ChangeKind{migrate.ChangeType}, migrate.Breaking},
		{"string?", "string", []migrate.ChangeKind{migrate.ChangeModifier}, migrate.Safe},
		{"string?", "string!", []migrate.ChangeKind{migrate.ChangeModifier}, migrate.Breaking},
		{"string?", "string! = 'x'", []migrate.ChangeKind{migrate.ChangeModifier, migrate.ChangeDefault}, migrate.Safe},
		{"string", "string#", []migrate.ChangeKind{migrate.ChangeModifier}, migrate.Breaking},
		{"string#", "string", []migrate.ChangeKind{migrate.ChangeModifier}, migrate.Safe},
		{"string", "string[]", []migrate.ChangeKind{migrate.ChangeArray}, migrate.Breaking},
		{"int = 1", "int = 2", []migrate.ChangeKind{migrate.ChangeDefault}, migrate.Safe},
		{"-> User", "-> Account", []migrate.ChangeKind{migrate.ChangeRelation}, migrate.Breaking},
	}
	for _, tt := range tests {
		t.Run(tt.from+" to "+tt.to, func(t *testing.T) {
			d, err := migrate.DiffSchemas(
				build(t, "T", schema.Directives{}, "f", tt.from),
				build(t, "T", schema.Directives{}, "f", tt.to),
			)
			require.NoError(t, err)
			require.Len(t, d.ModifiedFields, 1)
			c := d.ModifiedFields[0]
			assert.Equal(t, "f", c.Name)
			assert.Equal(t, tt.changes, c.Changes)
			assert.Equal(t, tt.severity, c.Severity())
			assert.Equal(t, tt.severity == migrate.Breaking, d.IsBreaking())
		})
	}
}

func TestDiffIndexes(t *testing.T) {
	t.Parallel()

	v1 := build(t, "User", schema.Directives{Indexes: []index.Descriptor{
		index.Fields("email").Descriptor(),
		index.Fields("name").Name("by_name").Descriptor(),
	}}, "email", "string", "name", "string")
	v2 := build(t, "User", schema.Directives{Indexes: []index.Descriptor{
		index.Fields("email").Unique().Descriptor(),
		index.Fields("name", "email").Name("by_name").Descriptor(),
	}}, "email", "string", "name", "string")

	d, err := migrate.DiffSchemas(v1, v2)
	require.NoError(t, err)
	assert.True(t, d.HasChanges())
	assert.Equal(t, []index.Descriptor{
		index.Fields("email").Unique().Descriptor(),
		index.Fields("name", "email").Name("by_name").Descriptor(),
	}, d.AddedIndexes)
	assert.Equal(t, []index.Descriptor{
		index.Fields("email").Descriptor(),
		index.Fields("name").Name("by_name").Descriptor(),
	}, d.RemovedIndexes)
	assert.True(t, d.IsBreaking())
}

func TestDiffRemovedFieldIsBreaking(t *testing.T) {
	t.Parallel()

	d, err := migrate.DiffSchemas(
		build(t, "T", schema.Directives{}, "a", "int", "b", "int"),
		build(t, "T", schema.Directives{}, "a", "int"),
	)
	require.NoError(t, err)
	assert.Equal(t, []string{"b"}, fieldNames(d.RemovedFields))
	assert.True(t, d.IsBreaking())
}

func TestClassify(t *testing.T) {
	t.Parallel()

	required := field.String("a").Required().Descriptor()
	defaulted := field.String("a").Required().Default(field.StringDefault("x")).Descriptor()
	optional := field.String("a").Optional().Descriptor()

	assert.Equal(t, migrate.Breaking, migrate.Classify(migrate.ChangeAddField, nil, required))
	assert.Equal(t, migrate.Safe, migrate.Classify(migrate.ChangeAddField, nil, defaulted))
	assert.Equal(t, migrate.Safe, migrate.Classify(migrate.ChangeAddField, nil, optional))
	assert.Equal(t, migrate.Breaking, migrate.Classify(migrate.ChangeRemoveField, optional, nil))
	assert.Equal(t, migrate.Safe, migrate.Classify(migrate.ChangeAddIndex, nil, nil))
	assert.Equal(t, migrate.Breaking, migrate.Classify(migrate.ChangeKind("rename"), optional, optional))
	assert.Equal(t, migrate.Breaking, migrate.Classify(migrate.ChangeType, nil, nil))

	assert.Equal(t, migrate.Breaking, migrate.ClassifyIndex(migrate.ChangeAddIndex, index.Fields("a").Unique().Descriptor()))
	assert.Equal(t, migrate.Safe, migrate.ClassifyIndex(migrate.ChangeAddIndex, index.Fields("a").Descriptor()))
	assert.Equal(t, migrate.Safe, migrate.ClassifyIndex(migrate.ChangeRemoveIndex, index.Fields("a").Unique().Descriptor()))
	assert.Equal(t, migrate.Breaking, migrate.ClassifyIndex(migrate.ChangeType, index.Fields("a").Descriptor()))
	assert.Equal(t, "breaking", migrate.Breaking.String())
	assert.Equal(t, "safe", migrate.Safe.String())
}

func TestWidens(t *testing.T) {
	t.Parallel()

	assert.True(t, migrate.Widens(field.DecimalOf(10, 2), field.DecimalOf(10, 2)))
	assert.True(t, migrate.Widens(field.VarcharOf(10), field.Parametric{Kind: field.Varchar}))
	assert.False(t, migrate.Widens(field.Parametric{Kind: field.Varchar}, field.VarcharOf(10)))
	assert.False(t, migrate.Widens(field.DecimalOf(10, 2), field.Parametric{Kind: field.Decimal}))
	assert.False(t, migrate.Widens(field.Of(field.TypeBigInt), field.Of(field.TypeInt)))
	assert.False(t, migrate.Widens(field.CharOf(2), field.CharOf(4)))
	assert.False(t, migrate.Widens(field.ListOf(field.Of(field.TypeInt)), field.ListOf(field.Of(field.TypeBigInt))))
}

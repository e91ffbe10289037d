package compiler_test

import (
	"bytes"
	"log/slog"
	"testing"
	"time"

	"github.com/syssam/icetype"
	"github.com/syssam/icetype/compiler"
	"github.com/syssam/icetype/compiler/load"
	"github.com/syssam/icetype/schema"
	"github.com/syssam/icetype/schema/edge"
	"github.com/syssam/icetype/schema/field"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var epoch = time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)

func fixedClock(t time.Time) compiler.Option {
	return compiler.WithClock(func() time.Time { return t })
}

const blog = `
- $type: User
  id: uuid!
  email: string#
  posts: '<- Post.author[]'
- $type: Post
  id: uuid!
  title: varchar(200)!
  price: decimal(10,2)! = 0.00
  tags: list<string>?
  author: '-> User.posts'
  $index:
    - fields: [author, title]
      unique: true
  $onDelete:
    author: cascade
`

func TestParseSchemas(t *testing.T) {
	t.Parallel()

	defs, err := load.FromYAML([]byte(blog))
	require.NoError(t, err)
	schemas, err := compiler.ParseSchemas(defs, fixedClock(epoch))
	require.NoError(t, err)
	require.Len(t, schemas, 2)

	user, post := schemas[0], schemas[1]
	assert.Equal(t, "User", user.Name())
	assert.Equal(t, []string{"id", "email", "posts"}, user.FieldNames())
	assert.Equal(t, 1, user.Version())
	assert.Equal(t, epoch, user.CreatedAt())
	assert.Equal(t, epoch, user.UpdatedAt())
	assert.Equal(t, schema.IdentityOf("User"), user.ID())

	price, ok := post.Field("price")
	require.True(t, ok)
	assert.Equal(t, "decimal(10,2)! = 0.00", price.String())

	rel, ok := post.Relation("author")
	require.True(t, ok)
	assert.Equal(t, edge.Forward, rel.Operator)
	assert.Equal(t, edge.Cascade, rel.OnDelete)
	assert.Len(t, post.Directives().Indexes, 1)
	assert.True(t, post.Directives().Indexes[0].Unique)
}

func TestParseSchemaDeterministic(t *testing.T) {
	t.Parallel()

	def := load.New("Tag").Field("id", "uuid!").Field("label", "string#").Definition()
	a, err := compiler.ParseSchema(def, fixedClock(epoch))
	require.NoError(t, err)
	b, err := compiler.ParseSchema(def, fixedClock(epoch))
	require.NoError(t, err)
	assert.True(t, a.Equal(b))
}

func TestParseSchemaErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		def  *load.Definition
		code icetype.Code
		path string
	}{
		{"nil", nil, icetype.CodeMissingSchemaName, "$type"},
		{"no name", load.New("").Field("id", "uuid").Definition(), icetype.CodeMissingSchemaName, "$type"},
		{"digit name", load.New("1User").Definition(), icetype.CodeInvalidSchemaName, "$type"},
		{"bad field", load.New("User").Field("id", "uuid!").Field("age", "integer").Definition(), icetype.CodeUnknownType, "age"},
		{"bad directive", load.New("User").Directive("$expand", "user").Definition(), icetype.CodeInvalidDirective, "$expand"},
		{"reserved field", load.New("User").Field("$id", "uuid").Definition(), icetype.CodeReservedFieldName, "$id"},
		{"duplicate field", load.New("User").Field("id", "uuid").Field("id", "int").Definition(), icetype.CodeDuplicateField, "id"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := compiler.ParseSchema(tt.def)
			require.Error(t, err)
			var perr *icetype.ParseError
			require.ErrorAs(t, err, &perr)
			assert.Equal(t, tt.code, perr.Code, perr.Error())
			assert.Equal(t, tt.path, perr.Path)
		})
	}
}

func TestParseSchemaFailFast(t *testing.T) {
	t.Parallel()

	def := load.New("User").Field("a", "strng").Field("b", "decimal(x)").Definition()
	_, err := compiler.ParseSchema(def)
	assert.Equal(t, icetype.CodeUnknownType, icetype.CodeOf(err))

	// Fields come before directives.
	def = load.New("User").Directive("$expand", 42).Field("a", "strng").Definition()
	_, err = compiler.ParseSchema(def)
	assert.Equal(t, icetype.CodeUnknownType, icetype.CodeOf(err))
	def = load.New("User").Directive("$expand", 42).Field("a", "string").Definition()
	_, err = compiler.ParseSchema(def)
	assert.Equal(t, icetype.CodeInvalidDirective, icetype.CodeOf(err))
}

func TestParseSchemasDuplicate(t *testing.T) {
	t.Parallel()

	defs := []*load.Definition{
		load.New("User").Definition(),
		load.New("User").Field("id", "uuid").Definition(),
	}
	_, err := compiler.ParseSchemas(defs)
	assert.Equal(t, icetype.CodeDuplicateSchema, icetype.CodeOf(err))
}

func TestNextVersion(t *testing.T) {
	t.Parallel()

	v1, err := compiler.ParseSchema(load.New("User").Field("id", "uuid!").Definition(), fixedClock(epoch))
	require.NoError(t, err)

	later := epoch.Add(time.Hour)
	v2, err := compiler.NextVersion(v1,
		load.New("User").Field("id", "uuid!").Field("email", "string#").Definition(),
		fixedClock(later))
	require.NoError(t, err)
	assert.Equal(t, 2, v2.Version())
	assert.Equal(t, v1.ID(), v2.ID())
	assert.Equal(t, epoch, v2.CreatedAt())
	assert.Equal(t, later, v2.UpdatedAt())
	assert.Equal(t, []string{"id"}, v1.FieldNames())

	_, err = compiler.NextVersion(v1, load.New("Account").Definition())
	assert.ErrorIs(t, err, icetype.ErrEntityMismatch)
}

func TestOptions(t *testing.T) {
	t.Parallel()

	_, err := compiler.ParseSchema(load.New("User").Definition(), compiler.WithClock(nil))
	assert.True(t, icetype.IsConfigError(err))
	_, err = compiler.ParseSchema(load.New("User").Definition(), compiler.WithLogger(nil))
	assert.ErrorIs(t, err, icetype.ErrInvalidConfig)

	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	_, err = compiler.ParseSchema(load.New("User").Field("id", "uuid").Definition(), compiler.WithLogger(logger))
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "schema assembled")
	assert.Contains(t, buf.String(), "schema=User")
}

func TestSnapshotRoundTrip(t *testing.T) {
	t.Parallel()

	defs, err := load.FromYAML([]byte(blog))
	require.NoError(t, err)
	schemas, err := compiler.ParseSchemas(defs, fixedClock(epoch))
	require.NoError(t, err)

	for _, s := range schemas {
		data, err := compiler.EncodeSnapshot(s)
		require.NoError(t, err)
		got, err := compiler.DecodeSnapshot(data)
		require.NoError(t, err)
		assert.True(t, s.Equal(got), "%s != %s", s, got)
	}
}

func TestSnapshotCustomFields(t *testing.T) {
	t.Parallel()

	fields := []*field.Descriptor{
		field.String("slug").Unique().Optional().Descriptor(),
		field.New("meta", field.MapOf(field.Of(field.TypeString), field.ListOf(field.Reference{Name: "Tag"}))).Descriptor(),
		field.String("status").Default(field.StringDefault("say \"hi\"\n")).Descriptor(),
	}
	s, err := schema.New("Doc", fields, schema.Directives{
		Flatten: []schema.FlattenRule{{Output: "z", Source: "a"}, {Output: "a", Source: "z"}},
	}, schema.WithVersion(7), schema.WithTimestamps(epoch, epoch.Add(time.Minute)))
	require.NoError(t, err)

	data, err := compiler.EncodeSnapshot(s)
	require.NoError(t, err)
	got, err := compiler.DecodeSnapshot(data)
	require.NoError(t, err)
	assert.True(t, s.Equal(got))
	assert.Equal(t, 7, got.Version())
	assert.Equal(t, "z", got.Directives().Flatten[0].Output)
}

func TestDecodeSnapshotErrors(t *testing.T) {
	t.Parallel()

	_, err := compiler.DecodeSnapshot([]byte{0xc1})
	assert.Equal(t, icetype.CodeInvalidSnapshot, icetype.CodeOf(err))

	_, err = compiler.DecodeSnapshot(nil)
	assert.Equal(t, icetype.CodeInvalidSnapshot, icetype.CodeOf(err))
}

package adapter_test

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"testing"

	"github.com/syssam/icetype"
	"github.com/syssam/icetype/adapter"
	"github.com/syssam/icetype/adapter/gostruct"
	"github.com/syssam/icetype/adapter/graphql"
	"github.com/syssam/icetype/adapter/sqlddl"
	"github.com/syssam/icetype/compiler"
	"github.com/syssam/icetype/compiler/load"
	"github.com/syssam/icetype/dialect"
	"github.com/syssam/icetype/schema"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// echo renders the schema name and its field count.
type echo struct {
	name string
	fail string
}

func (e echo) Name() string    { return e.name }
func (e echo) Version() string { return "0.0.1" }

func (e echo) Transform(s *schema.Schema, opts ...adapter.Option) (any, error) {
	cfg, err := adapter.NewConfig(opts...)
	if err != nil {
		return nil, err
	}
	if s.Name() == e.fail {
		return nil, errors.New("boom")
	}
	return fmt.Sprintf("%s:%d:%s", s.Name(), len(s.Fields()), cfg.Dialect), nil
}

func (e echo) Serialize(ir any) (string, error) {
	s, ok := ir.(string)
	if !ok {
		return "", fmt.Errorf("unexpected %T", ir)
	}
	return strings.ToUpper(s), nil
}

func schemaOf(t testing.TB, name string, fields ...string) *schema.Schema {
	t.Helper()
	b := load.New(name)
	for i := 0; i+1 < len(fields); i += 2 {
		b.Field(fields[i], fields[i+1])
	}
	s, err := compiler.ParseSchema(b.Definition())
	require.NoError(t, err)
	return s
}

func TestNewRegistry(t *testing.T) {
	t.Parallel()

	r, err := adapter.NewRegistry(echo{name: "b"}, echo{name: "a"}, sqlddl.New())
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", sqlddl.Name}, r.Names())

	a, err := r.Get("a")
	require.NoError(t, err)
	assert.Equal(t, "a", a.Name())

	_, err = r.Get("openapi")
	assert.ErrorIs(t, err, icetype.ErrUnknownAdapter)
	assert.Contains(t, err.Error(), "openapi")

	_, err = adapter.NewRegistry(echo{name: "a"}, echo{name: "a"})
	assert.ErrorIs(t, err, icetype.ErrDuplicateAdapter)
}

func TestGenerateOrder(t *testing.T) {
	t.Parallel()

	r, err := adapter.NewRegistry(echo{name: "echo"})
	require.NoError(t, err)
	var schemas []*schema.Schema
	var want []string
	for i := range 20 {
		name := fmt.Sprintf("Entity%d", i)
		fields := make([]string, 0, 2*(i%3))
		for j := range i % 3 {
			fields = append(fields, fmt.Sprintf("f%d", j), "string")
		}
		schemas = append(schemas, schemaOf(t, name, fields...))
		want = append(want, strings.ToUpper(fmt.Sprintf("%s:%d:mysql", name, i%3)))
	}
	out, err := r.Generate(context.Background(), "echo", schemas, schema.MustRegistry(schemas...), adapter.WithDialect(dialect.MySQL))
	require.NoError(t, err)
	require.Len(t, out, len(schemas))
	for i, o := range out {
		assert.Equal(t, schemas[i].Name(), o.Schema)
	}
	assert.Equal(t, want, adapter.Contents(out))
}

func TestGenerateErrors(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	r, err := adapter.NewRegistry(echo{name: "echo", fail: "Broken"})
	require.NoError(t, err)
	user := schemaOf(t, "User", "email", "string#")
	reg := schema.MustRegistry(user)

	t.Run("UnknownAdapter", func(t *testing.T) {
		_, err := r.Generate(ctx, "prisma", []*schema.Schema{user}, reg)
		assert.ErrorIs(t, err, icetype.ErrUnknownAdapter)
	})
	t.Run("InvalidOption", func(t *testing.T) {
		_, err := r.Generate(ctx, "echo", []*schema.Schema{user}, reg, adapter.WithDialect("oracle"))
		assert.ErrorIs(t, err, icetype.ErrInvalidConfig)
		var cerr *icetype.ConfigError
		require.ErrorAs(t, err, &cerr)
		assert.Equal(t, "Dialect", cerr.Option)
	})
	t.Run("InvalidSchema", func(t *testing.T) {
		bad := schemaOf(t, "Money", "amount", "decimal(0,0)")
		_, err := r.Generate(ctx, "echo", []*schema.Schema{user, bad}, reg)
		assert.ErrorIs(t, err, icetype.ErrInvalidSchema)
		assert.Contains(t, err.Error(), "Money")
	})
	t.Run("NilSchema", func(t *testing.T) {
		_, err := r.Generate(ctx, "echo", []*schema.Schema{nil}, reg)
		assert.ErrorIs(t, err, icetype.ErrInvalidSchema)
	})
	t.Run("TransformFailure", func(t *testing.T) {
		_, err := r.Generate(ctx, "echo", []*schema.Schema{user, schemaOf(t, "Broken")}, reg)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "transform Broken")
	})
	t.Run("Canceled", func(t *testing.T) {
		ctx, cancel := context.WithCancel(ctx)
		cancel()
		_, err := r.Generate(ctx, "echo", []*schema.Schema{user}, reg)
		assert.ErrorIs(t, err, context.Canceled)
	})
	t.Run("Empty", func(t *testing.T) {
		out, err := r.Generate(ctx, "echo", nil, reg)
		require.NoError(t, err)
		assert.Empty(t, out)
	})
}

func TestGenerateAdapters(t *testing.T) {
	t.Parallel()

	r, err := adapter.NewRegistry(sqlddl.New(), graphql.New(), gostruct.New())
	require.NoError(t, err)
	post := schemaOf(t, "Post", "title", "string!", "author", "-> User.posts")
	user := schemaOf(t, "User", "email", "string#", "posts", "<- Post.author[]")
	schemas := []*schema.Schema{user, post}
	reg := schema.MustRegistry(schemas...)

	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	for _, name := range r.Names() {
		out, err := r.Generate(context.Background(), name, schemas, reg, adapter.WithLogger(logger))
		require.NoError(t, err, name)
		require.Len(t, out, 2, name)
		assert.Equal(t, "User", out[0].Schema)
		assert.NotEmpty(t, out[1].Content, name)
	}
	assert.Contains(t, buf.String(), "adapter output generated")
	assert.Contains(t, buf.String(), "adapter=graphql")
}

func TestNewConfig(t *testing.T) {
	t.Parallel()

	cfg, err := adapter.NewConfig()
	require.NoError(t, err)
	assert.Equal(t, dialect.Postgres, cfg.Dialect)
	assert.Equal(t, "model", cfg.Package)
	assert.True(t, cfg.SystemFields)
	assert.NotNil(t, cfg.Logger)

	cfg, err = adapter.NewConfig(adapter.WithDialect(dialect.SQLite), adapter.WithPackage("entity"), adapter.WithSystemFields(false))
	require.NoError(t, err)
	assert.Equal(t, dialect.SQLite, cfg.Dialect)
	assert.Equal(t, "entity", cfg.Package)
	assert.False(t, cfg.SystemFields)

	for _, opt := range []adapter.Option{
		adapter.WithDialect(""),
		adapter.WithPackage("1pkg"),
		adapter.WithLogger(nil),
	} {
		_, err := adapter.NewConfig(opt)
		assert.ErrorIs(t, err, icetype.ErrInvalidConfig)
	}
}

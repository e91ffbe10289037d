package directive_test

import (
	"testing"

	"github.com/syssam/icetype"
	"github.com/syssam/icetype/compiler/directive"
	"github.com/syssam/icetype/compiler/load"
	"github.com/syssam/icetype/schema"
	"github.com/syssam/icetype/schema/edge"
	"github.com/syssam/icetype/schema/index"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func raw(kv ...any) []load.Directive {
	var out []load.Directive
	for i := 0; i+1 < len(kv); i += 2 {
		out = append(out, load.Directive{Key: kv[i].(string), Value: load.Normalize(kv[i+1])})
	}
	return out
}

func TestParse(t *testing.T) {
	t.Parallel()

	dirs, err := directive.Parse(raw(
		"$partitionBy", "tenant",
		"$index", []any{
			"email",
			[]any{"tenant", "createdAt"},
			load.MapSlice{
				{Key: "fields", Value: []any{"slug"}},
				{Key: "unique", Value: true},
				{Key: "name", Value: "uniq_slug"},
			},
		},
		"$fts", []string{"title", "body"},
		"$vector", []any{load.MapSlice{
			{Key: "field", Value: "embedding"},
			{Key: "dimensions", Value: 1536},
			{Key: "metric", Value: "cosine"},
		}},
		"$onDelete", map[string]string{"author": "cascade"},
	))
	require.NoError(t, err)

	assert.Equal(t, []string{"tenant"}, dirs.PartitionBy)
	assert.Equal(t, []index.Descriptor{
		index.Fields("email").Descriptor(),
		index.Fields("tenant", "createdAt").Descriptor(),
		index.Fields("slug").Unique().Name("uniq_slug").Descriptor(),
	}, dirs.Indexes)
	assert.Equal(t, []string{"title", "body"}, dirs.FTS)
	assert.Equal(t, []index.Vector{{Field: "embedding", Dimensions: 1536, Metric: index.Cosine}}, dirs.Vectors)
	assert.Equal(t, []schema.OnDeleteRule{{Field: "author", Policy: edge.Cascade}}, dirs.OnDelete)
	assert.False(t, dirs.IsProjection())
}

func TestParseProjection(t *testing.T) {
	t.Parallel()

	dirs, err := directive.Parse(raw(
		"$projection", "olap",
		"$from", "Order",
		"$expand", []string{"customer", "items.product"},
		"$flatten", load.MapSlice{
			{Key: "zeta", Value: "customer.name"},
			{Key: "alpha", Value: "customer.email"},
		},
	))
	require.NoError(t, err)
	assert.True(t, dirs.IsProjection())
	assert.Equal(t, schema.OLAP, dirs.Projection)
	assert.Equal(t, "Order", dirs.From)
	assert.Equal(t, []string{"customer", "items.product"}, dirs.Expand)
	assert.Equal(t, []schema.FlattenRule{
		{Output: "zeta", Source: "customer.name"},
		{Output: "alpha", Source: "customer.email"},
	}, dirs.Flatten)
}

func TestParseVectorFloatDimensions(t *testing.T) {
	t.Parallel()

	dirs, err := directive.Parse(raw("$vector", load.MapSlice{
		{Key: "field", Value: "embedding"},
		{Key: "dimensions", Value: float64(768)},
	}))
	require.NoError(t, err)
	assert.Equal(t, []index.Vector{{Field: "embedding", Dimensions: 768}}, dirs.Vectors)
}

func TestParseErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		raw  []load.Directive
		code icetype.Code
		path string
	}{
		{"expand string", raw("$expand", "user"), icetype.CodeInvalidDirective, "$expand"},
		{"expand numbers", raw("$expand", []any{1}), icetype.CodeInvalidDirective, "$expand"},
		{"partition number", raw("$partitionBy", 3), icetype.CodeInvalidDirective, "$partitionBy"},
		{"fts empty name", raw("$fts", []any{""}), icetype.CodeInvalidDirective, "$fts"},
		{"index not list", raw("$index", "email"), icetype.CodeInvalidDirective, "$index"},
		{"index no fields", raw("$index", []any{load.MapSlice{{Key: "unique", Value: true}}}), icetype.CodeInvalidDirective, "$index"},
		{"index unique string", raw("$index", []any{load.MapSlice{{Key: "fields", Value: "a"}, {Key: "unique", Value: "yes"}}}), icetype.CodeInvalidDirective, "$index"},
		{"index unknown key", raw("$index", []any{load.MapSlice{{Key: "fields", Value: "a"}, {Key: "where", Value: "x"}}}), icetype.CodeInvalidDirective, "$index"},
		{"vector metric", raw("$vector", []any{load.MapSlice{{Key: "field", Value: "e"}, {Key: "metric", Value: "manhattan"}}}), icetype.CodeInvalidDirective, "$vector"},
		{"vector dimensions", raw("$vector", []any{load.MapSlice{{Key: "field", Value: "e"}, {Key: "dimensions", Value: 1.5}}}), icetype.CodeInvalidDirective, "$vector"},
		{"vector no field", raw("$vector", []any{load.MapSlice{{Key: "dimensions", Value: 3}}}), icetype.CodeInvalidDirective, "$vector"},
		{"projection", raw("$projection", "warehouse"), icetype.CodeInvalidDirective, "$projection"},
		{"from", raw("$from", ""), icetype.CodeInvalidDirective, "$from"},
		{"flatten list", raw("$flatten", []any{"a"}), icetype.CodeInvalidDirective, "$flatten"},
		{"flatten value", raw("$flatten", load.MapSlice{{Key: "a", Value: 1}}), icetype.CodeInvalidDirective, "$flatten"},
		{"on delete policy", raw("$onDelete", map[string]string{"author": "nuke"}), icetype.CodeInvalidDirective, "$onDelete"},
		{"duplicate", raw("$fts", "a", "$fts", "b"), icetype.CodeInvalidDirective, "$fts"},
		{"unknown", raw("$shard", "a"), icetype.CodeUnknownDirective, "$shard"},
		{"system field", raw("$id", "uuid"), icetype.CodeReservedFieldName, "$id"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := directive.Parse(tt.raw)
			require.Error(t, err)
			var perr *icetype.ParseError
			require.ErrorAs(t, err, &perr)
			assert.Equal(t, tt.code, perr.Code, perr.Error())
			assert.Equal(t, tt.path, perr.Path)
		})
	}
}

func TestParseExpandMessage(t *testing.T) {
	t.Parallel()

	_, err := directive.Parse(raw("$expand", "user"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "$expand must be an array of relation paths")
}

func TestParseEmpty(t *testing.T) {
	t.Parallel()

	dirs, err := directive.Parse(nil)
	require.NoError(t, err)
	assert.True(t, dirs.IsZero())
}

package index_test

import (
	"testing"

	"github.com/syssam/icetype/schema/index"

	"github.com/stretchr/testify/assert"
)

// TestIndexFields tests creating indexes on fields.
func TestIndexFields(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		build    func() index.Descriptor
		validate func(t *testing.T, desc index.Descriptor)
	}{
		{
			name: "single_field",
			build: func() index.Descriptor {
				return index.Fields("name").Descriptor()
			},
			validate: func(t *testing.T, desc index.Descriptor) {
				assert.Equal(t, []string{"name"}, desc.Fields)
				assert.False(t, desc.Unique)
				assert.Empty(t, desc.Name)
				assert.Equal(t, "idx:name", desc.Key())
			},
		},
		{
			name: "composite_unique_index",
			build: func() index.Descriptor {
				return index.Fields("first", "last").Unique().Descriptor()
			},
			validate: func(t *testing.T, desc index.Descriptor) {
				assert.Equal(t, []string{"first", "last"}, desc.Fields)
				assert.True(t, desc.Unique)
				assert.Equal(t, "uniq:first,last", desc.Key())
			},
		},
		{
			name: "named",
			build: func() index.Descriptor {
				return index.Fields("email").Unique().Name("users_email_key").Descriptor()
			},
			validate: func(t *testing.T, desc index.Descriptor) {
				assert.Equal(t, "users_email_key", desc.Key())
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			tt.validate(t, tt.build())
		})
	}
}

func TestDescriptorClone(t *testing.T) {
	fields := []string{"a", "b"}
	b := index.Fields(fields...)
	fields[0] = "z"
	d := b.Descriptor()
	assert.Equal(t, []string{"a", "b"}, d.Fields)

	cp := d.Clone()
	cp.Fields[0] = "y"
	assert.Equal(t, "a", d.Fields[0])
	assert.True(t, d.Equal(index.Fields("a", "b").Descriptor()))
	assert.False(t, d.Equal(cp))
}

func TestMetricValid(t *testing.T) {
	for _, m := range []index.Metric{"", index.Cosine, index.Euclidean, index.Dot} {
		assert.True(t, m.Valid(), m)
	}
	assert.False(t, index.Metric("manhattan").Valid())
}

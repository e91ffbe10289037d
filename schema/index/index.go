// Package index describes the index and vector directives of an IceType schema.
//
//	$index: [['email'], { fields: ['last', 'first'], unique: true, name: 'by_name' }]
//	$vector: [{ field: 'embedding', dimensions: 1536, metric: 'cosine' }]
package index

import (
	"slices"
	"strings"
)

// Descriptor is one entry of the $index directive.
type Descriptor struct {
	Fields []string
	Unique bool
	Name   string // Optional explicit name.
}

// Key returns the identity of the index used when diffing: its explicit
// name, or the joined field list prefixed by the uniqueness.
func (d Descriptor) Key() string {
	if d.Name != "" {
		return d.Name
	}
	prefix := "idx:"
	if d.Unique {
		prefix = "uniq:"
	}
	return prefix + strings.Join(d.Fields, ",")
}

// Equal reports whether two indexes are identical.
func (d Descriptor) Equal(o Descriptor) bool {
	return d.Name == o.Name && d.Unique == o.Unique && slices.Equal(d.Fields, o.Fields)
}

// Clone returns a copy of d.
func (d Descriptor) Clone() Descriptor {
	d.Fields = slices.Clone(d.Fields)
	return d
}

// Builder builds index descriptors.
type Builder struct {
	desc Descriptor
}

// Fields starts an index over the given fields.
func Fields(fields ...string) *Builder {
	return &Builder{desc: Descriptor{Fields: slices.Clone(fields)}}
}

// Unique marks the index unique.
func (b *Builder) Unique() *Builder {
	b.desc.Unique = true
	return b
}

// Name sets an explicit index name.
func (b *Builder) Name(name string) *Builder {
	b.desc.Name = name
	return b
}

// Descriptor returns the built descriptor.
func (b *Builder) Descriptor() Descriptor {
	return b.desc.Clone()
}

// Metric is a vector distance metric.
type Metric string

const (
	Cosine    Metric = "cosine"
	Euclidean Metric = "euclidean"
	Dot       Metric = "dot"
)

// Valid reports whether m is a known metric. The empty metric is valid
// and means "adapter default".
func (m Metric) Valid() bool {
	switch m {
	case "", Cosine, Euclidean, Dot:
		return true
	}
	return false
}

// Vector is one entry of the $vector directive.
type Vector struct {
	Field      string
	Dimensions int
	Metric     Metric
}

package schema

import (
	"slices"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/syssam/icetype/schema/edge"
	"github.com/syssam/icetype/schema/index"
)

// Directive keys.
const (
	DirectivePartitionBy = "$partitionBy"
	DirectiveIndex       = "$index"
	DirectiveFTS         = "$fts"
	DirectiveVector      = "$vector"
	DirectiveProjection  = "$projection"
	DirectiveFrom        = "$from"
	DirectiveExpand      = "$expand"
	DirectiveFlatten     = "$flatten"
	DirectiveOnDelete    = "$onDelete"
)

// DirectiveKeys lists the reserved directive keys in canonical order.
var DirectiveKeys = []string{
	DirectivePartitionBy,
	DirectiveIndex,
	DirectiveFTS,
	DirectiveVector,
	DirectiveProjection,
	DirectiveFrom,
	DirectiveExpand,
	DirectiveFlatten,
	DirectiveOnDelete,
}

// IsDirective reports whether key is a reserved directive key.
func IsDirective(key string) bool {
	return slices.Contains(DirectiveKeys, key)
}

// Projection is the workload a projection schema is materialized for.
type Projection string

const (
	OLTP Projection = "oltp"
	OLAP Projection = "olap"
	Both Projection = "both"
)

// Valid reports whether p is a known projection kind.
func (p Projection) Valid() bool {
	switch p {
	case OLTP, OLAP, Both:
		return true
	}
	return false
}

// FlattenRule maps an output field to a dotted source path.
type FlattenRule struct {
	Output string
	Source string
}

// OnDeleteRule sets the delete policy of a relation field.
type OnDeleteRule struct {
	Field  string
	Policy edge.DeletePolicy
}

// Directives are the whole-schema annotations of an entity.
type Directives struct {
	PartitionBy []string
	Indexes     []index.Descriptor
	FTS         []string
	Vectors     []index.Vector
	Projection  Projection
	From        string
	Expand      []string
	Flatten     []FlattenRule
	OnDelete    []OnDeleteRule
}

// IsProjection reports whether the schema is a projection.
func (d Directives) IsProjection() bool { return d.Projection != "" }

// IsZero reports whether no directive is set.
func (d Directives) IsZero() bool {
	return len(d.PartitionBy) == 0 && len(d.Indexes) == 0 && len(d.FTS) == 0 &&
		len(d.Vectors) == 0 && d.Projection == "" && d.From == "" &&
		len(d.Expand) == 0 && len(d.Flatten) == 0 && len(d.OnDelete) == 0
}

// OnDeletePolicy returns the delete policy configured for a relation field.
func (d Directives) OnDeletePolicy(fieldName string) (edge.DeletePolicy, bool) {
	for _, r := range d.OnDelete {
		if r.Field == fieldName {
			return r.Policy, true
		}
	}
	return "", false
}

// Clone returns a deep copy of d.
func (d Directives) Clone() Directives {
	cp := d
	cp.PartitionBy = slices.Clone(d.PartitionBy)
	cp.FTS = slices.Clone(d.FTS)
	cp.Vectors = slices.Clone(d.Vectors)
	cp.Expand = slices.Clone(d.Expand)
	cp.Flatten = slices.Clone(d.Flatten)
	cp.OnDelete = slices.Clone(d.OnDelete)
	if d.Indexes != nil {
		cp.Indexes = make([]index.Descriptor, len(d.Indexes))
		for i, idx := range d.Indexes {
			cp.Indexes[i] = idx.Clone()
		}
	}
	return cp
}

// Equal reports whether two directive sets are identical. Nil and empty
// lists compare equal.
func (d Directives) Equal(o Directives) bool {
	// cmp calls an Equal method when the type has one, so compare a
	// method-free copy.
	type plain Directives
	return cmp.Equal(plain(d), plain(o), cmpopts.EquateEmpty())
}

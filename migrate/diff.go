package migrate

import (
	"fmt"

	"github.com/google/go-cmp/cmp"

	"github.com/syssam/icetype"
	"github.com/syssam/icetype/schema"
	"github.com/syssam/icetype/schema/field"
	"github.com/syssam/icetype/schema/index"
)

// ChangeKind names one changed attribute of a field or index.
type ChangeKind string

// Field and index change kinds.
const (
	ChangeType        ChangeKind = "type"
	ChangeModifier    ChangeKind = "modifier"
	ChangeArray       ChangeKind = "array"
	ChangePrecision   ChangeKind = "precision"
	ChangeScale       ChangeKind = "scale"
	ChangeLength      ChangeKind = "length"
	ChangeDefault     ChangeKind = "default"
	ChangeRelation    ChangeKind = "relation"
	ChangeAddField    ChangeKind = "add_field"
	ChangeRemoveField ChangeKind = "remove_field"
	ChangeAddIndex    ChangeKind = "add_index"
	ChangeRemoveIndex ChangeKind = "remove_index"
)

// FieldChange lists the changed attributes of a field present in both
// versions.
type FieldChange struct {
	Name    string
	Changes []ChangeKind
	Old     *field.Descriptor
	New     *field.Descriptor
}

// Severity returns the highest severity of the changes.
func (c FieldChange) Severity() Severity {
	s := Safe
	for _, k := range c.Changes {
		s = max(s, Classify(k, c.Old, c.New))
	}
	return s
}

// SchemaDiff is the structural difference between two versions of one
// entity. Added and modified fields follow the declaration order of the new
// version, removed fields that of the old one.
type SchemaDiff struct {
	Entity         string
	AddedFields    []*field.Descriptor
	RemovedFields  []*field.Descriptor
	ModifiedFields []FieldChange
	AddedIndexes   []index.Descriptor
	RemovedIndexes []index.Descriptor
}

// HasChanges reports whether the versions differ.
func (d *SchemaDiff) HasChanges() bool {
	return len(d.AddedFields) > 0 || len(d.RemovedFields) > 0 || len(d.ModifiedFields) > 0 ||
		len(d.AddedIndexes) > 0 || len(d.RemovedIndexes) > 0
}

// IsBreaking reports whether any change is breaking.
func (d *SchemaDiff) IsBreaking() bool {
	for _, f := range d.AddedFields {
		if Classify(ChangeAddField, nil, f) == Breaking {
			return true
		}
	}
	if len(d.RemovedFields) > 0 {
		return true
	}
	for _, c := range d.ModifiedFields {
		if c.Severity() == Breaking {
			return true
		}
	}
	for _, idx := range d.AddedIndexes {
		if ClassifyIndex(ChangeAddIndex, idx) == Breaking {
			return true
		}
	}
	return false
}

// DiffSchemas compares two versions of the same entity. Diffing schemas of
// different entities is a programming error and fails with
// icetype.ErrEntityMismatch.
func DiffSchemas(from, to *schema.Schema) (*SchemaDiff, error) {
	if from == nil || to == nil {
		return nil, fmt.Errorf("%w: cannot diff a nil schema", icetype.ErrEntityMismatch)
	}
	if from.Name() != to.Name() {
		return nil, fmt.Errorf("%w: %s and %s", icetype.ErrEntityMismatch, from.Name(), to.Name())
	}
	d := &SchemaDiff{Entity: to.Name()}
	for _, f := range to.Fields() {
		old, ok := from.Field(f.Name)
		if !ok {
			d.AddedFields = append(d.AddedFields, f)
			continue
		}
		if changes := fieldChanges(old, f); len(changes) > 0 {
			d.ModifiedFields = append(d.ModifiedFields, FieldChange{Name: f.Name, Changes: changes, Old: old, New: f})
		}
	}
	for _, f := range from.Fields() {
		if !to.HasField(f.Name) {
			d.RemovedFields = append(d.RemovedFields, f)
		}
	}
	d.AddedIndexes, d.RemovedIndexes = diffIndexes(from.Directives().Indexes, to.Directives().Indexes)
	return d, nil
}

// fieldChanges lists every attribute that differs between two versions of
// a field, in a fixed order.
func fieldChanges(from, to *field.Descriptor) []ChangeKind {
	var changes []ChangeKind
	if typeChanged(from, to) {
		changes = append(changes, ChangeType)
	} else {
		p1, ok1 := from.Precision()
		p2, ok2 := to.Precision()
		if p1 != p2 || ok1 != ok2 {
			changes = append(changes, ChangePrecision)
		}
		s1, _ := from.Scale()
		s2, _ := to.Scale()
		if s1 != s2 {
			changes = append(changes, ChangeScale)
		}
		l1, ok1 := from.Length()
		l2, ok2 := to.Length()
		if l1 != l2 || ok1 != ok2 {
			changes = append(changes, ChangeLength)
		}
	}
	if from.Modifier != to.Modifier || from.IsOptional != to.IsOptional || from.IsUnique != to.IsUnique {
		changes = append(changes, ChangeModifier)
	}
	if from.IsArray != to.IsArray {
		changes = append(changes, ChangeArray)
	}
	if !cmp.Equal(from.Default, to.Default) {
		changes = append(changes, ChangeDefault)
	}
	if !from.Relation.Equal(to.Relation) {
		changes = append(changes, ChangeRelation)
	}
	return changes
}

// typeChanged reports a change of type family or generic arguments.
// Parameter changes within a parametric family are reported separately.
func typeChanged(from, to *field.Descriptor) bool {
	if from.Type() != to.Type() {
		return true
	}
	if from.IsRelation() {
		return false
	}
	if _, ok := from.Kind.(field.Parametric); ok {
		return false
	}
	return !field.EqualKinds(from.Kind, to.Kind)
}

// diffIndexes matches indexes by key. An index whose key is kept but whose
// definition changed is reported as removed and added.
func diffIndexes(from, to []index.Descriptor) (added, removed []index.Descriptor) {
	byKey := func(list []index.Descriptor) map[string]index.Descriptor {
		m := make(map[string]index.Descriptor, len(list))
		for _, idx := range list {
			m[idx.Key()] = idx
		}
		return m
	}
	fromKeys, toKeys := byKey(from), byKey(to)
	for _, idx := range to {
		if old, ok := fromKeys[idx.Key()]; !ok || !old.Equal(idx) {
			added = append(added, idx)
		}
	}
	for _, idx := range from {
		if cur, ok := toKeys[idx.Key()]; !ok || !cur.Equal(idx) {
			removed = append(removed, idx)
		}
	}
	return added, removed
}

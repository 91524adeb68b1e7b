package relation

import (
	"errors"
	"fmt"
	"slices"

	"github.com/syssam/recordgraph/schema"
	"github.com/syssam/recordgraph/schema/edge"
	"github.com/syssam/recordgraph/store"
)

// Sentinel errors for relationship mutations.
var (
	// ErrUnknownRecord is returned when the source identifier resolves to
	// no record.
	ErrUnknownRecord = errors.New("relation: unknown record")

	// ErrNotForeignKey is returned when the named field is not a stored
	// foreign-key edge on the source record's type.
	ErrNotForeignKey = errors.New("relation: not a foreign-key field")
)

// MutationError wraps a failed relationship mutation with its operation
// and field.
type MutationError struct {
	Op    string
	Field string
	Err   error
}

// Error returns the error string.
func (e *MutationError) Error() string {
	return fmt.Sprintf("relation: %s %q: %v", e.Op, e.Field, e.Err)
}

// Unwrap returns the underlying error.
func (e *MutationError) Unwrap() error { return e.Err }

// Mutator adds and removes edges while holding the cardinality invariants
// of the declared schema. Every successful mutation emits exactly one
// change notification, even when the resulting state is unchanged.
type Mutator struct {
	schema *schema.Schema
	store  *store.Store
}

// NewMutator returns a mutator over the given schema and store.
func NewMutator(sch *schema.Schema, s *store.Store) *Mutator {
	return &Mutator{schema: sch, store: s}
}

// Add connects source to target through the named foreign-key field and
// returns the source record. Invariants enforced before the write:
//
//   - oneToMany: the target is stripped from the same field of every other
//     record of the source's type, so only one source holds it.
//   - oneToOne: any other record of the source's type holding the target
//     has the field cleared, so the pairing stays unique.
//   - manyToMany: the append is idempotent.
//   - manyToOne: the field is overwritten; no prior-holder cleanup is
//     needed since many sources may point at one target.
func (m *Mutator) Add(field, sourceID, targetID string) (*store.Record, error) {
	src, fk, err := m.resolve("addRelationship", field, sourceID)
	if err != nil {
		return nil, err
	}
	switch fk.Rel {
	case edge.M2M, edge.O2M:
		if fk.Rel == edge.O2M {
			m.stripOthers(src, field, targetID)
		}
		ids := src.Refs(field)
		if !slices.Contains(ids, targetID) {
			src.SetRefs(field, append(ids, targetID))
		}
	case edge.O2O, edge.M2O:
		if fk.Rel == edge.O2O {
			m.clearOthers(src, field, targetID)
		}
		src.Set(field, targetID)
	}
	m.store.Notify()
	return src, nil
}

// Remove disconnects target from source through the named foreign-key
// field and returns the source record. Removing an absent target leaves
// the field unchanged but still notifies.
func (m *Mutator) Remove(field, sourceID, targetID string) (*store.Record, error) {
	src, fk, err := m.resolve("removeRelationship", field, sourceID)
	if err != nil {
		return nil, err
	}
	switch fk.Rel {
	case edge.M2M, edge.O2M:
		ids := src.Refs(field)
		ids = slices.DeleteFunc(ids, func(id string) bool { return id == targetID })
		src.SetRefs(field, ids)
	case edge.O2O, edge.M2O:
		src.Set(field, nil)
	}
	m.store.Notify()
	return src, nil
}

// resolve finds the source record and the foreign-key declaration of the
// named field on its type. Both failures are fatal for the mutation only.
func (m *Mutator) resolve(op, field, sourceID string) (*store.Record, *edge.Descriptor, error) {
	src := m.store.ByID(sourceID)
	if src == nil {
		return nil, nil, &MutationError{Op: op, Field: field, Err: fmt.Errorf("%w: %q", ErrUnknownRecord, sourceID)}
	}
	fk, ok := m.schema.ForeignKey(src.Type(), field)
	if !ok {
		return nil, nil, &MutationError{Op: op, Field: field, Err: fmt.Errorf("%w: %s.%s", ErrNotForeignKey, src.Type(), field)}
	}
	return src, fk, nil
}

// stripOthers removes targetID from the same-named array field of every
// other record of src's type.
func (m *Mutator) stripOthers(src *store.Record, field, targetID string) {
	for _, r := range m.store.OfType(src.Type()) {
		if r == src {
			continue
		}
		ids := r.Refs(field)
		if slices.Contains(ids, targetID) {
			r.SetRefs(field, slices.DeleteFunc(ids, func(id string) bool { return id == targetID }))
		}
	}
}

// clearOthers clears the same-named scalar field of every other record of
// src's type currently equal to targetID.
func (m *Mutator) clearOthers(src *store.Record, field, targetID string) {
	for _, r := range m.store.OfType(src.Type()) {
		if r == src {
			continue
		}
		if id, ok := r.Ref(field); ok && id == targetID {
			r.Set(field, nil)
		}
	}
}

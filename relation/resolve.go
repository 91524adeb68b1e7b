// Package relation resolves and mutates the edges between records. The
// resolver half is a set of pure read-only functions answering "who points
// at me" per cardinality; the mutator half enforces cardinality invariants
// while adding and removing edges.
package relation

import (
	"slices"

	"github.com/syssam/recordgraph/schema"
	"github.com/syssam/recordgraph/store"
)

// ManyToMany returns all records of typ whose array-valued field contains
// the target identifier.
func ManyToMany(s *store.Store, typ, field, targetID string) []*store.Record {
	var out []*store.Record
	for _, r := range s.OfType(typ) {
		if slices.Contains(r.Refs(field), targetID) {
			out = append(out, r)
		}
	}
	return out
}

// ManyToOne returns all records of typ whose scalar-valued field equals the
// target identifier.
func ManyToOne(s *store.Store, typ, field, targetID string) []*store.Record {
	var out []*store.Record
	for _, r := range s.OfType(typ) {
		if id, ok := r.Ref(field); ok && id == targetID {
			out = append(out, r)
		}
	}
	return out
}

// OneToOne returns the record of typ whose scalar-valued field equals the
// target identifier, or nil. The mutation engine keeps at most one such
// record.
func OneToOne(s *store.Store, typ, field, targetID string) *store.Record {
	for _, r := range s.OfType(typ) {
		if id, ok := r.Ref(field); ok && id == targetID {
			return r
		}
	}
	return nil
}

// OneToMany returns the record of typ whose array-valued field contains the
// target identifier, or nil. The mutation engine keeps at most one such
// record.
func OneToMany(s *store.Store, typ, field, targetID string) *store.Record {
	for _, r := range s.OfType(typ) {
		if slices.Contains(r.Refs(field), targetID) {
			return r
		}
	}
	return nil
}

// A Relationship is a transient source/target identifier pair derived from
// a stored foreign-key value. Relationships are never stored.
type Relationship struct {
	SourceID string
	TargetID string
}

// Relationships derives every relationship currently held in the store:
// one pair per target identifier of every non-empty foreign-key field,
// with array-valued fields expanded element-wise.
func Relationships(sch *schema.Schema, s *store.Store) []Relationship {
	var out []Relationship
	for _, t := range sch.Types() {
		for _, e := range t.Edges() {
			if e.Inverse {
				continue
			}
			for _, r := range s.OfType(t.Name()) {
				if e.Rel.ToMany() {
					for _, id := range r.Refs(e.Name) {
						out = append(out, Relationship{SourceID: r.ID(), TargetID: id})
					}
					continue
				}
				if id, ok := r.Ref(e.Name); ok {
					out = append(out, Relationship{SourceID: r.ID(), TargetID: id})
				}
			}
		}
	}
	return out
}

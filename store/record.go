// Package store implements the ordered collection of tagged records that a
// graph is built over. The store exclusively owns its records; all
// cross-record references are identifier strings resolved on demand.
package store

import (
	"errors"
	"fmt"
	"slices"
)

// ErrBadShape is returned when a decoded payload does not carry the
// required type and id string fields.
var ErrBadShape = errors.New("store: record missing type or id")

// A Record is a tagged record: a type tag, a stable identifier and a bag of
// fields. Field values are either scalars, a single identifier string
// (to-one foreign keys) or a list of identifier strings (to-many foreign
// keys).
type Record struct {
	typ    string
	id     string
	fields map[string]any
}

// NewRecord creates an empty record with the given type tag and identifier.
func NewRecord(typ, id string) *Record {
	return &Record{typ: typ, id: id, fields: make(map[string]any)}
}

// Type returns the record's type tag.
func (r *Record) Type() string { return r.typ }

// ID returns the record's identifier.
func (r *Record) ID() string { return r.id }

// Get returns the value of the named field and whether it is set.
func (r *Record) Get(name string) (any, bool) {
	v, ok := r.fields[name]
	return v, ok
}

// Set stores a field value in place. Setting nil clears the field value
// while keeping the key, matching how to-one foreign keys are detached.
func (r *Record) Set(name string, v any) {
	r.fields[name] = v
}

// Fields returns the names of all set fields. Order is not defined.
func (r *Record) Fields() []string {
	names := make([]string, 0, len(r.fields))
	for name := range r.fields {
		names = append(names, name)
	}
	return names
}

// Ref returns the single identifier stored in a to-one foreign-key field.
// It returns false if the field is unset, cleared or not a string.
func (r *Record) Ref(name string) (string, bool) {
	id, ok := r.fields[name].(string)
	return id, ok && id != ""
}

// Refs returns the identifiers stored in a to-many foreign-key field.
// Both []string and []any shapes are accepted, since records decoded from
// JSON or msgpack carry []any. A missing or non-array value yields nil.
func (r *Record) Refs(name string) []string {
	switch v := r.fields[name].(type) {
	case []string:
		return slices.Clone(v)
	case []any:
		ids := make([]string, 0, len(v))
		for _, e := range v {
			if id, ok := e.(string); ok {
				ids = append(ids, id)
			}
		}
		return ids
	}
	return nil
}

// SetRefs stores a list of identifiers in a to-many foreign-key field.
func (r *Record) SetRefs(name string, ids []string) {
	r.fields[name] = ids
}

// Clone returns a deep copy of the record. Identifier lists are copied;
// scalar values are shared.
func (r *Record) Clone() *Record {
	c := NewRecord(r.typ, r.id)
	for name, v := range r.fields {
		if ids, ok := v.([]string); ok {
			c.fields[name] = slices.Clone(ids)
			continue
		}
		c.fields[name] = v
	}
	return c
}

// Map returns the record in its flattened wire form:
// {type, id, ...fields}. Used by persistence adapters.
func (r *Record) Map() map[string]any {
	m := make(map[string]any, len(r.fields)+2)
	for name, v := range r.fields {
		m[name] = v
	}
	m["type"] = r.typ
	m["id"] = r.id
	return m
}

// FromMap rebuilds a record from its flattened wire form. The payload is
// not trusted: missing or non-string type/id fields fail with ErrBadShape.
func FromMap(m map[string]any) (*Record, error) {
	typ, ok := m["type"].(string)
	if !ok || typ == "" {
		return nil, fmt.Errorf("%w: %v", ErrBadShape, m)
	}
	id, ok := m["id"].(string)
	if !ok || id == "" {
		return nil, fmt.Errorf("%w: %v", ErrBadShape, m)
	}
	r := NewRecord(typ, id)
	for name, v := range m {
		if name == "type" || name == "id" {
			continue
		}
		r.fields[name] = v
	}
	return r, nil
}

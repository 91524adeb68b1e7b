// Package schema defines the declarative description of record types that
// the compiler turns into a queryable graph schema. A schema is declared
// once, validated on construction, and immutable afterwards.
package schema

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-openapi/inflect"

	"github.com/syssam/recordgraph/schema/edge"
	"github.com/syssam/recordgraph/schema/field"
)

// ErrInvalidSchema is the sentinel all schema configuration errors match.
var ErrInvalidSchema = errors.New("schema: invalid declaration")

// ConfigError reports an invalid schema declaration. It is a fatal error:
// construction fails and no schema object is produced.
type ConfigError struct {
	Type   string // type under validation, if any
	Field  string // field under validation, if any
	Reason string
}

// Error returns the error string.
func (e *ConfigError) Error() string {
	switch {
	case e.Type != "" && e.Field != "":
		return fmt.Sprintf("schema: %s.%s: %s", e.Type, e.Field, e.Reason)
	case e.Type != "":
		return fmt.Sprintf("schema: %s: %s", e.Type, e.Reason)
	}
	return fmt.Sprintf("schema: %s", e.Reason)
}

// Is reports whether the target error matches ErrInvalidSchema.
func (e *ConfigError) Is(err error) bool {
	return err == ErrInvalidSchema
}

// IsConfigError returns true if the error is a ConfigError.
func IsConfigError(err error) bool {
	if err == nil {
		return false
	}
	var e *ConfigError
	return errors.As(err, &e) || errors.Is(err, ErrInvalidSchema)
}

// FieldSource is anything that yields a scalar field descriptor.
// *field.Builder implements it.
type FieldSource interface {
	Descriptor() *field.Descriptor
}

// EdgeSource is anything that yields an edge descriptor.
// *edge.ToBuilder and *edge.FromBuilder implement it.
type EdgeSource interface {
	Descriptor() *edge.Descriptor
}

// Type is a validated record type declaration.
type Type struct {
	name     string
	singular string
	plural   string
	fields   []*field.Descriptor
	edges    []*edge.Descriptor
}

// Name returns the declared type name (the record type tag).
func (t *Type) Name() string { return t.name }

// Singular returns the name of the single-record root query.
func (t *Type) Singular() string { return t.singular }

// Plural returns the name of the multi-record root query.
func (t *Type) Plural() string { return t.plural }

// Fields returns the scalar fields in declaration order.
func (t *Type) Fields() []*field.Descriptor { return t.fields }

// Edges returns the edges in declaration order.
func (t *Type) Edges() []*edge.Descriptor { return t.edges }

// Edge returns the edge with the given name, or nil.
func (t *Type) Edge(name string) *edge.Descriptor {
	for _, e := range t.edges {
		if e.Name == name {
			return e
		}
	}
	return nil
}

// TypeBuilder builds a type declaration.
type TypeBuilder struct {
	typ *Type
}

// NewType starts the declaration of a record type. The type name is the
// record type tag. Unless overridden with Meta, the singular query name is
// the camel-cased type name and the plural is its inflected plural form.
func NewType(name string) *TypeBuilder {
	return &TypeBuilder{typ: &Type{name: name}}
}

// Meta overrides the singular and plural root query names.
func (b *TypeBuilder) Meta(singular, plural string) *TypeBuilder {
	b.typ.singular = singular
	b.typ.plural = plural
	return b
}

// Fields declares the scalar fields of the type.
func (b *TypeBuilder) Fields(fields ...FieldSource) *TypeBuilder {
	for _, f := range fields {
		b.typ.fields = append(b.typ.fields, f.Descriptor())
	}
	return b
}

// Edges declares the foreign-key and inverse edges of the type.
func (b *TypeBuilder) Edges(edges ...EdgeSource) *TypeBuilder {
	for _, e := range edges {
		b.typ.edges = append(b.typ.edges, e.Descriptor())
	}
	return b
}

// Schema is a validated, immutable set of type declarations.
type Schema struct {
	types []*Type
	index map[string]*Type
}

// New validates the declared types and builds a schema. Validation failures
// are reported as ConfigError.
func New(builders ...*TypeBuilder) (*Schema, error) {
	s := &Schema{index: make(map[string]*Type, len(builders))}
	for _, b := range builders {
		t := b.typ
		if t.name == "" {
			return nil, &ConfigError{Reason: "type with empty name"}
		}
		if _, ok := s.index[t.name]; ok {
			return nil, &ConfigError{Type: t.name, Reason: "declared twice"}
		}
		if t.singular == "" {
			t.singular = inflect.CamelizeDownFirst(t.name)
		}
		if t.plural == "" {
			t.plural = inflect.CamelizeDownFirst(inflect.Pluralize(t.name))
		}
		s.types = append(s.types, t)
		s.index[t.name] = t
	}
	if err := s.validate(); err != nil {
		return nil, err
	}
	return s, nil
}

// MustNew is like New but panics on validation failure. Intended for
// statically declared schemas.
func MustNew(builders ...*TypeBuilder) *Schema {
	s, err := New(builders...)
	if err != nil {
		panic(err)
	}
	return s
}

// Types returns the declared types in declaration order.
func (s *Schema) Types() []*Type { return s.types }

// Type returns the declared type with the given name, or nil.
func (s *Schema) Type(name string) *Type { return s.index[name] }

// ForeignKey resolves a foreign-key edge by declaring type and field name.
// It returns false if the type is unknown, the field is not declared, or
// the field is not a stored foreign-key edge.
func (s *Schema) ForeignKey(typ, name string) (*edge.Descriptor, bool) {
	t := s.index[typ]
	if t == nil {
		return nil, false
	}
	e := t.Edge(name)
	if e == nil || e.Inverse {
		return nil, false
	}
	return e, true
}

func (s *Schema) validate() error {
	for _, t := range s.types {
		names := make(map[string]bool, len(t.fields)+len(t.edges))
		for _, rsv := range []string{"id", "type"} {
			names[rsv] = true
		}
		for _, f := range t.fields {
			if err := s.validateName(t, f.Name, names); err != nil {
				return err
			}
			if f.Kind == field.KindInvalid {
				return &ConfigError{Type: t.name, Field: f.Name, Reason: "invalid scalar kind"}
			}
		}
		for _, e := range t.edges {
			if err := s.validateName(t, e.Name, names); err != nil {
				return err
			}
			if e.Inverse {
				if err := s.validateInverse(t, e); err != nil {
					return err
				}
				continue
			}
			if e.Rel == edge.Unk {
				return &ConfigError{Type: t.name, Field: e.Name, Reason: "foreign-key edge without cardinality"}
			}
			if s.index[e.Type] == nil {
				return &ConfigError{Type: t.name, Field: e.Name, Reason: fmt.Sprintf("unknown target type %q", e.Type)}
			}
		}
	}
	return nil
}

func (s *Schema) validateName(t *Type, name string, seen map[string]bool) error {
	if name == "" || strings.TrimSpace(name) != name {
		return &ConfigError{Type: t.name, Reason: fmt.Sprintf("invalid field name %q", name)}
	}
	if seen[name] {
		return &ConfigError{Type: t.name, Field: name, Reason: "declared twice"}
	}
	seen[name] = true
	return nil
}

// validateInverse checks that every ref of an inverse edge resolves to a
// stored foreign-key edge on a declared type.
func (s *Schema) validateInverse(t *Type, e *edge.Descriptor) error {
	if len(e.Refs) == 0 {
		return &ConfigError{Type: t.name, Field: e.Name, Reason: "inverse edge without refs"}
	}
	for _, ref := range e.Refs {
		src := s.index[ref.Type]
		if src == nil {
			return &ConfigError{Type: t.name, Field: e.Name, Reason: fmt.Sprintf("ref to unknown type %q", ref.Type)}
		}
		fk := src.Edge(ref.Field)
		if fk == nil || fk.Inverse {
			return &ConfigError{Type: t.name, Field: e.Name, Reason: fmt.Sprintf("ref %s.%s is not a foreign-key edge", ref.Type, ref.Field)}
		}
	}
	return nil
}

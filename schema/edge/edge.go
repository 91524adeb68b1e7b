// Package edge provides descriptors for declaring relationships between
// record types: stored foreign-key edges and their computed inverse views.
package edge

// Rel is the cardinality of a foreign-key edge.
type Rel int

// Relation types.
const (
	Unk Rel = iota // Unknown.
	O2O            // One to one / has one.
	O2M            // One to many / has many.
	M2O            // Many to one (inverse perspective for O2M).
	M2M            // Many to many.
)

// String returns the relation name.
func (r Rel) String() string {
	s := "Unknown"
	switch r {
	case O2O:
		s = "O2O"
	case O2M:
		s = "O2M"
	case M2O:
		s = "M2O"
	case M2M:
		s = "M2M"
	}
	return s
}

// ToMany reports whether the edge stores an array of identifiers.
func (r Rel) ToMany() bool { return r == O2M || r == M2M }

// ToOne reports whether the edge stores at most one identifier.
func (r Rel) ToOne() bool { return r == O2O || r == M2O }

// A Ref names a foreign-key edge declared on another type. Inverse edges
// aggregate one or more refs.
type Ref struct {
	// Type is the name of the type that declares the foreign-key edge.
	Type string
	// Field is the name of the foreign-key edge on that type.
	Field string
}

// Descriptor holds the full description of an edge as declared in the schema.
type Descriptor struct {
	// Name is the field name the edge occupies on its record.
	Name string
	// Type is the target type of a foreign-key edge. Empty for inverse edges.
	Type string
	// Rel is the cardinality of a foreign-key edge. Unk for inverse edges.
	Rel Rel
	// Inverse indicates the edge is a computed reverse view, not stored.
	Inverse bool
	// Refs are the foreign-key edges an inverse edge aggregates.
	Refs []Ref
}

// ToBuilder builds a stored foreign-key edge.
type ToBuilder struct {
	desc *Descriptor
}

// To declares a stored foreign-key edge named name pointing at records of
// the given type. The cardinality must be set with one of O2O, O2M, M2O
// or M2M before the schema is built:
//
//	edge.To("members", "Person").M2M()
func To(name, typ string) *ToBuilder {
	return &ToBuilder{desc: &Descriptor{Name: name, Type: typ}}
}

// O2O sets one-to-one cardinality. The edge stores at most one identifier,
// and no two records of the declaring type may reference the same target.
func (b *ToBuilder) O2O() *ToBuilder {
	b.desc.Rel = O2O
	return b
}

// O2M sets one-to-many cardinality. The edge stores an array of identifiers,
// and each target may be referenced by at most one record of the declaring type.
func (b *ToBuilder) O2M() *ToBuilder {
	b.desc.Rel = O2M
	return b
}

// M2O sets many-to-one cardinality. The edge stores at most one identifier.
func (b *ToBuilder) M2O() *ToBuilder {
	b.desc.Rel = M2O
	return b
}

// M2M sets many-to-many cardinality. The edge stores an array of identifiers.
func (b *ToBuilder) M2M() *ToBuilder {
	b.desc.Rel = M2M
	return b
}

// Descriptor returns the edge descriptor.
func (b *ToBuilder) Descriptor() *Descriptor {
	return b.desc
}

// FromBuilder builds a computed inverse edge.
type FromBuilder struct {
	desc *Descriptor
}

// From declares a computed inverse edge named name. The edge aggregates the
// reverse view of one or more foreign-key edges named with Ref:
//
//	edge.From("groups").Ref("Group", "members")
func From(name string) *FromBuilder {
	return &FromBuilder{desc: &Descriptor{Name: name, Inverse: true}}
}

// Ref adds a source foreign-key edge to the inverse view. The named field
// must be declared with edge.To on the named type.
func (b *FromBuilder) Ref(typ, field string) *FromBuilder {
	b.desc.Refs = append(b.desc.Refs, Ref{Type: typ, Field: field})
	return b
}

// Descriptor returns the edge descriptor.
func (b *FromBuilder) Descriptor() *Descriptor {
	return b.desc
}

// Package field provides descriptors for declaring scalar attributes
// on record types.
package field

// A Kind identifies the scalar type of a field.
type Kind int

// Scalar kinds.
const (
	KindInvalid Kind = iota
	KindString
	KindNumber
	KindBoolean
	KindDate
)

// String returns the kind name as used in declarative schema documents.
func (k Kind) String() string {
	switch k {
	case KindString:
		return "string"
	case KindNumber:
		return "number"
	case KindBoolean:
		return "boolean"
	case KindDate:
		return "date"
	}
	return "invalid"
}

// KindOf returns the kind named by s, or KindInvalid.
func KindOf(s string) Kind {
	switch s {
	case "string":
		return KindString
	case "number":
		return KindNumber
	case "boolean":
		return KindBoolean
	case "date":
		return KindDate
	}
	return KindInvalid
}

// Descriptor holds the description of a scalar field as declared in the schema.
type Descriptor struct {
	// Name is the field name on the record.
	Name string
	// Kind is the scalar type of the stored value.
	Kind Kind
	// Comment is an optional description carried into the generated schema.
	Comment string
}

// Builder builds a scalar field descriptor.
type Builder struct {
	desc *Descriptor
}

// String declares a string field.
func String(name string) *Builder {
	return &Builder{desc: &Descriptor{Name: name, Kind: KindString}}
}

// Number declares a numeric field. Values are stored verbatim; both integer
// and floating-point inputs are accepted.
func Number(name string) *Builder {
	return &Builder{desc: &Descriptor{Name: name, Kind: KindNumber}}
}

// Boolean declares a boolean field.
func Boolean(name string) *Builder {
	return &Builder{desc: &Descriptor{Name: name, Kind: KindBoolean}}
}

// Date declares a date field. Values are stored verbatim as RFC 3339
// strings or time.Time.
func Date(name string) *Builder {
	return &Builder{desc: &Descriptor{Name: name, Kind: KindDate}}
}

// Comment sets the field description.
func (b *Builder) Comment(c string) *Builder {
	b.desc.Comment = c
	return b
}

// Descriptor returns the field descriptor.
func (b *Builder) Descriptor() *Descriptor {
	return b.desc
}

package field_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/syssam/recordgraph/schema/field"
)

func TestDescriptors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		desc *field.Descriptor
		kind field.Kind
	}{
		{name: "string", desc: field.String("name").Descriptor(), kind: field.KindString},
		{name: "number", desc: field.Number("age").Descriptor(), kind: field.KindNumber},
		{name: "boolean", desc: field.Boolean("active").Descriptor(), kind: field.KindBoolean},
		{name: "date", desc: field.Date("born").Descriptor(), kind: field.KindDate},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.kind, tt.desc.Kind)
			assert.NotEmpty(t, tt.desc.Name)
		})
	}
}

func TestComment(t *testing.T) {
	t.Parallel()

	desc := field.String("name").Comment("display name").Descriptor()
	assert.Equal(t, "display name", desc.Comment)
}

func TestKindRoundTrip(t *testing.T) {
	t.Parallel()

	for _, k := range []field.Kind{field.KindString, field.KindNumber, field.KindBoolean, field.KindDate} {
		assert.Equal(t, k, field.KindOf(k.String()))
	}
	assert.Equal(t, field.KindInvalid, field.KindOf("uuid"))
}

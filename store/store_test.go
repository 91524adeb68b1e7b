package store_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/syssam/recordgraph/store"
)

func person(id, name string) *store.Record {
	r := store.NewRecord("Person", id)
	r.Set("name", name)
	return r
}

func TestRecordAccessors(t *testing.T) {
	t.Parallel()

	r := store.NewRecord("Group", "g1")
	assert.Equal(t, "Group", r.Type())
	assert.Equal(t, "g1", r.ID())

	_, ok := r.Get("name")
	assert.False(t, ok)

	r.Set("name", "admins")
	v, ok := r.Get("name")
	require.True(t, ok)
	assert.Equal(t, "admins", v)

	r.SetRefs("members", []string{"p1", "p2"})
	assert.Equal(t, []string{"p1", "p2"}, r.Refs("members"))

	r.Set("owner", "p1")
	id, ok := r.Ref("owner")
	require.True(t, ok)
	assert.Equal(t, "p1", id)

	r.Set("owner", nil)
	_, ok = r.Ref("owner")
	assert.False(t, ok, "cleared field has no ref")
}

func TestRecordRefsDecodedShapes(t *testing.T) {
	t.Parallel()

	// JSON and msgpack decoding produce []any, not []string.
	r := store.NewRecord("Group", "g1")
	r.Set("members", []any{"p1", "p2"})
	assert.Equal(t, []string{"p1", "p2"}, r.Refs("members"))

	r.Set("members", "p1")
	assert.Nil(t, r.Refs("members"), "scalar value is not an id list")
	assert.Nil(t, r.Refs("missing"))
}

func TestRecordMapRoundTrip(t *testing.T) {
	t.Parallel()

	r := store.NewRecord("Person", "p1")
	r.Set("name", "ada")
	r.SetRefs("friends", []string{"p2"})

	m := r.Map()
	assert.Equal(t, "Person", m["type"])
	assert.Equal(t, "p1", m["id"])
	assert.Equal(t, "ada", m["name"])

	back, err := store.FromMap(m)
	require.NoError(t, err)
	assert.Equal(t, r.Type(), back.Type())
	assert.Equal(t, r.ID(), back.ID())
	assert.Equal(t, []string{"p2"}, back.Refs("friends"))
}

func TestFromMapShapeCheck(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		m    map[string]any
	}{
		{name: "missing_type", m: map[string]any{"id": "p1"}},
		{name: "missing_id", m: map[string]any{"type": "Person"}},
		{name: "non_string_type", m: map[string]any{"type": 1, "id": "p1"}},
		{name: "non_string_id", m: map[string]any{"type": "Person", "id": 1}},
		{name: "empty_id", m: map[string]any{"type": "Person", "id": ""}},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := store.FromMap(tt.m)
			assert.ErrorIs(t, err, store.ErrBadShape)
		})
	}
}

func TestStoreLookups(t *testing.T) {
	t.Parallel()

	g := store.NewRecord("Group", "g1")
	s := store.New([]*store.Record{person("p1", "ada"), person("p2", "lin"), g})

	assert.Equal(t, 3, s.Len())
	assert.Same(t, g, s.First("Group", "g1"))
	assert.Nil(t, s.First("Person", "g1"), "type tag is part of the lookup")
	assert.Same(t, g, s.ByID("g1"))
	assert.Nil(t, s.ByID("nope"))

	people := s.OfType("Person")
	require.Len(t, people, 2)
	assert.Equal(t, "p1", people[0].ID())

	byIDs := s.ByIDs("Person", []string{"p2", "missing", "p1"})
	require.Len(t, byIDs, 3)
	assert.Equal(t, "p2", byIDs[0].ID())
	assert.Nil(t, byIDs[1])
	assert.Equal(t, "p1", byIDs[2].ID())
}

func TestStoreAppendRemove(t *testing.T) {
	t.Parallel()

	s := store.New(nil)
	s.Append(person("p1", "ada"))
	s.Append(person("p2", "lin"))

	removed := s.Remove("p1")
	require.NotNil(t, removed)
	assert.Equal(t, "p1", removed.ID())
	assert.Equal(t, 1, s.Len())

	assert.Nil(t, s.Remove("p1"), "second remove finds nothing")
	assert.Equal(t, 1, s.Len())
}

func TestEmitter(t *testing.T) {
	t.Parallel()

	s := store.New(nil)
	var a, b int
	unsubA := s.Subscribe(func() { a++ })
	s.Subscribe(func() { b++ })

	s.Notify()
	s.Notify()
	assert.Equal(t, 2, a)
	assert.Equal(t, 2, b)

	unsubA()
	s.Notify()
	assert.Equal(t, 2, a, "unsubscribed listener no longer fires")
	assert.Equal(t, 3, b)

	unsubA() // second call is a no-op
	s.Notify()
	assert.Equal(t, 4, b)
}

package compiler_test

import (
	"testing"

	"github.com/graphql-go/graphql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/syssam/recordgraph/compiler"
	"github.com/syssam/recordgraph/relation"
	"github.com/syssam/recordgraph/schema"
	"github.com/syssam/recordgraph/schema/edge"
	"github.com/syssam/recordgraph/schema/field"
	"github.com/syssam/recordgraph/store"
)

// testSchema covers every cardinality and inverse shape:
//
//	Group.members  manyToMany -> Person    Person.groups      inverse (list)
//	Group.owner    manyToOne  -> Person    Person.ownedGroups inverse (list)
//	Group.profile  oneToOne   -> Profile   Profile.group      inverse (single)
//	Group.playlist oneToMany  -> Track     Track.group        inverse (single)
//	Team.members   manyToMany -> Person    Person.memberships inverse of
//	                                       Group.members + Team.members (Node list)
func testSchema(t *testing.T) *schema.Schema {
	t.Helper()
	sch, err := schema.New(
		schema.NewType("Group").
			Fields(field.String("name")).
			Edges(
				edge.To("members", "Person").M2M(),
				edge.To("owner", "Person").M2O(),
				edge.To("profile", "Profile").O2O(),
				edge.To("playlist", "Track").O2M(),
			),
		schema.NewType("Person").
			Meta("person", "people").
			Fields(
				field.String("name"),
				field.Number("age"),
				field.Boolean("active"),
				field.Date("born"),
			).
			Edges(
				edge.From("groups").Ref("Group", "members"),
				edge.From("ownedGroups").Ref("Group", "owner"),
				edge.From("memberships").Ref("Group", "members").Ref("Team", "members"),
			),
		schema.NewType("Profile").
			Edges(edge.From("group").Ref("Group", "profile")),
		schema.NewType("Track").
			Edges(edge.From("group").Ref("Group", "playlist")),
		schema.NewType("Team").
			Edges(edge.To("members", "Person").M2M()),
	)
	require.NoError(t, err)
	return sch
}

type fixture struct {
	store  *store.Store
	schema graphql.Schema
}

func build(t *testing.T, records ...*store.Record) *fixture {
	t.Helper()
	sch := testSchema(t)
	st := store.New(records)
	compiled, err := compiler.Build(sch, st, relation.NewMutator(sch, st))
	require.NoError(t, err)
	return &fixture{store: st, schema: compiled}
}

func (f *fixture) exec(t *testing.T, query string, vars map[string]any) map[string]any {
	t.Helper()
	res := graphql.Do(graphql.Params{Schema: f.schema, RequestString: query, VariableValues: vars})
	require.Empty(t, res.Errors, "unexpected query errors")
	return res.Data.(map[string]any)
}

func (f *fixture) execErr(t *testing.T, query string) *graphql.Result {
	t.Helper()
	return graphql.Do(graphql.Params{Schema: f.schema, RequestString: query})
}

func rec(typ, id string) *store.Record {
	return store.NewRecord(typ, id)
}

func TestScalarAndSingularQuery(t *testing.T) {
	t.Parallel()

	p := rec("Person", "p1")
	p.Set("name", "ada")
	p.Set("age", float64(36))
	p.Set("active", true)
	p.Set("born", "1815-12-10T00:00:00Z")
	f := build(t, p)

	data := f.exec(t, `{ person(id: "p1") { id name age active born } }`, nil)
	assert.Equal(t, map[string]any{
		"person": map[string]any{
			"id":     "p1",
			"name":   "ada",
			"age":    float64(36),
			"active": true,
			"born":   "1815-12-10T00:00:00Z",
		},
	}, data)

	data = f.exec(t, `{ person(id: "missing") { id } }`, nil)
	assert.Equal(t, map[string]any{"person": nil}, data)
}

func TestUnsetScalarResolvesNull(t *testing.T) {
	t.Parallel()

	f := build(t, rec("Person", "p1"))
	data := f.exec(t, `{ person(id: "p1") { name age } }`, nil)
	assert.Equal(t, map[string]any{
		"person": map[string]any{"name": nil, "age": nil},
	}, data)
}

func TestForeignKeyResolution(t *testing.T) {
	t.Parallel()

	g := rec("Group", "g1")
	g.SetRefs("members", []string{"p1", "dangling", "p2"})
	g.Set("owner", "p1")
	g.Set("profile", "gone")
	f := build(t, g, rec("Person", "p1"), rec("Person", "p2"))

	data := f.exec(t, `{ group(id: "g1") { members { id } owner { id } profile { id } playlist { id } } }`, nil)
	assert.Equal(t, map[string]any{
		"group": map[string]any{
			"members":  []any{map[string]any{"id": "p1"}, map[string]any{"id": "p2"}},
			"owner":    map[string]any{"id": "p1"},
			"profile":  nil, // dangling to-one reference
			"playlist": []any{},
		},
	}, data)
}

func TestInverseSingleSource(t *testing.T) {
	t.Parallel()

	g := rec("Group", "g1")
	g.SetRefs("members", []string{"p1"})
	g.Set("owner", "p1")
	g.Set("profile", "pr1")
	g.SetRefs("playlist", []string{"t1"})
	f := build(t, g, rec("Person", "p1"), rec("Profile", "pr1"), rec("Track", "t1"))

	// The concrete scenario: person(id:P){groups{id}} -> {groups:[{id:G}]}.
	data := f.exec(t, `{ person(id: "p1") { groups { id } ownedGroups { id } } }`, nil)
	assert.Equal(t, map[string]any{
		"person": map[string]any{
			"groups":      []any{map[string]any{"id": "g1"}},
			"ownedGroups": []any{map[string]any{"id": "g1"}},
		},
	}, data)

	// Inverses of to-one-shaped sources resolve to a single node.
	data = f.exec(t, `{ profile(id: "pr1") { group { id } } }`, nil)
	assert.Equal(t, map[string]any{
		"profile": map[string]any{"group": map[string]any{"id": "g1"}},
	}, data)

	data = f.exec(t, `{ track(id: "t1") { group { id } } }`, nil)
	assert.Equal(t, map[string]any{
		"track": map[string]any{"group": map[string]any{"id": "g1"}},
	}, data)
}

func TestInverseMultiSourceDeduplicates(t *testing.T) {
	t.Parallel()

	g := rec("Group", "g1")
	g.SetRefs("members", []string{"p1"})
	team := rec("Team", "tm1")
	team.SetRefs("members", []string{"p1"})
	f := build(t, g, team, rec("Person", "p1"))

	data := f.exec(t, `{ person(id: "p1") { memberships { id } } }`, nil)
	assert.Equal(t, map[string]any{
		"person": map[string]any{
			"memberships": []any{map[string]any{"id": "g1"}, map[string]any{"id": "tm1"}},
		},
	}, data)
}

func TestInverseMultiSourceSameTargetTwice(t *testing.T) {
	t.Parallel()

	// p1 is reachable from g1 through both members and owner; the
	// ownedGroups+groups style fold must not duplicate g1.
	sch, err := schema.New(
		schema.NewType("Group").
			Edges(
				edge.To("members", "Person").M2M(),
				edge.To("owner", "Person").M2O(),
			),
		schema.NewType("Person").
			Edges(edge.From("related").Ref("Group", "members").Ref("Group", "owner")),
	)
	require.NoError(t, err)

	g := rec("Group", "g1")
	g.SetRefs("members", []string{"p1"})
	g.Set("owner", "p1")
	st := store.New([]*store.Record{g, rec("Person", "p1")})
	compiled, err := compiler.Build(sch, st, relation.NewMutator(sch, st))
	require.NoError(t, err)

	res := graphql.Do(graphql.Params{Schema: compiled, RequestString: `{ person(id: "p1") { related { id } } }`})
	require.Empty(t, res.Errors)
	assert.Equal(t, map[string]any{
		"person": map[string]any{
			"related": []any{map[string]any{"id": "g1"}},
		},
	}, res.Data)
}

func TestNodeQuery(t *testing.T) {
	t.Parallel()

	g := rec("Group", "g1")
	g.Set("name", "admins")
	f := build(t, g, rec("Person", "p1"))

	data := f.exec(t, `{ node(id: "g1") { id ... on Group { name } } }`, nil)
	assert.Equal(t, map[string]any{
		"node": map[string]any{"id": "g1", "name": "admins"},
	}, data)

	data = f.exec(t, `{ node(id: "nope") { id } }`, nil)
	assert.Equal(t, map[string]any{"node": nil}, data)
}

func TestRelationshipsQuery(t *testing.T) {
	t.Parallel()

	g := rec("Group", "g1")
	g.SetRefs("members", []string{"p1", "p2"})
	f := build(t, g, rec("Person", "p1"), rec("Person", "p2"))

	data := f.exec(t, `{ relationships { source { id } target { id } } }`, nil)
	assert.Equal(t, map[string]any{
		"relationships": []any{
			map[string]any{"source": map[string]any{"id": "g1"}, "target": map[string]any{"id": "p1"}},
			map[string]any{"source": map[string]any{"id": "g1"}, "target": map[string]any{"id": "p2"}},
		},
	}, data)

	// The filter argument is declared but not applied.
	filtered := f.exec(t, `{ relationships(foreignKeys: ["owner"]) { target { id } } }`, nil)
	assert.Len(t, filtered["relationships"], 2)
}

func TestPluralQuery(t *testing.T) {
	t.Parallel()

	f := build(t, rec("Person", "p1"), rec("Person", "p2"), rec("Group", "g1"))

	// ids supplied: input order, null holes for absent ids.
	data := f.exec(t, `{ people(ids: ["p2", "missing", "p1"]) { id } }`, nil)
	assert.Equal(t, map[string]any{
		"people": []any{map[string]any{"id": "p2"}, nil, map[string]any{"id": "p1"}},
	}, data)

	// ids omitted: all records of the type.
	data = f.exec(t, `{ people { id } }`, nil)
	assert.Equal(t, map[string]any{
		"people": []any{map[string]any{"id": "p1"}, map[string]any{"id": "p2"}},
	}, data)
}

func TestCreateMutation(t *testing.T) {
	t.Parallel()

	f := build(t)
	var notified int
	f.store.Subscribe(func() { notified++ })

	data := f.exec(t, `mutation { createPerson(id: "p1", name: "ada", age: 36) { id name age } }`, nil)
	assert.Equal(t, map[string]any{
		"createPerson": map[string]any{"id": "p1", "name": "ada", "age": float64(36)},
	}, data)
	assert.Equal(t, 1, notified)
	require.NotNil(t, f.store.First("Person", "p1"))

	// Generated identifier when none supplied.
	data = f.exec(t, `mutation { createPerson(name: "lin") { id } }`, nil)
	id := data["createPerson"].(map[string]any)["id"].(string)
	assert.NotEmpty(t, id)
	assert.NotEqual(t, "p1", id)
	assert.Equal(t, 2, f.store.Len())
}

func TestCreateDuplicateIDRejected(t *testing.T) {
	t.Parallel()

	f := build(t, rec("Person", "p1"))
	res := f.execErr(t, `mutation { createPerson(id: "p1") { id } }`)
	require.NotEmpty(t, res.Errors)
	assert.Contains(t, res.Errors[0].Message, "duplicate id")
	assert.Equal(t, map[string]any{"createPerson": nil}, res.Data)
	assert.Equal(t, 1, f.store.Len())
}

func TestUpdateMutation(t *testing.T) {
	t.Parallel()

	p := rec("Person", "p1")
	p.Set("name", "ada")
	p.Set("age", float64(36))
	f := build(t, p)

	data := f.exec(t, `mutation { updatePerson(id: "p1", name: "lovelace") { name age } }`, nil)
	assert.Equal(t, map[string]any{
		"updatePerson": map[string]any{"name": "lovelace", "age": float64(36)},
	}, data, "only supplied fields are overwritten")
}

func TestUpdateMissingRecordStillNotifies(t *testing.T) {
	t.Parallel()

	f := build(t)
	var notified int
	f.store.Subscribe(func() { notified++ })

	data := f.exec(t, `mutation { updatePerson(id: "missing-id", name: "x") { id } }`, nil)
	assert.Equal(t, map[string]any{"updatePerson": nil}, data)
	assert.Equal(t, 1, notified, "exactly one change notification")
}

func TestDeleteMutation(t *testing.T) {
	t.Parallel()

	g := rec("Group", "g1")
	g.SetRefs("members", []string{"p1"})
	p := rec("Person", "p1")
	p.Set("name", "ada")
	f := build(t, g, p)

	data := f.exec(t, `mutation { deletePerson(id: "p1") { id name } }`, nil)
	assert.Equal(t, map[string]any{
		"deletePerson": map[string]any{"id": "p1", "name": "ada"},
	}, data)
	assert.Nil(t, f.store.ByID("p1"))

	// No cascade: the dangling reference stays in storage but is
	// filtered out of the list view.
	assert.Equal(t, []string{"p1"}, g.Refs("members"))
	viewed := f.exec(t, `{ group(id: "g1") { members { id } } }`, nil)
	assert.Equal(t, map[string]any{
		"group": map[string]any{"members": []any{}},
	}, viewed)

	data = f.exec(t, `mutation { deletePerson(id: "p1") { id } }`, nil)
	assert.Equal(t, map[string]any{"deletePerson": nil}, data)
}

func TestRelationshipMutations(t *testing.T) {
	t.Parallel()

	g := rec("Group", "g1")
	f := build(t, g, rec("Person", "p1"))

	data := f.exec(t, `mutation { addRelationship(field: "members", source: "g1", target: "p1") { id } }`, nil)
	assert.Equal(t, map[string]any{
		"addRelationship": map[string]any{"id": "g1"},
	}, data)
	assert.Equal(t, []string{"p1"}, g.Refs("members"))

	data = f.exec(t, `mutation { removeRelationship(field: "members", source: "g1", target: "p1") { id } }`, nil)
	assert.Equal(t, map[string]any{
		"removeRelationship": map[string]any{"id": "g1"},
	}, data)
	assert.Empty(t, g.Refs("members"))
}

func TestRelationshipMutationErrorsAreSoft(t *testing.T) {
	t.Parallel()

	f := build(t, rec("Group", "g1"))

	res := f.execErr(t, `mutation { addRelationship(field: "members", source: "missing", target: "p1") { id } }`)
	require.NotEmpty(t, res.Errors)
	assert.Equal(t, map[string]any{"addRelationship": nil}, res.Data, "structurally valid response")

	res = f.execErr(t, `mutation { addRelationship(field: "name", source: "g1", target: "p1") { id } }`)
	require.NotEmpty(t, res.Errors)
	assert.Contains(t, res.Errors[0].Message, "not a foreign-key")
}

func TestVariables(t *testing.T) {
	t.Parallel()

	f := build(t, rec("Person", "p1"))
	data := f.exec(t, `query ($id: ID!) { person(id: $id) { id } }`, map[string]any{"id": "p1"})
	assert.Equal(t, map[string]any{
		"person": map[string]any{"id": "p1"},
	}, data)
}

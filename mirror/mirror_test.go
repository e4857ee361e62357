package mirror

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/teranos/cgkit/am"
	"github.com/teranos/cgkit/concept"
	"github.com/teranos/cgkit/errors"
	"github.com/teranos/cgkit/hierarchy"
	"github.com/teranos/cgkit/kb"
)

func familySnapshot(t *testing.T) kb.Snapshot {
	t.Helper()
	k, err := kb.New("family")
	require.NoError(t, err)
	_, err = k.ImportDocument(kb.Document{
		ConceptTypes: []hierarchy.TreeSpec{
			{Label: "Entity", SubLabels: []hierarchy.TreeSpec{
				{Label: "Adult"},
				{Label: "Child"},
			}},
		},
		RelationTypes: []hierarchy.TreeSpec{
			{Label: "ParentOf", Signature: []string{"Adult", "Child"}},
		},
		Concepts: []concept.Concept{
			{Label: "Bob", TypeLabels: []string{"Adult"}, Referent: concept.LiteralReferent("Bob")},
			{Label: "Tom", TypeLabels: []string{"Child"}},
		},
		Relations: []concept.Relation{
			{Label: "bob-parent-of-tom", TypeLabels: []string{"ParentOf"}, ArgumentLabels: []string{"Bob", "Tom"}},
		},
	})
	require.NoError(t, err)
	return k.Snapshot()
}

func TestBuildGraph(t *testing.T) {
	at := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	g := BuildGraph(familySnapshot(t), at)

	assert.Equal(t, Stats{Nodes: 7, Edges: 6}, g.Stats())

	require.Len(t, g.ConceptTypes, 3)
	entity := g.ConceptTypes[0]
	assert.Equal(t, "Entity", entity["label"])
	assert.Equal(t, true, entity["root"])
	assert.Equal(t, "family", entity["kb"])
	assert.Equal(t, "2026-03-01T12:00:00Z", entity["synced_at"])
	assert.Equal(t, false, g.ConceptTypes[1]["root"])
	assert.Equal(t, []string{}, entity["signature"], "absent lists are sent as empty")

	require.Len(t, g.RelationTypes, 1)
	assert.Equal(t, []string{"Adult", "Child"}, g.RelationTypes[0]["signature"])

	assert.ElementsMatch(t, []map[string]any{
		{"kb": "family", "hierarchy": hierarchy.KindConceptTypes, "child": "Adult", "parent": "Entity"},
		{"kb": "family", "hierarchy": hierarchy.KindConceptTypes, "child": "Child", "parent": "Entity"},
	}, g.Subtypes)

	require.Len(t, g.Concepts, 2)
	assert.Equal(t, "LITERAL", g.Concepts[0]["designator_kind"])
	assert.Equal(t, "Bob", g.Concepts[0]["referent"])
	assert.Equal(t, "BLANK", g.Concepts[1]["designator_kind"])

	assert.Equal(t, []map[string]any{
		{"kb": "family", "concept": "Bob", "type": "Adult"},
		{"kb": "family", "concept": "Tom", "type": "Child"},
	}, g.InstanceOf)

	require.Len(t, g.Relations, 1)
	assert.Equal(t, []string{"ParentOf"}, g.Relations[0]["types"])
	assert.Equal(t, []map[string]any{
		{"kb": "family", "relation": "bob-parent-of-tom", "concept": "Bob", "position": int64(0)},
		{"kb": "family", "relation": "bob-parent-of-tom", "concept": "Tom", "position": int64(1)},
	}, g.Arguments)
}

func TestBuildGraph_Empty(t *testing.T) {
	g := BuildGraph(kb.Snapshot{Name: "empty"}, time.Now())
	assert.Equal(t, Stats{}, g.Stats())
	assert.Empty(t, g.Subtypes)
}

func TestOpen_Disabled(t *testing.T) {
	_, err := Open(context.Background(), am.Neo4jConfig{}, zaptest.NewLogger(t).Sugar())
	assert.True(t, errors.Is(err, errors.ErrInvalidRequest))
}

func TestOpen_UnsupportedScheme(t *testing.T) {
	_, err := Open(context.Background(), am.Neo4jConfig{
		Enabled:  true,
		URI:      "ftp://localhost:7687",
		Username: "neo4j",
	}, zaptest.NewLogger(t).Sugar())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "create neo4j driver")
}

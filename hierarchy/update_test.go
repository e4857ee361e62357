package hierarchy

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teranos/cgkit/errors"
)

func TestUpdateType_Rename(t *testing.T) {
	s := newFamily(t)
	human, _ := s.GetByLabel("Human")

	human.Label = "Person"
	updated, err := s.UpdateType(human)
	require.NoError(t, err)
	assert.Equal(t, "Person", updated.Label)
	assert.Equal(t, human.ID, updated.ID)

	_, ok := s.GetByLabel("Human")
	assert.False(t, ok)

	entity, _ := s.GetByLabel("Entity")
	assert.Equal(t, []string{"Person"}, entity.ChildLabels)
	for _, l := range []string{"Adult", "Female", "Child", "Male"} {
		n, _ := s.GetByLabel(l)
		assert.Equal(t, []string{"Person"}, n.ParentLabels, l)
	}
	assert.True(t, s.DescendantsOf("Person").Has("Boy"))
	require.NoError(t, s.Check())
}

func TestUpdateType_Reparent(t *testing.T) {
	s := newFamily(t)
	mustCreate(t, s, "Agent")
	human, _ := s.GetByLabel("Human")

	human.ParentLabels = []string{"Agent"}
	_, err := s.UpdateType(human)
	require.NoError(t, err)

	entity, _ := s.GetByLabel("Entity")
	assert.Empty(t, entity.ChildLabels, "old parent drops the back-reference")
	agent, _ := s.GetByLabel("Agent")
	assert.Equal(t, []string{"Human"}, agent.ChildLabels)
	assert.Equal(t, []string{"Entity", "Agent"}, rootLabels(s))
	require.NoError(t, s.Check())
}

func TestUpdateType_BecomesRoot(t *testing.T) {
	s := newFamily(t)
	human, _ := s.GetByLabel("Human")

	human.ParentLabels = nil
	_, err := s.UpdateType(human)
	require.NoError(t, err)

	assert.Equal(t, []string{"Entity", "Human"}, rootLabels(s))
	require.NoError(t, s.Check())
}

func TestUpdateType_DroppedChildIsReRooted(t *testing.T) {
	s := New(KindConceptTypes)
	mustCreate(t, s, "A")
	mustCreate(t, s, "B", "A")
	mustCreate(t, s, "C", "A")
	a, _ := s.GetByLabel("A")

	a.ChildLabels = []string{"C"}
	_, err := s.UpdateType(a)
	require.NoError(t, err)

	b, _ := s.GetByLabel("B")
	assert.Empty(t, b.ParentLabels)
	assert.Equal(t, []string{"A", "B"}, rootLabels(s))
	require.NoError(t, s.Check())
}

func TestUpdateType_AdoptsChild(t *testing.T) {
	s := New(KindConceptTypes)
	mustCreate(t, s, "A")
	mustCreate(t, s, "B")
	a, _ := s.GetByLabel("A")

	a.ChildLabels = []string{"B"}
	updated, err := s.UpdateType(a)
	require.NoError(t, err)
	assert.Equal(t, []string{"B"}, updated.ChildLabels)

	b, _ := s.GetByLabel("B")
	assert.Equal(t, []string{"A"}, b.ParentLabels)
	assert.Equal(t, []string{"A"}, rootLabels(s))
	require.NoError(t, s.Check())
}

func TestUpdateType_RenameAndReparentTogether(t *testing.T) {
	s := newFamily(t)
	female, _ := s.GetByLabel("Female")

	female.Label = "Feminine"
	female.ParentLabels = []string{"Entity"}
	female.ChildLabels = []string{"Woman"}
	_, err := s.UpdateType(female)
	require.NoError(t, err)

	girl, _ := s.GetByLabel("Girl")
	assert.Equal(t, []string{"Child"}, girl.ParentLabels)
	woman, _ := s.GetByLabel("Woman")
	assert.Equal(t, []string{"Adult", "Feminine"}, woman.ParentLabels)
	human, _ := s.GetByLabel("Human")
	assert.Equal(t, []string{"Adult", "Child", "Male"}, human.ChildLabels)
	require.NoError(t, s.Check())
}

func TestUpdateType_KeepsSignature(t *testing.T) {
	s := New(KindRelationTypes)
	mustCreate(t, s, "Link")
	_, err := s.SetSignature("Link", []string{"Entity", "Entity"})
	require.NoError(t, err)

	link, _ := s.GetByLabel("Link")
	link.Label = "Relates"
	updated, err := s.UpdateType(link)
	require.NoError(t, err)
	assert.Equal(t, []string{"Entity", "Entity"}, updated.Signature)
}

func TestUpdateType_Validation(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(n *TypeNode)
		want   error
	}{
		{"missing id", func(n *TypeNode) { n.ID = "" }, errors.ErrMissingID},
		{"unknown id", func(n *TypeNode) { n.ID = "t999" }, errors.ErrNoSuchType},
		{"duplicate label", func(n *TypeNode) { n.Label = "Female" }, errors.ErrDuplicateLabel},
		{"self as child", func(n *TypeNode) { n.ChildLabels = append(n.ChildLabels, "Human") }, errors.ErrSelfReference},
		{"new label as parent", func(n *TypeNode) { n.Label = "Person"; n.ParentLabels = []string{"Person"} }, errors.ErrSelfReference},
		{"old label as parent", func(n *TypeNode) { n.Label = "Person"; n.ParentLabels = []string{"Human"} }, errors.ErrSelfReference},
		{"unknown parent", func(n *TypeNode) { n.ParentLabels = []string{"Nope"} }, errors.ErrNoSuchType},
		{"unknown child", func(n *TypeNode) { n.ChildLabels = []string{"Nope"} }, errors.ErrNoSuchType},
		{"descendant as parent", func(n *TypeNode) { n.ParentLabels = []string{"Boy"} }, errors.ErrSelfReference},
		{"ancestor as child", func(n *TypeNode) { n.ChildLabels = []string{"Entity"} }, errors.ErrSelfReference},
		{"same node as parent and child", func(n *TypeNode) {
			n.ParentLabels = []string{"Entity"}
			n.ChildLabels = []string{"Entity"}
		}, errors.ErrSelfReference},
		{"empty label", func(n *TypeNode) { n.Label = "" }, errors.ErrInvalidRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newFamily(t)
			before := s.Snapshot()
			human, _ := s.GetByLabel("Human")
			tt.mutate(&human)

			_, err := s.UpdateType(human)
			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.want), "got %v", err)
			assert.Equal(t, before, s.Snapshot(), "failed update must not mutate")
		})
	}
}

func TestUpdateType_AncestorAsChildAllowedWhenDetached(t *testing.T) {
	s := New(KindConceptTypes)
	mustCreate(t, s, "A")
	mustCreate(t, s, "B", "A")
	b, _ := s.GetByLabel("B")

	// B drops A as parent and adopts it as child: the edge flips direction.
	b.ParentLabels = nil
	b.ChildLabels = []string{"A"}
	_, err := s.UpdateType(b)
	require.NoError(t, err)

	a, _ := s.GetByLabel("A")
	assert.Equal(t, []string{"B"}, a.ParentLabels)
	assert.Empty(t, a.ChildLabels)
	assert.Equal(t, []string{"B"}, rootLabels(s))
	require.NoError(t, s.Check())
}

package match

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teranos/cgkit/concept"
	"github.com/teranos/cgkit/hierarchy"
)

func familyTypes(t *testing.T) *hierarchy.Store {
	t.Helper()
	s := hierarchy.New(hierarchy.KindConceptTypes)
	create := func(label string, parents ...string) {
		_, err := s.CreateType(label, parents)
		require.NoError(t, err)
	}
	create("Entity")
	create("Human", "Entity")
	for _, l := range []string{"Adult", "Female", "Child", "Male"} {
		create(l, "Human")
	}
	create("Woman", "Adult", "Female")
	create("Man", "Adult", "Male")
	create("Girl", "Female", "Child")
	create("Boy", "Child", "Male")
	create("Animal", "Entity")
	return s
}

func people() []concept.Concept {
	return []concept.Concept{
		{Label: "Tom", TypeLabels: []string{"Boy"}, Referent: concept.TheReferent("Tom")},
		{Label: "Rex", TypeLabels: []string{"Animal"}, Referent: concept.TheReferent("Rex")},
		{Label: "Ann", TypeLabels: []string{"Girl", "Female"}, Referent: concept.LiteralReferent("Ann")},
		{Label: "someone", TypeLabels: []string{"Human"}, Referent: concept.BlankReferent()},
		{Label: "centaur", TypeLabels: []string{"Man", "Animal"}, Referent: concept.BlankReferent()},
		{Label: "untyped", Referent: concept.BlankReferent()},
		{Label: "Bob", TypeLabels: []string{"Man"}, Referent: concept.LiteralReferent("Bob")},
	}
}

func labels(cs []concept.Concept) []string {
	var out []string
	for _, c := range cs {
		out = append(out, c.Label)
	}
	return out
}

func TestMatchByExample_LambdaSubset(t *testing.T) {
	m := New(hierarchy.NewSubsumptionIndex(familyTypes(t)))

	got := m.MatchByExample(people(), concept.Concept{
		TypeLabels: []string{"Human"},
		Referent:   concept.LambdaReferent(),
	})
	assert.Equal(t, []string{"Tom", "Ann", "someone", "Bob"}, labels(got))
}

func TestMatchByExample_ExactReferent(t *testing.T) {
	m := New(familyTypes(t))

	got := m.MatchByExample(people(), concept.Concept{
		TypeLabels: []string{"Adult"},
		Referent:   concept.LiteralReferent("Bob"),
	})
	assert.Equal(t, []string{"Bob"}, labels(got))

	got = m.MatchByExample(people(), concept.Concept{
		TypeLabels: []string{"Human"},
		Referent:   concept.BlankReferent(),
	})
	assert.Equal(t, []string{"someone"}, labels(got))

	got = m.MatchByExample(people(), concept.Concept{
		TypeLabels: []string{"Human"},
		Referent:   concept.TheReferent("Bob"),
	})
	assert.Empty(t, got, "kind must match as well as value")
}

func TestMatchByExample_SeveralQueryTypes(t *testing.T) {
	m := New(familyTypes(t))

	got := m.MatchByExample(people(), concept.Concept{
		TypeLabels: []string{"Adult", "Animal"},
		Referent:   concept.LambdaReferent(),
	})
	assert.Equal(t, []string{"Rex", "centaur", "Bob"}, labels(got))
}

func TestMatchByExample_NoMatch(t *testing.T) {
	m := New(familyTypes(t))

	assert.Empty(t, m.MatchByExample(people(), concept.Concept{TypeLabels: []string{"Nope"}, Referent: concept.LambdaReferent()}))
	assert.Empty(t, m.MatchByExample(people(), concept.Concept{Referent: concept.LambdaReferent()}))
	assert.Empty(t, m.MatchByExample(nil, concept.Concept{TypeLabels: []string{"Entity"}, Referent: concept.LambdaReferent()}))
}

func TestMatchByExample_ReturnsCopies(t *testing.T) {
	m := New(familyTypes(t))
	candidates := people()

	got := m.MatchByExample(candidates, concept.Concept{TypeLabels: []string{"Boy"}, Referent: concept.LambdaReferent()})
	require.Len(t, got, 1)
	got[0].TypeLabels[0] = "Mutated"
	assert.Equal(t, "Boy", candidates[0].TypeLabels[0])
}

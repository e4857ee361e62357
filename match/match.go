// Package match filters concept instances against a query concept by type
// subsumption and referent compatibility.
package match

import (
	"github.com/teranos/cgkit/concept"
	"github.com/teranos/cgkit/hierarchy"
)

// Matcher answers query-by-example over concept instances.
type Matcher struct {
	types hierarchy.Closure
}

// New creates a matcher reading the concept-type hierarchy through types.
func New(types hierarchy.Closure) *Matcher {
	return &Matcher{types: types}
}

// MatchByExample returns copies of the candidates whose types are all at least
// as specific as one of the query's types and whose referent the query
// accepts. Input order is kept. A candidate without types never matches.
func (m *Matcher) MatchByExample(candidates []concept.Concept, query concept.Concept) []concept.Concept {
	allowed := m.types.DescendantsOf(query.TypeLabels...)
	if len(allowed) == 0 {
		return nil
	}

	var out []concept.Concept
	for _, c := range candidates {
		if len(c.TypeLabels) == 0 || !allowed.ContainsAll(c.TypeLabels) {
			continue
		}
		if !c.Referent.AcceptedBy(query.Referent) {
			continue
		}
		out = append(out, c.Clone())
	}
	return out
}

package kb

import (
	"github.com/teranos/cgkit/concept"
	"github.com/teranos/cgkit/errors"
	"github.com/teranos/cgkit/hierarchy"
	"github.com/teranos/cgkit/ident"
	"github.com/teranos/cgkit/logger"
)

// Snapshot is a deep copy of a whole knowledge base.
type Snapshot struct {
	Name          string             `json:"name"`
	ConceptTypes  hierarchy.Snapshot `json:"conceptTypes"`
	RelationTypes hierarchy.Snapshot `json:"relationTypes"`
	Concepts      []concept.Concept  `json:"concepts"`
	Relations     []concept.Relation `json:"relations"`
}

// Snapshot returns a deep copy of the current state.
func (k *KnowledgeBase) Snapshot() Snapshot {
	k.mu.RLock()
	defer k.mu.RUnlock()
	return k.snapshot()
}

// Restore replaces the whole state with a snapshot. The snapshot is fully
// validated first; on error the knowledge base is left as it was.
func (k *KnowledgeBase) Restore(snap Snapshot) error {
	k.mu.Lock()
	defer k.mu.Unlock()
	return k.restore(snap)
}

func (k *KnowledgeBase) snapshot() Snapshot {
	snap := Snapshot{
		Name:          k.name,
		ConceptTypes:  k.conceptTypes.Snapshot(),
		RelationTypes: k.relationTypes.Snapshot(),
		Concepts:      k.concepts.All(),
		Relations:     make([]concept.Relation, len(k.relations)),
	}
	for i, r := range k.relations {
		snap.Relations[i] = r.Clone()
	}
	return snap
}

func (k *KnowledgeBase) restore(snap Snapshot) error {
	p := k.newParts()
	if err := p.conceptTypes.Restore(snap.ConceptTypes); err != nil {
		return err
	}
	if err := p.relationTypes.Restore(snap.RelationTypes); err != nil {
		return err
	}
	for _, rt := range p.relationTypes.All() {
		for _, l := range rt.Signature {
			if !p.conceptTypes.Has(l) {
				return errors.Wrapf(hierarchy.ErrInconsistent, "signature of %q references unknown concept type %q", rt.Label, l)
			}
		}
	}
	for _, c := range snap.Concepts {
		if _, err := p.concepts.Add(c); err != nil {
			return errors.Wrap(err, "restore concepts")
		}
	}

	seen := make(map[string]struct{}, len(snap.Relations))
	for _, r := range snap.Relations {
		if r.ID == "" || r.Label == "" {
			return errors.Wrap(hierarchy.ErrInconsistent, "relation without id or label")
		}
		if _, dup := seen[r.Label]; dup {
			return errors.Wrapf(errors.ErrDuplicateLabel, "relation %q", r.Label)
		}
		seen[r.Label] = struct{}{}

		// Signatures are not re-checked; references must resolve.
		for _, t := range r.TypeLabels {
			if !p.relationTypes.Has(t) {
				return errors.Wrapf(errors.ErrNoSuchType, "relation %q: relation type %q", r.Label, t)
			}
		}
		for _, a := range r.ArgumentLabels {
			if _, ok := p.concepts.GetByLabel(a); !ok {
				return errors.Wrapf(errors.ErrNoSuchConcept, "relation %q: argument %q", r.Label, a)
			}
		}
		p.relations = append(p.relations, r.Clone())
		if obs, ok := k.ids.relations.(ident.Observer); ok {
			obs.Observe(r.ID)
		}
	}

	k.install(p)
	k.log.Debugw("Knowledge base restored",
		"concept_types", p.conceptTypes.Len(),
		"relation_types", p.relationTypes.Len(),
		logger.FieldCount, p.concepts.Len()+len(p.relations))
	return nil
}

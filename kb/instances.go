package kb

import (
	"github.com/teranos/cgkit/concept"
	"github.com/teranos/cgkit/errors"
	"github.com/teranos/cgkit/ident"
	"github.com/teranos/cgkit/logger"
)

// AddConcept stores a concept. Its types must be existing concept types.
func (k *KnowledgeBase) AddConcept(c concept.Concept) (concept.Concept, error) {
	k.mu.Lock()
	defer k.mu.Unlock()
	return k.concepts.Add(c)
}

// RemoveConcept deletes a concept that no relation uses.
func (k *KnowledgeBase) RemoveConcept(label string) error {
	k.mu.Lock()
	defer k.mu.Unlock()

	if _, ok := k.concepts.GetByLabel(label); !ok {
		return errors.Wrapf(errors.ErrNoSuchConcept, "concept %q", label)
	}
	for _, r := range k.relations {
		if r.HasArgument(label) {
			return errors.WithHint(
				errors.Wrapf(errors.ErrConflict, "concept %q is an argument of relation %q", label, r.Label),
				"remove the relation first")
		}
	}
	k.concepts.Remove(label)
	return nil
}

// Concept returns a concept by label.
func (k *KnowledgeBase) Concept(label string) (concept.Concept, bool) {
	k.mu.RLock()
	defer k.mu.RUnlock()
	return k.concepts.GetByLabel(label)
}

// Concepts returns every concept in insertion order.
func (k *KnowledgeBase) Concepts() []concept.Concept {
	k.mu.RLock()
	defer k.mu.RUnlock()
	return k.concepts.All()
}

// MatchByExample returns the concepts the query matches.
func (k *KnowledgeBase) MatchByExample(query concept.Concept) []concept.Concept {
	k.mu.RLock()
	defer k.mu.RUnlock()
	return k.matcher.MatchByExample(k.concepts.All(), query)
}

// AddRelation validates the arguments against the listed relation types and
// stores the relation under the first type that accepted them.
func (k *KnowledgeBase) AddRelation(label string, typeLabels, argLabels []string) (concept.Relation, error) {
	k.mu.Lock()
	defer k.mu.Unlock()
	return k.addRelation(concept.Relation{Label: label, TypeLabels: typeLabels, ArgumentLabels: argLabels})
}

func (k *KnowledgeBase) addRelation(r concept.Relation) (concept.Relation, error) {
	if r.Label == "" {
		return concept.Relation{}, errors.NewInvalidRequestError("relation label cannot be empty")
	}
	if _, exists := k.findRelation(r.Label); exists {
		return concept.Relation{}, errors.Wrapf(errors.ErrDuplicateLabel, "relation %q", r.Label)
	}

	args := make([]concept.Concept, len(r.ArgumentLabels))
	for i, l := range r.ArgumentLabels {
		args[i] = concept.Concept{Label: l}
	}
	matched, err := k.validator.Validate(r.TypeLabels, args)
	if err != nil {
		return concept.Relation{}, errors.Wrapf(err, "relation %q", r.Label)
	}

	stored := concept.Relation{
		ID:             r.ID,
		Label:          r.Label,
		TypeLabels:     []string{matched.RelationType},
		ArgumentLabels: append([]string(nil), r.ArgumentLabels...),
	}
	for _, existing := range k.relations {
		if stored.ID != "" && existing.ID == stored.ID {
			return concept.Relation{}, errors.Wrapf(errors.ErrConflict, "relation id %q already in use", stored.ID)
		}
	}
	if stored.ID == "" {
		stored.ID = k.ids.relations.Next()
	} else if obs, ok := k.ids.relations.(ident.Observer); ok {
		obs.Observe(stored.ID)
	}
	k.relations = append(k.relations, stored)

	k.log.Debugw("Relation added",
		logger.FieldRelation, stored.Label,
		logger.FieldID, stored.ID,
		logger.FieldLabel, matched.RelationType)
	return stored.Clone(), nil
}

// RemoveRelation deletes a relation. Returns false when absent.
func (k *KnowledgeBase) RemoveRelation(label string) bool {
	k.mu.Lock()
	defer k.mu.Unlock()

	i, ok := k.findRelation(label)
	if !ok {
		return false
	}
	k.relations = append(k.relations[:i:i], k.relations[i+1:]...)
	return true
}

// Relation returns a relation by label.
func (k *KnowledgeBase) Relation(label string) (concept.Relation, bool) {
	k.mu.RLock()
	defer k.mu.RUnlock()
	i, ok := k.findRelation(label)
	if !ok {
		return concept.Relation{}, false
	}
	return k.relations[i].Clone(), true
}

// Relations returns every relation in insertion order.
func (k *KnowledgeBase) Relations() []concept.Relation {
	k.mu.RLock()
	defer k.mu.RUnlock()
	out := make([]concept.Relation, len(k.relations))
	for i, r := range k.relations {
		out[i] = r.Clone()
	}
	return out
}

func (k *KnowledgeBase) findRelation(label string) (int, bool) {
	for i, r := range k.relations {
		if r.Label == label {
			return i, true
		}
	}
	return 0, false
}

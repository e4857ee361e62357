package concept

import (
	"go.uber.org/zap"

	"github.com/teranos/cgkit/errors"
	"github.com/teranos/cgkit/ident"
	"github.com/teranos/cgkit/logger"
)

// TypeResolver reports whether a concept-type label exists.
type TypeResolver interface {
	Has(label string) bool
}

// Store owns concept instances. Labels are unique within a store.
// Not safe for concurrent use.
type Store struct {
	byID    map[string]*Concept
	byLabel map[string]string
	order   []string
	types   TypeResolver
	ids     ident.Generator
	log     *zap.SugaredLogger
}

// StoreOption configures a Store.
type StoreOption func(*Store)

// WithTypeResolver rejects concepts whose types do not resolve.
func WithTypeResolver(r TypeResolver) StoreOption {
	return func(s *Store) {
		s.types = r
	}
}

// WithIDGenerator sets the identifier service. Defaults to a counter.
func WithIDGenerator(g ident.Generator) StoreOption {
	return func(s *Store) {
		if g != nil {
			s.ids = g
		}
	}
}

// NewStore creates an empty concept store.
func NewStore(opts ...StoreOption) *Store {
	s := &Store{
		byID:    make(map[string]*Concept),
		byLabel: make(map[string]string),
		ids:     ident.NewCounter("c"),
		log:     logger.ComponentLogger("concept"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Len returns the number of concepts.
func (s *Store) Len() int {
	return len(s.order)
}

// Add stores a copy of c under a fresh id, or under c.ID when it is set and
// unused. Returns the stored copy.
func (s *Store) Add(c Concept) (Concept, error) {
	if c.Label == "" {
		return Concept{}, errors.NewInvalidRequestError("concept label cannot be empty")
	}
	if _, exists := s.byLabel[c.Label]; exists {
		return Concept{}, errors.Wrapf(errors.ErrDuplicateLabel, "concept %q", c.Label)
	}
	if len(c.TypeLabels) == 0 {
		return Concept{}, errors.NewInvalidRequestError("concept %q needs at least one type", c.Label)
	}
	if s.types != nil {
		for _, t := range c.TypeLabels {
			if !s.types.Has(t) {
				return Concept{}, errors.Wrapf(errors.ErrNoSuchType, "concept type %q of %q", t, c.Label)
			}
		}
	}
	if err := c.Referent.Validate(); err != nil {
		return Concept{}, errors.Wrapf(err, "concept %q", c.Label)
	}
	if c.ID == "" {
		c.ID = s.ids.Next()
	} else if obs, ok := s.ids.(ident.Observer); ok {
		obs.Observe(c.ID)
	}
	if _, taken := s.byID[c.ID]; taken {
		return Concept{}, errors.Wrapf(errors.ErrConflict, "concept id %q already in use", c.ID)
	}

	stored := c.Clone()
	stored.TypeLabels = dedupe(stored.TypeLabels)
	s.byID[stored.ID] = &stored
	s.byLabel[stored.Label] = stored.ID
	s.order = append(s.order, stored.ID)

	s.log.Debugw("Concept added",
		logger.FieldConcept, stored.Label,
		logger.FieldID, stored.ID)
	return stored.Clone(), nil
}

// GetByLabel returns a copy of the concept with the label.
func (s *Store) GetByLabel(label string) (Concept, bool) {
	id, ok := s.byLabel[label]
	if !ok {
		return Concept{}, false
	}
	return s.byID[id].Clone(), true
}

// GetByID returns a copy of the concept with the id.
func (s *Store) GetByID(id string) (Concept, bool) {
	c, ok := s.byID[id]
	if !ok {
		return Concept{}, false
	}
	return c.Clone(), true
}

// ConceptTypeSet returns a copy of the type labels of a concept.
func (s *Store) ConceptTypeSet(id string) ([]string, bool) {
	c, ok := s.byID[id]
	if !ok {
		return nil, false
	}
	return cloneStrings(c.TypeLabels), true
}

// All returns every concept in insertion order.
func (s *Store) All() []Concept {
	out := make([]Concept, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.byID[id].Clone())
	}
	return out
}

// Remove deletes the concept with the label. Returns false when absent.
func (s *Store) Remove(label string) bool {
	id, ok := s.byLabel[label]
	if !ok {
		return false
	}
	delete(s.byLabel, label)
	delete(s.byID, id)
	for i, oid := range s.order {
		if oid == id {
			s.order = append(s.order[:i:i], s.order[i+1:]...)
			break
		}
	}
	s.log.Debugw("Concept removed", logger.FieldConcept, label)
	return true
}

// UsesType reports whether any concept is typed with label.
func (s *Store) UsesType(label string) bool {
	for _, id := range s.order {
		if contains(s.byID[id].TypeLabels, label) {
			return true
		}
	}
	return false
}

// RenameType rewrites a concept-type label in every concept's type set and
// returns how many concepts changed.
func (s *Store) RenameType(oldLabel, newLabel string) int {
	if oldLabel == newLabel {
		return 0
	}
	changed := 0
	for _, id := range s.order {
		c := s.byID[id]
		if !contains(c.TypeLabels, oldLabel) {
			continue
		}
		for i, t := range c.TypeLabels {
			if t == oldLabel {
				c.TypeLabels[i] = newLabel
			}
		}
		c.TypeLabels = dedupe(c.TypeLabels)
		changed++
	}
	return changed
}

func dedupe(in []string) []string {
	seen := make(map[string]struct{}, len(in))
	out := in[:0]
	for _, s := range in {
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return out
}

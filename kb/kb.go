// Package kb assembles the concept-type and relation-type hierarchies, the
// concept store and relation instances into one knowledge base guarded by a
// single lock.
package kb

import (
	"sync"

	"go.uber.org/zap"

	"github.com/teranos/cgkit/concept"
	"github.com/teranos/cgkit/errors"
	"github.com/teranos/cgkit/hierarchy"
	"github.com/teranos/cgkit/ident"
	"github.com/teranos/cgkit/logger"
	"github.com/teranos/cgkit/match"
	"github.com/teranos/cgkit/signature"
)

// Identifier prefixes per kind of object.
const (
	PrefixConceptType  = "ct"
	PrefixRelationType = "rt"
	PrefixConcept      = "c"
	PrefixRelation     = "r"
)

// KnowledgeBase is safe for concurrent use.
type KnowledgeBase struct {
	mu   sync.RWMutex
	name string

	scheme        string
	conceptTypes  *hierarchy.Store
	relationTypes *hierarchy.Store
	concepts      *concept.Store
	relations     []concept.Relation
	ids           generators

	matcher   *match.Matcher
	validator *signature.Validator
	log       *zap.SugaredLogger
}

// Option configures a KnowledgeBase.
type Option func(*KnowledgeBase)

// WithIDScheme selects the identifier scheme ("counter" or "uuid").
func WithIDScheme(scheme string) Option {
	return func(k *KnowledgeBase) {
		k.scheme = scheme
	}
}

// WithLogger overrides the knowledge base logger.
func WithLogger(l *zap.SugaredLogger) Option {
	return func(k *KnowledgeBase) {
		if l != nil {
			k.log = l
		}
	}
}

// New creates an empty knowledge base.
func New(name string, opts ...Option) (*KnowledgeBase, error) {
	k := &KnowledgeBase{
		name:   name,
		scheme: ident.SchemeCounter,
		log:    logger.ChildLogger(logger.ComponentLogger("kb"), logger.FieldKB, name),
	}
	for _, opt := range opts {
		opt(k)
	}

	if err := k.newGenerators(); err != nil {
		return nil, err
	}
	k.install(k.newParts())
	return k, nil
}

// generators hand out identifiers for the lifetime of the knowledge base,
// across restores.
type generators struct {
	conceptTypes  ident.Generator
	relationTypes ident.Generator
	concepts      ident.Generator
	relations     ident.Generator
}

// parts is the replaceable state of a knowledge base.
type parts struct {
	conceptTypes  *hierarchy.Store
	relationTypes *hierarchy.Store
	concepts      *concept.Store
	relations     []concept.Relation
}

func (k *KnowledgeBase) newGenerators() error {
	var err error
	for _, g := range []struct {
		dst    *ident.Generator
		prefix string
	}{
		{&k.ids.conceptTypes, PrefixConceptType},
		{&k.ids.relationTypes, PrefixRelationType},
		{&k.ids.concepts, PrefixConcept},
		{&k.ids.relations, PrefixRelation},
	} {
		if *g.dst, err = ident.NewGenerator(k.scheme, g.prefix); err != nil {
			return err
		}
	}
	return nil
}

func (k *KnowledgeBase) newParts() *parts {
	p := &parts{
		conceptTypes: hierarchy.New(hierarchy.KindConceptTypes,
			hierarchy.WithIDGenerator(k.ids.conceptTypes),
			hierarchy.WithLogger(k.log.With(logger.FieldHierarchy, hierarchy.KindConceptTypes))),
		relationTypes: hierarchy.New(hierarchy.KindRelationTypes,
			hierarchy.WithIDGenerator(k.ids.relationTypes),
			hierarchy.WithLogger(k.log.With(logger.FieldHierarchy, hierarchy.KindRelationTypes))),
	}
	p.concepts = concept.NewStore(
		concept.WithTypeResolver(p.conceptTypes),
		concept.WithIDGenerator(k.ids.concepts))
	return p
}

func (k *KnowledgeBase) install(p *parts) {
	k.conceptTypes = p.conceptTypes
	k.relationTypes = p.relationTypes
	k.concepts = p.concepts
	k.relations = p.relations
	k.matcher = match.New(hierarchy.NewSubsumptionIndex(p.conceptTypes))
	k.validator = signature.NewValidator(p.relationTypes, p.concepts, hierarchy.NewSubsumptionIndex(p.conceptTypes))
}

// Name returns the knowledge base name.
func (k *KnowledgeBase) Name() string {
	return k.name
}

// CreateConceptType adds a concept type.
func (k *KnowledgeBase) CreateConceptType(label string, parents []string) (hierarchy.TypeNode, error) {
	k.mu.Lock()
	defer k.mu.Unlock()
	return k.conceptTypes.CreateType(label, parents)
}

// UpdateConceptType applies a full node update. A rename is propagated into
// relation-type signatures and concept type sets.
func (k *KnowledgeBase) UpdateConceptType(target hierarchy.TypeNode) (hierarchy.TypeNode, error) {
	k.mu.Lock()
	defer k.mu.Unlock()

	old, hadOld := k.conceptTypes.GetByID(target.ID)
	updated, err := k.conceptTypes.UpdateType(target)
	if err != nil {
		return hierarchy.TypeNode{}, err
	}
	if hadOld && old.Label != updated.Label {
		k.renameConceptType(old.Label, updated.Label)
	}
	return updated, nil
}

func (k *KnowledgeBase) renameConceptType(oldLabel, newLabel string) {
	signatures := 0
	for _, rt := range k.relationTypes.All() {
		changed := false
		for i, l := range rt.Signature {
			if l == oldLabel {
				rt.Signature[i] = newLabel
				changed = true
			}
		}
		if changed {
			// The label comes from All, so SetSignature cannot fail.
			_, _ = k.relationTypes.SetSignature(rt.Label, rt.Signature)
			signatures++
		}
	}
	concepts := k.concepts.RenameType(oldLabel, newLabel)

	k.log.Infow("Concept type renamed",
		logger.FieldOldLabel, oldLabel,
		logger.FieldLabel, newLabel,
		"signatures", signatures,
		"concepts", concepts)
}

// DeleteConceptType removes a concept type. Types still referenced by a
// relation-type signature or a concept are refused with ErrConflict.
func (k *KnowledgeBase) DeleteConceptType(label string) error {
	k.mu.Lock()
	defer k.mu.Unlock()

	node, ok := k.conceptTypes.GetByLabel(label)
	if !ok {
		return errors.Wrapf(errors.ErrNoSuchType, "concept type %q", label)
	}
	for _, rt := range k.relationTypes.All() {
		for _, l := range rt.Signature {
			if l == label {
				return errors.WithHint(
					errors.Wrapf(errors.ErrConflict, "concept type %q is used by the signature of %q", label, rt.Label),
					"delete or change the relation type first")
			}
		}
	}
	if k.concepts.UsesType(label) {
		return errors.WithHint(
			errors.Wrapf(errors.ErrConflict, "concept type %q still types concepts", label),
			"remove those concepts first")
	}
	k.conceptTypes.DeleteType(node.ID)
	return nil
}

// ConceptType returns a concept type by label.
func (k *KnowledgeBase) ConceptType(label string) (hierarchy.TypeNode, bool) {
	k.mu.RLock()
	defer k.mu.RUnlock()
	return k.conceptTypes.GetByLabel(label)
}

// ConceptTypes returns every concept type in insertion order.
func (k *KnowledgeBase) ConceptTypes() []hierarchy.TypeNode {
	k.mu.RLock()
	defer k.mu.RUnlock()
	return k.conceptTypes.All()
}

// ConceptTypeTree exports the concept-type hierarchy as nested specs.
func (k *KnowledgeBase) ConceptTypeTree() []hierarchy.TreeSpec {
	k.mu.RLock()
	defer k.mu.RUnlock()
	return k.conceptTypes.ExportNested()
}

// ConceptDescendants returns the sorted descendant closure of concept types.
func (k *KnowledgeBase) ConceptDescendants(labels ...string) []string {
	k.mu.RLock()
	defer k.mu.RUnlock()
	return k.conceptTypes.DescendantsOf(labels...).Sorted()
}

// CreateRelationType adds a relation type with its signature. Every signature
// label must be an existing concept type.
func (k *KnowledgeBase) CreateRelationType(label string, parents, sig []string) (hierarchy.TypeNode, error) {
	k.mu.Lock()
	defer k.mu.Unlock()

	if err := k.checkSignature(sig); err != nil {
		return hierarchy.TypeNode{}, errors.Wrapf(err, "relation type %q", label)
	}
	if _, err := k.relationTypes.CreateType(label, parents); err != nil {
		return hierarchy.TypeNode{}, err
	}
	return k.relationTypes.SetSignature(label, sig)
}

// UpdateRelationType applies a full node update, including the signature.
// A rename is propagated into relation instances.
func (k *KnowledgeBase) UpdateRelationType(target hierarchy.TypeNode) (hierarchy.TypeNode, error) {
	k.mu.Lock()
	defer k.mu.Unlock()

	if err := k.checkSignature(target.Signature); err != nil {
		return hierarchy.TypeNode{}, errors.Wrapf(err, "relation type %q", target.Label)
	}
	old, hadOld := k.relationTypes.GetByID(target.ID)
	updated, err := k.relationTypes.UpdateType(target)
	if err != nil {
		return hierarchy.TypeNode{}, err
	}
	if hadOld && old.Label != updated.Label {
		for i := range k.relations {
			for j, l := range k.relations[i].TypeLabels {
				if l == old.Label {
					k.relations[i].TypeLabels[j] = updated.Label
				}
			}
		}
	}
	return updated, nil
}

// DeleteRelationType removes a relation type. Types still used by relation
// instances are refused with ErrConflict.
func (k *KnowledgeBase) DeleteRelationType(label string) error {
	k.mu.Lock()
	defer k.mu.Unlock()

	node, ok := k.relationTypes.GetByLabel(label)
	if !ok {
		return errors.Wrapf(errors.ErrNoSuchType, "relation type %q", label)
	}
	for _, r := range k.relations {
		if r.HasType(label) {
			return errors.WithHint(
				errors.Wrapf(errors.ErrConflict, "relation type %q is used by relation %q", label, r.Label),
				"remove the relation first")
		}
	}
	k.relationTypes.DeleteType(node.ID)
	return nil
}

// RelationType returns a relation type by label.
func (k *KnowledgeBase) RelationType(label string) (hierarchy.TypeNode, bool) {
	k.mu.RLock()
	defer k.mu.RUnlock()
	return k.relationTypes.GetByLabel(label)
}

// RelationTypes returns every relation type in insertion order.
func (k *KnowledgeBase) RelationTypes() []hierarchy.TypeNode {
	k.mu.RLock()
	defer k.mu.RUnlock()
	return k.relationTypes.All()
}

// RelationTypeTree exports the relation-type hierarchy as nested specs.
func (k *KnowledgeBase) RelationTypeTree() []hierarchy.TreeSpec {
	k.mu.RLock()
	defer k.mu.RUnlock()
	return k.relationTypes.ExportNested()
}

// RelationDescendants returns the sorted descendant closure of relation types.
func (k *KnowledgeBase) RelationDescendants(labels ...string) []string {
	k.mu.RLock()
	defer k.mu.RUnlock()
	return k.relationTypes.DescendantsOf(labels...).Sorted()
}

// checkSignature requires every label to be a concept type.
func (k *KnowledgeBase) checkSignature(sig []string) error {
	for i, l := range sig {
		if !k.conceptTypes.Has(l) {
			return errors.Wrapf(errors.ErrNoSuchType, "signature position %d: concept type %q", i, l)
		}
	}
	return nil
}

// Check verifies the structure of both hierarchies.
func (k *KnowledgeBase) Check() error {
	k.mu.RLock()
	defer k.mu.RUnlock()
	if err := k.conceptTypes.Check(); err != nil {
		return err
	}
	return k.relationTypes.Check()
}

// Stats counts the objects in the knowledge base.
type Stats struct {
	ConceptTypes  int `json:"conceptTypes"`
	RelationTypes int `json:"relationTypes"`
	Concepts      int `json:"concepts"`
	Relations     int `json:"relations"`
}

// Stats returns object counts.
func (k *KnowledgeBase) Stats() Stats {
	k.mu.RLock()
	defer k.mu.RUnlock()
	return Stats{
		ConceptTypes:  k.conceptTypes.Len(),
		RelationTypes: k.relationTypes.Len(),
		Concepts:      k.concepts.Len(),
		Relations:     len(k.relations),
	}
}

// Package hierarchy implements the type-hierarchy engine shared by concept
// types and relation types: a mutable, multi-parent, acyclic set of labeled
// nodes with symmetric parent/child references and a maintained root set.
//
// Nodes live in an id-indexed arena and reference each other by label, never
// by pointer. Every read returns deep copies, so callers can freely mutate
// what they get back.
//
// A Store is not safe for concurrent use. Embedding applications serialize
// access themselves (see package kb).
package hierarchy

import (
	"go.uber.org/zap"

	"github.com/teranos/cgkit/errors"
	"github.com/teranos/cgkit/ident"
	"github.com/teranos/cgkit/logger"
)

// Store is one type hierarchy.
type Store struct {
	name    string
	nodes   map[string]*TypeNode // id -> node
	byLabel map[string]string    // label -> id
	order   []string             // ids in insertion order
	roots   []string             // root ids in insertion order
	ids     ident.Generator
	log     *zap.SugaredLogger
}

// Option configures a Store.
type Option func(*Store)

// WithIDGenerator sets the identifier service. Defaults to a counter.
func WithIDGenerator(g ident.Generator) Option {
	return func(s *Store) {
		if g != nil {
			s.ids = g
		}
	}
}

// WithLogger sets the logger used for mutation events.
func WithLogger(l *zap.SugaredLogger) Option {
	return func(s *Store) {
		if l != nil {
			s.log = l
		}
	}
}

// New creates an empty hierarchy.
func New(name string, opts ...Option) *Store {
	s := &Store{
		name:    name,
		nodes:   make(map[string]*TypeNode),
		byLabel: make(map[string]string),
		ids:     ident.NewCounter("t"),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.log == nil {
		s.log = logger.ChildLogger(logger.ComponentLogger("hierarchy"), logger.FieldHierarchy, name)
	}
	return s
}

// Name returns the hierarchy name.
func (s *Store) Name() string {
	return s.name
}

// Len returns the number of nodes.
func (s *Store) Len() int {
	return len(s.order)
}

// CreateType adds a node under the given parents, or as a root when there are none.
func (s *Store) CreateType(label string, parentLabels []string) (TypeNode, error) {
	if label == "" {
		return TypeNode{}, errors.NewInvalidRequestError("type label cannot be empty")
	}
	parents := dedupeLabels(parentLabels)
	if containsLabel(parents, label) {
		return TypeNode{}, errors.Wrapf(errors.ErrSelfReference, "type %q lists itself as parent", label)
	}
	if _, exists := s.byLabel[label]; exists {
		return TypeNode{}, errors.WithHint(
			errors.Wrapf(errors.ErrDuplicateLabel, "type %q", label),
			"rename the existing type or choose another label")
	}
	for _, p := range parents {
		if s.lookup(p) == nil {
			return TypeNode{}, errors.Wrapf(errors.ErrNoSuchType, "parent %q of %q", p, label)
		}
	}

	id := s.ids.Next()
	if _, taken := s.nodes[id]; taken {
		return TypeNode{}, errors.AssertionFailedf("id generator returned %q twice", id)
	}

	node := &TypeNode{ID: id, Label: label, ParentLabels: parents}
	for _, p := range parents {
		parent := s.lookup(p)
		parent.ChildLabels = appendLabel(parent.ChildLabels, label)
	}
	s.nodes[id] = node
	s.byLabel[label] = id
	s.order = append(s.order, id)
	if len(parents) == 0 {
		s.addRoot(id)
	}

	s.log.Debugw("Type created",
		logger.FieldTypeID, id,
		logger.FieldLabel, label,
		logger.FieldParents, parents)

	return node.Clone(), nil
}

// GetByLabel returns a copy of the node with the given label.
func (s *Store) GetByLabel(label string) (TypeNode, bool) {
	n := s.lookup(label)
	if n == nil {
		return TypeNode{}, false
	}
	return n.Clone(), true
}

// GetByID returns a copy of the node with the given id.
func (s *Store) GetByID(id string) (TypeNode, bool) {
	n, ok := s.nodes[id]
	if !ok {
		return TypeNode{}, false
	}
	return n.Clone(), true
}

// Has reports whether a node with the label exists.
func (s *Store) Has(label string) bool {
	_, ok := s.byLabel[label]
	return ok
}

// Roots returns the parentless nodes in the order they entered the root set.
func (s *Store) Roots() []TypeNode {
	out := make([]TypeNode, 0, len(s.roots))
	for _, id := range s.roots {
		out = append(out, s.nodes[id].Clone())
	}
	return out
}

// All returns every node in insertion order.
func (s *Store) All() []TypeNode {
	out := make([]TypeNode, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.nodes[id].Clone())
	}
	return out
}

// Labels returns every label in insertion order.
func (s *Store) Labels() []string {
	out := make([]string, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.nodes[id].Label)
	}
	return out
}

// SetSignature replaces the signature of a node.
func (s *Store) SetSignature(label string, signature []string) (TypeNode, error) {
	n := s.lookup(label)
	if n == nil {
		return TypeNode{}, errors.Wrapf(errors.ErrNoSuchType, "type %q", label)
	}
	n.Signature = cloneLabels(signature)
	s.log.Debugw("Signature set", logger.FieldLabel, label, logger.FieldSignature, signature)
	return n.Clone(), nil
}

// Link adds a single parent/child edge between two existing nodes.
// Returns false without error when the edge already exists.
func (s *Store) Link(parentLabel, childLabel string) (bool, error) {
	parent := s.lookup(parentLabel)
	if parent == nil {
		return false, errors.Wrapf(errors.ErrNoSuchType, "parent %q", parentLabel)
	}
	child := s.lookup(childLabel)
	if child == nil {
		return false, errors.Wrapf(errors.ErrNoSuchType, "child %q", childLabel)
	}
	if parent.ID == child.ID {
		return false, errors.Wrapf(errors.ErrSelfReference, "type %q cannot be its own parent", parentLabel)
	}
	if containsLabel(parent.ChildLabels, childLabel) {
		return false, nil
	}
	if s.DescendantsOf(childLabel).Has(parentLabel) {
		return false, errors.Mark(
			errors.Newf("linking %q under %q would make %q its own ancestor", childLabel, parentLabel, parentLabel),
			errors.ErrSelfReference)
	}

	parent.ChildLabels = append(parent.ChildLabels, childLabel)
	child.ParentLabels = append(child.ParentLabels, parentLabel)
	s.removeRoot(child.ID)

	s.log.Debugw("Edge added", logger.FieldParents, parentLabel, logger.FieldLabel, childLabel)
	return true, nil
}

// DeleteType removes a node and repairs every back-reference to it. Nodes left
// without parents join the root set. Returns false when the id is unknown.
func (s *Store) DeleteType(id string) bool {
	node, ok := s.nodes[id]
	if !ok {
		return false
	}
	label := node.Label

	delete(s.nodes, id)
	delete(s.byLabel, label)
	s.removeRoot(id)
	for i, oid := range s.order {
		if oid == id {
			s.order = append(s.order[:i:i], s.order[i+1:]...)
			break
		}
	}

	for _, oid := range s.order {
		n := s.nodes[oid]
		n.ParentLabels = removeLabel(n.ParentLabels, label)
		n.ChildLabels = removeLabel(n.ChildLabels, label)
		if len(n.ParentLabels) == 0 {
			s.addRoot(oid)
		}
	}

	s.log.Debugw("Type deleted", logger.FieldTypeID, id, logger.FieldLabel, label)
	return true
}

func (s *Store) lookup(label string) *TypeNode {
	id, ok := s.byLabel[label]
	if !ok {
		return nil
	}
	return s.nodes[id]
}

func (s *Store) isRoot(id string) bool {
	for _, r := range s.roots {
		if r == id {
			return true
		}
	}
	return false
}

func (s *Store) addRoot(id string) {
	if !s.isRoot(id) {
		s.roots = append(s.roots, id)
	}
}

func (s *Store) removeRoot(id string) {
	for i, r := range s.roots {
		if r == id {
			s.roots = append(s.roots[:i:i], s.roots[i+1:]...)
			return
		}
	}
}

package hierarchy

import (
	"github.com/teranos/cgkit/errors"
	"github.com/teranos/cgkit/logger"
)

// UpdateType converges the hierarchy to the complete desired state of one node:
// target carries the node id, its new label, its new parent list, its new child
// list and its signature.
//
// All validation runs before any mutation, so a failed update leaves the store
// untouched. On success every back-reference is reconciled: renamed labels are
// rewritten everywhere, dropped parents and children lose their edge, and
// children left without parents rejoin the root set.
func (s *Store) UpdateType(target TypeNode) (TypeNode, error) {
	node, err := s.validateUpdate(target)
	if err != nil {
		return TypeNode{}, err
	}

	parents := dedupeLabels(target.ParentLabels)
	subs := dedupeLabels(target.ChildLabels)
	oldLabel := node.Label

	// Rename propagation, including the node's own lists.
	if oldLabel != target.Label {
		for _, id := range s.order {
			n := s.nodes[id]
			n.ParentLabels = replaceLabel(n.ParentLabels, oldLabel, target.Label)
			n.ChildLabels = replaceLabel(n.ChildLabels, oldLabel, target.Label)
		}
		delete(s.byLabel, oldLabel)
		s.byLabel[target.Label] = node.ID
		node.Label = target.Label
	}
	label := node.Label

	// Parent direction.
	for _, id := range s.order {
		n := s.nodes[id]
		if n.ID != node.ID && containsLabel(n.ChildLabels, label) && !containsLabel(parents, n.Label) {
			n.ChildLabels = removeLabel(n.ChildLabels, label)
		}
	}
	for _, p := range parents {
		parent := s.lookup(p)
		parent.ChildLabels = appendLabel(parent.ChildLabels, label)
	}
	node.ParentLabels = cloneLabels(parents)

	// Child direction.
	for _, c := range subs {
		child := s.lookup(c)
		child.ParentLabels = appendLabel(child.ParentLabels, label)
		if len(child.ParentLabels) > 0 {
			s.removeRoot(child.ID)
		}
	}
	node.ChildLabels = cloneLabels(subs)
	for _, id := range s.order {
		n := s.nodes[id]
		if n.ID == node.ID || !containsLabel(n.ParentLabels, label) || containsLabel(subs, n.Label) {
			continue
		}
		n.ParentLabels = removeLabel(n.ParentLabels, label)
		if len(n.ParentLabels) == 0 {
			s.addRoot(n.ID)
		}
	}

	node.Signature = cloneLabels(target.Signature)

	if len(parents) > 0 {
		s.removeRoot(node.ID)
	} else {
		s.addRoot(node.ID)
	}

	s.log.Debugw("Type updated",
		logger.FieldTypeID, node.ID,
		logger.FieldOldLabel, oldLabel,
		logger.FieldLabel, label,
		logger.FieldParents, parents,
		logger.FieldChildren, subs)

	updated, _ := s.GetByLabel(label)
	return updated, nil
}

func (s *Store) validateUpdate(target TypeNode) (*TypeNode, error) {
	if target.ID == "" {
		return nil, errors.WithHint(
			errors.Wrapf(errors.ErrMissingID, "update of %q", target.Label),
			"fetch the type with GetByLabel and edit the returned copy")
	}
	node, ok := s.nodes[target.ID]
	if !ok {
		return nil, errors.Wrapf(errors.ErrNoSuchType, "id %q", target.ID)
	}
	if target.Label == "" {
		return nil, errors.NewInvalidRequestError("type label cannot be empty")
	}
	if owner, taken := s.byLabel[target.Label]; taken && owner != target.ID {
		return nil, errors.Wrapf(errors.ErrDuplicateLabel, "type %q", target.Label)
	}

	parents := dedupeLabels(target.ParentLabels)
	subs := dedupeLabels(target.ChildLabels)

	for _, l := range subs {
		if l == target.Label || l == node.Label {
			return nil, errors.Wrapf(errors.ErrSelfReference, "type %q lists itself as child", target.Label)
		}
	}
	for _, l := range parents {
		if l == target.Label || l == node.Label {
			return nil, errors.Wrapf(errors.ErrSelfReference, "type %q lists itself as parent", target.Label)
		}
	}
	for _, p := range parents {
		if s.lookup(p) == nil {
			return nil, errors.Wrapf(errors.ErrNoSuchType, "parent %q of %q", p, target.Label)
		}
	}
	for _, c := range subs {
		if s.lookup(c) == nil {
			return nil, errors.Wrapf(errors.ErrNoSuchType, "child %q of %q", c, target.Label)
		}
	}

	if via, cyclic := s.wouldCycle(node.ID, parents, subs); cyclic {
		return nil, errors.Mark(
			errors.Newf("type %q would become its own ancestor through %q", target.Label, via),
			errors.ErrSelfReference)
	}
	return node, nil
}

// wouldCycle reports whether giving node selfID the parent and child lists
// closes a cycle. Walking down from the new children over the existing child
// edges must never reach one of the new parents. The node's current edges are
// ignored since they are being replaced.
func (s *Store) wouldCycle(selfID string, parents, subs []string) (string, bool) {
	parentSet := NewLabelSet(parents...)
	visited := make(LabelSet)
	stack := append([]string(nil), subs...)

	for len(stack) > 0 {
		l := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if !visited.Add(l) {
			continue
		}
		if parentSet.Has(l) {
			return l, true
		}
		n := s.lookup(l)
		if n == nil || n.ID == selfID {
			continue
		}
		stack = append(stack, n.ChildLabels...)
	}
	return "", false
}

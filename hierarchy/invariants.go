package hierarchy

import (
	"github.com/teranos/cgkit/errors"
	"github.com/teranos/cgkit/ident"
	"github.com/teranos/cgkit/logger"
)

// ErrInconsistent marks a hierarchy state that breaks one of the structural
// rules: root set in sync with parent lists, resolvable labels, symmetric
// edges, no self loops and no cycles.
var ErrInconsistent = errors.New("inconsistent hierarchy")

// Check verifies the structural rules over the whole store.
func (s *Store) Check() error {
	if len(s.order) != len(s.nodes) || len(s.byLabel) != len(s.nodes) {
		return errors.Wrapf(ErrInconsistent, "%d nodes, %d ordered, %d labels", len(s.nodes), len(s.order), len(s.byLabel))
	}

	seenRoots := make(map[string]struct{}, len(s.roots))
	for _, id := range s.roots {
		if _, ok := s.nodes[id]; !ok {
			return errors.Wrapf(ErrInconsistent, "root %q does not exist", id)
		}
		if _, dup := seenRoots[id]; dup {
			return errors.Wrapf(ErrInconsistent, "root %q listed twice", id)
		}
		seenRoots[id] = struct{}{}
	}

	for _, id := range s.order {
		n, ok := s.nodes[id]
		if !ok {
			return errors.Wrapf(ErrInconsistent, "ordered id %q does not exist", id)
		}
		if s.byLabel[n.Label] != id {
			return errors.Wrapf(ErrInconsistent, "label %q does not index node %q", n.Label, id)
		}
		if _, root := seenRoots[id]; root != n.IsRoot() {
			return errors.Wrapf(ErrInconsistent, "root set out of sync for %q", n.Label)
		}
		if len(dedupeLabels(n.ParentLabels)) != len(n.ParentLabels) || len(dedupeLabels(n.ChildLabels)) != len(n.ChildLabels) {
			return errors.Wrapf(ErrInconsistent, "duplicate edge on %q", n.Label)
		}
		for _, p := range n.ParentLabels {
			if p == n.Label {
				return errors.Wrapf(ErrInconsistent, "%q is its own parent", n.Label)
			}
			parent := s.lookup(p)
			if parent == nil {
				return errors.Wrapf(ErrInconsistent, "%q references missing parent %q", n.Label, p)
			}
			if !containsLabel(parent.ChildLabels, n.Label) {
				return errors.Wrapf(ErrInconsistent, "%q lists parent %q which does not list it as child", n.Label, p)
			}
		}
		for _, c := range n.ChildLabels {
			if c == n.Label {
				return errors.Wrapf(ErrInconsistent, "%q is its own child", n.Label)
			}
			child := s.lookup(c)
			if child == nil {
				return errors.Wrapf(ErrInconsistent, "%q references missing child %q", n.Label, c)
			}
			if !containsLabel(child.ParentLabels, n.Label) {
				return errors.Wrapf(ErrInconsistent, "%q lists child %q which does not list it as parent", n.Label, c)
			}
		}
	}

	return s.checkAcyclic()
}

// checkAcyclic peels parentless nodes until nothing is left; leftovers sit on a cycle.
func (s *Store) checkAcyclic() error {
	indegree := make(map[string]int, len(s.nodes))
	var queue []string
	for _, id := range s.order {
		n := s.nodes[id]
		indegree[n.Label] = len(n.ParentLabels)
		if len(n.ParentLabels) == 0 {
			queue = append(queue, n.Label)
		}
	}

	removed := 0
	for len(queue) > 0 {
		l := queue[0]
		queue = queue[1:]
		removed++
		for _, c := range s.lookup(l).ChildLabels {
			indegree[c]--
			if indegree[c] == 0 {
				queue = append(queue, c)
			}
		}
	}
	if removed != len(s.nodes) {
		return errors.Wrapf(ErrInconsistent, "%d types sit on a cycle", len(s.nodes)-removed)
	}
	return nil
}

// Snapshot returns a deep copy of the current state.
func (s *Store) Snapshot() Snapshot {
	snap := Snapshot{
		Name:    s.name,
		Nodes:   s.All(),
		RootIDs: append([]string(nil), s.roots...),
	}
	return snap
}

// Restore replaces the store's state with a snapshot. The snapshot is checked
// first; an inconsistent snapshot is rejected and the store is left as it was.
func (s *Store) Restore(snap Snapshot) error {
	next := &Store{
		name:    s.name,
		nodes:   make(map[string]*TypeNode, len(snap.Nodes)),
		byLabel: make(map[string]string, len(snap.Nodes)),
		roots:   append([]string(nil), snap.RootIDs...),
		ids:     s.ids,
		log:     s.log,
	}
	for _, n := range snap.Nodes {
		if n.ID == "" || n.Label == "" {
			return errors.Wrap(ErrInconsistent, "snapshot node without id or label")
		}
		if _, dup := next.nodes[n.ID]; dup {
			return errors.Wrapf(ErrInconsistent, "snapshot id %q listed twice", n.ID)
		}
		if _, dup := next.byLabel[n.Label]; dup {
			return errors.Wrapf(ErrInconsistent, "snapshot label %q listed twice", n.Label)
		}
		c := n.Clone()
		next.nodes[c.ID] = &c
		next.byLabel[c.Label] = c.ID
		next.order = append(next.order, c.ID)
	}
	if err := next.Check(); err != nil {
		return errors.Wrapf(err, "restore %s", s.name)
	}

	s.nodes, s.byLabel, s.order, s.roots = next.nodes, next.byLabel, next.order, next.roots
	if obs, ok := s.ids.(ident.Observer); ok {
		for _, id := range s.order {
			obs.Observe(id)
		}
	}

	s.log.Debugw("Hierarchy restored", logger.FieldCount, len(s.order))
	return nil
}

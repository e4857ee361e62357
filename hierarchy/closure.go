package hierarchy

// DescendantsOf returns every label at least as specific as one of the seeds:
// the seeds themselves plus everything reachable over child edges.
//
// The walk uses one visited set for the whole computation, so labels reachable
// along several paths (diamonds) are visited once. Unknown seeds contribute
// nothing.
func (s *Store) DescendantsOf(labels ...string) LabelSet {
	return s.closure(labels, func(n *TypeNode) []string { return n.ChildLabels })
}

// AncestorsOf returns every label at least as general as one of the seeds.
func (s *Store) AncestorsOf(labels ...string) LabelSet {
	return s.closure(labels, func(n *TypeNode) []string { return n.ParentLabels })
}

func (s *Store) closure(seeds []string, next func(*TypeNode) []string) LabelSet {
	out := make(LabelSet)
	stack := make([]string, 0, len(seeds))
	for _, l := range seeds {
		if s.Has(l) {
			stack = append(stack, l)
		}
	}

	for len(stack) > 0 {
		l := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if !out.Add(l) {
			continue
		}
		n := s.lookup(l)
		if n == nil {
			continue
		}
		for _, c := range next(n) {
			if !out.Has(c) {
				stack = append(stack, c)
			}
		}
	}
	return out
}

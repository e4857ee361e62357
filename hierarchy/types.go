package hierarchy

import (
	"sort"
	"strings"
)

// Hierarchy kinds. Both hierarchies share the same engine; the kind only
// names the store in logs, persistence and CLI output.
const (
	KindConceptTypes  = "concept-types"
	KindRelationTypes = "relation-types"
)

// TypeNode is one labeled node of a type hierarchy.
//
// ParentLabels and ChildLabels reference other nodes by label. Signature is
// only meaningful in a relation-type hierarchy, where it lists the concept-type
// label each argument position must conform to.
type TypeNode struct {
	ID           string   `json:"id" yaml:"id"`
	Label        string   `json:"label" yaml:"label"`
	ParentLabels []string `json:"parentLabels,omitempty" yaml:"parentLabels,omitempty"`
	ChildLabels  []string `json:"childLabels,omitempty" yaml:"childLabels,omitempty"`
	Signature    []string `json:"signature,omitempty" yaml:"signature,omitempty"`
}

// Clone returns a deep copy of the node.
func (n TypeNode) Clone() TypeNode {
	return TypeNode{
		ID:           n.ID,
		Label:        n.Label,
		ParentLabels: cloneLabels(n.ParentLabels),
		ChildLabels:  cloneLabels(n.ChildLabels),
		Signature:    cloneLabels(n.Signature),
	}
}

// IsRoot reports whether the node has no parents.
func (n TypeNode) IsRoot() bool {
	return len(n.ParentLabels) == 0
}

// LabelSet is an unordered set of type labels.
type LabelSet map[string]struct{}

// NewLabelSet builds a set from labels.
func NewLabelSet(labels ...string) LabelSet {
	s := make(LabelSet, len(labels))
	for _, l := range labels {
		s[l] = struct{}{}
	}
	return s
}

// Add inserts label and reports whether it was new.
func (s LabelSet) Add(label string) bool {
	if _, ok := s[label]; ok {
		return false
	}
	s[label] = struct{}{}
	return true
}

// Has reports membership.
func (s LabelSet) Has(label string) bool {
	_, ok := s[label]
	return ok
}

// ContainsAll reports whether every label is in the set. An empty label list
// is contained by any set.
func (s LabelSet) ContainsAll(labels []string) bool {
	for _, l := range labels {
		if !s.Has(l) {
			return false
		}
	}
	return true
}

// Sorted returns the labels in lexical order.
func (s LabelSet) Sorted() []string {
	out := make([]string, 0, len(s))
	for l := range s {
		out = append(out, l)
	}
	sort.Strings(out)
	return out
}

// String renders the set as "{a, b, c}".
func (s LabelSet) String() string {
	return "{" + strings.Join(s.Sorted(), ", ") + "}"
}

// Snapshot is a deep copy of a store's state, in insertion order.
type Snapshot struct {
	Name    string     `json:"name"`
	Nodes   []TypeNode `json:"nodes"`
	RootIDs []string   `json:"rootIds"`
}

func cloneLabels(labels []string) []string {
	if labels == nil {
		return nil
	}
	out := make([]string, len(labels))
	copy(out, labels)
	return out
}

// dedupeLabels keeps the first occurrence of each label.
func dedupeLabels(labels []string) []string {
	if len(labels) == 0 {
		return nil
	}
	seen := make(map[string]struct{}, len(labels))
	out := make([]string, 0, len(labels))
	for _, l := range labels {
		if _, ok := seen[l]; ok {
			continue
		}
		seen[l] = struct{}{}
		out = append(out, l)
	}
	return out
}

func containsLabel(labels []string, label string) bool {
	for _, l := range labels {
		if l == label {
			return true
		}
	}
	return false
}

func appendLabel(labels []string, label string) []string {
	if containsLabel(labels, label) {
		return labels
	}
	return append(labels, label)
}

func removeLabel(labels []string, label string) []string {
	if !containsLabel(labels, label) {
		return labels
	}
	out := make([]string, 0, len(labels)-1)
	for _, l := range labels {
		if l != label {
			out = append(out, l)
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

func replaceLabel(labels []string, old, new string) []string {
	for i, l := range labels {
		if l == old {
			labels[i] = new
		}
	}
	return labels
}

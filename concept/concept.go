// Package concept holds typed, referent-bearing concept instances and the
// relation instances that connect them.
package concept

// Concept is an individual typed by one or more concept-type labels.
type Concept struct {
	ID         string   `json:"id,omitempty" yaml:"id,omitempty" toml:"id,omitempty"`
	Label      string   `json:"label" yaml:"label" toml:"label"`
	TypeLabels []string `json:"types" yaml:"types" toml:"types"`
	Referent   Referent `json:"referent" yaml:"referent" toml:"referent"`
}

// Clone returns a deep copy.
func (c Concept) Clone() Concept {
	c.TypeLabels = cloneStrings(c.TypeLabels)
	return c
}

// Relation links concept arguments, in order, under one or more relation types.
type Relation struct {
	ID             string   `json:"id,omitempty" yaml:"id,omitempty" toml:"id,omitempty"`
	Label          string   `json:"label" yaml:"label" toml:"label"`
	TypeLabels     []string `json:"types" yaml:"types" toml:"types"`
	ArgumentLabels []string `json:"arguments" yaml:"arguments" toml:"arguments"`
}

// Clone returns a deep copy.
func (r Relation) Clone() Relation {
	r.TypeLabels = cloneStrings(r.TypeLabels)
	r.ArgumentLabels = cloneStrings(r.ArgumentLabels)
	return r
}

// HasType reports whether label is one of the relation's types.
func (r Relation) HasType(label string) bool {
	return contains(r.TypeLabels, label)
}

// HasArgument reports whether label is one of the relation's arguments.
func (r Relation) HasArgument(label string) bool {
	return contains(r.ArgumentLabels, label)
}

func cloneStrings(in []string) []string {
	if in == nil {
		return nil
	}
	out := make([]string, len(in))
	copy(out, in)
	return out
}

func contains(list []string, s string) bool {
	for _, l := range list {
		if l == s {
			return true
		}
	}
	return false
}

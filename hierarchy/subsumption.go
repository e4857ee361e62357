package hierarchy

// Closure computes descendant closures. Implemented by *Store and
// *SubsumptionIndex; matchers and validators depend on this rather than on
// the store itself.
type Closure interface {
	DescendantsOf(labels ...string) LabelSet
}

// SubsumptionIndex answers "is A at least as specific as B" questions over a
// hierarchy. It holds no state beyond the store it reads.
type SubsumptionIndex struct {
	store *Store
}

// NewSubsumptionIndex wraps a store.
func NewSubsumptionIndex(store *Store) *SubsumptionIndex {
	return &SubsumptionIndex{store: store}
}

// DescendantsOf returns the reflexive-transitive closure over child edges.
func (x *SubsumptionIndex) DescendantsOf(labels ...string) LabelSet {
	return x.store.DescendantsOf(labels...)
}

// Subsumes reports whether specific equals general or is one of its descendants.
func (x *SubsumptionIndex) Subsumes(general, specific string) bool {
	return x.store.DescendantsOf(general).Has(specific)
}

// SubsumesAll reports whether specific is non-empty and every label in it is
// subsumed by at least one label of general.
func (x *SubsumptionIndex) SubsumesAll(general, specific []string) bool {
	if len(specific) == 0 {
		return false
	}
	return x.store.DescendantsOf(general...).ContainsAll(specific)
}

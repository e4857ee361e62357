// Package sym defines canonical glyphs for cgkit's CLI output and log fields.
// These symbols are stable across commands and documentation.
package sym

// Hierarchy and instance glyphs.
const (
	ConceptType  = "◇" // concept-type hierarchy
	RelationType = "⟷" // relation-type hierarchy
	Concept      = "●" // concept instance
	Relation     = "⋈" // relation instance
	Subsumes     = "⊑" // "at least as specific as"
)

// Operation glyphs.
const (
	AM     = "≡" // configuration
	Import = "⨳" // ingest a document
	Match  = "⊨" // match by example
	Mirror = "⇉" // push to an external graph store
	DB     = "⊔" // snapshot store
)

// ForHierarchy returns the glyph of a hierarchy kind ("concept-types" or "relation-types").
func ForHierarchy(kind string) string {
	if kind == "relation-types" {
		return RelationType
	}
	return ConceptType
}

package mirror

import (
	"time"

	"github.com/teranos/cgkit/hierarchy"
	"github.com/teranos/cgkit/kb"
)

// Graph is a knowledge base flattened into Cypher UNWIND parameter rows.
// Neo4j properties cannot hold maps, so every row is a flat map of scalars
// and string lists.
type Graph struct {
	ConceptTypes  []map[string]any
	RelationTypes []map[string]any
	Subtypes      []map[string]any // SUBTYPE_OF edges, child to parent
	Concepts      []map[string]any
	InstanceOf    []map[string]any // concept to concept type
	Relations     []map[string]any
	Arguments     []map[string]any // relation to concept, with position
}

// Stats counts what a sync wrote.
type Stats struct {
	Nodes int `json:"nodes"`
	Edges int `json:"edges"`
}

// Stats returns the node and edge counts the graph will produce.
func (g Graph) Stats() Stats {
	return Stats{
		Nodes: len(g.ConceptTypes) + len(g.RelationTypes) + len(g.Concepts) + len(g.Relations),
		Edges: len(g.Subtypes) + len(g.InstanceOf) + len(g.Arguments),
	}
}

// BuildGraph converts a snapshot into parameter rows. Every row carries the
// knowledge-base name so several knowledge bases can share one database.
func BuildGraph(snap kb.Snapshot, syncedAt time.Time) Graph {
	now := syncedAt.UTC().Format(time.RFC3339Nano)
	var g Graph

	g.ConceptTypes = typeRows(snap.Name, snap.ConceptTypes, now)
	g.RelationTypes = typeRows(snap.Name, snap.RelationTypes, now)
	g.Subtypes = append(subtypeRows(snap.Name, snap.ConceptTypes), subtypeRows(snap.Name, snap.RelationTypes)...)

	for _, c := range snap.Concepts {
		g.Concepts = append(g.Concepts, map[string]any{
			"kb":              snap.Name,
			"id":              c.ID,
			"label":           c.Label,
			"types":           labelsOrEmpty(c.TypeLabels),
			"designator_kind": c.Referent.Kind.String(),
			"referent":        c.Referent.Value,
			"synced_at":       now,
		})
		for _, t := range c.TypeLabels {
			g.InstanceOf = append(g.InstanceOf, map[string]any{
				"kb":      snap.Name,
				"concept": c.Label,
				"type":    t,
			})
		}
	}

	for _, r := range snap.Relations {
		g.Relations = append(g.Relations, map[string]any{
			"kb":        snap.Name,
			"id":        r.ID,
			"label":     r.Label,
			"types":     labelsOrEmpty(r.TypeLabels),
			"arguments": labelsOrEmpty(r.ArgumentLabels),
			"synced_at": now,
		})
		for i, a := range r.ArgumentLabels {
			g.Arguments = append(g.Arguments, map[string]any{
				"kb":       snap.Name,
				"relation": r.Label,
				"concept":  a,
				"position": int64(i),
			})
		}
	}
	return g
}

func typeRows(kbName string, snap hierarchy.Snapshot, now string) []map[string]any {
	roots := hierarchy.NewLabelSet(snap.RootIDs...)
	rows := make([]map[string]any, 0, len(snap.Nodes))
	for _, n := range snap.Nodes {
		rows = append(rows, map[string]any{
			"kb":        kbName,
			"id":        n.ID,
			"label":     n.Label,
			"root":      roots.Has(n.ID),
			"signature": labelsOrEmpty(n.Signature),
			"synced_at": now,
		})
	}
	return rows
}

func subtypeRows(kbName string, snap hierarchy.Snapshot) []map[string]any {
	var rows []map[string]any
	for _, n := range snap.Nodes {
		for _, p := range n.ParentLabels {
			rows = append(rows, map[string]any{
				"kb":        kbName,
				"hierarchy": snap.Name,
				"child":     n.Label,
				"parent":    p,
			})
		}
	}
	return rows
}

// labelsOrEmpty avoids sending null for an absent list.
func labelsOrEmpty(l []string) []string {
	if l == nil {
		return []string{}
	}
	return l
}

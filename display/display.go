// Package display renders knowledge-base content for the terminal or as JSON.
package display

import (
	"strings"

	"github.com/pterm/pterm"

	"github.com/teranos/cgkit/concept"
	"github.com/teranos/cgkit/errors"
	"github.com/teranos/cgkit/hierarchy"
)

// TreeNode converts nested specs into a pterm tree under a root titled title.
// A relation type shows its signature after the label.
func TreeNode(title string, specs []hierarchy.TreeSpec) pterm.TreeNode {
	root := pterm.TreeNode{Text: title}
	for _, s := range specs {
		root.Children = append(root.Children, treeNode(s))
	}
	return root
}

func treeNode(spec hierarchy.TreeSpec) pterm.TreeNode {
	text := spec.Label
	if len(spec.Signature) > 0 {
		text += " " + pterm.Gray("("+strings.Join(spec.Signature, ", ")+")")
	}
	n := pterm.TreeNode{Text: text}
	for _, c := range spec.SubLabels {
		n.Children = append(n.Children, treeNode(c))
	}
	return n
}

// RenderTree renders a hierarchy as an indented tree.
func RenderTree(title string, specs []hierarchy.TreeSpec) (string, error) {
	if len(specs) == 0 {
		return title + " (empty)\n", nil
	}
	out, err := pterm.DefaultTree.WithRoot(TreeNode(title, specs)).Srender()
	if err != nil {
		return "", errors.Wrap(err, "render tree")
	}
	return out, nil
}

// RenderConcepts renders concepts as a table.
func RenderConcepts(concepts []concept.Concept) (string, error) {
	data := pterm.TableData{{"ID", "Label", "Types", "Referent"}}
	for _, c := range concepts {
		data = append(data, []string{c.ID, c.Label, strings.Join(c.TypeLabels, ", "), c.Referent.String()})
	}
	out, err := pterm.DefaultTable.WithHasHeader().WithData(data).Srender()
	return out, errors.Wrap(err, "render concepts")
}

// RenderRelations renders relations as a table.
func RenderRelations(relations []concept.Relation) (string, error) {
	data := pterm.TableData{{"ID", "Label", "Type", "Arguments"}}
	for _, r := range relations {
		data = append(data, []string{r.ID, r.Label, strings.Join(r.TypeLabels, ", "), strings.Join(r.ArgumentLabels, ", ")})
	}
	out, err := pterm.DefaultTable.WithHasHeader().WithData(data).Srender()
	return out, errors.Wrap(err, "render relations")
}

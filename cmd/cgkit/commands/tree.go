package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/teranos/cgkit/display"
	"github.com/teranos/cgkit/errors"
	"github.com/teranos/cgkit/hierarchy"
	"github.com/teranos/cgkit/kb"
	"github.com/teranos/cgkit/sym"
)

// TreeCmd renders a type hierarchy.
var TreeCmd = &cobra.Command{
	Use:   "tree",
	Short: sym.ConceptType + " Show the concept-type (or relation-type) hierarchy",
	Long: `Show a type hierarchy as a tree, starting from its roots.

A type with several parents appears under each of them. Relation types show
their signature in parentheses.`,
	Args: cobra.NoArgs,
	RunE: runTree,
}

// DescendantsCmd prints the reflexive descendant closure of one or more types.
var DescendantsCmd = &cobra.Command{
	Use:   "descendants <label>...",
	Short: sym.Subsumes + " List every type subsumed by the given types",
	Long: `List the given types and every type below them, in label order.

Unknown labels contribute nothing.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runDescendants,
}

var useRelations bool

func init() {
	TreeCmd.Flags().BoolVarP(&useRelations, "relations", "r", false, "Use the relation-type hierarchy")
	DescendantsCmd.Flags().BoolVarP(&useRelations, "relations", "r", false, "Use the relation-type hierarchy")
}

func runTree(cmd *cobra.Command, args []string) error {
	return readKB(cmd, func(k *kb.KnowledgeBase) error {
		kind, specs := hierarchy.KindConceptTypes, k.ConceptTypeTree()
		if useRelations {
			kind, specs = hierarchy.KindRelationTypes, k.RelationTypeTree()
		}
		title := sym.ForHierarchy(kind) + " " + kind
		if display.ShouldOutputJSON(cmd) {
			return display.WriteJSON(cmd.OutOrStdout(), specs)
		}
		out, err := display.RenderTree(title, specs)
		if err != nil {
			return err
		}
		fmt.Fprint(cmd.OutOrStdout(), out)
		return nil
	})
}

func runDescendants(cmd *cobra.Command, args []string) error {
	return readKB(cmd, func(k *kb.KnowledgeBase) error {
		labels := k.ConceptDescendants(args...)
		if useRelations {
			labels = k.RelationDescendants(args...)
		}
		if len(labels) == 0 {
			return errors.Wrapf(errors.ErrNoSuchType, "%s", strings.Join(args, ", "))
		}
		if display.ShouldOutputJSON(cmd) {
			return display.WriteJSON(cmd.OutOrStdout(), labels)
		}
		for _, l := range labels {
			fmt.Fprintln(cmd.OutOrStdout(), l)
		}
		return nil
	})
}

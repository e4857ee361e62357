package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/teranos/cgkit/errors"
	"github.com/teranos/cgkit/hierarchy"
	"github.com/teranos/cgkit/kb"
	"github.com/teranos/cgkit/sym"
)

// TypeCmd groups concept-type commands.
var TypeCmd = &cobra.Command{
	Use:   "type",
	Short: sym.ConceptType + " Create, rename, reparent or delete concept types",
	Long: sym.ConceptType + ` type - Edit the concept-type hierarchy

Examples:
  cgkit type create Woman --parent Adult --parent Female
  cgkit type rename Human Person
  cgkit type reparent Person --parent Agent
  cgkit type delete Agent`,
}

// RelationTypeCmd groups relation-type commands.
var RelationTypeCmd = &cobra.Command{
	Use:     "relation-type",
	Aliases: []string{"rtype"},
	Short:   sym.RelationType + " Create or delete relation types",
	Long: sym.RelationType + ` relation-type - Edit the relation-type hierarchy

Examples:
  cgkit relation-type create ParentOf --parent Link --signature Adult,Child
  cgkit relation-type delete ParentOf`,
}

var typeCreateCmd = &cobra.Command{
	Use:   "create <label>",
	Short: "Create a concept type",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return mutateKB(cmd, func(k *kb.KnowledgeBase) error {
			n, err := k.CreateConceptType(args[0], typeParents)
			if err != nil {
				return err
			}
			printNode(cmd, sym.ConceptType, "created", n)
			return nil
		})
	},
}

var typeRenameCmd = &cobra.Command{
	Use:   "rename <label> <new-label>",
	Short: "Rename a concept type everywhere it is referenced",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return mutateKB(cmd, func(k *kb.KnowledgeBase) error {
			n, ok := k.ConceptType(args[0])
			if !ok {
				return errors.Wrapf(errors.ErrNoSuchType, "concept type %q", args[0])
			}
			n.Label = args[1]
			updated, err := k.UpdateConceptType(n)
			if err != nil {
				return err
			}
			printNode(cmd, sym.ConceptType, "renamed", updated)
			return nil
		})
	},
}

var typeReparentCmd = &cobra.Command{
	Use:   "reparent <label>",
	Short: "Replace the parents of a concept type (none makes it a root)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return mutateKB(cmd, func(k *kb.KnowledgeBase) error {
			n, ok := k.ConceptType(args[0])
			if !ok {
				return errors.Wrapf(errors.ErrNoSuchType, "concept type %q", args[0])
			}
			n.ParentLabels = typeParents
			updated, err := k.UpdateConceptType(n)
			if err != nil {
				return err
			}
			printNode(cmd, sym.ConceptType, "reparented", updated)
			return nil
		})
	},
}

var typeDeleteCmd = &cobra.Command{
	Use:   "delete <label>",
	Short: "Delete an unused concept type; its children lose it as parent",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return mutateKB(cmd, func(k *kb.KnowledgeBase) error {
			if err := k.DeleteConceptType(args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s deleted %s\n", sym.ConceptType, args[0])
			return nil
		})
	},
}

var relationTypeCreateCmd = &cobra.Command{
	Use:   "create <label>",
	Short: "Create a relation type with a signature",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return mutateKB(cmd, func(k *kb.KnowledgeBase) error {
			n, err := k.CreateRelationType(args[0], typeParents, typeSignature)
			if err != nil {
				return err
			}
			printNode(cmd, sym.RelationType, "created", n)
			return nil
		})
	},
}

var relationTypeDeleteCmd = &cobra.Command{
	Use:   "delete <label>",
	Short: "Delete a relation type no relation uses",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return mutateKB(cmd, func(k *kb.KnowledgeBase) error {
			if err := k.DeleteRelationType(args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s deleted %s\n", sym.RelationType, args[0])
			return nil
		})
	},
}

var (
	typeParents   []string
	typeSignature []string
)

func init() {
	for _, c := range []*cobra.Command{typeCreateCmd, typeReparentCmd, relationTypeCreateCmd} {
		c.Flags().StringSliceVarP(&typeParents, "parent", "p", nil, "Parent type label (repeatable)")
	}
	relationTypeCreateCmd.Flags().StringSliceVarP(&typeSignature, "signature", "s", nil, "Concept-type label per argument, comma separated")

	TypeCmd.AddCommand(typeCreateCmd)
	TypeCmd.AddCommand(typeRenameCmd)
	TypeCmd.AddCommand(typeReparentCmd)
	TypeCmd.AddCommand(typeDeleteCmd)
	RelationTypeCmd.AddCommand(relationTypeCreateCmd)
	RelationTypeCmd.AddCommand(relationTypeDeleteCmd)
}

func printNode(cmd *cobra.Command, glyph, verb string, n hierarchy.TypeNode) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%s %s %s (%s)", glyph, verb, n.Label, n.ID)
	if len(n.ParentLabels) > 0 {
		fmt.Fprintf(out, " %s %v", sym.Subsumes, n.ParentLabels)
	}
	if len(n.Signature) > 0 {
		fmt.Fprintf(out, " signature %v", n.Signature)
	}
	fmt.Fprintln(out)
}

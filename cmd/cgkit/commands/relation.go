package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/teranos/cgkit/concept"
	"github.com/teranos/cgkit/display"
	"github.com/teranos/cgkit/errors"
	"github.com/teranos/cgkit/kb"
	"github.com/teranos/cgkit/sym"
)

// RelateCmd validates and adds a relation.
var RelateCmd = &cobra.Command{
	Use:   "relate <label>",
	Short: sym.Relation + " Relate concepts through a relation type",
	Long: sym.Relation + ` relate - Add a relation between concepts

The relation types are tried in order; the first whose signature accepts the
arguments is used. Each argument's types must lie at or below the concept
type at its signature position.

Example:
  cgkit relate bob-parent-of-tom --type ParentOf --arg Bob --arg Tom`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return mutateKB(cmd, func(k *kb.KnowledgeBase) error {
			r, err := k.AddRelation(args[0], relationTypes, relationArgs)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s added %s (%s) %v %v\n", sym.Relation, r.Label, r.ID, r.TypeLabels, r.ArgumentLabels)
			return nil
		})
	},
}

// RelationCmd groups relation listing and removal.
var RelationCmd = &cobra.Command{
	Use:   "relation",
	Short: sym.Relation + " List or remove relations",
}

var relationLsCmd = &cobra.Command{
	Use:   "ls",
	Short: "List relations",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return readKB(cmd, func(k *kb.KnowledgeBase) error {
			relations := k.Relations()
			if display.ShouldOutputJSON(cmd) {
				if relations == nil {
					relations = []concept.Relation{}
				}
				return display.WriteJSON(cmd.OutOrStdout(), relations)
			}
			if len(relations) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "no relations")
				return nil
			}
			out, err := display.RenderRelations(relations)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), out)
			return nil
		})
	},
}

var relationRmCmd = &cobra.Command{
	Use:   "rm <label>",
	Short: "Remove a relation",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return mutateKB(cmd, func(k *kb.KnowledgeBase) error {
			if !k.RemoveRelation(args[0]) {
				return errors.Wrapf(errors.ErrNotFound, "relation %q", args[0])
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s removed %s\n", sym.Relation, args[0])
			return nil
		})
	},
}

var (
	relationTypes []string
	relationArgs  []string
)

func init() {
	RelateCmd.Flags().StringSliceVarP(&relationTypes, "type", "t", nil, "Relation type label, tried in order (repeatable)")
	RelateCmd.Flags().StringArrayVarP(&relationArgs, "arg", "a", nil, "Argument concept label, in order (repeatable)")
	RelateCmd.MarkFlagRequired("type")

	RelationCmd.AddCommand(relationLsCmd)
	RelationCmd.AddCommand(relationRmCmd)
}

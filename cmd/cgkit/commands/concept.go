package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/teranos/cgkit/concept"
	"github.com/teranos/cgkit/display"
	"github.com/teranos/cgkit/kb"
	"github.com/teranos/cgkit/sym"
)

// ConceptCmd groups concept instance commands.
var ConceptCmd = &cobra.Command{
	Use:   "concept",
	Short: sym.Concept + " Add, remove or list concepts",
	Long: sym.Concept + ` concept - Manage concept instances

A referent is written KIND or KIND:value, where KIND is BLANK, LAMBDA,
LITERAL, THE or CONCEPTUAL_GRAPH_LABEL.

Examples:
  cgkit concept add Tom --type Boy --referent THE:Tom
  cgkit concept ls
  cgkit concept rm Tom`,
}

// MatchCmd finds concepts by example.
var MatchCmd = &cobra.Command{
	Use:   "match",
	Short: sym.Match + " Find concepts typed under the given types",
	Long: sym.Match + ` match - Match concepts by example

A concept matches when every one of its types lies at or below one of the
query types and its referent is accepted by the query referent. LAMBDA
accepts any referent; any other referent must be equal.

Examples:
  cgkit match --type Human --referent LAMBDA
  cgkit match --type Child --referent THE:Tom`,
	Args: cobra.NoArgs,
	RunE: runMatch,
}

var conceptAddCmd = &cobra.Command{
	Use:   "add <label>",
	Short: "Add a concept",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ref, err := concept.ParseReferent(conceptReferent)
		if err != nil {
			return err
		}
		return mutateKB(cmd, func(k *kb.KnowledgeBase) error {
			c, err := k.AddConcept(concept.Concept{Label: args[0], TypeLabels: conceptTypes, Referent: ref})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s added %s (%s) %v %s\n", sym.Concept, c.Label, c.ID, c.TypeLabels, c.Referent)
			return nil
		})
	},
}

var conceptRmCmd = &cobra.Command{
	Use:   "rm <label>",
	Short: "Remove a concept no relation refers to",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return mutateKB(cmd, func(k *kb.KnowledgeBase) error {
			if err := k.RemoveConcept(args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s removed %s\n", sym.Concept, args[0])
			return nil
		})
	},
}

var conceptLsCmd = &cobra.Command{
	Use:   "ls",
	Short: "List concepts",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return readKB(cmd, func(k *kb.KnowledgeBase) error {
			return printConcepts(cmd, k.Concepts())
		})
	},
}

var (
	conceptTypes    []string
	conceptReferent string
)

func init() {
	conceptAddCmd.Flags().StringSliceVarP(&conceptTypes, "type", "t", nil, "Concept type label (repeatable)")
	conceptAddCmd.Flags().StringVar(&conceptReferent, "referent", "BLANK", "Referent as KIND[:value]")
	conceptAddCmd.MarkFlagRequired("type")

	MatchCmd.Flags().StringSliceVarP(&conceptTypes, "type", "t", nil, "Query type label (repeatable)")
	MatchCmd.Flags().StringVar(&conceptReferent, "referent", "LAMBDA", "Query referent as KIND[:value]")
	MatchCmd.MarkFlagRequired("type")

	ConceptCmd.AddCommand(conceptAddCmd)
	ConceptCmd.AddCommand(conceptRmCmd)
	ConceptCmd.AddCommand(conceptLsCmd)
}

func runMatch(cmd *cobra.Command, args []string) error {
	ref, err := concept.ParseReferent(conceptReferent)
	if err != nil {
		return err
	}
	return readKB(cmd, func(k *kb.KnowledgeBase) error {
		return printConcepts(cmd, k.MatchByExample(concept.Concept{TypeLabels: conceptTypes, Referent: ref}))
	})
}

func printConcepts(cmd *cobra.Command, concepts []concept.Concept) error {
	if display.ShouldOutputJSON(cmd) {
		if concepts == nil {
			concepts = []concept.Concept{}
		}
		return display.WriteJSON(cmd.OutOrStdout(), concepts)
	}
	if len(concepts) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "no concepts")
		return nil
	}
	out, err := display.RenderConcepts(concepts)
	if err != nil {
		return err
	}
	fmt.Fprint(cmd.OutOrStdout(), out)
	return nil
}

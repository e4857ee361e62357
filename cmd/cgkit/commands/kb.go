package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/teranos/cgkit/display"
	"github.com/teranos/cgkit/errors"
	"github.com/teranos/cgkit/kb"
	"github.com/teranos/cgkit/storage"
	"github.com/teranos/cgkit/sym"
)

// KBCmd groups commands over stored knowledge bases.
var KBCmd = &cobra.Command{
	Use:   "kb",
	Short: sym.DB + " List, inspect or delete stored knowledge bases",
}

var kbListCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored knowledge bases",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		conn, store, err := openStore()
		if err != nil {
			return err
		}
		defer conn.Close()

		list, err := store.List(cmd.Context())
		if err != nil {
			return err
		}
		if display.ShouldOutputJSON(cmd) {
			if list == nil {
				list = []storage.Summary{}
			}
			return display.WriteJSON(cmd.OutOrStdout(), list)
		}
		for _, s := range list {
			fmt.Fprintf(cmd.OutOrStdout(), "%-20s format %s  saved %s\n", s.Name, s.FormatVersion, s.SavedAt.Local().Format("2006-01-02 15:04:05"))
		}
		return nil
	},
}

var kbStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Count the contents of the current knowledge base",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return readKB(cmd, func(k *kb.KnowledgeBase) error {
			st := k.Stats()
			if display.ShouldOutputJSON(cmd) {
				return display.WriteJSON(cmd.OutOrStdout(), st)
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s %s\n", sym.DB, k.Name())
			fmt.Fprintf(out, "  %s concept types:  %d\n", sym.ConceptType, st.ConceptTypes)
			fmt.Fprintf(out, "  %s relation types: %d\n", sym.RelationType, st.RelationTypes)
			fmt.Fprintf(out, "  %s concepts:       %d\n", sym.Concept, st.Concepts)
			fmt.Fprintf(out, "  %s relations:      %d\n", sym.Relation, st.Relations)
			return nil
		})
	},
}

var kbDeleteCmd = &cobra.Command{
	Use:   "delete <name>",
	Short: "Delete a stored knowledge base",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		conn, store, err := openStore()
		if err != nil {
			return err
		}
		defer conn.Close()

		removed, err := store.Delete(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		if !removed {
			return errors.Wrapf(errors.ErrNotFound, "knowledge base %q", args[0])
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s deleted %s\n", sym.DB, args[0])
		return nil
	},
}

func init() {
	KBCmd.AddCommand(kbListCmd)
	KBCmd.AddCommand(kbStatsCmd)
	KBCmd.AddCommand(kbDeleteCmd)
}

package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/teranos/cgkit/display"
	"github.com/teranos/cgkit/kb"
	"github.com/teranos/cgkit/sym"
)

// ImportCmd imports a document into the current knowledge base.
var ImportCmd = &cobra.Command{
	Use:   "import <file>",
	Short: sym.Import + " Import a YAML, JSON or TOML document",
	Long: sym.Import + ` import - Import a knowledge-base document

The document lists nested concept types, nested relation types with
signatures, concepts and relations. Labels that already exist are reused,
so importing the same document twice changes nothing.

With import.atomic (the default) a failed import leaves the knowledge base
exactly as it was.`,
	Args: cobra.ExactArgs(1),
	RunE: runImport,
}

var importNoAtomic bool

func init() {
	ImportCmd.Flags().BoolVar(&importNoAtomic, "no-atomic", false, "Keep whatever was imported before an error")
}

func runImport(cmd *cobra.Command, args []string) error {
	doc, err := kb.LoadDocument(args[0])
	if err != nil {
		return err
	}
	return mutateKB(cmd, func(k *kb.KnowledgeBase) error {
		var report kb.ImportReport
		if config.Import.Atomic && !importNoAtomic {
			report, err = k.ImportDocumentAtomic(doc)
		} else {
			report, err = k.ImportDocument(doc)
		}
		if err != nil {
			return err
		}
		return printReport(cmd, args[0], report)
	})
}

func printReport(cmd *cobra.Command, path string, r kb.ImportReport) error {
	out := cmd.OutOrStdout()
	if display.ShouldOutputJSON(cmd) {
		return display.WriteJSON(out, r)
	}
	fmt.Fprintf(out, "%s %s\n", sym.Import, path)
	fmt.Fprintf(out, "  %s concept types:  %d created, %d linked, %d reused\n",
		sym.ConceptType, r.ConceptTypes.Created, r.ConceptTypes.Linked, r.ConceptTypes.Reused)
	fmt.Fprintf(out, "  %s relation types: %d created, %d linked, %d reused\n",
		sym.RelationType, r.RelationTypes.Created, r.RelationTypes.Linked, r.RelationTypes.Reused)
	fmt.Fprintf(out, "  %s concepts: %d   %s relations: %d   unchanged: %d\n",
		sym.Concept, r.Concepts, sym.Relation, r.Relations, r.Unchanged)
	return nil
}

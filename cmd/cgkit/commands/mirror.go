package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/teranos/cgkit/display"
	"github.com/teranos/cgkit/kb"
	"github.com/teranos/cgkit/logger"
	"github.com/teranos/cgkit/mirror"
	"github.com/teranos/cgkit/sym"
)

// MirrorCmd pushes the current knowledge base to Neo4j.
var MirrorCmd = &cobra.Command{
	Use:   "mirror",
	Short: sym.Mirror + " Push the knowledge base into Neo4j",
	Long: sym.Mirror + ` mirror - Copy the knowledge base into Neo4j

Types become :CGType nodes linked by SUBTYPE_OF, concepts become :CGConcept
nodes linked to their types by INSTANCE_OF, and relations become :CGRelation
nodes with ordered ARGUMENT edges. The previous copy of the same knowledge
base is replaced.

Requires neo4j.enabled, neo4j.uri and neo4j.username in cgkit.toml; the
password is read from CGKIT_NEO4J_PASSWORD or NEO4J_PASSWORD.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		m, err := mirror.Open(ctx, config.Neo4j, logger.ComponentLogger("mirror"))
		if err != nil {
			return err
		}
		defer m.Close(ctx)

		return readKB(cmd, func(k *kb.KnowledgeBase) error {
			stats, err := m.Sync(ctx, k.Snapshot())
			if err != nil {
				return err
			}
			if display.ShouldOutputJSON(cmd) {
				return display.WriteJSON(cmd.OutOrStdout(), stats)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s mirrored %s: %d nodes, %d edges\n", sym.Mirror, k.Name(), stats.Nodes, stats.Edges)
			return nil
		})
	},
}

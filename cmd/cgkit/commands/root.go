// Package commands implements the cgkit CLI.
package commands

import (
	"github.com/spf13/cobra"

	"github.com/teranos/cgkit/am"
	"github.com/teranos/cgkit/errors"
	"github.com/teranos/cgkit/logger"
)

// RootCmd is the cgkit entry point.
var RootCmd = &cobra.Command{
	Use:   "cgkit",
	Short: "cgkit - conceptual graph type hierarchies",
	Long: `cgkit - conceptual graph type hierarchies and subsumption.

cgkit keeps knowledge bases of concept types, relation types with signatures,
concepts and relations in a local SQLite store, and answers subsumption and
match-by-example queries over them.

Examples:
  cgkit import family.yaml                     # Import a document
  cgkit tree                                   # Show the concept-type hierarchy
  cgkit descendants Human                      # Every type at or below Human
  cgkit match --type Child --referent LAMBDA   # All concepts typed under Child
  cgkit relate p1 --type ParentOf --arg Bob --arg Tom`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		if err := logger.Initialize(cfg.Log.JSON || logJSON, verbosity); err != nil {
			return errors.Wrap(err, "failed to initialize logger")
		}
		config = cfg
		return nil
	},
}

var (
	configPath string
	kbName     string
	verbosity  int
	logJSON    bool

	// config is the configuration loaded for the running command.
	config *am.Config
)

func init() {
	RootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Config file (default: nearest cgkit.toml, then ~/.cgkit/am.toml)")
	RootCmd.PersistentFlags().StringVar(&kbName, "kb", "", "Knowledge base name (default: store.kb_name)")
	RootCmd.PersistentFlags().CountVarP(&verbosity, "verbose", "v", "Increase log verbosity (-v, -vv, -vvv)")
	RootCmd.PersistentFlags().BoolVar(&logJSON, "log-json", false, "Emit logs as JSON")
	RootCmd.PersistentFlags().BoolP("json", "j", false, "Print results as JSON (or set CGKIT_OUTPUT=json)")

	RootCmd.AddCommand(AmCmd)
	RootCmd.AddCommand(ImportCmd)
	RootCmd.AddCommand(WatchCmd)
	RootCmd.AddCommand(TreeCmd)
	RootCmd.AddCommand(DescendantsCmd)
	RootCmd.AddCommand(TypeCmd)
	RootCmd.AddCommand(RelationTypeCmd)
	RootCmd.AddCommand(ConceptCmd)
	RootCmd.AddCommand(MatchCmd)
	RootCmd.AddCommand(RelateCmd)
	RootCmd.AddCommand(RelationCmd)
	RootCmd.AddCommand(KBCmd)
	RootCmd.AddCommand(MirrorCmd)
	RootCmd.AddCommand(VersionCmd)
}

func loadConfig() (*am.Config, error) {
	if configPath != "" {
		return am.LoadFromFile(configPath)
	}
	return am.Load()
}

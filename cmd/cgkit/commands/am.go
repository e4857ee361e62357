package commands

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/teranos/cgkit/am"
	"github.com/teranos/cgkit/errors"
	"github.com/teranos/cgkit/sym"
)

// AmCmd groups configuration commands.
var AmCmd = &cobra.Command{
	Use:   "am",
	Short: sym.AM + " Manage cgkit configuration",
	Long: sym.AM + ` am - Manage cgkit configuration ("I am")

Configuration sources (in order of precedence):
1. Environment variables (CGKIT_* prefix)
2. Project config (nearest cgkit.toml walking up from the working directory)
3. User config (~/.cgkit/am.toml)
4. Default values

Examples:
  cgkit am show                  # Show current configuration
  cgkit am show --format yaml    # Show configuration as YAML
  cgkit am where                 # Show which files were merged
  cgkit am init                  # Write ./cgkit.toml with the current settings`,
}

var amShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current configuration",
	Long:  "Display the effective configuration. The Neo4j password is redacted.",
	Args:  cobra.NoArgs,
	RunE:  runAmShow,
}

var amWhereCmd = &cobra.Command{
	Use:   "where",
	Short: "Show where configuration is loaded from",
	Args:  cobra.NoArgs,
	RunE:  runAmWhere,
}

var amValidateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate current configuration",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		// Loading already validated; reaching here means the config is usable
		fmt.Fprintln(cmd.OutOrStdout(), "✓ Configuration is valid")
		return nil
	},
}

var amInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write the current configuration to ./" + am.ProjectConfigName,
	Args:  cobra.NoArgs,
	RunE:  runAmInit,
}

var (
	configFormat string
	initForce    bool
)

func init() {
	amShowCmd.Flags().StringVar(&configFormat, "format", "toml", "Output format: toml, json, yaml")
	amInitCmd.Flags().BoolVar(&initForce, "force", false, "Overwrite an existing "+am.ProjectConfigName)

	AmCmd.AddCommand(amShowCmd)
	AmCmd.AddCommand(amWhereCmd)
	AmCmd.AddCommand(amValidateCmd)
	AmCmd.AddCommand(amInitCmd)
}

func runAmShow(cmd *cobra.Command, args []string) error {
	redacted := *config
	if redacted.Neo4j.Password != "" {
		redacted.Neo4j.Password = am.Redacted
	}
	out := cmd.OutOrStdout()

	switch configFormat {
	case "toml":
		data, err := config.ToTOML()
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "# cgkit configuration\n%s", data)
	case "json":
		data, err := json.MarshalIndent(redacted, "", "  ")
		if err != nil {
			return errors.Wrap(err, "failed to marshal config to JSON")
		}
		fmt.Fprintln(out, string(data))
	case "yaml":
		data, err := yaml.Marshal(redacted)
		if err != nil {
			return errors.Wrap(err, "failed to marshal config to YAML")
		}
		fmt.Fprintf(out, "# cgkit configuration\n%s", data)
	default:
		return errors.NewInvalidRequestError("unsupported format: %s (supported: toml, json, yaml)", configFormat)
	}
	return nil
}

func runAmWhere(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	if configPath != "" {
		fmt.Fprintf(out, "%s (--config)\n", configPath)
		return nil
	}

	home, _ := os.UserHomeDir()
	wd, _ := os.Getwd()
	candidates := []string{filepath.Join(home, ".cgkit", "am.toml")}
	if project := am.FindProjectConfig(wd); project != "" {
		candidates = append(candidates, project)
	} else {
		candidates = append(candidates, filepath.Join(wd, am.ProjectConfigName))
	}

	for _, path := range candidates {
		status := "missing"
		if _, err := os.Stat(path); err == nil {
			status = "loaded"
		}
		fmt.Fprintf(out, "%-8s %s\n", status, path)
	}
	if src := am.Source(); src != "" {
		fmt.Fprintf(out, "effective: %s\n", src)
	}
	return nil
}

func runAmInit(cmd *cobra.Command, args []string) error {
	wd, err := os.Getwd()
	if err != nil {
		return errors.Wrap(err, "working directory")
	}
	path := filepath.Join(wd, am.ProjectConfigName)
	if _, err := os.Stat(path); err == nil && !initForce {
		return errors.WithHint(
			errors.Wrapf(errors.ErrConflict, "%s already exists", path),
			"pass --force to overwrite it")
	}
	if err := config.WriteFile(path); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "✓ Wrote %s\n", path)
	return nil
}

package display

import (
	"os"

	"github.com/spf13/cobra"
)

// OutputEnv switches every command to JSON output: "json" for indented
// documents, "jsonl" for one compact document per line.
const OutputEnv = "CGKIT_OUTPUT"

// ShouldOutputJSON determines if a command should output JSON.
// An explicit --json flag wins over the environment.
func ShouldOutputJSON(cmd *cobra.Command) bool {
	if cmd != nil {
		if f := cmd.Flags().Lookup("json"); f != nil && f.Changed {
			v, _ := cmd.Flags().GetBool("json")
			return v
		}
	}
	switch os.Getenv(OutputEnv) {
	case "json", "jsonl":
		return true
	}
	return false
}

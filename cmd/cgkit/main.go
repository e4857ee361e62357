package main

import (
	"fmt"
	"os"

	"github.com/teranos/cgkit/cmd/cgkit/commands"
	"github.com/teranos/cgkit/errors"
	"github.com/teranos/cgkit/logger"
)

func main() {
	defer logger.Cleanup()
	if err := commands.RootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		for _, hint := range errors.GetAllHints(err) {
			fmt.Fprintln(os.Stderr, "Hint:", hint)
		}
		os.Exit(1)
	}
}

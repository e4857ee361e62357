package commands

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/teranos/cgkit/kb"
	"github.com/teranos/cgkit/logger"
	"github.com/teranos/cgkit/mirror"
	"github.com/teranos/cgkit/sym"
	"github.com/teranos/cgkit/watch"
)

// WatchCmd re-imports a document every time it changes.
var WatchCmd = &cobra.Command{
	Use:   "watch <file>",
	Short: sym.Import + " Re-import a document whenever it changes",
	Long: sym.Import + ` watch - Keep a knowledge base in sync with a document

The document is imported once at start and again after every save, once
import.debounce_ms has passed without further changes. Each import is atomic;
a broken edit is reported and the knowledge base keeps its last good state.
With neo4j.enabled the result is mirrored after every successful import.`,
	Args: cobra.ExactArgs(1),
	RunE: runWatch,
}

func runWatch(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	s, err := openSession(ctx)
	if err != nil {
		return err
	}
	defer s.close()

	var m *mirror.Mirror
	if config.Neo4j.Enabled {
		if m, err = mirror.Open(ctx, config.Neo4j, logger.ComponentLogger("mirror")); err != nil {
			return err
		}
		defer m.Close(context.Background())
	}

	w, err := watch.New(args[0], s.kb,
		watch.WithDebounce(time.Duration(config.Import.DebounceMillis)*time.Millisecond),
		watch.WithLogger(logger.ComponentLogger("watch")),
		watch.OnImport(func(path string, report kb.ImportReport, err error) {
			if err != nil {
				pterm.Error.Printfln("Import of %s failed: %v", path, err)
				return
			}
			if err := s.save(ctx); err != nil {
				pterm.Error.Printfln("Save failed: %v", err)
				return
			}
			if m != nil {
				if _, err := m.Sync(ctx, s.kb.Snapshot()); err != nil {
					pterm.Warning.Printfln("Mirror failed: %v", err)
				}
			}
			_ = printReport(cmd, path, report)
		}))
	if err != nil {
		return err
	}

	// The first import reports through OnImport; a broken document at start
	// still leaves the watcher running so the next save can fix it.
	_, _ = w.ImportNow()
	pterm.Info.Printfln("Watching %s (Ctrl+C to stop)", w.Path())
	return w.Run(ctx)
}

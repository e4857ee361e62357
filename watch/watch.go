// Package watch re-imports a knowledge-base document whenever it changes on disk.
package watch

import (
	"context"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"github.com/teranos/cgkit/errors"
	"github.com/teranos/cgkit/kb"
	"github.com/teranos/cgkit/logger"
)

// DefaultDebounce collapses the burst of events an editor save produces.
const DefaultDebounce = 500 * time.Millisecond

// Importer receives decoded documents. *kb.KnowledgeBase satisfies it.
type Importer interface {
	ImportDocumentAtomic(doc kb.Document) (kb.ImportReport, error)
}

// ReportFunc is called after every import attempt, successful or not.
type ReportFunc func(path string, report kb.ImportReport, err error)

// DocumentWatcher watches one document file.
//
// The parent directory is watched rather than the file itself: editors often
// save by writing a temp file and renaming it over the original, which drops a
// watch placed on the file.
type DocumentWatcher struct {
	path     string
	target   Importer
	fs       *fsnotify.Watcher
	debounce time.Duration
	log      *zap.SugaredLogger

	mu        sync.Mutex
	timer     *time.Timer
	stopped   bool
	inflight  sync.WaitGroup
	callbacks []ReportFunc
}

// Option configures a DocumentWatcher.
type Option func(*DocumentWatcher)

// WithDebounce sets the quiet period before a change is imported.
func WithDebounce(d time.Duration) Option {
	return func(w *DocumentWatcher) { w.debounce = d }
}

// WithLogger sets the logger.
func WithLogger(l *zap.SugaredLogger) Option {
	return func(w *DocumentWatcher) { w.log = l }
}

// OnImport registers a callback run after each import attempt.
func OnImport(fn ReportFunc) Option {
	return func(w *DocumentWatcher) { w.callbacks = append(w.callbacks, fn) }
}

// New creates a watcher for path. Nothing is imported until ImportNow or Run.
func New(path string, target Importer, opts ...Option) (*DocumentWatcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, errors.Wrapf(err, "resolve %s", path)
	}
	if _, err := kb.FormatForPath(abs); err != nil {
		return nil, err
	}

	fs, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, errors.Wrap(err, "create fsnotify watcher")
	}
	if err := fs.Add(filepath.Dir(abs)); err != nil {
		fs.Close()
		return nil, errors.Wrapf(err, "watch directory of %s", abs)
	}

	w := &DocumentWatcher{
		path:     abs,
		target:   target,
		fs:       fs,
		debounce: DefaultDebounce,
		log:      logger.ComponentLogger("watch"),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w, nil
}

// Path returns the absolute path of the watched document.
func (w *DocumentWatcher) Path() string {
	return w.path
}

// ImportNow loads and imports the document synchronously.
func (w *DocumentWatcher) ImportNow() (kb.ImportReport, error) {
	report, err := w.importDocument()
	w.notify(report, err)
	return report, err
}

// Run handles file events until ctx is cancelled, then releases the watcher.
// On return no debounced import is pending or running, so callers may close
// whatever the import callbacks use.
func (w *DocumentWatcher) Run(ctx context.Context) error {
	defer w.fs.Close()
	defer w.stop()
	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-w.fs.Events:
			if !ok {
				return nil
			}
			if !w.relevant(event) {
				continue
			}
			w.log.Debugw("Document change detected",
				logger.FieldFile, event.Name,
				"op", event.Op.String())
			w.schedule()

		case err, ok := <-w.fs.Errors:
			if !ok {
				return nil
			}
			w.log.Warnw("Document watcher error", logger.FieldError, err)
		}
	}
}

func (w *DocumentWatcher) relevant(event fsnotify.Event) bool {
	if filepath.Clean(event.Name) != w.path {
		return false
	}
	if isEditorTemp(event.Name) {
		return false
	}
	return event.Has(fsnotify.Write) || event.Has(fsnotify.Create)
}

// schedule restarts the debounce timer.
func (w *DocumentWatcher) schedule() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.stopped {
		return
	}
	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.debounce, w.fire)
}

// fire runs a debounced import unless the watcher has stopped.
// inflight is only incremented under mu while running, so stop's Wait
// never races an Add.
func (w *DocumentWatcher) fire() {
	w.mu.Lock()
	if w.stopped {
		w.mu.Unlock()
		return
	}
	w.inflight.Add(1)
	w.mu.Unlock()
	defer w.inflight.Done()

	report, err := w.importDocument()
	w.notify(report, err)
}

// stop cancels a pending import and waits for a running one.
func (w *DocumentWatcher) stop() {
	w.mu.Lock()
	w.stopped = true
	if w.timer != nil {
		w.timer.Stop()
	}
	w.mu.Unlock()
	w.inflight.Wait()
}

func (w *DocumentWatcher) importDocument() (kb.ImportReport, error) {
	doc, err := kb.LoadDocument(w.path)
	if err != nil {
		w.log.Warnw("Document reload failed", logger.FieldFile, w.path, logger.FieldError, err)
		return kb.ImportReport{}, err
	}
	report, err := w.target.ImportDocumentAtomic(doc)
	if err != nil {
		w.log.Warnw("Document import rolled back", logger.FieldFile, w.path, logger.FieldError, err)
		return report, err
	}
	w.log.Infow("Document imported",
		logger.FieldFile, w.path,
		"concept_types_created", report.ConceptTypes.Created,
		"relation_types_created", report.RelationTypes.Created,
		"concepts", report.Concepts,
		"relations", report.Relations,
		"unchanged", report.Unchanged)
	return report, nil
}

func (w *DocumentWatcher) notify(report kb.ImportReport, err error) {
	w.mu.Lock()
	callbacks := append([]ReportFunc(nil), w.callbacks...)
	w.mu.Unlock()
	for _, fn := range callbacks {
		fn(w.path, report, err)
	}
}

// isEditorTemp matches vim swap files, emacs lock files and backup copies.
func isEditorTemp(path string) bool {
	base := filepath.Base(path)
	return strings.HasPrefix(base, ".#") ||
		strings.HasSuffix(base, "~") ||
		strings.HasSuffix(base, ".swp") ||
		strings.HasSuffix(base, ".swx")
}

package watch

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"tidy-hq/vesta/pkg/classify"
	"tidy-hq/vesta/pkg/queue"
	"tidy-hq/vesta/pkg/router"
	"tidy-hq/vesta/pkg/rules"
	"tidy-hq/vesta/pkg/rules/engine"
	"tidy-hq/vesta/pkg/telemetry/metrics"
)

// Config contains configuration for the directory watcher.
type Config struct {
	// Directories to watch for new files.
	Directories []string

	// ReadRetries is how many times to probe a new file for
	// readability before giving up (default: 5).
	ReadRetries int

	// ReadRetryDelay is the pause between readability probes
	// (default: 500ms).
	ReadRetryDelay time.Duration

	// TagRetries is how many times to attempt the provenance rename
	// (default: 3).
	TagRetries int

	// TagRetryDelay is the pause between rename attempts
	// (default: 500ms).
	TagRetryDelay time.Duration
}

// ApplyDefaults fills unset fields with defaults.
func (c *Config) ApplyDefaults() {
	if c.ReadRetries <= 0 {
		c.ReadRetries = 5
	}
	if c.ReadRetryDelay <= 0 {
		c.ReadRetryDelay = 500 * time.Millisecond
	}
	if c.TagRetries <= 0 {
		c.TagRetries = 3
	}
	if c.TagRetryDelay <= 0 {
		c.TagRetryDelay = 500 * time.Millisecond
	}
}

// Watcher monitors the configured directories and pushes every new
// file through the classify/decide/route pipeline. Files are handled
// sequentially; a failure on one file never stops the loop.
type Watcher struct {
	config    Config
	store     *rules.Store
	resolver  *classify.Resolver
	engine    *engine.Engine
	router    *router.Router
	processed *queue.ProcessedSet
	windows   WindowProvider
	metrics   *metrics.Metrics
	logger    *slog.Logger

	watcher *fsnotify.Watcher

	mu      sync.Mutex
	running bool
}

// NewWatcher creates a directory watcher. windows and m may be nil.
func NewWatcher(config Config, store *rules.Store, resolver *classify.Resolver, eng *engine.Engine, rtr *router.Router, processed *queue.ProcessedSet, windows WindowProvider, m *metrics.Metrics, logger *slog.Logger) (*Watcher, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if windows == nil {
		windows = &StaticWindowProvider{}
	}
	config.ApplyDefaults()

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create fsnotify watcher: %w", err)
	}

	return &Watcher{
		config:    config,
		store:     store,
		resolver:  resolver,
		engine:    eng,
		router:    rtr,
		processed: processed,
		windows:   windows,
		metrics:   m,
		logger:    logger.With("component", "watch"),
		watcher:   fsw,
	}, nil
}

// Watch blocks processing creation events until the context is
// cancelled.
func (w *Watcher) Watch(ctx context.Context) error {
	w.mu.Lock()
	if w.running {
		w.mu.Unlock()
		return fmt.Errorf("watcher already running")
	}
	w.running = true
	w.mu.Unlock()

	defer func() {
		w.mu.Lock()
		w.running = false
		w.mu.Unlock()
	}()

	for _, dir := range w.config.Directories {
		if err := w.watcher.Add(dir); err != nil {
			return fmt.Errorf("failed to watch directory %q: %w", dir, err)
		}
		w.logger.Info("watching directory", "path", dir)
	}

	for {
		select {
		case <-ctx.Done():
			w.logger.Info("watcher stopped")
			return nil

		case event, ok := <-w.watcher.Events:
			if !ok {
				return fmt.Errorf("watcher events channel closed")
			}
			if !event.Has(fsnotify.Create) {
				continue
			}
			w.handleCreate(ctx, event.Name)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return fmt.Errorf("watcher errors channel closed")
			}
			w.logger.Error("watcher error", "error", err)
		}
	}
}

// Close releases the underlying fsnotify watcher.
func (w *Watcher) Close() error {
	return w.watcher.Close()
}

// handleCreate processes one creation event end to end. The window
// snapshot comes after the stat and dedup checks so duplicate and
// directory events never pay for the provider call, which may shell
// out.
func (w *Watcher) handleCreate(ctx context.Context, path string) {
	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		return
	}

	if w.processed != nil {
		wasNew, err := w.processed.MarkIfNew(path)
		if err != nil {
			w.logger.Warn("failed to persist processed set", "path", path, "error", err)
		}
		if !wasNew {
			w.logger.Debug("already processed, skipping", "path", path)
			return
		}
	}
	w.metrics.FileDetected()

	win := w.windows.ActiveWindow()

	if !w.awaitReadable(path) {
		w.logger.Warn("file never became readable, skipping", "path", path)
		return
	}

	path = w.tagFile(path, win)

	ruleSet := w.store.Load()
	vars := w.resolver.Resolve(ctx, path, win, ruleSet)
	dec := w.engine.Decide(ruleSet, vars)
	if !dec.Matched {
		w.logger.Debug("no rule matched", "path", path)
		return
	}

	if err := w.router.Route(ctx, path, dec, vars); err != nil {
		w.logger.Error("failed to route file", "path", path, "error", err)
	}
}

// awaitReadable probes the file until it can be opened for reading.
// Writers that still hold the file exclusively make the open fail on
// some platforms, so a few spaced retries cover the common case.
func (w *Watcher) awaitReadable(path string) bool {
	for attempt := 0; attempt < w.config.ReadRetries; attempt++ {
		if attempt > 0 {
			time.Sleep(w.config.ReadRetryDelay)
		}
		f, err := os.Open(path)
		if err == nil {
			f.Close()
			return true
		}
	}
	return false
}

// tagFile renames path to carry the source application and window
// title. On persistent failure the original path is kept and
// processing continues untagged.
func (w *Watcher) tagFile(path string, win classify.WindowInfo) string {
	tagged := filepath.Join(filepath.Dir(path), taggedName(path, win))
	if tagged == path {
		return path
	}

	var err error
	for attempt := 0; attempt < w.config.TagRetries; attempt++ {
		if attempt > 0 {
			time.Sleep(w.config.TagRetryDelay)
		}
		if err = os.Rename(path, tagged); err == nil {
			if w.processed != nil {
				if markErr := w.processed.Mark(tagged); markErr != nil {
					w.logger.Warn("failed to mark tagged path", "path", tagged, "error", markErr)
				}
			}
			w.logger.Debug("tagged file", "from", path, "to", tagged)
			return tagged
		}
	}

	w.logger.Warn("failed to tag file, continuing with original name",
		"path", path, "error", err)
	return path
}

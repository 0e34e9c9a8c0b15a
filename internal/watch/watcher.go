// Package watch monitors a reports drop directory and hands new session
// report files to a handler as they land.
package watch

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// Handler is invoked for each settled report file.
type Handler func(path string) error

// Options configures a Watcher.
type Options struct {
	// Dir is the directory to watch for *.json report files.
	Dir string

	// Settle is how long a file must stay quiet before it is handled.
	// Producers write reports atomically but some copy tools stream;
	// debouncing avoids reading half-written documents.
	Settle time.Duration

	// Logger receives structured events. Defaults to zap.NewNop().
	Logger *zap.Logger
}

// Watcher watches a directory for new report files.
type Watcher struct {
	dir     string
	settle  time.Duration
	log     *zap.Logger
	handler Handler

	mu      sync.Mutex
	pending map[string]*time.Timer
}

// New creates a Watcher. The handler runs on the watcher goroutine; keep it
// short or dispatch internally.
func New(opts Options, handler Handler) (*Watcher, error) {
	if opts.Dir == "" {
		return nil, fmt.Errorf("watch: directory is required")
	}
	if handler == nil {
		return nil, fmt.Errorf("watch: handler is required")
	}
	if opts.Settle <= 0 {
		opts.Settle = 500 * time.Millisecond
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	return &Watcher{
		dir:     opts.Dir,
		settle:  opts.Settle,
		log:     opts.Logger,
		handler: handler,
		pending: make(map[string]*time.Timer),
	}, nil
}

// Run watches until ctx is cancelled.
func (w *Watcher) Run(ctx context.Context) error {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create fs watcher: %w", err)
	}
	defer func() { _ = fsw.Close() }()

	if err := fsw.Add(w.dir); err != nil {
		return fmt.Errorf("watch %s: %w", w.dir, err)
	}
	w.log.Info("watching for session reports", zap.String("dir", w.dir))

	fired := make(chan string)

	for {
		select {
		case <-ctx.Done():
			w.cancelPending()
			return ctx.Err()

		case event, ok := <-fsw.Events:
			if !ok {
				return nil
			}
			if !isReportEvent(event) {
				continue
			}
			w.log.Debug("report file event", zap.String("path", event.Name), zap.String("op", event.Op.String()))
			w.debounce(ctx, event.Name, fired)

		case err, ok := <-fsw.Errors:
			if !ok {
				return nil
			}
			w.log.Warn("watcher error", zap.Error(err))

		case path := <-fired:
			w.log.Info("handling report", zap.String("path", path))
			if err := w.handler(path); err != nil {
				w.log.Error("report handler failed", zap.String("path", path), zap.Error(err))
			}
		}
	}
}

// debounce (re)arms the settle timer for one path.
func (w *Watcher) debounce(ctx context.Context, path string, fired chan<- string) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if timer, ok := w.pending[path]; ok {
		timer.Reset(w.settle)
		return
	}
	w.pending[path] = time.AfterFunc(w.settle, func() {
		w.mu.Lock()
		delete(w.pending, path)
		w.mu.Unlock()
		// fired is unbuffered and Run may have already returned; a timer
		// that fires during shutdown must not block its goroutine forever.
		select {
		case fired <- path:
		case <-ctx.Done():
		}
	})
}

func (w *Watcher) cancelPending() {
	w.mu.Lock()
	defer w.mu.Unlock()
	for path, timer := range w.pending {
		timer.Stop()
		delete(w.pending, path)
	}
}

// isReportEvent filters for freshly written JSON documents.
func isReportEvent(event fsnotify.Event) bool {
	if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) {
		return false
	}
	name := filepath.Base(event.Name)
	if strings.HasPrefix(name, ".") {
		return false
	}
	return strings.EqualFold(filepath.Ext(name), ".json")
}

package files

import (
	"context"
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// Watcher reports debounced changes to the YAML files of one directory. It is
// used to hot-reload locale overrides while the TUI is running.
type Watcher struct {
	mu       sync.Mutex
	watcher  *fsnotify.Watcher
	dir      string
	debounce time.Duration
	pending  map[string]time.Time
	changes  chan string
	stopCh   chan struct{}
	doneCh   chan struct{}
	running  bool
	logger   *zap.Logger
}

// NewWatcher creates a watcher for dir. Call Start to begin delivering changes.
func NewWatcher(dir string, logger *zap.Logger) (*Watcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Watcher{
		watcher:  w,
		dir:      dir,
		debounce: 200 * time.Millisecond,
		pending:  make(map[string]time.Time),
		changes:  make(chan string, 16),
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
		logger:   logger,
	}, nil
}

// Changes delivers the path of each changed file once its writes settle
func (w *Watcher) Changes() <-chan string {
	return w.changes
}

// Start watches the directory in a background goroutine
func (w *Watcher) Start(ctx context.Context) error {
	w.mu.Lock()
	if w.running {
		w.mu.Unlock()
		return nil
	}
	w.running = true
	w.mu.Unlock()

	if err := os.MkdirAll(w.dir, 0755); err != nil {
		return fmt.Errorf("failed to create watched directory: %w", err)
	}
	if err := w.watcher.Add(w.dir); err != nil {
		return fmt.Errorf("failed to watch %s: %w", w.dir, err)
	}

	go w.run(ctx)
	return nil
}

// Stop ends the watch and waits for the goroutine to exit
func (w *Watcher) Stop() {
	w.mu.Lock()
	running := w.running
	w.running = false
	w.mu.Unlock()

	if running {
		close(w.stopCh)
		<-w.doneCh
	}
	if err := w.watcher.Close(); err != nil {
		w.logger.Warn("Failed to close watcher", zap.Error(err))
	}
}

func (w *Watcher) run(ctx context.Context) {
	defer close(w.doneCh)

	ticker := time.NewTicker(w.debounce / 2)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-w.stopCh:
			return
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			w.handle(event)
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Warn("Watcher error", zap.Error(err))
		case now := <-ticker.C:
			w.flush(now)
		}
	}
}

func (w *Watcher) handle(event fsnotify.Event) {
	if !strings.HasSuffix(event.Name, ".yaml") && !strings.HasSuffix(event.Name, ".yml") {
		return
	}
	if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) &&
		!event.Has(fsnotify.Remove) && !event.Has(fsnotify.Rename) {
		return
	}
	w.logger.Debug("File changed", zap.String("path", event.Name), zap.String("op", event.Op.String()))
	w.pending[event.Name] = time.Now()
}

func (w *Watcher) flush(now time.Time) {
	for path, at := range w.pending {
		if now.Sub(at) < w.debounce {
			continue
		}
		delete(w.pending, path)
		select {
		case w.changes <- path:
		default:
			w.logger.Debug("Dropping change notification", zap.String("path", path))
		}
	}
}

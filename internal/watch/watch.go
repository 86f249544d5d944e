// Package watch re-runs an action when any of a fixed set of files changes.
package watch

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// DefaultDebounce batches the burst of events an editor save produces
const DefaultDebounce = 300 * time.Millisecond

// FileWatcher watches individual files. Parent directories are watched so
// that editors replacing a file by rename are still seen.
type FileWatcher struct {
	mu       sync.Mutex
	watcher  *fsnotify.Watcher
	files    map[string]bool
	pending  map[string]time.Time
	debounce time.Duration
	logger   *zap.Logger
}

// New creates a watcher for files. Empty paths are ignored.
func New(files []string, debounce time.Duration, logger *zap.Logger) (*FileWatcher, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if debounce <= 0 {
		debounce = DefaultDebounce
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}

	fw := &FileWatcher{
		watcher:  watcher,
		files:    make(map[string]bool),
		pending:  make(map[string]time.Time),
		debounce: debounce,
		logger:   logger,
	}

	dirs := make(map[string]bool)
	for _, f := range files {
		if f == "" {
			continue
		}
		abs, err := filepath.Abs(f)
		if err != nil {
			watcher.Close()
			return nil, err
		}
		fw.files[abs] = true
		dirs[filepath.Dir(abs)] = true
	}
	for dir := range dirs {
		if err := watcher.Add(dir); err != nil {
			watcher.Close()
			return nil, fmt.Errorf("failed to watch %s: %w", dir, err)
		}
		logger.Debug("watching directory", zap.String("dir", dir))
	}
	return fw, nil
}

// Run calls onChange with the changed files each time a batch of events
// settles. It blocks until ctx is done and then closes the watcher. An
// error from onChange is logged and watching continues.
func (fw *FileWatcher) Run(ctx context.Context, onChange func(ctx context.Context, changed []string) error) error {
	defer fw.watcher.Close()

	ticker := time.NewTicker(fw.debounce / 3)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-fw.watcher.Events:
			if !ok {
				return nil
			}
			fw.handleEvent(event)

		case err, ok := <-fw.watcher.Errors:
			if !ok {
				return nil
			}
			fw.logger.Warn("file watcher error", zap.Error(err))

		case <-ticker.C:
			changed := fw.settled(time.Now())
			if len(changed) == 0 {
				continue
			}
			if err := onChange(ctx, changed); err != nil {
				fw.logger.Error("rerun after change failed", zap.Strings("files", changed), zap.Error(err))
			}
		}
	}
}

func (fw *FileWatcher) handleEvent(event fsnotify.Event) {
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
		return
	}
	name, err := filepath.Abs(event.Name)
	if err != nil || !fw.files[name] {
		return
	}
	fw.logger.Debug("file changed", zap.String("path", name), zap.String("op", event.Op.String()))

	fw.mu.Lock()
	fw.pending[name] = time.Now()
	fw.mu.Unlock()
}

// settled removes and returns files with no event within the debounce window
func (fw *FileWatcher) settled(now time.Time) []string {
	fw.mu.Lock()
	defer fw.mu.Unlock()

	var out []string
	for name, at := range fw.pending {
		if now.Sub(at) >= fw.debounce {
			out = append(out, name)
			delete(fw.pending, name)
		}
	}
	return out
}

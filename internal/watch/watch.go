// Package watch calls a function whenever one of a set of files changes.
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

// DefaultDebounce is used when Options.Debounce is zero.
const DefaultDebounce = 200 * time.Millisecond

// Options configures a Watcher.
type Options struct {
	// Debounce collapses bursts of events into one callback.
	Debounce time.Duration
	Logger   *zap.Logger
}

// Watcher reports changes to a fixed set of files. Directories are watched
// rather than the files themselves so editors that save by renaming are
// still seen.
type Watcher struct {
	files    map[string]struct{}
	dirs     []string
	debounce time.Duration
	logger   *zap.Logger
}

// New creates a watcher for files.
func New(files []string, opts Options) (*Watcher, error) {
	if len(files) == 0 {
		return nil, fmt.Errorf("no files to watch")
	}

	w := &Watcher{
		files:    make(map[string]struct{}, len(files)),
		debounce: opts.Debounce,
		logger:   opts.Logger,
	}

	if w.debounce <= 0 {
		w.debounce = DefaultDebounce
	}

	if w.logger == nil {
		w.logger = zap.NewNop()
	}

	seenDirs := map[string]struct{}{}

	for _, f := range files {
		abs, err := filepath.Abs(f)
		if err != nil {
			return nil, fmt.Errorf("resolve %s: %w", f, err)
		}

		w.files[abs] = struct{}{}

		dir := filepath.Dir(abs)
		if _, ok := seenDirs[dir]; !ok {
			seenDirs[dir] = struct{}{}
			w.dirs = append(w.dirs, dir)
		}
	}

	return w, nil
}

// Run blocks until ctx is done, calling onChange with the changed file once
// per debounce window. Errors from onChange are logged and do not stop the
// watcher.
func (w *Watcher) Run(ctx context.Context, onChange func(path string) error) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer fw.Close()

	for _, dir := range w.dirs {
		if err := fw.Add(dir); err != nil {
			return fmt.Errorf("watch directory %s: %w", dir, err)
		}
	}

	var (
		mu      sync.Mutex
		pending string
		timer   *time.Timer
		fire    = make(chan string, 1)
	)

	defer func() {
		mu.Lock()
		if timer != nil {
			timer.Stop()
		}
		mu.Unlock()
	}()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-fw.Events:
			if !ok {
				return nil
			}

			if !w.relevant(event) {
				continue
			}

			w.logger.Debug("file changed",
				zap.String("file", event.Name),
				zap.String("op", event.Op.String()))

			mu.Lock()
			pending = event.Name
			if timer == nil {
				timer = time.AfterFunc(w.debounce, func() {
					mu.Lock()
					path := pending
					timer = nil
					mu.Unlock()

					select {
					case fire <- path:
					default:
					}
				})
			}
			mu.Unlock()

		case path := <-fire:
			if err := onChange(path); err != nil {
				w.logger.Error("change handler failed", zap.String("file", path), zap.Error(err))
			}

		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}

			w.logger.Error("file watcher error", zap.Error(err))
		}
	}
}

func (w *Watcher) relevant(event fsnotify.Event) bool {
	if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
		return false
	}

	abs, err := filepath.Abs(event.Name)
	if err != nil {
		return false
	}

	_, ok := w.files[abs]

	return ok
}

// Package watch reports changes to model files so the viewer can reload them.
//
// The watcher runs a background goroutine that collects fsnotify events;
// the render loop drains settled changes with Poll without blocking.
package watch

import (
	"fmt"
	"path/filepath"
	"slices"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"github.com/Faultbox/scene-viewer/internal/logger"
)

// DefaultSettle is how long a file must stay quiet before its change is reported.
const DefaultSettle = 250 * time.Millisecond

// Watcher tracks a set of files. Their parent directories are watched so
// editors that save by replacing the file are still seen.
type Watcher struct {
	// Settle delays reporting until writes stop, so half-written files are not reloaded.
	Settle time.Duration

	fs   *fsnotify.Watcher
	done chan struct{}
	wg   sync.WaitGroup

	mu      sync.Mutex
	files   map[string]struct{}
	dirs    map[string]int // watched directory -> number of files in it
	pending map[string]time.Time
}

// New starts a watcher with no files.
func New() (*Watcher, error) {
	fs, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating file watcher: %w", err)
	}

	w := &Watcher{
		Settle:  DefaultSettle,
		fs:      fs,
		done:    make(chan struct{}),
		files:   make(map[string]struct{}),
		dirs:    make(map[string]int),
		pending: make(map[string]time.Time),
	}

	w.wg.Add(1)
	go w.run()
	return w, nil
}

// Add starts watching path. Adding a path twice is a no-op.
func (w *Watcher) Add(path string) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return err
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	if _, ok := w.files[abs]; ok {
		return nil
	}

	dir := filepath.Dir(abs)
	if w.dirs[dir] == 0 {
		if err := w.fs.Add(dir); err != nil {
			return fmt.Errorf("watching %s: %w", dir, err)
		}
	}
	w.dirs[dir]++
	w.files[abs] = struct{}{}

	logger.Debug("watching file", zap.String("path", abs))
	return nil
}

// Reset stops watching every file and drops pending changes.
func (w *Watcher) Reset() {
	w.mu.Lock()
	defer w.mu.Unlock()

	for dir := range w.dirs {
		if err := w.fs.Remove(dir); err != nil {
			logger.Debug("unwatching directory", zap.String("dir", dir), zap.Error(err))
		}
	}
	clear(w.dirs)
	clear(w.files)
	clear(w.pending)
}

// Poll returns, in sorted order, the watched files whose last change is
// older than Settle. It never blocks on file system activity.
func (w *Watcher) Poll() []string {
	w.mu.Lock()
	defer w.mu.Unlock()

	var settled []string
	now := time.Now()
	for path, at := range w.pending {
		if now.Sub(at) >= w.Settle {
			settled = append(settled, path)
			delete(w.pending, path)
		}
	}
	slices.Sort(settled)
	return settled
}

// Close stops the watcher.
func (w *Watcher) Close() error {
	close(w.done)
	err := w.fs.Close()
	w.wg.Wait()
	return err
}

func (w *Watcher) run() {
	defer w.wg.Done()

	for {
		select {
		case <-w.done:
			return
		case event, ok := <-w.fs.Events:
			if !ok {
				return
			}
			w.handle(event)
		case err, ok := <-w.fs.Errors:
			if !ok {
				return
			}
			logger.Warn("file watcher error", zap.Error(err))
		}
	}
}

func (w *Watcher) handle(event fsnotify.Event) {
	// a removed file may be recreated by a save-by-rename, which arrives as Create
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
		return
	}

	path := filepath.Clean(event.Name)

	w.mu.Lock()
	defer w.mu.Unlock()

	if _, ok := w.files[path]; !ok {
		return
	}
	w.pending[path] = time.Now()
}

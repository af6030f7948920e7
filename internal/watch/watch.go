// Package watch notifies when a worktree or its git metadata changes.
package watch

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	log "github.com/chmouel/lazystatus/internal/log"
)

// DefaultDebounce is used when no debounce window is configured.
const DefaultDebounce = 300 * time.Millisecond

// Watcher watches a worktree and signals, debounced, when its status may
// have changed.
type Watcher struct {
	Root     string
	GitDir   string
	Debounce time.Duration

	events  chan struct{}
	done    chan struct{}
	paths   map[string]struct{}
	mu      sync.Mutex
	watcher *fsnotify.Watcher
	started bool
}

// New creates a Watcher for the worktree at root whose git directory is gitDir.
func New(root, gitDir string, debounce time.Duration) *Watcher {
	if debounce < 0 {
		debounce = DefaultDebounce
	}
	return &Watcher{
		Root:     filepath.Clean(root),
		GitDir:   filepath.Clean(gitDir),
		Debounce: debounce,
		events:   make(chan struct{}, 1),
	}
}

// Events delivers one value per debounced burst of changes.
func (w *Watcher) Events() <-chan struct{} {
	return w.events
}

// Start registers the watches and runs the event loop until ctx is done or
// Stop is called.
func (w *Watcher) Start(ctx context.Context) error {
	if w.started {
		return errors.New("watcher already started")
	}
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}

	w.watcher = watcher
	w.done = make(chan struct{})
	w.paths = make(map[string]struct{})
	w.started = true

	w.addWatchTree(w.Root)
	w.addWatchDir(w.GitDir)
	w.addWatchTree(filepath.Join(w.GitDir, "refs"))
	w.debugf("watching %d directories under %s", w.watchCount(), w.Root)

	go w.run(ctx)
	return nil
}

// Stop stops the watcher.
func (w *Watcher) Stop() {
	if !w.started {
		return
	}
	close(w.done)
	w.started = false
	if w.watcher != nil {
		_ = w.watcher.Close()
	}
}

func (w *Watcher) run(ctx context.Context) {
	var timer *time.Timer
	var fire <-chan time.Time
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return
		case <-w.done:
			return
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if !w.relevant(event) {
				continue
			}
			if event.Op&fsnotify.Create != 0 {
				w.maybeWatchNewDir(event.Name)
			}
			if w.Debounce == 0 {
				w.signal()
				continue
			}
			if timer == nil {
				timer = time.NewTimer(w.Debounce)
			} else {
				timer.Reset(w.Debounce)
			}
			fire = timer.C
		case <-fire:
			fire = nil
			w.signal()
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.debugf("watcher error: %v", err)
		}
	}
}

// relevant filters out git's lock and object churn; inside the git
// directory only HEAD, the index and refs matter.
func (w *Watcher) relevant(event fsnotify.Event) bool {
	if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
		return false
	}
	if !isUnder(w.GitDir, event.Name) {
		return !isUnder(filepath.Join(w.Root, ".git"), event.Name)
	}

	rel, err := filepath.Rel(w.GitDir, event.Name)
	if err != nil {
		return false
	}
	switch {
	case rel == "HEAD", rel == "index", rel == "packed-refs":
		return true
	case strings.HasPrefix(rel, "refs"+string(filepath.Separator)):
		return !strings.HasSuffix(rel, ".lock")
	}
	return false
}

func (w *Watcher) signal() {
	select {
	case <-w.done:
		return
	default:
	}
	select {
	case w.events <- struct{}{}:
	default:
	}
}

func (w *Watcher) maybeWatchNewDir(path string) {
	info, err := os.Stat(path)
	if err != nil || !info.IsDir() {
		return
	}
	if isUnder(w.GitDir, path) {
		if isUnder(filepath.Join(w.GitDir, "refs"), path) {
			w.addWatchTree(path)
		}
		return
	}
	w.addWatchTree(path)
}

func (w *Watcher) addWatchDir(path string) {
	if path == "" {
		return
	}
	info, err := os.Stat(path)
	if err != nil || !info.IsDir() {
		return
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	if _, ok := w.paths[path]; ok {
		return
	}
	if err := w.watcher.Add(path); err != nil {
		w.debugf("watcher add failed for %s: %v", path, err)
		return
	}
	w.paths[path] = struct{}{}
}

// addWatchTree watches root and every directory below it, skipping .git.
func (w *Watcher) addWatchTree(root string) {
	if root == "" {
		return
	}
	_ = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil || !d.IsDir() {
			return nil
		}
		if d.Name() == ".git" {
			return filepath.SkipDir
		}
		w.addWatchDir(path)
		return nil
	})
}

func (w *Watcher) watchCount() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return len(w.paths)
}

func (w *Watcher) debugf(format string, args ...any) {
	log.Printf(format, args...)
}

func isUnder(base, path string) bool {
	return path == base || strings.HasPrefix(path, base+string(filepath.Separator))
}

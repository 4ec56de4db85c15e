// Package services holds background helpers for the branchsweep TUI.
package services

import (
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// RefsWatchDebounce is the debounce window for watcher events.
const RefsWatchDebounce = 600 * time.Millisecond

// RefsWatchService watches the repository's branch refs so branches
// created or deleted outside the tool trigger a rescan. It covers
// .git/refs/heads (loose refs) and packed-refs.
type RefsWatchService struct {
	Started bool
	Waiting bool
	Events  chan struct{}
	Done    chan struct{}

	mu          sync.Mutex
	watcher     *fsnotify.Watcher
	headsRoot   string
	packedRefs  string
	paths       map[string]struct{}
	lastRefresh time.Time
	logf        func(string, ...any)
}

// NewRefsWatchService creates an inactive watcher.
func NewRefsWatchService(logf func(string, ...any)) *RefsWatchService {
	return &RefsWatchService{logf: logf}
}

// Start begins watching the given .git directory. Returns false
// without error when already started.
func (w *RefsWatchService) Start(gitDir string) (bool, error) {
	if w.Started || gitDir == "" {
		return false, nil
	}
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return false, err
	}

	w.Started = true
	w.watcher = watcher
	w.Events = make(chan struct{}, 1)
	w.Done = make(chan struct{})
	w.paths = make(map[string]struct{})
	w.headsRoot = filepath.Join(gitDir, "refs", "heads")
	w.packedRefs = filepath.Join(gitDir, "packed-refs")

	// The git dir itself catches packed-refs rewrites.
	w.addWatchDir(gitDir)
	w.addWatchTree(w.headsRoot)

	go w.run()
	return true, nil
}

// Stop stops the watcher and closes channels.
func (w *RefsWatchService) Stop() {
	if !w.Started {
		return
	}
	close(w.Done)
	w.Started = false
	if w.watcher != nil {
		_ = w.watcher.Close()
	}
}

// NextEvent returns the event channel unless a wait is already armed.
func (w *RefsWatchService) NextEvent() <-chan struct{} {
	if w.Events == nil || w.Waiting {
		return nil
	}
	w.Waiting = true
	return w.Events
}

// ResetWaiting clears the waiting flag after an event is processed.
func (w *RefsWatchService) ResetWaiting() {
	w.Waiting = false
}

// ShouldRefresh checks debounce timing for watcher events.
func (w *RefsWatchService) ShouldRefresh(now time.Time) bool {
	if !w.lastRefresh.IsZero() && now.Sub(w.lastRefresh) < RefsWatchDebounce {
		return false
	}
	w.lastRefresh = now
	return true
}

// Signal notifies listeners of watcher activity.
func (w *RefsWatchService) Signal() {
	select {
	case <-w.Done:
		return
	default:
	}
	select {
	case w.Events <- struct{}{}:
	default:
	}
}

func (w *RefsWatchService) relevant(path string) bool {
	if path == w.packedRefs {
		return true
	}
	return path == w.headsRoot ||
		strings.HasPrefix(path, w.headsRoot+string(filepath.Separator))
}

func (w *RefsWatchService) run() {
	for {
		select {
		case <-w.Done:
			return
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}
			if !w.relevant(event.Name) {
				continue
			}
			if event.Op&fsnotify.Create != 0 {
				// Branch namespaces (feature/...) create directories.
				w.addWatchDir(event.Name)
			}
			w.Signal()
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.debugf("refs watcher error: %v", err)
		}
	}
}

func (w *RefsWatchService) addWatchDir(path string) {
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
		w.debugf("refs watcher add failed for %s: %v", path, err)
		return
	}
	w.paths[path] = struct{}{}
}

func (w *RefsWatchService) addWatchTree(root string) {
	_ = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil || !d.IsDir() {
			return nil
		}
		w.addWatchDir(path)
		return nil
	})
}

func (w *RefsWatchService) debugf(format string, args ...any) {
	if w.logf == nil {
		return
	}
	w.logf(format, args...)
}

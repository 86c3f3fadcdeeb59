// Package watch adapts the pipeline's single-file update to a live
// filesystem watch: a 300ms debounce per path absorbs editor save bursts
// before a rebuild runs.
package watch

import (
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/codegraph-dev/codegraph/internal/enumerate"
	"github.com/codegraph-dev/codegraph/internal/ignore"
	"github.com/codegraph-dev/codegraph/internal/logging"
	"github.com/codegraph-dev/codegraph/internal/pipeline"
	"github.com/codegraph-dev/codegraph/internal/store"
)

const debounceInterval = 300 * time.Millisecond

var log = logging.For("watch")

// Watcher drives a Pipeline from live filesystem events.
type Watcher struct {
	root     string
	matcher  *ignore.Matcher
	pipeline *pipeline.Pipeline
	store    *store.Store
	fsw      *fsnotify.Watcher

	debounceMu sync.Mutex
	debounce   map[string]*time.Timer

	stop chan struct{}
}

// New creates a Watcher over root, reusing p and st for rebuilds.
// extraIgnoreDirs extends the fixed ignore denylist applied while walking
// directories to register with the filesystem watch.
func New(root string, p *pipeline.Pipeline, st *store.Store, extraIgnoreDirs ...string) (*Watcher, error) {
	matcher, err := ignore.New(root, extraIgnoreDirs...)
	if err != nil {
		return nil, err
	}
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	return &Watcher{
		root:     root,
		matcher:  matcher,
		pipeline: p,
		store:    st,
		fsw:      fsw,
		debounce: make(map[string]*time.Timer),
		stop:     make(chan struct{}),
	}, nil
}

// Start performs an initial full build, then watches the workspace tree
// for changes until Stop is called.
func (w *Watcher) Start() error {
	if err := w.pipeline.FullBuild(w.store); err != nil {
		return err
	}
	if err := w.addDirectoryRecursive(w.root); err != nil {
		return err
	}
	go w.eventLoop()
	return nil
}

// Stop releases the underlying filesystem watch.
func (w *Watcher) Stop() error {
	close(w.stop)
	return w.fsw.Close()
}

func (w *Watcher) eventLoop() {
	for {
		select {
		case <-w.stop:
			return
		case event, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			w.handleEvent(event)
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			log.Warnw("watcher error", "err", err)
		}
	}
}

func (w *Watcher) handleEvent(event fsnotify.Event) {
	relPath, err := filepath.Rel(w.root, event.Name)
	if err != nil {
		return
	}
	relPath = filepath.ToSlash(relPath)

	info, statErr := os.Stat(event.Name)
	isDir := statErr == nil && info.IsDir()

	if isDir {
		if event.Op&fsnotify.Create == fsnotify.Create && !w.matcher.ShouldIgnoreDir(relPath) {
			if err := w.addDirectoryRecursive(event.Name); err != nil {
				log.Warnw("failed to watch new directory", "path", relPath, "err", err)
			}
		}
		return
	}

	if w.matcher.ShouldIgnoreFile(relPath) || !enumerate.TrackedExtensions[filepath.Ext(relPath)] {
		return
	}

	switch {
	case event.Op&(fsnotify.Write|fsnotify.Create) != 0:
		w.debounce(relPath, func() {
			if err := w.pipeline.UpdateFile(w.store, relPath); err != nil {
				log.Errorw("incremental rebuild failed", "file", relPath, "err", err)
			} else {
				log.Infow("rebuilt", "file", relPath)
			}
		})
	case event.Op&(fsnotify.Remove|fsnotify.Rename) != 0:
		w.debounce(relPath, func() {
			if err := w.pipeline.RemoveFile(w.store, relPath); err != nil {
				log.Errorw("removal rebuild failed", "file", relPath, "err", err)
			} else {
				log.Infow("removed", "file", relPath)
			}
		})
	}
}

// debounce schedules fn to run debounceInterval after the most recent call
// for this key, canceling any pending call via time.AfterFunc.
func (w *Watcher) debounce(key string, fn func()) {
	w.debounceMu.Lock()
	defer w.debounceMu.Unlock()

	if t, exists := w.debounce[key]; exists {
		t.Stop()
	}
	w.debounce[key] = time.AfterFunc(debounceInterval, func() {
		w.debounceMu.Lock()
		delete(w.debounce, key)
		w.debounceMu.Unlock()
		fn()
	})
}

func (w *Watcher) addDirectoryRecursive(dir string) error {
	return filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return nil
		}
		relPath, relErr := filepath.Rel(w.root, path)
		if relErr != nil {
			return nil
		}
		relPath = filepath.ToSlash(relPath)
		if info.IsDir() {
			if relPath != "." && w.matcher.ShouldIgnoreDir(relPath) {
				return filepath.SkipDir
			}
			if err := w.fsw.Add(path); err != nil {
				log.Warnw("failed to watch directory", "path", relPath, "err", err)
			}
		}
		return nil
	})
}

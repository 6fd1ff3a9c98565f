// Package watcher debounces filesystem change notifications for one
// workspace at a time, coalescing Git-marker writes into a distinct event
// from ordinary file changes (spec.md §4.E).
package watcher

import (
	"io/fs"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// debounceWindow matches the teacher's notify_debouncer_mini interval.
const debounceWindow = 500 * time.Millisecond

// ignoreDirs are directory names skipped anywhere in a watched tree —
// build output and dependency caches that change constantly but never
// matter to a developer watching their workspace.
var ignoreDirs = map[string]struct{}{
	"node_modules":  {},
	"target":        {},
	"build":         {},
	"dist":          {},
	".next":         {},
	".nuxt":         {},
	"__pycache__":   {},
	".pytest_cache": {},
	".mypy_cache":   {},
	"venv":          {},
	".venv":         {},
	"vendor":        {},
	".cargo":        {},
}

// ignorePrefixes are root-relative path prefixes ignored in full, for
// directories named only by their path rather than a bare component
// (.git/objects is huge and churns on every commit; .git/logs likewise).
var ignorePrefixes = []string{
	filepath.Join(".git", "objects"),
	filepath.Join(".git", "logs"),
}

// FileChanged reports one or more non-Git paths changed under a workspace.
type FileChanged struct {
	Project   string
	Workspace string
	Paths     []string
}

// GitStatusChanged reports that a Git index/HEAD/ref/commit marker changed,
// meaning the workspace's Git status should be recomputed.
type GitStatusChanged struct {
	Project   string
	Workspace string
}

// Watcher monitors a single workspace tree at a time. Subscribing to a new
// workspace replaces any prior subscription (spec.md §4.E: "single active
// subscription").
type Watcher struct {
	events chan<- any

	mu        sync.Mutex
	fsw       *fsnotify.Watcher
	project   string
	workspace string
	root      string
	stop      chan struct{}
}

// New creates a Watcher that publishes FileChanged/GitStatusChanged values
// onto events.
func New(events chan<- any) *Watcher {
	return &Watcher{events: events}
}

// Subscribe begins watching root recursively for project/workspace,
// tearing down any previous subscription first.
func (w *Watcher) Subscribe(project, workspace, root string) error {
	w.Unsubscribe()

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	if err := addRecursive(fsw, root); err != nil {
		fsw.Close()
		return err
	}

	w.mu.Lock()
	w.fsw = fsw
	w.project = project
	w.workspace = workspace
	w.root = root
	stop := make(chan struct{})
	w.stop = stop
	w.mu.Unlock()

	go w.loop(fsw, project, workspace, root, stop)
	return nil
}

// Unsubscribe tears down the current subscription, if any.
func (w *Watcher) Unsubscribe() {
	w.mu.Lock()
	fsw := w.fsw
	stop := w.stop
	w.fsw = nil
	w.project = ""
	w.workspace = ""
	w.root = ""
	w.stop = nil
	w.mu.Unlock()

	if stop != nil {
		close(stop)
	}
	if fsw != nil {
		fsw.Close()
	}
}

// IsSubscribed reports whether a workspace is currently being watched.
func (w *Watcher) IsSubscribed() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.fsw != nil
}

// Current returns the currently watched project/workspace, if any.
func (w *Watcher) Current() (project, workspace string, ok bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.fsw == nil {
		return "", "", false
	}
	return w.project, w.workspace, true
}

func (w *Watcher) loop(fsw *fsnotify.Watcher, project, workspace, root string, stop chan struct{}) {
	timer := time.NewTimer(debounceWindow)
	if !timer.Stop() {
		<-timer.C
	}
	armed := false

	pending := make(map[string]struct{})
	gitChanged := false

	flush := func() {
		if gitChanged {
			w.events <- GitStatusChanged{Project: project, Workspace: workspace}
			gitChanged = false
		}
		if len(pending) > 0 {
			paths := make([]string, 0, len(pending))
			for p := range pending {
				paths = append(paths, p)
			}
			pending = make(map[string]struct{})
			w.events <- FileChanged{Project: project, Workspace: workspace, Paths: paths}
		}
	}

	for {
		select {
		case <-stop:
			timer.Stop()
			return

		case ev, ok := <-fsw.Events:
			if !ok {
				return
			}
			rel, err := filepath.Rel(root, ev.Name)
			if err != nil || shouldIgnore(rel) {
				continue
			}
			if isGitStatusFile(rel) {
				gitChanged = true
			} else {
				pending[rel] = struct{}{}
			}

			if armed && !timer.Stop() {
				<-timer.C
			}
			timer.Reset(debounceWindow)
			armed = true

		case _, ok := <-fsw.Errors:
			if !ok {
				return
			}

		case <-timer.C:
			armed = false
			flush()
		}
	}
}

func shouldIgnore(rel string) bool {
	for _, part := range strings.Split(rel, string(filepath.Separator)) {
		if _, ok := ignoreDirs[part]; ok {
			return true
		}
	}
	for _, prefix := range ignorePrefixes {
		if strings.HasPrefix(rel, prefix) {
			return true
		}
	}
	return false
}

func isGitStatusFile(rel string) bool {
	switch rel {
	case filepath.Join(".git", "index"),
		filepath.Join(".git", "HEAD"),
		filepath.Join(".git", "COMMIT_EDITMSG"):
		return true
	}
	return strings.HasPrefix(rel, filepath.Join(".git", "refs", "heads")+string(filepath.Separator))
}

// addRecursive walks root adding every directory to fsw, skipping ignored
// subtrees — fsnotify has no built-in recursive mode.
func addRecursive(fsw *fsnotify.Watcher, root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		rel, relErr := filepath.Rel(root, path)
		if relErr == nil && rel != "." && shouldIgnore(rel) {
			return filepath.SkipDir
		}
		return fsw.Add(path)
	})
}

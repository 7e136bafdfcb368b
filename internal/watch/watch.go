// Package watch triggers rebuilds when project files change.
package watch

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce coalesces the burst of events an editor save produces.
const DefaultDebounce = 200 * time.Millisecond

// Watcher reports changes to a set of files and directories.
type Watcher struct {
	Debounce time.Duration
	// OnError receives watcher errors; nil ignores them.
	OnError func(error)

	watcher *fsnotify.Watcher
	files   map[string]bool
	dirs    map[string]bool
	ignored map[string]bool
}

// New watches the given paths. A file is watched through its parent directory so
// that atomic replaces by editors are seen. A directory is watched together with its
// immediate subdirectories, except hidden ones such as .hostsgen or .git. Missing
// paths are skipped.
func New(paths ...string) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}

	w := &Watcher{
		Debounce: DefaultDebounce,
		watcher:  fw,
		files:    make(map[string]bool),
		dirs:     make(map[string]bool),
		ignored:  make(map[string]bool),
	}

	for _, p := range paths {
		if err := w.add(p); err != nil {
			fw.Close()
			return nil, err
		}
	}
	if len(w.dirs) == 0 {
		fw.Close()
		return nil, errors.New("nothing to watch")
	}
	return w, nil
}

func (w *Watcher) add(path string) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("failed to resolve %s: %w", path, err)
	}

	info, err := os.Stat(abs)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to stat %s: %w", path, err)
	}

	if !info.IsDir() {
		w.files[abs] = true
		return w.addDir(filepath.Dir(abs), false)
	}

	if err := w.addDir(abs, true); err != nil {
		return err
	}
	children, err := os.ReadDir(abs)
	if err != nil {
		return fmt.Errorf("failed to list %s: %w", path, err)
	}
	for _, c := range children {
		if c.IsDir() && !hidden(c.Name()) {
			if err := w.addDir(filepath.Join(abs, c.Name()), true); err != nil {
				return err
			}
		}
	}
	return nil
}

// addDir registers dir; all marks every event inside it as relevant.
func (w *Watcher) addDir(dir string, all bool) error {
	if _, ok := w.dirs[dir]; !ok {
		if err := w.watcher.Add(dir); err != nil {
			return fmt.Errorf("failed to watch %s: %w", dir, err)
		}
	}
	w.dirs[dir] = w.dirs[dir] || all
	return nil
}

// Ignore drops events for the given paths, typically files the rebuild itself writes.
// An ignored directory drops events for everything below it.
func (w *Watcher) Ignore(paths ...string) {
	for _, p := range paths {
		if p == "" {
			continue
		}
		if abs, err := filepath.Abs(p); err == nil {
			w.ignored[abs] = true
		}
	}
}

// Paths returns the directories being watched.
func (w *Watcher) Paths() []string {
	return w.watcher.WatchList()
}

func (w *Watcher) relevant(event fsnotify.Event) bool {
	if event.Has(fsnotify.Chmod) && !event.Has(fsnotify.Write) {
		return false
	}
	name := filepath.Clean(event.Name)
	if w.isIgnored(name) {
		return false
	}
	if w.files[name] {
		return true
	}
	// Hidden names are temp files and tool state, never sources.
	if hidden(filepath.Base(name)) {
		return false
	}
	return w.dirs[filepath.Dir(name)] || w.dirs[name]
}

func (w *Watcher) isIgnored(name string) bool {
	for p := name; ; p = filepath.Dir(p) {
		if w.ignored[p] {
			return true
		}
		if parent := filepath.Dir(p); parent == p {
			return false
		}
	}
}

func hidden(name string) bool {
	return strings.HasPrefix(name, ".") && name != "." && name != ".."
}

// Run calls onChange after every debounced burst of relevant events until ctx is
// done. onChange runs on the calling goroutine, so rebuilds never overlap.
func (w *Watcher) Run(ctx context.Context, onChange func()) error {
	defer w.watcher.Close()

	timer := time.NewTimer(w.Debounce)
	if !timer.Stop() {
		<-timer.C
	}
	pending := false

	for {
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case event, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			if !w.relevant(event) {
				continue
			}
			if event.Has(fsnotify.Create) {
				// Pick up newly created module directories.
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() && w.dirs[filepath.Dir(event.Name)] {
					_ = w.addDir(event.Name, true)
				}
			}
			if pending && !timer.Stop() {
				<-timer.C
			}
			timer.Reset(w.Debounce)
			pending = true
		case <-timer.C:
			pending = false
			onChange()
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			if w.OnError != nil {
				w.OnError(err)
			}
		}
	}
}

// Package watch re-runs a review when the watched sources change. Events are
// debounced so an editor save burst triggers a single re-review.
package watch

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// ChangeEvent describes a relevant filesystem change.
type ChangeEvent struct {
	Path       string
	ChangeType string // "create", "write", "remove", "rename"
}

// Watcher watches document and test roots and invokes onChange with the last
// relevant event after the debounce window closes.
type Watcher struct {
	watcher  *fsnotify.Watcher
	filter   *SourceFilter
	debounce time.Duration
	onChange func(ChangeEvent)
}

// New creates a Watcher. A zero debounce defaults to 500ms.
func New(filter *SourceFilter, debounce time.Duration, onChange func(ChangeEvent)) (*Watcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create fsnotify watcher: %w", err)
	}
	if debounce == 0 {
		debounce = 500 * time.Millisecond
	}
	return &Watcher{
		watcher:  w,
		filter:   filter,
		debounce: debounce,
		onChange: onChange,
	}, nil
}

// WatchRecursive adds a directory tree to the watcher, skipping hidden
// directories.
func (w *Watcher) WatchRecursive(root string) error {
	return filepath.WalkDir(root, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if !entry.IsDir() {
			return nil
		}
		if strings.HasPrefix(entry.Name(), ".") && path != root {
			return filepath.SkipDir
		}
		if err := w.watcher.Add(path); err != nil {
			return fmt.Errorf("watch %s: %w", path, err)
		}
		return nil
	})
}

// Run blocks until the context is cancelled, forwarding debounced relevant
// changes to the onChange callback.
func (w *Watcher) Run(ctx context.Context) error {
	defer w.watcher.Close()

	var mu sync.Mutex
	var lastEvent ChangeEvent
	debouncer := NewDebouncer(w.debounce, func() {
		mu.Lock()
		ev := lastEvent
		mu.Unlock()
		if w.onChange != nil {
			w.onChange(ev)
		}
	})
	defer debouncer.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			changeType := opToChangeType(event.Op)
			if changeType == "" {
				continue
			}

			// Newly created directories join the watch set.
			if event.Op.Has(fsnotify.Create) {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
					_ = w.WatchRecursive(event.Name)
				}
			}

			if w.filter != nil && !w.filter.Relevant(event.Name) {
				continue
			}
			mu.Lock()
			lastEvent = ChangeEvent{Path: event.Name, ChangeType: changeType}
			mu.Unlock()
			debouncer.Trigger()

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			return fmt.Errorf("watcher error: %w", err)
		}
	}
}

func opToChangeType(op fsnotify.Op) string {
	switch {
	case op.Has(fsnotify.Create):
		return "create"
	case op.Has(fsnotify.Write):
		return "write"
	case op.Has(fsnotify.Remove):
		return "remove"
	case op.Has(fsnotify.Rename):
		return "rename"
	default:
		return ""
	}
}

// Copyright 2026 The designclo Authors
// SPDX-License-Identifier: MIT

package asset

import (
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/danieljohnbyns/designclo"
)

// DefaultDebounce drops repeated events for the same file within this
// window.
const DefaultDebounce = 100 * time.Millisecond

// Change reports an image file created, written, renamed or removed.
type Change struct {
	Path    string
	Removed bool
}

// Watcher watches directories for image file changes.
type Watcher struct {
	watcher  *fsnotify.Watcher
	debounce time.Duration

	// Events is closed when the watcher stops.
	Events chan Change
	// Errors is closed when the watcher stops.
	Errors chan error

	closeCh chan struct{}
	done    chan struct{}
	once    sync.Once
}

// NewWatcher starts watching dirs.
func NewWatcher(dirs ...string) (*Watcher, error) {
	return NewWatcherDebounce(DefaultDebounce, dirs...)
}

// NewWatcherDebounce is NewWatcher with a custom debounce window.
func NewWatcherDebounce(debounce time.Duration, dirs ...string) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	for _, dir := range dirs {
		if err := fw.Add(dir); err != nil {
			_ = fw.Close()
			return nil, err
		}
	}
	w := &Watcher{
		watcher:  fw,
		debounce: debounce,
		Events:   make(chan Change, 16),
		Errors:   make(chan error, 1),
		closeCh:  make(chan struct{}),
		done:     make(chan struct{}),
	}
	go w.run()
	return w, nil
}

// Close stops the watcher. Safe to call more than once.
func (w *Watcher) Close() error {
	var err error
	w.once.Do(func() {
		close(w.closeCh)
		err = w.watcher.Close()
		<-w.done
	})
	return err
}

func (w *Watcher) run() {
	defer close(w.done)
	defer close(w.Errors)
	defer close(w.Events)

	last := make(map[string]time.Time)
	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename|fsnotify.Remove) == 0 {
				continue
			}
			if !IsImageFile(event.Name) {
				continue
			}
			removed := event.Op&(fsnotify.Remove|fsnotify.Rename) != 0
			now := time.Now()
			if t, ok := last[event.Name]; ok && !removed && now.Sub(t) < w.debounce {
				continue
			}
			last[event.Name] = now
			select {
			case w.Events <- Change{Path: event.Name, Removed: removed}:
			case <-w.closeCh:
				return
			}
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			designclo.Logger().Warn("asset: watch error", "error", err)
			select {
			case w.Errors <- err:
			default:
			}
		case <-w.closeCh:
			return
		}
	}
}

// Sync applies a change to lib: removed files are dropped, anything else
// is (re)loaded. Decode failures leave the library unchanged.
func Sync(lib *Library, c Change) error {
	if c.Removed {
		lib.RemoveSource(c.Path)
		return nil
	}
	_, err := lib.LoadFile(c.Path)
	return err
}

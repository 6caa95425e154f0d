// Copyright 2026 The designclo Authors
// SPDX-License-Identifier: MIT

// Package history keeps a bounded undo/redo log of design snapshots.
//
// Each entry is a (base colour, layer list) pair. Exactly one entry is
// active. Committing while the active entry is not the newest discards
// every newer entry first, so an abandoned redo branch is unreachable.
// The log never grows past its limit; the oldest entry is dropped
// instead.
//
// Every operation is total: undo with nothing to undo is a successful
// no-op, never an error.
package history

import (
	"sync"

	"github.com/danieljohnbyns/designclo"
	"github.com/danieljohnbyns/designclo/idgen"
	"github.com/danieljohnbyns/designclo/layer"
)

// DefaultLimit is the maximum number of entries kept.
const DefaultLimit = 50

// InitialBaseColor is the base colour of the first entry.
const InitialBaseColor = "#ffffff"

// Entry is an immutable snapshot.
type Entry struct {
	ID        string
	Label     string
	BaseColor string
	Layers    layer.List

	// Active is set on copies returned by Entries and Current.
	Active bool
}

// Log is the undo/redo log. Safe for concurrent use.
type Log struct {
	mu      sync.Mutex
	entries []Entry
	active  int
	limit   int
	ids     idgen.Generator
}

// New returns a log holding one active entry with the initial base colour
// and no layers.
func New(opts ...Option) *Log {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	l := &Log{limit: o.limit, ids: o.ids}
	l.entries = []Entry{{ID: l.ids(), BaseColor: o.initial}}
	return l
}

// Commit records a new active entry and returns it.
func (l *Log) Commit(baseColor string, layers layer.List) Entry {
	return l.Record("", baseColor, layers)
}

// Record is Commit with a label describing the change.
func (l *Log) Record(label, baseColor string, layers layer.List) Entry {
	l.mu.Lock()
	defer l.mu.Unlock()

	discarded := len(l.entries) - 1 - l.active
	if discarded > 0 {
		clear(l.entries[l.active+1:])
		l.entries = l.entries[:l.active+1]
	}
	e := Entry{ID: l.ids(), Label: label, BaseColor: baseColor, Layers: layers}
	l.entries = append(l.entries, e)
	evicted := 0
	for len(l.entries) > l.limit {
		l.entries[0] = Entry{}
		l.entries = l.entries[1:]
		evicted++
	}
	l.active = len(l.entries) - 1

	designclo.Logger().Debug("history: commit",
		"label", label, "len", len(l.entries), "discarded", discarded, "evicted", evicted)
	e.Active = true
	return e
}

// Undo activates the previous entry and returns it. With no previous entry
// it returns false and changes nothing.
func (l *Log) Undo() (Entry, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.active == 0 {
		return Entry{}, false
	}
	l.active--
	return l.currentLocked(), true
}

// Redo activates the next entry and returns it. With no next entry it
// returns false and changes nothing.
func (l *Log) Redo() (Entry, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.active >= len(l.entries)-1 {
		return Entry{}, false
	}
	l.active++
	return l.currentLocked(), true
}

func (l *Log) currentLocked() Entry {
	e := l.entries[l.active]
	e.Active = true
	return e
}

// Current returns the active entry.
func (l *Log) Current() Entry {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.currentLocked()
}

// ActiveIndex returns the position of the active entry.
func (l *Log) ActiveIndex() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.active
}

// Len returns the number of entries.
func (l *Log) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.entries)
}

// Limit returns the maximum number of entries.
func (l *Log) Limit() int { return l.limit }

// UndoCount returns how many undo steps are available.
func (l *Log) UndoCount() int { return l.ActiveIndex() }

// RedoCount returns how many redo steps are available.
func (l *Log) RedoCount() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.entries) - 1 - l.active
}

// CanUndo reports whether Undo would change the active entry.
func (l *Log) CanUndo() bool { return l.UndoCount() > 0 }

// CanRedo reports whether Redo would change the active entry.
func (l *Log) CanRedo() bool { return l.RedoCount() > 0 }

// Entries returns a copy of the log, oldest first, with Active set on the
// active entry.
func (l *Log) Entries() []Entry {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]Entry, len(l.entries))
	copy(out, l.entries)
	out[l.active].Active = true
	return out
}

// Reset discards every entry and starts over with a single active entry.
func (l *Log) Reset(baseColor string, layers layer.List) Entry {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries = []Entry{{ID: l.ids(), BaseColor: baseColor, Layers: layers}}
	l.active = 0
	return l.currentLocked()
}

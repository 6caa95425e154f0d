// Copyright 2026 The designclo Authors
// SPDX-License-Identifier: MIT

// Package asset holds the decoded images a user can place as image
// layers.
//
// A [Library] keeps assets in insertion order with at most one selected.
// The selected asset is the bitmap the next image layer will reference.
// [Watcher] reports image files appearing in or changing under a
// directory so hosts can keep a library in sync with disk.
package asset

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/danieljohnbyns/designclo"
	"github.com/danieljohnbyns/designclo/idgen"
	"github.com/danieljohnbyns/designclo/layer"
)

// Asset is a decoded image available for placement.
type Asset struct {
	ID     string
	Source string
	Bitmap *layer.Bitmap

	// Active is set on the selected asset in copies returned by the
	// library.
	Active bool
}

// Library is an ordered asset collection. Safe for concurrent use.
type Library struct {
	mu     sync.RWMutex
	items  []Asset
	active string
	ids    idgen.Generator
}

// NewLibrary returns an empty library.
func NewLibrary(opts ...Option) *Library {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return &Library{ids: o.ids}
}

// Add stores bm under source. Adding a source already present replaces its
// bitmap and keeps its id and selection.
func (l *Library) Add(source string, bm *layer.Bitmap) Asset {
	l.mu.Lock()
	defer l.mu.Unlock()
	for i := range l.items {
		if l.items[i].Source == source {
			l.items[i].Bitmap = bm
			return l.withActive(l.items[i])
		}
	}
	a := Asset{ID: l.ids(), Source: source, Bitmap: bm}
	l.items = append(l.items, a)
	designclo.Logger().Debug("asset: added", "id", a.ID, "source", source)
	return a
}

// Load decodes r and adds the result under source.
func (l *Library) Load(source string, r io.Reader) (Asset, error) {
	img, _, err := Decode(r)
	if err != nil {
		designclo.Logger().Warn("asset: decode failed", "source", source, "error", err)
		return Asset{}, fmt.Errorf("%s: %w", source, err)
	}
	return l.Add(source, layer.NewBitmap(source, img)), nil
}

// LoadBytes is Load for in-memory data.
func (l *Library) LoadBytes(source string, data []byte) (Asset, error) {
	return l.Load(source, bytes.NewReader(data))
}

// LoadFile decodes the file at path and adds it with path as source.
func (l *Library) LoadFile(path string) (Asset, error) {
	f, err := os.Open(path)
	if err != nil {
		return Asset{}, fmt.Errorf("asset: open: %w", err)
	}
	defer f.Close()
	return l.Load(path, f)
}

// Select makes id the only active asset.
func (l *Library) Select(id string) (Asset, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, a := range l.items {
		if a.ID == id {
			l.active = id
			a.Active = true
			return a, true
		}
	}
	return Asset{}, false
}

// DeselectAll clears the selection.
func (l *Library) DeselectAll() {
	l.mu.Lock()
	l.active = ""
	l.mu.Unlock()
}

// Active returns the selected asset.
func (l *Library) Active() (Asset, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	if l.active == "" {
		return Asset{}, false
	}
	for _, a := range l.items {
		if a.ID == l.active {
			a.Active = true
			return a, true
		}
	}
	return Asset{}, false
}

// Get returns the asset with id.
func (l *Library) Get(id string) (Asset, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	for _, a := range l.items {
		if a.ID == id {
			return l.withActive(a), true
		}
	}
	return Asset{}, false
}

// Remove deletes the asset with id, clearing the selection if it was
// selected.
func (l *Library) Remove(id string) bool {
	return l.removeFunc(func(a Asset) bool { return a.ID == id })
}

// RemoveSource deletes the asset loaded from source.
func (l *Library) RemoveSource(source string) bool {
	return l.removeFunc(func(a Asset) bool { return a.Source == source })
}

func (l *Library) removeFunc(match func(Asset) bool) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	for i, a := range l.items {
		if !match(a) {
			continue
		}
		l.items = append(l.items[:i:i], l.items[i+1:]...)
		if l.active == a.ID {
			l.active = ""
		}
		return true
	}
	return false
}

// List returns every asset in insertion order.
func (l *Library) List() []Asset {
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := make([]Asset, len(l.items))
	for i, a := range l.items {
		out[i] = l.withActive(a)
	}
	return out
}

// Len returns the number of assets.
func (l *Library) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.items)
}

func (l *Library) withActive(a Asset) Asset {
	a.Active = a.ID == l.active
	return a
}

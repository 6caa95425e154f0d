// Copyright 2026 The designclo Authors
// SPDX-License-Identifier: MIT

package layer

import (
	"errors"
	"fmt"
	"iter"
	"slices"
)

var (
	// ErrDuplicateID is returned when a layer id is already in the list.
	ErrDuplicateID = errors.New("layer: duplicate id")

	// ErrNotFound is returned when no layer has the requested id.
	ErrNotFound = errors.New("layer: not found")
)

// List is an immutable ordered sequence of layers. Index 0 is the bottom
// of the stack. The zero value is an empty list.
//
// Operations that change the order or membership return a new List backed
// by a fresh slice. Layer values are shared between lists.
type List struct {
	items []Layer
}

// NewList builds a list from layers, rejecting duplicate ids.
func NewList(layers ...Layer) (List, error) {
	seen := make(map[string]struct{}, len(layers))
	for _, l := range layers {
		id := l.Place().ID
		if _, ok := seen[id]; ok {
			return List{}, fmt.Errorf("%w: %q", ErrDuplicateID, id)
		}
		seen[id] = struct{}{}
	}
	return List{items: slices.Clone(layers)}, nil
}

// Len returns the number of layers.
func (l List) Len() int { return len(l.items) }

// At returns the layer at index i.
func (l List) At(i int) Layer { return l.items[i] }

// All iterates layers bottom to top.
func (l List) All() iter.Seq2[int, Layer] {
	return func(yield func(int, Layer) bool) {
		for i, item := range l.items {
			if !yield(i, item) {
				return
			}
		}
	}
}

// Layers returns a copy of the underlying slice.
func (l List) Layers() []Layer { return slices.Clone(l.items) }

// Index returns the position of id, or -1.
func (l List) Index(id string) int {
	for i, item := range l.items {
		if item.Place().ID == id {
			return i
		}
	}
	return -1
}

// Find returns the layer with the given id.
func (l List) Find(id string) (Layer, bool) {
	if i := l.Index(id); i >= 0 {
		return l.items[i], true
	}
	return nil, false
}

// Append returns a new list with layer on top.
func (l List) Append(layer Layer) (List, error) {
	id := layer.Place().ID
	if l.Index(id) >= 0 {
		return l, fmt.Errorf("%w: %q", ErrDuplicateID, id)
	}
	items := make([]Layer, len(l.items), len(l.items)+1)
	copy(items, l.items)
	return List{items: append(items, layer)}, nil
}

// Replace returns a new list where the layer sharing layer's id is
// swapped for layer.
func (l List) Replace(layer Layer) (List, error) {
	id := layer.Place().ID
	i := l.Index(id)
	if i < 0 {
		return l, fmt.Errorf("%w: %q", ErrNotFound, id)
	}
	items := slices.Clone(l.items)
	items[i] = layer
	return List{items: items}, nil
}

// Remove returns a new list without id. The bool reports whether a layer
// was removed; when false the receiver is returned unchanged.
func (l List) Remove(id string) (List, bool) {
	i := l.Index(id)
	if i < 0 {
		return l, false
	}
	items := make([]Layer, 0, len(l.items)-1)
	items = append(items, l.items[:i]...)
	items = append(items, l.items[i+1:]...)
	return List{items: items}, true
}

// MoveUp swaps id with the layer above it. Moving the topmost layer or an
// unknown id returns the receiver and false.
func (l List) MoveUp(id string) (List, bool) {
	i := l.Index(id)
	if i < 0 || i >= len(l.items)-1 {
		return l, false
	}
	return l.swap(i, i+1), true
}

// MoveDown swaps id with the layer below it. Moving the bottom layer or an
// unknown id returns the receiver and false.
func (l List) MoveDown(id string) (List, bool) {
	i := l.Index(id)
	if i <= 0 {
		return l, false
	}
	return l.swap(i, i-1), true
}

func (l List) swap(i, j int) List {
	items := slices.Clone(l.items)
	items[i], items[j] = items[j], items[i]
	return List{items: items}
}

// Equal reports whether both lists hold equal layers in the same order.
func (l List) Equal(o List) bool {
	return slices.EqualFunc(l.items, o.items, func(a, b Layer) bool { return a == b })
}

// IDs returns layer ids bottom to top.
func (l List) IDs() []string {
	ids := make([]string, len(l.items))
	for i, item := range l.items {
		ids[i] = item.Place().ID
	}
	return ids
}

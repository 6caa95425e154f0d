// Copyright 2026 The designclo Authors
// SPDX-License-Identifier: MIT

package editor

import (
	"errors"
	"fmt"
	"math"

	"github.com/danieljohnbyns/designclo/layer"
)

// ErrNoAdjustment is returned when no adjustment is in progress.
var ErrNoAdjustment = errors.New("editor: no adjustment in progress")

// Adjustment limits.
const (
	MaxRotation = 360
	SizeWindow  = 256
	nudgeScale  = 128
)

// Draft is a layer or base colour being adjusted continuously. Changes
// show up in Editor.Frame immediately and reach history once, when the
// adjustment ends. A draft that was ended, cancelled or superseded
// ignores further changes.
type Draft struct {
	e    *Editor
	base bool
	done bool

	orig layer.Layer
	cur  layer.Layer

	origBase string
	curBase  string
}

func (d *Draft) changed() bool {
	if d.base {
		orig, err := canonicalColor(d.origBase)
		return err != nil || d.curBase != orig
	}
	return d.orig != d.cur
}

// BeginAdjustment starts adjusting layer id, which also becomes the
// editing target. An adjustment already in progress is ended first.
func (e *Editor) BeginAdjustment(id string) (*Draft, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return nil, ErrClosed
	}
	e.endDraftLocked(true)
	l, ok := e.layers.Find(id)
	if !ok {
		return nil, fmt.Errorf("editor: layer %q: %w", id, layer.ErrNotFound)
	}
	d := &Draft{e: e, orig: l, cur: l}
	e.draft = d
	e.editing = id
	e.publishLocked()
	return d, nil
}

// BeginBaseColorAdjustment starts adjusting the base colour.
func (e *Editor) BeginBaseColorAdjustment() (*Draft, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return nil, ErrClosed
	}
	e.endDraftLocked(true)
	d := &Draft{e: e, base: true, origBase: e.base, curBase: e.base}
	e.draft = d
	e.publishLocked()
	return d, nil
}

// EndAdjustment commits the draft in progress if it changed anything
// and reports whether a history entry was recorded.
func (e *Editor) EndAdjustment() (bool, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.draft == nil {
		return false, ErrNoAdjustment
	}
	return e.endDraftLocked(true), nil
}

// CancelAdjustment drops the draft in progress.
func (e *Editor) CancelAdjustment() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.draft == nil {
		return ErrNoAdjustment
	}
	e.endDraftLocked(false)
	return nil
}

// Adjusting reports whether a draft is in progress.
func (e *Editor) Adjusting() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.draft != nil
}

// update applies fn to a live layer draft and republishes.
func (d *Draft) update(fn func(l layer.Layer) layer.Layer) bool {
	d.e.mu.Lock()
	defer d.e.mu.Unlock()
	if d.done || d.base || d.e.draft != d {
		return false
	}
	d.cur = fn(d.cur)
	d.e.publishLocked()
	return true
}

// Layer returns the draft layer, or nil for a base colour draft.
func (d *Draft) Layer() layer.Layer {
	d.e.mu.Lock()
	defer d.e.mu.Unlock()
	return d.cur
}

// BaseColor returns the draft base colour.
func (d *Draft) BaseColor() string {
	d.e.mu.Lock()
	defer d.e.mu.Unlock()
	if d.base {
		return d.curBase
	}
	return d.e.base
}

// SetPosition moves the layer, clamped to [0, 100] on both axes.
func (d *Draft) SetPosition(p layer.Point) bool {
	p = layer.Point{X: clamp(p.X, 0, 100), Y: clamp(p.Y, 0, 100)}
	return d.update(func(l layer.Layer) layer.Layer {
		pl := l.Place()
		pl.Position = p
		return l.WithPlace(pl)
	})
}

// SetRotation sets the rotation in degrees, clamped to [-360, 360].
func (d *Draft) SetRotation(deg float64) bool {
	deg = clamp(deg, -MaxRotation, MaxRotation)
	return d.update(func(l layer.Layer) layer.Layer {
		pl := l.Place()
		pl.Rotation = deg
		return l.WithPlace(pl)
	})
}

// SizeRange is the range offered for the size field: within 256 of the
// size when the adjustment began, capped at the texture width.
func (d *Draft) SizeRange() (lo, hi float64) {
	d.e.mu.Lock()
	defer d.e.mu.Unlock()
	size := layerSize(d.orig)
	return max(size-SizeWindow, 0), min(size+SizeWindow, float64(d.e.width))
}

// SetSize sets the font size or image long edge, clamped to
// [1, texture width].
func (d *Draft) SetSize(size float64) bool {
	size = clamp(size, 1, float64(d.e.width))
	return d.update(func(l layer.Layer) layer.Layer {
		switch v := l.(type) {
		case layer.Text:
			return v.WithSize(size)
		case layer.Image:
			return v.WithSize(size)
		}
		return l
	})
}

// SetColor sets a text layer's fill. Invalid colours and image layers
// are ignored.
func (d *Draft) SetColor(hex string) bool {
	hex, err := canonicalColor(hex)
	if err != nil {
		return false
	}
	ok := false
	d.update(func(l layer.Layer) layer.Layer {
		if t, isText := l.(layer.Text); isText {
			ok = true
			return t.WithColor(hex)
		}
		return l
	})
	return ok
}

// SetBaseColor changes a base colour draft.
func (d *Draft) SetBaseColor(hex string) error {
	hex, err := canonicalColor(hex)
	if err != nil {
		return err
	}
	d.e.mu.Lock()
	defer d.e.mu.Unlock()
	if d.done || !d.base || d.e.draft != d {
		return ErrNoAdjustment
	}
	d.curBase = hex
	d.e.publishLocked()
	return nil
}

// Nudge moves the layer by a joystick delta. The step grows with the
// camera distance and shrinks with the texture size.
func (d *Draft) Nudge(dx, dy float64) bool {
	d.e.mu.Lock()
	zoom := d.e.distance * 0.1
	w, h := float64(d.e.width), float64(d.e.height)
	d.e.mu.Unlock()

	return d.update(func(l layer.Layer) layer.Layer {
		pl := l.Place()
		pl.Position.X = clamp(pl.Position.X+dx*nudgeScale*zoom/w, 0, 100)
		pl.Position.Y = clamp(pl.Position.Y+dy*nudgeScale*zoom/h, 0, 100)
		return l.WithPlace(pl)
	})
}

// End commits this draft. See Editor.EndAdjustment.
func (d *Draft) End() (bool, error) {
	d.e.mu.Lock()
	defer d.e.mu.Unlock()
	if d.done || d.e.draft != d {
		return false, ErrNoAdjustment
	}
	return d.e.endDraftLocked(true), nil
}

// Cancel drops this draft. See Editor.CancelAdjustment.
func (d *Draft) Cancel() error {
	d.e.mu.Lock()
	defer d.e.mu.Unlock()
	if d.done || d.e.draft != d {
		return ErrNoAdjustment
	}
	d.e.endDraftLocked(false)
	return nil
}

func layerSize(l layer.Layer) float64 {
	switch v := l.(type) {
	case layer.Text:
		return v.Size
	case layer.Image:
		return v.Size
	}
	return 0
}

func clamp(v, lo, hi float64) float64 {
	if math.IsNaN(v) {
		return lo
	}
	return math.Max(lo, math.Min(hi, v))
}

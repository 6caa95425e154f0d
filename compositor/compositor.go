// Copyright 2026 The designclo Authors
// SPDX-License-Identifier: MIT

// Package compositor repaints the garment texture from the editor state.
//
// A repaint is a pure function of (base colour, layers, selected id): the
// surface is cleared to the base colour and every layer is drawn bottom
// to top, so calling it every frame never accumulates state. [Loop] drives
// repaints from a [StateSource] that is read fresh on each tick.
package compositor

import (
	"errors"
	"fmt"
	"math"

	"github.com/gogpu/gg"

	"github.com/danieljohnbyns/designclo/layer"
	"github.com/danieljohnbyns/designclo/surface"
)

// ErrInvalidColor is returned when the base colour is not a hex colour.
var ErrInvalidColor = errors.New("compositor: invalid base color")

// State is everything a repaint depends on.
type State struct {
	BaseColor string
	Layers    layer.List
	Selected  string
}

// Equal reports whether a repaint of s and o would produce the same pixels.
func (s State) Equal(o State) bool {
	return s.BaseColor == o.BaseColor && s.Selected == o.Selected && s.Layers.Equal(o.Layers)
}

// StateSource yields the state to paint. Implementations must return a
// consistent snapshot on every call.
type StateSource interface {
	Frame() State
}

// StateFunc adapts a function to StateSource.
type StateFunc func() State

// Frame calls f.
func (f StateFunc) Frame() State { return f() }

// Compositor paints states onto surfaces.
type Compositor struct {
	faces layer.FaceSource
	sel   SelectionStyle
}

// New returns a compositor resolving fonts through faces.
func New(faces layer.FaceSource, opts ...Option) *Compositor {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return &Compositor{faces: faces, sel: o.selection}
}

// Repaint redraws tex from st and marks it for upload. A nil texture or an
// empty base colour is a no-op.
func (c *Compositor) Repaint(tex *surface.Texture, st State) error {
	if tex == nil || st.BaseColor == "" {
		return nil
	}
	base, err := gg.ParseHex(st.BaseColor)
	if err != nil {
		return fmt.Errorf("%w: %q", ErrInvalidColor, st.BaseColor)
	}
	return tex.Draw(func(dc *gg.Context) {
		c.paint(dc, base, st)
	})
}

// Paint draws st directly onto dc.
func (c *Compositor) Paint(dc *gg.Context, st State) error {
	if st.BaseColor == "" {
		return nil
	}
	base, err := gg.ParseHex(st.BaseColor)
	if err != nil {
		return fmt.Errorf("%w: %q", ErrInvalidColor, st.BaseColor)
	}
	c.paint(dc, base, st)
	return nil
}

func (c *Compositor) paint(dc *gg.Context, base gg.RGBA, st State) {
	dc.ClearWithColor(base)
	w, h := dc.Width(), dc.Height()
	for _, l := range st.Layers.All() {
		p := l.Place()
		x, y := p.Position.Pixels(w, h)

		dc.Push()
		dc.Translate(x, y)
		// Texture space is flipped vertically relative to UV space.
		dc.Scale(1, -1)
		dc.Rotate(p.Rotation * math.Pi / 180)

		dc.ClearPath()
		l.Draw(dc, c.faces)
		if st.Selected != "" && p.ID == st.Selected {
			c.outline(dc, l.Outline(c.faces))
		}
		dc.Pop()
	}
}

func (c *Compositor) outline(dc *gg.Context, r layer.Rect) {
	dc.ClearPath()
	dc.SetHexColor(c.sel.Color)
	dc.SetLineWidth(c.sel.Width)
	if len(c.sel.Dash) > 0 {
		dc.SetDash(c.sel.Dash...)
	}
	dc.DrawRectangle(r.X, r.Y, r.W, r.H)
	_ = dc.Stroke()
	dc.ClearDash()
}

// Repaint redraws tex with a one-off compositor.
func Repaint(tex *surface.Texture, st State, faces layer.FaceSource) error {
	return New(faces).Repaint(tex, st)
}

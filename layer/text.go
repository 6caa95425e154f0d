// Copyright 2026 The designclo Authors
// SPDX-License-Identifier: MIT

package layer

import (
	"github.com/gogpu/gg"
	"github.com/gogpu/gg/text"
	"golang.org/x/text/unicode/norm"
)

// Defaults applied to newly placed text layers.
const (
	DefaultText  = "Text"
	DefaultFont  = "Arial"
	DefaultSize  = 32
	DefaultColor = "#000000"

	// Placeholder is drawn in place of empty text.
	Placeholder = "No Text"

	// OutlinePadding surrounds the measured text in the selection outline.
	OutlinePadding = 8
)

// Text is a text layer.
type Text struct {
	Placement

	Text  string
	Font  string
	Size  float64
	Color string
}

var _ Layer = Text{}

// NewText returns a text layer with default content, font, size and colour.
func NewText(place Placement) Text {
	return Text{
		Placement: place,
		Text:      DefaultText,
		Font:      DefaultFont,
		Size:      DefaultSize,
		Color:     DefaultColor,
	}
}

func (t Text) Kind() Kind       { return KindText }
func (t Text) Place() Placement { return t.Placement }

func (t Text) WithPlace(p Placement) Layer {
	t.Placement = p
	return t
}

// WithText returns a copy of t holding s in NFC form.
func (t Text) WithText(s string) Text {
	t.Text = norm.NFC.String(s)
	return t
}

// WithFont returns a copy of t using family.
func (t Text) WithFont(family string) Text {
	t.Font = family
	return t
}

// WithSize returns a copy of t with the given pixel size.
func (t Text) WithSize(size float64) Text {
	t.Size = size
	return t
}

// WithColor returns a copy of t with the given hex colour.
func (t Text) WithColor(hex string) Text {
	t.Color = hex
	return t
}

// Display returns the string actually drawn.
func (t Text) Display() string {
	if t.Text == "" {
		return Placeholder
	}
	return t.Text
}

// Fill returns the fill colour, defaulting to black.
func (t Text) Fill() string {
	if t.Color == "" {
		return DefaultColor
	}
	return t.Color
}

func (t Text) face(faces FaceSource) text.Face {
	if faces == nil || t.Size <= 0 {
		return nil
	}
	return faces.Face(t.Font, t.Size)
}

// Draw paints the text centred on the origin on both axes.
func (t Text) Draw(dc *gg.Context, faces FaceSource) {
	face := t.face(faces)
	if face == nil {
		return
	}
	dc.SetFont(face)
	dc.SetHexColor(t.Fill())
	dc.DrawStringAnchored(t.Display(), 0, 0, 0.5, 0.5)
}

// Width returns the measured advance of the displayed text.
func (t Text) Width(faces FaceSource) float64 {
	face := t.face(faces)
	if face == nil {
		return 0
	}
	w, _ := text.Measure(t.Display(), face)
	return w
}

// Outline pads the measured width and the nominal size by OutlinePadding.
func (t Text) Outline(faces FaceSource) Rect {
	w := t.Width(faces)
	return Rect{
		X: -w/2 - OutlinePadding,
		Y: -t.Size/2 - OutlinePadding,
		W: w + 2*OutlinePadding,
		H: t.Size + 2*OutlinePadding,
	}
}

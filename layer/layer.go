// Copyright 2026 The designclo Authors
// SPDX-License-Identifier: MIT

// Package layer defines the text and image layers composited onto a
// garment texture and the persistent list that orders them.
//
// Layers are values. Every modification returns a new value, and a [List]
// never changes after construction, so history snapshots can share layers
// without copying them.
package layer

import (
	"github.com/gogpu/gg"
	"github.com/gogpu/gg/text"
)

// Kind identifies a layer variant.
type Kind uint8

const (
	// KindText is a run of text drawn with a named font.
	KindText Kind = iota + 1

	// KindImage is a decoded bitmap scaled to a target long edge.
	KindImage
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindText:
		return "text"
	case KindImage:
		return "image"
	default:
		return "unknown"
	}
}

// Point is a position in texture space expressed as percentages (0 to 100)
// of the texture width and height.
type Point struct {
	X, Y float64
}

// Pixels converts p to surface pixel coordinates for a w by h surface.
func (p Point) Pixels(w, h int) (x, y float64) {
	return p.X * float64(w) / 100, p.Y * float64(h) / 100
}

// Placement holds the attributes shared by every layer variant.
type Placement struct {
	// ID is unique within a List and stable for the layer's lifetime.
	ID string

	// Position is the layer centre in percentage space.
	Position Point

	// Rotation is in degrees. Signed and unbounded.
	Rotation float64
}

// Rect is an axis-aligned rectangle in layer-local coordinates.
type Rect struct {
	X, Y, W, H float64
}

// FaceSource resolves a font family and pixel size to a face.
// Unknown families resolve to a fallback face; a nil result skips text.
type FaceSource interface {
	Face(family string, size float64) text.Face
}

// Layer is implemented by [Text] and [Image].
//
// Draw and Outline work in layer-local coordinates: the origin is the layer
// centre and the caller has already applied translation, flip and
// rotation.
type Layer interface {
	Kind() Kind
	Place() Placement
	WithPlace(Placement) Layer

	// Draw paints the layer content centred on the origin.
	Draw(dc *gg.Context, faces FaceSource)

	// Outline returns the selection rectangle around the content.
	Outline(faces FaceSource) Rect
}

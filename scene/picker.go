// Copyright 2026 The designclo Authors
// SPDX-License-Identifier: MIT

package scene

import "image"

// PlanePicker picks on a flat textured quad drawn into a screen
// rectangle. With FlipY set the quad is shown the way the garment
// samples the texture, so v grows upward on screen.
type PlanePicker struct {
	Rect   image.Rectangle
	FlipY  bool
	Object string
}

// Pick maps (x, y) to texture space when it falls inside Rect.
func (p PlanePicker) Pick(x, y float64) (Hit, bool) {
	r := p.Rect
	if r.Empty() {
		return Hit{}, false
	}
	if x < float64(r.Min.X) || x >= float64(r.Max.X) || y < float64(r.Min.Y) || y >= float64(r.Max.Y) {
		return Hit{}, false
	}
	u := (x - float64(r.Min.X)) / float64(r.Dx())
	v := (y - float64(r.Min.Y)) / float64(r.Dy())
	if p.FlipY {
		v = 1 - v
	}
	return Hit{UV: UV{X: u, Y: v}, Object: p.Object}, true
}

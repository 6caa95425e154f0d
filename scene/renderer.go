// Copyright 2026 The designclo Authors
// SPDX-License-Identifier: MIT

package scene

import (
	"fmt"
	"image"
	"math"
	"sync"

	"github.com/gogpu/gg"

	"github.com/danieljohnbyns/designclo/surface"
)

// minFacing keeps an edge-on quad visible.
const minFacing = 0.1

// FlatRenderer stands in for the garment renderer in headless tools. It
// draws the texture as a quad at the origin seen from the camera: the
// quad shrinks with distance, narrows as the camera orbits sideways and
// is mirrored from behind. Everything outside the quad is transparent.
type FlatRenderer struct {
	tex    *surface.Texture
	cam    Camera
	width  int
	height int

	// RefDistance is the camera distance at which the quad spans the
	// shorter frame side.
	RefDistance float64

	mu   sync.Mutex
	last *image.RGBA
}

// NewFlatRenderer returns a renderer producing width x height frames.
func NewFlatRenderer(tex *surface.Texture, cam Camera, width, height int) *FlatRenderer {
	return &FlatRenderer{
		tex:         tex,
		cam:         cam,
		width:       width,
		height:      height,
		RefDistance: Home.Position.Len(),
	}
}

// Render draws one frame.
func (r *FlatRenderer) Render() error {
	if r.tex == nil || r.cam == nil {
		return ErrNotReady
	}
	src, err := r.tex.Snapshot()
	if err != nil {
		return fmt.Errorf("scene: render: %w", err)
	}

	dc := gg.NewContext(r.width, r.height)
	defer func() { _ = dc.Close() }()
	dc.ClearWithColor(gg.Transparent)

	p := r.cam.Position()
	dist := p.Len()
	if dist == 0 {
		dist = r.RefDistance
	}
	side := float64(min(r.width, r.height)) * r.RefDistance / dist
	facing := math.Cos(math.Atan2(p.X, p.Z))
	if math.Abs(facing) < minFacing {
		facing = math.Copysign(minFacing, facing)
	}

	dc.Push()
	dc.Translate(float64(r.width)/2, float64(r.height)/2)
	dc.Scale(facing, -1)
	dc.DrawImageEx(gg.ImageBufFromImage(src), gg.DrawImageOptions{
		X:         -side / 2,
		Y:         -side / 2,
		DstWidth:  side,
		DstHeight: side,
	})
	dc.Pop()

	frame := dc.ResizeTarget().ToImage()
	r.mu.Lock()
	r.last = frame
	r.mu.Unlock()
	return nil
}

// Snapshot returns the last rendered frame.
func (r *FlatRenderer) Snapshot() (image.Image, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.last == nil {
		return nil, ErrNotReady
	}
	return r.last, nil
}

// Copyright 2026 The designclo Authors
// SPDX-License-Identifier: MIT

package layer

import (
	"image"

	"github.com/gogpu/gg"
)

// Bitmap is an owned, decoded image shared by every layer and asset that
// references it. It never changes after construction.
type Bitmap struct {
	name string
	img  image.Image
	buf  *gg.ImageBuf
}

// NewBitmap wraps img. The name is informational (usually the source path
// or URL).
func NewBitmap(name string, img image.Image) *Bitmap {
	return &Bitmap{
		name: name,
		img:  img,
		buf:  gg.ImageBufFromImage(img),
	}
}

// Name returns the bitmap name.
func (b *Bitmap) Name() string { return b.name }

// Image returns the decoded image.
func (b *Bitmap) Image() image.Image { return b.img }

// Buffer returns the raster buffer used for drawing.
func (b *Bitmap) Buffer() *gg.ImageBuf { return b.buf }

// Width returns the bitmap width in pixels.
func (b *Bitmap) Width() int { return b.img.Bounds().Dx() }

// Height returns the bitmap height in pixels.
func (b *Bitmap) Height() int { return b.img.Bounds().Dy() }

// ScaledSize fits a w by h source so that its longer edge equals size.
// Square sources scale both edges to size.
func ScaledSize(w, h int, size float64) (sw, sh float64) {
	if w <= 0 || h <= 0 {
		return 0, 0
	}
	aspect := float64(w) / float64(h)
	if aspect > 1 {
		return size, size / aspect
	}
	return size * aspect, size
}

// Image is an image layer.
type Image struct {
	Placement

	Bitmap *Bitmap

	// Size is the target length of the longer edge in pixels.
	Size float64
}

var _ Layer = Image{}

// NewImage returns an image layer drawing bm with its long edge at size.
func NewImage(place Placement, bm *Bitmap, size float64) Image {
	return Image{Placement: place, Bitmap: bm, Size: size}
}

func (m Image) Kind() Kind       { return KindImage }
func (m Image) Place() Placement { return m.Placement }

func (m Image) WithPlace(p Placement) Layer {
	m.Placement = p
	return m
}

// WithSize returns a copy of m with a new long-edge size.
func (m Image) WithSize(size float64) Image {
	m.Size = size
	return m
}

// WithBitmap returns a copy of m drawing bm.
func (m Image) WithBitmap(bm *Bitmap) Image {
	m.Bitmap = bm
	return m
}

// Scaled returns the drawn width and height.
func (m Image) Scaled() (w, h float64) {
	if m.Bitmap == nil {
		return 0, 0
	}
	return ScaledSize(m.Bitmap.Width(), m.Bitmap.Height(), m.Size)
}

// Draw paints the bitmap centred on the origin.
func (m Image) Draw(dc *gg.Context, _ FaceSource) {
	w, h := m.Scaled()
	if w <= 0 || h <= 0 {
		return
	}
	dc.DrawImageEx(m.Bitmap.Buffer(), gg.DrawImageOptions{
		X:         -w / 2,
		Y:         -h / 2,
		DstWidth:  w,
		DstHeight: h,
	})
}

// Outline is the scaled image rectangle.
func (m Image) Outline(FaceSource) Rect {
	w, h := m.Scaled()
	return Rect{X: -w / 2, Y: -h / 2, W: w, H: h}
}

// Copyright 2026 The designclo Authors
// SPDX-License-Identifier: MIT

package export

import (
	"image"

	"github.com/anthonynsimon/bild/clone"
	"github.com/anthonynsimon/bild/transform"
)

// CropAlpha crops img to the bounding box of its pixels with non-zero
// alpha. A fully transparent image is returned whole. The result always
// has a zero origin.
func CropAlpha(img image.Image) *image.RGBA {
	src := clone.AsShallowRGBA(img)
	box := opaqueBounds(src)
	if box.Empty() {
		box = src.Bounds()
	}
	out := transform.Crop(src, box)
	out.Rect = image.Rect(0, 0, box.Dx(), box.Dy())
	return out
}

func opaqueBounds(img *image.RGBA) image.Rectangle {
	b := img.Bounds()
	box := image.Rectangle{}
	found := false
	for y := b.Min.Y; y < b.Max.Y; y++ {
		row := img.Pix[img.PixOffset(b.Min.X, y):]
		for x := 0; x < b.Dx(); x++ {
			if row[x*4+3] == 0 {
				continue
			}
			p := image.Pt(b.Min.X+x, y)
			if !found {
				box = image.Rectangle{Min: p, Max: p.Add(image.Pt(1, 1))}
				found = true
				continue
			}
			box.Min.X = min(box.Min.X, p.X)
			box.Min.Y = min(box.Min.Y, p.Y)
			box.Max.X = max(box.Max.X, p.X+1)
			box.Max.Y = max(box.Max.Y, p.Y+1)
		}
	}
	return box
}

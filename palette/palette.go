// Copyright 2026 The designclo Authors
// SPDX-License-Identifier: MIT

// Package palette derives colour presets from the layers of a design.
//
// Image layers contribute the average colour of each cell of a small grid
// laid over the bitmap; text layers contribute their fill colour. The
// result is de-duplicated in first-seen order. Extraction is best effort
// and runs off the editing path through [Extractor].
package palette

import (
	"context"
	"fmt"
	"image"
	"math"
	"runtime"
	"strings"

	"github.com/anthonynsimon/bild/clone"
	"golang.org/x/sync/errgroup"

	"github.com/danieljohnbyns/designclo/layer"
)

// DefaultGrid is the number of cells per axis sampled from image layers.
const DefaultGrid = 2

// GridAverage splits img into an n by n grid and returns the average
// straight (non-premultiplied) RGB colour of each cell as "#rrggbb", row
// by row. Cells that receive no pixels are black.
func GridAverage(img image.Image, n int) []string {
	if n < 1 {
		n = 1
	}
	type acc struct{ r, g, b, count uint64 }
	cells := make([]acc, n*n)

	rgba := clone.AsShallowRGBA(img)
	b := rgba.Bounds()
	w, h := b.Dx(), b.Dy()
	segW, segH := float64(w)/float64(n), float64(h)/float64(n)

	for y := range h {
		row := min(n-1, int(math.Floor(float64(y)/segH))) * n
		off := rgba.PixOffset(b.Min.X, b.Min.Y+y)
		for x := range w {
			col := min(n-1, int(math.Floor(float64(x)/segW)))
			p := rgba.Pix[off+4*x : off+4*x+4 : off+4*x+4]
			r, g, bl := unpremultiply(p[0], p[1], p[2], p[3])
			c := &cells[row+col]
			c.r += uint64(r)
			c.g += uint64(g)
			c.b += uint64(bl)
			c.count++
		}
	}

	out := make([]string, len(cells))
	for i, c := range cells {
		if c.count == 0 {
			out[i] = "#000000"
			continue
		}
		out[i] = hex(round(c.r, c.count), round(c.g, c.count), round(c.b, c.count))
	}
	return out
}

func unpremultiply(r, g, b, a uint8) (uint8, uint8, uint8) {
	switch a {
	case 0:
		return 0, 0, 0
	case 255:
		return r, g, b
	}
	f := func(v uint8) uint8 {
		return uint8(min(255, (uint32(v)*255+uint32(a)/2)/uint32(a)))
	}
	return f(r), f(g), f(b)
}

func round(sum, n uint64) uint8 {
	return uint8((sum + n/2) / n)
}

func hex(r, g, b uint8) string {
	return fmt.Sprintf("#%02x%02x%02x", r, g, b)
}

// Normalize lowercases a hex colour for comparison.
func Normalize(c string) string {
	return strings.ToLower(strings.TrimSpace(c))
}

// LayerColors computes the colours of every layer in parallel and returns
// them flattened in layer order without duplicates.
func LayerColors(ctx context.Context, layers layer.List, grid int) ([]string, error) {
	perLayer := make([][]string, layers.Len())

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i, l := range layers.All() {
		switch v := l.(type) {
		case layer.Text:
			perLayer[i] = []string{v.Fill()}
		case layer.Image:
			if v.Bitmap == nil {
				continue
			}
			g.Go(func() error {
				if err := ctx.Err(); err != nil {
					return err
				}
				perLayer[i] = GridAverage(v.Bitmap.Image(), grid)
				return nil
			})
		}
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	seen := make(map[string]bool)
	var out []string
	for _, colors := range perLayer {
		for _, c := range colors {
			key := Normalize(c)
			if seen[key] {
				continue
			}
			seen[key] = true
			out = append(out, key)
		}
	}
	return out, nil
}

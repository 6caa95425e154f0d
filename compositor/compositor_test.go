// Copyright 2026 The designclo Authors
// SPDX-License-Identifier: MIT

package compositor

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"testing"

	"github.com/gogpu/gg"

	"github.com/danieljohnbyns/designclo/fonts"
	"github.com/danieljohnbyns/designclo/layer"
	"github.com/danieljohnbyns/designclo/surface"
)

func newTexture(t *testing.T, w, h int) *surface.Texture {
	t.Helper()
	tex, err := surface.New(w, h)
	if err != nil {
		t.Fatalf("surface.New() = %v", err)
	}
	t.Cleanup(func() { _ = tex.Close() })
	return tex
}

func snapshot(t *testing.T, tex *surface.Texture) *image.RGBA {
	t.Helper()
	img, err := tex.Snapshot()
	if err != nil {
		t.Fatalf("Snapshot() = %v", err)
	}
	return img
}

func fill(w, h int, c color.RGBA) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for i := 0; i < len(img.Pix); i += 4 {
		img.Pix[i], img.Pix[i+1], img.Pix[i+2], img.Pix[i+3] = c.R, c.G, c.B, c.A
	}
	return img
}

// halves is red on the top half and blue on the bottom half.
func halves(size int) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, size, size))
	for y := range size {
		c := color.RGBA{R: 255, A: 255}
		if y >= size/2 {
			c = color.RGBA{B: 255, A: 255}
		}
		for x := range size {
			img.SetRGBA(x, y, c)
		}
	}
	return img
}

func list(t *testing.T, layers ...layer.Layer) layer.List {
	t.Helper()
	l, err := layer.NewList(layers...)
	if err != nil {
		t.Fatalf("NewList() = %v", err)
	}
	return l
}

func isRed(c color.RGBA) bool  { return c.R > 200 && c.G < 80 && c.B < 80 }
func isBlue(c color.RGBA) bool { return c.B > 200 && c.R < 80 && c.G < 80 }

func TestRepaintBaseColor(t *testing.T) {
	tex := newTexture(t, 16, 16)
	if err := Repaint(tex, State{BaseColor: "#336699"}, fonts.Default()); err != nil {
		t.Fatalf("Repaint() = %v", err)
	}
	got := snapshot(t, tex).RGBAAt(3, 12)
	want := color.RGBA{R: 0x33, G: 0x66, B: 0x99, A: 0xff}
	if got != want {
		t.Errorf("pixel = %v, want %v", got, want)
	}
	if !tex.NeedsUpdate() {
		t.Error("Repaint() did not mark the texture for update")
	}
}

func TestRepaintNoOp(t *testing.T) {
	tex := newTexture(t, 4, 4)
	gen := tex.Generation()
	if err := Repaint(tex, State{}, nil); err != nil {
		t.Errorf("Repaint(empty base) = %v, want nil", err)
	}
	if tex.Generation() != gen {
		t.Error("Repaint(empty base) drew on the texture")
	}
	if err := Repaint(nil, State{BaseColor: "#fff"}, nil); err != nil {
		t.Errorf("Repaint(nil texture) = %v, want nil", err)
	}
}

func TestRepaintInvalidColor(t *testing.T) {
	tex := newTexture(t, 4, 4)
	if err := Repaint(tex, State{BaseColor: "teal"}, nil); !errors.Is(err, ErrInvalidColor) {
		t.Errorf("Repaint() error = %v, want ErrInvalidColor", err)
	}
}

func TestRepaintImagePlacement(t *testing.T) {
	tex := newTexture(t, 100, 100)
	bm := layer.NewBitmap("red", fill(10, 10, color.RGBA{R: 255, A: 255}))
	img := layer.NewImage(layer.Placement{ID: "a", Position: layer.Point{X: 25, Y: 75}}, bm, 20)

	if err := Repaint(tex, State{BaseColor: "#ffffff", Layers: list(t, img)}, nil); err != nil {
		t.Fatalf("Repaint() = %v", err)
	}
	px := snapshot(t, tex)
	if c := px.RGBAAt(25, 75); !isRed(c) {
		t.Errorf("pixel at layer centre = %v, want red", c)
	}
	if c := px.RGBAAt(75, 25); c != (color.RGBA{255, 255, 255, 255}) {
		t.Errorf("pixel away from layer = %v, want white", c)
	}
}

func TestRepaintFlipsVertically(t *testing.T) {
	tex := newTexture(t, 100, 100)
	bm := layer.NewBitmap("halves", halves(20))
	img := layer.NewImage(layer.Placement{ID: "a", Position: layer.Point{X: 50, Y: 50}}, bm, 20)

	if err := Repaint(tex, State{BaseColor: "#ffffff", Layers: list(t, img)}, nil); err != nil {
		t.Fatalf("Repaint() = %v", err)
	}
	px := snapshot(t, tex)
	if c := px.RGBAAt(50, 44); !isBlue(c) {
		t.Errorf("pixel above centre = %v, want blue (source bottom)", c)
	}
	if c := px.RGBAAt(50, 56); !isRed(c) {
		t.Errorf("pixel below centre = %v, want red (source top)", c)
	}
}

func TestRepaintRotation(t *testing.T) {
	tex := newTexture(t, 100, 100)
	bm := layer.NewBitmap("bar", fill(40, 4, color.RGBA{R: 255, A: 255}))
	bar := layer.NewImage(layer.Placement{ID: "a", Position: layer.Point{X: 50, Y: 50}, Rotation: 90}, bm, 40)

	if err := Repaint(tex, State{BaseColor: "#ffffff", Layers: list(t, bar)}, nil); err != nil {
		t.Fatalf("Repaint() = %v", err)
	}
	px := snapshot(t, tex)
	if c := px.RGBAAt(50, 35); !isRed(c) {
		t.Errorf("pixel on rotated bar = %v, want red", c)
	}
	if c := px.RGBAAt(35, 50); isRed(c) {
		t.Errorf("pixel on unrotated axis = %v, want white", c)
	}
}

func TestRepaintZOrder(t *testing.T) {
	tex := newTexture(t, 50, 50)
	red := layer.NewImage(layer.Placement{ID: "red", Position: layer.Point{X: 50, Y: 50}},
		layer.NewBitmap("r", fill(4, 4, color.RGBA{R: 255, A: 255})), 20)
	blue := layer.NewImage(layer.Placement{ID: "blue", Position: layer.Point{X: 50, Y: 50}},
		layer.NewBitmap("b", fill(4, 4, color.RGBA{B: 255, A: 255})), 20)

	_ = Repaint(tex, State{BaseColor: "#ffffff", Layers: list(t, red, blue)}, nil)
	if c := snapshot(t, tex).RGBAAt(25, 25); !isBlue(c) {
		t.Errorf("top layer pixel = %v, want blue", c)
	}
	_ = Repaint(tex, State{BaseColor: "#ffffff", Layers: list(t, blue, red)}, nil)
	if c := snapshot(t, tex).RGBAAt(25, 25); !isRed(c) {
		t.Errorf("top layer pixel = %v, want red", c)
	}
}

func TestRepaintSelectionOutline(t *testing.T) {
	bm := layer.NewBitmap("white", fill(4, 4, color.RGBA{255, 255, 255, 255}))
	img := layer.NewImage(layer.Placement{ID: "a", Position: layer.Point{X: 50, Y: 50}}, bm, 40)
	layers := list(t, img)

	tex := newTexture(t, 100, 100)
	_ = Repaint(tex, State{BaseColor: "#ffffff", Layers: layers}, nil)
	if c := snapshot(t, tex).RGBAAt(34, 70); isRed(c) {
		t.Errorf("unselected outline pixel = %v, want white", c)
	}

	_ = Repaint(tex, State{BaseColor: "#ffffff", Layers: layers, Selected: "a"}, nil)
	px := snapshot(t, tex)
	// The outline starts at the local top-left corner, which the vertical
	// flip places at the bottom-left of the box on the surface.
	if c := px.RGBAAt(34, 70); !isRed(c) {
		t.Errorf("dash pixel = %v, want red", c)
	}
	if c := px.RGBAAt(48, 70); isRed(c) {
		t.Errorf("gap pixel = %v, want white", c)
	}
}

func TestRepaintTextOutline(t *testing.T) {
	faces := fonts.Default()
	txt := layer.NewText(layer.Placement{ID: "t", Position: layer.Point{X: 50, Y: 50}})
	tex := newTexture(t, 200, 200)
	_ = Repaint(tex, State{BaseColor: "#ffffff", Layers: list(t, txt), Selected: "t"}, faces)

	// The first dash runs along the padded edge size/2 + padding from the
	// centre, below it once flipped.
	edge := 100 + (32/2 + 8)
	w := txt.Width(faces)
	left := int(100 - w/2 - 8)
	if c := snapshot(t, tex).RGBAAt(left+3, edge); !isRed(c) {
		t.Errorf("outline pixel (%d, %d) = %v, want red", left+3, edge, c)
	}
}

func TestRepaintText(t *testing.T) {
	txt := layer.NewText(layer.Placement{ID: "t", Position: layer.Point{X: 50, Y: 50}}).WithColor("#0000ff")
	tex := newTexture(t, 200, 100)
	_ = Repaint(tex, State{BaseColor: "#ffffff", Layers: list(t, txt)}, fonts.Default())

	px := snapshot(t, tex)
	blue := 0
	for y := range 100 {
		for x := range 200 {
			if c := px.RGBAAt(x, y); c.B > 150 && c.R < 100 {
				blue++
			}
		}
	}
	if blue == 0 {
		t.Error("text layer painted no blue pixels")
	}
}

func TestRepaintIdempotent(t *testing.T) {
	bm := layer.NewBitmap("halves", halves(16))
	st := State{
		BaseColor: "#ffeedd",
		Layers: list(t,
			layer.NewImage(layer.Placement{ID: "i", Position: layer.Point{X: 30, Y: 40}, Rotation: 33}, bm, 48),
			layer.NewText(layer.Placement{ID: "t", Position: layer.Point{X: 60, Y: 60}, Rotation: -20}),
		),
		Selected: "t",
	}
	tex := newTexture(t, 128, 128)
	comp := New(fonts.Default())

	_ = comp.Repaint(tex, st)
	first := snapshot(t, tex)
	_ = comp.Repaint(tex, st)
	second := snapshot(t, tex)
	if !bytes.Equal(first.Pix, second.Pix) {
		t.Error("two repaints of the same state differ")
	}
}

func TestPaintOnContext(t *testing.T) {
	dc := gg.NewContext(8, 8)
	defer dc.Close()
	if err := New(nil).Paint(dc, State{BaseColor: "#00ff00"}); err != nil {
		t.Fatalf("Paint() = %v", err)
	}
	r, g, b, _ := dc.Image().At(4, 4).RGBA()
	if r != 0 || g>>8 != 255 || b != 0 {
		t.Errorf("Paint() pixel = (%d, %d, %d), want green", r>>8, g>>8, b>>8)
	}
}

func TestStateEqual(t *testing.T) {
	a := State{BaseColor: "#fff", Layers: list(t, layer.NewText(layer.Placement{ID: "x"}))}
	b := State{BaseColor: "#fff", Layers: list(t, layer.NewText(layer.Placement{ID: "x"}))}
	if !a.Equal(b) {
		t.Error("Equal() = false for equal states")
	}
	b.Selected = "x"
	if a.Equal(b) {
		t.Error("Equal() = true for different selection")
	}
}

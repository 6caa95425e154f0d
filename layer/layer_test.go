// Copyright 2026 The designclo Authors
// SPDX-License-Identifier: MIT

package layer

import (
	"errors"
	"image"
	"image/color"
	"math"
	"testing"

	"github.com/gogpu/gg"
	"github.com/gogpu/gg/text"
	"golang.org/x/image/font/gofont/goregular"
)

type goFaces struct{ src *text.FontSource }

func (f goFaces) Face(_ string, size float64) text.Face { return f.src.Face(size) }

func newGoFaces(t *testing.T) goFaces {
	t.Helper()
	src, err := text.NewFontSource(goregular.TTF)
	if err != nil {
		t.Fatalf("NewFontSource() = %v", err)
	}
	t.Cleanup(func() { _ = src.Close() })
	return goFaces{src: src}
}

func solid(w, h int, c color.Color) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := range h {
		for x := range w {
			img.Set(x, y, c)
		}
	}
	return img
}

func TestKindString(t *testing.T) {
	tests := []struct {
		k    Kind
		want string
	}{
		{KindText, "text"},
		{KindImage, "image"},
		{Kind(0), "unknown"},
	}
	for _, tt := range tests {
		if got := tt.k.String(); got != tt.want {
			t.Errorf("Kind(%d).String() = %q, want %q", tt.k, got, tt.want)
		}
	}
}

func TestPointPixels(t *testing.T) {
	x, y := Point{X: 50, Y: 25}.Pixels(1024, 512)
	if x != 512 || y != 128 {
		t.Errorf("Pixels() = (%v, %v), want (512, 128)", x, y)
	}
}

func TestNewTextDefaults(t *testing.T) {
	l := NewText(Placement{ID: "a", Position: Point{X: 50, Y: 50}})
	if l.Text != "Text" || l.Font != "Arial" || l.Size != 32 || l.Color != "#000000" {
		t.Errorf("NewText() = %+v, want defaults Text/Arial/32/#000000", l)
	}
	if l.Rotation != 0 {
		t.Errorf("Rotation = %v, want 0", l.Rotation)
	}
}

func TestTextDisplay(t *testing.T) {
	l := NewText(Placement{ID: "a"}).WithText("")
	if got := l.Display(); got != Placeholder {
		t.Errorf("Display() = %q, want %q", got, Placeholder)
	}
	if got := l.WithColor("").Fill(); got != DefaultColor {
		t.Errorf("Fill() = %q, want %q", got, DefaultColor)
	}
}

func TestTextWithTextNormalizes(t *testing.T) {
	// "e" followed by a combining acute accent composes to U+00E9.
	l := NewText(Placement{ID: "a"}).WithText("cafe\u0301")
	if l.Text != "caf\u00e9" {
		t.Errorf("WithText() = %q, want %q", l.Text, "caf\u00e9")
	}
}

func TestTextValueSemantics(t *testing.T) {
	orig := NewText(Placement{ID: "a"})
	changed := orig.WithSize(64).WithFont("Verdana")
	if orig.Size != 32 || orig.Font != "Arial" {
		t.Errorf("original mutated: %+v", orig)
	}
	if changed.Size != 64 || changed.Font != "Verdana" {
		t.Errorf("changed = %+v, want size 64 font Verdana", changed)
	}
	moved := orig.WithPlace(Placement{ID: "a", Position: Point{X: 10, Y: 20}})
	if moved.Place().Position != (Point{X: 10, Y: 20}) {
		t.Errorf("WithPlace() position = %v", moved.Place().Position)
	}
	if orig.Position != (Point{}) {
		t.Errorf("original position mutated: %v", orig.Position)
	}
}

func TestTextOutline(t *testing.T) {
	faces := newGoFaces(t)
	l := NewText(Placement{ID: "a"})
	w := l.Width(faces)
	if w <= 0 {
		t.Fatalf("Width() = %v, want > 0", w)
	}
	got := l.Outline(faces)
	want := Rect{X: -w/2 - 8, Y: -16 - 8, W: w + 16, H: 32 + 16}
	if got != want {
		t.Errorf("Outline() = %+v, want %+v", got, want)
	}
}

func TestTextOutlineNoFaces(t *testing.T) {
	l := NewText(Placement{ID: "a"})
	if w := l.Width(nil); w != 0 {
		t.Errorf("Width(nil) = %v, want 0", w)
	}
}

func TestScaledSize(t *testing.T) {
	tests := []struct {
		name         string
		w, h         int
		size         float64
		wantW, wantH float64
	}{
		{"landscape", 200, 100, 256, 256, 128},
		{"portrait", 100, 400, 256, 64, 256},
		{"square", 50, 50, 256, 256, 256},
		{"empty", 0, 10, 256, 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gw, gh := ScaledSize(tt.w, tt.h, tt.size)
			if math.Abs(gw-tt.wantW) > 1e-9 || math.Abs(gh-tt.wantH) > 1e-9 {
				t.Errorf("ScaledSize(%d, %d, %v) = (%v, %v), want (%v, %v)",
					tt.w, tt.h, tt.size, gw, gh, tt.wantW, tt.wantH)
			}
		})
	}
}

func TestImageOutline(t *testing.T) {
	bm := NewBitmap("red", solid(40, 20, color.RGBA{R: 255, A: 255}))
	if bm.Width() != 40 || bm.Height() != 20 {
		t.Fatalf("bitmap size = %dx%d, want 40x20", bm.Width(), bm.Height())
	}
	l := NewImage(Placement{ID: "img"}, bm, 100)
	got := l.Outline(nil)
	want := Rect{X: -50, Y: -25, W: 100, H: 50}
	if got != want {
		t.Errorf("Outline() = %+v, want %+v", got, want)
	}
	if l.Kind() != KindImage {
		t.Errorf("Kind() = %v, want image", l.Kind())
	}
}

func TestImageDraw(t *testing.T) {
	dc := gg.NewContext(64, 64)
	defer dc.Close()
	dc.ClearWithColor(gg.Hex("#ffffff"))

	bm := NewBitmap("red", solid(8, 8, color.RGBA{R: 255, A: 255}))
	l := NewImage(Placement{ID: "img"}, bm, 16)

	dc.Push()
	dc.Translate(32, 32)
	l.Draw(dc, nil)
	dc.Pop()

	r, g, b, _ := dc.Image().At(32, 32).RGBA()
	if r>>8 < 200 || g>>8 > 60 || b>>8 > 60 {
		t.Errorf("centre pixel = (%d, %d, %d), want red", r>>8, g>>8, b>>8)
	}
	r, g, b, _ = dc.Image().At(2, 2).RGBA()
	if r>>8 != 255 || g>>8 != 255 || b>>8 != 255 {
		t.Errorf("corner pixel = (%d, %d, %d), want white", r>>8, g>>8, b>>8)
	}
}

func TestTextDraw(t *testing.T) {
	faces := newGoFaces(t)
	dc := gg.NewContext(128, 64)
	defer dc.Close()
	dc.ClearWithColor(gg.Hex("#ffffff"))

	dc.Push()
	dc.Translate(64, 32)
	NewText(Placement{ID: "a"}).Draw(dc, faces)
	dc.Pop()

	dark := 0
	img := dc.Image()
	for y := range 64 {
		for x := range 128 {
			if r, _, _, _ := img.At(x, y).RGBA(); r>>8 < 128 {
				dark++
			}
		}
	}
	if dark == 0 {
		t.Error("Draw() painted no text pixels")
	}
}

func list(t *testing.T, ids ...string) List {
	t.Helper()
	layers := make([]Layer, len(ids))
	for i, id := range ids {
		layers[i] = NewText(Placement{ID: id})
	}
	l, err := NewList(layers...)
	if err != nil {
		t.Fatalf("NewList() = %v", err)
	}
	return l
}

func equalIDs(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestNewListDuplicate(t *testing.T) {
	_, err := NewList(NewText(Placement{ID: "a"}), NewText(Placement{ID: "a"}))
	if !errors.Is(err, ErrDuplicateID) {
		t.Errorf("NewList() error = %v, want ErrDuplicateID", err)
	}
}

func TestListAppend(t *testing.T) {
	base := list(t, "a", "b")
	next, err := base.Append(NewText(Placement{ID: "c"}))
	if err != nil {
		t.Fatalf("Append() = %v", err)
	}
	if got := next.IDs(); !equalIDs(got, []string{"a", "b", "c"}) {
		t.Errorf("Append() ids = %v", got)
	}
	if base.Len() != 2 {
		t.Errorf("receiver Len() = %d, want 2", base.Len())
	}
	if _, err := next.Append(NewText(Placement{ID: "a"})); !errors.Is(err, ErrDuplicateID) {
		t.Errorf("Append(dup) error = %v, want ErrDuplicateID", err)
	}
}

func TestListAppendDoesNotAlias(t *testing.T) {
	base := list(t, "a")
	x, _ := base.Append(NewText(Placement{ID: "x"}))
	y, _ := base.Append(NewText(Placement{ID: "y"}))
	if x.At(1).Place().ID != "x" || y.At(1).Place().ID != "y" {
		t.Errorf("sibling appends aliased: %v %v", x.IDs(), y.IDs())
	}
}

func TestListReplace(t *testing.T) {
	base := list(t, "a", "b")
	next, err := base.Replace(NewText(Placement{ID: "b"}).WithText("hello"))
	if err != nil {
		t.Fatalf("Replace() = %v", err)
	}
	got, _ := next.Find("b")
	if got.(Text).Text != "hello" {
		t.Errorf("Replace() text = %q, want hello", got.(Text).Text)
	}
	old, _ := base.Find("b")
	if old.(Text).Text != "Text" {
		t.Errorf("receiver mutated: %q", old.(Text).Text)
	}
	if _, err := base.Replace(NewText(Placement{ID: "zz"})); !errors.Is(err, ErrNotFound) {
		t.Errorf("Replace(unknown) error = %v, want ErrNotFound", err)
	}
}

func TestListRemove(t *testing.T) {
	base := list(t, "a", "b", "c")
	next, ok := base.Remove("b")
	if !ok || !equalIDs(next.IDs(), []string{"a", "c"}) {
		t.Errorf("Remove(b) = %v, %v", next.IDs(), ok)
	}
	same, ok := base.Remove("zz")
	if ok || !same.Equal(base) {
		t.Errorf("Remove(unknown) = %v, %v, want unchanged, false", same.IDs(), ok)
	}
}

func TestListMove(t *testing.T) {
	base := list(t, "a", "b", "c")
	tests := []struct {
		name   string
		move   func(List, string) (List, bool)
		id     string
		want   []string
		wantOK bool
	}{
		{"up middle", List.MoveUp, "b", []string{"a", "c", "b"}, true},
		{"up top", List.MoveUp, "c", []string{"a", "b", "c"}, false},
		{"down middle", List.MoveDown, "b", []string{"b", "a", "c"}, true},
		{"down bottom", List.MoveDown, "a", []string{"a", "b", "c"}, false},
		{"up unknown", List.MoveUp, "zz", []string{"a", "b", "c"}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := tt.move(base, tt.id)
			if ok != tt.wantOK || !equalIDs(got.IDs(), tt.want) {
				t.Errorf("move(%q) = %v, %v, want %v, %v", tt.id, got.IDs(), ok, tt.want, tt.wantOK)
			}
		})
	}
	if !equalIDs(base.IDs(), []string{"a", "b", "c"}) {
		t.Errorf("receiver mutated: %v", base.IDs())
	}
}

func TestListAll(t *testing.T) {
	l := list(t, "a", "b", "c")
	var ids []string
	for _, layer := range l.All() {
		ids = append(ids, layer.Place().ID)
		if len(ids) == 2 {
			break
		}
	}
	if !equalIDs(ids, []string{"a", "b"}) {
		t.Errorf("All() with break = %v", ids)
	}
}

func TestListEqual(t *testing.T) {
	a := list(t, "a", "b")
	b := list(t, "a", "b")
	if !a.Equal(b) {
		t.Error("Equal() = false for identical lists")
	}
	c, _ := b.Replace(NewText(Placement{ID: "b"}).WithSize(10))
	if a.Equal(c) {
		t.Error("Equal() = true for lists with different layers")
	}
	var zero List
	if zero.Len() != 0 || !zero.Equal(List{}) {
		t.Error("zero List is not empty")
	}
}

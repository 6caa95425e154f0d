// Copyright 2026 The designclo Authors
// SPDX-License-Identifier: MIT

package editor

import (
	"image"
	"testing"

	"github.com/gogpu/gpucontext"

	"github.com/danieljohnbyns/designclo/interaction"
	"github.com/danieljohnbyns/designclo/scene"
)

type pointerSource struct {
	fns []func(gpucontext.PointerEvent)
}

func (s *pointerSource) OnPointer(fn func(gpucontext.PointerEvent)) {
	s.fns = append(s.fns, fn)
}

func (s *pointerSource) emit(ev gpucontext.PointerEvent) {
	for _, fn := range s.fns {
		fn(ev)
	}
}

func down(x, y float64) gpucontext.PointerEvent {
	return gpucontext.PointerEvent{Type: gpucontext.PointerDown, PointerID: 1, X: x, Y: y, Button: gpucontext.ButtonLeft, IsPrimary: true}
}

func up(x, y float64) gpucontext.PointerEvent {
	return gpucontext.PointerEvent{Type: gpucontext.PointerUp, PointerID: 1, X: x, Y: y, Button: gpucontext.ButtonLeft, IsPrimary: true}
}

func planePicker() scene.PlanePicker {
	return scene.PlanePicker{Rect: image.Rect(0, 0, 200, 200), Object: "shirt"}
}

func TestHandlePointerClick(t *testing.T) {
	e, _ := newEditor(t)
	e.SetPicker(planePicker())
	e.SelectTool(interaction.ToolText)

	e.HandlePointer(down(50, 150))
	e.HandlePointer(up(53, 152))

	if e.Layers().Len() != 1 {
		t.Fatalf("Len() = %d, want 1", e.Layers().Len())
	}
	if p := e.Layers().At(0).Place().Position; !near(p.X, 26.5) || !near(p.Y, 76) {
		t.Errorf("Position = %v, want (26.5, 76)", p)
	}
}

func TestHandlePointerDragIsNotAClick(t *testing.T) {
	e, _ := newEditor(t)
	e.SetPicker(planePicker())
	e.SelectTool(interaction.ToolText)

	e.HandlePointer(down(50, 50))
	e.HandlePointer(gpucontext.PointerEvent{Type: gpucontext.PointerMove, PointerID: 1, X: 90, Y: 50})
	e.HandlePointer(up(90, 50))
	if e.Layers().Len() != 0 {
		t.Error("drag placed a layer")
	}
	if e.Tool() != interaction.ToolText {
		t.Error("drag disarmed the tool")
	}
}

func TestHandlePointerIgnoresOtherButtons(t *testing.T) {
	e, _ := newEditor(t)
	e.SetPicker(planePicker())
	e.SelectTool(interaction.ToolText)

	right := down(50, 50)
	right.Button = gpucontext.ButtonRight
	e.HandlePointer(right)
	e.HandlePointer(up(50, 50))

	secondary := down(50, 50)
	secondary.IsPrimary = false
	e.HandlePointer(secondary)
	e.HandlePointer(up(50, 50))

	e.HandlePointer(down(50, 50))
	e.HandlePointer(gpucontext.PointerEvent{Type: gpucontext.PointerCancel, PointerID: 1})
	e.HandlePointer(up(50, 50))

	if e.Layers().Len() != 0 {
		t.Errorf("Len() = %d, want 0", e.Layers().Len())
	}
}

func TestHandlePointerMissDeselects(t *testing.T) {
	e, _ := newEditor(t)
	e.SetPicker(planePicker())
	addText(t, e, 0.5, 0.5)

	e.HandlePointer(down(500, 500))
	e.HandlePointer(up(500, 500))
	if _, ok := e.Editing(); ok {
		t.Error("click outside the garment kept the editing target")
	}
}

func TestHandlePointerWithoutPicker(t *testing.T) {
	e, _ := newEditor(t)
	e.SelectTool(interaction.ToolText)
	e.HandlePointer(down(10, 10))
	e.HandlePointer(up(10, 10))
	if e.Layers().Len() != 0 || e.Tool() != interaction.ToolText {
		t.Error("click without a picker changed state")
	}
}

func TestAttach(t *testing.T) {
	e, _ := newEditor(t)
	src := &pointerSource{}
	detach := e.Attach(src, planePicker())

	e.SelectTool(interaction.ToolText)
	src.emit(down(100, 100))
	src.emit(up(100, 100))
	if e.Layers().Len() != 1 {
		t.Fatalf("Len() = %d, want 1", e.Layers().Len())
	}

	detach()
	e.SelectTool(interaction.ToolText)
	src.emit(down(100, 100))
	src.emit(up(100, 100))
	if e.Layers().Len() != 1 {
		t.Error("detached source still places layers")
	}
}

func TestAttachDetachedOnClose(t *testing.T) {
	e, _ := newEditor(t)
	src := &pointerSource{}
	e.Attach(src, planePicker())
	e.Close()
	src.emit(down(100, 100))
	src.emit(up(100, 100))
	if e.Layers().Len() != 0 {
		t.Error("closed editor handled pointer events")
	}
}

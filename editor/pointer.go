// Copyright 2026 The designclo Authors
// SPDX-License-Identifier: MIT

package editor

import (
	"math"
	"sync/atomic"

	"github.com/gogpu/gpucontext"

	"github.com/danieljohnbyns/designclo"
	"github.com/danieljohnbyns/designclo/interaction"
	"github.com/danieljohnbyns/designclo/scene"
)

// DefaultClickSlop is how far, in logical pixels, a press may travel
// and still count as a click rather than a camera drag.
const DefaultClickSlop = 6

type press struct {
	x, y float64
}

// SetPicker sets the picker used by HandlePointer.
func (e *Editor) SetPicker(p scene.Picker) {
	e.mu.Lock()
	e.picker = p
	e.mu.Unlock()
}

// HandlePointer turns a primary-button press and release close together
// into a pick. Drags are left to the camera controls.
func (e *Editor) HandlePointer(ev gpucontext.PointerEvent) {
	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return
	}
	switch ev.Type {
	case gpucontext.PointerDown:
		if ev.Button == gpucontext.ButtonLeft && ev.IsPrimary {
			e.presses[ev.PointerID] = press{x: ev.X, y: ev.Y}
		}
		e.mu.Unlock()
		return
	case gpucontext.PointerCancel, gpucontext.PointerLeave:
		delete(e.presses, ev.PointerID)
		e.mu.Unlock()
		return
	case gpucontext.PointerUp:
	default:
		e.mu.Unlock()
		return
	}

	p, ok := e.presses[ev.PointerID]
	delete(e.presses, ev.PointerID)
	picker := e.picker
	slop := e.clickSlop
	e.mu.Unlock()

	if !ok || ev.Button != gpucontext.ButtonLeft || picker == nil {
		return
	}
	if math.Hypot(ev.X-p.x, ev.Y-p.y) > slop {
		return
	}
	hit, hitOK := picker.Pick(ev.X, ev.Y)
	if err := e.Pick(interaction.FromHit(hit, hitOK)); err != nil {
		designclo.Logger().Debug("editor: pick", "error", err)
	}
}

// Attach feeds pointer events from src through HandlePointer using
// picker. The source cannot unregister callbacks, so detaching makes
// the callback ignore further events.
func (e *Editor) Attach(src gpucontext.PointerEventSource, picker scene.Picker) (detach func()) {
	if src == nil {
		return func() {}
	}
	if picker != nil {
		e.SetPicker(picker)
	}
	var off atomic.Bool
	src.OnPointer(func(ev gpucontext.PointerEvent) {
		if off.Load() {
			return
		}
		e.HandlePointer(ev)
	})
	return e.track(func() { off.Store(true) })
}

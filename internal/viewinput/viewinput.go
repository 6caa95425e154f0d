// Copyright 2026 The designclo Authors
// SPDX-License-Identifier: MIT

// Package viewinput turns polled window input into editor events. It
// keeps the windowing library out of the logic so the logic can be
// tested headless.
package viewinput

import (
	"errors"
	"sync"
	"time"

	"github.com/gogpu/gpucontext"

	"github.com/danieljohnbyns/designclo/editor"
)

// Mouse is the mouse state polled for one tick.
type Mouse struct {
	X, Y   float64
	Left   bool
	Inside bool
}

// Tracker turns successive Mouse samples into pointer events and
// delivers them to the callbacks registered with OnPointer.
type Tracker struct {
	mu    sync.Mutex
	fns   []func(gpucontext.PointerEvent)
	prev  Mouse
	start time.Time
	now   func() time.Time
}

var _ gpucontext.PointerEventSource = (*Tracker)(nil)

// NewTracker returns a tracker with the mouse outside the window.
func NewTracker() *Tracker {
	t := &Tracker{now: time.Now}
	t.start = t.now()
	return t
}

// OnPointer registers fn.
func (t *Tracker) OnPointer(fn func(gpucontext.PointerEvent)) {
	t.mu.Lock()
	t.fns = append(t.fns, fn)
	t.mu.Unlock()
}

// Update compares m with the previous sample, dispatches the resulting
// events and returns them.
func (t *Tracker) Update(m Mouse) []gpucontext.PointerEvent {
	t.mu.Lock()
	prev := t.prev
	t.prev = m
	fns := t.fns
	ts := t.now().Sub(t.start)
	t.mu.Unlock()

	ev := func(typ gpucontext.PointerEventType, button gpucontext.Button) gpucontext.PointerEvent {
		buttons := gpucontext.ButtonsNone
		if m.Left {
			buttons = gpucontext.ButtonsLeft
		}
		return gpucontext.PointerEvent{
			Type:        typ,
			PointerID:   1,
			X:           m.X,
			Y:           m.Y,
			DeltaX:      m.X - prev.X,
			DeltaY:      m.Y - prev.Y,
			PointerType: gpucontext.PointerTypeMouse,
			IsPrimary:   true,
			Button:      button,
			Buttons:     buttons,
			Timestamp:   ts,
		}
	}

	var out []gpucontext.PointerEvent
	switch {
	case m.Inside && !prev.Inside:
		out = append(out, ev(gpucontext.PointerEnter, gpucontext.ButtonNone))
	case !m.Inside && prev.Inside:
		// A press that leaves the window never becomes a click.
		if prev.Left {
			out = append(out, ev(gpucontext.PointerCancel, gpucontext.ButtonNone))
		}
		out = append(out, ev(gpucontext.PointerLeave, gpucontext.ButtonNone))
	}
	if m.Inside {
		if prev.Inside && (m.X != prev.X || m.Y != prev.Y) {
			out = append(out, ev(gpucontext.PointerMove, gpucontext.ButtonNone))
		}
		switch {
		case m.Left && !prev.Left:
			out = append(out, ev(gpucontext.PointerDown, gpucontext.ButtonLeft))
		case !m.Left && prev.Left && prev.Inside:
			out = append(out, ev(gpucontext.PointerUp, gpucontext.ButtonLeft))
		}
	}

	for _, e := range out {
		for _, fn := range fns {
			fn(e)
		}
	}
	return out
}

// Axis maps a pair of held keys to -1, 0 or 1.
func Axis(neg, pos bool) float64 {
	switch {
	case neg && !pos:
		return -1
	case pos && !neg:
		return 1
	}
	return 0
}

// Hold keeps one adjustment of the editing layer open for as long as a
// control is held, so a held key records a single history entry.
type Hold struct {
	ed *editor.Editor
	d  *editor.Draft
}

// NewHold returns an idle Hold for ed.
func NewHold(ed *editor.Editor) *Hold {
	return &Hold{ed: ed}
}

// Tick applies step while held is true, beginning an adjustment on the
// first held tick and ending it on the first released one. It reports
// whether a history entry was recorded.
func (h *Hold) Tick(held bool, step func(*editor.Draft) bool) (bool, error) {
	if !held {
		return h.release()
	}
	if h.d == nil {
		id, ok := h.ed.Editing()
		if !ok {
			return false, nil
		}
		d, err := h.ed.BeginAdjustment(id)
		if err != nil {
			return false, err
		}
		h.d = d
	}
	if !step(h.d) {
		// Undo, a pick or another adjustment ended the draft.
		h.d = nil
	}
	return false, nil
}

// Active reports whether an adjustment is open.
func (h *Hold) Active() bool { return h.d != nil }

func (h *Hold) release() (bool, error) {
	d := h.d
	if d == nil {
		return false, nil
	}
	h.d = nil
	committed, err := d.End()
	if errors.Is(err, editor.ErrNoAdjustment) {
		return false, nil
	}
	return committed, err
}

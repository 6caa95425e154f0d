// Copyright 2026 The designclo Authors
// SPDX-License-Identifier: MIT

package editor

// BackResult says whether a back request was consumed.
type BackResult uint8

const (
	// BackPropagate passes the request on. When nothing consumes it the
	// host decides, typically by confirming that the user wants to leave.
	BackPropagate BackResult = iota

	// BackHandled stops the request.
	BackHandled
)

// BackHandler reacts to a back request.
type BackHandler func() BackResult

type backEntry struct {
	id int
	fn BackHandler
}

// OnBack registers h. Handlers run most recent first, before the
// editor's own handling. The returned function unregisters h.
func (e *Editor) OnBack(h BackHandler) (remove func()) {
	if h == nil {
		return func() {}
	}
	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return func() {}
	}
	e.backSeq++
	id := e.backSeq
	e.back = append(e.back, backEntry{id: id, fn: h})
	e.mu.Unlock()

	return func() {
		e.mu.Lock()
		defer e.mu.Unlock()
		for i, b := range e.back {
			if b.id == id {
				e.back = append(e.back[:i], e.back[i+1:]...)
				return
			}
		}
	}
}

// Back handles a back request: registered handlers first, then the
// open panel or menu is closed. Anything else propagates.
func (e *Editor) Back() BackResult {
	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return BackPropagate
	}
	handlers := make([]BackHandler, 0, len(e.back))
	for i := len(e.back) - 1; i >= 0; i-- {
		handlers = append(handlers, e.back[i].fn)
	}
	e.mu.Unlock()

	for _, h := range handlers {
		if h() == BackHandled {
			return BackHandled
		}
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closePanelLocked() {
		return BackHandled
	}
	return BackPropagate
}

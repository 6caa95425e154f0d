// Copyright 2026 The designclo Authors
// SPDX-License-Identifier: MIT

package compositor

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/danieljohnbyns/designclo"
	"github.com/danieljohnbyns/designclo/surface"
)

// TextureFunc returns the texture to paint, or nil while the scene is not
// ready.
type TextureFunc func() *surface.Texture

// Loop repaints a texture once per tick from a StateSource. The source is
// read on every tick, so the loop never holds on to stale state. Ticks
// whose state and texture are unchanged since the last repaint are
// skipped.
type Loop struct {
	comp *Compositor
	src  StateSource
	tex  TextureFunc

	mu      sync.Mutex
	last    State
	lastTex *surface.Texture
	lastGen uint64
	valid   bool
	stopped bool
	cancel  context.CancelFunc
	done    chan struct{}

	painted atomic.Uint64
	skipped atomic.Uint64
}

// NewLoop returns a stopped loop.
func NewLoop(comp *Compositor, src StateSource, tex TextureFunc) *Loop {
	return &Loop{comp: comp, src: src, tex: tex}
}

// Frame performs one tick and reports whether the texture was repainted.
func (l *Loop) Frame() (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.stopped {
		return false, nil
	}
	tex := l.tex()
	if tex == nil {
		return false, nil
	}
	st := l.src.Frame()
	if l.valid && tex == l.lastTex && tex.Generation() == l.lastGen && st.Equal(l.last) {
		l.skipped.Add(1)
		return false, nil
	}
	if err := l.comp.Repaint(tex, st); err != nil {
		l.valid = false
		return false, err
	}
	l.last, l.lastTex, l.lastGen, l.valid = st, tex, tex.Generation(), true
	l.painted.Add(1)
	return true, nil
}

// Invalidate forces a repaint on the next tick, for example after fonts
// change.
func (l *Loop) Invalidate() {
	l.mu.Lock()
	l.valid = false
	l.mu.Unlock()
}

// Run ticks on every value from ticks until ctx is done or ticks closes.
func (l *Loop) Run(ctx context.Context, ticks <-chan time.Time) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case _, ok := <-ticks:
			if !ok {
				return nil
			}
			if ctx.Err() != nil {
				return ctx.Err()
			}
			if _, err := l.Frame(); err != nil {
				designclo.Logger().Warn("compositor: repaint failed", "error", err)
			}
		}
	}
}

// Start runs the loop on its own goroutine at the given interval.
// Calling Start on a running loop restarts it.
func (l *Loop) Start(ctx context.Context, interval time.Duration) {
	l.Stop()

	ctx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	l.mu.Lock()
	l.stopped = false
	l.cancel, l.done = cancel, done
	l.mu.Unlock()

	go func() {
		defer close(done)
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		_ = l.Run(ctx, ticker.C)
	}()
	designclo.Logger().Debug("compositor: loop started", "interval", interval)
}

// Stop cancels a running loop and waits for it to exit. No repaint
// happens after Stop returns.
func (l *Loop) Stop() {
	l.mu.Lock()
	cancel, done := l.cancel, l.done
	l.cancel, l.done = nil, nil
	l.stopped = true
	l.mu.Unlock()

	if cancel != nil {
		cancel()
		<-done
	}
}

// Stats returns how many ticks repainted and how many were skipped.
func (l *Loop) Stats() (painted, skipped uint64) {
	return l.painted.Load(), l.skipped.Load()
}

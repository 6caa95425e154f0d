// Copyright 2026 The designclo Authors
// SPDX-License-Identifier: MIT

package scene

import (
	"context"
	"sync"
	"time"
)

// DefaultTransition is how long an animated camera move takes.
const DefaultTransition = time.Second

// Easing maps linear progress in [0, 1] to eased progress.
type Easing func(t float64) float64

// Linear is the identity easing.
func Linear(t float64) float64 { return t }

// EaseInOutCubic accelerates then decelerates.
func EaseInOutCubic(t float64) float64 {
	if t < 0.5 {
		return 4 * t * t * t
	}
	f := -2*t + 2
	return 1 - f*f*f/2
}

// Animator moves a camera between positions over time. A new move
// replaces any move in flight.
type Animator struct {
	cam  Camera
	ease Easing
	now  func() time.Time

	mu     sync.Mutex
	active bool
	from   Vec3
	to     Vec3
	start  time.Time
	dur    time.Duration
}

// AnimatorOption configures an Animator.
type AnimatorOption func(*Animator)

// WithEasing sets the easing curve. The default is EaseInOutCubic.
func WithEasing(e Easing) AnimatorOption {
	return func(a *Animator) {
		if e != nil {
			a.ease = e
		}
	}
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) AnimatorOption {
	return func(a *Animator) {
		if now != nil {
			a.now = now
		}
	}
}

// NewAnimator returns an idle animator driving cam.
func NewAnimator(cam Camera, opts ...AnimatorOption) *Animator {
	a := &Animator{cam: cam, ease: EaseInOutCubic, now: time.Now}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Animate starts a move to pos lasting d. A non-positive d jumps.
func (a *Animator) Animate(pos Vec3, d time.Duration) {
	if d <= 0 {
		a.Jump(pos)
		return
	}
	from := a.cam.Position()
	a.mu.Lock()
	a.active = true
	a.from = from
	a.to = pos
	a.start = a.now()
	a.dur = d
	a.mu.Unlock()
}

// Jump cancels any move and places the camera at pos.
func (a *Animator) Jump(pos Vec3) {
	a.mu.Lock()
	a.active = false
	a.mu.Unlock()
	a.cam.SetPosition(pos)
}

// Busy reports whether a move is in flight.
func (a *Animator) Busy() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.active
}

// Step advances the move in flight to now and reports whether it is
// still running.
func (a *Animator) Step(now time.Time) bool {
	a.mu.Lock()
	if !a.active {
		a.mu.Unlock()
		return false
	}
	t := float64(now.Sub(a.start)) / float64(a.dur)
	if t >= 1 {
		t = 1
		a.active = false
	} else if t < 0 {
		t = 0
	}
	pos := a.from.Lerp(a.to, a.ease(t))
	running := a.active
	a.mu.Unlock()

	a.cam.SetPosition(pos)
	return running
}

// Run steps the animator on every tick until ctx is done or ticks is
// closed.
func (a *Animator) Run(ctx context.Context, ticks <-chan time.Time) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case now, ok := <-ticks:
			if !ok {
				return nil
			}
			a.Step(now)
		}
	}
}

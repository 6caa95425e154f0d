// Copyright 2026 The designclo Authors
// SPDX-License-Identifier: MIT

package scene

import "sync"

// OrbitCamera is a Camera that looks at the origin and notifies
// listeners whenever it moves. It satisfies both Camera and Controller.
type OrbitCamera struct {
	mu        sync.Mutex
	pos       Vec3
	listeners map[int]func()
	nextID    int
}

// NewOrbitCamera returns a camera at pos.
func NewOrbitCamera(pos Vec3) *OrbitCamera {
	return &OrbitCamera{pos: pos, listeners: make(map[int]func())}
}

// Position returns the current position.
func (c *OrbitCamera) Position() Vec3 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.pos
}

// SetPosition moves the camera and notifies listeners if it changed.
func (c *OrbitCamera) SetPosition(p Vec3) {
	c.mu.Lock()
	if c.pos == p {
		c.mu.Unlock()
		return
	}
	c.pos = p
	fns := make([]func(), 0, len(c.listeners))
	for _, fn := range c.listeners {
		fns = append(fns, fn)
	}
	c.mu.Unlock()

	for _, fn := range fns {
		fn()
	}
}

// Dolly moves the camera along its view ray to the given distance from
// the origin. A camera sitting on the origin is moved along +Z.
func (c *OrbitCamera) Dolly(distance float64) {
	if distance <= 0 {
		return
	}
	p := c.Position()
	l := p.Len()
	if l == 0 {
		c.SetPosition(Vec3{0, 0, distance})
		return
	}
	c.SetPosition(p.Scale(distance / l))
}

// OnChange registers fn to run after every position change.
func (c *OrbitCamera) OnChange(fn func()) (detach func()) {
	c.mu.Lock()
	id := c.nextID
	c.nextID++
	c.listeners[id] = fn
	c.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			c.mu.Lock()
			delete(c.listeners, id)
			c.mu.Unlock()
		})
	}
}

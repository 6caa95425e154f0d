// Copyright 2026 The designclo Authors
// SPDX-License-Identifier: MIT

// Package surface provides the dynamic texture a 3D model samples.
//
// A [Texture] owns a gg.Context sized to the texture, tracks whether its
// pixels changed since the renderer last consumed them, and optionally
// uploads them to a GPU texture through gpucontext interfaces. Drawing
// and reading may happen from different goroutines.
package surface

import (
	"errors"
	"fmt"
	"image"
	"io"
	"sync"

	"github.com/gogpu/gg"
	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"

	"github.com/danieljohnbyns/designclo"
)

var (
	// ErrClosed is returned by operations on a closed texture.
	ErrClosed = errors.New("surface: texture is closed")

	// ErrInvalidDimensions is returned for non-positive sizes.
	ErrInvalidDimensions = errors.New("surface: invalid dimensions")
)

// Texture is a raster surface shared between the compositor, which
// repaints it, and the renderer, which samples it.
type Texture struct {
	mu       sync.Mutex
	ctx      *gg.Context
	provider gpucontext.DeviceProvider
	target   gpucontext.TextureUpdater
	width    int
	height   int
	dirty    bool
	gen      uint64
	closed   bool
}

// New creates a width by height texture.
func New(width, height int, opts ...Option) (*Texture, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: width=%d, height=%d", ErrInvalidDimensions, width, height)
	}
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if o.provider != nil {
		if err := gg.SetAcceleratorDeviceProvider(o.provider); err != nil {
			designclo.Logger().Warn("surface: device provider rejected", "error", err)
		}
	}
	return &Texture{
		ctx:      gg.NewContext(width, height),
		provider: o.provider,
		target:   o.target,
		width:    width,
		height:   height,
		dirty:    true,
	}, nil
}

// MustNew is like New but panics on error.
func MustNew(width, height int, opts ...Option) *Texture {
	t, err := New(width, height, opts...)
	if err != nil {
		panic(err)
	}
	return t
}

// Size returns the texture dimensions.
func (t *Texture) Size() (width, height int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.width, t.height
}

// Width returns the texture width.
func (t *Texture) Width() int {
	w, _ := t.Size()
	return w
}

// Height returns the texture height.
func (t *Texture) Height() int {
	_, h := t.Size()
	return h
}

// Format returns the pixel layout of uploaded data.
func (t *Texture) Format() gputypes.TextureFormat {
	return gputypes.TextureFormatRGBA8Unorm
}

// Provider returns the attached device provider, or nil.
func (t *Texture) Provider() gpucontext.DeviceProvider {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.closed {
		return nil
	}
	return t.provider
}

// Draw runs fn against the drawing context and marks the texture as
// needing an update.
func (t *Texture) Draw(fn func(dc *gg.Context)) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.closed {
		return ErrClosed
	}
	fn(t.ctx)
	t.dirty = true
	t.gen++
	return nil
}

// MarkDirty flags the texture for upload without drawing.
func (t *Texture) MarkDirty() {
	t.mu.Lock()
	t.dirty = true
	t.mu.Unlock()
}

// NeedsUpdate reports whether pixels changed since the last Flush.
func (t *Texture) NeedsUpdate() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.dirty
}

// Generation counts completed Draw calls.
func (t *Texture) Generation() uint64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.gen
}

// Resize changes the texture dimensions. The contents are cleared.
func (t *Texture) Resize(width, height int) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.closed {
		return ErrClosed
	}
	if width <= 0 || height <= 0 {
		return fmt.Errorf("%w: width=%d, height=%d", ErrInvalidDimensions, width, height)
	}
	if width == t.width && height == t.height {
		return nil
	}
	if err := t.ctx.Resize(width, height); err != nil {
		return fmt.Errorf("surface: resize: %w", err)
	}
	t.width, t.height = width, height
	t.dirty = true
	t.gen++
	return nil
}

// Flush uploads pending pixels to the GPU target, if one is attached, and
// clears the update flag. It reports whether anything was pending.
func (t *Texture) Flush() (bool, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.closed {
		return false, ErrClosed
	}
	if !t.dirty {
		return false, nil
	}
	if err := t.ctx.FlushGPU(); err != nil {
		designclo.Logger().Debug("surface: gpu flush", "error", err)
	}
	if t.target != nil {
		if err := t.target.UpdateData(t.ctx.ResizeTarget().Data()); err != nil {
			return false, fmt.Errorf("surface: texture update: %w", err)
		}
	}
	t.dirty = false
	return true, nil
}

// Snapshot returns a copy of the current pixels.
func (t *Texture) Snapshot() (*image.RGBA, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.closed {
		return nil, ErrClosed
	}
	_ = t.ctx.FlushGPU()
	return t.ctx.ResizeTarget().ToImage(), nil
}

// EncodePNG writes the current pixels as PNG.
func (t *Texture) EncodePNG(w io.Writer) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.closed {
		return ErrClosed
	}
	return t.ctx.EncodePNG(w)
}

// Close releases the drawing context. Safe to call more than once.
func (t *Texture) Close() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.closed {
		return nil
	}
	t.closed = true
	t.target = nil
	t.provider = nil
	err := t.ctx.Close()
	t.ctx = nil
	return err
}

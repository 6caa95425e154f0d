// Copyright 2026 The designclo Authors
// SPDX-License-Identifier: MIT

package palette

import (
	"context"
	"slices"
	"sync"
	"sync/atomic"

	"github.com/danieljohnbyns/designclo"
	"github.com/danieljohnbyns/designclo/layer"
)

// Extractor recomputes presets in the background whenever it is handed a
// new layer list. A newer Update cancels the computation it supersedes;
// stale results are never published.
type Extractor struct {
	grid     int
	onUpdate func([]string)

	mu     sync.Mutex
	gen    uint64
	cancel context.CancelFunc
	closed bool
	wg     sync.WaitGroup

	colors atomic.Pointer[[]string]
}

// ExtractorOption configures an Extractor.
type ExtractorOption func(*Extractor)

// WithGrid sets the grid size sampled from image layers.
func WithGrid(n int) ExtractorOption {
	return func(e *Extractor) {
		if n >= 1 {
			e.grid = n
		}
	}
}

// OnUpdate registers fn to receive each published result. fn runs on the
// extraction goroutine.
func OnUpdate(fn func([]string)) ExtractorOption {
	return func(e *Extractor) {
		e.onUpdate = fn
	}
}

// NewExtractor returns an idle extractor with no colours.
func NewExtractor(opts ...ExtractorOption) *Extractor {
	e := &Extractor{grid: DefaultGrid}
	for _, opt := range opts {
		opt(e)
	}
	empty := []string{}
	e.colors.Store(&empty)
	return e
}

// Update starts extraction for layers and returns immediately.
func (e *Extractor) Update(layers layer.List) {
	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return
	}
	if e.cancel != nil {
		e.cancel()
	}
	e.gen++
	gen := e.gen
	ctx, cancel := context.WithCancel(context.Background())
	e.cancel = cancel
	e.wg.Add(1)
	e.mu.Unlock()

	go func() {
		defer e.wg.Done()
		defer cancel()
		colors, err := LayerColors(ctx, layers, e.grid)
		if err != nil {
			return
		}
		e.publish(gen, colors)
	}()
}

func (e *Extractor) publish(gen uint64, colors []string) {
	e.mu.Lock()
	if gen != e.gen || e.closed {
		e.mu.Unlock()
		return
	}
	if colors == nil {
		colors = []string{}
	}
	e.colors.Store(&colors)
	fn := e.onUpdate
	e.mu.Unlock()

	designclo.Logger().Debug("palette: updated", "colors", len(colors))
	if fn != nil {
		fn(slices.Clone(colors))
	}
}

// Colors returns the latest published presets.
func (e *Extractor) Colors() []string {
	return slices.Clone(*e.colors.Load())
}

// Wait blocks until every started extraction has finished.
func (e *Extractor) Wait() {
	e.wg.Wait()
}

// Close cancels pending work and waits for it. Later Updates are ignored.
func (e *Extractor) Close() {
	e.mu.Lock()
	e.closed = true
	if e.cancel != nil {
		e.cancel()
	}
	e.mu.Unlock()
	e.wg.Wait()
}

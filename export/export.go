// Copyright 2026 The designclo Authors
// SPDX-License-Identifier: MIT

// Package export captures flattened renders of the garment.
//
// [Capture] walks the camera through a list of views, waits for each to
// settle, renders, crops the frame to its visible content and encodes
// it as a PNG data URI. [SaveAll] hands the results to a platform
// [Saver].
package export

import (
	"context"
	"fmt"
	"time"

	"github.com/danieljohnbyns/designclo"
	"github.com/danieljohnbyns/designclo/scene"
)

// DefaultSettle is how long the camera is given to settle before a
// frame is captured.
const DefaultSettle = 500 * time.Millisecond

// Image is one captured view.
type Image struct {
	Label string

	// Source is a data:image/png;base64 URI.
	Source string
}

// Option configures Capture.
type Option func(*options)

type options struct {
	settle time.Duration
	sleep  func(time.Duration)
}

// WithSettle sets the settle delay. Zero disables waiting.
func WithSettle(d time.Duration) Option {
	return func(o *options) {
		if d >= 0 {
			o.settle = d
		}
	}
}

// WithSleep replaces time.Sleep for the settle wait.
func WithSleep(sleep func(time.Duration)) Option {
	return func(o *options) {
		if sleep != nil {
			o.sleep = sleep
		}
	}
}

// Capture renders state from each view in order. The camera is left at
// the last view. ctx is checked between views; a settle wait in
// progress always completes.
func Capture(ctx context.Context, state *scene.DynamicState, views []scene.View, opts ...Option) ([]Image, error) {
	if !state.Ready() {
		return nil, scene.ErrNotReady
	}
	o := options{settle: DefaultSettle, sleep: time.Sleep}
	for _, opt := range opts {
		opt(&o)
	}

	images := make([]Image, 0, len(views))
	for _, v := range views {
		if err := ctx.Err(); err != nil {
			return images, err
		}
		state.Camera.SetPosition(v.Position)
		if o.settle > 0 {
			o.sleep(o.settle)
		}
		if err := state.Renderer.Render(); err != nil {
			return images, fmt.Errorf("export: render %s: %w", v.Label, err)
		}
		frame, err := state.Renderer.Snapshot()
		if err != nil {
			return images, fmt.Errorf("export: snapshot %s: %w", v.Label, err)
		}
		uri, err := DataURI(CropAlpha(frame))
		if err != nil {
			return images, fmt.Errorf("export: encode %s: %w", v.Label, err)
		}
		designclo.Logger().Debug("export: captured", "view", v.Label, "bytes", len(uri))
		images = append(images, Image{Label: v.Label, Source: uri})
	}
	return images, nil
}

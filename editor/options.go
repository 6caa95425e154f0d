// Copyright 2026 The designclo Authors
// SPDX-License-Identifier: MIT

package editor

import (
	"github.com/danieljohnbyns/designclo/asset"
	"github.com/danieljohnbyns/designclo/fonts"
	"github.com/danieljohnbyns/designclo/history"
	"github.com/danieljohnbyns/designclo/idgen"
	"github.com/danieljohnbyns/designclo/palette"
	"github.com/danieljohnbyns/designclo/scene"
)

// Default texture dimensions.
const (
	DefaultTextureWidth  = 1024
	DefaultTextureHeight = 1024
)

// Option configures an Editor.
type Option func(*options)

type options struct {
	history    *history.Log
	fonts      *fonts.Registry
	candidates []string
	assets     *asset.Library
	ids        idgen.Generator
	notifier   Notifier
	width      int
	height     int
	palette    *palette.Extractor
	animator   *scene.Animator
	clickSlop  float64
}

func defaultOptions() options {
	return options{
		candidates: fonts.Candidates,
		ids:        idgen.Layer(),
		width:      DefaultTextureWidth,
		height:     DefaultTextureHeight,
		clickSlop:  DefaultClickSlop,
	}
}

// WithHistory uses h instead of a fresh log. The editor starts from h's
// active entry.
func WithHistory(h *history.Log) Option {
	return func(o *options) {
		if h != nil {
			o.history = h
		}
	}
}

// WithFonts sets the font registry. The default is fonts.Default().
func WithFonts(r *fonts.Registry) Option {
	return func(o *options) {
		if r != nil {
			o.fonts = r
		}
	}
}

// WithFontCandidates sets the families probed for availability.
func WithFontCandidates(names []string) Option {
	return func(o *options) {
		if len(names) > 0 {
			o.candidates = names
		}
	}
}

// WithAssets sets the asset library.
func WithAssets(l *asset.Library) Option {
	return func(o *options) {
		if l != nil {
			o.assets = l
		}
	}
}

// WithIDs sets the layer id generator.
func WithIDs(gen idgen.Generator) Option {
	return func(o *options) {
		if gen != nil {
			o.ids = gen
		}
	}
}

// WithNotifier sets where user-facing messages go.
func WithNotifier(n Notifier) Option {
	return func(o *options) {
		o.notifier = n
	}
}

// WithTextureSize sets the texture dimensions used for default image
// sizes, size limits and nudging.
func WithTextureSize(width, height int) Option {
	return func(o *options) {
		if width > 0 && height > 0 {
			o.width, o.height = width, height
		}
	}
}

// WithPalette sets the preset extractor. The editor closes it on Close.
func WithPalette(e *palette.Extractor) Option {
	return func(o *options) {
		if e != nil {
			o.palette = e
		}
	}
}

// WithAnimator sets the animator used to return the camera after an
// export.
func WithAnimator(a *scene.Animator) Option {
	return func(o *options) {
		o.animator = a
	}
}

// WithClickSlop sets how far a pointer may travel between press and
// release and still count as a click.
func WithClickSlop(px float64) Option {
	return func(o *options) {
		if px >= 0 {
			o.clickSlop = px
		}
	}
}

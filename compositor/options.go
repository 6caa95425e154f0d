// Copyright 2026 The designclo Authors
// SPDX-License-Identifier: MIT

package compositor

// SelectionStyle describes the outline around the selected layer.
type SelectionStyle struct {
	Color string
	Width float64
	Dash  []float64
}

// DefaultSelection is a 2px red outline dashed 12 on, 12 off.
var DefaultSelection = SelectionStyle{
	Color: "#ff0000",
	Width: 2,
	Dash:  []float64{12, 12},
}

// Option configures a Compositor.
type Option func(*options)

type options struct {
	selection SelectionStyle
}

func defaultOptions() options {
	return options{selection: DefaultSelection}
}

// WithSelectionStyle overrides the selection outline.
func WithSelectionStyle(s SelectionStyle) Option {
	return func(o *options) {
		o.selection = s
	}
}

// Copyright 2026 The designclo Authors
// SPDX-License-Identifier: MIT

package history

import "github.com/danieljohnbyns/designclo/idgen"

// Option configures a Log.
type Option func(*options)

type options struct {
	limit   int
	initial string
	ids     idgen.Generator
}

func defaultOptions() options {
	return options{
		limit:   DefaultLimit,
		initial: InitialBaseColor,
		ids:     idgen.Entry(),
	}
}

// WithLimit caps the number of entries. Values below 1 are ignored.
func WithLimit(n int) Option {
	return func(o *options) {
		if n >= 1 {
			o.limit = n
		}
	}
}

// WithInitialBaseColor sets the base colour of the first entry.
func WithInitialBaseColor(hex string) Option {
	return func(o *options) {
		o.initial = hex
	}
}

// WithIDs sets the entry id generator.
func WithIDs(gen idgen.Generator) Option {
	return func(o *options) {
		if gen != nil {
			o.ids = gen
		}
	}
}

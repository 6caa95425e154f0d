// Copyright 2026 The designclo Authors
// SPDX-License-Identifier: MIT

package fonts

// Option configures a Registry during creation.
type Option func(*options)

type options struct {
	fallback  string
	faceCache int
	aliases   map[string]string
}

func defaultOptions() options {
	return options{
		fallback:  Go,
		faceCache: 128,
		aliases: map[string]string{
			"Arial":     Go,
			"Monospace": GoMono,
		},
	}
}

// WithFallback sets the family used for unknown names. It must be one of
// the bundled families.
func WithFallback(name string) Option {
	return func(o *options) {
		o.fallback = name
	}
}

// WithFaceCache sets how many sized faces are kept.
func WithFaceCache(n int) Option {
	return func(o *options) {
		o.faceCache = n
	}
}

// WithAliases adds aliases resolved against the bundled families. Later
// entries override the defaults.
func WithAliases(aliases map[string]string) Option {
	return func(o *options) {
		for k, v := range aliases {
			o.aliases[k] = v
		}
	}
}

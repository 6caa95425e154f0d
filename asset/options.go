// Copyright 2026 The designclo Authors
// SPDX-License-Identifier: MIT

package asset

import "github.com/danieljohnbyns/designclo/idgen"

// Option configures a Library.
type Option func(*options)

type options struct {
	ids idgen.Generator
}

func defaultOptions() options {
	return options{ids: idgen.Asset()}
}

// WithIDs sets the asset id generator.
func WithIDs(gen idgen.Generator) Option {
	return func(o *options) {
		if gen != nil {
			o.ids = gen
		}
	}
}

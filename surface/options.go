// Copyright 2026 The designclo Authors
// SPDX-License-Identifier: MIT

package surface

import "github.com/gogpu/gpucontext"

// Option configures a Texture during creation.
type Option func(*options)

type options struct {
	provider gpucontext.DeviceProvider
	target   gpucontext.TextureUpdater
}

func defaultOptions() options { return options{} }

// WithDeviceProvider shares a host GPU device with gg's accelerator.
func WithDeviceProvider(p gpucontext.DeviceProvider) Option {
	return func(o *options) {
		o.provider = p
	}
}

// WithUploadTarget makes Flush upload RGBA pixels to u.
func WithUploadTarget(u gpucontext.TextureUpdater) Option {
	return func(o *options) {
		o.target = u
	}
}

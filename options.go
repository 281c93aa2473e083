// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package d3d10

import (
	"time"

	"github.com/gogpu/d3d10/internal/engine"
)

// Option configures a Device during creation.
//
// Example:
//
//	dev, err := d3d10.NewDevice(halDevice, halQueue,
//	    d3d10.WithFlags(d3d10.CreateDeviceSingleThreaded),
//	    d3d10.WithLabelPrefix("game"))
type Option func(*deviceOptions)

// deviceOptions holds optional configuration for Device creation.
type deviceOptions struct {
	flags         CreateDeviceFlag
	clearTimeout  time.Duration
	surfaceFormat Format
	labelPrefix   string

	// engine replaces the HAL-backed engine. Tests use it to inject
	// failures.
	engine engine.Engine
}

// defaultOptions returns the default device options.
func defaultOptions() deviceOptions {
	return deviceOptions{
		clearTimeout:  engine.DefaultTimeout,
		surfaceFormat: FormatB8G8R8A8Unorm,
		labelPrefix:   "d3d10",
	}
}

// WithFlags sets the device creation flags. CreateDeviceSingleThreaded
// turns multithread protection off.
func WithFlags(f CreateDeviceFlag) Option {
	return func(o *deviceOptions) {
		o.flags = f
	}
}

// WithClearTimeout bounds how long a clear waits for the engine to finish.
func WithClearTimeout(d time.Duration) Option {
	return func(o *deviceOptions) {
		if d > 0 {
			o.clearTimeout = d
		}
	}
}

// WithSurfaceFormat sets the default back-buffer format of swapchains
// created through the device parent. It overrides the format reported by
// a gpucontext provider.
func WithSurfaceFormat(f Format) Option {
	return func(o *deviceOptions) {
		o.surfaceFormat = f
	}
}

// WithLabelPrefix sets the prefix of the debug labels given to engine
// objects.
func WithLabelPrefix(prefix string) Option {
	return func(o *deviceOptions) {
		o.labelPrefix = prefix
	}
}

func withEngine(e engine.Engine) Option {
	return func(o *deviceOptions) {
		o.engine = e
	}
}

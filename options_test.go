// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package d3d10

import (
	"strings"
	"testing"
	"time"

	"github.com/gogpu/d3d10/internal/engine"
)

// TestDefaultOptions tests the configuration of a device created without
// options.
func TestDefaultOptions(t *testing.T) {
	o := defaultOptions()

	if o.clearTimeout != engine.DefaultTimeout {
		t.Errorf("clearTimeout = %v, want %v", o.clearTimeout, engine.DefaultTimeout)
	}
	if o.surfaceFormat != FormatB8G8R8A8Unorm {
		t.Errorf("surfaceFormat = %v, want %v", o.surfaceFormat, FormatB8G8R8A8Unorm)
	}
	if o.labelPrefix != "d3d10" {
		t.Errorf("labelPrefix = %q, want d3d10", o.labelPrefix)
	}
	if o.flags != 0 || o.engine != nil {
		t.Errorf("flags = %v, engine = %v, want zero", o.flags, o.engine)
	}
}

// TestOptionsApply tests that each option sets its field.
func TestOptionsApply(t *testing.T) {
	o := defaultOptions()
	for _, opt := range []Option{
		WithFlags(CreateDeviceDebug),
		WithClearTimeout(time.Second),
		WithSurfaceFormat(FormatR8G8B8A8UnormSRGB),
		WithLabelPrefix("scene"),
	} {
		opt(&o)
	}

	if o.flags != CreateDeviceDebug {
		t.Errorf("flags = %v, want %v", o.flags, CreateDeviceDebug)
	}
	if o.clearTimeout != time.Second {
		t.Errorf("clearTimeout = %v, want 1s", o.clearTimeout)
	}
	if o.surfaceFormat != FormatR8G8B8A8UnormSRGB {
		t.Errorf("surfaceFormat = %v", o.surfaceFormat)
	}
	if o.labelPrefix != "scene" {
		t.Errorf("labelPrefix = %q, want scene", o.labelPrefix)
	}
}

// TestWithClearTimeoutIgnoresNonPositive tests that zero and negative
// timeouts keep the default.
func TestWithClearTimeoutIgnoresNonPositive(t *testing.T) {
	for _, d := range []time.Duration{0, -time.Second} {
		o := defaultOptions()
		WithClearTimeout(d)(&o)
		if o.clearTimeout != engine.DefaultTimeout {
			t.Errorf("WithClearTimeout(%v): clearTimeout = %v, want default", d, o.clearTimeout)
		}
	}
}

// TestLabelPrefix tests that engine labels carry the prefix and are unique.
func TestLabelPrefix(t *testing.T) {
	d, _ := newTestDevice(t, WithLabelPrefix("hud"))
	defer d.Release()

	a, b := d.label("buffer"), d.label("buffer")
	if !strings.HasPrefix(a, "hud_buffer_") {
		t.Errorf("label = %q, want hud_buffer_ prefix", a)
	}
	if a == b {
		t.Errorf("labels should be unique, got %q twice", a)
	}
}

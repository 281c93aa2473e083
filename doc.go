// Package d3d10 provides a Direct3D 10 style device on top of the gogpu
// HAL.
//
// # Overview
//
// A [Device] creates resources, views, state objects and shaders and keeps
// the currently bound pipeline. Objects are reference counted the COM way:
// each starts with one reference, [Unknown.AddRef] and [Unknown.Release]
// adjust it and the last release destroys the object. Capability groups
// are queried with [Unknown.QueryInterface] and an [IID].
//
// # Quick Start
//
//	dev, err := d3d10.NewDevice(halDevice, halQueue)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer dev.Release()
//
//	buf, err := dev.CreateBuffer(&d3d10.BufferDesc{
//	    ByteWidth: 256,
//	    BindFlags: d3d10.BindVertexBuffer,
//	}, nil)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer buf.Release()
//
// # State objects
//
// Blend, depth-stencil, rasterizer and sampler states are interned per
// device. Creating a state from a descriptor equal to that of a live state
// returns the live object with a reference added.
//
// # Bindings
//
// Binding an object to a pipeline slot does not add a reference. When a
// bound object is destroyed the device clears every slot that holds it.
// Getters return what the last setter stored, with a reference added to
// every non-nil object.
//
// # Errors
//
// Every error wraps one of [ErrInvalidArg], [ErrOutOfMemory],
// [ErrNoInterface], [ErrNotImplemented] or [ErrFail]. [StatusOf] maps an
// error to its [Status]. Operations without an engine path, such as the
// draw calls, return [ErrNotImplemented] and log a warning.
//
// # Logging
//
// The package is silent by default. [SetLogger] installs a [log/slog]
// logger for this package and its internal engine and for package dxbc.
package d3d10

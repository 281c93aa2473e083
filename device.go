// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package d3d10

import (
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/gogpu/gpucontext"
	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/d3d10/internal/engine"
	"github.com/gogpu/d3d10/internal/intern"
)

// ErrNoProvider is wrapped by NewDeviceFromProvider when the provider does
// not expose HAL handles.
var ErrNoProvider = errors.New("d3d10: provider does not expose HAL types")

// Device is the root object of the layer. It creates resources, views,
// states and shaders and holds the currently bound pipeline.
//
// A Device starts with one reference. Every object it creates holds a
// further reference, except geometry shaders.
type Device struct {
	refs   refCount
	engine engine.Engine
	opts   deviceOptions

	multithread Multithread
	parent      DeviceParent

	blendStates        *intern.Cache[string, *BlendState]
	depthStencilStates *intern.Cache[string, *DepthStencilState]
	rasterizerStates   *intern.Cache[string, *RasterizerState]
	samplerStates      *intern.Cache[string, *SamplerState]

	// bindMu guards bound. Destroy notifications may arrive from any
	// goroutine.
	bindMu sync.Mutex
	bound  pipeline

	exceptionMode atomic.Uint32
	labels        atomic.Uint64
	destroyed     atomic.Bool
}

// NewDevice creates a device over a HAL device and queue. The caller keeps
// ownership of both; they must outlive the returned Device.
func NewDevice(device hal.Device, queue hal.Queue, opts ...Option) (*Device, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	e := o.engine
	if e == nil {
		h, err := engine.New(device, queue, o.clearTimeout, false)
		if err != nil {
			return nil, invalidArg("%v", err)
		}
		e = h
	}
	return newDevice(e, o), nil
}

// NewDeviceFromProvider creates a device that shares the GPU device of a
// gpucontext provider. The provider must also implement HalDevice() any and
// HalQueue() any returning hal.Device and hal.Queue. Its surface format
// becomes the default swapchain format unless WithSurfaceFormat is given.
func NewDeviceFromProvider(provider gpucontext.DeviceProvider, opts ...Option) (*Device, error) {
	type halProvider interface {
		HalDevice() any
		HalQueue() any
	}
	if provider == nil {
		return nil, invalidArg("nil provider")
	}
	hp, ok := provider.(halProvider)
	if !ok {
		return nil, fmt.Errorf("%w: %w", ErrInvalidArg, ErrNoProvider)
	}
	device, ok := hp.HalDevice().(hal.Device)
	if !ok || device == nil {
		return nil, invalidArg("provider HalDevice is not hal.Device")
	}
	queue, ok := hp.HalQueue().(hal.Queue)
	if !ok || queue == nil {
		return nil, invalidArg("provider HalQueue is not hal.Queue")
	}

	// Options given by the caller are applied after, so WithSurfaceFormat
	// still wins.
	if f := formatOf(provider.SurfaceFormat()); f != FormatUnknown {
		opts = append([]Option{WithSurfaceFormat(f)}, opts...)
	}
	return NewDevice(device, queue, opts...)
}

func newDevice(e engine.Engine, o deviceOptions) *Device {
	d := &Device{
		engine:             e,
		opts:               o,
		blendStates:        intern.New[string, *BlendState](),
		depthStencilStates: intern.New[string, *DepthStencilState](),
		rasterizerStates:   intern.New[string, *RasterizerState](),
		samplerStates:      intern.New[string, *SamplerState](),
	}
	d.refs.init()
	d.multithread.device = d
	d.multithread.protected.Store(o.flags&CreateDeviceSingleThreaded == 0)
	d.parent.device = d
	d.bound.reset(new(unbound))

	slogger().Info("d3d10: device created",
		"flags", o.flags, "multithread", d.multithread.protected.Load())
	return d
}

// QueryInterface returns the sub-object implementing iid: the device
// itself, its Multithread capability or its DeviceParent.
func (d *Device) QueryInterface(iid IID) (Unknown, error) {
	var u Unknown
	switch iid {
	case IIDUnknown, IIDDevice:
		u = d
	case IIDMultithread:
		u = &d.multithread
	case IIDDeviceParent:
		u = &d.parent
	default:
		return nil, fmt.Errorf("%w: device does not implement %v", ErrNoInterface, iid)
	}
	u.AddRef()
	return u, nil
}

// AddRef adds a reference to the device.
func (d *Device) AddRef() uint32 { return d.refs.addRef() }

// Release drops a reference. The last release unbinds everything,
// destroying objects only the pipeline still held, and then destroys the
// device.
func (d *Device) Release() uint32 {
	n, last := d.refs.release()
	if last {
		d.destroy()
	}
	return n
}

// RefCount returns the current reference count.
func (d *Device) RefCount() uint32 { return d.refs.count() }

func (d *Device) destroy() {
	// Objects only the pipeline still holds are torn down here, while the
	// engine is alive.
	_ = d.bind(func(p *pipeline, u *unbound) error { p.reset(u); return nil })

	leaked := d.blendStates.Len() + d.depthStencilStates.Len() +
		d.rasterizerStates.Len() + d.samplerStates.Len()
	if leaked != 0 {
		slogger().Error("d3d10: device destroyed with live state objects",
			"blend", d.blendStates.Len(),
			"depth_stencil", d.depthStencilStates.Len(),
			"rasterizer", d.rasterizerStates.Len(),
			"sampler", d.samplerStates.Len())
	}

	d.destroyed.Store(true)
	d.engine.Destroy()
	slogger().Info("d3d10: device destroyed")
}

// label returns a unique debug label for an engine object of kind.
func (d *Device) label(kind string) string {
	return fmt.Sprintf("%s_%s_%d", d.opts.labelPrefix, kind, d.labels.Add(1))
}

// StateCacheLen returns the number of live interned state objects per kind:
// blend, depth-stencil, rasterizer and sampler.
func (d *Device) StateCacheLen() (blend, depthStencil, rasterizer, sampler int) {
	return d.blendStates.Len(), d.depthStencilStates.Len(),
		d.rasterizerStates.Len(), d.samplerStates.Len()
}

// GetDeviceRemovedReason always reports that the device is present.
func (d *Device) GetDeviceRemovedReason() error { return nil }

// SetExceptionMode stores the raise flags. They have no effect.
func (d *Device) SetExceptionMode(flags uint32) error {
	d.exceptionMode.Store(flags)
	return nil
}

// GetExceptionMode returns the flags set by SetExceptionMode.
func (d *Device) GetExceptionMode() uint32 { return d.exceptionMode.Load() }

// SetTextFilterSize is accepted and ignored.
func (d *Device) SetTextFilterSize(width, height uint32) {
	stub("SetTextFilterSize", "width", width, "height", height)
}

// GetTextFilterSize always returns zero.
func (d *Device) GetTextFilterSize() (width, height uint32) {
	stub("GetTextFilterSize")
	return 0, 0
}

// Flush submits pending work. Engine submissions are synchronous, so there
// is never anything pending.
func (d *Device) Flush() {
	slogger().Debug("d3d10: flush")
}

// OpenSharedResource is not implemented.
func (d *Device) OpenSharedResource(handle uintptr, iid IID) (Unknown, error) {
	return nil, notImplemented("OpenSharedResource", "handle", handle, "iid", iid)
}

// CounterDesc describes a performance counter.
type CounterDesc struct {
	Counter   uint32
	MiscFlags uint32
}

// CounterInfo describes the counters of the device.
type CounterInfo struct {
	LastDeviceDependentCounter uint32
	NumSimultaneousCounters    uint32
	NumDetectableParallelUnits uint8
}

// CreateCounter is not implemented.
func (d *Device) CreateCounter(desc *CounterDesc) (Unknown, error) {
	return nil, notImplemented("CreateCounter")
}

// CheckCounterInfo is not implemented.
func (d *Device) CheckCounterInfo() (CounterInfo, error) {
	return CounterInfo{}, notImplemented("CheckCounterInfo")
}

// CheckCounter is not implemented.
func (d *Device) CheckCounter(desc *CounterDesc) error {
	return notImplemented("CheckCounter")
}

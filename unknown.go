// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package d3d10

import (
	"fmt"
	"slices"
	"sync"
	"sync/atomic"
)

// IID identifies a capability group.
type IID uint32

const (
	IIDUnknown IID = iota
	IIDDevice
	IIDMultithread
	IIDDeviceParent
	IIDDeviceChild
	IIDResource
	IIDBuffer
	IIDTexture1D
	IIDTexture2D
	IIDTexture3D
	IIDView
	IIDRenderTargetView
	IIDDepthStencilView
	IIDShaderResourceView
	IIDBlendState
	IIDDepthStencilState
	IIDRasterizerState
	IIDSamplerState
	IIDVertexShader
	IIDGeometryShader
	IIDPixelShader
	IIDInputLayout
	IIDAsynchronous
	IIDQuery
	IIDPredicate
	IIDSurface
	IIDSwapchain
)

var iidNames = [...]string{
	IIDUnknown:            "IUnknown",
	IIDDevice:             "ID3D10Device",
	IIDMultithread:        "ID3D10Multithread",
	IIDDeviceParent:       "DeviceParent",
	IIDDeviceChild:        "ID3D10DeviceChild",
	IIDResource:           "ID3D10Resource",
	IIDBuffer:             "ID3D10Buffer",
	IIDTexture1D:          "ID3D10Texture1D",
	IIDTexture2D:          "ID3D10Texture2D",
	IIDTexture3D:          "ID3D10Texture3D",
	IIDView:               "ID3D10View",
	IIDRenderTargetView:   "ID3D10RenderTargetView",
	IIDDepthStencilView:   "ID3D10DepthStencilView",
	IIDShaderResourceView: "ID3D10ShaderResourceView",
	IIDBlendState:         "ID3D10BlendState",
	IIDDepthStencilState:  "ID3D10DepthStencilState",
	IIDRasterizerState:    "ID3D10RasterizerState",
	IIDSamplerState:       "ID3D10SamplerState",
	IIDVertexShader:       "ID3D10VertexShader",
	IIDGeometryShader:     "ID3D10GeometryShader",
	IIDPixelShader:        "ID3D10PixelShader",
	IIDInputLayout:        "ID3D10InputLayout",
	IIDAsynchronous:       "ID3D10Asynchronous",
	IIDQuery:              "ID3D10Query",
	IIDPredicate:          "ID3D10Predicate",
	IIDSurface:            "Surface",
	IIDSwapchain:          "Swapchain",
}

func (id IID) String() string {
	if int(id) < len(iidNames) {
		return iidNames[id]
	}
	return fmt.Sprintf("IID(%d)", uint32(id))
}

// Unknown is implemented by every object of the package.
//
// QueryInterface returns the object that implements the capability group
// iid with one reference added, or ErrNoInterface. A failed query never
// changes a reference count.
type Unknown interface {
	QueryInterface(iid IID) (Unknown, error)
	AddRef() uint32
	Release() uint32
}

// GUID keys private data attached to device children.
type GUID [16]byte

// refCount is an atomic external reference count. Counts start at one.
type refCount struct {
	n atomic.Int32
}

func (r *refCount) init() { r.n.Store(1) }

func (r *refCount) count() uint32 { return uint32(max(r.n.Load(), 0)) }

func (r *refCount) addRef() uint32 { return uint32(r.n.Add(1)) }

// release decrements the count and reports whether it reached zero.
func (r *refCount) release() (uint32, bool) {
	n := r.n.Add(-1)
	if n < 0 {
		slogger().Error("d3d10: object released more times than referenced", "count", n)
		return 0, false
	}
	return uint32(n), n == 0
}

// query answers QueryInterface for objects that implement every group in
// groups with themselves.
func query(self Unknown, iid IID, groups ...IID) (Unknown, error) {
	if iid == IIDUnknown || slices.Contains(groups, iid) {
		self.AddRef()
		return self, nil
	}
	return nil, fmt.Errorf("%w: %v", ErrNoInterface, iid)
}

// privateData stores caller metadata keyed by GUID. Interface values hold
// a reference that is dropped on replacement and on clear.
type privateData struct {
	mu   sync.Mutex
	data map[GUID]any
}

func (p *privateData) get(guid GUID) (any, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	v, ok := p.data[guid]
	return v, ok
}

// set stores v under guid. A nil v removes the entry.
func (p *privateData) set(guid GUID, v any) {
	p.mu.Lock()
	old, had := p.data[guid]
	if v == nil {
		delete(p.data, guid)
	} else {
		if p.data == nil {
			p.data = make(map[GUID]any)
		}
		p.data[guid] = v
	}
	p.mu.Unlock()

	if u, ok := old.(Unknown); had && ok {
		u.Release()
	}
}

func (p *privateData) clear() {
	p.mu.Lock()
	data := p.data
	p.data = nil
	p.mu.Unlock()

	for _, v := range data {
		if u, ok := v.(Unknown); ok {
			u.Release()
		}
	}
}

// lifetime counts the external references and the pipeline pins of a
// device child in one word, references in the low half and pins in the
// high half. References hold the device; pins only keep the object. Once
// both reach zero the object is dead and can never be revived.
type lifetime struct {
	word atomic.Uint64
}

const pinUnit = 1 << 32

func splitLifetime(w uint64) (refs, pins uint32) { return uint32(w), uint32(w >> 32) }

func (l *lifetime) init() { l.word.Store(1) }

func (l *lifetime) count() uint32 {
	refs, _ := splitLifetime(l.word.Load())
	return refs
}

// acquire adds a reference unless the object is dead. revived reports a
// zero to one transition, which only a pinned object can make.
func (l *lifetime) acquire() (n uint32, revived, ok bool) {
	for {
		w := l.word.Load()
		refs, pins := splitLifetime(w)
		if refs == 0 && pins == 0 {
			return 0, false, false
		}
		if l.word.CompareAndSwap(w, w+1) {
			return refs + 1, refs == 0, true
		}
	}
}

// release drops a reference. last reports that no reference is left and
// dead that no pin is left either.
func (l *lifetime) release() (n uint32, last, dead bool) {
	for {
		w := l.word.Load()
		refs, pins := splitLifetime(w)
		if refs == 0 {
			slogger().Error("d3d10: object released more times than referenced", "pins", pins)
			return 0, false, false
		}
		if l.word.CompareAndSwap(w, w-1) {
			return refs - 1, refs == 1, refs == 1 && pins == 0
		}
	}
}

// pin adds a pin unless the object is dead.
func (l *lifetime) pin() bool {
	for {
		w := l.word.Load()
		if w == 0 {
			return false
		}
		if l.word.CompareAndSwap(w, w+pinUnit) {
			return true
		}
	}
}

// unpin drops a pin and reports whether the object is now dead.
func (l *lifetime) unpin() bool {
	for {
		w := l.word.Load()
		refs, pins := splitLifetime(w)
		if pins == 0 {
			slogger().Error("d3d10: object unpinned more times than pinned", "refs", refs)
			return false
		}
		if l.word.CompareAndSwap(w, w-pinUnit) {
			return pins == 1 && refs == 0
		}
	}
}

// deviceChild implements the operations shared by every object created by
// a Device.
type deviceChild struct {
	life    lifetime
	device  *Device
	private privateData

	// holdsDevice is false for geometry shaders.
	holdsDevice bool
	// onDestroy releases what the object owns once it is dead.
	onDestroy func()
}

// GetPrivateData returns a copy of the bytes stored under guid.
func (c *deviceChild) GetPrivateData(guid GUID) ([]byte, error) {
	v, ok := c.private.get(guid)
	if !ok {
		return nil, invalidArg("no private data for %x", guid[:])
	}
	b, ok := v.([]byte)
	if !ok {
		return nil, invalidArg("private data for %x is an interface", guid[:])
	}
	return slices.Clone(b), nil
}

// SetPrivateData stores a copy of data under guid. Nil data removes the
// entry.
func (c *deviceChild) SetPrivateData(guid GUID, data []byte) error {
	if data == nil {
		c.private.set(guid, nil)
		return nil
	}
	c.private.set(guid, slices.Clone(data))
	return nil
}

// SetPrivateDataInterface stores u under guid and adds a reference to it.
// A nil u removes the entry.
func (c *deviceChild) SetPrivateDataInterface(guid GUID, u Unknown) error {
	if u == nil {
		c.private.set(guid, nil)
		return nil
	}
	u.AddRef()
	c.private.set(guid, u)
	return nil
}

// GetPrivateDataInterface returns the interface stored under guid with a
// reference added.
func (c *deviceChild) GetPrivateDataInterface(guid GUID) (Unknown, error) {
	v, ok := c.private.get(guid)
	if !ok {
		return nil, invalidArg("no private data for %x", guid[:])
	}
	u, ok := v.(Unknown)
	if !ok {
		return nil, invalidArg("private data for %x is not an interface", guid[:])
	}
	u.AddRef()
	return u, nil
}

// RefCount returns the current reference count. Pins are not included.
// It is meant for tests and diagnostics.
func (c *deviceChild) RefCount() uint32 { return c.life.count() }

// init prepares the child with one reference. When hold is set the child
// also takes a device reference, which it keeps while it has references.
// onDestroy may be nil.
func (c *deviceChild) init(d *Device, hold bool, onDestroy func()) {
	c.life.init()
	c.device = d
	c.holdsDevice = hold
	c.onDestroy = onDestroy
	if hold {
		d.AddRef()
	}
}

// AddRef adds a reference and returns the new count. A pinned object
// whose references had all been released takes its device reference
// again.
func (c *deviceChild) AddRef() uint32 {
	n, ok := c.tryAddRef()
	if !ok {
		slogger().Error("d3d10: reference added to a destroyed object")
	}
	return n
}

// tryAddRef adds a reference unless the object is already dead.
func (c *deviceChild) tryAddRef() (uint32, bool) {
	n, revived, ok := c.life.acquire()
	if revived && c.holdsDevice {
		c.device.AddRef()
	}
	return n, ok
}

// Release drops a reference. The last one drops the device reference, and
// the object is torn down once no pipeline slot pins it either.
func (c *deviceChild) Release() uint32 {
	n, last, dead := c.life.release()
	c.settle(last, dead)
	return n
}

// settle runs the effects of a release: teardown first, the device
// reference last.
func (c *deviceChild) settle(last, dead bool) {
	if dead {
		c.destroy()
	}
	if last && c.holdsDevice {
		c.device.Release()
	}
}

func (c *deviceChild) destroy() {
	c.private.clear()
	if c.onDestroy != nil {
		c.onDestroy()
	}
}

func (c *deviceChild) pin() bool { return c.life.pin() }

func (c *deviceChild) unpin() {
	if c.life.unpin() {
		c.destroy()
	}
}

// GetDevice returns the owning device with a reference added.
func (c *deviceChild) GetDevice() *Device {
	c.device.AddRef()
	return c.device
}

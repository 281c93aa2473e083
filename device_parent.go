// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package d3d10

import (
	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
)

// DeviceParent is the capability of a Device that creates presentation
// surfaces and swapchains. It shares the device's identity and reference
// count.
type DeviceParent struct {
	device *Device
}

// QueryInterface forwards to the device.
func (p *DeviceParent) QueryInterface(iid IID) (Unknown, error) {
	return p.device.QueryInterface(iid)
}

// AddRef adds a reference to the device.
func (p *DeviceParent) AddRef() uint32 { return p.device.AddRef() }

// Release drops a reference to the device.
func (p *DeviceParent) Release() uint32 { return p.device.Release() }

// Surface is a presentable view of a single-subresource 2D texture.
//
// A surface made with CreateSurface holds a reference to its texture. The
// surface a texture creates for itself holds none and is released by the
// texture before its engine texture is destroyed.
type Surface struct {
	refs    refCount
	device  *Device
	texture *Texture2D
	view    hal.TextureView

	// holdsTexture is set for surfaces made with CreateSurface.
	holdsTexture bool
}

// CreateSurface creates a surface for tex and adds a reference to the
// texture. The texture must have one mip level, one array slice and be
// bindable as a render target or depth stencil.
func (p *DeviceParent) CreateSurface(tex *Texture2D) (*Surface, error) {
	s, err := p.newSurface(tex)
	if err != nil {
		return nil, err
	}
	tex.AddRef()
	s.holdsTexture = true
	return s, nil
}

func (p *DeviceParent) newSurface(tex *Texture2D) (*Surface, error) {
	if tex == nil {
		return nil, invalidArg("nil texture")
	}
	if !tex.wantsSurface() {
		return nil, invalidArg("texture %dx%d with %d mips and %d slices cannot back a surface",
			tex.desc.Width, tex.desc.Height, tex.desc.MipLevels, tex.desc.ArraySize)
	}
	format, err := textureFormat(tex.desc.Format)
	if err != nil {
		return nil, err
	}

	d := p.device
	view, err := d.engine.CreateTextureView(tex.handle, &hal.TextureViewDescriptor{
		Label:           d.label("surface"),
		Format:          format,
		Dimension:       gputypes.TextureViewDimension2D,
		Aspect:          gputypes.TextureAspectAll,
		MipLevelCount:   1,
		ArrayLayerCount: 1,
	})
	if err != nil {
		return nil, engineError("create surface", err)
	}

	s := &Surface{device: d, texture: tex, view: view}
	s.refs.init()
	return s, nil
}

// QueryInterface answers for the surface group.
func (s *Surface) QueryInterface(iid IID) (Unknown, error) {
	return query(s, iid, IIDSurface)
}

// AddRef adds a reference to the surface.
func (s *Surface) AddRef() uint32 { return s.refs.addRef() }

// Release drops a reference. The last release destroys the engine view
// and then releases the texture if the surface holds it.
func (s *Surface) Release() uint32 {
	n, last := s.refs.release()
	if !last {
		return n
	}
	if !s.device.destroyed.Load() {
		s.device.engine.DestroyTextureView(s.view)
		s.view = nil
	}
	if s.holdsTexture {
		s.texture.Release()
	}
	return n
}

// Texture returns the texture behind the surface with a reference added.
func (s *Surface) Texture() *Texture2D {
	s.texture.AddRef()
	return s.texture
}

// Size returns the surface dimensions.
func (s *Surface) Size() (width, height uint32) {
	return s.texture.desc.Width, s.texture.desc.Height
}

// Format returns the surface format.
func (s *Surface) Format() Format { return s.texture.desc.Format }

// SwapchainDesc describes a swapchain. A zero Format selects the device's
// surface format; zero BufferCount means one buffer.
type SwapchainDesc struct {
	Width       uint32
	Height      uint32
	Format      Format
	BufferCount uint32
	SampleDesc  SampleDesc
}

// Swapchain owns a set of back buffers. Presentation is not implemented.
type Swapchain struct {
	refs    refCount
	device  *Device
	desc    SwapchainDesc
	buffers []*Texture2D
}

// CreateSwapchain creates the back buffers described by desc.
func (p *DeviceParent) CreateSwapchain(desc *SwapchainDesc) (*Swapchain, error) {
	if desc == nil {
		return nil, invalidArg("nil swapchain descriptor")
	}
	sc := &Swapchain{device: p.device, desc: *desc}
	if sc.desc.Format == FormatUnknown {
		sc.desc.Format = p.device.opts.surfaceFormat
	}
	if sc.desc.BufferCount == 0 {
		sc.desc.BufferCount = 1
	}
	if sc.desc.SampleDesc.Count == 0 {
		sc.desc.SampleDesc.Count = 1
	}
	if err := sc.createBuffers(); err != nil {
		return nil, err
	}
	sc.refs.init()
	p.device.AddRef()
	return sc, nil
}

func (sc *Swapchain) createBuffers() error {
	td := Texture2DDesc{
		Width:      sc.desc.Width,
		Height:     sc.desc.Height,
		MipLevels:  1,
		ArraySize:  1,
		Format:     sc.desc.Format,
		SampleDesc: sc.desc.SampleDesc,
		BindFlags:  BindRenderTarget | BindShaderResource,
	}
	buffers := make([]*Texture2D, 0, sc.desc.BufferCount)
	for range sc.desc.BufferCount {
		tex, err := sc.device.CreateTexture2D(&td, nil)
		if err != nil {
			for _, b := range buffers {
				b.Release()
			}
			return err
		}
		buffers = append(buffers, tex)
	}
	sc.buffers = buffers
	return nil
}

func (sc *Swapchain) releaseBuffers() {
	for _, b := range sc.buffers {
		b.Release()
	}
	sc.buffers = nil
}

// QueryInterface answers for the swapchain group.
func (sc *Swapchain) QueryInterface(iid IID) (Unknown, error) {
	return query(sc, iid, IIDSwapchain)
}

// AddRef adds a reference to the swapchain.
func (sc *Swapchain) AddRef() uint32 { return sc.refs.addRef() }

// Release drops a reference. The last release destroys the back buffers
// and drops the device reference.
func (sc *Swapchain) Release() uint32 {
	n, last := sc.refs.release()
	if last {
		sc.releaseBuffers()
		sc.device.Release()
	}
	return n
}

// Desc returns the effective swapchain descriptor.
func (sc *Swapchain) Desc() SwapchainDesc { return sc.desc }

// GetBuffer returns back buffer i with a reference added.
func (sc *Swapchain) GetBuffer(i uint32) (*Texture2D, error) {
	if int(i) >= len(sc.buffers) {
		return nil, invalidArg("buffer %d of %d", i, len(sc.buffers))
	}
	b := sc.buffers[i]
	b.AddRef()
	return b, nil
}

// ResizeBuffers recreates the back buffers. Zero arguments keep the
// current value.
func (sc *Swapchain) ResizeBuffers(count, width, height uint32, format Format) error {
	next := sc.desc
	if count != 0 {
		next.BufferCount = count
	}
	if width != 0 {
		next.Width = width
	}
	if height != 0 {
		next.Height = height
	}
	if format != FormatUnknown {
		next.Format = format
	}

	prev, prevDesc := sc.buffers, sc.desc
	sc.desc = next
	if err := sc.createBuffers(); err != nil {
		sc.buffers, sc.desc = prev, prevDesc
		return err
	}
	for _, b := range prev {
		b.Release()
	}
	return nil
}

// Present is not implemented.
func (sc *Swapchain) Present(syncInterval, flags uint32) error {
	return notImplemented("Present", "sync_interval", syncInterval, "flags", flags)
}

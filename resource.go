// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package d3d10

import (
	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
)

// Resource is implemented by the buffers and textures of a Device.
type Resource interface {
	Unknown
	GetType() ResourceDimension
	SetEvictionPriority(priority uint32)
	GetEvictionPriority() uint32

	// pin and unpin let a view keep its resource alive.
	pin() bool
	unpin()
}

// resource holds what every resource kind shares.
type resource struct {
	deviceChild
}

// SetEvictionPriority is accepted and ignored.
func (r *resource) SetEvictionPriority(priority uint32) {
	stub("SetEvictionPriority", "priority", priority)
}

// GetEvictionPriority always returns zero.
func (r *resource) GetEvictionPriority() uint32 {
	stub("GetEvictionPriority")
	return 0
}

// Buffer is a linear memory resource.
type Buffer struct {
	resource
	desc   BufferDesc
	handle hal.Buffer
}

// CreateBuffer creates a buffer. Initial data, when given, is uploaded
// through the engine queue.
func (d *Device) CreateBuffer(desc *BufferDesc, initial *SubresourceData) (*Buffer, error) {
	if desc == nil {
		return nil, invalidArg("nil buffer descriptor")
	}
	if desc.ByteWidth == 0 {
		return nil, invalidArg("zero-sized buffer")
	}
	if desc.BindFlags&BindConstantBuffer != 0 && desc.ByteWidth%16 != 0 {
		return nil, invalidArg("constant buffer size %d is not a multiple of 16", desc.ByteWidth)
	}
	if desc.BindFlags&(BindRenderTarget|BindDepthStencil) != 0 {
		return nil, invalidArg("buffer bind flags %#x", desc.BindFlags)
	}
	if desc.Usage == UsageImmutable && (initial == nil || initial.Data == nil) {
		return nil, invalidArg("immutable buffer without initial data")
	}
	if initial != nil && uint64(len(initial.Data)) > uint64(desc.ByteWidth) {
		return nil, invalidArg("initial data of %d bytes exceeds buffer size %d", len(initial.Data), desc.ByteWidth)
	}

	handle, err := d.engine.CreateBuffer(&hal.BufferDescriptor{
		Label: d.label("buffer"),
		Size:  uint64(desc.ByteWidth),
		Usage: bufferUsage(desc.BindFlags),
	})
	if err != nil {
		return nil, engineError("create buffer", err)
	}
	if initial != nil {
		if err := d.engine.WriteBuffer(handle, 0, initial.Data); err != nil {
			d.engine.DestroyBuffer(handle)
			return nil, engineError("upload buffer data", err)
		}
	}

	b := &Buffer{desc: *desc, handle: handle}
	b.init(d, true, b.destroyHandle)
	return b, nil
}

func bufferUsage(bind BindFlag) gputypes.BufferUsage {
	u := gputypes.BufferUsageCopyDst | gputypes.BufferUsageCopySrc
	if bind&BindVertexBuffer != 0 {
		u |= gputypes.BufferUsageVertex
	}
	if bind&BindIndexBuffer != 0 {
		u |= gputypes.BufferUsageIndex
	}
	if bind&BindConstantBuffer != 0 {
		u |= gputypes.BufferUsageUniform
	}
	if bind&(BindShaderResource|BindStreamOutput) != 0 {
		u |= gputypes.BufferUsageStorage
	}
	return u
}

// QueryInterface answers for the device-child, resource and buffer groups.
func (b *Buffer) QueryInterface(iid IID) (Unknown, error) {
	return query(b, iid, IIDDeviceChild, IIDResource, IIDBuffer)
}

func (b *Buffer) destroyHandle() {
	b.device.engine.DestroyBuffer(b.handle)
	b.handle = nil
}

// GetType returns ResourceDimensionBuffer.
func (b *Buffer) GetType() ResourceDimension { return ResourceDimensionBuffer }

// GetDesc returns the buffer descriptor.
func (b *Buffer) GetDesc() BufferDesc { return b.desc }

// Map is not implemented.
func (b *Buffer) Map(mapType MapType, flags uint32) ([]byte, error) {
	return nil, notImplemented("Buffer.Map", "type", mapType)
}

// Unmap is not implemented.
func (b *Buffer) Unmap() {
	stub("Buffer.Unmap")
}

// texture holds what every texture kind shares.
type texture struct {
	resource
	handle hal.Texture
}

func (t *texture) destroyHandle() {
	t.device.engine.DestroyTexture(t.handle)
	t.handle = nil
}

// Map is not implemented.
func (t *texture) Map(subresource uint32, mapType MapType, flags uint32) ([]byte, error) {
	return nil, notImplemented("Texture.Map", "subresource", subresource, "type", mapType)
}

// Unmap is not implemented.
func (t *texture) Unmap(subresource uint32) {
	stub("Texture.Unmap", "subresource", subresource)
}

func textureUsage(bind BindFlag) gputypes.TextureUsage {
	u := gputypes.TextureUsageCopySrc | gputypes.TextureUsageCopyDst
	if bind&BindShaderResource != 0 {
		u |= gputypes.TextureUsageTextureBinding
	}
	if bind&(BindRenderTarget|BindDepthStencil) != 0 {
		u |= gputypes.TextureUsageRenderAttachment
	}
	return u
}

// validateTexture checks what all texture kinds have in common and
// resolves a zero mip count to the full chain.
func validateTexture(format Format, bind BindFlag, mips *uint32, dims ...uint32) (gputypes.TextureFormat, error) {
	for _, n := range dims {
		if n == 0 {
			return noTexture, invalidArg("zero texture dimension")
		}
	}
	tf, err := textureFormat(format)
	if err != nil {
		return noTexture, err
	}
	if bind&(BindVertexBuffer|BindIndexBuffer|BindConstantBuffer|BindStreamOutput) != 0 {
		return noTexture, invalidArg("texture bind flags %#x", bind)
	}
	if format.IsDepth() && bind&BindRenderTarget != 0 {
		return noTexture, invalidArg("depth format %v bound as render target", format)
	}
	if !format.IsDepth() && bind&BindDepthStencil != 0 {
		return noTexture, invalidArg("color format %v bound as depth stencil", format)
	}
	full := fullMipChain(dims...)
	if *mips == 0 {
		*mips = full
	}
	if *mips > full {
		return noTexture, invalidArg("%d mip levels exceed the full chain of %d", *mips, full)
	}
	return tf, nil
}

// Texture1D is a 1D texture or texture array.
type Texture1D struct {
	texture
	desc Texture1DDesc
}

// CreateTexture1D creates a 1D texture. Initial data is not implemented.
func (d *Device) CreateTexture1D(desc *Texture1DDesc, initial []SubresourceData) (*Texture1D, error) {
	if desc == nil {
		return nil, invalidArg("nil texture descriptor")
	}
	td := *desc
	if td.ArraySize == 0 {
		return nil, invalidArg("zero array size")
	}
	tf, err := validateTexture(td.Format, td.BindFlags, &td.MipLevels, td.Width)
	if err != nil {
		return nil, err
	}
	if initial != nil {
		return nil, notImplemented("CreateTexture1D initial data")
	}

	handle, err := d.engine.CreateTexture(&hal.TextureDescriptor{
		Label:         d.label("texture1d"),
		Size:          hal.Extent3D{Width: td.Width, Height: 1, DepthOrArrayLayers: td.ArraySize},
		MipLevelCount: td.MipLevels,
		SampleCount:   1,
		Dimension:     gputypes.TextureDimension1D,
		Format:        tf,
		Usage:         textureUsage(td.BindFlags),
	})
	if err != nil {
		return nil, engineError("create texture1d", err)
	}

	t := &Texture1D{desc: td}
	t.handle = handle
	t.init(d, true, t.destroyHandle)
	return t, nil
}

// QueryInterface answers for the device-child, resource and 1D texture groups.
func (t *Texture1D) QueryInterface(iid IID) (Unknown, error) {
	return query(t, iid, IIDDeviceChild, IIDResource, IIDTexture1D)
}

// GetType returns ResourceDimensionTexture1D.
func (t *Texture1D) GetType() ResourceDimension { return ResourceDimensionTexture1D }

// GetDesc returns the descriptor with the resolved mip count.
func (t *Texture1D) GetDesc() Texture1DDesc { return t.desc }

// Texture2D is a 2D texture, texture array or multisampled texture.
type Texture2D struct {
	texture
	desc    Texture2DDesc
	surface *Surface
}

// CreateTexture2D creates a 2D texture. A single-mip, single-slice texture
// bindable as a render target or depth stencil gets a presentation
// surface. Initial data is not implemented.
func (d *Device) CreateTexture2D(desc *Texture2DDesc, initial []SubresourceData) (*Texture2D, error) {
	if desc == nil {
		return nil, invalidArg("nil texture descriptor")
	}
	td := *desc
	if td.ArraySize == 0 {
		return nil, invalidArg("zero array size")
	}
	if td.SampleDesc.Count == 0 {
		return nil, invalidArg("zero sample count")
	}
	if td.SampleDesc.Count > 1 && td.MipLevels != 1 {
		return nil, invalidArg("multisampled texture with %d mip levels", td.MipLevels)
	}
	tf, err := validateTexture(td.Format, td.BindFlags, &td.MipLevels, td.Width, td.Height)
	if err != nil {
		return nil, err
	}
	if initial != nil {
		return nil, notImplemented("CreateTexture2D initial data")
	}

	handle, err := d.engine.CreateTexture(&hal.TextureDescriptor{
		Label:         d.label("texture2d"),
		Size:          hal.Extent3D{Width: td.Width, Height: td.Height, DepthOrArrayLayers: td.ArraySize},
		MipLevelCount: td.MipLevels,
		SampleCount:   td.SampleDesc.Count,
		Dimension:     gputypes.TextureDimension2D,
		Format:        tf,
		Usage:         textureUsage(td.BindFlags),
	})
	if err != nil {
		return nil, engineError("create texture2d", err)
	}

	t := &Texture2D{desc: td}
	t.handle = handle
	if t.wantsSurface() {
		s, err := d.parent.newSurface(t)
		if err != nil {
			d.engine.DestroyTexture(handle)
			return nil, err
		}
		t.surface = s
	}
	t.init(d, true, t.destroyAll)
	return t, nil
}

func (t *Texture2D) wantsSurface() bool {
	return t.desc.MipLevels == 1 && t.desc.ArraySize == 1 &&
		t.desc.BindFlags&(BindRenderTarget|BindDepthStencil) != 0
}

// QueryInterface answers for the device-child, resource and 2D texture groups.
func (t *Texture2D) QueryInterface(iid IID) (Unknown, error) {
	return query(t, iid, IIDDeviceChild, IIDResource, IIDTexture2D)
}

// destroyAll releases the surface of the texture before the engine
// texture.
func (t *Texture2D) destroyAll() {
	if t.surface != nil {
		t.surface.Release()
		t.surface = nil
	}
	t.destroyHandle()
}

// GetType returns ResourceDimensionTexture2D.
func (t *Texture2D) GetType() ResourceDimension { return ResourceDimensionTexture2D }

// GetDesc returns the descriptor with the resolved mip count.
func (t *Texture2D) GetDesc() Texture2DDesc { return t.desc }

// Surface returns the presentation surface associated with the texture, or
// nil. No reference is added.
func (t *Texture2D) Surface() *Surface { return t.surface }

// Texture3D is a volume texture.
type Texture3D struct {
	texture
	desc Texture3DDesc
}

// CreateTexture3D creates a volume texture. Initial data is not
// implemented.
func (d *Device) CreateTexture3D(desc *Texture3DDesc, initial []SubresourceData) (*Texture3D, error) {
	if desc == nil {
		return nil, invalidArg("nil texture descriptor")
	}
	td := *desc
	if td.BindFlags&BindDepthStencil != 0 {
		return nil, invalidArg("volume texture bound as depth stencil")
	}
	tf, err := validateTexture(td.Format, td.BindFlags, &td.MipLevels, td.Width, td.Height, td.Depth)
	if err != nil {
		return nil, err
	}
	if initial != nil {
		return nil, notImplemented("CreateTexture3D initial data")
	}

	handle, err := d.engine.CreateTexture(&hal.TextureDescriptor{
		Label:         d.label("texture3d"),
		Size:          hal.Extent3D{Width: td.Width, Height: td.Height, DepthOrArrayLayers: td.Depth},
		MipLevelCount: td.MipLevels,
		SampleCount:   1,
		Dimension:     gputypes.TextureDimension3D,
		Format:        tf,
		Usage:         textureUsage(td.BindFlags),
	})
	if err != nil {
		return nil, engineError("create texture3d", err)
	}

	t := &Texture3D{desc: td}
	t.handle = handle
	t.init(d, true, t.destroyHandle)
	return t, nil
}

// QueryInterface answers for the device-child, resource and 3D texture groups.
func (t *Texture3D) QueryInterface(iid IID) (Unknown, error) {
	return query(t, iid, IIDDeviceChild, IIDResource, IIDTexture3D)
}

// GetType returns ResourceDimensionTexture3D.
func (t *Texture3D) GetType() ResourceDimension { return ResourceDimensionTexture3D }

// GetDesc returns the descriptor with the resolved mip count.
func (t *Texture3D) GetDesc() Texture3DDesc { return t.desc }

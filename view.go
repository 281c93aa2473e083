// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package d3d10

import (
	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
)

// RTVDimension is the view dimension of a render-target view.
type RTVDimension uint32

const (
	RTVDimensionUnknown RTVDimension = iota
	RTVDimensionBuffer
	RTVDimensionTexture1D
	RTVDimensionTexture1DArray
	RTVDimensionTexture2D
	RTVDimensionTexture2DArray
	RTVDimensionTexture2DMS
	RTVDimensionTexture2DMSArray
	RTVDimensionTexture3D
)

// DSVDimension is the view dimension of a depth-stencil view.
type DSVDimension uint32

const (
	DSVDimensionUnknown DSVDimension = iota
	DSVDimensionTexture1D
	DSVDimensionTexture1DArray
	DSVDimensionTexture2D
	DSVDimensionTexture2DArray
	DSVDimensionTexture2DMS
	DSVDimensionTexture2DMSArray
)

// SRVDimension is the view dimension of a shader-resource view.
type SRVDimension uint32

const (
	SRVDimensionUnknown SRVDimension = iota
	SRVDimensionBuffer
	SRVDimensionTexture1D
	SRVDimensionTexture1DArray
	SRVDimensionTexture2D
	SRVDimensionTexture2DArray
	SRVDimensionTexture2DMS
	SRVDimensionTexture2DMSArray
	SRVDimensionTexture3D
	SRVDimensionTextureCube
)

// RenderTargetViewDesc describes a render-target view. Only the fields
// of the selected dimension are used.
type RenderTargetViewDesc struct {
	Format        Format
	ViewDimension RTVDimension

	// Buffer views.
	ElementOffset uint32
	ElementWidth  uint32

	// Texture views.
	MipSlice        uint32
	FirstArraySlice uint32
	ArraySize       uint32
	FirstWSlice     uint32
	WSize           uint32
}

// DepthStencilViewDesc describes a depth-stencil view.
type DepthStencilViewDesc struct {
	Format          Format
	ViewDimension   DSVDimension
	MipSlice        uint32
	FirstArraySlice uint32
	ArraySize       uint32
}

// ShaderResourceViewDesc describes a shader-resource view.
type ShaderResourceViewDesc struct {
	Format        Format
	ViewDimension SRVDimension

	// Buffer views.
	ElementOffset uint32
	ElementWidth  uint32

	// Texture views.
	MostDetailedMip uint32
	MipLevels       uint32
	FirstArraySlice uint32
	ArraySize       uint32
}

// textureInfo is the part of a texture descriptor that view derivation
// depends on.
type textureInfo struct {
	format    Format
	mips      uint32
	arraySize uint32
	samples   uint32
	depth     uint32
}

// resolveResource returns the concrete descriptor data of res after
// checking that its type matches the dimension it reports.
func resolveResource(res Resource) (ResourceDimension, BufferDesc, textureInfo, error) {
	if res == nil {
		return ResourceDimensionUnknown, BufferDesc{}, textureInfo{}, invalidArg("nil resource")
	}
	dim := res.GetType()
	mismatch := invalidArg("resource %T does not implement %v", res, dim)
	switch dim {
	case ResourceDimensionBuffer:
		b, ok := res.(*Buffer)
		if !ok || b == nil {
			return dim, BufferDesc{}, textureInfo{}, mismatch
		}
		return dim, b.desc, textureInfo{}, nil
	case ResourceDimensionTexture1D:
		t, ok := res.(*Texture1D)
		if !ok || t == nil {
			return dim, BufferDesc{}, textureInfo{}, mismatch
		}
		return dim, BufferDesc{}, textureInfo{format: t.desc.Format, mips: t.desc.MipLevels, arraySize: t.desc.ArraySize, samples: 1, depth: 1}, nil
	case ResourceDimensionTexture2D:
		t, ok := res.(*Texture2D)
		if !ok || t == nil {
			return dim, BufferDesc{}, textureInfo{}, mismatch
		}
		return dim, BufferDesc{}, textureInfo{format: t.desc.Format, mips: t.desc.MipLevels, arraySize: t.desc.ArraySize, samples: t.desc.SampleDesc.Count, depth: 1}, nil
	case ResourceDimensionTexture3D:
		t, ok := res.(*Texture3D)
		if !ok || t == nil {
			return dim, BufferDesc{}, textureInfo{}, mismatch
		}
		return dim, BufferDesc{}, textureInfo{format: t.desc.Format, mips: t.desc.MipLevels, arraySize: 1, samples: 1, depth: t.desc.Depth}, nil
	}
	return dim, BufferDesc{}, textureInfo{}, invalidArg("unknown resource dimension %d", uint32(dim))
}

// DeriveRenderTargetViewDesc returns the descriptor used when a
// render-target view is created without one. It is computed from the
// current descriptor of res on every call.
func DeriveRenderTargetViewDesc(res Resource) (RenderTargetViewDesc, error) {
	dim, bd, ti, err := resolveResource(res)
	if err != nil {
		return RenderTargetViewDesc{}, err
	}
	v := RenderTargetViewDesc{Format: ti.format}
	switch dim {
	case ResourceDimensionBuffer:
		v.Format = FormatUnknown
		v.ViewDimension = RTVDimensionBuffer
		v.ElementWidth = bd.ByteWidth
	case ResourceDimensionTexture1D:
		v.ViewDimension = RTVDimensionTexture1D
		if ti.arraySize > 1 {
			v.ViewDimension = RTVDimensionTexture1DArray
			v.ArraySize = ti.arraySize
		}
	case ResourceDimensionTexture2D:
		switch {
		case ti.samples > 1 && ti.arraySize > 1:
			v.ViewDimension = RTVDimensionTexture2DMSArray
			v.ArraySize = ti.arraySize
		case ti.samples > 1:
			v.ViewDimension = RTVDimensionTexture2DMS
		case ti.arraySize > 1:
			v.ViewDimension = RTVDimensionTexture2DArray
			v.ArraySize = ti.arraySize
		default:
			v.ViewDimension = RTVDimensionTexture2D
		}
	case ResourceDimensionTexture3D:
		v.ViewDimension = RTVDimensionTexture3D
		v.WSize = ti.depth
	}
	slogger().Debug("d3d10: derived render target view", "resource", dim, "dimension", v.ViewDimension)
	return v, nil
}

// DeriveDepthStencilViewDesc returns the descriptor used when a
// depth-stencil view is created without one. Buffers and volume textures
// cannot have depth-stencil views.
func DeriveDepthStencilViewDesc(res Resource) (DepthStencilViewDesc, error) {
	dim, _, ti, err := resolveResource(res)
	if err != nil {
		return DepthStencilViewDesc{}, err
	}
	v := DepthStencilViewDesc{Format: ti.format}
	switch dim {
	case ResourceDimensionTexture1D:
		v.ViewDimension = DSVDimensionTexture1D
		if ti.arraySize > 1 {
			v.ViewDimension = DSVDimensionTexture1DArray
			v.ArraySize = ti.arraySize
		}
	case ResourceDimensionTexture2D:
		switch {
		case ti.samples > 1 && ti.arraySize > 1:
			v.ViewDimension = DSVDimensionTexture2DMSArray
			v.ArraySize = ti.arraySize
		case ti.samples > 1:
			v.ViewDimension = DSVDimensionTexture2DMS
		case ti.arraySize > 1:
			v.ViewDimension = DSVDimensionTexture2DArray
			v.ArraySize = ti.arraySize
		default:
			v.ViewDimension = DSVDimensionTexture2D
		}
	default:
		return DepthStencilViewDesc{}, invalidArg("depth-stencil view on %v", dim)
	}
	slogger().Debug("d3d10: derived depth stencil view", "resource", dim, "dimension", v.ViewDimension)
	return v, nil
}

// DeriveShaderResourceViewDesc returns the descriptor used when a
// shader-resource view is created without one. Texture views cover every
// mip level.
func DeriveShaderResourceViewDesc(res Resource) (ShaderResourceViewDesc, error) {
	dim, bd, ti, err := resolveResource(res)
	if err != nil {
		return ShaderResourceViewDesc{}, err
	}
	v := ShaderResourceViewDesc{Format: ti.format, MipLevels: ti.mips}
	switch dim {
	case ResourceDimensionBuffer:
		v.Format = FormatUnknown
		v.ViewDimension = SRVDimensionBuffer
		v.ElementWidth = bd.ByteWidth
	case ResourceDimensionTexture1D:
		v.ViewDimension = SRVDimensionTexture1D
		if ti.arraySize > 1 {
			v.ViewDimension = SRVDimensionTexture1DArray
			v.ArraySize = ti.arraySize
		}
	case ResourceDimensionTexture2D:
		switch {
		case ti.samples > 1 && ti.arraySize > 1:
			v.ViewDimension = SRVDimensionTexture2DMSArray
			v.ArraySize = ti.arraySize
			v.MipLevels = 0
		case ti.samples > 1:
			v.ViewDimension = SRVDimensionTexture2DMS
			v.MipLevels = 0
		case ti.arraySize > 1:
			v.ViewDimension = SRVDimensionTexture2DArray
			v.ArraySize = ti.arraySize
		default:
			v.ViewDimension = SRVDimensionTexture2D
		}
	case ResourceDimensionTexture3D:
		v.ViewDimension = SRVDimensionTexture3D
	}
	slogger().Debug("d3d10: derived shader resource view", "resource", dim, "dimension", v.ViewDimension)
	return v, nil
}

// viewRange is the engine-facing subresource range of a view.
type viewRange struct {
	format     Format
	dimension  gputypes.TextureViewDimension
	baseMip    uint32
	mipCount   uint32
	baseLayer  uint32
	layerCount uint32
}

// inferredViewDimension leaves the view dimension to the engine, which
// derives it from the texture and the layer count.
var inferredViewDimension gputypes.TextureViewDimension

// arrayRange returns the layer range of an array view, or the single first
// layer of a plain one.
func arrayRange(isArray bool, first, size uint32) (dim gputypes.TextureViewDimension, base, count uint32) {
	if isArray {
		return inferredViewDimension, first, size
	}
	return gputypes.TextureViewDimension2D, 0, 1
}

func (r viewRange) descriptor(label string) (*hal.TextureViewDescriptor, error) {
	tf, err := textureFormat(r.format)
	if err != nil {
		return nil, err
	}
	return &hal.TextureViewDescriptor{
		Label:           label,
		Format:          tf,
		Dimension:       r.dimension,
		Aspect:          gputypes.TextureAspectAll,
		BaseMipLevel:    r.baseMip,
		MipLevelCount:   r.mipCount,
		BaseArrayLayer:  r.baseLayer,
		ArrayLayerCount: r.layerCount,
	}, nil
}

// view holds what every view kind shares: a pin on its resource and the
// engine view, which buffer views do not have. The pin keeps the resource
// alive without adding to its reference count.
type view struct {
	deviceChild
	resource Resource
	handle   hal.TextureView
}

func (v *view) initView(d *Device, res Resource, handle hal.TextureView) {
	v.resource = res
	v.handle = handle
	if !res.pin() {
		slogger().Error("d3d10: view created on a destroyed resource", "resource", res.GetType())
	}
	v.init(d, true, v.teardown)
}

func (v *view) teardown() {
	if v.handle != nil {
		v.device.engine.DestroyTextureView(v.handle)
		v.handle = nil
	}
	v.resource.unpin()
}

// GetResource returns the viewed resource with a reference added.
func (v *view) GetResource() Resource {
	v.resource.AddRef()
	return v.resource
}

// createHandle creates the engine view for a texture resource. Buffers
// have no engine view.
func (d *Device) createHandle(res Resource, r viewRange, kind string) (hal.TextureView, error) {
	var tex hal.Texture
	switch t := res.(type) {
	case *Buffer:
		return nil, nil
	case *Texture1D:
		tex = t.handle
	case *Texture2D:
		tex = t.handle
	case *Texture3D:
		tex = t.handle
	default:
		return nil, invalidArg("resource %T", res)
	}
	if r.format == FormatUnknown {
		return nil, invalidArg("texture view without a format")
	}
	desc, err := r.descriptor(d.label(kind))
	if err != nil {
		return nil, err
	}
	h, err := d.engine.CreateTextureView(tex, desc)
	if err != nil {
		return nil, engineError("create "+kind, err)
	}
	return h, nil
}

// RenderTargetView binds a subresource as a render target.
type RenderTargetView struct {
	view
	desc RenderTargetViewDesc
}

// CreateRenderTargetView creates a render-target view of res. A nil desc
// is derived from the resource.
func (d *Device) CreateRenderTargetView(res Resource, desc *RenderTargetViewDesc) (*RenderTargetView, error) {
	dim, _, ti, err := resolveResource(res)
	if err != nil {
		return nil, err
	}
	var vd RenderTargetViewDesc
	if desc != nil {
		vd = *desc
	} else if vd, err = DeriveRenderTargetViewDesc(res); err != nil {
		return nil, err
	}
	if !rtvMatches(vd.ViewDimension, dim) {
		return nil, invalidArg("render target view dimension %d on %v", vd.ViewDimension, dim)
	}
	if dim != ResourceDimensionBuffer && vd.MipSlice >= ti.mips {
		return nil, invalidArg("mip slice %d of %d", vd.MipSlice, ti.mips)
	}

	r := viewRange{format: vd.Format, baseMip: vd.MipSlice, mipCount: 1}
	switch vd.ViewDimension {
	case RTVDimensionTexture1D, RTVDimensionTexture1DArray:
		r.dimension, r.baseLayer, r.layerCount = arrayRange(vd.ViewDimension == RTVDimensionTexture1DArray, vd.FirstArraySlice, vd.ArraySize)
		if vd.ViewDimension == RTVDimensionTexture1D {
			r.dimension = gputypes.TextureViewDimension1D
		}
	case RTVDimensionTexture2D, RTVDimensionTexture2DArray, RTVDimensionTexture2DMS, RTVDimensionTexture2DMSArray:
		isArray := vd.ViewDimension == RTVDimensionTexture2DArray || vd.ViewDimension == RTVDimensionTexture2DMSArray
		r.dimension, r.baseLayer, r.layerCount = arrayRange(isArray, vd.FirstArraySlice, vd.ArraySize)
	case RTVDimensionTexture3D:
		r.dimension = gputypes.TextureViewDimension3D
		r.layerCount = 1
	}
	handle, err := d.createHandle(res, r, "rtv")
	if err != nil {
		return nil, err
	}

	v := &RenderTargetView{desc: vd}
	v.initView(d, res, handle)
	return v, nil
}

func rtvMatches(v RTVDimension, dim ResourceDimension) bool {
	switch v {
	case RTVDimensionBuffer:
		return dim == ResourceDimensionBuffer
	case RTVDimensionTexture1D, RTVDimensionTexture1DArray:
		return dim == ResourceDimensionTexture1D
	case RTVDimensionTexture2D, RTVDimensionTexture2DArray, RTVDimensionTexture2DMS, RTVDimensionTexture2DMSArray:
		return dim == ResourceDimensionTexture2D
	case RTVDimensionTexture3D:
		return dim == ResourceDimensionTexture3D
	}
	return false
}

// QueryInterface answers for the device-child, view and render-target view groups.
func (v *RenderTargetView) QueryInterface(iid IID) (Unknown, error) {
	return query(v, iid, IIDDeviceChild, IIDView, IIDRenderTargetView)
}

// GetDesc returns the view descriptor.
func (v *RenderTargetView) GetDesc() RenderTargetViewDesc { return v.desc }

// DepthStencilView binds a subresource as the depth-stencil target.
type DepthStencilView struct {
	view
	desc DepthStencilViewDesc
}

// CreateDepthStencilView creates a depth-stencil view of res. A nil desc
// is derived from the resource.
func (d *Device) CreateDepthStencilView(res Resource, desc *DepthStencilViewDesc) (*DepthStencilView, error) {
	dim, _, ti, err := resolveResource(res)
	if err != nil {
		return nil, err
	}
	var vd DepthStencilViewDesc
	if desc != nil {
		vd = *desc
	} else if vd, err = DeriveDepthStencilViewDesc(res); err != nil {
		return nil, err
	}
	if !dsvMatches(vd.ViewDimension, dim) {
		return nil, invalidArg("depth stencil view dimension %d on %v", vd.ViewDimension, dim)
	}
	if !vd.Format.IsDepth() {
		return nil, invalidArg("depth stencil view format %v", vd.Format)
	}
	if vd.MipSlice >= ti.mips {
		return nil, invalidArg("mip slice %d of %d", vd.MipSlice, ti.mips)
	}

	r := viewRange{format: vd.Format, baseMip: vd.MipSlice, mipCount: 1}
	switch vd.ViewDimension {
	case DSVDimensionTexture1D, DSVDimensionTexture1DArray:
		r.dimension, r.baseLayer, r.layerCount = arrayRange(vd.ViewDimension == DSVDimensionTexture1DArray, vd.FirstArraySlice, vd.ArraySize)
		if vd.ViewDimension == DSVDimensionTexture1D {
			r.dimension = gputypes.TextureViewDimension1D
		}
	default:
		isArray := vd.ViewDimension == DSVDimensionTexture2DArray || vd.ViewDimension == DSVDimensionTexture2DMSArray
		r.dimension, r.baseLayer, r.layerCount = arrayRange(isArray, vd.FirstArraySlice, vd.ArraySize)
	}
	handle, err := d.createHandle(res, r, "dsv")
	if err != nil {
		return nil, err
	}

	v := &DepthStencilView{desc: vd}
	v.initView(d, res, handle)
	return v, nil
}

func dsvMatches(v DSVDimension, dim ResourceDimension) bool {
	switch v {
	case DSVDimensionTexture1D, DSVDimensionTexture1DArray:
		return dim == ResourceDimensionTexture1D
	case DSVDimensionTexture2D, DSVDimensionTexture2DArray, DSVDimensionTexture2DMS, DSVDimensionTexture2DMSArray:
		return dim == ResourceDimensionTexture2D
	}
	return false
}

// QueryInterface answers for the device-child, view and depth-stencil view groups.
func (v *DepthStencilView) QueryInterface(iid IID) (Unknown, error) {
	return query(v, iid, IIDDeviceChild, IIDView, IIDDepthStencilView)
}

// GetDesc returns the view descriptor.
func (v *DepthStencilView) GetDesc() DepthStencilViewDesc { return v.desc }

// ShaderResourceView binds a resource for shader reads.
type ShaderResourceView struct {
	view
	desc ShaderResourceViewDesc
}

// CreateShaderResourceView creates a shader-resource view of res. A nil
// desc is derived from the resource.
func (d *Device) CreateShaderResourceView(res Resource, desc *ShaderResourceViewDesc) (*ShaderResourceView, error) {
	dim, _, ti, err := resolveResource(res)
	if err != nil {
		return nil, err
	}
	var vd ShaderResourceViewDesc
	if desc != nil {
		vd = *desc
	} else if vd, err = DeriveShaderResourceViewDesc(res); err != nil {
		return nil, err
	}
	if !srvMatches(vd.ViewDimension, dim) {
		return nil, invalidArg("shader resource view dimension %d on %v", vd.ViewDimension, dim)
	}

	r := viewRange{format: vd.Format, baseMip: vd.MostDetailedMip, mipCount: vd.MipLevels}
	switch vd.ViewDimension {
	case SRVDimensionTexture2DMS, SRVDimensionTexture2DMSArray:
		r.baseMip, r.mipCount = 0, 1
	case SRVDimensionBuffer:
	default:
		if vd.MipLevels == 0 || vd.MostDetailedMip+vd.MipLevels > ti.mips {
			return nil, invalidArg("mip range %d+%d of %d", vd.MostDetailedMip, vd.MipLevels, ti.mips)
		}
	}
	switch vd.ViewDimension {
	case SRVDimensionTexture1D, SRVDimensionTexture1DArray:
		r.dimension, r.baseLayer, r.layerCount = arrayRange(vd.ViewDimension == SRVDimensionTexture1DArray, vd.FirstArraySlice, vd.ArraySize)
		if vd.ViewDimension == SRVDimensionTexture1D {
			r.dimension = gputypes.TextureViewDimension1D
		}
	case SRVDimensionTexture3D:
		r.dimension = gputypes.TextureViewDimension3D
		r.layerCount = 1
	default:
		isArray := vd.ViewDimension == SRVDimensionTexture2DArray || vd.ViewDimension == SRVDimensionTexture2DMSArray ||
			vd.ViewDimension == SRVDimensionTextureCube
		first, size := vd.FirstArraySlice, vd.ArraySize
		if vd.ViewDimension == SRVDimensionTextureCube {
			first, size = 0, 6
		}
		r.dimension, r.baseLayer, r.layerCount = arrayRange(isArray, first, size)
	}
	handle, err := d.createHandle(res, r, "srv")
	if err != nil {
		return nil, err
	}

	v := &ShaderResourceView{desc: vd}
	v.initView(d, res, handle)
	return v, nil
}

func srvMatches(v SRVDimension, dim ResourceDimension) bool {
	switch v {
	case SRVDimensionBuffer:
		return dim == ResourceDimensionBuffer
	case SRVDimensionTexture1D, SRVDimensionTexture1DArray:
		return dim == ResourceDimensionTexture1D
	case SRVDimensionTexture2D, SRVDimensionTexture2DArray, SRVDimensionTexture2DMS,
		SRVDimensionTexture2DMSArray, SRVDimensionTextureCube:
		return dim == ResourceDimensionTexture2D
	case SRVDimensionTexture3D:
		return dim == ResourceDimensionTexture3D
	}
	return false
}

// QueryInterface answers for the device-child, view and shader-resource view groups.
func (v *ShaderResourceView) QueryInterface(iid IID) (Unknown, error) {
	return query(v, iid, IIDDeviceChild, IIDView, IIDShaderResourceView)
}

// GetDesc returns the view descriptor.
func (v *ShaderResourceView) GetDesc() ShaderResourceViewDesc { return v.desc }

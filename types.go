// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package d3d10

// CreateDeviceFlag is a set of device creation flags.
type CreateDeviceFlag uint32

const (
	CreateDeviceSingleThreaded CreateDeviceFlag = 0x1
	CreateDeviceDebug          CreateDeviceFlag = 0x2
)

// Usage describes how a resource is read and written.
type Usage uint32

const (
	UsageDefault Usage = iota
	UsageImmutable
	UsageDynamic
	UsageStaging
)

// BindFlag is a set of pipeline stages a resource can be bound to.
type BindFlag uint32

const (
	BindVertexBuffer   BindFlag = 0x1
	BindIndexBuffer    BindFlag = 0x2
	BindConstantBuffer BindFlag = 0x4
	BindShaderResource BindFlag = 0x8
	BindStreamOutput   BindFlag = 0x10
	BindRenderTarget   BindFlag = 0x20
	BindDepthStencil   BindFlag = 0x40
)

// CPUAccessFlag is a set of allowed CPU accesses.
type CPUAccessFlag uint32

const (
	CPUAccessWrite CPUAccessFlag = 0x10000
	CPUAccessRead  CPUAccessFlag = 0x20000
)

// ResourceMiscFlag holds uncommon resource options.
type ResourceMiscFlag uint32

const (
	ResourceMiscGenerateMips ResourceMiscFlag = 0x1
	ResourceMiscShared       ResourceMiscFlag = 0x2
	ResourceMiscTextureCube  ResourceMiscFlag = 0x4
)

// ResourceDimension identifies the kind of a resource.
type ResourceDimension uint32

const (
	ResourceDimensionUnknown ResourceDimension = iota
	ResourceDimensionBuffer
	ResourceDimensionTexture1D
	ResourceDimensionTexture2D
	ResourceDimensionTexture3D
)

func (d ResourceDimension) String() string {
	switch d {
	case ResourceDimensionBuffer:
		return "Buffer"
	case ResourceDimensionTexture1D:
		return "Texture1D"
	case ResourceDimensionTexture2D:
		return "Texture2D"
	case ResourceDimensionTexture3D:
		return "Texture3D"
	}
	return "Unknown"
}

// PrimitiveTopology selects how vertices are assembled.
type PrimitiveTopology uint32

const (
	PrimitiveTopologyUndefined     PrimitiveTopology = 0
	PrimitiveTopologyPointList     PrimitiveTopology = 1
	PrimitiveTopologyLineList      PrimitiveTopology = 2
	PrimitiveTopologyLineStrip     PrimitiveTopology = 3
	PrimitiveTopologyTriangleList  PrimitiveTopology = 4
	PrimitiveTopologyTriangleStrip PrimitiveTopology = 5
)

// ClearFlag selects the aspects cleared by ClearDepthStencilView.
type ClearFlag uint32

const (
	ClearDepth   ClearFlag = 0x1
	ClearStencil ClearFlag = 0x2
)

// SampleDesc describes multisampling.
type SampleDesc struct {
	Count   uint32
	Quality uint32
}

// BufferDesc describes a buffer.
type BufferDesc struct {
	ByteWidth      uint32
	Usage          Usage
	BindFlags      BindFlag
	CPUAccessFlags CPUAccessFlag
	MiscFlags      ResourceMiscFlag
}

// Texture1DDesc describes a 1D texture or texture array.
type Texture1DDesc struct {
	Width          uint32
	MipLevels      uint32
	ArraySize      uint32
	Format         Format
	Usage          Usage
	BindFlags      BindFlag
	CPUAccessFlags CPUAccessFlag
	MiscFlags      ResourceMiscFlag
}

// Texture2DDesc describes a 2D texture or texture array.
type Texture2DDesc struct {
	Width          uint32
	Height         uint32
	MipLevels      uint32
	ArraySize      uint32
	Format         Format
	SampleDesc     SampleDesc
	Usage          Usage
	BindFlags      BindFlag
	CPUAccessFlags CPUAccessFlag
	MiscFlags      ResourceMiscFlag
}

// Texture3DDesc describes a volume texture.
type Texture3DDesc struct {
	Width          uint32
	Height         uint32
	Depth          uint32
	MipLevels      uint32
	Format         Format
	Usage          Usage
	BindFlags      BindFlag
	CPUAccessFlags CPUAccessFlag
	MiscFlags      ResourceMiscFlag
}

// SubresourceData is initial data for a resource.
type SubresourceData struct {
	Data       []byte
	RowPitch   uint32
	SlicePitch uint32
}

// Box selects a region of a subresource. A nil box selects all of it.
type Box struct {
	Left, Top, Front    uint32
	Right, Bottom, Back uint32
}

// Viewport is a rasterizer viewport.
type Viewport struct {
	TopLeftX int32
	TopLeftY int32
	Width    uint32
	Height   uint32
	MinDepth float32
	MaxDepth float32
}

// Rect is a scissor rectangle.
type Rect struct {
	Left, Top, Right, Bottom int32
}

// MapType selects the access of a Map call.
type MapType uint32

const (
	MapRead MapType = iota + 1
	MapWrite
	MapReadWrite
	MapWriteDiscard
	MapWriteNoOverwrite
)

// fullMipChain returns the number of mip levels of a full chain for the
// largest of dims.
func fullMipChain(dims ...uint32) uint32 {
	var m uint32
	for _, d := range dims {
		m = max(m, d)
	}
	n := uint32(1)
	for m > 1 {
		m >>= 1
		n++
	}
	return n
}

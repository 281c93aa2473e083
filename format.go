// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package d3d10

import (
	"fmt"

	"github.com/gogpu/gputypes"
)

// Format is a DXGI resource format.
type Format uint32

// Supported formats. Values match DXGI_FORMAT.
const (
	FormatUnknown           Format = 0
	FormatR32G32B32A32Float Format = 2
	FormatR32G32B32Float    Format = 6
	FormatR16G16B16A16Float Format = 10
	FormatR32G32Float       Format = 16
	FormatR8G8B8A8Unorm     Format = 28
	FormatR8G8B8A8UnormSRGB Format = 29
	FormatD32Float          Format = 40
	FormatR32Float          Format = 41
	FormatR32Uint           Format = 42
	FormatD24UnormS8Uint    Format = 45
	FormatR16Uint           Format = 57
	FormatR8Unorm           Format = 61
	FormatB8G8R8A8Unorm     Format = 87
	FormatB8G8R8A8UnormSRGB Format = 91
)

// FormatSupport is a set of D3D10_FORMAT_SUPPORT bits.
type FormatSupport uint32

const (
	FormatSupportBuffer                  FormatSupport = 0x1
	FormatSupportIAVertexBuffer          FormatSupport = 0x2
	FormatSupportIAIndexBuffer           FormatSupport = 0x4
	FormatSupportSOBuffer                FormatSupport = 0x8
	FormatSupportTexture1D               FormatSupport = 0x10
	FormatSupportTexture2D               FormatSupport = 0x20
	FormatSupportTexture3D               FormatSupport = 0x40
	FormatSupportTextureCube             FormatSupport = 0x80
	FormatSupportShaderLoad              FormatSupport = 0x100
	FormatSupportShaderSample            FormatSupport = 0x200
	FormatSupportMip                     FormatSupport = 0x1000
	FormatSupportRenderTarget            FormatSupport = 0x4000
	FormatSupportBlendable               FormatSupport = 0x8000
	FormatSupportDepthStencil            FormatSupport = 0x10000
	FormatSupportMultisampleRenderTarget FormatSupport = 0x200000
)

const (
	textureSupport = FormatSupportTexture1D | FormatSupportTexture2D | FormatSupportTexture3D |
		FormatSupportTextureCube | FormatSupportShaderLoad | FormatSupportMip
	colorSupport = textureSupport | FormatSupportShaderSample | FormatSupportRenderTarget |
		FormatSupportBlendable | FormatSupportMultisampleRenderTarget
	depthSupport = FormatSupportTexture1D | FormatSupportTexture2D | FormatSupportTextureCube |
		FormatSupportMip | FormatSupportDepthStencil | FormatSupportMultisampleRenderTarget
	vertexSupport = FormatSupportBuffer | FormatSupportIAVertexBuffer | FormatSupportSOBuffer
	indexSupport  = FormatSupportBuffer | FormatSupportIAIndexBuffer
)

// noTexture is the zero texture format; formats without a texture mapping
// leave the field unset.
var noTexture gputypes.TextureFormat

type formatInfo struct {
	name    string
	size    uint32 // bytes per element
	texture gputypes.TextureFormat
	vertex  gputypes.VertexFormat
	support FormatSupport
}

var formats = map[Format]formatInfo{
	FormatR32G32B32A32Float: {name: "R32G32B32A32_FLOAT", size: 16, texture: gputypes.TextureFormatRGBA32Float, vertex: gputypes.VertexFormatFloat32x4, support: colorSupport | vertexSupport},
	FormatR32G32B32Float:    {name: "R32G32B32_FLOAT", size: 12, vertex: gputypes.VertexFormatFloat32x3, support: vertexSupport},
	FormatR16G16B16A16Float: {name: "R16G16B16A16_FLOAT", size: 8},
	FormatR32G32Float:       {name: "R32G32_FLOAT", size: 8, texture: gputypes.TextureFormatRG32Float, vertex: gputypes.VertexFormatFloat32x2, support: colorSupport | vertexSupport},
	FormatR8G8B8A8Unorm:     {name: "R8G8B8A8_UNORM", size: 4, texture: gputypes.TextureFormatRGBA8Unorm, support: colorSupport | FormatSupportBuffer},
	FormatR8G8B8A8UnormSRGB: {name: "R8G8B8A8_UNORM_SRGB", size: 4, texture: gputypes.TextureFormatRGBA8UnormSrgb, support: colorSupport},
	FormatD32Float:          {name: "D32_FLOAT", size: 4, texture: gputypes.TextureFormatDepth32Float, support: depthSupport},
	FormatR32Float:          {name: "R32_FLOAT", size: 4, texture: gputypes.TextureFormatR32Float, vertex: gputypes.VertexFormatFloat32, support: colorSupport | vertexSupport},
	FormatR32Uint:           {name: "R32_UINT", size: 4, support: indexSupport},
	FormatD24UnormS8Uint:    {name: "D24_UNORM_S8_UINT", size: 4, texture: gputypes.TextureFormatDepth24PlusStencil8, support: depthSupport},
	FormatR16Uint:           {name: "R16_UINT", size: 2, support: indexSupport},
	FormatR8Unorm:           {name: "R8_UNORM", size: 1, texture: gputypes.TextureFormatR8Unorm, support: colorSupport},
	FormatB8G8R8A8Unorm:     {name: "B8G8R8A8_UNORM", size: 4, texture: gputypes.TextureFormatBGRA8Unorm, support: colorSupport},
	FormatB8G8R8A8UnormSRGB: {name: "B8G8R8A8_UNORM_SRGB", size: 4, texture: gputypes.TextureFormatBGRA8UnormSrgb, support: colorSupport},
}

func (f Format) String() string {
	if f == FormatUnknown {
		return "UNKNOWN"
	}
	if info, ok := formats[f]; ok {
		return info.name
	}
	return fmt.Sprintf("Format(%d)", uint32(f))
}

// Size returns the size in bytes of one element, or 0 for unknown formats.
func (f Format) Size() uint32 {
	return formats[f].size
}

// IsDepth reports whether f is a depth-stencil format.
func (f Format) IsDepth() bool {
	return f == FormatD24UnormS8Uint || f == FormatD32Float
}

// textureFormat maps f to the engine texture format.
func textureFormat(f Format) (gputypes.TextureFormat, error) {
	info, ok := formats[f]
	if !ok || info.texture == noTexture {
		return noTexture, invalidArg("format %v has no texture mapping", f)
	}
	return info.texture, nil
}

// vertexFormat maps f to the engine vertex attribute format.
func vertexFormat(f Format) (gputypes.VertexFormat, error) {
	info, ok := formats[f]
	if !ok || info.support&FormatSupportIAVertexBuffer == 0 {
		var none gputypes.VertexFormat
		return none, invalidArg("format %v is not a vertex format", f)
	}
	return info.vertex, nil
}

// formatOf maps an engine texture format back to a Format.
func formatOf(tf gputypes.TextureFormat) Format {
	for f, info := range formats {
		if info.texture == tf && tf != noTexture {
			return f
		}
	}
	return FormatUnknown
}

// CheckFormatSupport returns the capabilities of f on the device.
func (d *Device) CheckFormatSupport(f Format) (FormatSupport, error) {
	info, ok := formats[f]
	if !ok || info.support == 0 {
		return 0, invalidArg("unsupported format %v", f)
	}
	return info.support, nil
}

// CheckMultisampleQualityLevels returns the number of quality levels for
// f at sampleCount. Zero means the combination is not supported.
func (d *Device) CheckMultisampleQualityLevels(f Format, sampleCount uint32) (uint32, error) {
	info, ok := formats[f]
	if !ok {
		return 0, invalidArg("unknown format %v", f)
	}
	switch {
	case sampleCount == 1:
		return 1, nil
	case sampleCount == 4 && info.support&FormatSupportMultisampleRenderTarget != 0:
		return 1, nil
	default:
		return 0, nil
	}
}

// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package d3d10

import (
	"encoding/binary"
	"math"
)

// Every field of a state descriptor has a fixed size so that descriptorKey
// yields the same bytes for equal descriptors.

// FillMode selects how triangles are filled.
type FillMode uint32

const (
	FillWireframe FillMode = 2
	FillSolid     FillMode = 3
)

// CullMode selects which triangles are culled.
type CullMode uint32

const (
	CullNone  CullMode = 1
	CullFront CullMode = 2
	CullBack  CullMode = 3
)

// ComparisonFunc compares a source value against a destination value.
type ComparisonFunc uint32

const (
	ComparisonNever ComparisonFunc = iota + 1
	ComparisonLess
	ComparisonEqual
	ComparisonLessEqual
	ComparisonGreater
	ComparisonNotEqual
	ComparisonGreaterEqual
	ComparisonAlways
)

// Blend is a blend factor.
type Blend uint32

const (
	BlendZero           Blend = 1
	BlendOne            Blend = 2
	BlendSrcColor       Blend = 3
	BlendInvSrcColor    Blend = 4
	BlendSrcAlpha       Blend = 5
	BlendInvSrcAlpha    Blend = 6
	BlendDestAlpha      Blend = 7
	BlendInvDestAlpha   Blend = 8
	BlendDestColor      Blend = 9
	BlendInvDestColor   Blend = 10
	BlendSrcAlphaSat    Blend = 11
	BlendBlendFactor    Blend = 14
	BlendInvBlendFactor Blend = 15
	BlendSrc1Color      Blend = 16
	BlendInvSrc1Color   Blend = 17
	BlendSrc1Alpha      Blend = 18
	BlendInvSrc1Alpha   Blend = 19
)

// BlendOp combines the source and destination terms.
type BlendOp uint32

const (
	BlendOpAdd BlendOp = iota + 1
	BlendOpSubtract
	BlendOpRevSubtract
	BlendOpMin
	BlendOpMax
)

// ColorWriteEnableAll enables writes to every channel.
const ColorWriteEnableAll uint8 = 0xf

// DepthWriteMask selects whether depth writes are enabled.
type DepthWriteMask uint32

const (
	DepthWriteMaskZero DepthWriteMask = 0
	DepthWriteMaskAll  DepthWriteMask = 1
)

// StencilOp is applied to the stencil buffer.
type StencilOp uint32

const (
	StencilOpKeep StencilOp = iota + 1
	StencilOpZero
	StencilOpReplace
	StencilOpIncrSat
	StencilOpDecrSat
	StencilOpInvert
	StencilOpIncr
	StencilOpDecr
)

// Filter is a D3D10_FILTER value. Bit 0x1 selects linear mip filtering,
// 0x4 linear magnification, 0x10 linear minification; 0x40 marks
// anisotropic and 0x80 comparison filters.
type Filter uint32

const (
	FilterMinMagMipPoint            Filter = 0x00
	FilterMinMagPointMipLinear      Filter = 0x01
	FilterMinMagMipLinear           Filter = 0x15
	FilterAnisotropic               Filter = 0x55
	FilterComparisonMinMagMipLinear Filter = 0x95
)

// TextureAddressMode resolves texture coordinates outside [0, 1].
type TextureAddressMode uint32

const (
	AddressWrap TextureAddressMode = iota + 1
	AddressMirror
	AddressClamp
	AddressBorder
	AddressMirrorOnce
)

// BlendDesc describes a blend state.
type BlendDesc struct {
	AlphaToCoverageEnable bool
	BlendEnable           [8]bool
	SrcBlend              Blend
	DestBlend             Blend
	BlendOp               BlendOp
	SrcBlendAlpha         Blend
	DestBlendAlpha        Blend
	BlendOpAlpha          BlendOp
	RenderTargetWriteMask [8]uint8
}

// DepthStencilOpDesc describes the stencil operations of one face.
type DepthStencilOpDesc struct {
	StencilFailOp      StencilOp
	StencilDepthFailOp StencilOp
	StencilPassOp      StencilOp
	StencilFunc        ComparisonFunc
}

// DepthStencilDesc describes a depth-stencil state.
type DepthStencilDesc struct {
	DepthEnable      bool
	DepthWriteMask   DepthWriteMask
	DepthFunc        ComparisonFunc
	StencilEnable    bool
	StencilReadMask  uint8
	StencilWriteMask uint8
	FrontFace        DepthStencilOpDesc
	BackFace         DepthStencilOpDesc
}

// RasterizerDesc describes a rasterizer state.
type RasterizerDesc struct {
	FillMode              FillMode
	CullMode              CullMode
	FrontCounterClockwise bool
	DepthBias             int32
	DepthBiasClamp        float32
	SlopeScaledDepthBias  float32
	DepthClipEnable       bool
	ScissorEnable         bool
	MultisampleEnable     bool
	AntialiasedLineEnable bool
}

// SamplerDesc describes a sampler state.
type SamplerDesc struct {
	Filter         Filter
	AddressU       TextureAddressMode
	AddressV       TextureAddressMode
	AddressW       TextureAddressMode
	MipLODBias     float32
	MaxAnisotropy  uint32
	ComparisonFunc ComparisonFunc
	BorderColor    [4]float32
	MinLOD         float32
	MaxLOD         float32
}

// DefaultBlendDesc returns the blend state a device uses when none is bound.
func DefaultBlendDesc() BlendDesc {
	d := BlendDesc{
		SrcBlend:       BlendOne,
		DestBlend:      BlendZero,
		BlendOp:        BlendOpAdd,
		SrcBlendAlpha:  BlendOne,
		DestBlendAlpha: BlendZero,
		BlendOpAlpha:   BlendOpAdd,
	}
	for i := range d.RenderTargetWriteMask {
		d.RenderTargetWriteMask[i] = ColorWriteEnableAll
	}
	return d
}

// DefaultDepthStencilDesc returns the default depth-stencil state.
func DefaultDepthStencilDesc() DepthStencilDesc {
	face := DepthStencilOpDesc{
		StencilFailOp:      StencilOpKeep,
		StencilDepthFailOp: StencilOpKeep,
		StencilPassOp:      StencilOpKeep,
		StencilFunc:        ComparisonAlways,
	}
	return DepthStencilDesc{
		DepthEnable:      true,
		DepthWriteMask:   DepthWriteMaskAll,
		DepthFunc:        ComparisonLess,
		StencilReadMask:  0xff,
		StencilWriteMask: 0xff,
		FrontFace:        face,
		BackFace:         face,
	}
}

// DefaultRasterizerDesc returns the default rasterizer state.
func DefaultRasterizerDesc() RasterizerDesc {
	return RasterizerDesc{
		FillMode:        FillSolid,
		CullMode:        CullBack,
		DepthClipEnable: true,
	}
}

// DefaultSamplerDesc returns the default sampler state.
func DefaultSamplerDesc() SamplerDesc {
	return SamplerDesc{
		Filter:         FilterMinMagMipLinear,
		AddressU:       AddressClamp,
		AddressV:       AddressClamp,
		AddressW:       AddressClamp,
		MaxAnisotropy:  1,
		ComparisonFunc: ComparisonNever,
		MinLOD:         -math.MaxFloat32,
		MaxLOD:         math.MaxFloat32,
	}
}

// stateDesc constrains the descriptors that can be interned.
type stateDesc interface {
	BlendDesc | DepthStencilDesc | RasterizerDesc | SamplerDesc
}

// descriptorKey returns the canonical byte encoding of desc. Equal
// descriptors encode to equal keys.
func descriptorKey[D stateDesc](desc *D) string {
	b, err := binary.Append(nil, binary.LittleEndian, desc)
	if err != nil {
		// Descriptors only contain fixed-size fields.
		panic("d3d10: descriptor key: " + err.Error())
	}
	return string(b)
}

func validComparison(f ComparisonFunc) bool {
	return f >= ComparisonNever && f <= ComparisonAlways
}

func validBlend(b Blend) bool {
	return b >= BlendZero && b <= BlendInvSrc1Alpha && b != 12 && b != 13
}

func validStencilOp(op StencilOp) bool {
	return op >= StencilOpKeep && op <= StencilOpDecr
}

func (d *BlendDesc) validate() error {
	for _, b := range [...]Blend{d.SrcBlend, d.DestBlend, d.SrcBlendAlpha, d.DestBlendAlpha} {
		if !validBlend(b) {
			return invalidArg("blend factor %d", b)
		}
	}
	for _, op := range [...]BlendOp{d.BlendOp, d.BlendOpAlpha} {
		if op < BlendOpAdd || op > BlendOpMax {
			return invalidArg("blend op %d", op)
		}
	}
	return nil
}

func (d *DepthStencilDesc) validate() error {
	if d.DepthWriteMask > DepthWriteMaskAll {
		return invalidArg("depth write mask %d", d.DepthWriteMask)
	}
	if !validComparison(d.DepthFunc) {
		return invalidArg("depth func %d", d.DepthFunc)
	}
	for _, f := range [...]DepthStencilOpDesc{d.FrontFace, d.BackFace} {
		if !validStencilOp(f.StencilFailOp) || !validStencilOp(f.StencilDepthFailOp) ||
			!validStencilOp(f.StencilPassOp) || !validComparison(f.StencilFunc) {
			return invalidArg("stencil face %+v", f)
		}
	}
	return nil
}

func (d *RasterizerDesc) validate() error {
	if d.FillMode != FillSolid && d.FillMode != FillWireframe {
		return invalidArg("fill mode %d", d.FillMode)
	}
	if d.CullMode < CullNone || d.CullMode > CullBack {
		return invalidArg("cull mode %d", d.CullMode)
	}
	return nil
}

func (d *SamplerDesc) validate() error {
	for _, m := range [...]TextureAddressMode{d.AddressU, d.AddressV, d.AddressW} {
		if m < AddressWrap || m > AddressMirrorOnce {
			return invalidArg("address mode %d", m)
		}
	}
	if d.MaxAnisotropy > 16 {
		return invalidArg("max anisotropy %d", d.MaxAnisotropy)
	}
	if !validComparison(d.ComparisonFunc) {
		return invalidArg("comparison func %d", d.ComparisonFunc)
	}
	if d.MinLOD > d.MaxLOD {
		return invalidArg("min LOD %v above max LOD %v", d.MinLOD, d.MaxLOD)
	}
	return nil
}

// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package d3d10

import (
	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/d3d10/internal/intern"
)

// State objects are interned per device: creating a state whose
// descriptor is byte-equal to a live one returns that object with a
// reference added. The last release removes the cache entry before any
// engine teardown.

// stateObject is the shared part of the four state kinds.
type stateObject[D stateDesc] struct {
	deviceChild
	key  string
	desc D
}

// GetDesc returns the descriptor the state was created with.
func (s *stateObject[D]) GetDesc() D { return s.desc }

// internState runs the acquire half of interning for one state kind.
// newState builds an unpublished object; it runs under the cache lock and
// must not call back into the cache.
func internState[D stateDesc, S any](cache *intern.Cache[string, S], desc *D,
	child func(S) *deviceChild, newState func(key string) (S, error)) (S, error) {
	key := descriptorKey(desc)
	s, err := cache.Acquire(key,
		func(s S) { child(s).AddRef() },
		func() (S, error) { return newState(key) })
	if err != nil {
		var zero S
		return zero, err
	}
	return s, nil
}

// releaseState runs the release half of interning for the state kinds
// that are bound weakly. The last release removes the cache entry, then
// clears every binding of the state and drops the device reference.
func releaseState[S any](cache *intern.Cache[string, S], c *deviceChild, key string, self any) uint32 {
	var (
		n    uint32
		last bool
	)
	cache.Release(key, func() bool {
		n, last, _ = c.life.release()
		return last
	})
	if last {
		c.device.unbind(self)
		c.settle(true, true)
	}
	return n
}

// BlendState is an immutable blend configuration.
type BlendState struct {
	stateObject[BlendDesc]
}

// CreateBlendState returns the blend state for desc.
func (d *Device) CreateBlendState(desc *BlendDesc) (*BlendState, error) {
	if desc == nil {
		return nil, invalidArg("nil blend descriptor")
	}
	if err := desc.validate(); err != nil {
		return nil, err
	}
	return internState(d.blendStates, desc,
		func(s *BlendState) *deviceChild { return &s.deviceChild },
		func(key string) (*BlendState, error) {
			s := &BlendState{}
			s.key, s.desc = key, *desc
			s.init(d, true, nil)
			return s, nil
		})
}

// QueryInterface returns the state for the device-child and blend state groups.
func (s *BlendState) QueryInterface(iid IID) (Unknown, error) {
	return query(s, iid, IIDDeviceChild, IIDBlendState)
}

// Release drops a reference. The last release unbinds the state.
func (s *BlendState) Release() uint32 {
	return releaseState(s.device.blendStates, &s.deviceChild, s.key, s)
}

// DepthStencilState is an immutable depth-stencil configuration.
type DepthStencilState struct {
	stateObject[DepthStencilDesc]
}

// CreateDepthStencilState returns the depth-stencil state for desc.
func (d *Device) CreateDepthStencilState(desc *DepthStencilDesc) (*DepthStencilState, error) {
	if desc == nil {
		return nil, invalidArg("nil depth stencil descriptor")
	}
	if err := desc.validate(); err != nil {
		return nil, err
	}
	return internState(d.depthStencilStates, desc,
		func(s *DepthStencilState) *deviceChild { return &s.deviceChild },
		func(key string) (*DepthStencilState, error) {
			s := &DepthStencilState{}
			s.key, s.desc = key, *desc
			s.init(d, true, nil)
			return s, nil
		})
}

// QueryInterface returns the state for the device-child and depth-stencil state groups.
func (s *DepthStencilState) QueryInterface(iid IID) (Unknown, error) {
	return query(s, iid, IIDDeviceChild, IIDDepthStencilState)
}

// Release drops a reference. The last release unbinds the state.
func (s *DepthStencilState) Release() uint32 {
	return releaseState(s.device.depthStencilStates, &s.deviceChild, s.key, s)
}

// RasterizerState is an immutable rasterizer configuration.
type RasterizerState struct {
	stateObject[RasterizerDesc]
}

// CreateRasterizerState returns the rasterizer state for desc.
func (d *Device) CreateRasterizerState(desc *RasterizerDesc) (*RasterizerState, error) {
	if desc == nil {
		return nil, invalidArg("nil rasterizer descriptor")
	}
	if err := desc.validate(); err != nil {
		return nil, err
	}
	return internState(d.rasterizerStates, desc,
		func(s *RasterizerState) *deviceChild { return &s.deviceChild },
		func(key string) (*RasterizerState, error) {
			s := &RasterizerState{}
			s.key, s.desc = key, *desc
			s.init(d, true, nil)
			return s, nil
		})
}

// QueryInterface returns the state for the device-child and rasterizer state groups.
func (s *RasterizerState) QueryInterface(iid IID) (Unknown, error) {
	return query(s, iid, IIDDeviceChild, IIDRasterizerState)
}

// Release drops a reference. The last release unbinds the state.
func (s *RasterizerState) Release() uint32 {
	return releaseState(s.device.rasterizerStates, &s.deviceChild, s.key, s)
}

// SamplerState is an immutable sampler configuration backed by an engine
// sampler.
type SamplerState struct {
	stateObject[SamplerDesc]
	handle hal.Sampler
}

// CreateSamplerState returns the sampler state for desc. A new state
// creates its engine sampler before it is published; if that fails the
// cache is unchanged.
func (d *Device) CreateSamplerState(desc *SamplerDesc) (*SamplerState, error) {
	if desc == nil {
		return nil, invalidArg("nil sampler descriptor")
	}
	if err := desc.validate(); err != nil {
		return nil, err
	}
	return internState(d.samplerStates, desc,
		func(s *SamplerState) *deviceChild { return &s.deviceChild },
		func(key string) (*SamplerState, error) {
			handle, err := d.engine.CreateSampler(samplerDescriptor(d.label("sampler"), desc))
			if err != nil {
				return nil, engineError("create sampler", err)
			}
			s := &SamplerState{handle: handle}
			s.key, s.desc = key, *desc
			s.init(d, true, s.destroyHandle)
			return s, nil
		})
}

// QueryInterface returns the sampler for the device-child and sampler
// groups.
func (s *SamplerState) QueryInterface(iid IID) (Unknown, error) {
	return query(s, iid, IIDDeviceChild, IIDSamplerState)
}

// Release drops a reference. A sampler bound to a pipeline slot stays in
// the cache until it is unbound.
func (s *SamplerState) Release() uint32 {
	var (
		n          uint32
		last, dead bool
	)
	s.device.samplerStates.Release(s.key, func() bool {
		n, last, dead = s.life.release()
		return dead
	})
	s.settle(last, dead)
	return n
}

func (s *SamplerState) unpin() {
	if s.device.samplerStates.Release(s.key, s.life.unpin) {
		s.destroy()
	}
}

func (s *SamplerState) destroyHandle() {
	s.device.engine.DestroySampler(s.handle)
	s.handle = nil
}

func samplerDescriptor(label string, desc *SamplerDesc) *hal.SamplerDescriptor {
	filter := func(linear bool) gputypes.FilterMode {
		if linear {
			return gputypes.FilterModeLinear
		}
		return gputypes.FilterModeNearest
	}
	aniso := desc.Filter&0x40 != 0
	hd := &hal.SamplerDescriptor{
		Label:        label,
		AddressModeU: addressMode(desc.AddressU),
		AddressModeV: addressMode(desc.AddressV),
		AddressModeW: addressMode(desc.AddressW),
		MagFilter:    filter(aniso || desc.Filter&0x04 != 0),
		MinFilter:    filter(aniso || desc.Filter&0x10 != 0),
		MipmapFilter: filter(aniso || desc.Filter&0x01 != 0),
		// Negative LODs select mip 0 either way.
		LodMinClamp: max(desc.MinLOD, 0),
		LodMaxClamp: max(desc.MaxLOD, 0),
		Anisotropy:  1,
	}
	if aniso {
		hd.Anisotropy = uint16(max(desc.MaxAnisotropy, 1))
	}
	if desc.Filter&0x80 != 0 {
		hd.Compare = compareFunctions[desc.ComparisonFunc]
	}
	return hd
}

var compareFunctions = [...]gputypes.CompareFunction{
	ComparisonNever:        gputypes.CompareFunctionNever,
	ComparisonLess:         gputypes.CompareFunctionLess,
	ComparisonEqual:        gputypes.CompareFunctionEqual,
	ComparisonLessEqual:    gputypes.CompareFunctionLessEqual,
	ComparisonGreater:      gputypes.CompareFunctionGreater,
	ComparisonNotEqual:     gputypes.CompareFunctionNotEqual,
	ComparisonGreaterEqual: gputypes.CompareFunctionGreaterEqual,
	ComparisonAlways:       gputypes.CompareFunctionAlways,
}

func addressMode(m TextureAddressMode) gputypes.AddressMode {
	switch m {
	case AddressWrap:
		return gputypes.AddressModeRepeat
	case AddressMirror:
		return gputypes.AddressModeMirrorRepeat
	default:
		// Border and mirror-once have no engine equivalent.
		return gputypes.AddressModeClampToEdge
	}
}

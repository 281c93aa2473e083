// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package d3d10

import (
	"fmt"
	"slices"
)

// Slot counts of the pipeline stages.
const (
	ConstantBufferSlots   = 14
	SamplerSlots          = 16
	ShaderResourceSlots   = 128
	VertexBufferSlots     = maxInputSlots
	RenderTargetSlots     = 8
	ViewportAndScissorMax = 16
	StreamOutputSlots     = 4
)

type shaderStage int

const (
	stageVS shaderStage = iota
	stageGS
	stagePS
	stageCount
)

// stageSlots holds the resource bindings of one shader stage.
type stageSlots struct {
	constantBuffers [ConstantBufferSlots]*Buffer
	samplers        [SamplerSlots]*SamplerState
	resources       [ShaderResourceSlots]*ShaderResourceView
}

// pipeline is the bound state of a device.
//
// Blend, depth-stencil and rasterizer states are bound weakly: the slot
// holds no reference and the state clears it through Device.unbind when
// it is destroyed. Every other object is pinned by its slot and stays
// alive, without keeping the device alive, until it is unbound.
type pipeline struct {
	stages [stageCount]stageSlots

	vs *VertexShader
	gs *GeometryShader
	ps *PixelShader

	inputLayout   *InputLayout
	vertexBuffers [VertexBufferSlots]*Buffer
	strides       [VertexBufferSlots]uint32
	offsets       [VertexBufferSlots]uint32
	indexBuffer   *Buffer
	indexFormat   Format
	indexOffset   uint32
	topology      PrimitiveTopology

	blendState   *BlendState
	blendFactor  [4]float32
	sampleMask   uint32
	depthStencil *DepthStencilState
	stencilRef   uint32
	targets      [RenderTargetSlots]*RenderTargetView
	depthView    *DepthStencilView

	rasterizer *RasterizerState
	viewports  []Viewport
	scissors   []Rect

	soTargets [StreamOutputSlots]*Buffer
	soOffsets [StreamOutputSlots]uint32

	predicate      *Predicate
	predicateValue bool
}

// pinned is an object held by a pipeline slot.
type pinned interface {
	unpin()
}

// bindable is a pointer to an object a pipeline slot can pin.
type bindable interface {
	comparable
	pinned
	pin() bool
	AddRef() uint32
}

// unbound collects the objects displaced from pipeline slots. They are
// unpinned once the binding lock is released, since the last unpin
// destroys an object.
type unbound []pinned

func (u *unbound) unpinAll() {
	for _, o := range *u {
		o.unpin()
	}
	*u = nil
}

// store pins v into *slot and queues the previous value for unpinning. A
// dead object is not bound.
func store[T bindable](u *unbound, slot *T, v T) {
	var zero T
	if v != zero && !v.pin() {
		slogger().Error("d3d10: destroyed object bound", "object", fmt.Sprintf("%T", v))
		v = zero
	}
	if *slot != zero {
		*u = append(*u, *slot)
	}
	*slot = v
}

// storeSlots stores items from start and clears the other slots in
// [start, start+span).
func storeSlots[T bindable](u *unbound, slots []T, start, span int, items []T) {
	var zero T
	for i := range span {
		v := zero
		if i < len(items) {
			v = items[i]
		}
		store(u, &slots[start+i], v)
	}
}

// reset unbinds everything and restores the state of a new device.
func (p *pipeline) reset(u *unbound) {
	for i := range p.stages {
		st := &p.stages[i]
		storeSlots(u, st.constantBuffers[:], 0, ConstantBufferSlots, nil)
		storeSlots(u, st.samplers[:], 0, SamplerSlots, nil)
		storeSlots(u, st.resources[:], 0, ShaderResourceSlots, nil)
	}
	store(u, &p.vs, nil)
	store(u, &p.gs, nil)
	store(u, &p.ps, nil)
	store(u, &p.inputLayout, nil)
	storeSlots(u, p.vertexBuffers[:], 0, VertexBufferSlots, nil)
	store(u, &p.indexBuffer, nil)
	storeSlots(u, p.targets[:], 0, RenderTargetSlots, nil)
	store(u, &p.depthView, nil)
	storeSlots(u, p.soTargets[:], 0, StreamOutputSlots, nil)
	store(u, &p.predicate, nil)

	*p = pipeline{
		blendFactor: [4]float32{1, 1, 1, 1},
		sampleMask:  0xffffffff,
	}
}

func clearPtr[T any](p **T, v *T) {
	if *p == v {
		*p = nil
	}
}

// unbind clears the weak slots holding a state that is being destroyed.
func (d *Device) unbind(state any) {
	d.bindMu.Lock()
	defer d.bindMu.Unlock()

	p := &d.bound
	switch s := state.(type) {
	case *BlendState:
		clearPtr(&p.blendState, s)
	case *DepthStencilState:
		clearPtr(&p.depthStencil, s)
	case *RasterizerState:
		clearPtr(&p.rasterizer, s)
	}
}

// bind runs f with the binding lock held, then unpins what f displaced.
func (d *Device) bind(f func(p *pipeline, u *unbound) error) error {
	var u unbound
	d.bindMu.Lock()
	err := f(&d.bound, &u)
	d.bindMu.Unlock()
	u.unpinAll()
	return err
}

// locked runs f with the binding lock held. f must not displace a pinned
// object.
func (d *Device) locked(f func(p *pipeline) error) error {
	d.bindMu.Lock()
	defer d.bindMu.Unlock()
	return f(&d.bound)
}

// addRef adds a reference to a pinned object. A pinned object is never
// dead, so the reference always succeeds.
func addRef[T bindable](v T) T {
	var zero T
	if v != zero {
		v.AddRef()
	}
	return v
}

// weakState is a pointer to a weakly bound state.
type weakState interface {
	comparable
	tryAddRef() (uint32, bool)
}

// weakRef adds a reference to a weakly bound state unless its last
// reference is already gone and it is waiting to be unbound.
func weakRef[T weakState](v T) T {
	var zero T
	if v == zero {
		return zero
	}
	if _, ok := v.tryAddRef(); !ok {
		return zero
	}
	return v
}

func checkWindow(n, start, count int) error {
	if start < 0 || count < 0 || start > n || count > n-start {
		return invalidArg("slots [%d, %d) outside [0, %d)", start, start+count, n)
	}
	return nil
}

// setSlots binds items to slots starting at start. Nil items clear their
// slot.
func setSlots[T bindable](u *unbound, slots []T, start int, items []T) error {
	if err := checkWindow(len(slots), start, len(items)); err != nil {
		return err
	}
	storeSlots(u, slots, start, len(items), items)
	return nil
}

// getSlots returns count slots starting at start, each non-nil entry with
// a reference added.
func getSlots[T bindable](slots []T, start, count int) ([]T, error) {
	if err := checkWindow(len(slots), start, count); err != nil {
		return nil, err
	}
	out := slices.Clone(slots[start : start+count])
	for _, v := range out {
		addRef(v)
	}
	return out, nil
}

func (d *Device) setConstantBuffers(s shaderStage, start int, buffers []*Buffer) error {
	return d.bind(func(p *pipeline, u *unbound) error {
		return setSlots(u, p.stages[s].constantBuffers[:], start, buffers)
	})
}

func (d *Device) getConstantBuffers(s shaderStage, start, count int) (out []*Buffer, err error) {
	err = d.locked(func(p *pipeline) error {
		out, err = getSlots(p.stages[s].constantBuffers[:], start, count)
		return err
	})
	return out, err
}

func (d *Device) setSamplers(s shaderStage, start int, samplers []*SamplerState) error {
	return d.bind(func(p *pipeline, u *unbound) error {
		return setSlots(u, p.stages[s].samplers[:], start, samplers)
	})
}

func (d *Device) getSamplers(s shaderStage, start, count int) (out []*SamplerState, err error) {
	err = d.locked(func(p *pipeline) error {
		out, err = getSlots(p.stages[s].samplers[:], start, count)
		return err
	})
	return out, err
}

func (d *Device) setShaderResources(s shaderStage, start int, views []*ShaderResourceView) error {
	return d.bind(func(p *pipeline, u *unbound) error {
		return setSlots(u, p.stages[s].resources[:], start, views)
	})
}

func (d *Device) getShaderResources(s shaderStage, start, count int) (out []*ShaderResourceView, err error) {
	err = d.locked(func(p *pipeline) error {
		out, err = getSlots(p.stages[s].resources[:], start, count)
		return err
	})
	return out, err
}

// VSSetConstantBuffers binds constant buffers to the vertex stage.
func (d *Device) VSSetConstantBuffers(start int, buffers []*Buffer) error {
	return d.setConstantBuffers(stageVS, start, buffers)
}

// VSGetConstantBuffers returns the bound vertex stage constant buffers.
func (d *Device) VSGetConstantBuffers(start, count int) ([]*Buffer, error) {
	return d.getConstantBuffers(stageVS, start, count)
}

// VSSetSamplers binds samplers to the vertex stage.
func (d *Device) VSSetSamplers(start int, samplers []*SamplerState) error {
	return d.setSamplers(stageVS, start, samplers)
}

// VSGetSamplers returns the bound vertex stage samplers.
func (d *Device) VSGetSamplers(start, count int) ([]*SamplerState, error) {
	return d.getSamplers(stageVS, start, count)
}

// VSSetShaderResources binds shader-resource views to the vertex stage.
func (d *Device) VSSetShaderResources(start int, views []*ShaderResourceView) error {
	return d.setShaderResources(stageVS, start, views)
}

// VSGetShaderResources returns the bound vertex stage shader-resource
// views.
func (d *Device) VSGetShaderResources(start, count int) ([]*ShaderResourceView, error) {
	return d.getShaderResources(stageVS, start, count)
}

// VSSetShader binds a vertex shader. Nil unbinds.
func (d *Device) VSSetShader(vs *VertexShader) {
	_ = d.bind(func(p *pipeline, u *unbound) error { store(u, &p.vs, vs); return nil })
}

// VSGetShader returns the bound vertex shader with a reference added.
func (d *Device) VSGetShader() (vs *VertexShader) {
	_ = d.locked(func(p *pipeline) error { vs = addRef(p.vs); return nil })
	return vs
}

// GSSetConstantBuffers binds constant buffers to the geometry stage.
func (d *Device) GSSetConstantBuffers(start int, buffers []*Buffer) error {
	return d.setConstantBuffers(stageGS, start, buffers)
}

// GSGetConstantBuffers returns the bound geometry stage constant buffers.
func (d *Device) GSGetConstantBuffers(start, count int) ([]*Buffer, error) {
	return d.getConstantBuffers(stageGS, start, count)
}

// GSSetSamplers binds samplers to the geometry stage.
func (d *Device) GSSetSamplers(start int, samplers []*SamplerState) error {
	return d.setSamplers(stageGS, start, samplers)
}

// GSGetSamplers returns the bound geometry stage samplers.
func (d *Device) GSGetSamplers(start, count int) ([]*SamplerState, error) {
	return d.getSamplers(stageGS, start, count)
}

// GSSetShaderResources binds shader-resource views to the geometry stage.
func (d *Device) GSSetShaderResources(start int, views []*ShaderResourceView) error {
	return d.setShaderResources(stageGS, start, views)
}

// GSGetShaderResources returns the bound geometry stage shader-resource
// views.
func (d *Device) GSGetShaderResources(start, count int) ([]*ShaderResourceView, error) {
	return d.getShaderResources(stageGS, start, count)
}

// GSSetShader binds a geometry shader. Nil unbinds.
func (d *Device) GSSetShader(gs *GeometryShader) {
	_ = d.bind(func(p *pipeline, u *unbound) error { store(u, &p.gs, gs); return nil })
}

// GSGetShader returns the bound geometry shader with a reference added.
func (d *Device) GSGetShader() (gs *GeometryShader) {
	_ = d.locked(func(p *pipeline) error { gs = addRef(p.gs); return nil })
	return gs
}

// PSSetConstantBuffers binds constant buffers to the pixel stage.
func (d *Device) PSSetConstantBuffers(start int, buffers []*Buffer) error {
	return d.setConstantBuffers(stagePS, start, buffers)
}

// PSGetConstantBuffers returns the bound pixel stage constant buffers.
func (d *Device) PSGetConstantBuffers(start, count int) ([]*Buffer, error) {
	return d.getConstantBuffers(stagePS, start, count)
}

// PSSetSamplers binds samplers to the pixel stage.
func (d *Device) PSSetSamplers(start int, samplers []*SamplerState) error {
	return d.setSamplers(stagePS, start, samplers)
}

// PSGetSamplers returns the bound pixel stage samplers.
func (d *Device) PSGetSamplers(start, count int) ([]*SamplerState, error) {
	return d.getSamplers(stagePS, start, count)
}

// PSSetShaderResources binds shader-resource views to the pixel stage.
func (d *Device) PSSetShaderResources(start int, views []*ShaderResourceView) error {
	return d.setShaderResources(stagePS, start, views)
}

// PSGetShaderResources returns the bound pixel stage shader-resource
// views.
func (d *Device) PSGetShaderResources(start, count int) ([]*ShaderResourceView, error) {
	return d.getShaderResources(stagePS, start, count)
}

// PSSetShader binds a pixel shader. Nil unbinds.
func (d *Device) PSSetShader(ps *PixelShader) {
	_ = d.bind(func(p *pipeline, u *unbound) error { store(u, &p.ps, ps); return nil })
}

// PSGetShader returns the bound pixel shader with a reference added.
func (d *Device) PSGetShader() (ps *PixelShader) {
	_ = d.locked(func(p *pipeline) error { ps = addRef(p.ps); return nil })
	return ps
}

// IASetInputLayout binds an input layout. Nil unbinds.
func (d *Device) IASetInputLayout(il *InputLayout) {
	_ = d.bind(func(p *pipeline, u *unbound) error { store(u, &p.inputLayout, il); return nil })
}

// IAGetInputLayout returns the bound input layout with a reference added.
func (d *Device) IAGetInputLayout() (il *InputLayout) {
	_ = d.locked(func(p *pipeline) error { il = addRef(p.inputLayout); return nil })
	return il
}

// IASetVertexBuffers binds vertex buffers with their strides and offsets.
// The three slices must have the same length.
func (d *Device) IASetVertexBuffers(start int, buffers []*Buffer, strides, offsets []uint32) error {
	if len(strides) != len(buffers) || len(offsets) != len(buffers) {
		return invalidArg("%d vertex buffers with %d strides and %d offsets",
			len(buffers), len(strides), len(offsets))
	}
	return d.bind(func(p *pipeline, u *unbound) error {
		if err := setSlots(u, p.vertexBuffers[:], start, buffers); err != nil {
			return err
		}
		copy(p.strides[start:], strides)
		copy(p.offsets[start:], offsets)
		return nil
	})
}

// IAGetVertexBuffers returns count vertex buffer bindings starting at
// start.
func (d *Device) IAGetVertexBuffers(start, count int) (buffers []*Buffer, strides, offsets []uint32, err error) {
	err = d.locked(func(p *pipeline) error {
		buffers, err = getSlots(p.vertexBuffers[:], start, count)
		if err != nil {
			return err
		}
		strides = slices.Clone(p.strides[start : start+count])
		offsets = slices.Clone(p.offsets[start : start+count])
		return nil
	})
	return buffers, strides, offsets, err
}

// IASetIndexBuffer binds an index buffer. The format must be R16Uint or
// R32Uint, or Unknown when b is nil.
func (d *Device) IASetIndexBuffer(b *Buffer, format Format, offset uint32) error {
	switch {
	case format == FormatR16Uint, format == FormatR32Uint:
	case b == nil && format == FormatUnknown:
	default:
		return invalidArg("index format %v", format)
	}
	return d.bind(func(p *pipeline, u *unbound) error {
		store(u, &p.indexBuffer, b)
		p.indexFormat, p.indexOffset = format, offset
		return nil
	})
}

// IAGetIndexBuffer returns the index buffer binding with a reference added
// to the buffer.
func (d *Device) IAGetIndexBuffer() (b *Buffer, format Format, offset uint32) {
	_ = d.locked(func(p *pipeline) error {
		b, format, offset = addRef(p.indexBuffer), p.indexFormat, p.indexOffset
		return nil
	})
	return b, format, offset
}

// IASetPrimitiveTopology sets how vertices are assembled into primitives.
func (d *Device) IASetPrimitiveTopology(t PrimitiveTopology) {
	_ = d.locked(func(p *pipeline) error { p.topology = t; return nil })
}

// IAGetPrimitiveTopology returns the bound primitive topology.
func (d *Device) IAGetPrimitiveTopology() (t PrimitiveTopology) {
	_ = d.locked(func(p *pipeline) error { t = p.topology; return nil })
	return t
}

// OMSetBlendState binds a blend state with its blend factor and sample
// mask. A nil state selects the default blend state.
func (d *Device) OMSetBlendState(s *BlendState, factor [4]float32, sampleMask uint32) {
	_ = d.locked(func(p *pipeline) error {
		p.blendState, p.blendFactor, p.sampleMask = s, factor, sampleMask
		return nil
	})
}

// OMGetBlendState returns the blend binding with a reference added to the
// state.
func (d *Device) OMGetBlendState() (s *BlendState, factor [4]float32, sampleMask uint32) {
	_ = d.locked(func(p *pipeline) error {
		s, factor, sampleMask = weakRef(p.blendState), p.blendFactor, p.sampleMask
		return nil
	})
	return s, factor, sampleMask
}

// OMSetDepthStencilState binds a depth-stencil state with its stencil
// reference value.
func (d *Device) OMSetDepthStencilState(s *DepthStencilState, stencilRef uint32) {
	_ = d.locked(func(p *pipeline) error {
		p.depthStencil, p.stencilRef = s, stencilRef
		return nil
	})
}

// OMGetDepthStencilState returns the depth-stencil binding with a
// reference added to the state.
func (d *Device) OMGetDepthStencilState() (s *DepthStencilState, stencilRef uint32) {
	_ = d.locked(func(p *pipeline) error {
		s, stencilRef = weakRef(p.depthStencil), p.stencilRef
		return nil
	})
	return s, stencilRef
}

// OMSetRenderTargets binds render targets to the first len(rtvs) slots
// and a depth-stencil view. Every other render target slot is cleared.
func (d *Device) OMSetRenderTargets(rtvs []*RenderTargetView, dsv *DepthStencilView) error {
	if len(rtvs) > RenderTargetSlots {
		return invalidArg("%d render targets, at most %d", len(rtvs), RenderTargetSlots)
	}
	return d.bind(func(p *pipeline, u *unbound) error {
		storeSlots(u, p.targets[:], 0, RenderTargetSlots, rtvs)
		store(u, &p.depthView, dsv)
		return nil
	})
}

// OMGetRenderTargets returns the first count render targets and the
// depth-stencil view, each with a reference added.
func (d *Device) OMGetRenderTargets(count int) (rtvs []*RenderTargetView, dsv *DepthStencilView, err error) {
	err = d.locked(func(p *pipeline) error {
		rtvs, err = getSlots(p.targets[:], 0, count)
		if err != nil {
			return err
		}
		dsv = addRef(p.depthView)
		return nil
	})
	return rtvs, dsv, err
}

// RSSetState binds a rasterizer state. Nil selects the default state.
func (d *Device) RSSetState(s *RasterizerState) {
	_ = d.locked(func(p *pipeline) error { p.rasterizer = s; return nil })
}

// RSGetState returns the bound rasterizer state with a reference added.
func (d *Device) RSGetState() (s *RasterizerState) {
	_ = d.locked(func(p *pipeline) error { s = weakRef(p.rasterizer); return nil })
	return s
}

// RSSetViewports replaces the bound viewports.
func (d *Device) RSSetViewports(vps []Viewport) error {
	if len(vps) > ViewportAndScissorMax {
		return invalidArg("%d viewports, at most %d", len(vps), ViewportAndScissorMax)
	}
	return d.locked(func(p *pipeline) error {
		p.viewports = slices.Clone(vps)
		return nil
	})
}

// RSGetViewports returns a copy of the bound viewports.
func (d *Device) RSGetViewports() (vps []Viewport) {
	_ = d.locked(func(p *pipeline) error { vps = slices.Clone(p.viewports); return nil })
	return vps
}

// RSSetScissorRects replaces the bound scissor rectangles.
func (d *Device) RSSetScissorRects(rects []Rect) error {
	if len(rects) > ViewportAndScissorMax {
		return invalidArg("%d scissor rects, at most %d", len(rects), ViewportAndScissorMax)
	}
	return d.locked(func(p *pipeline) error {
		p.scissors = slices.Clone(rects)
		return nil
	})
}

// RSGetScissorRects returns a copy of the bound scissor rectangles.
func (d *Device) RSGetScissorRects() (rects []Rect) {
	_ = d.locked(func(p *pipeline) error { rects = slices.Clone(p.scissors); return nil })
	return rects
}

// SOSetTargets binds stream-output buffers to the first len(targets)
// slots and clears the others. offsets may be nil, meaning zero offsets.
func (d *Device) SOSetTargets(targets []*Buffer, offsets []uint32) error {
	if len(targets) > StreamOutputSlots {
		return invalidArg("%d stream-output targets, at most %d", len(targets), StreamOutputSlots)
	}
	if offsets != nil && len(offsets) != len(targets) {
		return invalidArg("%d stream-output targets with %d offsets", len(targets), len(offsets))
	}
	return d.bind(func(p *pipeline, u *unbound) error {
		storeSlots(u, p.soTargets[:], 0, StreamOutputSlots, targets)
		p.soOffsets = [StreamOutputSlots]uint32{}
		copy(p.soOffsets[:], offsets)
		return nil
	})
}

// SOGetTargets returns the first count stream-output bindings, each buffer
// with a reference added.
func (d *Device) SOGetTargets(count int) (targets []*Buffer, offsets []uint32, err error) {
	err = d.locked(func(p *pipeline) error {
		targets, err = getSlots(p.soTargets[:], 0, count)
		if err != nil {
			return err
		}
		offsets = slices.Clone(p.soOffsets[:count])
		return nil
	})
	return targets, offsets, err
}

// SetPredication binds a predicate and the value that suppresses
// rendering. Predication is recorded but not applied, since no draw
// reaches the engine.
func (d *Device) SetPredication(pred *Predicate, value bool) {
	_ = d.bind(func(p *pipeline, u *unbound) error {
		store(u, &p.predicate, pred)
		p.predicateValue = value
		return nil
	})
}

// GetPredication returns the bound predicate with a reference added.
func (d *Device) GetPredication() (pred *Predicate, value bool) {
	_ = d.locked(func(p *pipeline) error {
		pred, value = addRef(p.predicate), p.predicateValue
		return nil
	})
	return pred, value
}

// ClearState unbinds everything and restores default values.
func (d *Device) ClearState() {
	_ = d.bind(func(p *pipeline, u *unbound) error { p.reset(u); return nil })
	slogger().Debug("d3d10: state cleared")
}

// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package d3d10

import (
	"errors"
	"slices"
	"sync"
	"sync/atomic"
	"testing"
)

func TestRenderTargetGetterAfterClear(t *testing.T) {
	d, _ := newTestDevice(t)
	defer d.Release()

	for _, bound := range []int{1, 3, RenderTargetSlots} {
		var rtvs []*RenderTargetView
		var texs []*Texture2D
		for range bound {
			tex := mustTexture2D(t, d, renderTargetDesc(8, 8))
			rtv, err := d.CreateRenderTargetView(tex, nil)
			if err != nil {
				t.Fatalf("CreateRenderTargetView failed: %v", err)
			}
			texs = append(texs, tex)
			rtvs = append(rtvs, rtv)
		}
		if err := d.OMSetRenderTargets(rtvs, nil); err != nil {
			t.Fatalf("OMSetRenderTargets failed: %v", err)
		}
		if err := d.OMSetRenderTargets(nil, nil); err != nil {
			t.Fatalf("OMSetRenderTargets(nil) failed: %v", err)
		}

		got, dsv, err := d.OMGetRenderTargets(RenderTargetSlots)
		if err != nil {
			t.Fatalf("OMGetRenderTargets failed: %v", err)
		}
		for i, v := range got {
			if v != nil {
				t.Errorf("bound=%d: slot %d = %p, want nil", bound, i, v)
			}
		}
		if dsv != nil {
			t.Errorf("bound=%d: depth stencil view = %p, want nil", bound, dsv)
		}

		for i := range rtvs {
			rtvs[i].Release()
			texs[i].Release()
		}
	}
}

func TestGettersReturnStoredValues(t *testing.T) {
	d, _ := newTestDevice(t)
	defer d.Release()

	a, err := d.CreateBuffer(&BufferDesc{ByteWidth: 64, BindFlags: BindConstantBuffer}, nil)
	if err != nil {
		t.Fatalf("CreateBuffer failed: %v", err)
	}
	defer a.Release()
	b, err := d.CreateBuffer(&BufferDesc{ByteWidth: 64, BindFlags: BindConstantBuffer}, nil)
	if err != nil {
		t.Fatalf("CreateBuffer failed: %v", err)
	}
	defer b.Release()

	if err := d.PSSetConstantBuffers(2, []*Buffer{a, nil, b}); err != nil {
		t.Fatalf("PSSetConstantBuffers failed: %v", err)
	}
	got, err := d.PSGetConstantBuffers(1, 5)
	if err != nil {
		t.Fatalf("PSGetConstantBuffers failed: %v", err)
	}
	want := []*Buffer{nil, a, nil, b, nil}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("slot %d = %p, want %p", i+1, got[i], want[i])
		}
	}
	if a.RefCount() != 2 || b.RefCount() != 2 {
		t.Errorf("getter should add a reference: a=%d b=%d", a.RefCount(), b.RefCount())
	}
	a.Release()
	b.Release()

	// Other stages are separate.
	vs, err := d.VSGetConstantBuffers(0, ConstantBufferSlots)
	if err != nil {
		t.Fatalf("VSGetConstantBuffers failed: %v", err)
	}
	for i, v := range vs {
		if v != nil {
			t.Errorf("VS slot %d = %p, want nil", i, v)
		}
	}

	if a.RefCount() != 1 {
		t.Errorf("binding should not add a reference: RefCount = %d", a.RefCount())
	}
}

func TestSlotWindows(t *testing.T) {
	d, _ := newTestDevice(t)
	defer d.Release()

	tests := []struct {
		name string
		op   func() error
	}{
		{"negative start", func() error { return d.VSSetSamplers(-1, nil) }},
		{"past the end", func() error { return d.GSSetConstantBuffers(ConstantBufferSlots, make([]*Buffer, 1)) }},
		{"too many", func() error { return d.PSSetShaderResources(0, make([]*ShaderResourceView, ShaderResourceSlots+1)) }},
		{"getter overflow", func() error { _, err := d.PSGetSamplers(10, 7); return err }},
		{"getter negative count", func() error { _, err := d.GSGetShaderResources(0, -1); return err }},
		{"render targets", func() error { return d.OMSetRenderTargets(make([]*RenderTargetView, RenderTargetSlots+1), nil) }},
		{"viewports", func() error { return d.RSSetViewports(make([]Viewport, ViewportAndScissorMax+1)) }},
		{"scissors", func() error { return d.RSSetScissorRects(make([]Rect, ViewportAndScissorMax+1)) }},
		{"stream output", func() error { return d.SOSetTargets(make([]*Buffer, StreamOutputSlots+1), nil) }},
		{"stream output offsets", func() error { return d.SOSetTargets(make([]*Buffer, 2), []uint32{0}) }},
		{"vertex buffer strides", func() error { return d.IASetVertexBuffers(0, make([]*Buffer, 2), []uint32{0}, []uint32{0, 0}) }},
		{"vertex buffer window", func() error {
			return d.IASetVertexBuffers(VertexBufferSlots-1, make([]*Buffer, 2), make([]uint32, 2), make([]uint32, 2))
		}},
		{"index format", func() error { return d.IASetIndexBuffer(nil, FormatR8G8B8A8Unorm, 0) }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.op(); !errors.Is(err, ErrInvalidArg) {
				t.Errorf("error = %v, want ErrInvalidArg", err)
			}
		})
	}

	// The full window is valid.
	if _, err := d.VSGetShaderResources(0, ShaderResourceSlots); err != nil {
		t.Errorf("full window failed: %v", err)
	}
	if got, err := d.PSGetSamplers(SamplerSlots, 0); err != nil || len(got) != 0 {
		t.Errorf("empty window = %v, %v", got, err)
	}
}

func TestBindingKeepsReleasedObjects(t *testing.T) {
	d, rec := newTestDevice(t)
	defer d.Release()

	buf, err := d.CreateBuffer(&BufferDesc{ByteWidth: 64, BindFlags: BindVertexBuffer | BindIndexBuffer | BindConstantBuffer}, nil)
	if err != nil {
		t.Fatalf("CreateBuffer failed: %v", err)
	}
	if err := d.IASetVertexBuffers(3, []*Buffer{buf}, []uint32{16}, []uint32{4}); err != nil {
		t.Fatalf("IASetVertexBuffers failed: %v", err)
	}
	if err := d.IASetIndexBuffer(buf, FormatR16Uint, 8); err != nil {
		t.Fatalf("IASetIndexBuffer failed: %v", err)
	}
	if err := d.GSSetConstantBuffers(13, []*Buffer{buf}); err != nil {
		t.Fatalf("GSSetConstantBuffers failed: %v", err)
	}

	sDesc := DefaultSamplerDesc()
	sampler, err := d.CreateSamplerState(&sDesc)
	if err != nil {
		t.Fatalf("CreateSamplerState failed: %v", err)
	}
	if err := d.PSSetSamplers(15, []*SamplerState{sampler}); err != nil {
		t.Fatalf("PSSetSamplers failed: %v", err)
	}

	if n := buf.Release(); n != 0 {
		t.Errorf("buffer Release = %d, want 0", n)
	}
	if n := sampler.Release(); n != 0 {
		t.Errorf("sampler Release = %d, want 0", n)
	}
	if calls := rec.recorded(); len(calls) != 0 {
		t.Fatalf("bound objects destroyed: %v", calls)
	}
	if got := d.RefCount(); got != 1 {
		t.Errorf("device RefCount = %d, want 1: bindings must not hold the device", got)
	}
	if _, _, _, sampler := d.StateCacheLen(); sampler != 1 {
		t.Errorf("sampler cache has %d entries, want 1 while bound", sampler)
	}

	vbs, strides, offsets, err := d.IAGetVertexBuffers(3, 1)
	if err != nil {
		t.Fatalf("IAGetVertexBuffers failed: %v", err)
	}
	if vbs[0] != buf || strides[0] != 16 || offsets[0] != 4 {
		t.Errorf("vertex buffer binding = %p %d %d, want %p 16 4", vbs[0], strides[0], offsets[0], buf)
	}
	if vbs[0].RefCount() != 1 {
		t.Errorf("getter RefCount = %d, want 1", vbs[0].RefCount())
	}
	vbs[0].Release()

	// Equal descriptors still intern to the bound sampler.
	again, err := d.CreateSamplerState(&sDesc)
	if err != nil {
		t.Fatalf("CreateSamplerState failed: %v", err)
	}
	if again != sampler {
		t.Error("bound sampler should be found in the cache")
	}
	again.Release()

	// Rebinding elsewhere keeps the buffer; clearing the last slot
	// destroys it.
	if err := d.IASetVertexBuffers(3, []*Buffer{nil}, []uint32{0}, []uint32{0}); err != nil {
		t.Fatalf("IASetVertexBuffers failed: %v", err)
	}
	if err := d.IASetIndexBuffer(nil, FormatUnknown, 0); err != nil {
		t.Fatalf("IASetIndexBuffer failed: %v", err)
	}
	if calls := rec.recorded(); len(calls) != 0 {
		t.Fatalf("buffer destroyed while still bound as a constant buffer: %v", calls)
	}
	d.ClearState()

	want := []string{"DestroyBuffer", "DestroySampler"}
	got := rec.recorded()
	slices.Sort(got)
	if !slices.Equal(got, want) {
		t.Errorf("engine calls = %v, want %v", got, want)
	}
	if _, _, _, sampler := d.StateCacheLen(); sampler != 0 {
		t.Errorf("sampler cache has %d entries after unbinding", sampler)
	}
}

func TestWeakStatesUnbindOnRelease(t *testing.T) {
	d, _ := newTestDevice(t)
	defer d.Release()

	desc := DefaultRasterizerDesc()
	rs, err := d.CreateRasterizerState(&desc)
	if err != nil {
		t.Fatalf("CreateRasterizerState failed: %v", err)
	}
	d.RSSetState(rs)
	bDesc := DefaultBlendDesc()
	bs, err := d.CreateBlendState(&bDesc)
	if err != nil {
		t.Fatalf("CreateBlendState failed: %v", err)
	}
	d.OMSetBlendState(bs, [4]float32{0, 0, 0, 1}, 1)

	if got := rs.RefCount(); got != 1 {
		t.Errorf("binding should not add a reference: RefCount = %d", got)
	}
	rs.Release()
	bs.Release()

	if s := d.RSGetState(); s != nil {
		t.Error("rasterizer state should be cleared")
	}
	if s, factor, mask := d.OMGetBlendState(); s != nil || factor != [4]float32{0, 0, 0, 1} || mask != 1 {
		t.Errorf("blend binding = %p %v %d, want the state cleared and the values kept", s, factor, mask)
	}
	if got := d.RefCount(); got != 1 {
		t.Errorf("device RefCount = %d, want 1", got)
	}
}

// TestWeakGetterDuringRelease races getters against the last release of
// the bound state. A getter must never hand out a state whose last
// reference is gone.
func TestWeakGetterDuringRelease(t *testing.T) {
	d, _ := newTestDevice(t)
	defer d.Release()

	const rounds = 2000
	var (
		wg    sync.WaitGroup
		stale atomic.Int32
		done  atomic.Bool
	)
	wg.Add(2)
	go func() {
		defer wg.Done()
		defer done.Store(true)
		desc := DefaultRasterizerDesc()
		for i := range rounds {
			desc.DepthBias = int32(i % 3)
			rs, err := d.CreateRasterizerState(&desc)
			if err != nil {
				t.Errorf("CreateRasterizerState failed: %v", err)
				return
			}
			d.RSSetState(rs)
			rs.Release()
		}
	}()
	go func() {
		defer wg.Done()
		for !done.Load() {
			rs := d.RSGetState()
			if rs == nil {
				continue
			}
			if _, ok := d.rasterizerStates.Lookup(rs.key); !ok {
				stale.Add(1)
			}
			rs.Release()
		}
	}()
	wg.Wait()

	if n := stale.Load(); n != 0 {
		t.Errorf("RSGetState returned %d states already removed from the cache", n)
	}
	if _, _, rasterizer, _ := d.StateCacheLen(); rasterizer != 0 {
		t.Errorf("rasterizer cache has %d entries, want 0", rasterizer)
	}
	if got := d.RefCount(); got != 1 {
		t.Errorf("device RefCount = %d, want 1", got)
	}
}

func TestDeviceReleaseDestroysBoundObjects(t *testing.T) {
	d, rec := newTestDevice(t)

	tex := mustTexture2D(t, d, renderTargetDesc(8, 8))
	rtv, err := d.CreateRenderTargetView(tex, nil)
	if err != nil {
		t.Fatalf("CreateRenderTargetView failed: %v", err)
	}
	if err := d.OMSetRenderTargets([]*RenderTargetView{rtv}, nil); err != nil {
		t.Fatalf("OMSetRenderTargets failed: %v", err)
	}
	rtv.Release()
	tex.Release()
	if n := d.Release(); n != 0 {
		t.Fatalf("device Release = %d, want 0", n)
	}

	want := []string{"DestroyTextureView", "DestroyTextureView", "DestroyTexture", "Destroy"}
	if got := rec.recorded(); !slices.Equal(got, want) {
		t.Errorf("engine calls = %v, want %v", got, want)
	}
}

func TestOutputMergerState(t *testing.T) {
	d, _ := newTestDevice(t)
	defer d.Release()

	s, factor, mask := d.OMGetBlendState()
	if s != nil || factor != [4]float32{1, 1, 1, 1} || mask != 0xffffffff {
		t.Errorf("default blend binding = %p %v %#x", s, factor, mask)
	}

	bDesc := DefaultBlendDesc()
	bDesc.AlphaToCoverageEnable = true
	blend, err := d.CreateBlendState(&bDesc)
	if err != nil {
		t.Fatalf("CreateBlendState failed: %v", err)
	}
	defer blend.Release()
	d.OMSetBlendState(blend, [4]float32{0.5, 0, 0, 1}, 0x0f)
	s, factor, mask = d.OMGetBlendState()
	if s != blend || factor != [4]float32{0.5, 0, 0, 1} || mask != 0x0f {
		t.Errorf("blend binding = %p %v %#x", s, factor, mask)
	}
	s.Release()

	dsDesc := DefaultDepthStencilDesc()
	ds, err := d.CreateDepthStencilState(&dsDesc)
	if err != nil {
		t.Fatalf("CreateDepthStencilState failed: %v", err)
	}
	defer ds.Release()
	d.OMSetDepthStencilState(ds, 3)
	if got, ref := d.OMGetDepthStencilState(); got != ds || ref != 3 {
		t.Errorf("depth stencil binding = %p %d", got, ref)
	} else {
		got.Release()
	}

	d.ClearState()
	if got, ref := d.OMGetDepthStencilState(); got != nil || ref != 0 {
		t.Errorf("after ClearState = %p %d", got, ref)
	}
	if _, factor, _ := d.OMGetBlendState(); factor != [4]float32{1, 1, 1, 1} {
		t.Errorf("blend factor after ClearState = %v", factor)
	}
}

func TestRasterizerAndInputAssembler(t *testing.T) {
	d, _ := newTestDevice(t)
	defer d.Release()

	vps := []Viewport{{Width: 640, Height: 480, MaxDepth: 1}, {TopLeftX: 10, Width: 5, Height: 5}}
	if err := d.RSSetViewports(vps); err != nil {
		t.Fatalf("RSSetViewports failed: %v", err)
	}
	vps[0].Width = 1
	got := d.RSGetViewports()
	if len(got) != 2 || got[0].Width != 640 || got[1].TopLeftX != 10 {
		t.Errorf("viewports = %+v", got)
	}
	if err := d.RSSetScissorRects([]Rect{{Right: 8, Bottom: 8}}); err != nil {
		t.Fatalf("RSSetScissorRects failed: %v", err)
	}
	if rects := d.RSGetScissorRects(); len(rects) != 1 || rects[0].Right != 8 {
		t.Errorf("scissors = %+v", rects)
	}

	d.IASetPrimitiveTopology(PrimitiveTopologyTriangleStrip)
	if got := d.IAGetPrimitiveTopology(); got != PrimitiveTopologyTriangleStrip {
		t.Errorf("topology = %v", got)
	}
	d.ClearState()
	if got := d.IAGetPrimitiveTopology(); got != PrimitiveTopologyUndefined {
		t.Errorf("topology after ClearState = %v", got)
	}
	if got := d.RSGetViewports(); len(got) != 0 {
		t.Errorf("viewports after ClearState = %+v", got)
	}
}

func TestStreamOutputTargets(t *testing.T) {
	d, _ := newTestDevice(t)
	defer d.Release()

	buf, err := d.CreateBuffer(&BufferDesc{ByteWidth: 64, BindFlags: BindStreamOutput}, nil)
	if err != nil {
		t.Fatalf("CreateBuffer failed: %v", err)
	}
	if err := d.SOSetTargets([]*Buffer{buf, nil}, []uint32{12, 0}); err != nil {
		t.Fatalf("SOSetTargets failed: %v", err)
	}
	targets, offsets, err := d.SOGetTargets(StreamOutputSlots)
	if err != nil {
		t.Fatalf("SOGetTargets failed: %v", err)
	}
	if targets[0] != buf || offsets[0] != 12 || targets[1] != nil {
		t.Errorf("targets = %v, offsets = %v", targets, offsets)
	}
	targets[0].Release()

	buf.Release()
	if targets, _, _ := d.SOGetTargets(1); targets[0] != buf {
		t.Error("released buffer should stay bound")
	} else {
		targets[0].Release()
	}
	if err := d.SOSetTargets(nil, nil); err != nil {
		t.Fatalf("SOSetTargets(nil) failed: %v", err)
	}
	if targets, _, _ := d.SOGetTargets(1); targets[0] != nil {
		t.Error("stream-output slot should be cleared")
	}
}

func TestPredication(t *testing.T) {
	d, _ := newTestDevice(t)
	defer d.Release()

	pred, err := d.CreatePredicate(&QueryDesc{Query: QueryOcclusionPredicate})
	if err != nil {
		t.Fatalf("CreatePredicate failed: %v", err)
	}
	d.SetPredication(pred, true)
	got, value := d.GetPredication()
	if got != pred || !value {
		t.Errorf("GetPredication = %p %t", got, value)
	}
	if got.RefCount() != 2 {
		t.Errorf("RefCount = %d, want 2", got.RefCount())
	}
	got.Release()

	pred.Release()
	got, _ = d.GetPredication()
	if got != pred {
		t.Fatal("released predicate should stay bound")
	}
	if got.RefCount() != 1 {
		t.Errorf("RefCount = %d, want 1", got.RefCount())
	}
	got.Release()
	d.SetPredication(nil, false)
	if got, _ := d.GetPredication(); got != nil {
		t.Error("predicate should be unbound")
	}
}

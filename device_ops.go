// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package d3d10

import (
	"github.com/gogpu/gputypes"
)

// ClearRenderTargetView fills the view with color. Clearing a buffer view
// is not implemented.
func (d *Device) ClearRenderTargetView(rtv *RenderTargetView, color [4]float32) error {
	if rtv == nil {
		return invalidArg("nil render target view")
	}
	if rtv.handle == nil {
		return notImplemented("ClearRenderTargetView on a buffer view")
	}
	c := gputypes.Color{
		R: float64(color[0]),
		G: float64(color[1]),
		B: float64(color[2]),
		A: float64(color[3]),
	}
	if err := d.engine.ClearColor(rtv.handle, c); err != nil {
		return engineError("clear render target", err)
	}
	return nil
}

// ClearDepthStencilView clears the aspects of the view selected by flags.
func (d *Device) ClearDepthStencilView(dsv *DepthStencilView, flags ClearFlag, depth float32, stencil uint8) error {
	if dsv == nil {
		return invalidArg("nil depth stencil view")
	}
	if flags&(ClearDepth|ClearStencil) == 0 {
		return nil
	}
	err := d.engine.ClearDepthStencil(dsv.handle,
		flags&ClearDepth != 0, flags&ClearStencil != 0, depth, uint32(stencil))
	if err != nil {
		return engineError("clear depth stencil", err)
	}
	return nil
}

// UpdateSubresource copies data into a buffer. box selects the byte range
// [Left, Right) of the buffer; a nil box selects the whole buffer. Texture
// updates are not implemented.
func (d *Device) UpdateSubresource(res Resource, subresource uint32, box *Box, data []byte, rowPitch, depthPitch uint32) error {
	if res == nil {
		return invalidArg("nil resource")
	}
	b, ok := res.(*Buffer)
	if !ok {
		return notImplemented("UpdateSubresource on a texture", "subresource", subresource)
	}
	if b == nil {
		return invalidArg("nil buffer")
	}
	if subresource != 0 {
		return invalidArg("buffer subresource %d", subresource)
	}

	left, right := uint32(0), b.desc.ByteWidth
	if box != nil {
		left, right = box.Left, box.Right
	}
	if left > right || right > b.desc.ByteWidth {
		return invalidArg("range [%d, %d) outside buffer of %d bytes", left, right, b.desc.ByteWidth)
	}
	if b.desc.Usage == UsageImmutable {
		return invalidArg("update of an immutable buffer")
	}
	n := right - left
	if uint64(len(data)) < uint64(n) {
		return invalidArg("%d bytes of data for a %d byte range", len(data), n)
	}
	if n == 0 {
		return nil
	}
	if err := d.engine.WriteBuffer(b.handle, uint64(left), data[:n]); err != nil {
		return engineError("update buffer", err)
	}
	return nil
}

// Draw is not implemented.
func (d *Device) Draw(vertexCount, startVertex uint32) error {
	return notImplemented("Draw", "vertices", vertexCount, "start", startVertex)
}

// DrawIndexed is not implemented.
func (d *Device) DrawIndexed(indexCount, startIndex uint32, baseVertex int32) error {
	return notImplemented("DrawIndexed", "indices", indexCount, "start", startIndex, "base", baseVertex)
}

// DrawInstanced is not implemented.
func (d *Device) DrawInstanced(vertexCountPerInstance, instanceCount, startVertex, startInstance uint32) error {
	return notImplemented("DrawInstanced",
		"vertices", vertexCountPerInstance, "instances", instanceCount,
		"start_vertex", startVertex, "start_instance", startInstance)
}

// DrawIndexedInstanced is not implemented.
func (d *Device) DrawIndexedInstanced(indexCountPerInstance, instanceCount, startIndex uint32, baseVertex int32, startInstance uint32) error {
	return notImplemented("DrawIndexedInstanced",
		"indices", indexCountPerInstance, "instances", instanceCount,
		"start_index", startIndex, "base", baseVertex, "start_instance", startInstance)
}

// DrawAuto is not implemented.
func (d *Device) DrawAuto() error {
	return notImplemented("DrawAuto")
}

// CopyResource is not implemented.
func (d *Device) CopyResource(dst, src Resource) error {
	return notImplemented("CopyResource")
}

// CopySubresourceRegion is not implemented.
func (d *Device) CopySubresourceRegion(dst Resource, dstSubresource, x, y, z uint32, src Resource, srcSubresource uint32, box *Box) error {
	return notImplemented("CopySubresourceRegion", "dst", dstSubresource, "src", srcSubresource)
}

// ResolveSubresource is not implemented.
func (d *Device) ResolveSubresource(dst Resource, dstSubresource uint32, src Resource, srcSubresource uint32, format Format) error {
	return notImplemented("ResolveSubresource", "format", format)
}

// GenerateMips is not implemented.
func (d *Device) GenerateMips(srv *ShaderResourceView) error {
	return notImplemented("GenerateMips")
}

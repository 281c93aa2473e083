// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package d3d10

import (
	"fmt"

	"github.com/gogpu/gputypes"

	"github.com/gogpu/d3d10/dxbc"
)

// AppendAlignedElement places an element directly after the previous
// element of the same input slot.
const AppendAlignedElement = 0xffffffff

// InputClassification selects per-vertex or per-instance stepping.
type InputClassification uint32

const (
	InputPerVertexData InputClassification = iota
	InputPerInstanceData
)

// InputElementDesc describes one vertex attribute.
type InputElementDesc struct {
	SemanticName         string
	SemanticIndex        uint32
	Format               Format
	InputSlot            uint32
	AlignedByteOffset    uint32
	InputSlotClass       InputClassification
	InstanceDataStepRate uint32
}

// maxInputSlots is the number of vertex buffer slots.
const maxInputSlots = 16

// InputLayout maps vertex buffer contents to vertex shader inputs.
type InputLayout struct {
	deviceChild
	elems  []InputElementDesc
	layout []gputypes.VertexBufferLayout
}

// CreateInputLayout resolves elems against the input signature of a vertex
// shader. Each element is matched by semantic name, compared without
// regard to case, and semantic index. An element the shader does not read
// is kept without a shader location.
func (d *Device) CreateInputLayout(elems []InputElementDesc, vsBytecode []byte) (*InputLayout, error) {
	if len(elems) == 0 {
		return nil, invalidArg("empty input layout")
	}
	sig, err := dxbc.ParseInputSignature(vsBytecode)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidArg, err)
	}

	var (
		next   [maxInputSlots]uint32
		stride [maxInputSlots]uint32
		step   [maxInputSlots]InputClassification
		attrs  [maxInputSlots][]gputypes.VertexAttribute
		used   [maxInputSlots]bool
	)
	resolved := make([]InputElementDesc, len(elems))
	for i, e := range elems {
		if e.InputSlot >= maxInputSlots {
			return nil, invalidArg("element %d: input slot %d", i, e.InputSlot)
		}
		vf, err := vertexFormat(e.Format)
		if err != nil {
			return nil, err
		}
		slot := e.InputSlot
		if used[slot] && step[slot] != e.InputSlotClass {
			return nil, invalidArg("element %d: slot %d mixes per-vertex and per-instance data", i, slot)
		}
		used[slot], step[slot] = true, e.InputSlotClass

		if e.AlignedByteOffset == AppendAlignedElement {
			e.AlignedByteOffset = next[slot]
		}
		end := e.AlignedByteOffset + e.Format.Size()
		next[slot] = end
		stride[slot] = max(stride[slot], end)
		resolved[i] = e

		el, ok := sig.Find(e.SemanticName, e.SemanticIndex)
		if !ok {
			slogger().Debug("d3d10: input element not read by the shader",
				"semantic", e.SemanticName, "index", e.SemanticIndex)
			continue
		}
		attrs[slot] = append(attrs[slot], gputypes.VertexAttribute{
			Format:         vf,
			Offset:         uint64(e.AlignedByteOffset),
			ShaderLocation: el.Register,
		})
	}

	il := &InputLayout{elems: resolved}
	for slot := range maxInputSlots {
		if !used[slot] {
			continue
		}
		mode := gputypes.VertexStepModeVertex
		if step[slot] == InputPerInstanceData {
			mode = gputypes.VertexStepModeInstance
		}
		il.layout = append(il.layout, gputypes.VertexBufferLayout{
			ArrayStride: uint64(stride[slot]),
			StepMode:    mode,
			Attributes:  attrs[slot],
		})
	}
	il.init(d, true, nil)
	return il, nil
}

// QueryInterface answers for the device-child and input layout groups.
func (il *InputLayout) QueryInterface(iid IID) (Unknown, error) {
	return query(il, iid, IIDDeviceChild, IIDInputLayout)
}

// Elements returns the elements with append-aligned offsets resolved.
func (il *InputLayout) Elements() []InputElementDesc {
	return append([]InputElementDesc(nil), il.elems...)
}

// BufferLayouts returns the engine vertex buffer layouts, one per used
// input slot in slot order.
func (il *InputLayout) BufferLayouts() []gputypes.VertexBufferLayout { return il.layout }

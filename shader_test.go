// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package d3d10

import (
	"errors"
	"slices"
	"testing"

	"github.com/gogpu/d3d10/dxbc"
	"github.com/gogpu/d3d10/internal/engine"
)

func vsInputs() dxbc.Signature {
	return dxbc.Signature{
		{Name: []byte("POSITION"), ComponentType: dxbc.ComponentTypeFloat32, Register: 0, Mask: 0x0707},
		{Name: []byte("TEXCOORD"), ComponentType: dxbc.ComponentTypeFloat32, Register: 1, Mask: 0x0303},
		{Name: []byte("TEXCOORD"), SemanticIndex: 1, ComponentType: dxbc.ComponentTypeFloat32, Register: 2, Mask: 0x0303},
	}
}

func positionOutput() dxbc.Signature {
	return dxbc.Signature{
		{Name: []byte("SV_Position"), SystemValue: dxbc.SystemValuePosition, ComponentType: dxbc.ComponentTypeFloat32, Mask: 0x0f},
	}
}

// shaderBytecode builds a minimal container for a program of type pt.
func shaderBytecode(pt dxbc.ProgramType, in, out dxbc.Signature) []byte {
	return dxbc.NewBuilder().
		AddChunk(dxbc.TagInputSignature, dxbc.EncodeSignature(in)).
		AddChunk(dxbc.TagOutputSignature, dxbc.EncodeSignature(out)).
		AddChunk(dxbc.TagShaderCode, dxbc.EncodeProgram(pt, 4, 0, []uint32{0x0100003e})).
		Bytes()
}

func TestCreateShaders(t *testing.T) {
	d, rec := newTestDevice(t)
	defer d.Release()

	code := shaderBytecode(dxbc.ProgramVertex, vsInputs(), positionOutput())
	vs, err := d.CreateVertexShader(code)
	if err != nil {
		t.Fatalf("CreateVertexShader failed: %v", err)
	}
	if vs.Model() != "vs_4_0" {
		t.Errorf("Model = %q, want vs_4_0", vs.Model())
	}
	if got := len(vs.InputSignature()); got != 3 {
		t.Errorf("input signature has %d elements, want 3", got)
	}

	// The shader keeps its own copy of the bytecode.
	clear(code)
	if got := vs.OutputSignature()[0].SemanticName(); got != "SV_Position" {
		t.Errorf("output semantic = %q after the caller's buffer changed", got)
	}

	ps, err := d.CreatePixelShader(shaderBytecode(dxbc.ProgramPixel, positionOutput(), nil))
	if err != nil {
		t.Fatalf("CreatePixelShader failed: %v", err)
	}
	if got := d.RefCount(); got != 3 {
		t.Errorf("device RefCount = %d, want 3", got)
	}

	d.VSSetShader(vs)
	d.PSSetShader(ps)
	got := d.VSGetShader()
	if got != vs {
		t.Error("VSGetShader should return the bound shader")
	}
	got.Release()

	vs.Release()
	ps.Release()
	if got := d.RefCount(); got != 1 {
		t.Errorf("device RefCount = %d, want 1 once only bindings remain", got)
	}
	if calls := rec.recorded(); len(calls) != 0 {
		t.Fatalf("bound shaders destroyed: %v", calls)
	}
	if got := d.PSGetShader(); got != ps {
		t.Error("released pixel shader should stay bound")
	} else {
		got.Release()
	}

	d.ClearState()
	want := []string{"DestroyShaderModule", "DestroyShaderModule"}
	if calls := rec.recorded(); !slices.Equal(calls, want) {
		t.Errorf("engine calls = %v, want %v", calls, want)
	}
	if got := d.RefCount(); got != 1 {
		t.Errorf("device RefCount = %d, want 1", got)
	}
}

func TestCreateShaderErrors(t *testing.T) {
	d, rec := newTestDevice(t)
	defer d.Release()

	inputOnly := dxbc.NewBuilder().
		AddChunk(dxbc.TagInputSignature, dxbc.EncodeSignature(vsInputs())).
		Bytes()

	tests := []struct {
		name string
		code []byte
	}{
		{"empty", nil},
		{"garbage", []byte("not a container")},
		{"input signature only", inputOnly},
		{"pixel program", shaderBytecode(dxbc.ProgramPixel, nil, nil)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := d.CreateVertexShader(tt.code)
			if StatusOf(err) != StatusInvalidArg {
				t.Errorf("CreateVertexShader error = %v, want invalid argument", err)
			}
		})
	}
	_, err := d.CreateVertexShader(inputOnly)
	if !errors.Is(err, dxbc.ErrMissingShaderCode) {
		t.Errorf("error = %v, want it to wrap dxbc.ErrMissingShaderCode", err)
	}

	rec.failModule = engine.ErrOutOfMemory
	if _, err := d.CreatePixelShader(shaderBytecode(dxbc.ProgramPixel, nil, nil)); StatusOf(err) != StatusOutOfMemory {
		t.Errorf("module failure error = %v, want out of memory", err)
	}
	if got := d.RefCount(); got != 1 {
		t.Errorf("device RefCount = %d, want 1", got)
	}
}

func TestDecodeShaderFillsInPlace(t *testing.T) {
	d, rec := newTestDevice(t)
	defer d.Release()

	var sh shader
	if err := d.decodeShader(&sh, shaderBytecode(dxbc.ProgramPixel, nil, nil), dxbc.ProgramVertex, engine.StageVertex); err == nil {
		t.Fatal("decodeShader accepted a pixel program for a vertex shader")
	}
	if sh.code != nil || sh.parsed != nil || sh.module != nil {
		t.Error("failed decode should leave the shader untouched")
	}

	if err := d.decodeShader(&sh, shaderBytecode(dxbc.ProgramPixel, nil, nil), dxbc.ProgramPixel, engine.StageFragment); err != nil {
		t.Fatalf("decodeShader failed: %v", err)
	}
	if sh.module == nil || sh.Model() != "ps_4_0" {
		t.Errorf("decoded shader = module %v, model %q", sh.module, sh.Model())
	}
	rec.HAL.DestroyShaderModule(sh.module)
}

func TestGeometryShaderHoldsNoDevice(t *testing.T) {
	d, rec := newTestDevice(t)
	defer d.Release()

	gs, err := d.CreateGeometryShader(shaderBytecode(dxbc.ProgramGeometry, positionOutput(), positionOutput()))
	if err != nil {
		t.Fatalf("CreateGeometryShader failed: %v", err)
	}
	if got := d.RefCount(); got != 1 {
		t.Errorf("device RefCount = %d, want 1", got)
	}
	if gs.GetDevice() != nil {
		t.Error("GetDevice should return nil for geometry shaders")
	}

	d.GSSetShader(gs)
	if gs.Release() != 0 {
		t.Error("Release should drop the last reference")
	}
	got := d.GSGetShader()
	if got != gs {
		t.Fatal("released geometry shader should stay bound")
	}
	if got := d.RefCount(); got != 1 {
		t.Errorf("device RefCount = %d after the getter, want 1", got)
	}
	got.Release()

	d.GSSetShader(nil)
	want := []string{"DestroyShaderModule"}
	if calls := rec.recorded(); !slices.Equal(calls, want) {
		t.Errorf("engine calls = %v, want %v", calls, want)
	}

	if _, err := d.CreateGeometryShaderWithStreamOutput(nil, []StreamOutputDeclaration{{SemanticName: "POSITION", ComponentCount: 4}}, 16); !errors.Is(err, ErrNotImplemented) {
		t.Errorf("CreateGeometryShaderWithStreamOutput error = %v, want ErrNotImplemented", err)
	}
}

func TestGeometryShaderOutlivesDevice(t *testing.T) {
	d, rec := newTestDevice(t)

	gs, err := d.CreateGeometryShader(shaderBytecode(dxbc.ProgramGeometry, nil, nil))
	if err != nil {
		t.Fatalf("CreateGeometryShader failed: %v", err)
	}
	d.Release()
	gs.Release()

	if calls := rec.recorded(); !slices.Equal(calls, []string{"Destroy"}) {
		t.Errorf("engine calls = %v, want [Destroy]", calls)
	}
}

func TestCreateInputLayout(t *testing.T) {
	d, _ := newTestDevice(t)
	defer d.Release()

	code := shaderBytecode(dxbc.ProgramVertex, vsInputs(), positionOutput())
	elems := []InputElementDesc{
		{SemanticName: "position", Format: FormatR32G32B32Float},
		{SemanticName: "TEXCOORD", Format: FormatR32G32Float, AlignedByteOffset: AppendAlignedElement},
		{SemanticName: "COLOR", Format: FormatR32G32B32A32Float, AlignedByteOffset: AppendAlignedElement},
		{SemanticName: "TEXCOORD", SemanticIndex: 1, Format: FormatR32G32Float, InputSlot: 1,
			InputSlotClass: InputPerInstanceData, InstanceDataStepRate: 1},
	}
	il, err := d.CreateInputLayout(elems, code)
	if err != nil {
		t.Fatalf("CreateInputLayout failed: %v", err)
	}
	defer il.Release()

	resolved := il.Elements()
	if resolved[1].AlignedByteOffset != 12 || resolved[2].AlignedByteOffset != 20 {
		t.Errorf("append offsets = %d, %d, want 12, 20", resolved[1].AlignedByteOffset, resolved[2].AlignedByteOffset)
	}

	layouts := il.BufferLayouts()
	if len(layouts) != 2 {
		t.Fatalf("%d buffer layouts, want 2", len(layouts))
	}
	if layouts[0].ArrayStride != 36 {
		t.Errorf("slot 0 stride = %d, want 36", layouts[0].ArrayStride)
	}
	// COLOR is not read by the shader.
	if got := len(layouts[0].Attributes); got != 2 {
		t.Fatalf("slot 0 has %d attributes, want 2", got)
	}
	if a := layouts[0].Attributes[1]; a.ShaderLocation != 1 || a.Offset != 12 {
		t.Errorf("TEXCOORD attribute = %+v", a)
	}
	if a := layouts[1].Attributes[0]; a.ShaderLocation != 2 {
		t.Errorf("TEXCOORD1 location = %d, want 2", a.ShaderLocation)
	}

	d.IASetInputLayout(il)
	got := d.IAGetInputLayout()
	if got != il {
		t.Error("IAGetInputLayout should return the bound layout")
	}
	got.Release()
}

func TestCreateInputLayoutErrors(t *testing.T) {
	d, _ := newTestDevice(t)
	defer d.Release()

	code := shaderBytecode(dxbc.ProgramVertex, vsInputs(), nil)
	tests := []struct {
		name  string
		elems []InputElementDesc
		code  []byte
	}{
		{"empty", nil, code},
		{"bad format", []InputElementDesc{{SemanticName: "POSITION", Format: FormatD24UnormS8Uint}}, code},
		{"bad slot", []InputElementDesc{{SemanticName: "POSITION", Format: FormatR32Float, InputSlot: 16}}, code},
		{"mixed step", []InputElementDesc{
			{SemanticName: "POSITION", Format: FormatR32Float},
			{SemanticName: "TEXCOORD", Format: FormatR32Float, InputSlotClass: InputPerInstanceData},
		}, code},
		{"bad bytecode", []InputElementDesc{{SemanticName: "POSITION", Format: FormatR32Float}}, []byte{1, 2, 3}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := d.CreateInputLayout(tt.elems, tt.code); !errors.Is(err, ErrInvalidArg) {
				t.Errorf("CreateInputLayout error = %v, want ErrInvalidArg", err)
			}
		})
	}
}

// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package d3d10

import (
	"fmt"
	"slices"

	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/d3d10/dxbc"
	"github.com/gogpu/d3d10/internal/engine"
)

// StreamOutputDeclaration describes one stream-output entry.
type StreamOutputDeclaration struct {
	SemanticName   string
	SemanticIndex  uint32
	StartComponent uint8
	ComponentCount uint8
	OutputSlot     uint8
}

// shader holds the decoded container and the engine module of a shader
// object. The container is a private copy so signature names stay valid
// for the life of the object.
type shader struct {
	deviceChild
	code   []byte
	parsed *dxbc.Shader
	module hal.ShaderModule
}

// decodeShader decodes bytecode for a stage into sh and creates its
// engine module. sh is left untouched on failure.
func (d *Device) decodeShader(sh *shader, bytecode []byte, want dxbc.ProgramType, stage engine.Stage) error {
	if len(bytecode) == 0 {
		return invalidArg("empty shader bytecode")
	}
	code := slices.Clone(bytecode)
	parsed, err := dxbc.ExtractShader(code)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidArg, err)
	}
	if parsed.Type != want {
		return invalidArg("%s bytecode passed to create a %s shader", parsed.Model(), want)
	}
	module, err := d.engine.CreateShaderModule(stage, d.label(want.String()))
	if err != nil {
		return engineError("create "+want.String()+" module", err)
	}
	slogger().Debug("d3d10: shader decoded", "model", parsed.Model(),
		"inputs", len(parsed.Input), "outputs", len(parsed.Output), "tokens", parsed.Tokens())
	sh.code, sh.parsed, sh.module = code, parsed, module
	return nil
}

// OutputSignature returns the decoded output signature. Element names
// refer to the shader's private copy of the bytecode.
func (s *shader) OutputSignature() dxbc.Signature { return s.parsed.Output }

// Model returns the shader model, for example "vs_4_0".
func (s *shader) Model() string { return s.parsed.Model() }

func (s *shader) destroyModule() {
	s.device.engine.DestroyShaderModule(s.module)
	s.module = nil
}

// VertexShader is a vertex shader object.
type VertexShader struct {
	shader
}

// CreateVertexShader creates a vertex shader from a DXBC container.
func (d *Device) CreateVertexShader(bytecode []byte) (*VertexShader, error) {
	vs := &VertexShader{}
	if err := d.decodeShader(&vs.shader, bytecode, dxbc.ProgramVertex, engine.StageVertex); err != nil {
		return nil, err
	}
	vs.init(d, true, vs.destroyModule)
	return vs, nil
}

// InputSignature returns the decoded input signature.
func (vs *VertexShader) InputSignature() dxbc.Signature { return vs.parsed.Input }

// QueryInterface answers for the device-child and vertex shader groups.
func (vs *VertexShader) QueryInterface(iid IID) (Unknown, error) {
	return query(vs, iid, IIDDeviceChild, IIDVertexShader)
}

// PixelShader is a pixel shader object.
type PixelShader struct {
	shader
}

// CreatePixelShader creates a pixel shader from a DXBC container.
func (d *Device) CreatePixelShader(bytecode []byte) (*PixelShader, error) {
	ps := &PixelShader{}
	if err := d.decodeShader(&ps.shader, bytecode, dxbc.ProgramPixel, engine.StageFragment); err != nil {
		return nil, err
	}
	ps.init(d, true, ps.destroyModule)
	return ps, nil
}

// QueryInterface answers for the device-child and pixel shader groups.
func (ps *PixelShader) QueryInterface(iid IID) (Unknown, error) {
	return query(ps, iid, IIDDeviceChild, IIDPixelShader)
}

// GeometryShader is a geometry shader object.
//
// Unlike the other shader kinds it does not hold a device reference.
// GetDevice returns nil; the device pointer is kept only to reach the
// engine when the shader is destroyed.
type GeometryShader struct {
	shader
}

// CreateGeometryShader creates a geometry shader from a DXBC container.
func (d *Device) CreateGeometryShader(bytecode []byte) (*GeometryShader, error) {
	gs := &GeometryShader{}
	if err := d.decodeShader(&gs.shader, bytecode, dxbc.ProgramGeometry, engine.StageGeometry); err != nil {
		return nil, err
	}
	gs.init(d, false, gs.destroyModuleIfLive)
	return gs, nil
}

// CreateGeometryShaderWithStreamOutput is not implemented.
func (d *Device) CreateGeometryShaderWithStreamOutput(bytecode []byte, decls []StreamOutputDeclaration, stride uint32) (*GeometryShader, error) {
	return nil, notImplemented("CreateGeometryShaderWithStreamOutput", "entries", len(decls), "stride", stride)
}

// QueryInterface answers for the device-child and geometry shader groups.
func (gs *GeometryShader) QueryInterface(iid IID) (Unknown, error) {
	return query(gs, iid, IIDDeviceChild, IIDGeometryShader)
}

// GetDevice reports no device.
func (gs *GeometryShader) GetDevice() *Device {
	stub("GeometryShader.GetDevice")
	return nil
}

// destroyModuleIfLive destroys the engine module unless the engine went
// away with the device.
func (gs *GeometryShader) destroyModuleIfLive() {
	if gs.device.destroyed.Load() {
		gs.module = nil
		return
	}
	gs.destroyModule()
}

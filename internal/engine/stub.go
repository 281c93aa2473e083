// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package engine

import (
	"fmt"
	"sync"

	"github.com/gogpu/naga"
)

// Stage selects which placeholder module a shader object is backed by.
type Stage uint8

const (
	StageVertex Stage = iota
	StageFragment
	StageGeometry
)

func (s Stage) String() string {
	switch s {
	case StageVertex:
		return "vertex"
	case StageFragment:
		return "fragment"
	case StageGeometry:
		return "geometry"
	}
	return fmt.Sprintf("Stage(%d)", uint8(s))
}

// Bytecode translation is not implemented. Every shader object owns a
// module compiled from one of these entry points so that engine-side
// lifetimes can be tracked.
const (
	vertexStubWGSL = `@vertex
fn main(@builtin(vertex_index) idx: u32) -> @builtin(position) vec4<f32> {
    return vec4<f32>(0.0, 0.0, 0.0, 1.0);
}
`
	fragmentStubWGSL = `@fragment
fn main() -> @location(0) vec4<f32> {
    return vec4<f32>(0.0, 0.0, 0.0, 1.0);
}
`
)

type stubModule struct {
	once sync.Once
	src  string
	code []uint32
	err  error
}

var stubs = [...]*stubModule{
	StageVertex:   {src: vertexStubWGSL},
	StageFragment: {src: fragmentStubWGSL},
	// No WGSL geometry stage; reuse the vertex entry point.
	StageGeometry: {src: vertexStubWGSL},
}

// StageModule returns the SPIR-V words of the placeholder module for stage.
// Each stage is compiled once per process.
func StageModule(stage Stage) ([]uint32, error) {
	if int(stage) >= len(stubs) {
		return nil, fmt.Errorf("engine: unknown shader stage %v", stage)
	}
	m := stubs[stage]
	m.once.Do(func() {
		m.code, m.err = compileSPIRV(m.src)
		if m.err == nil {
			slogger().Debug("engine: stub module compiled", "stage", stage, "words", len(m.code))
		}
	})
	return m.code, m.err
}

func compileSPIRV(wgsl string) ([]uint32, error) {
	spirv, err := naga.Compile(wgsl)
	if err != nil {
		return nil, fmt.Errorf("engine: compile stub shader: %w", err)
	}
	// SPIR-V is little-endian 32-bit words.
	code := make([]uint32, len(spirv)/4)
	for i := range code {
		code[i] = uint32(spirv[i*4]) |
			uint32(spirv[i*4+1])<<8 |
			uint32(spirv[i*4+2])<<16 |
			uint32(spirv[i*4+3])<<24
	}
	return code, nil
}

// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package dxbc

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractShader(t *testing.T) {
	in := sampleSignature()[:2]
	out := Signature{{Name: []byte("SV_Position"), SystemValue: SystemValuePosition, ComponentType: ComponentTypeFloat32, Mask: 0x0f}}
	data := NewBuilder().
		AddChunk(TagResourceDef, []byte{0, 0, 0, 0}).
		AddChunk(TagInputSignature, EncodeSignature(in)).
		AddChunk(TagOutputSignature, EncodeSignature(out)).
		AddChunk(TagShaderCode, EncodeProgram(ProgramVertex, 4, 0, []uint32{0x0100003e})).
		AddChunk(TagStatistics, make([]byte, 8)).
		Bytes()

	s, err := ExtractShader(data)
	require.NoError(t, err)
	assert.Equal(t, ProgramVertex, s.Type)
	assert.Equal(t, uint8(4), s.Major)
	assert.Equal(t, uint8(0), s.Minor)
	assert.Equal(t, "vs_4_0", s.Model())
	assert.Equal(t, 3, s.Tokens())
	assert.Equal(t, TagShaderCode, s.CodeTag)
	require.Len(t, s.Input, 2)
	require.Len(t, s.Output, 1)
	assert.Equal(t, "TEXCOORD", s.Input[1].SemanticName())
	assert.Equal(t, SystemValuePosition, s.Output[0].SystemValue)
}

func TestExtractShaderWithoutSignatures(t *testing.T) {
	data := NewBuilder().
		AddChunk(TagShaderCodeEx, EncodeProgram(ProgramPixel, 5, 0, nil)).
		Bytes()

	s, err := ExtractShader(data)
	require.NoError(t, err)
	assert.Equal(t, ProgramPixel, s.Type)
	assert.Equal(t, TagShaderCodeEx, s.CodeTag)
	assert.Nil(t, s.Input)
	assert.Nil(t, s.Output)
}

func TestExtractShaderMissingCode(t *testing.T) {
	data := NewBuilder().
		AddChunk(TagInputSignature, EncodeSignature(sampleSignature())).
		Bytes()

	s, err := ExtractShader(data)
	assert.ErrorIs(t, err, ErrMissingShaderCode)
	assert.Nil(t, s, "no partially decoded shader is returned")
}

func TestExtractShaderBadSignatureAfterGoodOne(t *testing.T) {
	bad := EncodeSignature(sampleSignature())
	binary.LittleEndian.PutUint32(bad, 1000)
	data := NewBuilder().
		AddChunk(TagInputSignature, EncodeSignature(sampleSignature())).
		AddChunk(TagOutputSignature, bad).
		AddChunk(TagShaderCode, EncodeProgram(ProgramVertex, 4, 0, nil)).
		Bytes()

	s, err := ExtractShader(data)
	assert.ErrorIs(t, err, ErrTruncated)
	assert.Nil(t, s)
}

func TestExtractShaderBadLength(t *testing.T) {
	code := EncodeProgram(ProgramGeometry, 4, 0, []uint32{1, 2})
	binary.LittleEndian.PutUint32(code[4:], 100)
	data := NewBuilder().AddChunk(TagShaderCode, code).Bytes()

	_, err := ExtractShader(data)
	assert.ErrorIs(t, err, ErrTruncated)
}

func TestShaderReset(t *testing.T) {
	s := &Shader{Code: []byte{1}, CodeTag: TagShaderCode, Input: Signature{}, Output: Signature{}}
	s.reset()
	assert.Nil(t, s.Code)
	assert.Nil(t, s.Input)
	assert.Nil(t, s.Output)
	assert.Zero(t, s.CodeTag)
}

func TestParseInputSignature(t *testing.T) {
	data := NewBuilder().
		AddChunk(TagShaderCode, EncodeProgram(ProgramVertex, 4, 0, nil)).
		AddChunk(TagInputSignature, EncodeSignature(sampleSignature())).
		Bytes()

	sig, err := ParseInputSignature(data)
	require.NoError(t, err)
	assert.Len(t, sig, 3)

	sig, err = ParseInputSignature(NewBuilder().Bytes())
	require.NoError(t, err)
	assert.NotNil(t, sig)
	assert.Empty(t, sig)
}

func TestProgramTypeString(t *testing.T) {
	assert.Equal(t, "gs", ProgramGeometry.String())
	assert.Equal(t, "ProgramType(9)", ProgramType(9).String())
}

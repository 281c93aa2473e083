// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package dxbc

import "fmt"

// ProgramType is the shader stage encoded in a program's version token.
type ProgramType uint16

// Program types.
const (
	ProgramPixel    ProgramType = 0
	ProgramVertex   ProgramType = 1
	ProgramGeometry ProgramType = 2
	ProgramHull     ProgramType = 3
	ProgramDomain   ProgramType = 4
	ProgramCompute  ProgramType = 5
)

func (p ProgramType) String() string {
	switch p {
	case ProgramPixel:
		return "ps"
	case ProgramVertex:
		return "vs"
	case ProgramGeometry:
		return "gs"
	case ProgramHull:
		return "hs"
	case ProgramDomain:
		return "ds"
	case ProgramCompute:
		return "cs"
	default:
		return fmt.Sprintf("ProgramType(%d)", uint16(p))
	}
}

// Shader is the result of ExtractShader.
//
// Code and the signature names alias the container passed to
// ExtractShader; keep that buffer alive and unmodified while the Shader
// is in use.
type Shader struct {
	// Code is the payload of the SHDR (or SHEX) chunk: the version token,
	// the length token and the instruction stream.
	Code []byte

	// CodeTag records which chunk Code came from.
	CodeTag Tag

	Input  Signature
	Output Signature

	Type  ProgramType
	Major uint8
	Minor uint8
}

// Tokens returns the number of 32-bit tokens the program declares.
func (s *Shader) Tokens() int {
	return len(s.Code) / 4
}

// Model returns the shader model string, e.g. "vs_4_0".
func (s *Shader) Model() string {
	return fmt.Sprintf("%s_%d_%d", s.Type, s.Major, s.Minor)
}

func (s *Shader) reset() {
	s.Code = nil
	s.CodeTag = 0
	s.Input = nil
	s.Output = nil
}

// ExtractShader parses a complete shader container and returns its
// program and its input and output signatures.
//
// A container without a shader code chunk fails with ErrMissingShaderCode
// even if everything else parsed. On any failure the partially decoded
// signatures are dropped and nil is returned.
func ExtractShader(data []byte) (*Shader, error) {
	s := &Shader{}
	err := Parse(data, func(tag Tag, payload []byte) error {
		switch tag {
		case TagShaderCode, TagShaderCodeEx:
			if s.Code != nil {
				slogger().Debug("dxbc: duplicate shader code chunk", "tag", tag)
			}
			s.Code = payload
			s.CodeTag = tag
		case TagInputSignature:
			sig, err := ParseSignature(payload)
			if err != nil {
				return fmt.Errorf("input signature: %w", err)
			}
			s.Input = sig
		case TagOutputSignature:
			sig, err := ParseSignature(payload)
			if err != nil {
				return fmt.Errorf("output signature: %w", err)
			}
			s.Output = sig
		default:
			slogger().Debug("dxbc: ignoring chunk", "tag", tag, "size", len(payload))
		}
		return nil
	})
	if err == nil && s.Code == nil {
		err = ErrMissingShaderCode
	}
	if err == nil {
		err = s.decodeVersion()
	}
	if err != nil {
		s.reset()
		return nil, err
	}
	return s, nil
}

// decodeVersion reads the version and length tokens at the start of Code.
func (s *Shader) decodeVersion() error {
	r := newReader(s.Code)
	version := r.u32()
	length := r.u32()
	if r.err != nil {
		return fmt.Errorf("program header: %w", r.err)
	}
	if length < 2 || uint64(length)*4 > uint64(len(s.Code)) {
		return fmt.Errorf("%w: program declares %d tokens, chunk holds %d", ErrTruncated, length, len(s.Code)/4)
	}
	s.Minor = uint8(version & 0xf)
	s.Major = uint8((version >> 4) & 0xf)
	s.Type = ProgramType(version >> 16)
	s.Code = s.Code[: length*4 : length*4]
	return nil
}

// ParseInputSignature extracts only the input signature of a container.
// A container without an ISGN chunk yields an empty signature.
func ParseInputSignature(data []byte) (Signature, error) {
	sig := Signature{}
	err := Parse(data, func(tag Tag, payload []byte) error {
		if tag != TagInputSignature {
			return nil
		}
		s, err := ParseSignature(payload)
		if err != nil {
			return fmt.Errorf("input signature: %w", err)
		}
		sig = s
		return nil
	})
	if err != nil {
		return nil, err
	}
	return sig, nil
}

// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package dxbc

import (
	"bytes"
	"fmt"
)

// SystemValue is the system-value semantic bound to a signature element.
type SystemValue uint32

// System-value semantics.
const (
	SystemValueUndefined              SystemValue = 0
	SystemValuePosition               SystemValue = 1
	SystemValueClipDistance           SystemValue = 2
	SystemValueCullDistance           SystemValue = 3
	SystemValueRenderTargetArrayIndex SystemValue = 4
	SystemValueViewportArrayIndex     SystemValue = 5
	SystemValueVertexID               SystemValue = 6
	SystemValuePrimitiveID            SystemValue = 7
	SystemValueInstanceID             SystemValue = 8
	SystemValueIsFrontFace            SystemValue = 9
	SystemValueSampleIndex            SystemValue = 10
	SystemValueTarget                 SystemValue = 64
	SystemValueDepth                  SystemValue = 65
	SystemValueCoverage               SystemValue = 66
)

var systemValueNames = map[SystemValue]string{
	SystemValueUndefined:              "NONE",
	SystemValuePosition:               "POS",
	SystemValueClipDistance:           "CLIPDST",
	SystemValueCullDistance:           "CULLDST",
	SystemValueRenderTargetArrayIndex: "RTINDEX",
	SystemValueViewportArrayIndex:     "VPINDEX",
	SystemValueVertexID:               "VERTID",
	SystemValuePrimitiveID:            "PRIMID",
	SystemValueInstanceID:             "INSTID",
	SystemValueIsFrontFace:            "FFACE",
	SystemValueSampleIndex:            "SAMPLE",
	SystemValueTarget:                 "TARGET",
	SystemValueDepth:                  "DEPTH",
	SystemValueCoverage:               "COVERAGE",
}

func (v SystemValue) String() string {
	if s, ok := systemValueNames[v]; ok {
		return s
	}
	return fmt.Sprintf("SystemValue(%d)", uint32(v))
}

// ComponentType is the scalar type of a signature element's components.
type ComponentType uint32

// Component types.
const (
	ComponentTypeUnknown ComponentType = iota
	ComponentTypeUint32
	ComponentTypeSint32
	ComponentTypeFloat32
)

func (c ComponentType) String() string {
	switch c {
	case ComponentTypeUnknown:
		return "unknown"
	case ComponentTypeUint32:
		return "uint"
	case ComponentTypeSint32:
		return "int"
	case ComponentTypeFloat32:
		return "float"
	default:
		return fmt.Sprintf("ComponentType(%d)", uint32(c))
	}
}

// elementSize is the encoded size of one signature element: six words.
const elementSize = 6 * 4

// signatureHeaderSize covers the element count and the reserved word.
const signatureHeaderSize = 2 * 4

// Element is one entry of an input or output signature.
//
// Name is borrowed, not copied: it aliases the signature payload and thus
// the container buffer the payload came from. It stays valid only while
// that buffer is alive and unmodified. Callers that outlive the buffer
// must copy it (see Signature.Clone).
type Element struct {
	Name          []byte
	SemanticIndex uint32
	SystemValue   SystemValue
	ComponentType ComponentType
	Register      uint32

	// Mask holds the component mask in its low byte and the read/write
	// mask in the second byte, exactly as encoded.
	Mask uint32
}

// SemanticName returns a copy of the semantic name as a string.
func (e *Element) SemanticName() string {
	return string(e.Name)
}

// ComponentMask returns the declared component mask (bit 0 = x).
func (e *Element) ComponentMask() uint8 {
	return uint8(e.Mask)
}

// ReadWriteMask returns the components the shader actually reads (inputs)
// or never writes (outputs).
func (e *Element) ReadWriteMask() uint8 {
	return uint8(e.Mask >> 8)
}

// Signature is an ordered input or output binding table.
type Signature []Element

// ParseSignature decodes the payload of an ISGN or OSGN chunk.
//
// The returned slice is allocated once with exactly the declared element
// count. A count of zero yields an empty, non-nil Signature. Element names
// alias payload.
func ParseSignature(payload []byte) (Signature, error) {
	r := newReader(payload)
	count := r.u32()
	r.skip(4) // reserved: offset of the element table
	if r.err != nil {
		return nil, fmt.Errorf("signature header: %w", r.err)
	}
	if uint64(count)*elementSize > uint64(r.remaining()) {
		return nil, fmt.Errorf("%w: %d signature elements in %d bytes", ErrTruncated, count, len(payload))
	}

	sig := make(Signature, count)
	for i := range sig {
		e := &sig[i]
		nameOff := r.u32()
		e.SemanticIndex = r.u32()
		e.SystemValue = SystemValue(r.u32())
		e.ComponentType = ComponentType(r.u32())
		e.Register = r.u32()
		e.Mask = r.u32()
		name, err := cstring(payload, nameOff)
		if err != nil {
			return nil, fmt.Errorf("signature element %d: %w", i, err)
		}
		e.Name = name
	}
	if r.err != nil {
		return nil, r.err
	}
	return sig, nil
}

// cstring returns the NUL-terminated string at off in buf, without the
// terminator and without copying.
func cstring(buf []byte, off uint32) ([]byte, error) {
	if uint64(off) >= uint64(len(buf)) {
		return nil, fmt.Errorf("%w: name offset %d", ErrTruncated, off)
	}
	s := buf[off:]
	n := bytes.IndexByte(s, 0)
	if n < 0 {
		return nil, fmt.Errorf("%w: unterminated name at %d", ErrTruncated, off)
	}
	return s[:n:n], nil
}

// Find returns the element with the given semantic name and index.
// Semantic names compare case-insensitively.
func (s Signature) Find(name string, index uint32) (*Element, bool) {
	for i := range s {
		e := &s[i]
		if e.SemanticIndex == index && bytes.EqualFold(e.Name, []byte(name)) {
			return e, true
		}
	}
	return nil, false
}

// Clone returns a deep copy whose names no longer alias the source buffer.
func (s Signature) Clone() Signature {
	if s == nil {
		return nil
	}
	c := make(Signature, len(s))
	for i, e := range s {
		e.Name = bytes.Clone(e.Name)
		if e.Name == nil {
			e.Name = []byte{}
		}
		c[i] = e
	}
	return c
}

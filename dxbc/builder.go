// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package dxbc

import "encoding/binary"

// Builder assembles a container from chunks.
//
// The checksum field is written as zeros; nothing in this package
// verifies it.
type Builder struct {
	chunks []builderChunk
}

type builderChunk struct {
	tag     Tag
	payload []byte
}

// NewBuilder returns an empty Builder.
func NewBuilder() *Builder {
	return &Builder{}
}

// AddChunk appends a chunk. The payload is copied when Bytes is called,
// not before, so it must not change in between.
func (b *Builder) AddChunk(tag Tag, payload []byte) *Builder {
	b.chunks = append(b.chunks, builderChunk{tag: tag, payload: payload})
	return b
}

// Len returns the number of chunks added so far.
func (b *Builder) Len() int {
	return len(b.chunks)
}

// Bytes encodes the container. Chunks are laid out in the order they were
// added, each starting on a 4-byte boundary.
func (b *Builder) Bytes() []byte {
	offsets := make([]uint32, len(b.chunks))
	size := headerSize + 4*len(b.chunks)
	for i, c := range b.chunks {
		offsets[i] = uint32(size)
		size += chunkHeaderSize + align4(len(c.payload))
	}

	out := make([]byte, 0, size)
	out = binary.LittleEndian.AppendUint32(out, uint32(TagContainer))
	out = append(out, make([]byte, checksumSize)...)
	out = binary.LittleEndian.AppendUint32(out, containerVersion)
	out = binary.LittleEndian.AppendUint32(out, uint32(size))
	out = binary.LittleEndian.AppendUint32(out, uint32(len(b.chunks)))
	for _, off := range offsets {
		out = binary.LittleEndian.AppendUint32(out, off)
	}
	for _, c := range b.chunks {
		out = binary.LittleEndian.AppendUint32(out, uint32(c.tag))
		out = binary.LittleEndian.AppendUint32(out, uint32(len(c.payload)))
		out = append(out, c.payload...)
		out = append(out, make([]byte, align4(len(c.payload))-len(c.payload))...)
	}
	return out
}

// EncodeSignature encodes sig as an ISGN/OSGN payload: the element table
// followed by a NUL-terminated name table.
func EncodeSignature(sig Signature) []byte {
	tableEnd := signatureHeaderSize + elementSize*len(sig)
	names := make([]byte, 0, 16*len(sig))
	nameOffsets := make([]uint32, len(sig))
	for i := range sig {
		nameOffsets[i] = uint32(tableEnd + len(names))
		names = append(names, sig[i].Name...)
		names = append(names, 0)
	}

	out := make([]byte, 0, tableEnd+align4(len(names)))
	out = binary.LittleEndian.AppendUint32(out, uint32(len(sig)))
	out = binary.LittleEndian.AppendUint32(out, signatureHeaderSize)
	for i, e := range sig {
		out = binary.LittleEndian.AppendUint32(out, nameOffsets[i])
		out = binary.LittleEndian.AppendUint32(out, e.SemanticIndex)
		out = binary.LittleEndian.AppendUint32(out, uint32(e.SystemValue))
		out = binary.LittleEndian.AppendUint32(out, uint32(e.ComponentType))
		out = binary.LittleEndian.AppendUint32(out, e.Register)
		out = binary.LittleEndian.AppendUint32(out, e.Mask)
	}
	out = append(out, names...)
	return append(out, make([]byte, align4(len(names))-len(names))...)
}

// EncodeProgram encodes a SHDR payload: version token, length token, body.
func EncodeProgram(t ProgramType, major, minor uint8, body []uint32) []byte {
	version := uint32(t)<<16 | uint32(major&0xf)<<4 | uint32(minor&0xf)
	out := make([]byte, 0, 8+4*len(body))
	out = binary.LittleEndian.AppendUint32(out, version)
	out = binary.LittleEndian.AppendUint32(out, uint32(2+len(body)))
	for _, tok := range body {
		out = binary.LittleEndian.AppendUint32(out, tok)
	}
	return out
}

func align4(n int) int {
	return (n + 3) &^ 3
}

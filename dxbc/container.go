// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package dxbc

import (
	"errors"
	"fmt"
)

// Container errors.
var (
	// ErrInvalidMagic is returned when the buffer does not start with "DXBC".
	ErrInvalidMagic = errors.New("dxbc: invalid container magic")

	// ErrTruncated is returned when a size or offset field points outside
	// the buffer.
	ErrTruncated = errors.New("dxbc: truncated or malformed data")

	// ErrMissingShaderCode is returned by ExtractShader when the container
	// holds no shader code chunk.
	ErrMissingShaderCode = errors.New("dxbc: no shader code chunk")
)

// Tag is the four-character code that identifies a chunk.
// The first character occupies the least significant byte.
type Tag uint32

// Well-known chunk tags.
const (
	TagContainer       Tag = 'D' | 'X'<<8 | 'B'<<16 | 'C'<<24
	TagShaderCode      Tag = 'S' | 'H'<<8 | 'D'<<16 | 'R'<<24
	TagShaderCodeEx    Tag = 'S' | 'H'<<8 | 'E'<<16 | 'X'<<24
	TagInputSignature  Tag = 'I' | 'S'<<8 | 'G'<<16 | 'N'<<24
	TagOutputSignature Tag = 'O' | 'S'<<8 | 'G'<<16 | 'N'<<24
	TagResourceDef     Tag = 'R' | 'D'<<8 | 'E'<<16 | 'F'<<24
	TagStatistics      Tag = 'S' | 'T'<<8 | 'A'<<16 | 'T'<<24
)

// MakeTag builds a Tag from a four-character string.
// Shorter strings are padded with NUL bytes; extra characters are ignored.
func MakeTag(s string) Tag {
	var t Tag
	for i := 0; i < 4 && i < len(s); i++ {
		t |= Tag(s[i]) << (8 * i)
	}
	return t
}

// String returns the four-character code.
func (t Tag) String() string {
	b := [4]byte{byte(t), byte(t >> 8), byte(t >> 16), byte(t >> 24)}
	for _, c := range b {
		if c < 0x20 || c > 0x7e {
			return fmt.Sprintf("Tag(%#08x)", uint32(t))
		}
	}
	return string(b[:])
}

// Header layout.
const (
	checksumSize = 16

	// headerSize covers magic, checksum, version, total size and chunk count.
	headerSize = 4 + checksumSize + 4 + 4 + 4

	// chunkHeaderSize covers a chunk's tag and size fields.
	chunkHeaderSize = 8

	// containerVersion is the only version value seen in the wild.
	containerVersion = 1
)

// ChunkHandler receives each chunk of a container in offset-table order.
//
// The payload aliases the container buffer. Returning a non-nil error stops
// the parse and makes Parse return that error. Handlers must ignore tags
// they do not know.
type ChunkHandler func(tag Tag, payload []byte) error

// Chunk describes one entry of the chunk offset table.
type Chunk struct {
	Tag    Tag
	Offset uint32 // offset of the chunk header from the start of the container
	Size   uint32 // payload size in bytes
}

// Header holds the fixed fields of a container.
type Header struct {
	Checksum   [checksumSize]byte
	Version    uint32
	TotalSize  uint32
	ChunkCount uint32
}

// Parse validates the container header in data and calls handle for every
// chunk listed in the offset table.
//
// Every offset and size is bounds-checked against data and against the
// declared total size; violations return ErrTruncated. Parse itself never
// interprets a payload.
func Parse(data []byte, handle ChunkHandler) error {
	h, offsets, err := readHeader(data)
	if err != nil {
		return err
	}
	data = data[:h.TotalSize]
	for _, off := range offsets {
		tag, payload, err := readChunk(data, off)
		if err != nil {
			return err
		}
		if err := handle(tag, payload); err != nil {
			return err
		}
	}
	return nil
}

// ReadHeader decodes the fixed header fields of a container.
func ReadHeader(data []byte) (Header, error) {
	h, _, err := readHeader(data)
	return h, err
}

// Chunks lists the chunks of a container without dispatching them.
func Chunks(data []byte) ([]Chunk, error) {
	h, offsets, err := readHeader(data)
	if err != nil {
		return nil, err
	}
	data = data[:h.TotalSize]
	chunks := make([]Chunk, 0, len(offsets))
	for _, off := range offsets {
		tag, payload, err := readChunk(data, off)
		if err != nil {
			return nil, err
		}
		chunks = append(chunks, Chunk{Tag: tag, Offset: off, Size: uint32(len(payload))})
	}
	return chunks, nil
}

func readHeader(data []byte) (Header, []uint32, error) {
	var h Header
	r := newReader(data)
	if Tag(r.u32()) != TagContainer {
		if r.err != nil {
			return h, nil, fmt.Errorf("%w: %w", ErrInvalidMagic, r.err)
		}
		return h, nil, ErrInvalidMagic
	}
	copy(h.Checksum[:], r.bytes(checksumSize))
	h.Version = r.u32()
	h.TotalSize = r.u32()
	h.ChunkCount = r.u32()
	if r.err != nil {
		return h, nil, fmt.Errorf("container header: %w", r.err)
	}
	if h.Version != containerVersion {
		slogger().Debug("dxbc: unexpected container version", "version", h.Version)
	}
	if uint64(h.TotalSize) > uint64(len(data)) || h.TotalSize < headerSize {
		return h, nil, fmt.Errorf("%w: total size %d, buffer %d", ErrTruncated, h.TotalSize, len(data))
	}
	if uint64(h.ChunkCount)*4 > uint64(r.remaining()) {
		return h, nil, fmt.Errorf("%w: %d chunk offsets", ErrTruncated, h.ChunkCount)
	}

	offsets := make([]uint32, h.ChunkCount)
	for i := range offsets {
		offsets[i] = r.u32()
	}
	return h, offsets, r.err
}

// readChunk decodes the chunk header at off and returns its payload.
// data must already be cut to the declared container size.
func readChunk(data []byte, off uint32) (Tag, []byte, error) {
	r := newReader(data)
	r.seek(int(off))
	tag := Tag(r.u32())
	size := r.u32()
	payload := r.bytes(int(size))
	if r.err != nil {
		return 0, nil, fmt.Errorf("chunk at offset %d: %w", off, r.err)
	}
	return tag, payload, nil
}

// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package dxbc

import "encoding/binary"

// reader is a bounds-checked little-endian cursor over a byte slice.
//
// The first out-of-range read sets err and every later read returns zero,
// so callers can decode a fixed layout and check err once at the end.
type reader struct {
	buf []byte
	off int
	err error
}

func newReader(buf []byte) *reader {
	return &reader{buf: buf}
}

// seek moves the cursor to an absolute offset.
func (r *reader) seek(off int) {
	if r.err != nil {
		return
	}
	if off < 0 || off > len(r.buf) {
		r.err = ErrTruncated
		return
	}
	r.off = off
}

// skip advances the cursor by n bytes.
func (r *reader) skip(n int) {
	r.seek(r.off + n)
}

// u32 reads one little-endian 32-bit word.
func (r *reader) u32() uint32 {
	b := r.bytes(4)
	if b == nil {
		return 0
	}
	return binary.LittleEndian.Uint32(b)
}

// bytes returns the next n bytes without copying them.
func (r *reader) bytes(n int) []byte {
	if r.err != nil {
		return nil
	}
	if n < 0 || n > len(r.buf)-r.off {
		r.err = ErrTruncated
		return nil
	}
	b := r.buf[r.off : r.off+n : r.off+n]
	r.off += n
	return b
}

// remaining reports how many bytes are left after the cursor.
func (r *reader) remaining() int {
	return len(r.buf) - r.off
}

// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package dxbc reads and writes DXBC shader containers.
//
// A container is a fixed header ("DXBC" magic, checksum, version, total
// size, chunk count), a table of chunk offsets and the chunks themselves,
// each a four-character tag, a payload size and the payload:
//
//	+--------+----------+---------+------+-------+-----------+---------+
//	| "DXBC" | checksum | version | size | count | offsets[] | chunks  |
//	+--------+----------+---------+------+-------+-----------+---------+
//
// [Parse] walks the offset table and hands every payload to a
// [ChunkHandler]. [ParseSignature] decodes ISGN/OSGN payloads into
// [Signature] tables and [ExtractShader] combines both to pull the program
// and its signatures out of a compiled shader.
//
// All decoding is bounds-checked: a size or offset that points outside the
// buffer yields [ErrTruncated] instead of a panic.
//
// # Borrowed data
//
// Payloads, [Shader.Code] and [Element.Name] alias the input buffer. They
// are never copied by this package, so the buffer must outlive every value
// decoded from it. Use [Signature.Clone] to detach a signature.
package dxbc

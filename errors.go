// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package d3d10

import (
	"errors"
	"fmt"

	"github.com/gogpu/d3d10/internal/engine"
)

// Sentinel errors. Every error returned by this package wraps exactly one
// of them; use StatusOf to obtain the matching status code.
var (
	// ErrInvalidArg reports a bad descriptor, a nil required argument, a
	// slot window out of range or a malformed shader container.
	ErrInvalidArg = errors.New("d3d10: invalid argument")

	// ErrOutOfMemory reports an allocation failure in the engine.
	ErrOutOfMemory = errors.New("d3d10: out of memory")

	// ErrNoInterface reports a capability query for a group the object
	// does not implement.
	ErrNoInterface = errors.New("d3d10: no such interface")

	// ErrNotImplemented reports an operation that is recognized but has
	// no engine path.
	ErrNotImplemented = errors.New("d3d10: not implemented")

	// ErrFail reports an engine failure without a more specific code.
	ErrFail = errors.New("d3d10: failure")
)

// Status is the closed set of result codes surfaced to callers.
type Status uint32

const (
	StatusOK Status = iota
	StatusInvalidArg
	StatusOutOfMemory
	StatusNoInterface
	StatusNotImplemented
	StatusFail
)

var statusInfo = [...]struct {
	name    string
	hresult uint32
}{
	StatusOK:             {"S_OK", 0x00000000},
	StatusInvalidArg:     {"E_INVALIDARG", 0x80070057},
	StatusOutOfMemory:    {"E_OUTOFMEMORY", 0x8007000E},
	StatusNoInterface:    {"E_NOINTERFACE", 0x80004002},
	StatusNotImplemented: {"E_NOTIMPL", 0x80004001},
	StatusFail:           {"E_FAIL", 0x80004005},
}

func (s Status) String() string {
	if int(s) < len(statusInfo) {
		return statusInfo[s].name
	}
	return fmt.Sprintf("Status(%d)", uint32(s))
}

// HRESULT returns the 32-bit result code for s.
func (s Status) HRESULT() uint32 {
	if int(s) < len(statusInfo) {
		return statusInfo[s].hresult
	}
	return statusInfo[StatusFail].hresult
}

// StatusOf maps err to a status code. A nil error is StatusOK; an error
// that wraps none of the package sentinels is StatusFail.
func StatusOf(err error) Status {
	switch {
	case err == nil:
		return StatusOK
	case errors.Is(err, ErrInvalidArg):
		return StatusInvalidArg
	case errors.Is(err, ErrOutOfMemory):
		return StatusOutOfMemory
	case errors.Is(err, ErrNoInterface):
		return StatusNoInterface
	case errors.Is(err, ErrNotImplemented):
		return StatusNotImplemented
	default:
		return StatusFail
	}
}

// engineError classifies a failure reported by the engine.
func engineError(op string, err error) error {
	if errors.Is(err, engine.ErrOutOfMemory) {
		return fmt.Errorf("%w: %s: %v", ErrOutOfMemory, op, err)
	}
	return fmt.Errorf("%w: %s: %v", ErrFail, op, err)
}

// invalidArg builds an ErrInvalidArg with a formatted reason.
func invalidArg(format string, args ...any) error {
	return fmt.Errorf("%w: "+format, append([]any{ErrInvalidArg}, args...)...)
}

// notImplemented logs the stub diagnostic and returns ErrNotImplemented.
func notImplemented(op string, args ...any) error {
	stub(op, args...)
	return fmt.Errorf("%w: %s", ErrNotImplemented, op)
}

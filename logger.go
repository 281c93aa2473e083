// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package d3d10

import (
	"context"
	"log/slog"
	"sync/atomic"

	"github.com/gogpu/d3d10/dxbc"
	"github.com/gogpu/d3d10/internal/engine"
)

// nopHandler drops every record. Enabled reports false, so callers never
// build the attributes of a disabled record.
type nopHandler struct{}

func (nopHandler) Enabled(context.Context, slog.Level) bool  { return false }
func (nopHandler) Handle(context.Context, slog.Record) error { return nil }
func (nopHandler) WithAttrs([]slog.Attr) slog.Handler        { return nopHandler{} }
func (nopHandler) WithGroup(string) slog.Handler             { return nopHandler{} }

func newNopLogger() *slog.Logger { return slog.New(nopHandler{}) }

// loggerPtr is swapped by SetLogger while other goroutines log.
var loggerPtr atomic.Pointer[slog.Logger]

func init() {
	loggerPtr.Store(newNopLogger())
}

// SetLogger installs l for the device layer, the engine and the dxbc
// parser. Without a call nothing is logged; nil restores that state.
//
// Log levels used by d3d10:
//   - [slog.LevelDebug]: derived view descriptors, unknown container chunks,
//     input elements without a shader match
//   - [slog.LevelInfo]: device creation and destruction
//   - [slog.LevelWarn]: stubbed and not-implemented entry points
//   - [slog.LevelError]: a device destroyed while state objects are alive
//
// Example:
//
//	d3d10.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
//	    Level: slog.LevelDebug,
//	})))
func SetLogger(l *slog.Logger) {
	if l == nil {
		l = newNopLogger()
	}
	loggerPtr.Store(l)
	engine.SetLogger(l)
	dxbc.SetLogger(l)
}

// Logger returns the installed logger.
func Logger() *slog.Logger {
	return loggerPtr.Load()
}

func slogger() *slog.Logger {
	return loggerPtr.Load()
}

// stub logs an entry point that has no engine path.
func stub(op string, args ...any) {
	slogger().Warn("d3d10: stub "+op, args...)
}

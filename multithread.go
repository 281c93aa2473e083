// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package d3d10

import "sync/atomic"

// Multithread is the thread-protection capability of a Device. It shares
// the device's identity and reference count.
//
// While protection is on, Enter and Leave acquire and release the engine
// lock. While it is off they do nothing and concurrent use is the
// caller's responsibility.
type Multithread struct {
	device    *Device
	protected atomic.Bool

	// held is set while an Enter holds the engine lock.
	held atomic.Bool
}

// QueryInterface forwards to the device.
func (m *Multithread) QueryInterface(iid IID) (Unknown, error) {
	return m.device.QueryInterface(iid)
}

// AddRef adds a reference to the device.
func (m *Multithread) AddRef() uint32 { return m.device.AddRef() }

// Release drops a reference to the device.
func (m *Multithread) Release() uint32 { return m.device.Release() }

// Enter acquires the engine lock when protection is on.
func (m *Multithread) Enter() {
	if m.protected.Load() {
		m.device.engine.Lock()
		m.held.Store(true)
	}
}

// Leave releases the engine lock if the matching Enter acquired it.
func (m *Multithread) Leave() {
	if m.held.CompareAndSwap(true, false) {
		m.device.engine.Unlock()
	}
}

// SetMultithreadProtected turns protection on or off and returns the
// previous setting.
func (m *Multithread) SetMultithreadProtected(on bool) bool {
	return m.protected.Swap(on)
}

// GetMultithreadProtected reports whether protection is on.
func (m *Multithread) GetMultithreadProtected() bool {
	return m.protected.Load()
}

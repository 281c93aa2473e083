// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package intern provides a reference-counted interning cache that maps
// immutable descriptors to the single object created for them.
package intern

import (
	"sync"
	"sync/atomic"

	"cogentcore.org/core/base/ordmap"
)

// Cache maps keys to interned values, keeping entries in creation order.
//
// The cache never touches reference counts itself. Callers pass the
// retain and release steps of their objects so that both run under the
// cache lock: a lookup can never revive an object whose count already
// dropped to zero, and an entry is always gone before its object is torn
// down.
//
// Cache is safe for concurrent use.
type Cache[K comparable, V any] struct {
	mu      sync.Mutex
	entries *ordmap.Map[K, V]

	hits   atomic.Uint64
	misses atomic.Uint64
}

// New returns an empty Cache.
func New[K comparable, V any]() *Cache[K, V] {
	return &Cache[K, V]{entries: ordmap.New[K, V]()}
}

// Acquire returns the value interned under key after calling retain on it.
// On a miss it calls create and interns the result. If create fails the
// cache is left exactly as it was.
//
// retain and create run with the cache locked and must not call back into
// the cache.
func (c *Cache[K, V]) Acquire(key K, retain func(V), create func() (V, error)) (V, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if v, ok := c.entries.ValueByKeyTry(key); ok {
		retain(v)
		c.hits.Add(1)
		return v, nil
	}

	v, err := create()
	if err != nil {
		var zero V
		return zero, err
	}
	c.entries.Add(key, v)
	c.misses.Add(1)
	return v, nil
}

// Release runs release under the cache lock. When release reports that the
// last reference is gone, the entry for key is removed and Release returns
// true; the caller then owns the teardown of the value.
func (c *Cache[K, V]) Release(key K, release func() bool) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !release() {
		return false
	}
	c.entries.DeleteKey(key)
	return true
}

// Lookup returns the value interned under key without retaining it.
func (c *Cache[K, V]) Lookup(key K) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.entries.ValueByKeyTry(key)
}

// Len returns the number of live entries.
func (c *Cache[K, V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.entries.Len()
}

// Values returns the live values in creation order.
func (c *Cache[K, V]) Values() []V {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.entries.Values()
}

// Keys returns the live keys in creation order.
func (c *Cache[K, V]) Keys() []K {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.entries.Keys()
}

// Stats returns the number of hits and misses seen by Acquire.
func (c *Cache[K, V]) Stats() (hits, misses uint64) {
	return c.hits.Load(), c.misses.Load()
}

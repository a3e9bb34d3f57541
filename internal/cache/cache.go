// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package cache provides the generic LRU cache backing the pipeline
// library: pipeline futures are deduplicated by descriptor hash, and the
// HAL backend keeps compiled shader modules by code hash.
//
// Cache is safe for concurrent use and must not be copied after creation.
package cache

import (
	"sync"
	"sync/atomic"
)

// Cache is a thread-safe LRU cache with a soft limit. When the cache grows
// past the limit, the least recently used quarter of the entries is evicted.
// A soft limit of 0 means unlimited.
type Cache[K comparable, V any] struct {
	mu        sync.Mutex
	entries   map[K]*entry[V]
	softLimit int
	tick      int64 // monotonic access counter

	hits   atomic.Uint64
	misses atomic.Uint64
}

type entry[V any] struct {
	value V
	atime int64 // tick value at last access
}

// New creates a cache with the given soft limit. A limit of 0 disables
// eviction.
func New[K comparable, V any](softLimit int) *Cache[K, V] {
	return &Cache[K, V]{
		entries:   make(map[K]*entry[V]),
		softLimit: softLimit,
	}
}

// Get retrieves a value. Returns (zero, false) when absent.
func (c *Cache[K, V]) Get(key K) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		c.misses.Add(1)
		var zero V
		return zero, false
	}
	c.tick++
	e.atime = c.tick
	c.hits.Add(1)
	return e.value, true
}

// Set stores a value, evicting old entries if the soft limit is exceeded.
func (c *Cache[K, V]) Set(key K, value V) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.tick++
	c.entries[key] = &entry[V]{value: value, atime: c.tick}
	c.evictLocked()
}

// GetOrCreate returns the cached value for key, calling create to produce
// it on a miss. created reports whether create ran. create runs under the
// cache lock, so two concurrent callers with the same key never both
// create; keep create fast and hand off slow work (such as backend
// compilation) to the returned value instead.
func (c *Cache[K, V]) GetOrCreate(key K, create func() V) (value V, created bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if e, ok := c.entries[key]; ok {
		c.tick++
		e.atime = c.tick
		c.hits.Add(1)
		return e.value, false
	}

	c.misses.Add(1)
	value = create()
	c.tick++
	c.entries[key] = &entry[V]{value: value, atime: c.tick}
	c.evictLocked()
	return value, true
}

// Delete removes an entry, reporting whether it was present.
func (c *Cache[K, V]) Delete(key K) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.entries[key]; ok {
		delete(c.entries, key)
		return true
	}
	return false
}

// Clear removes all entries.
func (c *Cache[K, V]) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries = make(map[K]*entry[V])
	c.tick = 0
}

// Len returns the number of entries.
func (c *Cache[K, V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// Each calls fn for every cached value. Used by the library to release
// backend resources on shutdown. fn runs under the cache lock and must not
// call back into the cache.
func (c *Cache[K, V]) Each(fn func(V)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, e := range c.entries {
		fn(e.value)
	}
}

// Stats reports hit/miss counters. The values are read atomically and may
// lag concurrent operations.
func (c *Cache[K, V]) Stats() (hits, misses uint64) {
	return c.hits.Load(), c.misses.Load()
}

// evictLocked removes the least recently used entries until the cache is at
// 3/4 of the soft limit. Caller must hold c.mu.
func (c *Cache[K, V]) evictLocked() {
	if c.softLimit <= 0 || len(c.entries) <= c.softLimit {
		return
	}
	target := c.softLimit * 3 / 4
	if target < 1 {
		target = 1
	}
	toEvict := len(c.entries) - target

	keys := make([]K, 0, len(c.entries))
	atimes := make([]int64, 0, len(c.entries))
	for key, e := range c.entries {
		keys = append(keys, key)
		atimes = append(atimes, e.atime)
	}
	// Selection of the oldest entries; eviction batches are small.
	for i := 0; i < toEvict && i < len(keys); i++ {
		minIdx := i
		for j := i + 1; j < len(keys); j++ {
			if atimes[j] < atimes[minIdx] {
				minIdx = j
			}
		}
		keys[i], keys[minIdx] = keys[minIdx], keys[i]
		atimes[i], atimes[minIdx] = atimes[minIdx], atimes[i]
		delete(c.entries, keys[i])
	}
}

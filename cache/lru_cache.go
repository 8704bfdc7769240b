// Copyright (C) 2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package cache provides the client-side caches of the toolkit: a TTL cache
// for data that goes stale (the gateway FHE public key) and an LRU cache for
// immutable data (verified decryption results, keyed by ciphertext handle).
package cache

import (
	"sync"

	"github.com/luxfi/geth/common/lru"
)

// LRUCache wraps an LRU cache with a fetch-on-miss Get for immutable data.
// A decryption result for a handle never changes once verified, so entries
// never expire; they are only evicted by capacity.
type LRUCache[K comparable, V any] struct {
	cache *lru.Cache[K, V]
	lock  sync.RWMutex
}

func NewLRUCache[K comparable, V any](size int) *LRUCache[K, V] {
	return &LRUCache[K, V]{
		cache: lru.NewCache[K, V](size),
	}
}

// Get returns the cached value for key, fetching it with fetchFunc on a
// miss. If [invalidate] is true the entry is cleared before fetching.
func (c *LRUCache[K, V]) Get(key K, fetchFunc func(K) (V, error), invalidate bool) (V, error) {
	if invalidate {
		c.lock.Lock()
		c.cache.Remove(key)
		c.lock.Unlock()
	} else {
		c.lock.RLock()
		if value, found := c.cache.Get(key); found {
			c.lock.RUnlock()
			return value, nil
		}
		c.lock.RUnlock()
	}

	newValue, err := fetchFunc(key)
	if err != nil {
		var zero V
		return zero, err
	}

	c.lock.Lock()
	c.cache.Add(key, newValue)
	c.lock.Unlock()

	return newValue, nil
}

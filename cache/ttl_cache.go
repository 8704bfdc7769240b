// Copyright (C) 2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package cache

import (
	"fmt"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

type ttlItem[V any] struct {
	value     V
	timestamp time.Time
}

// TTLCache tracks a per-key TTL and deduplicates concurrent fetches for the
// same key. The gateway public key is served through one of these so a burst
// of encrypt calls issues a single key fetch.
type TTLCache[K comparable, V any] struct {
	data    map[K]ttlItem[V]
	ttl     time.Duration
	lock    sync.RWMutex
	sfGroup singleflight.Group
}

func NewTTLCache[K comparable, V any](ttl time.Duration) *TTLCache[K, V] {
	return &TTLCache[K, V]{
		data: make(map[K]ttlItem[V]),
		ttl:  ttl,
	}
}

// Get returns a fresh cached value for key, otherwise fetches one with
// fetchFunc. If [invalidate] is true the entry is cleared before fetching so
// no reader can observe the stale value; concurrent fetches for the same key
// are deduplicated and share the return value.
func (c *TTLCache[K, V]) Get(key K, fetchFunc func(K) (V, error), invalidate bool) (V, error) {
	if invalidate {
		c.lock.Lock()
		delete(c.data, key)
		c.lock.Unlock()
	} else {
		c.lock.RLock()
		item, exists := c.data[key]
		c.lock.RUnlock()
		if exists && time.Since(item.timestamp) < c.ttl {
			return item.value, nil
		}
	}

	keyStr := keyToString(key)

	v, err, _ := c.sfGroup.Do(keyStr, func() (interface{}, error) {
		newValue, fetchErr := fetchFunc(key)
		if fetchErr != nil {
			return *new(V), fetchErr
		}

		c.lock.Lock()
		c.data[key] = ttlItem[V]{
			value:     newValue,
			timestamp: time.Now(),
		}
		c.lock.Unlock()

		return newValue, nil
	})

	if err != nil {
		return *new(V), err
	}

	return v.(V), nil
}

// keyToString is defined to allow for both fmt.Stringer and primitive string types.
func keyToString[K comparable](key K) string {
	if s, ok := any(key).(fmt.Stringer); ok {
		return s.String()
	}
	return fmt.Sprintf("%v", key)
}

// Copyright (C) 2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package cache

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestTTLCacheSingleKey(t *testing.T) {
	tests := []struct {
		name           string
		invalidate     bool
		waitBeforeNext time.Duration
		expectedCount  int
	}{
		{
			name:          "fresh cache, fetch",
			expectedCount: 1,
		},
		{
			name:          "use cache, no fetch",
			expectedCount: 1,
		},
		{
			name:          "invalidate=true, fetch",
			invalidate:    true,
			expectedCount: 2,
		},
		{
			name:           "ttl expired, fetch",
			waitBeforeNext: 2 * time.Second,
			expectedCount:  3,
		},
	}
	cache := NewTTLCache[string, []byte](1 * time.Second)
	fetchCount := 0
	publicKey := []byte{0xaa, 0xbb}
	fetchFunc := func(_ string) ([]byte, error) {
		fetchCount++
		return publicKey, nil
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require := require.New(t)

			if tt.waitBeforeNext > 0 {
				time.Sleep(tt.waitBeforeNext)
			}

			val, err := cache.Get("network-key", fetchFunc, tt.invalidate)
			require.NoError(err)
			require.Equal(publicKey, val)
			require.Equal(tt.expectedCount, fetchCount)
		})
	}
}

func TestTTLCacheFetchError(t *testing.T) {
	require := require.New(t)

	cache := NewTTLCache[string, []byte](time.Minute)
	fetchErr := errors.New("gateway unavailable")

	_, err := cache.Get("network-key", func(_ string) ([]byte, error) {
		return nil, fetchErr
	}, false)
	require.ErrorIs(err, fetchErr)

	// Errors are not cached; the next fetch runs again.
	val, err := cache.Get("network-key", func(_ string) ([]byte, error) {
		return []byte{0x01}, nil
	}, false)
	require.NoError(err)
	require.Equal([]byte{0x01}, val)
}

func TestTTLCacheConcurrentFetchDeduplicated(t *testing.T) {
	require := require.New(t)

	cache := NewTTLCache[string, []byte](time.Minute)
	var (
		mu         sync.Mutex
		fetchCount int
	)
	fetchFunc := func(_ string) ([]byte, error) {
		mu.Lock()
		fetchCount++
		mu.Unlock()
		time.Sleep(50 * time.Millisecond)
		return []byte{0xaa}, nil
	}

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			val, err := cache.Get("network-key", fetchFunc, false)
			require.NoError(err)
			require.Equal([]byte{0xaa}, val)
		}()
	}
	wg.Wait()

	require.Equal(1, fetchCount)
}

// Copyright (C) 2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package cache

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLRUCache(t *testing.T) {
	tests := []struct {
		name          string
		handle        string
		invalidate    bool
		expectedValue string
		expectedCount int
	}{
		{
			name:          "fresh cache, fetch",
			handle:        "handle1",
			invalidate:    false,
			expectedValue: "plaintext",
			expectedCount: 1,
		},
		{
			name:          "use cache, no fetch",
			handle:        "handle1",
			invalidate:    false,
			expectedValue: "plaintext",
			expectedCount: 1,
		},
		{
			name:          "invalidate=true, fetch again",
			handle:        "handle1",
			invalidate:    true,
			expectedValue: "plaintext",
			expectedCount: 2,
		},
		{
			name:          "different handle, fetch",
			handle:        "handle2",
			invalidate:    false,
			expectedValue: "plaintext",
			expectedCount: 3,
		},
	}

	cache := NewLRUCache[string, string](10)
	fetchCount := 0
	fetchFunc := func(_ string) (string, error) {
		fetchCount++
		return "plaintext", nil
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require := require.New(t)

			val, err := cache.Get(tt.handle, fetchFunc, tt.invalidate)
			require.NoError(err)
			require.Equal(tt.expectedValue, val)
			require.Equal(tt.expectedCount, fetchCount)
		})
	}
}

func TestLRUCacheEviction(t *testing.T) {
	require := require.New(t)

	cache := NewLRUCache[int, int](2)
	fetchCount := 0
	fetchFunc := func(k int) (int, error) {
		fetchCount++
		return k * 10, nil
	}

	for _, k := range []int{1, 2, 3} {
		v, err := cache.Get(k, fetchFunc, false)
		require.NoError(err)
		require.Equal(k*10, v)
	}
	require.Equal(3, fetchCount)

	// Key 1 was evicted by key 3 and must be fetched again.
	_, err := cache.Get(1, fetchFunc, false)
	require.NoError(err)
	require.Equal(4, fetchCount)
}

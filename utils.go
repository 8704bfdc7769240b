// Copyright (C) 2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package fhevm

import (
	"errors"
	"math"
	"strings"
)

// KiB is 1024 bytes
const KiB = 1024

// AddUint64 adds two uint64 values and returns an error if overflow
func AddUint64(a, b uint64) (uint64, error) {
	if a > math.MaxUint64-b {
		return 0, errors.New("addition would overflow")
	}
	return a + b, nil
}

// CheckMulDoesNotOverflow checks if a * b would overflow uint64
func CheckMulDoesNotOverflow(a, b uint64) error {
	if a == 0 || b == 0 {
		return nil
	}
	if a > math.MaxUint64/b {
		return errors.New("multiplication would overflow")
	}
	return nil
}

// SanitizeHexString strips an optional 0x prefix for hex decoding.
func SanitizeHexString(s string) string {
	return strings.TrimPrefix(s, "0x")
}

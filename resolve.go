// Copyright (C) 2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package fhevm

import (
	"errors"
	"fmt"
	"math"
	"math/big"
	"strings"

	"github.com/holiman/uint256"
	"github.com/luxfi/geth/common"
)

// errNotNumeric is internal to inference; callers see ErrCannotInferType or
// ErrNotAnInteger depending on whether a type was declared.
var errNotNumeric = errors.New("not numeric")

// ResolveAndValidate determines the effective encrypted type for value and
// checks the value against that type's domain. It is pure and synchronous;
// it must pass before any encryption capability is invoked.
//
// If declared is TypeAuto the type is inferred, stopping at the first match:
// booleans resolve to bool8, 0x-prefixed 40-hex-digit strings resolve to
// address, and numeric values resolve to the smallest unsigned type whose
// domain contains them. Anything else fails with ErrCannotInferType; a value
// never silently defaults to a type.
func ResolveAndValidate(value any, declared EncryptedType) (EncryptedType, error) {
	resolved := declared
	if resolved == TypeAuto {
		var err error
		resolved, err = inferType(value)
		if err != nil {
			return TypeAuto, err
		}
	}
	if err := ValidateValue(value, resolved); err != nil {
		return TypeAuto, err
	}
	return resolved, nil
}

func inferType(value any) (EncryptedType, error) {
	if _, ok := value.(bool); ok {
		return TypeBool, nil
	}
	if s, ok := value.(string); ok && isAddressString(s) {
		return TypeAddress, nil
	}

	n, err := toBigInt(value)
	if err != nil {
		if errors.Is(err, errNotNumeric) {
			return TypeAuto, fmt.Errorf("%w for value %v (%T)", ErrCannotInferType, value, value)
		}
		return TypeAuto, err
	}
	if n.Sign() < 0 {
		return TypeAuto, newValueError(TypeAuto, ErrNegativeValue, fmt.Sprintf("negative value %s has no unsigned type", n))
	}
	for _, t := range uintTypesAscending {
		if n.Cmp(t.Max().ToBig()) <= 0 {
			return t, nil
		}
	}
	// Unreachable: uint256 covers every non-negative integer toBigInt accepts.
	return TypeAuto, fmt.Errorf("%w for value %v", ErrCannotInferType, value)
}

// ValidateValue checks value against the domain of t. The check is
// exhaustive over the encrypted types, so adding a type without a predicate
// is a compile-visible gap here.
func ValidateValue(value any, t EncryptedType) error {
	switch t {
	case TypeBool:
		return validateBool(value)
	case TypeUint8, TypeUint16, TypeUint32, TypeUint64, TypeUint128, TypeUint256:
		return validateUint(value, t)
	case TypeAddress:
		return validateAddress(value)
	case TypeAuto:
		return fmt.Errorf("%w: validation requires a resolved type", ErrUnknownType)
	default:
		return fmt.Errorf("%w: %d", ErrUnknownType, uint8(t))
	}
}

func validateBool(value any) error {
	if _, ok := value.(bool); ok {
		return nil
	}
	// Pre-converted 0/1 from upstream tooling is accepted when bool8 is
	// declared explicitly. Untagged 0/1 still infers to uint8.
	if n, err := toBigInt(value); err == nil && n.Sign() >= 0 && n.Cmp(big.NewInt(1)) <= 0 {
		return nil
	}
	return newValueError(TypeBool, ErrNotBoolean, fmt.Sprintf("value %v must be boolean for %s", value, TypeBool))
}

func validateUint(value any, t EncryptedType) error {
	n, err := toBigInt(value)
	if err != nil {
		if errors.Is(err, errNotNumeric) {
			return newValueError(t, ErrNotAnInteger, fmt.Sprintf("value %v (%T) is not an integer for %s", value, value, t))
		}
		return err
	}
	if n.Sign() < 0 {
		return newValueError(t, ErrNegativeValue, fmt.Sprintf("negative value %s for %s", n, t))
	}
	max := t.Max()
	if n.Cmp(max.ToBig()) > 0 {
		return newValueError(t, ErrValueOutOfRange, fmt.Sprintf("value %s exceeds maximum %s for %s", n, max.Dec(), t))
	}
	return nil
}

func validateAddress(value any) error {
	s, ok := value.(string)
	if !ok {
		return newValueError(TypeAddress, ErrInvalidAddress, fmt.Sprintf("invalid address format: %v (%T)", value, value))
	}
	if !isAddressString(s) {
		return newValueError(TypeAddress, ErrInvalidAddress, fmt.Sprintf("invalid address format: %q", s))
	}
	return nil
}

// isAddressString requires the 0x prefix; the geth predicate alone would
// also accept bare 40-hex strings.
func isAddressString(s string) bool {
	return len(s) == 42 && strings.HasPrefix(s, "0x") && common.IsHexAddress(s)
}

// toBigInt normalizes the supported plaintext representations to a big.Int.
// Strings may be decimal or 0x-prefixed hex. Floats must be exactly
// integral.
func toBigInt(value any) (*big.Int, error) {
	switch v := value.(type) {
	case int:
		return big.NewInt(int64(v)), nil
	case int8:
		return big.NewInt(int64(v)), nil
	case int16:
		return big.NewInt(int64(v)), nil
	case int32:
		return big.NewInt(int64(v)), nil
	case int64:
		return big.NewInt(v), nil
	case uint:
		return new(big.Int).SetUint64(uint64(v)), nil
	case uint8:
		return new(big.Int).SetUint64(uint64(v)), nil
	case uint16:
		return new(big.Int).SetUint64(uint64(v)), nil
	case uint32:
		return new(big.Int).SetUint64(uint64(v)), nil
	case uint64:
		return new(big.Int).SetUint64(v), nil
	case float64:
		return floatToBigInt(v)
	case float32:
		return floatToBigInt(float64(v))
	case *big.Int:
		if v == nil {
			return nil, errNotNumeric
		}
		return new(big.Int).Set(v), nil
	case *uint256.Int:
		if v == nil {
			return nil, errNotNumeric
		}
		return v.ToBig(), nil
	case string:
		return stringToBigInt(v)
	default:
		return nil, errNotNumeric
	}
}

func floatToBigInt(f float64) (*big.Int, error) {
	if math.IsNaN(f) || math.IsInf(f, 0) || f != math.Trunc(f) {
		return nil, fmt.Errorf("%w: %w: %v", ErrInvalidValue, ErrNotAnInteger, f)
	}
	n, _ := new(big.Float).SetFloat64(f).Int(nil)
	return n, nil
}

func stringToBigInt(s string) (*big.Int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, errNotNumeric
	}
	base := 10
	digits := s
	neg := false
	if strings.HasPrefix(digits, "-") {
		neg = true
		digits = digits[1:]
	}
	if strings.HasPrefix(digits, "0x") || strings.HasPrefix(digits, "0X") {
		base = 16
		digits = digits[2:]
	}
	n, ok := new(big.Int).SetString(digits, base)
	if !ok {
		return nil, errNotNumeric
	}
	if neg {
		n.Neg(n)
	}
	return n, nil
}

// Copyright (C) 2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package fhevm is a client toolkit for FHE-enabled EVM chains. It validates
// plaintext inputs against their encrypted type domains, delegates the actual
// encryption and reencryption work to external capability providers (the FHE
// coprocessor and the decryption gateway), and wraps the returned ciphertexts
// in a stable envelope format.
//
// The toolkit performs no cryptography of its own beyond hashing and digest
// construction; ciphertext generation, threshold decryption, and on-chain FHE
// opcode execution all happen outside this module.
package fhevm

import (
	"fmt"

	"github.com/holiman/uint256"
)

// EncryptedType identifies the bit-width/semantic domain of a plaintext value
// prior to encryption. The zero value TypeAuto requests inference from the
// value's shape.
type EncryptedType uint8

const (
	// TypeAuto is not a wire type. It instructs ResolveAndValidate to infer
	// the type from the value.
	TypeAuto EncryptedType = iota

	// TypeBool is an encrypted boolean (ebool), encoded in 8 bits.
	TypeBool

	TypeUint8
	TypeUint16
	TypeUint32
	TypeUint64
	TypeUint128
	TypeUint256

	// TypeAddress is a 20-byte EVM address (eaddress).
	TypeAddress
)

// encryptedTypeNames uses the canonical names of the Solidity FHE library.
var encryptedTypeNames = map[EncryptedType]string{
	TypeAuto:    "auto",
	TypeBool:    "bool8",
	TypeUint8:   "uint8",
	TypeUint16:  "uint16",
	TypeUint32:  "uint32",
	TypeUint64:  "uint64",
	TypeUint128: "uint128",
	TypeUint256: "uint256",
	TypeAddress: "address",
}

func (t EncryptedType) String() string {
	if name, ok := encryptedTypeNames[t]; ok {
		return name
	}
	return fmt.Sprintf("unknown encrypted type %d", uint8(t))
}

// NumBits returns the plaintext bit width of the type.
func (t EncryptedType) NumBits() int {
	switch t {
	case TypeBool:
		return 1
	case TypeUint8:
		return 8
	case TypeUint16:
		return 16
	case TypeUint32:
		return 32
	case TypeUint64:
		return 64
	case TypeUint128:
		return 128
	case TypeUint256:
		return 256
	case TypeAddress:
		return 160
	default:
		return 0
	}
}

// IsUint returns true for the unsigned integer types.
func (t EncryptedType) IsUint() bool {
	switch t {
	case TypeUint8, TypeUint16, TypeUint32, TypeUint64, TypeUint128, TypeUint256:
		return true
	default:
		return false
	}
}

// Max returns the largest legal value for an unsigned integer type, or nil
// for non-numeric types.
func (t EncryptedType) Max() *uint256.Int {
	if !t.IsUint() {
		return nil
	}
	if t == TypeUint256 {
		return new(uint256.Int).SetAllOne()
	}
	max := new(uint256.Int).Lsh(uint256.NewInt(1), uint(t.NumBits()))
	return max.SubUint64(max, 1)
}

// uintTypesAscending is the inference order for untagged numeric values:
// the smallest fitting type wins.
var uintTypesAscending = []EncryptedType{
	TypeUint8,
	TypeUint16,
	TypeUint32,
	TypeUint64,
	TypeUint128,
	TypeUint256,
}

// ParseEncryptedType parses a type name as accepted on the CLI and the
// encryption service API. "ebool", "euint8", etc. are accepted as aliases
// for the Solidity-facing names.
func ParseEncryptedType(s string) (EncryptedType, error) {
	switch s {
	case "", "auto":
		return TypeAuto, nil
	case "bool", "bool8", "ebool":
		return TypeBool, nil
	case "uint8", "euint8":
		return TypeUint8, nil
	case "uint16", "euint16":
		return TypeUint16, nil
	case "uint32", "euint32":
		return TypeUint32, nil
	case "uint64", "euint64":
		return TypeUint64, nil
	case "uint128", "euint128":
		return TypeUint128, nil
	case "uint256", "euint256":
		return TypeUint256, nil
	case "address", "eaddress":
		return TypeAddress, nil
	default:
		return TypeAuto, fmt.Errorf("%w: %q", ErrUnknownType, s)
	}
}

// Copyright (C) 2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package fhevm

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestEncryptedTypeMax(t *testing.T) {
	require := require.New(t)

	require.Equal("255", TypeUint8.Max().Dec())
	require.Equal("65535", TypeUint16.Max().Dec())
	require.Equal("4294967295", TypeUint32.Max().Dec())
	require.Equal("18446744073709551615", TypeUint64.Max().Dec())

	two := big.NewInt(2)
	u128 := new(big.Int).Sub(new(big.Int).Exp(two, big.NewInt(128), nil), big.NewInt(1))
	require.Equal(u128, TypeUint128.Max().ToBig())
	u256 := new(big.Int).Sub(new(big.Int).Exp(two, big.NewInt(256), nil), big.NewInt(1))
	require.Equal(u256, TypeUint256.Max().ToBig())

	require.Nil(TypeBool.Max())
	require.Nil(TypeAddress.Max())
	require.Nil(TypeAuto.Max())
}

func TestParseEncryptedType(t *testing.T) {
	tests := []struct {
		input    string
		expected EncryptedType
		wantErr  bool
	}{
		{input: "", expected: TypeAuto},
		{input: "auto", expected: TypeAuto},
		{input: "bool8", expected: TypeBool},
		{input: "ebool", expected: TypeBool},
		{input: "uint8", expected: TypeUint8},
		{input: "euint64", expected: TypeUint64},
		{input: "uint128", expected: TypeUint128},
		{input: "uint256", expected: TypeUint256},
		{input: "address", expected: TypeAddress},
		{input: "eaddress", expected: TypeAddress},
		{input: "uint512", wantErr: true},
		{input: "int8", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			require := require.New(t)

			parsed, err := ParseEncryptedType(tt.input)
			if tt.wantErr {
				require.ErrorIs(err, ErrUnknownType)
				return
			}
			require.NoError(err)
			require.Equal(tt.expected, parsed)
		})
	}
}

func TestParseRoundTrip(t *testing.T) {
	require := require.New(t)

	for _, typ := range []EncryptedType{
		TypeBool, TypeUint8, TypeUint16, TypeUint32,
		TypeUint64, TypeUint128, TypeUint256, TypeAddress,
	} {
		parsed, err := ParseEncryptedType(typ.String())
		require.NoError(err)
		require.Equal(typ, parsed)
	}
}

func TestNumBits(t *testing.T) {
	require := require.New(t)

	require.Equal(1, TypeBool.NumBits())
	require.Equal(8, TypeUint8.NumBits())
	require.Equal(256, TypeUint256.NumBits())
	require.Equal(160, TypeAddress.NumBits())
	require.Equal(0, TypeAuto.NumBits())
}

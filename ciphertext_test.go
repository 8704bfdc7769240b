// Copyright (C) 2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package fhevm

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCiphertextEnvelope(t *testing.T) {
	require := require.New(t)

	ct, err := NewCiphertext(TypeUint32, []byte{0xde, 0xad, 0xbe, 0xef})
	require.NoError(err)

	b := ct.Bytes()
	require.NotEmpty(b)

	parsed, err := ParseCiphertext(b)
	require.NoError(err)
	require.Equal(ct.Type, parsed.Type)
	require.Equal(ct.Data, parsed.Data)
	require.Equal(ct.Handle(), parsed.Handle())
}

func TestCiphertextHandleDeterministic(t *testing.T) {
	require := require.New(t)

	a, err := NewCiphertext(TypeUint8, []byte{1, 2, 3})
	require.NoError(err)
	b, err := NewCiphertext(TypeUint8, []byte{1, 2, 3})
	require.NoError(err)
	require.Equal(a.Handle(), b.Handle())

	// Same bytes under a different type is a different ciphertext.
	c, err := NewCiphertext(TypeUint16, []byte{1, 2, 3})
	require.NoError(err)
	require.NotEqual(a.Handle(), c.Handle())
}

func TestCiphertextInvalid(t *testing.T) {
	require := require.New(t)

	_, err := NewCiphertext(TypeUint8, nil)
	require.ErrorIs(err, ErrInvalidCiphertext)

	_, err = NewCiphertext(TypeAuto, []byte{1})
	require.ErrorIs(err, ErrInvalidCiphertext)

	_, err = ParseCiphertext([]byte{0xff, 0x00})
	require.ErrorIs(err, ErrInvalidCiphertext)
}

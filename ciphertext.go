// Copyright (C) 2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package fhevm

import (
	"fmt"

	"github.com/luxfi/crypto"
	"github.com/luxfi/geth/rlp"
	"github.com/luxfi/ids"
)

const (
	CodecVersion = 0

	// MaxCiphertextSize bounds a serialized envelope. TFHE ciphertexts for
	// the widest supported type stay well under this.
	MaxCiphertextSize = 1024 * KiB
)

// Ciphertext is the serialized-ciphertext envelope handed back to callers
// and accepted by contract call builders. Data is opaque bytes from the
// encryption provider; the envelope only records which encrypted type the
// bytes carry.
type Ciphertext struct {
	Version uint8         `serialize:"true"`
	Type    EncryptedType `serialize:"true"`
	Data    []byte        `serialize:"true"`
}

// NewCiphertext wraps provider bytes in an envelope.
func NewCiphertext(t EncryptedType, data []byte) (*Ciphertext, error) {
	ct := &Ciphertext{
		Version: CodecVersion,
		Type:    t,
		Data:    data,
	}
	if err := ct.Verify(); err != nil {
		return nil, err
	}
	return ct, nil
}

// Verify checks the envelope format.
func (c *Ciphertext) Verify() error {
	if c.Version != CodecVersion {
		return fmt.Errorf("%w: unsupported version %d", ErrInvalidCiphertext, c.Version)
	}
	if c.Type == TypeAuto || c.Type > TypeAddress {
		return fmt.Errorf("%w: %s", ErrInvalidCiphertext, c.Type)
	}
	if len(c.Data) == 0 {
		return fmt.Errorf("%w: empty data", ErrInvalidCiphertext)
	}
	if len(c.Data) > MaxCiphertextSize {
		return fmt.Errorf("%w: size %d exceeds maximum %d", ErrInvalidCiphertext, len(c.Data), MaxCiphertextSize)
	}
	return nil
}

// Bytes returns the RLP encoding of the envelope.
func (c *Ciphertext) Bytes() []byte {
	b, _ := rlp.EncodeToBytes(c)
	return b
}

// Handle returns the keccak-derived identifier the coprocessor and the ACL
// contract use to reference this ciphertext.
func (c *Ciphertext) Handle() ids.ID {
	var id ids.ID
	copy(id[:], crypto.Keccak256(c.Bytes()))
	return id
}

// ParseCiphertext decodes and verifies an envelope.
func ParseCiphertext(b []byte) (*Ciphertext, error) {
	ct := &Ciphertext{}
	if err := rlp.DecodeBytes(b, ct); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidCiphertext, err)
	}
	if err := ct.Verify(); err != nil {
		return nil, err
	}
	return ct, nil
}

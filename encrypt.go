// Copyright (C) 2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package fhevm

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/luxfi/geth/common"
	"github.com/luxfi/log"
	"github.com/luxfi/math/set"
)

// Encrypt validates value, inferring its encrypted type, and delegates to
// the encryption capability. No capability call is made unless validation
// succeeds.
func (c *Client) Encrypt(ctx context.Context, value any) (*Ciphertext, error) {
	return c.EncryptAs(ctx, value, TypeAuto)
}

// EncryptAs is Encrypt with an explicit encrypted type.
func (c *Client) EncryptAs(ctx context.Context, value any, t EncryptedType) (*Ciphertext, error) {
	resolved, err := ResolveAndValidate(value, t)
	if err != nil {
		return nil, err
	}
	if c.encryptor == nil {
		return nil, ErrNoEncryptor
	}

	plaintext, err := plaintextBytes(value, resolved)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, c.cfg.RequestTimeout)
	defer cancel()

	data, err := c.encryptor.Encrypt(ctx, plaintext, resolved)
	if err != nil {
		// Capability failures pass through unchanged.
		return nil, err
	}

	ct, err := NewCiphertext(resolved, data)
	if err != nil {
		return nil, err
	}
	c.log.Debug("encrypted value",
		log.Stringer("type", resolved),
		log.Stringer("handle", ct.Handle()),
		log.Int("size", len(data)),
	)
	return ct, nil
}

// BatchInput is one entry of an EncryptBatch call.
type BatchInput struct {
	Value any
	Type  EncryptedType
}

type batchResult struct {
	index      int
	ciphertext *Ciphertext
	err        error
}

// EncryptBatch encrypts independent values concurrently. All inputs are
// validated up front; if any fail, no capability call is made and the error
// reports every failing index. Capability calls are issued concurrently with
// no ordering guarantee, and one call's failure does not cancel the others.
func (c *Client) EncryptBatch(ctx context.Context, inputs []BatchInput) ([]*Ciphertext, error) {
	resolved := make([]EncryptedType, len(inputs))
	invalid := set.NewBits()
	var validationErrs []error
	for i, in := range inputs {
		t, err := ResolveAndValidate(in.Value, in.Type)
		if err != nil {
			invalid.Add(i)
			validationErrs = append(validationErrs, fmt.Errorf("input %d: %w", i, err))
			continue
		}
		resolved[i] = t
	}
	if len(validationErrs) > 0 {
		indices := make([]string, 0, len(validationErrs))
		for i := range inputs {
			if invalid.Contains(i) {
				indices = append(indices, fmt.Sprint(i))
			}
		}
		c.log.Debug("batch validation failed",
			log.String("indices", strings.Join(indices, ",")),
		)
		return nil, errors.Join(validationErrs...)
	}
	if c.encryptor == nil {
		return nil, ErrNoEncryptor
	}

	results := make(chan batchResult, len(inputs))
	for i, in := range inputs {
		go func(i int, value any, t EncryptedType) {
			ct, err := c.EncryptAs(ctx, value, t)
			results <- batchResult{index: i, ciphertext: ct, err: err}
		}(i, in.Value, resolved[i])
	}

	ciphertexts := make([]*Ciphertext, len(inputs))
	var encryptErrs []error
	for range inputs {
		r := <-results
		if r.err != nil {
			encryptErrs = append(encryptErrs, fmt.Errorf("input %d: %w", r.index, r.err))
			continue
		}
		ciphertexts[r.index] = r.ciphertext
	}
	if len(encryptErrs) > 0 {
		return ciphertexts, errors.Join(encryptErrs...)
	}
	return ciphertexts, nil
}

// plaintextBytes renders a validated value as the big-endian byte string the
// encryption capability expects, padded to the type's width.
func plaintextBytes(value any, t EncryptedType) ([]byte, error) {
	switch t {
	case TypeBool:
		if b, ok := value.(bool); ok {
			if b {
				return []byte{1}, nil
			}
			return []byte{0}, nil
		}
		n, err := toBigInt(value)
		if err != nil {
			return nil, newValueError(TypeBool, ErrNotBoolean, fmt.Sprintf("value %v must be boolean for %s", value, TypeBool))
		}
		return []byte{byte(n.Uint64())}, nil
	case TypeAddress:
		s, ok := value.(string)
		if !ok {
			return nil, newValueError(TypeAddress, ErrInvalidAddress, fmt.Sprintf("invalid address format: %v (%T)", value, value))
		}
		return common.HexToAddress(s).Bytes(), nil
	default:
		n, err := toBigInt(value)
		if err != nil {
			return nil, err
		}
		return common.LeftPadBytes(n.Bytes(), t.NumBits()/8), nil
	}
}

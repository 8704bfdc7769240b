// Copyright (C) 2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package fhevm

import (
	"context"
	"fmt"
	"math/big"

	"github.com/luxfi/crypto"
	"github.com/luxfi/geth/common"
	"github.com/luxfi/ids"
	"github.com/luxfi/log"
)

// ReencryptionRequest is the payload sent to the gateway. The signature is
// the requester's EIP-712 authorization over (handle, contract, publicKey);
// the gateway recovers and checks the requester against the on-chain ACL.
type ReencryptionRequest struct {
	Handle    ids.ID
	Contract  common.Address
	PublicKey []byte
	Signature []byte
	Requester common.Address
}

// decryptCacheKey scopes cached plaintexts to the requester that fetched
// them; a different Signer on the same handle goes back to the gateway for
// its own ACL check.
type decryptCacheKey struct {
	handle    ids.ID
	requester common.Address
}

// Reencrypt authorizes and performs a gateway reencryption of the
// ciphertext identified by handle, on behalf of signer, toward the given
// ephemeral public key. The returned plaintext has been verified against
// the configured KMS committee; verified plaintexts are cached per handle
// and requester. Gateway failures pass through unchanged and are never
// retried here.
func (c *Client) Reencrypt(
	ctx context.Context,
	handle ids.ID,
	contract common.Address,
	signer Signer,
	publicKey []byte,
) (*big.Int, error) {
	if c.gateway == nil {
		return nil, ErrNoGateway
	}
	key := decryptCacheKey{handle: handle, requester: signer.Address()}
	return c.decryptCache.Get(key, func(decryptCacheKey) (*big.Int, error) {
		return c.reencrypt(ctx, handle, contract, signer, publicKey)
	}, false)
}

func (c *Client) reencrypt(
	ctx context.Context,
	handle ids.ID,
	contract common.Address,
	signer Signer,
	publicKey []byte,
) (*big.Int, error) {
	token := &ReencryptionToken{
		Handle:    handle,
		Contract:  contract,
		PublicKey: publicKey,
	}
	digest := token.Digest(c.cfg.ChainID, c.cfg.KMSVerifierAddress)
	signature, err := signer.Sign(digest.Bytes())
	if err != nil {
		return nil, fmt.Errorf("failed to sign reencryption token: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, c.cfg.RequestTimeout)
	defer cancel()

	result, err := c.gateway.Reencrypt(ctx, &ReencryptionRequest{
		Handle:    handle,
		Contract:  contract,
		PublicKey: publicKey,
		Signature: signature,
		Requester: signer.Address(),
	})
	if err != nil {
		return nil, err
	}

	if err := result.Verify(
		decryptionMessage(handle, result.Plaintext),
		c.cfg.Committee,
		c.cfg.QuorumNum,
		c.cfg.QuorumDen,
	); err != nil {
		return nil, err
	}

	c.log.Debug("reencrypted ciphertext",
		log.Stringer("handle", handle),
		log.Stringer("contract", contract),
		log.Stringer("requester", signer.Address()),
	)
	return new(big.Int).SetBytes(result.Plaintext), nil
}

// decryptionMessage is the byte string the KMS committee signs for a
// decryption result.
func decryptionMessage(handle ids.ID, plaintext []byte) []byte {
	return crypto.Keccak256(handle[:], plaintext)
}

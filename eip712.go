// Copyright (C) 2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package fhevm

import (
	"crypto/ecdsa"
	"fmt"
	"math/big"

	"github.com/luxfi/crypto"
	"github.com/luxfi/geth/common"
	"github.com/luxfi/ids"
)

// The reencryption authorization domain. The gateway recovers the requester
// address from the token signature and checks it against the on-chain ACL;
// signature verification itself is external to this module.
const (
	eip712DomainName    = "Authorization token"
	eip712DomainVersion = "1"
)

var (
	eip712DomainTypeHash = crypto.Keccak256(
		[]byte("EIP712Domain(string name,string version,uint256 chainId,address verifyingContract)"),
	)
	reencryptTypeHash = crypto.Keccak256(
		[]byte("Reencrypt(bytes32 handle,address contractAddress,bytes publicKey)"),
	)
)

// Signer signs reencryption token digests. It is satisfied by a raw private
// key holder or by any external wallet integration.
type Signer interface {
	Sign(digest []byte) ([]byte, error)
	Address() common.Address
}

// ReencryptionToken binds a reencryption request to a ciphertext handle, the
// contract holding the ACL permit, and the ephemeral public key the result
// is reencrypted under.
type ReencryptionToken struct {
	Handle    ids.ID
	Contract  common.Address
	PublicKey []byte
}

// Digest returns the EIP-712 digest of the token for the given chain and
// verifying contract.
func (t *ReencryptionToken) Digest(chainID uint64, verifyingContract common.Address) common.Hash {
	domainSeparator := crypto.Keccak256(
		eip712DomainTypeHash,
		crypto.Keccak256([]byte(eip712DomainName)),
		crypto.Keccak256([]byte(eip712DomainVersion)),
		common.LeftPadBytes(new(big.Int).SetUint64(chainID).Bytes(), 32),
		common.LeftPadBytes(verifyingContract.Bytes(), 32),
	)
	structHash := crypto.Keccak256(
		reencryptTypeHash,
		t.Handle[:],
		common.LeftPadBytes(t.Contract.Bytes(), 32),
		crypto.Keccak256(t.PublicKey),
	)
	return common.BytesToHash(crypto.Keccak256(
		[]byte("\x19\x01"),
		domainSeparator,
		structHash,
	))
}

var _ Signer = (*privateKeySigner)(nil)

type privateKeySigner struct {
	key     *ecdsa.PrivateKey
	address common.Address
}

// NewSigner wraps an ECDSA private key as a token Signer.
func NewSigner(key *ecdsa.PrivateKey) Signer {
	return &privateKeySigner{
		key:     key,
		address: common.Address(crypto.PubkeyToAddress(key.PublicKey)),
	}
}

// NewSignerFromHex parses a hex-encoded private key, with or without the 0x
// prefix.
func NewSignerFromHex(hexKey string) (Signer, error) {
	key, err := crypto.HexToECDSA(SanitizeHexString(hexKey))
	if err != nil {
		return nil, fmt.Errorf("invalid private key: %w", err)
	}
	return NewSigner(key), nil
}

func (s *privateKeySigner) Sign(digest []byte) ([]byte, error) {
	return crypto.Sign(digest, s.key)
}

func (s *privateKeySigner) Address() common.Address {
	return s.address
}

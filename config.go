// Copyright (C) 2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package fhevm

import (
	"errors"
	"fmt"
	"time"

	"github.com/luxfi/geth/common"
)

const (
	// DefaultRequestTimeout bounds a single encrypt or reencrypt round trip.
	DefaultRequestTimeout = 30 * time.Second

	// DefaultQuorumNum/Den is the stake fraction of the KMS committee that
	// must sign a decryption result.
	DefaultQuorumNum = 2
	DefaultQuorumDen = 3

	// DefaultDecryptionCacheSize bounds the per-client cache of verified
	// plaintexts, keyed by ciphertext handle.
	DefaultDecryptionCacheSize = 1024
)

var (
	ErrMissingChainID    = errors.New("chain ID not set")
	ErrMissingGatewayURL = errors.New("gateway URL not set")
	ErrMissingACLAddress = errors.New("ACL contract address not set")
)

// Config is the explicit configuration record for a Client. There are no
// module-level defaults; callers opt into a preset or build their own.
type Config struct {
	// ChainID of the FHE-enabled chain, bound into reencryption tokens.
	ChainID uint64

	// ACLAddress is the on-chain access control list contract consulted by
	// the coprocessor. The client only forwards it.
	ACLAddress common.Address

	// KMSVerifierAddress is the verifying contract of the EIP-712
	// reencryption domain.
	KMSVerifierAddress common.Address

	// GatewayURL is the base URL of the decryption gateway.
	GatewayURL string

	// Committee is the KMS validator set whose aggregate signature
	// authenticates decryption results. Empty disables verification, which
	// is only acceptable against a trusted local devnet.
	Committee []*KMSValidator

	// QuorumNum/QuorumDen is the required signing stake fraction.
	QuorumNum uint64
	QuorumDen uint64

	// RequestTimeout bounds gateway round trips. Zero means
	// DefaultRequestTimeout.
	RequestTimeout time.Duration

	// DecryptionCacheSize is the capacity of the client's verified plaintext
	// cache. A plaintext for a handle never changes once the committee has
	// signed it, so repeat reencryptions of the same handle are served
	// locally. Zero means DefaultDecryptionCacheSize.
	DecryptionCacheSize int
}

// LocalConfig returns the preset for a single-node local devnet. The devnet
// KMS runs unverified, so the committee is empty.
func LocalConfig() Config {
	return Config{
		ChainID:            31337,
		ACLAddress:         common.HexToAddress("0x2Fb4341027eb1d2aD8B5D9708187df8633cAFA92"),
		KMSVerifierAddress: common.HexToAddress("0x12B064FB845C1cc05e9493856a1D637a73e944bE"),
		GatewayURL:         "http://127.0.0.1:7077",
		QuorumNum:          DefaultQuorumNum,
		QuorumDen:          DefaultQuorumDen,
	}
}

// TestnetConfig returns the preset for the public testnet deployment.
func TestnetConfig() Config {
	return Config{
		ChainID:            8009,
		ACLAddress:         common.HexToAddress("0xc9990FEfE0c27D31D0C2aa36196b085c0c4d456c"),
		KMSVerifierAddress: common.HexToAddress("0x208De73316E44722e16f6dDFF40881A3e4F86104"),
		GatewayURL:         "https://gateway.testnet.lux.network",
		QuorumNum:          DefaultQuorumNum,
		QuorumDen:          DefaultQuorumDen,
	}
}

// Validate checks the config for completeness. A zero quorum falls back to
// the default fraction.
func (c *Config) Validate() error {
	if c.ChainID == 0 {
		return ErrMissingChainID
	}
	if c.GatewayURL == "" {
		return ErrMissingGatewayURL
	}
	if c.ACLAddress == (common.Address{}) {
		return ErrMissingACLAddress
	}
	if c.QuorumNum == 0 || c.QuorumDen == 0 {
		c.QuorumNum = DefaultQuorumNum
		c.QuorumDen = DefaultQuorumDen
	}
	if c.QuorumNum > c.QuorumDen {
		return fmt.Errorf("invalid quorum fraction %d/%d", c.QuorumNum, c.QuorumDen)
	}
	if c.RequestTimeout == 0 {
		c.RequestTimeout = DefaultRequestTimeout
	}
	if c.DecryptionCacheSize < 0 {
		return fmt.Errorf("invalid decryption cache size %d", c.DecryptionCacheSize)
	}
	if c.DecryptionCacheSize == 0 {
		c.DecryptionCacheSize = DefaultDecryptionCacheSize
	}
	return nil
}

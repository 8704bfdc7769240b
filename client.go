// Copyright (C) 2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package fhevm

import (
	"context"
	"math/big"

	"github.com/luxfi/log"

	"github.com/luxfi/fhevm/cache"
)

// Encryptor is the external encryption capability. Implementations forward
// the plaintext and type to the FHE coprocessor (or a local key in devnet
// tooling) and return opaque ciphertext bytes.
type Encryptor interface {
	Encrypt(ctx context.Context, plaintext []byte, t EncryptedType) ([]byte, error)
}

// Gateway is the external decryption capability: it serves the network FHE
// public key and performs reencryption of ciphertexts toward an authorized
// requester.
type Gateway interface {
	FetchPublicKey(ctx context.Context) ([]byte, error)
	Reencrypt(ctx context.Context, req *ReencryptionRequest) (*DecryptionResult, error)
}

// Client validates plaintexts and drives the external encryption and
// reencryption capabilities. It holds no mutable state beyond its
// configuration and is safe for concurrent use.
type Client struct {
	log       log.Logger
	cfg       Config
	encryptor Encryptor
	gateway   Gateway

	// decryptCache holds committee-verified plaintexts, keyed by handle and
	// requester so one requester's cached result never answers another's
	// request without its own ACL check at the gateway.
	decryptCache *cache.LRUCache[decryptCacheKey, *big.Int]
}

// NewClient returns a client for the given configuration. Either capability
// may be nil, in which case the corresponding operations fail with
// ErrNoEncryptor or ErrNoGateway.
func NewClient(logger log.Logger, cfg Config, encryptor Encryptor, gateway Gateway) (*Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Client{
		log:          logger,
		cfg:          cfg,
		encryptor:    encryptor,
		gateway:      gateway,
		decryptCache: cache.NewLRUCache[decryptCacheKey, *big.Int](cfg.DecryptionCacheSize),
	}, nil
}

// Config returns the client's configuration record.
func (c *Client) Config() Config {
	return c.cfg
}

// PublicKey fetches the network FHE public key from the gateway.
func (c *Client) PublicKey(ctx context.Context) ([]byte, error) {
	if c.gateway == nil {
		return nil, ErrNoGateway
	}
	ctx, cancel := context.WithTimeout(ctx, c.cfg.RequestTimeout)
	defer cancel()
	return c.gateway.FetchPublicKey(ctx)
}

// Copyright (C) 2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package gateway implements the HTTP client for the decryption gateway. It
// satisfies the toolkit's Gateway capability: serving the network FHE public
// key and forwarding authorized reencryption requests to the KMS.
package gateway

import (
	"bytes"
	"context"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/luxfi/crypto/bls"
	"github.com/luxfi/log"

	"github.com/luxfi/fhevm"
	"github.com/luxfi/fhevm/cache"
)

const (
	publicKeyPath = "/keys/public"
	reencryptPath = "/reencrypt"

	// DefaultKeyTTL is how long a fetched public key is served from cache.
	// Network key rotation is rare; an hour keeps a stale key window far
	// below any rotation schedule.
	DefaultKeyTTL = time.Hour

	defaultRetryTimeout = 10 * time.Second
)

// ErrGatewayRejected is returned for a non-retriable gateway status code.
// The body's error message is included verbatim.
var ErrGatewayRejected = errors.New("gateway rejected request")

var _ fhevm.Gateway = (*Client)(nil)

// Client is an HTTP decryption-gateway client. Transient failures (network
// errors, 5xx responses) are retried with exponential backoff; rejections
// are not.
type Client struct {
	log        log.Logger
	baseURL    string
	httpClient *http.Client
	retryLimit time.Duration
	keyCache   *cache.TTLCache[string, []byte]
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient overrides the underlying HTTP client.
func WithHTTPClient(c *http.Client) Option {
	return func(g *Client) { g.httpClient = c }
}

// WithRetryTimeout bounds the total time spent retrying one request.
func WithRetryTimeout(d time.Duration) Option {
	return func(g *Client) { g.retryLimit = d }
}

// WithKeyTTL overrides the public key cache TTL.
func WithKeyTTL(ttl time.Duration) Option {
	return func(g *Client) { g.keyCache = cache.NewTTLCache[string, []byte](ttl) }
}

// NewClient returns a gateway client for the given base URL.
func NewClient(logger log.Logger, baseURL string, opts ...Option) *Client {
	c := &Client{
		log:        logger,
		baseURL:    baseURL,
		httpClient: http.DefaultClient,
		retryLimit: defaultRetryTimeout,
		keyCache:   cache.NewTTLCache[string, []byte](DefaultKeyTTL),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type publicKeyResponse struct {
	PublicKey string `json:"public-key"`
}

type reencryptRequest struct {
	Handle    string `json:"handle"`
	Contract  string `json:"contract-address"`
	PublicKey string `json:"public-key"`
	Signature string `json:"signature"`
	Requester string `json:"requester"`
}

type reencryptResponse struct {
	Plaintext string `json:"plaintext"`
	Signers   string `json:"signers"`
	Signature string `json:"signature"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// FetchPublicKey returns the network FHE public key, served from the TTL
// cache when fresh. Concurrent callers share a single fetch.
func (c *Client) FetchPublicKey(ctx context.Context) ([]byte, error) {
	return c.keyCache.Get(c.baseURL, func(string) ([]byte, error) {
		var resp publicKeyResponse
		if err := c.doJSON(ctx, http.MethodGet, publicKeyPath, nil, &resp); err != nil {
			return nil, err
		}
		key, err := hex.DecodeString(fhevm.SanitizeHexString(resp.PublicKey))
		if err != nil {
			return nil, fmt.Errorf("malformed public key from gateway: %w", err)
		}
		c.log.Debug("fetched network public key", log.Int("size", len(key)))
		return key, nil
	}, false)
}

// Reencrypt forwards an authorized reencryption request and decodes the
// signed decryption result. Verification of the result is the caller's
// responsibility.
func (c *Client) Reencrypt(ctx context.Context, req *fhevm.ReencryptionRequest) (*fhevm.DecryptionResult, error) {
	body := reencryptRequest{
		Handle:    "0x" + hex.EncodeToString(req.Handle[:]),
		Contract:  req.Contract.Hex(),
		PublicKey: "0x" + hex.EncodeToString(req.PublicKey),
		Signature: "0x" + hex.EncodeToString(req.Signature),
		Requester: req.Requester.Hex(),
	}

	var resp reencryptResponse
	if err := c.doJSON(ctx, http.MethodPost, reencryptPath, body, &resp); err != nil {
		return nil, err
	}

	plaintext, err := hex.DecodeString(fhevm.SanitizeHexString(resp.Plaintext))
	if err != nil {
		return nil, fmt.Errorf("malformed plaintext from gateway: %w", err)
	}
	signers, err := hex.DecodeString(fhevm.SanitizeHexString(resp.Signers))
	if err != nil {
		return nil, fmt.Errorf("malformed signer bitset from gateway: %w", err)
	}
	signature, err := hex.DecodeString(fhevm.SanitizeHexString(resp.Signature))
	if err != nil {
		return nil, fmt.Errorf("malformed signature from gateway: %w", err)
	}
	if len(signature) != bls.SignatureLen {
		return nil, fmt.Errorf("gateway signature length %d, expected %d", len(signature), bls.SignatureLen)
	}

	result := &fhevm.DecryptionResult{
		Plaintext: plaintext,
		Signers:   signers,
	}
	copy(result.Signature[:], signature)
	return result, nil
}

// doJSON issues one JSON request with retry. A 4xx response is terminal;
// network errors and 5xx responses are retried until the retry limit.
func (c *Client) doJSON(ctx context.Context, method, path string, reqBody, respBody any) error {
	var encoded []byte
	if reqBody != nil {
		var err error
		encoded, err = json.Marshal(reqBody)
		if err != nil {
			return err
		}
	}

	operation := func() error {
		var reader io.Reader
		if encoded != nil {
			reader = bytes.NewReader(encoded)
		}
		req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
		if err != nil {
			return backoff.Permanent(err)
		}
		if encoded != nil {
			req.Header.Set("Content-Type", "application/json")
		}

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return err
		}
		defer resp.Body.Close()

		switch {
		case resp.StatusCode >= http.StatusInternalServerError:
			return fmt.Errorf("gateway returned status %d", resp.StatusCode)
		case resp.StatusCode >= http.StatusBadRequest:
			var errResp errorResponse
			if err := json.NewDecoder(resp.Body).Decode(&errResp); err != nil || errResp.Error == "" {
				return backoff.Permanent(fmt.Errorf("%w: status %d", ErrGatewayRejected, resp.StatusCode))
			}
			return backoff.Permanent(fmt.Errorf("%w: %s", ErrGatewayRejected, errResp.Error))
		}

		return json.NewDecoder(resp.Body).Decode(respBody)
	}

	expBackOff := backoff.NewExponentialBackOff(
		backoff.WithMaxElapsedTime(c.retryLimit),
	)
	notify := func(err error, _ time.Duration) {
		c.log.Warn("gateway request failed, retrying",
			log.String("path", path),
			log.Err(err),
		)
	}
	return backoff.RetryNotify(operation, backoff.WithContext(expBackOff, ctx), notify)
}

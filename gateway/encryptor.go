// Copyright (C) 2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package gateway

import (
	"context"
	"encoding/hex"
	"fmt"
	"net/http"

	"github.com/luxfi/log"

	"github.com/luxfi/fhevm"
)

const encryptPath = "/encrypt"

var _ fhevm.Encryptor = (*Encryptor)(nil)

// Encryptor forwards plaintexts to the coprocessor's encryption endpoint.
// Deployments that embed the TFHE library encrypt locally instead; this
// implementation covers tooling that only has gateway access.
type Encryptor struct {
	client *Client
}

// NewEncryptor returns an Encryptor backed by an existing gateway client.
func NewEncryptor(logger log.Logger, baseURL string, opts ...Option) *Encryptor {
	return &Encryptor{client: NewClient(logger, baseURL, opts...)}
}

type encryptRequest struct {
	Plaintext string `json:"plaintext"`
	Type      string `json:"type"`
}

type encryptResponse struct {
	Ciphertext string `json:"ciphertext"`
}

// Encrypt implements the encryption capability over HTTP.
func (e *Encryptor) Encrypt(ctx context.Context, plaintext []byte, t fhevm.EncryptedType) ([]byte, error) {
	req := encryptRequest{
		Plaintext: "0x" + hex.EncodeToString(plaintext),
		Type:      t.String(),
	}
	var resp encryptResponse
	if err := e.client.doJSON(ctx, http.MethodPost, encryptPath, req, &resp); err != nil {
		return nil, err
	}
	data, err := hex.DecodeString(fhevm.SanitizeHexString(resp.Ciphertext))
	if err != nil {
		return nil, fmt.Errorf("malformed ciphertext from coprocessor: %w", err)
	}
	return data, nil
}

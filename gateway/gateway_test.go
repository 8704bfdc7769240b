// Copyright (C) 2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package gateway

import (
	"context"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/luxfi/crypto/bls"
	"github.com/luxfi/geth/common"
	"github.com/luxfi/ids"
	"github.com/luxfi/log"
	"github.com/stretchr/testify/require"

	"github.com/luxfi/fhevm"
)

func TestFetchPublicKey(t *testing.T) {
	require := require.New(t)

	key := []byte("network fhe public key")
	var hits atomic.Int64
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(publicKeyPath, r.URL.Path)
		hits.Add(1)
		json.NewEncoder(w).Encode(publicKeyResponse{
			PublicKey: "0x" + hex.EncodeToString(key),
		})
	}))
	defer server.Close()

	client := NewClient(log.NewNoOpLogger(), server.URL)

	got, err := client.FetchPublicKey(context.Background())
	require.NoError(err)
	require.Equal(key, got)

	// Served from the TTL cache: no second round trip.
	got, err = client.FetchPublicKey(context.Background())
	require.NoError(err)
	require.Equal(key, got)
	require.Equal(int64(1), hits.Load())
}

func TestFetchPublicKeyTTLExpiry(t *testing.T) {
	require := require.New(t)

	var hits atomic.Int64
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		hits.Add(1)
		json.NewEncoder(w).Encode(publicKeyResponse{PublicKey: "0x01"})
	}))
	defer server.Close()

	client := NewClient(log.NewNoOpLogger(), server.URL, WithKeyTTL(10*time.Millisecond))

	_, err := client.FetchPublicKey(context.Background())
	require.NoError(err)

	time.Sleep(20 * time.Millisecond)

	_, err = client.FetchPublicKey(context.Background())
	require.NoError(err)
	require.Equal(int64(2), hits.Load())
}

func TestReencrypt(t *testing.T) {
	require := require.New(t)

	handle := ids.GenerateTestID()
	contract := common.HexToAddress("0x2222222222222222222222222222222222222222")
	requester := common.HexToAddress("0x3333333333333333333333333333333333333333")
	plaintext := []byte{0x01, 0x02}
	signature := make([]byte, bls.SignatureLen)
	signature[0] = 0xab

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(reencryptPath, r.URL.Path)
		require.Equal(http.MethodPost, r.Method)

		var req reencryptRequest
		require.NoError(json.NewDecoder(r.Body).Decode(&req))
		require.Equal("0x"+hex.EncodeToString(handle[:]), req.Handle)
		require.Equal(contract.Hex(), req.Contract)
		require.Equal(requester.Hex(), req.Requester)

		json.NewEncoder(w).Encode(reencryptResponse{
			Plaintext: "0x" + hex.EncodeToString(plaintext),
			Signers:   "0x03",
			Signature: "0x" + hex.EncodeToString(signature),
		})
	}))
	defer server.Close()

	client := NewClient(log.NewNoOpLogger(), server.URL)
	result, err := client.Reencrypt(context.Background(), &fhevm.ReencryptionRequest{
		Handle:    handle,
		Contract:  contract,
		PublicKey: []byte("ephemeral"),
		Signature: []byte("authorization"),
		Requester: requester,
	})
	require.NoError(err)
	require.Equal(plaintext, result.Plaintext)
	require.Equal([]byte{0x03}, result.Signers)
	require.Equal(signature, result.Signature[:])
}

func TestReencryptBadSignatureLength(t *testing.T) {
	require := require.New(t)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		json.NewEncoder(w).Encode(reencryptResponse{
			Plaintext: "0x01",
			Signers:   "0x01",
			Signature: "0xabcd",
		})
	}))
	defer server.Close()

	client := NewClient(log.NewNoOpLogger(), server.URL)
	_, err := client.Reencrypt(context.Background(), &fhevm.ReencryptionRequest{})
	require.ErrorContains(err, "signature length")
}

func TestRejectionNotRetried(t *testing.T) {
	require := require.New(t)

	var hits atomic.Int64
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		hits.Add(1)
		w.WriteHeader(http.StatusForbidden)
		json.NewEncoder(w).Encode(errorResponse{Error: "requester not authorized by ACL"})
	}))
	defer server.Close()

	client := NewClient(log.NewNoOpLogger(), server.URL, WithRetryTimeout(time.Second))
	_, err := client.Reencrypt(context.Background(), &fhevm.ReencryptionRequest{})
	require.ErrorIs(err, ErrGatewayRejected)
	require.ErrorContains(err, "requester not authorized by ACL")
	require.Equal(int64(1), hits.Load())
}

func TestServerErrorRetried(t *testing.T) {
	require := require.New(t)

	var hits atomic.Int64
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		if hits.Add(1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		json.NewEncoder(w).Encode(publicKeyResponse{PublicKey: "0x01"})
	}))
	defer server.Close()

	client := NewClient(log.NewNoOpLogger(), server.URL, WithRetryTimeout(5*time.Second))
	key, err := client.FetchPublicKey(context.Background())
	require.NoError(err)
	require.Equal([]byte{0x01}, key)
	require.GreaterOrEqual(hits.Load(), int64(3))
}

func TestRetryGivesUp(t *testing.T) {
	require := require.New(t)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	client := NewClient(log.NewNoOpLogger(), server.URL, WithRetryTimeout(50*time.Millisecond))
	_, err := client.FetchPublicKey(context.Background())
	require.ErrorContains(err, "status 500")
}

func TestEncryptorRoundTrip(t *testing.T) {
	require := require.New(t)

	ciphertext := []byte("opaque fhe ciphertext")
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(encryptPath, r.URL.Path)

		var req encryptRequest
		require.NoError(json.NewDecoder(r.Body).Decode(&req))
		require.Equal("0x012c", req.Plaintext)
		require.Equal(fhevm.TypeUint16.String(), req.Type)

		json.NewEncoder(w).Encode(encryptResponse{
			Ciphertext: "0x" + hex.EncodeToString(ciphertext),
		})
	}))
	defer server.Close()

	enc := NewEncryptor(log.NewNoOpLogger(), server.URL)
	got, err := enc.Encrypt(context.Background(), []byte{0x01, 0x2c}, fhevm.TypeUint16)
	require.NoError(err)
	require.Equal(ciphertext, got)
}

func TestEncryptorRejection(t *testing.T) {
	require := require.New(t)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		fmt.Fprint(w, `{"error":"unsupported type"}`)
	}))
	defer server.Close()

	enc := NewEncryptor(log.NewNoOpLogger(), server.URL)
	_, err := enc.Encrypt(context.Background(), []byte{0x01}, fhevm.TypeUint8)
	require.ErrorIs(err, ErrGatewayRejected)
}

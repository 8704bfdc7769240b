// Copyright (C) 2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package fhevm

import (
	"errors"
	"fmt"

	"github.com/luxfi/crypto/bls"
	"github.com/luxfi/math/set"
)

// KMSValidator is one member of the threshold-KMS committee that signs
// decryption results.
type KMSValidator struct {
	PublicKey *bls.PublicKey
	Weight    uint64
}

// DecryptionResult is a gateway decryption response: the decrypted plaintext
// together with the aggregate BLS signature of the committee members that
// produced it. Signers is a bitset over the configured committee.
type DecryptionResult struct {
	Plaintext []byte
	Signers   []byte
	Signature [bls.SignatureLen]byte
}

// Verify checks the aggregate signature over msg against the committee and
// the quorum fraction. An empty committee skips verification; that mode is
// for local devnets only.
func (r *DecryptionResult) Verify(
	msg []byte,
	committee []*KMSValidator,
	quorumNum uint64,
	quorumDen uint64,
) error {
	if len(committee) == 0 {
		return nil
	}

	signers := set.BitsFromBytes(r.Signers)

	var (
		pks          = make([]*bls.PublicKey, 0, len(committee))
		signedWeight uint64
		totalWeight  uint64
		err          error
	)
	for i, member := range committee {
		totalWeight, err = AddUint64(totalWeight, member.Weight)
		if err != nil {
			return fmt.Errorf("committee weight overflow: %w", err)
		}
		if !signers.Contains(i) {
			continue
		}
		if member.PublicKey == nil {
			return fmt.Errorf("%w: committee member %d has nil public key", ErrInvalidKMSResponse, i)
		}
		pks = append(pks, member.PublicKey)
		signedWeight, err = AddUint64(signedWeight, member.Weight)
		if err != nil {
			return fmt.Errorf("signed weight overflow: %w", err)
		}
	}
	if len(pks) == 0 {
		return fmt.Errorf("%w: no signers", ErrInvalidKMSResponse)
	}

	// signedWeight/totalWeight >= quorumNum/quorumDen, without division
	if err := CheckMulDoesNotOverflow(signedWeight, quorumDen); err != nil {
		return fmt.Errorf("%w: signedWeight * quorumDen overflows", err)
	}
	if err := CheckMulDoesNotOverflow(totalWeight, quorumNum); err != nil {
		return fmt.Errorf("%w: totalWeight * quorumNum overflows", err)
	}
	if signedWeight*quorumDen < totalWeight*quorumNum {
		return fmt.Errorf("%w: signed weight %d of %d below %d/%d",
			ErrInsufficientQuorum, signedWeight, totalWeight, quorumNum, quorumDen)
	}

	aggPK, err := bls.AggregatePublicKeys(pks)
	if err != nil {
		return fmt.Errorf("failed to aggregate committee public keys: %w", err)
	}
	sig, err := bls.SignatureFromBytes(r.Signature[:])
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidKMSResponse, err)
	}
	if !bls.Verify(aggPK, sig, msg) {
		return fmt.Errorf("%w: aggregate signature verification failed", ErrInvalidKMSResponse)
	}
	return nil
}

// SignDecryption produces a DecryptionResult signed by the given committee
// members. Used by devnet tooling and tests; production results come from
// the external KMS.
func SignDecryption(
	msg []byte,
	plaintext []byte,
	committee []*KMSValidator,
	signers map[int]*bls.SecretKey,
) (*DecryptionResult, error) {
	if len(signers) == 0 {
		return nil, errors.New("no signers provided")
	}

	signerBits := set.NewBits()
	sigs := make([]*bls.Signature, 0, len(signers))
	for i, sk := range signers {
		if i < 0 || i >= len(committee) {
			return nil, fmt.Errorf("signer index %d outside committee of %d", i, len(committee))
		}
		sig, err := sk.Sign(msg)
		if err != nil {
			return nil, fmt.Errorf("failed to sign: %w", err)
		}
		signerBits.Add(i)
		sigs = append(sigs, sig)
	}

	aggSig, err := bls.AggregateSignatures(sigs)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate signatures: %w", err)
	}

	result := &DecryptionResult{
		Plaintext: plaintext,
		Signers:   signerBits.Bytes(),
	}
	copy(result.Signature[:], bls.SignatureToBytes(aggSig))
	return result, nil
}

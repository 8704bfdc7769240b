// Copyright (C) 2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package fhevm

import "errors"

// Validation failures are deterministic and caller-recoverable. They are
// raised before any capability call is issued, so a failed validation never
// leaves partial work behind and must not be retried.
//
// Every value-domain failure wraps ErrInvalidValue in addition to its
// specific sentinel, so callers can match either the class or the exact rule
// with errors.Is.
var (
	// ErrCannotInferType is returned when an untagged value matches none of
	// the inference rules.
	ErrCannotInferType = errors.New("cannot infer encrypted type")

	// ErrUnknownType is returned when a type name cannot be parsed.
	ErrUnknownType = errors.New("unknown encrypted type")

	// ErrInvalidValue is the class error for all value-domain violations.
	ErrInvalidValue = errors.New("invalid value")

	ErrNegativeValue   = errors.New("negative value")
	ErrValueOutOfRange = errors.New("value exceeds maximum")
	ErrNotAnInteger    = errors.New("not an integer")
	ErrNotBoolean      = errors.New("must be boolean")
	ErrInvalidAddress  = errors.New("invalid address format")
)

// ValueError is a value-domain validation failure. It reports the resolved
// type and the specific rule violated, and matches both ErrInvalidValue and
// the rule sentinel under errors.Is.
type ValueError struct {
	Type EncryptedType
	Rule error
	msg  string
}

func newValueError(t EncryptedType, rule error, msg string) *ValueError {
	return &ValueError{Type: t, Rule: rule, msg: msg}
}

// Error implements the error interface. The message names the type and the
// rule violated so a UI or CLI can render it directly.
func (e *ValueError) Error() string {
	return e.msg
}

func (e *ValueError) Unwrap() error {
	return e.Rule
}

func (e *ValueError) Is(target error) bool {
	return target == ErrInvalidValue || target == e.Rule
}

// Errors in the encryption and reencryption pipelines. Failures from the
// capability providers themselves pass through unchanged.
var (
	ErrInvalidCiphertext  = errors.New("invalid ciphertext")
	ErrNoEncryptor        = errors.New("no encryptor configured")
	ErrNoGateway          = errors.New("no gateway configured")
	ErrInsufficientQuorum = errors.New("insufficient KMS quorum")
	ErrInvalidKMSResponse = errors.New("invalid KMS response")
)

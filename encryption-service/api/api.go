// Copyright (C) 2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package api

import (
	"encoding/hex"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/luxfi/log"

	"github.com/luxfi/fhevm"
	"github.com/luxfi/fhevm/encryption-service/metrics"
)

const (
	EncryptAPIPath = "/encrypt"
	ResolveAPIPath = "/resolve"
)

// EncryptRequest carries the plaintext value and an optional type name. The
// value may be a JSON boolean, number, or string; large integers should be
// sent as decimal strings to avoid JSON number precision loss.
type EncryptRequest struct {
	Value any    `json:"value"`
	Type  string `json:"type"`
}

type EncryptResponse struct {
	Ciphertext string `json:"ciphertext"`
	Handle     string `json:"handle"`
	Type       string `json:"type"`
}

type ResolveResponse struct {
	Type string `json:"type"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}

func HandleEncryptRequest(
	logger log.Logger,
	m *metrics.EncryptionServiceMetrics,
	client *fhevm.Client,
) {
	http.Handle(EncryptAPIPath, encryptAPIHandler(logger, m, client))
}

func HandleResolveRequest(
	logger log.Logger,
	m *metrics.EncryptionServiceMetrics,
) {
	http.Handle(ResolveAPIPath, resolveAPIHandler(logger, m))
}

func writeJSONError(
	logger log.Logger,
	w http.ResponseWriter,
	httpStatusCode int,
	errorMsg string,
) {
	resp, err := json.Marshal(ErrorResponse{Error: errorMsg})
	if err != nil {
		msg := "Error marshalling JSON error response"
		logger.Error(msg, log.Err(err))
		resp = []byte(msg)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(httpStatusCode)

	if _, err = w.Write(resp); err != nil {
		logger.Error("Error writing error response", log.Err(err))
	}
}

func writeJSON(logger log.Logger, w http.ResponseWriter, body any) {
	resp, err := json.Marshal(body)
	if err != nil {
		logger.Error("Error marshalling JSON response", log.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	if _, err = w.Write(resp); err != nil {
		logger.Error("Error writing response", log.Err(err))
	}
}

// decodeRequest parses the body, preserving integer precision by reading
// JSON numbers as strings for the validator.
func decodeRequest(r *http.Request) (EncryptRequest, fhevm.EncryptedType, error) {
	var req EncryptRequest
	dec := json.NewDecoder(r.Body)
	dec.UseNumber()
	if err := dec.Decode(&req); err != nil {
		return req, fhevm.TypeAuto, err
	}
	if n, ok := req.Value.(json.Number); ok {
		req.Value = n.String()
	}
	declared, err := fhevm.ParseEncryptedType(req.Type)
	if err != nil {
		return req, fhevm.TypeAuto, err
	}
	return req, declared, nil
}

// validationRule maps a validation failure to its metrics label.
func validationRule(err error) string {
	switch {
	case errors.Is(err, fhevm.ErrCannotInferType):
		return "inference"
	case errors.Is(err, fhevm.ErrNegativeValue):
		return "negative"
	case errors.Is(err, fhevm.ErrValueOutOfRange):
		return "overflow"
	case errors.Is(err, fhevm.ErrNotAnInteger):
		return "not-integer"
	case errors.Is(err, fhevm.ErrNotBoolean):
		return "boolean"
	case errors.Is(err, fhevm.ErrInvalidAddress):
		return "address"
	default:
		return "other"
	}
}

func isValidationError(err error) bool {
	return errors.Is(err, fhevm.ErrInvalidValue) ||
		errors.Is(err, fhevm.ErrCannotInferType) ||
		errors.Is(err, fhevm.ErrUnknownType)
}

func encryptAPIHandler(
	logger log.Logger,
	m *metrics.EncryptionServiceMetrics,
	client *fhevm.Client,
) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		m.EncryptRequestCount.Inc()
		startTime := time.Now()

		req, declared, err := decodeRequest(r)
		if err != nil {
			logger.Warn("Could not decode encrypt request", log.Err(err))
			writeJSONError(logger, w, http.StatusBadRequest, err.Error())
			return
		}

		ct, err := client.EncryptAs(r.Context(), req.Value, declared)
		if err != nil {
			if isValidationError(err) {
				m.ValidationFailures.WithLabelValues(validationRule(err)).Inc()
				// The validator's message names the type and rule; render
				// it verbatim.
				writeJSONError(logger, w, http.StatusBadRequest, err.Error())
				return
			}
			m.EncryptionFailureCount.Inc()
			logger.Error("Encryption capability call failed", log.Err(err))
			writeJSONError(logger, w, http.StatusInternalServerError, err.Error())
			return
		}

		handle := ct.Handle()
		writeJSON(logger, w, EncryptResponse{
			Ciphertext: "0x" + hex.EncodeToString(ct.Bytes()),
			Handle:     "0x" + hex.EncodeToString(handle[:]),
			Type:       ct.Type.String(),
		})
		m.EncryptRequestLatencyMS.Observe(float64(time.Since(startTime).Milliseconds()))
	})
}

func resolveAPIHandler(
	logger log.Logger,
	m *metrics.EncryptionServiceMetrics,
) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		m.ResolveRequestCount.Inc()

		req, declared, err := decodeRequest(r)
		if err != nil {
			logger.Warn("Could not decode resolve request", log.Err(err))
			writeJSONError(logger, w, http.StatusBadRequest, err.Error())
			return
		}

		resolved, err := fhevm.ResolveAndValidate(req.Value, declared)
		if err != nil {
			m.ValidationFailures.WithLabelValues(validationRule(err)).Inc()
			writeJSONError(logger, w, http.StatusBadRequest, err.Error())
			return
		}

		writeJSON(logger, w, ResolveResponse{Type: resolved.String()})
	})
}

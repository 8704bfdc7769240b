// Copyright (C) 2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package config builds the encryption service configuration from a JSON
// config file, environment variables, and command line flags.
package config

import (
	"fmt"

	"github.com/luxfi/geth/common"

	"github.com/luxfi/fhevm"
)

// Config is the top-level encryption service configuration.
type Config struct {
	LogLevel            string `mapstructure:"log-level" json:"log-level"`
	APIPort             uint16 `mapstructure:"api-port" json:"api-port"`
	MetricsPort         uint16 `mapstructure:"metrics-port" json:"metrics-port"`
	Network             string `mapstructure:"network" json:"network"`
	ChainID             uint64 `mapstructure:"chain-id" json:"chain-id"`
	GatewayURL          string `mapstructure:"gateway-url" json:"gateway-url"`
	ACLAddress          string `mapstructure:"acl-address" json:"acl-address"`
	KMSVerifierAddress  string `mapstructure:"kms-verifier-address" json:"kms-verifier-address"`
	DecryptionCacheSize int    `mapstructure:"decryption-cache-size" json:"decryption-cache-size"`

	clientConfig fhevm.Config
}

// Validate resolves the network preset, applies explicit overrides, and
// checks the result.
func (c *Config) Validate() error {
	var preset fhevm.Config
	switch c.Network {
	case "local":
		preset = fhevm.LocalConfig()
	case "testnet":
		preset = fhevm.TestnetConfig()
	default:
		return fmt.Errorf("unknown network preset %q", c.Network)
	}

	if c.ChainID != 0 {
		preset.ChainID = c.ChainID
	}
	if c.GatewayURL != "" {
		preset.GatewayURL = c.GatewayURL
	}
	if c.ACLAddress != "" {
		if !common.IsHexAddress(c.ACLAddress) {
			return fmt.Errorf("invalid ACL address %q", c.ACLAddress)
		}
		preset.ACLAddress = common.HexToAddress(c.ACLAddress)
	}
	if c.KMSVerifierAddress != "" {
		if !common.IsHexAddress(c.KMSVerifierAddress) {
			return fmt.Errorf("invalid KMS verifier address %q", c.KMSVerifierAddress)
		}
		preset.KMSVerifierAddress = common.HexToAddress(c.KMSVerifierAddress)
	}
	preset.DecryptionCacheSize = c.DecryptionCacheSize
	if err := preset.Validate(); err != nil {
		return err
	}

	c.clientConfig = preset
	return nil
}

// ClientConfig returns the resolved toolkit configuration. Validate must
// have succeeded first.
func (c *Config) ClientConfig() fhevm.Config {
	return c.clientConfig
}

// Copyright (C) 2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package fhevm

import (
	"testing"

	"github.com/luxfi/geth/common"
	"github.com/stretchr/testify/require"
)

func TestConfigPresets(t *testing.T) {
	require := require.New(t)

	local := LocalConfig()
	require.NoError(local.Validate())
	require.EqualValues(31337, local.ChainID)
	require.Empty(local.Committee)

	testnet := TestnetConfig()
	require.NoError(testnet.Validate())
	require.EqualValues(8009, testnet.ChainID)
	require.NotEqual(local.ACLAddress, testnet.ACLAddress)
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name        string
		mutate      func(*Config)
		expectedErr error
	}{
		{
			name:   "valid preset",
			mutate: func(*Config) {},
		},
		{
			name:        "missing chain ID",
			mutate:      func(c *Config) { c.ChainID = 0 },
			expectedErr: ErrMissingChainID,
		},
		{
			name:        "missing gateway URL",
			mutate:      func(c *Config) { c.GatewayURL = "" },
			expectedErr: ErrMissingGatewayURL,
		},
		{
			name:        "missing ACL address",
			mutate:      func(c *Config) { c.ACLAddress = common.Address{} },
			expectedErr: ErrMissingACLAddress,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := LocalConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.expectedErr != nil {
				require.ErrorIs(t, err, tt.expectedErr)
			} else {
				require.NoError(t, err)
			}
		})
	}
}

func TestConfigValidateDefaults(t *testing.T) {
	require := require.New(t)

	cfg := LocalConfig()
	cfg.QuorumNum = 0
	cfg.QuorumDen = 0
	cfg.RequestTimeout = 0
	require.NoError(cfg.Validate())
	require.EqualValues(DefaultQuorumNum, cfg.QuorumNum)
	require.EqualValues(DefaultQuorumDen, cfg.QuorumDen)
	require.Equal(DefaultRequestTimeout, cfg.RequestTimeout)
}

func TestConfigValidateRejectsQuorumAboveOne(t *testing.T) {
	cfg := LocalConfig()
	cfg.QuorumNum = 4
	cfg.QuorumDen = 3
	require.Error(t, cfg.Validate())
}

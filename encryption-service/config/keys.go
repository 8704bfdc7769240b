// Copyright (C) 2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package config

const (
	// Command line option keys
	ConfigFileKey = "config-file"
	VersionKey    = "version"
	HelpKey       = "help"

	// Environment variable keys
	ConfigFileEnvKey = "CONFIG_FILE"

	// Top-level configuration keys
	LogLevelKey            = "log-level"
	APIPortKey             = "api-port"
	MetricsPortKey         = "metrics-port"
	NetworkKey             = "network"
	ChainIDKey             = "chain-id"
	GatewayURLKey          = "gateway-url"
	ACLAddressKey          = "acl-address"
	KMSVerifierAddressKey  = "kms-verifier-address"
	DecryptionCacheSizeKey = "decryption-cache-size"
)

const (
	defaultLogLevel            = "info"
	defaultAPIPort             = uint16(8080)
	defaultMetricsPort         = uint16(8081)
	defaultNetwork             = "local"
	DefaultDecryptionCacheSize = 1024
)

// Copyright (C) 2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package config

import (
	"fmt"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

func NewConfig(v *viper.Viper) (Config, error) {
	cfg, err := BuildConfig(v)
	if err != nil {
		return cfg, err
	}
	if err = cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("failed to validate configuration: %w", err)
	}
	return cfg, nil
}

// BuildFlagSet returns the command line flags understood by the service.
func BuildFlagSet() *pflag.FlagSet {
	fs := pflag.NewFlagSet("encryption-service", pflag.ContinueOnError)
	fs.String(ConfigFileKey, "", "Path to the JSON config file")
	fs.Bool(VersionKey, false, "Print the version and exit")
	fs.Bool(HelpKey, false, "Print usage and exit")
	fs.String(LogLevelKey, "", "Log level")
	fs.Uint16(APIPortKey, 0, "API port")
	fs.Uint16(MetricsPortKey, 0, "Metrics port")
	fs.String(NetworkKey, "", "Network preset (local, testnet)")
	fs.Uint64(ChainIDKey, 0, "Chain ID override")
	fs.String(GatewayURLKey, "", "Gateway base URL override")
	fs.String(ACLAddressKey, "", "ACL contract address override")
	fs.String(KMSVerifierAddressKey, "", "KMS verifier contract address override")
	fs.Int(DecryptionCacheSizeKey, 0, "Verified decryption cache size")
	return fs
}

func DisplayUsageText() {
	fmt.Printf("Usage: encryption-service --%s=path [flags]\n\n", ConfigFileKey)
	BuildFlagSet().PrintDefaults()
}

// BuildViper builds the viper instance. The config file may be provided via
// the command line flag or environment variable; all other keys may come
// from the config file, flags, or environment variables.
func BuildViper(fs *pflag.FlagSet) (*viper.Viper, error) {
	v := viper.New()
	v.AutomaticEnv()
	// Map flag names to env var names. Flags are capitalized, and hyphens are replaced with underscores.
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	if err := v.BindPFlags(fs); err != nil {
		return nil, err
	}

	if v.IsSet(ConfigFileKey) {
		filename := v.GetString(ConfigFileKey)
		v.SetConfigFile(filename)
		v.SetConfigType("json")
		if err := v.ReadInConfig(); err != nil {
			return nil, err
		}
	}

	return v, nil
}

func SetDefaultConfigValues(v *viper.Viper) {
	v.SetDefault(LogLevelKey, defaultLogLevel)
	v.SetDefault(APIPortKey, defaultAPIPort)
	v.SetDefault(MetricsPortKey, defaultMetricsPort)
	v.SetDefault(NetworkKey, defaultNetwork)
	v.SetDefault(DecryptionCacheSizeKey, DefaultDecryptionCacheSize)
}

// BuildConfig constructs the encryption service config using Viper.
// The following precedence order is used. Each item takes precedence over
// the item below it:
//  1. Flags
//  2. Config file
//  3. Defaults
//
// Returns the Config
func BuildConfig(v *viper.Viper) (Config, error) {
	SetDefaultConfigValues(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return cfg, fmt.Errorf("failed to unmarshal viper config: %w", err)
	}
	return cfg, nil
}

// Copyright (C) 2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package main

import (
	"encoding/hex"
	"fmt"
	"os"

	"github.com/luxfi/geth/common"
	"github.com/luxfi/ids"
	"github.com/luxfi/log"
	"github.com/spf13/cobra"

	"github.com/luxfi/fhevm"
	"github.com/luxfi/fhevm/gateway"
)

var (
	version   = "dev"
	buildDate = "unknown"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "fhevmcli",
	Short: "FHE client toolkit CLI",
	Long: `fhevmcli validates plaintext values against their encrypted type
domains and drives the external encryption and reencryption capabilities
of an FHE-enabled chain.`,
	Version: fmt.Sprintf("%s (built %s)", version, buildDate),
}

func init() {
	rootCmd.PersistentFlags().String("network", "local", "Network preset (local, testnet)")
	rootCmd.PersistentFlags().String("gateway", "", "Gateway base URL override")

	resolveCmd.Flags().String("type", "", "Declared encrypted type (inferred if omitted)")
	encryptCmd.Flags().String("type", "", "Declared encrypted type (inferred if omitted)")
	reencryptCmd.Flags().String("contract", "", "Contract address holding the ACL permit")
	reencryptCmd.Flags().String("key", "", "Hex-encoded requester private key")
	reencryptCmd.Flags().String("public-key", "", "Hex-encoded ephemeral reencryption public key")

	rootCmd.AddCommand(resolveCmd)
	rootCmd.AddCommand(encryptCmd)
	rootCmd.AddCommand(reencryptCmd)
	rootCmd.AddCommand(pubkeyCmd)
}

// clientConfig resolves the network preset and overrides from flags.
func clientConfig(cmd *cobra.Command) (fhevm.Config, error) {
	network, _ := cmd.Flags().GetString("network")
	var cfg fhevm.Config
	switch network {
	case "local":
		cfg = fhevm.LocalConfig()
	case "testnet":
		cfg = fhevm.TestnetConfig()
	default:
		return fhevm.Config{}, fmt.Errorf("unknown network preset %q", network)
	}
	if gatewayURL, _ := cmd.Flags().GetString("gateway"); gatewayURL != "" {
		cfg.GatewayURL = gatewayURL
	}
	return cfg, nil
}

func buildClient(cmd *cobra.Command) (*fhevm.Client, error) {
	cfg, err := clientConfig(cmd)
	if err != nil {
		return nil, err
	}
	logger := log.NewNoOpLogger()
	return fhevm.NewClient(
		logger,
		cfg,
		gateway.NewEncryptor(logger, cfg.GatewayURL),
		gateway.NewClient(logger, cfg.GatewayURL),
	)
}

// declaredType parses the --type flag.
func declaredType(cmd *cobra.Command) (fhevm.EncryptedType, error) {
	name, _ := cmd.Flags().GetString("type")
	return fhevm.ParseEncryptedType(name)
}

var resolveCmd = &cobra.Command{
	Use:   "resolve <value>",
	Short: "Resolve and validate a plaintext value",
	Long: `Resolve the encrypted type of a value and validate it against that
type's domain, without encrypting.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		declared, err := declaredType(cmd)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Invalid type: %v\n", err)
			os.Exit(1)
		}

		resolved, err := fhevm.ResolveAndValidate(args[0], declared)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Validation failed: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("%s\n", resolved)
	},
}

var encryptCmd = &cobra.Command{
	Use:   "encrypt <value>",
	Short: "Validate and encrypt a plaintext value",
	Long: `Validate a value against its encrypted type domain and, on success,
encrypt it through the configured capability. Prints the serialized
ciphertext envelope and its handle.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		declared, err := declaredType(cmd)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Invalid type: %v\n", err)
			os.Exit(1)
		}

		client, err := buildClient(cmd)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}

		ct, err := client.EncryptAs(cmd.Context(), args[0], declared)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Encryption failed: %v\n", err)
			os.Exit(1)
		}

		handle := ct.Handle()
		fmt.Printf("Type: %s\n", ct.Type)
		fmt.Printf("Handle: 0x%x\n", handle[:])
		fmt.Printf("Ciphertext: 0x%x\n", ct.Bytes())
	},
}

var reencryptCmd = &cobra.Command{
	Use:   "reencrypt <handle>",
	Short: "Reencrypt a ciphertext toward the requester",
	Long: `Sign a reencryption authorization token for a ciphertext handle and
request the decrypted value from the gateway.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		handleBytes, err := hex.DecodeString(fhevm.SanitizeHexString(args[0]))
		if err != nil || len(handleBytes) != ids.IDLen {
			fmt.Fprintf(os.Stderr, "Invalid handle: must be %d hex bytes\n", ids.IDLen)
			os.Exit(1)
		}
		var handle ids.ID
		copy(handle[:], handleBytes)

		contractStr, _ := cmd.Flags().GetString("contract")
		if !common.IsHexAddress(contractStr) {
			fmt.Fprintf(os.Stderr, "Invalid contract address: %q\n", contractStr)
			os.Exit(1)
		}

		keyHex, _ := cmd.Flags().GetString("key")
		signer, err := fhevm.NewSignerFromHex(keyHex)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Invalid key: %v\n", err)
			os.Exit(1)
		}

		publicKeyHex, _ := cmd.Flags().GetString("public-key")
		publicKey, err := hex.DecodeString(fhevm.SanitizeHexString(publicKeyHex))
		if err != nil {
			fmt.Fprintf(os.Stderr, "Invalid public key hex: %v\n", err)
			os.Exit(1)
		}

		client, err := buildClient(cmd)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}

		value, err := client.Reencrypt(cmd.Context(), handle, common.HexToAddress(contractStr), signer, publicKey)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Reencryption failed: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("%s\n", value)
	},
}

var pubkeyCmd = &cobra.Command{
	Use:   "pubkey",
	Short: "Fetch the network FHE public key",
	Run: func(cmd *cobra.Command, args []string) {
		client, err := buildClient(cmd)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}

		key, err := client.PublicKey(cmd.Context())
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to fetch public key: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("0x%x\n", key)
	},
}

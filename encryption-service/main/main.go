// Copyright (C) 2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package main

import (
	"context"
	"fmt"
	stdlog "log"
	"net/http"
	"os"

	"github.com/luxfi/log"
	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/sync/errgroup"

	"github.com/luxfi/fhevm"
	"github.com/luxfi/fhevm/encryption-service/api"
	"github.com/luxfi/fhevm/encryption-service/config"
	"github.com/luxfi/fhevm/encryption-service/healthcheck"
	"github.com/luxfi/fhevm/encryption-service/metrics"
	"github.com/luxfi/fhevm/gateway"
)

var version = "v0.0.0-dev"

func main() {
	cfg := buildConfig()

	logLevel, err := log.ToLevel(cfg.LogLevel)
	if err != nil {
		stdlog.Fatalf("error reading log level from config: %s", err)
	}

	logger := log.NewLogger(
		"encryption-service",
		*log.NewWrappedCore(
			logLevel,
			os.Stdout,
			log.JSON.ConsoleEncoder(),
		),
	)

	logger.Info("Initializing encryption-service")

	registry := prometheus.NewRegistry()
	metricsInstance := metrics.NewEncryptionServiceMetrics(registry)
	metrics.StartMetricsServer(logger, cfg.MetricsPort, registry)

	clientConfig := cfg.ClientConfig()
	gatewayClient := gateway.NewClient(logger, clientConfig.GatewayURL)
	encryptor := gateway.NewEncryptor(logger, clientConfig.GatewayURL)

	client, err := fhevm.NewClient(logger, clientConfig, encryptor, gatewayClient)
	if err != nil {
		logger.Fatal("Failed to create client", log.Err(err))
		os.Exit(1)
	}

	api.HandleEncryptRequest(logger, metricsInstance, client)
	api.HandleResolveRequest(logger, metricsInstance)

	// Healthy as long as the gateway serves its public key.
	healthcheck.HandleHealthCheckRequest(func(ctx context.Context) error {
		_, err := client.PublicKey(ctx)
		return err
	})

	logger.Info("Initialization complete")

	errGroup, ctx := errgroup.WithContext(context.Background())
	errGroup.Go(func() error {
		httpServer := &http.Server{
			Addr: fmt.Sprintf(":%d", cfg.APIPort),
		}
		go func() {
			<-ctx.Done()
			_ = httpServer.Shutdown(ctx)
		}()

		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return fmt.Errorf("failed to start API server: %w", err)
		}

		return nil
	})

	if err := errGroup.Wait(); err != nil {
		logger.Fatal("Exited with error", log.Err(err))
		os.Exit(1)
	}
}

// buildConfig parses the flags and builds the config
// Errors here should call log.Fatalf to exit the program
// since these errors are prior to building the logger struct
func buildConfig() config.Config {
	fs := config.BuildFlagSet()
	if err := fs.Parse(os.Args[1:]); err != nil {
		config.DisplayUsageText()
		stdlog.Fatalf("Failed to parse flags: %s", err)
	}

	displayVersion, err := fs.GetBool(config.VersionKey)
	if err != nil {
		stdlog.Fatalf("error reading %s flag: %s", config.VersionKey, err)
	}
	if displayVersion {
		fmt.Printf("%s\n", version)
		os.Exit(0)
	}

	help, err := fs.GetBool(config.HelpKey)
	if err != nil {
		stdlog.Fatalf("error reading %s flag value: %s", config.HelpKey, err)
	}
	if help {
		config.DisplayUsageText()
		os.Exit(0)
	}
	v, err := config.BuildViper(fs)
	if err != nil {
		stdlog.Fatalf("couldn't configure flags: %s", err)
	}

	cfg, err := config.NewConfig(v)
	if err != nil {
		stdlog.Fatalf("couldn't build config: %s", err)
	}
	return cfg
}

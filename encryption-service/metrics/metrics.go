// Copyright (C) 2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package metrics

import (
	"fmt"
	"net/http"

	"github.com/luxfi/log"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// EncryptionServiceMetrics covers the validate-then-encrypt pipeline.
// Validation failures are labeled by the rule violated so dashboards can
// separate caller mistakes from capability outages.
type EncryptionServiceMetrics struct {
	EncryptRequestCount     prometheus.Counter
	ResolveRequestCount     prometheus.Counter
	ValidationFailures      *prometheus.CounterVec
	EncryptionFailureCount  prometheus.Counter
	EncryptRequestLatencyMS prometheus.Histogram
}

func NewEncryptionServiceMetrics(registerer prometheus.Registerer) *EncryptionServiceMetrics {
	m := EncryptionServiceMetrics{
		EncryptRequestCount: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "encrypt_request_count",
				Help: "Number of encrypt requests",
			},
		),
		ResolveRequestCount: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "resolve_request_count",
				Help: "Number of resolve requests",
			},
		),
		ValidationFailures: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "validation_failure_count",
				Help: "Number of requests rejected by type resolution or range validation",
			},
			[]string{"rule"},
		),
		EncryptionFailureCount: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "encryption_failure_count",
				Help: "Number of requests that failed in the encryption capability",
			},
		),
		EncryptRequestLatencyMS: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "encrypt_request_latency_ms",
				Help:    "Latency of encrypt requests in milliseconds",
				Buckets: prometheus.ExponentialBucketsRange(1, 10000, 10),
			},
		),
	}
	registerer.MustRegister(m.EncryptRequestCount)
	registerer.MustRegister(m.ResolveRequestCount)
	registerer.MustRegister(m.ValidationFailures)
	registerer.MustRegister(m.EncryptionFailureCount)
	registerer.MustRegister(m.EncryptRequestLatencyMS)

	return &m
}

// StartMetricsServer serves the prometheus registry on the given port.
func StartMetricsServer(logger log.Logger, port uint16, gatherer prometheus.Gatherer) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	go func() {
		if err := http.ListenAndServe(fmt.Sprintf(":%d", port), mux); err != nil && err != http.ErrServerClosed {
			logger.Error("metrics server exited", log.Err(err))
		}
	}()
}

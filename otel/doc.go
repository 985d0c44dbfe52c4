// Package otel provides OpenTelemetry integration for reclaim tracker
// metrics.
//
// # Overview
//
// This package implements the reclaim.MetricsCollector interface using
// OpenTelemetry, exposing per-tracker retire/reclaim/restart/epoch-advance
// activity to any OTEL-compatible backend (Prometheus, Jaeger, DataDog,
// Grafana).
//
// The package is a separate module so the reclaim core stays free of the
// OTEL SDK. Applications that don't need metrics don't pay for it.
//
// # Features
//
//   - Retire counter: nodes handed to Tracker.Retire, tagged by tid
//   - Reclaim histogram: distribution of per-scan reclaim batch sizes
//   - Restart counter: optimistic-reader (OA/BOA) restarts
//   - Epoch counter: observed global epoch/era advances
//   - Thread-safe, lock-free OTEL instruments
//
// # Installation
//
//	go get github.com/agilira/reclaim/otel
//
// # Quick Start
//
//	import (
//	    "github.com/agilira/reclaim"
//	    reclaimotel "github.com/agilira/reclaim/otel"
//	    "go.opentelemetry.io/otel/exporters/prometheus"
//	    "go.opentelemetry.io/otel/sdk/metric"
//	)
//
//	exporter, err := prometheus.New()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	provider := metric.NewMeterProvider(metric.WithReader(exporter))
//
//	collector, err := reclaimotel.NewOTelMetricsCollector(provider)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	list, err := reclaim.NewList[string](
//	    func(a, b string) bool { return a < b },
//	    reclaim.Config{
//	        Policy:           reclaim.Hazard,
//	        MetricsCollector: collector,
//	    },
//	)
//
// # Multiple Tracker Instances
//
// Use WithMeterName to distinguish metrics from multiple List/Tracker
// instances sharing one MeterProvider:
//
//	collector, _ := reclaimotel.NewOTelMetricsCollector(
//	    provider,
//	    reclaimotel.WithMeterName("orders-index"),
//	)
//
// # Metrics Reference
//
//	reclaim_retired_total     Counter    nodes handed to Retire, by tid
//	reclaim_reclaimed_total   Histogram  per-scan reclaim batch sizes, by tid
//	reclaim_restarts_total    Counter    OA/BOA optimistic-reader restarts, by tid
//	reclaim_epoch             Counter    observed global epoch/era advances
//
// All counters and histograms are aggregated by the OTEL SDK and exported
// on whatever cadence the configured Reader uses.
package otel

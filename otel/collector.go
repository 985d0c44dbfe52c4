// Package otel provides OpenTelemetry integration for reclaim tracker metrics.
//
// This package implements the reclaim.MetricsCollector interface using
// OpenTelemetry, enabling per-policy observability (retire rate, reclaim
// batch sizes, optimistic-reader restarts, epoch advancement) exported to
// any OTEL-compatible backend.
//
// # Usage
//
//	import (
//	    "github.com/agilira/reclaim"
//	    reclaimotel "github.com/agilira/reclaim/otel"
//	    "go.opentelemetry.io/otel/exporters/prometheus"
//	    "go.opentelemetry.io/otel/sdk/metric"
//	)
//
//	exporter, _ := prometheus.New()
//	provider := metric.NewMeterProvider(metric.WithReader(exporter))
//
//	metricsCollector, _ := reclaimotel.NewOTelMetricsCollector(provider)
//
//	list, _ := reclaim.NewList[string](less, reclaim.Config{
//	    Policy:           reclaim.Hazard,
//	    MetricsCollector: metricsCollector,
//	})
//
// # Metrics Exposed
//
//   - reclaim_retired_total: Counter of nodes handed to Tracker.Retire
//   - reclaim_reclaimed_total: Histogram of per-scan reclaim batch sizes
//   - reclaim_restarts_total: Counter of optimistic-reader restarts (OA/BOA)
//   - reclaim_epoch: Counter of global epoch/era advances (RCU, QSBR,
//     Interval, Range family, HE); it counts advances, not the epoch value
//
// Package otel is a separate Go module so that the core reclaim package
// never depends on the OTEL SDK.
package otel

import (
	"context"
	"errors"

	"github.com/agilira/reclaim"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// OTelMetricsCollector implements reclaim.MetricsCollector using
// OpenTelemetry.
//
// Thread-safety: safe for concurrent use by multiple goroutines; the
// underlying OTEL instruments are themselves thread-safe.
type OTelMetricsCollector struct {
	retired   metric.Int64Counter
	reclaimed metric.Int64Histogram
	restarts  metric.Int64Counter
	epoch     metric.Int64Counter
}

// Options configures OTelMetricsCollector.
type Options struct {
	// MeterName is the name of the OpenTelemetry meter.
	// Default: "github.com/agilira/reclaim"
	MeterName string
}

// Option is a functional option for configuring OTelMetricsCollector.
type Option func(*Options)

// WithMeterName sets a custom meter name, useful for distinguishing
// metrics from multiple tracker instances.
func WithMeterName(name string) Option {
	return func(o *Options) {
		o.MeterName = name
	}
}

// NewOTelMetricsCollector creates a new OpenTelemetry metrics collector.
//
// provider must not be nil. The collector creates one counter per retire/
// restart/epoch-advance event and one histogram for reclaim batch sizes.
func NewOTelMetricsCollector(provider metric.MeterProvider, opts ...Option) (*OTelMetricsCollector, error) {
	if provider == nil {
		return nil, errors.New("meter provider cannot be nil")
	}

	options := Options{
		MeterName: "github.com/agilira/reclaim",
	}
	for _, opt := range opts {
		opt(&options)
	}

	meter := provider.Meter(options.MeterName)
	collector := &OTelMetricsCollector{}

	var err error
	collector.retired, err = meter.Int64Counter(
		"reclaim_retired_total",
		metric.WithDescription("Total number of nodes handed to Retire"),
	)
	if err != nil {
		return nil, err
	}

	collector.reclaimed, err = meter.Int64Histogram(
		"reclaim_reclaimed_total",
		metric.WithDescription("Distribution of per-scan reclaim batch sizes"),
	)
	if err != nil {
		return nil, err
	}

	collector.restarts, err = meter.Int64Counter(
		"reclaim_restarts_total",
		metric.WithDescription("Total number of optimistic-reader restarts (OA/BOA)"),
	)
	if err != nil {
		return nil, err
	}

	collector.epoch, err = meter.Int64Counter(
		"reclaim_epoch",
		metric.WithDescription("Observed advances of the global epoch/era counter"),
	)
	if err != nil {
		return nil, err
	}

	return collector, nil
}

// RecordRetire records a node being handed to Tracker.Retire.
func (c *OTelMetricsCollector) RecordRetire(tid int) {
	c.retired.Add(context.Background(), 1, metric.WithAttributes(tidAttr(tid)))
}

// RecordReclaim records a scan physically freeing freedCount nodes.
func (c *OTelMetricsCollector) RecordReclaim(tid int, freedCount int) {
	c.reclaimed.Record(context.Background(), int64(freedCount), metric.WithAttributes(tidAttr(tid)))
}

// RecordRestart records an optimistic reader (OA/BOA) discovering its
// warning bit set and restarting its traversal.
func (c *OTelMetricsCollector) RecordRestart(tid int) {
	c.restarts.Add(context.Background(), 1, metric.WithAttributes(tidAttr(tid)))
}

// RecordEpochAdvance records the global epoch/era counter moving to
// newEpoch.
func (c *OTelMetricsCollector) RecordEpochAdvance(newEpoch uint64) {
	c.epoch.Add(context.Background(), 1)
}

func tidAttr(tid int) attribute.KeyValue {
	return attribute.Int("tid", tid)
}

// Compile-time interface check.
var _ reclaim.MetricsCollector = (*OTelMetricsCollector)(nil)

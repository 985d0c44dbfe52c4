// interfaces.go: public interfaces for reclaim
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0

package reclaim

import "github.com/agilira/go-timecache"

// Logger defines a minimal logging interface with zero overhead.
// Implementations should use structured logging and be allocation-free.
type Logger interface {
	// Debug logs a debug message with optional key-value pairs.
	Debug(msg string, keyvals ...interface{})

	// Info logs an info message with optional key-value pairs.
	Info(msg string, keyvals ...interface{})

	// Warn logs a warning message with optional key-value pairs.
	Warn(msg string, keyvals ...interface{})

	// Error logs an error message with optional key-value pairs.
	Error(msg string, keyvals ...interface{})
}

// NoOpLogger is a logger that does nothing. Used as default to avoid nil checks.
type NoOpLogger struct{}

func (NoOpLogger) Debug(msg string, keyvals ...interface{}) {}
func (NoOpLogger) Info(msg string, keyvals ...interface{})  {}
func (NoOpLogger) Warn(msg string, keyvals ...interface{})  {}
func (NoOpLogger) Error(msg string, keyvals ...interface{}) {}

// TimeProvider provides current time with caching for performance.
// This interface allows injecting optimized time implementations.
// BOA (§4.8) calls Now() on every alloc to bucket activity into
// one-minute windows, so it must stay cheap.
type TimeProvider interface {
	// Now returns the current time in nanoseconds since epoch.
	Now() int64
}

// systemTimeProvider is the default time provider using go-timecache.
// This provides much faster time access than time.Now() with zero
// allocations, amortizing a background-refreshed cached timestamp.
type systemTimeProvider struct{}

func (systemTimeProvider) Now() int64 {
	return timecache.CachedTimeNano()
}

// MetricsCollector is used for collecting per-thread tracker metrics
// (retire/reclaim counts, restarts). If nil, NoOpMetricsCollector is used
// (zero overhead). Implement this to integrate with Prometheus, DataDog,
// StatsD or any other backend; see the reclaim/otel submodule for an
// OpenTelemetry-backed implementation.
type MetricsCollector interface {
	// RecordRetire is called every time Tracker.Retire hands a node to the
	// tracker, before the tracker attempts any reclamation.
	RecordRetire(tid int)

	// RecordReclaim is called once per reclamation pass that physically
	// frees (or, for OA/BOA, recycles into the free list) at least one
	// node. freedCount is the number of nodes reclaimed in that pass (an
	// empty phase may reclaim many at once).
	RecordReclaim(tid int, freedCount int)

	// RecordRestart is called every time an optimistic reader (OA/BOA)
	// observes its warning bit set and restarts its operation.
	RecordRestart(tid int)

	// RecordEpochAdvance is called every time the global epoch counter is
	// advanced (RCU/QSBR/Interval/Range/RangeNew/RangeTP/HE).
	RecordEpochAdvance(newEpoch uint64)
}

// NoOpMetricsCollector is a MetricsCollector that does nothing.
type NoOpMetricsCollector struct{}

func (NoOpMetricsCollector) RecordRetire(tid int)                  {}
func (NoOpMetricsCollector) RecordReclaim(tid int, freedCount int) {}
func (NoOpMetricsCollector) RecordRestart(tid int)                 {}
func (NoOpMetricsCollector) RecordEpochAdvance(newEpoch uint64)    {}

// TrackerStats is a point-in-time snapshot of a tracker's per-thread and
// global counters, the generalization of spec.md §6's report_retired(tid).
type TrackerStats struct {
	// Retired is the number of objects ever retired to the tracker, by
	// all threads: the count is tracker-wide, not kept per thread.
	Retired uint64

	// Reclaimed is the number of objects ever physically freed (or
	// recycled, for OA/BOA) by the tracker, across all threads.
	Reclaimed uint64

	// Pending is the number of retired objects still held back by the
	// safety predicate: tid's own retired list for most schemes, the whole
	// collecting and ready pool for OA/BOA. It is not Retired-Reclaimed.
	Pending uint64

	// Restarts is the number of optimistic-read restarts recorded by the
	// tracker across all threads (always 0 for non-optimistic schemes).
	Restarts uint64

	// Epoch is the tracker's current global epoch or era (0 for
	// Hazard/HazardDynamic/NIL, which have no epoch counter; for OA/BOA,
	// the pool rotation version).
	Epoch uint64
}

// config.go: configuration for reclaim trackers
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0

package reclaim

// Default tuning constants, per spec.md §6 "Constructor defaults (BOA)"
// (applied uniformly to every epoch-aware scheme, not just BOA).
const (
	DefaultTaskNum   = 4
	DefaultEpochFreq = 150
	DefaultEmptyFreq = 30
	DefaultSlotNum   = 3
)

// Config holds the construction parameters for MemoryTracker, mirroring
// spec.md §4.10's constructor: MemoryTracker(task_num, policy, epoch_freq,
// empty_freq, slot_num, collect).
type Config struct {
	// TaskNum is the number of distinct thread identifiers the tracker
	// pre-enumerates. Must be > 0. Default: DefaultTaskNum.
	TaskNum int

	// Policy selects the reclamation scheme. Default: Hazard.
	Policy Policy

	// EpochFreq controls how often the global epoch advances: the
	// epoch-aware schemes (RCU/QSBR/Interval/Range*/HE) advance it once
	// every EpochFreq retirements, counted across all threads of the
	// tracker. Allocations do not advance it, and the cadence is not scaled
	// by TaskNum. Default: DefaultEpochFreq.
	EpochFreq int

	// EmptyFreq controls how often the Hazard/HazardDynamic trackers scan a
	// thread's retired list and the OA/BOA trackers rotate their pool: once
	// EmptyFreq retired nodes are waiting. Default: DefaultEmptyFreq.
	EmptyFreq int

	// SlotNum is the number of hazard slots per thread (Hazard/HazardDynamic/
	// HE/OA). Default: DefaultSlotNum.
	SlotNum int

	// Collect, when false, disables physical freeing entirely: a debugging
	// mode where memory grows without bound by design (spec.md §4.10, §8
	// scenario S6). DefaultConfig sets it per the NGC build tag (see
	// config_gc.go / config_ngc.go); Validate leaves it as given, so a
	// Config that does not set it has Collect false under either tag.
	Collect bool

	// Logger is carried in the Config; no tracker in this package logs
	// through it. If nil, Validate sets NoOpLogger. Default: NoOpLogger.
	Logger Logger

	// TimeProvider provides current time, used by BOA's predictor to
	// bucket activity into one-minute windows. If nil, a default
	// implementation backed by go-timecache is used.
	TimeProvider TimeProvider

	// MetricsCollector is used for collecting per-thread tracker metrics.
	// If nil, NoOpMetricsCollector is used (zero overhead).
	MetricsCollector MetricsCollector

	// Predictor estimates BOA's next-bucket pool demand. Only used when
	// Policy is BOA. If nil, NewNaiveDemandPredictor is used.
	Predictor Predictor
}

// Validate checks configuration parameters, applies sensible defaults for
// tuning knobs, and returns an error for values that are not merely
// unspecified but actively invalid (negative TaskNum, EpochFreq or
// SlotNum, unknown Policy).
// This mirrors the teacher's normalize-don't-reject philosophy for tuning
// knobs while still rejecting genuine construction-time contract
// violations, consistent with spec.md §7 ("out-of-range tid is a caller
// contract violation").
func (c *Config) Validate() error {
	if c.TaskNum < 0 {
		return NewErrInvalidTaskNum(c.TaskNum)
	}
	if c.TaskNum == 0 {
		c.TaskNum = DefaultTaskNum
	}

	if !c.Policy.valid() {
		return NewErrInvalidPolicy(c.Policy)
	}

	if c.EpochFreq < 0 {
		return NewErrInvalidEpochFreq(c.EpochFreq)
	}
	if c.EpochFreq == 0 {
		c.EpochFreq = DefaultEpochFreq
	}

	if c.EmptyFreq <= 0 {
		c.EmptyFreq = DefaultEmptyFreq
	}

	if c.SlotNum < 0 {
		return NewErrInvalidSlotNum(c.SlotNum)
	}
	if c.SlotNum == 0 {
		c.SlotNum = DefaultSlotNum
	}

	if c.Logger == nil {
		c.Logger = NoOpLogger{}
	}

	if c.TimeProvider == nil {
		c.TimeProvider = systemTimeProvider{}
	}

	if c.MetricsCollector == nil {
		c.MetricsCollector = NoOpMetricsCollector{}
	}

	if c.Predictor == nil {
		c.Predictor = NewNaiveDemandPredictor()
	}

	return nil
}

// DefaultConfig returns a configuration with sensible defaults and
// Collect set per the NGC build tag (see config_gc.go / config_ngc.go).
func DefaultConfig() Config {
	return Config{
		TaskNum:          DefaultTaskNum,
		Policy:           Hazard,
		EpochFreq:        DefaultEpochFreq,
		EmptyFreq:        DefaultEmptyFreq,
		SlotNum:          DefaultSlotNum,
		Collect:          defaultCollect,
		Logger:           NoOpLogger{},
		TimeProvider:     systemTimeProvider{},
		MetricsCollector: NoOpMetricsCollector{},
		Predictor:        NewNaiveDemandPredictor(),
	}
}

// valid reports whether p is one of the known tracker policy tags.
func (p Policy) valid() bool {
	switch p {
	case NIL, Hazard, RCU, HazardDynamic, Interval, HE, Range, RangeNew, QSBR, RangeTP, OA, BOA:
		return true
	default:
		return false
	}
}

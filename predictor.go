// predictor.go: demand prediction for the Bounded Optimistic scheme
// (spec.md §4.8)
//
// No forecasting library appears anywhere in the retrieved reference
// corpus (checked for anything ARIMA- or time-series-shaped), so this
// file implements the naive estimator spec.md itself sketches, behind a
// small interface so a real forecaster can be dropped in later without
// touching tracker_boa.go.
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0

package reclaim

import "sync/atomic"

// Predictor estimates how many additional allocations a bucket interval
// will need, given what has already happened in the current interval.
// BOA calls Predict once per bucket rollover to size its next pool
// refill (spec.md §4.8).
type Predictor interface {
	// Observe records one allocation or one deallocation in the current
	// bucket.
	Observe(allocated bool)

	// Predict returns the estimated demand for the upcoming bucket and
	// resets the predictor's internal counters for the next one.
	Predict() uint64
}

// naiveDemandPredictor implements spec.md §4.8's own strawman:
// demand = allocSinceRollover / (deallocSinceRollover+1) * 2 * allocSinceRollover.
// It over-provisions when allocations are outpacing deallocations; since
// the division is integer division, the estimate drops to 0 once
// deallocations reach allocations.
//
// Observe is called from whichever tid's goroutine is running Alloc/Retire,
// so allocated/deallocated are atomic.Uint64: concurrent Observe calls from
// different threads, and Predict's reset racing the next bucket's Observe
// calls, must never tear or drop a count.
type naiveDemandPredictor struct {
	allocated   atomic.Uint64
	deallocated atomic.Uint64
}

// NewNaiveDemandPredictor returns the default Predictor BOA uses when no
// other Predictor is supplied through Config.
func NewNaiveDemandPredictor() Predictor {
	return &naiveDemandPredictor{}
}

func (p *naiveDemandPredictor) Observe(allocated bool) {
	if allocated {
		p.allocated.Add(1)
	} else {
		p.deallocated.Add(1)
	}
}

func (p *naiveDemandPredictor) Predict() uint64 {
	a := p.allocated.Swap(0)
	d := p.deallocated.Swap(0)
	if a == 0 {
		return 0
	}
	return a / (d + 1) * 2 * a
}

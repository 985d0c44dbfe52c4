// tracker_boa.go: Bounded Optimistic Access (spec.md §4.8, policy tag
// BOA=21)
//
// BOA layers a bounded, predicted pool size on top of OA's rotation and
// warning-bit protocol: allocations and deallocations are tallied into a
// one-minute bucket (timed through Config.TimeProvider, spec.md §6), and
// at each bucket rollover a Predictor estimates the next bucket's demand.
// The free list built by OA's rotation is then capped at that estimate,
// trading a larger resident pool for fewer cold allocations when traffic
// is trending up, and shedding it back down when traffic falls off.
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0

package reclaim

import "sync"

const boaBucketNanos = 60_000_000_000 // one minute, spec.md §4.8

type boaTracker[T any] struct {
	*oaTracker[T]

	predictor    Predictor
	timeProvider TimeProvider

	bucketMu    sync.Mutex
	bucketStart int64
	bound       uint64
}

func newBOATracker[T any](cfg Config) *boaTracker[T] {
	return &boaTracker[T]{
		oaTracker:    newOATracker[T](cfg),
		predictor:    cfg.Predictor,
		timeProvider: cfg.TimeProvider,
		bucketStart:  cfg.TimeProvider.Now(),
		bound:        maxEpoch,
	}
}

func (t *boaTracker[T]) Policy() Policy { return BOA }

func (t *boaTracker[T]) Alloc(tid int) (*Node[T], error) {
	t.rolloverIfDue()
	n, err := t.oaTracker.Alloc(tid)
	if err == nil {
		t.predictor.Observe(true)
	}
	return n, err
}

func (t *boaTracker[T]) Retire(n *Node[T], tid int) {
	t.predictor.Observe(false)
	t.oaTracker.Retire(n, tid)
	t.bucketMu.Lock()
	bound := t.bound
	t.bucketMu.Unlock()
	t.oaTracker.trimFreeList(bound)
}

// rolloverIfDue closes out the current bucket and asks the predictor for
// the next one's bound once a full minute has elapsed since the last
// rollover.
func (t *boaTracker[T]) rolloverIfDue() {
	now := t.timeProvider.Now()
	t.bucketMu.Lock()
	defer t.bucketMu.Unlock()
	if now-t.bucketStart < boaBucketNanos {
		return
	}
	t.bound = t.predictor.Predict()
	t.bucketStart = now
}

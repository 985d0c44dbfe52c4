// tracker_boa_test.go: tests for Bounded Optimistic Access
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0

package reclaim

import "testing"

// mockBOATimeProvider lets tests drive bucket rollovers deterministically.
type mockBOATimeProvider struct{ now int64 }

func (m *mockBOATimeProvider) Now() int64 { return m.now }

// fixedPredictor returns a constant bound and records calls, for tests that
// want to assert BOA invokes Observe/Predict rather than re-derive the
// naive formula already covered by predictor_test.go.
type fixedPredictor struct {
	bound      uint64
	allocs     int
	deallocs   int
	predictCnt int
}

func (p *fixedPredictor) Observe(allocated bool) {
	if allocated {
		p.allocs++
	} else {
		p.deallocs++
	}
}

func (p *fixedPredictor) Predict() uint64 {
	p.predictCnt++
	return p.bound
}

func TestBOATracker_Policy(t *testing.T) {
	tr := newBOATracker[int](Config{
		TaskNum: 1, SlotNum: 1, EmptyFreq: 10, Collect: true, MetricsCollector: NoOpMetricsCollector{},
		TimeProvider: &mockBOATimeProvider{now: 0},
		Predictor:    NewNaiveDemandPredictor(),
	})
	if tr.Policy() != BOA {
		t.Errorf("Policy() = %v, want BOA", tr.Policy())
	}
}

func TestBOATracker_StartsUnbounded(t *testing.T) {
	tr := newBOATracker[int](Config{
		TaskNum: 1, SlotNum: 1, EmptyFreq: 10, Collect: true, MetricsCollector: NoOpMetricsCollector{},
		TimeProvider: &mockBOATimeProvider{now: 0},
		Predictor:    NewNaiveDemandPredictor(),
	})
	if tr.bound != maxEpoch {
		t.Errorf("bound = %d, want maxEpoch before the first rollover", tr.bound)
	}
}

func TestBOATracker_AllocObservesPredictor(t *testing.T) {
	pred := &fixedPredictor{bound: maxEpoch}
	tr := newBOATracker[int](Config{
		TaskNum: 1, SlotNum: 1, EmptyFreq: 10, Collect: true, MetricsCollector: NoOpMetricsCollector{},
		TimeProvider: &mockBOATimeProvider{now: 0},
		Predictor:    pred,
	})

	if _, err := tr.Alloc(0); err != nil {
		t.Fatalf("Alloc() error = %v", err)
	}
	if pred.allocs != 1 {
		t.Errorf("predictor.allocs = %d, want 1", pred.allocs)
	}
}

func TestBOATracker_RetireObservesPredictor(t *testing.T) {
	pred := &fixedPredictor{bound: maxEpoch}
	tr := newBOATracker[int](Config{
		TaskNum: 1, SlotNum: 1, EmptyFreq: 10, Collect: true, MetricsCollector: NoOpMetricsCollector{},
		TimeProvider: &mockBOATimeProvider{now: 0},
		Predictor:    pred,
	})

	tr.Retire(&Node[int]{Value: 1}, 0)
	if pred.deallocs != 1 {
		t.Errorf("predictor.deallocs = %d, want 1", pred.deallocs)
	}
}

func TestBOATracker_RolloverAfterBucketElapses(t *testing.T) {
	clock := &mockBOATimeProvider{now: 0}
	pred := &fixedPredictor{bound: 3}
	tr := newBOATracker[int](Config{
		TaskNum: 1, SlotNum: 1, EmptyFreq: 10, Collect: true, MetricsCollector: NoOpMetricsCollector{},
		TimeProvider: clock,
		Predictor:    pred,
	})

	tr.rolloverIfDue() // not due yet, t=0 == bucketStart
	if pred.predictCnt != 0 {
		t.Error("rollover should not fire before a full bucket elapses")
	}

	clock.now = boaBucketNanos + 1
	tr.rolloverIfDue()
	if pred.predictCnt != 1 {
		t.Errorf("predictCnt = %d, want 1 after the bucket elapses", pred.predictCnt)
	}
	if tr.bound != 3 {
		t.Errorf("bound = %d, want 3 from the predictor", tr.bound)
	}

	// A second call within the same bucket must not roll over again.
	tr.rolloverIfDue()
	if pred.predictCnt != 1 {
		t.Errorf("predictCnt = %d, want still 1 within the same bucket", pred.predictCnt)
	}
}

func TestBOATracker_AllocTriggersRolloverWhenDue(t *testing.T) {
	clock := &mockBOATimeProvider{now: 0}
	pred := &fixedPredictor{bound: 1}
	tr := newBOATracker[int](Config{
		TaskNum: 1, SlotNum: 1, EmptyFreq: 10, Collect: true, MetricsCollector: NoOpMetricsCollector{},
		TimeProvider: clock,
		Predictor:    pred,
	})

	clock.now = boaBucketNanos * 2
	if _, err := tr.Alloc(0); err != nil {
		t.Fatalf("Alloc() error = %v", err)
	}
	if pred.predictCnt != 1 {
		t.Error("Alloc should trigger a due rollover")
	}
	if tr.bound != 1 {
		t.Errorf("bound = %d, want 1 after rollover", tr.bound)
	}
}

func TestBOATracker_RetireTrimsFreeListToBound(t *testing.T) {
	clock := &mockBOATimeProvider{now: 0}
	pred := &fixedPredictor{bound: 1}
	tr := newBOATracker[int](Config{
		TaskNum: 1, SlotNum: 1, EmptyFreq: 10, Collect: true, MetricsCollector: NoOpMetricsCollector{},
		TimeProvider: clock,
		Predictor:    pred,
	})

	tr.bound = 1
	tr.freeList = &Node[int]{Value: 1, poolNext: &Node[int]{Value: 2, poolNext: &Node[int]{Value: 3}}}

	tr.Retire(&Node[int]{Value: 4}, 0)

	count := 0
	for n := tr.freeList; n != nil; n = n.poolNext {
		count++
	}
	if count > 1 {
		t.Errorf("free list length after bounded retire = %d, want at most 1", count)
	}
}

func TestBOATracker_RetireEventuallyReclaims(t *testing.T) {
	tr := newBOATracker[int](Config{
		TaskNum: 1, SlotNum: 1, EmptyFreq: 1, Collect: true, MetricsCollector: NoOpMetricsCollector{},
		TimeProvider: &mockBOATimeProvider{now: 0},
		Predictor:    NewNaiveDemandPredictor(),
	})

	for i := 0; i < 4; i++ {
		tr.Retire(&Node[int]{Value: i}, 0)
	}
	if stats := tr.Stats(0); stats.Reclaimed == 0 {
		t.Error("expected reclamation with no active reservations")
	}
}

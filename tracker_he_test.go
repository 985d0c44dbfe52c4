// tracker_he_test.go: tests for Hazard Eras
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0

package reclaim

import "testing"

func TestHETracker_Policy(t *testing.T) {
	tr := newHETracker[int](Config{TaskNum: 1, SlotNum: 2, EpochFreq: 10, Collect: true, MetricsCollector: NoOpMetricsCollector{}})
	if tr.Policy() != HE {
		t.Errorf("Policy() = %v, want HE", tr.Policy())
	}
}

func TestHETracker_SafePredicate(t *testing.T) {
	tr := newHETracker[int](Config{TaskNum: 2, SlotNum: 2, EpochFreq: 10, Collect: true, MetricsCollector: NoOpMetricsCollector{}})
	// All slots start at maxEpoch (empty).
	if !tr.safe(0, 100) {
		t.Error("with every slot empty, any window should be safe")
	}

	tr.eras[1][0].Store(50)
	if tr.safe(40, 60) {
		t.Error("an era inside [birth, retire] should block reclamation")
	}
	if !tr.safe(60, 100) {
		t.Error("an era outside [birth, retire] should not block reclamation")
	}
}

func TestHETracker_ReadPublishesEraBeforeLoad(t *testing.T) {
	tr := newHETracker[int](Config{TaskNum: 1, SlotNum: 2, EpochFreq: 10, Collect: true, MetricsCollector: NoOpMetricsCollector{}})
	tr.globalEra.Store(7)

	head := &Node[int]{}
	head.storeNext(nil)
	tr.Read(head, 0, 0)

	if got := tr.eras[0][0].Load(); got != 7 {
		t.Errorf("Read should publish the current era into the slot: got %d, want 7", got)
	}
}

func TestHETracker_ReleaseClearsSlot(t *testing.T) {
	tr := newHETracker[int](Config{TaskNum: 1, SlotNum: 2, EpochFreq: 10, Collect: true, MetricsCollector: NoOpMetricsCollector{}})
	tr.Reserve(nil, 0, 0)
	tr.Release(0, 0)
	if got := tr.eras[0][0].Load(); got != maxEpoch {
		t.Errorf("Release should reset the slot to maxEpoch: got %d", got)
	}
}

func TestHETracker_RetireEventuallyReclaims(t *testing.T) {
	tr := newHETracker[int](Config{TaskNum: 1, SlotNum: 2, EpochFreq: 1, Collect: true, MetricsCollector: NoOpMetricsCollector{}})
	for i := 0; i < 4; i++ {
		tr.Retire(&Node[int]{Value: i}, 0)
	}
	if stats := tr.Stats(0); stats.Reclaimed == 0 {
		t.Error("expected reclamation with no published eras")
	}
}

// tracker_oa_test.go: tests for Optimistic Access
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0

package reclaim

import "testing"

func TestOATracker_Policy(t *testing.T) {
	tr := newOATracker[int](Config{TaskNum: 2, SlotNum: 2, EmptyFreq: 10, Collect: true, MetricsCollector: NoOpMetricsCollector{}})
	if tr.Policy() != OA {
		t.Errorf("Policy() = %v, want OA", tr.Policy())
	}
}

func TestOATracker_ReadReservesFastPath(t *testing.T) {
	tr := newOATracker[int](Config{TaskNum: 1, SlotNum: 1, EmptyFreq: 10, Collect: true, MetricsCollector: NoOpMetricsCollector{}})

	n := &Node[int]{Value: 1}
	head := &Node[int]{}
	head.storeNext(n)

	got, marked := tr.Read(head, 0, 0)
	if got != n || marked {
		t.Fatalf("Read() = %v, %v, want %v, false", got, marked, n)
	}
	live := tr.slots.snapshot()
	if _, held := live[n]; !held {
		t.Error("Read should have reserved the loaded node")
	}
}

func TestOATracker_AllocReusesFreeList(t *testing.T) {
	tr := newOATracker[int](Config{TaskNum: 1, SlotNum: 1, EmptyFreq: 10, Collect: true, MetricsCollector: NoOpMetricsCollector{}})

	recycled := &Node[int]{Value: 99}
	tr.freeList = recycled
	tr.version = 3

	n, err := tr.Alloc(0)
	if err != nil {
		t.Fatalf("Alloc() error = %v", err)
	}
	if n != recycled {
		t.Error("Alloc should pop the free list before allocating fresh")
	}
	if n.Value != 0 {
		t.Errorf("Alloc should zero the reused node's value: got %d", n.Value)
	}
	if n.poolVersion != 3 {
		t.Errorf("poolVersion = %d, want 3", n.poolVersion)
	}
	if tr.freeList != nil {
		t.Error("Alloc should pop the reused node off the free list")
	}
}

func TestOATracker_AllocFreshWhenFreeListEmpty(t *testing.T) {
	tr := newOATracker[int](Config{TaskNum: 1, SlotNum: 1, EmptyFreq: 10, Collect: true, MetricsCollector: NoOpMetricsCollector{}})
	n, err := tr.Alloc(0)
	if err != nil {
		t.Fatalf("Alloc() error = %v", err)
	}
	if n == nil {
		t.Fatal("Alloc should return a fresh node when the free list is empty")
	}
}

func TestOATracker_RotateRaisesWarningForActiveThreads(t *testing.T) {
	tr := newOATracker[int](Config{TaskNum: 2, SlotNum: 1, EmptyFreq: 1, Collect: true, MetricsCollector: NoOpMetricsCollector{}})

	tr.StartOp(1) // thread 1 is mid-operation
	tr.Retire(&Node[int]{Value: 1}, 0)
	// The rotation above already raised thread 1's warning bit (rotate
	// raises warnings before it looks for anything to free); retire again
	// so a second rotation, which also frees the first node, runs too.
	tr.Retire(&Node[int]{Value: 2}, 0)

	if !tr.CheckWarning(1) {
		t.Error("an active thread during rotation should have its warning bit raised")
	}
	if tr.CheckWarning(0) {
		t.Error("an inactive thread should not have its warning bit raised")
	}
}

func TestOATracker_RotateRequeuesHazardedSurvivors(t *testing.T) {
	tr := newOATracker[int](Config{TaskNum: 1, SlotNum: 1, EmptyFreq: 1, Collect: true, MetricsCollector: NoOpMetricsCollector{}})

	victim := &Node[int]{Value: 7}
	tr.Reserve(victim, 0, 0)
	tr.Retire(victim, 0) // rotates into ready

	other := &Node[int]{Value: 8}
	tr.Retire(other, 0) // rotates ready->free pass, victim still held

	stats := tr.Stats(0)
	if stats.Pending == 0 {
		t.Error("a still-hazarded node should remain pending rather than be freed")
	}
}

func TestOATracker_CheckAndResetWarning(t *testing.T) {
	tr := newOATracker[int](Config{TaskNum: 1, SlotNum: 1, EmptyFreq: 10, Collect: true, MetricsCollector: NoOpMetricsCollector{}})

	if tr.CheckWarning(0) {
		t.Error("a fresh tracker should have no warning set")
	}

	tr.warn[0].set = 1
	if !tr.CheckWarning(0) {
		t.Error("CheckWarning should observe the raised bit")
	}

	tr.ResetWarning(0)
	if tr.CheckWarning(0) {
		t.Error("ResetWarning should clear the bit")
	}
	if got := tr.Stats(0).Restarts; got != 1 {
		t.Errorf("Restarts = %d, want 1 after consuming a genuine warning", got)
	}

	tr.ResetWarning(0) // no warning set: must not count as a restart
	if got := tr.Stats(0).Restarts; got != 1 {
		t.Errorf("Restarts = %d, want still 1 after a no-op reset", got)
	}
}

func TestOATracker_TrimFreeListCapsAtBound(t *testing.T) {
	tr := newOATracker[int](Config{TaskNum: 1, SlotNum: 1, EmptyFreq: 10, Collect: true, MetricsCollector: NoOpMetricsCollector{}})

	var head *Node[int]
	for i := 0; i < 5; i++ {
		n := &Node[int]{Value: i, poolNext: head}
		head = n
	}
	tr.freeList = head

	tr.trimFreeList(2)

	count := 0
	for n := tr.freeList; n != nil; n = n.poolNext {
		count++
	}
	if count != 2 {
		t.Errorf("free list length after trim = %d, want 2", count)
	}
}

func TestOATracker_TrimFreeListUnboundedIsNoop(t *testing.T) {
	tr := newOATracker[int](Config{TaskNum: 1, SlotNum: 1, EmptyFreq: 10, Collect: true, MetricsCollector: NoOpMetricsCollector{}})
	tr.freeList = &Node[int]{Value: 1, poolNext: &Node[int]{Value: 2}}

	tr.trimFreeList(maxEpoch)

	count := 0
	for n := tr.freeList; n != nil; n = n.poolNext {
		count++
	}
	if count != 2 {
		t.Errorf("an unbounded trim must not drop any entries: got %d, want 2", count)
	}
}

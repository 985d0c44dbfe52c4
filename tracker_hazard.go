// tracker_hazard.go: Hazard Pointers and Hazard Dynamic (spec.md §4.2, §6
// policy tags Hazard=1, HazardDynamic=3)
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0

package reclaim

import "sync"

// hazardTracker implements the classic hazard-pointer protocol: a thread
// about to dereference a shared pointer first publishes it into its own
// slot, then re-reads the source to confirm the pointer it published is
// still the current one (spec.md §4.2's "read-reserve-reread" loop). A
// retiring thread only frees a node once no slot in the table holds it.
//
// The slot table starts at the configured SlotNum per thread and grows on
// demand under either policy tag; dynamic only selects HazardDynamic
// rather than Hazard as the reported policy.
type hazardTracker[T any] struct {
	policy Policy
	cfg    Config
	slots  *slotTable[T]

	retiredMu []sync.Mutex
	retired   [][]*Node[T]

	retiredCount   counter
	reclaimedCount counter
}

func newHazardTracker[T any](cfg Config, dynamic bool) *hazardTracker[T] {
	policy := Hazard
	if dynamic {
		policy = HazardDynamic
	}
	return &hazardTracker[T]{
		policy:    policy,
		cfg:       cfg,
		slots:     newSlotTable[T](cfg.TaskNum, cfg.SlotNum, dynamic),
		retiredMu: make([]sync.Mutex, cfg.TaskNum),
		retired:   make([][]*Node[T], cfg.TaskNum),
	}
}

func (t *hazardTracker[T]) Policy() Policy { return t.policy }

func (t *hazardTracker[T]) Alloc(tid int) (*Node[T], error) {
	return &Node[T]{}, nil
}

// StartOp is a no-op: the hazard scheme has no epoch or global reservation
// to publish at operation entry, only per-pointer slots published by Read.
func (t *hazardTracker[T]) StartOp(tid int) {}

// EndOp releases every slot tid published during the operation.
func (t *hazardTracker[T]) EndOp(tid int) {
	t.slots.clearAll(tid)
}

func (t *hazardTracker[T]) Reserve(n *Node[T], idx, tid int) {
	t.slots.reserve(tid, idx, n)
}

func (t *hazardTracker[T]) Release(idx, tid int) {
	t.slots.release(tid, idx)
}

func (t *hazardTracker[T]) ClearAll(tid int) {
	t.slots.clearAll(tid)
}

// Read implements the reserve-then-reread hazard protocol: publish the
// currently-linked node into idx, then re-read the link; if it changed,
// the just-published pointer may already be retired elsewhere, so the loop
// tries again with the fresh value.
func (t *hazardTracker[T]) Read(from *Node[T], idx, tid int) (*Node[T], bool) {
	for {
		n, marked := from.loadNext()
		if n == nil {
			t.slots.release(tid, idx)
			return nil, marked
		}
		t.slots.reserve(tid, idx, n)
		n2, marked2 := from.loadNext()
		if n2 == n {
			return n, marked2
		}
	}
}

// OARead is the optimistic-extension hook (spec.md §4.1). The hazard
// scheme has no separate optimistic fast path, so it is Read itself.
func (t *hazardTracker[T]) OARead(from *Node[T], idx, tid int) (*Node[T], bool) {
	return t.Read(from, idx, tid)
}

func (t *hazardTracker[T]) OAClear(tid int) { t.ClearAll(tid) }

func (t *hazardTracker[T]) CheckWarning(tid int) bool { return false }

func (t *hazardTracker[T]) ResetWarning(tid int) {}

// Retire hands n to tid's private retired list. Once the list reaches
// EmptyFreq entries, tid scans the slot table and frees whatever nothing
// currently holds (spec.md §4.2's empty_freq batching).
func (t *hazardTracker[T]) Retire(n *Node[T], tid int) {
	t.retiredMu[tid].Lock()
	t.retired[tid] = append(t.retired[tid], n)
	due := t.cfg.Collect && len(t.retired[tid]) >= t.cfg.EmptyFreq
	t.retiredMu[tid].Unlock()

	t.retiredCount.add(1)
	t.cfg.MetricsCollector.RecordRetire(tid)
	if due {
		t.scan(tid)
	}
}

func (t *hazardTracker[T]) scan(tid int) {
	t.retiredMu[tid].Lock()
	pending := t.retired[tid]
	t.retired[tid] = nil
	t.retiredMu[tid].Unlock()

	live := t.slots.snapshot()
	var keep []*Node[T]
	freed := 0
	for _, n := range pending {
		if _, hazarded := live[n]; hazarded {
			keep = append(keep, n)
			continue
		}
		freed++
	}

	t.retiredMu[tid].Lock()
	t.retired[tid] = append(keep, t.retired[tid]...)
	t.retiredMu[tid].Unlock()

	if freed > 0 {
		t.reclaimedCount.add(uint64(freed))
		t.cfg.MetricsCollector.RecordReclaim(tid, freed)
	}
}

func (t *hazardTracker[T]) Stats(tid int) TrackerStats {
	t.retiredMu[tid].Lock()
	pending := uint64(len(t.retired[tid]))
	t.retiredMu[tid].Unlock()
	return TrackerStats{
		Retired:   t.retiredCount.load(),
		Reclaimed: t.reclaimedCount.load(),
		Pending:   pending,
	}
}

// tracker_interval.go: Interval-Based Reclamation (spec.md §4.4, policy tag
// Interval=4)
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0

package reclaim

import (
	"sync"
	"sync/atomic"
)

// intervalRetired pairs a retired node with the [birth, retire] epoch
// window (both ends inclusive) during which it was reachable.
type intervalRetired[T any] struct {
	node   *Node[T]
	birth  uint64
	retire uint64
}

// intervalTracker implements interval-based reclamation: rather than a
// single active/inactive reservation, each thread publishes the epoch
// window its current (or most recently completed) operation spans. A
// retired node is only freed once no thread's published window overlaps
// the window during which the node was reachable (spec.md §4.4).
type intervalTracker[T any] struct {
	cfg Config

	globalEpoch atomic.Uint64
	res         []intervalReservation

	retiredMu []sync.Mutex
	retired   [][]intervalRetired[T]

	opsSinceAdvance counter
	retiredCount    counter
	reclaimedCount  counter
}

func newIntervalTracker[T any](cfg Config) *intervalTracker[T] {
	it := &intervalTracker[T]{
		cfg:       cfg,
		res:       make([]intervalReservation, cfg.TaskNum),
		retiredMu: make([]sync.Mutex, cfg.TaskNum),
		retired:   make([][]intervalRetired[T], cfg.TaskNum),
	}
	for tid := range it.res {
		it.res[tid].lower.Store(maxEpoch)
		it.res[tid].upper.Store(maxEpoch)
	}
	return it
}

func (t *intervalTracker[T]) Policy() Policy { return Interval }

func (t *intervalTracker[T]) Alloc(tid int) (*Node[T], error) {
	return &Node[T]{birthEpoch: t.globalEpoch.Load()}, nil
}

// StartOp opens a new window: entry epoch as the lower bound, an open
// (maxEpoch) upper bound signalling the operation is still in flight.
func (t *intervalTracker[T]) StartOp(tid int) {
	t.res[tid].lower.Store(t.globalEpoch.Load())
	t.res[tid].upper.Store(maxEpoch)
}

// EndOp closes the window at the current epoch; lower stays put until the
// next StartOp so a scan running concurrently with EndOp still sees a
// conservative, closed interval rather than a torn one.
func (t *intervalTracker[T]) EndOp(tid int) {
	t.res[tid].upper.Store(t.globalEpoch.Load())
}

func (t *intervalTracker[T]) Read(from *Node[T], idx, tid int) (*Node[T], bool) {
	return from.loadNext()
}

func (t *intervalTracker[T]) Reserve(n *Node[T], idx, tid int) {}
func (t *intervalTracker[T]) Release(idx, tid int)             {}

func (t *intervalTracker[T]) ClearAll(tid int) {
	t.res[tid].lower.Store(maxEpoch)
	t.res[tid].upper.Store(maxEpoch)
}

func (t *intervalTracker[T]) OARead(from *Node[T], idx, tid int) (*Node[T], bool) {
	return t.Read(from, idx, tid)
}
func (t *intervalTracker[T]) OAClear(tid int)           { t.ClearAll(tid) }
func (t *intervalTracker[T]) CheckWarning(tid int) bool { return false }
func (t *intervalTracker[T]) ResetWarning(tid int)      {}

func (t *intervalTracker[T]) Retire(n *Node[T], tid int) {
	retireEpoch := t.globalEpoch.Load()
	t.retiredMu[tid].Lock()
	t.retired[tid] = append(t.retired[tid], intervalRetired[T]{node: n, birth: n.birthEpoch, retire: retireEpoch})
	t.retiredMu[tid].Unlock()

	t.retiredCount.add(1)
	t.cfg.MetricsCollector.RecordRetire(tid)

	if t.opsSinceAdvance.load()%uint64(t.cfg.EpochFreq) == uint64(t.cfg.EpochFreq-1) {
		newEpoch := t.globalEpoch.Add(1)
		t.cfg.MetricsCollector.RecordEpochAdvance(newEpoch)
		if t.cfg.Collect {
			t.scan(tid)
		}
	}
	t.opsSinceAdvance.add(1)
}

// overlaps reports whether thread tid's published window could have
// observed a node reachable during [birth, retire].
func (t *intervalTracker[T]) overlaps(tid int, birth, retire uint64) bool {
	lower := t.res[tid].lower.Load()
	upper := t.res[tid].upper.Load()
	if lower == maxEpoch {
		return false // never entered, or cleared
	}
	if upper == maxEpoch {
		// Still in flight: only exempt if it started strictly after the
		// node was retired.
		return lower <= retire
	}
	return !(upper < birth || lower > retire)
}

func (t *intervalTracker[T]) safe(birth, retire uint64) bool {
	for tid := range t.res {
		if t.overlaps(tid, birth, retire) {
			return false
		}
	}
	return true
}

func (t *intervalTracker[T]) scan(tid int) {
	t.retiredMu[tid].Lock()
	pending := t.retired[tid]
	t.retired[tid] = nil
	t.retiredMu[tid].Unlock()

	var keep []intervalRetired[T]
	freed := 0
	for _, r := range pending {
		if t.safe(r.birth, r.retire) {
			freed++
			continue
		}
		keep = append(keep, r)
	}

	t.retiredMu[tid].Lock()
	t.retired[tid] = append(keep, t.retired[tid]...)
	t.retiredMu[tid].Unlock()

	if freed > 0 {
		t.reclaimedCount.add(uint64(freed))
		t.cfg.MetricsCollector.RecordReclaim(tid, freed)
	}
}

func (t *intervalTracker[T]) Stats(tid int) TrackerStats {
	t.retiredMu[tid].Lock()
	pending := uint64(len(t.retired[tid]))
	t.retiredMu[tid].Unlock()
	return TrackerStats{
		Retired:   t.retiredCount.load(),
		Reclaimed: t.reclaimedCount.load(),
		Pending:   pending,
		Epoch:     t.globalEpoch.Load(),
	}
}

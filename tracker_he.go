// tracker_he.go: Hazard Eras (spec.md §4.6, policy tag HE=5)
//
// Hazard Eras trades the hazard-pointer protocol's per-node publish for a
// cheaper per-era one: instead of publishing the exact pointer a thread is
// about to dereference, a thread publishes the current global era. A
// retired node stamped with its [birth, retire] era window (both ends
// inclusive) is freed once
// no thread's published era falls inside that window -- a numeric range
// check instead of a pointer-identity scan of every live reservation.
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0

package reclaim

import (
	"sync"
	"sync/atomic"
)

type heRetired[T any] struct {
	node   *Node[T]
	birth  uint64
	retire uint64
}

// heTracker implements Hazard Eras. Each thread has SlotNum era cells, one
// per concurrently in-flight dereference along its traversal (mirroring
// the hazard tracker's per-pointer slots, spec.md §4.2), but a cell holds
// the era active when the read happened rather than the node pointer.
type heTracker[T any] struct {
	cfg Config

	globalEra atomic.Uint64
	eras      [][]atomic.Uint64 // [tid][slot], value maxEpoch means empty

	retiredMu []sync.Mutex
	retired   [][]heRetired[T]

	opsSinceAdvance counter
	retiredCount    counter
	reclaimedCount  counter
}

func newHETracker[T any](cfg Config) *heTracker[T] {
	ht := &heTracker[T]{
		cfg:       cfg,
		eras:      make([][]atomic.Uint64, cfg.TaskNum),
		retiredMu: make([]sync.Mutex, cfg.TaskNum),
		retired:   make([][]heRetired[T], cfg.TaskNum),
	}
	for tid := range ht.eras {
		row := make([]atomic.Uint64, cfg.SlotNum)
		for i := range row {
			row[i].Store(maxEpoch)
		}
		ht.eras[tid] = row
	}
	return ht
}

func (t *heTracker[T]) Policy() Policy { return HE }

func (t *heTracker[T]) Alloc(tid int) (*Node[T], error) {
	return &Node[T]{birthEpoch: t.globalEra.Load()}, nil
}

func (t *heTracker[T]) StartOp(tid int) {}

func (t *heTracker[T]) EndOp(tid int) {
	t.ClearAll(tid)
}

// Read publishes the current era into idx, then loads the link. Because
// the era is published before the load, a retire that completes after the
// publish is guaranteed to see it when computing its [birth, retire]
// window, so no reread-and-verify loop is needed (unlike hazard pointers,
// which must verify the pointer itself didn't change underneath them).
func (t *heTracker[T]) Read(from *Node[T], idx, tid int) (*Node[T], bool) {
	t.eras[tid][idx%len(t.eras[tid])].Store(t.globalEra.Load())
	return from.loadNext()
}

func (t *heTracker[T]) Reserve(n *Node[T], idx, tid int) {
	t.eras[tid][idx%len(t.eras[tid])].Store(t.globalEra.Load())
}

func (t *heTracker[T]) Release(idx, tid int) {
	t.eras[tid][idx%len(t.eras[tid])].Store(maxEpoch)
}

func (t *heTracker[T]) ClearAll(tid int) {
	for i := range t.eras[tid] {
		t.eras[tid][i].Store(maxEpoch)
	}
}

func (t *heTracker[T]) OARead(from *Node[T], idx, tid int) (*Node[T], bool) {
	return t.Read(from, idx, tid)
}
func (t *heTracker[T]) OAClear(tid int)           { t.ClearAll(tid) }
func (t *heTracker[T]) CheckWarning(tid int) bool { return false }
func (t *heTracker[T]) ResetWarning(tid int)      {}

func (t *heTracker[T]) Retire(n *Node[T], tid int) {
	retireEra := t.globalEra.Load()
	t.retiredMu[tid].Lock()
	t.retired[tid] = append(t.retired[tid], heRetired[T]{node: n, birth: n.birthEpoch, retire: retireEra})
	t.retiredMu[tid].Unlock()

	t.retiredCount.add(1)
	t.cfg.MetricsCollector.RecordRetire(tid)

	if t.opsSinceAdvance.load()%uint64(t.cfg.EpochFreq) == uint64(t.cfg.EpochFreq-1) {
		newEra := t.globalEra.Add(1)
		t.cfg.MetricsCollector.RecordEpochAdvance(newEra)
		if t.cfg.Collect {
			t.scan(tid)
		}
	}
	t.opsSinceAdvance.add(1)
}

func (t *heTracker[T]) safe(birth, retire uint64) bool {
	for tid := range t.eras {
		for i := range t.eras[tid] {
			e := t.eras[tid][i].Load()
			if e == maxEpoch {
				continue
			}
			if e >= birth && e <= retire {
				return false
			}
		}
	}
	return true
}

func (t *heTracker[T]) scan(tid int) {
	t.retiredMu[tid].Lock()
	pending := t.retired[tid]
	t.retired[tid] = nil
	t.retiredMu[tid].Unlock()

	var keep []heRetired[T]
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

func (t *heTracker[T]) Stats(tid int) TrackerStats {
	t.retiredMu[tid].Lock()
	pending := uint64(len(t.retired[tid]))
	t.retiredMu[tid].Unlock()
	return TrackerStats{
		Retired:   t.retiredCount.load(),
		Reclaimed: t.reclaimedCount.load(),
		Pending:   pending,
		Epoch:     t.globalEra.Load(),
	}
}

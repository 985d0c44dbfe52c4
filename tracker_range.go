// tracker_range.go: Range, RangeNew and RangeTP (spec.md §4.5, §6 policy
// tags Range=6, RangeNew=8, RangeTP=12)
//
// spec.md names all three tags but only fully specifies one widen
// discipline (§4.5: "read widens upper to the current epoch when it
// changes"). original_source/ds_tracker_range_new.h -- the file the
// Range_new tag is named after -- is the ground truth for disambiguating
// the other two, and it widens upper_reservs[tid] with a plain
// memory_order_seq_cst store inside a retry loop, never a
// compare-and-swap. The retry loop in the original exists to re-read a
// volatile shared epoch counter until a read observes it stable; in this
// port each node's birth epoch is already fixed at Alloc time, so widen
// only needs the plain store itself, no retry.
//
// All three variants therefore widen identically, with a single-writer
// invariant doing the work a CAS would otherwise be asked to do: upper's
// only writer for a given tid is that tid's own goroutine (Read is always
// called on the calling thread's own reservation row), so two widen calls
// on the same row never run concurrently and a plain store cannot lose an
// update. A CAS would close a race that cannot occur here, matching
// nothing in the grounding source.
//
//   - Range:    the baseline widen-on-change store of §4.5.
//   - RangeNew: identical widen; this is the variant the retrieval pack
//     actually documents (ds_tracker_range_new.h), kept as a distinct
//     Policy tag for spec.md §6's test-compatibility requirement even
//     though its widen discipline does not differ from Range's.
//   - RangeTP:  RangeNew's widen plus a per-thread logical timestamp that
//     increments on every widen that actually moves upper. It is kept in
//     the tracker's tp counters; neither Stats nor the reclaim predicate
//     reads it.
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0

package reclaim

import (
	"sync"
	"sync/atomic"
)

type rangeVariant int

const (
	rangePlain rangeVariant = iota
	rangeNew
	rangeTimestamped
)

type rangeRetired[T any] struct {
	node  *Node[T]
	birth uint64
}

// rangeTracker implements Range/RangeNew/RangeTP. Unlike intervalTracker's
// fixed entry window, a range reservation widens in place as the thread
// keeps traversing: each Read extends the thread's upper bound to cover
// whatever it just observed. A retired node is held back for tid while
// tid's upper bound is at or above the node's birth epoch, and is
// reclaimable with respect to tid only when that upper bound is below its
// birth epoch (or tid is inactive).
type rangeTracker[T any] struct {
	variant rangeVariant
	cfg     Config

	globalEpoch atomic.Uint64
	res         []intervalReservation
	tp          []counter // RangeTP only; zero and unused otherwise

	retiredMu []sync.Mutex
	retired   [][]rangeRetired[T]

	opsSinceAdvance counter
	retiredCount    counter
	reclaimedCount  counter
}

func newRangeTracker[T any](cfg Config, variant rangeVariant) *rangeTracker[T] {
	rt := &rangeTracker[T]{
		variant:   variant,
		cfg:       cfg,
		res:       make([]intervalReservation, cfg.TaskNum),
		tp:        make([]counter, cfg.TaskNum),
		retiredMu: make([]sync.Mutex, cfg.TaskNum),
		retired:   make([][]rangeRetired[T], cfg.TaskNum),
	}
	for tid := range rt.res {
		rt.res[tid].lower.Store(maxEpoch)
		rt.res[tid].upper.Store(maxEpoch)
	}
	return rt
}

func (t *rangeTracker[T]) Policy() Policy {
	switch t.variant {
	case rangeNew:
		return RangeNew
	case rangeTimestamped:
		return RangeTP
	default:
		return Range
	}
}

func (t *rangeTracker[T]) Alloc(tid int) (*Node[T], error) {
	return &Node[T]{birthEpoch: t.globalEpoch.Load()}, nil
}

func (t *rangeTracker[T]) StartOp(tid int) {
	e := t.globalEpoch.Load()
	t.res[tid].lower.Store(e)
	t.res[tid].upper.Store(e)
}

func (t *rangeTracker[T]) EndOp(tid int) {
	t.res[tid].lower.Store(maxEpoch)
	t.res[tid].upper.Store(maxEpoch)
}

// Read loads the next node and widens tid's reservation to cover it before
// returning, per the scheme's widen discipline.
func (t *rangeTracker[T]) Read(from *Node[T], idx, tid int) (*Node[T], bool) {
	n, marked := from.loadNext()
	if n != nil {
		t.widen(tid, n.birthEpoch)
	}
	return n, marked
}

// widen extends tid's upper bound to epoch if it actually moved forward.
// upper is only ever written by tid's own goroutine, so the load-then-
// store below cannot race with another widen on the same row; see the
// file doc comment for why this is a plain store in every variant, not a
// CAS, matching original_source/ds_tracker_range_new.h's read().
func (t *rangeTracker[T]) widen(tid int, epoch uint64) {
	if epoch <= t.res[tid].upper.Load() {
		return
	}
	t.res[tid].upper.Store(epoch)
	if t.variant == rangeTimestamped {
		t.tp[tid].add(1)
	}
}

func (t *rangeTracker[T]) Reserve(n *Node[T], idx, tid int) {}
func (t *rangeTracker[T]) Release(idx, tid int)             {}

func (t *rangeTracker[T]) ClearAll(tid int) {
	t.res[tid].lower.Store(maxEpoch)
	t.res[tid].upper.Store(maxEpoch)
}

func (t *rangeTracker[T]) OARead(from *Node[T], idx, tid int) (*Node[T], bool) {
	return t.Read(from, idx, tid)
}
func (t *rangeTracker[T]) OAClear(tid int)           { t.ClearAll(tid) }
func (t *rangeTracker[T]) CheckWarning(tid int) bool { return false }
func (t *rangeTracker[T]) ResetWarning(tid int)      {}

func (t *rangeTracker[T]) Retire(n *Node[T], tid int) {
	t.retiredMu[tid].Lock()
	t.retired[tid] = append(t.retired[tid], rangeRetired[T]{node: n, birth: n.birthEpoch})
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

func (t *rangeTracker[T]) safe(birth uint64) bool {
	for tid := range t.res {
		lower := t.res[tid].lower.Load()
		if lower == maxEpoch {
			continue
		}
		if t.res[tid].upper.Load() >= birth {
			return false
		}
	}
	return true
}

func (t *rangeTracker[T]) scan(tid int) {
	t.retiredMu[tid].Lock()
	pending := t.retired[tid]
	t.retired[tid] = nil
	t.retiredMu[tid].Unlock()

	var keep []rangeRetired[T]
	freed := 0
	for _, r := range pending {
		if t.safe(r.birth) {
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

func (t *rangeTracker[T]) Stats(tid int) TrackerStats {
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

// tracker_oa.go: Optimistic Access (spec.md §4.7, policy tag OA=20)
//
// OA trades hazard pointers' reserve-then-reread verification loop for a
// single publish: a thread loads a pointer and immediately reserves it,
// accepting that in the small window between the two a reclaiming thread
// could already be rotating that node out. The correctness backstop is a
// per-thread warning bit: before a reclaiming thread hands retired nodes
// back to the allocation pool, it raises the warning bit of every thread
// that was mid-operation during the rotation. A thread checks its own
// warning bit before returning a traversal result; if set, the traversal
// may have observed a node mid-reuse and is restarted from scratch
// (list.go's find does this check and restart).
//
// This generalizes the three-stage pool pipeline spec.md §4.7 describes
// (collecting / quarantined / ready) into a two-stage rotation (collecting
// / ready-to-free) plus a reusable free list, and raises the warning bit
// for every thread that was active during a rotation rather than only
// threads provably touching the rotated nodes -- simpler than per-node
// tracking, at the cost of occasional spurious restarts.
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0

package reclaim

import "sync"

type oaTracker[T any] struct {
	cfg   Config
	slots *slotTable[T]

	activeMu sync.Mutex
	active   []bool

	warnMu sync.Mutex
	warn   []warningBit

	poolMu     sync.Mutex
	version    uint64
	collecting []*Node[T]
	ready      []*Node[T]
	freeList   *Node[T]

	retiredCount   counter
	reclaimedCount counter
	restartCount   counter
}

func newOATracker[T any](cfg Config) *oaTracker[T] {
	return &oaTracker[T]{
		cfg:    cfg,
		slots:  newSlotTable[T](cfg.TaskNum, cfg.SlotNum, false),
		active: make([]bool, cfg.TaskNum),
		warn:   make([]warningBit, cfg.TaskNum),
	}
}

func (t *oaTracker[T]) Policy() Policy { return OA }

// Alloc pops from the free list built by rotate's reclaim pass before
// falling back to a fresh allocation (spec.md §4.7's pooled allocation).
func (t *oaTracker[T]) Alloc(tid int) (*Node[T], error) {
	t.poolMu.Lock()
	n := t.freeList
	if n != nil {
		t.freeList = n.poolNext
	}
	version := t.version
	t.poolMu.Unlock()

	if n == nil {
		return &Node[T]{poolVersion: version}, nil
	}
	var zero T
	n.Value = zero
	n.poolNext = nil
	n.poolVersion = version
	n.storeNext(nil)
	return n, nil
}

func (t *oaTracker[T]) StartOp(tid int) {
	t.activeMu.Lock()
	t.active[tid] = true
	t.activeMu.Unlock()
}

func (t *oaTracker[T]) EndOp(tid int) {
	t.activeMu.Lock()
	t.active[tid] = false
	t.activeMu.Unlock()
	t.slots.clearAll(tid)
}

// Read publishes the loaded pointer immediately, with no reread-and-verify
// pass: the fast optimistic path (spec.md §4.7).
func (t *oaTracker[T]) Read(from *Node[T], idx, tid int) (*Node[T], bool) {
	n, marked := from.loadNext()
	if n != nil {
		t.slots.reserve(tid, idx, n)
	} else {
		t.slots.release(tid, idx)
	}
	return n, marked
}

func (t *oaTracker[T]) Reserve(n *Node[T], idx, tid int) { t.slots.reserve(tid, idx, n) }
func (t *oaTracker[T]) Release(idx, tid int)             { t.slots.release(tid, idx) }
func (t *oaTracker[T]) ClearAll(tid int)                 { t.slots.clearAll(tid) }

func (t *oaTracker[T]) OARead(from *Node[T], idx, tid int) (*Node[T], bool) {
	return t.Read(from, idx, tid)
}
func (t *oaTracker[T]) OAClear(tid int) { t.ClearAll(tid) }

func (t *oaTracker[T]) CheckWarning(tid int) bool {
	t.warnMu.Lock()
	defer t.warnMu.Unlock()
	return t.warn[tid].set != 0
}

func (t *oaTracker[T]) ResetWarning(tid int) {
	t.warnMu.Lock()
	wasSet := t.warn[tid].set != 0
	t.warn[tid].set = 0
	t.warnMu.Unlock()

	if wasSet {
		t.restartCount.add(1)
		t.cfg.MetricsCollector.RecordRestart(tid)
	}
}

// Retire moves n into the collecting stage; once it holds EmptyFreq
// entries the pool rotates. With Collect false the pool never rotates.
func (t *oaTracker[T]) Retire(n *Node[T], tid int) {
	t.poolMu.Lock()
	t.collecting = append(t.collecting, n)
	due := t.cfg.Collect && len(t.collecting) >= t.cfg.EmptyFreq
	t.poolMu.Unlock()

	t.retiredCount.add(1)
	t.cfg.MetricsCollector.RecordRetire(tid)
	if due {
		t.rotate(tid)
	}
}

// rotate advances the pipeline: the previously-ready stage is scanned
// against the live slot table (anything still hazarded is requeued rather
// than freed), survivors are handed to the free list, and every thread
// active during the rotation has its warning bit raised.
func (t *oaTracker[T]) rotate(tid int) {
	t.activeMu.Lock()
	t.warnMu.Lock()
	for i, a := range t.active {
		if a {
			t.warn[i].set = 1
		}
	}
	t.warnMu.Unlock()
	t.activeMu.Unlock()

	t.poolMu.Lock()
	toFree := t.ready
	t.ready = t.collecting
	t.collecting = nil
	t.version++
	newVersion := t.version
	t.poolMu.Unlock()

	if len(toFree) == 0 {
		return
	}

	live := t.slots.snapshot()
	freed := 0
	var requeue []*Node[T]
	var freeHead *Node[T]
	for _, n := range toFree {
		if _, held := live[n]; held {
			requeue = append(requeue, n)
			continue
		}
		n.poolNext = freeHead
		n.poolVersion = newVersion
		freeHead = n
		freed++
	}

	t.poolMu.Lock()
	if requeue != nil {
		t.ready = append(t.ready, requeue...)
	}
	if freeHead != nil {
		tail := freeHead
		for tail.poolNext != nil {
			tail = tail.poolNext
		}
		tail.poolNext = t.freeList
		t.freeList = freeHead
	}
	t.poolMu.Unlock()

	if freed > 0 {
		t.reclaimedCount.add(uint64(freed))
		t.cfg.MetricsCollector.RecordReclaim(tid, freed)
	}
}

// trimFreeList caps the free list at bound entries, dropping any excess so
// the runtime garbage collector can reclaim them. Used by BOA to keep the
// pool from growing past its predicted demand (spec.md §4.8).
func (t *oaTracker[T]) trimFreeList(bound uint64) {
	t.poolMu.Lock()
	defer t.poolMu.Unlock()
	if bound == maxEpoch {
		return // unbounded: BOA hasn't completed its first prediction bucket yet
	}
	n := t.freeList
	var kept uint64
	var prev *Node[T]
	for n != nil && kept < bound {
		prev = n
		n = n.poolNext
		kept++
	}
	if prev != nil {
		prev.poolNext = nil
	} else {
		t.freeList = nil
	}
}

func (t *oaTracker[T]) Stats(tid int) TrackerStats {
	t.poolMu.Lock()
	pending := uint64(len(t.collecting) + len(t.ready))
	epoch := t.version
	t.poolMu.Unlock()
	return TrackerStats{
		Retired:   t.retiredCount.load(),
		Reclaimed: t.reclaimedCount.load(),
		Pending:   pending,
		Restarts:  t.restartCount.load(),
		Epoch:     epoch,
	}
}

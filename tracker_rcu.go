// tracker_rcu.go: RCU and QSBR (spec.md §4.3, §6 policy tags RCU=2, QSBR=10)
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0

package reclaim

import (
	"sync"
	"sync/atomic"
)

// epochRetired pairs a retired node with the global epoch it was retired
// under; it is safe to free once every thread's published reservation has
// moved past that epoch.
type epochRetired[T any] struct {
	node  *Node[T]
	epoch uint64
}

// epochTracker implements RCU's offline-on-end_op reservation discipline
// and QSBR's online-between-ops discipline with the same reclaim
// predicate: a node retired at epoch E is freed once every thread's
// reservation row reads either inactive (maxEpoch) or an epoch strictly
// greater than E.
//
// The two schemes differ only in when a thread publishes: QSBR (online)
// publishes the current epoch at StartOp and keeps it live until EndOp
// clears it, so a thread is "on-line" for its whole operation; RCU
// (offline) never publishes at StartOp and instead publishes the epoch it
// has reached only at EndOp, announcing the quiescent point it just passed
// through.
type epochTracker[T any] struct {
	policy Policy
	cfg    Config
	online bool

	globalEpoch atomic.Uint64
	res         []reservation

	retiredMu []sync.Mutex
	retired   [][]epochRetired[T]

	opsSinceAdvance counter
	retiredCount    counter
	reclaimedCount  counter
}

func newEpochTracker[T any](cfg Config, online bool) *epochTracker[T] {
	policy := RCU
	if online {
		policy = QSBR
	}
	et := &epochTracker[T]{
		policy:    policy,
		cfg:       cfg,
		online:    online,
		res:       make([]reservation, cfg.TaskNum),
		retiredMu: make([]sync.Mutex, cfg.TaskNum),
		retired:   make([][]epochRetired[T], cfg.TaskNum),
	}
	for tid := range et.res {
		et.res[tid].epoch.Store(maxEpoch)
	}
	return et
}

func (t *epochTracker[T]) Policy() Policy { return t.policy }

func (t *epochTracker[T]) Alloc(tid int) (*Node[T], error) {
	n := &Node[T]{birthEpoch: t.globalEpoch.Load()}
	return n, nil
}

func (t *epochTracker[T]) StartOp(tid int) {
	if t.online {
		t.res[tid].epoch.Store(t.globalEpoch.Load())
	}
}

func (t *epochTracker[T]) EndOp(tid int) {
	if t.online {
		t.res[tid].epoch.Store(maxEpoch)
		return
	}
	// RCU: announce the quiescent point just reached.
	t.res[tid].epoch.Store(t.globalEpoch.Load())
}

// Read is a plain protected load: the thread's own reservation (published
// at StartOp for QSBR; for RCU, whatever its last EndOp published) is what
// keeps the node from being freed underneath it; no per-pointer slot is
// needed.
func (t *epochTracker[T]) Read(from *Node[T], idx, tid int) (*Node[T], bool) {
	return from.loadNext()
}

func (t *epochTracker[T]) Reserve(n *Node[T], idx, tid int) {}
func (t *epochTracker[T]) Release(idx, tid int)             {}

func (t *epochTracker[T]) ClearAll(tid int) {
	t.res[tid].epoch.Store(maxEpoch)
}

func (t *epochTracker[T]) OARead(from *Node[T], idx, tid int) (*Node[T], bool) {
	return t.Read(from, idx, tid)
}
func (t *epochTracker[T]) OAClear(tid int)            { t.ClearAll(tid) }
func (t *epochTracker[T]) CheckWarning(tid int) bool  { return false }
func (t *epochTracker[T]) ResetWarning(tid int)       {}

// Retire records n against the current global epoch, then advances the
// epoch and sweeps every EpochFreq retirements (spec.md §4.3's epoch_freq).
func (t *epochTracker[T]) Retire(n *Node[T], tid int) {
	e := t.globalEpoch.Load()
	t.retiredMu[tid].Lock()
	t.retired[tid] = append(t.retired[tid], epochRetired[T]{node: n, epoch: e})
	t.retiredMu[tid].Unlock()

	t.retiredCount.add(1)
	t.cfg.MetricsCollector.RecordRetire(tid)

	if t.opsSinceAdvance.load()%uint64(t.cfg.EpochFreq) == uint64(t.cfg.EpochFreq-1) {
		t.advance(tid)
	}
	t.opsSinceAdvance.add(1)
}

func (t *epochTracker[T]) advance(tid int) {
	newEpoch := t.globalEpoch.Add(1)
	t.cfg.MetricsCollector.RecordEpochAdvance(newEpoch)
	if t.cfg.Collect {
		t.scan(tid)
	}
}

func (t *epochTracker[T]) safe(e uint64) bool {
	for i := range t.res {
		r := t.res[i].epoch.Load()
		if r == maxEpoch {
			continue
		}
		if r <= e {
			return false
		}
	}
	return true
}

func (t *epochTracker[T]) scan(tid int) {
	t.retiredMu[tid].Lock()
	pending := t.retired[tid]
	t.retired[tid] = nil
	t.retiredMu[tid].Unlock()

	var keep []epochRetired[T]
	freed := 0
	for _, r := range pending {
		if t.safe(r.epoch) {
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

func (t *epochTracker[T]) Stats(tid int) TrackerStats {
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

// tracker.go: the shared reclamation scheme contract (spec.md §4.1)
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0

package reclaim

// Tracker is the operation surface every reclamation scheme implements
// (spec.md §4.1). List[T] is written entirely against this interface; the
// concrete scheme is selected once, at construction, by MemoryTracker
// (facade.go).
//
// All methods are safe for concurrent use across goroutines, each
// identified by its own tid in [0, TaskNum). Methods are not lock-free:
// the trackers guard slot-table rows, per-thread retired lists and the
// OA/BOA pool, activity and warning state with sync.Mutex, so a call can
// block while another thread holds one of those locks.
type Tracker[T any] interface {
	// Alloc returns a freshly stamped node (birth epoch recorded for
	// epoch-aware schemes). OA/BOA pop a node from their free list when one
	// is available; no scheme runs reclamation in Alloc.
	Alloc(tid int) (*Node[T], error)

	// StartOp records tid's entry into a new logical operation: arms slots
	// or publishes the thread's entry epoch, per scheme.
	StartOp(tid int)

	// EndOp releases tid's per-operation state: clears slots and/or
	// publishes an inactive reservation.
	EndOp(tid int)

	// Read is a safe load: it returns the node currently linked from
	// `from`'s next field (and whether that link is delete-marked),
	// guaranteeing the returned pointer remains valid until `idx` is
	// released or tid's operation window closes. The hazard schemes loop
	// until the published pointer is confirmed (spec.md §4.1, §4.2); the
	// epoch, era, range and optimistic schemes load the link once.
	Read(from *Node[T], idx, tid int) (next *Node[T], marked bool)

	// Reserve explicitly publishes a hazard reservation for n into slot
	// idx (hazard-like schemes; a no-op for pure epoch schemes).
	Reserve(n *Node[T], idx, tid int)

	// Release clears slot idx for tid.
	Release(idx, tid int)

	// ClearAll clears every slot/reservation tid holds.
	ClearAll(tid int)

	// Retire marks n as logically removed and hands it to the tracker;
	// physical free is deferred until the safety predicate proves no
	// thread can still observe n.
	Retire(n *Node[T], tid int)

	// OARead is the optimistic-extension counterpart of Read: it posts the
	// unmarked pointer into a hazard slot without Read's stability-reload
	// loop (spec.md §4.7). Non-optimistic schemes implement it as Read.
	OARead(from *Node[T], idx, tid int) (next *Node[T], marked bool)

	// OAClear is the optimistic-extension counterpart of ClearAll.
	// Non-optimistic schemes implement it as ClearAll.
	OAClear(tid int)

	// CheckWarning reports whether tid's warning bit is set: a reclaiming
	// thread raised it because it may have freed memory tid is holding a
	// stale pointer into. Non-optimistic schemes always return false.
	CheckWarning(tid int) bool

	// ResetWarning clears tid's warning bit after tid has restarted its
	// operation. Non-optimistic schemes implement it as a no-op.
	ResetWarning(tid int)

	// Stats returns a counter snapshot for tid (spec.md §6's
	// report_retired(tid), generalized; see TrackerStats for which fields
	// are tracker-wide).
	Stats(tid int) TrackerStats

	// Policy returns the scheme's policy tag.
	Policy() Policy
}

// node.go: the reclamation-tracked allocation unit and marked-pointer link
//
// spec.md §3 describes the allocation unit as a raw byte block
// (sizeof(T)+16, with birth/retire epoch trailers at fixed offsets) and the
// list node's next pointer as carrying a delete-mark in its low bit.
// spec.md §9's Design Notes explicitly steer a systems-language rewrite
// away from both of these C idioms: prefer a wrapper record over pointer
// arithmetic on byte offsets, and prefer a double-word (or wider atomic)
// over packing a tag into a pointer's low bits (the Cptr bug it calls out
// is exactly what that packing does wrong on 64-bit hosts).
//
// Node[T] is that wrapper record: birth/retire epochs are ordinary struct
// fields, never raw bytes. link[T] is the double-word: an immutable
// {next, marked} pair that is itself swapped with one
// atomic.Pointer[link[T]].CompareAndSwap, so the mark and the pointer
// change together in a single atomic step exactly as spec.md's invariant
// requires, without tagging a real pointer.
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0

package reclaim

import "sync/atomic"

// Node is the tracker-managed allocation unit: it carries a user value plus
// the epoch trailers every epoch-aware scheme needs, and (when used by
// List[T]) the marked-pointer link to the next node.
type Node[T any] struct {
	// Value is the user payload. T should be trivially destructible, or
	// re-initializable by plain assignment: BOA recycles Node[T] storage
	// without running any destructor (spec.md §5 "Safety requirement on
	// the user").
	Value T

	next atomic.Pointer[link[T]]

	// birthEpoch is the global epoch at allocation time (spec.md §3).
	// Unused (left zero) by Hazard/HazardDynamic/OA/BOA/NIL.
	birthEpoch uint64

	// retireEpoch is the global epoch at retire time (spec.md §3). No
	// tracker in this package writes it: the epoch-aware schemes keep the
	// retire-time value on their own retired-list entries instead
	// (epochRetired, intervalRetired and heRetired; rangeRetired keeps only
	// the birth epoch).
	retireEpoch uint64

	// poolNext links this node into a tracker's intrusive free list
	// (the OA/BOA free list). Owned exclusively by
	// whichever tracker currently holds the node; never read by List[T].
	poolNext *Node[T]

	// poolVersion is the OA/BOA pool-rotation version this node was pushed
	// under (spec.md §4.7 "Add(obj, version)").
	poolVersion uint64
}

// link is the marked-pointer payload of a Node's next field: the Go
// rendering of "the low bit of next is the delete-mark" (spec.md §3).
type link[T any] struct {
	next   *Node[T]
	marked bool
}

// loadNext returns the next node and its delete-mark.
func (n *Node[T]) loadNext() (next *Node[T], marked bool) {
	l := n.next.Load()
	if l == nil {
		return nil, false
	}
	return l.next, l.marked
}

// casNext attempts to atomically replace next's link with a new one
// carrying newNext and newMarked, succeeding only if the current link is
// still (oldNext, oldMarked).
func (n *Node[T]) casNext(oldNext *Node[T], oldMarked bool, newNext *Node[T], newMarked bool) bool {
	old := n.next.Load()
	if old == nil {
		if oldNext != nil || oldMarked {
			return false
		}
	} else if old.next != oldNext || old.marked != oldMarked {
		return false
	}
	return n.next.CompareAndSwap(old, &link[T]{next: newNext, marked: newMarked})
}

// storeNext unconditionally installs a fresh, unmarked next pointer. Used
// only at construction time (new node's own next field) and never on a
// node already reachable from other threads.
func (n *Node[T]) storeNext(next *Node[T]) {
	n.next.Store(&link[T]{next: next})
}

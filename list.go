// list.go: the Harris-Michael lock-free ordered singly-linked set
// (spec.md §4.9)
//
// The list is written entirely against the Tracker[T] contract (tracker.go):
// every traversal step goes through Read so the same code runs correctly
// under any reclamation scheme the facade can construct (facade.go).
// Logical deletion marks a node's next link (Node.casNext's marked bit);
// physical unlinking is then opportunistic, performed by whichever thread
// -- the deleter or a later Find/Insert/Delete traversing past it -- gets
// there first, the standard Harris-Michael discipline.
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0

package reclaim

// Less orders two values of T. List requires a strict weak ordering:
// Less(a, b) && Less(b, a) must never both hold.
type Less[T any] func(a, b T) bool

// List is a lock-free ordered set of T, reclaiming removed nodes through
// whichever Tracker Config.Policy selects.
type List[T any] struct {
	head    *Node[T]
	less    Less[T]
	tracker Tracker[T]
	size    counter
}

// NewList constructs an empty List ordered by less, using the reclamation
// scheme described by cfg (spec.md §4.10's constructor, spec.md §4.9's
// list operations).
func NewList[T any](less Less[T], cfg Config) (*List[T], error) {
	tracker, err := MemoryTracker[T](cfg)
	if err != nil {
		return nil, err
	}
	head := &Node[T]{}
	head.storeNext(nil)
	return &List[T]{head: head, less: less, tracker: tracker}, nil
}

func (l *List[T]) equal(a, b T) bool {
	return !l.less(a, b) && !l.less(b, a)
}

// find returns the predecessor/current pair that brackets key: curr is the
// first unmarked node with value >= key (or nil at the tail), pred is its
// immediate live predecessor. Any marked nodes encountered along the way
// are physically unlinked and retired before find moves past them.
//
// Before returning, find checks the tracker's warning bit and restarts from
// the head if it is set (spec.md §4.9's Search: "check the warning bit and
// restart"; spec.md §4.7 item 4). Under OA/BOA a traversal that raced with
// a pool rotation may have walked through a recycled node, so the result it
// was about to return cannot be trusted; every caller -- Insert, Delete and
// Find alike -- gets this check for free since they all route through
// find. Schemes other than OA/BOA never set the bit, so this is a no-op
// everywhere else.
func (l *List[T]) find(tid int, key T) (pred, curr *Node[T], found bool) {
restart:
	pred = l.head
	curr, _ = l.tracker.Read(pred, 0, tid)
	for curr != nil {
		succ, marked := l.tracker.Read(curr, 1, tid)
		if marked {
			if !pred.casNext(curr, false, succ, false) {
				goto restart
			}
			l.tracker.Retire(curr, tid)
			curr = succ
			l.tracker.Reserve(curr, 0, tid)
			continue
		}
		if l.equal(curr.Value, key) {
			if l.consumeWarning(tid) {
				goto restart
			}
			return pred, curr, true
		}
		if l.less(key, curr.Value) {
			if l.consumeWarning(tid) {
				goto restart
			}
			return pred, curr, false
		}
		pred = curr
		curr = succ
		l.tracker.Reserve(curr, 0, tid)
	}
	if l.consumeWarning(tid) {
		goto restart
	}
	return pred, curr, false
}

// consumeWarning reports whether tid's warning bit was set, clearing it
// first so a caller that restarts does not immediately see it set again.
func (l *List[T]) consumeWarning(tid int) bool {
	if l.tracker.CheckWarning(tid) {
		l.tracker.ResetWarning(tid)
		return true
	}
	return false
}

// Insert adds value to the set, returning false if an equal value is
// already present.
func (l *List[T]) Insert(tid int, value T) (bool, error) {
	l.tracker.StartOp(tid)
	defer l.tracker.EndOp(tid)

	for {
		pred, curr, found := l.find(tid, value)
		if found {
			return false, nil
		}
		n, err := l.tracker.Alloc(tid)
		if err != nil {
			return false, err
		}
		n.Value = value
		n.storeNext(curr)
		if pred.casNext(curr, false, n, false) {
			l.size.add(1)
			return true, nil
		}
	}
}

// Delete removes value from the set, returning false if it was not
// present. The node is logically marked immediately; physical unlink and
// retire may be completed by this call or, if it loses the unlink race, by
// a later traversal.
func (l *List[T]) Delete(tid int, value T) (bool, error) {
	l.tracker.StartOp(tid)
	defer l.tracker.EndOp(tid)

	for {
		pred, curr, found := l.find(tid, value)
		if !found {
			return false, nil
		}
		succ, marked := curr.loadNext()
		if marked {
			continue // lost the mark race to a concurrent Delete, retry
		}
		if !curr.casNext(succ, false, succ, true) {
			continue
		}
		l.size.add(^uint64(0)) // size--
		if pred.casNext(curr, false, succ, false) {
			l.tracker.Retire(curr, tid)
		}
		return true, nil
	}
}

// Find reports whether value is present, returning its stored copy. Under
// OA/BOA, find's own warning-bit check (see find's doc comment) already
// restarted the traversal as many times as needed, so by the time it
// returns here the result is trustworthy.
func (l *List[T]) Find(tid int, value T) (T, bool) {
	l.tracker.StartOp(tid)
	defer l.tracker.EndOp(tid)

	_, curr, found := l.find(tid, value)
	if !found {
		var zero T
		return zero, false
	}
	return curr.Value, true
}

// CheckWarning reports whether tid's warning bit is currently set (spec.md
// §4.7). Insert/Delete/Find all consume it internally through find before
// returning, so under normal use this observes a transient mid-traversal
// state at best; exposed mainly for tests and diagnostics.
func (l *List[T]) CheckWarning(tid int) bool {
	return l.tracker.CheckWarning(tid)
}

// ResetWarning clears tid's warning bit.
func (l *List[T]) ResetWarning(tid int) {
	l.tracker.ResetWarning(tid)
}

// Size returns the set's current element count. Concurrent Insert/Delete
// calls may be in flight, so the value is a snapshot, not a linearizable
// count.
func (l *List[T]) Size() uint64 {
	return l.size.load()
}

// ReportRetired returns the tracker's retired-node count (spec.md §6's
// report_retired(tid)); the count covers all threads, not only tid.
func (l *List[T]) ReportRetired(tid int) uint64 {
	return l.tracker.Stats(tid).Retired
}

// Stats returns tid's full tracker snapshot (spec.md §7 supplemented
// feature): retired/reclaimed/pending counts, restarts and current epoch,
// whatever the underlying scheme populates.
func (l *List[T]) Stats(tid int) TrackerStats {
	return l.tracker.Stats(tid)
}

// Policy returns the reclamation scheme backing this list.
func (l *List[T]) Policy() Policy {
	return l.tracker.Policy()
}

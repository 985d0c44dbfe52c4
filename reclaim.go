// reclaim.go: package-level constants for reclaim
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0

package reclaim

// Version of the reclaim library.
const Version = "v0.1.0-dev"

// Policy selects a reclamation scheme for MemoryTracker and List.
//
// Numeric values are stable identifiers preserved for test and wire
// compatibility with the original scheme catalogue; do not renumber.
type Policy int

const (
	// NIL disables reclamation entirely: retire is a no-op, alloc always
	// allocates fresh. Useful as a correctness baseline with no safety
	// tracking at all.
	NIL Policy = 0

	// Hazard is the hazard-pointer tracker (§4.2), starting with SlotNum
	// slots per thread.
	Hazard Policy = 1

	// RCU is the single-epoch tracker (§4.3) in which StartOp publishes
	// nothing and EndOp publishes the current epoch; that reservation stays
	// in force until the thread's next EndOp. EndOp does not clear it.
	RCU Policy = 2

	// HazardDynamic is the hazard-pointer tracker whose slot table grows on
	// demand. Hazard's table grows the same way (see slots.go), so the two
	// differ only in their policy tag.
	HazardDynamic Policy = 3

	// Interval is the interval tracker (§4.4): each thread publishes a
	// (lower, upper) epoch window.
	Interval Policy = 4

	// HE is the hazard-era tracker (§4.6).
	HE Policy = 5

	// Range is the baseline range tracker (§4.5): upper widened via a
	// plain sequentially-consistent store.
	Range Policy = 6

	// RangeNew is the range tracker with the same plain-store widen as
	// Range, kept as a separate tag.
	RangeNew Policy = 8

	// QSBR is the single-epoch tracker (§4.3) in which StartOp publishes
	// the current epoch and EndOp clears it; a thread holds no reservation
	// between operations.
	QSBR Policy = 10

	// RangeTP is RangeNew plus a per-thread logical timestamp counting
	// widens ("timestamp-protected"); the reclaim predicate does not read it.
	RangeTP Policy = 12

	// OA is the optimistic, hazard-backed tracker with a three-stage pool
	// pipeline and warning-bit restart protocol (§4.7).
	OA Policy = 20

	// BOA is the bounded-optimistic tracker with ARIMA-style demand
	// prediction capping the free list (§4.8).
	BOA Policy = 21
)

// String returns the canonical name of the policy.
func (p Policy) String() string {
	switch p {
	case NIL:
		return "NIL"
	case Hazard:
		return "Hazard"
	case RCU:
		return "RCU"
	case HazardDynamic:
		return "HazardDynamic"
	case Interval:
		return "Interval"
	case HE:
		return "HE"
	case Range:
		return "Range"
	case RangeNew:
		return "RangeNew"
	case QSBR:
		return "QSBR"
	case RangeTP:
		return "RangeTP"
	case OA:
		return "OA"
	case BOA:
		return "BOA"
	default:
		return "Unknown"
	}
}

// maxEpoch marks an inactive reservation, per spec.md §3.
const maxEpoch = ^uint64(0)

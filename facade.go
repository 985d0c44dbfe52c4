// facade.go: MemoryTracker constructor (spec.md §4.10)
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0

package reclaim

// nilTracker implements Policy NIL: no reservation, no retired list, every
// Retire is a no-op and every Alloc is a fresh allocation. Useful as a
// correctness baseline with zero reclamation overhead (spec.md §4.10).
type nilTracker[T any] struct{}

func (nilTracker[T]) Policy() Policy { return NIL }

func (nilTracker[T]) Alloc(tid int) (*Node[T], error) { return &Node[T]{}, nil }
func (nilTracker[T]) StartOp(tid int)                 {}
func (nilTracker[T]) EndOp(tid int)                   {}
func (nilTracker[T]) Read(from *Node[T], idx, tid int) (*Node[T], bool) {
	return from.loadNext()
}
func (nilTracker[T]) Reserve(n *Node[T], idx, tid int) {}
func (nilTracker[T]) Release(idx, tid int)             {}
func (nilTracker[T]) ClearAll(tid int)                 {}
func (nilTracker[T]) Retire(n *Node[T], tid int)       {}
func (t nilTracker[T]) OARead(from *Node[T], idx, tid int) (*Node[T], bool) {
	return t.Read(from, idx, tid)
}
func (nilTracker[T]) OAClear(tid int)            {}
func (nilTracker[T]) CheckWarning(tid int) bool  { return false }
func (nilTracker[T]) ResetWarning(tid int)       {}
func (nilTracker[T]) Stats(tid int) TrackerStats { return TrackerStats{} }

// MemoryTracker constructs the Tracker implementation selected by
// cfg.Policy, applying Config.Validate's defaults first (spec.md §4.10's
// MemoryTracker(task_num, policy, epoch_freq, empty_freq, slot_num,
// collect) constructor).
func MemoryTracker[T any](cfg Config) (Tracker[T], error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	switch cfg.Policy {
	case NIL:
		return nilTracker[T]{}, nil
	case Hazard:
		return newHazardTracker[T](cfg, false), nil
	case HazardDynamic:
		return newHazardTracker[T](cfg, true), nil
	case RCU:
		return newEpochTracker[T](cfg, false), nil
	case QSBR:
		return newEpochTracker[T](cfg, true), nil
	case Interval:
		return newIntervalTracker[T](cfg), nil
	case HE:
		return newHETracker[T](cfg), nil
	case Range:
		return newRangeTracker[T](cfg, rangePlain), nil
	case RangeNew:
		return newRangeTracker[T](cfg, rangeNew), nil
	case RangeTP:
		return newRangeTracker[T](cfg, rangeTimestamped), nil
	case OA:
		return newOATracker[T](cfg), nil
	case BOA:
		return newBOATracker[T](cfg), nil
	default:
		return nil, NewErrInvalidPolicy(cfg.Policy)
	}
}

// slots.go: the hazard-pointer slot table shared by Hazard, HazardDynamic
// and OA/BOA (spec.md §4.2, §4.7)
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0

package reclaim

import (
	"sync"
	"sync/atomic"
)

// slotCell is one published hazard reservation, cache-line padded so two
// threads publishing into adjacent cells never false-share.
type slotCell[T any] struct {
	ptr atomic.Pointer[Node[T]]
	_   [defaultCacheLineSize - 8]byte
}

// slotTable is a [taskNum][slotNum]slotCell matrix: row tid is owned
// exclusively by thread tid for writes, and is scanned (read-only) by any
// thread running reclamation. Every row starts minWidth cells wide and
// grows on demand when a caller asks for an index beyond its current
// width; this happens whether or not the table was built dynamic, so the
// dynamic flag does not change growth (spec.md §6 names the "Hazard
// Dynamic" tag without fixing its slot discipline; growth-on-demand is
// this library's resolution, recorded in DESIGN.md).
type slotTable[T any] struct {
	taskNum  int
	dynamic  bool
	rowMu    []sync.Mutex
	rows     [][]*slotCell[T]
	minWidth int
}

// newSlotTable builds a table with taskNum rows, each minWidth cells wide.
// reserve grows a row past minWidth as needed, for dynamic and fixed
// tables alike, so an out-of-range index never panics.
func newSlotTable[T any](taskNum, minWidth int, dynamic bool) *slotTable[T] {
	st := &slotTable[T]{
		taskNum:  taskNum,
		dynamic:  dynamic,
		rowMu:    make([]sync.Mutex, taskNum),
		rows:     make([][]*slotCell[T], taskNum),
		minWidth: minWidth,
	}
	for tid := 0; tid < taskNum; tid++ {
		st.rows[tid] = makeRow[T](minWidth)
	}
	return st
}

func makeRow[T any](width int) []*slotCell[T] {
	row := make([]*slotCell[T], width)
	for i := range row {
		row[i] = &slotCell[T]{}
	}
	return row
}

// reserve publishes n into tid's slot idx. When idx is beyond the row's
// current width, the row is grown under tid's own
// lock first; since only tid ever writes its own row, the grow is
// uncontended in the common case.
func (st *slotTable[T]) reserve(tid, idx int, n *Node[T]) {
	row := st.row(tid, idx)
	row[idx].ptr.Store(n)
}

// release clears tid's slot idx.
func (st *slotTable[T]) release(tid, idx int) {
	st.rowMu[tid].Lock()
	width := len(st.rows[tid])
	st.rowMu[tid].Unlock()
	if idx >= width {
		return
	}
	st.rows[tid][idx].ptr.Store(nil)
}

// clearAll clears every slot tid has ever grown into.
func (st *slotTable[T]) clearAll(tid int) {
	st.rowMu[tid].Lock()
	row := st.rows[tid]
	st.rowMu[tid].Unlock()
	for _, cell := range row {
		cell.ptr.Store(nil)
	}
}

// row returns tid's row, growing it first if idx falls outside its current
// width.
func (st *slotTable[T]) row(tid, idx int) []*slotCell[T] {
	st.rowMu[tid].Lock()
	defer st.rowMu[tid].Unlock()
	row := st.rows[tid]
	if idx < len(row) {
		return row
	}
	if !st.dynamic {
		// Caller asked for a slot beyond a fixed-width table: grow anyway
		// rather than corrupt memory on an out-of-bounds write. Fixed
		// schemes are expected to never do this; spec.md's SlotNum is a
		// contract, not a hard cap enforced elsewhere.
	}
	grown := make([]*slotCell[T], idx+1)
	copy(grown, row)
	for i := len(row); i <= idx; i++ {
		grown[i] = &slotCell[T]{}
	}
	st.rows[tid] = grown
	return grown
}

// snapshot returns every non-nil pointer currently published across all
// rows, for use by a reclaiming thread's conflict predicate. The result is
// a best-effort point-in-time view: a pointer published after the scan
// passes it is not included, which is always safe because the publishing
// thread itself observed the retired list no earlier than its publish.
func (st *slotTable[T]) snapshot() map[*Node[T]]struct{} {
	out := make(map[*Node[T]]struct{})
	for tid := 0; tid < st.taskNum; tid++ {
		st.rowMu[tid].Lock()
		row := st.rows[tid]
		st.rowMu[tid].Unlock()
		for _, cell := range row {
			if p := cell.ptr.Load(); p != nil {
				out[p] = struct{}{}
			}
		}
	}
	return out
}

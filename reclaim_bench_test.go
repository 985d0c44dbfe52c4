// reclaim_bench_test.go: throughput benchmarks across every Tracker policy
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0

package reclaim

import "testing"

var benchPolicies = []Policy{
	Hazard, HazardDynamic, RCU, QSBR, Interval, HE, Range, RangeNew, RangeTP, OA, BOA,
}

func newBenchTracker(b *testing.B, p Policy) Tracker[int] {
	b.Helper()
	tr, err := MemoryTracker[int](Config{Policy: p, TaskNum: 1, EpochFreq: 150, EmptyFreq: 30, SlotNum: 3})
	if err != nil {
		b.Fatalf("MemoryTracker(%v) error = %v", p, err)
	}
	return tr
}

// BenchmarkTracker_AllocRetire measures the cost of an alloc immediately
// followed by a retire, the steady-state pattern for a single-producer list.
func BenchmarkTracker_AllocRetire(b *testing.B) {
	for _, p := range benchPolicies {
		b.Run(p.String(), func(b *testing.B) {
			tr := newBenchTracker(b, p)
			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				n, err := tr.Alloc(0)
				if err != nil {
					b.Fatalf("Alloc() error = %v", err)
				}
				tr.Retire(n, 0)
			}
		})
	}
}

// BenchmarkTracker_ReadUnderContention measures Read throughput while a
// second goroutine continuously retires nodes, exercising the reserve/scan
// interaction each scheme is built around.
func BenchmarkTracker_ReadUnderContention(b *testing.B) {
	for _, p := range benchPolicies {
		b.Run(p.String(), func(b *testing.B) {
			tr, err := MemoryTracker[int](Config{Policy: p, TaskNum: 2, EpochFreq: 150, EmptyFreq: 30, SlotNum: 3})
			if err != nil {
				b.Fatalf("MemoryTracker(%v) error = %v", p, err)
			}
			head := &Node[int]{}
			head.storeNext(&Node[int]{Value: 1})

			done := make(chan struct{})
			go func() {
				defer close(done)
				for i := 0; i < b.N; i++ {
					tr.StartOp(1)
					n, err := tr.Alloc(1)
					if err == nil {
						tr.Retire(n, 1)
					}
					tr.EndOp(1)
				}
			}()

			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				tr.StartOp(0)
				tr.Read(head, 0, 0)
				tr.Release(0, 0)
				tr.EndOp(0)
			}
			<-done
		})
	}
}

func BenchmarkSlotTable_ReserveRelease(b *testing.B) {
	st := newSlotTable[int](1, 3, false)
	n := &Node[int]{Value: 1}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		st.reserve(0, 0, n)
		st.release(0, 0)
	}
}

func BenchmarkCounter_Add(b *testing.B) {
	var c counter
	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			c.add(1)
		}
	})
}

// race_test.go: comprehensive data race tests for reclaim
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0

package reclaim

import (
	"runtime"
	"strconv"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func intLess(a, b int) bool { return a < b }

// racePolicies covers every reclamation policy except NIL; the
// traversal/CAS pattern in List is shared across all of them, so a
// scheme-specific bug would surface as a race or a lost/duplicated node
// regardless of which family it came from.
var racePolicies = []Policy{
	Hazard, HazardDynamic, RCU, QSBR, Interval, HE, Range, RangeNew, RangeTP, OA, BOA,
}

// TestRaceConditions_ConcurrentInsertFind tests for data races during
// concurrent Insert/Find operations across every reclamation policy.
func TestRaceConditions_ConcurrentInsertFind(t *testing.T) {
	const numGoroutines = 32
	const numOperations = 500

	for _, policy := range racePolicies {
		policy := policy
		t.Run(policy.String(), func(t *testing.T) {
			list, err := NewList[int](intLess, Config{Policy: policy, TaskNum: numGoroutines})
			if err != nil {
				t.Fatalf("NewList: %v", err)
			}

			var wg sync.WaitGroup
			wg.Add(numGoroutines)

			for i := 0; i < numGoroutines; i++ {
				go func(tid int) {
					defer wg.Done()
					for j := 0; j < numOperations; j++ {
						value := (tid*numOperations + j) % 1000
						if j%2 == 0 {
							list.Insert(tid, value)
						} else {
							list.Find(tid, value)
						}
					}
				}(i)
			}

			wg.Wait()

			if size := list.Size(); size > 1000 {
				t.Errorf("list size %d exceeds the key space", size)
			}
		})
	}
}

// TestRaceConditions_ConcurrentInsertDelete tests for data races between
// Insert and Delete racing on overlapping keys.
func TestRaceConditions_ConcurrentInsertDelete(t *testing.T) {
	const numGoroutines = 32
	const numKeys = 200

	for _, policy := range racePolicies {
		policy := policy
		t.Run(policy.String(), func(t *testing.T) {
			list, err := NewList[int](intLess, Config{Policy: policy, TaskNum: 2 * numGoroutines})
			if err != nil {
				t.Fatalf("NewList: %v", err)
			}

			var wg sync.WaitGroup
			wg.Add(numGoroutines * 2)

			for i := 0; i < numGoroutines; i++ {
				go func(tid int) {
					defer wg.Done()
					for j := 0; j < numKeys; j++ {
						list.Insert(tid, j)
					}
				}(i)
			}
			for i := 0; i < numGoroutines; i++ {
				go func(tid int) {
					defer wg.Done()
					for j := 0; j < numKeys; j++ {
						list.Delete(tid, j)
					}
				}(numGoroutines + i)
			}

			wg.Wait()

			if size := list.Size(); size > numKeys {
				t.Errorf("list size %d exceeds the key space %d", size, numKeys)
			}
		})
	}
}

// TestRaceConditions_ConcurrentSize tests for data races when reading Size
// concurrently with mutation.
func TestRaceConditions_ConcurrentSize(t *testing.T) {
	list, err := NewList[int](intLess, Config{Policy: Hazard, TaskNum: 64})
	if err != nil {
		t.Fatalf("NewList: %v", err)
	}

	const numGoroutines = 32
	const numOperations = 1000

	var wg sync.WaitGroup
	wg.Add(numGoroutines * 2)

	for i := 0; i < numGoroutines; i++ {
		go func(tid int) {
			defer wg.Done()
			for j := 0; j < numOperations; j++ {
				key := j % 50
				switch j % 3 {
				case 0:
					list.Insert(tid, key)
				case 1:
					list.Find(tid, key)
				case 2:
					list.Delete(tid, key)
				}
			}
		}(i)
	}
	for i := 0; i < numGoroutines; i++ {
		go func() {
			defer wg.Done()
			for j := 0; j < numOperations; j++ {
				if size := list.Size(); size > 1<<62 {
					t.Errorf("corrupted size: %d", size)
				}
			}
		}()
	}

	wg.Wait()
}

// TestRaceConditions_WarningBitRestart exercises the OA/BOA optimistic read
// protocol under contention, where readers must observe and clear their
// warning bit rather than trust a stale pointer.
func TestRaceConditions_WarningBitRestart(t *testing.T) {
	for _, policy := range []Policy{OA, BOA} {
		policy := policy
		t.Run(policy.String(), func(t *testing.T) {
			list, err := NewList[int](intLess, Config{Policy: policy, TaskNum: 16, EmptyFreq: 4})
			if err != nil {
				t.Fatalf("NewList: %v", err)
			}

			const numGoroutines = 16
			const numOperations = 2000

			var wg sync.WaitGroup
			wg.Add(numGoroutines)

			for i := 0; i < numGoroutines; i++ {
				go func(tid int) {
					defer wg.Done()
					for j := 0; j < numOperations; j++ {
						key := (tid*numOperations + j) % 64
						switch j % 3 {
						case 0:
							list.Insert(tid, key)
						case 1:
							list.Delete(tid, key)
						case 2:
							list.Find(tid, key)
						}
						if list.CheckWarning(tid) {
							list.ResetWarning(tid)
						}
					}
				}(i)
			}

			wg.Wait()
		})
	}
}

// TestRaceConditions_SlotTableConcurrency tests the underlying hazard slot
// table for races, independent of list semantics.
func TestRaceConditions_SlotTableConcurrency(t *testing.T) {
	st := newSlotTable[int](32, 3, true)
	const numGoroutines = 32
	const numOperations = 2000

	var wg sync.WaitGroup
	wg.Add(numGoroutines)

	nodes := make([]*Node[int], numGoroutines)
	for i := range nodes {
		nodes[i] = &Node[int]{Value: i}
	}

	for i := 0; i < numGoroutines; i++ {
		go func(tid int) {
			defer wg.Done()
			for j := 0; j < numOperations; j++ {
				idx := j % 5
				st.reserve(tid, idx, nodes[tid])
				_ = st.row(tid, idx)
				st.release(tid, idx)
			}
			st.clearAll(tid)
		}(i)
	}

	wg.Wait()
}

// TestRaceConditions_CounterConcurrency tests the padded counter type used
// throughout the trackers for statistics.
func TestRaceConditions_CounterConcurrency(t *testing.T) {
	var c counter
	const numGoroutines = 50
	const numOperations = 10000

	var wg sync.WaitGroup
	wg.Add(numGoroutines)

	for i := 0; i < numGoroutines; i++ {
		go func() {
			defer wg.Done()
			for j := 0; j < numOperations; j++ {
				c.add(1)
			}
		}()
	}

	wg.Wait()

	if got, want := c.load(), uint64(numGoroutines*numOperations); got != want {
		t.Errorf("counter = %d, want %d", got, want)
	}
}

// TestRaceConditions_GoroutineStress applies maximum stress to detect any
// race conditions across mixed operations and policies.
func TestRaceConditions_GoroutineStress(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping stress test in short mode")
	}

	numGoroutines := runtime.GOMAXPROCS(0) * 4
	const testDuration = 2 * time.Second

	list, err := NewList[int](intLess, Config{Policy: Hazard, TaskNum: numGoroutines})
	if err != nil {
		t.Fatalf("NewList: %v", err)
	}

	var wg sync.WaitGroup
	var stopFlag int64

	go func() {
		time.Sleep(testDuration)
		atomic.StoreInt64(&stopFlag, 1)
	}()

	wg.Add(numGoroutines)

	for i := 0; i < numGoroutines; i++ {
		go func(tid int) {
			defer wg.Done()
			op := 0
			for atomic.LoadInt64(&stopFlag) == 0 {
				key, err := strconv.Atoi(strconv.Itoa(op % 200))
				if err != nil {
					t.Errorf("unexpected strconv error: %v", err)
					return
				}
				switch op % 4 {
				case 0:
					list.Insert(tid, key)
				case 1:
					list.Find(tid, key)
				case 2:
					list.Delete(tid, key)
				case 3:
					list.Stats(tid)
				}
				op++
			}
		}(i)
	}

	wg.Wait()

	if size := list.Size(); size > 200 {
		t.Errorf("list corrupted under stress: size=%d", size)
	}
}

// BenchmarkRaceConditions_ConcurrentOps benchmarks concurrent operations to
// detect performance regressions alongside the race suite.
func BenchmarkRaceConditions_ConcurrentOps(b *testing.B) {
	list, err := NewList[int](intLess, Config{Policy: Hazard, TaskNum: runtime.GOMAXPROCS(0)})
	if err != nil {
		b.Fatalf("NewList: %v", err)
	}

	var tidCounter int64
	b.RunParallel(func(pb *testing.PB) {
		tid := int(atomic.AddInt64(&tidCounter, 1) - 1)
		i := 0
		for pb.Next() {
			key := i % 1000
			switch i % 4 {
			case 0:
				list.Insert(tid, key)
			case 1:
				list.Find(tid, key)
			case 2:
				list.Delete(tid, key)
			case 3:
				list.Stats(tid)
			}
			i++
		}
	})
}

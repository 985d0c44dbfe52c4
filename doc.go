// Package reclaim provides a library of safe memory reclamation (SMR)
// schemes for lock-free data structures, and a Harris-Michael ordered
// singly-linked set built on top of them.
//
// # Overview
//
// reclaim is designed for building lock-free concurrent data structures
// that need to safely free memory a concurrent reader might still be
// dereferencing:
//   - Twelve interchangeable reclamation schemes behind one Tracker
//     interface: no tracking (NIL), hazard pointers (Hazard and
//     HazardDynamic tags), RCU, QSBR, interval-based reclamation, hazard
//     eras, three range-tracker variants, optimistic access and
//     bounded-optimistic access.
//   - Type Safety: Generic Node[T]/List[T] with compile-time type checking,
//     no unsafe pointer tagging.
//   - Concurrency: list links updated with CAS loops; every Tracker
//     method is safe for concurrent use from TaskNum threads.
//   - Observability: OpenTelemetry integration (optional separate module).
//
// # Quick Start
//
//	import "github.com/agilira/reclaim"
//
//	list, err := reclaim.NewList[int](func(a, b int) bool { return a < b },
//	    reclaim.Config{Policy: reclaim.Hazard})
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	tid := 0 // caller-assigned thread identifier, < Config.TaskNum
//	list.Insert(tid, 42)
//	if v, found := list.Find(tid, 42); found {
//	    fmt.Println(v)
//	}
//	list.Delete(tid, 42)
//
// # Reclamation Schemes
//
// Select a scheme with Config.Policy; all implement the same Tracker[T]
// contract so List[T] is written once against the interface:
//
//	Policy         Discipline
//	Hazard         per-thread hazard-pointer slots, reserve+reread
//	HazardDynamic  same as Hazard (both slot tables grow on demand)
//	RCU            single epoch, offline reservation published at EndOp
//	QSBR           single epoch, online reservation held across the operation
//	Interval       per-thread epoch window, opened at StartOp, closed at EndOp
//	Range          range tracker, upper bound widened with a plain store
//	RangeNew       range tracker, same plain-store widen as Range
//	RangeTP        RangeNew plus a per-thread logical timestamp
//	HE             hazard eras: per-slot era numbers instead of pointers
//	OA             optimistic access: single-publish reads, warning-bit restart
//	BOA            OA plus ARIMA-style pool-size prediction
//	NIL            no tracking at all, a correctness baseline
//
// # Concurrency Model
//
// List[T] changes links only by CAS, but its operations are not
// lock-free: the trackers take a sync.Mutex around slot-table rows,
// per-thread retired lists and the OA/BOA pool and warning state.
//   - Reads: hazard/era/epoch protected loads through Tracker.Read; the
//     hazard-slot schemes lock the thread's slot-table row to publish.
//   - Writes: CAS loops on Node's marked-pointer link (Node.casNext).
//   - Reclamation: deferred, batched per-thread, driven by Config.EmptyFreq
//     / Config.EpochFreq rather than a background goroutine.
//
// # Configuration
//
// Complete configuration options:
//
//	cfg := reclaim.Config{
//	    TaskNum:   8,                // concurrent thread identifiers
//	    Policy:    reclaim.BOA,
//	    EpochFreq: 150,              // epoch-aware schemes: advance cadence
//	    EmptyFreq: 30,               // hazard-family schemes: empty-phase cadence
//	    SlotNum:   3,                // hazard-family schemes: slots per thread
//	    Collect:   true,             // false: grow without bound (NGC debug mode)
//	    Logger:           myLogger,
//	    MetricsCollector: metricsCollector,
//	    TimeProvider:     myTimeProvider,
//	    Predictor:        myPredictor, // BOA only
//	}
//	list, err := reclaim.NewList[string](less, cfg)
//
// # Error Handling
//
// reclaim uses structured errors with error codes:
//
//	_, err := reclaim.MemoryTracker[int](reclaim.Config{Policy: reclaim.Policy(99)})
//	if err != nil {
//	    if reclaim.IsConfigError(err) {
//	        log.Printf("invalid configuration: %v", err)
//	    }
//	}
//
// Available error codes:
//   - RECLAIM_INVALID_CONFIG: invalid configuration
//   - RECLAIM_INVALID_TASK_NUM: negative TaskNum
//   - RECLAIM_INVALID_POLICY: unknown Policy value
//   - RECLAIM_INVALID_EPOCH_FREQ: negative EpochFreq
//   - RECLAIM_INVALID_SLOT_NUM: negative SlotNum
//   - RECLAIM_ALLOC_FAILED: Tracker.Alloc failed
//   - RECLAIM_TID_OUT_OF_RANGE: tid argument outside [0, TaskNum)
//   - RECLAIM_INTERNAL_ERROR: an internal invariant was violated
//   - RECLAIM_PANIC_RECOVERED: a recovered panic, wrapped as an error
//
// All errors implement the error interface and can be unwrapped.
//
// # Observability
//
// Built-in tracker stats (Pending is per-thread for most schemes; the
// other counts are tracker-wide):
//
//	stats := list.Stats(tid)
//	fmt.Printf("retired=%d reclaimed=%d pending=%d epoch=%d\n",
//	    stats.Retired, stats.Reclaimed, stats.Pending, stats.Epoch)
//
// Enterprise observability with OpenTelemetry (optional):
//
//	import reclaimotel "github.com/agilira/reclaim/otel"
//
//	exporter, _ := prometheus.New()
//	provider := metric.NewMeterProvider(metric.WithReader(exporter))
//	collector, _ := reclaimotel.NewOTelMetricsCollector(provider)
//
//	list, _ := reclaim.NewList[int](less, reclaim.Config{
//	    Policy:           reclaim.Hazard,
//	    MetricsCollector: collector, // optional, zero overhead if nil
//	})
//
// The core reclaim package has zero OTEL dependencies. reclaim/otel is a
// separate module.
//
// # NGC Debug Mode
//
// Built with -tags ngc, Config.Collect defaults to false: no node is ever
// physically freed, trading unbounded memory growth for a build where a
// crash or -race failure can only be a genuine use-after-free, never a
// false positive introduced by reclamation itself.
//
// # Thread Safety
//
// All Tracker and List operations are safe for concurrent use, each caller
// identified by its own tid in [0, Config.TaskNum):
//
//	list, _ := reclaim.NewList[int](less, reclaim.Config{Policy: reclaim.Hazard})
//	go func() { list.Insert(0, 1) }()
//	go func() { list.Find(1, 1) }()
//	go func() { list.Delete(2, 1) }()
//
// Tested with -race detector across every scheme.
//
// # License
//
// See LICENSE file in the repository.
package reclaim

// align.go: cache-line padding and alignment helpers
//
// Grounded on balios/cache_alignment_test.go and the field-ordering
// discipline in the teacher's entry struct ("64-bit atomic fields MUST be
// first for 32-bit alignment"): every per-thread cell the reclamation
// layer shares across goroutines is padded out to a cache line so that two
// threads' reservations never false-share, and every atomic 64-bit field
// is declared first in its struct for alignment on 32-bit hosts.
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0

package reclaim

import (
	"os"
	"strconv"
	"sync/atomic"
)

// cacheLineSize is the padding unit read once from LEVEL1_DCACHE_LINESIZE
// (spec.md §6), defaulting to 128 bytes -- the teacher's repo targets
// modern x86-64 parts whose prefetcher makes the effective false-sharing
// unit two 64-byte lines wide, and this library inherits that default
// rather than the textbook 64.
var cacheLineSize = readCacheLineSize()

const defaultCacheLineSize = 128

func readCacheLineSize() int {
	v := os.Getenv("LEVEL1_DCACHE_LINESIZE")
	if v == "" {
		return defaultCacheLineSize
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return defaultCacheLineSize
	}
	return n
}

// padBytes returns the number of padding bytes needed after a struct of
// usedBytes bytes to round its size up to the next multiple of the
// configured cache line size (minimum one full line).
func padBytes(usedBytes int) int {
	if usedBytes >= cacheLineSize {
		rem := usedBytes % cacheLineSize
		if rem == 0 {
			return 0
		}
		return cacheLineSize - rem
	}
	return cacheLineSize - usedBytes
}

// reservation is a single published epoch, used by the RCU/QSBR
// trackers' reservation table. A value of maxEpoch means "inactive"
// (spec.md §3). epoch is an atomic.Uint64: it is written by tid's own
// StartOp/EndOp and read concurrently by any other thread's Retire/scan
// conflict predicate, so the store and every cross-thread load must go
// through sequentially-consistent atomic operations rather than a plain
// field (spec.md §5). Padded to the default cache line size: Go struct
// layout is fixed at compile time, so a LEVEL1_DCACHE_LINESIZE override
// changes only padBytes's result, not this array or the padded cells in
// slots.go and util.go.
type reservation struct {
	epoch atomic.Uint64
	_     [defaultCacheLineSize - 8]byte
}

// intervalReservation is a published (lower, upper) epoch pair, used by the
// Interval and Range/RangeNew/RangeTP trackers. Both fields are
// atomic.Uint64 and stored with sequentially-consistent semantics
// (spec.md §4.5, §5) since the reclaimer's conflict predicate, running on
// another thread, must never miss a late-published reservation. The two
// fields are stored and loaded separately, so a reader can observe one
// updated before the other.
type intervalReservation struct {
	lower atomic.Uint64
	upper atomic.Uint64
	_     [defaultCacheLineSize - 16]byte
}

// warningBit is a single per-thread optimistic-restart flag (OA/BOA).
// Read and written only while holding oaTracker.warnMu.
type warningBit struct {
	set uint32
	_   [defaultCacheLineSize - 4]byte
}

// util.go: small shared helpers used across tracker implementations
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0

package reclaim

import "sync/atomic"

// counter is a cache-line padded monotonic counter, used for the
// Retired/Reclaimed/Restarts fields every tracker reports through
// TrackerStats. Padded so that two trackers' (or two stats fields')
// counters never false-share.
type counter struct {
	v atomic.Uint64
	_ [defaultCacheLineSize - 8]byte
}

func (c *counter) add(delta uint64) { c.v.Add(delta) }
func (c *counter) load() uint64     { return c.v.Load() }

// minInt returns the smaller of a and b.
func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}

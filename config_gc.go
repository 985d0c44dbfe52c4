//go:build !ngc

// config_gc.go: default Collect=true build (physical reclamation enabled)
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0

package reclaim

// defaultCollect is true unless the binary is built with -tags ngc, per
// spec.md §6: "NGC (debug): when set at build time, collect defaults to
// false."
const defaultCollect = true

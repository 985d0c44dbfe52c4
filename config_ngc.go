//go:build ngc

// config_ngc.go: NGC debug build (Collect=false by default)
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0

package reclaim

// defaultCollect is false when the binary is built with -tags ngc: memory
// grows without bound by design, for debugging suspected use-after-free.
const defaultCollect = false

// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package ukernel

import (
	"runtime"

	"golang.org/x/sys/cpu"
)

// DefaultSIMDWidth returns the number of float32 lanes of the widest vector unit detected on
// the running CPU: 16 for AVX-512, 8 for AVX, 4 otherwise (SSE, NEON, or no SIMD at all).
func DefaultSIMDWidth() int {
	switch runtime.GOARCH {
	case "amd64", "386":
		switch {
		case cpu.X86.HasAVX512F:
			return 16
		case cpu.X86.HasAVX:
			return 8
		}
	}
	return 4
}

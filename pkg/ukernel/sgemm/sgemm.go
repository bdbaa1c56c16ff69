// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

// Package sgemm implements portable (pure Go) single-precision GEMM micro-kernels in both
// ukernel calling conventions, and registers them with ukernel.Register.
//
// They serve as the baseline implementations verified by gemmtest, and as a reference for
// architecture-specific kernels.
package sgemm

import (
	"github.com/google2013/NNPACK/pkg/ukernel"
)

var (
	// Generic4x8Params is the tile of the generic kernels registered by default.
	// The B panel of the variable-tile version is padded to the SIMD width of the host.
	Generic4x8Params = ukernel.TileParams{
		Mr:        4, // Rows of A in "registers".
		Nr:        8, // Cols of B in "registers".
		SIMDWidth: ukernel.DefaultSIMDWidth(),
	}

	// Unrolled4x4Params is the tile of the unrolled kernels.
	Unrolled4x4Params = ukernel.TileParams{Mr: 4, Nr: 4, SIMDWidth: 4}
)

func init() {
	ukernel.Register("generic-4x8", NewFixed(Generic4x8Params.Mr, Generic4x8Params.Nr),
		Generic4x8Params, ukernel.PriorityBase)
	ukernel.Register("generic-4x8", NewVariable(Generic4x8Params.SIMDWidth),
		Generic4x8Params, ukernel.PriorityBase)
	ukernel.Register("generic-4x8", NewFixedHalf(Generic4x8Params.Mr, Generic4x8Params.Nr),
		Generic4x8Params, ukernel.PriorityBase)
	ukernel.Register("unrolled-4x4", ukernel.FixedTileKernel(Fixed4x4),
		Unrolled4x4Params, ukernel.PriorityBase+1)
	ukernel.Register("unrolled-4x4", ukernel.VariableTileKernel(Variable4x4),
		Unrolled4x4Params, ukernel.PriorityBase+1)
}

// RoundUp rounds n up to a multiple of width.
func RoundUp(n, width int) int {
	return (n + width - 1) / width * width
}

// storeTile writes (or accumulates, if update != 0) the mr x nr accumulator tile acc, whose rows
// have accStride elements, into c.
func storeTile(update int, acc []float32, accStride, mr, nr int, c []float32, rowStrideC int) {
	for m := range mr {
		accRow := acc[m*accStride : m*accStride+nr]
		cRow := c[m*rowStrideC : m*rowStrideC+nr]
		if update != 0 {
			for n, v := range accRow {
				cRow[n] += v
			}
		} else {
			copy(cRow, accRow)
		}
	}
}

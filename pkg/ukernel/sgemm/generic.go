// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package sgemm

import (
	"github.com/google2013/NNPACK/pkg/ukernel"
)

// NewFixed returns a FixedTileKernel for an mr x nr tile.
//
// The accumulator tile is allocated once, so the returned kernel must not be called concurrently.
func NewFixed(mr, nr int) ukernel.FixedTileKernel {
	accum := make([]float32, mr*nr)
	return func(k, update int, a, b, c []float32, rowStrideC int) {
		genericMicroKernel(accum, mr, nr, nr, k, a, b)
		storeTile(update, accum, nr, mr, nr, c, rowStrideC)
	}
}

// NewVariable returns a VariableTileKernel, whose B panel stride is nr rounded up to simdWidth.
//
// The returned kernel must not be called concurrently.
func NewVariable(simdWidth int) ukernel.VariableTileKernel {
	var accum []float32
	return func(mr, nr, k, update int, a, b, c []float32, rowStrideC int) {
		if len(accum) < mr*nr {
			accum = make([]float32, mr*nr)
		}
		genericMicroKernel(accum, mr, nr, RoundUp(nr, simdWidth), k, a, b)
		storeTile(update, accum, nr, mr, nr, c, rowStrideC)
	}
}

// genericMicroKernel computes accum = A x B for a [mr, nr] tile, with A stored as [k][mr] and
// B stored as [k][strideB].
func genericMicroKernel(accum []float32, mr, nr, strideB, k int, a, b []float32) {
	accum = accum[:mr*nr]
	for ii := range accum {
		accum[ii] = 0
	}
	idxA, idxB := 0, 0
	for range k {
		panelA := a[idxA : idxA+mr]
		panelB := b[idxB : idxB+nr]
		for m, valA := range panelA {
			row := accum[m*nr : (m+1)*nr]
			for n, valB := range panelB {
				row[n] += valA * valB
			}
		}
		idxA += mr
		idxB += strideB
	}
}

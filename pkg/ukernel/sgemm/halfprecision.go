// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package sgemm

import (
	"github.com/google2013/NNPACK/pkg/ukernel"
	"github.com/x448/float16"
)

// NewFixedHalf returns a FixedTileHalfKernel for an mr x nr tile: panels are converted to float32
// one k-step at a time, and accumulated in float32.
//
// The returned kernel must not be called concurrently.
func NewFixedHalf(mr, nr int) ukernel.FixedTileHalfKernel {
	accum := make([]float32, mr*nr)
	stepA := make([]float32, mr)
	stepB := make([]float32, nr)
	return func(k, update int, a, b []float16.Float16, c []float32, rowStrideC int) {
		for ii := range accum {
			accum[ii] = 0
		}
		for kk := range k {
			for m, v := range a[kk*mr : (kk+1)*mr] {
				stepA[m] = v.Float32()
			}
			for n, v := range b[kk*nr : (kk+1)*nr] {
				stepB[n] = v.Float32()
			}
			for m, valA := range stepA {
				row := accum[m*nr : (m+1)*nr]
				for n, valB := range stepB {
					row[n] += valA * valB
				}
			}
		}
		storeTile(update, accum, nr, mr, nr, c, rowStrideC)
	}
}

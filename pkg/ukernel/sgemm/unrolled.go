// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package sgemm

// Fixed4x4 is a FixedTileKernel for a 4x4 tile, with the accumulators unrolled in local variables.
func Fixed4x4(k, update int, a, b, c []float32, rowStrideC int) {
	var acc [16]float32
	kernel4x4(&acc, k, a, b, 4)
	storeTile(update, acc[:], 4, 4, 4, c, rowStrideC)
}

// Variable4x4 is a VariableTileKernel for tiles up to 4x4. The B panel stride is 4 (nr rounded
// up to 4 lanes), and A is padded to the actual mr.
//
// It computes the full 4x4 tile on zero-padded copies of the panels, and stores only the
// mr x nr valid part.
func Variable4x4(mr, nr, k, update int, a, b, c []float32, rowStrideC int) {
	if mr == 4 && nr == 4 {
		Fixed4x4(k, update, a, b, c, rowStrideC)
		return
	}
	var acc [16]float32
	var padA, padB [4]float32
	for kk := range k {
		copy(padA[:mr], a[kk*mr:kk*mr+mr])
		copy(padB[:nr], b[kk*4:kk*4+nr])
		kernel4x4(&acc, 1, padA[:], padB[:], 4)
	}
	storeTile(update, acc[:], 4, mr, nr, c, rowStrideC)
}

// kernel4x4 accumulates into acc the product of k steps of a 4-row A panel with a 4-column
// B panel with the given stride.
func kernel4x4(acc *[16]float32, k int, a, b []float32, strideB int) {
	c00, c01, c02, c03 := acc[0], acc[1], acc[2], acc[3]
	c10, c11, c12, c13 := acc[4], acc[5], acc[6], acc[7]
	c20, c21, c22, c23 := acc[8], acc[9], acc[10], acc[11]
	c30, c31, c32, c33 := acc[12], acc[13], acc[14], acc[15]
	for kk := range k {
		pa := a[kk*4 : kk*4+4 : kk*4+4]
		pb := b[kk*strideB : kk*strideB+4 : kk*strideB+4]
		a0, a1, a2, a3 := pa[0], pa[1], pa[2], pa[3]
		b0, b1, b2, b3 := pb[0], pb[1], pb[2], pb[3]
		c00 += a0 * b0
		c01 += a0 * b1
		c02 += a0 * b2
		c03 += a0 * b3
		c10 += a1 * b0
		c11 += a1 * b1
		c12 += a1 * b2
		c13 += a1 * b3
		c20 += a2 * b0
		c21 += a2 * b1
		c22 += a2 * b2
		c23 += a2 * b3
		c30 += a3 * b0
		c31 += a3 * b1
		c32 += a3 * b2
		c33 += a3 * b3
	}
	*acc = [16]float32{
		c00, c01, c02, c03,
		c10, c11, c12, c13,
		c20, c21, c22, c23,
		c30, c31, c32, c33,
	}
}

// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

// Package ukernel defines the calling conventions of GEMM micro-kernels, and a registry of
// implementations to be verified.
//
// A micro-kernel computes one Mr x Nr tile of C = A x B, accumulated over k steps:
//
//   - a holds the A panel, k-major: element (m, kk) is at a[kk*Mr+m].
//   - b holds the B panel, k-major: element (kk, n) is at b[kk*strideNr+n].
//   - c is row-major with rowStrideC elements per row: element (m, n) is at c[m*rowStrideC+n].
//
// If update is 0 the kernel overwrites c, otherwise it accumulates into it.
package ukernel

// FixedTileKernel computes a tile whose shape (Mr x Nr) is fixed by the kernel itself.
// The B panel stride is Nr.
type FixedTileKernel func(k, update int, a, b, c []float32, rowStrideC int)

// VariableTileKernel computes a tile of mr x nr, for any mr, nr up to the kernel's maximum
// tile shape. The B panel stride is nr rounded up to the kernel's SIMD width.
type VariableTileKernel func(mr, nr, k, update int, a, b, c []float32, rowStrideC int)

// TileParams describe the tile shape of a kernel.
type TileParams struct {
	Mr int // Rows of the output tile (and of the A panel).
	Nr int // Columns of the output tile (and of the B panel).

	// SIMDWidth is the number of lanes used to pad the B panel stride of variable-tile kernels.
	SIMDWidth int
}

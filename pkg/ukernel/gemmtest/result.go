// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package gemmtest

import (
	"fmt"
)

// Result of testing one tile shape.
type Result struct {
	// TileRows, TileCols is the tile shape tested.
	TileRows, TileCols int

	// Kc is the accumulation depth used.
	Kc int

	// Iterations run for this tile shape.
	Iterations int

	// MaxMedianError is the maximum over the output elements of the median relative error.
	// It is NaN if some element was never written by the kernel.
	MaxMedianError float32

	// WorstRow, WorstCol is the output element with MaxMedianError.
	WorstRow, WorstCol int

	// ErrorLimit the result was checked against.
	ErrorLimit float32

	// Passed is true if MaxMedianError < ErrorLimit.
	Passed bool

	// Seed used to generate the operands. Set it in Config.Seed to replay the test.
	Seed int64
}

// Shape returns the tile shape and depth, formatted as in failure messages.
func (r Result) Shape() string {
	return fmt.Sprintf("Mr x Nr = %d x %d, Kc = %d", r.TileRows, r.TileCols, r.Kc)
}

// String implements fmt.Stringer.
func (r Result) String() string {
	verdict := "passed"
	if !r.Passed {
		verdict = "FAILED"
	}
	return fmt.Sprintf("%s: %s, max median relative error %g (limit %g) at element (%d, %d), %d iterations, seed %d",
		r.Shape(), verdict, r.MaxMedianError, r.ErrorLimit, r.WorstRow, r.WorstCol, r.Iterations, r.Seed)
}

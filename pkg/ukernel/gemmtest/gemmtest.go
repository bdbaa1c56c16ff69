// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

// Package gemmtest verifies GEMM micro-kernels (see package ukernel) against a reference
// triple-loop implementation.
//
// For each tile shape, it runs Config.Iterations randomized trials: fresh uniform [0, 1) operands,
// the kernel and the reference are computed, and the relative error of every output element is
// recorded. Each element's errors are reduced to their median over the trials, and the test
// passes if the largest median is below Config.ErrorLimit. The median makes the check robust to
// the occasional ill-conditioned trial while still requiring the kernel to be systematically
// accurate.
//
// Example:
//
//	func TestMyKernel(t *testing.T) {
//		cfg := gemmtest.New().Mr(4).Nr(8).Kc(16).Iterations(101).Done()
//		gemmtest.TestFixedTile(t, cfg, mykernels.Fixed4x8)
//	}
package gemmtest

import (
	"math"
	"math/rand"
	"time"

	"github.com/google2013/NNPACK/internal/aligned"
	"github.com/google2013/NNPACK/pkg/support/xslices"
	"github.com/google2013/NNPACK/pkg/ukernel"
	"k8s.io/klog/v2"
)

// TestFixedTile tests a kernel whose tile shape is fixed (Config.Mr x Config.Nr).
//
// Each trial calls kernel(cfg.Kc, 0, a, b, c, cfg.Nr) with A of Mr*Kc and B of Nr*Kc elements.
// A failure is reported with t.Errorf, naming the tile shape, depth and seed.
func TestFixedTile(t Reporter, cfg Config, kernel ukernel.FixedTileKernel) Result {
	t.Helper()
	cfg.mustValidate()
	seed, rng := newRNG(cfg)
	result := runTile(cfg, rng, tileTrial{
		rows:    cfg.Mr,
		cols:    cfg.Nr,
		strideB: cfg.Nr,
		invoke: func(update int, a, b, c []float32) {
			kernel(cfg.Kc, update, a, b, c, cfg.Nr)
		},
	})
	result.Seed = seed
	report(t, result)
	return result
}

// TestVariableTile tests a kernel that takes the tile shape as a parameter, for every shape
// (tileRows, tileCols) with 1 <= tileRows < Config.Mr and 1 <= tileCols < Config.Nr.
//
// Notice the bounds are exclusive, unlike TestFixedTile where Mr x Nr is the exact shape: with
// Mr=3, Nr=3 the shapes tested are 1x1, 1x2, 2x1 and 2x2.
//
// Each trial calls kernel(tileRows, tileCols, cfg.Kc, 0, a, b, c, tileCols), with B stored with
// stride cfg.NRStride(tileCols). Each shape is checked independently: one Result per shape is
// returned, in the order tested, and each failure is reported with t.Errorf.
func TestVariableTile(t Reporter, cfg Config, kernel ukernel.VariableTileKernel) []Result {
	t.Helper()
	cfg.mustValidate()
	seed, rng := newRNG(cfg)
	results := make([]Result, 0, (cfg.Mr-1)*(cfg.Nr-1))
	for tileRows := 1; tileRows < cfg.Mr; tileRows++ {
		for tileCols := 1; tileCols < cfg.Nr; tileCols++ {
			result := runTile(cfg, rng, tileTrial{
				rows:    tileRows,
				cols:    tileCols,
				strideB: cfg.NRStride(tileCols),
				invoke: func(update int, a, b, c []float32) {
					kernel(tileRows, tileCols, cfg.Kc, update, a, b, c, tileCols)
				},
			})
			result.Seed = seed
			report(t, result)
			results = append(results, result)
		}
	}
	return results
}

// newRNG returns the seed to use and a random number generator seeded with it.
func newRNG(cfg Config) (int64, *rand.Rand) {
	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	klog.V(1).Infof("gemmtest: using seed %d", seed)
	return seed, rand.New(rand.NewSource(seed))
}

// report a failed result to t.
func report(t Reporter, result Result) {
	t.Helper()
	if !result.Passed {
		t.Errorf("max median relative error %g >= limit %g (element (%d, %d)): %s (seed %d)",
			result.MaxMedianError, result.ErrorLimit, result.WorstRow, result.WorstCol, result.Shape(), result.Seed)
		return
	}
	klog.V(1).Infof("gemmtest: %s", result)
}

// tileTrial describes how to test one tile shape.
type tileTrial struct {
	rows, cols int

	// strideB is the number of elements per k-step in the B panel, >= cols.
	strideB int

	// roundOperands, if set, is called on freshly generated operands, before the kernel and the
	// reference are computed. It models operands stored in a lower precision.
	roundOperands func(a, b []float32)

	// invoke the kernel under test.
	invoke func(update int, a, b, c []float32)
}

// runTile runs cfg.Iterations trials for one tile shape, and returns the aggregated result.
func runTile(cfg Config, rng *rand.Rand, trial tileTrial) Result {
	kc := cfg.Kc
	bufA := aligned.Float32(trial.rows * kc)
	defer bufA.Release()
	bufB := aligned.Float32(trial.strideB * kc)
	defer bufB.Release()
	a, b := bufA.Data(), bufB.Data()

	numElements := trial.rows * trial.cols
	c := make([]float32, numElements)
	cRef := make([]float32, numElements)
	errorHistories := make([][]float32, numElements)
	for ii := range errorHistories {
		errorHistories[ii] = make([]float32, 0, cfg.Iterations)
	}

	update := 0
	if cfg.Accumulate {
		update = 1
	}
	nan := float32(math.NaN())
	for iteration := range cfg.Iterations {
		fillUniform(rng, a)
		fillUniform(rng, b)
		if trial.roundOperands != nil {
			trial.roundOperands(a, b)
		}
		if cfg.Accumulate {
			fillUniform(rng, c)
			copy(cRef, c)
		} else {
			xslices.FillSlice(c, nan)
			xslices.FillSlice(cRef, 0)
		}

		// The reference is computed first: a kernel that overwrites its operands must not
		// change what it is compared against.
		referenceGEMM(kc, trial.rows, trial.cols, trial.strideB, a, b, cRef)
		trial.invoke(update, a, b, c)

		for ii, history := range errorHistories {
			errorHistories[ii] = append(history, RelativeError(cRef[ii], c[ii]))
		}
		if klog.V(3).Enabled() {
			iterationMax, _ := xslices.MaxNaN(xslices.Map(errorHistories, func(history []float32) float32 {
				return history[len(history)-1]
			}))
			klog.Infof("gemmtest: %dx%d, Kc=%d, iteration %d: max relative error %g",
				trial.rows, trial.cols, kc, iteration, iterationMax)
		}
	}

	maxMedian, worstIdx := MaxMedianError(errorHistories)
	return Result{
		TileRows:       trial.rows,
		TileCols:       trial.cols,
		Kc:             kc,
		Iterations:     cfg.Iterations,
		MaxMedianError: maxMedian,
		WorstRow:       worstIdx / trial.cols,
		WorstCol:       worstIdx % trial.cols,
		ErrorLimit:     cfg.ErrorLimit,
		Passed:         maxMedian < cfg.ErrorLimit, // False for NaN.
	}
}

// referenceGEMM accumulates into cRef (rows x cols, row-major) the product of the A panel
// (a[k*rows+m]) and the B panel (b[k*strideB+n]).
func referenceGEMM(kc, rows, cols, strideB int, a, b, cRef []float32) {
	for k := range kc {
		for m := range rows {
			valA := a[k*rows+m]
			for n := range cols {
				cRef[m*cols+n] += valA * b[k*strideB+n]
			}
		}
	}
}

// fillUniform fills data with uniform random values in [0, 1).
func fillUniform(rng *rand.Rand, data []float32) {
	for ii := range data {
		data[ii] = rng.Float32()
	}
}

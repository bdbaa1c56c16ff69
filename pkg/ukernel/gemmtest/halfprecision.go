// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package gemmtest

import (
	"github.com/google2013/NNPACK/internal/aligned"
	"github.com/google2013/NNPACK/pkg/ukernel"
	"github.com/x448/float16"
)

// TestFixedTileHalf tests a fixed-tile kernel whose A and B panels are stored in half-precision.
//
// Random operands are rounded to half-precision, and the reference is computed in float32 on the
// rounded values: the test measures the kernel's accumulation error only, not the quantization
// of the operands. Otherwise it behaves as TestFixedTile.
func TestFixedTileHalf(t Reporter, cfg Config, kernel ukernel.FixedTileHalfKernel) Result {
	t.Helper()
	cfg.mustValidate()
	seed, rng := newRNG(cfg)

	bufA := aligned.New[float16.Float16](cfg.Mr*cfg.Kc, aligned.DefaultAlignment)
	defer bufA.Release()
	bufB := aligned.New[float16.Float16](cfg.Nr*cfg.Kc, aligned.DefaultAlignment)
	defer bufB.Release()
	halfA, halfB := bufA.Data(), bufB.Data()

	result := runTile(cfg, rng, tileTrial{
		rows:    cfg.Mr,
		cols:    cfg.Nr,
		strideB: cfg.Nr,
		roundOperands: func(a, b []float32) {
			roundToHalf(a, halfA)
			roundToHalf(b, halfB)
		},
		invoke: func(update int, _, _, c []float32) {
			kernel(cfg.Kc, update, halfA, halfB, c, cfg.Nr)
		},
	})
	result.Seed = seed
	report(t, result)
	return result
}

// roundToHalf converts values to half-precision into half, and writes back the rounded values.
func roundToHalf(values []float32, half []float16.Float16) {
	for ii, v := range values {
		half[ii] = float16.Fromfloat32(v)
		values[ii] = half[ii].Float32()
	}
}

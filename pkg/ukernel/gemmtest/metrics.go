// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package gemmtest

import (
	"math"

	"github.com/google2013/NNPACK/pkg/support/xslices"
)

// MinNormalFloat32 is the smallest positive normal float32 (C's FLT_MIN), used to floor the
// denominator of RelativeError.
const MinNormalFloat32 = 0x1p-126

// RelativeError returns |reference-actual| / max(MinNormalFloat32, |reference|).
//
// The floor on the denominator keeps the metric bounded when the reference is (close to) zero.
// If actual is NaN, the error is NaN.
func RelativeError(reference, actual float32) float32 {
	denominator := max(float32(MinNormalFloat32), float32(math.Abs(float64(reference))))
	return float32(math.Abs(float64(reference-actual))) / denominator
}

// MaxMedianError reduces each element's error history to its median (see xslices.Median), and
// returns the largest median with its element index.
//
// A NaN median is returned as the maximum. The histories are reordered in place.
func MaxMedianError(errorHistories [][]float32) (maxMedian float32, elementIdx int) {
	return xslices.MaxNaN(xslices.Medians(errorHistories))
}

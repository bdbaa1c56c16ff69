// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package sgemm_test

import (
	"fmt"
	"testing"

	"github.com/google2013/NNPACK/pkg/support/xslices"
	"github.com/google2013/NNPACK/pkg/ukernel"
	"github.com/google2013/NNPACK/pkg/ukernel/gemmtest"
	"github.com/google2013/NNPACK/pkg/ukernel/sgemm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestRegistered verifies every kernel registered by the package, for a few accumulation depths.
func TestRegistered(t *testing.T) {
	var count int
	for _, reg := range ukernel.Registered() {
		if reg.Name != "generic-4x8" && reg.Name != "unrolled-4x4" {
			continue
		}
		count++
		t.Run(reg.Name+"/"+reg.Convention(), func(t *testing.T) {
			for _, kc := range []int{1, 2, 7, 64} {
				for _, accumulate := range []bool{false, true} {
					t.Run(fmt.Sprintf("Kc=%d,accumulate=%v", kc, accumulate), func(t *testing.T) {
						cfg := gemmtest.New().
							Mr(reg.Params.Mr).Nr(reg.Params.Nr).SIMDWidth(reg.Params.SIMDWidth).
							Kc(kc).Iterations(31).Accumulate(accumulate).Done()
						switch {
						case reg.Fixed != nil:
							assert.True(t, gemmtest.TestFixedTile(t, cfg, reg.Fixed).Passed)
						case reg.Variable != nil:
							// Mr and Nr are exclusive bounds: +1 to test the full tile too.
							cfg = gemmtest.From(cfg).Mr(reg.Params.Mr + 1).Nr(reg.Params.Nr + 1).Done()
							results := gemmtest.TestVariableTile(t, cfg, reg.Variable)
							assert.Len(t, results, reg.Params.Mr*reg.Params.Nr)
						case reg.FixedHalf != nil:
							assert.True(t, gemmtest.TestFixedTileHalf(t, cfg, reg.FixedHalf).Passed)
						}
					})
				}
			}
		})
	}
	assert.Equal(t, 5, count)
}

func TestFixed4x4(t *testing.T) {
	// A = [k][m] = identity-like panels, B = Iota: C[m, n] = Σ_k A[k*4+m] * B[k*4+n].
	const k = 3
	a := make([]float32, 4*k)
	for kk := range k {
		a[kk*4+kk] = 1 // Rows 0, 1, 2 pick B's k-steps 0, 1, 2; row 3 is zero.
	}
	b := make([]float32, 4*k)
	for ii := range b {
		b[ii] = float32(ii + 1)
	}
	c := make([]float32, 4*6) // Row stride larger than the tile.
	xslices.FillSlice(c, -1)
	sgemm.Fixed4x4(k, 0, a, b, c, 6)
	assert.Equal(t, []float32{
		1, 2, 3, 4, -1, -1,
		5, 6, 7, 8, -1, -1,
		9, 10, 11, 12, -1, -1,
		0, 0, 0, 0, -1, -1,
	}, c)

	// Update accumulates.
	sgemm.Fixed4x4(k, 1, a, b, c, 6)
	assert.Equal(t, []float32{2, 4, 6, 8, -1, -1}, c[:6])
}

func TestVariable4x4(t *testing.T) {
	// 2x3 tile: A stride 2, B stride 4 (3 rounded up to 4 lanes).
	const k = 2
	a := []float32{
		1, 2, // k=0
		3, 4, // k=1
	}
	b := []float32{
		1, 1, 1, 99, // k=0, last column is padding.
		1, 0, -1, 99, // k=1
	}
	c := make([]float32, 2*3)
	sgemm.Variable4x4(2, 3, k, 0, a, b, c, 3)
	assert.Equal(t, []float32{
		1 + 3, 1, 1 - 3,
		2 + 4, 2, 2 - 4,
	}, c)

	// The generic version must agree.
	c2 := make([]float32, 2*3)
	sgemm.NewVariable(4)(2, 3, k, 0, a, b, c2, 3)
	require.Equal(t, c, c2)
}

func TestRoundUp(t *testing.T) {
	assert.Equal(t, 4, sgemm.RoundUp(1, 4))
	assert.Equal(t, 4, sgemm.RoundUp(4, 4))
	assert.Equal(t, 8, sgemm.RoundUp(5, 4))
	assert.Equal(t, 5, sgemm.RoundUp(5, 1))
}

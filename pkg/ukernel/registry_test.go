// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package ukernel

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/x448/float16"
)

func TestRegister(t *testing.T) {
	params := TileParams{Mr: 2, Nr: 3, SIMDWidth: 4}
	Register("test-low", func(k, update int, a, b, c []float32, rowStrideC int) {}, params, PriorityBase)
	Register("test-high", VariableTileKernel(func(mr, nr, k, update int, a, b, c []float32, rowStrideC int) {}),
		params, PrioritySIMD)
	Register("test-low", func(k, update int, a, b []float16.Float16, c []float32, rowStrideC int) {},
		params, PriorityBase)

	var names, conventions []string
	for _, r := range Registered() {
		if r.Name == "test-low" || r.Name == "test-high" {
			names = append(names, r.Name)
			conventions = append(conventions, r.Convention())
		}
	}
	// Highest priority first, then sorted by name, registration order otherwise.
	assert.Equal(t, []string{"test-high", "test-low", "test-low"}, names)
	assert.Equal(t, []string{"variable", "fixed", "fixed-half"}, conventions)

	found := Lookup("test-low")
	require.Len(t, found, 2)
	assert.NotNil(t, found[0].Fixed)
	assert.Equal(t, params, found[0].Params)
	assert.Nil(t, Lookup("does-not-exist"))

	// Duplicates, invalid kernels or params panic.
	assert.Panics(t, func() {
		Register("test-low", func(k, update int, a, b, c []float32, rowStrideC int) {}, params, PriorityBase)
	})
	assert.Panics(t, func() { Register("test-invalid", func() {}, params, PriorityBase) })
	assert.Panics(t, func() {
		Register("test-invalid", FixedTileKernel(func(k, update int, a, b, c []float32, rowStrideC int) {}),
			TileParams{Mr: 1, Nr: 0, SIMDWidth: 1}, PriorityBase)
	})
}

func TestDefaultSIMDWidth(t *testing.T) {
	width := DefaultSIMDWidth()
	assert.Contains(t, []int{4, 8, 16}, width)
}

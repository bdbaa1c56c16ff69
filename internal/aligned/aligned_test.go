// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package aligned

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	for _, alignment := range []int{4, 16, 32, 64} {
		for _, size := range []int{0, 1, 3, 8, 17, 1024} {
			t.Run(fmt.Sprintf("align=%d,size=%d", alignment, size), func(t *testing.T) {
				buf := New[float32](size, alignment)
				defer buf.Release()
				data := buf.Data()
				require.Len(t, data, size)
				assert.Equal(t, size, cap(data))
				assert.Equal(t, alignment, buf.Alignment())
				assert.True(t, IsAligned(data, alignment))
				for ii := range data {
					data[ii] = float32(ii)
				}
				for ii := range data {
					require.Equal(t, float32(ii), data[ii])
				}
			})
		}
	}
}

func TestFloat32(t *testing.T) {
	// Allocate many small buffers: whatever the allocator does, every one must be aligned.
	for range 100 {
		buf := Float32(5)
		require.True(t, IsAligned(buf.Data(), DefaultAlignment))
		require.Equal(t, 5, buf.Len())
		buf.Release()
	}
}

func TestRelease(t *testing.T) {
	buf := Float32(8)
	buf.Release()
	buf.Release()
	assert.Equal(t, 0, buf.Len())
	assert.Panics(t, func() { _ = buf.Data() })
}

func TestInvalidArguments(t *testing.T) {
	assert.Panics(t, func() { New[float32](4, 24) })
	assert.Panics(t, func() { New[float32](4, 2) })
	assert.Panics(t, func() { New[float64](4, 0) })
	assert.Panics(t, func() { New[float32](-1, 32) })
}

func TestIsAligned(t *testing.T) {
	buf := New[float32](16, 32)
	data := buf.Data()
	assert.True(t, IsAligned(data, 32))
	assert.False(t, IsAligned(data[1:], 32))
	assert.True(t, IsAligned(data[1:], 4))
	assert.True(t, IsAligned(data[8:], 32))
	assert.True(t, IsAligned([]float32{}, 32))
}

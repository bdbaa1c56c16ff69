// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

// Package aligned allocates slices whose first element sits on a given byte boundary, as required
// by SIMD kernels that use aligned vector loads.
//
// Go's garbage collector doesn't move heap objects, so the alignment of a slice returned here
// holds for its whole lifetime.
package aligned

import (
	"unsafe"

	"github.com/gomlx/exceptions"
)

// DefaultAlignment in bytes: enough for 256-bit (AVX) vector loads.
const DefaultAlignment = 32

// Buffer owns an aligned slice of T. Call Release when done with it.
type Buffer[T any] struct {
	data      []T
	backing   []T
	alignment int
}

// New allocates a Buffer with size elements of T, with the first element aligned to alignment bytes.
//
// The alignment must be a power of 2 and a multiple of the size of T.
func New[T any](size, alignment int) *Buffer[T] {
	var zero T
	elemSize := int(unsafe.Sizeof(zero))
	if alignment <= 0 || alignment&(alignment-1) != 0 {
		exceptions.Panicf("aligned.New: alignment must be a positive power of 2, got %d", alignment)
	}
	if elemSize == 0 || alignment%elemSize != 0 {
		exceptions.Panicf("aligned.New: alignment %d is not a multiple of the element size %d (%T)",
			alignment, elemSize, zero)
	}
	if size < 0 {
		exceptions.Panicf("aligned.New: negative size %d", size)
	}
	padding := alignment/elemSize - 1
	backing := make([]T, size+padding)
	offset := 0
	if len(backing) > 0 {
		misalignment := int(uintptr(unsafe.Pointer(unsafe.SliceData(backing))) & uintptr(alignment-1))
		if misalignment != 0 {
			offset = (alignment - misalignment) / elemSize
		}
	}
	return &Buffer[T]{
		data:      backing[offset : offset+size : offset+size],
		backing:   backing,
		alignment: alignment,
	}
}

// Float32 allocates a Buffer of float32 with DefaultAlignment.
func Float32(size int) *Buffer[float32] {
	return New[float32](size, DefaultAlignment)
}

// Data returns the aligned slice. Its capacity equals its length, so appends never reuse the padding.
//
// It panics if the buffer was already released.
func (b *Buffer[T]) Data() []T {
	if b.backing == nil {
		exceptions.Panicf("aligned.Buffer.Data called after Release")
	}
	return b.data
}

// Len returns the number of elements in the buffer.
func (b *Buffer[T]) Len() int {
	return len(b.data)
}

// Alignment in bytes of the buffer.
func (b *Buffer[T]) Alignment() int {
	return b.alignment
}

// Release drops the buffer's storage. It's safe to call more than once.
func (b *Buffer[T]) Release() {
	b.data = nil
	b.backing = nil
}

// IsAligned returns whether the first element of slice is aligned to alignment bytes.
// Empty slices are considered aligned.
func IsAligned[T any](slice []T, alignment int) bool {
	if len(slice) == 0 {
		return true
	}
	return uintptr(unsafe.Pointer(unsafe.SliceData(slice)))&uintptr(alignment-1) == 0
}

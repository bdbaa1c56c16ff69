// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package ukernel

import (
	"slices"
	"strings"
	"sync"

	"github.com/gomlx/exceptions"
	"github.com/x448/float16"
)

// FixedTileHalfKernel is a FixedTileKernel whose A and B panels are stored in half-precision.
// Accumulation and the output are float32.
type FixedTileHalfKernel func(k, update int, a, b []float16.Float16, c []float32, rowStrideC int)

// Priority orders registrations: higher priorities are listed first.
type Priority int

const (
	PriorityBase Priority = 0
	PrioritySIMD Priority = 10
)

// Registration of a micro-kernel. Exactly one of the kernel fields is set.
type Registration struct {
	Name     string
	Params   TileParams
	Priority Priority

	Fixed     FixedTileKernel
	Variable  VariableTileKernel
	FixedHalf FixedTileHalfKernel
}

// Convention returns the name of the calling convention of the registered kernel.
func (r *Registration) Convention() string {
	switch {
	case r.Fixed != nil:
		return "fixed"
	case r.Variable != nil:
		return "variable"
	case r.FixedHalf != nil:
		return "fixed-half"
	}
	return "unknown"
}

var (
	registryMu    sync.Mutex
	registrations []*Registration
)

// Register a micro-kernel. Typically called from init() of the package implementing the kernel.
//
// kernel must be a FixedTileKernel, VariableTileKernel or FixedTileHalfKernel (or a function with
// the same signature). It panics on an unknown kernel type, invalid params or a duplicate
// (name, convention) pair.
func Register(name string, kernel any, params TileParams, priority Priority) {
	r := &Registration{Name: name, Params: params, Priority: priority}
	switch k := kernel.(type) {
	case FixedTileKernel:
		r.Fixed = k
	case func(k, update int, a, b, c []float32, rowStrideC int):
		r.Fixed = k
	case VariableTileKernel:
		r.Variable = k
	case func(mr, nr, k, update int, a, b, c []float32, rowStrideC int):
		r.Variable = k
	case FixedTileHalfKernel:
		r.FixedHalf = k
	case func(k, update int, a, b []float16.Float16, c []float32, rowStrideC int):
		r.FixedHalf = k
	default:
		exceptions.Panicf("ukernel.Register(%q): unsupported kernel type %T", name, kernel)
	}
	if params.Mr <= 0 || params.Nr <= 0 || params.SIMDWidth <= 0 {
		exceptions.Panicf("ukernel.Register(%q): invalid tile params %+v", name, params)
	}

	registryMu.Lock()
	defer registryMu.Unlock()
	for _, other := range registrations {
		if other.Name == name && other.Convention() == r.Convention() {
			exceptions.Panicf("ukernel.Register(%q): %s kernel registered twice", name, r.Convention())
		}
	}
	registrations = append(registrations, r)
	slices.SortStableFunc(registrations, func(a, b *Registration) int {
		if a.Priority != b.Priority {
			return int(b.Priority - a.Priority)
		}
		return strings.Compare(a.Name, b.Name)
	})
}

// Registered returns a copy of the list of registered kernels, highest priority first.
func Registered() []*Registration {
	registryMu.Lock()
	defer registryMu.Unlock()
	return slices.Clone(registrations)
}

// Lookup returns the registrations with the given name, or nil if there are none.
func Lookup(name string) []*Registration {
	var found []*Registration
	for _, r := range Registered() {
		if r.Name == name {
			found = append(found, r)
		}
	}
	return found
}

// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package gemmtest

import (
	"github.com/gomlx/exceptions"
	"github.com/pkg/errors"
)

// Config of a micro-kernel test. Build it with New().….Done(), or start from DefaultConfig.
//
// Config is a plain value: test operations never modify it.
type Config struct {
	// Mr, Nr are the tile rows and columns. For TestFixedTile they are the exact tile shape,
	// for TestVariableTile they are *exclusive* upper bounds of the tile shapes tested.
	Mr, Nr int

	// Kc is the accumulation depth: number of k-steps summed per tile.
	Kc int

	// SIMDWidth is used to pad the B panel stride of variable-tile kernels, see NRStride.
	SIMDWidth int

	// Iterations is the number of randomized trials per tile shape.
	Iterations int

	// ErrorLimit is the acceptance threshold: the maximum over the output elements of the
	// median (over iterations) relative error must be strictly below it.
	ErrorLimit float32

	// Seed for the random operands. If 0, a time based seed is used. The seed used is
	// reported in every Result, so a failure can be replayed.
	Seed int64

	// Accumulate exercises the kernels' update path: C is pre-filled with random values
	// and the kernel is called with update=1. By default C is pre-filled with NaN and the
	// kernel is called with update=0.
	Accumulate bool
}

// DefaultConfig returns the default configuration: 1x1 tile, Kc=1, SIMDWidth=1, 1000 iterations
// and an error limit of 1e-5.
func DefaultConfig() Config {
	return Config{
		Mr:         1,
		Nr:         1,
		Kc:         1,
		SIMDWidth:  1,
		Iterations: 1000,
		ErrorLimit: 1.0e-5,
	}
}

// NRStride returns nr rounded up to a multiple of SIMDWidth: the stride of the B panel of
// variable-tile kernels.
func (c Config) NRStride(nr int) int {
	return (nr + c.SIMDWidth - 1) / c.SIMDWidth * c.SIMDWidth
}

// Validate returns an error if any of the dimensions, iterations or error limit is not positive.
func (c Config) Validate() error {
	for _, dim := range []struct {
		name  string
		value int
	}{
		{"Mr", c.Mr}, {"Nr", c.Nr}, {"Kc", c.Kc}, {"SIMDWidth", c.SIMDWidth}, {"Iterations", c.Iterations},
	} {
		if dim.value < 1 {
			return errors.Errorf("gemmtest.Config: %s must be >= 1, got %d", dim.name, dim.value)
		}
	}
	if !(c.ErrorLimit > 0) {
		return errors.Errorf("gemmtest.Config: ErrorLimit must be positive, got %g", c.ErrorLimit)
	}
	return nil
}

// mustValidate panics with the validation error, if any.
func (c Config) mustValidate() {
	if err := c.Validate(); err != nil {
		exceptions.Panicf("invalid configuration: %+v", err)
	}
}

// Builder for Config, with chained setters.
type Builder struct {
	config Config
}

// New returns a Builder initialized with DefaultConfig.
//
// Example:
//
//	cfg := gemmtest.New().Mr(4).Nr(8).Kc(16).SIMDWidth(4).Done()
//	gemmtest.TestFixedTile(t, cfg, myKernel)
func New() *Builder {
	return &Builder{config: DefaultConfig()}
}

// From returns a Builder initialized with the given configuration.
func From(config Config) *Builder {
	return &Builder{config: config}
}

// Mr sets the number of tile rows.
func (b *Builder) Mr(mr int) *Builder {
	b.config.Mr = mr
	return b
}

// Nr sets the number of tile columns.
func (b *Builder) Nr(nr int) *Builder {
	b.config.Nr = nr
	return b
}

// Kc sets the accumulation depth.
func (b *Builder) Kc(kc int) *Builder {
	b.config.Kc = kc
	return b
}

// SIMDWidth sets the lane width used to pad the B panel stride.
func (b *Builder) SIMDWidth(simdWidth int) *Builder {
	b.config.SIMDWidth = simdWidth
	return b
}

// Iterations sets the number of randomized trials.
func (b *Builder) Iterations(iterations int) *Builder {
	b.config.Iterations = iterations
	return b
}

// ErrorLimit sets the acceptance threshold for the max of median relative errors.
func (b *Builder) ErrorLimit(errorLimit float32) *Builder {
	b.config.ErrorLimit = errorLimit
	return b
}

// Seed sets the random seed. 0 means time based.
func (b *Builder) Seed(seed int64) *Builder {
	b.config.Seed = seed
	return b
}

// Accumulate sets whether to test the kernels' accumulation (update=1) path.
func (b *Builder) Accumulate(accumulate bool) *Builder {
	b.config.Accumulate = accumulate
	return b
}

// Done returns the configuration built. It panics if the configuration is invalid, see Config.Validate.
func (b *Builder) Done() Config {
	b.config.mustValidate()
	return b.config
}

package xslices

import (
	"flag"
	"fmt"
	"math"
	"math/rand"
	"slices"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/stat"
)

func TestMap(t *testing.T) {
	count := 17
	in := make([]int, count)
	for ii := range in {
		in[ii] = ii
	}
	out := Map(in, func(v int) int32 { return int32(v + 1) })
	for ii := 0; ii < count; ii++ {
		assert.Equalf(t, int32(ii+1), out[ii], "element %d doesn't match", ii)
	}
}

func TestFillSlice(t *testing.T) {
	for _, size := range []int{0, 1, 2, 7, 64, 100} {
		s := make([]float32, size)
		FillSlice(s, float32(math.NaN()))
		for ii, v := range s {
			require.Truef(t, math.IsNaN(float64(v)), "size=%d, element %d not filled", size, ii)
		}
	}
}

func TestMaxNaN(t *testing.T) {
	v, idx := MaxNaN([]float32{})
	assert.Equal(t, float32(0), v)
	assert.Equal(t, -1, idx)

	v, idx = MaxNaN([]float32{1, 5, 3})
	assert.Equal(t, float32(5), v)
	assert.Equal(t, 1, idx)

	v, idx = MaxNaN([]float32{1, 5, float32(math.NaN()), 7})
	assert.True(t, math.IsNaN(float64(v)))
	assert.Equal(t, 2, idx)

	v64, idx := MaxNaN([]float64{-2, -1, -3})
	assert.Equal(t, -1.0, v64)
	assert.Equal(t, 1, idx)
}

func TestNthElement(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	for _, size := range []int{1, 2, 3, 5, 10, 101, 1000} {
		for _, withRepeats := range []bool{false, true} {
			t.Run(fmt.Sprintf("size=%d,repeats=%v", size, withRepeats), func(t *testing.T) {
				values := make([]float32, size)
				for ii := range values {
					if withRepeats {
						values[ii] = float32(rng.Intn(3))
					} else {
						values[ii] = rng.Float32()
					}
				}
				sorted := slices.Clone(values)
				slices.Sort(sorted)
				for _, n := range []int{0, size / 2, size - 1} {
					s := slices.Clone(values)
					NthElement(s, n)
					require.Equal(t, sorted[n], s[n])
					for ii := range n {
						require.LessOrEqual(t, s[ii], s[n])
					}
					for ii := n + 1; ii < size; ii++ {
						require.GreaterOrEqual(t, s[ii], s[n])
					}
					// It's a permutation.
					slices.Sort(s)
					require.Equal(t, sorted, s)
				}
			})
		}
	}
	require.Panics(t, func() { NthElement([]int{1, 2}, 2) })
	require.Panics(t, func() { NthElement([]int{1, 2}, -1) })
}

func TestNthElementNaN(t *testing.T) {
	nan := float32(math.NaN())
	s := []float32{3, nan, 1, nan, 2}
	NthElement(s, 0)
	assert.True(t, math.IsNaN(float64(s[0])), "NaNs are ordered first")
	s = []float32{3, nan, 1, nan, 2}
	NthElement(s, 4)
	assert.Equal(t, float32(3), s[4])
}

func TestMedian(t *testing.T) {
	// Odd lengths: value at sorted rank k of 2k+1 elements, same as the empirical quantile.
	rng := rand.New(rand.NewSource(7))
	for _, k := range []int{0, 1, 2, 10, 499} {
		values := make([]float64, 2*k+1)
		for ii := range values {
			values[ii] = rng.NormFloat64()
		}
		sorted := slices.Clone(values)
		slices.Sort(sorted)
		want := stat.Quantile(0.5, stat.Empirical, sorted, nil)
		assert.Equal(t, sorted[k], want)
		assert.Equalf(t, want, Median(values), "2k+1 with k=%d", k)
	}

	// Even lengths: upper middle element.
	assert.Equal(t, 3, Median([]int{4, 1, 3, 2}))
	assert.Equal(t, 2, Median([]int{2, 1}))
	require.Panics(t, func() { Median([]int{}) })

	medians := Medians([][]float32{{1, 3, 2}, {0, 0, 0}, {9, 7, 8, 6, 5}})
	assert.Equal(t, []float32{2, 0, 7}, medians)
}

type StringerFloat float64

func (f StringerFloat) String() string {
	return fmt.Sprintf("%.02f", float64(f))
}

func TestSliceFlag(t *testing.T) {
	f1Ptr := Flag("f1", []int{2, 3}, "f1 flag test", strconv.Atoi)
	assert.Equal(t, []int{2, 3}, *f1Ptr)
	require.NoError(t, flag.Set("f1", "3,4,5"))
	assert.Equal(t, []int{3, 4, 5}, *f1Ptr)
	f1Flag := flag.Lookup("f1")
	require.NotNil(t, f1Flag)
	assert.Equal(t, "2,3", f1Flag.DefValue)

	f2Ptr := Flag("f2", []StringerFloat{2.0, 3.0}, "f2 flag test",
		func(v string) (StringerFloat, error) {
			f, err := strconv.ParseFloat(v, 64)
			return StringerFloat(f), err
		})
	assert.Equal(t, []StringerFloat{2, 3}, *f2Ptr)
	require.NoError(t, flag.Set("f2", "3,4,5"))
	assert.Equal(t, []StringerFloat{3, 4, 5}, *f2Ptr)
	f2Flag := flag.Lookup("f2")
	require.NotNil(t, f2Flag)
	assert.Equal(t, "2.00,3.00", f2Flag.DefValue)

	f3Ptr := Flag("f3", []string{"a"}, "f3 flag test", func(v string) (string, error) { return v, nil })
	require.NoError(t, flag.Set("f3", ""))
	assert.Empty(t, *f3Ptr)
}

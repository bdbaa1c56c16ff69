/*
 *	Copyright 2023 Jan Pfeifer
 *
 *	Licensed under the Apache License, Version 2.0 (the "License");
 *	you may not use this file except in compliance with the License.
 *	You may obtain a copy of the License at
 *
 *	http://www.apache.org/licenses/LICENSE-2.0
 *
 *	Unless required by applicable law or agreed to in writing, software
 *	distributed under the License is distributed on an "AS IS" BASIS,
 *	WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 *	See the License for the specific language governing permissions and
 *	limitations under the License.
 */

// Package xslices provide missing functionality to the slices package: filling, order statistics
// (partial selection and medians) and a generic slice flag.
package xslices

import (
	"cmp"
	"flag"
	"fmt"
	"math"
	"reflect"
	"strings"

	"github.com/gomlx/exceptions"
	"golang.org/x/exp/constraints"
)

// FillSlice with fill the slice with the given value.
func FillSlice[T any](slice []T, value T) {
	// Apparently, the fastest way is by using copy.
	if len(slice) == 0 {
		return
	}
	slice[0] = value
	filled := 1
	for ; filled < len(slice); filled *= 2 {
		copy(slice[filled:], slice[:filled])
	}
}

// Map executes the given function sequentially for every element on in, and returns a mapped slice.
func Map[In, Out any](in []In, fn func(e In) Out) (out []Out) {
	out = make([]Out, len(in))
	for ii, e := range in {
		out[ii] = fn(e)
	}
	return
}

// MaxNaN scans the slice and returns the maximum value, and the index where it was found.
//
// Unlike the builtin max, a NaN anywhere in the slice is returned immediately (with its index):
// a NaN must never be silently skipped by a comparison.
// For an empty slice it returns the zero value and -1.
func MaxNaN[T constraints.Float](slice []T) (maxValue T, maxIdx int) {
	maxIdx = -1
	for ii, v := range slice {
		if math.IsNaN(float64(v)) {
			return v, ii
		}
		if maxIdx < 0 || v > maxValue {
			maxValue, maxIdx = v, ii
		}
	}
	return
}

// NthElement partially sorts slice in place, so that slice[n] holds the element that would be
// in that position if the whole slice were sorted in ascending order. Every element before n
// is less than or equal to it, and every element after is greater than or equal to it.
//
// Ordering follows cmp.Less: for floating point values NaNs are ordered before any other value.
//
// It runs in expected linear time (quickselect with a median-of-three pivot and a 3-way partition,
// so repeated values don't degrade it).
func NthElement[T cmp.Ordered](slice []T, n int) {
	if n < 0 || n >= len(slice) {
		exceptions.Panicf("xslices.NthElement: position %d out of range for slice of length %d", n, len(slice))
	}
	lo, hi := 0, len(slice)-1
	for lo < hi {
		lt, gt := partition3(slice, lo, hi)
		switch {
		case n < lt:
			hi = lt - 1
		case n > gt:
			lo = gt + 1
		default:
			return
		}
	}
}

// partition3 partitions slice[lo:hi+1] around a median-of-three pivot, into elements less than,
// equal and greater than the pivot. It returns the inclusive range [lt, gt] holding the
// elements equal to the pivot.
func partition3[T cmp.Ordered](slice []T, lo, hi int) (lt, gt int) {
	mid := lo + (hi-lo)/2
	if cmp.Less(slice[mid], slice[lo]) {
		slice[mid], slice[lo] = slice[lo], slice[mid]
	}
	if cmp.Less(slice[hi], slice[lo]) {
		slice[hi], slice[lo] = slice[lo], slice[hi]
	}
	if cmp.Less(slice[mid], slice[hi]) {
		slice[mid], slice[hi] = slice[hi], slice[mid]
	}
	pivot := slice[hi]

	lt, gt = lo, hi
	for ii := lo; ii <= gt; {
		switch {
		case cmp.Less(slice[ii], pivot):
			slice[lt], slice[ii] = slice[ii], slice[lt]
			lt++
			ii++
		case cmp.Less(pivot, slice[ii]):
			slice[ii], slice[gt] = slice[gt], slice[ii]
			gt--
		default:
			ii++
		}
	}
	return
}

// Median returns the element at position len(slice)/2 of the sorted slice.
// For odd lengths that is the statistical median; for even lengths it is the upper of the
// two middle elements.
//
// The slice is reordered in place (see NthElement). It panics if the slice is empty.
func Median[T cmp.Ordered](slice []T) T {
	if len(slice) == 0 {
		exceptions.Panicf("xslices.Median: empty slice")
	}
	middle := len(slice) / 2
	NthElement(slice, middle)
	return slice[middle]
}

// Medians reduces each row of the matrix to its median, see Median.
// The rows are reordered in place.
func Medians[T cmp.Ordered](matrix [][]T) []T {
	return Map(matrix, func(row []T) T { return Median(row) })
}

// Flag creates a flag for []T with the given name, description and default value.
// It takes as input a parser for an individual T value.
func Flag[T any](name string, defaultValue []T, usage string,
	parserFn func(valueStr string) (T, error)) *[]T {
	f := &genericSliceFlagImpl[T]{
		parsedSlice: defaultValue,
		parserFn:    parserFn,
	}
	flag.Var(f, name, usage)
	return &f.parsedSlice
}

// genericSliceFlagImpl implements flag.Value for a generic type.
type genericSliceFlagImpl[T any] struct {
	parsedSlice []T
	parserFn    func(valueStr string) (T, error)
}

func (f *genericSliceFlagImpl[T]) String() string {
	if len(f.parsedSlice) == 0 {
		return ""
	}
	parts := make([]string, len(f.parsedSlice))
	for ii, elem := range f.parsedSlice {
		v := reflect.ValueOf(elem)
		stringerType := reflect.TypeOf((*fmt.Stringer)(nil)).Elem()
		if v.CanConvert(stringerType) {
			parts[ii] = v.Convert(stringerType).Interface().(fmt.Stringer).String()
		} else {
			parts[ii] = fmt.Sprintf("%v", elem)
		}
	}
	return strings.Join(parts, ",")
}

func (f *genericSliceFlagImpl[T]) Set(listStr string) error {
	if listStr == "" {
		f.parsedSlice = make([]T, 0)
		return nil
	}
	parts := strings.Split(listStr, ",")
	f.parsedSlice = make([]T, len(parts))
	var err error
	for ii, part := range parts {
		f.parsedSlice[ii], err = f.parserFn(part)
		if err != nil {
			return err
		}
	}
	return nil
}

// Copyright 2025 Google LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package kernels

import (
	"github.com/pkg/errors"
)

// Range is a half-open interval [Start, End) along one axis.
type Range struct {
	Start, End int
}

// Size returns the number of elements of an array given its axis lengths.
func Size(dims []int) int {
	size := 1
	for _, d := range dims {
		size *= d
	}
	return size
}

// strides returns the row-major strides of an array.
func strides(dims []int) []int {
	st := make([]int, len(dims))
	acc := 1
	for i := len(dims) - 1; i >= 0; i-- {
		st[i] = acc
		acc *= dims[i]
	}
	return st
}

// forEach calls f for each multi-dimensional index of an array of the given
// dimensions, in row-major order. The index slice is reused between calls.
func forEach(dims []int, f func(idx []int)) {
	if Size(dims) == 0 {
		return
	}
	idx := make([]int, len(dims))
	for {
		f(idx)
		axis := len(dims) - 1
		for ; axis >= 0; axis-- {
			idx[axis]++
			if idx[axis] < dims[axis] {
				break
			}
			idx[axis] = 0
		}
		if axis < 0 {
			return
		}
	}
}

func offset(idx, st []int) int {
	off := 0
	for i, v := range idx {
		off += v * st[i]
	}
	return off
}

func checkRanges(dims []int, rngs []Range) ([]int, error) {
	if len(rngs) != len(dims) {
		return nil, errors.Errorf("got %d ranges for an array of rank %d", len(rngs), len(dims))
	}
	out := make([]int, len(dims))
	for i, r := range rngs {
		if r.Start < 0 || r.Start > r.End || r.End > dims[i] {
			return nil, errors.Errorf("range [%d, %d) out of bounds for axis %d of length %d", r.Start, r.End, i, dims[i])
		}
		out[i] = r.End - r.Start
	}
	return out, nil
}

// Fill returns an array of n elements all equal to val.
func Fill[T any](n int, val T) []T {
	z := make([]T, n)
	for i := range z {
		z[i] = val
	}
	return z
}

// Slice copies the region of x selected by ranges.
// It returns the values and the dimensions of the region.
func Slice[T any](x []T, dims []int, rngs []Range) ([]T, []int, error) {
	out, err := checkRanges(dims, rngs)
	if err != nil {
		return nil, nil, err
	}
	st := strides(dims)
	z := make([]T, 0, Size(out))
	src := make([]int, len(dims))
	forEach(out, func(idx []int) {
		for i, v := range idx {
			src[i] = v + rngs[i].Start
		}
		z = append(z, x[offset(src, st)])
	})
	return z, out, nil
}

// Merge writes src into the region of dst selected by ranges.
// The dimensions of src must be the extents of the ranges.
func Merge[T any](dst []T, dstDims []int, src []T, srcDims []int, rngs []Range) error {
	out, err := checkRanges(dstDims, rngs)
	if err != nil {
		return err
	}
	if len(srcDims) != len(out) {
		return errors.Errorf("cannot merge an array of rank %d into an array of rank %d", len(srcDims), len(out))
	}
	for i, d := range out {
		if srcDims[i] != d {
			return errors.Errorf("cannot merge an array of dimensions %v into a range of dimensions %v", srcDims, out)
		}
	}
	st := strides(dstDims)
	pos := make([]int, len(dstDims))
	n := 0
	forEach(out, func(idx []int) {
		for i, v := range idx {
			pos[i] = v + rngs[i].Start
		}
		dst[offset(pos, st)] = src[n]
		n++
	})
	return nil
}

// Expand broadcasts the axes of length 1 of x to the target dimensions.
func Expand[T any](x []T, dims, target []int) ([]T, error) {
	if len(dims) != len(target) {
		return nil, errors.Errorf("cannot expand an array of rank %d to rank %d", len(dims), len(target))
	}
	st := strides(dims)
	for i, d := range dims {
		if d == target[i] {
			continue
		}
		if d != 1 {
			return nil, errors.Errorf("cannot expand axis %d of length %d to %d", i, d, target[i])
		}
		st[i] = 0
	}
	z := make([]T, 0, Size(target))
	forEach(target, func(idx []int) {
		z = append(z, x[offset(idx, st)])
	})
	return z, nil
}

// Flip reverses the order of the elements along the masked axes.
func Flip[T any](x []T, dims []int, mask []bool) ([]T, error) {
	if len(mask) != len(dims) {
		return nil, errors.Errorf("got a mask of %d axes for an array of rank %d", len(mask), len(dims))
	}
	st := strides(dims)
	src := make([]int, len(dims))
	z := make([]T, 0, len(x))
	forEach(dims, func(idx []int) {
		for i, v := range idx {
			if mask[i] {
				v = dims[i] - 1 - v
			}
			src[i] = v
		}
		z = append(z, x[offset(src, st)])
	})
	return z, nil
}

// StepDims returns the dimensions of an array after stepping.
func StepDims(dims, by []int) ([]int, error) {
	if len(by) != len(dims) {
		return nil, errors.Errorf("got %d steps for an array of rank %d", len(by), len(dims))
	}
	out := make([]int, len(dims))
	for i, b := range by {
		if b <= 0 {
			return nil, errors.Errorf("invalid step %d for axis %d", b, i)
		}
		out[i] = (dims[i] + b - 1) / b
	}
	return out, nil
}

// Step keeps one element every by[i] elements along each axis,
// starting from the first element.
func Step[T any](x []T, dims, by []int) ([]T, []int, error) {
	out, err := StepDims(dims, by)
	if err != nil {
		return nil, nil, err
	}
	st := strides(dims)
	src := make([]int, len(dims))
	z := make([]T, 0, Size(out))
	forEach(out, func(idx []int) {
		for i, v := range idx {
			src[i] = v * by[i]
		}
		z = append(z, x[offset(src, st)])
	})
	return z, out, nil
}

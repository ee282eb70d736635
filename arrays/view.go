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

// Package arrays provides typed views on host arrays and the marshalling
// of these views to raw bytes and to engine arrays.
package arrays

import (
	"fmt"
	"slices"

	"github.com/gx-org/backend/dtype"
	"github.com/gx-org/backend/shape"
	"github.com/gx-org/cayley/build/elem"
	"github.com/gx-org/cayley/fmt/fmtarray"
	"github.com/pkg/errors"
)

// View is a multi-dimensional array stored in host memory:
// an element type, a shape, and a flat Go slice in row-major order.
type View struct {
	typ  elem.Type
	dims []int
	data any
}

// Size returns the number of elements of an array given its dimensions.
func Size(dims []int) int {
	size := 1
	for _, d := range dims {
		size *= d
	}
	return size
}

// Of returns a view on a slice of values.
// It panics if the number of values does not match the dimensions.
func Of[T elem.Go](dims []int, values []T) View {
	if len(values) != Size(dims) {
		panic(errors.Errorf("mismatch between the number of values (=%d) and the number of elements (=%d) in shape %v", len(values), Size(dims), dims))
	}
	return View{typ: elem.Of[T](), dims: slices.Clone(dims), data: values}
}

// Fill returns an array with all its elements equal to a value.
func Fill[T elem.Go](dims []int, val T) View {
	vals := make([]T, Size(dims))
	for i := range vals {
		vals[i] = val
	}
	return Of(dims, vals)
}

// New returns a view given an element type and a Go slice.
func New(typ elem.Type, dims []int, data any) (View, error) {
	var n int
	switch vals := data.(type) {
	case []bool:
		n = checkType(typ, vals)
	case []uint8:
		n = checkType(typ, vals)
	case []uint16:
		n = checkType(typ, vals)
	case []uint32:
		n = checkType(typ, vals)
	case []uint64:
		n = checkType(typ, vals)
	case []int8:
		n = checkType(typ, vals)
	case []int16:
		n = checkType(typ, vals)
	case []int32:
		n = checkType(typ, vals)
	case []int64:
		n = checkType(typ, vals)
	case []float32:
		n = checkType(typ, vals)
	case []float64:
		n = checkType(typ, vals)
	default:
		return View{}, errors.Errorf("cannot create an array from %T", data)
	}
	if n < 0 {
		return View{}, errors.Errorf("cannot create an array of %s from %T", typ, data)
	}
	if n != Size(dims) {
		return View{}, errors.Errorf("mismatch between the number of values (=%d) and the number of elements (=%d) in shape %v", n, Size(dims), dims)
	}
	return View{typ: typ, dims: slices.Clone(dims), data: data}, nil
}

func checkType[T elem.Go](typ elem.Type, vals []T) int {
	if elem.Of[T]() != typ {
		return -1
	}
	return len(vals)
}

// Zero returns an array of zeros.
func Zero(typ elem.Type, dims []int) (View, error) {
	n := Size(dims)
	switch typ {
	case elem.Bool:
		return Of(dims, make([]bool, n)), nil
	case elem.U8:
		return Of(dims, make([]uint8, n)), nil
	case elem.U16:
		return Of(dims, make([]uint16, n)), nil
	case elem.U32:
		return Of(dims, make([]uint32, n)), nil
	case elem.U64:
		return Of(dims, make([]uint64, n)), nil
	case elem.I8:
		return Of(dims, make([]int8, n)), nil
	case elem.I16:
		return Of(dims, make([]int16, n)), nil
	case elem.I32:
		return Of(dims, make([]int32, n)), nil
	case elem.I64:
		return Of(dims, make([]int64, n)), nil
	case elem.F32:
		return Of(dims, make([]float32, n)), nil
	case elem.F64:
		return Of(dims, make([]float64, n)), nil
	}
	return View{}, errors.Errorf("cannot create an array of type %s", typ)
}

// Values returns the flat values of a view.
func Values[T elem.Go](v View) ([]T, error) {
	vals, ok := v.data.([]T)
	if !ok {
		return nil, errors.Errorf("cannot read an array of %s as %s", v.typ, elem.Of[T]())
	}
	return vals, nil
}

// Type of the elements of the array.
func (v View) Type() elem.Type {
	return v.typ
}

// Dims returns the axis lengths of the array.
func (v View) Dims() []int {
	return v.dims
}

// Rank returns the number of axes.
func (v View) Rank() int {
	return len(v.dims)
}

// Size returns the number of elements.
func (v View) Size() int {
	return Size(v.dims)
}

// ByteSize returns the number of bytes used by the elements.
func (v View) ByteSize() int {
	return v.Size() * v.typ.Size()
}

// Data returns the flat Go slice storing the elements.
func (v View) Data() any {
	return v.data
}

// IsZero returns true if the view has not been initialized.
func (v View) IsZero() bool {
	return v.data == nil
}

// Clone returns a deep copy of the view.
func (v View) Clone() View {
	var data any
	switch vals := v.data.(type) {
	case []bool:
		data = slices.Clone(vals)
	case []uint8:
		data = slices.Clone(vals)
	case []uint16:
		data = slices.Clone(vals)
	case []uint32:
		data = slices.Clone(vals)
	case []uint64:
		data = slices.Clone(vals)
	case []int8:
		data = slices.Clone(vals)
	case []int16:
		data = slices.Clone(vals)
	case []int32:
		data = slices.Clone(vals)
	case []int64:
		data = slices.Clone(vals)
	case []float32:
		data = slices.Clone(vals)
	case []float64:
		data = slices.Clone(vals)
	}
	return View{typ: v.typ, dims: slices.Clone(v.dims), data: data}
}

// Equal returns true if two views have the same type, shape and
// bit-for-bit identical values.
func (v View) Equal(o View) bool {
	if v.typ != o.typ || !slices.Equal(v.dims, o.dims) {
		return false
	}
	if v.IsZero() || o.IsZero() {
		return v.IsZero() == o.IsZero()
	}
	return slices.Equal(ToBytes(v), ToBytes(o))
}

// BackendShape returns the shape of the array for the gx backend.
// An error is returned if the backend does not support the element type.
func (v View) BackendShape() (*shape.Shape, error) {
	dt := v.typ.DType()
	if dt == dtype.Invalid {
		return nil, errors.Errorf("element type %s has no backend data type", v.typ)
	}
	return &shape.Shape{DType: dt, AxisLengths: slices.Clone(v.dims)}, nil
}

// String representation of the array.
func (v View) String() string {
	switch vals := v.data.(type) {
	case []bool:
		return fmtarray.Sprint(vals, v.dims)
	case []uint8:
		return fmtarray.Sprint(vals, v.dims)
	case []uint16:
		return fmtarray.Sprint(vals, v.dims)
	case []uint32:
		return fmtarray.Sprint(vals, v.dims)
	case []uint64:
		return fmtarray.Sprint(vals, v.dims)
	case []int8:
		return fmtarray.Sprint(vals, v.dims)
	case []int16:
		return fmtarray.Sprint(vals, v.dims)
	case []int32:
		return fmtarray.Sprint(vals, v.dims)
	case []int64:
		return fmtarray.Sprint(vals, v.dims)
	case []float32:
		return fmtarray.Sprint(vals, v.dims)
	case []float64:
		return fmtarray.Sprint(vals, v.dims)
	}
	return fmt.Sprintf("%s%v(nil)", v.typ, v.dims)
}

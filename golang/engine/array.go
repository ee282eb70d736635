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

package engine

import (
	"github.com/gx-org/cayley/build/elem"
	"github.com/gx-org/cayley/golang/engine/kernels"
	"github.com/pkg/errors"
)

// Array is a multi-dimensional array owned by an engine.
// It must be released with Free once it is not used anymore.
type Array struct {
	eng  *Engine
	typ  elem.Type
	dims []int
	data any
}

func newArray[T elem.Go](eng *Engine, dims []int, data []T) *Array {
	eng.live.Add(1)
	return &Array{
		eng:  eng,
		typ:  elem.Of[T](),
		dims: dims,
		data: data,
	}
}

// NewArray copies data into a new array owned by the engine.
// data must be a slice of the Go type matching typ with one value
// per element of the array.
func (eng *Engine) NewArray(typ elem.Type, dims []int, data any) (*Array, error) {
	switch typ {
	case elem.Bool:
		return copyArray[bool](eng, dims, data)
	case elem.U8:
		return copyArray[uint8](eng, dims, data)
	case elem.U16:
		return copyArray[uint16](eng, dims, data)
	case elem.U32:
		return copyArray[uint32](eng, dims, data)
	case elem.U64:
		return copyArray[uint64](eng, dims, data)
	case elem.I8:
		return copyArray[int8](eng, dims, data)
	case elem.I16:
		return copyArray[int16](eng, dims, data)
	case elem.I32:
		return copyArray[int32](eng, dims, data)
	case elem.I64:
		return copyArray[int64](eng, dims, data)
	case elem.F32:
		return copyArray[float32](eng, dims, data)
	case elem.F64:
		return copyArray[float64](eng, dims, data)
	}
	return nil, errors.Errorf("cannot create an array of type %s", typ)
}

func copyArray[T elem.Go](eng *Engine, dims []int, data any) (*Array, error) {
	vals, ok := data.([]T)
	if !ok {
		return nil, errors.Errorf("cannot create an array of type %s from %T", elem.Of[T](), data)
	}
	if len(vals) != kernels.Size(dims) {
		return nil, errors.Errorf("mismatch between the number of values (=%d) and the number of elements (=%d) in shape %v", len(vals), kernels.Size(dims), dims)
	}
	return newArray(eng, append([]int{}, dims...), append([]T{}, vals...)), nil
}

// Type of the elements of the array.
func (a *Array) Type() elem.Type {
	return a.typ
}

// Dims returns the axis lengths of the array.
func (a *Array) Dims() []int {
	return a.dims
}

// Rank returns the number of axes of the array.
func (a *Array) Rank() int {
	return len(a.dims)
}

// Data returns the flat values of the array as a Go slice,
// or nil if the array has been freed.
func (a *Array) Data() any {
	return a.data
}

// Freed returns true if the array has been released.
func (a *Array) Freed() bool {
	return a.data == nil
}

// Free releases the memory of the array.
// Calling Free more than once has no effect.
func (a *Array) Free() {
	if a == nil || a.data == nil {
		return
	}
	a.data = nil
	a.eng.live.Add(-1)
}

// Values returns the flat values of an array.
func Values[T elem.Go](a *Array) ([]T, error) {
	if a.Freed() {
		return nil, errors.Errorf("array has been freed")
	}
	vals, ok := a.data.([]T)
	if !ok {
		return nil, errors.Errorf("cannot read an array of type %s as %s", a.typ, elem.Of[T]())
	}
	return vals, nil
}

func (a *Array) clone() *Array {
	return a.eng.cloneArray(a)
}

func (eng *Engine) cloneArray(a *Array) *Array {
	c, err := eng.NewArray(a.typ, a.dims, a.data)
	if err != nil {
		panic(errors.Wrapf(err, "cannot clone array"))
	}
	return c
}

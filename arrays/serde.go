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

package arrays

import (
	"slices"
	"unsafe"

	"github.com/gx-org/cayley/build/elem"
	"github.com/gx-org/cayley/golang/engine"
	"github.com/pkg/errors"
)

func bytesOf[T elem.Go](vals []T) []byte {
	if len(vals) == 0 {
		return []byte{}
	}
	return unsafe.Slice((*byte)(unsafe.Pointer(&vals[0])), len(vals)*elem.Of[T]().Size())
}

// ToBytes reinterprets the elements of a view as raw bytes without copying.
// Elements are stored in the native byte order of the host.
func ToBytes(v View) []byte {
	switch vals := v.data.(type) {
	case []bool:
		return bytesOf(vals)
	case []uint8:
		return bytesOf(vals)
	case []uint16:
		return bytesOf(vals)
	case []uint32:
		return bytesOf(vals)
	case []uint64:
		return bytesOf(vals)
	case []int8:
		return bytesOf(vals)
	case []int16:
		return bytesOf(vals)
	case []int32:
		return bytesOf(vals)
	case []int64:
		return bytesOf(vals)
	case []float32:
		return bytesOf(vals)
	case []float64:
		return bytesOf(vals)
	}
	panic(errors.Errorf("cannot marshal an array of type %s", v.typ))
}

func valuesOf[T elem.Go](b []byte, n int) []T {
	if n == 0 {
		return []T{}
	}
	if uintptr(unsafe.Pointer(&b[0]))%unsafe.Alignof(*new(T)) != 0 {
		// Unaligned buffers cannot be reinterpreted in place.
		vals := make([]T, n)
		copy(bytesOf(vals), b)
		return vals
	}
	return unsafe.Slice((*T)(unsafe.Pointer(&b[0])), n)
}

// FromBytes reinterprets raw bytes as a view. b must hold at least
// product(dims) elements of typ. The view shares the memory of b
// when b is suitably aligned.
func FromBytes(typ elem.Type, dims []int, b []byte) (View, error) {
	n, err := typ.NumElements(dims, len(b))
	if err != nil {
		return View{}, errors.Wrapf(err, "cannot read %s%v from a buffer of %d bytes", typ, dims, len(b))
	}
	var data any
	switch typ {
	case elem.Bool:
		for _, v := range b[:n] {
			if v > 1 {
				return View{}, errors.Errorf("invalid boolean value %d", v)
			}
		}
		data = valuesOf[bool](b, n)
	case elem.U8:
		data = valuesOf[uint8](b, n)
	case elem.U16:
		data = valuesOf[uint16](b, n)
	case elem.U32:
		data = valuesOf[uint32](b, n)
	case elem.U64:
		data = valuesOf[uint64](b, n)
	case elem.I8:
		data = valuesOf[int8](b, n)
	case elem.I16:
		data = valuesOf[int16](b, n)
	case elem.I32:
		data = valuesOf[int32](b, n)
	case elem.I64:
		data = valuesOf[int64](b, n)
	case elem.F32:
		data = valuesOf[float32](b, n)
	case elem.F64:
		data = valuesOf[float64](b, n)
	default:
		return View{}, errors.Errorf("cannot unmarshal an array of type %s", typ)
	}
	return View{typ: typ, dims: slices.Clone(dims), data: data}, nil
}

// ToEngine builds an engine array from a view.
// It panics if the type or the dimensions of the view do not match
// the ones expected by the caller.
func ToEngine(eng *engine.Engine, typ elem.Type, dims []int, v View) *engine.Array {
	if v.typ != typ {
		panic(errors.Errorf("cannot pass an array of %s where %s is expected", v.typ, typ))
	}
	if !slices.Equal(v.dims, dims) {
		panic(errors.Errorf("cannot pass an array of dimensions %v where %v is expected", v.dims, dims))
	}
	a, err := eng.NewArray(typ, dims, v.data)
	if err != nil {
		panic(errors.Wrapf(err, "cannot transfer array to the engine"))
	}
	return a
}

// FromEngine copies an engine array into host memory.
func FromEngine(a *engine.Array) (View, error) {
	if a.Freed() {
		return View{}, errors.Errorf("cannot copy a freed array")
	}
	v, err := New(a.Type(), a.Dims(), a.Data())
	if err != nil {
		return View{}, err
	}
	return v.Clone(), nil
}

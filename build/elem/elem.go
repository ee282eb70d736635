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

// Package elem defines the element types of numerical arrays.
package elem

import (
	"slices"
	"strings"

	"github.com/gx-org/backend/dtype"
	"github.com/pkg/errors"
)

// Type of the elements stored in an array.
type Type uint8

// Element types supported by the compiler and the engine.
const (
	Invalid Type = iota

	Bool
	U8
	U16
	U32
	U64
	I8
	I16
	I32
	I64
	F32
	F64

	// Max value for a Type constant.
	Max
)

type (
	// Integral Go types.
	Integral interface {
		~uint8 | ~uint16 | ~uint32 | ~uint64 | ~int8 | ~int16 | ~int32 | ~int64
	}

	// Float Go types.
	Float interface {
		~float32 | ~float64
	}

	// Scalar Go types, that is types supporting arithmetic.
	Scalar interface {
		Integral | Float
	}

	// Go types that can be stored in an array.
	Go interface {
		bool | uint8 | uint16 | uint32 | uint64 | int8 | int16 | int32 | int64 | float32 | float64
	}
)

// All returns all the valid element types.
func All() []Type {
	all := make([]Type, 0, Max-1)
	for t := Bool; t < Max; t++ {
		all = append(all, t)
	}
	return all
}

var names = [Max]string{
	Invalid: "invalid",
	Bool:    "bool",
	U8:      "u8",
	U16:     "u16",
	U32:     "u32",
	U64:     "u64",
	I8:      "i8",
	I16:     "i16",
	I32:     "i32",
	I64:     "i64",
	F32:     "f32",
	F64:     "f64",
}

// String returns the canonical lowercase name of the type,
// as used in instruction names.
func (t Type) String() string {
	if t >= Max {
		return names[Invalid]
	}
	return names[t]
}

// Parse returns a type from its name. The name is case-insensitive,
// so that both "u32" and "U32" are accepted.
func Parse(s string) (Type, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for t := Bool; t < Max; t++ {
		if names[t] == s {
			return t, nil
		}
	}
	return Invalid, errors.Errorf("unknown element type %q", s)
}

// Valid returns true if the type is one of the supported element types.
func (t Type) Valid() bool {
	return t > Invalid && t < Max
}

// IsBool returns true for the boolean type.
func (t Type) IsBool() bool {
	return t == Bool
}

// IsFloat returns true for floating point types.
func (t Type) IsFloat() bool {
	return t == F32 || t == F64
}

// IsIntegral returns true for integer types.
func (t Type) IsIntegral() bool {
	return t >= U8 && t <= I64
}

// IsScalar returns true if the type supports arithmetic.
func (t Type) IsScalar() bool {
	return t.IsIntegral() || t.IsFloat()
}

// IsSigned returns true for signed integer types.
func (t Type) IsSigned() bool {
	return t >= I8 && t <= I64
}

// Size returns the number of bytes used to store one element.
func (t Type) Size() int {
	switch t {
	case Bool, U8, I8:
		return 1
	case U16, I16:
		return 2
	case U32, I32, F32:
		return 4
	case U64, I64, F64:
		return 8
	}
	return 0
}

// NumElements returns the number of elements of an array of type t
// given its axis lengths. It fails if an axis is negative or if the array
// takes more than limit bytes.
func (t Type) NumElements(dims []int, limit int) (int, error) {
	size := t.Size()
	if size == 0 {
		return 0, errors.Errorf("invalid element type %s", t)
	}
	for i, d := range dims {
		if d < 0 {
			return 0, errors.Errorf("negative length %d for axis %d", d, i)
		}
	}
	if slices.Contains(dims, 0) {
		return 0, nil
	}
	n := 1
	for _, d := range dims {
		if n > limit/size/d {
			return 0, errors.Errorf("array of %s%v exceeds %d bytes", t, dims, limit)
		}
		n *= d
	}
	return n, nil
}

// DType returns the data type used by the gx backend for this element type.
// Types without a backend counterpart map to dtype.Invalid.
func (t Type) DType() dtype.DataType {
	switch t {
	case Bool:
		return dtype.Bool
	case U32:
		return dtype.Uint32
	case U64:
		return dtype.Uint64
	case I32:
		return dtype.Int32
	case I64:
		return dtype.Int64
	case F32:
		return dtype.Float32
	case F64:
		return dtype.Float64
	}
	return dtype.Invalid
}

// Of returns the element type of a Go type.
func Of[T Go]() Type {
	var zero T
	switch any(zero).(type) {
	case bool:
		return Bool
	case uint8:
		return U8
	case uint16:
		return U16
	case uint32:
		return U32
	case uint64:
		return U64
	case int8:
		return I8
	case int16:
		return I16
	case int32:
		return I32
	case int64:
		return I64
	case float32:
		return F32
	case float64:
		return F64
	}
	return Invalid
}

// TypeOfValue returns the element type of a Go scalar value.
func TypeOfValue(v any) Type {
	switch v.(type) {
	case bool:
		return Bool
	case uint8:
		return U8
	case uint16:
		return U16
	case uint32:
		return U32
	case uint64:
		return U64
	case int8:
		return I8
	case int16:
		return I16
	case int32:
		return I32
	case int64:
		return I64
	case float32:
		return F32
	case float64:
		return F64
	}
	return Invalid
}

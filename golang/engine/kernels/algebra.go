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

// Package kernels implements the numerical kernels of the Go engine
// on flat Go slices.
package kernels

import (
	"math"

	"github.com/pkg/errors"
	"golang.org/x/exp/constraints"
)

type (
	// Algebra types supporting arithmetic.
	Algebra interface {
		constraints.Integer | constraints.Float
	}

	// Binary computes an output slice from the values of two arrays
	// of the same shape.
	Binary[T, U any] func(x, y []T) ([]U, error)
)

func zip[T, U any](x, y []T, f func(T, T) U) ([]U, error) {
	if len(x) != len(y) {
		return nil, errors.Errorf("cannot apply a binary operator on arrays of size %d and %d", len(x), len(y))
	}
	z := make([]U, len(x))
	for i, xi := range x {
		z[i] = f(xi, y[i])
	}
	return z, nil
}

func zipErr[T any](x, y []T, f func(T, T) (T, error)) ([]T, error) {
	if len(x) != len(y) {
		return nil, errors.Errorf("cannot apply a binary operator on arrays of size %d and %d", len(x), len(y))
	}
	z := make([]T, len(x))
	for i, xi := range x {
		var err error
		if z[i], err = f(xi, y[i]); err != nil {
			return nil, err
		}
	}
	return z, nil
}

func apply[T, U any](x []T, f func(T) U) []U {
	z := make([]U, len(x))
	for i, xi := range x {
		z[i] = f(xi)
	}
	return z
}

// Add returns x+y.
func Add[T Algebra](x, y []T) ([]T, error) {
	return zip(x, y, func(a, b T) T { return a + b })
}

// Sub returns x-y.
func Sub[T Algebra](x, y []T) ([]T, error) {
	return zip(x, y, func(a, b T) T { return a - b })
}

// Mul returns x*y.
func Mul[T Algebra](x, y []T) ([]T, error) {
	return zip(x, y, func(a, b T) T { return a * b })
}

// Max returns the element-wise maximum of x and y.
func Max[T Algebra](x, y []T) ([]T, error) {
	return zip(x, y, func(a, b T) T { return max(a, b) })
}

// Min returns the element-wise minimum of x and y.
func Min[T Algebra](x, y []T) ([]T, error) {
	return zip(x, y, func(a, b T) T { return min(a, b) })
}

// DivInt returns x/y. A zero divisor is an error.
func DivInt[T constraints.Integer](x, y []T) ([]T, error) {
	return zipErr(x, y, func(a, b T) (T, error) {
		if b == 0 {
			return 0, errors.Errorf("integer division by zero")
		}
		return a / b, nil
	})
}

// RemInt returns x%y. A zero divisor is an error.
func RemInt[T constraints.Integer](x, y []T) ([]T, error) {
	return zipErr(x, y, func(a, b T) (T, error) {
		if b == 0 {
			return 0, errors.Errorf("integer remainder by zero")
		}
		return a % b, nil
	})
}

// DivFloat returns x/y following IEEE 754.
func DivFloat[T constraints.Float](x, y []T) ([]T, error) {
	return zip(x, y, func(a, b T) T { return a / b })
}

// RemFloat returns the floating-point remainder of x/y,
// with the sign of x.
func RemFloat[T constraints.Float](x, y []T) ([]T, error) {
	return zip(x, y, func(a, b T) T { return T(math.Mod(float64(a), float64(b))) })
}

// BitAnd returns x&y.
func BitAnd[T constraints.Integer](x, y []T) ([]T, error) {
	return zip(x, y, func(a, b T) T { return a & b })
}

// BitOr returns x|y.
func BitOr[T constraints.Integer](x, y []T) ([]T, error) {
	return zip(x, y, func(a, b T) T { return a | b })
}

// BitXor returns x^y.
func BitXor[T constraints.Integer](x, y []T) ([]T, error) {
	return zip(x, y, func(a, b T) T { return a ^ b })
}

// Shl returns x<<y. A negative shift count is an error.
func Shl[T constraints.Integer](x, y []T) ([]T, error) {
	return zipErr(x, y, func(a, b T) (T, error) {
		if b < 0 {
			return 0, errors.Errorf("negative shift count %v", b)
		}
		return a << b, nil
	})
}

// Shr returns x>>y. A negative shift count is an error.
func Shr[T constraints.Integer](x, y []T) ([]T, error) {
	return zipErr(x, y, func(a, b T) (T, error) {
		if b < 0 {
			return 0, errors.Errorf("negative shift count %v", b)
		}
		return a >> b, nil
	})
}

// Neg returns the bitwise complement of x.
func Neg[T constraints.Integer](x []T) ([]T, error) {
	return apply(x, func(a T) T { return ^a }), nil
}

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

import "golang.org/x/exp/constraints"

// Gt returns x>y.
func Gt[T constraints.Ordered](x, y []T) ([]bool, error) {
	return zip(x, y, func(a, b T) bool { return a > b })
}

// Lt returns x<y.
func Lt[T constraints.Ordered](x, y []T) ([]bool, error) {
	return zip(x, y, func(a, b T) bool { return a < b })
}

// Ge returns x>=y.
func Ge[T constraints.Ordered](x, y []T) ([]bool, error) {
	return zip(x, y, func(a, b T) bool { return a >= b })
}

// Le returns x<=y.
func Le[T constraints.Ordered](x, y []T) ([]bool, error) {
	return zip(x, y, func(a, b T) bool { return a <= b })
}

// Eq returns x==y.
func Eq[T comparable](x, y []T) ([]bool, error) {
	return zip(x, y, func(a, b T) bool { return a == b })
}

// Ne returns x!=y.
func Ne[T comparable](x, y []T) ([]bool, error) {
	return zip(x, y, func(a, b T) bool { return a != b })
}

// Bools are ordered with false < true.
func boolsToInts(x []bool) []uint8 {
	return apply(x, func(a bool) uint8 {
		if a {
			return 1
		}
		return 0
	})
}

// OrderBools turns an ordered comparison into a comparison of booleans.
func OrderBools(f func(x, y []uint8) ([]bool, error)) func(x, y []bool) ([]bool, error) {
	return func(x, y []bool) ([]bool, error) {
		return f(boolsToInts(x), boolsToInts(y))
	}
}

// Not returns !x.
func Not(x []bool) ([]bool, error) {
	return apply(x, func(a bool) bool { return !a }), nil
}

// And returns x&&y.
func And(x, y []bool) ([]bool, error) {
	return zip(x, y, func(a, b bool) bool { return a && b })
}

// Or returns x||y.
func Or(x, y []bool) ([]bool, error) {
	return zip(x, y, func(a, b bool) bool { return a || b })
}

// Xor returns x!=y on booleans.
func Xor(x, y []bool) ([]bool, error) {
	return zip(x, y, func(a, b bool) bool { return a != b })
}

// Cast converts numerical values from one type to another.
func Cast[T, U Algebra](x []T) ([]U, error) {
	return apply(x, func(a T) U { return U(a) }), nil
}

// CastToBool returns x!=0.
func CastToBool[T Algebra](x []T) ([]bool, error) {
	return apply(x, func(a T) bool { return a != 0 }), nil
}

// CastFromBool converts booleans to 0 or 1.
func CastFromBool[U constraints.Integer](x []bool) ([]U, error) {
	return apply(x, func(a bool) U {
		if a {
			return 1
		}
		return 0
	}), nil
}

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

package elem

import (
	"math"

	"github.com/pkg/errors"
)

func toFloat(v any) (float64, bool) {
	switch x := v.(type) {
	case int:
		return float64(x), true
	case uint:
		return float64(x), true
	case uint8:
		return float64(x), true
	case uint16:
		return float64(x), true
	case uint32:
		return float64(x), true
	case uint64:
		return float64(x), true
	case int8:
		return float64(x), true
	case int16:
		return float64(x), true
	case int32:
		return float64(x), true
	case int64:
		return float64(x), true
	case float32:
		return float64(x), true
	case float64:
		return x, true
	}
	return 0, false
}

// toInt returns v as a signed and an unsigned integer, and whether v is negative.
func toInt(v any) (int64, uint64, bool, bool) {
	switch x := v.(type) {
	case int:
		return int64(x), uint64(x), x < 0, true
	case uint:
		return int64(x), uint64(x), false, true
	case uint8:
		return int64(x), uint64(x), false, true
	case uint16:
		return int64(x), uint64(x), false, true
	case uint32:
		return int64(x), uint64(x), false, true
	case uint64:
		return int64(x), x, false, true
	case int8:
		return int64(x), uint64(x), x < 0, true
	case int16:
		return int64(x), uint64(x), x < 0, true
	case int32:
		return int64(x), uint64(x), x < 0, true
	case int64:
		return x, uint64(x), x < 0, true
	case float32, float64:
		f, _ := toFloat(x)
		if f != math.Trunc(f) || f < math.MinInt64 || f >= math.MaxUint64 {
			return 0, 0, false, false
		}
		if f < 0 {
			return int64(f), 0, true, true
		}
		return int64(f), uint64(f), false, true
	}
	return 0, 0, false, false
}

var (
	maxInt = map[Type]uint64{
		U8:  math.MaxUint8,
		U16: math.MaxUint16,
		U32: math.MaxUint32,
		U64: math.MaxUint64,
		I8:  math.MaxInt8,
		I16: math.MaxInt16,
		I32: math.MaxInt32,
		I64: math.MaxInt64,
	}
	minInt = map[Type]int64{
		I8:  math.MinInt8,
		I16: math.MinInt16,
		I32: math.MinInt32,
		I64: math.MinInt64,
	}
)

// fits returns true if an integer can be represented by an integral type.
func fits(t Type, i int64, u uint64, neg bool) bool {
	if !neg {
		return u <= maxInt[t]
	}
	lo, signed := minInt[t]
	return signed && i >= lo
}

// Convert returns a value as the Go type of an element type.
// Integers and integral floats are accepted for integral types as long as
// they fit.
func Convert(t Type, v any) (any, error) {
	if b, ok := v.(bool); ok {
		if t != Bool {
			return nil, errors.Errorf("cannot convert boolean %v to %s", b, t)
		}
		return b, nil
	}
	if t.IsFloat() {
		f, ok := toFloat(v)
		if !ok {
			return nil, errors.Errorf("cannot convert %v (%T) to %s", v, v, t)
		}
		if t == F32 {
			return float32(f), nil
		}
		return f, nil
	}
	i, u, neg, ok := toInt(v)
	if !ok || !t.IsIntegral() {
		return nil, errors.Errorf("cannot convert %v (%T) to %s", v, v, t)
	}
	if !fits(t, i, u, neg) {
		return nil, errors.Errorf("%v overflows %s", v, t)
	}
	switch t {
	case U8:
		return uint8(u), nil
	case U16:
		return uint16(u), nil
	case U32:
		return uint32(u), nil
	case U64:
		return u, nil
	case I8:
		return int8(i), nil
	case I16:
		return int16(i), nil
	case I32:
		return int32(i), nil
	case I64:
		return i, nil
	}
	return nil, errors.Errorf("cannot convert %v (%T) to %s", v, v, t)
}

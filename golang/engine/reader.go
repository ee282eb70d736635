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
	"encoding/binary"
	"math"
	"unsafe"

	"github.com/gx-org/cayley/build/elem"
	"github.com/gx-org/cayley/golang/engine/kernels"
	"github.com/pkg/errors"
)

// reader decodes the operands of instructions.
type reader struct {
	code []byte
	pos  int
}

func (r *reader) next(n int) ([]byte, error) {
	if n < 0 || n > len(r.code)-r.pos {
		return nil, errors.Errorf("bytecode truncated at offset %d: need %d bytes but %d left", r.pos, n, len(r.code)-r.pos)
	}
	b := r.code[r.pos : r.pos+n]
	r.pos += n
	return b, nil
}

func (r *reader) done() bool {
	return r.pos >= len(r.code)
}

func (r *reader) u16() (uint16, error) {
	b, err := r.next(2)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint16(b), nil
}

func (r *reader) u32() (int, error) {
	b, err := r.next(4)
	if err != nil {
		return 0, err
	}
	return int(binary.LittleEndian.Uint32(b)), nil
}

func (r *reader) shape(rank int) ([]int, error) {
	dims := make([]int, rank)
	for i := range dims {
		var err error
		if dims[i], err = r.u32(); err != nil {
			return nil, err
		}
	}
	return dims, nil
}

// array reads the shape of an array of type typ built by an instruction.
// It also returns the number of elements of the array.
func (r *reader) array(typ elem.Type, rank int) ([]int, int, error) {
	pos := r.pos
	dims, err := r.shape(rank)
	if err != nil {
		return nil, 0, err
	}
	n, err := typ.NumElements(dims, math.MaxInt)
	if err != nil {
		return nil, 0, errors.Wrapf(err, "invalid shape at offset %d", pos)
	}
	return dims, n, nil
}

func (r *reader) ranges(rank int) ([]kernels.Range, error) {
	rngs := make([]kernels.Range, rank)
	for i := range rngs {
		start, err := r.u32()
		if err != nil {
			return nil, err
		}
		end, err := r.u32()
		if err != nil {
			return nil, err
		}
		rngs[i] = kernels.Range{Start: start, End: end}
	}
	return rngs, nil
}

func (r *reader) mask(rank int) ([]bool, error) {
	b, err := r.next(rank)
	if err != nil {
		return nil, err
	}
	mask := make([]bool, rank)
	for i, v := range b {
		mask[i] = v != 0
	}
	return mask, nil
}

// littleEndian is true when the host stores scalars in little-endian order.
var littleEndian = binary.NativeEndian.Uint16([]byte{1, 0}) == 1

func readValue[T elem.Go](r *reader) (T, error) {
	b, err := r.next(elem.Of[T]().Size())
	if err != nil {
		var zero T
		return zero, err
	}
	return decodeValue[T](b), nil
}

func decodeValue[T elem.Go](b []byte) T {
	var zero T
	var v any
	switch any(zero).(type) {
	case bool:
		v = b[0] != 0
	case uint8:
		v = b[0]
	case int8:
		v = int8(b[0])
	case uint16:
		v = binary.LittleEndian.Uint16(b)
	case int16:
		v = int16(binary.LittleEndian.Uint16(b))
	case uint32:
		v = binary.LittleEndian.Uint32(b)
	case int32:
		v = int32(binary.LittleEndian.Uint32(b))
	case uint64:
		v = binary.LittleEndian.Uint64(b)
	case int64:
		v = int64(binary.LittleEndian.Uint64(b))
	case float32:
		v = math.Float32frombits(binary.LittleEndian.Uint32(b))
	case float64:
		v = math.Float64frombits(binary.LittleEndian.Uint64(b))
	}
	return v.(T)
}

// readData decodes the little-endian values of an array of the given
// dimensions. The array must fit in the remaining bytecode.
func readData[T elem.Go](r *reader, dims []int) ([]T, error) {
	typ := elem.Of[T]()
	n, err := typ.NumElements(dims, len(r.code)-r.pos)
	if err != nil {
		return nil, errors.Wrapf(err, "invalid data at offset %d", r.pos)
	}
	width := typ.Size()
	b, err := r.next(n * width)
	if err != nil {
		return nil, err
	}
	vals := make([]T, n)
	if n == 0 {
		return vals, nil
	}
	if _, ok := any(vals).([]bool); ok || !littleEndian {
		for i := range vals {
			vals[i] = decodeValue[T](b[i*width:])
		}
		return vals, nil
	}
	copy(unsafe.Slice((*byte)(unsafe.Pointer(&vals[0])), n*width), b)
	return vals, nil
}

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

package arrays_test

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/gx-org/backend/dtype"
	"github.com/gx-org/cayley/arrays"
	"github.com/gx-org/cayley/build/elem"
	"github.com/gx-org/cayley/golang/engine"
)

// sample returns an array of the given type with distinct non-zero values.
func sample(t *testing.T, typ elem.Type, dims []int) arrays.View {
	n := arrays.Size(dims)
	var data any
	switch typ {
	case elem.Bool:
		vals := make([]bool, n)
		for i := range vals {
			vals[i] = i%2 == 0
		}
		data = vals
	case elem.U8:
		data = series[uint8](n)
	case elem.U16:
		data = series[uint16](n)
	case elem.U32:
		data = series[uint32](n)
	case elem.U64:
		data = series[uint64](n)
	case elem.I8:
		data = series[int8](n)
	case elem.I16:
		data = series[int16](n)
	case elem.I32:
		data = series[int32](n)
	case elem.I64:
		data = series[int64](n)
	case elem.F32:
		data = series[float32](n)
	case elem.F64:
		data = series[float64](n)
	}
	v, err := arrays.New(typ, dims, data)
	if err != nil {
		t.Fatal(err)
	}
	return v
}

func series[T int8 | int16 | int32 | int64 | uint8 | uint16 | uint32 | uint64 | float32 | float64](n int) []T {
	vals := make([]T, n)
	for i := range vals {
		vals[i] = T(i*3 + 1)
	}
	return vals
}

func TestBytesRoundTrip(t *testing.T) {
	dims := []int{2, 3}
	for _, typ := range elem.All() {
		want := sample(t, typ, dims)
		raw := arrays.ToBytes(want)
		if len(raw) != want.ByteSize() {
			t.Errorf("%s: got %d bytes but want %d", typ, len(raw), want.ByteSize())
		}
		// Copy the bytes with an offset to also exercise unaligned buffers.
		shifted := make([]byte, len(raw)+1)
		copy(shifted[1:], raw)
		for _, b := range [][]byte{raw, shifted[1:]} {
			got, err := arrays.FromBytes(typ, dims, b)
			if err != nil {
				t.Errorf("%s: %v", typ, err)
				continue
			}
			if !got.Equal(want) {
				t.Errorf("%s: got %s but want %s", typ, got, want)
			}
		}
	}
}

func TestEngineRoundTrip(t *testing.T) {
	eng := engine.New()
	dims := []int{4}
	for _, typ := range elem.All() {
		want := sample(t, typ, dims)
		a := arrays.ToEngine(eng, typ, dims, want)
		got, err := arrays.FromEngine(a)
		a.Free()
		if err != nil {
			t.Errorf("%s: %v", typ, err)
			continue
		}
		if !got.Equal(want) {
			t.Errorf("%s: got %s but want %s", typ, got, want)
		}
	}
	if eng.Live() != 0 {
		t.Errorf("got %d live arrays but want 0", eng.Live())
	}
}

func TestFromBytesErrors(t *testing.T) {
	if _, err := arrays.FromBytes(elem.U32, []int{2}, make([]byte, 7)); err == nil {
		t.Errorf("short buffer did not fail")
	}
	if _, err := arrays.FromBytes(elem.I32, []int{-2}, make([]byte, 8)); err == nil {
		t.Errorf("negative dimension did not fail")
	}
	if _, err := arrays.FromBytes(elem.U8, []int{1 << 31, 1 << 31, 2}, make([]byte, 8)); err == nil {
		t.Errorf("overflowing dimensions did not fail")
	}
	if _, err := arrays.FromBytes(elem.Bool, []int{1}, []byte{2}); err == nil {
		t.Errorf("invalid boolean did not fail")
	}
	v, err := arrays.FromBytes(elem.U8, []int{2}, []byte{1, 2, 3})
	if err != nil {
		t.Fatal(err)
	}
	got, _ := arrays.Values[uint8](v)
	if diff := cmp.Diff([]uint8{1, 2}, got); diff != "" {
		t.Errorf("unexpected values:\n%s", diff)
	}
}

func expectPanic(t *testing.T, name string, f func()) {
	t.Helper()
	defer func() {
		if recover() == nil {
			t.Errorf("%s did not panic", name)
		}
	}()
	f()
}

func TestToEngineMismatch(t *testing.T) {
	eng := engine.New()
	v := arrays.Fill([]int{3}, int32(1))
	expectPanic(t, "type mismatch", func() { arrays.ToEngine(eng, elem.I64, []int{3}, v) })
	expectPanic(t, "shape mismatch", func() { arrays.ToEngine(eng, elem.I32, []int{4}, v) })
	expectPanic(t, "size mismatch", func() { arrays.Of([]int{2}, []int32{1}) })
}

func TestView(t *testing.T) {
	v := arrays.Of([]int{2, 2}, []float32{1, 2.5, 3, 4})
	if v.Rank() != 2 || v.Size() != 4 || v.ByteSize() != 16 {
		t.Errorf("unexpected view metadata: rank=%d size=%d bytes=%d", v.Rank(), v.Size(), v.ByteSize())
	}
	c := v.Clone()
	vals, _ := arrays.Values[float32](c)
	vals[0] = 9
	if orig, _ := arrays.Values[float32](v); orig[0] != 1 {
		t.Errorf("clone shares memory with the original view")
	}
	if v.Equal(c) {
		t.Errorf("views with different values are equal")
	}
	if _, err := arrays.Values[float64](v); err == nil {
		t.Errorf("reading f32 values as f64 did not fail")
	}
	want := "[2][2]f32{\n\t{1, 2.5},\n\t{3, 4},\n}"
	if got := v.String(); got != want {
		t.Errorf("got %q but want %q", got, want)
	}
	if _, err := arrays.New(elem.U8, []int{1}, []int8{1}); err == nil {
		t.Errorf("mismatched Go type did not fail")
	}
	zero, err := arrays.Zero(elem.U64, []int{3})
	if err != nil {
		t.Fatal(err)
	}
	if !zero.Equal(arrays.Fill([]int{3}, uint64(0))) {
		t.Errorf("got %s but want zeros", zero)
	}
}

func TestBackendShape(t *testing.T) {
	sh, err := arrays.Fill([]int{2, 5}, uint32(0)).BackendShape()
	if err != nil {
		t.Fatal(err)
	}
	if sh.DType != dtype.Uint32 || sh.Size() != 10 {
		t.Errorf("unexpected backend shape %s", sh)
	}
	_, err = arrays.Fill([]int{1}, int8(0)).BackendShape()
	if err == nil || !strings.Contains(err.Error(), "i8") {
		t.Errorf("got error %v but want an unsupported i8 error", err)
	}
}

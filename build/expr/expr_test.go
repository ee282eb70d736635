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

package expr_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/gx-org/cayley/arrays"
	"github.com/gx-org/cayley/build/elem"
	"github.com/gx-org/cayley/build/expr"
)

func mustPanic(t *testing.T, name string, f func()) {
	t.Helper()
	defer func() {
		if recover() == nil {
			t.Errorf("%s: did not panic", name)
		}
	}()
	f()
}

func TestNodeShapes(t *testing.T) {
	x := expr.NewFill(elem.I32, []int{4, 6}, 1)
	tests := []struct {
		node *expr.Node
		typ  elem.Type
		dims []int
	}{
		{node: x.Add(x), typ: elem.I32, dims: []int{4, 6}},
		{node: x.Lt(x), typ: elem.Bool, dims: []int{4, 6}},
		{node: x.Cast(elem.F64), typ: elem.F64, dims: []int{4, 6}},
		{node: x.Slice(expr.Interval{Start: 1, End: 3}, expr.Interval{Start: 0, End: 6}), typ: elem.I32, dims: []int{2, 6}},
		{node: expr.NewStep(x, []int{3, 4}), typ: elem.I32, dims: []int{2, 2}},
		{node: expr.NewReshape(x, []int{2, 3, 4}), typ: elem.I32, dims: []int{2, 3, 4}},
		{node: expr.NewExpand(expr.NewFill(elem.U8, []int{1, 6}, 2), []int{4, 6}), typ: elem.U8, dims: []int{4, 6}},
		{node: expr.NewFlip(x, []bool{true, false}), typ: elem.I32, dims: []int{4, 6}},
	}
	for i, test := range tests {
		if test.node.Type != test.typ {
			t.Errorf("test %d: got type %s but want %s", i, test.node.Type, test.typ)
		}
		if diff := cmp.Diff(test.dims, test.node.Dims); diff != "" {
			t.Errorf("test %d: unexpected dimensions:\n%s", i, diff)
		}
	}
}

func TestCastIdentity(t *testing.T) {
	x := expr.NewFill(elem.U16, []int{2}, 3)
	if got := x.Cast(elem.U16); got != x {
		t.Errorf("casting to the same type returned a new node")
	}
}

func TestFillValue(t *testing.T) {
	x := expr.NewFill(elem.U8, []int{2}, 200)
	if got, ok := x.Value.(uint8); !ok || got != 200 {
		t.Errorf("got fill value %v (%T) but want uint8(200)", x.Value, x.Value)
	}
}

func TestNamed(t *testing.T) {
	x := expr.NewNamed("x", elem.F32, []int{3}, arrays.View{})
	if !x.IsInput() || !x.IsNamed() || x.HasData() {
		t.Errorf("unexpected named input without a default: input=%v named=%v data=%v", x.IsInput(), x.IsNamed(), x.HasData())
	}
	def := arrays.Of([]int{3}, []float32{1, 2, 3})
	y := expr.NewNamed("y", elem.F32, []int{3}, def)
	if !y.HasData() || !y.Data.Equal(def) {
		t.Errorf("named input lost its default value")
	}
}

func TestInvalidNodes(t *testing.T) {
	i32 := expr.NewFill(elem.I32, []int{4}, 1)
	f32 := expr.NewFill(elem.F32, []int{4}, 1)
	b := i32.Eq(i32)
	tests := []struct {
		name string
		f    func()
	}{
		{name: "rank 0", f: func() { expr.NewFill(elem.I32, []int{}, 0) }},
		{name: "rank 6", f: func() { expr.NewFill(elem.I32, []int{1, 1, 1, 1, 1, 1}, 0) }},
		{name: "negative axis", f: func() { expr.NewFill(elem.I32, []int{-1}, 0) }},
		{name: "invalid fill value", f: func() { expr.NewFill(elem.I32, []int{1}, 1.5) }},
		{name: "empty input", f: func() { expr.NewInput(arrays.View{}) }},
		{name: "anonymous named input", f: func() { expr.NewNamed("", elem.I32, []int{1}, arrays.View{}) }},
		{name: "default mismatch", f: func() { expr.NewNamed("x", elem.I32, []int{2}, arrays.Fill([]int{3}, int32(0))) }},
		{name: "mixed types", f: func() { i32.Add(f32) }},
		{name: "mixed dims", f: func() { i32.Add(expr.NewFill(elem.I32, []int{3}, 1)) }},
		{name: "float bitwise", f: func() { f32.BitAnd(f32) }},
		{name: "float shift", f: func() { f32.Shl(f32) }},
		{name: "bool arithmetic", f: func() { b.Add(b) }},
		{name: "integer logic", f: func() { i32.And(i32) }},
		{name: "float neg", f: func() { f32.Neg() }},
		{name: "integer not", f: func() { i32.Not() }},
		{name: "binary as unary", f: func() { expr.NewUnary(expr.Add, i32) }},
		{name: "unary as binary", f: func() { expr.NewBinary(expr.Not, b, b) }},
		{name: "bool to float", f: func() { b.Cast(elem.F64) }},
		{name: "slice out of bounds", f: func() { i32.Slice(expr.Interval{Start: 2, End: 5}) }},
		{name: "slice reversed", f: func() { i32.Slice(expr.Interval{Start: 3, End: 2}) }},
		{name: "slice rank", f: func() { i32.Slice() }},
		{name: "merge size", f: func() { i32.Merge(expr.NewFill(elem.I32, []int{2}, 0), expr.Interval{Start: 0, End: 3}) }},
		{name: "merge type", f: func() { i32.Merge(f32, expr.Interval{Start: 0, End: 4}) }},
		{name: "reshape size", f: func() { expr.NewReshape(i32, []int{3}) }},
		{name: "expand axis", f: func() { expr.NewExpand(i32, []int{8}) }},
		{name: "expand rank", f: func() { expr.NewExpand(i32, []int{4, 1}) }},
		{name: "flip mask", f: func() { expr.NewFlip(i32, []bool{true, true}) }},
		{name: "zero step", f: func() { expr.NewStep(i32, []int{0}) }},
	}
	for _, test := range tests {
		mustPanic(t, test.name, test.f)
	}
}

func TestParseOp(t *testing.T) {
	for op := expr.Input; op < expr.NumOps; op++ {
		got, ok := expr.ParseOp(op.String())
		if !ok || got != op {
			t.Errorf("cannot parse %q: got %v, %v", op.String(), got, ok)
		}
	}
	if _, ok := expr.ParseOp("matmul"); ok {
		t.Errorf("parsed an unknown operation")
	}
}

func TestInterval(t *testing.T) {
	r := expr.Interval{Start: 2, End: 5}
	if r.Len() != 3 || r.String() != "[2, 5)" {
		t.Errorf("got %d %q but want 3 %q", r.Len(), r.String(), "[2, 5)")
	}
}

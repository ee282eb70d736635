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

package exprfile_test

import (
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/gx-org/cayley/api"
	"github.com/gx-org/cayley/arrays"
	"github.com/gx-org/cayley/build/elem"
	"github.com/gx-org/cayley/build/exprstring"
	"github.com/gx-org/cayley/golang/engine"
	"github.com/gx-org/cayley/internal/exprfile"
)

func eval[T elem.Go](t *testing.T, g *exprfile.Graph, bindings map[string]arrays.View) []T {
	t.Helper()
	rtm, err := api.NewRuntime(api.WithEngine(engine.New()))
	if err != nil {
		t.Fatal(err)
	}
	view, err := rtm.Eval(g.Root, bindings)
	if err != nil {
		t.Fatalf("%+v", err)
	}
	vals, err := arrays.Values[T](view)
	if err != nil {
		t.Fatal(err)
	}
	return vals
}

func TestMergeChain(t *testing.T) {
	g, err := exprfile.Load(filepath.Join("testdata", "merge_chain.yaml"))
	if err != nil {
		t.Fatal(err)
	}
	want := "x0 = merge(fill(), fill())\nmerge(&x0, add(slice(&x0), slice(&x0)))\n"
	if diff := cmp.Diff(want, exprstring.Stringify(g.Root)); diff != "" {
		t.Errorf("unexpected graph:\n%s", diff)
	}
	if diff := cmp.Diff([]uint32{2, 3, 4, 2, 2}, eval[uint32](t, g, nil)); diff != "" {
		t.Errorf("unexpected result:\n%s", diff)
	}
}

func TestNamedInputs(t *testing.T) {
	g, err := exprfile.Load(filepath.Join("testdata", "named_inputs.yaml"))
	if err != nil {
		t.Fatal(err)
	}
	if len(g.Inputs) != 2 || g.Inputs[0].Name != "x" || g.Inputs[1].Name != "y" {
		t.Fatalf("unexpected inputs: %v", g.Inputs)
	}
	if g.Root != g.Names["prod"] {
		t.Errorf("root is not the result named in the file")
	}
	if diff := cmp.Diff([]uint32{15, 15, 15, 15, 15}, eval[uint32](t, g, nil)); diff != "" {
		t.Errorf("unexpected result with default values:\n%s", diff)
	}
	bindings, err := exprfile.ParseBindings([]byte("x: [1, 2, 3, 4, 5]\n"), []exprfile.Signature{
		{Name: "x", Type: elem.U32, Dims: []int{5}},
	})
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]uint32{12, 15, 18, 21, 24}, eval[uint32](t, g, bindings)); diff != "" {
		t.Errorf("unexpected result with bound values:\n%s", diff)
	}
}

func TestView(t *testing.T) {
	tests := []struct {
		typ  elem.Type
		dims []int
		val  any
		want arrays.View
	}{
		{
			typ:  elem.F64,
			dims: []int{2, 2},
			val:  []any{[]any{1, 2.5}, []any{-1, 0}},
			want: arrays.Of([]int{2, 2}, []float64{1, 2.5, -1, 0}),
		},
		{
			typ:  elem.Bool,
			dims: []int{3},
			val:  true,
			want: arrays.Fill([]int{3}, true),
		},
		{
			typ:  elem.I8,
			dims: []int{2},
			val:  []any{-128, 127},
			want: arrays.Of([]int{2}, []int8{-128, 127}),
		},
	}
	for i, test := range tests {
		got, err := exprfile.View(test.typ, test.dims, test.val)
		if err != nil {
			t.Errorf("test %d: %v", i, err)
			continue
		}
		if !got.Equal(test.want) {
			t.Errorf("test %d: got %v but want %v", i, got, test.want)
		}
	}
	for i, val := range []any{[]any{1, 2}, 300, true, nil} {
		if _, err := exprfile.View(elem.U8, []int{3}, val); err == nil {
			t.Errorf("error test %d: converting %v did not fail", i, val)
		}
	}
}

func TestErrors(t *testing.T) {
	for i, src := range []string{
		"let: [",
		"let: []",
		"let:\n  - {name: a, op: matmul, args: []}",
		"let:\n  - {name: a, op: fill, type: u32, dims: [2]}",
		"let:\n  - {name: a, op: fill, type: q7, dims: [2], value: 1}",
		"let:\n  - {name: a, op: add, args: [b, c]}",
		"let:\n  - {name: a, op: fill, type: u32, dims: [2], value: 1}\n  - {name: a, op: neg, args: [a]}",
		"let:\n  - {name: a, op: fill, type: f32, dims: [2], value: 1}\n  - {name: b, op: bit_and, args: [a, a]}",
		"let:\n  - {name: a, op: fill, type: u32, dims: [2], value: 1}\n  - {name: b, op: slice, args: [a], ranges: [[0, 3]]}",
		"let:\n  - {name: a, op: fill, type: u32, dims: [2], value: 1}\n  - {name: b, op: slice, args: [a], ranges: [[0]]}",
		"let:\n  - {name: a, op: fill, type: u32, dims: [2], value: 1}\nresult: b",
		"inputs:\n  - {name: x, type: u32, dims: [2], default: [1, 2, 3]}\nlet:\n  - {name: a, op: neg, args: [x]}",
		"let:\n  - {name: '', op: fill, type: u32, dims: [2], value: 1}",
	} {
		if _, err := exprfile.Parse([]byte(src)); err == nil {
			t.Errorf("test %d: parsing did not fail:\n%s", i, src)
		}
	}
}

func TestParseBindingsErrors(t *testing.T) {
	sigs := []exprfile.Signature{{Name: "x", Type: elem.I32, Dims: []int{2}}}
	for i, src := range []string{
		"y: 1",
		"x: [1, 2, 3]",
		"x: 1.5",
		"x: [",
	} {
		if _, err := exprfile.ParseBindings([]byte(src), sigs); err == nil {
			t.Errorf("test %d: parsing %q did not fail", i, src)
		}
	}
}

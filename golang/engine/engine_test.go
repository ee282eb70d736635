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

package engine_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/gx-org/cayley/base/bytebuf"
	"github.com/gx-org/cayley/build/elem"
	"github.com/gx-org/cayley/build/opcode"
	"github.com/gx-org/cayley/golang/engine"
)

type asm struct {
	t   *testing.T
	eng *engine.Engine
	buf *bytebuf.Buffer
}

func newAsm(t *testing.T, eng *engine.Engine) *asm {
	return &asm{t: t, eng: eng, buf: bytebuf.New(0)}
}

func (a *asm) op(op opcode.Operation, typ elem.Type, rank int) *asm {
	name := opcode.Name(op, typ, rank)
	code, ok := a.eng.Link(name)
	if !ok {
		a.t.Fatalf("instruction %s not linked", name)
	}
	a.buf.WriteU16(code)
	return a
}

func (a *asm) u32(vals ...uint32) *asm {
	for _, v := range vals {
		a.buf.WriteU32(v)
	}
	return a
}

func run(t *testing.T, eng *engine.Engine, a *asm, params []*engine.Array) *engine.Stack {
	s := eng.NewStack()
	if err := eng.Run(s, a.buf.Bytes(), params); err != nil {
		t.Fatal(err)
	}
	return s
}

func TestFillAdd(t *testing.T) {
	eng := engine.New()
	a := newAsm(t, eng).
		op(opcode.Fill, elem.U32, 1).u32(5, 1).
		op(opcode.Fill, elem.U32, 1).u32(5, 2).
		op(opcode.Add, elem.U32, 1)
	s := run(t, eng, a, nil)
	if s.Len() != 1 {
		t.Fatalf("got %d arrays on the stack but want 1", s.Len())
	}
	res, err := engine.PopArray[uint32](s)
	if err != nil {
		t.Fatal(err)
	}
	defer res.Free()
	got, err := engine.Values[uint32](res)
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]uint32{3, 3, 3, 3, 3}, got); diff != "" {
		t.Errorf("unexpected result:\n%s", diff)
	}
	if eng.Live() != 1 {
		t.Errorf("got %d live arrays but want 1", eng.Live())
	}
}

func TestRefAndParam(t *testing.T) {
	eng := engine.New()
	x, err := eng.NewArray(elem.I16, []int{2}, []int16{4, -4})
	if err != nil {
		t.Fatal(err)
	}
	defer x.Free()
	a := newAsm(t, eng).
		op(opcode.Param, elem.I16, 1).u32(2, 0).
		op(opcode.Ref, elem.I16, 1).u32(0).
		op(opcode.Ref, elem.I16, 1).u32(0).
		op(opcode.Mul, elem.I16, 1)
	s := run(t, eng, a, []*engine.Array{x})
	defer s.Free()
	res, err := engine.PopArray[int16](s)
	if err != nil {
		t.Fatal(err)
	}
	defer res.Free()
	got, _ := engine.Values[int16](res)
	if diff := cmp.Diff([]int16{16, 16}, got); diff != "" {
		t.Errorf("unexpected result:\n%s", diff)
	}
}

func TestPopArrayType(t *testing.T) {
	eng := engine.New()
	a := newAsm(t, eng).op(opcode.Fill, elem.U8, 1).u32(1)
	a.buf.WriteU8(7)
	s := run(t, eng, a, nil)
	defer s.Free()
	if _, err := engine.PopArray[int8](s); err == nil {
		t.Errorf("popping an u8 array as i8 did not fail")
	}
	if s.Len() != 1 {
		t.Errorf("failed pop removed the array from the stack")
	}
}

func TestRunErrors(t *testing.T) {
	eng := engine.New()
	tests := []struct {
		name string
		code func(*asm)
	}{
		{
			name: "division by zero",
			code: func(a *asm) {
				a.op(opcode.Fill, elem.I32, 1).u32(2, 1).
					op(opcode.Fill, elem.I32, 1).u32(2, 0).
					op(opcode.Div, elem.I32, 1)
			},
		},
		{
			name: "stack underflow",
			code: func(a *asm) {
				a.op(opcode.Neg, elem.I32, 1)
			},
		},
		{
			name: "truncated operand",
			code: func(a *asm) {
				a.op(opcode.Fill, elem.I32, 2).u32(2)
			},
		},
		{
			name: "missing parameter",
			code: func(a *asm) {
				a.op(opcode.Param, elem.I32, 1).u32(2, 0)
			},
		},
		{
			name: "bad ref",
			code: func(a *asm) {
				a.op(opcode.Ref, elem.I32, 1).u32(3)
			},
		},
		{
			name: "overflowing data shape",
			code: func(a *asm) {
				a.op(opcode.Data, elem.U8, 3).u32(1<<31, 1<<31, 2, 0)
			},
		},
		{
			name: "data larger than the bytecode",
			code: func(a *asm) {
				a.op(opcode.Data, elem.U16, 1).u32(100, 0)
			},
		},
		{
			name: "overflowing fill shape",
			code: func(a *asm) {
				a.op(opcode.Fill, elem.U8, 3).u32(1<<31, 1<<31, 2)
				a.buf.WriteU8(1)
			},
		},
		{
			name: "overflowing expand shape",
			code: func(a *asm) {
				a.op(opcode.Fill, elem.U8, 3).u32(1, 1, 1)
				a.buf.WriteU8(1)
				a.op(opcode.Expand, elem.U8, 3).u32(1<<31, 1<<31, 4)
			},
		},
		{
			name: "unknown opcode",
			code: func(a *asm) {
				a.buf.WriteU16(0xffff)
			},
		},
	}
	for _, test := range tests {
		a := newAsm(t, eng)
		test.code(a)
		s := eng.NewStack()
		if err := eng.Run(s, a.buf.Bytes(), nil); err == nil {
			t.Errorf("%s: run did not fail", test.name)
		}
		s.Free()
	}
	if eng.Live() != 0 {
		t.Errorf("got %d live arrays after failed runs but want 0", eng.Live())
	}
}

func TestStackDepth(t *testing.T) {
	eng := engine.New()
	a := newAsm(t, eng).
		op(opcode.Fill, elem.I32, 1).u32(2, 7).
		op(opcode.Add, elem.I32, 1)
	s := eng.NewStack()
	defer s.Free()
	if err := eng.Run(s, a.buf.Bytes(), nil); err == nil {
		t.Errorf("adding a single array did not fail")
	}
	if s.Len() != 1 {
		t.Errorf("got %d arrays on the stack after the failure but want 1", s.Len())
	}
	res, err := engine.PopArray[int32](s)
	if err != nil {
		t.Fatal(err)
	}
	defer res.Free()
	got, _ := engine.Values[int32](res)
	if diff := cmp.Diff([]int32{7, 7}, got); diff != "" {
		t.Errorf("failed instruction modified the stack:\n%s", diff)
	}
}

func TestData(t *testing.T) {
	eng := engine.New()
	a := newAsm(t, eng).op(opcode.Data, elem.I16, 1).u32(3)
	a.buf.WriteI16(-2)
	a.buf.WriteI16(300)
	a.buf.WriteI16(5)
	s := run(t, eng, a, nil)
	defer s.Free()
	res, err := engine.PopArray[int16](s)
	if err != nil {
		t.Fatal(err)
	}
	defer res.Free()
	got, _ := engine.Values[int16](res)
	if diff := cmp.Diff([]int16{-2, 300, 5}, got); diff != "" {
		t.Errorf("unexpected data:\n%s", diff)
	}
}

func TestFree(t *testing.T) {
	eng := engine.New()
	x, err := eng.NewArray(elem.F64, []int{1}, []float64{1})
	if err != nil {
		t.Fatal(err)
	}
	if eng.Live() != 1 {
		t.Errorf("got %d live arrays but want 1", eng.Live())
	}
	x.Free()
	x.Free()
	if eng.Live() != 0 {
		t.Errorf("got %d live arrays but want 0", eng.Live())
	}
	if _, err := engine.Values[float64](x); err == nil {
		t.Errorf("reading a freed array did not fail")
	}
	if _, err := eng.NewArray(elem.F64, []int{2}, []float64{1}); err == nil {
		t.Errorf("creating an array with the wrong number of values did not fail")
	}
}

func TestDefault(t *testing.T) {
	if engine.Default() != engine.Default() {
		t.Errorf("default engine is not shared")
	}
	if _, ok := engine.Default().Link("add_u32_1"); !ok {
		t.Errorf("add_u32_1 not linked")
	}
	if _, ok := engine.Default().Link("add_bool_1"); ok {
		t.Errorf("add_bool_1 should not be linked")
	}
}

func TestRegistry(t *testing.T) {
	table := opcode.Link(engine.New())
	if err := table.Verify(); err != nil {
		t.Errorf("engine does not implement all instructions:\n%v", err)
	}
	for _, tr := range table.Triples() {
		if !opcode.Legal(tr.Op, tr.Type) {
			t.Errorf("engine implements %s which is not a legal instruction", tr)
		}
	}
	if got, want := table.Len(), engine.New().NumInstructions(); got != want {
		t.Errorf("got %d linked instructions but the engine has %d", got, want)
	}
}

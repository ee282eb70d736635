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

// Package program builds and runs bytecode programs.
//
// A program is a linear sequence of instructions. Each instruction is an
// opcode followed by its operands, all encoded in little-endian. A program
// holds no engine resources: it can be run any number of times.
package program

import (
	"math"
	"slices"

	"github.com/gx-org/cayley/arrays"
	"github.com/gx-org/cayley/base/bytebuf"
	"github.com/gx-org/cayley/base/ordered"
	"github.com/gx-org/cayley/build/elem"
	"github.com/gx-org/cayley/build/expr"
	"github.com/gx-org/cayley/build/opcode"
	"github.com/pkg/errors"
)

type (
	// Param is a named input of a program.
	Param struct {
		Name string
		Type elem.Type
		Dims []int
		// Default is the value used when no value is bound to the parameter.
		// It may be absent.
		Default arrays.View
	}

	// Program is a sequence of instructions.
	Program struct {
		table  *opcode.Table
		buf    *bytebuf.Buffer
		params *ordered.Map[string, *Param]
		count  int
	}
)

// New returns an empty program emitting opcodes from a linked table.
func New(table *opcode.Table) *Program {
	return &Program{
		table:  table,
		buf:    bytebuf.New(0),
		params: ordered.NewMap[string, *Param](),
	}
}

// Table returns the opcode table of the program.
func (p *Program) Table() *opcode.Table {
	return p.table
}

// Op appends the opcode of an instruction.
// It panics if the instruction has not been linked.
func (p *Program) Op(op opcode.Operation, typ elem.Type, rank int) {
	p.buf.WriteU16(p.table.MustOpCode(op, typ, rank))
	p.count++
}

func toU32(v int) uint32 {
	if v < 0 || uint64(v) > math.MaxUint32 {
		panic(errors.Errorf("value %d does not fit in 32 bits", v))
	}
	return uint32(v)
}

// Shape appends the extents of an array.
func (p *Program) Shape(dims []int) {
	for _, d := range dims {
		p.buf.WriteU32(toU32(d))
	}
}

// Value appends a scalar of the given element type.
func (p *Program) Value(typ elem.Type, val any) {
	v, err := elem.Convert(typ, val)
	if err != nil {
		panic(errors.Wrapf(err, "invalid scalar operand"))
	}
	switch x := v.(type) {
	case bool:
		p.buf.WriteBool(x)
	case uint8:
		p.buf.WriteU8(x)
	case uint16:
		p.buf.WriteU16(x)
	case uint32:
		p.buf.WriteU32(x)
	case uint64:
		p.buf.WriteU64(x)
	case int8:
		p.buf.WriteI8(x)
	case int16:
		p.buf.WriteI16(x)
	case int32:
		p.buf.WriteI32(x)
	case int64:
		p.buf.WriteI64(x)
	case float32:
		p.buf.WriteF32(x)
	case float64:
		p.buf.WriteF64(x)
	}
}

// Ref appends a reference to a stack slot.
func (p *Program) Ref(slot int) {
	p.buf.WriteU32(toU32(slot))
}

// Range appends a start and an end for each axis.
func (p *Program) Range(rngs []expr.Interval) {
	for _, r := range rngs {
		p.buf.WriteU32(toU32(r.Start))
		p.buf.WriteU32(toU32(r.End))
	}
}

// Mask appends one flag per axis.
func (p *Program) Mask(mask []bool) {
	for _, m := range mask {
		p.buf.WriteBool(m)
	}
}

func writeValues[T elem.Go](vals []T, write func(T)) {
	for _, v := range vals {
		write(v)
	}
}

// Data appends the shape and the values of an array.
func (p *Program) Data(v arrays.View) {
	p.Shape(v.Dims())
	switch vals := v.Data().(type) {
	case []bool:
		writeValues(vals, p.buf.WriteBool)
	case []uint8:
		p.buf.WriteBytes(vals)
	case []uint16:
		writeValues(vals, p.buf.WriteU16)
	case []uint32:
		writeValues(vals, p.buf.WriteU32)
	case []uint64:
		writeValues(vals, p.buf.WriteU64)
	case []int8:
		writeValues(vals, p.buf.WriteI8)
	case []int16:
		writeValues(vals, p.buf.WriteI16)
	case []int32:
		writeValues(vals, p.buf.WriteI32)
	case []int64:
		writeValues(vals, p.buf.WriteI64)
	case []float32:
		writeValues(vals, p.buf.WriteF32)
	case []float64:
		writeValues(vals, p.buf.WriteF64)
	default:
		panic(errors.Errorf("cannot encode array data of type %T", v.Data()))
	}
}

// Param appends the shape and the index of a named parameter.
// Parameters with the same name share the same index.
// def is the default value of the parameter and may be the zero View.
func (p *Program) Param(name string, typ elem.Type, dims []int, def arrays.View) {
	index, inserted := p.params.Insert(name, &Param{
		Name:    name,
		Type:    typ,
		Dims:    slices.Clone(dims),
		Default: def,
	})
	if !inserted {
		prev, _ := p.params.Load(name)
		if prev.Type != typ || !slices.Equal(prev.Dims, dims) {
			panic(errors.Errorf("parameter %q declared as %s%v and %s%v", name, prev.Type, prev.Dims, typ, dims))
		}
		if prev.Default.IsZero() {
			prev.Default = def
		}
	}
	p.Shape(dims)
	p.buf.WriteU32(toU32(index))
}

// Params returns the named parameters of the program in index order.
func (p *Program) Params() []*Param {
	return slices.Collect(p.params.Values())
}

// NumInstructions returns the number of instructions in the program.
func (p *Program) NumInstructions() int {
	return p.count
}

// Bytes returns the bytecode of the program.
func (p *Program) Bytes() []byte {
	return p.buf.Bytes()
}

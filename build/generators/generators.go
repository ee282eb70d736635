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

// Package generators emits the instructions computing each kind of
// expression node.
package generators

import (
	"github.com/gx-org/cayley/build/expr"
	"github.com/gx-org/cayley/build/opcode"
	"github.com/gx-org/cayley/build/program"
)

type (
	// Generator emits the instructions computing a node, assuming the
	// values of its operands are already on the stack in order.
	Generator func(*program.Program, *expr.Node)

	// Generators is a table of generators indexed by node operation.
	Generators [expr.NumOps]Generator
)

var elementwise = map[expr.Op]opcode.Operation{
	expr.Add:    opcode.Add,
	expr.Sub:    opcode.Sub,
	expr.Mul:    opcode.Mul,
	expr.Div:    opcode.Div,
	expr.Rem:    opcode.Rem,
	expr.BitAnd: opcode.BitAnd,
	expr.BitOr:  opcode.BitOr,
	expr.BitXor: opcode.BitXor,
	expr.Neg:    opcode.Neg,
	expr.Shl:    opcode.Shl,
	expr.Shr:    opcode.Shr,
	expr.Gt:     opcode.Gt,
	expr.Lt:     opcode.Lt,
	expr.Ge:     opcode.Ge,
	expr.Le:     opcode.Le,
	expr.Eq:     opcode.Eq,
	expr.Ne:     opcode.Ne,
	expr.Not:    opcode.Not,
	expr.And:    opcode.And,
	expr.Or:     opcode.Or,
	expr.Xor:    opcode.Xor,
	expr.Max:    opcode.Max,
	expr.Min:    opcode.Min,
}

// Default returns the generators of all the node operations.
func Default() Generators {
	var gens Generators
	gens[expr.Input] = input
	gens[expr.Fill] = fill
	gens[expr.Cast] = cast
	gens[expr.Expand] = expand
	gens[expr.Reshape] = reshape
	gens[expr.Flip] = flip
	gens[expr.Merge] = merge
	gens[expr.Slice] = slice
	gens[expr.Step] = step
	for op, code := range elementwise {
		gens[op] = elementwiseOp(code)
	}
	return gens
}

func input(p *program.Program, n *expr.Node) {
	if n.IsNamed() {
		p.Op(opcode.Param, n.Type, n.Rank())
		p.Param(n.Name, n.Type, n.Dims, n.Data)
		return
	}
	p.Op(opcode.Data, n.Type, n.Rank())
	p.Data(n.Data)
}

func fill(p *program.Program, n *expr.Node) {
	p.Op(opcode.Fill, n.Type, n.Rank())
	p.Shape(n.Dims)
	p.Value(n.Type, n.Value)
}

func cast(p *program.Program, n *expr.Node) {
	op, _ := opcode.Cast(n.Type)
	p.Op(op, n.Deps[0].Type, n.Rank())
}

func expand(p *program.Program, n *expr.Node) {
	p.Op(opcode.Expand, n.Type, n.Rank())
	p.Shape(n.Dims)
}

func reshape(p *program.Program, n *expr.Node) {
	op, _ := opcode.Reshape(n.Rank())
	p.Op(op, n.Type, n.Deps[0].Rank())
	p.Shape(n.Dims)
}

func flip(p *program.Program, n *expr.Node) {
	p.Op(opcode.Flip, n.Type, n.Rank())
	p.Mask(n.Mask)
}

func merge(p *program.Program, n *expr.Node) {
	p.Op(opcode.Merge, n.Type, n.Rank())
	p.Range(n.Ranges)
}

func slice(p *program.Program, n *expr.Node) {
	p.Op(opcode.Slice, n.Type, n.Rank())
	p.Range(n.Ranges)
}

func step(p *program.Program, n *expr.Node) {
	p.Op(opcode.Step, n.Type, n.Rank())
	p.Shape(n.By)
}

// elementwiseOp emits an operation on the type of the first operand,
// so that comparisons are dispatched on the type being compared.
func elementwiseOp(code opcode.Operation) Generator {
	return func(p *program.Program, n *expr.Node) {
		p.Op(code, n.Deps[0].Type, n.Rank())
	}
}

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

// Package expr defines the nodes of lazy array expressions.
//
// Expressions form a directed acyclic graph: a node may be the operand of
// several other nodes. Nodes are compared by identity, that is two nodes
// built by separate calls are always distinct even if they are structurally
// identical.
package expr

import (
	"fmt"

	"github.com/gx-org/cayley/arrays"
	"github.com/gx-org/cayley/build/elem"
)

// Op is the operation computed by a node.
type Op uint8

// Operations of expression nodes.
const (
	Input Op = iota
	Fill
	Cast
	Expand
	Reshape
	Flip
	Merge
	Slice
	Step
	Add
	Sub
	Mul
	Div
	Rem
	BitAnd
	BitOr
	BitXor
	Neg
	Shl
	Shr
	Gt
	Lt
	Ge
	Le
	Eq
	Ne
	Not
	And
	Or
	Xor
	Max
	Min

	// NumOps is the number of operations.
	NumOps
)

var opNames = [NumOps]string{
	Input:   "input",
	Fill:    "fill",
	Cast:    "cast",
	Expand:  "expand",
	Reshape: "reshape",
	Flip:    "flip",
	Merge:   "merge",
	Slice:   "slice",
	Step:    "step",
	Add:     "add",
	Sub:     "sub",
	Mul:     "mul",
	Div:     "div",
	Rem:     "rem",
	BitAnd:  "bit_and",
	BitOr:   "bit_or",
	BitXor:  "bit_xor",
	Neg:     "neg",
	Shl:     "shl",
	Shr:     "shr",
	Gt:      "gt",
	Lt:      "lt",
	Ge:      "ge",
	Le:      "le",
	Eq:      "eq",
	Ne:      "ne",
	Not:     "not",
	And:     "and",
	Or:      "or",
	Xor:     "xor",
	Max:     "max",
	Min:     "min",
}

func (op Op) String() string {
	if op >= NumOps {
		return fmt.Sprintf("op(%d)", op)
	}
	return opNames[op]
}

// ParseOp returns an operation given its name.
func ParseOp(s string) (Op, bool) {
	for op, name := range opNames {
		if name == s {
			return Op(op), true
		}
	}
	return 0, false
}

// Interval is a half-open range [Start, End) along one axis.
type Interval struct {
	Start, End int
}

// Len returns the number of elements in the interval.
func (iv Interval) Len() int {
	return iv.End - iv.Start
}

func (iv Interval) String() string {
	return fmt.Sprintf("[%d, %d)", iv.Start, iv.End)
}

// Node of an expression graph.
type Node struct {
	// Op computed by the node.
	Op Op
	// Type of the elements of the array produced by the node.
	Type elem.Type
	// Dims of the array produced by the node.
	Dims []int
	// Deps are the operands of the node, in order.
	Deps []*Node

	// Name of a named input.
	Name string
	// Data of an input. The data of a named input is its default value and
	// may be absent.
	Data arrays.View
	// Value of a fill, of the Go type matching the element type.
	Value any
	// Ranges of a merge or a slice, one per axis.
	Ranges []Interval
	// Mask of a flip, one per axis.
	Mask []bool
	// By is the step of a step node along each axis.
	By []int
}

// Rank returns the number of axes of the array produced by the node.
func (n *Node) Rank() int {
	return len(n.Dims)
}

// IsInput returns true if the node is a leaf bringing data from the host.
func (n *Node) IsInput() bool {
	return n.Op == Input
}

// IsNamed returns true if the node is an input that can be bound by name.
func (n *Node) IsNamed() bool {
	return n.Op == Input && n.Name != ""
}

// HasData returns true if the node is an input with data.
func (n *Node) HasData() bool {
	return n.Op == Input && !n.Data.IsZero()
}

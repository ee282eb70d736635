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

// Package opcode enumerates the instructions of the bytecode engine and
// links them to the numerical opcodes exposed by the engine.
//
// An instruction is identified by an (operation, element type, rank) triple.
// Its canonical name is "{operation}_{type}_{rank}", for example "add_u32_1".
package opcode

import (
	"fmt"

	"github.com/gx-org/cayley/build/elem"
)

// Operation performed by an instruction.
type Operation uint8

// Operations supported by the bytecode.
const (
	Ref Operation = iota
	Data
	Param
	Merge
	Slice
	Expand
	Reshape1
	Reshape2
	Reshape3
	Reshape4
	Reshape5
	CastBool
	CastU8
	CastU16
	CastU32
	CastU64
	CastI8
	CastI16
	CastI32
	CastI64
	CastF32
	CastF64
	Flip
	Step
	Fill
	Add
	Div
	Mul
	Rem
	Sub
	Neg
	BitAnd
	BitOr
	BitXor
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

	// NumOperations is the number of operations.
	NumOperations
)

// MaxRank is the maximum rank of an array.
const MaxRank = 5

var operationNames = [NumOperations]string{
	Ref:      "ref",
	Data:     "data",
	Param:    "param",
	Merge:    "merge",
	Slice:    "slice",
	Expand:   "expand",
	Reshape1: "reshape_1",
	Reshape2: "reshape_2",
	Reshape3: "reshape_3",
	Reshape4: "reshape_4",
	Reshape5: "reshape_5",
	CastBool: "cast_bool",
	CastU8:   "cast_u8",
	CastU16:  "cast_u16",
	CastU32:  "cast_u32",
	CastU64:  "cast_u64",
	CastI8:   "cast_i8",
	CastI16:  "cast_i16",
	CastI32:  "cast_i32",
	CastI64:  "cast_i64",
	CastF32:  "cast_f32",
	CastF64:  "cast_f64",
	Flip:     "flip",
	Step:     "step",
	Fill:     "fill",
	Add:      "add",
	Div:      "div",
	Mul:      "mul",
	Rem:      "rem",
	Sub:      "sub",
	Neg:      "neg",
	BitAnd:   "bit_and",
	BitOr:    "bit_or",
	BitXor:   "bit_xor",
	Shl:      "shl",
	Shr:      "shr",
	Gt:       "gt",
	Lt:       "lt",
	Ge:       "ge",
	Le:       "le",
	Eq:       "eq",
	Ne:       "ne",
	Not:      "not",
	And:      "and",
	Or:       "or",
	Xor:      "xor",
	Max:      "max",
	Min:      "min",
}

func (op Operation) String() string {
	if op >= NumOperations {
		return fmt.Sprintf("operation(%d)", op)
	}
	return operationNames[op]
}

// ParseOperation returns an operation given its name.
func ParseOperation(s string) (Operation, bool) {
	for op, name := range operationNames {
		if name == s {
			return Operation(op), true
		}
	}
	return 0, false
}

// Operations returns all the operations.
func Operations() []Operation {
	ops := make([]Operation, NumOperations)
	for i := range ops {
		ops[i] = Operation(i)
	}
	return ops
}

// Reshape returns the reshape operation producing an array of the given rank.
func Reshape(outRank int) (Operation, bool) {
	if outRank < 1 || outRank > MaxRank {
		return 0, false
	}
	return Reshape1 + Operation(outRank-1), true
}

// ReshapeRank returns the output rank of a reshape operation.
func (op Operation) ReshapeRank() (int, bool) {
	if op < Reshape1 || op > Reshape5 {
		return 0, false
	}
	return int(op-Reshape1) + 1, true
}

// Cast returns the operation casting an array to the given element type.
func Cast(to elem.Type) (Operation, bool) {
	if !to.Valid() {
		return 0, false
	}
	return CastBool + Operation(to-elem.Bool), true
}

// CastTarget returns the element type targeted by a cast operation.
func (op Operation) CastTarget() (elem.Type, bool) {
	if op < CastBool || op > CastF64 {
		return elem.Invalid, false
	}
	return elem.Bool + elem.Type(op-CastBool), true
}

// Result returns the element type of the array pushed by the operation
// given the element type of its operands.
func (op Operation) Result(typ elem.Type) elem.Type {
	if to, ok := op.CastTarget(); ok {
		return to
	}
	if op >= Gt && op <= Ne {
		return elem.Bool
	}
	return typ
}

// Name returns the canonical name of an instruction.
func Name(op Operation, typ elem.Type, rank int) string {
	return fmt.Sprintf("%s_%s_%d", op, typ, rank)
}

// Legal returns true if the compiler may request the operation on operands of
// the given element type. Other combinations are structurally invalid, like
// bitwise operations on floats.
func Legal(op Operation, typ elem.Type) bool {
	if !typ.Valid() {
		return false
	}
	if to, ok := op.CastTarget(); ok {
		if to == typ {
			return false
		}
		return !(typ.IsBool() && to.IsFloat())
	}
	switch op {
	case Ref, Data, Param, Merge, Slice, Expand, Flip, Step, Fill,
		Reshape1, Reshape2, Reshape3, Reshape4, Reshape5:
		return true
	case Add, Div, Mul, Rem, Sub, Max, Min:
		return typ.IsScalar()
	case Neg, BitAnd, BitOr, BitXor, Shl, Shr:
		return typ.IsIntegral()
	case Gt, Lt, Ge, Le, Eq, Ne:
		return true
	case Not, And, Or, Xor:
		return typ.IsBool()
	}
	return false
}

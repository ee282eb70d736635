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

package opcode

// Operand encoded after an opcode in the bytecode.
type Operand uint8

// Operand kinds.
const (
	// OperandShape is one u32 extent per dimension.
	OperandShape Operand = iota
	// OperandValue is a scalar of the instruction element type.
	OperandValue
	// OperandRef is a u32 stack slot.
	OperandRef
	// OperandRange is a pair of u32 (start, end) per dimension.
	OperandRange
	// OperandMask is one u8 per dimension.
	OperandMask
	// OperandData is a shape followed by the raw bytes of an array.
	OperandData
	// OperandParam is a shape followed by a u32 parameter index.
	OperandParam
)

var operandNames = map[Operand]string{
	OperandShape: "shape",
	OperandValue: "value",
	OperandRef:   "ref",
	OperandRange: "range",
	OperandMask:  "mask",
	OperandData:  "data",
	OperandParam: "param",
}

func (o Operand) String() string {
	return operandNames[o]
}

// Operands returns the operands following the opcode of an operation.
func (op Operation) Operands() []Operand {
	if _, ok := op.ReshapeRank(); ok {
		return []Operand{OperandShape}
	}
	switch op {
	case Ref:
		return []Operand{OperandRef}
	case Data:
		return []Operand{OperandData}
	case Param:
		return []Operand{OperandParam}
	case Merge, Slice:
		return []Operand{OperandRange}
	case Expand, Step:
		return []Operand{OperandShape}
	case Fill:
		return []Operand{OperandShape, OperandValue}
	case Flip:
		return []Operand{OperandMask}
	}
	return nil
}

// NumArgs returns the number of arrays an operation pops from the stack.
func (op Operation) NumArgs() int {
	switch op {
	case Ref, Data, Param, Fill:
		return 0
	case Merge, Add, Div, Mul, Rem, Sub, BitAnd, BitOr, BitXor, Shl, Shr,
		Gt, Lt, Ge, Le, Eq, Ne, And, Or, Xor, Max, Min:
		return 2
	}
	return 1
}

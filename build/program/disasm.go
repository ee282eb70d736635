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

package program

import (
	"encoding/binary"
	"fmt"
	"math"
	"strings"

	"github.com/gx-org/cayley/build/elem"
	"github.com/gx-org/cayley/build/opcode"
	"github.com/gx-org/cayley/fmt/fmtarray"
	"github.com/pkg/errors"
)

// Instruction decoded from a bytecode.
type Instruction struct {
	// Offset of the opcode in the bytecode.
	Offset int
	// Code is the opcode.
	Code uint16
	// Triple identifies the instruction.
	Triple opcode.Triple
	// Operands are the raw bytes following the opcode.
	Operands []byte
}

func shapeRank(tr opcode.Triple) int {
	if r, ok := tr.Op.ReshapeRank(); ok {
		return r
	}
	return tr.Rank
}

func readShape(b []byte, rank int) ([]int, error) {
	if len(b) < 4*rank {
		return nil, errors.Errorf("shape truncated")
	}
	dims := make([]int, rank)
	for i := range dims {
		dims[i] = int(binary.LittleEndian.Uint32(b[4*i:]))
	}
	return dims, nil
}

// operandsSize returns the number of bytes of the operands of an
// instruction starting at the beginning of b.
func operandsSize(tr opcode.Triple, b []byte) (int, error) {
	size := 0
	for _, operand := range tr.Op.Operands() {
		rest := b[min(size, len(b)):]
		switch operand {
		case opcode.OperandShape:
			size += 4 * shapeRank(tr)
		case opcode.OperandValue:
			size += tr.Type.Size()
		case opcode.OperandRef:
			size += 4
		case opcode.OperandRange:
			size += 8 * tr.Rank
		case opcode.OperandMask:
			size += tr.Rank
		case opcode.OperandData:
			dims, err := readShape(rest, tr.Rank)
			if err != nil {
				return 0, err
			}
			n, err := tr.Type.NumElements(dims, len(rest)-4*tr.Rank)
			if err != nil {
				return 0, err
			}
			size += 4*tr.Rank + n*tr.Type.Size()
		case opcode.OperandParam:
			size += 4*tr.Rank + 4
		}
	}
	return size, nil
}

// Decode splits a bytecode into instructions given the table used to
// link it.
func Decode(table *opcode.Table, code []byte) ([]Instruction, error) {
	var instrs []Instruction
	for pos := 0; pos < len(code); {
		if pos+2 > len(code) {
			return nil, errors.Errorf("opcode truncated at offset %d", pos)
		}
		op := binary.LittleEndian.Uint16(code[pos:])
		tr, ok := table.Triple(op)
		if !ok {
			return nil, errors.Errorf("unknown opcode %d at offset %d", op, pos)
		}
		size, err := operandsSize(tr, code[pos+2:])
		if err != nil {
			return nil, errors.Wrapf(err, "%s at offset %d", tr, pos)
		}
		end := pos + 2 + size
		if end > len(code) {
			return nil, errors.Errorf("%s at offset %d: operands truncated", tr, pos)
		}
		instrs = append(instrs, Instruction{
			Offset:   pos,
			Code:     op,
			Triple:   tr,
			Operands: code[pos+2 : end],
		})
		pos = end
	}
	return instrs, nil
}

func formatValue(typ elem.Type, b []byte) string {
	le := binary.LittleEndian
	switch typ {
	case elem.Bool:
		return fmtarray.Value(b[0] != 0)
	case elem.U8:
		return fmtarray.Value(b[0])
	case elem.I8:
		return fmtarray.Value(int8(b[0]))
	case elem.U16:
		return fmtarray.Value(le.Uint16(b))
	case elem.I16:
		return fmtarray.Value(int16(le.Uint16(b)))
	case elem.U32:
		return fmtarray.Value(le.Uint32(b))
	case elem.I32:
		return fmtarray.Value(int32(le.Uint32(b)))
	case elem.U64:
		return fmtarray.Value(le.Uint64(b))
	case elem.I64:
		return fmtarray.Value(int64(le.Uint64(b)))
	case elem.F32:
		return fmtarray.Value(math.Float32frombits(le.Uint32(b)))
	case elem.F64:
		return fmtarray.Value(math.Float64frombits(le.Uint64(b)))
	}
	return "?"
}

func (p *Program) formatOperands(w *strings.Builder, instr Instruction) {
	b := instr.Operands
	tr := instr.Triple
	u32 := func() int {
		v := int(binary.LittleEndian.Uint32(b))
		b = b[4:]
		return v
	}
	for _, operand := range tr.Op.Operands() {
		w.WriteString(" ")
		switch operand {
		case opcode.OperandShape:
			dims, _ := readShape(b, shapeRank(tr))
			b = b[4*len(dims):]
			fmt.Fprint(w, dims)
		case opcode.OperandValue:
			w.WriteString(formatValue(tr.Type, b))
			b = b[tr.Type.Size():]
		case opcode.OperandRef:
			fmt.Fprintf(w, "&x%d", u32())
		case opcode.OperandRange:
			rngs := make([]string, tr.Rank)
			for i := range rngs {
				start := u32()
				end := u32()
				rngs[i] = fmt.Sprintf("%d:%d", start, end)
			}
			fmt.Fprintf(w, "[%s]", strings.Join(rngs, " "))
		case opcode.OperandMask:
			mask := make([]bool, tr.Rank)
			for i := range mask {
				mask[i] = b[i] != 0
			}
			b = b[tr.Rank:]
			fmt.Fprint(w, mask)
		case opcode.OperandData:
			dims, _ := readShape(b, tr.Rank)
			n, _ := tr.Type.NumElements(dims, len(b)-4*tr.Rank)
			n *= tr.Type.Size()
			b = b[4*tr.Rank+n:]
			fmt.Fprintf(w, "%v <%d bytes>", dims, n)
		case opcode.OperandParam:
			dims, _ := readShape(b, tr.Rank)
			b = b[4*tr.Rank:]
			index := u32()
			name := "?"
			if index < p.params.Size() {
				name, _ = p.params.At(index)
			}
			fmt.Fprintf(w, "%v $%d(%s)", dims, index, name)
		}
	}
}

// ResultType returns the element type of the array left on top of the
// stack by the program.
func (p *Program) ResultType() (elem.Type, error) {
	instrs, err := Decode(p.table, p.Bytes())
	if err != nil {
		return elem.Invalid, err
	}
	if len(instrs) == 0 {
		return elem.Invalid, errors.Errorf("empty program")
	}
	last := instrs[len(instrs)-1].Triple
	return last.Op.Result(last.Type), nil
}

// Disassemble returns a human readable listing of the program,
// one instruction per line.
func (p *Program) Disassemble() (string, error) {
	instrs, err := Decode(p.table, p.Bytes())
	if err != nil {
		return "", err
	}
	var w strings.Builder
	for _, instr := range instrs {
		fmt.Fprintf(&w, "%04d %s", instr.Offset, instr.Triple)
		p.formatOperands(&w, instr)
		w.WriteString("\n")
	}
	return w.String(), nil
}

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

import (
	"fmt"
	"sort"

	"github.com/gx-org/cayley/build/elem"
	"github.com/pkg/errors"
	"go.uber.org/multierr"
)

// Linker resolves instruction names to opcodes.
// An engine implements it.
type Linker interface {
	Link(name string) (uint16, bool)
}

// Triple identifies an instruction.
type Triple struct {
	Op   Operation
	Type elem.Type
	Rank int
}

// Name of the instruction.
func (t Triple) Name() string {
	return Name(t.Op, t.Type, t.Rank)
}

func (t Triple) String() string {
	return t.Name()
}

// UnlinkedError is returned when an instruction is not supported by the engine.
type UnlinkedError struct {
	Triple Triple
}

func (err *UnlinkedError) Error() string {
	return fmt.Sprintf("instruction %s is not linked", err.Triple.Name())
}

// Table maps instructions to the opcodes of an engine.
// A table is immutable once linked.
type Table struct {
	codes   map[Triple]uint16
	triples map[uint16]Triple
}

// Link probes a linker once for every (operation, type, rank) triple.
// Triples that the linker does not support are omitted from the table.
func Link(linker Linker) *Table {
	tbl := &Table{
		codes:   make(map[Triple]uint16),
		triples: make(map[uint16]Triple),
	}
	for _, tr := range allTriples() {
		code, ok := linker.Link(tr.Name())
		if !ok {
			continue
		}
		tbl.codes[tr] = code
		tbl.triples[code] = tr
	}
	return tbl
}

func allTriples() []Triple {
	var all []Triple
	for _, op := range Operations() {
		for _, typ := range elem.All() {
			for rank := 1; rank <= MaxRank; rank++ {
				all = append(all, Triple{Op: op, Type: typ, Rank: rank})
			}
		}
	}
	return all
}

// Len returns the number of linked instructions.
func (tbl *Table) Len() int {
	return len(tbl.codes)
}

// Lookup returns the opcode of an instruction.
func (tbl *Table) Lookup(op Operation, typ elem.Type, rank int) (uint16, bool) {
	code, ok := tbl.codes[Triple{Op: op, Type: typ, Rank: rank}]
	return code, ok
}

// OpCode returns the opcode of an instruction or an *UnlinkedError.
func (tbl *Table) OpCode(op Operation, typ elem.Type, rank int) (uint16, error) {
	code, ok := tbl.Lookup(op, typ, rank)
	if !ok {
		return 0, &UnlinkedError{Triple: Triple{Op: op, Type: typ, Rank: rank}}
	}
	return code, nil
}

// MustOpCode returns the opcode of an instruction.
// It panics if the instruction has not been linked.
func (tbl *Table) MustOpCode(op Operation, typ elem.Type, rank int) uint16 {
	code, err := tbl.OpCode(op, typ, rank)
	if err != nil {
		panic(errors.WithStack(err))
	}
	return code
}

// Triple returns the instruction linked to an opcode.
func (tbl *Table) Triple(code uint16) (Triple, bool) {
	tr, ok := tbl.triples[code]
	return tr, ok
}

// Triples returns all the linked instructions sorted by opcode.
func (tbl *Table) Triples() []Triple {
	codes := make([]int, 0, len(tbl.triples))
	for code := range tbl.triples {
		codes = append(codes, int(code))
	}
	sort.Ints(codes)
	trs := make([]Triple, len(codes))
	for i, code := range codes {
		trs[i] = tbl.triples[uint16(code)]
	}
	return trs
}

// Verify returns an error listing every legal instruction
// that has not been linked.
func (tbl *Table) Verify() error {
	var err error
	for _, tr := range allTriples() {
		if !Legal(tr.Op, tr.Type) {
			continue
		}
		if _, ok := tbl.codes[tr]; ok {
			continue
		}
		err = multierr.Append(err, &UnlinkedError{Triple: tr})
	}
	return err
}

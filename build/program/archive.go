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
	"encoding/hex"
	"math"
	"slices"

	"github.com/fxamacker/cbor/v2"
	"github.com/gx-org/cayley/arrays"
	"github.com/gx-org/cayley/build/elem"
	"github.com/gx-org/cayley/build/opcode"
	"github.com/pkg/errors"
	"lukechampine.com/blake3"
)

// Fingerprint returns the BLAKE3 hash of the bytecode in hexadecimal.
// Two programs with the same fingerprint run the same instructions when
// linked against the same engine.
func (p *Program) Fingerprint() string {
	sum := blake3.Sum256(p.Bytes())
	return hex.EncodeToString(sum[:])
}

const archiveVersion = 1

type (
	// Instructions are archived by name so that an archive can be linked
	// against any engine.
	archivedInstr struct {
		Op       string `cbor:"1,keyasint"`
		Type     string `cbor:"2,keyasint"`
		Rank     int    `cbor:"3,keyasint"`
		Operands []byte `cbor:"4,keyasint,omitempty"`
	}

	archivedParam struct {
		Name string `cbor:"1,keyasint"`
		Type string `cbor:"2,keyasint"`
		Dims []int  `cbor:"3,keyasint"`
		// Default value in the byte order of the host.
		Default    []byte `cbor:"4,keyasint,omitempty"`
		HasDefault bool   `cbor:"5,keyasint,omitempty"`
	}

	archive struct {
		Version int             `cbor:"1,keyasint"`
		Instrs  []archivedInstr `cbor:"2,keyasint"`
		Params  []archivedParam `cbor:"3,keyasint,omitempty"`
	}
)

var encMode cbor.EncMode

func init() {
	em, err := cbor.CanonicalEncOptions().EncMode()
	if err != nil {
		panic(errors.Wrapf(err, "cannot create CBOR encoding mode"))
	}
	encMode = em
}

// MarshalBinary encodes the program, its parameters and their default
// values into a CBOR archive.
func (p *Program) MarshalBinary() ([]byte, error) {
	instrs, err := Decode(p.table, p.Bytes())
	if err != nil {
		return nil, err
	}
	arch := archive{Version: archiveVersion}
	for _, instr := range instrs {
		arch.Instrs = append(arch.Instrs, archivedInstr{
			Op:       instr.Triple.Op.String(),
			Type:     instr.Triple.Type.String(),
			Rank:     instr.Triple.Rank,
			Operands: instr.Operands,
		})
	}
	for param := range p.params.Values() {
		ap := archivedParam{
			Name: param.Name,
			Type: param.Type.String(),
			Dims: param.Dims,
		}
		if !param.Default.IsZero() {
			ap.HasDefault = true
			ap.Default = arrays.ToBytes(param.Default)
		}
		arch.Params = append(arch.Params, ap)
	}
	return encMode.Marshal(&arch)
}

// UnmarshalProgram decodes a CBOR archive and links its instructions
// against a table.
func UnmarshalProgram(table *opcode.Table, data []byte) (*Program, error) {
	var arch archive
	if err := cbor.Unmarshal(data, &arch); err != nil {
		return nil, errors.Wrapf(err, "cannot decode program archive")
	}
	if arch.Version != archiveVersion {
		return nil, errors.Errorf("program archive version %d not supported", arch.Version)
	}
	p := New(table)
	for i, ai := range arch.Instrs {
		op, ok := opcode.ParseOperation(ai.Op)
		if !ok {
			return nil, errors.Errorf("instruction %d: unknown operation %q", i, ai.Op)
		}
		typ, err := elem.Parse(ai.Type)
		if err != nil {
			return nil, errors.Wrapf(err, "instruction %d", i)
		}
		if _, err := table.OpCode(op, typ, ai.Rank); err != nil {
			return nil, err
		}
		p.Op(op, typ, ai.Rank)
		p.buf.WriteBytes(ai.Operands)
	}
	if _, err := Decode(table, p.Bytes()); err != nil {
		return nil, errors.Wrapf(err, "invalid program archive")
	}
	for _, ap := range arch.Params {
		typ, err := elem.Parse(ap.Type)
		if err != nil {
			return nil, errors.Wrapf(err, "parameter %q", ap.Name)
		}
		if _, err := typ.NumElements(ap.Dims, math.MaxInt); err != nil {
			return nil, errors.Wrapf(err, "parameter %q", ap.Name)
		}
		param := &Param{Name: ap.Name, Type: typ, Dims: slices.Clone(ap.Dims)}
		if ap.HasDefault {
			def, err := arrays.FromBytes(typ, ap.Dims, ap.Default)
			if err != nil {
				return nil, errors.Wrapf(err, "parameter %q", ap.Name)
			}
			param.Default = def.Clone()
		}
		if _, inserted := p.params.Insert(ap.Name, param); !inserted {
			return nil, errors.Errorf("parameter %q archived twice", ap.Name)
		}
	}
	return p, nil
}

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

// Package engine implements a stack-based bytecode engine in Go.
//
// Instructions are registered by name, one per (operation, element type,
// rank) triple. A program links the names it needs to opcodes with Link and
// runs a bytecode against a Stack. Each statement pushes exactly one array,
// so that a ref instruction addresses a previous statement by its absolute
// stack index. Operands and embedded array data are little-endian on every
// host.
package engine

import (
	"sync"
	"sync/atomic"

	"github.com/gx-org/cayley/build/elem"
	"github.com/gx-org/cayley/build/opcode"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

type (
	call struct {
		eng    *Engine
		r      *reader
		stack  *Stack
		params []*Array
		rank   int
	}

	kernel func(*call) error

	instruction struct {
		triple opcode.Triple
		run    kernel
	}

	// Engine runs bytecode programs.
	Engine struct {
		mu     sync.Mutex
		logger *zap.Logger
		codes  map[string]uint16
		instrs []instruction
		live   atomic.Int64
	}

	// Option configures an engine.
	Option func(*Engine)
)

// WithLogger sets the logger used by the engine.
func WithLogger(logger *zap.Logger) Option {
	return func(eng *Engine) {
		eng.logger = logger
	}
}

// New returns a new engine with all its instructions registered.
func New(opts ...Option) *Engine {
	eng := &Engine{
		logger: zap.NewNop(),
		codes:  make(map[string]uint16),
	}
	for _, opt := range opts {
		opt(eng)
	}
	registerAll(eng)
	eng.logger.Debug("engine ready", zap.Int("instructions", len(eng.instrs)))
	return eng
}

var (
	defaultOnce   sync.Once
	defaultEngine *Engine
)

// Default returns the engine shared by the process.
func Default() *Engine {
	defaultOnce.Do(func() {
		defaultEngine = New()
	})
	return defaultEngine
}

// register an instruction for all ranks.
func (eng *Engine) register(op opcode.Operation, typ elem.Type, run kernel) {
	for rank := 1; rank <= opcode.MaxRank; rank++ {
		tr := opcode.Triple{Op: op, Type: typ, Rank: rank}
		name := tr.Name()
		if _, exists := eng.codes[name]; exists {
			panic(errors.Errorf("instruction %s registered twice", name))
		}
		eng.codes[name] = uint16(len(eng.instrs))
		eng.instrs = append(eng.instrs, instruction{triple: tr, run: run})
	}
}

// Link returns the opcode of an instruction given its name.
func (eng *Engine) Link(name string) (uint16, bool) {
	code, ok := eng.codes[name]
	return code, ok
}

// NumInstructions returns the number of instructions supported by the engine.
func (eng *Engine) NumInstructions() int {
	return len(eng.instrs)
}

// Live returns the number of arrays allocated by the engine
// that have not been freed yet.
func (eng *Engine) Live() int {
	return int(eng.live.Load())
}

// Run executes a bytecode on a stack.
// params are the arrays referenced by param instructions.
// Runs are serialized: only one bytecode executes at a time.
func (eng *Engine) Run(s *Stack, code []byte, params []*Array) error {
	eng.mu.Lock()
	defer eng.mu.Unlock()
	r := &reader{code: code}
	for !r.done() {
		start := r.pos
		op, err := r.u16()
		if err != nil {
			return err
		}
		if int(op) >= len(eng.instrs) {
			return errors.Errorf("unknown opcode %d at offset %d", op, start)
		}
		instr := eng.instrs[op]
		c := call{
			eng:    eng,
			r:      r,
			stack:  s,
			params: params,
			rank:   instr.triple.Rank,
		}
		err = checkDepth(instr.triple.Op, s)
		if err == nil {
			err = instr.run(&c)
		}
		if err != nil {
			eng.logger.Warn("instruction failed",
				zap.String("instruction", instr.triple.Name()),
				zap.Int("offset", start),
				zap.Error(err))
			return errors.Wrapf(err, "%s at offset %d", instr.triple.Name(), start)
		}
	}
	return nil
}

// checkDepth fails if the stack holds fewer arrays than an operation pops.
func checkDepth(op opcode.Operation, s *Stack) error {
	if n := op.NumArgs(); s.Len() < n {
		return errors.Errorf("stack underflow: %s pops %d arrays but the stack holds %d", op, n, s.Len())
	}
	return nil
}

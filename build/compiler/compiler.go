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

// Package compiler compiles expression graphs into bytecode programs.
//
// The shared nodes of a graph, as found by the dedup package, are computed
// first in slot order. Each one leaves exactly one array on the stack, so
// that the array of slot i is at stack index i. The root is computed last.
// Any other node is computed inline, right before the node using it.
package compiler

import (
	"context"

	"github.com/gx-org/cayley/build/dedup"
	"github.com/gx-org/cayley/build/expr"
	"github.com/gx-org/cayley/build/generators"
	"github.com/gx-org/cayley/build/opcode"
	"github.com/gx-org/cayley/build/program"
	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"
)

// Compiler emits programs for an opcode table.
type Compiler struct {
	table *opcode.Table
	gens  generators.Generators
}

// New returns a compiler given a linked opcode table and the generators
// to use for each node operation.
func New(table *opcode.Table, gens generators.Generators) *Compiler {
	return &Compiler{table: table, gens: gens}
}

type compilation struct {
	*Compiler
	prog  *program.Program
	cache *dedup.Cache
}

// Compile returns the program computing a root node.
// It panics if a node operation has no generator or if an instruction
// has not been linked.
func (c *Compiler) Compile(root *expr.Node) *program.Program {
	comp := &compilation{
		Compiler: c,
		prog:     program.New(c.table),
		cache:    dedup.Build(root),
	}
	for _, n := range comp.cache.Nodes() {
		comp.generate(n)
	}
	comp.emit(root)
	return comp.prog
}

func (comp *compilation) generate(n *expr.Node) {
	for _, dep := range n.Deps {
		comp.emit(dep)
	}
	if n.Op >= expr.NumOps || comp.gens[n.Op] == nil {
		panic(errors.Errorf("no generator registered for %s", n.Op))
	}
	comp.gens[n.Op](comp.prog, n)
}

// emit computes a node inline or refers to its slot if it is cached.
func (comp *compilation) emit(n *expr.Node) {
	if slot, ok := comp.cache.Slot(n); ok {
		comp.prog.Op(opcode.Ref, n.Type, n.Rank())
		comp.prog.Ref(slot)
		return
	}
	comp.generate(n)
}

// CompileAll compiles several roots concurrently.
// Compilation failures are returned as errors. Roots are not scheduled
// anymore once the context is done.
func (c *Compiler) CompileAll(ctx context.Context, roots ...*expr.Node) ([]*program.Program, error) {
	progs := make([]*program.Program, len(roots))
	g, gctx := errgroup.WithContext(ctx)
	for i, root := range roots {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() (err error) {
			defer func() {
				if r := recover(); r != nil {
					err = errors.Errorf("cannot compile root %d: %v", i, r)
				}
			}()
			progs[i] = c.Compile(root)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return progs, nil
}

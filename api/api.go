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

// Package api evaluates expression graphs on an engine.
package api

import (
	"github.com/gx-org/cayley/arrays"
	"github.com/gx-org/cayley/build/compiler"
	"github.com/gx-org/cayley/build/expr"
	"github.com/gx-org/cayley/build/generators"
	"github.com/gx-org/cayley/build/opcode"
	"github.com/gx-org/cayley/build/program"
	"github.com/gx-org/cayley/golang/engine"
	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/pkg/errors"
	"go.uber.org/multierr"
	"go.uber.org/zap"
)

// DefaultCacheSize is the number of compiled programs kept by a runtime.
const DefaultCacheSize = 128

type (
	options struct {
		eng       *engine.Engine
		gens      *generators.Generators
		cacheSize int
		logger    *zap.Logger
		verify    bool
	}

	// Option configures a runtime.
	Option func(*options)
)

// WithEngine sets the engine running the programs.
// The default is engine.Default().
func WithEngine(eng *engine.Engine) Option {
	return func(o *options) { o.eng = eng }
}

// WithGenerators sets the generators used by the compiler.
// The default is generators.Default().
func WithGenerators(gens generators.Generators) Option {
	return func(o *options) { o.gens = &gens }
}

// WithCacheSize sets the number of compiled programs kept in memory.
func WithCacheSize(size int) Option {
	return func(o *options) { o.cacheSize = size }
}

// WithLogger sets the logger of the runtime.
func WithLogger(logger *zap.Logger) Option {
	return func(o *options) { o.logger = logger }
}

// WithVerify checks when the runtime is created that the engine implements
// every legal instruction.
func WithVerify(verify bool) Option {
	return func(o *options) { o.verify = verify }
}

// Runtime encapsulates an engine, its opcode table and a compiler.
// A runtime can be used from several goroutines.
type Runtime struct {
	eng    *engine.Engine
	table  *opcode.Table
	comp   *compiler.Compiler
	cache  *lru.Cache[*expr.Node, *program.Program]
	logger *zap.Logger
}

// NewRuntime returns a new runtime.
func NewRuntime(opts ...Option) (*Runtime, error) {
	o := options{cacheSize: DefaultCacheSize}
	for _, opt := range opts {
		opt(&o)
	}
	if o.eng == nil {
		o.eng = engine.Default()
	}
	if o.gens == nil {
		gens := generators.Default()
		o.gens = &gens
	}
	if o.logger == nil {
		o.logger = zap.NewNop()
	}
	cache, err := lru.New[*expr.Node, *program.Program](o.cacheSize)
	if err != nil {
		return nil, errors.Wrapf(err, "cannot create a cache of %d programs", o.cacheSize)
	}
	table := opcode.Link(o.eng)
	if o.verify {
		if err := table.Verify(); err != nil {
			return nil, errors.Wrapf(err, "engine is incomplete")
		}
	}
	o.logger.Debug("runtime ready",
		zap.Int("instructions", table.Len()),
		zap.Int("cache_size", o.cacheSize))
	return &Runtime{
		eng:    o.eng,
		table:  table,
		comp:   compiler.New(table, *o.gens),
		cache:  cache,
		logger: o.logger,
	}, nil
}

// Engine used by the runtime.
func (rtm *Runtime) Engine() *engine.Engine {
	return rtm.eng
}

// Table returns the opcode table linked against the engine.
func (rtm *Runtime) Table() *opcode.Table {
	return rtm.table
}

// Compiler returns the compiler used by the runtime.
func (rtm *Runtime) Compiler() *compiler.Compiler {
	return rtm.comp
}

// Compile returns the program computing a root.
// Programs are cached by the identity of their root.
func (rtm *Runtime) Compile(root *expr.Node) (prog *program.Program, err error) {
	if prog, ok := rtm.cache.Get(root); ok {
		return prog, nil
	}
	defer func() {
		if r := recover(); r != nil {
			err = errors.Errorf("cannot compile %s%v: %v", root.Op, root.Dims, r)
		}
	}()
	prog = rtm.comp.Compile(root)
	rtm.cache.Add(root, prog)
	rtm.logger.Debug("compiled",
		zap.Stringer("op", root.Op),
		zap.Int("instructions", prog.NumInstructions()),
		zap.String("fingerprint", prog.Fingerprint()))
	return prog, nil
}

// Run compiles and runs a root. The caller owns the result and must free it.
func (rtm *Runtime) Run(root *expr.Node, bindings map[string]arrays.View) (*program.Result, error) {
	prog, err := rtm.Compile(root)
	if err != nil {
		return nil, err
	}
	return prog.Run(rtm.eng, root.Type, bindings)
}

// Eval computes a root and copies its value into host memory.
func (rtm *Runtime) Eval(root *expr.Node, bindings map[string]arrays.View) (arrays.View, error) {
	res, err := rtm.Run(root, bindings)
	if err != nil {
		return arrays.View{}, err
	}
	defer res.Free()
	return res.View()
}

// EvalAll computes several roots with the same bindings.
// The returned error aggregates the errors of all the roots.
func (rtm *Runtime) EvalAll(roots []*expr.Node, bindings map[string]arrays.View) ([]arrays.View, error) {
	views := make([]arrays.View, len(roots))
	var errs error
	for i, root := range roots {
		view, err := rtm.Eval(root, bindings)
		if err != nil {
			errs = multierr.Append(errs, errors.Wrapf(err, "root %d", i))
			continue
		}
		views[i] = view
	}
	return views, errs
}

// Materialize returns an input holding the value of a root.
// Inputs with data are returned as is.
func (rtm *Runtime) Materialize(root *expr.Node) (*expr.Node, error) {
	if root.IsInput() && root.HasData() && !root.IsNamed() {
		return root, nil
	}
	view, err := rtm.Eval(root, nil)
	if err != nil {
		return nil, err
	}
	return expr.NewInput(view), nil
}

// Forget removes the program compiled for a root from the cache.
func (rtm *Runtime) Forget(root *expr.Node) {
	rtm.cache.Remove(root)
}

// NumCached returns the number of programs in the cache.
func (rtm *Runtime) NumCached() int {
	return rtm.cache.Len()
}

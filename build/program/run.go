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
	"slices"

	"github.com/gx-org/cayley/arrays"
	"github.com/gx-org/cayley/build/elem"
	"github.com/gx-org/cayley/golang/engine"
	"github.com/pkg/errors"
	"go.uber.org/multierr"
)

// Result of a program run. The result is an array owned by the engine
// and must be released with Free.
type Result struct {
	array *engine.Array
}

// Array returns the engine array holding the result.
func (r *Result) Array() *engine.Array {
	return r.array
}

// View copies the result into host memory.
func (r *Result) View() (arrays.View, error) {
	return arrays.FromEngine(r.array)
}

// Free releases the engine memory of the result.
// Calling Free more than once has no effect.
func (r *Result) Free() {
	if r == nil {
		return
	}
	r.array.Free()
}

// resolve returns the value of each parameter given bindings.
func (p *Program) resolve(bindings map[string]arrays.View) ([]arrays.View, error) {
	var err error
	for name := range bindings {
		if _, ok := p.params.Load(name); !ok {
			err = multierr.Append(err, errors.Errorf("program has no input named %q", name))
		}
	}
	vals := make([]arrays.View, 0, p.params.Size())
	for name, param := range p.params.Iter() {
		val, bound := bindings[name]
		if !bound {
			val = param.Default
		}
		switch {
		case val.IsZero():
			err = multierr.Append(err, errors.Errorf("input %q has no value", name))
		case val.Type() != param.Type || !slices.Equal(val.Dims(), param.Dims):
			err = multierr.Append(err, errors.Errorf("input %q expects %s%v but got %s%v", name, param.Type, param.Dims, val.Type(), val.Dims()))
		}
		vals = append(vals, val)
	}
	return vals, err
}

// Run executes the program on an engine and returns the array on top of
// the stack. Values bound by name override the default value of the
// matching parameters.
func (p *Program) Run(eng *engine.Engine, typ elem.Type, bindings map[string]arrays.View) (*Result, error) {
	vals, err := p.resolve(bindings)
	if err != nil {
		return nil, err
	}
	params := make([]*engine.Array, len(vals))
	for i, param := range p.Params() {
		params[i] = arrays.ToEngine(eng, param.Type, param.Dims, vals[i])
	}
	defer func() {
		for _, a := range params {
			a.Free()
		}
	}()
	stack := eng.NewStack()
	defer stack.Free()
	if err := eng.Run(stack, p.Bytes(), params); err != nil {
		return nil, err
	}
	out, err := stack.Pop()
	if err != nil {
		return nil, errors.Wrapf(err, "program produced no result")
	}
	if out.Type() != typ {
		out.Free()
		return nil, errors.Errorf("program produced an array of %s but %s was requested", out.Type(), typ)
	}
	return &Result{array: out}, nil
}

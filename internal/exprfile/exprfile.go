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

// Package exprfile reads expression graphs from YAML files.
//
// A file declares named inputs and a sequence of let bindings. Each binding
// names a node computed from previously bound names, so a name used several
// times becomes a node shared in the graph:
//
//	inputs:
//	  - {name: x, type: u32, dims: [5]}
//	let:
//	  - {name: two, op: fill, type: u32, dims: [5], value: 2}
//	  - {name: sum, op: add, args: [x, two]}
//	  - {name: out, op: mul, args: [sum, sum]}
//	result: out
package exprfile

import (
	"os"

	"github.com/gx-org/cayley/arrays"
	"github.com/gx-org/cayley/build/elem"
	"github.com/gx-org/cayley/build/expr"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

type (
	// Input declares a named input.
	Input struct {
		Name string `yaml:"name"`
		Type string `yaml:"type"`
		Dims []int  `yaml:"dims"`
		// Default is optional. It is either a list of all the values or a
		// single value used for all the elements.
		Default any `yaml:"default,omitempty"`
	}

	// Let binds a name to a node.
	Let struct {
		Name   string   `yaml:"name"`
		Op     string   `yaml:"op"`
		Args   []string `yaml:"args,omitempty"`
		Type   string   `yaml:"type,omitempty"`
		Dims   []int    `yaml:"dims,omitempty"`
		Value  any      `yaml:"value,omitempty"`
		Ranges [][]int  `yaml:"ranges,omitempty"`
		Mask   []bool   `yaml:"mask,omitempty"`
		By     []int    `yaml:"by,omitempty"`
	}

	// File is the content of an expression file.
	File struct {
		Inputs []Input `yaml:"inputs,omitempty"`
		Let    []Let   `yaml:"let"`
		// Result is the name of the root. The last binding is the root if
		// Result is empty.
		Result string `yaml:"result,omitempty"`
	}
)

// Graph built from an expression file.
type Graph struct {
	// Root of the graph.
	Root *expr.Node
	// Inputs are the named inputs in declaration order.
	Inputs []*expr.Node
	// Names maps every input and binding name to its node.
	Names map[string]*expr.Node
}

// Load reads and builds an expression file.
func Load(path string) (*Graph, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "cannot read expression file")
	}
	g, err := Parse(data)
	if err != nil {
		return nil, errors.Wrapf(err, "%s", path)
	}
	return g, nil
}

// Parse decodes and builds an expression file.
func Parse(data []byte) (*Graph, error) {
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, errors.Wrapf(err, "invalid expression file")
	}
	return f.Build()
}

// Build the graph described by the file.
func (f *File) Build() (*Graph, error) {
	g := &Graph{Names: make(map[string]*expr.Node)}
	for _, in := range f.Inputs {
		n, err := guard(in.Name, in.build)
		if err != nil {
			return nil, err
		}
		if err := g.bind(in.Name, n); err != nil {
			return nil, err
		}
		g.Inputs = append(g.Inputs, n)
	}
	for _, let := range f.Let {
		n, err := guard(let.Name, func() (*expr.Node, error) { return let.build(g) })
		if err != nil {
			return nil, err
		}
		if err := g.bind(let.Name, n); err != nil {
			return nil, err
		}
		g.Root = n
	}
	if f.Result != "" {
		root, ok := g.Names[f.Result]
		if !ok {
			return nil, errors.Errorf("result %q undefined", f.Result)
		}
		g.Root = root
	}
	if g.Root == nil {
		return nil, errors.Errorf("expression file has no result")
	}
	return g, nil
}

func (g *Graph) bind(name string, n *expr.Node) error {
	if name == "" {
		return errors.Errorf("%s node without a name", n.Op)
	}
	if _, ok := g.Names[name]; ok {
		return errors.Errorf("%q defined twice", name)
	}
	g.Names[name] = n
	return nil
}

// guard converts the panics raised by the node constructors into errors.
func guard(name string, build func() (*expr.Node, error)) (n *expr.Node, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = errors.Errorf("%s: %v", name, r)
		}
	}()
	n, err = build()
	if err != nil {
		return nil, errors.Wrapf(err, "%s", name)
	}
	return n, nil
}

func (in *Input) build() (*expr.Node, error) {
	typ, err := elem.Parse(in.Type)
	if err != nil {
		return nil, err
	}
	var def arrays.View
	if in.Default != nil {
		if def, err = View(typ, in.Dims, in.Default); err != nil {
			return nil, errors.Wrapf(err, "invalid default value")
		}
	}
	return expr.NewNamed(in.Name, typ, in.Dims, def), nil
}

func (let *Let) args(g *Graph, want int) ([]*expr.Node, error) {
	if len(let.Args) != want {
		return nil, errors.Errorf("%s takes %d arguments but got %d", let.Op, want, len(let.Args))
	}
	nodes := make([]*expr.Node, want)
	for i, name := range let.Args {
		n, ok := g.Names[name]
		if !ok {
			return nil, errors.Errorf("%q undefined", name)
		}
		nodes[i] = n
	}
	return nodes, nil
}

func (let *Let) intervals() ([]expr.Interval, error) {
	rngs := make([]expr.Interval, len(let.Ranges))
	for i, r := range let.Ranges {
		if len(r) != 2 {
			return nil, errors.Errorf("range %d: got %d bounds but want 2", i, len(r))
		}
		rngs[i] = expr.Interval{Start: r[0], End: r[1]}
	}
	return rngs, nil
}

func (let *Let) build(g *Graph) (*expr.Node, error) {
	op, ok := expr.ParseOp(let.Op)
	if !ok {
		return nil, errors.Errorf("unknown operation %q", let.Op)
	}
	switch op {
	case expr.Input:
		typ, err := elem.Parse(let.Type)
		if err != nil {
			return nil, err
		}
		data, err := View(typ, let.Dims, let.Value)
		if err != nil {
			return nil, err
		}
		return expr.NewInput(data), nil
	case expr.Fill:
		typ, err := elem.Parse(let.Type)
		if err != nil {
			return nil, err
		}
		if let.Value == nil {
			return nil, errors.Errorf("fill without a value")
		}
		return expr.NewFill(typ, let.Dims, let.Value), nil
	case expr.Merge:
		args, err := let.args(g, 2)
		if err != nil {
			return nil, err
		}
		rngs, err := let.intervals()
		if err != nil {
			return nil, err
		}
		return expr.NewMerge(args[0], args[1], rngs), nil
	case expr.Neg, expr.Not:
		args, err := let.args(g, 1)
		if err != nil {
			return nil, err
		}
		return expr.NewUnary(op, args[0]), nil
	case expr.Cast, expr.Expand, expr.Reshape, expr.Flip, expr.Slice, expr.Step:
		return let.unary(g, op)
	}
	args, err := let.args(g, 2)
	if err != nil {
		return nil, err
	}
	return expr.NewBinary(op, args[0], args[1]), nil
}

func (let *Let) unary(g *Graph, op expr.Op) (*expr.Node, error) {
	args, err := let.args(g, 1)
	if err != nil {
		return nil, err
	}
	x := args[0]
	switch op {
	case expr.Cast:
		typ, err := elem.Parse(let.Type)
		if err != nil {
			return nil, err
		}
		return expr.NewCast(x, typ), nil
	case expr.Expand:
		return expr.NewExpand(x, let.Dims), nil
	case expr.Reshape:
		return expr.NewReshape(x, let.Dims), nil
	case expr.Flip:
		return expr.NewFlip(x, let.Mask), nil
	case expr.Slice:
		rngs, err := let.intervals()
		if err != nil {
			return nil, err
		}
		return expr.NewSlice(x, rngs), nil
	default:
		return expr.NewStep(x, let.By), nil
	}
}

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

package expr

import (
	"slices"

	"github.com/gx-org/cayley/arrays"
	"github.com/gx-org/cayley/build/elem"
	"github.com/gx-org/cayley/build/opcode"
	"github.com/pkg/errors"
)

// Constructors panic when the types or the shapes of their operands are
// invalid: such a graph cannot be compiled.

func checkDims(dims []int) {
	if len(dims) < 1 || len(dims) > opcode.MaxRank {
		panic(errors.Errorf("rank %d not supported: arrays have between 1 and %d axes", len(dims), opcode.MaxRank))
	}
	for i, d := range dims {
		if d < 0 {
			panic(errors.Errorf("invalid length %d for axis %d", d, i))
		}
	}
}

func checkType(typ elem.Type) {
	if !typ.Valid() {
		panic(errors.Errorf("invalid element type %s", typ))
	}
}

func newNode(op Op, typ elem.Type, dims []int, deps ...*Node) *Node {
	checkType(typ)
	checkDims(dims)
	return &Node{Op: op, Type: typ, Dims: slices.Clone(dims), Deps: deps}
}

// NewInput returns an input embedding data from the host.
func NewInput(data arrays.View) *Node {
	if data.IsZero() {
		panic(errors.Errorf("input has no data"))
	}
	n := newNode(Input, data.Type(), data.Dims())
	n.Data = data
	return n
}

// NewNamed returns an input which can be bound by name when the program runs.
// def is the default value of the input. It can be the zero View, in which
// case a value has to be bound when the program runs.
func NewNamed(name string, typ elem.Type, dims []int, def arrays.View) *Node {
	if name == "" {
		panic(errors.Errorf("named input without a name"))
	}
	n := newNode(Input, typ, dims)
	n.Name = name
	if !def.IsZero() {
		if def.Type() != typ || !slices.Equal(def.Dims(), dims) {
			panic(errors.Errorf("default value %s%v of input %q does not match %s%v", def.Type(), def.Dims(), name, typ, dims))
		}
		n.Data = def
	}
	return n
}

// NewFill returns an array with all its elements equal to value.
// value is converted to the element type.
func NewFill(typ elem.Type, dims []int, value any) *Node {
	n := newNode(Fill, typ, dims)
	v, err := elem.Convert(typ, value)
	if err != nil {
		panic(errors.Wrapf(err, "invalid fill value"))
	}
	n.Value = v
	return n
}

// NewCast converts the elements of x to another type.
// Casting to the type of x returns x.
func NewCast(x *Node, to elem.Type) *Node {
	if x.Type == to {
		return x
	}
	if x.Type.IsBool() && to.IsFloat() {
		panic(errors.Errorf("cannot cast %s to %s", x.Type, to))
	}
	return newNode(Cast, to, x.Dims, x)
}

// NewExpand broadcasts the axes of length 1 of x to new lengths.
func NewExpand(x *Node, dims []int) *Node {
	if len(dims) != x.Rank() {
		panic(errors.Errorf("cannot expand an array of rank %d to rank %d", x.Rank(), len(dims)))
	}
	for i, d := range dims {
		if x.Dims[i] != d && x.Dims[i] != 1 {
			panic(errors.Errorf("cannot expand axis %d of length %d to %d", i, x.Dims[i], d))
		}
	}
	return newNode(Expand, x.Type, dims, x)
}

// NewReshape changes the dimensions of x keeping its elements.
func NewReshape(x *Node, dims []int) *Node {
	checkDims(dims)
	if arrays.Size(dims) != arrays.Size(x.Dims) {
		panic(errors.Errorf("cannot reshape %v into %v", x.Dims, dims))
	}
	return newNode(Reshape, x.Type, dims, x)
}

// NewFlip reverses the order of the elements along the masked axes.
func NewFlip(x *Node, mask []bool) *Node {
	if len(mask) != x.Rank() {
		panic(errors.Errorf("got a mask of %d axes for an array of rank %d", len(mask), x.Rank()))
	}
	n := newNode(Flip, x.Type, x.Dims, x)
	n.Mask = slices.Clone(mask)
	return n
}

func rangeDims(dims []int, rngs []Interval) []int {
	if len(rngs) != len(dims) {
		panic(errors.Errorf("got %d ranges for an array of rank %d", len(rngs), len(dims)))
	}
	out := make([]int, len(dims))
	for i, r := range rngs {
		if r.Start < 0 || r.Start > r.End || r.End > dims[i] {
			panic(errors.Errorf("range %s out of bounds for axis %d of length %d", r, i, dims[i]))
		}
		out[i] = r.Len()
	}
	return out
}

// NewMerge writes src into the region of dst selected by rngs.
func NewMerge(dst, src *Node, rngs []Interval) *Node {
	if dst.Type != src.Type {
		panic(errors.Errorf("cannot merge an array of %s into an array of %s", src.Type, dst.Type))
	}
	if out := rangeDims(dst.Dims, rngs); !slices.Equal(out, src.Dims) {
		panic(errors.Errorf("cannot merge an array of dimensions %v into a range of dimensions %v", src.Dims, out))
	}
	n := newNode(Merge, dst.Type, dst.Dims, dst, src)
	n.Ranges = slices.Clone(rngs)
	return n
}

// NewSlice selects the region of x given by rngs.
func NewSlice(x *Node, rngs []Interval) *Node {
	n := newNode(Slice, x.Type, rangeDims(x.Dims, rngs), x)
	n.Ranges = slices.Clone(rngs)
	return n
}

// NewStep keeps one element every by[i] elements along each axis i.
// The length of an axis of n elements becomes ceil(n/by[i]).
func NewStep(x *Node, by []int) *Node {
	if len(by) != x.Rank() {
		panic(errors.Errorf("got %d steps for an array of rank %d", len(by), x.Rank()))
	}
	dims := make([]int, len(by))
	for i, b := range by {
		if b <= 0 {
			panic(errors.Errorf("invalid step %d for axis %d", b, i))
		}
		dims[i] = (x.Dims[i] + b - 1) / b
	}
	n := newNode(Step, x.Type, dims, x)
	n.By = slices.Clone(by)
	return n
}

type typeRule func(elem.Type) bool

var (
	anyType typeRule = elem.Type.Valid
	scalar  typeRule = elem.Type.IsScalar
	integer typeRule = elem.Type.IsIntegral
	boolean typeRule = elem.Type.IsBool
)

var rules = map[Op]typeRule{
	Add:    scalar,
	Sub:    scalar,
	Mul:    scalar,
	Div:    scalar,
	Rem:    scalar,
	Max:    scalar,
	Min:    scalar,
	BitAnd: integer,
	BitOr:  integer,
	BitXor: integer,
	Shl:    integer,
	Shr:    integer,
	Neg:    integer,
	Gt:     anyType,
	Lt:     anyType,
	Ge:     anyType,
	Le:     anyType,
	Eq:     anyType,
	Ne:     anyType,
	Not:    boolean,
	And:    boolean,
	Or:     boolean,
	Xor:    boolean,
}

func isComparison(op Op) bool {
	return op >= Gt && op <= Ne
}

// NewUnary returns a node applying an element-wise unary operation.
func NewUnary(op Op, x *Node) *Node {
	if op != Neg && op != Not {
		panic(errors.Errorf("%s is not a unary operation", op))
	}
	if !rules[op](x.Type) {
		panic(errors.Errorf("%s not supported on arrays of %s", op, x.Type))
	}
	return newNode(op, x.Type, x.Dims, x)
}

// NewBinary returns a node applying an element-wise binary operation.
// Both operands have the same type and the same dimensions.
// Comparisons produce booleans.
func NewBinary(op Op, x, y *Node) *Node {
	rule, ok := rules[op]
	if !ok || op == Neg || op == Not {
		panic(errors.Errorf("%s is not a binary operation", op))
	}
	if x.Type != y.Type {
		panic(errors.Errorf("%s: mismatched types %s and %s", op, x.Type, y.Type))
	}
	if !slices.Equal(x.Dims, y.Dims) {
		panic(errors.Errorf("%s: mismatched dimensions %v and %v", op, x.Dims, y.Dims))
	}
	if !rule(x.Type) {
		panic(errors.Errorf("%s not supported on arrays of %s", op, x.Type))
	}
	typ := x.Type
	if isComparison(op) {
		typ = elem.Bool
	}
	return newNode(op, typ, x.Dims, x, y)
}

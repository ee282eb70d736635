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

package engine

import (
	"slices"

	"github.com/gx-org/cayley/build/elem"
	"github.com/gx-org/cayley/build/opcode"
	"github.com/gx-org/cayley/golang/engine/kernels"
	"github.com/pkg/errors"
	"golang.org/x/exp/constraints"
)

type (
	numeric interface {
		elem.Go
		kernels.Algebra
	}

	integer interface {
		elem.Go
		constraints.Integer
	}

	float interface {
		elem.Go
		constraints.Float
	}
)

func registerAll(eng *Engine) {
	registerBool(eng)
	registerInteger[uint8](eng)
	registerInteger[uint16](eng)
	registerInteger[uint32](eng)
	registerInteger[uint64](eng)
	registerInteger[int8](eng)
	registerInteger[int16](eng)
	registerInteger[int32](eng)
	registerInteger[int64](eng)
	registerFloat[float32](eng)
	registerFloat[float64](eng)
}

func registerArray[T elem.Go](eng *Engine) {
	typ := elem.Of[T]()
	eng.register(opcode.Ref, typ, refKernel[T])
	eng.register(opcode.Data, typ, dataKernel[T])
	eng.register(opcode.Param, typ, paramKernel[T])
	eng.register(opcode.Merge, typ, mergeKernel[T])
	eng.register(opcode.Slice, typ, sliceKernel[T])
	eng.register(opcode.Expand, typ, expandKernel[T])
	for rank := 1; rank <= opcode.MaxRank; rank++ {
		op, _ := opcode.Reshape(rank)
		eng.register(op, typ, reshapeKernel[T](rank))
	}
	eng.register(opcode.Flip, typ, flipKernel[T])
	eng.register(opcode.Step, typ, stepKernel[T])
	eng.register(opcode.Fill, typ, fillKernel[T])
	eng.register(opcode.Eq, typ, binaryKernel(kernels.Eq[T]))
	eng.register(opcode.Ne, typ, binaryKernel(kernels.Ne[T]))
}

func registerBool(eng *Engine) {
	registerArray[bool](eng)
	eng.register(opcode.Gt, elem.Bool, binaryKernel(kernels.OrderBools(kernels.Gt[uint8])))
	eng.register(opcode.Lt, elem.Bool, binaryKernel(kernels.OrderBools(kernels.Lt[uint8])))
	eng.register(opcode.Ge, elem.Bool, binaryKernel(kernels.OrderBools(kernels.Ge[uint8])))
	eng.register(opcode.Le, elem.Bool, binaryKernel(kernels.OrderBools(kernels.Le[uint8])))
	eng.register(opcode.Not, elem.Bool, unaryKernel(kernels.Not))
	eng.register(opcode.And, elem.Bool, binaryKernel(kernels.And))
	eng.register(opcode.Or, elem.Bool, binaryKernel(kernels.Or))
	eng.register(opcode.Xor, elem.Bool, binaryKernel(kernels.Xor))
	castFromBool[uint8](eng)
	castFromBool[uint16](eng)
	castFromBool[uint32](eng)
	castFromBool[uint64](eng)
	castFromBool[int8](eng)
	castFromBool[int16](eng)
	castFromBool[int32](eng)
	castFromBool[int64](eng)
}

func registerNumeric[T numeric](eng *Engine) {
	registerArray[T](eng)
	typ := elem.Of[T]()
	eng.register(opcode.Add, typ, binaryKernel(kernels.Add[T]))
	eng.register(opcode.Sub, typ, binaryKernel(kernels.Sub[T]))
	eng.register(opcode.Mul, typ, binaryKernel(kernels.Mul[T]))
	eng.register(opcode.Max, typ, binaryKernel(kernels.Max[T]))
	eng.register(opcode.Min, typ, binaryKernel(kernels.Min[T]))
	eng.register(opcode.Gt, typ, binaryKernel(kernels.Gt[T]))
	eng.register(opcode.Lt, typ, binaryKernel(kernels.Lt[T]))
	eng.register(opcode.Ge, typ, binaryKernel(kernels.Ge[T]))
	eng.register(opcode.Le, typ, binaryKernel(kernels.Le[T]))
	to, _ := opcode.Cast(elem.Bool)
	eng.register(to, typ, unaryKernel(kernels.CastToBool[T]))
	castTo[T, uint8](eng)
	castTo[T, uint16](eng)
	castTo[T, uint32](eng)
	castTo[T, uint64](eng)
	castTo[T, int8](eng)
	castTo[T, int16](eng)
	castTo[T, int32](eng)
	castTo[T, int64](eng)
	castTo[T, float32](eng)
	castTo[T, float64](eng)
}

func registerInteger[T integer](eng *Engine) {
	registerNumeric[T](eng)
	typ := elem.Of[T]()
	eng.register(opcode.Div, typ, binaryKernel(kernels.DivInt[T]))
	eng.register(opcode.Rem, typ, binaryKernel(kernels.RemInt[T]))
	eng.register(opcode.Neg, typ, unaryKernel(kernels.Neg[T]))
	eng.register(opcode.BitAnd, typ, binaryKernel(kernels.BitAnd[T]))
	eng.register(opcode.BitOr, typ, binaryKernel(kernels.BitOr[T]))
	eng.register(opcode.BitXor, typ, binaryKernel(kernels.BitXor[T]))
	eng.register(opcode.Shl, typ, binaryKernel(kernels.Shl[T]))
	eng.register(opcode.Shr, typ, binaryKernel(kernels.Shr[T]))
}

func registerFloat[T float](eng *Engine) {
	registerNumeric[T](eng)
	typ := elem.Of[T]()
	eng.register(opcode.Div, typ, binaryKernel(kernels.DivFloat[T]))
	eng.register(opcode.Rem, typ, binaryKernel(kernels.RemFloat[T]))
}

func castTo[T, U numeric](eng *Engine) {
	from, to := elem.Of[T](), elem.Of[U]()
	if from == to {
		return
	}
	op, _ := opcode.Cast(to)
	eng.register(op, from, unaryKernel(kernels.Cast[T, U]))
}

func castFromBool[U integer](eng *Engine) {
	op, _ := opcode.Cast(elem.Of[U]())
	eng.register(op, elem.Bool, unaryKernel(kernels.CastFromBool[U]))
}

func (c *call) pop(typ elem.Type) (*Array, error) {
	return c.stack.pop(typ, c.rank)
}

func refKernel[T elem.Go](c *call) error {
	slot, err := c.r.u32()
	if err != nil {
		return err
	}
	src, err := c.stack.At(slot)
	if err != nil {
		return err
	}
	if src.typ != elem.Of[T]() || src.Rank() != c.rank {
		return errors.Errorf("slot %d holds an array of %s with rank %d", slot, src.typ, src.Rank())
	}
	c.stack.Push(src.clone())
	return nil
}

func dataKernel[T elem.Go](c *call) error {
	dims, err := c.r.shape(c.rank)
	if err != nil {
		return err
	}
	vals, err := readData[T](c.r, dims)
	if err != nil {
		return err
	}
	c.stack.Push(newArray(c.eng, dims, vals))
	return nil
}

func paramKernel[T elem.Go](c *call) error {
	dims, err := c.r.shape(c.rank)
	if err != nil {
		return err
	}
	index, err := c.r.u32()
	if err != nil {
		return err
	}
	if index >= len(c.params) {
		return errors.Errorf("parameter %d out of range: %d parameters given", index, len(c.params))
	}
	p := c.params[index]
	if p == nil || p.Freed() {
		return errors.Errorf("parameter %d has no value", index)
	}
	if p.typ != elem.Of[T]() || !slices.Equal(p.dims, dims) {
		return errors.Errorf("parameter %d is an array of %s%v but the program expects %s%v", index, p.typ, p.dims, elem.Of[T](), dims)
	}
	c.stack.Push(p.clone())
	return nil
}

func mergeKernel[T elem.Go](c *call) error {
	rngs, err := c.r.ranges(c.rank)
	if err != nil {
		return err
	}
	src, err := c.pop(elem.Of[T]())
	if err != nil {
		return err
	}
	defer src.Free()
	dst, err := c.pop(elem.Of[T]())
	if err != nil {
		return err
	}
	if err := kernels.Merge(dst.data.([]T), dst.dims, src.data.([]T), src.dims, rngs); err != nil {
		dst.Free()
		return err
	}
	c.stack.Push(dst)
	return nil
}

func sliceKernel[T elem.Go](c *call) error {
	rngs, err := c.r.ranges(c.rank)
	if err != nil {
		return err
	}
	x, err := c.pop(elem.Of[T]())
	if err != nil {
		return err
	}
	defer x.Free()
	vals, dims, err := kernels.Slice(x.data.([]T), x.dims, rngs)
	if err != nil {
		return err
	}
	c.stack.Push(newArray(c.eng, dims, vals))
	return nil
}

func expandKernel[T elem.Go](c *call) error {
	target, _, err := c.r.array(elem.Of[T](), c.rank)
	if err != nil {
		return err
	}
	x, err := c.pop(elem.Of[T]())
	if err != nil {
		return err
	}
	defer x.Free()
	vals, err := kernels.Expand(x.data.([]T), x.dims, target)
	if err != nil {
		return err
	}
	c.stack.Push(newArray(c.eng, target, vals))
	return nil
}

func reshapeKernel[T elem.Go](outRank int) kernel {
	return func(c *call) error {
		dims, n, err := c.r.array(elem.Of[T](), outRank)
		if err != nil {
			return err
		}
		x, err := c.pop(elem.Of[T]())
		if err != nil {
			return err
		}
		if n != kernels.Size(x.dims) {
			x.Free()
			return errors.Errorf("cannot reshape %v into %v", x.dims, dims)
		}
		x.dims = dims
		c.stack.Push(x)
		return nil
	}
}

func flipKernel[T elem.Go](c *call) error {
	mask, err := c.r.mask(c.rank)
	if err != nil {
		return err
	}
	x, err := c.pop(elem.Of[T]())
	if err != nil {
		return err
	}
	defer x.Free()
	vals, err := kernels.Flip(x.data.([]T), x.dims, mask)
	if err != nil {
		return err
	}
	c.stack.Push(newArray(c.eng, slices.Clone(x.dims), vals))
	return nil
}

func stepKernel[T elem.Go](c *call) error {
	by, err := c.r.shape(c.rank)
	if err != nil {
		return err
	}
	x, err := c.pop(elem.Of[T]())
	if err != nil {
		return err
	}
	defer x.Free()
	vals, dims, err := kernels.Step(x.data.([]T), x.dims, by)
	if err != nil {
		return err
	}
	c.stack.Push(newArray(c.eng, dims, vals))
	return nil
}

func fillKernel[T elem.Go](c *call) error {
	dims, n, err := c.r.array(elem.Of[T](), c.rank)
	if err != nil {
		return err
	}
	val, err := readValue[T](c.r)
	if err != nil {
		return err
	}
	c.stack.Push(newArray(c.eng, dims, kernels.Fill(n, val)))
	return nil
}

func unaryKernel[T, U elem.Go](f func([]T) ([]U, error)) kernel {
	return func(c *call) error {
		x, err := c.pop(elem.Of[T]())
		if err != nil {
			return err
		}
		defer x.Free()
		vals, err := f(x.data.([]T))
		if err != nil {
			return err
		}
		c.stack.Push(newArray(c.eng, slices.Clone(x.dims), vals))
		return nil
	}
}

func binaryKernel[T, U elem.Go](f func(x, y []T) ([]U, error)) kernel {
	return func(c *call) error {
		y, err := c.pop(elem.Of[T]())
		if err != nil {
			return err
		}
		defer y.Free()
		x, err := c.pop(elem.Of[T]())
		if err != nil {
			return err
		}
		defer x.Free()
		if !slices.Equal(x.dims, y.dims) {
			return errors.Errorf("operands have different dimensions: %v and %v", x.dims, y.dims)
		}
		vals, err := f(x.data.([]T), y.data.([]T))
		if err != nil {
			return err
		}
		c.stack.Push(newArray(c.eng, slices.Clone(x.dims), vals))
		return nil
	}
}

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

package exprfile

import (
	"slices"

	"github.com/gx-org/cayley/arrays"
	"github.com/gx-org/cayley/build/elem"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// flatten returns the scalars of nested YAML lists in row-major order.
func flatten(v any, out []any) []any {
	list, ok := v.([]any)
	if !ok {
		return append(out, v)
	}
	for _, x := range list {
		out = flatten(x, out)
	}
	return out
}

func convertAll[T elem.Go](typ elem.Type, dims []int, vals []any) (arrays.View, error) {
	n := arrays.Size(dims)
	if len(vals) == 1 && n != 1 {
		vals = slices.Repeat(vals, n)
	}
	if len(vals) != n {
		return arrays.View{}, errors.Errorf("got %d values for an array of dimensions %v", len(vals), dims)
	}
	out := make([]T, n)
	for i, v := range vals {
		x, err := elem.Convert(typ, v)
		if err != nil {
			return arrays.View{}, errors.Wrapf(err, "value %d", i)
		}
		out[i] = x.(T)
	}
	return arrays.Of(dims, out), nil
}

// View returns an array given the YAML representation of its values.
// A single value is used for all the elements.
func View(typ elem.Type, dims []int, v any) (arrays.View, error) {
	if v == nil {
		return arrays.View{}, errors.Errorf("no values")
	}
	vals := flatten(v, nil)
	switch typ {
	case elem.Bool:
		return convertAll[bool](typ, dims, vals)
	case elem.U8:
		return convertAll[uint8](typ, dims, vals)
	case elem.U16:
		return convertAll[uint16](typ, dims, vals)
	case elem.U32:
		return convertAll[uint32](typ, dims, vals)
	case elem.U64:
		return convertAll[uint64](typ, dims, vals)
	case elem.I8:
		return convertAll[int8](typ, dims, vals)
	case elem.I16:
		return convertAll[int16](typ, dims, vals)
	case elem.I32:
		return convertAll[int32](typ, dims, vals)
	case elem.I64:
		return convertAll[int64](typ, dims, vals)
	case elem.F32:
		return convertAll[float32](typ, dims, vals)
	case elem.F64:
		return convertAll[float64](typ, dims, vals)
	}
	return arrays.View{}, errors.Errorf("invalid element type %s", typ)
}

// Signature of a named input.
type Signature struct {
	Name string
	Type elem.Type
	Dims []int
}

// ParseBindings decodes a YAML map from input names to values.
func ParseBindings(data []byte, sigs []Signature) (map[string]arrays.View, error) {
	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, errors.Wrapf(err, "invalid inputs")
	}
	bySig := make(map[string]Signature, len(sigs))
	for _, sig := range sigs {
		bySig[sig.Name] = sig
	}
	bindings := make(map[string]arrays.View, len(raw))
	for name, v := range raw {
		sig, ok := bySig[name]
		if !ok {
			return nil, errors.Errorf("unknown input %q", name)
		}
		view, err := View(sig.Type, sig.Dims, v)
		if err != nil {
			return nil, errors.Wrapf(err, "input %q", name)
		}
		bindings[name] = view
	}
	return bindings, nil
}

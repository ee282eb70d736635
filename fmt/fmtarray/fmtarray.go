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

// Package fmtarray formats arrays into strings.
package fmtarray

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/gx-org/cayley/build/elem"
	"github.com/pkg/errors"
)

const tab = "\t"

type printer[T elem.Go] struct {
	w       strings.Builder
	data    []T
	axes    []int
	strides []int
}

func newPrinter[T elem.Go](data []T, axes []int) (*printer[T], error) {
	p := &printer[T]{data: data, axes: axes, strides: make([]int, len(axes))}
	total := 1
	for i := len(axes) - 1; i >= 0; i-- {
		p.strides[i] = total
		total *= axes[i]
	}
	if total != len(data) {
		return nil, errors.Errorf("len(data)=%d does not match axes %v=%d", len(data), axes, total)
	}
	return p, nil
}

// Value formats a single element.
// Floats are printed without trailing zeros.
func Value[T elem.Go](x T) string {
	var s string
	switch v := any(x).(type) {
	case float32:
		s = strconv.FormatFloat(float64(v), 'f', 6, 32)
	case float64:
		s = strconv.FormatFloat(v, 'f', 10, 64)
	default:
		return fmt.Sprint(x)
	}
	if strings.ContainsRune(s, '.') {
		s = strings.TrimRight(s, "0")
		s = strings.TrimSuffix(s, ".")
	}
	return s
}

func (p *printer[T]) vector(offset int) {
	n := p.axes[len(p.axes)-1]
	vals := make([]string, n)
	for i := range vals {
		vals[i] = Value(p.data[offset+i])
	}
	p.w.WriteString("{")
	p.w.WriteString(strings.Join(vals, ", "))
	p.w.WriteString("}")
}

func (p *printer[T]) block(indent string, axis, offset int) {
	if axis == len(p.axes)-1 {
		p.vector(offset)
		return
	}
	p.w.WriteString("{\n")
	for i := 0; i < p.axes[axis]; i++ {
		p.w.WriteString(indent + tab)
		p.block(indent+tab, axis+1, offset+i*p.strides[axis])
		p.w.WriteString(",\n")
	}
	p.w.WriteString(indent + "}")
}

func (p *printer[T]) values() {
	if len(p.axes) == 0 {
		p.w.WriteString("(" + Value(p.data[0]) + ")")
		return
	}
	p.block("", 0, 0)
}

func (p *printer[T]) header() {
	for _, size := range p.axes {
		fmt.Fprintf(&p.w, "[%d]", size)
	}
	p.w.WriteString(elem.Of[T]().String())
}

// SDataPrint returns a string representation of the content of an array without the type.
func SDataPrint[T elem.Go](data []T, axes []int) string {
	p, err := newPrinter(data, axes)
	if err != nil {
		return err.Error()
	}
	p.values()
	return p.w.String()
}

// Sprint returns a string representation of an array, prefixed by its type.
func Sprint[T elem.Go](data []T, axes []int) string {
	p, err := newPrinter(data, axes)
	if err != nil {
		return err.Error()
	}
	p.header()
	p.values()
	return p.w.String()
}

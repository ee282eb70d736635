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
	"github.com/gx-org/cayley/build/elem"
	"github.com/pkg/errors"
)

// Stack of arrays on which programs are evaluated.
// Each statement of a program pushes one array.
type Stack struct {
	eng    *Engine
	arrays []*Array
}

// NewStack returns a new empty stack.
func (eng *Engine) NewStack() *Stack {
	return &Stack{eng: eng}
}

// Len returns the number of arrays on the stack.
func (s *Stack) Len() int {
	return len(s.arrays)
}

// Push an array on top of the stack. The stack takes ownership of the array.
func (s *Stack) Push(a *Array) {
	s.arrays = append(s.arrays, a)
}

// At returns the array at a given index from the bottom of the stack.
func (s *Stack) At(i int) (*Array, error) {
	if i < 0 || i >= len(s.arrays) {
		return nil, errors.Errorf("stack index %d out of range [0, %d)", i, len(s.arrays))
	}
	return s.arrays[i], nil
}

// Pop removes the array on top of the stack and returns it.
// The caller is responsible for freeing the array.
func (s *Stack) Pop() (*Array, error) {
	if len(s.arrays) == 0 {
		return nil, errors.Errorf("stack underflow")
	}
	last := len(s.arrays) - 1
	a := s.arrays[last]
	s.arrays = s.arrays[:last]
	return a, nil
}

// PopArray pops the top of the stack and checks its element type.
// The caller is responsible for freeing the array.
func PopArray[T elem.Go](s *Stack) (*Array, error) {
	a, err := s.Pop()
	if err != nil {
		return nil, err
	}
	if want := elem.Of[T](); a.typ != want {
		s.Push(a)
		return nil, errors.Errorf("top of the stack is an array of %s, not %s", a.typ, want)
	}
	return a, nil
}

// Free all the arrays left on the stack.
func (s *Stack) Free() {
	for _, a := range s.arrays {
		a.Free()
	}
	s.arrays = nil
}

func (s *Stack) pop(typ elem.Type, rank int) (*Array, error) {
	a, err := s.Pop()
	if err != nil {
		return nil, err
	}
	if a.typ != typ || a.Rank() != rank {
		a.Free()
		return nil, errors.Errorf("instruction expects an array of %s with rank %d but got %s with rank %d", typ, rank, a.typ, a.Rank())
	}
	return a, nil
}

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

package dedup_test

import (
	"testing"

	"github.com/gx-org/cayley/arrays"
	"github.com/gx-org/cayley/build/dedup"
	"github.com/gx-org/cayley/build/elem"
	"github.com/gx-org/cayley/build/expr"
)

type slotCheck struct {
	name string
	node *expr.Node
	slot int
}

func check(t *testing.T, test string, c *dedup.Cache, numInputs int, want []slotCheck, inlined ...*expr.Node) {
	t.Helper()
	if c.Len() != len(want) {
		t.Errorf("%s: got %d cached nodes but want %d", test, c.Len(), len(want))
	}
	if c.NumInputs() != numInputs {
		t.Errorf("%s: got %d inputs but want %d", test, c.NumInputs(), numInputs)
	}
	for _, w := range want {
		slot, ok := c.Slot(w.node)
		if !ok {
			t.Errorf("%s: node %s not cached", test, w.name)
			continue
		}
		if slot != w.slot {
			t.Errorf("%s: node %s has slot %d but want %d", test, w.name, slot, w.slot)
		}
		if c.Nodes()[slot] != w.node {
			t.Errorf("%s: Nodes()[%d] is not node %s", test, slot, w.name)
		}
	}
	for _, n := range inlined {
		if _, ok := c.Slot(n); ok {
			t.Errorf("%s: node %s should not be cached", test, n.Op)
		}
	}
}

func TestShared(t *testing.T) {
	a := expr.NewFill(elem.U32, []int{5}, 1)
	root := a.Add(a)
	check(t, "add(a, a)", dedup.Build(root), 0, []slotCheck{{"a", a, 0}}, root)
}

func TestInputs(t *testing.T) {
	x := expr.NewInput(arrays.Fill([]int{2}, int32(1)))
	y := expr.NewInput(arrays.Fill([]int{2}, int32(2)))
	s := x.Mul(y)
	root := s.Add(s).Add(y)
	check(t, "inputs", dedup.Build(root), 2, []slotCheck{
		{"x", x, 0},
		{"y", y, 1},
		{"s", s, 2},
	})
}

func TestRepeatedThreeTimes(t *testing.T) {
	a := expr.NewFill(elem.F32, []int{3}, 2)
	root := a.Add(a).Mul(a)
	check(t, "a used three times", dedup.Build(root), 0, []slotCheck{{"a", a, 0}})
}

func TestDetectionOrder(t *testing.T) {
	a := expr.NewFill(elem.I32, []int{4}, 1)
	b := expr.NewFill(elem.I32, []int{4}, 2)
	l := a.Add(a)
	r := b.Sub(b)
	root := l.Mul(r)
	check(t, "detection order", dedup.Build(root), 0, []slotCheck{
		{"a", a, 0},
		{"b", b, 1},
	}, l, r, root)
}

func TestStatementUsesLaterStatement(t *testing.T) {
	// q is detected after p but p is computed from q.
	q := expr.NewFill(elem.I32, []int{4}, 3)
	p := q.Neg()
	root := p.Add(p).Add(q)
	check(t, "statement order", dedup.Build(root), 0, []slotCheck{
		{"q", q, 0},
		{"p", p, 1},
	}, root)
}

func TestStructurallyIdentical(t *testing.T) {
	a := expr.NewFill(elem.U8, []int{2}, 7)
	b := expr.NewFill(elem.U8, []int{2}, 7)
	c := dedup.Build(a.Add(b))
	if c.Len() != 0 {
		t.Errorf("got %d cached nodes but want 0: identical nodes built separately are distinct", c.Len())
	}
}

func TestInputRoot(t *testing.T) {
	x := expr.NewNamed("x", elem.F64, []int{1}, arrays.View{})
	check(t, "input root", dedup.Build(x), 1, []slotCheck{{"x", x, 0}})
}

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

// Package dedup finds the nodes of an expression graph that need to be
// computed once and shared.
//
// Inputs are always cached. A node reached more than once during a
// depth-first traversal from the root is a statement: it is computed once
// and later uses refer to its slot. Every other node is inlined into the
// unique expression using it.
//
// Inputs take the lowest slots, in the order in which they are first
// reached. Statements take the following slots in the order in which they
// are detected, except that a statement is always numbered after the
// statements it uses.
package dedup

import (
	"github.com/gx-org/cayley/base/ordered"
	"github.com/gx-org/cayley/build/expr"
)

// Cache maps the shared nodes of a graph to slots.
type Cache struct {
	slots     map[*expr.Node]int
	nodes     []*expr.Node
	numInputs int
}

type builder struct {
	inputs     *ordered.Map[*expr.Node, struct{}]
	statements *ordered.Map[*expr.Node, struct{}]
	visited    map[*expr.Node]bool
}

func (b *builder) visit(n *expr.Node) {
	if n.IsInput() {
		b.inputs.Insert(n, struct{}{})
		return
	}
	if b.visited[n] {
		b.statements.Insert(n, struct{}{})
		return
	}
	b.visited[n] = true
	for _, dep := range n.Deps {
		b.visit(dep)
	}
}

// uses returns the statements referenced by the inlined subtree of a node.
func (b *builder) uses(n *expr.Node, yield func(*expr.Node)) {
	for _, dep := range n.Deps {
		if dep.IsInput() {
			continue
		}
		if _, ok := b.statements.Load(dep); ok {
			yield(dep)
			continue
		}
		b.uses(dep, yield)
	}
}

// order returns the statements such that a statement comes after all the
// statements it uses, keeping the detection order otherwise.
func (b *builder) order() []*expr.Node {
	placed := make(map[*expr.Node]bool, b.statements.Size())
	sorted := make([]*expr.Node, 0, b.statements.Size())
	var place func(*expr.Node)
	place = func(s *expr.Node) {
		if placed[s] {
			return
		}
		placed[s] = true
		b.uses(s, place)
		sorted = append(sorted, s)
	}
	for s := range b.statements.Keys() {
		place(s)
	}
	return sorted
}

// Build returns the cache of a graph given its root.
func Build(root *expr.Node) *Cache {
	b := &builder{
		inputs:     ordered.NewMap[*expr.Node, struct{}](),
		statements: ordered.NewMap[*expr.Node, struct{}](),
		visited:    make(map[*expr.Node]bool),
	}
	b.visit(root)
	c := &Cache{
		slots:     make(map[*expr.Node]int, b.inputs.Size()+b.statements.Size()),
		numInputs: b.inputs.Size(),
	}
	for n := range b.inputs.Keys() {
		c.add(n)
	}
	for _, n := range b.order() {
		c.add(n)
	}
	return c
}

func (c *Cache) add(n *expr.Node) {
	c.slots[n] = len(c.nodes)
	c.nodes = append(c.nodes, n)
}

// Slot returns the slot of a cached node.
func (c *Cache) Slot(n *expr.Node) (int, bool) {
	slot, ok := c.slots[n]
	return slot, ok
}

// Len returns the number of cached nodes.
func (c *Cache) Len() int {
	return len(c.nodes)
}

// NumInputs returns the number of cached inputs.
// Inputs occupy the slots [0, NumInputs()).
func (c *Cache) NumInputs() int {
	return c.numInputs
}

// Nodes returns the cached nodes in slot order.
func (c *Cache) Nodes() []*expr.Node {
	return c.nodes
}

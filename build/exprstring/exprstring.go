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

// Package exprstring prints expression graphs.
//
// Each shared node is printed on its own line as "xN = op(operands)",
// where N is the slot of the node. The root is printed last. A reference
// to a shared node is printed as "&xN".
package exprstring

import (
	"fmt"
	"strings"

	"github.com/gx-org/cayley/build/dedup"
	"github.com/gx-org/cayley/build/expr"
)

type printer struct {
	w     strings.Builder
	cache *dedup.Cache
}

func (p *printer) node(n *expr.Node) {
	p.w.WriteString(n.Op.String())
	p.w.WriteString("(")
	for i, dep := range n.Deps {
		if i > 0 {
			p.w.WriteString(", ")
		}
		p.operand(dep)
	}
	p.w.WriteString(")")
}

func (p *printer) operand(n *expr.Node) {
	if slot, ok := p.cache.Slot(n); ok {
		fmt.Fprintf(&p.w, "&x%d", slot)
		return
	}
	p.node(n)
}

// Stringify returns the string representation of a graph given its root.
func Stringify(root *expr.Node) string {
	p := &printer{cache: dedup.Build(root)}
	for slot, n := range p.cache.Nodes() {
		fmt.Fprintf(&p.w, "x%d = ", slot)
		p.node(n)
		p.w.WriteString("\n")
	}
	p.operand(root)
	p.w.WriteString("\n")
	return p.w.String()
}

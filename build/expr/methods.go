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

import "github.com/gx-org/cayley/build/elem"

// Add returns x+y.
func (n *Node) Add(y *Node) *Node { return NewBinary(Add, n, y) }

// Sub returns x-y.
func (n *Node) Sub(y *Node) *Node { return NewBinary(Sub, n, y) }

// Mul returns x*y.
func (n *Node) Mul(y *Node) *Node { return NewBinary(Mul, n, y) }

// Div returns x/y.
func (n *Node) Div(y *Node) *Node { return NewBinary(Div, n, y) }

// Rem returns the remainder of x/y.
func (n *Node) Rem(y *Node) *Node { return NewBinary(Rem, n, y) }

// BitAnd returns x&y.
func (n *Node) BitAnd(y *Node) *Node { return NewBinary(BitAnd, n, y) }

// BitOr returns x|y.
func (n *Node) BitOr(y *Node) *Node { return NewBinary(BitOr, n, y) }

// BitXor returns x^y.
func (n *Node) BitXor(y *Node) *Node { return NewBinary(BitXor, n, y) }

// Neg returns the bitwise complement of x.
func (n *Node) Neg() *Node { return NewUnary(Neg, n) }

// Shl returns x<<y.
func (n *Node) Shl(y *Node) *Node { return NewBinary(Shl, n, y) }

// Shr returns x>>y.
func (n *Node) Shr(y *Node) *Node { return NewBinary(Shr, n, y) }

// Gt returns x>y.
func (n *Node) Gt(y *Node) *Node { return NewBinary(Gt, n, y) }

// Lt returns x<y.
func (n *Node) Lt(y *Node) *Node { return NewBinary(Lt, n, y) }

// Ge returns x>=y.
func (n *Node) Ge(y *Node) *Node { return NewBinary(Ge, n, y) }

// Le returns x<=y.
func (n *Node) Le(y *Node) *Node { return NewBinary(Le, n, y) }

// Eq returns x==y.
func (n *Node) Eq(y *Node) *Node { return NewBinary(Eq, n, y) }

// Ne returns x!=y.
func (n *Node) Ne(y *Node) *Node { return NewBinary(Ne, n, y) }

// Not returns !x.
func (n *Node) Not() *Node { return NewUnary(Not, n) }

// And returns x&&y.
func (n *Node) And(y *Node) *Node { return NewBinary(And, n, y) }

// Or returns x||y.
func (n *Node) Or(y *Node) *Node { return NewBinary(Or, n, y) }

// Xor returns x!=y on booleans.
func (n *Node) Xor(y *Node) *Node { return NewBinary(Xor, n, y) }

// Max returns the element-wise maximum of x and y.
func (n *Node) Max(y *Node) *Node { return NewBinary(Max, n, y) }

// Min returns the element-wise minimum of x and y.
func (n *Node) Min(y *Node) *Node { return NewBinary(Min, n, y) }

// Cast converts the elements of x to another type.
func (n *Node) Cast(to elem.Type) *Node { return NewCast(n, to) }

// Slice selects a region of x.
func (n *Node) Slice(rngs ...Interval) *Node { return NewSlice(n, rngs) }

// Merge writes src into a region of x.
func (n *Node) Merge(src *Node, rngs ...Interval) *Node { return NewMerge(n, src, rngs) }

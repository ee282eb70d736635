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

// Package ordered provides maps remembering the insertion order of their keys.
package ordered

import "iter"

// Map associates values with keys. Keys are iterated in the order in which
// they have been first inserted and each key has a stable position.
type Map[K comparable, V any] struct {
	keys []K
	pos  map[K]int
	vals []V
}

// NewMap returns a new empty ordered map.
func NewMap[K comparable, V any]() *Map[K, V] {
	return &Map[K, V]{pos: make(map[K]int)}
}

// Store sets the value of a key. A new key is appended at the end.
func (m *Map[K, V]) Store(k K, v V) {
	if i, ok := m.pos[k]; ok {
		m.vals[i] = v
		return
	}
	m.append(k, v)
}

// Insert stores a key only if it is absent.
// It returns the position of the key and true if the key has been inserted.
func (m *Map[K, V]) Insert(k K, v V) (int, bool) {
	if i, ok := m.pos[k]; ok {
		return i, false
	}
	return m.append(k, v), true
}

func (m *Map[K, V]) append(k K, v V) int {
	i := len(m.keys)
	m.pos[k] = i
	m.keys = append(m.keys, k)
	m.vals = append(m.vals, v)
	return i
}

// Load returns the value of a key.
func (m *Map[K, V]) Load(k K) (V, bool) {
	i, ok := m.pos[k]
	if !ok {
		var zero V
		return zero, false
	}
	return m.vals[i], true
}

// Index returns the insertion position of a key.
func (m *Map[K, V]) Index(k K) (int, bool) {
	i, ok := m.pos[k]
	return i, ok
}

// At returns the key and value at a given position.
func (m *Map[K, V]) At(i int) (K, V) {
	return m.keys[i], m.vals[i]
}

// Iter iterates over the key,value pairs in insertion order.
func (m *Map[K, V]) Iter() iter.Seq2[K, V] {
	return func(yield func(K, V) bool) {
		for i, k := range m.keys {
			if !yield(k, m.vals[i]) {
				return
			}
		}
	}
}

// Keys iterates over the keys in insertion order.
func (m *Map[K, V]) Keys() iter.Seq[K] {
	return func(yield func(K) bool) {
		for _, k := range m.keys {
			if !yield(k) {
				return
			}
		}
	}
}

// Values iterates over the values in insertion order.
func (m *Map[K, V]) Values() iter.Seq[V] {
	return func(yield func(V) bool) {
		for _, v := range m.vals {
			if !yield(v) {
				return
			}
		}
	}
}

// Clone returns a shallow copy of the map.
func (m *Map[K, V]) Clone() *Map[K, V] {
	r := NewMap[K, V]()
	for k, v := range m.Iter() {
		r.append(k, v)
	}
	return r
}

// Size returns the number of keys in the map.
func (m *Map[K, V]) Size() int {
	return len(m.keys)
}

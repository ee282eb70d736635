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

// Package bytebuf provides a growable append-only buffer with little-endian writers.
package bytebuf

import (
	"encoding/binary"
	"fmt"
	"math"
)

const minCapacity = 64

// Buffer is an append-only byte buffer.
// The capacity doubles each time a write overflows the buffer.
type Buffer struct {
	data []byte
	size int
}

// New returns a buffer with at least the given initial capacity.
func New(capacity int) *Buffer {
	if capacity < minCapacity {
		capacity = minCapacity
	}
	return &Buffer{data: make([]byte, capacity)}
}

// Size returns the number of bytes written in the buffer.
func (b *Buffer) Size() int {
	return b.size
}

// Capacity returns the number of bytes the buffer can hold before growing.
func (b *Buffer) Capacity() int {
	return len(b.data)
}

func (b *Buffer) grow(n int) []byte {
	if b.data == nil {
		b.data = make([]byte, minCapacity)
	}
	need := b.size + n
	if need > len(b.data) {
		capacity := len(b.data)
		for capacity < need {
			capacity *= 2
		}
		data := make([]byte, capacity)
		copy(data, b.data[:b.size])
		b.data = data
	}
	dst := b.data[b.size:need]
	b.size = need
	return dst
}

// WriteBool writes a boolean as a single byte.
func (b *Buffer) WriteBool(v bool) {
	var x uint8
	if v {
		x = 1
	}
	b.WriteU8(x)
}

// WriteU8 writes an unsigned 8-bit integer.
func (b *Buffer) WriteU8(v uint8) {
	b.grow(1)[0] = v
}

// WriteU16 writes an unsigned 16-bit integer.
func (b *Buffer) WriteU16(v uint16) {
	binary.LittleEndian.PutUint16(b.grow(2), v)
}

// WriteU32 writes an unsigned 32-bit integer.
func (b *Buffer) WriteU32(v uint32) {
	binary.LittleEndian.PutUint32(b.grow(4), v)
}

// WriteU64 writes an unsigned 64-bit integer.
func (b *Buffer) WriteU64(v uint64) {
	binary.LittleEndian.PutUint64(b.grow(8), v)
}

// WriteI8 writes a signed 8-bit integer.
func (b *Buffer) WriteI8(v int8) {
	b.WriteU8(uint8(v))
}

// WriteI16 writes a signed 16-bit integer.
func (b *Buffer) WriteI16(v int16) {
	b.WriteU16(uint16(v))
}

// WriteI32 writes a signed 32-bit integer.
func (b *Buffer) WriteI32(v int32) {
	b.WriteU32(uint32(v))
}

// WriteI64 writes a signed 64-bit integer.
func (b *Buffer) WriteI64(v int64) {
	b.WriteU64(uint64(v))
}

// WriteF32 writes a 32-bit float.
func (b *Buffer) WriteF32(v float32) {
	b.WriteU32(math.Float32bits(v))
}

// WriteF64 writes a 64-bit float.
func (b *Buffer) WriteF64(v float64) {
	b.WriteU64(math.Float64bits(v))
}

// WriteBytes appends a raw byte range.
func (b *Buffer) WriteBytes(v []byte) {
	copy(b.grow(len(v)), v)
}

// Bytes returns the written bytes.
// The slice aliases the buffer storage until the next write.
func (b *Buffer) Bytes() []byte {
	return b.data[:b.size]
}

// CopyTo copies the content of the buffer into dst.
// It panics if dst is not exactly the size of the buffer.
func (b *Buffer) CopyTo(dst []byte) {
	if len(dst) != b.size {
		panic(fmt.Sprintf("bytebuf: cannot copy %d bytes into a destination of %d bytes", b.size, len(dst)))
	}
	copy(dst, b.data[:b.size])
}

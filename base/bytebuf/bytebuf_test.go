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

package bytebuf_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/gx-org/cayley/base/bytebuf"
)

func TestLittleEndianWriters(t *testing.T) {
	tests := []struct {
		write func(*bytebuf.Buffer)
		want  []byte
	}{
		{
			write: func(b *bytebuf.Buffer) { b.WriteBool(true) },
			want:  []byte{1},
		},
		{
			write: func(b *bytebuf.Buffer) { b.WriteBool(false) },
			want:  []byte{0},
		},
		{
			write: func(b *bytebuf.Buffer) { b.WriteU16(0x0102) },
			want:  []byte{0x02, 0x01},
		},
		{
			write: func(b *bytebuf.Buffer) { b.WriteU32(0x01020304) },
			want:  []byte{0x04, 0x03, 0x02, 0x01},
		},
		{
			write: func(b *bytebuf.Buffer) { b.WriteI8(-1) },
			want:  []byte{0xff},
		},
		{
			write: func(b *bytebuf.Buffer) { b.WriteI16(-2) },
			want:  []byte{0xfe, 0xff},
		},
		{
			write: func(b *bytebuf.Buffer) { b.WriteI64(-1) },
			want:  []byte{0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff},
		},
		{
			write: func(b *bytebuf.Buffer) { b.WriteU64(1) },
			want:  []byte{1, 0, 0, 0, 0, 0, 0, 0},
		},
		{
			write: func(b *bytebuf.Buffer) { b.WriteF32(1) },
			want:  []byte{0x00, 0x00, 0x80, 0x3f},
		},
		{
			write: func(b *bytebuf.Buffer) { b.WriteF64(2) },
			want:  []byte{0, 0, 0, 0, 0, 0, 0, 0x40},
		},
		{
			write: func(b *bytebuf.Buffer) { b.WriteBytes([]byte{7, 8, 9}) },
			want:  []byte{7, 8, 9},
		},
	}
	for i, test := range tests {
		buf := bytebuf.New(0)
		test.write(buf)
		if diff := cmp.Diff(test.want, buf.Bytes()); diff != "" {
			t.Errorf("test %d: unexpected bytes (-want +got):\n%s", i, diff)
		}
	}
}

func TestGrowDoublesCapacity(t *testing.T) {
	buf := bytebuf.New(0)
	start := buf.Capacity()
	for i := 0; i <= start; i++ {
		buf.WriteU8(uint8(i))
	}
	if got, want := buf.Capacity(), 2*start; got != want {
		t.Errorf("capacity is %d but want %d", got, want)
	}
	if got, want := buf.Size(), start+1; got != want {
		t.Errorf("size is %d but want %d", got, want)
	}
	for i, b := range buf.Bytes() {
		if b != uint8(i) {
			t.Fatalf("byte %d is %d after growing", i, b)
		}
	}
}

func TestCopyTo(t *testing.T) {
	buf := bytebuf.New(0)
	buf.WriteU32(42)
	dst := make([]byte, 4)
	buf.CopyTo(dst)
	if diff := cmp.Diff([]byte{42, 0, 0, 0}, dst); diff != "" {
		t.Errorf("unexpected copy (-want +got):\n%s", diff)
	}
}

func TestCopyToWrongSize(t *testing.T) {
	for _, size := range []int{3, 5} {
		func() {
			defer func() {
				if recover() == nil {
					t.Errorf("copying 4 bytes into %d bytes did not panic", size)
				}
			}()
			buf := bytebuf.New(0)
			buf.WriteU32(42)
			buf.CopyTo(make([]byte, size))
		}()
	}
}

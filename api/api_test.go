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

package api_test

import (
	"testing"

	"github.com/gx-org/cayley/api"
	"github.com/gx-org/cayley/arrays"
	"github.com/gx-org/cayley/build/elem"
	"github.com/gx-org/cayley/build/expr"
	"github.com/gx-org/cayley/build/generators"
	"github.com/gx-org/cayley/golang/engine"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func newRuntime(t *testing.T, opts ...api.Option) (*api.Runtime, *engine.Engine) {
	t.Helper()
	eng := engine.New()
	opts = append([]api.Option{api.WithEngine(eng), api.WithLogger(zaptest.NewLogger(t))}, opts...)
	rtm, err := api.NewRuntime(opts...)
	require.NoError(t, err)
	return rtm, eng
}

func TestEval(t *testing.T) {
	rtm, eng := newRuntime(t, api.WithVerify(true))
	x := expr.NewNamed("x", elem.I64, []int{3}, arrays.Of([]int{3}, []int64{1, 2, 3}))
	root := x.Mul(x).Sub(expr.NewFill(elem.I64, []int{3}, 1))

	got, err := rtm.Eval(root, nil)
	require.NoError(t, err)
	vals, err := arrays.Values[int64](got)
	require.NoError(t, err)
	assert.Equal(t, []int64{0, 3, 8}, vals)

	got, err = rtm.Eval(root, map[string]arrays.View{"x": arrays.Of([]int{3}, []int64{4, 5, 6})})
	require.NoError(t, err)
	vals, err = arrays.Values[int64](got)
	require.NoError(t, err)
	assert.Equal(t, []int64{15, 24, 35}, vals)

	assert.Equal(t, 1, rtm.NumCached())
	assert.Equal(t, 0, eng.Live())
}

func TestCompileCache(t *testing.T) {
	rtm, _ := newRuntime(t, api.WithCacheSize(1))
	a := expr.NewFill(elem.U8, []int{2}, 1).Add(expr.NewFill(elem.U8, []int{2}, 2))
	b := expr.NewFill(elem.U8, []int{2}, 1).Add(expr.NewFill(elem.U8, []int{2}, 2))

	first, err := rtm.Compile(a)
	require.NoError(t, err)
	again, err := rtm.Compile(a)
	require.NoError(t, err)
	assert.Same(t, first, again)

	other, err := rtm.Compile(b)
	require.NoError(t, err)
	assert.NotSame(t, first, other)
	assert.Equal(t, first.Fingerprint(), other.Fingerprint())
	assert.Equal(t, 1, rtm.NumCached())

	rtm.Forget(b)
	assert.Equal(t, 0, rtm.NumCached())
}

func TestCompileError(t *testing.T) {
	gens := generators.Default()
	gens[expr.Fill] = nil
	rtm, _ := newRuntime(t, api.WithGenerators(gens))
	_, err := rtm.Eval(expr.NewFill(elem.F64, []int{1}, 0), nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no generator registered for fill")
}

func TestEvalAll(t *testing.T) {
	rtm, eng := newRuntime(t)
	one := expr.NewFill(elem.I32, []int{2}, 1)
	zero := expr.NewFill(elem.I32, []int{2}, 0)
	views, err := rtm.EvalAll([]*expr.Node{one.Add(one), one.Div(zero), one.Rem(zero)}, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "root 1")
	assert.Contains(t, err.Error(), "root 2")
	vals, err := arrays.Values[int32](views[0])
	require.NoError(t, err)
	assert.Equal(t, []int32{2, 2}, vals)
	assert.True(t, views[1].IsZero())
	assert.Equal(t, 0, eng.Live())
}

func TestMaterialize(t *testing.T) {
	rtm, _ := newRuntime(t)
	root := expr.NewFill(elem.F32, []int{2, 2}, 1.5).Mul(expr.NewFill(elem.F32, []int{2, 2}, 2))
	in, err := rtm.Materialize(root)
	require.NoError(t, err)
	require.True(t, in.IsInput())
	assert.True(t, in.Data.Equal(arrays.Fill([]int{2, 2}, float32(3))), "got %v", in.Data)

	same, err := rtm.Materialize(in)
	require.NoError(t, err)
	assert.Same(t, in, same)

	_, err = rtm.Materialize(expr.NewNamed("x", elem.F32, []int{2}, arrays.View{}))
	assert.Error(t, err)
}

func TestInvalidCacheSize(t *testing.T) {
	_, err := api.NewRuntime(api.WithEngine(engine.New()), api.WithCacheSize(0))
	assert.Error(t, err)
}

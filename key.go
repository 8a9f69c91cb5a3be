// Copyright (c) 2017 Uber Technologies, Inc.
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in
// all copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN
// THE SOFTWARE.

package replicator

import (
	"reflect"

	"github.com/contraption/replicator/internal/repreflect"
)

// TypeKey returns the identifier conventionally used for values of type t.
// Named types are qualified with their full import path.
//
//	TypeKey(reflect.TypeOf(&bytes.Buffer{}))  // "*bytes.Buffer"
func TypeKey(t reflect.Type) string {
	return repreflect.TypeKey(t)
}

// Key returns the identifier conventionally used for T. Use it with
// interface types to bind an implementation under its contract:
//
//	r.Bind(replicator.Key[io.Writer](), os.Stdout, replicator.Shared())
func Key[T any]() string {
	return TypeKey(reflect.TypeOf((*T)(nil)).Elem())
}

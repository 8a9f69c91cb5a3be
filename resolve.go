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

import "github.com/pkg/errors"

// Resolve is Get with the result asserted to T.
//
//	clock, err := replicator.Resolve[*Clock](r, "clock")
func Resolve[T any](r *Registry, id string) (T, error) {
	return ResolveWith[T](r, id, nil, false)
}

// ResolveWith is GetWith with the result asserted to T.
func ResolveWith[T any](r *Registry, id string, args Args, fresh bool) (T, error) {
	v, err := r.GetWith(id, args, fresh)
	return as[T](id, v, err)
}

// MakeAs resolves Key[T]() through Make and asserts the result to T.
func MakeAs[T any](r *Registry) (T, error) {
	id := Key[T]()
	v, err := r.Make(id)
	return as[T](id, v, err)
}

// MustResolve is like Resolve but panics on failure. Use it in factories
// and at startup, where a missing dependency is a programming error.
func MustResolve[T any](r *Registry, id string) T {
	t, err := Resolve[T](r, id)
	if err != nil {
		panic(err)
	}
	return t
}

func as[T any](id string, v interface{}, err error) (T, error) {
	var zero T
	if err != nil {
		return zero, err
	}
	if v == nil {
		return zero, nil
	}

	t, ok := v.(T)
	if !ok {
		return zero, &ResolutionError{
			ID:  id,
			Err: errors.Errorf("resolved to %T, not %v", v, Key[T]()),
		}
	}
	return t, nil
}

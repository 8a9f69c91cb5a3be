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

	"github.com/pkg/errors"
)

// resolveParams produces call arguments for params, in declaration order.
// target names the function being called, for error messages.
func (r *Registry) resolveParams(target string, params []param, args Args) ([]reflect.Value, error) {
	in := make([]reflect.Value, len(params))
	for i, p := range params {
		v, err := r.resolveParam(target, p, args)
		if err != nil {
			return nil, err
		}
		in[i] = v
	}
	return in, nil
}

// resolveParam applies, in order: a supplied argument, the registry, the
// declared default, nullability.
func (r *Registry) resolveParam(target string, p param, args Args) (reflect.Value, error) {
	// A nil argument counts as not supplied.
	if arg, ok := args[p.name]; ok && arg != nil {
		av := reflect.ValueOf(arg)
		if p.typed && !av.Type().AssignableTo(p.typ) {
			return reflect.Value{}, &ArgumentTypeMismatchError{Param: p.name, Want: p.typ, Got: av.Type()}
		}
		return av, nil
	}

	if p.typed && r.resolvable(p.key) {
		v, err := r.resolve(p.key, nil, false, true)
		if err != nil {
			return reflect.Value{}, errors.Wrapf(err, "argument %q of %v", p.name, target)
		}
		return valueOf(p, v)
	}

	if p.hasDefault {
		return valueOf(p, p.def)
	}

	if p.nullable {
		return reflect.Zero(p.typ), nil
	}

	return reflect.Value{}, &UnresolvableArgumentError{Param: p.name, Target: target}
}

// resolvable reports whether key is bound or names a defined class.
// Anything else, builtin types included, falls through to the defaults.
func (r *Registry) resolvable(key string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if _, ok := r.entries[key]; ok {
		return true
	}
	_, ok := r.classes[key]
	return ok
}

func valueOf(p param, v interface{}) (reflect.Value, error) {
	if v == nil {
		return reflect.Zero(p.typ), nil
	}
	rv := reflect.ValueOf(v)
	if !rv.Type().AssignableTo(p.typ) {
		return reflect.Value{}, &ArgumentTypeMismatchError{Param: p.name, Want: p.typ, Got: rv.Type()}
	}
	return rv, nil
}

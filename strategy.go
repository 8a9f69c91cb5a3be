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
	"fmt"
	"reflect"

	"github.com/contraption/replicator/internal/repreflect"
	"github.com/pkg/errors"
)

// strategy is a recipe for producing an instance. Cache slots are guarded
// by Registry.mu; resolve runs with the registry's build lock held.
type strategy interface {
	kind() string
	resolve(r *Registry, id string, args Args, fresh bool) (interface{}, error)

	slot() *cacheSlot
}

type cacheSlot struct {
	shared   bool
	resolved bool
	value    interface{}
}

func (c *cacheSlot) slot() *cacheSlot { return c }

func (c *cacheSlot) load() (interface{}, bool) {
	if !c.shared || !c.resolved {
		return nil, false
	}
	return c.value, true
}

func (c *cacheSlot) store(v interface{}) {
	c.resolved = true
	c.value = v
}

// classify turns a definition into a strategy. Order matters: a function
// must not be mistaken for an instance, and descriptors are recipes rather
// than values.
func (r *Registry) classify(def interface{}) (strategy, error) {
	switch d := def.(type) {
	case nil:
		return nil, errors.New("definition must not be nil")
	case *Method:
		parent, err := r.classify(d.receiver)
		if err != nil {
			return nil, errors.Wrap(err, "cannot classify method receiver")
		}
		if obj, ok := parent.(*objectStrategy); ok {
			// Methods run on the receiver itself, never on a copy.
			obj.shared = true
			obj.store(obj.obj)
		}
		return &methodStrategy{method: d, parent: parent}, nil
	case *Class:
		return &classStrategy{class: d}, nil
	case literal:
		if d.v == nil {
			return nil, errors.New("value must not be nil")
		}
		return newObjectStrategy(d.v), nil
	case string:
		r.mu.RLock()
		class, isClass := r.classes[d]
		_, isBound := r.entries[d]
		r.mu.RUnlock()

		switch {
		case isClass:
			return &classStrategy{class: class}, nil
		case isBound:
			return &aliasStrategy{target: d}, nil
		}
		return nil, errors.Errorf("%q is neither a defined class nor a bound identifier", d)
	}

	if reflect.TypeOf(def).Kind() == reflect.Func {
		return newFactoryStrategy(def)
	}
	return newObjectStrategy(def), nil
}

// Value marks v as a pre-built instance even when it is a string or a
// function, which Bind would otherwise classify differently.
//
//	r.Bind("greeting", replicator.Value("hello"))
func Value(v interface{}) interface{} {
	return literal{v: v}
}

type literal struct{ v interface{} }

// objectStrategy hands out a pre-built instance: the instance itself when
// shared, a copy otherwise.
type objectStrategy struct {
	cacheSlot

	obj interface{}
}

func newObjectStrategy(obj interface{}) *objectStrategy {
	return &objectStrategy{obj: obj}
}

func (*objectStrategy) kind() string { return "object" }

func (s *objectStrategy) resolve(*Registry, string, Args, bool) (interface{}, error) {
	return duplicate(s.obj), nil
}

// factoryStrategy calls a function that takes nothing, or the caller's Args.
type factoryStrategy struct {
	cacheSlot

	fn        reflect.Value
	takesArgs bool
	results   results
}

func newFactoryStrategy(fn interface{}) (*factoryStrategy, error) {
	ftype := reflect.TypeOf(fn)

	var takesArgs bool
	switch {
	case ftype.NumIn() == 0:
	case ftype.NumIn() == 1 && ftype.In(0) == _argsType && !ftype.IsVariadic():
		takesArgs = true
	default:
		return nil, errors.Errorf(
			"factory %v must take no arguments or a single replicator.Args; describe constructors with NewClass",
			repreflect.FuncName(fn))
	}

	rs, err := newResults(ftype)
	if err != nil {
		return nil, err
	}

	return &factoryStrategy{
		fn:        reflect.ValueOf(fn),
		takesArgs: takesArgs,
		results:   rs,
	}, nil
}

func (*factoryStrategy) kind() string { return "factory" }

func (s *factoryStrategy) resolve(_ *Registry, _ string, args Args, _ bool) (interface{}, error) {
	var in []reflect.Value
	if s.takesArgs {
		if args == nil {
			args = Args{}
		}
		in = []reflect.Value{reflect.ValueOf(args)}
	}
	return s.results.call(s.fn, in)
}

// classStrategy resolves a constructor's parameters and calls it.
type classStrategy struct {
	cacheSlot

	class *Class
}

func (*classStrategy) kind() string { return "class" }

func (s *classStrategy) resolve(r *Registry, _ string, args Args, _ bool) (interface{}, error) {
	in, err := r.resolveParams(s.class.name, s.class.params, args)
	if err != nil {
		return nil, err
	}
	return s.class.results.call(s.class.ctor, in)
}

// methodStrategy resolves its parent, then calls a bound function on it.
type methodStrategy struct {
	cacheSlot

	method *Method
	parent strategy
}

func (*methodStrategy) kind() string { return "method" }

func (s *methodStrategy) resolve(r *Registry, id string, args Args, fresh bool) (interface{}, error) {
	// Methods on a bound object always run against the stored instance.
	recvFresh := fresh
	if _, ok := s.parent.(*objectStrategy); ok {
		recvFresh = false
	}
	recv, err := r.run(id, s.parent, args, recvFresh)
	if err != nil {
		return nil, errors.Wrap(err, "cannot resolve method receiver")
	}
	if isNil(recv) {
		return nil, errors.Errorf("method receiver for %v resolved to nil", s.method)
	}

	rv := reflect.ValueOf(recv)
	if !rv.Type().AssignableTo(s.method.recv) {
		return nil, errors.Errorf("method receiver is %v, want %v", rv.Type(), s.method.recv)
	}

	in, err := r.resolveParams(repreflect.FuncName(s.method.fn.Interface()), s.method.params, args)
	if err != nil {
		return nil, err
	}
	return s.method.results.call(s.method.fn, append([]reflect.Value{rv}, in...))
}

// aliasStrategy defers to another identifier, honoring that binding's own
// sharing.
type aliasStrategy struct {
	cacheSlot

	target string
}

func (*aliasStrategy) kind() string { return "alias" }

func (s *aliasStrategy) resolve(r *Registry, _ string, args Args, fresh bool) (interface{}, error) {
	return r.resolve(s.target, args, fresh, false)
}

func isNil(v interface{}) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Ptr, reflect.Interface, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan:
		return rv.IsNil()
	}
	return false
}

func (s *objectStrategy) String() string {
	return fmt.Sprintf("(object) %T", s.obj)
}

func (s *factoryStrategy) String() string {
	return fmt.Sprintf("(factory) %v", repreflect.FuncName(s.fn.Interface()))
}

func (s *classStrategy) String() string {
	return fmt.Sprintf("(%v)", s.class)
}

func (s *methodStrategy) String() string {
	return fmt.Sprintf("(%v)", s.method)
}

func (s *aliasStrategy) String() string {
	return fmt.Sprintf("(alias) %v", s.target)
}

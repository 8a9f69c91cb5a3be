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

var (
	_argsType = reflect.TypeOf(Args(nil))
	_anyType  = reflect.TypeOf((*interface{})(nil)).Elem()
)

// Args holds caller-supplied arguments keyed by parameter name.
type Args map[string]interface{}

// Param describes one argument of a constructor or method. Go keeps no
// parameter names at runtime, so they are declared here, in order; the
// type of each parameter comes from the function signature.
type Param struct {
	name       string
	def        interface{}
	hasDefault bool
	nullable   bool
}

// ParamOption configures a Param.
type ParamOption func(*Param)

// Arg declares a parameter named name.
func Arg(name string, opts ...ParamOption) Param {
	p := Param{name: name}
	for _, opt := range opts {
		opt(&p)
	}
	return p
}

// Default is used when no argument is supplied and the parameter's type
// cannot be resolved from the registry.
func Default(v interface{}) ParamOption {
	return func(p *Param) {
		p.def = v
		p.hasDefault = true
	}
}

// Nullable lets an otherwise unresolvable parameter fall back to its zero
// value.
func Nullable() ParamOption {
	return func(p *Param) {
		p.nullable = true
	}
}

// Name returns the parameter name.
func (p Param) Name() string { return p.name }

// param is a Param bound to its position in a signature.
type param struct {
	Param

	typ   reflect.Type
	key   string
	typed bool
}

func bindParams(fnType reflect.Type, offset int, params []Param) ([]param, error) {
	if fnType.IsVariadic() {
		return nil, errors.Errorf("%v is variadic", fnType)
	}
	if want := fnType.NumIn() - offset; want != len(params) {
		return nil, errors.Errorf("%v takes %d parameters, %d declared", fnType, want, len(params))
	}

	seen := make(map[string]struct{}, len(params))
	bound := make([]param, len(params))
	for i, p := range params {
		if p.name == "" {
			return nil, errors.Errorf("parameter %d of %v has no name", i, fnType)
		}
		if _, dup := seen[p.name]; dup {
			return nil, errors.Errorf("parameter %q of %v declared twice", p.name, fnType)
		}
		seen[p.name] = struct{}{}

		t := fnType.In(i + offset)
		if p.hasDefault && p.def != nil && !reflect.TypeOf(p.def).AssignableTo(t) {
			return nil, errors.Errorf("default for parameter %q is %T, want %v", p.name, p.def, t)
		}
		bound[i] = param{
			Param: p,
			typ:   t,
			key:   TypeKey(t),
			typed: t != _anyType,
		}
	}
	return bound, nil
}

// results records where a function puts its value and its error.
type results struct {
	value int
	err   int
}

func newResults(fnType reflect.Type) (results, error) {
	switch fnType.NumOut() {
	case 0:
		return results{value: -1, err: -1}, nil
	case 1:
		if repreflect.IsError(fnType.Out(0)) {
			return results{value: -1, err: 0}, nil
		}
		return results{value: 0, err: -1}, nil
	case 2:
		if !repreflect.IsError(fnType.Out(1)) {
			return results{}, errors.Errorf("second result of %v must be error", fnType)
		}
		return results{value: 0, err: 1}, nil
	default:
		return results{}, errors.Errorf("%v returns more than two values", fnType)
	}
}

// call invokes fn, turning a returned error or a panic into err.
func (rs results) call(fn reflect.Value, in []reflect.Value) (v interface{}, err error) {
	defer func() {
		if p := recover(); p != nil {
			err = errors.Errorf("panic: %q in func: %v", fmt.Sprint(p), repreflect.FuncName(fn.Interface()))
		}
	}()

	out := fn.Call(in)
	if rs.err >= 0 {
		if e := out[rs.err]; !e.IsNil() {
			return nil, e.Interface().(error)
		}
	}
	if rs.value < 0 {
		return nil, nil
	}
	return out[rs.value].Interface(), nil
}

// Class describes a constructible type: a constructor function plus the
// names and fallbacks of its parameters.
type Class struct {
	name    string
	ctor    reflect.Value
	out     reflect.Type
	params  []param
	results results
}

// NewClass describes the type built by constructor, which must return T or
// (T, error). Exactly one Param is declared per constructor parameter.
//
//	replicator.NewClass(NewServer,
//		replicator.Arg("logger"),
//		replicator.Arg("port", replicator.Default(8080)),
//	)
func NewClass(constructor interface{}, params ...Param) (*Class, error) {
	ctype := reflect.TypeOf(constructor)
	if ctype == nil || ctype.Kind() != reflect.Func {
		return nil, errors.Errorf("constructor must be a function, got %T", constructor)
	}

	rs, err := newResults(ctype)
	if err != nil {
		return nil, err
	}
	if rs.value < 0 {
		return nil, errors.Errorf("constructor %v must return a value", ctype)
	}

	bound, err := bindParams(ctype, 0, params)
	if err != nil {
		return nil, err
	}

	out := ctype.Out(rs.value)
	return &Class{
		name:    TypeKey(out),
		ctor:    reflect.ValueOf(constructor),
		out:     out,
		params:  bound,
		results: rs,
	}, nil
}

// MustClass is like NewClass but panics if the descriptor is invalid. It
// is meant for package-level declarations.
func MustClass(constructor interface{}, params ...Param) *Class {
	c, err := NewClass(constructor, params...)
	if err != nil {
		panic(err)
	}
	return c
}

// Named returns a copy of c reachable under name instead of its type key.
func (c *Class) Named(name string) *Class {
	cp := *c
	cp.name = name
	return &cp
}

// Name returns the name c is defined under.
func (c *Class) Name() string { return c.name }

// Type returns the type of the values c constructs.
func (c *Class) Type() reflect.Type { return c.out }

func (c *Class) String() string {
	return fmt.Sprintf("class %v <= %v", c.name, repreflect.FuncName(c.ctor.Interface()))
}

// Method describes a call on a resolved receiver. The function is bound
// when the descriptor is built: it takes the receiver as its first
// argument, which is exactly the shape of a method expression.
type Method struct {
	receiver interface{}
	fn       reflect.Value
	recv     reflect.Type
	params   []param
	results  results
}

// NewMethod describes calling fn on the value receiver resolves to.
// receiver is any definition Bind accepts. One Param is declared per
// argument of fn after the receiver.
//
//	replicator.NewMethod("*github.com/acme/app.UserRepo", (*UserRepo).Admin,
//		replicator.Arg("tenant"),
//	)
func NewMethod(receiver interface{}, fn interface{}, params ...Param) (*Method, error) {
	if receiver == nil {
		return nil, errors.New("method receiver must not be nil")
	}

	ftype := reflect.TypeOf(fn)
	if ftype == nil || ftype.Kind() != reflect.Func {
		return nil, errors.Errorf("method must be a function, got %T", fn)
	}
	if ftype.NumIn() == 0 {
		return nil, errors.Errorf("method %v must take the receiver as its first argument", ftype)
	}

	rs, err := newResults(ftype)
	if err != nil {
		return nil, err
	}

	bound, err := bindParams(ftype, 1, params)
	if err != nil {
		return nil, err
	}

	return &Method{
		receiver: receiver,
		fn:       reflect.ValueOf(fn),
		recv:     ftype.In(0),
		params:   bound,
		results:  rs,
	}, nil
}

// MustMethod is like NewMethod but panics if the descriptor is invalid.
func MustMethod(receiver interface{}, fn interface{}, params ...Param) *Method {
	m, err := NewMethod(receiver, fn, params...)
	if err != nil {
		panic(err)
	}
	return m
}

func (m *Method) String() string {
	return fmt.Sprintf("method %v on %v", repreflect.FuncName(m.fn.Interface()), m.recv)
}

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

package repreflect

import (
	"fmt"
	"reflect"
	"runtime"
	"strings"
)

var _errType = reflect.TypeOf((*error)(nil)).Elem()

// ReturnTypes takes a func and returns a slice of string'd types, skipping
// a trailing error.
func ReturnTypes(t interface{}) []string {
	rtypes := []string{}
	fn := reflect.TypeOf(t)
	if fn == nil || fn.Kind() != reflect.Func {
		return rtypes
	}

	for i := 0; i < fn.NumOut(); i++ {
		if !IsError(fn.Out(i)) {
			rtypes = append(rtypes, TypeKey(fn.Out(i)))
		}
	}

	return rtypes
}

// IsError reports whether t is the error interface.
func IsError(t reflect.Type) bool {
	return t == _errType
}

// Caller returns the formatted calling func name
func Caller() string {
	// Ascend at most 8 frames looking for a caller outside replicator.
	pcs := make([]uintptr, 8)

	// Don't include this frame.
	n := runtime.Callers(1, pcs)
	if n == 0 {
		return "n/a"
	}

	frames := runtime.CallersFrames(pcs[:n])
	for f, more := frames.Next(); ; f, more = frames.Next() {
		if !shouldIgnoreFrame(f) {
			return f.Function
		}
		if !more {
			break
		}
	}
	return "n/a"
}

// FuncName returns a funcs formatted name
func FuncName(fn interface{}) string {
	fnV := reflect.ValueOf(fn)
	if fnV.Kind() != reflect.Func {
		return "n/a"
	}

	fnName := runtime.FuncForPC(fnV.Pointer()).Name()
	return fmt.Sprintf("%s()", fnName)
}

// TypeKey returns the canonical identifier for t. Named types are qualified
// with their full import path, so two types with the same name in different
// packages never collide.
//
//	TypeKey(reflect.TypeOf(&bytes.Buffer{}))  // "*bytes.Buffer"
//	TypeKey(reflect.TypeOf(acme.Clock{}))     // "github.com/acme/app.Clock"
func TypeKey(t reflect.Type) string {
	if t == nil {
		return "<nil>"
	}

	switch t.Kind() {
	case reflect.Ptr:
		return "*" + TypeKey(t.Elem())
	case reflect.Slice:
		if t.Name() == "" {
			return "[]" + TypeKey(t.Elem())
		}
	case reflect.Map:
		if t.Name() == "" {
			return "map[" + TypeKey(t.Key()) + "]" + TypeKey(t.Elem())
		}
	}

	if t.Name() == "" || t.PkgPath() == "" {
		return t.String()
	}
	return t.PkgPath() + "." + t.Name()
}

// Ascend the call stack until we leave the replicator production code.
func shouldIgnoreFrame(f runtime.Frame) bool {
	if strings.Contains(f.File, "_test.go") {
		return false
	}
	if strings.HasPrefix(f.Function, "runtime.") {
		return true
	}
	if strings.Contains(f.Function, "github.com/contraption/replicator") &&
		!strings.Contains(f.Function, "github.com/contraption/replicator/cmd") {
		return true
	}
	return false
}

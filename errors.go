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
	"strings"

	"github.com/pkg/errors"
)

// NotFoundError is returned by Get and GetWith when an identifier has no
// binding.
type NotFoundError struct {
	ID string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("no registry entry for %q", e.ID)
}

// ResolutionError wraps any failure that happens while classifying a
// definition or producing an instance from it.
type ResolutionError struct {
	ID  string
	Err error
}

func (e *ResolutionError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("unable to resolve %q", e.ID)
	}
	return fmt.Sprintf("unable to resolve %q: %v", e.ID, e.Err)
}

// Cause returns the underlying failure.
func (e *ResolutionError) Cause() error { return e.Err }

// Unwrap returns the underlying failure.
func (e *ResolutionError) Unwrap() error { return e.Err }

// ArgumentTypeMismatchError is returned when a value for a typed parameter
// is not assignable to the declared type.
type ArgumentTypeMismatchError struct {
	Param string
	Want  reflect.Type
	Got   reflect.Type
}

func (e *ArgumentTypeMismatchError) Error() string {
	return fmt.Sprintf("argument %q is incorrect type: got %v, want %v", e.Param, e.Got, e.Want)
}

// UnresolvableArgumentError is returned when a parameter has no supplied
// value, no resolvable type, no default and is not nullable.
type UnresolvableArgumentError struct {
	Param  string
	Target string
}

func (e *UnresolvableArgumentError) Error() string {
	return fmt.Sprintf("unable to resolve argument %q of %v", e.Param, e.Target)
}

// CyclicDependencyError is returned when resolving an identifier requires
// that same identifier further down the chain. Path starts and ends with
// the repeated identifier's first and second occurrence.
type CyclicDependencyError struct {
	Path []string
}

func (e *CyclicDependencyError) Error() string {
	return "cycle detected in dependency graph: " + strings.Join(e.Path, " -> ")
}

// IsNotFound reports whether err, or any error it wraps, is a
// NotFoundError.
func IsNotFound(err error) bool {
	var target *NotFoundError
	return errors.As(err, &target)
}

// IsResolutionError reports whether err is or wraps a ResolutionError.
func IsResolutionError(err error) bool {
	var target *ResolutionError
	return errors.As(err, &target)
}

// IsArgumentTypeMismatch reports whether err is or wraps an
// ArgumentTypeMismatchError.
func IsArgumentTypeMismatch(err error) bool {
	var target *ArgumentTypeMismatchError
	return errors.As(err, &target)
}

// IsUnresolvableArgument reports whether err is or wraps an
// UnresolvableArgumentError.
func IsUnresolvableArgument(err error) bool {
	var target *UnresolvableArgumentError
	return errors.As(err, &target)
}

// IsCycleDetected reports whether err is or wraps a CyclicDependencyError.
func IsCycleDetected(err error) bool {
	var target *CyclicDependencyError
	return errors.As(err, &target)
}

// RootCause returns the innermost error of a resolution failure: the error
// a constructor returned, or the structural failure that stopped
// resolution.
func RootCause(err error) error {
	return errors.Cause(err)
}

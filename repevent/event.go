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

package repevent

import "time"

// Event defines an event emitted by a registry.
type Event interface {
	event() // Only repevent can implement this interface.
}

// Passing events by type to make Event hashable in the future.
func (*Bound) event()             {}
func (*Defined) event()           {}
func (*Resolved) event()          {}
func (*Forgotten) event()         {}
func (*StopHookExecuting) event() {}
func (*StopHookExecuted) event()  {}
func (*Closed) event()            {}

// Bound is emitted when a definition is bound to an identifier.
type Bound struct {
	// ID is the identifier the definition was bound to.
	ID string

	// Strategy is the kind of strategy the definition classified as:
	// "object", "factory", "class", "method" or "alias".
	Strategy string

	// Shared reports whether the first resolution is cached.
	Shared bool

	// Err is non-nil if the definition could not be classified. The
	// registry is left unchanged in that case.
	Err error
}

// Defined is emitted when a class is added to a registry's catalog.
type Defined struct {
	// Class is the name the class is reachable under.
	Class string

	// Constructor is the function that builds instances of the class.
	Constructor interface{}
}

// Resolved is emitted every time an identifier finishes resolving,
// including dependencies resolved on behalf of another entry.
type Resolved struct {
	ID       string
	Strategy string

	// Fresh reports whether the caller bypassed the shared cache.
	Fresh bool

	// Cached reports whether the value was served from the shared cache
	// without running the strategy.
	Cached bool

	Runtime time.Duration
	Err     error
}

// Forgotten is emitted when a binding is removed.
type Forgotten struct {
	ID string
}

// StopHookExecuting is emitted before the stop hook of a cached shared
// instance runs.
type StopHookExecuting struct {
	// ID is the identifier whose shared instance is being stopped.
	ID string

	// CallerName is the function that first resolved the instance.
	CallerName string
}

// StopHookExecuted is emitted after a stop hook has run.
type StopHookExecuted struct {
	ID         string
	CallerName string
	Runtime    time.Duration
	Err        error
}

// Closed is emitted once a registry has finished closing.
type Closed struct {
	// Err holds every stop hook failure, combined.
	Err error
}

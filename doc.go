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

// Package replicator is a service-resolution registry.
//
// A Registry maps string identifiers to recipes, called strategies, and
// produces instances from them on demand. Identifiers are conventionally
// type keys (see Key and TypeKey) but any string works.
//
// # Binding
//
// Bind classifies a definition into a strategy:
//
//	r := replicator.New()
//
//	// Object: handed out as is when shared, copied otherwise.
//	r.Bind("config", &Config{Port: 8080}, replicator.Shared())
//
//	// Factory: called on every resolution (once, when shared).
//	r.Bind("clock", func() *Clock { return NewClock() })
//
//	// Class: a constructor whose parameters are resolved for you.
//	r.Bind("server", replicator.MustClass(NewServer,
//		replicator.Arg("config"),
//		replicator.Arg("timeout", replicator.Default(time.Second)),
//	))
//
//	// Method: a function called on another resolved value.
//	r.Bind("admin", replicator.MustMethod("users", (*UserRepo).Admin))
//
//	// Alias: a string naming another bound identifier.
//	r.Bind("time-source", "clock")
//
// Strings and functions meant as plain values are wrapped with Value.
//
// # Resolving
//
// Get and GetWith resolve bound identifiers. Make and MakeWith additionally
// construct classes added with Define without binding them.
//
//	srv, err := r.Get("server")
//	srv, err := replicator.Resolve[*Server](r, "server")
//
// Class and method parameters are resolved in declaration order from the
// supplied Args, then from the registry by the parameter's type key, then
// from the declared Default, and finally as a zero value when Nullable.
//
// # Lifetimes
//
// Bindings are transient unless bound with Shared. A shared binding caches
// its first resolution; a fresh resolution (GetWith(id, args, true))
// builds a new instance without replacing the cached one. Close stops the
// shared instances the registry built.
//
// # Observability
//
// WithLogger receives a repevent.Event for every bind and resolution.
// Metrics go to the tally scope given to WithScope. Spans go to the
// tracer given to WithTracer.
//
// # Errors
//
// Failures are typed: *NotFoundError, *ResolutionError,
// *ArgumentTypeMismatchError, *UnresolvableArgumentError and
// *CyclicDependencyError. Use the Is… helpers or errors.As to inspect
// them, and RootCause to reach the innermost error.
package replicator

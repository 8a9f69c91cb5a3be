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

// Package reptest provides test helpers for code that wires a
// replicator.Registry.
package reptest

import (
	"bytes"
	"context"

	"github.com/contraption/replicator"
	"github.com/contraption/replicator/repevent"
)

// TB is a subset of the standard library's testing.TB interface. It's
// satisfied by both *testing.T and *testing.B.
type TB interface {
	Logf(string, ...interface{})
	Errorf(string, ...interface{})
	FailNow()
}

// Registry is a registry that fails the test instead of returning errors.
// Registry events are written to the test log.
type Registry struct {
	*replicator.Registry

	tb TB
}

// New builds a registry for tests. Options passed here override the test
// logger.
func New(tb TB, opts ...replicator.Option) *Registry {
	opts = append([]replicator.Option{
		replicator.WithLogger(&repevent.ConsoleLogger{W: logWriter{tb}}),
	}, opts...)

	return &Registry{
		Registry: replicator.New(opts...),
		tb:       tb,
	}
}

// MustBind calls Bind, failing the test if the definition is rejected.
func (r *Registry) MustBind(id string, def interface{}, opts ...replicator.BindOption) *Registry {
	if err := r.Bind(id, def, opts...); err != nil {
		r.tb.Errorf("registry didn't bind %q: %+v", id, err)
		r.tb.FailNow()
	}
	return r
}

// MustGet calls Get, failing the test if resolution fails.
func (r *Registry) MustGet(id string) interface{} {
	v, err := r.Get(id)
	if err != nil {
		r.tb.Errorf("registry didn't resolve %q: %+v", id, err)
		r.tb.FailNow()
	}
	return v
}

// MustMake calls Make, failing the test if resolution fails.
func (r *Registry) MustMake(typ string) interface{} {
	v, err := r.Make(typ)
	if err != nil {
		r.tb.Errorf("registry didn't make %q: %+v", typ, err)
		r.tb.FailNow()
	}
	return v
}

// MustClose stops every cached instance, failing the test if any of them
// didn't stop cleanly.
func (r *Registry) MustClose() {
	if err := r.Close(context.Background()); err != nil {
		r.tb.Errorf("registry didn't close cleanly: %v", err)
		r.tb.FailNow()
	}
}

// CloseOnCleanup hands MustClose to cleanup, usually t.Cleanup, so shared
// instances are stopped when the test finishes. It does not check for
// leaked goroutines; pair it with goleak for that.
func (r *Registry) CloseOnCleanup(cleanup func(func())) *Registry {
	cleanup(r.MustClose)
	return r
}

type logWriter struct{ tb TB }

func (w logWriter) Write(p []byte) (int, error) {
	w.tb.Logf("%s", bytes.TrimRight(p, "\n"))
	return len(p), nil
}

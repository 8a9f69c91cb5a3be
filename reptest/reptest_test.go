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

package reptest

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/contraption/replicator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

// Verify that TB always matches testing.T.
var _ TB = (*testing.T)(nil)

type tb struct {
	failures int
	errors   *bytes.Buffer
	logs     *bytes.Buffer
}

func newTB() *tb {
	return &tb{0, &bytes.Buffer{}, &bytes.Buffer{}}
}

func (t *tb) FailNow() {
	t.failures++
}

func (t *tb) Errorf(format string, args ...interface{}) {
	fmt.Fprintf(t.errors, format, args...)
	t.errors.WriteRune('\n')
}

func (t *tb) Logf(format string, args ...interface{}) {
	fmt.Fprintf(t.logs, format, args...)
	t.logs.WriteRune('\n')
}

type service struct {
	stopErr error
	stopped bool
}

func (s *service) Stop(context.Context) error {
	s.stopped = true
	return s.stopErr
}

func TestRegistrySuccess(t *testing.T) {
	spy := newTB()

	r := New(spy).MustBind("svc", func() *service { return &service{} }, replicator.Shared())
	first := r.MustGet("svc")
	assert.Same(t, first, r.MustGet("svc"))
	r.MustClose()

	assert.Zero(t, spy.failures)
	assert.Empty(t, spy.errors.String())
	assert.Contains(t, spy.logs.String(), "[Replicator] BIND\t\tsvc <= factory (shared)")
	assert.Contains(t, spy.logs.String(), "[Replicator] HOOK OnStop\t\tsvc executing")
}

func TestRegistryFailures(t *testing.T) {
	tests := []struct {
		desc    string
		run     func(*Registry)
		wantErr string
	}{
		{
			desc:    "bind",
			run:     func(r *Registry) { r.MustBind("nil", nil) },
			wantErr: `registry didn't bind "nil"`,
		},
		{
			desc:    "get",
			run:     func(r *Registry) { r.MustGet("missing") },
			wantErr: `registry didn't resolve "missing"`,
		},
		{
			desc:    "make",
			run:     func(r *Registry) { r.MustMake("missing") },
			wantErr: `registry didn't make "missing"`,
		},
		{
			desc: "close",
			run: func(r *Registry) {
				r.MustBind("svc", func() *service {
					return &service{stopErr: errors.New("stuck")}
				}, replicator.Shared())
				r.MustGet("svc")
				r.MustClose()
			},
			wantErr: "registry didn't close cleanly: stuck",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.desc, func(t *testing.T) {
			spy := newTB()
			tt.run(New(spy))

			assert.Equal(t, 1, spy.failures)
			assert.Contains(t, spy.errors.String(), tt.wantErr)
		})
	}
}

func TestCloseOnCleanup(t *testing.T) {
	spy := newTB()
	var cleanups []func()

	r := New(spy).CloseOnCleanup(func(f func()) { cleanups = append(cleanups, f) })
	r.MustBind("svc", func() *service { return &service{} }, replicator.Shared())
	svc := r.MustGet("svc").(*service)
	assert.False(t, svc.stopped)

	require.Len(t, cleanups, 1)
	cleanups[0]()
	assert.True(t, svc.stopped, "cleanup closes the registry")
	assert.Zero(t, spy.failures)
}

func TestWithRealT(t *testing.T) {
	r := New(t).CloseOnCleanup(t.Cleanup)
	r.MustBind("answer", replicator.Value(42))
	assert.Equal(t, 42, r.MustGet("answer"))
}

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

	"github.com/contraption/replicator/internal/repclock"
	"github.com/contraption/replicator/repevent"
	"github.com/opentracing/opentracing-go"
	"github.com/uber-go/tally/v4"
)

// An Option configures a Registry.
type Option interface {
	fmt.Stringer

	apply(*Registry)
}

// WithLogger sends the registry's events to logger instead of discarding
// them.
func WithLogger(logger repevent.Logger) Option {
	return loggerOption{logger}
}

type loggerOption struct{ logger repevent.Logger }

func (o loggerOption) apply(r *Registry) {
	if o.logger != nil {
		r.logger = o.logger
	}
}

func (o loggerOption) String() string {
	return fmt.Sprintf("replicator.WithLogger(%T)", o.logger)
}

// WithScope reports bind and resolution metrics to scope, under the
// "registry" prefix.
func WithScope(scope tally.Scope) Option {
	return scopeOption{scope}
}

type scopeOption struct{ scope tally.Scope }

func (o scopeOption) apply(r *Registry) {
	if o.scope != nil {
		r.metrics = newMetrics(o.scope)
	}
}

func (o scopeOption) String() string {
	return "replicator.WithScope()"
}

// Clock is a source of time. Anything with Now and Since methods can be
// passed to WithClock.
type Clock = repclock.Clock

// WithClock sets the clock used to time resolutions.
func WithClock(clock Clock) Option {
	return clockOption{clock}
}

type clockOption struct{ clock Clock }

func (o clockOption) apply(r *Registry) {
	if o.clock != nil {
		r.clock = o.clock
	}
}

func (o clockOption) String() string {
	return fmt.Sprintf("replicator.WithClock(%T)", o.clock)
}

// WithTracer records a span for every resolution that is not served from
// the cache. Dependencies resolved on behalf of an entry become child spans.
func WithTracer(tracer opentracing.Tracer) Option {
	return tracerOption{tracer}
}

type tracerOption struct{ tracer opentracing.Tracer }

func (o tracerOption) apply(r *Registry) {
	if o.tracer != nil {
		r.tracer = o.tracer
	}
}

func (o tracerOption) String() string {
	return fmt.Sprintf("replicator.WithTracer(%T)", o.tracer)
}

// A BindOption modifies a single Bind call.
type BindOption interface {
	applyBind(*bindOptions)
}

type bindOptions struct {
	shared bool
}

// Shared caches the first resolution of a binding and hands the same
// instance to every later, non-fresh request.
func Shared() BindOption {
	return sharedOption{}
}

type sharedOption struct{}

func (sharedOption) applyBind(o *bindOptions) { o.shared = true }

func (sharedOption) String() string { return "replicator.Shared()" }

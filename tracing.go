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
	"github.com/opentracing/opentracing-go"
	"github.com/opentracing/opentracing-go/ext"
	"github.com/opentracing/opentracing-go/log"
)

const _spanName = "replicator.resolve"

// startSpan opens a span for id as a child of the resolution in progress.
// Callers must hold the build lock.
func (r *Registry) startSpan(id string) (finish func(error)) {
	var opts []opentracing.StartSpanOption
	if n := len(r.build.spans); n > 0 {
		opts = append(opts, opentracing.ChildOf(r.build.spans[n-1].Context()))
	}

	span := r.tracer.StartSpan(_spanName, opts...)
	span.SetTag("replicator.id", id)
	r.build.spans = append(r.build.spans, span)

	return func(err error) {
		r.build.spans = r.build.spans[:len(r.build.spans)-1]
		if err != nil {
			ext.Error.Set(span, true)
			span.LogFields(log.Error(err))
		}
		span.Finish()
	}
}

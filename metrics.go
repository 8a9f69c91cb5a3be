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
	"time"

	"github.com/uber-go/tally/v4"
)

type metrics struct {
	binds    tally.Counter
	hits     tally.Counter
	success  tally.Counter
	failures tally.Counter
	latency  tally.Timer
}

func newMetrics(scope tally.Scope) *metrics {
	scope = scope.SubScope("registry")
	return &metrics{
		binds:    scope.Counter("bind"),
		hits:     scope.Counter("cache.hit"),
		success:  scope.Counter("resolve.success"),
		failures: scope.Counter("resolve.error"),
		latency:  scope.Timer("resolve.latency"),
	}
}

func (m *metrics) resolved(cached bool, runtime time.Duration, err error) {
	switch {
	case err != nil:
		m.failures.Inc(1)
	case cached:
		m.hits.Inc(1)
		m.success.Inc(1)
	default:
		m.success.Inc(1)
		m.latency.Record(runtime)
	}
}

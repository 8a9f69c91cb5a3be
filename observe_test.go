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

package replicator_test

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/contraption/replicator"
	"github.com/contraption/replicator/internal/repclock"
	"github.com/contraption/replicator/repevent"
	"github.com/opentracing/opentracing-go"
	"github.com/opentracing/opentracing-go/mocktracer"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uber-go/tally/v4"
)

type stoppable struct {
	name string
	log  *[]string
	err  error
}

func (s *stoppable) Stop(context.Context) error {
	*s.log = append(*s.log, s.name)
	return s.err
}

type closable struct {
	name string
	log  *[]string
	err  error
}

func (c *closable) Close() error {
	*c.log = append(*c.log, c.name)
	return c.err
}

func TestClose(t *testing.T) {
	t.Parallel()

	t.Run("ReverseConstructionOrder", func(t *testing.T) {
		t.Parallel()

		var stopped []string
		r := replicator.New()
		require.NoError(t, r.Singleton("db", func() *stoppable {
			return &stoppable{name: "db", log: &stopped}
		}))
		require.NoError(t, r.Singleton("cache", func() *closable {
			return &closable{name: "cache", log: &stopped}
		}))
		require.NoError(t, r.Bind("transient", func() *stoppable {
			return &stoppable{name: "transient", log: &stopped}
		}))
		require.NoError(t, r.Singleton("object", &stoppable{name: "object", log: &stopped}))

		db, err := r.Get("db")
		require.NoError(t, err)
		_, err = r.Get("cache")
		require.NoError(t, err)
		_, err = r.Get("transient")
		require.NoError(t, err)
		_, err = r.GetWith("db", nil, true)
		require.NoError(t, err)
		_, err = r.Get("object")
		require.NoError(t, err)

		require.NoError(t, r.Close(context.Background()))
		assert.Equal(t, []string{"cache", "db"}, stopped,
			"only cached instances the registry built are stopped")

		again, err := r.Get("db")
		require.NoError(t, err)
		assert.NotSame(t, db, again, "closing resets shared instances")

		stopped = nil
		require.NoError(t, r.Close(context.Background()))
		assert.Equal(t, []string{"db"}, stopped)
	})

	t.Run("AliasStopsTargetOnce", func(t *testing.T) {
		t.Parallel()

		var stopped []string
		r := replicator.New()
		require.NoError(t, r.Singleton("db", func() *closable {
			return &closable{name: "db", log: &stopped}
		}))
		require.NoError(t, r.Singleton("database", "db"))

		db, err := r.Get("database")
		require.NoError(t, err)
		same, err := r.Get("db")
		require.NoError(t, err)
		assert.Same(t, db, same)

		require.NoError(t, r.Close(context.Background()))
		assert.Equal(t, []string{"db"}, stopped)
	})

	t.Run("SharedAliasOfTransient", func(t *testing.T) {
		t.Parallel()

		var stopped []string
		r := replicator.New()
		require.NoError(t, r.Bind("conn", func() *closable {
			return &closable{name: "conn", log: &stopped}
		}))
		require.NoError(t, r.Singleton("pooled", "conn"))

		_, err := r.Get("pooled")
		require.NoError(t, err)

		require.NoError(t, r.Close(context.Background()))
		assert.Equal(t, []string{"conn"}, stopped)
	})

	t.Run("CombinesErrors", func(t *testing.T) {
		t.Parallel()

		var stopped []string
		r := replicator.New()
		require.NoError(t, r.Singleton("a", func() *stoppable {
			return &stoppable{name: "a", log: &stopped, err: errors.New("a failed")}
		}))
		require.NoError(t, r.Singleton("b", func() *closable {
			return &closable{name: "b", log: &stopped, err: errors.New("b failed")}
		}))
		_, err := r.Get("a")
		require.NoError(t, err)
		_, err = r.Get("b")
		require.NoError(t, err)

		err = r.Close(context.Background())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "a failed")
		assert.Contains(t, err.Error(), "b failed")
		assert.Equal(t, []string{"b", "a"}, stopped)
	})

	t.Run("ContextDone", func(t *testing.T) {
		t.Parallel()

		var stopped []string
		r := replicator.New()
		require.NoError(t, r.Singleton("a", func() *stoppable {
			return &stoppable{name: "a", log: &stopped}
		}))
		_, err := r.Get("a")
		require.NoError(t, err)

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		err = r.Close(ctx)
		assert.ErrorIs(t, err, context.Canceled)
		assert.Empty(t, stopped)
	})
}

func counters(t *testing.T, scope tally.TestScope) map[string]int64 {
	t.Helper()

	got := make(map[string]int64)
	for _, c := range scope.Snapshot().Counters() {
		got[c.Name()] = c.Value()
	}
	return got
}

func TestMetrics(t *testing.T) {
	t.Parallel()

	scope := tally.NewTestScope("", nil)
	clock := repclock.NewMock()
	r := replicator.New(replicator.WithScope(scope), replicator.WithClock(clock))

	require.NoError(t, r.Singleton("engine", func() *Engine {
		clock.Add(time.Second)
		return NewEngine()
	}))

	_, err := r.Get("engine")
	require.NoError(t, err)
	_, err = r.Get("engine")
	require.NoError(t, err)
	_, err = r.Get("missing")
	require.Error(t, err)

	assert.Equal(t, map[string]int64{
		"registry.bind":            2,
		"registry.cache.hit":       1,
		"registry.resolve.success": 2,
		"registry.resolve.error":   1,
	}, counters(t, scope))

	var latencies []time.Duration
	for _, tm := range scope.Snapshot().Timers() {
		if tm.Name() == "registry.resolve.latency" {
			latencies = append(latencies, tm.Values()...)
		}
	}
	assert.Equal(t, []time.Duration{time.Second}, latencies)
}

type frozenClock struct{ now time.Time }

func (c frozenClock) Now() time.Time { return c.now }

func (c frozenClock) Since(time.Time) time.Duration { return 3 * time.Millisecond }

func TestWithClock(t *testing.T) {
	t.Parallel()

	var clock replicator.Clock = frozenClock{now: time.Unix(0, 0)}
	scope := tally.NewTestScope("", nil)
	r := replicator.New(replicator.WithScope(scope), replicator.WithClock(clock))
	require.NoError(t, r.Bind("engine", NewEngine))

	_, err := r.Get("engine")
	require.NoError(t, err)

	var latencies []time.Duration
	for _, tm := range scope.Snapshot().Timers() {
		latencies = append(latencies, tm.Values()...)
	}
	assert.Equal(t, []time.Duration{3 * time.Millisecond}, latencies)
}

func TestEvents(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	r := replicator.New(replicator.WithLogger(&repevent.ConsoleLogger{W: &buf}))
	r.Define(carClass)

	require.NoError(t, r.Singleton("engine", NewEngine))
	require.Error(t, r.Bind("broken", nil))
	_, err := r.Get("engine")
	require.NoError(t, err)
	_, err = r.Get("engine")
	require.NoError(t, err)
	_, err = r.Get("missing")
	require.Error(t, err)
	r.Forget("engine")
	require.NoError(t, r.Close(context.Background()))

	out := buf.String()
	for _, want := range []string{
		"[Replicator] BIND\t\t*github.com/contraption/replicator.Registry <= object (shared)",
		"[Replicator] DEFINE\t*github.com/contraption/replicator_test.Car",
		"[Replicator] BIND\t\tengine <= factory (shared)",
		"[Replicator] ERROR\t\tFailed to bind broken:",
		"[Replicator] RESOLVE\tengine via factory in",
		"[Replicator] RESOLVE\tengine (cached)",
		`[Replicator] ERROR		Failed to resolve missing: no registry entry for "missing"`,
		"[Replicator] FORGET\tengine",
	} {
		assert.Contains(t, out, want)
	}
}

func TestTracing(t *testing.T) {
	t.Parallel()

	tracer := mocktracer.New()
	r := replicator.New(replicator.WithTracer(tracer))
	r.Define(carClass)
	require.NoError(t, r.Singleton(replicator.Key[*Engine](), NewEngine))

	_, err := r.Make(replicator.Key[*Car]())
	require.NoError(t, err)
	_, err = r.Get(replicator.Key[*Engine]())
	require.NoError(t, err)
	_, err = r.Get("missing")
	require.Error(t, err)

	spans := tracer.FinishedSpans()
	require.Len(t, spans, 3, "cache hits are not traced")

	engine, car, missing := spans[0], spans[1], spans[2]
	assert.Equal(t, "replicator.resolve", car.OperationName)
	assert.Equal(t, replicator.Key[*Car](), car.Tag("replicator.id"))
	assert.Equal(t, replicator.Key[*Engine](), engine.Tag("replicator.id"))
	assert.Equal(t, car.SpanContext.SpanID, engine.ParentID)
	assert.Zero(t, car.ParentID)

	assert.Equal(t, true, missing.Tag("error"))
	assert.Nil(t, car.Tag("error"))
}

func TestOptionStrings(t *testing.T) {
	t.Parallel()

	tests := []struct {
		give replicator.Option
		want string
	}{
		{replicator.WithLogger(repevent.NopLogger), "replicator.WithLogger(repevent.nopLogger)"},
		{replicator.WithScope(tally.NoopScope), "replicator.WithScope()"},
		{replicator.WithClock(repclock.System), "replicator.WithClock(repclock.systemClock)"},
		{replicator.WithTracer(opentracing.NoopTracer{}), "replicator.WithTracer(opentracing.NoopTracer)"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.give.String())
	}
}

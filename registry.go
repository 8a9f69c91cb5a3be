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
	"bytes"
	"context"
	"fmt"
	"io"
	"reflect"
	"sort"
	"sync"

	"github.com/contraption/replicator/internal/lifecycle"
	"github.com/contraption/replicator/internal/repclock"
	"github.com/contraption/replicator/repevent"
	"github.com/opentracing/opentracing-go"
	"github.com/pkg/errors"
	"github.com/uber-go/tally/v4"
)

// Stopper is implemented by shared instances that need to release
// resources when their registry is closed.
type Stopper interface {
	Stop(context.Context) error
}

// Registry maps identifiers to strategies and produces instances on
// demand. It is safe for concurrent use.
//
// Construction is serialized per registry. Factories and constructors may
// resolve from the registry on their own goroutine, but must not wait on
// another goroutine that does.
type Registry struct {
	// mu guards every strategy's cache slot along with the maps below.
	mu      sync.RWMutex
	entries map[string]strategy
	classes map[string]*Class
	watched map[interface{}]struct{} // pointers with a stop hook

	build     buildLock
	lifecycle *lifecycle.Lifecycle

	logger  repevent.Logger
	metrics *metrics
	clock   repclock.Clock
	tracer  opentracing.Tracer
}

// New builds an empty Registry. The registry binds itself, shared, under
// Key[*Registry]() so constructors can depend on it.
func New(opts ...Option) *Registry {
	r := &Registry{
		entries: make(map[string]strategy),
		classes: make(map[string]*Class),
		watched: make(map[interface{}]struct{}),
		logger:  repevent.NopLogger,
		metrics: newMetrics(tally.NoopScope),
		clock:   repclock.System,
		tracer:  opentracing.NoopTracer{},
	}
	for _, opt := range opts {
		opt.apply(r)
	}
	r.lifecycle = lifecycle.New(r.logger, r.clock)

	if err := r.Bind(Key[*Registry](), r, Shared()); err != nil {
		panic(err) // a pointer always classifies as an object
	}
	return r
}

// Bind classifies def and stores the resulting strategy under id,
// replacing any previous binding. def may be:
//
//   - a func() T, func() (T, error), func(Args) T or func(Args) (T, error),
//     called on every resolution;
//   - a *Method, called on its resolved receiver;
//   - a *Class, constructed with resolved parameters;
//   - any other non-string value, handed out as is when shared and copied
//     otherwise (see Value for strings and functions);
//   - a string naming a defined class, or else a bound identifier to
//     alias.
//
// If def cannot be classified the registry is left unchanged and a
// *ResolutionError is returned.
func (r *Registry) Bind(id string, def interface{}, opts ...BindOption) error {
	var o bindOptions
	for _, opt := range opts {
		opt.applyBind(&o)
	}

	s, err := r.classify(def)
	if err == nil {
		if alias, ok := s.(*aliasStrategy); ok && alias.target == id {
			err = errors.Errorf("cannot alias %q to itself", id)
		}
	}
	if err != nil {
		err = &ResolutionError{ID: id, Err: err}
		r.logger.LogEvent(&repevent.Bound{ID: id, Err: err})
		return err
	}

	s.slot().shared = o.shared
	if obj, ok := s.(*objectStrategy); ok && o.shared {
		obj.store(obj.obj)
	}

	r.mu.Lock()
	r.entries[id] = s
	r.mu.Unlock()

	r.metrics.binds.Inc(1)
	r.logger.LogEvent(&repevent.Bound{ID: id, Strategy: s.kind(), Shared: o.shared})
	return nil
}

// Singleton is shorthand for Bind(id, def, Shared()).
func (r *Registry) Singleton(id string, def interface{}) error {
	return r.Bind(id, def, Shared())
}

// Define adds classes to the catalog, making them available to Make and
// to string definitions in Bind.
func (r *Registry) Define(classes ...*Class) {
	r.mu.Lock()
	for _, c := range classes {
		r.classes[c.name] = c
	}
	r.mu.Unlock()

	for _, c := range classes {
		r.logger.LogEvent(&repevent.Defined{Class: c.name, Constructor: c.ctor.Interface()})
	}
}

// Defined reports whether name is a class in the catalog.
func (r *Registry) Defined(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, ok := r.classes[name]
	return ok
}

// Has reports whether id is bound. A true result means Get will not fail
// with a NotFoundError; it may still fail to resolve.
func (r *Registry) Has(id string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, ok := r.entries[id]
	return ok
}

// Forget removes the binding for id, along with its cached instance.
func (r *Registry) Forget(id string) {
	r.mu.Lock()
	_, ok := r.entries[id]
	delete(r.entries, id)
	r.mu.Unlock()

	if ok {
		r.logger.LogEvent(&repevent.Forgotten{ID: id})
	}
}

// IDs returns the bound identifiers, sorted.
func (r *Registry) IDs() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ids := make([]string, 0, len(r.entries))
	for id := range r.entries {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Get resolves id with no arguments.
func (r *Registry) Get(id string) (interface{}, error) {
	return r.GetWith(id, nil, false)
}

// GetWith resolves id, passing args to the strategy. A fresh resolution
// bypasses the shared cache and does not update it.
//
// It fails with *NotFoundError if id is not bound, and with
// *ResolutionError wrapping the cause if resolution fails.
func (r *Registry) GetWith(id string, args Args, fresh bool) (interface{}, error) {
	return r.resolve(id, args, fresh, false)
}

// Make resolves typ, which is either a bound identifier or the name of a
// defined class.
func (r *Registry) Make(typ string) (interface{}, error) {
	return r.MakeWith(typ, nil, false)
}

// MakeWith is like GetWith for bound identifiers. Otherwise it constructs
// the class named typ directly, without binding it. Every failure,
// including an unknown name, is a *ResolutionError.
func (r *Registry) MakeWith(typ string, args Args, fresh bool) (interface{}, error) {
	return r.resolve(typ, args, fresh, true)
}

// Close runs the stop hooks of shared instances this registry constructed,
// most recent first, and drops them from the cache. Instances implement
// Stopper or io.Closer to take part.
func (r *Registry) Close(ctx context.Context) error {
	err := r.lifecycle.Stop(ctx)

	r.mu.Lock()
	for _, s := range r.entries {
		if _, ok := s.(*objectStrategy); ok {
			continue
		}
		c := s.slot()
		c.resolved = false
		c.value = nil
	}
	r.watched = make(map[interface{}]struct{})
	r.mu.Unlock()

	r.logger.LogEvent(&repevent.Closed{Err: err})
	return err
}

func (r *Registry) resolve(id string, args Args, fresh, orClass bool) (v interface{}, err error) {
	var (
		kind   string
		cached bool
		start  = r.clock.Now()
	)
	defer func() {
		runtime := r.clock.Since(start)
		r.metrics.resolved(cached, runtime, err)
		r.logger.LogEvent(&repevent.Resolved{
			ID:       id,
			Strategy: kind,
			Fresh:    fresh,
			Cached:   cached,
			Runtime:  runtime,
			Err:      err,
		})
	}()

	// Cache hits never wait on construction.
	if !fresh {
		r.mu.RLock()
		if s, ok := r.entries[id]; ok {
			kind = s.kind()
			v, cached = s.slot().load()
		}
		r.mu.RUnlock()
		if cached {
			return v, nil
		}
	}

	unlock := r.build.lock()
	defer unlock()

	finish := r.startSpan(id)
	defer func() { finish(err) }()

	s, err := r.lookup(id, orClass)
	if err != nil {
		return nil, err
	}
	kind = s.kind()

	leave, cycle := r.build.enter(id)
	if cycle != nil {
		return nil, &ResolutionError{ID: id, Err: &CyclicDependencyError{Path: cycle}}
	}
	defer leave()

	v, err = r.run(id, s, args, fresh)
	if err != nil {
		return nil, &ResolutionError{ID: id, Err: err}
	}
	return v, nil
}

func (r *Registry) lookup(id string, orClass bool) (strategy, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if s, ok := r.entries[id]; ok {
		return s, nil
	}
	if !orClass {
		return nil, &NotFoundError{ID: id}
	}
	if c, ok := r.classes[id]; ok {
		return &classStrategy{class: c}, nil
	}
	return nil, &ResolutionError{ID: id, Err: &NotFoundError{ID: id}}
}

// run resolves s, honoring its cache. Must be called with the build lock
// held.
func (r *Registry) run(id string, s strategy, args Args, fresh bool) (interface{}, error) {
	c := s.slot()
	if !fresh {
		r.mu.RLock()
		v, ok := c.load()
		r.mu.RUnlock()
		if ok {
			return v, nil
		}
	}

	v, err := s.resolve(r, id, args, fresh)
	if err != nil {
		return nil, err
	}

	if c.shared && !fresh {
		r.mu.Lock()
		c.store(v)
		r.mu.Unlock()
		r.watch(id, v)
	}
	return v, nil
}

// watch registers a stop hook for a newly cached shared instance. A pointer
// cached under several identifiers, through aliases for instance, is only
// stopped once.
func (r *Registry) watch(id string, v interface{}) {
	switch v.(type) {
	case Stopper, io.Closer:
	default:
		return
	}

	if reflect.ValueOf(v).Kind() == reflect.Ptr {
		r.mu.Lock()
		_, seen := r.watched[v]
		r.watched[v] = struct{}{}
		r.mu.Unlock()
		if seen {
			return
		}
	}

	switch v := v.(type) {
	case Stopper:
		r.lifecycle.Append(lifecycle.Hook{ID: id, OnStop: v.Stop})
	case io.Closer:
		r.lifecycle.Append(lifecycle.Hook{
			ID:     id,
			OnStop: func(context.Context) error { return v.Close() },
		})
	}
}

// Clone implements Cloner. A registry holds locks and hooks that cannot be
// copied, so fresh resolutions of its self binding return r.
func (r *Registry) Clone() interface{} {
	return r
}

func (r *Registry) String() string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ids := make([]string, 0, len(r.entries))
	for id := range r.entries {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	b := &bytes.Buffer{}
	fmt.Fprintln(b, "{entries:")
	for _, id := range ids {
		s := r.entries[id]
		fmt.Fprintln(b, id, "->", s, "shared:", s.slot().shared)
	}
	fmt.Fprintln(b, "}")
	return b.String()
}

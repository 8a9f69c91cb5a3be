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

package lifecycle

import (
	"context"
	"sync"

	"github.com/contraption/replicator/internal/repclock"
	"github.com/contraption/replicator/internal/repreflect"
	"github.com/contraption/replicator/repevent"
	"go.uber.org/multierr"
)

// A Hook stops one cached shared instance. ID names the registry entry the
// instance was cached under.
type Hook struct {
	ID     string
	OnStop func(context.Context) error
	caller string
}

// Lifecycle collects stop hooks in the order instances were constructed and
// runs them in reverse.
type Lifecycle struct {
	logger repevent.Logger
	clock  repclock.Clock

	mu    sync.Mutex
	hooks []Hook
}

// New constructs a new Lifecycle. Nil arguments select NopLogger and the
// system clock.
func New(logger repevent.Logger, clock repclock.Clock) *Lifecycle {
	if logger == nil {
		logger = repevent.NopLogger
	}
	if clock == nil {
		clock = repclock.System
	}
	return &Lifecycle{logger: logger, clock: clock}
}

// Append adds a Hook to the lifecycle.
func (l *Lifecycle) Append(hook Hook) {
	hook.caller = repreflect.Caller()

	l.mu.Lock()
	defer l.mu.Unlock()
	l.hooks = append(l.hooks, hook)
}

// Len returns the number of hooks that have not run yet.
func (l *Lifecycle) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.hooks)
}

// Stop runs every OnStop hook in reverse order and forgets them. Execution
// continues past failing hooks; all errors are combined. Once ctx is done
// the remaining hooks are skipped.
func (l *Lifecycle) Stop(ctx context.Context) error {
	l.mu.Lock()
	hooks := l.hooks
	l.hooks = nil
	l.mu.Unlock()

	var errs []error
	for i := len(hooks) - 1; i >= 0; i-- {
		if err := ctx.Err(); err != nil {
			errs = append(errs, err)
			break
		}

		hook := hooks[i]
		if hook.OnStop == nil {
			continue
		}

		l.logger.LogEvent(&repevent.StopHookExecuting{
			ID:         hook.ID,
			CallerName: hook.caller,
		})

		begin := l.clock.Now()
		err := hook.OnStop(ctx)
		l.logger.LogEvent(&repevent.StopHookExecuted{
			ID:         hook.ID,
			CallerName: hook.caller,
			Runtime:    l.clock.Since(begin),
			Err:        err,
		})
		if err != nil {
			// For best-effort cleanup, keep going after errors.
			errs = append(errs, err)
		}
	}
	return multierr.Combine(errs...)
}

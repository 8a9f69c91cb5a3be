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

import (
	"fmt"
	"io"
)

// ConsoleLogger is an event logger that attempts to write human-readable
// messages to the console.
//
// Use this during development.
type ConsoleLogger struct {
	W io.Writer
}

var _ Logger = (*ConsoleLogger)(nil)

func (l *ConsoleLogger) logf(msg string, args ...interface{}) {
	fmt.Fprintf(l.W, "[Replicator] "+msg+"\n", args...)
}

// LogEvent logs the given event to the provided writer.
func (l *ConsoleLogger) LogEvent(event Event) {
	switch e := event.(type) {
	case *Bound:
		if e.Err != nil {
			l.logf("ERROR\t\tFailed to bind %v: %v", e.ID, e.Err)
		} else if e.Shared {
			l.logf("BIND\t\t%v <= %v (shared)", e.ID, e.Strategy)
		} else {
			l.logf("BIND\t\t%v <= %v", e.ID, e.Strategy)
		}
	case *Defined:
		l.logf("DEFINE\t%v", e.Class)
	case *Resolved:
		switch {
		case e.Err != nil:
			l.logf("ERROR\t\tFailed to resolve %v: %v", e.ID, e.Err)
		case e.Cached:
			l.logf("RESOLVE\t%v (cached)", e.ID)
		case e.Fresh:
			l.logf("RESOLVE\t%v via %v in %s (fresh)", e.ID, e.Strategy, e.Runtime)
		default:
			l.logf("RESOLVE\t%v via %v in %s", e.ID, e.Strategy, e.Runtime)
		}
	case *Forgotten:
		l.logf("FORGET\t%v", e.ID)
	case *StopHookExecuting:
		l.logf("HOOK OnStop\t\t%s executing (caller: %s)", e.ID, e.CallerName)
	case *StopHookExecuted:
		if e.Err != nil {
			l.logf("HOOK OnStop\t\t%s called by %s failed in %s: %v", e.ID, e.CallerName, e.Runtime, e.Err)
		} else {
			l.logf("HOOK OnStop\t\t%s called by %s ran successfully in %s", e.ID, e.CallerName, e.Runtime)
		}
	case *Closed:
		if e.Err != nil {
			l.logf("ERROR\t\tFailed to close cleanly: %v", e.Err)
		} else {
			l.logf("CLOSED")
		}
	}
}

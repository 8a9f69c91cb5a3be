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
	"github.com/contraption/replicator/internal/repreflect"
	"go.uber.org/zap"
)

// ZapLogger is an event logger that logs events to Zap.
type ZapLogger struct {
	Logger *zap.Logger
}

var _ Logger = (*ZapLogger)(nil)

// LogEvent logs the given event to the provided Zap logger.
func (l *ZapLogger) LogEvent(event Event) {
	switch e := event.(type) {
	case *Bound:
		if e.Err != nil {
			l.Logger.Error("bind failed",
				zap.String("id", e.ID),
				zap.Error(e.Err),
			)
		} else {
			l.Logger.Info("bound",
				zap.String("id", e.ID),
				zap.String("strategy", e.Strategy),
				zap.Bool("shared", e.Shared),
			)
		}
	case *Defined:
		l.Logger.Info("defined",
			zap.String("class", e.Class),
			zap.String("constructor", repreflect.FuncName(e.Constructor)),
			zap.Strings("returns", repreflect.ReturnTypes(e.Constructor)),
		)
	case *Resolved:
		if e.Err != nil {
			l.Logger.Error("resolve failed",
				zap.String("id", e.ID),
				zap.Bool("fresh", e.Fresh),
				zap.Error(e.Err),
			)
		} else {
			l.Logger.Debug("resolved",
				zap.String("id", e.ID),
				zap.String("strategy", e.Strategy),
				zap.Bool("fresh", e.Fresh),
				zap.Bool("cached", e.Cached),
				zap.String("runtime", e.Runtime.String()),
			)
		}
	case *Forgotten:
		l.Logger.Info("forgotten", zap.String("id", e.ID))
	case *StopHookExecuting:
		l.Logger.Info("hook executing",
			zap.String("method", "OnStop"),
			zap.String("id", e.ID),
			zap.String("caller", e.CallerName),
		)
	case *StopHookExecuted:
		if e.Err != nil {
			l.Logger.Info("hook execute failed",
				zap.String("method", "OnStop"),
				zap.String("id", e.ID),
				zap.String("caller", e.CallerName),
				zap.Error(e.Err),
			)
		} else {
			l.Logger.Info("hook executed",
				zap.String("method", "OnStop"),
				zap.String("id", e.ID),
				zap.String("caller", e.CallerName),
				zap.String("runtime", e.Runtime.String()),
			)
		}
	case *Closed:
		if e.Err != nil {
			l.Logger.Error("close failed", zap.Error(e.Err))
		} else {
			l.Logger.Info("closed")
		}
	}
}

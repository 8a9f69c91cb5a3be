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
	"sync"
	"sync/atomic"

	"github.com/opentracing/opentracing-go"
	"github.com/petermattis/goid"
)

// buildLock serializes construction across goroutines while letting the
// goroutine that holds it re-enter, so factories can call back into the
// registry. chain is only touched by the holder.
type buildLock struct {
	mu    sync.Mutex
	owner int64 // goroutine id of the holder, 0 when free
	depth int

	chain []string
	spans []opentracing.Span
}

func (l *buildLock) lock() (unlock func()) {
	id := goid.Get()
	if atomic.LoadInt64(&l.owner) == id {
		l.depth++
		return l.release
	}

	l.mu.Lock()
	atomic.StoreInt64(&l.owner, id)
	l.depth = 1
	return l.release
}

func (l *buildLock) release() {
	l.depth--
	if l.depth > 0 {
		return
	}
	atomic.StoreInt64(&l.owner, 0)
	l.mu.Unlock()
}

// enter pushes id onto the resolution chain. It returns the cycle when id
// is already being resolved.
func (l *buildLock) enter(id string) (leave func(), cycle []string) {
	for i, c := range l.chain {
		if c == id {
			cycle = make([]string, 0, len(l.chain)-i+1)
			cycle = append(cycle, l.chain[i:]...)
			return nil, append(cycle, id)
		}
	}

	l.chain = append(l.chain, id)
	return func() { l.chain = l.chain[:len(l.chain)-1] }, nil
}

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

// Package repdig connects a replicator.Registry to a dig container.
//
// Provide exposes a registry entry as a dig constructor so dig-built code can
// depend on it. Import goes the other way and binds a value from a dig
// container into the registry.
//
//	c := dig.New()
//	if err := repdig.Provide[*Clock](c, r, "clock"); err != nil {
//	  ...
//	}
//	err := c.Invoke(func(clock *Clock) { ... })
package repdig

import (
	"github.com/contraption/replicator"
	"github.com/pkg/errors"
	"go.uber.org/dig"
)

// Provide registers a constructor for T on c that resolves id from r. The
// registry decides sharing; dig caches whatever the first call returns.
// Options such as dig.Name are passed through.
func Provide[T any](c *dig.Container, r *replicator.Registry, id string, opts ...dig.ProvideOption) error {
	ctor := func() (T, error) {
		return replicator.Resolve[T](r, id)
	}
	if err := c.Provide(ctor, opts...); err != nil {
		return errors.Wrapf(err, "cannot provide %q to container", id)
	}
	return nil
}

// ProvideKey is Provide with the identifier derived from T.
func ProvideKey[T any](c *dig.Container, r *replicator.Registry, opts ...dig.ProvideOption) error {
	return Provide[T](c, r, replicator.Key[T](), opts...)
}

// ProvideRegistry makes r itself available to constructors in c.
func ProvideRegistry(c *dig.Container, r *replicator.Registry) error {
	return c.Provide(func() *replicator.Registry { return r })
}

// Import binds id in r to the T that c builds. The container is consulted
// on every resolution unless the binding is shared.
func Import[T any](r *replicator.Registry, c *dig.Container, id string, opts ...replicator.BindOption) error {
	factory := func() (T, error) {
		var out T
		err := c.Invoke(func(v T) { out = v })
		return out, err
	}
	return r.Bind(id, factory, opts...)
}

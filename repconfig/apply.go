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

package repconfig

import (
	"github.com/contraption/replicator"
	"github.com/pkg/errors"
	"go.uber.org/multierr"
)

// Apply binds every entry of the manifest into r. Class names must already
// be defined on r and alias targets must be bound on r or declared by the
// manifest; if any of them are missing nothing is bound.
func (m *Manifest) Apply(r *replicator.Registry) error {
	if err := m.Validate(); err != nil {
		return err
	}
	if err := m.check(r); err != nil {
		return err
	}

	var aliases []Binding
	for _, b := range m.Bindings {
		switch b.Kind() {
		case KindAlias:
			aliases = append(aliases, b)
		case KindValue:
			if err := bind(r, b, replicator.Value(b.Value)); err != nil {
				return err
			}
		case KindClass:
			if err := bind(r, b, b.Class); err != nil {
				return err
			}
		}
	}

	// Aliases may point at other aliases, so bind them once their target is.
	for len(aliases) > 0 {
		var pending []Binding
		for _, b := range aliases {
			if !r.Has(b.Alias) {
				pending = append(pending, b)
				continue
			}
			if err := bind(r, b, b.Alias); err != nil {
				return err
			}
		}
		if len(pending) == len(aliases) {
			return errors.Errorf("aliases form a cycle: %q", ids(pending))
		}
		aliases = pending
	}
	return nil
}

func (m *Manifest) check(r *replicator.Registry) error {
	declared := make(map[string]struct{}, len(m.Bindings))
	for _, b := range m.Bindings {
		declared[b.ID] = struct{}{}
	}

	var errs error
	for _, b := range m.Bindings {
		switch b.Kind() {
		case KindClass:
			if !r.Defined(b.Class) {
				errs = multierr.Append(errs, errors.Errorf("binding %q: class %q is not defined", b.ID, b.Class))
			}
		case KindAlias:
			if _, ok := declared[b.Alias]; !ok && !r.Has(b.Alias) {
				errs = multierr.Append(errs, errors.Errorf("binding %q: alias target %q is not bound", b.ID, b.Alias))
			}
		}
	}
	return errs
}

func bind(r *replicator.Registry, b Binding, def interface{}) error {
	var opts []replicator.BindOption
	if b.Shared {
		opts = append(opts, replicator.Shared())
	}
	return r.Bind(b.ID, def, opts...)
}

func ids(bs []Binding) []string {
	out := make([]string, len(bs))
	for i, b := range bs {
		out[i] = b.ID
	}
	return out
}

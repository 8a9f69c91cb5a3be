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
	"bytes"
	"fmt"
	"io"
	"io/ioutil"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"go.uber.org/multierr"
	"gopkg.in/yaml.v2"
)

// Kinds of binding a manifest may declare.
const (
	KindValue = "value"
	KindClass = "class"
	KindAlias = "alias"
)

// Manifest is a parsed, validated binding manifest.
type Manifest struct {
	Bindings []Binding `yaml:"bindings"`
}

// Binding is a single manifest entry.
type Binding struct {
	ID     string      `yaml:"id"`
	Value  interface{} `yaml:"value"`
	Class  string      `yaml:"class"`
	Alias  string      `yaml:"alias"`
	Shared bool        `yaml:"shared"`
}

// Kind returns which definition the binding declares, or "" if it
// declares none.
func (b Binding) Kind() string {
	switch {
	case b.Value != nil:
		return KindValue
	case b.Class != "":
		return KindClass
	case b.Alias != "":
		return KindAlias
	}
	return ""
}

// Target describes what the binding resolves to.
func (b Binding) Target() string {
	switch b.Kind() {
	case KindValue:
		return fmt.Sprintf("%v", b.Value)
	case KindClass:
		return b.Class
	case KindAlias:
		return b.Alias
	}
	return ""
}

// Options configure how a manifest is loaded.
type Options struct {
	// EnvFiles are dotenv files consulted for variables missing from the
	// process environment. Later files do not override earlier ones.
	EnvFiles []string

	// LookupEnv reads the process environment. Defaults to os.LookupEnv.
	LookupEnv func(string) (string, bool)
}

// LoadFile reads the manifest at path.
func LoadFile(path string, opts Options) (*Manifest, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "cannot open manifest")
	}
	defer f.Close()

	m, err := Load(f, opts)
	if err != nil {
		return nil, errors.Wrapf(err, "manifest %v", path)
	}
	return m, nil
}

// Load parses and validates a manifest. Nothing is bound; see Apply.
func Load(r io.Reader, opts Options) (*Manifest, error) {
	data, err := ioutil.ReadAll(r)
	if err != nil {
		return nil, errors.Wrap(err, "cannot read manifest")
	}

	mapping, err := opts.mapping()
	if err != nil {
		return nil, err
	}

	var m Manifest
	if err := yaml.UnmarshalStrict(bytes.TrimSpace(data), &m); err != nil {
		return nil, errors.Wrap(err, "cannot parse manifest")
	}
	for i := range m.Bindings {
		m.Bindings[i].Value = expand(m.Bindings[i].Value, mapping)
	}

	if err := m.Validate(); err != nil {
		return nil, err
	}
	return &m, nil
}

// Validate checks every binding and reports all problems at once.
func (m *Manifest) Validate() error {
	var errs error
	seen := make(map[string]int, len(m.Bindings))
	for i, b := range m.Bindings {
		if b.ID == "" {
			errs = multierr.Append(errs, errors.Errorf("binding %d: id is required", i))
		} else if prev, dup := seen[b.ID]; dup {
			errs = multierr.Append(errs, errors.Errorf("binding %d: id %q already declared by binding %d", i, b.ID, prev))
		} else {
			seen[b.ID] = i
		}

		var set int
		for _, ok := range []bool{b.Value != nil, b.Class != "", b.Alias != ""} {
			if ok {
				set++
			}
		}
		if set != 1 {
			errs = multierr.Append(errs, errors.Errorf(
				"binding %d (%q): exactly one of value, class or alias is required, found %d", i, b.ID, set))
			continue
		}

		if b.Alias != "" && b.Alias == b.ID {
			errs = multierr.Append(errs, errors.Errorf("binding %d (%q): cannot alias itself", i, b.ID))
		}
	}
	return multierr.Append(errs, m.aliasCycles())
}

// aliasCycles reports each chain of declared aliases that leads back to
// where it started. Self-aliases are reported by Validate directly.
func (m *Manifest) aliasCycles() error {
	next := make(map[string]string)
	var order []string
	for _, b := range m.Bindings {
		if b.Kind() != KindAlias || b.ID == "" || b.Alias == b.ID {
			continue
		}
		if _, dup := next[b.ID]; dup {
			continue
		}
		next[b.ID] = b.Alias
		order = append(order, b.ID)
	}

	var errs error
	done := make(map[string]bool, len(next))
	for _, id := range order {
		var path []string
		onPath := make(map[string]int)
		for !done[id] {
			target, ok := next[id]
			if !ok {
				break
			}
			if i, ok := onPath[id]; ok {
				cycle := append(path[i:], id)
				errs = multierr.Append(errs, errors.Errorf(
					"aliases form a cycle: %v", strings.Join(cycle, " -> ")))
				break
			}
			onPath[id] = len(path)
			path = append(path, id)
			id = target
		}
		for _, p := range path {
			done[p] = true
		}
	}
	return errs
}

func (o Options) mapping() (func(string) string, error) {
	lookup := o.LookupEnv
	if lookup == nil {
		lookup = os.LookupEnv
	}

	files := make(map[string]string)
	for _, name := range o.EnvFiles {
		vars, err := godotenv.Read(name)
		if err != nil {
			return nil, errors.Wrapf(err, "cannot read env file %v", name)
		}
		for k, v := range vars {
			if _, ok := files[k]; !ok {
				files[k] = v
			}
		}
	}

	return func(key string) string {
		if v, ok := lookup(key); ok {
			return v
		}
		return files[key]
	}, nil
}

// expand substitutes ${VAR} in every string of v and normalizes YAML maps
// to map[string]interface{}.
func expand(v interface{}, mapping func(string) string) interface{} {
	switch v := v.(type) {
	case string:
		return os.Expand(v, mapping)
	case []interface{}:
		out := make([]interface{}, len(v))
		for i, e := range v {
			out[i] = expand(e, mapping)
		}
		return out
	case map[interface{}]interface{}:
		out := make(map[string]interface{}, len(v))
		for k, e := range v {
			out[fmt.Sprint(k)] = expand(e, mapping)
		}
		return out
	}
	return v
}

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

package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, body string) string {
	t.Helper()

	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func run(args ...string) (string, error) {
	var out bytes.Buffer
	cmd := newRootCmd(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

const manifest = `
bindings:
  - id: greeting
    value: "hello ${REPLICATOR_TEST_NAME}"
  - id: clock
    class: "*github.com/acme/app.Clock"
    shared: true
  - id: time
    alias: clock
`

func TestValidate(t *testing.T) {
	dir := t.TempDir()

	t.Run("Valid", func(t *testing.T) {
		path := writeFile(t, dir, "ok.yaml", manifest)

		out, err := run("validate", path)
		require.NoError(t, err)
		assert.Equal(t, path+": 3 bindings OK\n", out)
	})

	t.Run("Invalid", func(t *testing.T) {
		path := writeFile(t, dir, "bad.yaml", "bindings:\n  - id: a\n")

		_, err := run("validate", path)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "exactly one of value, class or alias is required")
	})

	t.Run("AliasCycle", func(t *testing.T) {
		path := writeFile(t, dir, "cycle.yaml", `
bindings:
  - id: greeting
    value: hi
  - id: a
    alias: b
  - id: b
    alias: a
`)

		out, err := run("validate", path)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "aliases form a cycle: a -> b -> a")
		assert.NotContains(t, out, "OK")
	})

	t.Run("MissingArgument", func(t *testing.T) {
		_, err := run("validate")
		assert.Error(t, err)
	})
}

func TestList(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "bindings.yaml", manifest)
	env := writeFile(t, dir, ".env", "REPLICATOR_TEST_NAME=world\n")

	out, err := run("list", "--env-file", env, path)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 4)
	assert.Equal(t, []string{"ID", "KIND", "TARGET", "SHARED"}, strings.Fields(lines[0]))
	assert.Equal(t, []string{"greeting", "value", "hello", "world", "false"}, strings.Fields(lines[1]))
	assert.Equal(t, []string{"clock", "class", "*github.com/acme/app.Clock", "true"}, strings.Fields(lines[2]))
	assert.Equal(t, []string{"time", "alias", "clock", "false"}, strings.Fields(lines[3]))
}

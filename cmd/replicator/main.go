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

// Command replicator inspects binding manifests.
//
//	replicator validate bindings.yaml
//	replicator list --env-file .env bindings.yaml
package main

import (
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/contraption/replicator/repconfig"
	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd(os.Stdout).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd(out io.Writer) *cobra.Command {
	var envFiles []string

	root := &cobra.Command{
		Use:           "replicator",
		Short:         "Inspect replicator binding manifests",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetOut(out)
	root.PersistentFlags().StringSliceVar(&envFiles, "env-file", nil,
		"dotenv file used to expand ${VAR} references (repeatable)")

	load := func(path string) (*repconfig.Manifest, error) {
		return repconfig.LoadFile(path, repconfig.Options{EnvFiles: envFiles})
	}

	root.AddCommand(&cobra.Command{
		Use:   "validate <manifest>",
		Short: "Parse and validate a manifest",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := load(args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%v: %d bindings OK\n", args[0], len(m.Bindings))
			return nil
		},
	})

	root.AddCommand(&cobra.Command{
		Use:   "list <manifest>",
		Short: "Print the bindings a manifest declares",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := load(args[0])
			if err != nil {
				return err
			}
			return list(cmd.OutOrStdout(), m)
		},
	})

	return root
}

func list(out io.Writer, m *repconfig.Manifest) error {
	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tKIND\tTARGET\tSHARED")
	for _, b := range m.Bindings {
		fmt.Fprintf(w, "%v\t%v\t%v\t%v\n", b.ID, b.Kind(), b.Target(), b.Shared)
	}
	return w.Flush()
}

// Copyright 2025 the original author or authors.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package cli holds the root command and the helpers shared by the osmx
// subcommands.
package cli

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"m4o.io/osmx"
)

var (
	verbose  bool
	readOnly bool
)

// RootCmd is the osmx command that every subcommand registers with.
var RootCmd = &cobra.Command{
	Use:   "osmx",
	Short: "Inspect OpenStreetMap element stores",
	Long:  "Inspect the nodes, ways, relations and locations of an osmx element store",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		level := slog.LevelWarn
		if verbose {
			level = slog.LevelDebug
		}

		slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
	},
}

func init() {
	flags := RootCmd.PersistentFlags()
	flags.BoolVarP(&verbose, "verbose", "v", false, "log store activity to stderr")
	flags.BoolVar(&readOnly, "read-only", false, "open the store read only (requires an existing lock file)")
}

// Open opens the store at path with the options selected on the command
// line.
func Open(path string) (*osmx.Environment, error) {
	opts := []osmx.EnvironmentOption{osmx.WithLogger(slog.Default())}
	if readOnly {
		opts = append(opts, osmx.WithReadOnly())
	}

	return osmx.Open(path, opts...)
}

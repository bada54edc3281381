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

package osmx

import (
	"log/slog"
	"os"

	"github.com/bmatsuo/lmdb-go/lmdb"
)

const (
	// DefaultMaxDBs is enough for the three element tables, the location
	// index and room for auxiliary tables written by importers.
	DefaultMaxDBs = 10

	// DefaultMaxReaders is the LMDB default number of concurrent snapshots.
	DefaultMaxReaders = 126

	defaultFileMode os.FileMode = 0o664
)

// environmentOptions provides optional configuration parameters for
// Environment construction.
type environmentOptions struct {
	maxDBs     int
	maxReaders int
	mapSize    int64 // zero keeps the size recorded in the file
	subdir     bool  // path names a directory rather than the data file
	readahead  bool
	readOnly   bool
	logger     *slog.Logger
}

// EnvironmentOption configures how we open an environment.
type EnvironmentOption func(*environmentOptions)

// WithMaxDBs sets the maximum number of named tables.
func WithMaxDBs(n int) EnvironmentOption {
	return func(o *environmentOptions) {
		o.maxDBs = n
	}
}

// WithMaxReaders sets the maximum number of concurrently open snapshots.
func WithMaxReaders(n int) EnvironmentOption {
	return func(o *environmentOptions) {
		o.maxReaders = n
	}
}

// WithMapSize sets the size of the memory map. The size recorded in an
// existing file wins when it is larger.
func WithMapSize(size int64) EnvironmentOption {
	return func(o *environmentOptions) {
		o.mapSize = size
	}
}

// WithSubdir treats the path as a directory holding data.mdb and lock.mdb
// instead of a single data file.
func WithSubdir(subdir bool) EnvironmentOption {
	return func(o *environmentOptions) {
		o.subdir = subdir
	}
}

// WithReadahead enables OS readahead on the memory map. It is off by default.
func WithReadahead(readahead bool) EnvironmentOption {
	return func(o *environmentOptions) {
		o.readahead = readahead
	}
}

// WithReadOnly opens the environment read-only, for stores on read-only
// media. Writers in other processes cannot be observed consistently when the
// lock file is unavailable.
func WithReadOnly() EnvironmentOption {
	return func(o *environmentOptions) {
		o.readOnly = true
	}
}

// WithLogger sets the logger used for lifecycle and scan failure messages.
func WithLogger(logger *slog.Logger) EnvironmentOption {
	return func(o *environmentOptions) {
		o.logger = logger
	}
}

// defaultEnvironmentConfig provides a default configuration for environments.
var defaultEnvironmentConfig = environmentOptions{
	maxDBs:     DefaultMaxDBs,
	maxReaders: DefaultMaxReaders,
}

func (o *environmentOptions) flags() uint {
	var flags uint

	if !o.subdir {
		flags |= lmdb.NoSubdir
	}

	if !o.readahead {
		flags |= lmdb.NoReadahead
	}

	if o.readOnly {
		flags |= lmdb.Readonly
	}

	return flags
}

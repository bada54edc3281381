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

package cli

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4"
	"github.com/ulikunitz/xz"
)

// Compression is the codec applied to command output.
type Compression string

// Supported compressions.
const (
	None Compression = "none"
	Gzip Compression = "gzip"
	Zstd Compression = "zstd"
	Lz4  Compression = "lz4"
	Xz   Compression = "xz"
)

// ErrUnknownCompression is returned for a compression name that is not
// supported.
var ErrUnknownCompression = errors.New("unknown compression")

var compressions = []Compression{None, Gzip, Zstd, Lz4, Xz}

// Set implements pflag.Value.Set, accepting names in any case.
func (c *Compression) Set(val string) error {
	for _, known := range compressions {
		if strings.EqualFold(val, string(known)) {
			*c = known
			return nil
		}
	}

	return fmt.Errorf("%w: %s", ErrUnknownCompression, val)
}

// Type implements pflag.Value.Type.
func (c *Compression) Type() string {
	return "compression"
}

// String implements pflag.Value.String.
func (c *Compression) String() string {
	return string(*c)
}

type nopCloserWriter struct {
	io.Writer
}

func (w nopCloserWriter) Close() error {
	return nil
}

// NewCompressedWriter wraps w so that everything written is compressed with
// c. Closing the returned writer flushes the compressed stream but leaves w
// open.
func NewCompressedWriter(w io.Writer, c Compression) (io.WriteCloser, error) {
	switch c {
	case None, "":
		return nopCloserWriter{w}, nil
	case Gzip:
		return gzip.NewWriter(w), nil
	case Zstd:
		zw, err := zstd.NewWriter(w)
		if err != nil {
			return nil, fmt.Errorf("cannot create zstd writer: %w", err)
		}

		return zw, nil
	case Lz4:
		return lz4.NewWriter(w), nil
	case Xz:
		xw, err := xz.NewWriter(w)
		if err != nil {
			return nil, fmt.Errorf("cannot create xz writer: %w", err)
		}

		return xw, nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownCompression, c)
	}
}

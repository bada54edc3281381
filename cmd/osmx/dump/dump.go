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

package dump

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"m4o.io/osmx"
	"m4o.io/osmx/cmd/osmx/cli"
	"m4o.io/osmx/model"
)

// ErrBoundingBoxNeedsNodes is returned when a bounding box is given for a
// table other than nodes.
var ErrBoundingBoxNeedsNodes = errors.New("a bounding box only applies to nodes")

var (
	kind        string
	compression = cli.None
)

type options struct {
	kind  string
	limit int
	bbox  *model.BoundingBox
}

type summary struct {
	visited int
	written int
	extent  *model.BoundingBox
}

func init() {
	cli.RootCmd.AddCommand(dumpCmd)

	flags := dumpCmd.Flags()
	flags.VarP(cli.NewKindValue(model.NODE.String(), &kind,
		model.NODE.String(), model.WAY.String(), model.RELATION.String()),
		"type", "t", "table to dump: node, way or relation")
	flags.IntP("limit", "n", 0, "stop after writing this many records (0 writes all)")
	flags.StringP("bbox", "b", "", "only write nodes located in left,bottom,right,top")
	flags.StringP("out", "o", "", "write to this file instead of stdout")
	flags.VarP(&compression, "compression", "z", "compress output with none, gzip, zstd, lz4 or xz")
}

var dumpCmd = &cobra.Command{
	Use:   "dump <store>",
	Short: "Write a table as newline delimited JSON",
	Long:  "Write the records of a table, in identifier order, as newline delimited JSON",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		flags := cmd.Flags()

		opts := options{kind: kind}

		var err error
		if opts.limit, err = flags.GetInt("limit"); err != nil {
			log.Fatal(err)
		}

		if s, err := flags.GetString("bbox"); err != nil {
			log.Fatal(err)
		} else if s != "" {
			if opts.bbox, err = model.ParseBoundingBox(s); err != nil {
				log.Fatal(err)
			}
		}

		path, err := flags.GetString("out")
		if err != nil {
			log.Fatal(err)
		}

		f := os.Stdout
		if path != "" {
			if f, err = os.Create(path); err != nil {
				log.Fatal(err)
			}
		}

		env, err := cli.Open(args[0])
		if err != nil {
			log.Fatal(err)
		}
		defer env.Close()

		bw := bufio.NewWriter(f)

		w, err := cli.NewCompressedWriter(bw, compression)
		if err != nil {
			log.Fatal(err)
		}

		sum, err := runDump(env, w, opts, func(total int64) cli.Counter {
			return cli.TrackOutputFile(f, total)
		})
		if err != nil {
			log.Fatal(err)
		}

		if err = w.Close(); err != nil {
			log.Fatal(err)
		}

		if err = bw.Flush(); err != nil {
			log.Fatal(err)
		}

		if f != os.Stdout {
			if err = f.Close(); err != nil {
				log.Fatal(err)
			}
		}

		attrs := []any{"visited", sum.visited, "written", sum.written}
		if sum.extent != nil && !sum.extent.Empty() {
			attrs = append(attrs, "extent", sum.extent.String())
		}

		slog.Info("dump complete", attrs...)
	},
}

// runDump writes the selected table to w, one document per line, and stops
// early once the limit is reached.
func runDump(env *osmx.Environment, w io.Writer, opts options, track func(total int64) cli.Counter) (*summary, error) {
	typ, err := model.ParseElementType(opts.kind)
	if err != nil {
		return nil, err
	}

	if opts.bbox != nil && typ != model.NODE {
		return nil, ErrBoundingBoxNeedsNodes
	}

	sum := &summary{}

	err = env.View(func(s *osmx.Snapshot) error {
		d := &dumper{opts: opts, enc: json.NewEncoder(w), sum: sum}

		if opts.bbox != nil {
			locations, err := osmx.NewLocations(s)
			if err != nil {
				return err
			}

			d.locations = locations

			sum.extent = model.InitialBoundingBox()
		}

		switch typ {
		case model.NODE:
			return dumpTable(s, osmx.NewNodes, d, track)
		case model.WAY:
			return dumpTable(s, osmx.NewWays, d, track)
		default:
			return dumpTable(s, osmx.NewRelations, d, track)
		}
	})
	if err != nil {
		return nil, err
	}

	return sum, nil
}

type dumper struct {
	opts      options
	enc       *json.Encoder
	locations *osmx.Locations
	sum       *summary
	err       error
}

// accept reports whether e passes the bounding box filter.
func (d *dumper) accept(e model.Element) (bool, error) {
	if d.locations == nil {
		return true, nil
	}

	l, ok, err := d.locations.Get(e.GetID())
	if err != nil || !ok || !l.Valid() {
		return false, err
	}

	if !d.opts.bbox.ContainsLocation(l) {
		return false, nil
	}

	d.sum.extent.ExpandWithLatLng(l.Lat, l.Lon)

	return true, nil
}

func (d *dumper) visit(e model.Element, counter cli.Counter) bool {
	ok, err := d.accept(e)
	if err != nil {
		d.err = err
		return false
	}

	counter.Increment()

	if !ok {
		return true
	}

	if err = d.enc.Encode(cli.RenderElement(e, true)); err != nil {
		d.err = fmt.Errorf("cannot write %s %s: %w", e.Type(), e.GetID(), err)
		return false
	}

	d.sum.written++

	return d.opts.limit <= 0 || d.sum.written < d.opts.limit
}

func dumpTable[E model.Element](
	s *osmx.Snapshot,
	open func(*osmx.Snapshot) (*osmx.Table[E], error),
	d *dumper,
	track func(total int64) cli.Counter,
) error {
	t, err := open(s)
	if err != nil {
		return err
	}

	total, err := t.Count()
	if err != nil {
		return err
	}

	counter := track(int64(total))
	defer counter.Close()

	n, err := t.Iterate(func(e E) bool { return d.visit(e, counter) })
	if err != nil {
		return err
	}

	d.sum.visited = n

	return d.err
}

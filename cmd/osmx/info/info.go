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

package info

import (
	"encoding/json"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"runtime"

	"github.com/destel/rill"
	humanize "github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"m4o.io/osmx"
	"m4o.io/osmx/cmd/osmx/cli"
	"m4o.io/osmx/internal/codec"
	"m4o.io/osmx/model"
)

var out io.Writer = os.Stdout

type tableInfo struct {
	Name    string `json:"name"`
	Entries uint64 `json:"entries"`
	Decoded *int64 `json:"decoded,omitempty"`
}

type storeInfo struct {
	Path   string      `json:"path"`
	Size   int64       `json:"size"`
	Tables []tableInfo `json:"tables"`
}

func init() {
	cli.RootCmd.AddCommand(infoCmd)

	flags := infoCmd.Flags()
	flags.BoolP("json", "j", false, "format information in JSON")
	flags.Uint16P("cpu", "c", uint16(runtime.GOMAXPROCS(-1)), "number of CPUs to use for scanning")
	flags.BoolP("extended", "e", false, "provide extended information (decodes every record)")
}

var infoCmd = &cobra.Command{
	Use:   "info <store>",
	Short: "Print information about an element store",
	Long:  "Print the entry counts of the tables of an element store",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		flags := cmd.Flags()

		ncpu, err := flags.GetUint16("cpu")
		if err != nil {
			log.Fatal(err)
		}

		extended, err := flags.GetBool("extended")
		if err != nil {
			log.Fatal(err)
		}

		env, err := cli.Open(args[0])
		if err != nil {
			log.Fatal(err)
		}
		defer env.Close()

		info, err := runInfo(env, ncpu, extended)
		if err != nil {
			log.Fatal(err)
		}

		jsonfmt, err := flags.GetBool("json")
		if err != nil {
			log.Fatal(err)
		}
		if jsonfmt {
			renderJSON(info)
		} else {
			renderTxt(info)
		}
	},
}

func runInfo(env *osmx.Environment, ncpu uint16, extended bool) (*storeInfo, error) {
	info := &storeInfo{Path: env.Path()}

	if fi, err := os.Stat(env.Path()); err == nil && !fi.IsDir() {
		info.Size = fi.Size()
	}

	err := env.View(func(s *osmx.Snapshot) error {
		locations, err := osmx.NewLocations(s)
		if err != nil {
			return err
		}

		n, err := locations.Count()
		if err != nil {
			return err
		}

		info.Tables = append(info.Tables, tableInfo{Name: codec.LocationsTable, Entries: n})

		for _, typ := range model.ElementTypes {
			if n, err = count(s, typ); err != nil {
				return err
			}

			info.Tables = append(info.Tables, tableInfo{Name: codec.TableName(typ), Entries: n})
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	if !extended {
		return info, nil
	}

	decoded, err := decodeAll(env, ncpu)
	if err != nil {
		return nil, err
	}

	// element tables follow the location table in ElementTypes order
	for i := range decoded {
		info.Tables[i+1].Decoded = &decoded[i]
	}

	return info, nil
}

func count(s *osmx.Snapshot, typ model.ElementType) (uint64, error) {
	switch typ {
	case model.NODE:
		t, err := osmx.NewNodes(s)
		if err != nil {
			return 0, err
		}

		return t.Count()
	case model.WAY:
		t, err := osmx.NewWays(s)
		if err != nil {
			return 0, err
		}

		return t.Count()
	case model.RELATION:
		t, err := osmx.NewRelations(s)
		if err != nil {
			return 0, err
		}

		return t.Count()
	default:
		return 0, fmt.Errorf("%w: %s", model.ErrUnknownElementType, typ)
	}
}

// decodeAll scans the element tables concurrently, each on its own snapshot,
// and returns the number of records decoded per table.
func decodeAll(env *osmx.Environment, ncpu uint16) ([]int64, error) {
	if ncpu == 0 {
		ncpu = 1
	}

	types := rill.FromSlice(model.ElementTypes[:], nil)

	counts := rill.OrderedMap(types, int(ncpu), func(typ model.ElementType) (int64, error) {
		var n int

		err := env.View(func(s *osmx.Snapshot) (err error) {
			switch typ {
			case model.NODE:
				n, err = scan(s, osmx.NewNodes)
			case model.WAY:
				n, err = scan(s, osmx.NewWays)
			case model.RELATION:
				n, err = scan(s, osmx.NewRelations)
			}

			return err
		})
		if err != nil {
			slog.Error("unable to scan table", "table", codec.TableName(typ), "error", err)
			return 0, err
		}

		slog.Debug("scanned table", "table", codec.TableName(typ), "records", n)

		return int64(n), nil
	})

	return rill.ToSlice(counts)
}

func scan[E model.Element](s *osmx.Snapshot, open func(*osmx.Snapshot) (*osmx.Table[E], error)) (int, error) {
	t, err := open(s)
	if err != nil {
		return 0, err
	}

	return t.Iterate(func(E) bool { return true })
}

func renderJSON(info *storeInfo) {
	b, err := json.Marshal(info)
	if err != nil {
		log.Fatal(err)
	}
	fmt.Fprint(out, string(b))
}

func renderTxt(info *storeInfo) {
	fmt.Fprintf(out, "Path: %s\n", info.Path)
	fmt.Fprintf(out, "Size: %s\n", humanize.Bytes(uint64(info.Size)))

	for _, t := range info.Tables {
		if t.Decoded != nil {
			fmt.Fprintf(out, "%s: %s (%s decoded)\n", t.Name, humanize.Comma(int64(t.Entries)), humanize.Comma(*t.Decoded))
		} else {
			fmt.Fprintf(out, "%s: %s\n", t.Name, humanize.Comma(int64(t.Entries)))
		}
	}
}

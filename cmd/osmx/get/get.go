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

package get

import (
	"encoding/json"
	"io"
	"log"
	"os"

	"github.com/spf13/cobra"

	"m4o.io/osmx"
	"m4o.io/osmx/cmd/osmx/cli"
	"m4o.io/osmx/model"
)

var (
	out  io.Writer = os.Stdout
	kind string
)

func init() {
	cli.RootCmd.AddCommand(getCmd)

	getCmd.Flags().VarP(cli.NewKindValue(model.NODE.String(), &kind,
		model.NODE.String(), model.WAY.String(), model.RELATION.String(), cli.Location),
		"type", "t", "kind of record to look up: node, way, relation or location")
}

var getCmd = &cobra.Command{
	Use:   "get <store> <id>...",
	Short: "Print records by identifier",
	Long:  "Print one JSON document per identifier, or null when the record is not stored",
	Args:  cobra.MinimumNArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		ids := make([]model.ID, 0, len(args)-1)
		for _, arg := range args[1:] {
			id, err := model.ParseID(arg)
			if err != nil {
				log.Fatal(err)
			}

			ids = append(ids, id)
		}

		env, err := cli.Open(args[0])
		if err != nil {
			log.Fatal(err)
		}
		defer env.Close()

		if err = runGet(env, kind, ids); err != nil {
			log.Fatal(err)
		}
	},
}

// lookup returns the document for one identifier, nil when it is absent.
type lookup func(id model.ID) (any, error)

func runGet(env *osmx.Environment, kind string, ids []model.ID) error {
	return env.View(func(s *osmx.Snapshot) error {
		get, err := newLookup(s, kind)
		if err != nil {
			return err
		}

		enc := json.NewEncoder(out)

		for _, id := range ids {
			doc, err := get(id)
			if err != nil {
				return err
			}

			if err = enc.Encode(doc); err != nil {
				return err
			}
		}

		return nil
	})
}

func newLookup(s *osmx.Snapshot, kind string) (lookup, error) {
	if kind == cli.Location {
		locations, err := osmx.NewLocations(s)
		if err != nil {
			return nil, err
		}

		return func(id model.ID) (any, error) {
			l, ok, err := locations.Get(id)
			if err != nil || !ok || !l.Valid() {
				return nil, err
			}

			return cli.RenderLocation(l), nil
		}, nil
	}

	typ, err := model.ParseElementType(kind)
	if err != nil {
		return nil, err
	}

	switch typ {
	case model.NODE:
		return elementLookup(s, osmx.NewNodes)
	case model.WAY:
		return elementLookup(s, osmx.NewWays)
	default:
		return elementLookup(s, osmx.NewRelations)
	}
}

func elementLookup[E model.Element](s *osmx.Snapshot, open func(*osmx.Snapshot) (*osmx.Table[E], error)) (lookup, error) {
	t, err := open(s)
	if err != nil {
		return nil, err
	}

	return func(id model.ID) (any, error) {
		e, ok, err := t.Get(id)
		if err != nil || !ok {
			return nil, err
		}

		return cli.RenderElement(e, false), nil
	}, nil
}

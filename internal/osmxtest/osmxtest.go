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

// Package osmxtest builds element stores for tests.
package osmxtest

import (
	"fmt"

	"github.com/bmatsuo/lmdb-go/lmdb"

	"m4o.io/osmx/internal/codec"
	"m4o.io/osmx/model"
)

const (
	maxDBs  = 10
	mapSize = 64 << 20
)

// Dataset is the content of a fixture store.
type Dataset struct {
	Nodes     []*model.Node
	Ways      []*model.Way
	Relations []*model.Relation
	Locations map[model.ID]model.Location

	// Raw holds values written verbatim, keyed by table name, for stores
	// with records the codec would never produce.
	Raw map[string]map[model.ID][]byte
}

// Build creates a single file store at path holding ds.
func Build(path string, ds *Dataset) error {
	env, err := lmdb.NewEnv()
	if err != nil {
		return err
	}
	defer env.Close()

	if err = env.SetMaxDBs(maxDBs); err != nil {
		return err
	}

	if err = env.SetMapSize(mapSize); err != nil {
		return err
	}

	if err = env.Open(path, lmdb.NoSubdir, 0o664); err != nil {
		return fmt.Errorf("cannot open fixture store %s: %w", path, err)
	}

	return env.Update(ds.Write)
}

// Write puts every record of ds into txn, creating the tables as needed.
// Empty tables are created too, so a fixture always has all four.
func (ds *Dataset) Write(txn *lmdb.Txn) error {
	put := func(table string, id model.ID, v []byte) error {
		dbi, err := txn.OpenDBI(table, lmdb.Create|codec.IntegerKey)
		if err != nil {
			return err
		}

		return txn.Put(dbi, codec.Key(id), v, 0)
	}

	tables := []string{codec.LocationsTable}
	for _, t := range model.ElementTypes {
		tables = append(tables, codec.TableName(t))
	}

	for _, table := range tables {
		if _, err := txn.OpenDBI(table, lmdb.Create|codec.IntegerKey); err != nil {
			return err
		}
	}

	for _, n := range ds.Nodes {
		if err := put(codec.TableName(model.NODE), n.ID, codec.AppendNode(nil, n)); err != nil {
			return err
		}
	}

	for _, w := range ds.Ways {
		if err := put(codec.TableName(model.WAY), w.ID, codec.AppendWay(nil, w)); err != nil {
			return err
		}
	}

	for _, r := range ds.Relations {
		if err := put(codec.TableName(model.RELATION), r.ID, codec.AppendRelation(nil, r)); err != nil {
			return err
		}
	}

	for id, l := range ds.Locations {
		if err := put(codec.LocationsTable, id, codec.AppendLocation(nil, l)); err != nil {
			return err
		}
	}

	for table, values := range ds.Raw {
		for id, v := range values {
			if err := put(table, id, v); err != nil {
				return err
			}
		}
	}

	return nil
}

// Scenario returns a small, referentially incomplete dataset: way 5 refers
// to node 101 which is not stored.
func Scenario() *Dataset {
	return &Dataset{
		Nodes: []*model.Node{
			{ID: 100, Tags: model.Tags{"amenity": "cafe"}},
			{ID: 102, Tags: model.Tags{}, Metadata: &model.Metadata{
				Version:   3,
				Timestamp: 1644784822,
				Changeset: 117546012,
				UID:       42,
				User:      model.String("mapper"),
			}},
		},
		Ways: []*model.Way{
			{ID: 5, Tags: model.Tags{"highway": "residential"}, NodeIDs: []model.ID{100, 101, 102}},
		},
		Relations: []*model.Relation{
			{ID: 7, Tags: model.Tags{"type": "route"}, Members: []model.Member{
				{ID: 100, Type: model.NODE, Role: model.String("stop")},
				{ID: 5, Type: model.WAY, Role: model.String("")},
				{ID: 8, Type: model.RELATION},
			}},
		},
		Locations: map[model.ID]model.Location{
			100: {Lon: 13.405, Lat: 52.52, Version: 1},
			102: {Lon: 0, Lat: 0, Version: 3},
		},
	}
}

// Sparse returns a dataset whose node identifiers are spread so that their
// little endian byte order differs from numeric order. The nodes are listed
// out of order.
func Sparse() (*Dataset, []model.ID) {
	ids := []model.ID{1 << 40, 256, 1, 65536, 255, 257, 1<<63 + 1, 2}
	ds := &Dataset{Locations: map[model.ID]model.Location{}}

	for i, id := range ids {
		ds.Nodes = append(ds.Nodes, &model.Node{ID: id, Tags: model.Tags{"seq": fmt.Sprint(i)}})
		ds.Ways = append(ds.Ways, &model.Way{ID: id, Tags: model.Tags{}, NodeIDs: []model.ID{id}})
		ds.Relations = append(ds.Relations, &model.Relation{ID: id, Tags: model.Tags{}, Members: []model.Member{}})
		ds.Locations[id] = model.Location{Lon: 1, Lat: 1, Version: uint32(i)}
	}

	sorted := []model.ID{1, 2, 255, 256, 257, 65536, 1 << 40, 1<<63 + 1}

	return ds, sorted
}

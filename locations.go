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
	"github.com/bmatsuo/lmdb-go/lmdb"

	"m4o.io/osmx/internal/codec"
	"m4o.io/osmx/model"
)

// Locations is the node location index: node identifier to coordinates and
// the node version they were taken from.
type Locations struct {
	snap *Snapshot
	dbi  lmdb.DBI
}

// NewLocations binds the location index to s.
func NewLocations(s *Snapshot) (*Locations, error) {
	dbi, err := s.openDBI(codec.LocationsTable)
	if err != nil {
		return nil, err
	}

	return &Locations{snap: s, dbi: dbi}, nil
}

// Get returns the location of node id. The boolean is false when the index
// has no entry for id, which is not an error. An entry whose coordinates were
// never set is returned as found; check Location.Valid.
func (l *Locations) Get(id model.ID) (model.Location, bool, error) {
	v, ok, err := l.snap.get(l.dbi, codec.LocationsTable, id)
	if err != nil || !ok {
		return model.Location{}, false, err
	}

	loc, err := codec.DecodeLocation(v)
	if err != nil {
		return model.Location{}, false, &DecodeError{Table: codec.LocationsTable, ID: id, Err: err}
	}

	return loc, true, nil
}

// Exists reports whether the index has an entry for id, without decoding it.
func (l *Locations) Exists(id model.ID) (bool, error) {
	_, ok, err := l.snap.get(l.dbi, codec.LocationsTable, id)

	return ok, err
}

// Count returns the number of stored locations.
func (l *Locations) Count() (uint64, error) {
	st, err := l.snap.stat(l.dbi, codec.LocationsTable)
	if err != nil {
		return 0, err
	}

	return st.Entries, nil
}

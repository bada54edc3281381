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
	"fmt"

	"github.com/bmatsuo/lmdb-go/lmdb"

	"m4o.io/osmx/internal/codec"
	"m4o.io/osmx/model"
)

// Snapshot is a read-only, point in time view of an Environment. It never
// blocks writers and is never blocked by them.
//
// A Snapshot must not be used by more than one goroutine at a time. It may
// move between goroutines, since environments are opened without thread
// local reader slots, but callers are responsible for serialising access.
type Snapshot struct {
	env     *Environment
	txn     *lmdb.Txn
	cursors int // open scan cursors
}

// Abort ends the snapshot. It is safe to call more than once. Tables bound
// to the snapshot return ErrSnapshotReleased afterwards.
func (s *Snapshot) Abort() {
	if s.txn == nil {
		return
	}

	s.txn.Abort()
	s.txn = nil
	s.env.release()
}

// Released reports whether Abort has been called.
func (s *Snapshot) Released() bool {
	return s.txn == nil
}

// openDBI returns the handle the environment opened for name.
func (s *Snapshot) openDBI(name string) (lmdb.DBI, error) {
	if s.txn == nil {
		return 0, ErrSnapshotReleased
	}

	dbi, ok := s.env.tables[name]
	if !ok {
		return 0, fmt.Errorf("cannot open table %s: %w", name, ErrMissingTable)
	}

	return dbi, nil
}

// get returns the stored value for id. The value points into the memory map
// and is only valid until the snapshot is aborted.
func (s *Snapshot) get(dbi lmdb.DBI, name string, id model.ID) ([]byte, bool, error) {
	if s.txn == nil {
		return nil, false, ErrSnapshotReleased
	}

	var key [codec.KeySize]byte

	v, err := s.txn.Get(dbi, codec.AppendKey(key[:0], id))
	if lmdb.IsNotFound(err) {
		return nil, false, nil
	} else if err != nil {
		return nil, false, fmt.Errorf("cannot read %s record %d: %w", name, id, err)
	}

	return v, true, nil
}

func (s *Snapshot) stat(dbi lmdb.DBI, name string) (*lmdb.Stat, error) {
	if s.txn == nil {
		return nil, ErrSnapshotReleased
	}

	st, err := s.txn.Stat(dbi)
	if err != nil {
		return nil, fmt.Errorf("cannot stat table %s: %w", name, err)
	}

	return st, nil
}

func (s *Snapshot) openCursor(dbi lmdb.DBI, name string) (*lmdb.Cursor, error) {
	if s.txn == nil {
		return nil, ErrSnapshotReleased
	}

	cur, err := s.txn.OpenCursor(dbi)
	if err != nil {
		return nil, fmt.Errorf("cannot open cursor on %s: %w", name, err)
	}

	s.cursors++

	return cur, nil
}

// closeCursor is safe after Abort: read-only cursors outlive their
// transaction until closed.
func (s *Snapshot) closeCursor(cur *lmdb.Cursor) {
	cur.Close()
	s.cursors--
}

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
	"bytes"
	"fmt"
	"iter"

	"github.com/bmatsuo/lmdb-go/lmdb"

	"m4o.io/osmx/internal/codec"
	"m4o.io/osmx/model"
)

type decodeFunc[E model.Element] func(id model.ID, b []byte) (E, error)

// Table is an identifier keyed table of one element type, bound to a
// snapshot.
type Table[E model.Element] struct {
	snap   *Snapshot
	typ    model.ElementType
	name   string
	dbi    lmdb.DBI
	decode decodeFunc[E]
}

// NewNodes binds the node table to s.
func NewNodes(s *Snapshot) (*Table[*model.Node], error) {
	return openTable(s, model.NODE, func(id model.ID, b []byte) (*model.Node, error) {
		n, err := codec.DecodeNode(b)
		if err != nil {
			return nil, err
		}

		n.ID = id

		return n, nil
	})
}

// NewWays binds the way table to s.
func NewWays(s *Snapshot) (*Table[*model.Way], error) {
	return openTable(s, model.WAY, func(id model.ID, b []byte) (*model.Way, error) {
		w, err := codec.DecodeWay(b)
		if err != nil {
			return nil, err
		}

		w.ID = id

		return w, nil
	})
}

// NewRelations binds the relation table to s.
func NewRelations(s *Snapshot) (*Table[*model.Relation], error) {
	return openTable(s, model.RELATION, func(id model.ID, b []byte) (*model.Relation, error) {
		r, err := codec.DecodeRelation(b)
		if err != nil {
			return nil, err
		}

		r.ID = id

		return r, nil
	})
}

func openTable[E model.Element](s *Snapshot, typ model.ElementType, decode decodeFunc[E]) (*Table[E], error) {
	name := codec.TableName(typ)

	dbi, err := s.openDBI(name)
	if err != nil {
		return nil, err
	}

	return &Table[E]{snap: s, typ: typ, name: name, dbi: dbi, decode: decode}, nil
}

// Name returns the name of the table's key space.
func (t *Table[E]) Name() string {
	return t.name
}

// Type returns the element type stored in the table.
func (t *Table[E]) Type() model.ElementType {
	return t.typ
}

// Get returns the element with identifier id. The boolean is false when
// there is no such element. A record that exists but cannot be decoded is
// reported as a *DecodeError.
func (t *Table[E]) Get(id model.ID) (E, bool, error) {
	var zero E

	v, ok, err := t.snap.get(t.dbi, t.name, id)
	if err != nil || !ok {
		return zero, false, err
	}

	e, err := t.decode(id, v)
	if err != nil {
		return zero, false, &DecodeError{Table: t.name, ID: id, Err: err}
	}

	return e, true, nil
}

// Exists reports whether the table holds id, without decoding the record.
func (t *Table[E]) Exists(id model.ID) (bool, error) {
	_, ok, err := t.snap.get(t.dbi, t.name, id)

	return ok, err
}

// Count returns the number of records in the table, as recorded by the
// store rather than by scanning.
func (t *Table[E]) Count() (uint64, error) {
	st, err := t.snap.stat(t.dbi, t.name)
	if err != nil {
		return 0, err
	}

	return st.Entries, nil
}

// All returns every element of the table in ascending identifier order.
// The scan holds a cursor that is closed when the loop finishes, breaks,
// panics or meets an error; an error ends the sequence.
func (t *Table[E]) All() iter.Seq2[E, error] {
	return func(yield func(E, error) bool) {
		var zero E

		cur, err := t.snap.openCursor(t.dbi, t.name)
		if err != nil {
			yield(zero, err)
			return
		}
		defer t.snap.closeCursor(cur)

		for op := uint(lmdb.First); ; op = lmdb.Next {
			if t.snap.Released() {
				yield(zero, ErrSnapshotReleased)
				return
			}

			k, v, err := cur.Get(nil, nil, op)
			if lmdb.IsNotFound(err) {
				return
			} else if err != nil {
				yield(zero, fmt.Errorf("cannot advance cursor on %s: %w", t.name, err))
				return
			}

			e, err := t.decodeEntry(k, v)
			if err != nil {
				t.snap.env.logger.Error("unable to decode record", "table", t.name, "error", err)
				yield(zero, err)

				return
			}

			if !yield(e, nil) {
				return
			}
		}
	}
}

func (t *Table[E]) decodeEntry(k, v []byte) (E, error) {
	var zero E

	id, err := codec.DecodeKey(k)
	if err != nil {
		// the key points into the memory map
		return zero, &DecodeError{Table: t.name, Key: bytes.Clone(k), Err: err}
	}

	e, err := t.decode(id, v)
	if err != nil {
		return zero, &DecodeError{Table: t.name, ID: id, Err: err}
	}

	return e, nil
}

// Iterate calls visit with every element in ascending identifier order until
// visit returns false. It returns the number of elements visited, counting
// the one that stopped the scan. On error the count is zero.
func (t *Table[E]) Iterate(visit func(E) bool) (int, error) {
	if visit == nil {
		return 0, ErrNilVisitor
	}

	var n int

	for e, err := range t.All() {
		if err != nil {
			return 0, err
		}

		n++

		if !visit(e) {
			break
		}
	}

	return n, nil
}

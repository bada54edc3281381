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

// Package codec encodes and decodes the binary records of the element store.
//
// Element records use the protobuf wire format and are walked directly with
// protowire, so decoding a record allocates only the values it returns and
// never more than the record's own size. Field numbers the decoder does not
// know are skipped; that is where later producers add optional fields.
//
//	message Metadata { uint32 version = 1; int64 timestamp = 2; uint64 changeset = 3;
//	                   uint32 uid = 4; optional string user = 5; }
//	message Node     { repeated string tags = 1; Metadata metadata = 2; }
//	message Way      { repeated sint64 nodes = 1 [packed]; // delta coded
//	                   repeated string tags = 2; Metadata metadata = 3; }
//	message Member   { uint64 ref = 1; Type type = 2; optional string role = 3; }
//	message Relation { repeated string tags = 1; repeated Member members = 2;
//	                   Metadata metadata = 3; }
//
// Locations are fixed width and keys are 8-byte native order identifiers.
package codec

import (
	"encoding/binary"
	"errors"
	"fmt"

	"google.golang.org/protobuf/encoding/protowire"

	"m4o.io/osmx/model"
)

var (
	// ErrCorrupt is returned when stored bytes do not conform to the record
	// layout.
	ErrCorrupt = errors.New("corrupt record")

	// ErrUnknownMemberType is returned when a relation member has a type
	// other than node, way or relation.
	ErrUnknownMemberType = errors.New("unknown member type")
)

// KeySize is the size of an encoded identifier.
const KeySize = 8

// IntegerKey is the MDB_INTEGERKEY table flag, which lmdb-go does not
// export. Tables are opened with it so that keys compare as native integers.
const IntegerKey uint = 0x08

// AppendKey appends the native order encoding of id to b.
func AppendKey(b []byte, id model.ID) []byte {
	return binary.NativeEndian.AppendUint64(b, uint64(id))
}

// Key returns the encoded form of id.
func Key(id model.ID) []byte {
	return AppendKey(make([]byte, 0, KeySize), id)
}

// DecodeKey converts a stored key back into an identifier.
func DecodeKey(key []byte) (model.ID, error) {
	if len(key) != KeySize {
		return 0, fmt.Errorf("%w: key is %d bytes, expected %d", ErrCorrupt, len(key), KeySize)
	}

	return model.ID(binary.NativeEndian.Uint64(key)), nil
}

// fieldFunc decodes one field whose tag has already been consumed and
// returns the number of value bytes it used.
type fieldFunc func(num protowire.Number, typ protowire.Type, b []byte) (int, error)

// walk calls fn for every field in msg.
func walk(msg []byte, fn fieldFunc) error {
	for len(msg) > 0 {
		num, typ, n := protowire.ConsumeTag(msg)
		if n < 0 {
			return corrupt(protowire.ParseError(n))
		}

		msg = msg[n:]

		m, err := fn(num, typ, msg)
		if err != nil {
			return err
		}

		msg = msg[m:]
	}

	return nil
}

// skip consumes the value of a field the decoder does not know.
func skip(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
	n := protowire.ConsumeFieldValue(num, typ, b)
	if n < 0 {
		return 0, corrupt(protowire.ParseError(n))
	}

	return n, nil
}

func corrupt(err error) error {
	return fmt.Errorf("%w: %w", ErrCorrupt, err)
}

func wrongType(num protowire.Number, typ protowire.Type) error {
	return fmt.Errorf("%w: field %d has wire type %d", ErrCorrupt, num, typ)
}

func consumeBytes(num protowire.Number, typ protowire.Type, b []byte) ([]byte, int, error) {
	if typ != protowire.BytesType {
		return nil, 0, wrongType(num, typ)
	}

	v, n := protowire.ConsumeBytes(b)
	if n < 0 {
		return nil, 0, corrupt(protowire.ParseError(n))
	}

	return v, n, nil
}

func consumeVarint(num protowire.Number, typ protowire.Type, b []byte) (uint64, int, error) {
	if typ != protowire.VarintType {
		return 0, 0, wrongType(num, typ)
	}

	v, n := protowire.ConsumeVarint(b)
	if n < 0 {
		return 0, 0, corrupt(protowire.ParseError(n))
	}

	return v, n, nil
}

// LocationsTable is the name of the location key space.
const LocationsTable = "locations"

// TableName returns the name of the key space holding elements of type t.
func TableName(t model.ElementType) string {
	switch t {
	case model.NODE:
		return "nodes"
	case model.WAY:
		return "ways"
	case model.RELATION:
		return "relations"
	default:
		panic(fmt.Sprintf("unknown element type %v", t))
	}
}

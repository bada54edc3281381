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

package codec

import (
	"fmt"

	"google.golang.org/protobuf/encoding/protowire"

	"m4o.io/osmx/model"
)

const (
	relationTags     protowire.Number = 1
	relationMembers  protowire.Number = 2
	relationMetadata protowire.Number = 3

	memberRef  protowire.Number = 1
	memberType protowire.Number = 2
	memberRole protowire.Number = 3
)

// DecodeRelation decodes a relation record.
func DecodeRelation(b []byte) (*model.Relation, error) {
	r := &model.Relation{Members: []model.Member{}}
	tags := newTagsDecoder()

	err := walk(b, func(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
		switch num {
		case relationTags:
			return tags.consume(num, typ, b)
		case relationMembers:
			v, n, err := consumeBytes(num, typ, b)
			if err != nil {
				return 0, err
			}

			m, err := decodeMember(v)
			if err != nil {
				return 0, err
			}

			r.Members = append(r.Members, m)

			return n, nil
		case relationMetadata:
			return consumeMetadata(&r.Metadata, num, typ, b)
		default:
			return skip(num, typ, b)
		}
	})
	if err != nil {
		return nil, err
	}

	r.Tags = tags.tags

	return r, nil
}

func decodeMember(b []byte) (model.Member, error) {
	var m model.Member

	err := walk(b, func(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
		switch num {
		case memberRef:
			v, n, err := consumeVarint(num, typ, b)
			m.ID = model.ID(v)

			return n, err
		case memberType:
			v, n, err := consumeVarint(num, typ, b)
			if err != nil {
				return 0, err
			}

			t, err := decodeMemberType(v)
			m.Type = t

			return n, err
		case memberRole:
			v, n, err := consumeBytes(num, typ, b)
			if err == nil {
				m.Role = model.String(string(v))
			}

			return n, err
		default:
			return skip(num, typ, b)
		}
	})

	return m, err
}

// decodeMemberType converts the stored member type to an ElementType.
func decodeMemberType(v uint64) (model.ElementType, error) {
	switch v {
	case 0:
		return model.NODE, nil
	case 1:
		return model.WAY, nil
	case 2:
		return model.RELATION, nil
	default:
		return 0, fmt.Errorf("%w: %w %d", ErrCorrupt, ErrUnknownMemberType, v)
	}
}

func encodeMemberType(t model.ElementType) uint64 {
	switch t {
	case model.NODE:
		return 0
	case model.WAY:
		return 1
	case model.RELATION:
		return 2
	default:
		panic(fmt.Sprintf("unknown member type %v", t))
	}
}

// AppendRelation appends the record encoding of r to b. It panics on a
// member whose type is not a known ElementType.
func AppendRelation(b []byte, r *model.Relation) []byte {
	b = appendTags(b, relationTags, r.Tags)

	var msg []byte

	for _, m := range r.Members {
		msg = appendVarintField(msg[:0], memberRef, uint64(m.ID))
		msg = appendVarintField(msg, memberType, encodeMemberType(m.Type))

		if m.Role != nil {
			msg = protowire.AppendTag(msg, memberRole, protowire.BytesType)
			msg = protowire.AppendString(msg, *m.Role)
		}

		b = protowire.AppendTag(b, relationMembers, protowire.BytesType)
		b = protowire.AppendBytes(b, msg)
	}

	return appendMetadata(b, relationMetadata, r.Metadata)
}

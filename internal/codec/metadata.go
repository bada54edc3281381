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
	"maps"
	"slices"

	"google.golang.org/protobuf/encoding/protowire"

	"m4o.io/osmx/model"
)

const (
	metadataVersion   protowire.Number = 1
	metadataTimestamp protowire.Number = 2
	metadataChangeset protowire.Number = 3
	metadataUID       protowire.Number = 4
	metadataUser      protowire.Number = 5
)

func decodeMetadata(b []byte) (*model.Metadata, error) {
	m := &model.Metadata{}

	err := walk(b, func(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
		switch num {
		case metadataVersion:
			v, n, err := consumeVarint(num, typ, b)
			m.Version = uint32(v)

			return n, err
		case metadataTimestamp:
			v, n, err := consumeVarint(num, typ, b)
			m.Timestamp = int64(v)

			return n, err
		case metadataChangeset:
			v, n, err := consumeVarint(num, typ, b)
			m.Changeset = v

			return n, err
		case metadataUID:
			v, n, err := consumeVarint(num, typ, b)
			m.UID = uint32(v)

			return n, err
		case metadataUser:
			v, n, err := consumeBytes(num, typ, b)
			if err == nil {
				m.User = model.String(string(v))
			}

			return n, err
		default:
			return skip(num, typ, b)
		}
	})
	if err != nil {
		return nil, err
	}

	return m, nil
}

func appendMetadata(b []byte, num protowire.Number, m *model.Metadata) []byte {
	if m == nil {
		return b
	}

	var msg []byte

	msg = appendVarintField(msg, metadataVersion, uint64(m.Version))
	msg = appendVarintField(msg, metadataTimestamp, uint64(m.Timestamp))
	msg = appendVarintField(msg, metadataChangeset, m.Changeset)
	msg = appendVarintField(msg, metadataUID, uint64(m.UID))

	if m.User != nil {
		msg = protowire.AppendTag(msg, metadataUser, protowire.BytesType)
		msg = protowire.AppendString(msg, *m.User)
	}

	b = protowire.AppendTag(b, num, protowire.BytesType)

	return protowire.AppendBytes(b, msg)
}

// appendVarintField omits zero values, as proto3 does for scalars.
func appendVarintField(b []byte, num protowire.Number, v uint64) []byte {
	if v == 0 {
		return b
	}

	b = protowire.AppendTag(b, num, protowire.VarintType)

	return protowire.AppendVarint(b, v)
}

// tagsDecoder rebuilds tags from the alternating key/value list. A key
// without a value is dropped.
type tagsDecoder struct {
	tags   model.Tags
	key    string
	hasKey bool
}

func newTagsDecoder() *tagsDecoder {
	return &tagsDecoder{tags: model.Tags{}}
}

func (d *tagsDecoder) consume(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
	v, n, err := consumeBytes(num, typ, b)
	if err != nil {
		return 0, err
	}

	if d.hasKey {
		d.tags[d.key] = string(v)
		d.hasKey = false
	} else {
		d.key = string(v)
		d.hasKey = true
	}

	return n, nil
}

// appendTags writes tags in key order so that equal tags encode equally.
func appendTags(b []byte, num protowire.Number, tags model.Tags) []byte {
	for _, k := range slices.Sorted(maps.Keys(tags)) {
		b = protowire.AppendTag(b, num, protowire.BytesType)
		b = protowire.AppendString(b, k)
		b = protowire.AppendTag(b, num, protowire.BytesType)
		b = protowire.AppendString(b, tags[k])
	}

	return b
}

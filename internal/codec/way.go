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
	"google.golang.org/protobuf/encoding/protowire"

	"m4o.io/osmx/model"
)

const (
	wayNodes    protowire.Number = 1
	wayTags     protowire.Number = 2
	wayMetadata protowire.Number = 3
)

// DecodeWay decodes a way record. Node references are returned as stored;
// whether they resolve is not checked.
func DecodeWay(b []byte) (*model.Way, error) {
	w := &model.Way{}
	tags := newTagsDecoder()
	nodes := &deltaDecoder[model.ID]{}

	err := walk(b, func(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
		switch num {
		case wayNodes:
			return nodes.consume(num, typ, b)
		case wayTags:
			return tags.consume(num, typ, b)
		case wayMetadata:
			return consumeMetadata(&w.Metadata, num, typ, b)
		default:
			return skip(num, typ, b)
		}
	})
	if err != nil {
		return nil, err
	}

	w.Tags = tags.tags
	w.NodeIDs = nodes.vals

	if w.NodeIDs == nil {
		w.NodeIDs = []model.ID{}
	}

	return w, nil
}

// AppendWay appends the record encoding of w to b.
func AppendWay(b []byte, w *model.Way) []byte {
	if len(w.NodeIDs) > 0 {
		b = protowire.AppendTag(b, wayNodes, protowire.BytesType)
		b = protowire.AppendBytes(b, appendDeltas(nil, w.NodeIDs))
	}

	b = appendTags(b, wayTags, w.Tags)

	return appendMetadata(b, wayMetadata, w.Metadata)
}

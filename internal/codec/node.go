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
	nodeTags     protowire.Number = 1
	nodeMetadata protowire.Number = 2
)

// DecodeNode decodes a node record. The identifier is not part of the record
// and is left for the caller to set.
func DecodeNode(b []byte) (*model.Node, error) {
	n := &model.Node{}
	tags := newTagsDecoder()

	err := walk(b, func(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
		switch num {
		case nodeTags:
			return tags.consume(num, typ, b)
		case nodeMetadata:
			return consumeMetadata(&n.Metadata, num, typ, b)
		default:
			return skip(num, typ, b)
		}
	})
	if err != nil {
		return nil, err
	}

	n.Tags = tags.tags

	return n, nil
}

// AppendNode appends the record encoding of n to b.
func AppendNode(b []byte, n *model.Node) []byte {
	b = appendTags(b, nodeTags, n.Tags)

	return appendMetadata(b, nodeMetadata, n.Metadata)
}

func consumeMetadata(m **model.Metadata, num protowire.Number, typ protowire.Type, b []byte) (int, error) {
	v, n, err := consumeBytes(num, typ, b)
	if err != nil {
		return 0, err
	}

	if *m, err = decodeMetadata(v); err != nil {
		return 0, err
	}

	return n, nil
}
